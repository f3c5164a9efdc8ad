// Package gate implements the capability-gated yield: the only path from a
// scheduling decision to a context switch.
//
// Every yield re-validates the capability against the table, so revoking a
// capability is enough to stop its context from ever running again.
package gate

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/capability"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/model"
)

var (
	ErrNullCapability    = errors.New("gate: null capability")
	ErrInvalidCapability = errors.New("gate: invalid capability")
	ErrNoContext         = errors.New("gate: no saved context")
	ErrSwitchFailed      = errors.New("gate: switch failed")
)

// An Observer is told about every gated yield, successful or not.
//
// Observers run on the yielding goroutine and must not block.
type Observer interface {
	Observe(ev model.SwitchEvent)
}

// A Yielder hands the processor to the context a capability names.
type Yielder interface {
	Yield(h capability.Handle) error
}

type Gate struct {
	caps      *capability.Table
	contexts  Resolver
	switcher  Switcher
	observers []Observer
	logger    *log.Logger
	now       func() time.Time

	seq     atomic.Uint64
	current atomic.Pointer[SavedContext]
}

// Creates a new gate over the given table.
func New(caps *capability.Table, contexts Resolver, switcher Switcher, logger *log.Logger) *Gate {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Gate{
		caps:     caps,
		contexts: contexts,
		switcher: switcher,
		logger:   logger,
		now:      time.Now,
	}
}

// AddObserver registers o. It must be called before the gate is shared.
func (g *Gate) AddObserver(o Observer) {
	g.observers = append(g.observers, o)
}

// Yield switches to the context h names, on behalf of no particular
// scheduler.
func (g *Gate) Yield(h capability.Handle) error {
	return g.yield("", h)
}

// Port returns a Yielder that tags its events with the scheduler name.
func (g *Gate) Port(scheduler string) Yielder {
	return port{g: g, name: scheduler}
}

type port struct {
	g    *Gate
	name string
}

func (p port) Yield(h capability.Handle) error { return p.g.yield(p.name, h) }

func (g *Gate) yield(scheduler string, h capability.Handle) error {
	ev := model.SwitchEvent{
		Scheduler: scheduler,
		Handle:    h,
	}
	err := g.switchTo(h, &ev)
	if err != nil {
		g.logger.Printf("[GATE] %s yield to %s: %v", scheduler, h, err)
	}

	ev.Seq = g.seq.Add(1)
	ev.Time = g.now()
	for _, o := range g.observers {
		o.Observe(ev)
	}
	return err
}

func (g *Gate) switchTo(h capability.Handle, ev *model.SwitchEvent) error {
	if h.IsNull() {
		ev.Outcome = model.OutcomeNullCapability
		return ErrNullCapability
	}

	entry, ok := g.caps.Lookup(h)
	if !ok {
		ev.Outcome = model.OutcomeInvalidCapability
		return fmt.Errorf("%w: %s", ErrInvalidCapability, h)
	}
	ev.Resource = entry.Resource

	target, ok := g.contexts.Resolve(entry.Resource)
	if !ok {
		ev.Outcome = model.OutcomeNoContext
		return fmt.Errorf("%w: resource %d", ErrNoContext, entry.Resource)
	}

	from := g.current.Swap(target)
	err := g.switcher.Switch(from, target)
	g.current.Store(from)
	if err != nil {
		ev.Outcome = model.OutcomeSwitchFailed
		return fmt.Errorf("%w: %v", ErrSwitchFailed, err)
	}
	ev.Outcome = model.OutcomeSwitched
	return nil
}

// Current returns the context that is running, if any.
func (g *Gate) Current() *SavedContext {
	return g.current.Load()
}
