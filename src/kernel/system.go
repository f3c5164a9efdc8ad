// Package kernel assembles the capability table, the gate and both
// schedulers into one runnable system.
package kernel

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/capability"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/config"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/gate"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/metrics"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/scheduler"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/stream"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/trace"
)

// DefaultRights are granted to every spawned context.
const DefaultRights = capability.RightRead | capability.RightExec

type System struct {
	Table      *capability.Table
	Contexts   *gate.ContextTable
	Switcher   *gate.StepSwitcher
	Gate       *gate.Gate
	Dispatcher *stream.Dispatcher
	DAG        *scheduler.DAG
	Beatty     *scheduler.Beatty
	Recorder   *trace.Recorder

	// Fairness counts the Beatty scheduler's switches only.
	Fairness *metrics.Fairness
	Outcomes *metrics.Outcomes

	logger *log.Logger

	mu           sync.Mutex
	nextResource uint32
	names        map[uint32]string
}

// New builds a system from cfg. The Beatty → DAG stream is registered on
// the system's own dispatcher, not the process-wide one.
func New(cfg config.Config, logger *log.Logger) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	s := &System{
		Table:        capability.NewTable(cfg.Table.Capacity),
		Contexts:     gate.NewContextTable(),
		Switcher:     &gate.StepSwitcher{},
		Recorder:     trace.NewRecorder(cfg.Trace.Buffer),
		Fairness:     metrics.NewFairness(scheduler.BeattyName),
		Outcomes:     metrics.NewOutcomes(),
		logger:       logger,
		nextResource: 1,
		names:        map[uint32]string{},
	}
	s.Gate = gate.New(s.Table, s.Contexts, s.Switcher, logger)
	s.Gate.AddObserver(s.Recorder)
	s.Gate.AddObserver(s.Fairness)
	s.Gate.AddObserver(s.Outcomes)

	s.Dispatcher = stream.NewDispatcher(nil, logger)
	s.Beatty = scheduler.NewBeatty(s.Gate.Port(scheduler.BeattyName), logger)
	s.DAG = scheduler.NewDAG(s.Gate.Port(scheduler.DAGName), scheduler.DAGOptions{
		InitialCapacity: cfg.DAG.InitialCapacity,
		MaxCapacity:     cfg.DAG.MaxCapacity,
		Logger:          logger,
	})
	scheduler.RegisterBeattyDAG(s.Dispatcher, s.Beatty, s.DAG)
	return s, nil
}

// Spawn binds entry to a fresh resource id and returns a capability for it.
func (s *System) Spawn(name string, kind capability.Kind, owner uint32, entry func()) (capability.Handle, error) {
	s.mu.Lock()
	resource := s.nextResource
	s.nextResource++
	s.names[resource] = name
	s.mu.Unlock()

	s.Contexts.Bind(&gate.SavedContext{ID: resource, Entry: entry})
	h, err := s.Table.Alloc(kind, resource, DefaultRights, owner)
	if err != nil {
		s.Contexts.Unbind(resource)
		s.mu.Lock()
		delete(s.names, resource)
		s.mu.Unlock()
		return capability.NullHandle, fmt.Errorf("spawn %s: %w", name, err)
	}
	s.logger.Printf("[KERNEL] spawned %s as %s (resource %d)", name, h, resource)
	return h, nil
}

// Kill revokes h and drops its saved context. Every copy of h, including
// ones queued in a scheduler, stops validating.
func (s *System) Kill(h capability.Handle) error {
	entry, err := s.Table.Validate(h)
	if err != nil {
		return fmt.Errorf("kill %s: %w", h, err)
	}
	if err := s.Table.Revoke(h); err != nil {
		return fmt.Errorf("kill %s: %w", h, err)
	}
	s.Contexts.Unbind(entry.Resource)
	s.logger.Printf("[KERNEL] killed %s (%s)", h, s.Name(entry.Resource))
	return nil
}

// Name returns the name a resource was spawned with.
func (s *System) Name(resource uint32) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name, ok := s.names[resource]; ok {
		return name
	}
	return fmt.Sprintf("resource-%d", resource)
}

// Run dispatches the active stream yields times, or until ctx is done when
// yields is zero. tick, if set, is called after each dispatch.
func (s *System) Run(ctx context.Context, yields int, tick func()) error {
	for i := 0; yields == 0 || i < yields; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Dispatcher.Yield()
		if tick != nil {
			tick()
		}
	}
	return nil
}
