package stream

import (
	"io"
	"log"
	"runtime"
	"sync"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/spin"
)

// Dispatcher holds the active stream.
//
// Register may race with Halt and Yield; each dispatch reads the active
// pointer once under the lock and walks that snapshot with the lock
// released, since modules switch contexts while they run.
type Dispatcher struct {
	lock   spin.Lock
	active *Stream

	idle   func()
	logger *log.Logger
}

// Creates a new dispatcher. idle runs on Halt when no stream is registered;
// nil installs a default that logs and gives up the processor.
func NewDispatcher(idle func(), logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	d := &Dispatcher{idle: idle, logger: logger}
	if d.idle == nil {
		d.idle = d.defaultIdle
	}
	return d
}

func (d *Dispatcher) defaultIdle() {
	d.logger.Println("[STREAM] no active stream, halting")
	runtime.Gosched()
}

// Register makes s the active stream, replacing any previous one. The old
// stream is left untouched; nil clears the active stream.
func (d *Dispatcher) Register(s *Stream) {
	d.lock.Lock()
	d.active = s
	d.lock.Unlock()

	if s != nil {
		d.logger.Printf("[STREAM] registered %s", s)
	}
}

func (d *Dispatcher) Active() *Stream {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.active
}

// Halt calls every Halter of the active stream in chain order, or the idle
// action if there is no active stream.
func (d *Dispatcher) Halt() {
	s := d.Active()
	if s == nil {
		d.idle()
		return
	}
	for _, m := range s.modules {
		if h, ok := m.(Halter); ok {
			h.Halt()
		}
	}
}

// Yield calls every Yielder of the active stream in chain order. Without an
// active stream it does nothing.
func (d *Dispatcher) Yield() {
	s := d.Active()
	if s == nil {
		return
	}
	for _, m := range s.modules {
		if y, ok := m.(Yielder); ok {
			y.Yield()
		}
	}
}

var (
	defaultOnce       sync.Once
	defaultDispatcher *Dispatcher
)

// Default returns the process-wide dispatcher, creating it on first use.
func Default() *Dispatcher {
	defaultOnce.Do(func() {
		defaultDispatcher = NewDispatcher(nil, log.Default())
	})
	return defaultDispatcher
}

func Register(s *Stream) { Default().Register(s) }
func Halt()              { Default().Halt() }
func Yield()             { Default().Yield() }
