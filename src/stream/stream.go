// Package stream chains scheduler modules and dispatches halt and yield
// requests to the active chain.
package stream

import "strings"

// A scheduler module.
//
// Halt and Yield are optional: a module may implement Halter, Yielder, both,
// or neither. A missing operation is skipped, not an error.
type Module interface {
	Name() string
}

type Halter interface {
	// Halt is called when the processor has nothing left to run.
	Halt()
}

type Yielder interface {
	// Yield picks the next context and switches to it, at most once.
	Yield()
}

// A Stream is an immutable, ordered chain of modules. Dispatch visits the
// modules in order.
type Stream struct {
	modules []Module
}

// New creates a stream from modules, skipping nil entries.
func New(modules ...Module) *Stream {
	s := &Stream{modules: make([]Module, 0, len(modules))}
	for _, m := range modules {
		if m != nil {
			s.modules = append(s.modules, m)
		}
	}
	return s
}

// Then returns a new stream with m appended. s is unchanged.
func (s *Stream) Then(m Module) *Stream {
	return New(append(s.Modules(), m)...)
}

// Modules returns a copy of the chain.
func (s *Stream) Modules() []Module {
	out := make([]Module, len(s.modules))
	copy(out, s.modules)
	return out
}

func (s *Stream) Len() int { return len(s.modules) }

func (s *Stream) String() string {
	names := make([]string, len(s.modules))
	for i, m := range s.modules {
		names[i] = m.Name()
	}
	return strings.Join(names, "->")
}
