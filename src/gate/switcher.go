package gate

import (
	"errors"
	"sync/atomic"
)

// A Switcher performs the low-level context switch: it suspends from and
// resumes to. from is nil when no context is current.
type Switcher interface {
	Switch(from, to *SavedContext) error
}

var ErrNoEntry = errors.New("gate: context has no entry")

// StepSwitcher resumes a context by running its Entry on the calling
// goroutine. The switch returns when the entry does, which is the point
// where the target yields back.
type StepSwitcher struct {
	switches atomic.Uint64
}

func (s *StepSwitcher) Switch(from, to *SavedContext) error {
	if to.Entry == nil {
		return ErrNoEntry
	}
	s.switches.Add(1)
	to.Entry()
	return nil
}

func (s *StepSwitcher) Switches() uint64 {
	return s.switches.Load()
}
