package scheduler_test

import (
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/capability"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/gate"
)

// Records every handle it is asked to yield to and refuses the rejected ones.
type recordingGate struct {
	yields   []capability.Handle
	rejected map[capability.Handle]bool
	during   func(h capability.Handle)
}

func newRecordingGate() *recordingGate {
	return &recordingGate{rejected: map[capability.Handle]bool{}}
}

func (g *recordingGate) Yield(h capability.Handle) error {
	g.yields = append(g.yields, h)
	if g.during != nil {
		g.during(h)
	}
	if h.IsNull() {
		return gate.ErrNullCapability
	}
	if g.rejected[h] {
		return gate.ErrInvalidCapability
	}
	return nil
}

// Handles that are distinct and non-null.
func handle(n uint16) capability.Handle {
	return capability.MakeHandle(n, 1)
}
