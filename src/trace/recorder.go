// Package trace records gated-yield events and serves them to monitors over
// QUIC.
package trace

import (
	"sync"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/datastructures"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/model"
)

// Recorder keeps the most recent switch events.
type Recorder struct {
	mu          sync.Mutex
	events      datastructures.CircularQueue[model.SwitchEvent]
	overwritten uint64
}

func NewRecorder(capacity int) *Recorder {
	return &Recorder{
		events: datastructures.NewCircularQueue[model.SwitchEvent](capacity),
	}
}

// Observe implements gate.Observer.
func (r *Recorder) Observe(ev model.SwitchEvent) {
	r.mu.Lock()
	if !r.events.Push(ev) {
		r.overwritten++
	}
	r.mu.Unlock()
}

// Snapshot returns up to limit of the newest events, oldest first.
func (r *Recorder) Snapshot(limit int) []model.SwitchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events.Snapshot(limit)
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events.Len()
}

// Overwritten returns how many events were lost to newer ones.
func (r *Recorder) Overwritten() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overwritten
}
