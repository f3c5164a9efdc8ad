package metrics

import (
	"encoding/csv"
	"io"
	"strconv"
	"sync"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/capability"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/model"
)

// Fairness counts successful switches per capability and reports how evenly
// the processor was shared.
type Fairness struct {
	mu        sync.Mutex
	scheduler string
	visits    map[capability.Handle]uint64
	order     []capability.Handle
	total     uint64
}

// NewFairness creates a counter for one scheduler's switches. An empty name
// counts every scheduler.
func NewFairness(scheduler string) *Fairness {
	return &Fairness{
		scheduler: scheduler,
		visits:    map[capability.Handle]uint64{},
	}
}

// Observe implements gate.Observer.
func (f *Fairness) Observe(ev model.SwitchEvent) {
	if ev.Outcome != model.OutcomeSwitched {
		return
	}
	if f.scheduler != "" && ev.Scheduler != f.scheduler {
		return
	}

	f.mu.Lock()
	if _, ok := f.visits[ev.Handle]; !ok {
		f.order = append(f.order, ev.Handle)
	}
	f.visits[ev.Handle]++
	f.total++
	f.mu.Unlock()
}

func (f *Fairness) Visits(h capability.Handle) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visits[h]
}

func (f *Fairness) Total() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

// Shares returns each capability's fraction of all counted switches.
func (f *Fairness) Shares() map[capability.Handle]float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sharesLocked()
}

// Jain returns Jain's fairness index over the capabilities seen so far:
// 1 when every one got the same share, 1/n when one got everything.
func (f *Fairness) Jain() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jainLocked()
}

// WriteCSV writes one row per capability in order of first switch, followed
// by a summary row with the Jain index.
func (f *Fairness) WriteCSV(w io.Writer) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"handle", "visits", "share"}); err != nil {
		return err
	}
	share := f.sharesLocked()
	for _, h := range f.order {
		rec := []string{h.String(), u64(f.visits[h]), f64(share[h])}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"jain", u64(f.total), f64(f.jainLocked())}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (f *Fairness) sharesLocked() map[capability.Handle]float64 {
	share := make(map[capability.Handle]float64, len(f.visits))
	for h, v := range f.visits {
		if f.total > 0 {
			share[h] = float64(v) / float64(f.total)
		}
	}
	return share
}

func (f *Fairness) jainLocked() float64 {
	var s, s2 float64
	for _, v := range f.visits {
		x := float64(v)
		s += x
		s2 += x * x
	}
	if s2 == 0 {
		return 0
	}
	n := float64(len(f.visits))
	return (s * s) / (n * s2)
}

func u64(v uint64) string  { return strconv.FormatUint(v, 10) }
func f64(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
