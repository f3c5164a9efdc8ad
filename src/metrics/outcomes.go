package metrics

import (
	"encoding/csv"
	"io"
	"sort"
	"sync"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/model"
)

const numOutcomes = int(model.OutcomeSwitchFailed) + 1

// Outcomes counts gated yields per scheduler and outcome.
type Outcomes struct {
	mu     sync.Mutex
	counts map[string]*[numOutcomes]uint64
}

func NewOutcomes() *Outcomes {
	return &Outcomes{counts: map[string]*[numOutcomes]uint64{}}
}

// Observe implements gate.Observer.
func (o *Outcomes) Observe(ev model.SwitchEvent) {
	if int(ev.Outcome) >= numOutcomes {
		return
	}
	o.mu.Lock()
	c, ok := o.counts[ev.Scheduler]
	if !ok {
		c = new([numOutcomes]uint64)
		o.counts[ev.Scheduler] = c
	}
	c[ev.Outcome]++
	o.mu.Unlock()
}

func (o *Outcomes) Count(scheduler string, outcome model.Outcome) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	c, ok := o.counts[scheduler]
	if !ok || int(outcome) >= numOutcomes {
		return 0
	}
	return c[outcome]
}

// Refused returns how many of a scheduler's yields did not switch.
func (o *Outcomes) Refused(scheduler string) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	c, ok := o.counts[scheduler]
	if !ok {
		return 0
	}
	var n uint64
	for i, v := range c {
		if model.Outcome(i) != model.OutcomeSwitched {
			n += v
		}
	}
	return n
}

// WriteCSV writes one row per scheduler, sorted by name, with a column per
// outcome.
func (o *Outcomes) WriteCSV(w io.Writer) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	cw := csv.NewWriter(w)
	hdr := []string{"scheduler"}
	for i := 0; i < numOutcomes; i++ {
		hdr = append(hdr, model.Outcome(i).String())
	}
	if err := cw.Write(hdr); err != nil {
		return err
	}

	names := make([]string, 0, len(o.counts))
	for name := range o.counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rec := []string{name}
		for _, v := range o.counts[name] {
			rec = append(rec, u64(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
