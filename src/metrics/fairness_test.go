package metrics_test

import (
	"bytes"
	"testing"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/capability"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/metrics"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/model"
	"github.com/stretchr/testify/assert"
)

func switched(scheduler string, h capability.Handle) model.SwitchEvent {
	return model.SwitchEvent{Scheduler: scheduler, Handle: h, Outcome: model.OutcomeSwitched}
}

func TestFairness_Counts(t *testing.T) {
	f := metrics.NewFairness("beatty")
	a := capability.MakeHandle(1, 1)
	b := capability.MakeHandle(2, 1)

	f.Observe(switched("beatty", a))
	f.Observe(switched("beatty", a))
	f.Observe(switched("beatty", b))
	f.Observe(switched("dag", b))
	f.Observe(model.SwitchEvent{Scheduler: "beatty", Handle: b, Outcome: model.OutcomeInvalidCapability})

	assert.Equal(t, uint64(3), f.Total())
	assert.Equal(t, uint64(2), f.Visits(a))
	assert.Equal(t, uint64(1), f.Visits(b))

	shares := f.Shares()
	assert.InDelta(t, 2.0/3, shares[a], 1e-9)
	assert.InDelta(t, 1.0/3, shares[b], 1e-9)

	// (3*3) / (2 * (4+1))
	assert.InDelta(t, 0.9, f.Jain(), 1e-9)
}

func TestFairness_Jain(t *testing.T) {
	f := metrics.NewFairness("")
	assert.Equal(t, 0.0, f.Jain())

	for i := uint16(1); i <= 4; i++ {
		f.Observe(switched("any", capability.MakeHandle(i, 1)))
	}
	assert.InDelta(t, 1.0, f.Jain(), 1e-9)
}

func TestFairness_WriteCSV(t *testing.T) {
	f := metrics.NewFairness("")
	f.Observe(switched("dag", capability.MakeHandle(2, 1)))
	f.Observe(switched("dag", capability.MakeHandle(1, 3)))
	f.Observe(switched("dag", capability.MakeHandle(2, 1)))
	f.Observe(switched("dag", capability.MakeHandle(2, 1)))

	buf := &bytes.Buffer{}
	assert.Nil(t, f.WriteCSV(buf))
	assert.Equal(t, `handle,visits,share
cap(2@1),3,0.750000
cap(1@3),1,0.250000
jain,4,0.800000
`, buf.String())
}
