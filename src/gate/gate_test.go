package gate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/capability"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/gate"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventLog []model.SwitchEvent

func (l *eventLog) Observe(ev model.SwitchEvent) { *l = append(*l, ev) }

type failingSwitcher struct{}

func (failingSwitcher) Switch(from, to *gate.SavedContext) error {
	return errors.New("bad register block")
}

func newGate(t *testing.T, sw gate.Switcher) (*gate.Gate, *capability.Table, *gate.ContextTable, *eventLog) {
	t.Helper()
	caps := capability.NewTable(8)
	contexts := gate.NewContextTable()
	g := gate.New(caps, contexts, sw, nil)
	events := &eventLog{}
	g.AddObserver(events)
	return g, caps, contexts, events
}

// Test if a valid capability resumes its context.
func TestGate_Yield(t *testing.T) {
	sw := &gate.StepSwitcher{}
	g, caps, contexts, events := newGate(t, sw)

	var running *gate.SavedContext
	ctx := &gate.SavedContext{ID: 10}
	ctx.Entry = func() { running = g.Current() }
	contexts.Bind(ctx)

	h, err := caps.Alloc(capability.KindPage, 10, capability.RightExec, 1)
	require.NoError(t, err)

	require.NoError(t, g.Port("dag").Yield(h))
	assert.Same(t, ctx, running)
	assert.Nil(t, g.Current())
	assert.Equal(t, uint64(1), sw.Switches())

	require.Len(t, *events, 1)
	ev := (*events)[0]
	assert.Equal(t, uint64(1), ev.Seq)
	assert.Equal(t, "dag", ev.Scheduler)
	assert.Equal(t, h, ev.Handle)
	assert.Equal(t, uint32(10), ev.Resource)
	assert.Equal(t, model.OutcomeSwitched, ev.Outcome)
	assert.WithinDuration(t, time.Now(), ev.Time, time.Minute)
}

func TestGate_NullCapability(t *testing.T) {
	g, _, _, events := newGate(t, &gate.StepSwitcher{})

	err := g.Yield(capability.NullHandle)
	assert.True(t, errors.Is(err, gate.ErrNullCapability))
	require.Len(t, *events, 1)
	assert.Equal(t, model.OutcomeNullCapability, (*events)[0].Outcome)
}

// Test if revoking a capability stops the next yield to it.
func TestGate_RevokedCapability(t *testing.T) {
	sw := &gate.StepSwitcher{}
	g, caps, contexts, events := newGate(t, sw)

	runs := 0
	contexts.Bind(&gate.SavedContext{ID: 3, Entry: func() { runs++ }})
	h, err := caps.Alloc(capability.KindPage, 3, capability.RightExec, 1)
	require.NoError(t, err)

	require.NoError(t, g.Yield(h))
	require.NoError(t, caps.Revoke(h))

	err = g.Yield(h)
	assert.True(t, errors.Is(err, gate.ErrInvalidCapability))
	assert.Equal(t, 1, runs)
	assert.Equal(t, uint64(1), sw.Switches())

	// reallocating the slot does not revive the old handle
	fresh, err := caps.Alloc(capability.KindPage, 3, capability.RightExec, 1)
	require.NoError(t, err)
	assert.Equal(t, h.Slot(), fresh.Slot())
	assert.True(t, errors.Is(g.Yield(h), gate.ErrInvalidCapability))
	require.NoError(t, g.Yield(fresh))
	assert.Equal(t, 2, runs)

	require.Len(t, *events, 4)
	assert.Equal(t, model.OutcomeInvalidCapability, (*events)[1].Outcome)
}

func TestGate_NoContext(t *testing.T) {
	g, caps, contexts, events := newGate(t, &gate.StepSwitcher{})

	h, err := caps.Alloc(capability.KindPage, 77, capability.RightExec, 1)
	require.NoError(t, err)
	assert.True(t, errors.Is(g.Yield(h), gate.ErrNoContext))

	contexts.Bind(&gate.SavedContext{ID: 77, Entry: func() {}})
	assert.NoError(t, g.Yield(h))

	contexts.Unbind(77)
	assert.Equal(t, 0, contexts.Len())
	assert.True(t, errors.Is(g.Yield(h), gate.ErrNoContext))

	require.Len(t, *events, 3)
	assert.Equal(t, uint32(77), (*events)[0].Resource)
	assert.Equal(t, model.OutcomeNoContext, (*events)[0].Outcome)
}

func TestGate_SwitchFailed(t *testing.T) {
	g, caps, contexts, events := newGate(t, failingSwitcher{})

	contexts.Bind(&gate.SavedContext{ID: 1})
	h, err := caps.Alloc(capability.KindPage, 1, capability.RightExec, 1)
	require.NoError(t, err)

	assert.True(t, errors.Is(g.Yield(h), gate.ErrSwitchFailed))
	assert.Nil(t, g.Current())
	require.Len(t, *events, 1)
	assert.Equal(t, model.OutcomeSwitchFailed, (*events)[0].Outcome)
}

func TestStepSwitcher_NoEntry(t *testing.T) {
	sw := &gate.StepSwitcher{}

	err := sw.Switch(nil, &gate.SavedContext{ID: 1})
	assert.True(t, errors.Is(err, gate.ErrNoEntry))
	assert.Equal(t, uint64(0), sw.Switches())
}
