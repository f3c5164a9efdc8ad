package scheduler_test

import (
	"testing"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/capability"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/gate"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/scheduler"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test if one dispatch on the combined stream runs Beatty first and DAG
// second, through the real gate.
func TestRegisterBeattyDAG(t *testing.T) {
	caps := capability.NewTable(16)
	contexts := gate.NewContextTable()
	g := gate.New(caps, contexts, &gate.StepSwitcher{}, nil)

	var ran []string
	spawn := func(name string, resource uint32) capability.Handle {
		contexts.Bind(&gate.SavedContext{
			ID:    resource,
			Entry: func() { ran = append(ran, name) },
		})
		h, err := caps.Alloc(capability.KindPage, resource, capability.RightExec, 1)
		require.NoError(t, err)
		return h
	}

	b := scheduler.NewBeatty(g.Port(scheduler.BeattyName), nil)
	b.SetTasks(spawn("A", 1), spawn("B", 2))

	d := scheduler.NewDAG(g.Port(scheduler.DAGName), scheduler.DAGOptions{})
	first := d.NewNode(spawn("n1", 3))
	second := d.NewNode(spawn("n2", 4))
	require.NoError(t, d.AddDep(first, second))
	require.NoError(t, d.Submit(first))
	require.NoError(t, d.Submit(second))

	dispatcher := stream.NewDispatcher(func() {}, nil)
	s := scheduler.RegisterBeattyDAG(dispatcher, b, d)
	assert.Equal(t, "beatty->dag", s.String())
	assert.Same(t, s, dispatcher.Active())

	dispatcher.Yield()
	dispatcher.Yield()
	dispatcher.Yield()

	assert.Equal(t, []string{"A", "n1", "B", "n2", "A"}, ran)
	assert.Equal(t, scheduler.NodeDone, d.State(second))
}

// Test if revoking a DAG node's capability keeps it from running.
func TestRegisterBeattyDAG_Revoke(t *testing.T) {
	caps := capability.NewTable(16)
	contexts := gate.NewContextTable()
	g := gate.New(caps, contexts, &gate.StepSwitcher{}, nil)

	runs := 0
	contexts.Bind(&gate.SavedContext{ID: 9, Entry: func() { runs++ }})
	h, err := caps.Alloc(capability.KindPage, 9, capability.RightExec, 1)
	require.NoError(t, err)

	b := scheduler.NewBeatty(g.Port(scheduler.BeattyName), nil)
	d := scheduler.NewDAG(g.Port(scheduler.DAGName), scheduler.DAGOptions{})
	n := d.NewNode(h)
	require.NoError(t, d.Submit(n))

	dispatcher := stream.NewDispatcher(func() {}, nil)
	scheduler.RegisterBeattyDAG(dispatcher, b, d)

	require.NoError(t, caps.Revoke(h))
	dispatcher.Yield()

	assert.Equal(t, 0, runs)
	assert.Equal(t, scheduler.NodeRejected, d.State(n))
}

func TestCompose(t *testing.T) {
	b := scheduler.NewBeatty(newRecordingGate(), nil)
	d := scheduler.NewDAG(newRecordingGate(), scheduler.DAGOptions{})

	s := scheduler.Compose(d, b)
	assert.Equal(t, "dag->beatty", s.String())

	dispatcher := stream.NewDispatcher(func() {}, nil)
	assert.Equal(t, "beatty", b.Register(dispatcher).String())
}
