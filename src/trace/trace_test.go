package trace_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/capability"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/model"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(seq uint64) model.SwitchEvent {
	return model.SwitchEvent{
		Seq:       seq,
		Time:      time.Unix(0, int64(seq)*1000),
		Scheduler: "dag",
		Handle:    capability.MakeHandle(uint16(seq), 1),
		Resource:  uint32(seq),
		Outcome:   model.OutcomeSwitched,
	}
}

func TestRecorderKeepsNewest(t *testing.T) {
	rec := trace.NewRecorder(3)
	for i := uint64(1); i <= 5; i++ {
		rec.Observe(event(i))
	}

	assert.Equal(t, 3, rec.Len())
	assert.Equal(t, uint64(2), rec.Overwritten())

	events := rec.Snapshot(0)
	require.Len(t, events, 3)
	assert.Equal(t, uint64(3), events[0].Seq)
	assert.Equal(t, uint64(5), events[2].Seq)

	events = rec.Snapshot(2)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(4), events[0].Seq)
}

func TestServeBeforeListen(t *testing.T) {
	server := trace.NewServer("127.0.0.1:0", trace.NewRecorder(1), nil)
	assert.Nil(t, server.Addr())
	assert.Equal(t, trace.ErrNotListening, server.Serve(context.Background()))
}

func TestFetchOverQuic(t *testing.T) {
	rec := trace.NewRecorder(16)
	for i := uint64(1); i <= 10; i++ {
		rec.Observe(event(i))
	}

	server := trace.NewServer("127.0.0.1:0", rec, nil)
	require.NoError(t, server.Listen())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()

	addr := server.Addr().String()
	for _, limit := range []int{0, 4} {
		t.Run(fmt.Sprint("limit=", limit), func(t *testing.T) {
			events, err := trace.Fetch(ctx, addr, limit)
			require.NoError(t, err)

			want := rec.Snapshot(limit)
			require.Len(t, events, len(want))
			for i := range want {
				assert.Equal(t, want[i].Seq, events[i].Seq)
				assert.Equal(t, want[i].Handle, events[i].Handle)
				assert.Equal(t, want[i].Outcome, events[i].Outcome)
				assert.True(t, want[i].Time.Equal(events[i].Time))
			}
		})
	}

	cancel()
	assert.NoError(t, <-done)
}
