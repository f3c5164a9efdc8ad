package scheduler

import "github.com/Oichkatzelesfrettschen/minix318-sub000/src/stream"

// Compose chains outer before inner.
func Compose(outer, inner stream.Module) *stream.Stream {
	return stream.New(outer, inner)
}

// RegisterBeattyDAG registers the Beatty scheduler as the outer policy and
// the DAG scheduler as the inner one. It only wires the chain: both
// schedulers must already be set up, and one dispatch then runs Beatty
// first and DAG second.
func RegisterBeattyDAG(dispatcher *stream.Dispatcher, b *Beatty, d *DAG) *stream.Stream {
	s := Compose(b, d)
	dispatcher.Register(s)
	return s
}
