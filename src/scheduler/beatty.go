package scheduler

import (
	"log"
	"math"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/capability"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/gate"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/spin"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/stream"
)

const BeattyName = "beatty"

// Phi is the golden ratio.
var Phi = (1 + math.Sqrt(5)) / 2

// Pick names one of the two Beatty tasks.
type Pick uint8

const (
	PickA Pick = iota
	PickB
)

func (p Pick) String() string {
	if p == PickA {
		return "A"
	}
	return "B"
}

// Beatty interleaves two tasks along the complementary Beatty sequences
// floor(n*alpha) and floor(n*beta), with alpha the golden ratio and
// beta = alpha/(alpha-1).
//
// A is visited with long-run frequency 1/alpha and B with 1/beta. A never
// runs more than twice in a row and B never twice in a row.
type Beatty struct {
	lock   spin.Lock
	tasks  [2]capability.Handle
	na, nb uint64

	alpha, beta float64

	gate   gate.Yielder
	logger *log.Logger
}

// Creates a new Beatty scheduler that yields through g.
func NewBeatty(g gate.Yielder, logger *log.Logger) *Beatty {
	return &Beatty{
		na:     1,
		nb:     1,
		alpha:  Phi,
		beta:   Phi / (Phi - 1),
		gate:   g,
		logger: orDiscard(logger),
	}
}

func (b *Beatty) Name() string { return BeattyName }

// Register makes a stream holding only this scheduler the active one.
func (b *Beatty) Register(dispatcher *stream.Dispatcher) *stream.Stream {
	s := stream.New(b)
	dispatcher.Register(s)
	return s
}

// SetTasks installs the two tasks and restarts both sequences.
func (b *Beatty) SetTasks(a, bt capability.Handle) {
	b.lock.Lock()
	b.tasks = [2]capability.Handle{a, bt}
	b.na, b.nb = 1, 1
	b.lock.Unlock()
}

// Next advances the interleaving by one and returns the picked task with
// its handle.
func (b *Beatty) Next() (Pick, capability.Handle) {
	b.lock.Lock()
	defer b.lock.Unlock()

	va := int64(b.alpha * float64(b.na))
	vb := int64(b.beta * float64(b.nb))
	if va < vb {
		b.na++
		return PickA, b.tasks[PickA]
	}
	b.nb++
	return PickB, b.tasks[PickB]
}

// Step picks the next task and yields to it. A null handle is skipped
// without calling the gate.
func (b *Beatty) Step() (Pick, error) {
	pick, h := b.Next()
	if h.IsNull() {
		return pick, nil
	}
	return pick, b.gate.Yield(h)
}

func (b *Beatty) Yield() {
	pick, err := b.Step()
	if err != nil {
		b.logger.Printf("[BEATTY] task %s not run: %v", pick, err)
	}
}

// Halt does nothing; the Beatty scheduler never owns shutdown.
func (b *Beatty) Halt() {}

// Counters returns the next sequence indices of A and B.
func (b *Beatty) Counters() (na, nb uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.na, b.nb
}

func (b *Beatty) Alpha() float64 { return b.alpha }
func (b *Beatty) Beta() float64  { return b.beta }
