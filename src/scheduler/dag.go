package scheduler

import (
	"errors"
	"fmt"
	"log"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/capability"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/datastructures"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/gate"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/spin"
	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/stream"
)

const DAGName = "dag"

// NodeID is a stable index into a DAG scheduler's node arena.
type NodeID int

// NoNode is returned when no node was picked.
const NoNode NodeID = -1

type NodeState uint8

const (
	// Created, not submitted, no outstanding dependencies.
	NodeIdle NodeState = iota
	// Waiting for at least one parent.
	NodeBlocked
	// In the ready heap.
	NodeReady
	// Popped; the gated yield is in flight.
	NodeRunning
	// Ran to completion.
	NodeDone
	// The gate refused the node's capability. Dependents are released as if
	// the node had completed.
	NodeRejected
	// Could not be queued because the ready heap was full.
	NodeDropped
)

var nodeStateNames = [...]string{
	NodeIdle:     "idle",
	NodeBlocked:  "blocked",
	NodeReady:    "ready",
	NodeRunning:  "running",
	NodeDone:     "done",
	NodeRejected: "rejected",
	NodeDropped:  "dropped",
}

func (s NodeState) String() string {
	if int(s) < len(nodeStateNames) {
		return nodeStateNames[s]
	}
	return "unknown"
}

func (s NodeState) finished() bool {
	return s == NodeDone || s == NodeRejected
}

var (
	ErrUnknownNode    = errors.New("dag: unknown node")
	ErrSelfDependency = errors.New("dag: node depends on itself")
	ErrCycle          = errors.New("dag: dependency cycle")
	ErrParentFinished = errors.New("dag: parent already finished")
	ErrNodeScheduled  = errors.New("dag: node already scheduled")
	ErrHeapFull       = errors.New("dag: ready heap full")
	ErrNoReadyNode    = errors.New("dag: no ready node")
)

type node struct {
	ctx      capability.Handle
	priority int
	weight   int64
	pending  int
	state    NodeState
	children []NodeID
}

type DAGOptions struct {
	// Initial ready heap allocation.
	InitialCapacity int
	// Maximum number of ready nodes. Zero means unbounded.
	MaxCapacity int
	Logger      *log.Logger
}

// DAG runs nodes in dependency order, highest weight first among the nodes
// that are ready.
//
// Nodes live in an arena owned by the scheduler and are addressed by NodeID;
// ids stay valid for the scheduler's lifetime. One lock covers the heap and
// all dependency counts, and it is never held during a switch.
type DAG struct {
	lock    spin.Lock
	nodes   []node
	ready   datastructures.PriorityQueue[int64, NodeID]
	dropped int

	gate   gate.Yielder
	logger *log.Logger
}

// Creates a new DAG scheduler that yields through g.
func NewDAG(g gate.Yielder, opts DAGOptions) *DAG {
	return &DAG{
		ready: datastructures.NewPriorityQueue[int64, NodeID](
			opts.InitialCapacity, opts.MaxCapacity),
		gate:   g,
		logger: orDiscard(opts.Logger),
	}
}

func (d *DAG) Name() string { return DAGName }

// Register makes a stream holding only this scheduler the active one.
func (d *DAG) Register(dispatcher *stream.Dispatcher) *stream.Stream {
	s := stream.New(d)
	dispatcher.Register(s)
	return s
}

// NewNode adds a zeroed node that resumes ctx when it runs.
func (d *DAG) NewNode(ctx capability.Handle) NodeID {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.nodes = append(d.nodes, node{ctx: ctx})
	return NodeID(len(d.nodes) - 1)
}

// SetPriority records an informational priority. It does not affect order.
func (d *DAG) SetPriority(id NodeID, priority int) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	n, err := d.nodeLocked(id)
	if err != nil {
		return err
	}
	n.priority = priority
	return nil
}

// SetWeight sets the scheduling weight. The weight is read when the node
// enters the ready heap; changing it afterwards does not reorder the heap.
func (d *DAG) SetWeight(id NodeID, weight int64) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	n, err := d.nodeLocked(id)
	if err != nil {
		return err
	}
	n.weight = weight
	return nil
}

// AddDep makes child wait for parent.
func (d *DAG) AddDep(parent, child NodeID) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	p, err := d.nodeLocked(parent)
	if err != nil {
		return err
	}
	c, err := d.nodeLocked(child)
	if err != nil {
		return err
	}
	if parent == child {
		return ErrSelfDependency
	}
	if p.state.finished() || p.state == NodeDropped {
		return fmt.Errorf("%w: node %d is %s", ErrParentFinished, parent, p.state)
	}
	if c.state != NodeIdle && c.state != NodeBlocked {
		return fmt.Errorf("%w: node %d is %s", ErrNodeScheduled, child, c.state)
	}
	if d.reachableLocked(child, parent) {
		return fmt.Errorf("%w: %d -> %d", ErrCycle, parent, child)
	}

	p.children = append(p.children, child)
	c.pending++
	return nil
}

// Submit queues a node. A node with outstanding dependencies is parked until
// its last parent finishes. Submitting a queued or finished node does
// nothing; a dropped node may be submitted again.
func (d *DAG) Submit(id NodeID) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	n, err := d.nodeLocked(id)
	if err != nil {
		return err
	}
	switch n.state {
	case NodeReady, NodeRunning, NodeDone, NodeRejected:
		return nil
	}
	if n.pending > 0 {
		n.state = NodeBlocked
		return nil
	}
	return d.pushLocked(id)
}

// Step pops the heaviest ready node, yields to its capability and, once the
// switch returns, releases its dependents. It calls the gate at most once.
//
// The popped node is returned even when the gate refuses it; the error then
// wraps the gate's.
func (d *DAG) Step() (NodeID, error) {
	d.lock.Lock()
	id, ok := d.ready.Dequeue()
	if !ok {
		d.lock.Unlock()
		return NoNode, ErrNoReadyNode
	}
	n := &d.nodes[id]
	n.state = NodeRunning
	ctx := n.ctx
	d.lock.Unlock()

	err := d.gate.Yield(ctx)

	d.lock.Lock()
	// the arena may have grown while the lock was released
	n = &d.nodes[id]
	if err != nil {
		n.state = NodeRejected
	} else {
		n.state = NodeDone
	}
	d.releaseLocked(id)
	d.lock.Unlock()

	if err != nil {
		return id, fmt.Errorf("dag: node %d: %w", id, err)
	}
	return id, nil
}

func (d *DAG) Yield() {
	id, err := d.Step()
	if err != nil && !errors.Is(err, ErrNoReadyNode) {
		d.logger.Printf("[DAG] node %d not run: %v", id, err)
	}
}

// Halt does nothing; the DAG scheduler never owns shutdown.
func (d *DAG) Halt() {}

func (d *DAG) State(id NodeID) NodeState {
	d.lock.Lock()
	defer d.lock.Unlock()

	n, err := d.nodeLocked(id)
	if err != nil {
		return NodeIdle
	}
	return n.state
}

func (d *DAG) Pending(id NodeID) int {
	d.lock.Lock()
	defer d.lock.Unlock()

	n, err := d.nodeLocked(id)
	if err != nil {
		return 0
	}
	return n.pending
}

func (d *DAG) Priority(id NodeID) int {
	d.lock.Lock()
	defer d.lock.Unlock()

	n, err := d.nodeLocked(id)
	if err != nil {
		return 0
	}
	return n.priority
}

// Ready returns the number of nodes in the ready heap.
func (d *DAG) Ready() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.ready.Len()
}

// Dropped returns how many times a node was dropped for lack of heap space.
func (d *DAG) Dropped() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.dropped
}

func (d *DAG) nodeLocked(id NodeID) (*node, error) {
	if id < 0 || int(id) >= len(d.nodes) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return &d.nodes[id], nil
}

func (d *DAG) pushLocked(id NodeID) error {
	n := &d.nodes[id]
	if !d.ready.Enqueue(id, n.weight) {
		n.state = NodeDropped
		d.dropped++
		d.logger.Printf("[DAG] ready heap full (%d), dropping node %d", d.ready.Limit(), id)
		return fmt.Errorf("%w: node %d", ErrHeapFull, id)
	}
	n.state = NodeReady
	return nil
}

// Decrements the pending count of every child of id and queues the children
// that have no dependencies left.
func (d *DAG) releaseLocked(id NodeID) {
	for _, child := range d.nodes[id].children {
		c := &d.nodes[child]
		c.pending--
		if c.pending > 0 || c.state.finished() || c.state == NodeDropped {
			continue
		}
		// a failed push is logged and counted by pushLocked
		_ = d.pushLocked(child)
	}
}

// Reports whether to can be reached from from by following child links.
func (d *DAG) reachableLocked(from, to NodeID) bool {
	seen := make(map[NodeID]bool)
	stack := []NodeID{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == to {
			return true
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		stack = append(stack, d.nodes[id].children...)
	}
	return false
}
