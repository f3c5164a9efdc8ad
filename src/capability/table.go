package capability

import (
	"errors"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/spin"
)

const (
	// MaxSlots is the number of slots addressable by a handle.
	MaxSlots = 1 << slotBits
	// MaxEpoch is the last epoch that can be issued. Revocation fails once
	// the global epoch reaches it.
	MaxEpoch = 1<<16 - 1
)

var (
	ErrInvalidKind    = errors.New("capability: invalid kind")
	ErrTableFull      = errors.New("capability: table full")
	ErrNullHandle     = errors.New("capability: null handle")
	ErrNotFound       = errors.New("capability: not found")
	ErrEpochExhausted = errors.New("capability: epoch exhausted")
)

// Table is a fixed-capacity capability table.
//
// Every operation takes the single table-wide lock.
type Table struct {
	lock    spin.Lock
	entries []Entry
	epoch   uint16
}

// NewTable creates a table with capacity slots, slot 0 included. The
// capacity is clamped to [2, MaxSlots].
func NewTable(capacity int) *Table {
	if capacity < 2 {
		capacity = 2
	}
	if capacity > MaxSlots {
		capacity = MaxSlots
	}
	return &Table{
		entries: make([]Entry, capacity),
		epoch:   1,
	}
}

// Capacity returns the number of slots, including the reserved slot 0.
func (t *Table) Capacity() int { return len(t.entries) }

// Epoch returns the current global epoch.
func (t *Table) Epoch() uint16 {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.epoch
}

// Len returns the number of live capabilities.
func (t *Table) Len() int {
	t.lock.Lock()
	defer t.lock.Unlock()

	n := 0
	for i := 1; i < len(t.entries); i++ {
		if !t.entries[i].Free() {
			n++
		}
	}
	return n
}

// Alloc claims the first free slot and returns a handle stamped with the
// current global epoch.
func (t *Table) Alloc(kind Kind, resource uint32, rights Rights, owner uint32) (Handle, error) {
	if kind == KindNone || kind > MaxKind {
		return NullHandle, ErrInvalidKind
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	for i := 1; i < len(t.entries); i++ {
		e := &t.entries[i]
		if !e.Free() {
			continue
		}
		*e = Entry{
			Kind:     kind,
			Rights:   rights,
			Resource: resource,
			Owner:    owner,
			RefCount: 1,
			Epoch:    t.epoch,
		}
		return MakeHandle(uint16(i), t.epoch), nil
	}
	return NullHandle, ErrTableFull
}

// Lookup returns a copy of the entry h refers to.
func (t *Table) Lookup(h Handle) (Entry, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()

	e := t.entryLocked(h)
	if e == nil {
		return Entry{}, false
	}
	return *e, true
}

// Validate is Lookup with a descriptive error.
func (t *Table) Validate(h Handle) (Entry, error) {
	if h.IsNull() {
		return Entry{}, ErrNullHandle
	}
	e, ok := t.Lookup(h)
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// Inc takes another reference on a valid handle.
func (t *Table) Inc(h Handle) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if e := t.entryLocked(h); e != nil {
		e.RefCount++
	}
}

// Dec drops a reference and frees the slot when the last one goes away.
func (t *Table) Dec(h Handle) {
	t.lock.Lock()
	defer t.lock.Unlock()

	e := t.entryLocked(h)
	if e == nil || e.RefCount == 0 {
		return
	}
	e.RefCount--
	if e.RefCount == 0 {
		free(e)
	}
}

// Remove frees the slot regardless of its reference count.
func (t *Table) Remove(h Handle) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	e := t.entryLocked(h)
	if e == nil {
		return ErrNotFound
	}
	free(e)
	return nil
}

// Revoke frees the slot and advances the global epoch, so h and every copy
// of it fail lookup from now on.
//
// At MaxEpoch revocation fails and the capability stays live.
func (t *Table) Revoke(h Handle) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	e := t.entryLocked(h)
	if e == nil {
		return ErrNotFound
	}
	if t.epoch == MaxEpoch {
		return ErrEpochExhausted
	}
	t.epoch++
	e.Epoch = t.epoch
	free(e)
	return nil
}

func (t *Table) entryLocked(h Handle) *Entry {
	slot := int(h.Slot())
	if slot == 0 || slot >= len(t.entries) {
		return nil
	}
	e := &t.entries[slot]
	if e.Free() || e.Epoch != h.Epoch() {
		return nil
	}
	return e
}

func free(e *Entry) {
	e.Kind = KindNone
	e.RefCount = 0
}
