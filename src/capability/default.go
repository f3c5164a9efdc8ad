package capability

import "sync"

// DefaultCapacity is the slot count of the process-wide table.
const DefaultCapacity = 256

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide table, creating it on first use.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = NewTable(DefaultCapacity)
	})
	return defaultTable
}

func Alloc(kind Kind, resource uint32, rights Rights, owner uint32) (Handle, error) {
	return Default().Alloc(kind, resource, rights, owner)
}

func Lookup(h Handle) (Entry, bool) { return Default().Lookup(h) }
func Inc(h Handle)                  { Default().Inc(h) }
func Dec(h Handle)                  { Default().Dec(h) }
func Remove(h Handle) error         { return Default().Remove(h) }
func Revoke(h Handle) error         { return Default().Revoke(h) }
