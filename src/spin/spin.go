// Package spin provides a busy-wait mutual exclusion lock.
//
// Critical sections guarded by a Lock must be short and must never span a
// context switch. The lock is not reentrant.
package spin

import (
	"runtime"
	"sync/atomic"
)

// A Lock is a test-and-set spin lock. The zero value is unlocked.
type Lock struct {
	_      [0]func() // prevent accidental copying.
	locked atomic.Bool
}

// Lock spins until the lock is acquired.
func (l *Lock) Lock() {
	for !l.locked.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

// TryLock acquires the lock if it is free and reports whether it did.
func (l *Lock) TryLock() bool {
	return l.locked.CompareAndSwap(false, true)
}

// Unlock releases the lock. Unlocking an unlocked Lock panics.
func (l *Lock) Unlock() {
	if !l.locked.CompareAndSwap(true, false) {
		panic("spin: unlock of unlocked lock")
	}
}
