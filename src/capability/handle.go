// Package capability implements the process-wide capability table.
//
// A capability is an epoch-tagged handle to a physical resource. Handles are
// plain 32-bit values that may be copied freely; every dereference checks the
// slot's epoch, so a revoked handle fails lookup forever even after its slot
// is reused.
package capability

import "fmt"

// Kind tags the resource a capability refers to.
type Kind uint8

const (
	KindNone Kind = iota
	KindPage
	KindIOPort
	KindIRQ
	KindDMA
	KindHypervisor
	KindCryptoKey
)

// MaxKind is the largest kind accepted by Alloc.
const MaxKind = KindCryptoKey

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPage:
		return "page"
	case KindIOPort:
		return "io-port"
	case KindIRQ:
		return "irq"
	case KindDMA:
		return "dma"
	case KindHypervisor:
		return "hypervisor"
	case KindCryptoKey:
		return "crypto-key"
	default:
		return "unknown"
	}
}

// Rights define which operations a holder may perform on the resource.
type Rights uint32

const (
	RightRead Rights = 1 << iota
	RightWrite
	RightExec
	RightGrant
)

// Has reports whether all bits of want are present.
func (r Rights) Has(want Rights) bool { return r&want == want }

// Handle is the externally visible capability value.
//
// Layout: high 16 bits epoch, low 16 bits slot index. Slot 0 and epoch 0 are
// never issued, so the zero Handle is always invalid.
type Handle uint32

// NullHandle is the all-zero, always invalid handle.
const NullHandle Handle = 0

const (
	slotBits = 16
	slotMask = 1<<slotBits - 1
)

// MakeHandle composes a handle from a slot index and an epoch.
func MakeHandle(slot, epoch uint16) Handle {
	return Handle(uint32(epoch)<<slotBits | uint32(slot))
}

func (h Handle) Slot() uint16  { return uint16(h & slotMask) }
func (h Handle) Epoch() uint16 { return uint16(h >> slotBits) }
func (h Handle) IsNull() bool  { return h == NullHandle }

func (h Handle) String() string {
	return fmt.Sprintf("cap(%d@%d)", h.Slot(), h.Epoch())
}

// Entry is one row of the capability table.
//
// A row whose Kind is KindNone is free; its other fields are stale.
type Entry struct {
	Kind     Kind
	Rights   Rights
	Resource uint32
	Owner    uint32
	RefCount uint32
	Epoch    uint16
}

func (e Entry) Free() bool { return e.Kind == KindNone }
