// Package guest describes the layout of the guest CPU state structure.
//
// The translator never computes this layout itself: it is a fixed contract
// with the runtime that owns the state (register loads and stores are emitted
// as base+offset accesses relative to the state pointer). Offsets here must
// match the runtime exactly.
package guest

// Addr is a guest virtual address.
type Addr = uint64

const NullAddr Addr = 0

// Guest state layout, in bytes from the state base pointer.
//
//	[0, 8)       pc
//	[8, 264)     x0..x31
//	[264, 520)   f0..f31
//	[520, 528)   reservation address
//	[528, 536)   reservation value
const (
	PCOffset = 0

	regsOffset = 8
	NumRegs    = 32

	fregsOffset = regsOffset + 8*NumRegs
	NumFRegs    = 32

	// Reservation backs load-link/store-conditional emulation. Accesses to
	// it carry ownership semantics invisible to the IR, so optimization
	// passes must leave them exactly as emitted.
	ReservationAddressOffset = fregsOffset + 8*NumFRegs
	ReservationValueOffset   = ReservationAddressOffset + 8
	ReservationSize          = 8

	// StateSize bounds the offsets the context-access optimizer may touch.
	StateSize = ReservationValueOffset + ReservationSize
)

// RegOffset returns the offset of integer register x<n>.
func RegOffset(n uint8) uint32 {
	if n >= NumRegs {
		panic("guest: register index out of range")
	}

	return regsOffset + 8*uint32(n)
}

// FRegOffset returns the offset of floating-point register f<n>.
func FRegOffset(n uint8) uint32 {
	if n >= NumFRegs {
		panic("guest: fp register index out of range")
	}

	return fregsOffset + 8*uint32(n)
}
