package backend

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/redwing-vm/redwing/translator/mir"
)

// mappedRegUsage remembers, per guest context offset, which register holds
// the field's current value and the store still pending for it, if any.
type mappedRegUsage struct {
	reg       mir.Reg
	lastStore *mir.Insn
}

// RemoveLocalGuestContextAccesses forwards guest context fields through
// registers within each basic block: a load after a known access becomes a
// copy from the register already holding the value, and a store overwritten
// by a later store to the same offset is deleted. Accesses to the atomic
// reservation value are left alone; their memory ordering matters.
func RemoveLocalGuestContextAccesses(ctx context.Context, ir *mir.IR) {
	tr := tlog.SpanFromContext(ctx)

	removed := 0
	forwarded := 0

	for _, bb := range ir.BasicBlocks() {
		memRegMap := map[uint32]*mappedRegUsage{}

		for in := bb.Insns().Front(); in != nil; {
			// Replacing a load unlinks the current insn, so advance first.
			next := in.Next()

			switch {
			case in.IsStateGet():
				if replaceGetAndUpdateMap(memRegMap, bb, in, ir) {
					forwarded++
				}
			case in.IsStatePut():
				if replacePutAndUpdateMap(memRegMap, bb, in) {
					removed++
				}
			}

			in = next
		}
	}

	tr.V("context_opt").Printw("guest context accesses", "forwarded_loads", forwarded, "removed_stores", removed)
}

func replaceGetAndUpdateMap(memRegMap map[uint32]*mappedRegUsage, bb *mir.BasicBlock, in *mir.Insn, ir *mir.IR) bool {
	dst := in.RegAt(0)
	disp := in.Disp()

	// The first access at this offset has to stay a real load.
	usage, ok := memRegMap[disp]
	if !ok {
		memRegMap[disp] = &mappedRegUsage{reg: dst}

		return false
	}

	bb.Insns().Replace(in, ir.NewCopy(dst, usage.reg))

	return true
}

func replacePutAndUpdateMap(memRegMap map[uint32]*mappedRegUsage, bb *mir.BasicBlock, in *mir.Insn) bool {
	src := in.RegAt(1)
	disp := in.Disp()

	removed := false

	if usage, ok := memRegMap[disp]; ok && usage.lastStore != nil {
		bb.Insns().Remove(usage.lastStore)
		removed = true
	}

	memRegMap[disp] = &mappedRegUsage{reg: src, lastStore: in}

	return removed
}
