// Package backend holds the IR passes run between instruction selection and
// register allocation. All passes here are local: they look at one basic block
// at a time and only touch block boundary data (live-in, live-out) of direct
// successors.
package backend

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/redwing-vm/redwing/translator/mir"
)

// vregMap tracks which new name a virtual register got within the current
// block. Unseen registers map to RegInvalid and a register seen exactly once
// maps to itself, so one slice distinguishes never-defined, defined-once and
// defined-again without a separate seen set.
type vregMap struct {
	to []mir.Reg
}

func makeVRegMap(n int) vregMap {
	return vregMap{to: make([]mir.Reg, n)}
}

func (m *vregMap) set(from, to mir.Reg) { m.to[from.VRegIndex()] = to }
func (m *vregMap) get(r mir.Reg) mir.Reg { return m.to[r.VRegIndex()] }

func (m *vregMap) wasSeen(r mir.Reg) bool {
	return m.to[r.VRegIndex()] != mir.RegInvalid
}

func (m *vregMap) wasRenamed(r mir.Reg) bool {
	to := m.to[r.VRegIndex()]

	return to != mir.RegInvalid && to != r
}

// RenameVRegsLocal splits virtual register live ranges within each basic
// block: every definition after the first gets a fresh register, and uses
// after it follow the new name. Live-out lists and the live-in lists of
// direct successors are rewritten to the final name, with a copy prepended
// to the successor to keep the old name intact for its other predecessors.
func RenameVRegsLocal(ctx context.Context, ir *mir.IR) {
	tr := tlog.SpanFromContext(ctx)

	before := ir.NumVReg()

	for _, bb := range ir.BasicBlocks() {
		m := makeVRegMap(ir.NumVReg())

		for _, r := range bb.LiveIn() {
			if r.IsVReg() {
				m.set(r, r)
			}
		}

		renameBlockRegs(&m, bb, ir)
		renameLiveOuts(&m, bb)
		renameSuccessorLiveIns(&m, bb, ir)
	}

	tr.V("rename").Printw("renamed vregs", "vregs_before", before, "vregs_after", ir.NumVReg())
}

func renameBlockRegs(m *vregMap, bb *mir.BasicBlock, ir *mir.IR) {
	for in := bb.Insns().Front(); in != nil; in = in.Next() {
		for i := 0; i < in.NumRegOperands(); i++ {
			tryRenameRegOperand(m, bb, in, i, ir)
		}
	}
}

func tryRenameRegOperand(m *vregMap, bb *mir.BasicBlock, in *mir.Insn, i int, ir *mir.IR) {
	r := in.RegAt(i)
	if !r.IsVReg() {
		return
	}

	k := in.RegKindAt(i)

	if !k.IsDef() {
		// Plain use: follow the current name, if any.
		if m.wasSeen(r) {
			in.SetRegAt(i, m.get(r))
		}

		return
	}

	if !m.wasSeen(r) {
		m.set(r, r)

		return
	}

	newReg := ir.AllocVReg()

	// A use-def operand still reads the old value, so define the new name
	// from it first.
	if k.IsUse() {
		bb.Insns().InsertBefore(ir.NewMovRegReg(newReg, m.get(r)), in)
	}

	in.SetRegAt(i, newReg)
	m.set(r, newReg)
}

func renameLiveOuts(m *vregMap, bb *mir.BasicBlock) {
	out := bb.LiveOut()

	for i, r := range out {
		if r.IsVReg() && m.wasRenamed(r) {
			out[i] = m.get(r)
		}
	}
}

func renameSuccessorLiveIns(m *vregMap, bb *mir.BasicBlock, ir *mir.IR) {
	for _, e := range bb.OutEdges() {
		dst := e.Dst()
		in := dst.LiveIn()

		for i, r := range in {
			if !r.IsVReg() || !m.wasRenamed(r) {
				continue
			}

			in[i] = m.get(r)

			// Other predecessors still provide the value under the old
			// name, so restore it at the top of the successor.
			dst.Insns().PushFront(ir.NewMovRegReg(r, m.get(r)))
		}
	}
}
