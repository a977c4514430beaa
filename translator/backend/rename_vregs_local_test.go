package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redwing-vm/redwing/translator/mir"
)

func blockInsns(bb *mir.BasicBlock) []*mir.Insn {
	var r []*mir.Insn

	for in := bb.Insns().Front(); in != nil; in = in.Next() {
		r = append(r, in)
	}

	return r
}

func TestRenameNothing(t *testing.T) {
	ir := mir.New()
	b := mir.NewBuilder(ir)

	vreg1 := ir.AllocVReg()
	vreg2 := ir.AllocVReg()

	bb := ir.NewBasicBlock()
	b.StartBasicBlock(bb)
	b.GenMovRegImm(vreg1, 0)
	b.GenMovRegImm(vreg2, 0)
	b.GenJump(0)

	bb.AddLiveOut(vreg1)
	bb.AddLiveOut(vreg2)

	RenameVRegsLocal(context.Background(), ir)

	insns := blockInsns(bb)
	require.Len(t, insns, 3)

	assert.Equal(t, vreg1, insns[0].RegAt(0))
	assert.Equal(t, vreg2, insns[1].RegAt(0))
	assert.Equal(t, []mir.Reg{vreg1, vreg2}, bb.LiveOut())
}

func TestRenameDefOfLiveIn(t *testing.T) {
	ir := mir.New()
	b := mir.NewBuilder(ir)

	vreg1 := ir.AllocVReg()
	vreg2 := ir.AllocVReg()

	bb := ir.NewBasicBlock()
	b.StartBasicBlock(bb)
	b.GenMovRegReg(vreg2, mir.RegRCX)
	b.GenMovRegReg(vreg1, vreg2)
	b.GenJump(0)

	bb.AddLiveIn(vreg2)
	bb.AddLiveOut(vreg1)

	RenameVRegsLocal(context.Background(), ir)

	insns := blockInsns(bb)
	require.Len(t, insns, 3)

	renamed := insns[0].RegAt(0)
	assert.NotEqual(t, vreg2, renamed)
	assert.Equal(t, renamed, insns[1].RegAt(1))
}

func TestRenameSecondDef(t *testing.T) {
	ir := mir.New()
	b := mir.NewBuilder(ir)

	vreg1 := ir.AllocVReg()
	vreg2 := ir.AllocVReg()

	bb := ir.NewBasicBlock()
	b.StartBasicBlock(bb)
	b.GenMovRegImm(vreg1, 4)
	b.GenMovRegImm(vreg1, 0)
	b.GenMovRegReg(vreg2, vreg1)
	b.GenJump(0)

	bb.AddLiveOut(vreg1)
	bb.AddLiveOut(vreg2)

	RenameVRegsLocal(context.Background(), ir)

	insns := blockInsns(bb)
	require.Len(t, insns, 4)

	assert.Equal(t, vreg1, insns[0].RegAt(0))

	renamed := insns[1].RegAt(0)
	assert.NotEqual(t, vreg1, renamed)
	assert.Equal(t, renamed, insns[2].RegAt(1))

	assert.Equal(t, renamed, bb.LiveOut()[0])
}

func TestRenameThirdDef(t *testing.T) {
	ir := mir.New()
	b := mir.NewBuilder(ir)

	vreg1 := ir.AllocVReg()
	vreg2 := ir.AllocVReg()

	bb := ir.NewBasicBlock()
	b.StartBasicBlock(bb)
	b.GenMovRegImm(vreg1, 4)
	b.GenMovRegImm(vreg1, 0)
	b.GenMovRegReg(vreg2, vreg1)
	b.GenMovRegImm(vreg1, 3)
	b.GenMovRegReg(vreg2, vreg1)
	b.GenJump(0)

	bb.AddLiveOut(vreg1)

	RenameVRegsLocal(context.Background(), ir)

	insns := blockInsns(bb)
	require.Len(t, insns, 6)

	renamed1 := insns[2].RegAt(1)
	renamed2 := insns[3].RegAt(0)
	assert.NotEqual(t, renamed1, renamed2)
	assert.Equal(t, renamed2, insns[4].RegAt(1))
}

func TestRenameSecondDefOfUseDefReg(t *testing.T) {
	ir := mir.New()
	b := mir.NewBuilder(ir)

	vreg1 := ir.AllocVReg()
	vreg2 := ir.AllocVReg()
	flags := ir.AllocVReg()

	bb := ir.NewBasicBlock()
	b.StartBasicBlock(bb)
	b.GenMovRegImm(vreg1, 4)
	b.GenALUOp(mir.OpAddqRegReg, vreg1, vreg2, flags)
	b.GenJump(0)

	bb.AddLiveOut(vreg1)

	RenameVRegsLocal(context.Background(), ir)

	insns := blockInsns(bb)
	require.Len(t, insns, 4)

	// The second def reads the old value, so a copy into the fresh name is
	// inserted before it.
	copyInsn := insns[1]
	require.Equal(t, mir.OpMovqRegReg, copyInsn.Opcode())

	renamed := copyInsn.RegAt(0)
	assert.Equal(t, vreg1, copyInsn.RegAt(1))
	assert.NotEqual(t, vreg1, renamed)

	assert.Equal(t, renamed, insns[2].RegAt(0))
	assert.Equal(t, renamed, bb.LiveOut()[0])
}

func TestRenameThirdDefOfUseDefReg(t *testing.T) {
	ir := mir.New()
	b := mir.NewBuilder(ir)

	vreg1 := ir.AllocVReg()
	vreg2 := ir.AllocVReg()
	flags := ir.AllocVReg()

	bb := ir.NewBasicBlock()
	b.StartBasicBlock(bb)
	b.GenMovRegImm(vreg1, 4)
	b.GenMovRegImm(vreg1, 3)
	b.GenALUOp(mir.OpAddqRegReg, vreg1, vreg2, flags)
	b.GenJump(0)

	bb.AddLiveOut(vreg1)

	RenameVRegsLocal(context.Background(), ir)

	insns := blockInsns(bb)
	require.Len(t, insns, 5)

	renamed1 := insns[1].RegAt(0)
	assert.NotEqual(t, vreg1, renamed1)

	copyInsn := insns[2]
	require.Equal(t, mir.OpMovqRegReg, copyInsn.Opcode())
	assert.Equal(t, renamed1, copyInsn.RegAt(1))

	renamed2 := copyInsn.RegAt(0)
	assert.NotEqual(t, renamed1, renamed2)
	assert.Equal(t, renamed2, insns[3].RegAt(0))
}

func TestRenameLiveOutsAndSuccessorLiveIns(t *testing.T) {
	ir := mir.New()
	b := mir.NewBuilder(ir)

	vreg1 := ir.AllocVReg()
	vreg2 := ir.AllocVReg()

	bb1 := ir.NewBasicBlock()
	bb2 := ir.NewBasicBlock()

	b.StartBasicBlock(bb1)
	b.GenMovRegImm(vreg1, 4)
	b.GenMovRegImm(vreg1, 0)
	b.GenMovRegReg(vreg2, vreg1)
	b.GenBranch(bb2)

	b.StartBasicBlock(bb2)
	b.GenJump(0)

	bb1.AddLiveOut(vreg1)
	bb1.AddLiveOut(vreg2)

	bb2.AddLiveIn(vreg1)
	bb2.AddLiveIn(vreg2)

	ir.AddEdge(bb1, bb2)

	RenameVRegsLocal(context.Background(), ir)

	require.Len(t, blockInsns(bb1), 4)

	insns2 := blockInsns(bb2)
	require.Len(t, insns2, 2)

	newVReg1 := bb1.LiveOut()[0]
	newVReg2 := bb1.LiveOut()[1]
	assert.NotEqual(t, vreg1, newVReg1)
	assert.Equal(t, vreg2, newVReg2)

	assert.Equal(t, newVReg1, bb2.LiveIn()[0])
	assert.Equal(t, newVReg2, bb2.LiveIn()[1])

	// The old name is restored for bb2's other potential predecessors.
	copyInsn := insns2[0]
	require.Equal(t, mir.OpMovqRegReg, copyInsn.Opcode())
	assert.Equal(t, vreg1, copyInsn.RegAt(0))
	assert.Equal(t, newVReg1, copyInsn.RegAt(1))
}
