package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redwing-vm/redwing/translator/guest"
	"github.com/redwing-vm/redwing/translator/mir"
)

func TestContextOptReadAfterWrite(t *testing.T) {
	ir := mir.New()
	b := mir.NewBuilder(ir)

	reg1 := ir.AllocVReg()
	reg2 := ir.AllocVReg()

	bb := ir.NewBasicBlock()
	b.StartBasicBlock(bb)
	b.GenPut(guest.RegOffset(1), reg1)
	b.GenGet(reg2, guest.RegOffset(1))
	b.GenJump(0)

	bb.AddLiveIn(reg1)

	RemoveLocalGuestContextAccesses(context.Background(), ir)
	require.Equal(t, mir.CheckOK, mir.Check(ir))

	insns := blockInsns(bb)
	require.Len(t, insns, 3)

	store := insns[0]
	require.Equal(t, mir.OpMovqMemBaseDispReg, store.Opcode())
	assert.Equal(t, guest.RegOffset(1), store.Disp())
	assert.Equal(t, mir.StatePointer, store.RegAt(0))

	loadCopy := insns[1]
	require.Equal(t, mir.OpPseudoCopy, loadCopy.Opcode())
	assert.Equal(t, reg2, loadCopy.RegAt(0))
	assert.Equal(t, store.RegAt(1), loadCopy.RegAt(1))
}

func TestContextOptReadAfterRead(t *testing.T) {
	ir := mir.New()
	b := mir.NewBuilder(ir)

	reg1 := ir.AllocVReg()
	reg2 := ir.AllocVReg()

	bb := ir.NewBasicBlock()
	b.StartBasicBlock(bb)
	b.GenGet(reg1, guest.RegOffset(2))
	b.GenGet(reg2, guest.RegOffset(2))
	b.GenJump(0)

	RemoveLocalGuestContextAccesses(context.Background(), ir)
	require.Equal(t, mir.CheckOK, mir.Check(ir))

	insns := blockInsns(bb)
	require.Len(t, insns, 3)

	load := insns[0]
	require.Equal(t, mir.OpMovqRegMemBaseDisp, load.Opcode())
	assert.Equal(t, guest.RegOffset(2), load.Disp())
	assert.Equal(t, reg1, load.RegAt(0))
	assert.Equal(t, mir.StatePointer, load.RegAt(1))

	copyInsn := insns[1]
	require.Equal(t, mir.OpPseudoCopy, copyInsn.Opcode())
	assert.Equal(t, reg2, copyInsn.RegAt(0))
	assert.Equal(t, reg1, copyInsn.RegAt(1))
}

func TestContextOptWriteAfterWrite(t *testing.T) {
	ir := mir.New()
	b := mir.NewBuilder(ir)

	reg1 := ir.AllocVReg()
	reg2 := ir.AllocVReg()

	bb := ir.NewBasicBlock()
	b.StartBasicBlock(bb)
	b.GenPut(guest.RegOffset(3), reg1)
	b.GenPut(guest.RegOffset(3), reg2)
	b.GenJump(0)

	bb.AddLiveIn(reg1)
	bb.AddLiveIn(reg2)

	RemoveLocalGuestContextAccesses(context.Background(), ir)
	require.Equal(t, mir.CheckOK, mir.Check(ir))

	insns := blockInsns(bb)
	require.Len(t, insns, 2)

	store := insns[0]
	require.Equal(t, mir.OpMovqMemBaseDispReg, store.Opcode())
	assert.Equal(t, guest.RegOffset(3), store.Disp())
	assert.Equal(t, reg2, store.RegAt(1))
	assert.Equal(t, mir.StatePointer, store.RegAt(0))
}

func TestContextOptKeepsReservationValueAccesses(t *testing.T) {
	ir := mir.New()
	b := mir.NewBuilder(ir)

	reg1 := ir.AllocVReg()
	reg2 := ir.AllocVReg()

	bb := ir.NewBasicBlock()
	b.StartBasicBlock(bb)
	b.GenPut(guest.ReservationValueOffset, reg1)
	b.GenPut(guest.ReservationValueOffset, reg2)
	b.GenJump(0)

	bb.AddLiveIn(reg1)
	bb.AddLiveIn(reg2)

	RemoveLocalGuestContextAccesses(context.Background(), ir)
	require.Equal(t, mir.CheckOK, mir.Check(ir))

	insns := blockInsns(bb)
	require.Len(t, insns, 3)

	for _, in := range insns[:2] {
		assert.Equal(t, mir.OpMovqMemBaseDispReg, in.Opcode())
		assert.Equal(t, uint32(guest.ReservationValueOffset), in.Disp())
	}
}

func TestContextOptMapClearedBetweenBlocks(t *testing.T) {
	ir := mir.New()
	b := mir.NewBuilder(ir)

	reg1 := ir.AllocVReg()
	reg2 := ir.AllocVReg()

	bb1 := ir.NewBasicBlock()
	bb2 := ir.NewBasicBlock()

	b.StartBasicBlock(bb1)
	b.GenGet(reg1, guest.RegOffset(4))
	b.GenBranch(bb2)

	b.StartBasicBlock(bb2)
	b.GenGet(reg2, guest.RegOffset(4))
	b.GenJump(0)

	ir.AddEdge(bb1, bb2)

	RemoveLocalGuestContextAccesses(context.Background(), ir)
	require.Equal(t, mir.CheckOK, mir.Check(ir))

	// The load in bb2 must stay a real load: the value is only known
	// within the block that loaded it.
	insns2 := blockInsns(bb2)
	require.Len(t, insns2, 2)
	assert.Equal(t, mir.OpMovqRegMemBaseDisp, insns2[0].Opcode())
}
