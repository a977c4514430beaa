package frontend

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redwing-vm/redwing/translator/guest"
	"github.com/redwing-vm/redwing/translator/mir"
)

func word(code []byte, w uint32) []byte {
	return binary.LittleEndian.AppendUint32(code, w)
}

func half(code []byte, w uint16) []byte {
	return binary.LittleEndian.AppendUint16(code, w)
}

func countInsns(ir *mir.IR, pred func(*mir.Insn) bool) int {
	n := 0

	for _, bb := range ir.BasicBlocks() {
		for in := bb.Insns().Front(); in != nil; in = in.Next() {
			if pred(in) {
				n++
			}
		}
	}

	return n
}

func lastInsn(ir *mir.IR) *mir.Insn {
	bbs := ir.BasicBlocks()

	return bbs[len(bbs)-1].Insns().Back()
}

func TestTranslateAddi(t *testing.T) {
	// addi x5, x0, 42
	code := word(nil, 42<<20|5<<7|0b0010011)

	ir, err := Translate(context.Background(), 0x1000, code)
	require.NoError(t, err)

	assert.Equal(t, 1, ir.NumBasicBlocks())
	assert.Equal(t, mir.CheckOK, mir.Check(ir))

	assert.Equal(t, 1, countInsns(ir, (*mir.Insn).IsStatePut))

	term := lastInsn(ir)
	require.Equal(t, mir.OpPseudoJump, term.Opcode())
	assert.Equal(t, uint64(0x1004), term.Target())
}

func TestTranslateEliminatesRepeatedLoads(t *testing.T) {
	// add x3, x1, x2
	// add x4, x1, x2
	code := word(nil, 2<<20|1<<15|3<<7|0b0110011)
	code = word(code, 2<<20|1<<15|4<<7|0b0110011)

	ir, err := Translate(context.Background(), 0x1000, code)
	require.NoError(t, err)

	assert.Equal(t, mir.CheckOK, mir.Check(ir))

	// x1 and x2 are loaded once; the second instruction reuses the values.
	assert.Equal(t, 2, countInsns(ir, (*mir.Insn).IsStateGet))
	assert.Equal(t, 2, countInsns(ir, (*mir.Insn).IsStatePut))
}

func TestTranslateNoOptKeepsLoads(t *testing.T) {
	code := word(nil, 2<<20|1<<15|3<<7|0b0110011)
	code = word(code, 2<<20|1<<15|4<<7|0b0110011)

	ir, err := TranslateRegion(context.Background(), 0x1000, code, Options{NoOpt: true})
	require.NoError(t, err)

	assert.Equal(t, mir.CheckOK, mir.Check(ir))
	assert.Equal(t, 4, countInsns(ir, (*mir.Insn).IsStateGet))
}

func TestTranslateBranch(t *testing.T) {
	// beq x1, x2, +16
	code := word(nil, 2<<20|1<<15|0b1000<<8|0b1100011)

	ir, err := Translate(context.Background(), 0x1000, code)
	require.NoError(t, err)

	assert.Equal(t, mir.CheckOK, mir.Check(ir))

	// Entry block, taken block, fallthrough block.
	bbs := ir.BasicBlocks()
	require.Len(t, bbs, 3)
	assert.Len(t, bbs[0].OutEdges(), 2)

	cond := bbs[0].Insns().Back()
	require.Equal(t, mir.OpPseudoCondBranch, cond.Opcode())
	assert.Equal(t, mir.CondEqual, cond.Cond())

	taken := cond.ThenBB().Insns().Back()
	require.Equal(t, mir.OpPseudoJump, taken.Opcode())
	assert.Equal(t, uint64(0x1010), taken.Target())

	fall := cond.ElseBB().Insns().Back()
	require.Equal(t, mir.OpPseudoJump, fall.Opcode())
	assert.Equal(t, uint64(0x1004), fall.Target())
}

func TestTranslateJalEndsRegion(t *testing.T) {
	// jal x1, +8; the addi after it belongs to another region.
	code := word(nil, 8<<20|1<<7|0b1101111)
	code = word(code, 1<<20|6<<7|0b0010011)

	ir, err := Translate(context.Background(), 0x1000, code)
	require.NoError(t, err)

	assert.Equal(t, mir.CheckOK, mir.Check(ir))

	term := lastInsn(ir)
	require.Equal(t, mir.OpPseudoJump, term.Opcode())
	assert.Equal(t, uint64(0x1008), term.Target())

	// Only the link register was written.
	assert.Equal(t, 1, countInsns(ir, (*mir.Insn).IsStatePut))
	assert.Equal(t, 1, countInsns(ir, func(in *mir.Insn) bool {
		return in.IsStatePut() && in.Disp() == guest.RegOffset(1)
	}))
}

func TestTranslateJalr(t *testing.T) {
	// jalr x0, 0(x5)
	code := word(nil, 5<<15|0b1100111)

	ir, err := Translate(context.Background(), 0x1000, code)
	require.NoError(t, err)

	assert.Equal(t, mir.CheckOK, mir.Check(ir))
	assert.Equal(t, mir.OpPseudoIndirectJump, lastInsn(ir).Opcode())
}

func TestTranslateCompressed(t *testing.T) {
	// c.li x10, 5
	// c.j +4
	code := half(nil, 0b010_0_01010_00101_01)
	code = half(code, 0b101_00000000100_01)

	ir, err := Translate(context.Background(), 0x2000, code)
	require.NoError(t, err)

	assert.Equal(t, mir.CheckOK, mir.Check(ir))
	assert.Equal(t, 1, countInsns(ir, func(in *mir.Insn) bool {
		return in.IsStatePut() && in.Disp() == guest.RegOffset(10)
	}))

	term := lastInsn(ir)
	require.Equal(t, mir.OpPseudoJump, term.Opcode())
	assert.Equal(t, uint64(0x2006), term.Target())
}

func TestTranslateUnsupportedFirstInsn(t *testing.T) {
	// fadd.d f1, f2, f3
	code := word(nil, 0b0000001_00011_00010_000_00001_1010011)

	_, err := Translate(context.Background(), 0x1000, code)
	assert.Error(t, err)
}

func TestTranslateRegionCutShortBeforeUnsupported(t *testing.T) {
	// addi x5, x0, 1 followed by fadd.d: the region exits to the fadd.
	code := word(nil, 1<<20|5<<7|0b0010011)
	code = word(code, 0b0000001_00011_00010_000_00001_1010011)

	ir, err := Translate(context.Background(), 0x1000, code)
	require.NoError(t, err)

	assert.Equal(t, mir.CheckOK, mir.Check(ir))

	term := lastInsn(ir)
	require.Equal(t, mir.OpPseudoJump, term.Opcode())
	assert.Equal(t, uint64(0x1004), term.Target())
}

func TestTranslateNoBytes(t *testing.T) {
	_, err := Translate(context.Background(), 0x1000, nil)
	assert.Error(t, err)
}

func TestTranslateTruncatedInsn(t *testing.T) {
	// A full addi, then the first half of a 4-byte instruction.
	code := word(nil, 1<<20|5<<7|0b0010011)
	code = half(code, 0b0010011|0b11)

	ir, err := Translate(context.Background(), 0x1000, code)
	require.NoError(t, err)

	term := lastInsn(ir)
	require.Equal(t, mir.OpPseudoJump, term.Opcode())
	assert.Equal(t, uint64(0x1004), term.Target())
}
