package semantics

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redwing-vm/redwing/translator/decoder"
)

var _ decoder.InsnConsumer = (*Player[uint64])(nil)

// evalListener is a minimal interpreter over uint64 values, enough to
// observe what the player feeds it.
type evalListener struct {
	regs     [32]uint64
	insnAddr uint64

	getImmCalls []uint64
	setRegCalls []uint8
	branches    []int32
	calls       []string
}

func (l *evalListener) GetImm(imm uint64) uint64 {
	l.getImmCalls = append(l.getImmCalls, imm)

	return imm
}

func (l *evalListener) GetReg(reg uint8) uint64 { return l.regs[reg] }

func (l *evalListener) SetReg(reg uint8, val uint64) {
	l.setRegCalls = append(l.setRegCalls, reg)
	l.regs[reg] = val
}

func (l *evalListener) Copy(val uint64) uint64 { return val }

func (l *evalListener) GetInsnAddr() uint64 { return l.insnAddr }

func (l *evalListener) Op(opcode decoder.OpOpcode, arg1, arg2 uint64) uint64 {
	switch opcode {
	case decoder.OpAdd:
		return arg1 + arg2
	case decoder.OpSub:
		return arg1 - arg2
	case decoder.OpAnd:
		return arg1 & arg2
	default:
		l.calls = append(l.calls, "op")

		return 0
	}
}

func (l *evalListener) Op32(opcode decoder.Op32Opcode, arg1, arg2 uint64) uint64 {
	l.calls = append(l.calls, "op32")

	return 0
}

func (l *evalListener) OpSingleInput(opcode decoder.OpSingleInputOpcode, arg uint64) uint64 {
	l.calls = append(l.calls, "op_single_input")

	return uint64(uint16(arg))
}

func (l *evalListener) OpImm(opcode decoder.OpImmOpcode, arg uint64, imm int16) uint64 {
	if opcode == decoder.OpImmAddi {
		return arg + uint64(int64(imm))
	}

	l.calls = append(l.calls, "op_imm")

	return 0
}

func (l *evalListener) OpImm32(opcode decoder.OpImm32Opcode, arg uint64, imm int16) uint64 {
	return uint64(int64(int32(arg) + int32(imm)))
}

func (l *evalListener) ShiftImm(opcode decoder.ShiftImmOpcode, arg uint64, imm uint8) uint64 {
	if opcode == decoder.ShiftImmSlli {
		return arg << imm
	}

	l.calls = append(l.calls, "shift_imm")

	return 0
}

func (l *evalListener) ShiftImm32(opcode decoder.ShiftImm32Opcode, arg uint64, imm uint8) uint64 {
	l.calls = append(l.calls, "shift_imm32")

	return 0
}

func (l *evalListener) BitmanipImm(opcode decoder.BitmanipImmOpcode, arg uint64, shamt uint8) uint64 {
	l.calls = append(l.calls, "bitmanip_imm")

	return 0
}

func (l *evalListener) BitmanipImm32(opcode decoder.BitmanipImm32Opcode, arg uint64, shamt uint8) uint64 {
	l.calls = append(l.calls, "bitmanip_imm32")

	return 0
}

func (l *evalListener) Lui(imm int32) uint64   { return uint64(int64(imm)) }
func (l *evalListener) Auipc(imm int32) uint64 { return l.insnAddr + uint64(int64(imm)) }

func (l *evalListener) Load(operandType decoder.LoadOperandType, base uint64, offset int16) uint64 {
	l.calls = append(l.calls, "load")

	return 0
}

func (l *evalListener) Store(operandType decoder.StoreOperandType, base uint64, offset int16, data uint64) {
	l.calls = append(l.calls, "store")
}

func (l *evalListener) CompareAndBranch(opcode decoder.BranchOpcode, arg1, arg2 uint64, offset int16) {
	l.calls = append(l.calls, "compare_and_branch")
}

func (l *evalListener) Branch(offset int32) {
	l.branches = append(l.branches, offset)
}

func (l *evalListener) BranchRegister(base uint64, offset int16) {
	l.calls = append(l.calls, "branch_register")
}

func (l *evalListener) Fence(opcode decoder.FenceOpcode, src uint64, sw, sr, so, si, pw, pr, po, pi bool) {
	l.calls = append(l.calls, "fence")
}

func (l *evalListener) Ecall(syscallNr, arg0, arg1, arg2, arg3, arg4, arg5 uint64) uint64 {
	l.calls = append(l.calls, "ecall")

	return 0
}

func (l *evalListener) Nop()           { l.calls = append(l.calls, "nop") }
func (l *evalListener) Undefined()     { l.calls = append(l.calls, "undefined") }
func (l *evalListener) Unimplemented() { l.calls = append(l.calls, "unimplemented") }

func play(t *testing.T, l *evalListener, word uint32) {
	t.Helper()

	var code [4]byte
	binary.LittleEndian.PutUint32(code[:], word)

	d := decoder.New(NewPlayer[uint64](l))
	require.Equal(t, 4, d.Decode(code[:]))
}

func playCompressed(t *testing.T, l *evalListener, word uint16) {
	t.Helper()

	var code [2]byte
	binary.LittleEndian.PutUint16(code[:], word)

	d := decoder.New(NewPlayer[uint64](l))
	require.Equal(t, 2, d.Decode(code[:]))
}

func TestPlayerZeroRegisterReads(t *testing.T) {
	l := &evalListener{}

	// addi x5, x0, 42
	play(t, l, 42<<20|0b00000_000_00101_0010011)

	assert.Equal(t, []uint64{0}, l.getImmCalls)
	assert.Equal(t, uint64(42), l.regs[5])
}

func TestPlayerZeroRegisterWriteIgnored(t *testing.T) {
	l := &evalListener{}
	l.regs[1] = 7

	// addi x0, x1, 1
	play(t, l, 1<<20|1<<15|0b00000_000_00000_0010011)

	assert.Empty(t, l.setRegCalls)
	assert.Equal(t, uint64(0), l.regs[0])
}

func TestPlayerOpReadsBothSources(t *testing.T) {
	l := &evalListener{}
	l.regs[1] = 30
	l.regs[2] = 12

	// add x3, x1, x2
	play(t, l, 2<<20|1<<15|3<<7|0b0110011)

	assert.Equal(t, uint64(42), l.regs[3])
	assert.Equal(t, []uint8{3}, l.setRegCalls)
}

func TestPlayerJumpAndLink(t *testing.T) {
	l := &evalListener{insnAddr: 0x1000}

	// jal x1, +8
	play(t, l, 8<<20|1<<7|0b1101111)

	assert.Equal(t, uint64(0x1004), l.regs[1])
	assert.Equal(t, []int32{8}, l.branches)
}

func TestPlayerJalrSameBaseAndDst(t *testing.T) {
	l := &evalListener{insnAddr: 0x2000}
	l.regs[1] = 0x3000

	// jalr x1, 0(x1)
	play(t, l, 1<<15|1<<7|0b1100111)

	// The link register is written, and the branch still uses the old value.
	assert.Equal(t, uint64(0x2004), l.regs[1])
	assert.Equal(t, []string{"branch_register"}, l.calls)
}

func TestPlayerEcall(t *testing.T) {
	l := &evalListener{}
	l.regs[17] = 64

	// ecall
	play(t, l, 0b1110011)

	assert.Equal(t, []string{"ecall"}, l.calls)
	assert.Contains(t, l.setRegCalls, uint8(10))
}

func TestPlayerFpUnimplemented(t *testing.T) {
	l := &evalListener{}

	// fadd.d f1, f2, f3
	play(t, l, 0b0000001_00011_00010_000_00001_1010011)

	assert.Equal(t, []string{"unimplemented"}, l.calls)
}

func TestPlayerCompressedNop(t *testing.T) {
	l := &evalListener{}

	// c.nop
	playCompressed(t, l, 0x0001)

	assert.Equal(t, []string{"nop"}, l.calls)
}

func TestPlayerCompressedLi(t *testing.T) {
	l := &evalListener{}

	// c.li x10, 5
	playCompressed(t, l, 0b010_0_01010_00101_01)

	assert.Equal(t, uint64(5), l.regs[10])
}
