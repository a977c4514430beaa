// Package semantics bridges decoded instructions to a Listener that assigns
// them meaning. The Player owns the guest calling conventions that are
// uniform across all consumers: x0 reads produce the zero value, x0 writes
// are dropped, and the link register receives the return address before the
// branch is taken.
package semantics

import (
	"github.com/redwing-vm/redwing/translator/decoder"
)

// Listener evaluates instruction semantics over its own register value
// representation R: machine IR virtual registers for the translation front
// end, plain uint64 for an interpreter.
type Listener[R any] interface {
	// GetImm materializes a constant.
	GetImm(imm uint64) R
	GetReg(reg uint8) R
	SetReg(reg uint8, val R)
	// Copy duplicates a value so a later SetReg cannot invalidate it.
	Copy(val R) R

	// GetInsnAddr is the guest address of the instruction being played.
	GetInsnAddr() uint64

	Op(opcode decoder.OpOpcode, arg1, arg2 R) R
	Op32(opcode decoder.Op32Opcode, arg1, arg2 R) R
	OpSingleInput(opcode decoder.OpSingleInputOpcode, arg R) R
	OpImm(opcode decoder.OpImmOpcode, arg R, imm int16) R
	OpImm32(opcode decoder.OpImm32Opcode, arg R, imm int16) R
	ShiftImm(opcode decoder.ShiftImmOpcode, arg R, imm uint8) R
	ShiftImm32(opcode decoder.ShiftImm32Opcode, arg R, imm uint8) R
	BitmanipImm(opcode decoder.BitmanipImmOpcode, arg R, shamt uint8) R
	BitmanipImm32(opcode decoder.BitmanipImm32Opcode, arg R, shamt uint8) R

	Lui(imm int32) R
	Auipc(imm int32) R

	Load(operandType decoder.LoadOperandType, base R, offset int16) R
	Store(operandType decoder.StoreOperandType, base R, offset int16, data R)

	CompareAndBranch(opcode decoder.BranchOpcode, arg1, arg2 R, offset int16)
	Branch(offset int32)
	BranchRegister(base R, offset int16)

	Fence(opcode decoder.FenceOpcode, src R, sw, sr, so, si, pw, pr, po, pi bool)
	Ecall(syscallNr, arg0, arg1, arg2, arg3, arg4, arg5 R) R

	Nop()
	Undefined()
	Unimplemented()
}

// Player implements decoder.InsnConsumer on top of a Listener.
type Player[R any] struct {
	listener Listener[R]
}

func NewPlayer[R any](listener Listener[R]) *Player[R] {
	return &Player[R]{listener: listener}
}

func (p *Player[R]) getRegOrZero(reg uint8) R {
	if reg == 0 {
		return p.listener.GetImm(0)
	}

	return p.listener.GetReg(reg)
}

func (p *Player[R]) setRegOrIgnore(reg uint8, val R) {
	if reg != 0 {
		p.listener.SetReg(reg, val)
	}
}

func (p *Player[R]) Op(args decoder.OpArgs) {
	arg1 := p.getRegOrZero(args.Src1)
	arg2 := p.getRegOrZero(args.Src2)
	p.setRegOrIgnore(args.Dst, p.listener.Op(args.Opcode, arg1, arg2))
}

func (p *Player[R]) Op32(args decoder.Op32Args) {
	arg1 := p.getRegOrZero(args.Src1)
	arg2 := p.getRegOrZero(args.Src2)
	p.setRegOrIgnore(args.Dst, p.listener.Op32(args.Opcode, arg1, arg2))
}

func (p *Player[R]) OpSingleInput(args decoder.OpSingleInputArgs) {
	arg := p.getRegOrZero(args.Src)
	p.setRegOrIgnore(args.Dst, p.listener.OpSingleInput(args.Opcode, arg))
}

func (p *Player[R]) OpImm(args decoder.OpImmArgs) {
	arg := p.getRegOrZero(args.Src)
	p.setRegOrIgnore(args.Dst, p.listener.OpImm(args.Opcode, arg, args.Imm))
}

func (p *Player[R]) OpImm32(args decoder.OpImm32Args) {
	arg := p.getRegOrZero(args.Src)
	p.setRegOrIgnore(args.Dst, p.listener.OpImm32(args.Opcode, arg, args.Imm))
}

func (p *Player[R]) ShiftImm(args decoder.ShiftImmArgs) {
	arg := p.getRegOrZero(args.Src)
	p.setRegOrIgnore(args.Dst, p.listener.ShiftImm(args.Opcode, arg, args.Imm))
}

func (p *Player[R]) ShiftImm32(args decoder.ShiftImm32Args) {
	arg := p.getRegOrZero(args.Src)
	p.setRegOrIgnore(args.Dst, p.listener.ShiftImm32(args.Opcode, arg, args.Imm))
}

func (p *Player[R]) BitmanipImm(args decoder.BitmanipImmArgs) {
	arg := p.getRegOrZero(args.Src)
	p.setRegOrIgnore(args.Dst, p.listener.BitmanipImm(args.Opcode, arg, args.Shamt))
}

func (p *Player[R]) BitmanipImm32(args decoder.BitmanipImm32Args) {
	arg := p.getRegOrZero(args.Src)
	p.setRegOrIgnore(args.Dst, p.listener.BitmanipImm32(args.Opcode, arg, args.Shamt))
}

func (p *Player[R]) Lui(args decoder.UpperImmArgs) {
	p.setRegOrIgnore(args.Dst, p.listener.Lui(args.Imm))
}

func (p *Player[R]) Auipc(args decoder.UpperImmArgs) {
	p.setRegOrIgnore(args.Dst, p.listener.Auipc(args.Imm))
}

func (p *Player[R]) Load(args decoder.LoadArgs) {
	arg := p.getRegOrZero(args.Src)
	p.setRegOrIgnore(args.Dst, p.listener.Load(args.OperandType, arg, args.Offset))
}

func (p *Player[R]) Store(args decoder.StoreArgs) {
	arg := p.getRegOrZero(args.Src)
	data := p.getRegOrZero(args.Data)
	p.listener.Store(args.OperandType, arg, args.Offset, data)
}

func (p *Player[R]) CompareAndBranch(args decoder.BranchArgs) {
	arg1 := p.getRegOrZero(args.Src1)
	arg2 := p.getRegOrZero(args.Src2)
	p.listener.CompareAndBranch(args.Opcode, arg1, arg2, args.Offset)
}

func (p *Player[R]) JumpAndLink(args decoder.JumpAndLinkArgs) {
	result := p.listener.GetImm(p.listener.GetInsnAddr() + uint64(args.InsnLen))
	p.setRegOrIgnore(args.Dst, result)
	p.listener.Branch(args.Offset)
}

func (p *Player[R]) JumpAndLinkRegister(args decoder.JumpAndLinkRegisterArgs) {
	base := p.getRegOrZero(args.Base)

	// Writing the link register first would clobber base when both name the
	// same register, so keep a copy of the original value.
	if args.Base == args.Dst {
		base = p.listener.Copy(base)
	}

	nextInsnAddr := p.listener.GetImm(p.listener.GetInsnAddr() + uint64(args.InsnLen))
	p.setRegOrIgnore(args.Dst, nextInsnAddr)
	p.listener.BranchRegister(base, args.Offset)
}

func (p *Player[R]) Fence(args decoder.FenceArgs) {
	// args.Src and args.Dst are reserved for finer-grained fences in future
	// extensions and are ignored by base implementations.
	p.listener.Fence(args.Opcode, p.listener.GetImm(0),
		args.Sw, args.Sr, args.So, args.Si, args.Pw, args.Pr, args.Po, args.Pi)
}

func (p *Player[R]) FenceI(args decoder.FenceIArgs) {
	// Not supported on linux; guests use the icache flush syscall instead.
	p.listener.Undefined()
}

func (p *Player[R]) System(args decoder.SystemArgs) {
	if args.Opcode != decoder.SystemEcall {
		p.listener.Undefined()

		return
	}

	syscallNr := p.getRegOrZero(17)
	arg0 := p.getRegOrZero(10)
	arg1 := p.getRegOrZero(11)
	arg2 := p.getRegOrZero(12)
	arg3 := p.getRegOrZero(13)
	arg4 := p.getRegOrZero(14)
	arg5 := p.getRegOrZero(15)
	result := p.listener.Ecall(syscallNr, arg0, arg1, arg2, arg3, arg4, arg5)
	p.setRegOrIgnore(10, result)
}

func (p *Player[R]) Nop() { p.listener.Nop() }

func (p *Player[R]) Undefined() { p.listener.Undefined() }

func (p *Player[R]) Unimplemented() { p.listener.Unimplemented() }

// Floating point, atomic and CSR shapes decode fine but their evaluation
// lives outside this translator; the listener decides how to leave the
// region.

func (p *Player[R]) Amo(args decoder.AmoArgs) { p.listener.Unimplemented() }

func (p *Player[R]) Csr(args decoder.CsrArgs) { p.listener.Unimplemented() }

func (p *Player[R]) CsrImm(args decoder.CsrImmArgs) { p.listener.Unimplemented() }

func (p *Player[R]) Fma(args decoder.FmaArgs) { p.listener.Unimplemented() }

func (p *Player[R]) LoadFp(args decoder.LoadFpArgs) { p.listener.Unimplemented() }

func (p *Player[R]) StoreFp(args decoder.StoreFpArgs) { p.listener.Unimplemented() }

func (p *Player[R]) OpFp(args decoder.OpFpArgs) { p.listener.Unimplemented() }

func (p *Player[R]) OpFpNoRounding(args decoder.OpFpNoRoundingArgs) { p.listener.Unimplemented() }

func (p *Player[R]) OpFpSingleInput(args decoder.OpFpSingleInputArgs) { p.listener.Unimplemented() }

func (p *Player[R]) OpFpSingleInputNoRounding(args decoder.OpFpSingleInputNoRoundingArgs) {
	p.listener.Unimplemented()
}

func (p *Player[R]) OpFpGpRegisterTargetNoRounding(args decoder.OpFpGpRegisterTargetNoRoundingArgs) {
	p.listener.Unimplemented()
}

func (p *Player[R]) OpFpGpRegisterTargetSingleInputNoRounding(args decoder.OpFpGpRegisterTargetSingleInputNoRoundingArgs) {
	p.listener.Unimplemented()
}

func (p *Player[R]) FcvtFloatToFloat(args decoder.FcvtFloatToFloatArgs) { p.listener.Unimplemented() }

func (p *Player[R]) FcvtFloatToInteger(args decoder.FcvtFloatToIntegerArgs) {
	p.listener.Unimplemented()
}

func (p *Player[R]) FcvtIntegerToFloat(args decoder.FcvtIntegerToFloatArgs) {
	p.listener.Unimplemented()
}

func (p *Player[R]) FmvFloatToInteger(args decoder.FmvFloatToIntegerArgs) { p.listener.Unimplemented() }

func (p *Player[R]) FmvIntegerToFloat(args decoder.FmvIntegerToFloatArgs) { p.listener.Unimplemented() }
