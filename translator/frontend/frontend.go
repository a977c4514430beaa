// Package frontend builds machine IR from guest instruction bytes: the
// decoder feeds the semantics player, the player drives the Frontend listener
// and the listener emits builder calls. Guest registers are loaded from and
// stored to the guest context on every access; the backend passes clean the
// resulting redundancy up.
package frontend

import (
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/redwing-vm/redwing/translator/decoder"
	"github.com/redwing-vm/redwing/translator/guest"
	"github.com/redwing-vm/redwing/translator/mir"
)

// Frontend implements the semantics listener over machine IR virtual
// registers. It translates one region: straight-line code with conditional
// branches, until a jump or an instruction it cannot express ends the region.
type Frontend struct {
	b *mir.Builder

	insnAddr guest.Addr

	ended       bool
	unsupported bool
	reason      string
}

func NewFrontend(ir *mir.IR) *Frontend {
	f := &Frontend{b: mir.NewBuilder(ir)}
	f.b.StartBasicBlock(ir.NewBasicBlock())

	return f
}

func (f *Frontend) IR() *mir.IR { return f.b.IR() }

// StartInsn positions the front end at the guest instruction about to be
// dispatched.
func (f *Frontend) StartInsn(addr guest.Addr) { f.insnAddr = addr }

// Ended reports that the region got its terminator and dispatch must stop.
func (f *Frontend) Ended() bool { return f.ended }

// Unsupported reports that the current instruction cannot be translated. The
// region must end before it; nothing emitted for it has guest-visible
// effects.
func (f *Frontend) Unsupported() (bool, string) { return f.unsupported, f.reason }

func (f *Frontend) stopUnsupported(reason string) {
	if f.unsupported {
		return
	}

	f.unsupported = true
	f.reason = reason

	tlog.V("unsupported").Printw("untranslatable instruction", "pc", tlog.FormatNext("0x%x"), f.insnAddr, "reason", reason, "from", loc.Caller(1))
}

// FinishRegion terminates the region with an exit jump to next unless a
// branch already did.
func (f *Frontend) FinishRegion(next guest.Addr) {
	if f.ended {
		return
	}

	f.b.GenJump(next)
	f.ended = true
}

func (f *Frontend) GetImm(imm uint64) mir.Reg {
	if f.unsupported {
		return mir.RegInvalid
	}

	r := f.b.IR().AllocVReg()
	f.b.GenMovRegImm(r, imm)

	return r
}

func (f *Frontend) GetReg(reg uint8) mir.Reg {
	if f.unsupported {
		return mir.RegInvalid
	}

	r := f.b.IR().AllocVReg()
	f.b.GenGet(r, guest.RegOffset(reg))

	return r
}

func (f *Frontend) SetReg(reg uint8, val mir.Reg) {
	if f.unsupported {
		return
	}

	f.b.GenPut(guest.RegOffset(reg), val)
}

func (f *Frontend) Copy(val mir.Reg) mir.Reg {
	if f.unsupported {
		return mir.RegInvalid
	}

	r := f.b.IR().AllocVReg()
	f.b.GenCopy(r, val)

	return r
}

func (f *Frontend) GetInsnAddr() uint64 { return f.insnAddr }

func aluOpcode(opcode decoder.OpOpcode) (mir.Opcode, bool) {
	switch opcode {
	case decoder.OpAdd:
		return mir.OpAddqRegReg, true
	case decoder.OpSub:
		return mir.OpSubqRegReg, true
	case decoder.OpAnd:
		return mir.OpAndqRegReg, true
	case decoder.OpOr:
		return mir.OpOrqRegReg, true
	case decoder.OpXor:
		return mir.OpXorqRegReg, true
	}

	return mir.OpInvalid, false
}

// genALU emits a two-address ALU op: the destination is a fresh register
// initialized from arg1 so arg1 survives.
func (f *Frontend) genALU(op mir.Opcode, arg1, arg2 mir.Reg) mir.Reg {
	res := f.b.IR().AllocVReg()
	f.b.GenMovRegReg(res, arg1)

	flags := f.b.IR().AllocVReg()
	f.b.GenALUOp(op, res, arg2, flags)

	return res
}

func (f *Frontend) Op(opcode decoder.OpOpcode, arg1, arg2 mir.Reg) mir.Reg {
	op, ok := aluOpcode(opcode)
	if !ok || f.unsupported {
		f.stopUnsupported("op")

		return mir.RegInvalid
	}

	return f.genALU(op, arg1, arg2)
}

func (f *Frontend) Op32(opcode decoder.Op32Opcode, arg1, arg2 mir.Reg) mir.Reg {
	f.stopUnsupported("op32")

	return mir.RegInvalid
}

func (f *Frontend) OpSingleInput(opcode decoder.OpSingleInputOpcode, arg mir.Reg) mir.Reg {
	f.stopUnsupported("op single input")

	return mir.RegInvalid
}

func (f *Frontend) OpImm(opcode decoder.OpImmOpcode, arg mir.Reg, imm int16) mir.Reg {
	var op mir.Opcode

	switch opcode {
	case decoder.OpImmAddi:
		op = mir.OpAddqRegReg
	case decoder.OpImmAndi:
		op = mir.OpAndqRegReg
	case decoder.OpImmOri:
		op = mir.OpOrqRegReg
	case decoder.OpImmXori:
		op = mir.OpXorqRegReg
	default:
		f.stopUnsupported("op imm")

		return mir.RegInvalid
	}

	if f.unsupported {
		return mir.RegInvalid
	}

	return f.genALU(op, arg, f.GetImm(uint64(int64(imm))))
}

func (f *Frontend) OpImm32(opcode decoder.OpImm32Opcode, arg mir.Reg, imm int16) mir.Reg {
	f.stopUnsupported("op imm32")

	return mir.RegInvalid
}

func (f *Frontend) ShiftImm(opcode decoder.ShiftImmOpcode, arg mir.Reg, imm uint8) mir.Reg {
	f.stopUnsupported("shift imm")

	return mir.RegInvalid
}

func (f *Frontend) ShiftImm32(opcode decoder.ShiftImm32Opcode, arg mir.Reg, imm uint8) mir.Reg {
	f.stopUnsupported("shift imm32")

	return mir.RegInvalid
}

func (f *Frontend) BitmanipImm(opcode decoder.BitmanipImmOpcode, arg mir.Reg, shamt uint8) mir.Reg {
	f.stopUnsupported("bitmanip imm")

	return mir.RegInvalid
}

func (f *Frontend) BitmanipImm32(opcode decoder.BitmanipImm32Opcode, arg mir.Reg, shamt uint8) mir.Reg {
	f.stopUnsupported("bitmanip imm32")

	return mir.RegInvalid
}

func (f *Frontend) Lui(imm int32) mir.Reg {
	return f.GetImm(uint64(int64(imm)))
}

func (f *Frontend) Auipc(imm int32) mir.Reg {
	return f.GetImm(f.insnAddr + uint64(int64(imm)))
}

func (f *Frontend) Load(operandType decoder.LoadOperandType, base mir.Reg, offset int16) mir.Reg {
	f.stopUnsupported("load")

	return mir.RegInvalid
}

func (f *Frontend) Store(operandType decoder.StoreOperandType, base mir.Reg, offset int16, data mir.Reg) {
	f.stopUnsupported("store")
}

func branchCond(opcode decoder.BranchOpcode) (mir.Cond, bool) {
	switch opcode {
	case decoder.BranchBeq:
		return mir.CondEqual, true
	case decoder.BranchBne:
		return mir.CondNotEqual, true
	case decoder.BranchBlt:
		return mir.CondLess, true
	case decoder.BranchBge:
		return mir.CondGreaterEqual, true
	case decoder.BranchBltu:
		return mir.CondBelow, true
	case decoder.BranchBgeu:
		return mir.CondAboveEqual, true
	}

	return mir.CondInvalid, false
}

// CompareAndBranch ends the current block with a conditional branch. The
// taken side becomes a one-insn block exiting the region for the branch
// target; translation continues in the fallthrough block.
func (f *Frontend) CompareAndBranch(opcode decoder.BranchOpcode, arg1, arg2 mir.Reg, offset int16) {
	cond, ok := branchCond(opcode)
	if !ok || f.unsupported {
		f.stopUnsupported("compare and branch")

		return
	}

	ir := f.b.IR()

	flags := ir.AllocVReg()
	f.b.GenCmp(arg1, arg2, flags)

	cur := f.b.Bb()
	then := ir.NewBasicBlock()
	els := ir.NewBasicBlock()

	f.b.GenCondBranch(cond, then, els, flags)
	ir.AddEdge(cur, then)
	ir.AddEdge(cur, els)

	f.b.StartBasicBlock(then)
	f.b.GenJump(f.insnAddr + uint64(int64(offset)))

	f.b.StartBasicBlock(els)
}

func (f *Frontend) Branch(offset int32) {
	if f.unsupported {
		return
	}

	f.b.GenJump(f.insnAddr + uint64(int64(offset)))
	f.ended = true
}

func (f *Frontend) BranchRegister(base mir.Reg, offset int16) {
	if f.unsupported {
		return
	}

	target := base
	if offset != 0 {
		target = f.genALU(mir.OpAddqRegReg, base, f.GetImm(uint64(int64(offset))))
	}

	f.b.GenIndirectJump(target)
	f.ended = true
}

func (f *Frontend) Fence(opcode decoder.FenceOpcode, src mir.Reg, sw, sr, so, si, pw, pr, po, pi bool) {
	f.stopUnsupported("fence")
}

func (f *Frontend) Ecall(syscallNr, arg0, arg1, arg2, arg3, arg4, arg5 mir.Reg) mir.Reg {
	// Syscalls need a runtime call, which this IR subset cannot express.
	f.stopUnsupported("ecall")

	return mir.RegInvalid
}

func (f *Frontend) Nop() {}

func (f *Frontend) Undefined() {
	f.stopUnsupported("undefined instruction")
}

func (f *Frontend) Unimplemented() {
	f.stopUnsupported("unimplemented instruction")
}
