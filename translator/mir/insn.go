package mir

import (
	"fmt"

	"github.com/redwing-vm/redwing/translator/guest"
)

// Opcode tags a machine instruction. The set covers what the front end emits
// and what the local passes rewrite; code emission for these lives outside
// this package.
type Opcode int

const (
	OpInvalid Opcode = iota

	// Host instructions.
	OpMovqRegReg
	OpMovqRegImm
	OpMovqRegMemBaseDisp // guest context load: dst = [base+disp]
	OpMovqMemBaseDispReg // guest context store: [base+disp] = src
	OpAddqRegReg
	OpSubqRegReg
	OpAndqRegReg
	OpOrqRegReg
	OpXorqRegReg
	OpCmpqRegReg

	// Pseudo instructions, expanded or dropped by later stages.
	OpPseudoCopy
	OpPseudoBranch
	OpPseudoCondBranch
	OpPseudoJump
	OpPseudoIndirectJump

	numOpcodes
)

// InsnKind classifies instructions for optimizations.
type InsnKind int

const (
	InsnDefault InsnKind = iota
	InsnSideEffects
	InsnCopy
)

const maxRegOperands = 3

type insnInfo struct {
	name  string
	kinds [maxRegOperands]RegKind
	nregs int
	kind  InsnKind
}

var insnInfos = [numOpcodes]insnInfo{
	OpMovqRegReg:         {name: "MOVQ_REG_REG", nregs: 2, kinds: [maxRegOperands]RegKind{KindDef, KindUse}, kind: InsnCopy},
	OpMovqRegImm:         {name: "MOVQ_REG_IMM", nregs: 1, kinds: [maxRegOperands]RegKind{KindDef}},
	OpMovqRegMemBaseDisp: {name: "MOVQ_REG_MEM", nregs: 2, kinds: [maxRegOperands]RegKind{KindDef, KindUse}},
	OpMovqMemBaseDispReg: {name: "MOVQ_MEM_REG", nregs: 2, kinds: [maxRegOperands]RegKind{KindUse, KindUse}},
	OpAddqRegReg:         {name: "ADDQ_REG_REG", nregs: 3, kinds: [maxRegOperands]RegKind{KindUseDef, KindUse, KindDef}},
	OpSubqRegReg:         {name: "SUBQ_REG_REG", nregs: 3, kinds: [maxRegOperands]RegKind{KindUseDef, KindUse, KindDef}},
	OpAndqRegReg:         {name: "ANDQ_REG_REG", nregs: 3, kinds: [maxRegOperands]RegKind{KindUseDef, KindUse, KindDef}},
	OpOrqRegReg:          {name: "ORQ_REG_REG", nregs: 3, kinds: [maxRegOperands]RegKind{KindUseDef, KindUse, KindDef}},
	OpXorqRegReg:         {name: "XORQ_REG_REG", nregs: 3, kinds: [maxRegOperands]RegKind{KindUseDef, KindUse, KindDef}},
	OpCmpqRegReg:         {name: "CMPQ_REG_REG", nregs: 3, kinds: [maxRegOperands]RegKind{KindUse, KindUse, KindDef}},

	OpPseudoCopy:         {name: "PSEUDO_COPY", nregs: 2, kinds: [maxRegOperands]RegKind{KindDef, KindUse}, kind: InsnCopy},
	OpPseudoBranch:       {name: "PSEUDO_BRANCH", kind: InsnSideEffects},
	OpPseudoCondBranch:   {name: "PSEUDO_COND_BRANCH", nregs: 1, kinds: [maxRegOperands]RegKind{KindUse}, kind: InsnSideEffects},
	OpPseudoJump:         {name: "PSEUDO_JUMP", kind: InsnSideEffects},
	OpPseudoIndirectJump: {name: "PSEUDO_INDIRECT_JUMP", nregs: 1, kinds: [maxRegOperands]RegKind{KindUse}, kind: InsnSideEffects},
}

func (op Opcode) String() string {
	if op <= OpInvalid || op >= numOpcodes {
		return fmt.Sprintf("op(%d)", int(op))
	}

	return insnInfos[op].name
}

// Cond is a host branch condition.
type Cond int

const (
	CondInvalid Cond = iota
	CondEqual
	CondNotEqual
	CondLess
	CondGreaterEqual
	CondBelow
	CondAboveEqual
)

var condNames = [...]string{
	CondInvalid:      "?",
	CondEqual:        "e",
	CondNotEqual:     "ne",
	CondLess:         "l",
	CondGreaterEqual: "ge",
	CondBelow:        "b",
	CondAboveEqual:   "ae",
}

func (c Cond) String() string {
	if int(c) < len(condNames) {
		return condNames[c]
	}

	return "?"
}

// Insn is a machine instruction: an opcode, register operands tagged by the
// opcode's static info, and auxiliary fields only some opcodes use. Insns are
// allocated from the owning IR and belong to exactly one basic block's list.
type Insn struct {
	op   Opcode
	regs [maxRegOperands]Reg

	disp   uint32
	imm    uint64
	cond   Cond
	thenBB *BasicBlock
	elseBB *BasicBlock
	target uint64 // guest address for PseudoJump

	prev, next *Insn
}

func (in *Insn) Opcode() Opcode      { return in.op }
func (in *Insn) NumRegOperands() int { return insnInfos[in.op].nregs }

func (in *Insn) RegAt(i int) Reg {
	if i >= in.NumRegOperands() {
		panic("mir: register operand index out of range")
	}

	return in.regs[i]
}

func (in *Insn) SetRegAt(i int, r Reg) {
	if i >= in.NumRegOperands() {
		panic("mir: register operand index out of range")
	}

	in.regs[i] = r
}

func (in *Insn) RegKindAt(i int) RegKind {
	if i >= in.NumRegOperands() {
		panic("mir: register operand index out of range")
	}

	return insnInfos[in.op].kinds[i]
}

func (in *Insn) Kind() InsnKind       { return insnInfos[in.op].kind }
func (in *Insn) HasSideEffects() bool { return in.Kind() == InsnSideEffects }
func (in *Insn) IsCopy() bool         { return in.Kind() == InsnCopy }

func (in *Insn) Disp() uint32 { return in.disp }
func (in *Insn) Imm() uint64  { return in.imm }
func (in *Insn) Cond() Cond   { return in.cond }

func (in *Insn) ThenBB() *BasicBlock { return in.thenBB }
func (in *Insn) ElseBB() *BasicBlock { return in.elseBB }

func (in *Insn) SetThenBB(bb *BasicBlock) { in.thenBB = bb }
func (in *Insn) SetElseBB(bb *BasicBlock) { in.elseBB = bb }

// Target is the guest address of a PseudoJump.
func (in *Insn) Target() uint64 { return in.target }

// Next and Prev walk the owning block's instruction list.
func (in *Insn) Next() *Insn { return in.next }
func (in *Insn) Prev() *Insn { return in.prev }

// IsControlTransfer reports whether the insn must terminate a basic block.
func (in *Insn) IsControlTransfer() bool {
	switch in.op {
	case OpPseudoBranch, OpPseudoCondBranch, OpPseudoJump, OpPseudoIndirectJump:
		return true
	}

	return false
}

// IsStateGet recognizes a load of a guest context field: a base+disp load
// with the state pointer as base and disp inside the optimizable part of the
// state. The reservation value is excluded: its accesses carry ordering
// semantics the IR cannot see.
func (in *Insn) IsStateGet() bool {
	if in.op != OpMovqRegMemBaseDisp {
		return false
	}

	if !stateDispOptimizable(in.disp) {
		return false
	}

	return in.regs[1] == StatePointer
}

// IsStatePut is the store counterpart of IsStateGet.
func (in *Insn) IsStatePut() bool {
	if in.op != OpMovqMemBaseDispReg {
		return false
	}

	if !stateDispOptimizable(in.disp) {
		return false
	}

	return in.regs[0] == StatePointer
}

func stateDispOptimizable(disp uint32) bool {
	if disp >= guest.StateSize {
		return false
	}

	return disp < guest.ReservationValueOffset || disp >= guest.ReservationValueOffset+guest.ReservationSize
}
