package mir

import "fmt"

// Reg is a machine instruction operand meaningful for optimizations and
// register allocation. The numeric value encodes what it is:
//
//	virtual register:  [1024, +inf)
//	hard register:     [1, 1024)
//	invalid/undefined: 0
type Reg int

const (
	RegInvalid Reg = 0

	firstVReg = 1024
)

// Host (x86-64) hard registers. RBP is reserved as the guest state pointer.
const (
	RegR8 Reg = iota + 1
	RegR9
	RegR10
	RegR11
	RegRSI
	RegRDI
	RegRAX
	RegRBX
	RegRCX
	RegRDX
	RegRBP
	RegRSP
	RegR12
	RegR13
	RegR14
	RegR15
	RegFLAGS

	RegXMM0
	RegXMM1
	RegXMM2
	RegXMM3
	RegXMM4
	RegXMM5
	RegXMM6
	RegXMM7
	RegXMM8
	RegXMM9
	RegXMM10
	RegXMM11
	RegXMM12
	RegXMM13
	RegXMM14
	RegXMM15
)

// StatePointer is the base register of guest context loads and stores.
const StatePointer = RegRBP

func (r Reg) IsValid() bool   { return r != RegInvalid }
func (r Reg) IsVReg() bool    { return r >= firstVReg }
func (r Reg) IsHardReg() bool { return r > RegInvalid && r < firstVReg }

// VRegIndex returns the allocation index of a virtual register.
func (r Reg) VRegIndex() int {
	if !r.IsVReg() {
		panic(fmt.Sprintf("mir: %v is not a vreg", r))
	}

	return int(r - firstVReg)
}

// VRegFromIndex is the inverse of VRegIndex.
func VRegFromIndex(i int) Reg { return Reg(firstVReg + i) }

var hardRegNames = [...]string{
	RegR8:    "r8",
	RegR9:    "r9",
	RegR10:   "r10",
	RegR11:   "r11",
	RegRSI:   "rsi",
	RegRDI:   "rdi",
	RegRAX:   "rax",
	RegRBX:   "rbx",
	RegRCX:   "rcx",
	RegRDX:   "rdx",
	RegRBP:   "rbp",
	RegRSP:   "rsp",
	RegR12:   "r12",
	RegR13:   "r13",
	RegR14:   "r14",
	RegR15:   "r15",
	RegFLAGS: "flags",
	RegXMM0:  "xmm0",
	RegXMM1:  "xmm1",
	RegXMM2:  "xmm2",
	RegXMM3:  "xmm3",
	RegXMM4:  "xmm4",
	RegXMM5:  "xmm5",
	RegXMM6:  "xmm6",
	RegXMM7:  "xmm7",
	RegXMM8:  "xmm8",
	RegXMM9:  "xmm9",
	RegXMM10: "xmm10",
	RegXMM11: "xmm11",
	RegXMM12: "xmm12",
	RegXMM13: "xmm13",
	RegXMM14: "xmm14",
	RegXMM15: "xmm15",
}

func (r Reg) String() string {
	switch {
	case r.IsVReg():
		return fmt.Sprintf("v%d", r.VRegIndex())
	case r.IsHardReg() && int(r) < len(hardRegNames) && hardRegNames[r] != "":
		return hardRegNames[r]
	case r == RegInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("reg(%d)", int(r))
	}
}

// RegKind tells how an instruction treats a register operand.
type RegKind int

const (
	// KindUse reads the operand. It must carry a value when the
	// instruction executes.
	KindUse RegKind = 1 << iota
	// KindDef writes the operand.
	KindDef
)

const KindUseDef = KindUse | KindDef

func (k RegKind) IsUse() bool { return k&KindUse != 0 }
func (k RegKind) IsDef() bool { return k&KindDef != 0 }
