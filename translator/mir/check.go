package mir

import (
	"github.com/redwing-vm/redwing/translator/set"
)

// CheckStatus is the structural validator's verdict. Anything but CheckOK
// means a bug in the pass pipeline, not a guest-input problem, so callers
// treat it as fatal.
type CheckStatus int

const (
	CheckOK CheckStatus = iota
	CheckDanglingEdge
	CheckDanglingBasicBlock
	CheckBadControlTransfer
	CheckUseWithoutDef
)

var checkStatusNames = [...]string{
	CheckOK:                 "ok",
	CheckDanglingEdge:       "dangling edge",
	CheckDanglingBasicBlock: "dangling basic block",
	CheckBadControlTransfer: "bad control transfer",
	CheckUseWithoutDef:      "use without def",
}

func (s CheckStatus) String() string {
	if int(s) < len(checkStatusNames) {
		return checkStatusNames[s]
	}

	return "unknown"
}

// Check validates the structural invariants of the graph: edge lists are
// mutually consistent, every block ends with exactly one control transfer
// whose targets are successors, and every vreg use is reached by a def in
// the same block or is listed in live-in.
func Check(ir *IR) CheckStatus {
	for _, bb := range ir.bbs {
		if !checkEdgesLinkBlock(bb) {
			return CheckDanglingEdge
		}

		if st := checkNoDangling(ir, bb); st != CheckOK {
			return st
		}

		if !checkControlTransfer(bb) {
			return CheckBadControlTransfer
		}

		if !checkUsesReached(ir, bb) {
			return CheckUseWithoutDef
		}
	}

	return CheckOK
}

func checkEdgesLinkBlock(bb *BasicBlock) bool {
	for _, e := range bb.inEdges {
		if e.dst != bb {
			return false
		}
	}

	for _, e := range bb.outEdges {
		if e.src != bb {
			return false
		}
	}

	return true
}

func checkNoDangling(ir *IR, bb *BasicBlock) CheckStatus {
	if len(bb.outEdges) == 0 && len(bb.inEdges) == 0 {
		if len(ir.bbs) != 1 {
			return CheckDanglingBasicBlock
		}

		return CheckOK
	}

	for _, e := range bb.outEdges {
		if !containsEdge(e.dst.inEdges, e) {
			return CheckDanglingEdge
		}

		if !containsBlock(ir.bbs, e.dst) {
			return CheckDanglingBasicBlock
		}
	}

	for _, e := range bb.inEdges {
		if !containsEdge(e.src.outEdges, e) {
			return CheckDanglingEdge
		}

		if !containsBlock(ir.bbs, e.src) {
			return CheckDanglingBasicBlock
		}
	}

	return CheckOK
}

func checkControlTransfer(bb *BasicBlock) bool {
	for in := bb.insns.Front(); in != nil; in = in.Next() {
		switch in.Opcode() {
		case OpPseudoJump, OpPseudoIndirectJump:
			return in == bb.insns.Back()
		case OpPseudoBranch:
			return in == bb.insns.Back() && isSuccessor(bb, in.ThenBB())
		case OpPseudoCondBranch:
			return in == bb.insns.Back() &&
				isSuccessor(bb, in.ThenBB()) && isSuccessor(bb, in.ElseBB())
		}
	}

	return false
}

func checkUsesReached(ir *IR, bb *BasicBlock) bool {
	defined := set.MakeBitmap(ir.numVReg)

	for _, r := range bb.liveIn {
		if r.IsVReg() {
			defined.Set(r.VRegIndex())
		}
	}

	for in := bb.insns.Front(); in != nil; in = in.Next() {
		for i := 0; i < in.NumRegOperands(); i++ {
			r := in.RegAt(i)
			if !r.IsVReg() {
				continue
			}

			k := in.RegKindAt(i)
			if k.IsUse() && !defined.IsSet(r.VRegIndex()) {
				return false
			}
		}

		// Defs become visible only after the whole instruction.
		for i := 0; i < in.NumRegOperands(); i++ {
			r := in.RegAt(i)
			if r.IsVReg() && in.RegKindAt(i).IsDef() {
				defined.Set(r.VRegIndex())
			}
		}
	}

	return true
}

func isSuccessor(src, dst *BasicBlock) bool {
	for _, e := range src.outEdges {
		if e.dst == dst {
			return true
		}
	}

	return false
}

func containsEdge(edges []*Edge, e *Edge) bool {
	for _, x := range edges {
		if x == e {
			return true
		}
	}

	return false
}

func containsBlock(bbs []*BasicBlock, bb *BasicBlock) bool {
	for _, x := range bbs {
		if x == bb {
			return true
		}
	}

	return false
}
