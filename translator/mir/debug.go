package mir

import (
	"fmt"
	"strings"
)

// Debug strings, consumed by tlog dumps and tests.

func (in *Insn) String() string {
	var b strings.Builder

	b.WriteString(in.op.String())

	switch in.op {
	case OpMovqRegImm:
		fmt.Fprintf(&b, " %v, %#x", in.regs[0], in.imm)
	case OpMovqRegMemBaseDisp:
		fmt.Fprintf(&b, " %v, [%v+%#x]", in.regs[0], in.regs[1], in.disp)
	case OpMovqMemBaseDispReg:
		fmt.Fprintf(&b, " [%v+%#x], %v", in.regs[0], in.disp, in.regs[1])
	case OpPseudoBranch:
		fmt.Fprintf(&b, " %d", in.thenBB.id)
	case OpPseudoCondBranch:
		fmt.Fprintf(&b, " %v, %d, %d, (%v)", in.cond, in.thenBB.id, in.elseBB.id, in.regs[0])
	case OpPseudoJump:
		fmt.Fprintf(&b, " %#x", in.target)
	default:
		for i := 0; i < in.NumRegOperands(); i++ {
			if i > 0 {
				b.WriteString(",")
			}

			fmt.Fprintf(&b, " %v", in.regs[i])
		}
	}

	return b.String()
}

func (bb *BasicBlock) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%2d BasicBlock live_in=%s live_out=%s\n",
		bb.id, regsString(bb.liveIn), regsString(bb.liveOut))

	for _, e := range bb.inEdges {
		fmt.Fprintf(&b, "    Edge %d -> %d\n", e.src.id, e.dst.id)
	}

	for in := bb.insns.Front(); in != nil; in = in.Next() {
		fmt.Fprintf(&b, "    %v\n", in)
	}

	return b.String()
}

func (ir *IR) String() string {
	var b strings.Builder

	for _, bb := range ir.bbs {
		b.WriteString(bb.String())
	}

	return b.String()
}

// Dot renders the control-flow graph in graphviz format.
func (ir *IR) Dot() string {
	var b strings.Builder

	b.WriteString("digraph MIR {\n")

	for _, bb := range ir.bbs {
		for _, e := range bb.inEdges {
			fmt.Fprintf(&b, "BB%d->BB%d;\n", e.src.id, bb.id)
		}

		fmt.Fprintf(&b, "BB%d [shape=box,label=\"BB%d\\l", bb.id, bb.id)

		for in := bb.insns.Front(); in != nil; in = in.Next() {
			b.WriteString(in.String())
			b.WriteString("\\l")
		}

		b.WriteString("\"];\n")
	}

	b.WriteString("}\n")

	return b.String()
}

func regsString(regs []Reg) string {
	var b strings.Builder

	b.WriteString("[")

	for i, r := range regs {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(r.String())
	}

	b.WriteString("]")

	return b.String()
}
