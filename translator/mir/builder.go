package mir

// Builder is syntax sugar for appending instructions to the block being
// built. StartBasicBlock enrolls the block into the IR's block list.
type Builder struct {
	ir *IR
	bb *BasicBlock
}

func NewBuilder(ir *IR) *Builder {
	return &Builder{ir: ir}
}

func (b *Builder) IR() *IR { return b.ir }

// Bb returns the block under construction.
func (b *Builder) Bb() *BasicBlock { return b.bb }

func (b *Builder) StartBasicBlock(bb *BasicBlock) {
	if !bb.insns.Empty() {
		panic("mir: starting a basic block that already has instructions")
	}

	b.ir.enrollBasicBlock(bb)
	b.bb = bb
}

// Gen appends in to the current block and returns it.
func (b *Builder) Gen(in *Insn) *Insn {
	b.bb.insns.PushBack(in)

	return in
}

func (b *Builder) GenMovRegReg(dst, src Reg) *Insn {
	return b.Gen(b.ir.NewMovRegReg(dst, src))
}

func (b *Builder) GenMovRegImm(dst Reg, imm uint64) *Insn {
	return b.Gen(b.ir.NewMovRegImm(dst, imm))
}

// GenGet loads a guest context field.
func (b *Builder) GenGet(dst Reg, disp uint32) *Insn {
	return b.Gen(b.ir.NewStateGet(dst, disp))
}

// GenPut stores into a guest context field.
func (b *Builder) GenPut(disp uint32, src Reg) *Insn {
	return b.Gen(b.ir.NewStatePut(disp, src))
}

func (b *Builder) GenALUOp(op Opcode, dst, src, flags Reg) *Insn {
	return b.Gen(b.ir.NewALUOp(op, dst, src, flags))
}

func (b *Builder) GenCmp(src1, src2, flags Reg) *Insn {
	return b.Gen(b.ir.NewCmp(src1, src2, flags))
}

func (b *Builder) GenCopy(dst, src Reg) *Insn {
	return b.Gen(b.ir.NewCopy(dst, src))
}

func (b *Builder) GenBranch(then *BasicBlock) *Insn {
	return b.Gen(b.ir.NewBranch(then))
}

func (b *Builder) GenCondBranch(cond Cond, then, els *BasicBlock, flags Reg) *Insn {
	return b.Gen(b.ir.NewCondBranch(cond, then, els, flags))
}

func (b *Builder) GenJump(target uint64) *Insn {
	return b.Gen(b.ir.NewJump(target))
}

func (b *Builder) GenIndirectJump(src Reg) *Insn {
	return b.Gen(b.ir.NewIndirectJump(src))
}
