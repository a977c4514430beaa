package mir

// pool is a chunked arena. Chunks have a fixed capacity and are never
// re-sliced past it, so returned pointers stay stable for the IR's lifetime.
// Nothing is freed individually; dropping the IR releases everything at once.
type pool[T any] struct {
	chunks [][]T
}

const poolChunkSize = 64

func (p *pool[T]) alloc() *T {
	n := len(p.chunks)
	if n == 0 || len(p.chunks[n-1]) == cap(p.chunks[n-1]) {
		p.chunks = append(p.chunks, make([]T, 0, poolChunkSize))
		n++
	}

	c := &p.chunks[n-1]
	*c = append(*c, *new(T))

	return &(*c)[len(*c)-1]
}

// IR is the machine IR of one translated guest region: the arena, the basic
// block list and the virtual register counter. One IR exists per region and
// is never shared between concurrent translations.
type IR struct {
	numVReg int
	numBB   int

	bbs []*BasicBlock

	insnPool pool[Insn]
	bbPool   pool[BasicBlock]
	edgePool pool[Edge]
}

func New() *IR {
	return &IR{}
}

func (ir *IR) NumVReg() int { return ir.numVReg }

// AllocVReg hands out the next virtual register.
func (ir *IR) AllocVReg() Reg {
	r := VRegFromIndex(ir.numVReg)
	ir.numVReg++

	return r
}

func (ir *IR) NumBasicBlocks() int { return ir.numBB }

// BasicBlocks is the list of enrolled blocks in layout order.
func (ir *IR) BasicBlocks() []*BasicBlock { return ir.bbs }

// NewBasicBlock creates a block without enrolling it into the block list;
// the builder enrolls it when the block is started.
func (ir *IR) NewBasicBlock() *BasicBlock {
	bb := ir.bbPool.alloc()
	bb.id = ir.numBB
	ir.numBB++

	return bb
}

func (ir *IR) enrollBasicBlock(bb *BasicBlock) { ir.bbs = append(ir.bbs, bb) }

// AddEdge links src to dst, keeping both edge lists consistent.
func (ir *IR) AddEdge(src, dst *BasicBlock) *Edge {
	e := ir.edgePool.alloc()
	e.src = src
	e.dst = dst

	src.outEdges = append(src.outEdges, e)
	dst.inEdges = append(dst.inEdges, e)

	return e
}

// SplitBasicBlock moves instructions from pos to the end of bb into a new
// block, terminates bb with a branch to it and relinks bb's out edges.
// Instruction positions stay valid in the new block.
func (ir *IR) SplitBasicBlock(bb *BasicBlock, pos *Insn) *BasicBlock {
	newBB := ir.NewBasicBlock()

	for in := pos; in != nil; {
		next := in.Next()
		bb.insns.Remove(in)
		newBB.insns.PushBack(in)
		in = next
	}

	bb.insns.PushBack(ir.NewBranch(newBB))

	for _, e := range bb.outEdges {
		e.src = newBB
	}
	newBB.outEdges, bb.outEdges = bb.outEdges, nil

	ir.AddEdge(bb, newBB)
	ir.enrollBasicBlock(newBB)

	return newBB
}

// Instruction constructors. Operand counts and kinds come from the opcode
// info table; these only fill in what varies.

func (ir *IR) newInsn(op Opcode, regs ...Reg) *Insn {
	if len(regs) != insnInfos[op].nregs {
		panic("mir: wrong register operand count for " + op.String())
	}

	in := ir.insnPool.alloc()
	in.op = op
	copy(in.regs[:], regs)

	return in
}

// NewMovRegReg is a host register-to-register move.
func (ir *IR) NewMovRegReg(dst, src Reg) *Insn {
	return ir.newInsn(OpMovqRegReg, dst, src)
}

// NewMovRegImm loads a 64-bit immediate.
func (ir *IR) NewMovRegImm(dst Reg, imm uint64) *Insn {
	in := ir.newInsn(OpMovqRegImm, dst)
	in.imm = imm

	return in
}

// NewStateGet loads a guest context field at disp into dst.
func (ir *IR) NewStateGet(dst Reg, disp uint32) *Insn {
	in := ir.newInsn(OpMovqRegMemBaseDisp, dst, StatePointer)
	in.disp = disp

	return in
}

// NewStatePut stores src into the guest context field at disp.
func (ir *IR) NewStatePut(disp uint32, src Reg) *Insn {
	in := ir.newInsn(OpMovqMemBaseDispReg, StatePointer, src)
	in.disp = disp

	return in
}

// NewALUOp is a two-operand ALU instruction; dst is read-modify-written and
// flags is clobbered.
func (ir *IR) NewALUOp(op Opcode, dst, src, flags Reg) *Insn {
	switch op {
	case OpAddqRegReg, OpSubqRegReg, OpAndqRegReg, OpOrqRegReg, OpXorqRegReg:
	default:
		panic("mir: not an ALU opcode: " + op.String())
	}

	return ir.newInsn(op, dst, src, flags)
}

// NewCmp compares src1 with src2, defining flags.
func (ir *IR) NewCmp(src1, src2, flags Reg) *Insn {
	return ir.newInsn(OpCmpqRegReg, src1, src2, flags)
}

// NewCopy is a width-agnostic value copy eliminated by register allocation
// when both sides coincide.
func (ir *IR) NewCopy(dst, src Reg) *Insn {
	return ir.newInsn(OpPseudoCopy, dst, src)
}

// NewBranch is an unconditional branch to a successor block.
func (ir *IR) NewBranch(then *BasicBlock) *Insn {
	in := ir.newInsn(OpPseudoBranch)
	in.thenBB = then

	return in
}

// NewCondBranch branches on cond, consuming flags.
func (ir *IR) NewCondBranch(cond Cond, then, els *BasicBlock, flags Reg) *Insn {
	in := ir.newInsn(OpPseudoCondBranch, flags)
	in.cond = cond
	in.thenBB = then
	in.elseBB = els

	return in
}

// NewJump leaves the region for a known guest address.
func (ir *IR) NewJump(target uint64) *Insn {
	in := ir.newInsn(OpPseudoJump)
	in.target = target

	return in
}

// NewIndirectJump leaves the region for a guest address held in src.
func (ir *IR) NewIndirectJump(src Reg) *Insn {
	return ir.newInsn(OpPseudoIndirectJump, src)
}
