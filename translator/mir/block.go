package mir

// InsnList is an intrusive doubly-linked instruction list. Positions (the
// *Insn themselves) stay valid across inserts and removals of other
// instructions, which the local passes rely on.
type InsnList struct {
	head, tail *Insn
	size       int
}

func (l *InsnList) Len() int     { return l.size }
func (l *InsnList) Empty() bool  { return l.size == 0 }
func (l *InsnList) Front() *Insn { return l.head }
func (l *InsnList) Back() *Insn  { return l.tail }

func (l *InsnList) PushFront(in *Insn) {
	in.prev = nil
	in.next = l.head

	if l.head != nil {
		l.head.prev = in
	} else {
		l.tail = in
	}

	l.head = in
	l.size++
}

func (l *InsnList) PushBack(in *Insn) {
	in.next = nil
	in.prev = l.tail

	if l.tail != nil {
		l.tail.next = in
	} else {
		l.head = in
	}

	l.tail = in
	l.size++
}

// InsertBefore links in ahead of pos, which must be in the list.
func (l *InsnList) InsertBefore(in, pos *Insn) {
	if pos == l.head {
		l.PushFront(in)
		return
	}

	in.prev = pos.prev
	in.next = pos
	pos.prev.next = in
	pos.prev = in
	l.size++
}

func (l *InsnList) Remove(in *Insn) {
	if in.prev != nil {
		in.prev.next = in.next
	} else {
		l.head = in.next
	}

	if in.next != nil {
		in.next.prev = in.prev
	} else {
		l.tail = in.prev
	}

	in.prev, in.next = nil, nil
	l.size--
}

// Replace substitutes repl for old at the same position.
func (l *InsnList) Replace(old, repl *Insn) {
	l.InsertBefore(repl, old)
	l.Remove(old)
}

// Contains reports whether in is linked into l. O(n), for validation only.
func (l *InsnList) Contains(in *Insn) bool {
	for it := l.head; it != nil; it = it.next {
		if it == in {
			return true
		}
	}

	return false
}

// Edge is a control-flow edge. It owns neither endpoint; the source block's
// out-edge list and the destination's in-edge list both reference it and must
// stay mutually consistent.
type Edge struct {
	src, dst *BasicBlock
}

func (e *Edge) Src() *BasicBlock { return e.src }
func (e *Edge) Dst() *BasicBlock { return e.dst }

func (e *Edge) SetSrc(bb *BasicBlock) { e.src = bb }
func (e *Edge) SetDst(bb *BasicBlock) { e.dst = bb }

// BasicBlock is an ordered instruction list plus control-flow edges and the
// registers expected to carry values across its boundaries. live-in/live-out
// are ordered but order carries no meaning, only membership does.
type BasicBlock struct {
	id       int
	insns    InsnList
	inEdges  []*Edge
	outEdges []*Edge
	liveIn   []Reg
	liveOut  []Reg
}

func (bb *BasicBlock) ID() int           { return bb.id }
func (bb *BasicBlock) Insns() *InsnList  { return &bb.insns }
func (bb *BasicBlock) InEdges() []*Edge  { return bb.inEdges }
func (bb *BasicBlock) OutEdges() []*Edge { return bb.outEdges }

func (bb *BasicBlock) LiveIn() []Reg  { return bb.liveIn }
func (bb *BasicBlock) LiveOut() []Reg { return bb.liveOut }

func (bb *BasicBlock) AddLiveIn(r Reg)  { bb.liveIn = append(bb.liveIn, r) }
func (bb *BasicBlock) AddLiveOut(r Reg) { bb.liveOut = append(bb.liveOut, r) }
