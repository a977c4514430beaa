// Package decoder turns raw RV64GC instruction bytes into decoded operand
// structs and hands them to an InsnConsumer, one callback per instruction
// shape. It knows nothing about semantics: consumers decide what a decoded
// instruction means.
package decoder

import (
	"encoding/binary"
)

// Decoder decodes one instruction at a time into consumer callbacks.
type Decoder struct {
	consumer InsnConsumer
	code     uint32
}

func New(consumer InsnConsumer) *Decoder {
	return &Decoder{consumer: consumer}
}

// GetInsnSize returns the instruction length implied by the first parcel: 2
// bytes unless the two low bits are both set, then 4. code must hold at
// least two bytes.
func GetInsnSize(code []byte) int {
	if code[0]&0b11 != 0b11 {
		return 2
	}

	return 4
}

// Decode decodes the instruction at the start of code and returns its size
// in bytes. code must hold at least GetInsnSize(code) bytes; no bytes beyond
// that are read.
func (d *Decoder) Decode(code []byte) int {
	if GetInsnSize(code) == 2 {
		d.code = uint32(binary.LittleEndian.Uint16(code))

		return d.decodeCompressed()
	}

	d.code = binary.LittleEndian.Uint32(code)

	return d.decodeBase()
}

// bits extracts size bits starting at bit start, counting from the least
// significant bit.
func (d *Decoder) bits(start, size uint) uint32 {
	return d.code << (32 - start - size) >> (32 - size)
}

func signExtend(v uint32, size uint) int32 {
	return int32(v<<(32-size)) >> (32 - size)
}

func (d *Decoder) undefined() {
	d.consumer.Undefined()
}

func (d *Decoder) decodeBase() int {
	switch baseOpcode(d.bits(2, 5)) {
	case baseLoad:
		d.decodeLoad()
	case baseLoadFp:
		d.decodeLoadFp()
	case baseMiscMem:
		d.decodeMiscMem()
	case baseOpImm:
		d.decodeOpImm()
	case baseAuipc:
		d.consumer.Auipc(d.upperImmArgs())
	case baseOpImm32:
		d.decodeOpImm32()
	case baseStore:
		d.decodeStore()
	case baseStoreFp:
		d.decodeStoreFp()
	case baseAmo:
		d.decodeAmo()
	case baseOp:
		d.decodeOp()
	case baseLui:
		d.consumer.Lui(d.upperImmArgs())
	case baseOp32:
		d.decodeOp32()
	case baseMAdd, baseMSub, baseNmSub, baseNmAdd:
		d.decodeFma()
	case baseOpFp:
		d.decodeOpFp()
	case baseBranch:
		d.decodeBranch()
	case baseJalr:
		d.decodeJumpAndLinkRegister()
	case baseJal:
		d.decodeJumpAndLink()
	case baseSystem:
		d.decodeSystem()
	case baseCustom0, baseCustom1, baseCustom2, baseCustom3:
		d.consumer.Unimplemented()
	default:
		d.undefined()
	}

	return 4
}

func (d *Decoder) rd() uint8  { return uint8(d.bits(7, 5)) }
func (d *Decoder) rs1() uint8 { return uint8(d.bits(15, 5)) }
func (d *Decoder) rs2() uint8 { return uint8(d.bits(20, 5)) }
func (d *Decoder) rm() uint8  { return uint8(d.bits(12, 3)) }

func (d *Decoder) upperImmArgs() UpperImmArgs {
	return UpperImmArgs{
		Dst: d.rd(),
		Imm: int32(d.bits(12, 20)) << 12,
	}
}

// loadStoreWidthToFloatOperandType maps the 3-bit load/store width field to
// the unified float operand type. Zero entries are reserved widths.
var loadStoreWidthToFloatOperandType = [8]struct {
	typ FloatOperandType
	ok  bool
}{
	1: {FloatHalf, true},
	2: {FloatFloat, true},
	3: {FloatDouble, true},
	4: {FloatQuad, true},
}

func (d *Decoder) decodeLoad() {
	d.consumer.Load(LoadArgs{
		OperandType: LoadOperandType(d.bits(12, 3)),
		Dst:         d.rd(),
		Src:         d.rs1(),
		Offset:      int16(signExtend(d.bits(20, 12), 12)),
	})
}

func (d *Decoder) decodeLoadFp() {
	w := loadStoreWidthToFloatOperandType[d.bits(12, 3)]
	if !w.ok {
		d.undefined()

		return
	}

	d.consumer.LoadFp(LoadFpArgs{
		OperandType: w.typ,
		Dst:         d.rd(),
		Src:         d.rs1(),
		Offset:      int16(signExtend(d.bits(20, 12), 12)),
	})
}

func (d *Decoder) storeOffset() int16 {
	return int16(signExtend(d.bits(7, 5)|d.bits(25, 7)<<5, 12))
}

func (d *Decoder) decodeStore() {
	d.consumer.Store(StoreArgs{
		OperandType: StoreOperandType(d.bits(12, 3)),
		Src:         d.rs1(),
		Offset:      d.storeOffset(),
		Data:        d.rs2(),
	})
}

func (d *Decoder) decodeStoreFp() {
	w := loadStoreWidthToFloatOperandType[d.bits(12, 3)]
	if !w.ok {
		d.undefined()

		return
	}

	d.consumer.StoreFp(StoreFpArgs{
		OperandType: w.typ,
		Src:         d.rs1(),
		Offset:      d.storeOffset(),
		Data:        d.rs2(),
	})
}

func (d *Decoder) decodeMiscMem() {
	switch d.bits(12, 3) {
	case 0b000:
		d.consumer.Fence(FenceArgs{
			Opcode: FenceOpcode(d.bits(28, 4)),
			Dst:    d.rd(),
			Src:    d.rs1(),
			Sw:     d.bits(20, 1) != 0,
			Sr:     d.bits(21, 1) != 0,
			So:     d.bits(22, 1) != 0,
			Si:     d.bits(23, 1) != 0,
			Pw:     d.bits(24, 1) != 0,
			Pr:     d.bits(25, 1) != 0,
			Pi:     d.bits(26, 1) != 0,
			Po:     d.bits(27, 1) != 0,
		})
	case 0b001:
		d.consumer.FenceI(FenceIArgs{
			Dst: d.rd(),
			Src: d.rs1(),
			Imm: int16(signExtend(d.bits(20, 12), 12)),
		})
	default:
		d.undefined()
	}
}

func (d *Decoder) decodeOp() {
	opcodeBits := uint16(d.bits(12, 3) | d.bits(25, 7)<<3)

	if OpSingleInputOpcode(opcodeBits) == OpZexth {
		d.decodeSingleInputOp(OpZexth)

		return
	}

	d.consumer.Op(OpArgs{
		Opcode: OpOpcode(opcodeBits),
		Dst:    d.rd(),
		Src1:   d.rs1(),
		Src2:   d.rs2(),
	})
}

func (d *Decoder) decodeOp32() {
	d.consumer.Op32(Op32Args{
		Opcode: Op32Opcode(d.bits(12, 3) | d.bits(25, 7)<<3),
		Dst:    d.rd(),
		Src1:   d.rs1(),
		Src2:   d.rs2(),
	})
}

func (d *Decoder) decodeSingleInputOp(opcode OpSingleInputOpcode) {
	if d.rs2() != 0 {
		d.undefined()

		return
	}

	d.consumer.OpSingleInput(OpSingleInputArgs{
		Opcode: opcode,
		Dst:    d.rd(),
		Src:    d.rs1(),
	})
}

func (d *Decoder) decodeAmo() {
	highOpcode := d.bits(27, 5)

	// lr requires rs2 == 0.
	if AmoOpcode(highOpcode) == AmoLr && d.rs2() != 0 {
		d.undefined()

		return
	}

	d.consumer.Amo(AmoArgs{
		Opcode:      AmoOpcode(highOpcode),
		OperandType: StoreOperandType(d.bits(12, 3)),
		Dst:         d.rd(),
		Src1:        d.rs1(),
		Src2:        d.rs2(),
		Rl:          d.bits(25, 1) != 0,
		Aq:          d.bits(26, 1) != 0,
	})
}

func (d *Decoder) decodeFma() {
	d.consumer.Fma(FmaArgs{
		Opcode:      FmaOpcode(d.bits(2, 2)),
		OperandType: FloatOperandType(d.bits(25, 2)),
		Dst:         d.rd(),
		Src1:        d.rs1(),
		Src2:        d.rs2(),
		Src3:        uint8(d.bits(27, 5)),
		Rm:          d.rm(),
	})
}

// decodeOpImm handles the 64-bit immediate-operand group: plain immediates,
// canonical shifts (funct6 zero except the arithmetic bit) and the bitmanip
// immediates that share the shift encodings.
func (d *Decoder) decodeOpImm() {
	lowOpcode := d.bits(12, 3)

	if lowOpcode != 0b001 && lowOpcode != 0b101 {
		d.consumer.OpImm(OpImmArgs{
			Opcode: OpImmOpcode(lowOpcode),
			Dst:    d.rd(),
			Src:    d.rs1(),
			Imm:    int16(signExtend(d.bits(20, 12), 12)),
		})

		return
	}

	if d.bits(31, 1)+d.bits(26, 4) == 0 {
		d.consumer.ShiftImm(ShiftImmArgs{
			Opcode: ShiftImmOpcode(lowOpcode | d.bits(26, 6)<<3),
			Dst:    d.rd(),
			Src:    d.rs1(),
			Imm:    uint8(d.bits(20, 6)),
		})

		return
	}

	shamt := uint8(d.bits(20, 6))
	opcode := BitmanipImmOpcode(lowOpcode | d.bits(26, 6)<<3)

	// Only rori carries a shift amount; the rest fold the whole immediate
	// field into the opcode.
	if opcode != BitmanipRori {
		opcode = BitmanipImmOpcode(lowOpcode | d.bits(20, 12)<<3)
		shamt = 0
	}

	d.consumer.BitmanipImm(BitmanipImmArgs{
		Opcode: opcode,
		Dst:    d.rd(),
		Src:    d.rs1(),
		Shamt:  shamt,
	})
}

func (d *Decoder) decodeOpImm32() {
	lowOpcode := d.bits(12, 3)

	if lowOpcode != 0b001 && lowOpcode != 0b101 {
		d.consumer.OpImm32(OpImm32Args{
			Opcode: OpImm32Opcode(lowOpcode),
			Dst:    d.rd(),
			Src:    d.rs1(),
			Imm:    int16(signExtend(d.bits(20, 12), 12)),
		})

		return
	}

	if d.bits(31, 1)+d.bits(25, 5) == 0 {
		d.consumer.ShiftImm32(ShiftImm32Args{
			Opcode: ShiftImm32Opcode(lowOpcode | d.bits(25, 7)<<3),
			Dst:    d.rd(),
			Src:    d.rs1(),
			Imm:    uint8(d.bits(20, 5)),
		})

		return
	}

	shamt := uint8(d.bits(20, 5))
	opcode := BitmanipImm32Opcode(lowOpcode | d.bits(25, 7)<<3)

	if opcode != BitmanipRoriw && opcode != BitmanipSlliuw {
		opcode = BitmanipImm32Opcode(lowOpcode | d.bits(20, 12)<<3)
		shamt = 0
	}

	d.consumer.BitmanipImm32(BitmanipImm32Args{
		Opcode: opcode,
		Dst:    d.rd(),
		Src:    d.rs1(),
		Shamt:  shamt,
	})
}

func (d *Decoder) decodeBranch() {
	lowImm := d.bits(8, 4)
	midImm := d.bits(25, 6)
	bit11 := d.bits(7, 1)
	bit12 := d.bits(31, 1)
	offset := lowImm | midImm<<4 | bit11<<10 | bit12<<11

	d.consumer.CompareAndBranch(BranchArgs{
		Opcode: BranchOpcode(d.bits(12, 3)),
		Src1:   d.rs1(),
		Src2:   d.rs2(),
		// The offset is encoded in 2-byte units.
		Offset: int16(signExtend(offset*2, 13)),
	})
}

func (d *Decoder) decodeJumpAndLink() {
	lowImm := d.bits(21, 10)
	midImm := d.bits(12, 8)
	bit11 := d.bits(20, 1)
	bit20 := d.bits(31, 1)
	offset := lowImm | bit11<<10 | midImm<<11 | bit20<<19

	d.consumer.JumpAndLink(JumpAndLinkArgs{
		Dst:     d.rd(),
		Offset:  signExtend(offset*2, 21),
		InsnLen: 4,
	})
}

func (d *Decoder) decodeJumpAndLinkRegister() {
	if d.bits(12, 3) != 0b000 {
		d.undefined()

		return
	}

	d.consumer.JumpAndLinkRegister(JumpAndLinkRegisterArgs{
		Dst:     d.rd(),
		Base:    d.rs1(),
		Offset:  int16(signExtend(d.bits(20, 12), 12)),
		InsnLen: 4,
	})
}

func (d *Decoder) decodeOpFp() {
	// Bit 29 set: rm is an opcode extension, not an operand.
	// Bit 30 set: rs2 is an opcode extension, not an operand.
	// Bit 31 set: the target is a general purpose register.
	operandType := FloatOperandType(d.bits(25, 2))
	opcodeBits := d.bits(27, 2)
	rd, rs1, rs2, rm := d.rd(), d.rs1(), d.rs2(), d.rm()

	switch d.bits(29, 3) {
	case 0b000:
		d.consumer.OpFp(OpFpArgs{
			Opcode:      OpFpOpcode(opcodeBits),
			OperandType: operandType,
			Dst:         rd,
			Src1:        rs1,
			Src2:        rs2,
			Rm:          rm,
		})
	case 0b001:
		opcode := OpFpNoRoundingOpcode(opcodeBits<<3 + uint32(rm))
		if opcode == OpFpFSgnj && rs1 == rs2 {
			// fsgnj with identical sources is the canonical fmv.
			d.consumer.OpFpSingleInputNoRounding(OpFpSingleInputNoRoundingArgs{
				Opcode:      OpFpFmv,
				OperandType: operandType,
				Dst:         rd,
				Src:         rs1,
			})

			return
		}

		d.consumer.OpFpNoRounding(OpFpNoRoundingArgs{
			Opcode:      opcode,
			OperandType: operandType,
			Dst:         rd,
			Src1:        rs1,
			Src2:        rs2,
		})
	case 0b010:
		if opcodeBits == 0 {
			// Converting a float type to itself is reserved, as are
			// source type values above the two supported widths.
			if uint32(operandType) == uint32(rs2) || rs2 > 0b11 {
				d.undefined()

				return
			}

			d.consumer.FcvtFloatToFloat(FcvtFloatToFloatArgs{
				DstType: operandType,
				SrcType: FloatOperandType(rs2),
				Dst:     rd,
				Src:     rs1,
				Rm:      rm,
			})

			return
		}

		d.consumer.OpFpSingleInput(OpFpSingleInputArgs{
			Opcode:      OpFpSingleInputOpcode(opcodeBits<<5 + uint32(rs2)),
			OperandType: operandType,
			Dst:         rd,
			Src:         rs1,
			Rm:          rm,
		})
	case 0b101:
		d.consumer.OpFpGpRegisterTargetNoRounding(OpFpGpRegisterTargetNoRoundingArgs{
			Opcode:      OpFpGpRegisterTargetNoRoundingOpcode(opcodeBits<<3 + uint32(rm)),
			OperandType: operandType,
			Dst:         rd,
			Src1:        rs1,
			Src2:        rs2,
		})
	case 0b110:
		switch opcodeBits {
		case 0b00:
			d.consumer.FcvtFloatToInteger(FcvtFloatToIntegerArgs{
				DstType: FcvtOperandType(rs2),
				SrcType: operandType,
				Dst:     rd,
				Src:     rs1,
				Rm:      rm,
			})
		case 0b10:
			d.consumer.FcvtIntegerToFloat(FcvtIntegerToFloatArgs{
				DstType: operandType,
				SrcType: FcvtOperandType(rs2),
				Dst:     rd,
				Src:     rs1,
				Rm:      rm,
			})
		default:
			d.undefined()
		}
	case 0b111:
		switch rm {
		case 0b001:
			d.consumer.OpFpGpRegisterTargetSingleInputNoRounding(OpFpGpRegisterTargetSingleInputNoRoundingArgs{
				Opcode:      OpFpGpRegisterTargetSingleInputNoRoundingOpcode(opcodeBits<<8 + uint32(rs2)<<3 + uint32(rm)),
				OperandType: operandType,
				Dst:         rd,
				Src:         rs1,
			})
		case 0b000:
			switch opcodeBits {
			case 0b00:
				d.consumer.FmvFloatToInteger(FmvFloatToIntegerArgs{
					OperandType: operandType,
					Dst:         rd,
					Src:         rs1,
				})
			case 0b10:
				d.consumer.FmvIntegerToFloat(FmvIntegerToFloatArgs{
					OperandType: operandType,
					Dst:         rd,
					Src:         rs1,
				})
			default:
				d.undefined()
			}
		default:
			d.undefined()
		}
	default:
		d.undefined()
	}
}

func (d *Decoder) decodeSystem() {
	lowOpcode := d.bits(12, 2)
	if lowOpcode == 0b00 {
		d.consumer.System(SystemArgs{
			Opcode: SystemOpcode(d.bits(7, 25)),
		})

		return
	}

	csr := CsrRegister(d.bits(20, 12))

	if d.bits(14, 1) != 0 {
		d.consumer.CsrImm(CsrImmArgs{
			Opcode: CsrImmOpcode(lowOpcode),
			Dst:    d.rd(),
			Imm:    d.rs1(),
			Csr:    csr,
		})

		return
	}

	d.consumer.Csr(CsrArgs{
		Opcode: CsrOpcode(lowOpcode),
		Dst:    d.rd(),
		Src:    d.rs1(),
		Csr:    csr,
	})
}
