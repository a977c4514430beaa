package decoder

// Compressed (RVC) encodings scramble immediate bits; instead of extracting
// them bit by bit the decoder unscrambles whole fields through lookup tables
// indexed by the raw field value, as the bit groups repeat in a regular
// pattern.

func (d *Decoder) decodeCompressed() int {
	opcodeBits := compressedOpcode(d.bits(13, 3)<<2 | d.bits(0, 2))

	switch opcodeBits {
	case cAddi4spn:
		d.decodeCompressedAddi4spn()
	case cFld:
		d.decodeCompressedFld()
	case cLw:
		d.decodeCompressedLw()
	case cLd:
		d.decodeCompressedLd()
	case cFsd:
		d.decodeCompressedFsd()
	case cSw:
		d.decodeCompressedSw()
	case cSd:
		d.decodeCompressedSd()
	case cAddi:
		d.decodeCompressedAddi()
	case cAddiw:
		d.decodeCompressedAddiw()
	case cLi:
		d.decodeCompressedLi()
	case cLuiAddi16sp:
		d.decodeCompressedLuiAddi16sp()
	case cMiscAlu:
		d.decodeCompressedMiscAlu()
	case cJ:
		d.decodeCompressedJ()
	case cBeqz, cBnez:
		d.decodeCompressedBeqzBnez()
	case cSlli:
		d.decodeCompressedSlli()
	case cFldsp:
		d.decodeCompressedLoadsp64(true)
	case cLwsp:
		d.decodeCompressedLwsp()
	case cLdsp:
		d.decodeCompressedLoadsp64(false)
	case cJrJalrMvAdd:
		d.decodeCompressedJrJalrMvAdd()
	case cFsdsp:
		d.decodeCompressedStoresp64(true)
	case cSwsp:
		d.decodeCompressedSwsp()
	case cSdsp:
		d.decodeCompressedStoresp64(false)
	default:
		d.undefined()
	}

	return 2
}

// Common RVC fields.

func (d *Decoder) cRegFull() uint8 { return uint8(d.bits(7, 5)) }
func (d *Decoder) cRs2Full() uint8 { return uint8(d.bits(2, 5)) }

// Compact register fields address x8..x15.
func (d *Decoder) cRegHigh() uint8 { return uint8(8 + d.bits(7, 3)) }
func (d *Decoder) cRegLow() uint8  { return uint8(8 + d.bits(2, 3)) }

func (d *Decoder) cImm6() uint32 { return d.bits(12, 1)<<5 | d.bits(2, 5) }

var addi4spnHigh = [16]uint8{
	0x0, 0x40, 0x80, 0xc0, 0x4, 0x44, 0x84, 0xc4, 0x8, 0x48, 0x88, 0xc8, 0xc, 0x4c, 0x8c, 0xcc,
}

var addi4spnLow = [16]uint8{
	0x0, 0x2, 0x1, 0x3, 0x10, 0x12, 0x11, 0x13, 0x20, 0x22, 0x21, 0x23, 0x30, 0x32, 0x31, 0x33,
}

func (d *Decoder) decodeCompressedAddi4spn() {
	imm := int16(uint16(addi4spnHigh[d.bits(9, 4)]|addi4spnLow[d.bits(5, 4)]) << 2)

	// A zero immediate is reserved. This also covers the dedicated 16-bit
	// "unimplemented instruction" word 0x0000.
	if imm == 0 {
		d.undefined()

		return
	}

	d.consumer.OpImm(OpImmArgs{
		Opcode: OpImmAddi,
		Dst:    d.cRegLow(),
		Src:    2,
		Imm:    imm,
	})
}

// lwLow unscrambles the two low immediate bits of c.lw/c.sw.
var lwLow = [4]uint8{0x0, 0x40, 0x04, 0x44}

func (d *Decoder) cLoadStoreImmWord() int16 {
	return int16(lwLow[d.bits(5, 2)] | uint8(d.bits(10, 3))<<3)
}

func (d *Decoder) cLoadStoreImmDouble() int16 {
	return int16(d.bits(5, 2)<<6 | d.bits(10, 3)<<3)
}

func (d *Decoder) decodeCompressedLw() {
	d.consumer.Load(LoadArgs{
		OperandType: Load32bitSigned,
		Dst:         d.cRegLow(),
		Src:         d.cRegHigh(),
		Offset:      d.cLoadStoreImmWord(),
	})
}

func (d *Decoder) decodeCompressedLd() {
	d.consumer.Load(LoadArgs{
		OperandType: Load64bit,
		Dst:         d.cRegLow(),
		Src:         d.cRegHigh(),
		Offset:      d.cLoadStoreImmDouble(),
	})
}

func (d *Decoder) decodeCompressedFld() {
	d.consumer.LoadFp(LoadFpArgs{
		OperandType: FloatDouble,
		Dst:         d.cRegLow(),
		Src:         d.cRegHigh(),
		Offset:      d.cLoadStoreImmDouble(),
	})
}

func (d *Decoder) decodeCompressedSw() {
	d.consumer.Store(StoreArgs{
		OperandType: Store32bit,
		Src:         d.cRegHigh(),
		Offset:      d.cLoadStoreImmWord(),
		Data:        d.cRegLow(),
	})
}

func (d *Decoder) decodeCompressedSd() {
	d.consumer.Store(StoreArgs{
		OperandType: Store64bit,
		Src:         d.cRegHigh(),
		Offset:      d.cLoadStoreImmDouble(),
		Data:        d.cRegLow(),
	})
}

func (d *Decoder) decodeCompressedFsd() {
	d.consumer.StoreFp(StoreFpArgs{
		OperandType: FloatDouble,
		Src:         d.cRegHigh(),
		Offset:      d.cLoadStoreImmDouble(),
		Data:        d.cRegLow(),
	})
}

func (d *Decoder) decodeCompressedAddi() {
	imm := int16(signExtend(d.cImm6(), 6))
	r := d.cRegFull()

	// Encodings that change nothing (including hints) decode as a nop.
	if r == 0 || imm == 0 {
		d.consumer.Nop()

		return
	}

	d.consumer.OpImm(OpImmArgs{
		Opcode: OpImmAddi,
		Dst:    r,
		Src:    r,
		Imm:    imm,
	})
}

func (d *Decoder) decodeCompressedAddiw() {
	r := d.cRegFull()

	d.consumer.OpImm32(OpImm32Args{
		Opcode: OpImm32Addiw,
		Dst:    r,
		Src:    r,
		Imm:    int16(signExtend(d.cImm6(), 6)),
	})
}

func (d *Decoder) decodeCompressedLi() {
	d.consumer.OpImm(OpImmArgs{
		Opcode: OpImmAddi,
		Dst:    d.cRegFull(),
		Src:    0,
		Imm:    int16(signExtend(d.cImm6(), 6)),
	})
}

var addi16spLow = [32]uint8{
	0x00, 0x08, 0x20, 0x28, 0x40, 0x48, 0x60, 0x68,
	0x10, 0x18, 0x30, 0x38, 0x50, 0x58, 0x70, 0x78,
	0x04, 0x0c, 0x24, 0x2c, 0x44, 0x4c, 0x64, 0x6c,
	0x14, 0x1c, 0x34, 0x3c, 0x54, 0x5c, 0x74, 0x7c,
}

func (d *Decoder) decodeCompressedLuiAddi16sp() {
	lowImm := d.bits(2, 5)
	highImm := d.bits(12, 1)
	rd := d.cRegFull()

	if rd != 2 {
		d.consumer.Lui(UpperImmArgs{
			Dst: rd,
			Imm: signExtend(highImm<<17|lowImm<<12, 18),
		})

		return
	}

	d.consumer.OpImm(OpImmArgs{
		Opcode: OpImmAddi,
		Dst:    2,
		Src:    2,
		Imm:    int16(signExtend(highImm<<9|uint32(addi16spLow[lowImm])<<2, 10)),
	})
}

func (d *Decoder) decodeCompressedMiscAlu() {
	r := d.cRegHigh()
	imm := uint8(d.cImm6())

	switch d.bits(10, 2) {
	case 0b00:
		d.consumer.ShiftImm(ShiftImmArgs{
			Opcode: ShiftImmSrli,
			Dst:    r,
			Src:    r,
			Imm:    imm,
		})

		return
	case 0b01:
		d.consumer.ShiftImm(ShiftImmArgs{
			Opcode: ShiftImmSrai,
			Dst:    r,
			Src:    r,
			Imm:    imm,
		})

		return
	case 0b10:
		d.consumer.OpImm(OpImmArgs{
			Opcode: OpImmAndi,
			Dst:    r,
			Src:    r,
			Imm:    int16(signExtend(uint32(imm), 6)),
		})

		return
	}

	rs2 := d.cRegLow()

	if d.bits(12, 1) == 0 {
		var opcode OpOpcode

		switch d.bits(5, 2) {
		case 0b00:
			opcode = OpSub
		case 0b01:
			opcode = OpXor
		case 0b10:
			opcode = OpOr
		case 0b11:
			opcode = OpAnd
		}

		d.consumer.Op(OpArgs{
			Opcode: opcode,
			Dst:    r,
			Src1:   r,
			Src2:   rs2,
		})

		return
	}

	var opcode Op32Opcode

	switch d.bits(5, 2) {
	case 0b00:
		opcode = Op32Subw
	case 0b01:
		opcode = Op32Addw
	default:
		d.undefined()

		return
	}

	d.consumer.Op32(Op32Args{
		Opcode: opcode,
		Dst:    r,
		Src1:   r,
		Src2:   rs2,
	})
}

var jHigh = [32]uint16{
	0x0, 0x400, 0x100, 0x500, 0x200, 0x600, 0x300, 0x700,
	0x10, 0x410, 0x110, 0x510, 0x210, 0x610, 0x310, 0x710,
	0xf800, 0xfc00, 0xf900, 0xfd00, 0xfa00, 0xfe00, 0xfb00, 0xff00,
	0xf810, 0xfc10, 0xf910, 0xfd10, 0xfa10, 0xfe10, 0xfb10, 0xff10,
}

var jLow = [64]uint8{
	0x0, 0x20, 0x2, 0x22, 0x4, 0x24, 0x6, 0x26,
	0x8, 0x28, 0xa, 0x2a, 0xc, 0x2c, 0xe, 0x2e,
	0x80, 0xa0, 0x82, 0xa2, 0x84, 0xa4, 0x86, 0xa6,
	0x88, 0xa8, 0x8a, 0xaa, 0x8c, 0xac, 0x8e, 0xae,
	0x40, 0x60, 0x42, 0x62, 0x44, 0x64, 0x46, 0x66,
	0x48, 0x68, 0x4a, 0x6a, 0x4c, 0x6c, 0x4e, 0x6e,
	0xc0, 0xe0, 0xc2, 0xe2, 0xc4, 0xe4, 0xc6, 0xe6,
	0xc8, 0xe8, 0xca, 0xea, 0xcc, 0xec, 0xce, 0xee,
}

func (d *Decoder) decodeCompressedJ() {
	d.consumer.JumpAndLink(JumpAndLinkArgs{
		Dst:     0,
		Offset:  int32(int16(jHigh[d.bits(8, 5)])) | int32(jLow[d.bits(2, 6)]),
		InsnLen: 2,
	})
}

var bHigh = [8]uint16{0x0, 0x8, 0x10, 0x18, 0x100, 0x108, 0x110, 0x118}

var bLow = [32]uint8{
	0x00, 0x20, 0x02, 0x22, 0x04, 0x24, 0x06, 0x26,
	0x40, 0x60, 0x42, 0x62, 0x44, 0x64, 0x46, 0x66,
	0x80, 0xa0, 0x82, 0xa2, 0x84, 0xa4, 0x86, 0xa6,
	0xc0, 0xe0, 0xc2, 0xe2, 0xc4, 0xe4, 0xc6, 0xe6,
}

func (d *Decoder) decodeCompressedBeqzBnez() {
	d.consumer.CompareAndBranch(BranchArgs{
		Opcode: BranchOpcode(d.bits(13, 1)),
		Src1:   d.cRegHigh(),
		Src2:   0,
		Offset: int16(signExtend(uint32(bHigh[d.bits(10, 3)])+uint32(bLow[d.bits(2, 5)]), 9)),
	})
}

func (d *Decoder) decodeCompressedSlli() {
	r := d.cRegFull()

	d.consumer.ShiftImm(ShiftImmArgs{
		Opcode: ShiftImmSlli,
		Dst:    r,
		Src:    r,
		Imm:    uint8(d.cImm6()),
	})
}

var loadsp32Low = [32]uint8{
	0x00, 0x10, 0x20, 0x30, 0x01, 0x11, 0x21, 0x31,
	0x02, 0x12, 0x22, 0x32, 0x03, 0x13, 0x23, 0x33,
	0x04, 0x14, 0x24, 0x34, 0x05, 0x15, 0x25, 0x35,
	0x06, 0x16, 0x26, 0x36, 0x07, 0x17, 0x27, 0x37,
}

var loadsp64Low = [32]uint8{
	0x00, 0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70,
	0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72,
	0x04, 0x14, 0x24, 0x34, 0x44, 0x54, 0x64, 0x74,
	0x06, 0x16, 0x26, 0x36, 0x46, 0x56, 0x66, 0x76,
}

func (d *Decoder) decodeCompressedLwsp() {
	d.consumer.Load(LoadArgs{
		OperandType: Load32bitSigned,
		Dst:         d.cRegFull(),
		Src:         2,
		Offset:      int16(d.bits(12, 1)<<5) + int16(loadsp32Low[d.bits(2, 5)])<<2,
	})
}

// decodeCompressedLoadsp64 covers c.ldsp and c.fldsp, which share the
// immediate scrambling.
func (d *Decoder) decodeCompressedLoadsp64(fp bool) {
	offset := int16(d.bits(12, 1)<<5) + int16(loadsp64Low[d.bits(2, 5)])<<2
	rd := d.cRegFull()

	if fp {
		d.consumer.LoadFp(LoadFpArgs{
			OperandType: FloatDouble,
			Dst:         rd,
			Src:         2,
			Offset:      offset,
		})

		return
	}

	d.consumer.Load(LoadArgs{
		OperandType: Load64bit,
		Dst:         rd,
		Src:         2,
		Offset:      offset,
	})
}

var storesp32 = [64]uint8{
	0x00, 0x10, 0x20, 0x30, 0x01, 0x11, 0x21, 0x31,
	0x02, 0x12, 0x22, 0x32, 0x03, 0x13, 0x23, 0x33,
	0x04, 0x14, 0x24, 0x34, 0x05, 0x15, 0x25, 0x35,
	0x06, 0x16, 0x26, 0x36, 0x07, 0x17, 0x27, 0x37,
	0x08, 0x18, 0x28, 0x38, 0x09, 0x19, 0x29, 0x39,
	0x0a, 0x1a, 0x2a, 0x3a, 0x0b, 0x1b, 0x2b, 0x3b,
	0x0c, 0x1c, 0x2c, 0x3c, 0x0d, 0x1d, 0x2d, 0x3d,
	0x0e, 0x1e, 0x2e, 0x3e, 0x0f, 0x1f, 0x2f, 0x3f,
}

var storesp64 = [64]uint8{
	0x00, 0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70,
	0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72,
	0x04, 0x14, 0x24, 0x34, 0x44, 0x54, 0x64, 0x74,
	0x06, 0x16, 0x26, 0x36, 0x46, 0x56, 0x66, 0x76,
	0x08, 0x18, 0x28, 0x38, 0x48, 0x58, 0x68, 0x78,
	0x0a, 0x1a, 0x2a, 0x3a, 0x4a, 0x5a, 0x6a, 0x7a,
	0x0c, 0x1c, 0x2c, 0x3c, 0x4c, 0x5c, 0x6c, 0x7c,
	0x0e, 0x1e, 0x2e, 0x3e, 0x4e, 0x5e, 0x6e, 0x7e,
}

func (d *Decoder) decodeCompressedSwsp() {
	d.consumer.Store(StoreArgs{
		OperandType: Store32bit,
		Src:         2,
		Offset:      int16(storesp32[d.bits(7, 6)]) << 2,
		Data:        d.cRs2Full(),
	})
}

// decodeCompressedStoresp64 covers c.sdsp and c.fsdsp.
func (d *Decoder) decodeCompressedStoresp64(fp bool) {
	offset := int16(storesp64[d.bits(7, 6)]) << 2
	rs2 := d.cRs2Full()

	if fp {
		d.consumer.StoreFp(StoreFpArgs{
			OperandType: FloatDouble,
			Src:         2,
			Offset:      offset,
			Data:        rs2,
		})

		return
	}

	d.consumer.Store(StoreArgs{
		OperandType: Store64bit,
		Src:         2,
		Offset:      offset,
		Data:        rs2,
	})
}

func (d *Decoder) decodeCompressedJrJalrMvAdd() {
	r := d.cRegFull()
	rs2 := d.cRs2Full()

	if d.bits(12, 1) != 0 {
		switch {
		case r == 0 && rs2 == 0:
			d.consumer.System(SystemArgs{Opcode: SystemEbreak})
		case rs2 == 0:
			d.consumer.JumpAndLinkRegister(JumpAndLinkRegisterArgs{
				Dst:     1,
				Base:    r,
				Offset:  0,
				InsnLen: 2,
			})
		default:
			d.consumer.Op(OpArgs{
				Opcode: OpAdd,
				Dst:    r,
				Src1:   r,
				Src2:   rs2,
			})
		}

		return
	}

	if rs2 == 0 {
		d.consumer.JumpAndLinkRegister(JumpAndLinkRegisterArgs{
			Dst:     0,
			Base:    r,
			Offset:  0,
			InsnLen: 2,
		})

		return
	}

	d.consumer.Op(OpArgs{
		Opcode: OpAdd,
		Dst:    r,
		Src1:   0,
		Src2:   rs2,
	})
}
