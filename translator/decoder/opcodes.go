package decoder

// Opcode field values are kept verbatim from the RV64GC encoding, grouped the
// way the hardware groups them: one enum per opcode field shape. Values not
// listed are reserved; decoding them reports Undefined.

type AmoOpcode uint8

const (
	AmoLr      AmoOpcode = 0b00010
	AmoSc      AmoOpcode = 0b00011
	AmoSwap    AmoOpcode = 0b00001
	AmoAdd     AmoOpcode = 0b00000
	AmoXor     AmoOpcode = 0b00100
	AmoAnd     AmoOpcode = 0b01100
	AmoOr      AmoOpcode = 0b01000
	AmoMin     AmoOpcode = 0b10000
	AmoMax     AmoOpcode = 0b10100
	AmoMinu    AmoOpcode = 0b11000
	AmoMaxu    AmoOpcode = 0b11100
)

type BranchOpcode uint8

const (
	BranchBeq  BranchOpcode = 0b000
	BranchBne  BranchOpcode = 0b001
	BranchBlt  BranchOpcode = 0b100
	BranchBge  BranchOpcode = 0b101
	BranchBltu BranchOpcode = 0b110
	BranchBgeu BranchOpcode = 0b111
)

type CsrOpcode uint8

const (
	CsrCsrrw CsrOpcode = 0b01
	CsrCsrrs CsrOpcode = 0b10
	CsrCsrrc CsrOpcode = 0b11
)

type CsrImmOpcode uint8

const (
	CsrCsrrwi CsrImmOpcode = 0b01
	CsrCsrrsi CsrImmOpcode = 0b10
	CsrCsrrci CsrImmOpcode = 0b11
)

type FmaOpcode uint8

const (
	FmaFmadd  FmaOpcode = 0b00
	FmaFmsub  FmaOpcode = 0b01
	FmaFnmsub FmaOpcode = 0b10
	FmaFnmadd FmaOpcode = 0b11
)

type FenceOpcode uint8

const (
	FenceFence    FenceOpcode = 0b0000
	FenceFenceTso FenceOpcode = 0b1000
)

type OpOpcode uint16

const (
	OpAdd    OpOpcode = 0b0000_000_000
	OpSub    OpOpcode = 0b0100_000_000
	OpSll    OpOpcode = 0b0000_000_001
	OpSlt    OpOpcode = 0b0000_000_010
	OpSltu   OpOpcode = 0b0000_000_011
	OpXor    OpOpcode = 0b0000_000_100
	OpSrl    OpOpcode = 0b0000_000_101
	OpSra    OpOpcode = 0b0100_000_101
	OpOr     OpOpcode = 0b0000_000_110
	OpAnd    OpOpcode = 0b0000_000_111
	OpMul    OpOpcode = 0b0000_001_000
	OpMulh   OpOpcode = 0b0000_001_001
	OpMulhsu OpOpcode = 0b0000_001_010
	OpMulhu  OpOpcode = 0b0000_001_011
	OpDiv    OpOpcode = 0b0000_001_100
	OpDivu   OpOpcode = 0b0000_001_101
	OpRem    OpOpcode = 0b0000_001_110
	OpRemu   OpOpcode = 0b0000_001_111
	OpAndn   OpOpcode = 0b0100_000_111
	OpOrn    OpOpcode = 0b0100_000_110
	OpXnor   OpOpcode = 0b0100_000_100
	OpMax    OpOpcode = 0b0000_101_110
	OpMaxu   OpOpcode = 0b0000_101_111
	OpMin    OpOpcode = 0b0000_101_100
	OpMinu   OpOpcode = 0b0000_101_101
	OpRol    OpOpcode = 0b0110_000_001
	OpRor    OpOpcode = 0b0110_000_101
	OpSh1add OpOpcode = 0b0010_000_010
	OpSh2add OpOpcode = 0b0010_000_100
	OpSh3add OpOpcode = 0b0010_000_110
)

type Op32Opcode uint16

const (
	Op32Addw     Op32Opcode = 0b0000_000_000
	Op32Adduw    Op32Opcode = 0b0000_100_000
	Op32Subw     Op32Opcode = 0b0100_000_000
	Op32Sllw     Op32Opcode = 0b0000_000_001
	Op32Srlw     Op32Opcode = 0b0000_000_101
	Op32Sraw     Op32Opcode = 0b0100_000_101
	Op32Mulw     Op32Opcode = 0b0000_001_000
	Op32Divw     Op32Opcode = 0b0000_001_100
	Op32Divuw    Op32Opcode = 0b0000_001_101
	Op32Remw     Op32Opcode = 0b0000_001_110
	Op32Remuw    Op32Opcode = 0b0000_001_111
	Op32Rolw     Op32Opcode = 0b0110_000_001
	Op32Rorw     Op32Opcode = 0b0110_000_101
	Op32Sh1adduw Op32Opcode = 0b0010_000_010
	Op32Sh2adduw Op32Opcode = 0b0010_000_100
	Op32Sh3adduw Op32Opcode = 0b0010_000_110
)

type OpSingleInputOpcode uint16

const (
	OpZexth OpSingleInputOpcode = 0b0000_100_100
)

type OpFpGpRegisterTargetNoRoundingOpcode uint8

const (
	OpFpFle OpFpGpRegisterTargetNoRoundingOpcode = 0b00_000
	OpFpFlt OpFpGpRegisterTargetNoRoundingOpcode = 0b00_001
	OpFpFeq OpFpGpRegisterTargetNoRoundingOpcode = 0b00_010
)

type OpFpGpRegisterTargetSingleInputNoRoundingOpcode uint16

const (
	OpFpFclass OpFpGpRegisterTargetSingleInputNoRoundingOpcode = 0b00_00000_001
)

type OpFpNoRoundingOpcode uint8

const (
	OpFpFSgnj  OpFpNoRoundingOpcode = 0b00_000
	OpFpFSgnjn OpFpNoRoundingOpcode = 0b00_001
	OpFpFSgnjx OpFpNoRoundingOpcode = 0b00_010
	OpFpFMin   OpFpNoRoundingOpcode = 0b01_000
	OpFpFMax   OpFpNoRoundingOpcode = 0b01_001
)

type OpFpOpcode uint8

const (
	OpFpFAdd OpFpOpcode = 0b00
	OpFpFSub OpFpOpcode = 0b01
	OpFpFMul OpFpOpcode = 0b10
	OpFpFDiv OpFpOpcode = 0b11
)

type OpFpSingleInputOpcode uint8

const (
	OpFpFSqrt OpFpSingleInputOpcode = 0b11_00000
)

type OpFpSingleInputNoRoundingOpcode uint8

const (
	OpFpFmv OpFpSingleInputNoRoundingOpcode = iota
)

type OpImmOpcode uint8

const (
	OpImmAddi  OpImmOpcode = 0b000
	OpImmSlti  OpImmOpcode = 0b010
	OpImmSltiu OpImmOpcode = 0b011
	OpImmXori  OpImmOpcode = 0b100
	OpImmOri   OpImmOpcode = 0b110
	OpImmAndi  OpImmOpcode = 0b111
)

type OpImm32Opcode uint8

const (
	OpImm32Addiw OpImm32Opcode = 0b000
)

type ShiftImmOpcode uint16

const (
	ShiftImmSlli ShiftImmOpcode = 0b000000_001
	ShiftImmSrli ShiftImmOpcode = 0b000000_101
	ShiftImmSrai ShiftImmOpcode = 0b010000_101
)

type ShiftImm32Opcode uint16

const (
	ShiftImm32Slliw ShiftImm32Opcode = 0b0000000_001
	ShiftImm32Srliw ShiftImm32Opcode = 0b0000000_101
	ShiftImm32Sraiw ShiftImm32Opcode = 0b0100000_101
)

type BitmanipImmOpcode uint16

const (
	BitmanipClz   BitmanipImmOpcode = 0b0110000_00000_001
	BitmanipCpop  BitmanipImmOpcode = 0b0110000_00010_001
	BitmanipCtz   BitmanipImmOpcode = 0b0110000_00001_001
	BitmanipSextb BitmanipImmOpcode = 0b0110000_00100_001
	BitmanipSexth BitmanipImmOpcode = 0b0110000_00101_001
	BitmanipOrcb  BitmanipImmOpcode = 0b0010100_00111_101
	BitmanipRev8  BitmanipImmOpcode = 0b0110101_11000_101
	BitmanipRori  BitmanipImmOpcode = 0b011000_101
)

type BitmanipImm32Opcode uint16

const (
	BitmanipClzw   BitmanipImm32Opcode = 0b0110000_00000_001
	BitmanipCpopw  BitmanipImm32Opcode = 0b0110000_00010_001
	BitmanipCtzw   BitmanipImm32Opcode = 0b0110000_00001_001
	BitmanipRoriw  BitmanipImm32Opcode = 0b0110000_101
	BitmanipSlliuw BitmanipImm32Opcode = 0b0000100_001
)

type SystemOpcode uint32

const (
	SystemEcall  SystemOpcode = 0b000000000000_00000_000_00000
	SystemEbreak SystemOpcode = 0b000000000001_00000_000_00000
)

// CsrRegister is technically an instruction argument, but combinations
// outside this list trap as illegal instructions, so it decodes like an
// opcode field.
type CsrRegister uint16

const (
	CsrFFlags CsrRegister = 0b00_00_0000_0001
	CsrFrm    CsrRegister = 0b00_00_0000_0010
	CsrFCsr   CsrRegister = 0b00_00_0000_0011
)

type FcvtOperandType uint8

const (
	Fcvt32bitSigned   FcvtOperandType = 0b00000
	Fcvt32bitUnsigned FcvtOperandType = 0b00001
	Fcvt64bitSigned   FcvtOperandType = 0b00010
	Fcvt64bitUnsigned FcvtOperandType = 0b00011
)

// FloatOperandType unifies the 3-bit load/store width field and the 2-bit
// "fmt" field of the other floating-point instructions.
type FloatOperandType uint8

const (
	FloatFloat  FloatOperandType = 0b00
	FloatDouble FloatOperandType = 0b01
	FloatHalf   FloatOperandType = 0b10
	FloatQuad   FloatOperandType = 0b11
)

type LoadOperandType uint8

const (
	Load8bitSigned    LoadOperandType = 0b000
	Load16bitSigned   LoadOperandType = 0b001
	Load32bitSigned   LoadOperandType = 0b010
	Load64bit         LoadOperandType = 0b011
	Load8bitUnsigned  LoadOperandType = 0b100
	Load16bitUnsigned LoadOperandType = 0b101
	Load32bitUnsigned LoadOperandType = 0b110
)

type StoreOperandType uint8

const (
	Store8bit  StoreOperandType = 0b000
	Store16bit StoreOperandType = 0b001
	Store32bit StoreOperandType = 0b010
	Store64bit StoreOperandType = 0b011
)

type baseOpcode uint8

const (
	baseLoad    baseOpcode = 0b00_000
	baseLoadFp  baseOpcode = 0b00_001
	baseCustom0 baseOpcode = 0b00_010
	baseMiscMem baseOpcode = 0b00_011
	baseOpImm   baseOpcode = 0b00_100
	baseAuipc   baseOpcode = 0b00_101
	baseOpImm32 baseOpcode = 0b00_110
	baseStore   baseOpcode = 0b01_000
	baseStoreFp baseOpcode = 0b01_001
	baseCustom1 baseOpcode = 0b01_010
	baseAmo     baseOpcode = 0b01_011
	baseOp      baseOpcode = 0b01_100
	baseLui     baseOpcode = 0b01_101
	baseOp32    baseOpcode = 0b01_110
	baseMAdd    baseOpcode = 0b10_000
	baseMSub    baseOpcode = 0b10_001
	baseNmSub   baseOpcode = 0b10_010
	baseNmAdd   baseOpcode = 0b10_011
	baseOpFp    baseOpcode = 0b10_100
	baseCustom2 baseOpcode = 0b10_110
	baseBranch  baseOpcode = 0b11_000
	baseJalr    baseOpcode = 0b11_001
	baseJal     baseOpcode = 0b11_011
	baseSystem  baseOpcode = 0b11_100
	baseCustom3 baseOpcode = 0b11_110
)

type compressedOpcode uint8

const (
	cAddi4spn    compressedOpcode = 0b000_00
	cFld         compressedOpcode = 0b001_00
	cLw          compressedOpcode = 0b010_00
	cLd          compressedOpcode = 0b011_00
	cFsd         compressedOpcode = 0b101_00
	cSw          compressedOpcode = 0b110_00
	cSd          compressedOpcode = 0b111_00
	cAddi        compressedOpcode = 0b000_01
	cAddiw       compressedOpcode = 0b001_01
	cLi          compressedOpcode = 0b010_01
	cLuiAddi16sp compressedOpcode = 0b011_01
	cMiscAlu     compressedOpcode = 0b100_01
	cJ           compressedOpcode = 0b101_01
	cBeqz        compressedOpcode = 0b110_01
	cBnez        compressedOpcode = 0b111_01
	cSlli        compressedOpcode = 0b000_10
	cFldsp       compressedOpcode = 0b001_10
	cLwsp        compressedOpcode = 0b010_10
	cLdsp        compressedOpcode = 0b011_10
	cJrJalrMvAdd compressedOpcode = 0b100_10
	cFsdsp       compressedOpcode = 0b101_10
	cSwsp        compressedOpcode = 0b110_10
	cSdsp        compressedOpcode = 0b111_10
)
