package decoder

// One args struct exists per instruction shape, not per instruction: every
// field a callback receives is already extracted, unscrambled and
// sign-extended, so consumers never touch encoding bits.

type AmoArgs struct {
	Opcode      AmoOpcode
	OperandType StoreOperandType
	Dst         uint8
	Src1        uint8
	Src2        uint8
	Rl          bool
	Aq          bool
}

type BranchArgs struct {
	Opcode BranchOpcode
	Src1   uint8
	Src2   uint8
	Offset int16
}

type CsrArgs struct {
	Opcode CsrOpcode
	Dst    uint8
	Src    uint8
	Csr    CsrRegister
}

type CsrImmArgs struct {
	Opcode CsrImmOpcode
	Dst    uint8
	Imm    uint8
	Csr    CsrRegister
}

type FcvtFloatToFloatArgs struct {
	DstType FloatOperandType
	SrcType FloatOperandType
	Dst     uint8
	Src     uint8
	Rm      uint8
}

type FcvtFloatToIntegerArgs struct {
	DstType FcvtOperandType
	SrcType FloatOperandType
	Dst     uint8
	Src     uint8
	Rm      uint8
}

type FcvtIntegerToFloatArgs struct {
	DstType FloatOperandType
	SrcType FcvtOperandType
	Dst     uint8
	Src     uint8
	Rm      uint8
}

type FenceArgs struct {
	Opcode FenceOpcode
	Dst    uint8
	Src    uint8
	Sw     bool
	Sr     bool
	So     bool
	Si     bool
	Pw     bool
	Pr     bool
	Po     bool
	Pi     bool
}

type FenceIArgs struct {
	Dst uint8
	Src uint8
	Imm int16
}

type FmaArgs struct {
	Opcode      FmaOpcode
	OperandType FloatOperandType
	Dst         uint8
	Src1        uint8
	Src2        uint8
	Src3        uint8
	Rm          uint8
}

type JumpAndLinkArgs struct {
	Dst     uint8
	Offset  int32
	InsnLen uint8
}

type JumpAndLinkRegisterArgs struct {
	Dst     uint8
	Base    uint8
	Offset  int16
	InsnLen uint8
}

type OpArgsTemplate[OpcodeType any] struct {
	Opcode OpcodeType
	Dst    uint8
	Src1   uint8
	Src2   uint8
}

type (
	OpArgs   = OpArgsTemplate[OpOpcode]
	Op32Args = OpArgsTemplate[Op32Opcode]
)

type OpSingleInputArgs struct {
	Opcode OpSingleInputOpcode
	Dst    uint8
	Src    uint8
}

type OpFpArgs struct {
	Opcode      OpFpOpcode
	OperandType FloatOperandType
	Dst         uint8
	Src1        uint8
	Src2        uint8
	Rm          uint8
}

type OpFpGpRegisterTargetNoRoundingArgs struct {
	Opcode      OpFpGpRegisterTargetNoRoundingOpcode
	OperandType FloatOperandType
	Dst         uint8
	Src1        uint8
	Src2        uint8
}

type OpFpGpRegisterTargetSingleInputNoRoundingArgs struct {
	Opcode      OpFpGpRegisterTargetSingleInputNoRoundingOpcode
	OperandType FloatOperandType
	Dst         uint8
	Src         uint8
}

type FmvFloatToIntegerArgs struct {
	OperandType FloatOperandType
	Dst         uint8
	Src         uint8
}

type FmvIntegerToFloatArgs struct {
	OperandType FloatOperandType
	Dst         uint8
	Src         uint8
}

type OpFpNoRoundingArgs struct {
	Opcode      OpFpNoRoundingOpcode
	OperandType FloatOperandType
	Dst         uint8
	Src1        uint8
	Src2        uint8
}

type OpFpSingleInputArgs struct {
	Opcode      OpFpSingleInputOpcode
	OperandType FloatOperandType
	Dst         uint8
	Src         uint8
	Rm          uint8
}

type OpFpSingleInputNoRoundingArgs struct {
	Opcode      OpFpSingleInputNoRoundingOpcode
	OperandType FloatOperandType
	Dst         uint8
	Src         uint8
}

type OpImmArgsTemplate[OpcodeType any] struct {
	Opcode OpcodeType
	Dst    uint8
	Src    uint8
	Imm    int16
}

type (
	OpImmArgs   = OpImmArgsTemplate[OpImmOpcode]
	OpImm32Args = OpImmArgsTemplate[OpImm32Opcode]
)

type LoadArgsTemplate[OperandType any] struct {
	OperandType OperandType
	Dst         uint8
	Src         uint8
	Offset      int16
}

type (
	LoadArgs   = LoadArgsTemplate[LoadOperandType]
	LoadFpArgs = LoadArgsTemplate[FloatOperandType]
)

type ShiftImmArgsTemplate[OpcodeType any] struct {
	Opcode OpcodeType
	Dst    uint8
	Src    uint8
	Imm    uint8
}

type (
	ShiftImmArgs   = ShiftImmArgsTemplate[ShiftImmOpcode]
	ShiftImm32Args = ShiftImmArgsTemplate[ShiftImm32Opcode]
)

type BitmanipImmArgsTemplate[OpcodeType any] struct {
	Opcode OpcodeType
	Dst    uint8
	Src    uint8
	Shamt  uint8
}

type (
	BitmanipImmArgs   = BitmanipImmArgsTemplate[BitmanipImmOpcode]
	BitmanipImm32Args = BitmanipImmArgsTemplate[BitmanipImm32Opcode]
)

type StoreArgsTemplate[OperandType any] struct {
	OperandType OperandType
	Src         uint8
	Offset      int16
	Data        uint8
}

type (
	StoreArgs   = StoreArgsTemplate[StoreOperandType]
	StoreFpArgs = StoreArgsTemplate[FloatOperandType]
)

type SystemArgs struct {
	Opcode SystemOpcode
}

type UpperImmArgs struct {
	Dst uint8
	Imm int32
}

// InsnConsumer receives decoded instructions, one callback per instruction
// shape. Undefined reports a reserved or malformed encoding; the consumer
// decides whether that becomes a guest trap. Unimplemented reports encodings
// from opcode spaces the decoder knows nothing about (custom extensions).
type InsnConsumer interface {
	Amo(args AmoArgs)
	Auipc(args UpperImmArgs)
	BitmanipImm(args BitmanipImmArgs)
	BitmanipImm32(args BitmanipImm32Args)
	CompareAndBranch(args BranchArgs)
	Csr(args CsrArgs)
	CsrImm(args CsrImmArgs)
	FcvtFloatToFloat(args FcvtFloatToFloatArgs)
	FcvtFloatToInteger(args FcvtFloatToIntegerArgs)
	FcvtIntegerToFloat(args FcvtIntegerToFloatArgs)
	Fence(args FenceArgs)
	FenceI(args FenceIArgs)
	Fma(args FmaArgs)
	FmvFloatToInteger(args FmvFloatToIntegerArgs)
	FmvIntegerToFloat(args FmvIntegerToFloatArgs)
	JumpAndLink(args JumpAndLinkArgs)
	JumpAndLinkRegister(args JumpAndLinkRegisterArgs)
	Load(args LoadArgs)
	LoadFp(args LoadFpArgs)
	Lui(args UpperImmArgs)
	Nop()
	Op(args OpArgs)
	Op32(args Op32Args)
	OpFp(args OpFpArgs)
	OpFpGpRegisterTargetNoRounding(args OpFpGpRegisterTargetNoRoundingArgs)
	OpFpGpRegisterTargetSingleInputNoRounding(args OpFpGpRegisterTargetSingleInputNoRoundingArgs)
	OpFpNoRounding(args OpFpNoRoundingArgs)
	OpFpSingleInput(args OpFpSingleInputArgs)
	OpFpSingleInputNoRounding(args OpFpSingleInputNoRoundingArgs)
	OpImm(args OpImmArgs)
	OpImm32(args OpImm32Args)
	OpSingleInput(args OpSingleInputArgs)
	ShiftImm(args ShiftImmArgs)
	ShiftImm32(args ShiftImm32Args)
	Store(args StoreArgs)
	StoreFp(args StoreFpArgs)
	System(args SystemArgs)

	Undefined()
	Unimplemented()
}
