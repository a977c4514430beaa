package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xyproto/env/v2"
	"golang.org/x/arch/riscv64/riscv64asm"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/redwing-vm/redwing/translator"
	"github.com/redwing-vm/redwing/translator/decoder"
	"github.com/redwing-vm/redwing/translator/guest"
)

func main() {
	decodeCmd := &cli.Command{
		Name:        "decode",
		Description: "decode raw guest instruction bytes, printing our trace next to the reference disassembly",
		Action:      decodeAct,
		Args:        cli.Args{},
	}

	translateCmd := &cli.Command{
		Name:        "translate",
		Description: "translate a raw guest region into machine IR",
		Action:      translateAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "redwing",
		Description: "redwing is a riscv64 to machine IR translation front end",
		Commands: []*cli.Command{
			decodeCmd,
			translateCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

// baseAddr is where the guest image is assumed to be loaded.
func baseAddr() (guest.Addr, error) {
	s := env.Str("REDWING_BASE", "0x10000")

	base, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, errors.Wrap(err, "REDWING_BASE")
	}

	return base, nil
}

func decodeAct(c *cli.Command) (err error) {
	base, err := baseAddr()
	if err != nil {
		return err
	}

	for _, a := range c.Args {
		code, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		decodeAll(base, code)
	}

	return nil
}

func decodeAll(base guest.Addr, code []byte) {
	trace := &traceConsumer{}
	dec := decoder.New(trace)

	for pc := base; len(code) >= 2; {
		size := decoder.GetInsnSize(code)
		if len(code) < size {
			fmt.Printf("%08x  truncated instruction\n", pc)

			return
		}

		trace.last = ""
		dec.Decode(code[:size])

		var raw uint32
		if size == 2 {
			raw = uint32(binary.LittleEndian.Uint16(code))
		} else {
			raw = binary.LittleEndian.Uint32(code)
		}

		fmt.Printf("%08x  %0*x  %-60s  %s\n", pc, size*2, raw, trace.last, gnuSyntax(code[:size]))

		pc += guest.Addr(size)
		code = code[size:]
	}
}

func gnuSyntax(code []byte) string {
	inst, err := riscv64asm.Decode(code)
	if err != nil {
		return "?"
	}

	return riscv64asm.GNUSyntax(inst)
}

func translateAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	base, err := baseAddr()
	if err != nil {
		return err
	}

	for _, a := range c.Args {
		ir, err := translator.TranslateFile(ctx, a, base)
		if err != nil {
			return errors.Wrap(err, "translate %v", a)
		}

		fmt.Printf("%v", ir)
	}

	return nil
}

// traceConsumer formats every decoded instruction as its shape name plus the
// args struct fields.
type traceConsumer struct {
	last string
}

func (t *traceConsumer) emit(args interface{}) {
	s := fmt.Sprintf("%T%+v", args, args)

	// Strip the package qualifier and the Args suffix of the type name.
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.Replace(s, "Args{", "{", 1)

	t.last = s
}

func (t *traceConsumer) Amo(args decoder.AmoArgs)                     { t.emit(args) }
func (t *traceConsumer) Auipc(args decoder.UpperImmArgs)              { t.emit(args) }
func (t *traceConsumer) BitmanipImm(args decoder.BitmanipImmArgs)     { t.emit(args) }
func (t *traceConsumer) BitmanipImm32(args decoder.BitmanipImm32Args) { t.emit(args) }
func (t *traceConsumer) CompareAndBranch(args decoder.BranchArgs)     { t.emit(args) }
func (t *traceConsumer) Csr(args decoder.CsrArgs)                     { t.emit(args) }
func (t *traceConsumer) CsrImm(args decoder.CsrImmArgs)               { t.emit(args) }

func (t *traceConsumer) FcvtFloatToFloat(args decoder.FcvtFloatToFloatArgs)     { t.emit(args) }
func (t *traceConsumer) FcvtFloatToInteger(args decoder.FcvtFloatToIntegerArgs) { t.emit(args) }
func (t *traceConsumer) FcvtIntegerToFloat(args decoder.FcvtIntegerToFloatArgs) { t.emit(args) }

func (t *traceConsumer) Fence(args decoder.FenceArgs)                     { t.emit(args) }
func (t *traceConsumer) FenceI(args decoder.FenceIArgs)                   { t.emit(args) }
func (t *traceConsumer) Fma(args decoder.FmaArgs)                         { t.emit(args) }
func (t *traceConsumer) FmvFloatToInteger(args decoder.FmvFloatToIntegerArgs) { t.emit(args) }
func (t *traceConsumer) FmvIntegerToFloat(args decoder.FmvIntegerToFloatArgs) { t.emit(args) }

func (t *traceConsumer) JumpAndLink(args decoder.JumpAndLinkArgs)                 { t.emit(args) }
func (t *traceConsumer) JumpAndLinkRegister(args decoder.JumpAndLinkRegisterArgs) { t.emit(args) }

func (t *traceConsumer) Load(args decoder.LoadArgs)     { t.emit(args) }
func (t *traceConsumer) LoadFp(args decoder.LoadFpArgs) { t.emit(args) }
func (t *traceConsumer) Lui(args decoder.UpperImmArgs)  { t.emit(args) }
func (t *traceConsumer) Op(args decoder.OpArgs)         { t.emit(args) }
func (t *traceConsumer) Op32(args decoder.Op32Args)     { t.emit(args) }
func (t *traceConsumer) OpFp(args decoder.OpFpArgs)     { t.emit(args) }

func (t *traceConsumer) OpFpGpRegisterTargetNoRounding(args decoder.OpFpGpRegisterTargetNoRoundingArgs) {
	t.emit(args)
}

func (t *traceConsumer) OpFpGpRegisterTargetSingleInputNoRounding(args decoder.OpFpGpRegisterTargetSingleInputNoRoundingArgs) {
	t.emit(args)
}

func (t *traceConsumer) OpFpNoRounding(args decoder.OpFpNoRoundingArgs)   { t.emit(args) }
func (t *traceConsumer) OpFpSingleInput(args decoder.OpFpSingleInputArgs) { t.emit(args) }

func (t *traceConsumer) OpFpSingleInputNoRounding(args decoder.OpFpSingleInputNoRoundingArgs) {
	t.emit(args)
}

func (t *traceConsumer) OpImm(args decoder.OpImmArgs)                 { t.emit(args) }
func (t *traceConsumer) OpImm32(args decoder.OpImm32Args)             { t.emit(args) }
func (t *traceConsumer) OpSingleInput(args decoder.OpSingleInputArgs) { t.emit(args) }
func (t *traceConsumer) ShiftImm(args decoder.ShiftImmArgs)           { t.emit(args) }
func (t *traceConsumer) ShiftImm32(args decoder.ShiftImm32Args)       { t.emit(args) }
func (t *traceConsumer) Store(args decoder.StoreArgs)                 { t.emit(args) }
func (t *traceConsumer) StoreFp(args decoder.StoreFpArgs)             { t.emit(args) }
func (t *traceConsumer) System(args decoder.SystemArgs)               { t.emit(args) }

func (t *traceConsumer) Nop()           { t.last = "Nop" }
func (t *traceConsumer) Undefined()     { t.last = "Undefined" }
func (t *traceConsumer) Unimplemented() { t.last = "Unimplemented" }
