package frontend

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/redwing-vm/redwing/translator/backend"
	"github.com/redwing-vm/redwing/translator/decoder"
	"github.com/redwing-vm/redwing/translator/guest"
	"github.com/redwing-vm/redwing/translator/mir"
	"github.com/redwing-vm/redwing/translator/semantics"
)

type Options struct {
	// NoOpt skips the optimization passes; the IR keeps every guest context
	// access the front end emitted.
	NoOpt bool
}

// Translate builds optimized machine IR for the guest region starting at pc.
// code holds the region's instruction bytes; translation stops at the first
// control transfer, at the first instruction the front end cannot express or
// at the end of code, whichever comes first. The IR always ends in exit
// jumps carrying the guest addresses execution continues at.
func Translate(ctx context.Context, pc guest.Addr, code []byte) (*mir.IR, error) {
	return TranslateRegion(ctx, pc, code, Options{})
}

func TranslateRegion(ctx context.Context, pc guest.Addr, code []byte, opts Options) (_ *mir.IR, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "translate region", "pc", tlog.FormatNext("0x%x"), pc)
	defer tr.Finish("err", &err)

	if len(code) < 2 {
		return nil, errors.New("no instruction bytes")
	}

	ir := mir.New()
	front := NewFrontend(ir)
	dec := decoder.New(semantics.NewPlayer[mir.Reg](front))

	cur := pc
	insns := 0

	for rest := code; len(rest) >= 2 && !front.Ended(); {
		size := decoder.GetInsnSize(rest)
		if len(rest) < size {
			break
		}

		front.StartInsn(cur)
		dec.Decode(rest[:size])

		if bad, reason := front.Unsupported(); bad {
			if insns == 0 {
				return nil, errors.New("%v at %x", reason, cur)
			}

			tr.V("region").Printw("region cut short", "pc", tlog.FormatNext("0x%x"), cur, "reason", reason)

			break
		}

		insns++
		cur += guest.Addr(size)
		rest = rest[size:]
	}

	// Falling off the region (or stopping before an untranslatable insn)
	// exits to the guest address not yet translated.
	front.FinishRegion(cur)

	if err = checkIR(ir, "build"); err != nil {
		return nil, err
	}

	if tr.If("dump_mir") {
		tr.Printw("mir before passes", "ir", ir.String())
	}

	if !opts.NoOpt {
		backend.RenameVRegsLocal(ctx, ir)

		if err = checkIR(ir, "rename vregs"); err != nil {
			return nil, err
		}

		backend.RemoveLocalGuestContextAccesses(ctx, ir)

		if err = checkIR(ir, "context access elimination"); err != nil {
			return nil, err
		}
	}

	if tr.If("dump_mir") {
		tr.Printw("mir", "ir", ir.String())
	}

	tr.V("region").Printw("translated", "insns", insns, "blocks", ir.NumBasicBlocks(), "vregs", ir.NumVReg())

	return ir, nil
}

func checkIR(ir *mir.IR, stage string) error {
	if st := mir.Check(ir); st != mir.CheckOK {
		return errors.New("invalid IR after %v: %v", stage, st)
	}

	return nil
}
