// Package translator is the outer surface of redwing: feed it guest
// instruction bytes, get optimized machine IR for one region back.
package translator

import (
	"context"
	"os"

	"github.com/xyproto/env/v2"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/redwing-vm/redwing/translator/frontend"
	"github.com/redwing-vm/redwing/translator/guest"
	"github.com/redwing-vm/redwing/translator/mir"
)

// Translate builds machine IR for the guest region starting at pc.
// REDWING_NOOPT in the environment skips the optimization passes.
func Translate(ctx context.Context, pc guest.Addr, code []byte) (*mir.IR, error) {
	opts := frontend.Options{
		NoOpt: env.Bool("REDWING_NOOPT"),
	}

	return frontend.TranslateRegion(ctx, pc, code, opts)
}

// TranslateFile translates a raw image of guest instructions loaded at pc.
func TranslateFile(ctx context.Context, name string, pc guest.Addr) (*mir.IR, error) {
	code, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(code), "name", name)

	return Translate(ctx, pc, code)
}
