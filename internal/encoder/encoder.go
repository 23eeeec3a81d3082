package encoder

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/backmassage/folio/internal/config"
	"github.com/backmassage/folio/internal/planner"
)

// Encoder writes plan.OutputPath as WebP from plan.InputPath.
type Encoder interface {
	Name() string
	Encode(ctx context.Context, plan *planner.FilePlan) error
}

// New returns the backend selected by cfg.Encoder. Tool output of the
// external backends is tee'd to stderrTee when verbose is set.
func New(cfg *config.Config, stderrTee io.Writer) (Encoder, error) {
	switch cfg.Encoder {
	case config.EncoderNative:
		return NewNative(), nil
	case config.EncoderCwebp, config.EncoderFFmpeg:
		var tee io.Writer
		if cfg.Verbose {
			tee = stderrTee
		}
		return &External{Tool: cfg.Encoder, Tee: tee}, nil
	default:
		return nil, fmt.Errorf("unknown encoder %q", cfg.Encoder)
	}
}

// removePartial deletes an output left behind by a failed encode.
func removePartial(path string) {
	_ = os.Remove(path)
}
