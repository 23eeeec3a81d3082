package encoder

import (
	"bytes"
	"context"
	"io"
	"os/exec"

	"github.com/backmassage/folio/internal/config"
	"github.com/backmassage/folio/internal/planner"
)

// ExecResult holds the outcome of a single tool invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// External runs cwebp or ffmpeg as a subprocess.
type External struct {
	Tool config.EncoderBackend
	// Tee, when non-nil, receives tool stderr in real time in addition to
	// the captured copy used for failure classification.
	Tee io.Writer
}

// Name implements Encoder.
func (e *External) Name() string { return string(e.Tool) }

// Encode implements Encoder. Failures are returned as *ExecError and any
// partial output is removed.
func (e *External) Encode(ctx context.Context, plan *planner.FilePlan) error {
	args := Build(e.Tool, plan, e.Tee != nil)
	res := Execute(ctx, args, e.Tee)
	if res.Err == nil {
		return nil
	}
	removePartial(plan.OutputPath)
	return &ExecError{
		Tool:   string(e.Tool),
		Input:  plan.InputPath,
		Cause:  Classify(res.Stderr),
		Stderr: res.Stderr,
		Err:    res.Err,
	}
}

// Execute runs args[0] with args[1:]. Stderr is captured and, when tee is
// non-nil, also streamed to tee.
func Execute(ctx context.Context, args []string, tee io.Writer) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if tee != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, tee)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}
