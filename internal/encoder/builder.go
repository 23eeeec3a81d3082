package encoder

import (
	"fmt"
	"strconv"

	"github.com/backmassage/folio/internal/config"
	"github.com/backmassage/folio/internal/planner"
)

// Build constructs the complete argument slice (tool name first) for an
// external backend. verbose switches the tool from quiet to chatty output.
func Build(tool config.EncoderBackend, plan *planner.FilePlan, verbose bool) []string {
	switch tool {
	case config.EncoderCwebp:
		return buildCwebp(plan, verbose)
	case config.EncoderFFmpeg:
		return buildFFmpeg(plan, verbose)
	default:
		return nil
	}
}

// buildCwebp:
//
//	cwebp -q <quality> -m <method> [-resize W H] (-quiet|-v) <in> -o <out>
func buildCwebp(plan *planner.FilePlan, verbose bool) []string {
	args := make([]string, 0, 16)
	args = append(args, "cwebp",
		"-q", strconv.Itoa(plan.Quality),
		"-m", strconv.Itoa(plan.Method),
	)
	if plan.Resizes() {
		args = append(args, "-resize", strconv.Itoa(plan.ResizeWidth), strconv.Itoa(plan.ResizeHeight))
	}
	if verbose {
		args = append(args, "-v")
	} else {
		args = append(args, "-quiet")
	}
	args = append(args, plan.InputPath, "-o", plan.OutputPath)
	return args
}

// buildFFmpeg encodes a single frame through libwebp:
//
//	ffmpeg -hide_banner -nostdin -y -loglevel <lvl> -i <in> [-vf scale=W:H]
//	       -c:v libwebp -quality <q> -compression_level <m> -frames:v 1 <out>
func buildFFmpeg(plan *planner.FilePlan, verbose bool) []string {
	args := make([]string, 0, 24)
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y")

	// Loglevel: info when verbose, otherwise error.
	if verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}

	args = append(args, "-i", plan.InputPath)

	if plan.Resizes() {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d:flags=lanczos", plan.ResizeWidth, plan.ResizeHeight))
	}

	args = append(args,
		"-c:v", "libwebp",
		"-quality", strconv.Itoa(plan.Quality),
		"-compression_level", strconv.Itoa(plan.Method),
		"-frames:v", "1",
		plan.OutputPath,
	)
	return args
}
