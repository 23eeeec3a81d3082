package planner

import (
	"github.com/backmassage/folio/internal/config"
	"github.com/backmassage/folio/internal/probe"
)

// BuildPlan produces a FilePlan from config, the probed source header and
// the resolved output path.
//
// Flow:
//  1. Skip when --skip-existing is set and the WebP sibling is present
//  2. Copy quality/method from config
//  3. Compute the downscale target when the source exceeds --max-width
func BuildPlan(cfg *config.Config, info *probe.ImageInfo, outputPath string, outputExists bool) *FilePlan {
	plan := &FilePlan{
		Action:       ActionConvert,
		InputPath:    info.Path,
		OutputPath:   outputPath,
		Quality:      cfg.Quality,
		Method:       cfg.Method,
		SourceWidth:  info.Width,
		SourceHeight: info.Height,
	}

	if cfg.SkipExisting && outputExists {
		plan.Action = ActionSkip
		plan.SkipReason = "exists"
		return plan
	}

	plan.ResizeWidth, plan.ResizeHeight = FitWidth(info.Width, info.Height, cfg.MaxWidth)
	return plan
}

// FitWidth returns the dimensions that scale (w, h) down to maxWidth while
// keeping the aspect ratio, rounding the height to the nearest pixel (at
// least 1). It returns (0, 0) when no resize is needed.
func FitWidth(w, h, maxWidth int) (int, int) {
	if maxWidth <= 0 || w <= maxWidth || w <= 0 || h <= 0 {
		return 0, 0
	}
	nh := (h*maxWidth + w/2) / w
	if nh < 1 {
		nh = 1
	}
	return maxWidth, nh
}
