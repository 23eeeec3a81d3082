package planner

// Action describes the per-file processing decision.
type Action int

const (
	ActionConvert Action = iota
	ActionSkip
)

func (a Action) String() string {
	switch a {
	case ActionConvert:
		return "convert"
	case ActionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// FilePlan holds the complete set of decisions for converting one image.
type FilePlan struct {
	Action     Action
	SkipReason string

	InputPath  string
	OutputPath string

	// Encode parameters.
	Quality int
	Method  int

	// Target size. Zero means keep the source dimensions.
	ResizeWidth  int
	ResizeHeight int

	// Source dimensions, for logging.
	SourceWidth  int
	SourceHeight int
}

// Resizes reports whether the plan scales the image down.
func (p *FilePlan) Resizes() bool {
	return p.ResizeWidth > 0 && p.ResizeHeight > 0
}
