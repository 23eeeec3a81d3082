package encoder

import (
	"fmt"
	"regexp"
	"strings"
)

// Cause is a coarse classification of an external tool failure.
type Cause string

const (
	CauseUnsupportedInput Cause = "unsupported input"
	CausePermission       Cause = "permission denied"
	CauseMissingFile      Cause = "missing file"
	CauseNoWebPCodec      Cause = "webp codec unavailable"
	CauseUnknown          Cause = "unknown"
)

// Pre-compiled regexes for classifying tool stderr. Checked in order by
// [Classify]; the first match wins.
var (
	reNoWebPCodec = regexp.MustCompile(
		`(?i)Unknown encoder 'libwebp'|Encoder not found|Requested output format 'webp' is not a suitable`)

	rePermission = regexp.MustCompile(
		`(?i)Permission denied|cannot open output file|Error! Cannot open output file`)

	reMissingFile = regexp.MustCompile(
		`(?i)No such file or directory|cannot open input file`)

	reUnsupportedInput = regexp.MustCompile(
		`(?i)Unsupported image format|Invalid data found when processing input|` +
			`could not find codec parameters|Decoding of .* failed|Unknown file format`)
)

// Classify maps tool stderr to a Cause.
func Classify(stderr string) Cause {
	switch {
	case reNoWebPCodec.MatchString(stderr):
		return CauseNoWebPCodec
	case rePermission.MatchString(stderr):
		return CausePermission
	case reMissingFile.MatchString(stderr):
		return CauseMissingFile
	case reUnsupportedInput.MatchString(stderr):
		return CauseUnsupportedInput
	default:
		return CauseUnknown
	}
}

// ExecError reports a failed external encode.
type ExecError struct {
	Tool   string
	Input  string
	Cause  Cause
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s failed on %s (%s)", e.Tool, e.Input, e.Cause)
	if last := LastLine(e.Stderr); last != "" {
		msg += ": " + last
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExecError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// LastLine returns the last non-empty line of s, trimmed.
func LastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
