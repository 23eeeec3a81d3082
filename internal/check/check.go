// Package check provides system diagnostics (the check command) and
// pre-pipeline validation (CheckEncoder) for the WebP backends: the
// in-process encoder, cwebp, and ffmpeg with libwebp.
package check

import (
	"bytes"
	"errors"
	"image"
	"os/exec"
	"strings"

	"github.com/backmassage/folio/internal/config"
	"github.com/backmassage/folio/internal/encoder"
)

// Sentinel errors returned by CheckEncoder when the selected backend is unusable.
var (
	ErrCwebpNotFound  = errors.New("cwebp not found on PATH")
	ErrFFmpegNotFound = errors.New("ffmpeg not found on PATH")
	ErrNoLibwebp      = errors.New("ffmpeg found but has no libwebp encoder")
	ErrNativeFailed   = errors.New("native WebP test encode failed")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// RunCheck prints the availability of every backend and marks the one
// selected by cfg. It is informational only and does not stop on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")
	log.Info("Selected encoder: %s", cfg.Encoder)

	checkNative(log)
	checkCwebp(log)
	checkFFmpeg(log)

	if err := CheckEncoder(cfg); err != nil {
		log.Error("Selected encoder unusable: %v", err)
	} else {
		log.Success("Selected encoder ready")
	}
}

// checkNative runs a tiny in-process encode.
func checkNative(log Logger) {
	if err := testNative(); err != nil {
		log.Error("native: %v", err)
		return
	}
	log.Success("native: in-process WebP encoder works")
}

// checkCwebp verifies cwebp is on PATH and logs its version.
func checkCwebp(log Logger) {
	if _, err := lookPath("cwebp"); err != nil {
		log.Warn("cwebp not found (optional)")
		return
	}
	v, err := firstLine("cwebp", "-version")
	if err != nil {
		log.Warn("cwebp found but -version failed: %v", err)
		return
	}
	log.Success("cwebp: %s", v)
}

// checkFFmpeg verifies ffmpeg is on PATH, logs its version, and reports
// whether it was built with libwebp.
func checkFFmpeg(log Logger) {
	if _, err := lookPath("ffmpeg"); err != nil {
		log.Warn("ffmpeg not found (optional)")
		return
	}
	v, err := firstLine("ffmpeg", "-hide_banner", "-version")
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return
	}
	log.Success("ffmpeg: %s", v)
	if hasLibwebp() {
		log.Success("ffmpeg: libwebp encoder available")
	} else {
		log.Warn("ffmpeg: libwebp encoder missing")
	}
}

// CheckEncoder is the pre-pipeline validation for the selected backend.
// External tools must be on PATH; ffmpeg must also list libwebp. The
// native backend performs a tiny test encode. Returns a sentinel error on
// failure.
func CheckEncoder(cfg *config.Config) error {
	switch cfg.Encoder {
	case config.EncoderCwebp:
		if _, err := lookPath("cwebp"); err != nil {
			return ErrCwebpNotFound
		}
	case config.EncoderFFmpeg:
		if _, err := lookPath("ffmpeg"); err != nil {
			return ErrFFmpegNotFound
		}
		if !hasLibwebp() {
			return ErrNoLibwebp
		}
	default:
		if err := testNative(); err != nil {
			return ErrNativeFailed
		}
	}
	return nil
}

// --- internal helpers ---

// testNative encodes a 2x2 image in memory.
func testNative() error {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := encoder.EncodeImage(&buf, img, 80, 0); err != nil {
		return err
	}
	if buf.Len() == 0 {
		return errors.New("empty output")
	}
	return nil
}

// hasLibwebp lists ffmpeg's encoders and looks for libwebp.
func hasLibwebp() bool {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "libwebp" {
			return true
		}
	}
	return false
}

// firstLine runs a command and returns the first line of its stdout.
func firstLine(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(out))
	if idx := strings.Index(line, "\n"); idx > 0 {
		line = line[:idx]
	}
	return line, nil
}
