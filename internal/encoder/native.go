package encoder

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"

	"github.com/gen2brain/webp"
	"golang.org/x/image/draw"

	"github.com/backmassage/folio/internal/planner"
)

// Native encodes in-process. It is safe for sequential reuse.
type Native struct{}

// NewNative returns the in-process backend.
func NewNative() *Native { return &Native{} }

// Name implements Encoder.
func (n *Native) Name() string { return "native" }

// Encode decodes the source, applies the planned downscale, and writes the
// WebP output. A partially written output is removed on failure.
// The encode runs to completion once started; ctx is not consulted.
func (n *Native) Encode(_ context.Context, plan *planner.FilePlan) error {
	img, err := decodeFile(plan.InputPath)
	if err != nil {
		return err
	}
	if plan.Resizes() {
		img = Downscale(img, plan.ResizeWidth, plan.ResizeHeight)
	}

	f, err := os.Create(plan.OutputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", plan.OutputPath, err)
	}
	if err := EncodeImage(f, img, plan.Quality, plan.Method); err != nil {
		f.Close()
		removePartial(plan.OutputPath)
		return fmt.Errorf("encode %s: %w", plan.InputPath, err)
	}
	if err := f.Close(); err != nil {
		removePartial(plan.OutputPath)
		return fmt.Errorf("close %s: %w", plan.OutputPath, err)
	}
	return nil
}

// EncodeImage writes img to w as lossy WebP at the given quality (0-100)
// and method (0-6).
func EncodeImage(w io.Writer, img image.Image, quality, method int) error {
	return webp.Encode(w, img, webp.Options{
		Quality: quality,
		Method:  method,
	})
}

// Downscale resamples img to w x h with Catmull-Rom filtering.
func Downscale(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
