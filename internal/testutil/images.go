// Package testutil generates image fixtures for tests across packages.
package testutil

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// Pattern builds a deterministic w x h RGBA image: a diagonal gradient with
// seeded noise, so encoders produce non-trivial output.
func Pattern(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := uint8(rng.Intn(48))
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x*255)/max(w, 1)) ^ n,
				G: uint8((y*255)/max(h, 1)) ^ n,
				B: uint8(((x + y) * 255) / max(w+h, 1)),
				A: 255,
			})
		}
	}
	return img
}

// WritePNG writes a Pattern image as PNG to dir/name, creating parent
// directories, and returns the full path.
func WritePNG(t testing.TB, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	writeImage(t, path, func(f *os.File) error {
		return png.Encode(f, Pattern(w, h, int64(w*h)))
	})
	return path
}

// WriteJPEG writes a Pattern image as JPEG (quality 95) to dir/name.
func WriteJPEG(t testing.TB, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	writeImage(t, path, func(f *os.File) error {
		return jpeg.Encode(f, Pattern(w, h, int64(w+h)), &jpeg.Options{Quality: 95})
	})
	return path
}

// WriteFile writes raw bytes to dir/name, creating parent directories.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func writeImage(t testing.TB, path string, enc func(*os.File) error) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	if err := enc(f); err != nil {
		f.Close()
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}
