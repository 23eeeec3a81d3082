package probe

import "fmt"

// ImageInfo holds header-level metadata for one image file.
type ImageInfo struct {
	Path   string
	Format string // "png", "jpeg", "webp"
	Width  int
	Height int
	Size   int64 // bytes on disk
}

// Pixels returns Width*Height, or 0 when dimensions are unknown.
func (i *ImageInfo) Pixels() int64 {
	if i.Width <= 0 || i.Height <= 0 {
		return 0
	}
	return int64(i.Width) * int64(i.Height)
}

// BytesPerPixel returns the on-disk weight per pixel, or 0 when unknown.
// Heavily compressed images sit well below 1.0; unoptimized PNG photos
// often exceed 2.0.
func (i *ImageInfo) BytesPerPixel() float64 {
	px := i.Pixels()
	if px == 0 {
		return 0
	}
	return float64(i.Size) / float64(px)
}

// Resolution returns "WxH", or "unknown".
func (i *ImageInfo) Resolution() string {
	if i.Width <= 0 || i.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", i.Width, i.Height)
}
