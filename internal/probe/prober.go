package probe

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG header decoder
	_ "image/png"  // register PNG header decoder
	"os"

	"golang.org/x/image/webp"
)

// Probe reads the header of a PNG or JPEG file at path and returns its
// format, dimensions and on-disk size.
func Probe(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("probe %q: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("probe %q: %w", path, err)
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("probe %q: %w", path, err)
	}
	return &ImageInfo{
		Path:   path,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   fi.Size(),
	}, nil
}

// ProbeWebP verifies that path holds a decodable WebP stream and returns
// its dimensions. Used after every conversion so a truncated or empty
// write is reported as a failure instead of a record.
func ProbeWebP(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("probe webp %q: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("probe webp %q: %w", path, err)
	}

	cfg, err := webp.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("probe webp %q: %w", path, err)
	}
	return &ImageInfo{
		Path:   path,
		Format: "webp",
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   fi.Size(),
	}, nil
}
