package probe

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/folio/internal/testutil"
)

func TestProbe_PNG(t *testing.T) {
	path := testutil.WritePNG(t, t.TempDir(), "hero.png", 64, 32)

	info, err := Probe(path)
	require.NoError(t, err)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, 64, info.Width)
	assert.Equal(t, 32, info.Height)
	assert.Positive(t, info.Size)
	assert.Equal(t, "64x32", info.Resolution())
	assert.Equal(t, int64(64*32), info.Pixels())
}

func TestProbe_JPEG(t *testing.T) {
	path := testutil.WriteJPEG(t, t.TempDir(), "photo.jpg", 40, 30)

	info, err := Probe(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", info.Format)
	assert.Equal(t, "40x30", info.Resolution())
}

func TestProbe_NotAnImage(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "fake.png", []byte("not really a png"))

	_, err := Probe(path)
	assert.Error(t, err)
}

func TestProbe_Missing(t *testing.T) {
	_, err := Probe(filepath.Join(t.TempDir(), "gone.png"))
	assert.Error(t, err)
}

func TestProbeWebP_RejectsPNG(t *testing.T) {
	path := testutil.WritePNG(t, t.TempDir(), "x.png", 8, 8)
	_, err := ProbeWebP(path)
	assert.Error(t, err)
}

func TestImageInfo_UnknownDimensions(t *testing.T) {
	info := ImageInfo{Size: 100}
	assert.Equal(t, "unknown", info.Resolution())
	assert.Zero(t, info.BytesPerPixel())
}
