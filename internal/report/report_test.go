package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/folio/internal/config"
	"github.com/backmassage/folio/internal/pipeline"
)

func sampleResult() *pipeline.Result {
	start := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	res := &pipeline.Result{
		StartedAt:  start,
		FinishedAt: start.Add(3 * time.Second),
		Records: []*pipeline.Record{
			{Source: "public/img/a.png", Output: "public/img/a.webp", Format: "png", OriginalKB: 600, OptimizedKB: 150, Savings: 75},
		},
		Failures: []pipeline.Failure{{Path: "public/broken.jpg", Error: "unexpected EOF"}},
	}
	res.Stats.Total = 2
	res.Stats.Current = 2
	res.Stats.Failed = 1
	res.Stats.Add(res.Records[0])
	return res
}

func TestNew_FillsTotalsAndID(t *testing.T) {
	cfg := config.DefaultConfig()
	r := New(&cfg, sampleResult())

	_, err := uuid.Parse(r.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Totals.Discovered)
	assert.Equal(t, 1, r.Totals.Converted)
	assert.Equal(t, 1, r.Totals.Failed)
	assert.Equal(t, int64(450), r.Totals.SavedKB)
	assert.Equal(t, 75, r.Totals.SavingsPercent)
	assert.False(t, r.Interrupted)
	assert.Equal(t, "native", r.Settings.Encoder)
	assert.Equal(t, 80, r.Settings.Quality)
}

func TestNew_IDsAreUnique(t *testing.T) {
	cfg := config.DefaultConfig()
	a := New(&cfg, sampleResult())
	b := New(&cfg, sampleResult())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNew_EmptyRunHasEmptySlices(t *testing.T) {
	cfg := config.DefaultConfig()
	r := New(&cfg, &pipeline.Result{})
	assert.NotNil(t, r.Records)
	assert.NotNil(t, r.Failures)
}

func TestWriteRead_RoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	path := filepath.Join(t.TempDir(), "reports", "run.json")
	want := New(&cfg, sampleResult())

	require.NoError(t, Write(path, want))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.True(t, want.StartedAt.Equal(got.StartedAt))
	require.Len(t, got.Records, 1)
	assert.Equal(t, "public/img/a.webp", got.Records[0].Output)
	require.Len(t, got.Failures, 1)
	assert.Equal(t, "public/broken.jpg", got.Failures[0].Path)
}

func TestWrite_OverwritesExisting(t *testing.T) {
	cfg := config.DefaultConfig()
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	r := New(&cfg, sampleResult())
	require.NoError(t, Write(path, r))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
}

func TestRead_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err := Read(path)
	assert.Error(t, err)
}
