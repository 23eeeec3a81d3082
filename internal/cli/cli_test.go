package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/folio/internal/pipeline"
	"github.com/backmassage/folio/internal/report"
	"github.com/backmassage/folio/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"}, &out, &errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "folio 1.2.3")
	assert.Contains(t, out, "commit: abc123")
}

func TestOptimize_ConvertsTree(t *testing.T) {
	root := t.TempDir()
	testutil.WritePNG(t, root, "img/a.png", 32, 24)
	testutil.WriteJPEG(t, root, "img/sub/b.jpg", 16, 16)

	out, _, err := execute(t, "optimize", root)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "img", "a.webp"))
	assert.FileExists(t, filepath.Join(root, "img", "sub", "b.webp"))
	assert.Contains(t, out, "Found 2 images to optimize")
	assert.Contains(t, out, "Total savings:")
}

func TestRoot_DefaultsToOptimize(t *testing.T) {
	root := t.TempDir()
	testutil.WritePNG(t, root, "hero.png", 16, 16)

	_, _, err := execute(t, root, "--quality", "60")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "hero.webp"))
}

func TestOptimize_MissingDirExitsNonZero(t *testing.T) {
	_, errOut, err := execute(t, "optimize", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Contains(t, errOut, "discover images")
}

func TestOptimize_PerFileFailureStillSucceeds(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "broken.png", []byte("nope"))
	testutil.WritePNG(t, root, "ok.png", 8, 8)

	_, errOut, err := execute(t, "optimize", root)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Error processing")
}

func TestOptimize_EmptyDir(t *testing.T) {
	out, _, err := execute(t, "optimize", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No images found to optimize.")
}

func TestOptimize_Report(t *testing.T) {
	root := t.TempDir()
	testutil.WritePNG(t, root, "a.png", 16, 16)
	reportPath := filepath.Join(t.TempDir(), "out", "report.json")

	_, _, err := execute(t, "optimize", root, "--report", reportPath)
	require.NoError(t, err)

	r, err := report.Read(reportPath)
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, 1, r.Totals.Converted)
	assert.Len(t, r.Records, 1)
}

func TestOptimize_DryRun(t *testing.T) {
	root := t.TempDir()
	testutil.WritePNG(t, root, "a.png", 16, 16)

	out, _, err := execute(t, "optimize", root, "--dry-run")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(root, "a.webp"))
	assert.Contains(t, out, "[DRY] Would create")
}

func TestOptimize_InvalidQuality(t *testing.T) {
	_, errOut, err := execute(t, "optimize", t.TempDir(), "--quality", "150")
	require.Error(t, err)
	assert.Contains(t, errOut, "quality must be between 0 and 100")
}

func TestOptimize_UnknownFlag(t *testing.T) {
	_, _, err := execute(t, "optimize", "--frobnicate")
	require.Error(t, err)
}

func TestSettingsFile_FlagWins(t *testing.T) {
	root := t.TempDir()
	testutil.WritePNG(t, root, "a.png", 16, 16)
	settings := testutil.WriteFile(t, t.TempDir(), "folio.yaml",
		[]byte("quality: 5\ndry_run_typo: true\n"))

	_, errOut, err := execute(t, "optimize", root, "--config", settings)
	require.Error(t, err, "unknown keys are rejected")
	assert.Contains(t, errOut, "dry_run_typo")

	settings = testutil.WriteFile(t, t.TempDir(), "folio.yaml",
		[]byte("quality: 5\nskip_existing: true\n"))
	testutil.WriteFile(t, root, "a.webp", []byte("stale"))

	out, _, err := execute(t, "optimize", root, "--config", settings)
	require.NoError(t, err)
	assert.Contains(t, out, "Skip (exists)")

	out, _, err = execute(t, "optimize", root, "--config", settings, "--skip-existing=false")
	require.NoError(t, err)
	assert.NotContains(t, out, "Skip (exists)")
}

func TestSettingsFile_ExplicitMissing(t *testing.T) {
	_, errOut, err := execute(t, "optimize", t.TempDir(), "--config", filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.Contains(t, errOut, "settings file not found")
}

func TestAnalyze(t *testing.T) {
	root := t.TempDir()
	testutil.WritePNG(t, root, "a.png", 16, 16)
	testutil.WriteJPEG(t, root, "b.jpeg", 16, 16)

	out, _, err := execute(t, "analyze", root)
	require.NoError(t, err)
	assert.Contains(t, out, "a.png")
	assert.Contains(t, out, "b.jpeg")
	assert.Contains(t, out, "Analyzed 2 images")
}

func TestServe_MissingBundle(t *testing.T) {
	_, errOut, err := execute(t, "serve", filepath.Join(t.TempDir(), "dist"))
	require.Error(t, err)
	assert.Contains(t, errOut, "bundle directory not found")
}

func TestWatch_MissingDir(t *testing.T) {
	_, errOut, err := execute(t, "watch", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, errOut, "nope")
}

func TestCheck(t *testing.T) {
	out, _, err := execute(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "=== System Check ===")
	assert.Contains(t, out, "native")
}

func TestLogFileFlag(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "folio.log")
	_, _, err := execute(t, "optimize", t.TempDir(), "--log", logPath)
	require.NoError(t, err)

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "No images found"), "log file: %s", b)
}

func TestSummaryPanel(t *testing.T) {
	res := &pipeline.Result{}
	res.Stats.Add(&pipeline.Record{OriginalKB: 800, OptimizedKB: 610})
	res.Stats.Failed = 1

	got := summaryPanel(res)
	assert.Contains(t, got, "1 converted, 0 skipped, 1 failed")
	assert.Contains(t, got, "24% (190 KB)")
}
