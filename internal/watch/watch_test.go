package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/folio/internal/config"
	"github.com/backmassage/folio/internal/encoder"
	"github.com/backmassage/folio/internal/logging"
	"github.com/backmassage/folio/internal/pipeline"
	"github.com/backmassage/folio/internal/term"
	"github.com/backmassage/folio/internal/testutil"
)

type recordingConverter struct {
	mu    sync.Mutex
	paths []string
}

func (c *recordingConverter) Convert(_ context.Context, path string) (*pipeline.Record, pipeline.Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, path)
	return &pipeline.Record{Source: path}, pipeline.OutcomeConverted, nil
}

func (c *recordingConverter) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, p := range c.paths {
		if p == path {
			n++
		}
	}
	return n
}

func (c *recordingConverter) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}

func newLogger(t *testing.T) *logging.Logger {
	t.Helper()
	term.Configure(config.ColorNever)
	cfg := config.DefaultConfig()
	var out, errOut bytes.Buffer
	log, err := logging.NewLoggerTo(&out, &errOut, &cfg)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

// start runs w in the background and returns once it is watching. The
// returned func cancels the watcher and waits for Run to return.
func start(t *testing.T, w *Watcher) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-w.Started():
	case err := <-done:
		cancel()
		t.Fatalf("Run returned early: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("watcher did not start")
	}

	stopped := false
	stop := func() {
		if stopped {
			return
		}
		stopped = true
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	}
	t.Cleanup(stop)
	return stop
}

func TestWatcher_ConvertsNewImage(t *testing.T) {
	root := t.TempDir()
	conv := &recordingConverter{}
	w := New(root, 50*time.Millisecond, conv, newLogger(t))
	start(t, w)

	path := testutil.WritePNG(t, root, "new.png", 8, 8)

	require.Eventually(t, func() bool { return conv.count(path) == 1 }, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_DebouncesRepeatedWrites(t *testing.T) {
	root := t.TempDir()
	conv := &recordingConverter{}
	w := New(root, 300*time.Millisecond, conv, newLogger(t))
	start(t, w)

	path := filepath.Join(root, "burst.png")
	for i := 0; i < 5; i++ {
		testutil.WritePNG(t, root, "burst.png", 8+i, 8)
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return conv.count(path) >= 1 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, 1, conv.count(path), "writes within the debounce window coalesce")
}

func TestWatcher_IgnoresNonImages(t *testing.T) {
	root := t.TempDir()
	conv := &recordingConverter{}
	w := New(root, 30*time.Millisecond, conv, newLogger(t))
	start(t, w)

	testutil.WriteFile(t, root, "notes.txt", []byte("hi"))
	testutil.WriteFile(t, root, "done.webp", []byte("RIFF"))
	marker := testutil.WritePNG(t, root, "marker.png", 4, 4)

	require.Eventually(t, func() bool { return conv.count(marker) == 1 }, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 1, conv.total())
}

func TestWatcher_PicksUpNewDirectories(t *testing.T) {
	root := t.TempDir()
	conv := &recordingConverter{}
	w := New(root, 30*time.Millisecond, conv, newLogger(t))
	start(t, w)

	sub := filepath.Join(root, "gallery", "2024")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)
	path := testutil.WriteJPEG(t, sub, "shot.jpg", 8, 8)

	require.Eventually(t, func() bool { return conv.count(path) >= 1 }, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_MissingRoot(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope"), 0, &recordingConverter{}, newLogger(t))
	assert.Error(t, w.Run(context.Background()))
}

func TestWatcher_WithNativeConverter(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.SourceDir = root
	log := newLogger(t)
	conv := pipeline.NewConverter(&cfg, encoder.NewNative(), log)

	var mu sync.Mutex
	var got []*pipeline.Record
	w := New(root, 50*time.Millisecond, conv, log)
	w.OnRecord = func(r *pipeline.Record) {
		mu.Lock()
		got = append(got, r)
		mu.Unlock()
	}
	start(t, w)

	testutil.WritePNG(t, root, "live.png", 24, 16)
	out := filepath.Join(root, "live.webp")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) >= 1
	}, 10*time.Second, 50*time.Millisecond)

	_, err := os.Stat(out)
	assert.NoError(t, err)
}
