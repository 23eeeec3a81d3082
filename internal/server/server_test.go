package server

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/folio/internal/config"
	"github.com/backmassage/folio/internal/logging"
	"github.com/backmassage/folio/internal/term"
	"github.com/backmassage/folio/internal/testutil"
)

func newTestServer(t *testing.T) (*Server, string, *bytes.Buffer) {
	t.Helper()
	dist := t.TempDir()
	testutil.WriteFile(t, dist, "index.html", []byte("<!doctype html><div id=root></div>"))
	testutil.WriteFile(t, dist, "assets/index-3f9a1c.js", []byte("console.log(1)"))
	testutil.WriteFile(t, dist, "robots.txt", []byte("User-agent: *"))
	testutil.WritePNG(t, dist, "img/hero.png", 8, 8)
	testutil.WriteFile(t, dist, "img/hero.webp", []byte("RIFF....WEBP"))
	testutil.WriteJPEG(t, dist, "img/plain.jpg", 8, 8)

	term.Configure(config.ColorNever)
	cfg := config.DefaultConfig()
	cfg.Verbose = true
	var out, errOut bytes.Buffer
	log, err := logging.NewLoggerTo(&out, &errOut, &cfg)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return New(dist, log), dist, &out
}

func get(t *testing.T, h http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := get(t, s.Routes(), "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAppRoutesServeIndex(t *testing.T) {
	s, _, _ := newTestServer(t)
	h := s.Routes()
	for _, route := range AppRoutes {
		t.Run(route, func(t *testing.T) {
			rec := get(t, h, route, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "id=root")
			assert.Equal(t, cacheNoCache, rec.Header().Get("Cache-Control"))
		})
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	s, _, out := newTestServer(t)
	h := s.Routes()
	for _, target := range []string{"/about", "/hackathons/2024", "/img/missing.png", "/img"} {
		rec := get(t, h, target, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
	assert.Contains(t, out.String(), "[WARN] GET /about 404")
}

func TestTraversalStaysInBundle(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := get(t, s.Routes(), "/../../etc/passwd", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssetsAreImmutable(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := get(t, s.Routes(), "/assets/index-3f9a1c.js", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, cacheImmutable, rec.Header().Get("Cache-Control"))
	assert.Equal(t, "console.log(1)", rec.Body.String())
}

func TestStaticFileNoCachePolicy(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := get(t, s.Routes(), "/robots.txt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Cache-Control"))

	rec = get(t, s.Routes(), "/index.html", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, cacheNoCache, rec.Header().Get("Cache-Control"))
}

func TestWebPNegotiation(t *testing.T) {
	s, _, _ := newTestServer(t)
	h := s.Routes()

	rec := get(t, h, "/img/hero.png", map[string]string{"Accept": "image/avif,image/webp,*/*;q=0.8"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "RIFF....WEBP", rec.Body.String())
	assert.Equal(t, "image/webp", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Accept", rec.Header().Get("Vary"))

	rec = get(t, h, "/img/hero.png", map[string]string{"Accept": "image/png,*/*"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Accept", rec.Header().Get("Vary"))

	// No sibling: original bytes even when WebP is accepted.
	rec = get(t, h, "/img/plain.jpg", map[string]string{"Accept": "image/webp"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
}

func TestHeadRequest(t *testing.T) {
	s, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodHead, "/robots.txt", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAcceptsWebP(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{"", false},
		{"*/*", false},
		{"image/webp", true},
		{"image/avif, IMAGE/WEBP;q=0.9", true},
		{"image/webp;q=0", false},
		{"image/webp; q=0.0, */*", false},
		{"text/html,application/xhtml+xml", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, acceptsWebP(tt.accept), "Accept: %q", tt.accept)
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	s, _, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
