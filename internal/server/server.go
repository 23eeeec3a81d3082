// Package server serves a built site bundle over HTTP: static assets with
// long-lived caching, the single-page app routes rendered from index.html,
// and transparent WebP substitution for browsers that accept it.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/backmassage/folio/internal/logging"
)

const (
	indexFile = "index.html"

	cacheImmutable = "public, max-age=31536000, immutable"
	cacheNoCache   = "no-cache"

	shutdownTimeout = 5 * time.Second
)

// AppRoutes are the client-side routes answered with index.html.
var AppRoutes = []string{"/", "/hackathons"}

// Server serves one bundle directory.
type Server struct {
	dist string
	log  *logging.Logger
}

// New returns a server for the bundle rooted at dist.
func New(dist string, log *logging.Logger) *Server {
	return &Server{dist: dist, log: log}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	for _, route := range AppRoutes {
		r.Get(route, s.serveIndex)
	}
	r.Get("/*", s.serveStatic)
	return r
}

// ListenAndServe binds addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully, draining in-flight requests for up to five seconds.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Success("Serving %s on http://%s", s.dist, ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	p := filepath.Join(s.dist, indexFile)
	if !isFile(p) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", cacheNoCache)
	s.serveFile(w, r, p)
}

func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	urlPath := path.Clean("/" + r.URL.Path)
	p := filepath.Join(s.dist, filepath.FromSlash(urlPath))
	if !isFile(p) {
		http.NotFound(w, r)
		return
	}

	if negotiable(p) {
		w.Header().Add("Vary", "Accept")
		if alt, ok := webpSibling(p); ok && acceptsWebP(r.Header.Get("Accept")) {
			p = alt
			w.Header().Set("Content-Type", "image/webp")
		}
	}

	switch {
	case strings.HasPrefix(urlPath, "/assets/"):
		w.Header().Set("Cache-Control", cacheImmutable)
	case path.Base(urlPath) == indexFile:
		w.Header().Set("Cache-Control", cacheNoCache)
	}
	s.serveFile(w, r, p)
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, p string) {
	f, err := os.Open(p)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
