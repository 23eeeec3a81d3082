package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/backmassage/folio/internal/logging"
)

// requestLogger writes one line per request through the folio logger.
// 4xx and 5xx responses log at WARN and ERROR; everything else at DEBUG.
func requestLogger(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			line := "%s %s %d %dB %s [%s]"
			args := []interface{}{
				r.Method, r.URL.Path, status, ww.BytesWritten(),
				time.Since(start).Round(time.Microsecond), middleware.GetReqID(r.Context()),
			}
			switch {
			case status >= 500:
				log.Error(line, args...)
			case status >= 400:
				log.Warn(line, args...)
			default:
				log.Debug(line, args...)
			}
		})
	}
}
