// internal/api/middleware.go
package api

import (
	"net/http"
	"time"

	"github.com/bookmanager/internal/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request through log.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				entry := log.WithFields(map[string]interface{}{
					"method":      r.Method,
					"path":        r.URL.Path,
					"status":      ww.Status(),
					"bytes":       ww.BytesWritten(),
					"duration_ms": time.Since(start).Milliseconds(),
					"request_id":  middleware.GetReqID(r.Context()),
				})
				switch {
				case ww.Status() >= http.StatusInternalServerError:
					entry.Error("Request failed")
				case ww.Status() >= http.StatusBadRequest:
					entry.Warn("Request rejected")
				default:
					entry.Debug("Request served")
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
