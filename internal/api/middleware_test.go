// internal/api/middleware_test.go
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bookmanager/internal/logger"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantLevel string
	}{
		{name: "Success", status: http.StatusOK, body: "ok", wantLevel: "debug"},
		{name: "Client error", status: http.StatusNotFound, body: "missing", wantLevel: "warn"},
		{name: "Server error", status: http.StatusInternalServerError, body: "boom", wantLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			var buf bytes.Buffer
			handler := middleware.RequestID(RequestLogger(logger.New(&buf, "http"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books", nil))
			req.Equal(tt.status, w.Code)
			req.Equal(tt.body, w.Body.String())

			var entry map[string]any
			req.NoError(json.Unmarshal(buf.Bytes(), &entry))
			req.Equal(tt.wantLevel, entry["level"])
			req.Equal("GET", entry["method"])
			req.Equal("/api/books", entry["path"])
			req.EqualValues(tt.status, entry["status"])
			req.EqualValues(len(tt.body), entry["bytes"])
			req.NotEmpty(entry["request_id"])
		})
	}
}
