package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
)

func TestTraceMiddlewareSetsTraceID(t *testing.T) {
	baseLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var seenTraceID string
	var seenLogger *slog.Logger
	handler := NewTraceMiddleware(baseLogger)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenTraceID = shared.GetTraceID(r.Context())
			seenLogger = logger.FromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, seenTraceID, "trace ID should be set on the request context")
	assert.NotNil(t, seenLogger, "trace-scoped logger should be set on the request context")
}

func TestTraceMiddlewareUniquePerRequest(t *testing.T) {
	baseLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var ids []string
	handler := NewTraceMiddleware(baseLogger)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ids = append(ids, shared.GetTraceID(r.Context()))
		}),
	)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}
