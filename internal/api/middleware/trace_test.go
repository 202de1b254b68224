package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/flipdeck/internal/api/middleware"
	"github.com/phrazzld/flipdeck/internal/api/shared"
	"github.com/phrazzld/flipdeck/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var traceIDs []string
	handler := middleware.NewTraceMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := shared.GetTraceID(r.Context())
		traceIDs = append(traceIDs, traceID)
		logger.FromContextOrDefault(r.Context(), nil).Info("inside handler")
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	require.Len(t, traceIDs, 2)
	assert.Len(t, traceIDs[0], 2*shared.TraceIDLength)
	assert.NotEqual(t, traceIDs[0], traceIDs[1])
	assert.Contains(t, buf.String(), `"msg":"inside handler","trace_id":"`+traceIDs[0]+`"`)
}
