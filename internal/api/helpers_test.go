package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/api/middleware"
	"github.com/phrazzld/flipdeck/internal/api/shared"
	"github.com/phrazzld/flipdeck/internal/config"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/domain/session"
	"github.com/phrazzld/flipdeck/internal/mocks"
	"github.com/phrazzld/flipdeck/internal/service/auth"
	"github.com/phrazzld/flipdeck/internal/service/sessions"
	"github.com/stretchr/testify/require"
)

var testAuthConfig = config.AuthConfig{
	JWTSecret:                   "test-secret-that-is-at-least-32-characters",
	BCryptCost:                  4,
	TokenLifetimeMinutes:        60,
	RefreshTokenLifetimeMinutes: 1440,
}

type fakeProgress struct {
	mu      sync.Mutex
	records []*domain.ProgressRecord
	gotSet  *uuid.UUID
	gotLim  int
}

func (f *fakeProgress) List(_ context.Context, userID uuid.UUID, setID *uuid.UUID, limit int) ([]*domain.ProgressRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotSet, f.gotLim = setID, limit

	var out []*domain.ProgressRecord
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type noSinks struct{}

func (noSinks) SinkFor(_, _ uuid.UUID) session.ProgressSink {
	return session.ProgressSinkFunc(func(session.Summary) {})
}

type testServer struct {
	handler  http.Handler
	jwt      auth.JWTService
	users    *mocks.UserService
	sets     *mocks.SetService
	manager  *sessions.Manager
	progress *fakeProgress
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	jwtService, err := auth.NewJWTService(testAuthConfig)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := &testServer{
		jwt:      jwtService,
		users:    &mocks.UserService{},
		sets:     &mocks.SetService{},
		progress: &fakeProgress{},
	}
	ts.manager = sessions.NewManager(ts.sets, noSinks{}, config.SessionConfig{
		MatchDelay:   time.Hour,
		IdleTTL:      time.Hour,
		ReapInterval: time.Minute,
		MaxPerUser:   3,
	}, log)
	t.Cleanup(ts.manager.Stop)
	t.Cleanup(func() {
		ts.users.AssertExpectations(t)
		ts.sets.AssertExpectations(t)
	})

	ts.handler = NewRouter(RouterDeps{
		Auth:     NewAuthHandler(ts.users, jwtService, testAuthConfig, log),
		Users:    NewUserHandler(ts.users, log),
		Sets:     NewSetHandler(ts.sets, log),
		Sessions: NewSessionHandler(ts.manager, log),
		Progress: NewProgressHandler(ts.progress, log),
		AuthMW:   middleware.NewAuthMiddleware(jwtService),
		Logger:   log,
	})
	return ts
}

func (ts *testServer) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := ts.jwt.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	return token
}

// do sends a request with an optional JSON body and bearer token.
func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// requireError checks an error response's status and that it carries a
// trace ID.
func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int) shared.ErrorResponse {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	resp := decodeBody[shared.ErrorResponse](t, rec)
	require.NotEmpty(t, resp.Error)
	require.Len(t, resp.TraceID, 2*shared.TraceIDLength)
	return resp
}
