package http

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

func getTestServerConfig() *entities.ServerConfig {
	return &entities.ServerConfig{
		Host:            "127.0.0.1",
		ShutdownTimeout: 2,
	}
}

func TestServerLifecycle(t *testing.T) {
	server := NewServer(new(MockDeckService), getTestServerConfig(), zap.NewNop())
	ctx := context.Background()

	t.Run("start server", func(t *testing.T) {
		require.NoError(t, server.Start(ctx, 0, "127.0.0.1"))
		assert.True(t, server.IsRunning())
		require.NotNil(t, server.Addr())
	})

	t.Run("server answers", func(t *testing.T) {
		resp, err := http.Get("http://" + server.Addr().String() + "/healthz")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	})

	t.Run("server already running", func(t *testing.T) {
		err := server.Start(ctx, 0, "127.0.0.1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already running")
	})

	t.Run("stop server", func(t *testing.T) {
		require.NoError(t, server.Stop(ctx))
		assert.False(t, server.IsRunning())
	})

	t.Run("server not running", func(t *testing.T) {
		err := server.Stop(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not running")
	})
}

func TestServerStartBindError(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = listener.Close() }()

	port := listener.Addr().(*net.TCPAddr).Port
	server := NewServer(new(MockDeckService), getTestServerConfig(), zap.NewNop())

	err = server.Start(context.Background(), port, "127.0.0.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
	assert.False(t, server.IsRunning())
}

func TestNotifyClients(t *testing.T) {
	server := NewServer(new(MockDeckService), getTestServerConfig(), zap.NewNop())
	ctx := context.Background()

	t.Run("notify when server not running", func(t *testing.T) {
		err := server.NotifyClients(ports.UpdateEvent{Type: ports.EventTypeDeckUpdated})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not running")
	})

	t.Run("notify when server running", func(t *testing.T) {
		require.NoError(t, server.Start(ctx, 0, "127.0.0.1"))
		defer func() { _ = server.Stop(ctx) }()

		err := server.NotifyClients(ports.UpdateEvent{
			Type: ports.EventTypeDeckUpdated,
			Data: map[string]string{"message": "test"},
		})
		assert.NoError(t, err)
	})
}

func TestServerRateLimit(t *testing.T) {
	config := getTestServerConfig()
	config.RateLimit = 2
	server := NewServer(new(MockDeckService), config, zap.NewNop())
	handler := server.Handler()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodGet, "/healthz", nil)
		require.NoError(t, err)
		req.RemoteAddr = "192.0.2.10:5555"

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestServerCORS(t *testing.T) {
	server := NewServer(new(MockDeckService), getTestServerConfig(), zap.NewNop())
	handler := server.Handler()

	preflight := func(requestHeaders string) *httptest.ResponseRecorder {
		req, err := http.NewRequest(http.MethodOptions, "/api/generate", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", requestHeaders)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("preflight from allowed origin", func(t *testing.T) {
		w := preflight("x-session-id")

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	})

	t.Run("preflight with json and session headers", func(t *testing.T) {
		w := preflight("content-type,x-session-id")

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight with unlisted header is refused", func(t *testing.T) {
		w := preflight("x-api-key")

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, "/healthz", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://evil.example")

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestServerMetricsRoute(t *testing.T) {
	t.Run("disabled without metrics", func(t *testing.T) {
		server := NewServer(new(MockDeckService), getTestServerConfig(), zap.NewNop())

		req, err := http.NewRequest(http.MethodGet, "/metrics", nil)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("custom path", func(t *testing.T) {
		server := NewServer(new(MockDeckService), getTestServerConfig(), zap.NewNop())
		server.SetMetrics(NewMetrics(), "/internal/metrics")

		req, err := http.NewRequest(http.MethodGet, "/internal/metrics", nil)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "go_goroutines")
	})
}

func TestSetTimeProvider(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	server := NewServer(new(MockDeckService), getTestServerConfig(), zap.NewNop())
	server.SetTimeProvider(fixedClock{now: fixed})

	req, err := http.NewRequest(http.MethodGet, "/healthz", nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"time":"2026-03-01T09:00:00Z"`)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time                  { return c.now }
func (c fixedClock) Since(t time.Time) time.Duration { return c.now.Sub(t) }
