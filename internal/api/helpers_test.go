package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/relay-api/internal/config"
	"github.com/phrazzld/relay-api/internal/platform/logger"
	"github.com/phrazzld/relay-api/internal/platform/memory"
	"github.com/phrazzld/relay-api/internal/platform/metrics"
	"github.com/phrazzld/relay-api/internal/platform/sysinfo"
	"github.com/stretchr/testify/require"
)

// steppingClock advances by one millisecond every time it is read.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newSteppingClock() *steppingClock {
	return &steppingClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func (c *steppingClock) Uptime() time.Duration { return 90 * time.Second }

func (c *steppingClock) Memory() sysinfo.MemorySnapshot {
	return sysinfo.MemorySnapshot{Alloc: 1024, Sys: 4096, NumGoroutine: 3}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            0,
			Environment:     "test",
			LogLevel:        "debug",
			MaxBodyBytes:    4 << 10,
			ShutdownTimeout: time.Second,
		},
		API: config.APIConfig{
			Name:          "Relay API",
			Version:       "1.0.0",
			Documentation: "See README.md for more information",
		},
	}
}

type testGateway struct {
	handler  http.Handler
	routes   []Route
	deps     Dependencies
	users    *memory.UserStore
	files    *memory.FileStore
	messages *memory.MessageStore
	logs     *logger.TestLogBuffer
}

// newTestGateway builds the full pipeline over seeded in-memory stores.
func newTestGateway(t *testing.T) *testGateway {
	t.Helper()

	log, logBuf := logger.GetTestLogger(t)
	users := memory.NewUserStore(log)
	files := memory.NewFileStore(log)
	messages := memory.NewMessageStore(log)
	require.NoError(t, memory.Seed(context.Background(), users, files, messages))

	deps := Dependencies{
		Config:   testConfig(),
		Logger:   log,
		Clock:    newSteppingClock(),
		Metrics:  metrics.NewRecorder(),
		Users:    users,
		Files:    files,
		Messages: messages,
	}
	routes, err := DefaultRoutes(deps)
	require.NoError(t, err)
	h, err := NewHandler(deps, routes)
	require.NoError(t, err)

	return &testGateway{
		handler:  h,
		routes:   routes,
		deps:     deps,
		users:    users,
		files:    files,
		messages: messages,
		logs:     logBuf,
	}
}

func (g *testGateway) do(t *testing.T, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	g.handler.ServeHTTP(rec, req)
	return rec
}

// decodeSingle decodes the response body into v and fails unless the body
// holds exactly one JSON document.
func decodeSingle(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	dec := json.NewDecoder(strings.NewReader(rec.Body.String()))
	require.NoError(t, dec.Decode(v), "body: %s", rec.Body.String())
	var extra json.RawMessage
	require.ErrorIs(t, dec.Decode(&extra), io.EOF, "more than one document in body: %s", rec.Body.String())
}

// envelope is the decoded shape shared by every response.
type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Count     *int            `json:"count"`
	Timestamp string          `json:"timestamp"`
	Path      string          `json:"path"`
	Method    string          `json:"method"`
}
