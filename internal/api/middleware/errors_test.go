package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/relay-api/internal/api/apierr"
	"github.com/phrazzld/relay-api/internal/api/shared"
	"github.com/phrazzld/relay-api/internal/platform/logger"
	"github.com/phrazzld/relay-api/internal/platform/sysinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock is a sysinfo.Provider frozen at a single instant.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time                 { return c.now }
func (c fixedClock) Uptime() time.Duration          { return time.Minute }
func (c fixedClock) Memory() sysinfo.MemorySnapshot { return sysinfo.MemorySnapshot{} }

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) shared.Envelope {
	t.Helper()
	var env shared.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

func TestErrorNormalizer(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantStatus  int
		wantMessage string
	}{
		{
			name: "tagged error keeps its status and message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				Abort(r, apierr.NotFound("User not found"))
			},
			wantStatus:  http.StatusNotFound,
			wantMessage: "User not found",
		},
		{
			name: "handler error with explicit status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				Abort(r, apierr.Handler(http.StatusServiceUnavailable, "Try later", nil))
			},
			wantStatus:  http.StatusServiceUnavailable,
			wantMessage: "Try later",
		},
		{
			name: "untagged error becomes 500 without leaking",
			handler: func(w http.ResponseWriter, r *http.Request) {
				Abort(r, errors.New("dial tcp 10.0.0.1:5432: connection refused"))
			},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: apierr.DefaultMessage,
		},
		{
			name: "panic becomes 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic("boom")
			},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: apierr.DefaultMessage,
		},
		{
			name: "first reported error wins",
			handler: func(w http.ResponseWriter, r *http.Request) {
				Abort(r, apierr.Validation("first", nil))
				Abort(r, apierr.Conflict("second", nil))
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, logBuf := logger.GetTestLogger(t)
			h := ErrorNormalizer(log, fixedClock{now: testNow})(tt.handler)

			req := httptest.NewRequest(http.MethodGet, "/api/users/42?x=1", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMessage, env.Message)
			assert.Equal(t, "/api/users/42?x=1", env.Path)
			assert.Equal(t, sysinfo.Timestamp(testNow), env.Timestamp)

			entry := logger.FindLogEntry(t, logBuf, "request failed")
			require.NotNil(t, entry)
			assert.Equal(t, float64(tt.wantStatus), entry["status_code"])
		})
	}
}

func TestErrorNormalizer_LogLevelByStatus(t *testing.T) {
	log, logBuf := logger.GetTestLogger(t)
	h := ErrorNormalizer(log, fixedClock{now: testNow})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Abort(r, apierr.Validation("bad", nil))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))

	entry := logger.FindLogEntry(t, logBuf, "request failed")
	require.NotNil(t, entry)
	assert.Equal(t, "WARN", entry["level"])

	logBuf.Reset()
	h = ErrorNormalizer(log, fixedClock{now: testNow})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Abort(r, errors.New("boom"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))

	entry = logger.FindLogEntry(t, logBuf, "request failed")
	require.NotNil(t, entry)
	assert.Equal(t, "ERROR", entry["level"])
}

func TestErrorNormalizer_NoWriteAfterPartialResponse(t *testing.T) {
	log, logBuf := logger.GetTestLogger(t)
	h := ErrorNormalizer(log, fixedClock{now: testNow})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"partial":`))
		panic("stream broke")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"partial":`, rec.Body.String())
	assert.NotNil(t, logger.FindLogEntry(t, logBuf, "request failed after response was started"))
	assert.Nil(t, logger.FindLogEntry(t, logBuf, "request failed"))
}

func TestErrorNormalizer_PassesThroughSuccess(t *testing.T) {
	log, logBuf := logger.GetTestLogger(t)
	var arrived time.Time
	h := ErrorNormalizer(log, fixedClock{now: testNow})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		arrived = shared.ArrivedAt(r.Context())
		assert.False(t, IsAborted(r))
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, testNow, arrived)
	assert.Empty(t, logBuf.String())
}

func TestErrorNormalizer_AbortHandlerPanicIsSilent(t *testing.T) {
	log, logBuf := logger.GetTestLogger(t)
	h := ErrorNormalizer(log, fixedClock{now: testNow})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, rec.Body.String())
	assert.Empty(t, logBuf.String())
}

func TestAbort_OutsideNormalizer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.NotPanics(t, func() {
		Abort(req, errors.New("nobody listening"))
		Abort(req, nil)
	})
	assert.False(t, IsAborted(req))
}
