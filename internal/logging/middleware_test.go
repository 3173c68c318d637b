package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestRequestLoggerAttachesLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, false)

	var fromCtx *Logger
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = GetLoggerFromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/courses/x", nil))

	require.NotNil(t, fromCtx)
	assert.NotSame(t, logger, fromCtx)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	record := completionRecord(t, &buf)
	assert.Equal(t, "request completed", record["msg"])
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "/api/courses/x", record["path"])
	assert.EqualValues(t, http.StatusNotFound, record["status"])
}

func TestRequestLoggerRecordsBytesAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, false)

	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		AddRequestAttrs(r.Context(), "user_id", "abc")
		_, _ = w.Write([]byte("hello"))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	record := completionRecord(t, &buf)
	assert.Equal(t, "INFO", record["level"])
	assert.EqualValues(t, http.StatusOK, record["status"])
	assert.EqualValues(t, 5, record["bytes"])
	assert.Equal(t, "abc", record["user_id"])
}

func TestRequestLoggerKeepsFlusher(t *testing.T) {
	h := RequestLogger(Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := w.(http.Flusher)
		assert.True(t, ok)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestRequestLoggerStatusWithoutWrite(t *testing.T) {
	var buf bytes.Buffer
	h := RequestLogger(newLogger(&buf, false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.EqualValues(t, http.StatusOK, completionRecord(t, &buf)["status"])
}

func TestAddRequestAttrsOutsideRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.NotPanics(t, func() { AddRequestAttrs(req.Context(), "user_id", "abc") })
}

func TestGetLoggerFromContextFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.NotNil(t, GetLoggerFromContext(req.Context()))
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, false).WithFields(map[string]any{"user_id": "abc"})
	logger.Info("hello")

	assert.Equal(t, "abc", completionRecord(t, &buf)["user_id"])
}
