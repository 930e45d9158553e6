package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/logger"
)

func newTestServer(t *testing.T, mode calc.ValidationMode) (*Server, *observer.ObservedLogs) {
	t.Helper()
	lggr, logs := logger.TestObserved(t, zapcore.InfoLevel)
	s := New(Options{
		Addr:            "127.0.0.1:0",
		ReadTimeout:     time.Second,
		ShutdownTimeout: time.Second,
		Validation:      mode,
	}, lggr)
	return s, logs
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var badRequest = ErrorResponse{
	StatusCode: http.StatusBadRequest,
	Message:    "Invalid expression provided",
	Error:      "Bad Request",
}

func TestHandleCalc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode calc.ValidationMode
		body string
		want float64
	}{
		{name: "add", body: `{"expression":"2+3"}`, want: 5},
		{name: "precedence", body: `{"expression":"2+3*4"}`, want: 14},
		{name: "brackets", body: `{"expression":"(2+3)*4"}`, want: 20},
		{name: "decimal", body: `{"expression":"-1.5/3"}`, want: -0.5},
		{name: "extra fields", body: `{"expression":"7","id":1}`, want: 7},
		{name: "trailing space", body: "{\"expression\":\"7\"}\n  ", want: 7},
		{name: "charset mode", mode: calc.ValidateCharset, body: `{"expression":"((8))"}`, want: 8},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, _ := newTestServer(t, tt.mode)

			rec := do(t, s.Handler(), http.MethodPost, "/calc", tt.body)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
			var got float64
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleCalc_BadRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode calc.ValidationMode
		body string
	}{
		{name: "letters", body: `{"expression":"abc"}`},
		{name: "division by zero", body: `{"expression":"2/0"}`},
		{name: "adjacent operators", body: `{"expression":"2+*3"}`},
		{name: "adjacent operators charset", mode: calc.ValidateCharset, body: `{"expression":"2+*3"}`},
		{name: "unbalanced", body: `{"expression":"(2+3"}`},
		{name: "brackets strict", mode: calc.ValidateStrict, body: `{"expression":"(2+3)*4"}`},
		{name: "empty expression", body: `{"expression":""}`},
		{name: "missing expression", body: `{}`},
		{name: "not a string", body: `{"expression":5}`},
		{name: "malformed json", body: `{"expression":`},
		{name: "no body", body: ""},
		{name: "trailing garbage", body: `{"expression":"1"}garbage`},
		{name: "two objects", body: `{"expression":"1"}{"expression":"2"}`},
		{name: "extra brace", body: `{"expression":"1"}}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, _ := newTestServer(t, tt.mode)

			rec := do(t, s.Handler(), http.MethodPost, "/calc", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var got ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, badRequest, got)
		})
	}
}

func TestHandleCalc_ExactErrorBody(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t, calc.ValidateGrouped)

	rec := do(t, s.Handler(), http.MethodPost, "/calc", `{"expression":"abc"}`)

	assert.JSONEq(t, `{"statusCode":400,"message":"Invalid expression provided","error":"Bad Request"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t, calc.ValidateGrouped)

	rec := do(t, s.Handler(), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouting_Errors(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t, calc.ValidateGrouped)

	rec := do(t, s.Handler(), http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"statusCode":404,"message":"Cannot GET /nope","error":"Not Found"}`, rec.Body.String())

	rec = do(t, s.Handler(), http.MethodGet, "/calc", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Header().Get("Allow"), http.MethodPost)
	assert.JSONEq(t, `{"statusCode":405,"message":"Cannot GET /calc","error":"Method Not Allowed"}`, rec.Body.String())
}

func TestPanicHandler(t *testing.T) {
	t.Parallel()
	s, logs := newTestServer(t, calc.ValidateGrouped)
	s.router.GET("/boom", func(http.ResponseWriter, *http.Request, httprouter.Params) {
		panic("boom")
	})

	rec := do(t, s.Handler(), http.MethodGet, "/boom", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("Handler panicked").Len())
	access := logs.FilterFieldKey("status").All()
	require.Len(t, access, 1)
	assert.EqualValues(t, http.StatusInternalServerError, access[0].ContextMap()["status"])
}

func TestServe_Shutdown(t *testing.T) {
	t.Parallel()
	s, logs := newTestServer(t, calc.ValidateGrouped)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln)
	}()

	resp, err := http.Post("http://"+ln.Addr().String()+"/calc", "application/json", strings.NewReader(`{"expression":"6*7"}`))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "42", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.Equal(t, 1, logs.FilterMessage("Shutting down").Len())
}

func TestRun_BadAddr(t *testing.T) {
	t.Parallel()
	s := New(Options{Addr: "not an address"}, logger.Test(t))

	err := s.Run(context.Background())
	require.ErrorContains(t, err, "listening on not an address")
}
