package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/zephyrtronium/calc/internal/logger"
)

// RequestIDHeader carries the request ID. A client-supplied value is kept;
// otherwise the server generates one.
const RequestIDHeader = "X-Request-ID"

type loggerKey struct{}

// requestLogger returns the logger for r, falling back to lggr for requests
// that did not pass through accessLog.
func requestLogger(r *http.Request, lggr logger.Logger) logger.Logger {
	if l, ok := r.Context().Value(loggerKey{}).(logger.Logger); ok {
		return l
	}
	return lggr
}

// accessLog logs one line per request in the form "METHOD PATH STATUS
// ELAPSEDms", however the request ends. Handlers further down receive a
// logger tagged with the request ID through the request context.
func accessLog(lggr logger.Logger, next http.Handler) http.Handler {
	lggr = lggr.Named("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		l := lggr.With("requestID", id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			elapsed := time.Since(start)
			path := r.URL.RequestURI()
			l.Infow(accessLine(r.Method, path, rec.status, elapsed),
				"method", r.Method,
				"path", path,
				"status", rec.status,
				"elapsed", elapsed,
			)
		}()
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), loggerKey{}, l)))
	})
}

func accessLine(method, path string, status int, elapsed time.Duration) string {
	return method + " " + path + " " + strconv.Itoa(status) + " " + strconv.FormatInt(elapsed.Milliseconds(), 10) + "ms"
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
