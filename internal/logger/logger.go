// Package logger provides structured logging functionality
// using the Uber zap logging library, for both the served UI API and the
// outgoing calls to the words API.
package logger

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type responseData struct {
	status int
	size   int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	responseData *responseData
}

// Log is a global SugaredLogger instance from the zap logging library.
// It starts as a no-op logger so packages can log before Init is called.
var Log = zap.NewNop().Sugar()

// Write implements the io.Writer interface for logger middleware.
func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

// WriteHeader captures the status code before passing it through.
func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

// Init replaces the global logger with a development logger of the given level.
func Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = zl.Sugar()

	return nil
}

// Sync flushes any buffered log entries to the output.
func Sync() error {
	if err := Log.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return err
	}

	return nil
}

// WithLoggingHTTPMiddleware logs method, URI, status, duration and size of
// every request served by the UI API.
func WithLoggingHTTPMiddleware(h http.Handler) http.Handler {
	logFn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		responseData := &responseData{
			status: 0,
			size:   0,
		}
		lw := loggingResponseWriter{
			ResponseWriter: w,
			responseData:   responseData,
		}
		h.ServeHTTP(&lw, r)

		Log.Infoln(
			"uri", r.RequestURI,
			"method", r.Method,
			"status", responseData.status,
			"duration", time.Since(start),
			"size", responseData.size,
		)
	}

	return http.HandlerFunc(logFn)
}

// LogAPIResponse is a resty OnAfterResponse hook that logs each call made to
// the words API. Bodies are not logged since requests may carry passwords.
func LogAPIResponse(_ *resty.Client, resp *resty.Response) error {
	Log.Debugw(
		"words API call",
		"method", resp.Request.Method,
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
		"duration", resp.Time(),
		"requestID", resp.Request.Header.Get("X-Request-ID"),
	)

	return nil
}

// LogAPIError is a resty OnError hook for calls that produced no response.
func LogAPIError(req *resty.Request, err error) {
	Log.Debugw(
		"words API call failed",
		"method", req.Method,
		"url", req.URL,
		"error", err,
	)
}
