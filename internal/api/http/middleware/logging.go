package middleware

import (
	"net/http"
	"time"

	"github.com/dtroode/userintake/internal/logger"
	"github.com/dtroode/userintake/internal/model"
)

// Logging logs every HTTP request with its outcome.
type Logging struct {
	logger         *logger.Logger
	contextManager model.ContextManager
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger, contextManager model.ContextManager) *Logging {
	return &Logging{logger: logger, contextManager: contextManager}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// HandleHTTP logs method, path, status and duration of each request.
func (l *Logging) HandleHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if requestID, ok := l.contextManager.GetRequestIDFromContext(r.Context()); ok {
			args = append(args, "request_id", requestID.String())
		}

		switch {
		case rec.status >= http.StatusInternalServerError:
			l.logger.ErrorContext(r.Context(), "HTTP request failed", args...)
		case rec.status >= http.StatusBadRequest:
			l.logger.WarnContext(r.Context(), "HTTP request rejected", args...)
		default:
			l.logger.InfoContext(r.Context(), "HTTP request completed", args...)
		}
	})
}
