package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/dtroode/userintake/internal/api/http/respond"
	"github.com/dtroode/userintake/internal/apierror"
	"github.com/dtroode/userintake/internal/logger"
)

// Recovery turns a panic in a handler into a generic 500 response.
// The panic value is logged and never sent to the client.
type Recovery struct {
	logger *logger.Logger
}

func NewRecovery(logger *logger.Logger) *Recovery {
	return &Recovery{logger: logger}
}

func (m *Recovery) HandleHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			m.logger.ErrorContext(r.Context(), "panic while handling request",
				"method", r.Method,
				"path", r.URL.Path,
				"error", fmt.Sprint(rec),
				"stack", string(debug.Stack()))
			respond.Error(w, apierror.NewErrInternal())
		}()

		next.ServeHTTP(w, r)
	})
}
