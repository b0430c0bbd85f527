package handler

import (
	"net/http"

	"github.com/dtroode/userintake/internal/api/http/respond"
	"github.com/dtroode/userintake/internal/apierror"
	"github.com/dtroode/userintake/internal/logger"
)

// handleError writes client-facing errors as they are. Everything else is
// logged and answered with a generic 500.
func handleError(w http.ResponseWriter, r *http.Request, logger *logger.Logger, err error) {
	if apiErr, ok := apierror.As(err); ok {
		respond.Error(w, apiErr)
		return
	}

	logger.ErrorContext(r.Context(), "unexpected error while handling request",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err)
	respond.Error(w, apierror.NewErrInternal())
}
