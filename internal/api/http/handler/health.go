package handler

import (
	"net/http"

	"github.com/dtroode/userintake/internal/api/http/respond"
	"github.com/dtroode/userintake/internal/apierror"
)

// HandleHealth reports that the process is serving requests.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleNotFound answers requests that match no route.
func HandleNotFound(w http.ResponseWriter, _ *http.Request) {
	respond.Error(w, apierror.NewErrNotFound())
}

// MethodNotAllowed answers requests to a known path with a method it does not
// support. allow lists the supported methods.
func MethodNotAllowed(allow string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", allow)
		respond.Error(w, apierror.NewErrMethodNotAllowed())
	}
}
