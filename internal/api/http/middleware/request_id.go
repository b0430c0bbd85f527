package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/userintake/internal/model"
)

// RequestIDHeader carries the request ID in requests and responses.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns an ID to every request. A valid UUID sent by the client
// is reused, otherwise a new one is generated.
type RequestID struct {
	contextManager model.ContextManager
}

func NewRequestID(contextManager model.ContextManager) *RequestID {
	return &RequestID{contextManager: contextManager}
}

func (m *RequestID) HandleHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		if err != nil || requestID == uuid.Nil {
			requestID = uuid.New()
		}

		w.Header().Set(RequestIDHeader, requestID.String())
		ctx := m.contextManager.SetRequestIDToContext(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
