package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dtroode/userintake/internal/api/http/respond"
	"github.com/dtroode/userintake/internal/apierror"
	"github.com/dtroode/userintake/internal/logger"
	"github.com/dtroode/userintake/internal/model"
)

// User serves the user endpoints.
type User struct {
	service      model.UserCreator
	logger       *logger.Logger
	maxBodyBytes int64
}

// NewUser creates User handler. Request bodies above maxBodyBytes are
// treated as missing.
func NewUser(service model.UserCreator, logger *logger.Logger, maxBodyBytes int64) *User {
	return &User{
		service:      service,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// HandleCreate handles POST /users.
func (h *User) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	payload, err := decodeBody(r.Body)
	if err != nil {
		h.logger.WarnContext(r.Context(), "request body rejected", "error", err)
		respond.Error(w, apierror.NewErrBodyRequired())
		return
	}

	user, err := h.service.Create(r.Context(), payload)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, user)
}

// decodeBody decodes the whole body as one JSON document. JSON null decodes
// to a nil payload without error.
func decodeBody(body io.Reader) (any, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrBodyRequired, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, model.ErrBodyRequired
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrBodyRequired, err)
	}

	return payload, nil
}
