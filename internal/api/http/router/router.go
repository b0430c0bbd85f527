package router

import (
	"net/http"

	"github.com/dtroode/userintake/internal/api/http/handler"
	"github.com/dtroode/userintake/internal/api/http/middleware"
	"github.com/dtroode/userintake/internal/logger"
	"github.com/dtroode/userintake/internal/model"
)

// Router builds the HTTP handler tree of the API.
type Router struct {
	userService    model.UserCreator
	contextManager model.ContextManager
	logger         *logger.Logger
	maxBodyBytes   int64
}

// New creates new HTTP Router instance.
func New(
	userService model.UserCreator,
	contextManager model.ContextManager,
	logger *logger.Logger,
	maxBodyBytes int64,
) *Router {
	return &Router{
		userService:    userService,
		contextManager: contextManager,
		logger:         logger,
		maxBodyBytes:   maxBodyBytes,
	}
}

// Register returns the routes wrapped in request ID, logging and panic
// recovery middleware. Unknown paths get a JSON 404 and unsupported methods a
// JSON 405.
func (r *Router) Register() http.Handler {
	userHandler := handler.NewUser(r.userService, r.logger, r.maxBodyBytes)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users", userHandler.HandleCreate)
	mux.Handle("/users", handler.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc("GET /healthz", handler.HandleHealth)
	mux.Handle("/healthz", handler.MethodNotAllowed(http.MethodGet+", "+http.MethodHead))
	mux.HandleFunc("/", handler.HandleNotFound)

	recovery := middleware.NewRecovery(r.logger)
	logging := middleware.NewLogging(r.logger, r.contextManager)
	requestID := middleware.NewRequestID(r.contextManager)

	var h http.Handler = mux
	h = recovery.HandleHTTP(h)
	h = logging.HandleHTTP(h)
	h = requestID.HandleHTTP(h)

	return h
}
