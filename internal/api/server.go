package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/reqcatcher/internal/api/handler"
	"github.com/user/reqcatcher/internal/api/middleware"
	"github.com/user/reqcatcher/internal/capture"
	"github.com/user/reqcatcher/internal/web"
	"go.uber.org/zap"
)

// catchMethods are the verbs the catch-all route accepts.
var catchMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodPatch,
	http.MethodOptions,
}

// Server wraps the HTTP server and dependencies.
type Server struct {
	router *gin.Engine
	logger *zap.Logger
}

// ServerDeps holds all dependencies for the API server.
type ServerDeps struct {
	Log      *capture.BoundedLog
	Renderer *web.Renderer
	Logger   *zap.Logger
}

// NewServer creates a new API server with the catch-all route configured.
// Every path and every supported method feeds the same capture handler;
// there are no other routes, so nothing escapes capture.
func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware.
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())

	catchHandler := handler.NewCatchHandler(deps.Log, deps.Renderer, logger)
	for _, method := range catchMethods {
		r.Handle(method, "/*path", catchHandler.Catch)
	}

	return &Server{
		router: r,
		logger: logger,
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run starts the HTTP server.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.router.Run(addr)
}
