// Package server exposes the authentication service over HTTP with gin.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nazonexus/identity/auth"
	"github.com/nazonexus/identity/config"
	"github.com/nazonexus/identity/logger"
)

// Server is the HTTP front for the authentication service.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	log    *logger.Logger
}

// New builds the router and the underlying http.Server.
func New(cfg config.ServerConfig, svc *auth.Service, log *logger.Logger, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(RequestID(), RequestLogger(log), Recovery(log), Identity(svc))

	h := NewHandlers(svc)
	engine.GET("/health", h.Health)

	authGroup := engine.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/register", h.Register)
		authGroup.GET("/whoami", RequireAuth(), h.Whoami)
	}
	engine.POST("/bootstrap/admin", h.BootstrapAdmin)

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:              cfg.Address,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log.WithComponent("server"),
	}
}

// Handler returns the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens and serves until Shutdown or a listener error.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", logger.Fields("address", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}
