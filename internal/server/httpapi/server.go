// Package httpapi exposes the command/query handlers over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/handlers"
	"github.com/dmitrijs2005/gophnotes/internal/server/metrics"
)

const shutdownTimeout = 5 * time.Second

// Authenticator issues and revokes session tokens.
type Authenticator interface {
	Issue(ctx context.Context, accountID string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// HealthCheck reports whether the server can serve requests.
type HealthCheck func(ctx context.Context) error

type Server struct {
	address  string
	commands *handlers.Commands
	queries  *handlers.Queries
	auth     Authenticator
	metrics  *metrics.Metrics
	health   HealthCheck
	logger   logging.Logger
	engine   *gin.Engine
}

func NewServer(address string, cmds *handlers.Commands, qs *handlers.Queries, auth Authenticator, m *metrics.Metrics, health HealthCheck, l logging.Logger) *Server {
	s := &Server{
		address:  address,
		commands: cmds,
		queries:  qs,
		auth:     auth,
		metrics:  m,
		health:   health,
		logger:   l.With("module", "http_server"),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.recovery(), s.accessLog(), s.instrument(), bearerToken())

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")

	api.POST("/auth/login", s.login)
	api.POST("/auth/logout", s.logout)

	api.GET("/accounts/me", s.getCurrentAccount)
	api.POST("/accounts/me/thumbnail", s.requestThumbnailUpload)
	api.GET("/accounts", s.getAccountByEmail)
	api.GET("/accounts/:id", s.getAccountByID)
	api.PATCH("/accounts/:id", s.updateAccount)

	api.GET("/templates", s.listTemplates)
	api.GET("/templates/mine", s.listMyTemplates)
	api.GET("/templates/:id", s.getTemplateByID)
	api.POST("/templates", s.createTemplate)
	api.PATCH("/templates/:id", s.updateTemplate)
	api.DELETE("/templates/:id", s.deleteTemplate)

	api.GET("/notes", s.listNotes)
	api.GET("/notes/mine", s.listMyNotes)
	api.GET("/notes/:id", s.getNoteByID)
	api.POST("/notes", s.createNote)
	api.PATCH("/notes/:id", s.updateNote)
	api.POST("/notes/:id/publish", s.publishNote)
	api.POST("/notes/:id/unpublish", s.unpublishNote)
	api.DELETE("/notes/:id", s.deleteNote)

	return r
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) healthz(c *gin.Context) {
	if s.health != nil {
		if err := s.health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
