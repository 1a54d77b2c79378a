// Package server exposes the renewal subsystem over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/helpdesk-core/renewals-tracker/internal/common"
	"github.com/helpdesk-core/renewals-tracker/internal/contracts"
	"github.com/helpdesk-core/renewals-tracker/internal/export"
	"github.com/helpdesk-core/renewals-tracker/internal/ingest"
	"github.com/helpdesk-core/renewals-tracker/internal/pipeline"
	"github.com/helpdesk-core/renewals-tracker/internal/repository"
	"github.com/helpdesk-core/renewals-tracker/internal/scheduler"
)

// HealthFunc reports backend connectivity.
type HealthFunc func(ctx context.Context) error

// Server wires the HTTP handlers to the services.
type Server struct {
	contracts     *contracts.Service
	processor     *pipeline.Processor
	store         *ingest.FileStore
	sched         *scheduler.Scheduler
	exporter      *export.Service
	notifications repository.NotificationRepository
	users         repository.UserRepository
	health        HealthFunc
	logger        *slog.Logger
}

type Deps struct {
	Contracts     *contracts.Service
	Processor     *pipeline.Processor
	Store         *ingest.FileStore
	Scheduler     *scheduler.Scheduler
	Exporter      *export.Service
	Notifications repository.NotificationRepository
	Users         repository.UserRepository
	Health        HealthFunc
	Logger        *slog.Logger
}

func New(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		contracts:     d.Contracts,
		processor:     d.Processor,
		store:         d.Store,
		sched:         d.Scheduler,
		exporter:      d.Exporter,
		notifications: d.Notifications,
		users:         d.Users,
		health:        d.Health,
		logger:        logger,
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	r.GET("/healthz", s.healthz)

	api := r.Group("/api/v1")
	{
		api.POST("/contracts/upload", s.uploadContract)
		api.GET("/contracts/export", s.exportContracts)
		api.POST("/contracts", s.createContract)
		api.GET("/contracts", s.listContracts)
		api.GET("/contracts/:id", s.getContract)
		api.PATCH("/contracts/:id", s.updateContract)
		api.DELETE("/contracts/:id", s.deleteContract)
		api.POST("/contracts/:id/acknowledge", s.acknowledgeContract)
		api.DELETE("/contracts/:id/acknowledge", s.unacknowledgeContract)

		api.POST("/users", s.createUser)
		api.GET("/users/admins", s.listAdmins)

		api.GET("/notifications", s.listNotifications)
		api.POST("/notifications/:id/read", s.markNotificationRead)

		api.POST("/scheduler/run", s.runScheduler)
	}
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Info("http.request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}

func (s *Server) healthz(c *gin.Context) {
	if s.health != nil {
		if err := s.health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) runScheduler(c *gin.Context) {
	err := s.sched.RunOnce(c.Request.Context())
	if errors.Is(err, scheduler.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// writeError maps service errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
