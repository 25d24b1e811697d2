// Package api exposes the HTTP trigger for the pipeline.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"data-pipeline/internal/pipeline/model"
	"data-pipeline/internal/storage"
)

const version = "1.0.0"

// PipelineRunner is one pipeline invocation. Satisfied by *pipeline.Pipeline.
type PipelineRunner interface {
	Run(ctx context.Context) model.ExecutionSummary
}

// Server serves the invocation trigger and the health probe.
type Server struct {
	Log      *zap.Logger
	Pipeline PipelineRunner
	Store    storage.Store
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/run", s.run)
	r.GET("/healthz", s.health)
	return r
}

// run executes one invocation. The caller always gets a summary with
// accurate counters; only a fatal abort maps to a 500.
func (s *Server) run(c *gin.Context) {
	summary := s.Pipeline.Run(c.Request.Context())

	code := http.StatusOK
	if summary.Status == model.RunFailure {
		code = http.StatusInternalServerError
	}
	c.JSON(code, summary)
}

func (s *Server) health(c *gin.Context) {
	status := "healthy"
	storeStatus := "connected"
	code := http.StatusOK

	if err := s.Store.Ping(c.Request.Context()); err != nil {
		s.Log.Warn("Store health check failed", zap.Error(err))
		status = "unhealthy"
		storeStatus = "disconnected"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"store":     storeStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   version,
	})
}
