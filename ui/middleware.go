package ui

import (
	"time"

	"chartsense/domain/core"

	"github.com/gin-gonic/gin"
)

const runIDKey = "run_id"

// RunIDHeader carries the per-request run identifier
const RunIDHeader = "X-Run-ID"

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(runID())
	s.router.Use(s.requestLogger())
}

// runID tags each request with a fresh time-ordered id
func runID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := core.NewRunID()
		c.Set(runIDKey, id)
		c.Header(RunIDHeader, id.String())
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("%s %s -> %d in %s (run %v)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), c.Value(runIDKey))
	}
}

func requestRunID(c *gin.Context) core.RunID {
	if v, ok := c.Get(runIDKey); ok {
		if id, ok := v.(core.RunID); ok {
			return id
		}
	}
	return ""
}
