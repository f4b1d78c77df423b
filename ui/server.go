package ui

import (
	"context"
	"net/http"
	"time"

	"chartsense/app"
	"chartsense/domain/outlier"
	"chartsense/internal"

	"github.com/gin-gonic/gin"
)

// Options holds request limits and defaults of the HTTP API
type Options struct {
	MaxRows   int                     // 0 means no limit
	Detection outlier.DetectionConfig // used when a request leaves detection unset
}

// Server serves the JSON analysis API and mounts the report pages under /ui
type Server struct {
	router     *gin.Engine
	service    *app.AnalysisService
	memo       *app.Memo
	latest     app.Sequencer[*app.AnalysisResult]
	options    Options
	logger     *internal.Logger
	httpServer *http.Server
}

// NewServer creates a new API server instance
func NewServer(service *app.AnalysisService, memo *app.Memo, options Options, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if options.Detection.Method == "" {
		options.Detection = outlier.DefaultDetectionConfig()
	}

	s := &Server{
		router:  gin.New(),
		service: service,
		memo:    memo,
		options: options,
		logger:  logger.WithComponent("server"),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.POST("/analyze", s.handleAnalyze)
	api.POST("/outliers", s.handleOutliers)
	api.POST("/report", s.handleReport)
	api.GET("/latest", s.handleLatest)

	pages := NewApp(s.service, s.options, s.logger)
	s.router.Any("/ui/*path", gin.WrapH(http.StripPrefix("/ui", pages.Handler())))
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting chartsense API on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
