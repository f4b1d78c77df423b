package container

import (
	"context"
	"fmt"

	"chartsense/app"
	"chartsense/internal"
	"chartsense/internal/config"
	"chartsense/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Analysis
	Service *app.AnalysisService
	Memo    *app.Memo

	// Transport
	Server *ui.Server
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	level, ok := internal.ParseLogLevel(cfg.Logging.Level)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", cfg.Logging.Level)
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(level),
	}

	c.Service = app.NewDefaultAnalysisService(c.Logger)
	c.Memo = app.NewMemo(c.Service, cfg.Analysis.MemoEntries)
	c.Server = ui.NewServer(c.Service, c.Memo, ui.Options{
		MaxRows:   cfg.Analysis.MaxRows,
		Detection: cfg.Analysis.Detection,
	}, c.Logger)

	c.Logger.Debug("Container initialized (memo %d entries, max rows %d)", cfg.Analysis.MemoEntries, cfg.Analysis.MaxRows)
	return c, nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Server == nil {
		return nil
	}
	if err := c.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
