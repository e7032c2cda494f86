package app

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/bsseqgrid/internal/executor"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	progress   *executor.Progress
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Reports and listings go
// to outW; logs go to logW.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		progress: &executor.Progress{},
	}
}

// Progress returns the live progress of the current run.
func (a *App) Progress() executor.ProgressSnapshot {
	return a.progress.Snapshot()
}
