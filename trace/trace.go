// Package trace decouples the analysis core from any concrete logger.
// Core packages emit structured events through Hook; the caller decides
// whether and where they end up.
package trace

import (
	"os"

	"github.com/charmbracelet/log"
)

// Hook receives structured diagnostic events from the pipeline.
type Hook interface {
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
}

// Nop discards every event. It is the default when no hook is injected.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}

// Console implements Hook on top of charmbracelet/log writing to stderr.
type Console struct {
	logger *log.Logger
}

// NewConsole creates a console hook. Debug enables debug-level events,
// which include per-row normalization diagnostics and can be noisy.
func NewConsole(debug bool) *Console {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return &Console{logger: logger}
}

func (c *Console) Debug(message string, keyvals ...any) { c.logger.Debug(message, keyvals...) }
func (c *Console) Info(message string, keyvals ...any)  { c.logger.Info(message, keyvals...) }
func (c *Console) Warn(message string, keyvals ...any)  { c.logger.Warn(message, keyvals...) }
func (c *Console) Error(message string, keyvals ...any) { c.logger.Error(message, keyvals...) }
