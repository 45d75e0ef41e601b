// Package ui contains the calculator front-ends. Each one owns a single
// engine and drives it from one goroutine; configuration reloads arrive
// from other goroutines through Reload and are applied inside that loop.
package ui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bond-kaneko/go-calc/config"
)

// ErrQuit is returned internally when the user asks to leave
var ErrQuit = errors.New("quit requested")

// Frontend is an interactive calculator surface
type Frontend interface {
	// Run blocks until the user quits or ctx is done
	Run(ctx context.Context) error
	// Reload hands a new configuration to the running loop. Safe for concurrent use.
	Reload(cfg config.Config)
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
