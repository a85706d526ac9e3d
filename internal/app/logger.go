package app

import (
	"log/slog"
	"os"

	"courier-dispatch/internal/logx"
)

// NewLogger returns the JSON logger written to stdout.
func NewLogger() logx.Logger {
	base := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	return logx.NewSlogAdapter(base).With(logx.String("service", "courier-dispatch"))
}
