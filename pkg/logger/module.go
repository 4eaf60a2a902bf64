package logger

import (
	"log/slog"
	"os"

	"github.com/birdnet-go/birdnet-mcp/pkg/config"
	"go.uber.org/fx"
)

func NewSlogLogger(cfg *config.ServerConfig, buffer *RingBuffer) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(newBufferingHandler(handler, buffer))
}

func NewLogBuffer(cfg *config.ServerConfig) *RingBuffer {
	return NewRingBuffer(cfg.LogBufferSize)
}

var Module = fx.Module("logger",
	fx.Provide(NewLogBuffer),
	fx.Provide(NewSlogLogger),
)
