// Package logging configures the application logger from the environment:
//   - DXFTOOL_LOG_LEVEL:  DEBUG, INFO, WARN, ERROR (default INFO)
//   - DXFTOOL_LOG_FORMAT: text or json (default text)
//   - DXFTOOL_LOG_OUTPUT: stdout, stderr, or a file path (default stderr)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds a logger from the environment and installs it as the slog
// default.
func New() *slog.Logger {
	level := parseLevel(os.Getenv("DXFTOOL_LOG_LEVEL"))
	format := strings.ToLower(os.Getenv("DXFTOOL_LOG_FORMAT"))
	output := os.Getenv("DXFTOOL_LOG_OUTPUT")

	var writer io.Writer
	switch output {
	case "", "stderr":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	default:
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			writer = os.Stderr
		} else {
			writer = file
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
