// Package logging builds the application's zap logger
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// IsTerm reports whether stderr is attached to a terminal
var IsTerm = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

// New returns a logger writing to stderr. format is auto, console or json;
// auto picks console on a terminal and json otherwise.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch encoding(format) {
	case "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	case "json":
		cfg.Encoding = "json"
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return cfg.Build()
}

func encoding(format string) string {
	format = strings.ToLower(format)
	if format == "auto" || format == "" {
		if IsTerm {
			return "console"
		}
		return "json"
	}
	return format
}
