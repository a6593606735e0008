package raiaccept

import (
	"log/slog"

	"go.uber.org/zap"
)

// Logger receives request/response traces and discarded errors. Both
// methods take a message and an optional structured payload.
type Logger interface {
	Log(message string, data any)
	Error(message string, data any)
}

type zapLogger struct {
	l *zap.Logger
}

// NewZapLogger adapts a zap logger. Log maps to Info.
func NewZapLogger(l *zap.Logger) Logger {
	return &zapLogger{l: l}
}

func (z *zapLogger) Log(message string, data any) {
	z.l.Info(message, zap.Any("data", data))
}

func (z *zapLogger) Error(message string, data any) {
	z.l.Error(message, zap.Any("data", data))
}

type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger adapts a log/slog logger. Log maps to Info.
func NewSlogLogger(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

func (s *slogLogger) Log(message string, data any) {
	s.l.Info(message, slog.Any("data", data))
}

func (s *slogLogger) Error(message string, data any) {
	s.l.Error(message, slog.Any("data", data))
}

// safeLog calls into a user-supplied logger and swallows any panic it raises.
func safeLog(logger Logger, isError bool, message string, data any) {
	if logger == nil {
		return
	}
	defer func() { _ = recover() }()
	if isError {
		logger.Error(message, data)
		return
	}
	logger.Log(message, data)
}
