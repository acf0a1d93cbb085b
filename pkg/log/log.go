package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/levenlabs/go-llog"
)

var (
	defaultLogLevel slog.LevelVar
	defaultLogger   = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     &defaultLogLevel,
	}))
)

func init() {
	defaultLogLevel.Set(slog.LevelInfo)
}

type contextKey struct{}

var loggerKey = contextKey{}

// Ctx returns the logger from the context. If no logger is found, it returns the default logger.
func Ctx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}

// With returns a new context with the given logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func SetDefaultLogLevel(level slog.Level) {
	defaultLogLevel.Set(level)
}

// LevelFromLLog returns the slog level matching llog's current level. lflag
// sets llog's level from the --log-level flag but nothing sets slog's.
func LevelFromLLog() (slog.Level, error) {
	switch llog.GetLevel() {
	case llog.DebugLevel:
		return slog.LevelDebug, nil
	case llog.InfoLevel:
		return slog.LevelInfo, nil
	case llog.WarnLevel:
		return slog.LevelWarn, nil
	case llog.ErrorLevel:
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", llog.GetLevel().String())
	}
}

// Configure sets the default logger's level from llog and installs it as the
// slog default.
func Configure() error {
	level, err := LevelFromLLog()
	if err != nil {
		return err
	}
	SetDefaultLogLevel(level)
	slog.SetDefault(defaultLogger)
	defaultLogger.Debug("logger configured", slog.String("level", level.String()))
	return nil
}
