// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package webway

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// nopLogger, the default logger, drops everything.
type nopLogger struct{}

func (*nopLogger) Level() kgo.LogLevel { return kgo.LogLevelNone }
func (*nopLogger) Log(kgo.LogLevel, string, ...any) {
}

// SlogLogger adapts a *slog.Logger to the kgo.Logger interface so the
// publisher, the franz-go client, and the pipeline share one logger.
type SlogLogger struct {
	Logger *slog.Logger
}

func (s *SlogLogger) Level() kgo.LogLevel {
	ctx := context.Background()
	switch {
	case s.Logger.Enabled(ctx, slog.LevelDebug):
		return kgo.LogLevelDebug
	case s.Logger.Enabled(ctx, slog.LevelInfo):
		return kgo.LogLevelInfo
	case s.Logger.Enabled(ctx, slog.LevelWarn):
		return kgo.LogLevelWarn
	case s.Logger.Enabled(ctx, slog.LevelError):
		return kgo.LogLevelError
	}
	return kgo.LogLevelNone
}

func (s *SlogLogger) Log(level kgo.LogLevel, msg string, keyvals ...any) {
	var l slog.Level
	switch level {
	case kgo.LogLevelDebug:
		l = slog.LevelDebug
	case kgo.LogLevelInfo:
		l = slog.LevelInfo
	case kgo.LogLevelWarn:
		l = slog.LevelWarn
	case kgo.LogLevelError:
		l = slog.LevelError
	default:
		return
	}
	s.Logger.Log(context.Background(), l, msg, keyvals...)
}
