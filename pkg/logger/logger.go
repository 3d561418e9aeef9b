// Package logger provides a structured logger with trace id support.
package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"
)

// TraceIDFn knows how to extract a trace id from the context passed to it.
// The client of this package implements that logic.
type TraceIDFn func(ctx context.Context) string

// Level represents the logging levels used by the logger, defined so the
// client is abstracted from slog.Level.
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// Environment represents the environment the logger is running in.
type Environment int

const (
	EnvironmentDev  Environment = 1
	EnvironmentProd Environment = 2
)

// Logger writes structured records through a customized slog handler.
type Logger struct {
	handler   slog.Handler
	discard   bool
	traceIDFn TraceIDFn
}

// New creates a logger and returns it. In prod the handler emits JSON,
// in dev plain text.
func New(w io.Writer, minLevel Level, env Environment, serviceName string, traceIDFn TraceIDFn) *Logger {
	return &Logger{
		handler:   createHandler(w, serviceName, minLevel, env),
		discard:   w == io.Discard,
		traceIDFn: traceIDFn,
	}
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	if l.discard {
		return
	}
	l.write(ctx, LevelDebug, 3, msg, args...)
}

// Info logs at LevelInfo.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	if l.discard {
		return
	}
	l.write(ctx, LevelInfo, 3, msg, args...)
}

// Warn logs at LevelWarn.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	if l.discard {
		return
	}
	l.write(ctx, LevelWarn, 3, msg, args...)
}

// Error logs at LevelError.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	if l.discard {
		return
	}
	l.write(ctx, LevelError, 3, msg, args...)
}

// StdLogger returns a standard library logger that can be plugged into
// http.Server for error messages.
func (l *Logger) StdLogger(level Level) *log.Logger {
	return slog.NewLogLogger(l.handler, slog.Level(level))
}

func (l *Logger) write(ctx context.Context, level Level, skipStack int, msg string, args ...any) {
	slogLevel := slog.Level(level)
	if !l.handler.Enabled(ctx, slogLevel) {
		return
	}

	//frame 0: runtime.Callers, frame 1: write, frame 2: Info/Error/...,
	//frame 3: the caller we actually want.
	var pcs [1]uintptr
	runtime.Callers(skipStack, pcs[:])

	record := slog.NewRecord(time.Now(), slogLevel, msg, pcs[0])

	if l.traceIDFn != nil {
		args = append(args, "traceID", l.traceIDFn(ctx))
	}

	record.Add(args...)
	l.handler.Handle(ctx, record)
}

func createHandler(w io.Writer, service string, minLevel Level, env Environment) slog.Handler {
	//shorten the source attribute down to "file.go:line"
	fn := func(groups []string, attr slog.Attr) slog.Attr {
		if attr.Key == slog.SourceKey {
			source, ok := attr.Value.Any().(*slog.Source)
			if !ok {
				return attr
			}

			filename := fmt.Sprintf("%s:%d", filepath.Base(source.File), source.Line)
			return slog.Attr{Key: "file", Value: slog.StringValue(filename)}
		}

		return attr
	}

	opts := slog.HandlerOptions{AddSource: true, Level: slog.Level(minLevel), ReplaceAttr: fn}

	var handler slog.Handler
	if env == EnvironmentProd {
		handler = slog.NewJSONHandler(w, &opts)
	} else {
		handler = slog.NewTextHandler(w, &opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		{Key: "service", Value: slog.StringValue(service)},
	})

	return handler
}
