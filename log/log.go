// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over go-ethereum's slog based logger.
// Package level loggers are created with WithContext at init time and
// resolve the root logger lazily, so SetDefault may be called later.
package log

import (
	"io"
	"log/slog"
	"os"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
)

// Level aliases.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Logger writes key/value pairs to a handler.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
}

type logger struct {
	inner ethlog.Logger
}

func (l *logger) With(ctx ...any) Logger       { return &logger{l.inner.With(ctx...)} }
func (l *logger) Trace(msg string, ctx ...any) { l.inner.Trace(msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.inner.Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.inner.Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.inner.Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.inner.Error(msg, ctx...) }

// lazyLogger binds its context to whatever root logger is installed when a record is written.
type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) resolve() ethlog.Logger { return ethlog.Root().With(l.ctx...) }

func (l *lazyLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &lazyLogger{append(merged, ctx...)}
}
func (l *lazyLogger) Trace(msg string, ctx ...any) { l.resolve().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.resolve().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.resolve().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.resolve().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.resolve().Error(msg, ctx...) }

// WithContext returns a logger that prepends ctx to every record.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// New wraps a slog handler.
func New(h slog.Handler) Logger {
	return &logger{ethlog.NewLogger(h)}
}

// Root returns the root logger.
func Root() Logger {
	return &logger{ethlog.Root()}
}

// SetDefault installs the root logger built from h.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// NewHandler builds the handler used by the command line tools.
// JSON output is used when requested, otherwise a terminal handler that is colored
// when w is a terminal.
func NewHandler(w io.Writer, level slog.Level, json bool) slog.Handler {
	if json {
		return ethlog.JSONHandlerWithLevel(w, level)
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return ethlog.NewTerminalHandlerWithLevel(w, level, useColor)
}

// DiscardHandler returns a handler that drops every record.
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}

// LevelFromVerbosity maps the classic 0 (crit) .. 5 (trace) verbosity to a slog level.
func LevelFromVerbosity(v int) slog.Level {
	return ethlog.FromLegacyLevel(v)
}

func Trace(msg string, ctx ...any) { ethlog.Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { ethlog.Root().Error(msg, ctx...) }
