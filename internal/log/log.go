// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package log is the engine's structured logging wrapper around
// github.com/luxfi/geth/log (the go-ethereum-style slog frontend used
// throughout this codebase's command-line entrypoints), trimmed to the
// levels and handlers a batch run needs.
package log

import (
	"io"
	"log/slog"
	"os"

	gethlog "github.com/luxfi/geth/log"
	luxlog "github.com/luxfi/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the handle returned by New and installed with SetDefault.
type Logger = gethlog.Logger

// Level constants, kept as slog.Level values so callers can compare and
// parse without importing log/slog themselves.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// New returns a terminal logger at the given level.
func New(level slog.Level) Logger {
	return gethlog.NewLogger(gethlog.NewTerminalHandlerWithLevel(os.Stderr, level, true))
}

// NewFile returns a logger that writes newline-delimited records to path,
// rotated by gopkg.in/natefinch/lumberjack.v2 so a long batch run never
// grows one log file without bound.
func NewFile(path string, level slog.Level) Logger {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return gethlog.NewLogger(gethlog.NewTerminalHandlerWithLevel(io.Writer(w), level, false))
}

// SetDefault installs l as the package-level default logger used by the
// free functions below.
func SetDefault(l Logger) { gethlog.SetDefault(l) }

// LevelFromString parses a level name ("debug", "info", "warn", "error").
func LevelFromString(s string) (slog.Level, error) {
	lvl, err := luxlog.ToLevel(s)
	return slog.Level(lvl), err
}

func Debug(msg string, ctx ...interface{}) { gethlog.Debug(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { gethlog.Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { gethlog.Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { gethlog.Error(msg, ctx...) }
