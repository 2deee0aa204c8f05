package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"
)

var logger = newLogger(os.Stderr, slog.LevelInfo, false)

func setLogger(l *slog.Logger) {
	logger = l
}

// newLogger builds the terminal logger. A silent logger drops everything.
func newLogger(w io.Writer, level slog.Level, silent bool) *slog.Logger {
	if silent {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    color.NoColor,
	}))
}

func logInfo(format string, args ...any) {
	logger.Info(fmt.Sprintf(format, args...))
}

func logSuccess(format string, args ...any) {
	logger.Info(color.GreenString("✔") + " " + fmt.Sprintf(format, args...))
}

func logWarning(format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...))
}

func logError(format string, args ...any) {
	logger.Error(fmt.Sprintf(format, args...))
}

// ---------------------------------------------------------------------------
// --logLevel
// ---------------------------------------------------------------------------

var levels = map[string]slog.Level{
	"debug":  slog.LevelDebug,
	"info":   slog.LevelInfo,
	"warn":   slog.LevelWarn,
	"error":  slog.LevelError,
	"silent": slog.LevelError + 4,
}

// levelFlag is the value of --logLevel.
type levelFlag struct {
	name    string
	changed bool
}

var _ pflag.Value = (*levelFlag)(nil)

func (l *levelFlag) String() string { return l.name }

func (l *levelFlag) Type() string { return "level" }

func (l *levelFlag) Set(s string) error {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		name = "warn"
	}
	if _, ok := levels[name]; !ok {
		return fmt.Errorf("unknown log level %q (want debug, info, warn, error or silent)", s)
	}
	l.name = name
	l.changed = true
	return nil
}

// Level returns the slog level.
func (l *levelFlag) Level() slog.Level {
	return levels[l.name]
}

// Silent reports whether every message is dropped.
func (l *levelFlag) Silent() bool {
	return l.name == "silent"
}
