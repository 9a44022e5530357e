// Package logging builds the run logger: an optional log file plus an
// optional console stream, both fed by one zap.Logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/KaramelBytes/tidycsv/internal/utils"
)

// Config selects log destinations and format.
type Config struct {
	// File is the log file path; empty disables file logging.
	File string
	// Console mirrors log lines to Stderr.
	Console bool
	// Format is "console" or "json" for the file encoder.
	Format string
	// Level is a zap level name (debug, info, warn, error).
	Level string
	// Stderr defaults to os.Stderr.
	Stderr io.Writer
}

// Logger owns the zap logger and the file it writes to.
type Logger struct {
	*zap.Logger
	file *os.File
}

// New builds a Logger from cfg. With no destinations it returns a no-op logger.
func New(cfg Config) (*Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		lv, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = lv
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var cores []zapcore.Core
	l := &Logger{}
	if cfg.File != "" {
		path, err := utils.ExpandHome(cfg.File)
		if err != nil {
			return nil, err
		}
		if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		cores = append(cores, zapcore.NewCore(fileEncoder(cfg.Format), zapcore.AddSync(f), level))
	}
	if cfg.Console {
		cores = append(cores, zapcore.NewCore(consoleEncoder(isTerminal(stderr)), zapcore.AddSync(stderr), level))
	}
	if len(cores) == 0 {
		l.Logger = zap.NewNop()
		return l, nil
	}
	l.Logger = zap.New(zapcore.NewTee(cores...))
	return l, nil
}

// Close flushes buffered entries and closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.Logger == nil {
		return nil
	}
	_ = l.Logger.Sync()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// ForRun tags every entry with a fresh run id and the input path.
func ForRun(base *zap.Logger, input string) *zap.Logger {
	return base.With(zap.String("run_id", uuid.NewString()), zap.String("file", input))
}

func fileEncoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	if strings.EqualFold(format, "json") {
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

func consoleEncoder(color bool) zapcore.Encoder {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.TimeKey = ""
	ec.CallerKey = ""
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
