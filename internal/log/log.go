// Package log provides the process-wide structured logger, backed by logrus.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"firestige.xyz/attrcodec/internal/config"
)

type Logger interface {
	Print(args ...interface{})
	Printf(format string, args ...interface{})

	Trace(args ...interface{})
	Tracef(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})

	Panic(args ...interface{})
	Panicf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsTraceEnabled() bool
	IsDebugEnabled() bool
}

var (
	mu     sync.RWMutex
	logger Logger = newDefault()
	output *appenders
)

// GetLogger returns the process logger. Before Init it logs warnings and
// above to stderr.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Init replaces the process logger with one built from cfg and closes the
// file outputs of the logger it replaces. Console output goes to stderr so
// command output on stdout stays clean.
func Init(cfg config.LogConfig) error {
	l, out, err := build(cfg, os.Stderr)
	if err != nil {
		return err
	}
	mu.Lock()
	prev := output
	logger, output = l, out
	mu.Unlock()
	if prev != nil {
		return prev.Close()
	}
	return nil
}

// Close closes the log file of the process logger, if any. lumberjack reopens
// it on the next write.
func Close() error {
	mu.RLock()
	out := output
	mu.RUnlock()
	if out == nil {
		return nil
	}
	return out.Close()
}

// New builds a logger writing to console and, when enabled, to a rotating file.
func New(cfg config.LogConfig, console io.Writer) (Logger, error) {
	l, _, err := build(cfg, console)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func build(cfg config.LogConfig, console io.Writer) (Logger, *appenders, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	out := newAppenders(console)
	if cfg.File.Enabled {
		if err := out.addFile(cfg.File); err != nil {
			return nil, nil, err
		}
	}

	l := logrus.New()
	l.SetLevel(level)
	l.SetOutput(out)
	l.SetFormatter(&formatter{pattern: cfg.Pattern, time: cfg.Time})
	return &logrusAdapter{entry: logrus.NewEntry(l)}, out, nil
}

func newDefault() Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	l.SetOutput(os.Stderr)
	l.SetFormatter(&formatter{})
	return &logrusAdapter{entry: logrus.NewEntry(l)}
}
