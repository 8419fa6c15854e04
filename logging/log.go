// Copyright 2015 The Prometheus Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Changes from original
// - No more use of kingpin
// - No more Error Log writer
// - Extracted output setting from NewLogger
// - Added support for function name as an addition
// - Added support for WithFields
// - General refactoring
// - Added Testing
// - No general log which is not created by NewLogger
// - Added some base
// - Dropped the telemetry state

/*
Example --
To log to the base logger
Base().Info("ledger root computed")

To log to a new logger
logger = NewLogger()
logger.Info("ledger root computed")
*/

package logging

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

// Level refers to the log logging level
type Level uint32

var baseLogger Logger

const (
	// Panic is the most severe level. Nothing in minahash logs at it, but
	// the numbering follows logrus so config values map one to one.
	Panic Level = iota
	// Fatal entries exit the process after running the exit handlers.
	Fatal
	// Error is for failed operations.
	Error
	// Warn is the default level of the base logger.
	Warn
	// Info reports what the CLI computed.
	Info
	// Debug adds build statistics from the library packages.
	Debug
)

const stackPrefix = "[Stack]"

var once sync.Once

// Init needs to be called to ensure our logging has been initialized
func Init() {
	once.Do(func() {
		// By default, log to stderr (logrus's default), only warnings and above.
		baseLogger = NewLogger()
		baseLogger.SetLevel(Warn)
	})
}

func init() {
	Init()
}

// ParseLevel maps a level name ("debug", "info", "warning", ...) to a Level.
func ParseLevel(s string) (Level, error) {
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return 0, err
	}
	if lvl > logrus.DebugLevel {
		return Debug, nil
	}
	return Level(lvl), nil
}

func (lvl Level) String() string {
	if lvl > Debug {
		return fmt.Sprintf("level(%d)", uint32(lvl))
	}
	return logrus.Level(lvl).String()
}

// Fields maps logrus fields
type Fields = logrus.Fields

// Logger is the interface for loggers. Errorf and Fatalf entries are
// preceded by an entry carrying the goroutine stack.
type Logger interface {
	Debug(...interface{})
	Debugf(string, ...interface{})
	Info(...interface{})
	Infof(string, ...interface{})
	Warn(...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})

	// Fatalf logs at level Fatal, runs the exit handlers and exits.
	Fatalf(string, ...interface{})

	// With adds one key-value pair to every entry.
	With(key string, value interface{}) Logger
	WithFields(Fields) Logger

	SetLevel(Level)
	IsLevelEnabled(level Level) bool

	SetOutput(io.Writer)
	SetJSONFormatter()

	// source adds file, line and function fields to the event
	source(skip int) *logrus.Entry
}

type logger struct {
	entry *logrus.Entry
}

func (l logger) With(key string, value interface{}) Logger {
	return logger{l.entry.WithField(key, value)}
}

func (l logger) WithFields(fields Fields) Logger {
	return logger{l.entry.WithFields(fields)}
}

func (l logger) Debug(args ...interface{}) { l.source(2).Debug(args...) }
func (l logger) Info(args ...interface{})  { l.source(2).Info(args...) }
func (l logger) Warn(args ...interface{})  { l.source(2).Warn(args...) }

func (l logger) Debugf(format string, args ...interface{}) { l.source(2).Debugf(format, args...) }
func (l logger) Infof(format string, args ...interface{})  { l.source(2).Infof(format, args...) }
func (l logger) Warnf(format string, args ...interface{})  { l.source(2).Warnf(format, args...) }

func (l logger) Errorf(format string, args ...interface{}) {
	l.stacked().Errorf(format, args...)
}

func (l logger) Fatalf(format string, args ...interface{}) {
	l.stacked().Fatalf(format, args...)
}

// stacked logs the stack of the calling goroutine at Error level and
// returns the event for the caller's own entry.
func (l logger) stacked() *logrus.Entry {
	event := l.source(3)
	if l.entry.Logger.IsLevelEnabled(logrus.ErrorLevel) {
		event.Errorln(stackPrefix, string(debug.Stack()))
	}
	return event
}

func (l logger) SetLevel(lvl Level) {
	l.entry.Logger.SetLevel(logrus.Level(lvl))
}

func (l logger) IsLevelEnabled(level Level) bool {
	return l.entry.Logger.IsLevelEnabled(logrus.Level(level))
}

func (l logger) SetOutput(w io.Writer) {
	l.entry.Logger.SetOutput(w)
}

func (l logger) SetJSONFormatter() {
	l.entry.Logger.Formatter = &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000000Z07:00"}
}

// source annotates the entry with the frame skip levels up the stack.
func (l logger) source(skip int) *logrus.Entry {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return l.entry
	}
	fields := logrus.Fields{
		"file": file[strings.LastIndex(file, "/")+1:],
		"line": line,
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		fields["function"] = fn.Name()
	}
	return l.entry.WithFields(fields)
}

// Base returns the process-wide logger. It writes to stderr at Warn
// level until the CLI reconfigures it.
func Base() Logger {
	return baseLogger
}

// NewLogger returns a Logger with its own logrus instance, writing text
// entries to stderr.
func NewLogger() Logger {
	l := logrus.New()
	l.Formatter = &logrus.TextFormatter{TimestampFormat: "2006-01-02T15:04:05.000000 -0700"}
	return logger{logrus.NewEntry(l)}
}

// RegisterExitHandler registers a function to run before a Fatal log exits the process.
func RegisterExitHandler(handler func()) {
	logrus.RegisterExitHandler(handler)
}

type testLogWriter struct {
	tb testing.TB
}

func (w testLogWriter) Write(p []byte) (int, error) {
	w.tb.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// TestingLog returns a Logger at Debug level that writes through tb.Log.
func TestingLog(tb testing.TB) Logger {
	l := NewLogger()
	l.SetLevel(Debug)
	l.SetOutput(testLogWriter{tb})
	return l
}
