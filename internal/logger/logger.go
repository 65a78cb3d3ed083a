// Package logger wraps logrus behind the small call surface the rest of
// the codebase expects, so call sites never import logrus directly.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	entry *logrus.Entry
}

func New(level string) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	return &Logger{entry: logrus.NewEntry(l)}
}

// With returns a logger that attaches the given fields to every subsequent
// line, e.g. logger.With("product_id", 42).Info("upserted")
func (l *Logger) With(kv ...interface{}) *Logger {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields[key] = kv[i+1]
	}
	return &Logger{entry: l.entry.WithFields(fields)}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.entry.Infof(msg, args...)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.entry.Debugf(msg, args...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.entry.Warnf(msg, args...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.entry.Errorf(msg, args...)
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.entry.Fatalf(msg, args...)
}
