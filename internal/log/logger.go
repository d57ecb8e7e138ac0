// Package log is the logrus front end used by the command line tools and
// the api package. The encoding core never logs.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02T15:04:05.000"

// SetLogger configures the level and format of the standard logger.
// logLevel uses logrus numbering (0 panic .. 6 trace).
func SetLogger(logLevel uint32, jsonFormat, colorFormat bool) {
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.Level(logLevel))
	if jsonFormat {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:     colorFormat,
			DisableColors:   !colorFormat,
			ForceQuote:      true,
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
			DisableSorting:  true,
		})
	}
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

// GetLevel returns the current log level.
func GetLevel() logrus.Level {
	return logrus.GetLevel()
}

// WithFields turns alternating key/value pairs into a log entry. Keys that
// are not strings are dropped.
func WithFields(ctx ...interface{}) *logrus.Entry {
	length := len(ctx)
	if length%2 != 0 {
		Debugf("log fields number %v is not even", length)
	}
	fields := make(logrus.Fields)
	for k := 0; k+2 <= length; k += 2 {
		key, ok := ctx[k].(string)
		if ok {
			fields[key] = ctx[k+1]
		} else {
			Debugf("log field key '%v' is not string", ctx[k])
		}
	}
	return logrus.WithFields(fields)
}

// Trace logs msg at trace level with the key/value pairs in ctx.
func Trace(msg string, ctx ...interface{}) {
	WithFields(ctx...).Trace(msg)
}

// Debug logs msg at debug level with the key/value pairs in ctx. The api
// package reports derived addresses and ids here.
func Debug(msg string, ctx ...interface{}) {
	WithFields(ctx...).Debug(msg)
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...interface{}) {
	logrus.Debugf(format, args...)
}

// Info logs msg at info level with the key/value pairs in ctx.
func Info(msg string, ctx ...interface{}) {
	WithFields(ctx...).Info(msg)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...interface{}) {
	logrus.Infof(format, args...)
}

// Warn logs msg at warn level with the key/value pairs in ctx.
func Warn(msg string, ctx ...interface{}) {
	WithFields(ctx...).Warn(msg)
}

// Error logs msg at error level with the key/value pairs in ctx.
func Error(msg string, ctx ...interface{}) {
	WithFields(ctx...).Error(msg)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...interface{}) {
	logrus.Errorf(format, args...)
}

// Fatal logs msg at fatal level and exits the process with status 1.
func Fatal(msg string, ctx ...interface{}) {
	WithFields(ctx...).Fatal(msg)
}

// Fatalf logs a formatted message at fatal level and exits the process
// with status 1.
func Fatalf(format string, args ...interface{}) {
	logrus.Fatalf(format, args...)
}
