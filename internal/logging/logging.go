// Package logging configures the logrus logger used by the command line
// front end and turns download progress events into log entries.
package logging

import (
	"io"

	"github.com/google/uuid"
	"github.com/handiism/jw-media-downloader/internal/download"
	"github.com/sirupsen/logrus"
)

// TimestampFormat is the timestamp layout of the text formatter.
const TimestampFormat = "2006-01-02 15:04:05"

// New creates a logger writing to out. format is "json" or "text"; verbose
// enables debug entries.
func New(verbose bool, format string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: TimestampFormat})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: TimestampFormat,
		})
	}

	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// WithRun tags every entry of logger with a fresh run id.
func WithRun(logger logrus.FieldLogger) *logrus.Entry {
	return logger.WithField("run", uuid.NewString())
}

// Sink returns a progress callback that logs events to logger. Verbose
// events are logged at debug level. It is safe for concurrent use.
func Sink(logger logrus.FieldLogger) func(download.ProgressEvent) {
	return func(event download.ProgressEvent) {
		switch event.Level {
		case download.LevelVerbose:
			logger.Debug(event.Message)
		case download.LevelWarning:
			logger.Warn(event.Message)
		case download.LevelError:
			logger.Error(event.Message)
		case download.LevelSuccess:
			logger.WithField("status", "ok").Info(event.Message)
		default:
			logger.Info(event.Message)
		}
	}
}
