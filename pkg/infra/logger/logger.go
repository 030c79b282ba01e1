package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const logDir = "logs"

type Options struct {
	// AsyncConsole mirrors entries to stdout from a background goroutine.
	// Short-lived commands should leave it off so nothing is lost on exit.
	AsyncConsole bool
	// FileOutput enables the buffered logs/<component>.log writer.
	FileOutput bool
}

// NewLogger builds the JSON logger shared by a process. The returned closer
// flushes pending entries and must be called before exit.
func NewLogger(component string, opts Options) (*logrus.Logger, io.Closer) {
	logger := logrus.New()

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(levelFromEnv())

	closers := multiCloser{}

	if opts.FileOutput {
		writer, err := openLogFile(component)
		if err != nil {
			fmt.Fprintf(os.Stderr, "file logging disabled: %v\n", err)
			logger.SetOutput(io.Discard)
		} else {
			logger.SetOutput(writer)
			closers = append(closers, writer)
		}
	} else {
		logger.SetOutput(io.Discard)
	}

	if opts.AsyncConsole {
		hook := NewAsyncConsoleHook(1024)
		logger.AddHook(hook)
		closers = append(closers, hook)
	} else {
		logger.AddHook(NewConsoleHook(os.Stdout))
	}

	return logger, closers
}

func levelFromEnv() logrus.Level {
	raw := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if raw == "" {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(raw)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func openLogFile(component string) (*AsyncFileWriter, error) {
	name := strings.ReplaceAll(component, string(filepath.Separator), "_")
	logFile := filepath.Clean(filepath.Join(logDir, name+".log"))
	if !strings.HasPrefix(logFile, logDir+string(filepath.Separator)) {
		return nil, fmt.Errorf("invalid log file path %q: must be in %s directory", logFile, logDir)
	}
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	return NewAsyncFileWriter(logFile, 32*1024)
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
