package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLogger  *logrus.Logger
	WarnLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

// InitLoggers initializes the package level loggers. Must be called once
// before any logging happens (typically from main's init).
func InitLoggers() {
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		// Fall back to stdout-only loggers if the log dir is unusable.
		InfoLogger = newLogger(logrus.InfoLevel, nil)
		WarnLogger = newLogger(logrus.WarnLevel, nil)
		ErrorLogger = newLogger(logrus.ErrorLevel, nil)
		InfoLogger.Warnf("could not create log directory %s: %v, logging to stdout only", logDir, err)
		return
	}

	InfoLogger = newLogger(logrus.InfoLevel, rotatingFile(filepath.Join(logDir, "info.log")))
	WarnLogger = newLogger(logrus.WarnLevel, rotatingFile(filepath.Join(logDir, "warn.log")))
	ErrorLogger = newLogger(logrus.ErrorLevel, rotatingFile(filepath.Join(logDir, "error.log")))
}

func newLogger(level logrus.Level, file io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if file != nil {
		l.SetOutput(io.MultiWriter(os.Stdout, file))
	} else {
		l.SetOutput(os.Stdout)
	}
	return l
}

func rotatingFile(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
}
