package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = newLogger(os.Stdout, logrus.InfoLevel, &logrus.TextFormatter{FullTimestamp: true})
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel, &logrus.TextFormatter{FullTimestamp: true})
)

func newLogger(out io.Writer, level logrus.Level, formatter logrus.Formatter) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(formatter)
	return l
}

// InitLogger configures both loggers. Unknown levels fall back to info.
func InitLogger(level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	var formatter logrus.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if format == "json" {
		formatter = &logrus.JSONFormatter{}
	}

	InfoLogger = newLogger(os.Stdout, lvl, formatter)

	// Error logger never drops below error.
	errLvl := logrus.ErrorLevel
	if lvl > errLvl {
		errLvl = lvl
	}
	ErrorLogger = newLogger(os.Stderr, errLvl, formatter)
}
