package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	*logrus.Logger
}

func NewLogger(verbose bool) *Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	return &Logger{Logger: log}
}

// WithStatement tags entries with the DDL statement being applied.
func (l *Logger) WithStatement(pos int, statement string) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields{
		"statement": pos,
		"ddl":       statement,
	})
}
