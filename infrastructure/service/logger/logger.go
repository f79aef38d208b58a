package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Level       string
	Format      string
	ServiceName string
}

// New builds the process-wide structured logger. Components receive it as a
// logrus.FieldLogger so tests can swap in a silenced instance.
func New(cfg Config) logrus.FieldLogger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		})
	}

	log.SetOutput(os.Stdout)

	return log.WithField("service", cfg.ServiceName)
}
