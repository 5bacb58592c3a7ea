package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

func New() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
	if os.Getenv("LOG_DEBUG") != "" {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
