package app

import (
	"github.com/sirupsen/logrus"

	"meeting-scheduler/internal/hubspot"
)

type App struct {
	log     *logrus.Entry
	cfg     *Config
	hubspot *hubspot.Client
}

func New(log *logrus.Logger, cfg *Config, client *hubspot.Client) *App {
	return &App{
		log:     log.WithField("component", "app"),
		cfg:     cfg,
		hubspot: client,
	}
}
