package main

import (
	"meeting-scheduler/internal/app"
	"meeting-scheduler/internal/hubspot"
	"meeting-scheduler/internal/server"
	"meeting-scheduler/pkg/logger"
)

const version = "0.1.0"

func main() {
	log := logger.New()

	cfg, err := app.ConfigFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	client, err := hubspot.NewClient(log, cfg.APIDomain, cfg.Token)
	if err != nil {
		log.Fatalf("hubspot client: %v", err)
	}

	appInstance := app.New(log, cfg, client)
	router := app.NewRouter(log, cfg, appInstance, version)

	if err := server.Run(router, cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Info("server stopped")
}
