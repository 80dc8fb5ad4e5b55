package main

import (
	"log"

	"nexus-server/confs"
	"nexus-server/db"
	"nexus-server/server"

	"go.uber.org/zap"
)

func main() {
	// load config
	cfg, err := confs.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// connect to database Postgres
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// run server
	srv := server.NewServer(database, cfg, logger)
	srv.Start()
}
