package main

import (
	log "github.com/sirupsen/logrus"

	"plantbot/internal/api"
	"plantbot/internal/config"
	"plantbot/internal/rescan"
	"plantbot/internal/storage/sqlite"
)

func main() {
	cfg := config.LoadConfig()

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	rescan.StartScheduler(cfg, db)

	log.Println("Starting plantbot API...")
	if err := api.New(cfg, db).Start(); err != nil {
		log.Fatalf("API server error: %v", err)
	}
}
