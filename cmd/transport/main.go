package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Veerendratanneru7/transport/internal/app"
	"github.com/Veerendratanneru7/transport/internal/config"
)

func main() {
	// Local development overrides; absent in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := app.Run(cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}
