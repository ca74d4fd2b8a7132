package main

import (
	"log"

	"github.com/campusbridge/auth_service/config"
	"github.com/campusbridge/auth_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN is required")
	}

	api.StartServer(cfg)
}
