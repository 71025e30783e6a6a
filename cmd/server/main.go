package main

import (
	"log"

	"github.com/BseoY/120EastState3/internal/config"
	"github.com/BseoY/120EastState3/internal/database"
	"github.com/BseoY/120EastState3/internal/routes"
	"github.com/BseoY/120EastState3/internal/services"
)

func main() {
	cfg := config.Load()

	var db *database.Database
	if cfg.Database.Primary.Enable {
		db = database.InitWithFallback(
			cfg.Database.Primary.Driver,
			cfg.Database.Primary.DSN,
			cfg.Database.Fallback.Driver,
			cfg.Database.Fallback.DSN,
		)
	} else if cfg.Database.Fallback.Enable {
		db = database.InitWithFallback(
			cfg.Database.Fallback.Driver,
			cfg.Database.Fallback.DSN,
			"", "",
		)
	} else {
		log.Println("no database configured, running on in-memory sqlite")
		db = database.InitWithFallback("sqlite", ":memory:", "", "")
	}

	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("database close failed: %v", err)
		}
	}()

	log.Printf("database: %+v", db.GetInfo())

	storage, err := services.NewCloudinaryStorage(cfg)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	router := routes.Setup(db.DB, cfg, routes.Dependencies{
		Tokens:    services.NewTokenService(cfg),
		Verifier:  services.NewGoogleVerifier(cfg),
		Directory: services.NewUserDirectory(db.DB, cfg),
		Storage:   storage,
		Notifier:  services.NewEmailService(cfg),
	})

	log.Printf("listening on port %s", cfg.Server.Port)
	log.Fatal(router.Run(":" + cfg.Server.Port))
}
