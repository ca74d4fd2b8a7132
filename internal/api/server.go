package api

import (
	"context"
	"log"

	"github.com/campusbridge/auth_service/config"
	"github.com/campusbridge/auth_service/infra/queue"
	"github.com/campusbridge/auth_service/internal/api/rest/handlers"
	"github.com/campusbridge/auth_service/internal/clients/googleauth"
	"github.com/campusbridge/auth_service/internal/domain"
	"github.com/campusbridge/auth_service/internal/helper"
	"github.com/campusbridge/auth_service/internal/interfaces"
	"github.com/campusbridge/auth_service/internal/repository"
	"github.com/campusbridge/auth_service/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260831

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("database handle error: %v", err)
	}
	err = withMigrationLock(context.Background(), sqlDB, migrateLockID, func() error {
		if err := db.AutoMigrate(&domain.User{}); err != nil {
			return err
		}
		seedAdmin(db, cfg)
		return nil
	})
	if err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Infra ----------
	var producer interfaces.ProducerHandler
	if cfg.KafkaBroker != "" {
		producer = queue.NewProducer(
			cfg.KafkaBroker,
			cfg.KafkaTopic,
			cfg.KafkaUsername,
			cfg.KafkaPassword,
		)
	}

	tokens := helper.NewTokenService(
		cfg.JWTSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		cfg.ResetTokenTTL,
	)
	googleClient := googleauth.New(cfg.GoogleClientID)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)

	// ---------- Service ----------
	authSvc := services.NewAuthService(userRepo, tokens, googleClient, producer)

	// ---------- Handlers ----------
	handlers.NewAuthHandler(authSvc).SetupRoutes(app)
	handlers.NewUserHandler(authSvc).SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}

// seedAdmin guarantees at least one admin exists on a fresh database.
// The credentials come from ADMIN_SEED_EMAIL / ADMIN_SEED_PASSWORD; with no
// password configured the seed is skipped entirely.
func seedAdmin(db *gorm.DB, cfg config.Config) {
	if cfg.AdminSeedPassword == "" {
		log.Println("ADMIN_SEED_PASSWORD not set, skipping admin seed")
		return
	}

	var count int64
	if err := db.Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		log.Printf("admin seed check error: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hashed, err := helper.HashPassword(cfg.AdminSeedPassword)
	if err != nil {
		log.Printf("admin seed hash error: %v", err)
		return
	}

	admin := &domain.User{
		Email:          cfg.AdminSeedEmail,
		FullName:       "Administrator",
		HashedPassword: &hashed,
		Role:           domain.RoleAdmin,
		IsActive:       true,
		IsVerified:     true,
		AuthProvider:   domain.AuthProviderLocal,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("admin seed error: %v", err)
		return
	}
	log.Println("seeded initial admin account")
}
