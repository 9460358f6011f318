package main

import (
	"context"
	"log"

	"tasktracker/internal/auth"
	"tasktracker/internal/config"
	"tasktracker/internal/db"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"
)

func main() {
	log.Println("Starting prestart...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	ctx := context.Background()
	if err := db.WaitForDB(ctx, gormDB, cfg.DBWaitAttempts, cfg.DBWaitInterval); err != nil {
		log.Fatalf("Database did not become ready: %v", err)
	}

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Create the first superuser
	userRepo := repository.NewUserRepository(gormDB)
	hasher := auth.NewPasswordHasher(auth.DefaultBcryptCost)
	userService := service.NewUserService(userRepo, hasher)

	user, created, err := userService.EnsureSuperuser(ctx, cfg.FirstSuperuserEmail, cfg.FirstSuperuserPassword)
	if err != nil {
		log.Fatalf("Failed to create first superuser: %v", err)
	}
	if created {
		log.Printf("Created superuser %s (%s)", user.Email, user.ID)
	} else {
		log.Printf("Superuser %s already exists, leaving it untouched", user.Email)
	}

	log.Println("Prestart completed successfully!")
}
