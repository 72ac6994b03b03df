package main

import (
	"context"
	"errors"
	"log"
	"time"

	"homebound-backend/internal/auth"
	"homebound-backend/internal/catalog"
	"homebound-backend/internal/config"
	"homebound-backend/internal/db"
	"homebound-backend/internal/users"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	catalogService := catalog.NewService(catalog.NewRepository(cols.Services))
	seeded, err := catalogService.SeedIfEmpty(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if seeded {
		log.Println("default services initialized")
	} else {
		log.Println("services already seeded")
	}

	if cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin bootstrap")
		return
	}

	userRepo := users.NewRepository(cols.Users)
	existing, err := userRepo.GetByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		log.Printf("admin already exists: %s (%s)", existing.Email, existing.ID)
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		log.Fatal(err)
	}

	hashed, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatal(err)
	}

	admin := users.User{
		ID:            uuid.NewString(),
		Email:         cfg.AdminEmail,
		Name:          cfg.AdminName,
		Language:      "English",
		Role:          auth.RoleAdmin,
		Password:      hashed,
		ConsentData:   true,
		EmailVerified: true,
		CreatedAt:     time.Now().UTC(),
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatal(err)
	}
	log.Printf("admin created: %s (%s)", admin.Email, admin.ID)
}
