package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/frontandrew/parkir/internal/domain"
	"github.com/frontandrew/parkir/internal/pkg/config"
	"github.com/frontandrew/parkir/internal/pkg/database"
	"github.com/frontandrew/parkir/internal/pkg/hash"
	"github.com/frontandrew/parkir/internal/repository/postgres"
	"github.com/frontandrew/parkir/migrations"
	"github.com/google/uuid"
)

// Создает первого администратора. Учетные данные берутся из
// ADMIN_EMAIL, ADMIN_PASSWORD и ADMIN_NAME (можно положить в .env)
func main() {
	fmt.Println("=========================================")
	fmt.Println("PARKIR: create admin")
	fmt.Println("=========================================")

	cfg, err := config.Load()
	if err != nil {
		fail("failed to load config", err)
	}

	email := getEnv("ADMIN_EMAIL", "admin@parkir.local")
	password := os.Getenv("ADMIN_PASSWORD")
	fullName := getEnv("ADMIN_NAME", "Administrator")
	if len(password) < 8 {
		fail("ADMIN_PASSWORD must be at least 8 characters", nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		fail("failed to connect to database", err)
	}
	defer database.Close(db)

	if _, err := database.Migrate(ctx, db, migrations.FS); err != nil {
		fail("failed to apply migrations", err)
	}

	userRepo := postgres.NewUserRepository(db)

	// Проверяем, что пользователя с таким email еще нет
	if existing, err := userRepo.GetByEmail(ctx, email); err == nil {
		fmt.Printf("Admin user already exists: %s (role %s)\n", existing.Email, existing.Role)
		return
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		fail("failed to query users", err)
	}

	passwordHash, err := hash.NewHasher(hash.DefaultCost).Hash(password)
	if err != nil {
		fail("failed to hash password", err)
	}

	now := time.Now()
	admin := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := admin.Validate(); err != nil {
		fail("invalid admin data", err)
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		fail("failed to insert admin", err)
	}

	fmt.Println("Admin user created successfully")
	fmt.Println("  ID:   ", admin.ID)
	fmt.Println("  Email:", admin.Email)
}

func fail(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
	os.Exit(1)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
