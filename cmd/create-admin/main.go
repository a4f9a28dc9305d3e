// Command create-admin bootstraps the initial admin account.
package main

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/sandeul/website-backend/internal/config"
	"github.com/sandeul/website-backend/internal/models"
	"github.com/sandeul/website-backend/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pool.Close()

	users := store.NewPostgresStore(pool)
	if err := users.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	username := getenv("ADMIN_USERNAME", "admin")
	password := getenv("ADMIN_PASSWORD", "admin123")
	email := getenv("ADMIN_EMAIL", "admin@sandeul.co.kr")
	name := getenv("ADMIN_NAME", "관리자")

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user, err := users.CreateUser(ctx, username, email, string(hashed), name, models.RoleAdmin)
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}

	log.Printf("admin account created: %s (%s)", user.Username, user.Email)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
