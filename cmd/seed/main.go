// Command seed resets the schema and loads two sample accounts: admin/admin
// with the admin role and user/user with the readonly role.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/amkolotov/users/internal/auth"
	"github.com/amkolotov/users/internal/config"
	"github.com/amkolotov/users/internal/models"
	"github.com/amkolotov/users/internal/storage/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, cfg.DatabaseURL, postgres.Options{
		MinConns:     cfg.DBMinConns,
		MaxConns:     cfg.DBMaxConns,
		QueryTimeout: cfg.DBQueryTimeout,
	})
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer store.Close()

	if err := store.Reset(ctx); err != nil {
		log.Fatalf("reset schema: %v", err)
	}

	seed := []struct {
		login, password, first, last, birthday string
		role                                   models.Role
	}{
		{"admin", "admin", "admin", "admin", "01-01-1970", models.RoleAdmin},
		{"user", "user", "user", "user", "11-11-2001", models.RoleReadOnly},
	}

	for _, s := range seed {
		hash, err := auth.HashPassword(s.password)
		if err != nil {
			log.Fatalf("hash password for %s: %v", s.login, err)
		}
		birthday, err := time.Parse("02-01-2006", s.birthday)
		if err != nil {
			log.Fatalf("parse birthday for %s: %v", s.login, err)
		}
		user := models.User{
			Login:        s.login,
			PasswordHash: hash,
			FirstName:    s.first,
			LastName:     s.last,
			Birthday:     &birthday,
		}
		created, err := store.CreateUser(ctx, user, s.role)
		if err != nil {
			log.Fatalf("create %s: %v", s.login, err)
		}
		log.Printf("created %s (id=%d, role=%s)", created.Login, created.ID, s.role)
	}
}
