package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/agimports/storefront-backend/internal/users"
	"github.com/agimports/storefront-backend/pkg/config"
	"github.com/agimports/storefront-backend/pkg/db"
	"github.com/agimports/storefront-backend/pkg/enums"
	"github.com/agimports/storefront-backend/pkg/logger"
	"github.com/agimports/storefront-backend/pkg/migrate"
	"github.com/agimports/storefront-backend/pkg/security"
)

const tempPasswordLength = 20

// seed-admin provisions the first admin account. When -password is omitted a
// temporary one is generated and printed once.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed-admin"})

	_ = godotenv.Load()

	email := flag.String("email", "", "admin email address")
	name := flag.String("name", "Store Admin", "admin display name")
	password := flag.String("password", "", "initial password; generated when empty")
	flag.Parse()

	if strings.TrimSpace(*email) == "" {
		fmt.Fprintln(os.Stderr, "missing -email")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithField(context.Background(), "email", *email)

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	repo := users.NewRepository(dbClient.DB())

	exists, err := repo.EmailExists(ctx, *email)
	if err != nil {
		logg.Error(ctx, "failed to check email", err)
		os.Exit(1)
	}
	if exists {
		fmt.Fprintln(os.Stderr, "a user with that email already exists")
		os.Exit(1)
	}

	plaintext := *password
	generated := false
	if plaintext == "" {
		plaintext, err = security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			logg.Error(ctx, "failed to generate password", err)
			os.Exit(1)
		}
		generated = true
	}

	hash, err := security.HashPassword(plaintext, cfg.Password)
	if err != nil {
		logg.Error(ctx, "failed to hash password", err)
		os.Exit(1)
	}

	user, err := repo.Create(ctx, users.CreateUserDTO{
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		PasswordHash: hash,
		FullName:     *name,
		Role:         enums.UserRoleAdmin,
	})
	if err != nil {
		logg.Error(ctx, "failed to create admin user", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "user_id", user.ID.String()), "admin user created")
	if generated {
		fmt.Println("temporary password:", plaintext)
	}
}
