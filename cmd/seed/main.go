package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/logging"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/seed"
)

func main() {
	password := flag.String("password", "", "password given to every new demo user (empty leaves them passwordless)")
	fixturePath := flag.String("fixture", "", "YAML fixture to load instead of the built-in demo users")
	flag.Parse()
	logging.Setup(slog.LevelInfo, true)

	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()
	v.AutomaticEnv()
	v.SetDefault("NODE_ENV", config.EnvDevelopment)
	v.SetDefault("BCRYPT_COST", 12)

	if v.GetString("NODE_ENV") == config.EnvProduction {
		slog.Error("refusing to seed demo users in production")
		os.Exit(1)
	}
	dsn := v.GetString("DATABASE_URL")
	if dsn == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		slog.Error("fixture rejected", "error", err)
		os.Exit(1)
	}

	var hash *string
	if *password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(*password), v.GetInt("BCRYPT_COST"))
		if err != nil {
			slog.Error("hash password", "error", err)
			os.Exit(1)
		}
		s := string(b)
		hash = &s
	}

	if err := database.MigrateUp(dsn); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	db, err := database.Connect(&config.Config{DatabaseURL: dsn, Env: config.EnvDevelopment})
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := seed.Apply(ctx, db, fixture, hash, clock.System().Now())
	if err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seed completed", "created", res.Created, "skipped", res.Skipped)
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Parse(data)
}
