package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/viper"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/logging"
)

func main() {
	databaseURL := flag.String("database", "", "postgres URL (defaults to DATABASE_URL)")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate [-database url] up|down|version|drop")
		flag.PrintDefaults()
	}
	flag.Parse()
	logging.Setup(slog.LevelInfo, false)

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	dsn := *databaseURL
	if dsn == "" {
		v := viper.New()
		v.SetConfigName(".env")
		v.SetConfigType("env")
		v.AddConfigPath(".")
		_ = v.ReadInConfig()
		v.AutomaticEnv()
		dsn = v.GetString("DATABASE_URL")
	}
	if dsn == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	if err := run(action, dsn); err != nil {
		slog.Error("migration failed", "action", action, "error", err)
		os.Exit(1)
	}
	slog.Info("migration completed", "action", action)
}

func run(action, dsn string) error {
	m, err := database.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "down":
		if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			slog.Info("no migrations applied")
			return nil
		}
		if err != nil {
			return err
		}
		slog.Info("current version", "version", version, "dirty", dirty)
	default:
		flag.Usage()
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}
