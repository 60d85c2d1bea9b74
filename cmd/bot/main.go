package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"welcomeBot/internal/bot"
	"welcomeBot/internal/config"
	"welcomeBot/internal/greeter"
	"welcomeBot/internal/store"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.WithError(err).Fatal("Could not load .env file")
		}
	} else {
		log.Debug("No .env file found, using environment variables")
	}

	configureLogging(config.LoadLogging())

	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(os.Args[2:]); err != nil {
			log.WithError(err).Fatal("Migration error")
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Error("Invalid configuration")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.WithError(err).Fatal("Application error")
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	backing, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	repo := store.NewRepository(backing)
	defer func() {
		if err := repo.Close(); err != nil {
			log.WithError(err).Error("Error closing store")
		}
	}()

	log.WithFields(log.Fields{
		"backend":     cfg.StoreBackend,
		"environment": cfg.Environment,
	}).Info("Configuration store ready")

	b, err := bot.New(bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.GuildID,
	}, greeter.New(repo))
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.WithError(err).Error("Error closing Discord session")
		}
	}()

	return b.Start()
}

func configureLogging(cfg config.Logging) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	lvl, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.WithField("level", cfg.Level).Warn("Unknown log level, using info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

func handleMigrationCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: bot migrate [up|down|status] [args...]")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for migrations")
	}

	switch args[0] {
	case "up":
		return store.RunMigrations(databaseURL)
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
			steps = n
		}
		return store.MigrateDown(databaseURL, steps)
	case "status":
		return store.MigrateStatus(databaseURL)
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}
