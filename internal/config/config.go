package config

import (
	"fmt"
	"os"
	"strings"

	"welcomeBot/internal/store"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string
	GuildID      string // Registers commands to this guild only when set

	// Storage configuration
	StoreBackend string // file, sqlite, postgres or memory
	ConfigFile   string // JSON document for the file backend
	DatabasePath string // SQLite database file
	DatabaseURL  string // PostgreSQL connection string

	// Environment
	Environment string // "development" or "production"
}

// Logging holds the logger settings, which are needed before the rest of the
// configuration is validated.
type Logging struct {
	Level  string
	Format string // "text" or "json"
}

// LoadLogging reads the logger settings from environment variables
func LoadLogging() Logging {
	return Logging{
		Level:  getEnvWithDefault("LOG_LEVEL", "info"),
		Format: strings.ToLower(getEnvWithDefault("LOG_FORMAT", "text")),
	}
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken: strings.TrimSpace(os.Getenv("DISCORD_TOKEN")),
		GuildID:      strings.TrimSpace(os.Getenv("GUILD_ID")),

		// Storage
		StoreBackend: strings.ToLower(getEnvWithDefault("STORE_BACKEND", store.BackendFile)),
		ConfigFile:   getEnvWithDefault("CONFIG_FILE", "config.json"),
		DatabasePath: getEnvWithDefault("DATABASE_PATH", "./data/bot.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		// Environment
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case store.BackendFile, store.BackendSQLite, store.BackendMemory:
	case store.BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	return nil
}

// StoreOptions maps the storage settings onto store.Open's options.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:     c.StoreBackend,
		FilePath:    c.ConfigFile,
		SQLitePath:  c.DatabasePath,
		PostgresURL: c.DatabaseURL,
	}
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
