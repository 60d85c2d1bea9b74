package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
-- Guild settings (per-server configuration)
CREATE TABLE IF NOT EXISTS guild_settings (
	guild_id TEXT PRIMARY KEY,
	channel_id INTEGER,
	role_id INTEGER,
	embed_data TEXT,
	theme_primary INTEGER,
	theme_secondary INTEGER,
	configured_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore keeps one row per guild in a local SQLite database.
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore opens the database at dbPath and initializes the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := conn.Exec(sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

const selectGuildColumns = `
	SELECT guild_id, channel_id, role_id, embed_data, theme_primary, theme_secondary
	FROM guild_settings
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGuild(row rowScanner) (string, *GuildConfig, error) {
	var (
		guildID   string
		channelID sql.NullInt64
		roleID    sql.NullInt64
		embedData sql.NullString
		primary   sql.NullInt64
		secondary sql.NullInt64
	)
	if err := row.Scan(&guildID, &channelID, &roleID, &embedData, &primary, &secondary); err != nil {
		return "", nil, err
	}

	cfg := &GuildConfig{}
	if channelID.Valid {
		cfg.ChannelID = &channelID.Int64
	}
	if roleID.Valid {
		cfg.RoleID = &roleID.Int64
	}
	if embedData.Valid {
		data, err := decodeEmbedData(&embedData.String)
		if err != nil {
			return "", nil, fmt.Errorf("invalid embed data for guild %s: %w", guildID, err)
		}
		cfg.EmbedData = data
	}
	if primary.Valid {
		cfg.Theme = &Theme{Primary: primary.Int64}
		if secondary.Valid {
			cfg.Theme.Secondary = &secondary.Int64
		}
	}
	return guildID, cfg, nil
}

// LoadGuild retrieves settings for a specific guild
func (s *SQLiteStore) LoadGuild(ctx context.Context, guildID string) (*GuildConfig, error) {
	row := s.conn.QueryRowContext(ctx, selectGuildColumns+` WHERE guild_id = ?`, guildID)

	_, cfg, err := scanGuild(row)
	if err == sql.ErrNoRows {
		return nil, nil // No settings configured yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}
	return cfg, nil
}

// Load retrieves all configured guilds
func (s *SQLiteStore) Load(ctx context.Context) (Guilds, error) {
	rows, err := s.conn.QueryContext(ctx, selectGuildColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to query guild settings: %w", err)
	}
	defer rows.Close()

	guilds := Guilds{}
	for rows.Next() {
		guildID, cfg, err := scanGuild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guild settings: %w", err)
		}
		guilds[guildID] = cfg
	}
	return guilds, rows.Err()
}

const upsertGuildSQLite = `
	INSERT INTO guild_settings (guild_id, channel_id, role_id, embed_data, theme_primary, theme_secondary, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(guild_id) DO UPDATE SET
		channel_id = excluded.channel_id,
		role_id = excluded.role_id,
		embed_data = excluded.embed_data,
		theme_primary = excluded.theme_primary,
		theme_secondary = excluded.theme_secondary,
		updated_at = CURRENT_TIMESTAMP
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func upsertSQLite(ctx context.Context, db execer, guildID string, cfg *GuildConfig) error {
	args, err := guildArgs(guildID, cfg)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, upsertGuildSQLite, args...); err != nil {
		return fmt.Errorf("failed to save guild %s: %w", guildID, err)
	}
	return nil
}

// SaveGuild sets or updates one guild's row
func (s *SQLiteStore) SaveGuild(ctx context.Context, guildID string, cfg *GuildConfig) error {
	return upsertSQLite(ctx, s.conn, guildID, cfg)
}

// Save replaces the whole table with guilds inside one transaction
func (s *SQLiteStore) Save(ctx context.Context, guilds Guilds) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ids := make([]interface{}, 0, len(guilds))
	for guildID, cfg := range guilds {
		if err := upsertSQLite(ctx, tx, guildID, cfg); err != nil {
			return err
		}
		ids = append(ids, guildID)
	}

	deleteQuery := `DELETE FROM guild_settings`
	if len(ids) > 0 {
		deleteQuery += ` WHERE guild_id NOT IN (?` + repeatPlaceholders(len(ids)-1) + `)`
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, ids...); err != nil {
		return fmt.Errorf("failed to remove stale guilds: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// guildArgs flattens a config into column values shared by the SQL backings.
func guildArgs(guildID string, cfg *GuildConfig) ([]interface{}, error) {
	if cfg == nil {
		cfg = &GuildConfig{}
	}
	embedData, err := encodeEmbedData(cfg.EmbedData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode embed data: %w", err)
	}

	var primary, secondary *int64
	if cfg.Theme != nil {
		p := cfg.Theme.Primary
		primary = &p
		secondary = cfg.Theme.Secondary
	}
	return []interface{}{guildID, cfg.ChannelID, cfg.RoleID, embedData, primary, secondary}, nil
}

func repeatPlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.Repeat(",?", count)
}
