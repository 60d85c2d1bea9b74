package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps one row per guild in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL. The schema must already be migrated;
// see RunMigrations.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Set timezone to UTC for all connections
	config.ConnConfig.RuntimeParams["timezone"] = "UTC"

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func scanPgGuild(row pgx.Row) (string, *GuildConfig, error) {
	var (
		guildID   string
		channelID *int64
		roleID    *int64
		embedData *string
		primary   *int64
		secondary *int64
	)
	if err := row.Scan(&guildID, &channelID, &roleID, &embedData, &primary, &secondary); err != nil {
		return "", nil, err
	}

	data, err := decodeEmbedData(embedData)
	if err != nil {
		return "", nil, fmt.Errorf("invalid embed data for guild %s: %w", guildID, err)
	}
	cfg := &GuildConfig{ChannelID: channelID, RoleID: roleID, EmbedData: data}
	if primary != nil {
		cfg.Theme = &Theme{Primary: *primary, Secondary: secondary}
	}
	return guildID, cfg, nil
}

func (p *PostgresStore) LoadGuild(ctx context.Context, guildID string) (*GuildConfig, error) {
	row := p.pool.QueryRow(ctx, selectGuildColumns+` WHERE guild_id = $1`, guildID)

	_, cfg, err := scanPgGuild(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}
	return cfg, nil
}

func (p *PostgresStore) Load(ctx context.Context) (Guilds, error) {
	rows, err := p.pool.Query(ctx, selectGuildColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to query guild settings: %w", err)
	}
	defer rows.Close()

	guilds := Guilds{}
	for rows.Next() {
		guildID, cfg, err := scanPgGuild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guild settings: %w", err)
		}
		guilds[guildID] = cfg
	}
	return guilds, rows.Err()
}

const upsertGuildPostgres = `
	INSERT INTO guild_settings (guild_id, channel_id, role_id, embed_data, theme_primary, theme_secondary, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	ON CONFLICT (guild_id) DO UPDATE SET
		channel_id = EXCLUDED.channel_id,
		role_id = EXCLUDED.role_id,
		embed_data = EXCLUDED.embed_data,
		theme_primary = EXCLUDED.theme_primary,
		theme_secondary = EXCLUDED.theme_secondary,
		updated_at = NOW()
`

func (p *PostgresStore) SaveGuild(ctx context.Context, guildID string, cfg *GuildConfig) error {
	args, err := guildArgs(guildID, cfg)
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, upsertGuildPostgres, args...); err != nil {
		return fmt.Errorf("failed to save guild %s: %w", guildID, err)
	}
	return nil
}

func (p *PostgresStore) Save(ctx context.Context, guilds Guilds) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ids := make([]string, 0, len(guilds))
	for guildID, cfg := range guilds {
		args, err := guildArgs(guildID, cfg)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, upsertGuildPostgres, args...); err != nil {
			return fmt.Errorf("failed to save guild %s: %w", guildID, err)
		}
		ids = append(ids, guildID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM guild_settings WHERE NOT (guild_id = ANY($1))`, ids); err != nil {
		return fmt.Errorf("failed to remove stale guilds: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
