package store

import (
	"context"
	"fmt"
	"io"
	"sync"

	"welcomeBot/internal/jsonvalue"
)

// Theme holds a guild's preferred embed colors. Secondary is stored and shown to
// admins but never applied to outgoing messages.
type Theme struct {
	Primary   int64  `json:"primary"`
	Secondary *int64 `json:"secondary"`
}

// GuildConfig is the persisted configuration for one guild.
type GuildConfig struct {
	ChannelID *int64
	EmbedData *jsonvalue.Value
	RoleID    *int64
	Theme     *Theme
}

// WelcomeMessageEnabled reports whether both a channel and a payload are configured.
func (g *GuildConfig) WelcomeMessageEnabled() bool {
	return g != nil && g.ChannelID != nil && g.EmbedData != nil
}

// AutoRoleEnabled reports whether a role should be given to new members.
func (g *GuildConfig) AutoRoleEnabled() bool {
	return g != nil && g.RoleID != nil && *g.RoleID != 0
}

func (g *GuildConfig) welcomeConfigured() bool {
	return g.ChannelID != nil || g.EmbedData != nil || g.RoleID != nil
}

// Clone returns a deep copy.
func (g *GuildConfig) Clone() *GuildConfig {
	if g == nil {
		return nil
	}
	out := &GuildConfig{
		ChannelID: cloneInt(g.ChannelID),
		RoleID:    cloneInt(g.RoleID),
	}
	if g.EmbedData != nil {
		// Values are immutable so sharing the tree is safe.
		data := *g.EmbedData
		out.EmbedData = &data
	}
	if g.Theme != nil {
		out.Theme = &Theme{Primary: g.Theme.Primary, Secondary: cloneInt(g.Theme.Secondary)}
	}
	return out
}

func cloneInt(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Guilds maps guild IDs to their configuration.
type Guilds map[string]*GuildConfig

// Clone returns a deep copy.
func (g Guilds) Clone() Guilds {
	out := make(Guilds, len(g))
	for id, cfg := range g {
		out[id] = cfg.Clone()
	}
	return out
}

// Store is a whole-document configuration backing.
type Store interface {
	// Load returns every guild's configuration, or an empty map if nothing has
	// been persisted yet.
	Load(ctx context.Context) (Guilds, error)
	// Save replaces the persisted configuration with guilds.
	Save(ctx context.Context, guilds Guilds) error
}

// GuildStore is implemented by backings that can read and write a single guild
// without touching the rest of the document.
type GuildStore interface {
	LoadGuild(ctx context.Context, guildID string) (*GuildConfig, error)
	SaveGuild(ctx context.Context, guildID string, cfg *GuildConfig) error
}

// Repository serializes read-modify-write cycles against a Store so concurrent
// handlers in this process cannot lose each other's updates.
type Repository struct {
	mu    sync.Mutex
	store Store
}

func NewRepository(s Store) *Repository {
	return &Repository{store: s}
}

// Guild returns a copy of the guild's configuration, or nil if it has none.
func (r *Repository) Guild(ctx context.Context, guildID string) (*GuildConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx, guildID)
}

func (r *Repository) load(ctx context.Context, guildID string) (*GuildConfig, error) {
	if gs, ok := r.store.(GuildStore); ok {
		return gs.LoadGuild(ctx, guildID)
	}

	guilds, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return guilds[guildID].Clone(), nil
}

// Update applies fn to the guild's configuration, creating an empty entry first if
// the guild has none, and persists the result. Nothing is written if fn fails.
func (r *Repository) Update(ctx context.Context, guildID string, fn func(cfg *GuildConfig) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gs, ok := r.store.(GuildStore); ok {
		cfg, err := gs.LoadGuild(ctx, guildID)
		if err != nil {
			return err
		}
		if cfg == nil {
			cfg = &GuildConfig{}
		}
		if err := fn(cfg); err != nil {
			return err
		}
		return gs.SaveGuild(ctx, guildID, cfg)
	}

	guilds, err := r.store.Load(ctx)
	if err != nil {
		return err
	}
	cfg, ok := guilds[guildID]
	if !ok || cfg == nil {
		cfg = &GuildConfig{}
		guilds[guildID] = cfg
	}
	if err := fn(cfg); err != nil {
		return err
	}
	return r.store.Save(ctx, guilds)
}

// Close releases the underlying backing if it holds resources.
func (r *Repository) Close() error {
	if c, ok := r.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close store: %w", err)
		}
	}
	return nil
}
