// Package greeter implements the bot's commands and member-join flow independently
// of the gateway connection.
package greeter

import (
	"context"
	"fmt"
	"strconv"

	"welcomeBot/internal/apperr"
	"welcomeBot/internal/jsonvalue"
	"welcomeBot/internal/payload"
	"welcomeBot/internal/placeholder"
	"welcomeBot/internal/store"
	"welcomeBot/internal/theme"

	"github.com/bwmarrin/discordgo"
)

const (
	msgThemeSaveFailed = "Failed to save theme."
	msgNoWelcome       = "No welcome message is configured. Use /welcome first."
)

// Member is re-exported for callers building join events.
type Member = placeholder.Member

// Service holds the command logic shared by every guild.
type Service struct {
	repo   *store.Repository
	merger *theme.Merger
}

func New(repo *store.Repository) *Service {
	return &Service{
		repo:   repo,
		merger: theme.NewMerger(repo),
	}
}

// SetTheme validates and stores a guild's colors and returns the confirmation embed.
// secondary may be empty.
func (s *Service) SetTheme(ctx context.Context, guildID, primary, secondary string) (*discordgo.MessageEmbed, error) {
	p, err := theme.ParseHex(primary)
	if err != nil {
		return nil, err
	}
	var sec *int64
	if secondary != "" {
		v, err := theme.ParseHex(secondary)
		if err != nil {
			return nil, err
		}
		sec = &v
	}

	err = s.repo.Update(ctx, guildID, func(cfg *store.GuildConfig) error {
		cfg.Theme = &store.Theme{Primary: p, Secondary: sec}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal(err, "failed to save theme", msgThemeSaveFailed)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Theme Updated",
		Description: fmt.Sprintf("Primary color set to %s", primary),
		Color:       int(p),
	}
	if sec != nil && *sec != 0 {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Secondary", Value: secondary},
		}
	}
	return embed, nil
}

// ComposeEmbed turns raw JSON from the embed command into a themed message.
func (s *Service) ComposeEmbed(ctx context.Context, guildID, raw string) (*payload.Message, error) {
	data, err := payload.Parse(raw)
	if err != nil {
		return nil, err
	}
	if data.Kind() != jsonvalue.Object {
		return nil, apperr.Validation(payload.MsgNotObject)
	}

	data, err = s.merger.Apply(ctx, guildID, data)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load theme", "")
	}

	msg, err := payload.Build(data)
	if err != nil {
		return nil, err
	}
	if msg.Empty() {
		return nil, apperr.Validation(payload.MsgMissingContent)
	}
	return msg, nil
}

// ConfigureWelcome stores the welcome channel, template and optional auto-role.
// roleID may be empty.
func (s *Service) ConfigureWelcome(ctx context.Context, guildID, channelID, raw, roleID string) error {
	data, err := payload.Parse(raw)
	if err != nil {
		return err
	}
	if err := payload.ValidateWelcome(data); err != nil {
		return err
	}

	channel, err := parseSnowflake(channelID)
	if err != nil {
		return apperr.Internal(err, "invalid channel id", "")
	}
	var role *int64
	if roleID != "" {
		r, err := parseSnowflake(roleID)
		if err != nil {
			return apperr.Internal(err, "invalid role id", "")
		}
		role = &r
	}

	err = s.repo.Update(ctx, guildID, func(cfg *store.GuildConfig) error {
		cfg.ChannelID = &channel
		cfg.EmbedData = &data
		cfg.RoleID = role
		return nil
	})
	if err != nil {
		return apperr.Internal(err, "failed to save welcome config", "")
	}
	return nil
}

// Welcome is what should happen when a member joins a guild.
type Welcome struct {
	RoleID    string           // empty when no auto-role is configured
	ChannelID string           // empty when no welcome message is configured
	Message   *payload.Message // nil when there is nothing to send
}

// MemberJoined plans the welcome for m. When the stored template cannot be
// rendered the returned Welcome still carries the role alongside the error.
func (s *Service) MemberJoined(ctx context.Context, guildID string, m Member) (*Welcome, error) {
	cfg, err := s.repo.Guild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load guild config: %w", err)
	}
	w := &Welcome{}
	if cfg == nil {
		return w, nil
	}

	if cfg.AutoRoleEnabled() {
		w.RoleID = formatSnowflake(*cfg.RoleID)
	}
	if !cfg.WelcomeMessageEnabled() {
		return w, nil
	}

	msg, err := render(cfg, m)
	if err != nil {
		return w, fmt.Errorf("failed to render welcome message: %w", err)
	}
	if msg.Empty() {
		return w, nil
	}
	w.ChannelID = formatSnowflake(*cfg.ChannelID)
	w.Message = msg
	return w, nil
}

// PreviewWelcome renders the configured welcome for m without sending it.
func (s *Service) PreviewWelcome(ctx context.Context, guildID string, m Member) (*payload.Message, error) {
	cfg, err := s.repo.Guild(ctx, guildID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load guild config", "")
	}
	if !cfg.WelcomeMessageEnabled() {
		return nil, apperr.Validation(msgNoWelcome)
	}

	msg, err := render(cfg, m)
	if err != nil {
		return nil, err
	}
	if msg.Empty() {
		return nil, apperr.Validation(payload.MsgMissingContent)
	}
	return msg, nil
}

// Settings returns the guild's stored configuration, or nil.
func (s *Service) Settings(ctx context.Context, guildID string) (*store.GuildConfig, error) {
	cfg, err := s.repo.Guild(ctx, guildID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load guild config", "Failed to fetch configuration.")
	}
	return cfg, nil
}

// render applies the theme before placeholders, so theme colors never see
// member data.
func render(cfg *store.GuildConfig, m Member) (*payload.Message, error) {
	data := theme.Apply(*cfg.EmbedData, cfg.Theme)
	data = placeholder.Expand(data, m)
	return payload.Build(data)
}

func parseSnowflake(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

func formatSnowflake(id int64) string {
	return strconv.FormatInt(id, 10)
}
