package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var (
	// Every command is hidden from members without Administrator by default.
	adminPermission int64 = discordgo.PermissionAdministrator
	dmPermission          = false
)

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "theme",
		Description: "Set default colors for server embeds",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "primary",
				Description: "Hex code for primary color (e.g. #FF5733)",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "secondary",
				Description: "Hex code for secondary color",
				Required:    false,
			},
		},
		DefaultMemberPermissions: &adminPermission,
		DMPermission:             &dmPermission,
	},
	{
		Name:        "embed",
		Description: "Parse JSON and post message with embeds",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "embed_json",
				Description: "Raw JSON string for the message payload",
				Required:    true,
			},
		},
		DefaultMemberPermissions: &adminPermission,
		DMPermission:             &dmPermission,
	},
	{
		Name:        "welcome",
		Description: "Set welcome channel, message, and optional auto-role",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "channel",
				Description: "Channel",
				Required:    true,
				ChannelTypes: []discordgo.ChannelType{
					discordgo.ChannelTypeGuildText,
					discordgo.ChannelTypeGuildNews,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "embed_json",
				Description: "JSON",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        "role",
				Description: "Optional Role",
				Required:    false,
			},
		},
		DefaultMemberPermissions: &adminPermission,
		DMPermission:             &dmPermission,
	},
	{
		Name:                     "welcome-preview",
		Description:              "Preview the welcome message as if you had just joined",
		DefaultMemberPermissions: &adminPermission,
		DMPermission:             &dmPermission,
	},
	{
		Name:                     "config-show",
		Description:              "Show current server configuration",
		DefaultMemberPermissions: &adminPermission,
		DMPermission:             &dmPermission,
	},
}

// registerCommands replaces the application's commands with the current set,
// globally or for the configured guild.
func (b *Bot) registerCommands(appID string) error {
	scope := b.guildID
	if scope == "" {
		scope = "global"
	}
	log.WithField("scope", scope).Info("Registering slash commands...")

	registered, err := b.session.ApplicationCommandBulkOverwrite(appID, b.guildID, commands)
	if err != nil {
		return fmt.Errorf("failed to overwrite commands: %w", err)
	}

	b.mu.Lock()
	b.appID = appID
	b.registered = registered
	b.mu.Unlock()

	for _, cmd := range registered {
		log.WithField("command", cmd.Name).Debug("Registered command")
	}
	return nil
}

// cleanupCommands removes the commands registered by this process (useful for development)
func (b *Bot) cleanupCommands() error {
	b.mu.Lock()
	appID, registered := b.appID, b.registered
	b.registered = nil
	b.mu.Unlock()

	log.Info("Cleaning up slash commands...")

	var failed int
	for _, cmd := range registered {
		if err := b.session.ApplicationCommandDelete(appID, b.guildID, cmd.ID); err != nil {
			log.WithError(err).WithField("command", cmd.Name).Warn("Failed to delete command")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to delete %d commands", failed)
	}
	return nil
}
