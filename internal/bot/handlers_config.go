package bot

import (
	"context"
	"fmt"

	"welcomeBot/internal/store"

	"github.com/bwmarrin/discordgo"
)

const (
	colorInfo          = 0x3498db
	colorNotConfigured = 0xe74c3c
)

// handleConfigShow displays current server configuration
func (b *Bot) handleConfigShow(ctx context.Context, i *discordgo.InteractionCreate, _ optionMap) error {
	settings, err := b.greeter.Settings(ctx, i.GuildID)
	if err != nil {
		return err
	}

	return b.respond(i, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{configEmbed(settings)},
		Flags:  discordgo.MessageFlagsEphemeral, // Only visible to the user
	})
}

func configEmbed(settings *store.GuildConfig) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "⚙️ Server Configuration",
		Description: "Current bot settings for this server",
		Color:       colorInfo,
	}

	if settings == nil {
		embed.Color = colorNotConfigured
		embed.Fields = []*discordgo.MessageEmbedField{
			{
				Name:  "Welcome",
				Value: "❌ Not configured",
			},
			{
				Name:  "Setup Instructions",
				Value: "Use `/welcome` to set a welcome message and `/theme` to set embed colors",
			},
		}
		return embed
	}

	welcome := "❌ Not configured"
	if settings.WelcomeMessageEnabled() {
		welcome = fmt.Sprintf("<#%d>", *settings.ChannelID)
	}
	role := "None"
	if settings.AutoRoleEnabled() {
		role = fmt.Sprintf("<@&%d>", *settings.RoleID)
	}

	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:   "Welcome Channel",
			Value:  welcome,
			Inline: true,
		},
		{
			Name:   "Auto Role",
			Value:  role,
			Inline: true,
		},
	}

	if t := settings.Theme; t != nil {
		if t.Primary != 0 {
			embed.Color = int(t.Primary)
		}
		secondary := "None"
		if t.Secondary != nil {
			secondary = formatHex(*t.Secondary)
		}
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{
				Name:   "Primary Color",
				Value:  formatHex(t.Primary),
				Inline: true,
			},
			&discordgo.MessageEmbedField{
				Name:   "Secondary Color",
				Value:  secondary,
				Inline: true,
			},
		)
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "The primary color is applied to embeds that do not set their own",
		}
	}

	return embed
}

func formatHex(color int64) string {
	return fmt.Sprintf("#%06X", color)
}
