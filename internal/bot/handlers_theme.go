package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// handleTheme stores the guild's embed colors and echoes them back publicly.
func (b *Bot) handleTheme(ctx context.Context, i *discordgo.InteractionCreate, opts optionMap) error {
	embed, err := b.greeter.SetTheme(ctx, i.GuildID, stringOption(opts, "primary"), stringOption(opts, "secondary"))
	if err != nil {
		return err
	}

	return b.respond(i, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
}
