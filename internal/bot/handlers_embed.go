package bot

import (
	"context"

	"welcomeBot/internal/apperr"

	"github.com/bwmarrin/discordgo"
)

// handleEmbed posts a user-authored message to the invoking channel. The
// confirmation is only sent once the post went through.
func (b *Bot) handleEmbed(ctx context.Context, i *discordgo.InteractionCreate, opts optionMap) error {
	msg, err := b.greeter.ComposeEmbed(ctx, i.GuildID, stringOption(opts, "embed_json"))
	if err != nil {
		return err
	}

	if _, err := b.session.ChannelMessageSendComplex(i.ChannelID, msg.Send()); err != nil {
		return apperr.Internal(err, "failed to post embed", "")
	}

	return b.respondEphemeral(i, "Embed posted successfully.")
}
