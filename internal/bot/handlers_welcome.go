package bot

import (
	"context"
	"fmt"

	"welcomeBot/internal/apperr"
	"welcomeBot/internal/greeter"

	"github.com/bwmarrin/discordgo"
)

// handleWelcome stores the welcome channel, template and optional auto-role
func (b *Bot) handleWelcome(ctx context.Context, i *discordgo.InteractionCreate, opts optionMap) error {
	channelOpt := opts["channel"]
	if channelOpt == nil {
		return apperr.Validation("Channel is required.")
	}
	// A nil session resolves the option to its ID without touching state.
	channel := channelOpt.ChannelValue(nil)

	var roleID string
	if roleOpt := opts["role"]; roleOpt != nil {
		roleID = roleOpt.RoleValue(nil, i.GuildID).ID
	}

	if err := b.greeter.ConfigureWelcome(ctx, i.GuildID, channel.ID, stringOption(opts, "embed_json"), roleID); err != nil {
		return err
	}

	return b.respond(i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("Welcome message set to %s.", channel.Mention()),
	})
}

// handleWelcomePreview renders the welcome for the invoker, visible only to them
func (b *Bot) handleWelcomePreview(ctx context.Context, i *discordgo.InteractionCreate, _ optionMap) error {
	msg, err := b.greeter.PreviewWelcome(ctx, i.GuildID, memberOf(i.Member))
	if err != nil {
		return err
	}

	return b.respond(i, &discordgo.InteractionResponseData{
		Content: msg.Content,
		Embeds:  msg.Embeds,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

func memberOf(m *discordgo.Member) greeter.Member {
	if m == nil || m.User == nil {
		return greeter.Member{}
	}
	return greeter.Member{
		Mention:  m.User.Mention(),
		Username: m.User.Username,
	}
}
