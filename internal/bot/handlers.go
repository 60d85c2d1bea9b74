package bot

import (
	"context"
	"fmt"

	"welcomeBot/internal/apperr"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type optionMap = map[string]*discordgo.ApplicationCommandInteractionDataOption

type commandHandler func(b *Bot, ctx context.Context, i *discordgo.InteractionCreate, opts optionMap) error

var commandHandlers = map[string]commandHandler{
	"theme":           (*Bot).handleTheme,
	"embed":           (*Bot).handleEmbed,
	"welcome":         (*Bot).handleWelcome,
	"welcome-preview": (*Bot).handleWelcomePreview,
	"config-show":     (*Bot).handleConfigShow,
}

// interactionCreate handles all slash command interactions
func (b *Bot) interactionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	b.handleCommand(i)
}

// handleCommand routes a slash command to its handler and turns whatever it
// returns, including a panic, into a reply.
func (b *Bot) handleCommand(i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	logger := log.WithFields(log.Fields{
		"command":  data.Name,
		"guild_id": i.GuildID,
		"user_id":  interactionUserID(i),
	})

	defer b.responded.Delete(i.ID)
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("Command handler panicked")
			b.respondError(logger, i, apperr.MsgInternal)
		}
	}()

	handler, ok := commandHandlers[data.Name]
	if !ok {
		b.handleError(logger, i, apperr.Validation("Unknown command"))
		return
	}

	if err := b.checkAdmin(i); err != nil {
		b.handleError(logger, i, err)
		return
	}

	if err := handler(b, context.Background(), i, parseOptions(data.Options)); err != nil {
		b.handleError(logger, i, err)
	}
}

// handleError is the one place command errors become user-visible.
func (b *Bot) handleError(logger *log.Entry, i *discordgo.InteractionCreate, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		logger.WithError(err).Debug("Rejected command input")
	case apperr.KindPermission:
		logger.WithError(err).Warn("Permission denied")
	default:
		logger.WithError(err).Error("Interaction error")
	}
	b.respondError(logger, i, apperr.UserMessage(err))
}

// checkAdmin validates that the invoker is an Administrator in a guild
func (b *Bot) checkAdmin(i *discordgo.InteractionCreate) error {
	if i.GuildID == "" || i.Member == nil {
		return apperr.Validation("This command must be used in a server.")
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		return apperr.Permission(apperr.MsgPermission, nil)
	}
	return nil
}

// Helper functions

func (b *Bot) respondError(logger *log.Entry, i *discordgo.InteractionCreate, message string) {
	if _, done := b.responded.Load(i.ID); done {
		logger.WithField("reply", message).Warn("Interaction already answered, dropping error reply")
		return
	}
	if err := b.respondEphemeral(i, message); err != nil {
		logger.WithError(err).Warn("Failed to send error response")
	}
}

func (b *Bot) respondEphemeral(i *discordgo.InteractionCreate, message string) error {
	return b.respond(i, &discordgo.InteractionResponseData{
		Content: message,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// respond answers the interaction. An interaction can only be answered once, so
// it is marked even when the call fails.
func (b *Bot) respond(i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) error {
	b.responded.Store(i.ID, struct{}{})
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("failed to respond to interaction: %w", err)
	}
	return nil
}

func parseOptions(options []*discordgo.ApplicationCommandInteractionDataOption) optionMap {
	opts := make(optionMap)
	for _, opt := range options {
		opts[opt.Name] = opt
	}
	return opts
}

func stringOption(opts optionMap, name string) string {
	if opt, ok := opts[name]; ok && opt.Type == discordgo.ApplicationCommandOptionString {
		return opt.StringValue()
	}
	return ""
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
