package bot

import (
	"context"

	"welcomeBot/internal/greeter"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// guildMemberAdd assigns the auto-role and posts the welcome message. Failures
// are logged and never reach the member.
func (b *Bot) guildMemberAdd(_ *discordgo.Session, event *discordgo.GuildMemberAdd) {
	if event.Member == nil || event.User == nil {
		return
	}

	logger := log.WithFields(log.Fields{
		"guild_id": event.GuildID,
		"user_id":  event.User.ID,
	})

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("Member join handler panicked")
		}
	}()

	member := greeter.Member{
		Mention:  event.User.Mention(),
		Username: event.User.Username,
	}
	welcome, err := b.greeter.MemberJoined(context.Background(), event.GuildID, member)

	if welcome != nil && welcome.RoleID != "" {
		if err := b.session.GuildMemberRoleAdd(event.GuildID, event.User.ID, welcome.RoleID); err != nil {
			logger.WithError(err).WithField("role_id", welcome.RoleID).Error("Cannot assign welcome role")
		}
	}

	if err != nil {
		logger.WithError(err).Error("Failed to send welcome message")
		return
	}
	if welcome.Message == nil {
		return
	}

	if _, err := b.session.ChannelMessageSendComplex(welcome.ChannelID, welcome.Message.Send()); err != nil {
		logger.WithError(err).WithField("channel_id", welcome.ChannelID).Error("Failed to send welcome message")
		return
	}
	logger.Debug("Sent welcome message")
}
