package bot

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"welcomeBot/internal/greeter"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type Bot struct {
	session session
	greeter *greeter.Service
	guildID string

	mu         sync.Mutex
	appID      string
	registered []*discordgo.ApplicationCommand

	// IDs of interactions in flight that already got a response.
	responded sync.Map
}

type Config struct {
	Token string
	// GuildID registers commands to a single guild instead of globally.
	GuildID string
}

// New creates a new Discord bot instance
func New(cfg Config, svc *greeter.Service) (*Bot, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("a bot token is required")
	}

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers

	return newBot(dg, svc, cfg.GuildID), nil
}

func newBot(s session, svc *greeter.Service, guildID string) *Bot {
	b := &Bot{
		session: s,
		greeter: svc,
		guildID: strings.TrimSpace(guildID),
	}

	s.AddHandler(b.ready)
	s.AddHandler(b.interactionCreate)
	s.AddHandler(b.guildMemberAdd)

	return b
}

// Start opens the Discord connection and blocks until the process is signalled.
// Commands are registered from the ready handler.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	log.Info("Bot is now running. Press CTRL-C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	return nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	log.Info("Shutting down bot...")

	if b.guildID != "" {
		if err := b.cleanupCommands(); err != nil {
			log.WithError(err).Warn("Failed to clean up guild commands")
		}
	}

	if err := b.session.Close(); err != nil {
		return fmt.Errorf("failed to close Discord session: %w", err)
	}
	return nil
}

func (b *Bot) ready(s *discordgo.Session, event *discordgo.Ready) {
	log.WithFields(log.Fields{
		"user":   event.User.Username,
		"id":     event.User.ID,
		"guilds": len(event.Guilds),
	}).Info("Logged in")

	if err := b.registerCommands(event.User.ID); err != nil {
		log.WithError(err).Error("Failed to register commands")
	}

	if s != nil {
		if err := s.UpdateGameStatus(0, "/welcome"); err != nil {
			log.WithError(err).Debug("Failed to set status")
		}
	}
}
