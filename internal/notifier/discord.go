package notifier

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/daralachab/reservation-api/internal/config"
	"github.com/daralachab/reservation-api/internal/models"
	"go.uber.org/zap"
)

type channelMessenger interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts new reservations to the staff channel.
type DiscordNotifier struct {
	session   channelMessenger
	channelID string
	log       *zap.Logger
}

// NewDiscordNotifier returns an error when the channel is switched off or
// not configured; callers then leave it out of the dispatcher.
func NewDiscordNotifier(cfg *config.Config, log *zap.Logger) (*DiscordNotifier, error) {
	if !cfg.DiscordEnabled {
		return nil, fmt.Errorf("discord notifications are disabled")
	}
	if cfg.DiscordBotToken == "" || cfg.DiscordNotificationsChannelID == "" {
		return nil, fmt.Errorf("discord bot token or channel ID is empty")
	}
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, err
	}
	return &DiscordNotifier{
		session:   session,
		channelID: cfg.DiscordNotificationsChannelID,
		log:       log.Named("discord"),
	}, nil
}

func (n *DiscordNotifier) Name() string { return "discord" }

func (n *DiscordNotifier) Notify(_ context.Context, r models.Reservation) bool {
	if n.session == nil {
		n.log.Warn("discord session is nil")
		return false
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, discordMessage(r)); err != nil {
		n.log.Error("failed to send discord message", zap.Error(err))
		return false
	}
	return true
}
