package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/config"
	"gopkg.in/telebot.v4"
)

// NewSession opens the long-polling bot session shared by the gateway and
// the command front-end.
func NewSession(cfg config.TelegramConfig) (*telebot.Bot, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, fmt.Errorf("telegram token is empty")
	}
	timeout := cfg.LongPollTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: timeout},
	})
}

// Gateway flips a group's default posting permissions and delivers
// notification texts over the Telegram Bot API.
type Gateway struct {
	bot    *telebot.Bot
	logger *slog.Logger
}

func NewGateway(bot *telebot.Bot, logger *slog.Logger) *Gateway {
	return &Gateway{bot: bot, logger: logger}
}

// SetPostingRestricted restricts (admins only) or opens (everyone) posting
// in the chat. The Bot API transport has no context plumbing; ctx bounds
// nothing here but keeps the collaborator contract uniform.
func (g *Gateway) SetPostingRestricted(_ context.Context, tenantID string, restricted bool) error {
	chat, err := chatFor(tenantID)
	if err != nil {
		return err
	}

	perms := telebot.NoRestrictions()
	if restricted {
		perms = telebot.NoRights()
	}

	g.logger.Debug("setting group permissions",
		slog.String("tenant_id", tenantID),
		slog.Bool("restricted", restricted))

	if err := g.bot.SetGroupPermissions(chat, perms); err != nil {
		return fmt.Errorf("set group permissions: %w", err)
	}
	return nil
}

// SendText delivers text to the chat.
func (g *Gateway) SendText(_ context.Context, tenantID string, text string) error {
	chat, err := chatFor(tenantID)
	if err != nil {
		return err
	}
	if _, err := g.bot.Send(chat, text); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func chatFor(tenantID string) (*telebot.Chat, error) {
	id, err := strconv.ParseInt(tenantID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat id %q: %w", tenantID, err)
	}
	return &telebot.Chat{ID: id}, nil
}
