package telegram

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yenege/ticketbot/internal/messaging"
)

// Client implements messaging.Platform over the Telegram Bot API.
type Client struct {
	bot *tgbotapi.BotAPI
}

func NewClient(token string, timeout time.Duration) (*Client, error) {
	httpClient := &http.Client{Timeout: timeout}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot.Debug = false
	slog.Info("Authorized on Telegram account", "username", bot.Self.UserName)

	return &Client{bot: bot}, nil
}

func (c *Client) Me() messaging.User {
	return convertUser(&c.bot.Self)
}

// SetWebhook registers the inbound webhook URL with Telegram, along with
// the shared secret the platform echoes back on every delivery.
func (c *Client) SetWebhook(url, secret string) error {
	params := tgbotapi.Params{"url": url}
	if secret != "" {
		params["secret_token"] = secret
	}
	if _, err := c.bot.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

func (c *Client) SendMessage(chatID int64, text string, opts *messaging.SendOptions) error {
	msg := tgbotapi.NewMessage(chatID, text)
	applyOptions(&msg.BaseChat, opts)
	if opts != nil {
		msg.ParseMode = opts.ParseMode
	}

	if _, err := c.bot.Send(msg); err != nil {
		// Markdown parse failures are common with user-supplied text;
		// retry once as plain text before giving up.
		if msg.ParseMode != "" {
			msg.ParseMode = ""
			if _, retryErr := c.bot.Send(msg); retryErr == nil {
				return nil
			}
		}
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (c *Client) SendPhoto(chatID int64, photoURL, caption string, opts *messaging.SendOptions) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photoURL))
	photo.Caption = caption
	applyOptions(&photo.BaseChat, opts)
	if opts != nil {
		photo.ParseMode = opts.ParseMode
	}

	if _, err := c.bot.Send(photo); err != nil {
		return fmt.Errorf("failed to send photo: %w", err)
	}
	return nil
}

func (c *Client) AnswerCallback(callbackID, text string) error {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := c.bot.Request(callback); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

func (c *Client) GetChatMember(chatID, userID int64) (*messaging.ChatMember, error) {
	member, err := c.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get chat member: %w", err)
	}

	converted := convertChatMember(member)
	return &converted, nil
}

func (c *Client) GetChat(chatID int64) (*messaging.ChatInfo, error) {
	chat, err := c.bot.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}

	return &messaging.ChatInfo{
		ID:          chat.ID,
		Type:        convertChatType(chat.Type),
		Title:       chat.Title,
		Description: chat.Description,
	}, nil
}

func (c *Client) GetChatMemberCount(chatID int64) (int, error) {
	count, err := c.bot.GetChatMembersCount(tgbotapi.ChatMemberCountConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get chat member count: %w", err)
	}
	return count, nil
}

func (c *Client) GetChatAdmins(chatID int64) ([]messaging.ChatMember, error) {
	members, err := c.bot.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get chat administrators: %w", err)
	}

	admins := make([]messaging.ChatMember, 0, len(members))
	for _, m := range members {
		admins = append(admins, convertChatMember(m))
	}
	return admins, nil
}

func (c *Client) BanMember(chatID, userID int64) error {
	_, err := c.bot.Request(tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
	})
	if err != nil {
		return fmt.Errorf("failed to ban member: %w", err)
	}
	return nil
}

func (c *Client) UnbanMember(chatID, userID int64) error {
	_, err := c.bot.Request(tgbotapi.UnbanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		OnlyIfBanned:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to unban member: %w", err)
	}
	return nil
}

func (c *Client) RestrictMember(chatID, userID int64, until time.Time, canSend bool) error {
	cfg := tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID},
		Permissions: &tgbotapi.ChatPermissions{
			CanSendMessages:       canSend,
			CanSendMediaMessages:  canSend,
			CanSendOtherMessages:  canSend,
			CanAddWebPagePreviews: canSend,
		},
	}
	if !until.IsZero() {
		cfg.UntilDate = until.Unix()
	}

	if _, err := c.bot.Request(cfg); err != nil {
		return fmt.Errorf("failed to restrict member: %w", err)
	}
	return nil
}

func (c *Client) PinMessage(chatID int64, messageID int) error {
	_, err := c.bot.Request(tgbotapi.PinChatMessageConfig{
		ChatID:              chatID,
		MessageID:           messageID,
		DisableNotification: true,
	})
	if err != nil {
		return fmt.Errorf("failed to pin message: %w", err)
	}
	return nil
}

func (c *Client) UnpinMessage(chatID int64) error {
	_, err := c.bot.Request(tgbotapi.UnpinChatMessageConfig{ChatID: chatID})
	if err != nil {
		return fmt.Errorf("failed to unpin message: %w", err)
	}
	return nil
}

func (c *Client) DeleteMessage(chatID int64, messageID int) error {
	if _, err := c.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func applyOptions(base *tgbotapi.BaseChat, opts *messaging.SendOptions) {
	if opts == nil {
		return
	}
	if opts.ReplyTo != 0 {
		base.ReplyToMessageID = opts.ReplyTo
	}
	if len(opts.Buttons) > 0 {
		base.ReplyMarkup = buildKeyboard(opts.Buttons)
	}
}

func buildKeyboard(rows [][]messaging.Button) tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		keyboard = append(keyboard, buttons)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}
