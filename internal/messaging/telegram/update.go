package telegram

import (
	"encoding/json"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yenege/ticketbot/internal/messaging"
)

// ErrMissingUpdateID marks a payload without a numeric update_id. This is a
// structural defect in the inbound event, rejected before any handler runs.
var ErrMissingUpdateID = errors.New("update is missing a numeric update_id")

// ParseUpdate validates and converts one raw webhook payload into the
// platform-agnostic update shape the bot core consumes.
func ParseUpdate(body []byte) (*messaging.Update, error) {
	var probe struct {
		UpdateID *int64 `json:"update_id"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("malformed update payload: %w", err)
	}
	if probe.UpdateID == nil {
		return nil, ErrMissingUpdateID
	}

	var raw tgbotapi.Update
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("malformed update payload: %w", err)
	}

	update := &messaging.Update{UpdateID: int64(raw.UpdateID)}
	if raw.Message != nil {
		update.Message = convertMessage(raw.Message)
	}
	if raw.CallbackQuery != nil {
		update.Callback = convertCallback(raw.CallbackQuery)
	}
	return update, nil
}

func convertMessage(msg *tgbotapi.Message) *messaging.Message {
	converted := &messaging.Message{
		ID:   msg.MessageID,
		Text: msg.Text,
	}
	if msg.Chat != nil {
		converted.Chat = convertChat(msg.Chat)
	}
	if msg.From != nil {
		converted.From = convertUser(msg.From)
	}
	if msg.ReplyToMessage != nil {
		converted.ReplyTo = convertMessage(msg.ReplyToMessage)
	}
	if msg.NewChatMembers != nil {
		members := make([]messaging.User, 0, len(msg.NewChatMembers))
		for i := range msg.NewChatMembers {
			members = append(members, convertUser(&msg.NewChatMembers[i]))
		}
		converted.NewMembers = members
	}
	return converted
}

func convertCallback(cb *tgbotapi.CallbackQuery) *messaging.Callback {
	converted := &messaging.Callback{
		ID:   cb.ID,
		Data: cb.Data,
	}
	if cb.From != nil {
		converted.From = convertUser(cb.From)
	}
	if cb.Message != nil {
		converted.MessageID = cb.Message.MessageID
		if cb.Message.Chat != nil {
			converted.Chat = convertChat(cb.Message.Chat)
		}
	}
	return converted
}

func convertChat(chat *tgbotapi.Chat) messaging.Chat {
	return messaging.Chat{
		ID:    chat.ID,
		Type:  convertChatType(chat.Type),
		Title: chat.Title,
	}
}

func convertUser(user *tgbotapi.User) messaging.User {
	return messaging.User{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.UserName,
		IsBot:     user.IsBot,
	}
}

func convertChatMember(member tgbotapi.ChatMember) messaging.ChatMember {
	converted := messaging.ChatMember{Status: member.Status}
	if member.User != nil {
		converted.User = convertUser(member.User)
	}
	return converted
}

func convertChatType(tgType string) messaging.ChatType {
	switch tgType {
	case "private":
		return messaging.ChatTypePrivate
	case "group":
		return messaging.ChatTypeGroup
	case "supergroup":
		return messaging.ChatTypeSupergroup
	case "channel":
		return messaging.ChatTypeChannel
	default:
		return messaging.ChatTypePrivate
	}
}
