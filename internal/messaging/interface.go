package messaging

import "time"

// Platform is the outbound chat-platform API surface used by the bot core.
// One method per remote operation; implementations resolve successfully only
// when the platform reports success and otherwise return the remote error
// description. No retry or backoff happens at this layer.
type Platform interface {
	SendMessage(chatID int64, text string, opts *SendOptions) error
	SendPhoto(chatID int64, photoURL, caption string, opts *SendOptions) error
	AnswerCallback(callbackID, text string) error

	GetChatMember(chatID, userID int64) (*ChatMember, error)
	GetChat(chatID int64) (*ChatInfo, error)
	GetChatMemberCount(chatID int64) (int, error)
	GetChatAdmins(chatID int64) ([]ChatMember, error)

	BanMember(chatID, userID int64) error
	UnbanMember(chatID, userID int64) error
	RestrictMember(chatID, userID int64, until time.Time, canSend bool) error
	PinMessage(chatID int64, messageID int) error
	UnpinMessage(chatID int64) error
	DeleteMessage(chatID int64, messageID int) error

	// Me returns the bot's own identity as reported by the platform.
	Me() User
}

// SendOptions carries optional send parameters.
type SendOptions struct {
	ParseMode string
	ReplyTo   int // message ID to reply to, 0 = no reply
	Buttons   [][]Button
}

// Button is one inline keyboard button attached to an outgoing message.
type Button struct {
	Text string
	Data string
}

// ChatMember is a member of a chat together with their status in it.
type ChatMember struct {
	User   User
	Status string
}

// IsAdmin reports whether the member holds administrator or owner status.
func (m ChatMember) IsAdmin() bool {
	return m.Status == "administrator" || m.Status == "creator"
}

// ChatInfo describes a chat as reported by the platform.
type ChatInfo struct {
	ID          int64
	Type        ChatType
	Title       string
	Description string
}
