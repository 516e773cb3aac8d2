package messaging

import "strings"

// Update is one inbound event envelope from the chat platform.
// Exactly one of Message or Callback is populated.
type Update struct {
	UpdateID int64
	Message  *Message
	Callback *Callback
}

// Message is an inbound chat message. NewMembers is populated for
// membership events, Text for text messages; the two never coexist.
type Message struct {
	ID         int
	Chat       Chat
	From       User
	Text       string
	ReplyTo    *Message
	NewMembers []User
}

// Callback is a user interaction with an inline button attached to a
// previously sent message.
type Callback struct {
	ID        string
	From      User
	Chat      Chat
	MessageID int
	Data      string
}

type Chat struct {
	ID    int64
	Type  ChatType
	Title string
}

type User struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	IsBot     bool
}

// DisplayName returns the user's visible name, preferring the full name
// over the username.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "unknown"
}

type ChatType string

const (
	ChatTypePrivate    ChatType = "private"
	ChatTypeGroup      ChatType = "group"
	ChatTypeSupergroup ChatType = "supergroup"
	ChatTypeChannel    ChatType = "channel"
)

func (ct ChatType) String() string {
	return string(ct)
}

// IsGroup reports whether the chat is a group or supergroup.
func (ct ChatType) IsGroup() bool {
	return ct == ChatTypeGroup || ct == ChatTypeSupergroup
}

// goneMarkers are error description fragments the platform returns for
// recipients that will never be reachable again.
var goneMarkers = []string{
	"bot was blocked",
	"user is deactivated",
	"chat not found",
	"bot was kicked",
	"user not found",
}

// IsRecipientGone reports whether a send error means the recipient is
// permanently unreachable, as opposed to a transient transport failure.
func IsRecipientGone(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range goneMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
