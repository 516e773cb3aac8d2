package bot

import (
	"log/slog"

	"github.com/yenege/ticketbot/internal/messaging"
)

// AdminRole is the application role that grants platform-admin capability
// through the admin link table.
const AdminRole = "admin"

// Authorizer resolves admin capability for acting users. Every check is
// recomputed per call; the allow-list and link table can change between
// requests, so nothing is cached.
type Authorizer struct {
	allowlist map[int64]bool
	links     AdminLinkStore
	platform  messaging.Platform
}

func NewAuthorizer(adminIDs []int64, links AdminLinkStore, platform messaging.Platform) *Authorizer {
	allowlist := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		allowlist[id] = true
	}
	return &Authorizer{
		allowlist: allowlist,
		links:     links,
		platform:  platform,
	}
}

// IsListedAdmin checks only the static allow-list. Cheap and local; used for
// cosmetic branches like the /start admin hint.
func (a *Authorizer) IsListedAdmin(userID int64) bool {
	return a.allowlist[userID]
}

// IsPlatformAdmin reports whether the user may invoke bot-wide admin
// commands. Lookup failures degrade to false, never to an error.
func (a *Authorizer) IsPlatformAdmin(userID int64) bool {
	if a.allowlist[userID] {
		return true
	}
	if a.links == nil {
		return false
	}

	role, err := a.links.GetAdminRole(userID)
	if err != nil {
		slog.Warn("admin link lookup failed", "user_id", userID, "error", err)
		return false
	}
	return role == AdminRole
}

// IsGroupAdmin reports whether the user holds administrator or owner status
// in the given chat, as reported by the platform. Transport failures degrade
// to false.
func (a *Authorizer) IsGroupAdmin(chatID, userID int64) bool {
	member, err := a.platform.GetChatMember(chatID, userID)
	if err != nil {
		slog.Warn("chat member lookup failed", "chat_id", chatID, "user_id", userID, "error", err)
		return false
	}
	return member.IsAdmin()
}
