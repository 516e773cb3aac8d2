package bot

import (
	"fmt"
	"strconv"
	"time"

	"github.com/yenege/ticketbot/internal/messaging"
)

const (
	defaultMuteHours = 24
	minMuteHours     = 1
	maxMuteHours     = 720
)

// replyTarget resolves the user a moderation command acts on from the
// replied-to message. No remote call is made when the reply is missing.
func replyTarget(msg *messaging.Message) (*messaging.User, bool) {
	if msg.ReplyTo == nil || msg.ReplyTo.From.ID == 0 {
		return nil, false
	}
	return &msg.ReplyTo.From, true
}

// parseMuteHours reads the mute duration argument in hours. Missing or
// out-of-range values silently fall back to the default.
func parseMuteHours(args []string) int {
	if len(args) == 0 {
		return defaultMuteHours
	}
	hours, err := strconv.Atoi(args[0])
	if err != nil || hours < minMuteHours || hours > maxMuteHours {
		return defaultMuteHours
	}
	return hours
}

func (d *Dispatcher) handleMute(ctx *CommandContext) error {
	target, ok := replyTarget(ctx.Msg)
	if !ok {
		return d.replyOrErr(ctx.Msg, "Reply to the user's message with /mute [hours] to mute them.")
	}

	hours := parseMuteHours(ctx.Args)
	until := time.Now().Add(time.Duration(hours) * time.Hour)
	if err := d.platform.RestrictMember(ctx.Msg.Chat.ID, target.ID, until, false); err != nil {
		return fmt.Errorf("failed to mute user %d: %w", target.ID, err)
	}
	return d.replyOrErr(ctx.Msg,
		fmt.Sprintf("🔇 Muted %s for %d hours.", target.DisplayName(), hours))
}

func (d *Dispatcher) handleUnmute(ctx *CommandContext) error {
	target, ok := replyTarget(ctx.Msg)
	if !ok {
		return d.replyOrErr(ctx.Msg, "Reply to the user's message with /unmute to unmute them.")
	}

	if err := d.platform.RestrictMember(ctx.Msg.Chat.ID, target.ID, time.Time{}, true); err != nil {
		return fmt.Errorf("failed to unmute user %d: %w", target.ID, err)
	}
	return d.replyOrErr(ctx.Msg, fmt.Sprintf("🔊 Unmuted %s.", target.DisplayName()))
}

func (d *Dispatcher) handleBan(ctx *CommandContext) error {
	target, ok := replyTarget(ctx.Msg)
	if !ok {
		return d.replyOrErr(ctx.Msg, "Reply to the user's message with /ban to ban them.")
	}

	if err := d.platform.BanMember(ctx.Msg.Chat.ID, target.ID); err != nil {
		return fmt.Errorf("failed to ban user %d: %w", target.ID, err)
	}
	return d.replyOrErr(ctx.Msg, fmt.Sprintf("⛔ Banned %s.", target.DisplayName()))
}

func (d *Dispatcher) handleUnban(ctx *CommandContext) error {
	var userID int64
	if target, ok := replyTarget(ctx.Msg); ok {
		userID = target.ID
	} else if len(ctx.Args) > 0 {
		id, err := strconv.ParseInt(ctx.Args[0], 10, 64)
		if err != nil || id <= 0 {
			return d.replyOrErr(ctx.Msg, "Usage: reply with /unban, or /unban <user id>.")
		}
		userID = id
	} else {
		return d.replyOrErr(ctx.Msg, "Usage: reply with /unban, or /unban <user id>.")
	}

	if err := d.platform.UnbanMember(ctx.Msg.Chat.ID, userID); err != nil {
		return fmt.Errorf("failed to unban user %d: %w", userID, err)
	}
	return d.replyOrErr(ctx.Msg, fmt.Sprintf("✅ Unbanned user %d.", userID))
}

func (d *Dispatcher) handleKick(ctx *CommandContext) error {
	target, ok := replyTarget(ctx.Msg)
	if !ok {
		return d.replyOrErr(ctx.Msg, "Reply to the user's message with /kick to remove them.")
	}

	// Ban then immediately unban: removes the user without a lasting ban.
	if err := d.platform.BanMember(ctx.Msg.Chat.ID, target.ID); err != nil {
		return fmt.Errorf("failed to kick user %d: %w", target.ID, err)
	}
	if err := d.platform.UnbanMember(ctx.Msg.Chat.ID, target.ID); err != nil {
		return fmt.Errorf("failed to lift kick ban for user %d: %w", target.ID, err)
	}
	return d.replyOrErr(ctx.Msg, fmt.Sprintf("👢 Kicked %s.", target.DisplayName()))
}

func (d *Dispatcher) handlePin(ctx *CommandContext) error {
	if ctx.Msg.ReplyTo == nil {
		return d.replyOrErr(ctx.Msg, "Reply to the message you want pinned with /pin.")
	}

	if err := d.platform.PinMessage(ctx.Msg.Chat.ID, ctx.Msg.ReplyTo.ID); err != nil {
		return fmt.Errorf("failed to pin message: %w", err)
	}
	return d.replyOrErr(ctx.Msg, "📌 Pinned.")
}

func (d *Dispatcher) handleUnpin(ctx *CommandContext) error {
	if err := d.platform.UnpinMessage(ctx.Msg.Chat.ID); err != nil {
		return fmt.Errorf("failed to unpin message: %w", err)
	}
	return d.replyOrErr(ctx.Msg, "📌 Unpinned.")
}

func (d *Dispatcher) handleDel(ctx *CommandContext) error {
	if ctx.Msg.ReplyTo == nil {
		return d.replyOrErr(ctx.Msg, "Reply to the message you want removed with /del.")
	}

	if err := d.platform.DeleteMessage(ctx.Msg.Chat.ID, ctx.Msg.ReplyTo.ID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (d *Dispatcher) handleGroupInfo(ctx *CommandContext) error {
	chat, err := d.platform.GetChat(ctx.Msg.Chat.ID)
	if err != nil {
		return fmt.Errorf("failed to get chat info: %w", err)
	}

	count, err := d.platform.GetChatMemberCount(ctx.Msg.Chat.ID)
	if err != nil {
		return fmt.Errorf("failed to get member count: %w", err)
	}

	admins, err := d.platform.GetChatAdmins(ctx.Msg.Chat.ID)
	if err != nil {
		return fmt.Errorf("failed to get admins: %w", err)
	}

	return d.replyOrErr(ctx.Msg, formatGroupInfo(chat, count, admins))
}
