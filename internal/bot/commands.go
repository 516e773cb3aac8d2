package bot

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/yenege/ticketbot/internal/messaging"
)

func (d *Dispatcher) handleStart(ctx *CommandContext) error {
	text := welcomeText()
	// Content-level branch only: listed admins get an extra hint line.
	// This deliberately avoids the full admin resolution path.
	if d.auth.IsListedAdmin(ctx.Msg.From.ID) {
		text += "\n\n🛠 Admin commands: /stats /recent /broadcast"
	}
	return d.replyOrErr(ctx.Msg, text)
}

func (d *Dispatcher) handleEvents(ctx *CommandContext) error {
	if d.content == nil {
		return d.replyOrErr(ctx.Msg, "📅 No upcoming events right now. Check back soon!")
	}

	events, err := d.content.ListUpcomingEvents(upcomingEventsLimit)
	if err != nil {
		return fmt.Errorf("failed to list upcoming events: %w", err)
	}
	if len(events) == 0 {
		return d.replyOrErr(ctx.Msg, "📅 No upcoming events right now. Check back soon!")
	}

	for _, event := range events {
		if err := d.sendEvent(ctx.Msg.Chat.ID, event); err != nil {
			// One broken event card never hides the rest of the list.
			slog.Warn("failed to send event card",
				"event_id", event.ID,
				"chat_id", ctx.Msg.Chat.ID,
				"error", err)
		}
	}
	return nil
}

func (d *Dispatcher) sendEvent(chatID int64, event Event) error {
	text := formatEvent(event)
	if event.ImageURL != "" {
		return d.platform.SendPhoto(chatID, event.ImageURL, text, nil)
	}

	opts := &messaging.SendOptions{
		Buttons: [][]messaging.Button{{
			{Text: "View details", Data: fmt.Sprintf("event:%d", event.ID)},
		}},
	}
	return d.platform.SendMessage(chatID, text, opts)
}

func (d *Dispatcher) handleEventByID(ctx *CommandContext) error {
	id, err := strconv.ParseInt(ctx.Suffix, 10, 64)
	if err != nil || id <= 0 {
		return d.replyOrErr(ctx.Msg, "Usage: /event_<id>, e.g. /event_12")
	}
	return d.sendEventDetails(ctx.Msg.Chat.ID, id)
}

func (d *Dispatcher) sendEventDetails(chatID, eventID int64) error {
	if d.content == nil {
		return d.send(chatID, "Event not found.")
	}

	event, err := d.content.GetEventByID(eventID)
	if err != nil {
		return fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	if event == nil {
		return d.send(chatID, "Event not found.")
	}

	text := formatEvent(*event)
	if event.ImageURL != "" {
		return d.platform.SendPhoto(chatID, event.ImageURL, text, nil)
	}
	return d.send(chatID, text)
}

func (d *Dispatcher) handleVerify(ctx *CommandContext) error {
	if len(ctx.Args) == 0 {
		return d.replyOrErr(ctx.Msg, "Usage: /verify <reference>\nExample: /verify YENEGE123")
	}

	ref := strings.ToUpper(ctx.Args[0])
	if d.content == nil {
		return d.replyOrErr(ctx.Msg, ticketNotFoundReply(ref))
	}

	ticket, err := d.content.FindTicketByReference(ref)
	if err != nil {
		return fmt.Errorf("failed to find ticket %s: %w", ref, err)
	}
	if ticket == nil {
		return d.replyOrErr(ctx.Msg, ticketNotFoundReply(ref))
	}
	return d.replyOrErr(ctx.Msg, formatTicket(*ticket))
}

func (d *Dispatcher) handleSubscribe(ctx *CommandContext) error {
	sub := Subscriber{
		ChatID:       ctx.Msg.Chat.ID,
		UserID:       ctx.Msg.From.ID,
		Username:     ctx.Msg.From.Username,
		IsActive:     true,
		SubscribedAt: time.Now(),
	}
	if err := d.subs.UpsertSubscriber(sub); err != nil {
		return fmt.Errorf("failed to upsert subscriber: %w", err)
	}
	return d.replyOrErr(ctx.Msg, "🔔 You're subscribed! You'll be notified about new events.")
}

func (d *Dispatcher) handleUnsubscribe(ctx *CommandContext) error {
	if err := d.subs.DeactivateSubscriber(ctx.Msg.Chat.ID); err != nil {
		return fmt.Errorf("failed to deactivate subscriber: %w", err)
	}
	return d.replyOrErr(ctx.Msg, "🔕 You're unsubscribed. Send /subscribe any time to rejoin.")
}

func (d *Dispatcher) handleStats(ctx *CommandContext) error {
	if d.content == nil {
		return d.replyOrErr(ctx.Msg, replyUnavailable)
	}

	stats, err := d.content.GetAggregateStats()
	if err != nil {
		return fmt.Errorf("failed to get aggregate stats: %w", err)
	}
	return d.replyOrErr(ctx.Msg, formatStats(stats))
}

func (d *Dispatcher) handleRecent(ctx *CommandContext) error {
	if d.content == nil {
		return d.replyOrErr(ctx.Msg, replyUnavailable)
	}

	tickets, err := d.content.GetRecentSuccessfulTickets(recentTicketsLimit)
	if err != nil {
		return fmt.Errorf("failed to get recent tickets: %w", err)
	}
	if len(tickets) == 0 {
		return d.replyOrErr(ctx.Msg, "No successful tickets yet.")
	}
	return d.replyOrErr(ctx.Msg, formatRecentTickets(tickets))
}

func (d *Dispatcher) handleBroadcast(ctx *CommandContext) error {
	if len(ctx.Args) == 0 {
		return d.replyOrErr(ctx.Msg, "Usage: /broadcast <message>")
	}

	text := strings.Join(ctx.Args, " ")
	outcome := d.broadcaster.Broadcast(text, "")
	return d.replyOrErr(ctx.Msg,
		fmt.Sprintf("📣 Broadcast complete: %d sent, %d failed.", outcome.Sent, outcome.Failed))
}

// HandleNewMembers greets every newly joined user except the bot itself.
// The welcome is fired without waiting so ingestion is never delayed by it.
func (d *Dispatcher) HandleNewMembers(msg *messaging.Message) error {
	self := d.platform.Me()
	for _, member := range msg.NewMembers {
		if member.ID == self.ID {
			continue
		}
		text := fmt.Sprintf("👋 Welcome, %s! Send /events to see what's coming up.", member.DisplayName())
		d.notifier.Notify(msg.Chat.ID, text)
	}
	return nil
}

// HandleCallback answers inline-button interactions. Unknown payloads are
// acknowledged silently so the client spinner always clears.
func (d *Dispatcher) HandleCallback(cb *messaging.Callback) error {
	if err := d.platform.AnswerCallback(cb.ID, ""); err != nil {
		slog.Warn("failed to answer callback", "callback_id", cb.ID, "error", err)
	}

	if suffix, ok := strings.CutPrefix(cb.Data, "event:"); ok {
		id, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil {
			return nil
		}
		return d.sendEventDetails(cb.Chat.ID, id)
	}
	return nil
}

func (d *Dispatcher) send(chatID int64, text string) error {
	return d.platform.SendMessage(chatID, text, nil)
}

// replyOrErr sends a reply and propagates the send failure to the caller,
// unlike reply which is used for precondition rejections.
func (d *Dispatcher) replyOrErr(msg *messaging.Message, text string) error {
	return d.platform.SendMessage(msg.Chat.ID, text, nil)
}

func ticketNotFoundReply(ref string) string {
	return fmt.Sprintf("❌ No ticket found for reference %s.", ref)
}
