package bot

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/yenege/ticketbot/internal/messaging"
	"github.com/yenege/ticketbot/internal/metrics"
)

// Outcome is the aggregate result of one broadcast invocation.
// Sent + Failed always equals the subscriber snapshot size.
type Outcome struct {
	Sent   int
	Failed int
}

// Broadcaster delivers one message to every active subscriber. Per-recipient
// failures are isolated: logged, tallied, and never abort the batch.
type Broadcaster struct {
	platform messaging.Platform
	subs     SubscriberStore
}

func NewBroadcaster(platform messaging.Platform, subs SubscriberStore) *Broadcaster {
	return &Broadcaster{platform: platform, subs: subs}
}

// Broadcast reads the active-subscriber list once, then delivers to each
// recipient sequentially. Recipients the platform reports as permanently
// gone are deactivated in the subscriber store as a side effect.
func (b *Broadcaster) Broadcast(text, parseMode string) Outcome {
	id := uuid.NewString()[:8]

	subscribers, err := b.subs.ListActiveSubscribers()
	if err != nil {
		slog.Error("broadcast aborted: failed to list subscribers", "broadcast_id", id, "error", err)
		return Outcome{}
	}

	slog.Info("broadcast started", "broadcast_id", id, "recipients", len(subscribers))

	var opts *messaging.SendOptions
	if parseMode != "" {
		opts = &messaging.SendOptions{ParseMode: parseMode}
	}

	var outcome Outcome
	for _, sub := range subscribers {
		if err := b.platform.SendMessage(sub.ChatID, text, opts); err != nil {
			slog.Warn("broadcast delivery failed",
				"broadcast_id", id,
				"chat_id", sub.ChatID,
				"error", err)
			b.deactivateIfGone(sub.ChatID, err)
			outcome.Failed++
			metrics.BroadcastDeliveriesTotal.WithLabelValues("failed").Inc()
			continue
		}
		outcome.Sent++
		metrics.BroadcastDeliveriesTotal.WithLabelValues("sent").Inc()
	}

	slog.Info("broadcast finished",
		"broadcast_id", id,
		"sent", outcome.Sent,
		"failed", outcome.Failed)
	return outcome
}

func (b *Broadcaster) deactivateIfGone(chatID int64, sendErr error) {
	if !messaging.IsRecipientGone(sendErr) {
		return
	}
	if err := b.subs.DeactivateSubscriber(chatID); err != nil {
		slog.Warn("failed to deactivate gone subscriber", "chat_id", chatID, "error", err)
		return
	}
	slog.Info("deactivated gone subscriber", "chat_id", chatID)
}
