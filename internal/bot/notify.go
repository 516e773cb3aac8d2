package bot

import (
	"log/slog"
	"sync"

	"github.com/yenege/ticketbot/internal/messaging"
)

// Notifier sends one-off notifications as detached sends: the triggering
// operation never waits for the outcome, and a failure here is logged but
// never propagated back to it. Recipients the platform reports as gone are
// deactivated, same as during a broadcast.
type Notifier struct {
	platform messaging.Platform
	subs     SubscriberStore
	wg       sync.WaitGroup
}

func NewNotifier(platform messaging.Platform, subs SubscriberStore) *Notifier {
	return &Notifier{platform: platform, subs: subs}
}

// Notify fires the send in the background and returns immediately.
func (n *Notifier) Notify(chatID int64, text string) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		err := n.platform.SendMessage(chatID, text, nil)
		if err == nil {
			return
		}
		slog.Warn("notification send failed", "chat_id", chatID, "error", err)
		if messaging.IsRecipientGone(err) && n.subs != nil {
			if derr := n.subs.DeactivateSubscriber(chatID); derr != nil {
				slog.Warn("failed to deactivate gone subscriber", "chat_id", chatID, "error", derr)
			}
		}
	}()
}

// Wait blocks until all in-flight notifications have finished. Used by
// tests and graceful shutdown.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
