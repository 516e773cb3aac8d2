package store

import (
	"fmt"

	"github.com/yenege/ticketbot/internal/bot"
)

func (s *Store) UpsertSubscriber(sub bot.Subscriber) error {
	_, err := s.db.Exec(`
		INSERT INTO subscribers (chat_id, user_id, username, is_active, subscribed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			user_id = excluded.user_id,
			username = excluded.username,
			is_active = excluded.is_active
	`, sub.ChatID, sub.UserID, sub.Username, sub.IsActive, sub.SubscribedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert subscriber: %w", err)
	}
	return nil
}

func (s *Store) DeactivateSubscriber(chatID int64) error {
	_, err := s.db.Exec(`
		UPDATE subscribers SET is_active = 0 WHERE chat_id = ?
	`, chatID)
	if err != nil {
		return fmt.Errorf("failed to deactivate subscriber: %w", err)
	}
	return nil
}

func (s *Store) ListActiveSubscribers() ([]bot.Subscriber, error) {
	rows, err := s.db.Query(`
		SELECT chat_id, user_id, username, is_active, subscribed_at
		FROM subscribers
		WHERE is_active = 1
		ORDER BY subscribed_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []bot.Subscriber
	for rows.Next() {
		var sub bot.Subscriber
		if err := rows.Scan(&sub.ChatID, &sub.UserID, &sub.Username, &sub.IsActive, &sub.SubscribedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subscribers = append(subscribers, sub)
	}
	return subscribers, rows.Err()
}
