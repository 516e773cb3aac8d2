package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/yenege/ticketbot/internal/bot"
)

func (s *Store) ListUpcomingEvents(limit int) ([]bot.Event, error) {
	rows, err := s.db.Query(`
		SELECT id, title, venue, price, currency, image_url, starts_at
		FROM events
		WHERE starts_at >= ?
		ORDER BY starts_at
		LIMIT ?
	`, time.Now(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}
	defer rows.Close()

	var events []bot.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (s *Store) GetEventByID(id int64) (*bot.Event, error) {
	row := s.db.QueryRow(`
		SELECT id, title, venue, price, currency, image_url, starts_at
		FROM events
		WHERE id = ?
	`, id)

	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *Store) FindTicketByReference(ref string) (*bot.Ticket, error) {
	var ticket bot.Ticket
	err := s.db.QueryRow(`
		SELECT t.id, t.reference, COALESCE(e.title, ''), COALESCE(t.holder_name, ''),
		       t.status, t.amount, t.currency, t.created_at
		FROM tickets t
		LEFT JOIN events e ON e.id = t.event_id
		WHERE t.reference = ?
	`, ref).Scan(
		&ticket.ID,
		&ticket.Reference,
		&ticket.EventTitle,
		&ticket.HolderName,
		&ticket.Status,
		&ticket.Amount,
		&ticket.Currency,
		&ticket.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return &ticket, nil
}

func (s *Store) GetAggregateStats() (*bot.Stats, error) {
	stats := &bot.Stats{Currency: "ETB"}

	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'success' THEN amount ELSE 0 END), 0)
		FROM tickets
	`).Scan(&stats.TotalTickets, &stats.SuccessfulTickets, &stats.PendingTickets, &stats.Revenue)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket stats: %w", err)
	}

	err = s.db.QueryRow(`
		SELECT COUNT(*) FROM subscribers WHERE is_active = 1
	`).Scan(&stats.ActiveSubscribers)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscribers: %w", err)
	}

	return stats, nil
}

func (s *Store) GetRecentSuccessfulTickets(limit int) ([]bot.Ticket, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.reference, COALESCE(e.title, ''), COALESCE(t.holder_name, ''),
		       t.status, t.amount, t.currency, t.created_at
		FROM tickets t
		LEFT JOIN events e ON e.id = t.event_id
		WHERE t.status = 'success'
		ORDER BY t.created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent tickets: %w", err)
	}
	defer rows.Close()

	var tickets []bot.Ticket
	for rows.Next() {
		var ticket bot.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Reference,
			&ticket.EventTitle,
			&ticket.HolderName,
			&ticket.Status,
			&ticket.Amount,
			&ticket.Currency,
			&ticket.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (bot.Event, error) {
	var event bot.Event
	var venue, imageURL sql.NullString
	err := row.Scan(&event.ID, &event.Title, &venue, &event.Price, &event.Currency, &imageURL, &event.StartsAt)
	if err == sql.ErrNoRows {
		return event, err
	}
	if err != nil {
		return event, fmt.Errorf("failed to scan event: %w", err)
	}
	event.Venue = venue.String
	event.ImageURL = imageURL.String
	return event, nil
}
