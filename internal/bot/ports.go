package bot

import "time"

// ContentStore exposes read-only queries against externally owned ticketing
// data. Implementations return empty results, not errors, when the backing
// store has no matching rows; a nil ContentStore means the feature is not
// configured at all.
type ContentStore interface {
	ListUpcomingEvents(limit int) ([]Event, error)
	GetEventByID(id int64) (*Event, error)
	FindTicketByReference(ref string) (*Ticket, error)
	GetAggregateStats() (*Stats, error)
	GetRecentSuccessfulTickets(limit int) ([]Ticket, error)
}

// SubscriberStore owns the authoritative broadcast subscriber list.
type SubscriberStore interface {
	UpsertSubscriber(sub Subscriber) error
	DeactivateSubscriber(chatID int64) error
	ListActiveSubscribers() ([]Subscriber, error)
}

// AdminLinkStore resolves a platform user to an application admin role.
type AdminLinkStore interface {
	// GetAdminRole returns the active role linked to the platform user,
	// or "" when no active link exists.
	GetAdminRole(platformUserID int64) (string, error)
}

// Event is one upcoming event with its presentation fields.
type Event struct {
	ID       int64
	Title    string
	Venue    string
	Price    float64
	Currency string
	ImageURL string
	StartsAt time.Time
}

// Ticket is a purchased ticket looked up by its opaque reference.
type Ticket struct {
	ID         int64
	Reference  string
	EventTitle string
	HolderName string
	Status     string
	Amount     float64
	Currency   string
	CreatedAt  time.Time
}

// Stats aggregates ticket sales for the admin /stats command.
type Stats struct {
	TotalTickets      int
	SuccessfulTickets int
	PendingTickets    int
	Revenue           float64
	Currency          string
	ActiveSubscribers int
}

// Subscriber is one broadcast recipient.
type Subscriber struct {
	ChatID       int64
	UserID       int64
	Username     string
	IsActive     bool
	SubscribedAt time.Time
}
