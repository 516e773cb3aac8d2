package bot

import (
	"strings"
	"testing"
	"time"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		currency string
		want     string
	}{
		{"free", 0, "ETB", "Free"},
		{"default currency", 500, "", "500.00 ETB"},
		{"explicit currency", 19.9, "USD", "19.90 USD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPrice(tt.price, tt.currency); got != tt.want {
				t.Errorf("formatPrice(%v, %q) = %q, want %q", tt.price, tt.currency, got, tt.want)
			}
		})
	}
}

func TestFormatEvent(t *testing.T) {
	starts := time.Date(2026, time.September, 12, 19, 30, 0, 0, time.UTC)
	event := Event{
		Title:    "Rophnan Live",
		Venue:    "Ghion Hotel",
		Price:    800,
		Currency: "ETB",
		StartsAt: starts,
	}

	got := formatEvent(event)
	for _, want := range []string{"Rophnan Live", "Sat, Sep 12 2026", "7:30 PM", "Ghion Hotel", "800.00 ETB"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatEvent() missing %q:\n%s", want, got)
		}
	}

	event.Venue = ""
	if strings.Contains(formatEvent(event), "📍") {
		t.Error("formatEvent() should omit the venue line when venue is empty")
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"success", "✅ Paid"},
		{"pending", "⏳ Pending"},
		{"failed", "❌ Failed"},
		{"refunded", "refunded"},
	}

	for _, tt := range tests {
		if got := statusLabel(tt.status); got != tt.want {
			t.Errorf("statusLabel(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestFormatTicket(t *testing.T) {
	ticket := Ticket{
		Reference:  "YENEGE42",
		EventTitle: "Rophnan Live",
		HolderName: "Abel T",
		Status:     "success",
		Amount:     800,
		Currency:   "ETB",
		CreatedAt:  time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC),
	}

	got := formatTicket(ticket)
	for _, want := range []string{"YENEGE42", "Rophnan Live", "Abel T", "✅ Paid", "800.00 ETB"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatTicket() missing %q:\n%s", want, got)
		}
	}
}

func TestFormatStats(t *testing.T) {
	stats := &Stats{
		TotalTickets:      120,
		SuccessfulTickets: 95,
		PendingTickets:    10,
		Revenue:           76000,
		Currency:          "ETB",
		ActiveSubscribers: 340,
	}

	got := formatStats(stats)
	for _, want := range []string{"120", "95", "10", "76000.00 ETB", "340"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatStats() missing %q:\n%s", want, got)
		}
	}
}

func TestFormatRecentTickets(t *testing.T) {
	tickets := []Ticket{
		{Reference: "YENEGE1", EventTitle: "Show A", CreatedAt: time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)},
		{Reference: "YENEGE2", EventTitle: "Show B", CreatedAt: time.Date(2026, time.August, 2, 9, 0, 0, 0, time.UTC)},
	}

	got := formatRecentTickets(tickets)
	if !strings.Contains(got, "Last 2") {
		t.Errorf("formatRecentTickets() missing count header:\n%s", got)
	}
	for _, want := range []string{"YENEGE1", "Show A", "YENEGE2", "Show B"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatRecentTickets() missing %q:\n%s", want, got)
		}
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("formatRecentTickets() should not end with a newline")
	}
}
