package bot

import (
	"fmt"
	"strings"

	"github.com/yenege/ticketbot/internal/messaging"
)

func welcomeText() string {
	return `🎟 Welcome to the Yenege ticket bot!

/events - Upcoming events
/verify <reference> - Check a ticket by its reference
/subscribe - Get notified about new events
/unsubscribe - Stop notifications
/help - Show this message

Tap "View details" under any event to see more.`
}

func formatEvent(event Event) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🎟 %s\n", event.Title))
	b.WriteString(fmt.Sprintf("📅 %s\n", event.StartsAt.Format("Mon, Jan 2 2006")))
	b.WriteString(fmt.Sprintf("🕒 %s\n", event.StartsAt.Format("3:04 PM")))
	if event.Venue != "" {
		b.WriteString(fmt.Sprintf("📍 %s\n", event.Venue))
	}
	b.WriteString(fmt.Sprintf("💵 %s", formatPrice(event.Price, event.Currency)))

	return b.String()
}

func formatPrice(price float64, currency string) string {
	if price == 0 {
		return "Free"
	}
	if currency == "" {
		currency = "ETB"
	}
	return fmt.Sprintf("%.2f %s", price, currency)
}

func formatTicket(ticket Ticket) string {
	var b strings.Builder

	b.WriteString("🎫 Ticket found\n\n")
	b.WriteString(fmt.Sprintf("Reference: %s\n", ticket.Reference))
	if ticket.EventTitle != "" {
		b.WriteString(fmt.Sprintf("Event: %s\n", ticket.EventTitle))
	}
	if ticket.HolderName != "" {
		b.WriteString(fmt.Sprintf("Holder: %s\n", ticket.HolderName))
	}
	b.WriteString(fmt.Sprintf("Status: %s\n", statusLabel(ticket.Status)))
	b.WriteString(fmt.Sprintf("Amount: %s\n", formatPrice(ticket.Amount, ticket.Currency)))
	b.WriteString(fmt.Sprintf("Purchased: %s", ticket.CreatedAt.Format("Jan 2, 2006 3:04 PM")))

	return b.String()
}

func statusLabel(status string) string {
	switch status {
	case "success":
		return "✅ Paid"
	case "pending":
		return "⏳ Pending"
	case "failed":
		return "❌ Failed"
	default:
		return status
	}
}

func formatStats(stats *Stats) string {
	var b strings.Builder

	b.WriteString("📊 Ticket sales\n\n")
	b.WriteString(fmt.Sprintf("Total tickets: %d\n", stats.TotalTickets))
	b.WriteString(fmt.Sprintf("Successful: %d\n", stats.SuccessfulTickets))
	b.WriteString(fmt.Sprintf("Pending: %d\n", stats.PendingTickets))
	b.WriteString(fmt.Sprintf("Revenue: %s\n", formatPrice(stats.Revenue, stats.Currency)))
	b.WriteString(fmt.Sprintf("Active subscribers: %d", stats.ActiveSubscribers))

	return b.String()
}

func formatRecentTickets(tickets []Ticket) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🧾 Last %d successful tickets\n\n", len(tickets)))
	for _, ticket := range tickets {
		b.WriteString(fmt.Sprintf("• %s — %s — %s\n",
			ticket.Reference,
			ticket.EventTitle,
			ticket.CreatedAt.Format("Jan 2 15:04")))
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatGroupInfo(chat *messaging.ChatInfo, memberCount int, admins []messaging.ChatMember) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("ℹ️ %s\n\n", chat.Title))
	b.WriteString(fmt.Sprintf("ID: %d\n", chat.ID))
	b.WriteString(fmt.Sprintf("Type: %s\n", chat.Type))
	b.WriteString(fmt.Sprintf("Members: %d\n", memberCount))

	if len(admins) > 0 {
		b.WriteString("Admins:\n")
		for _, admin := range admins {
			b.WriteString(fmt.Sprintf("• %s (%s)\n", admin.User.DisplayName(), admin.Status))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
