// Package scheduler runs the periodic event-reminder job. Schedule state is
// an explicit object with an injected clock so due-ness and retry-after-
// failure behavior are testable without waiting on wall time.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yenege/ticketbot/internal/bot"
)

const (
	tickInterval   = time.Minute
	reminderWindow = 24 * time.Hour
	reminderLimit  = 10
)

// Broadcasting is the fan-out operation the job triggers when events are
// starting soon.
type Broadcasting interface {
	Broadcast(text, parseMode string) bot.Outcome
}

// ReminderJob broadcasts a "starting soon" notice for events inside the
// reminder window, once per cron occurrence.
type ReminderJob struct {
	schedule cron.Schedule
	content  bot.ContentStore
	caster   Broadcasting
	now      func() time.Time
	lastRun  time.Time
}

// NewReminderJob parses a standard cron expression (e.g. "0 9 * * *").
// The first run happens at the first occurrence after construction.
func NewReminderJob(expr string, content bot.ContentStore, caster Broadcasting, now func() time.Time) (*ReminderJob, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", expr, err)
	}
	if now == nil {
		now = time.Now
	}
	return &ReminderJob{
		schedule: schedule,
		content:  content,
		caster:   caster,
		now:      now,
		lastRun:  now(),
	}, nil
}

// Due reports whether a cron occurrence has passed since the last run.
func (j *ReminderJob) Due() bool {
	next := j.schedule.Next(j.lastRun)
	return !next.After(j.now())
}

// RunOnce lists events inside the window and broadcasts one reminder. The
// run is only marked done once the listing succeeds; a failed listing is
// retried on the next tick.
func (j *ReminderJob) RunOnce() {
	events, err := j.content.ListUpcomingEvents(reminderLimit)
	if err != nil {
		slog.Warn("reminder run failed to list events, will retry", "error", err)
		return
	}
	j.lastRun = j.now()

	soon := eventsWithin(events, j.now(), reminderWindow)
	if len(soon) == 0 {
		slog.Debug("reminder run: no events inside window")
		return
	}

	outcome := j.caster.Broadcast(formatReminder(soon), "")
	slog.Info("reminder broadcast finished",
		"events", len(soon),
		"sent", outcome.Sent,
		"failed", outcome.Failed)
}

// Start ticks until the context is canceled.
func (j *ReminderJob) Start(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	slog.Info("reminder scheduler started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			if j.Due() {
				j.RunOnce()
			}
		}
	}
}

func eventsWithin(events []bot.Event, now time.Time, window time.Duration) []bot.Event {
	cutoff := now.Add(window)
	var soon []bot.Event
	for _, event := range events {
		if event.StartsAt.After(now) && !event.StartsAt.After(cutoff) {
			soon = append(soon, event)
		}
	}
	return soon
}

func formatReminder(events []bot.Event) string {
	text := "⏰ Starting soon:\n"
	for _, event := range events {
		text += fmt.Sprintf("\n🎟 %s — %s", event.Title, event.StartsAt.Format("Mon 3:04 PM"))
	}
	return text
}
