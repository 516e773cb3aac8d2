package bot

import (
	"errors"
	"testing"

	"github.com/yenege/ticketbot/internal/messaging"
)

func TestBroadcast_CountsSentAndFailed(t *testing.T) {
	platform := &fakePlatform{sendErrs: map[int64]error{
		200: errors.New("Bad Request: something odd"),
		400: errors.New("timeout"),
	}}
	subs := &fakeSubs{active: []Subscriber{
		{ChatID: 100}, {ChatID: 200}, {ChatID: 300}, {ChatID: 400}, {ChatID: 500},
	}}

	outcome := NewBroadcaster(platform, subs).Broadcast("show tonight", "")

	if outcome.Sent != 3 || outcome.Failed != 2 {
		t.Errorf("outcome = %+v, want {Sent:3 Failed:2}", outcome)
	}
	if outcome.Sent+outcome.Failed != len(subs.active) {
		t.Errorf("Sent+Failed = %d, want snapshot size %d", outcome.Sent+outcome.Failed, len(subs.active))
	}
}

func TestBroadcast_DeactivatesGoneRecipients(t *testing.T) {
	platform := &fakePlatform{sendErrs: map[int64]error{
		200: errors.New("Forbidden: bot was blocked by the user"),
		300: errors.New("Bad Gateway"),
	}}
	subs := &fakeSubs{active: []Subscriber{{ChatID: 100}, {ChatID: 200}, {ChatID: 300}}}

	outcome := NewBroadcaster(platform, subs).Broadcast("hello", "")

	if outcome.Sent != 1 || outcome.Failed != 2 {
		t.Errorf("outcome = %+v, want {Sent:1 Failed:2}", outcome)
	}
	// Only the permanently gone recipient is deactivated; the transient
	// failure stays subscribed.
	if len(subs.deactivated) != 1 || subs.deactivated[0] != 200 {
		t.Errorf("deactivated = %v, want [200]", subs.deactivated)
	}
}

func TestBroadcast_ListFailure(t *testing.T) {
	platform := &fakePlatform{}
	subs := &fakeSubs{listErr: errors.New("db locked")}

	outcome := NewBroadcaster(platform, subs).Broadcast("hello", "")

	if outcome.Sent != 0 || outcome.Failed != 0 {
		t.Errorf("outcome = %+v, want zero outcome on snapshot failure", outcome)
	}
	if len(platform.sent) != 0 {
		t.Errorf("expected no sends, got %d", len(platform.sent))
	}
}

func TestBroadcast_ParseMode(t *testing.T) {
	platform := &fakePlatform{}
	subs := &fakeSubs{active: []Subscriber{{ChatID: 100}}}

	NewBroadcaster(platform, subs).Broadcast("*bold*", "Markdown")

	if len(platform.sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(platform.sent))
	}
	if platform.sent[0].opts == nil || platform.sent[0].opts.ParseMode != "Markdown" {
		t.Errorf("opts = %+v, want Markdown parse mode", platform.sent[0].opts)
	}
}

func TestNotifier_DeactivatesGoneRecipient(t *testing.T) {
	platform := &fakePlatform{sendErr: errors.New("Forbidden: user is deactivated")}
	subs := &fakeSubs{}
	notifier := NewNotifier(platform, subs)

	notifier.Notify(100, "your ticket is confirmed")
	notifier.Wait()

	if len(subs.deactivated) != 1 || subs.deactivated[0] != 100 {
		t.Errorf("deactivated = %v, want [100]", subs.deactivated)
	}
}

func TestIsRecipientGone(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"blocked", errors.New("Forbidden: bot was blocked by the user"), true},
		{"deactivated", errors.New("Forbidden: user is deactivated"), true},
		{"chat gone", errors.New("Bad Request: chat not found"), true},
		{"kicked", errors.New("Forbidden: bot was kicked from the group chat"), true},
		{"transient", errors.New("Bad Gateway"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := messaging.IsRecipientGone(tt.err); got != tt.want {
				t.Errorf("IsRecipientGone(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
