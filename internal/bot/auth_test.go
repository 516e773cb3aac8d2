package bot

import (
	"errors"
	"testing"

	"github.com/yenege/ticketbot/internal/messaging"
)

func TestIsPlatformAdmin(t *testing.T) {
	tests := []struct {
		name     string
		adminIDs []int64
		links    AdminLinkStore
		userID   int64
		want     bool
	}{
		{"allow-listed", []int64{7}, nil, 7, true},
		{"not listed, no link store", nil, nil, 7, false},
		{"linked with admin role", nil, &fakeLinks{role: AdminRole}, 7, true},
		{"linked with other role", nil, &fakeLinks{role: "user"}, 7, false},
		{"no link row", nil, &fakeLinks{role: ""}, 7, false},
		{"link lookup fails", nil, &fakeLinks{err: errors.New("db locked")}, 7, false},
		{"allow-list wins over link error", []int64{7}, &fakeLinks{err: errors.New("db locked")}, 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := NewAuthorizer(tt.adminIDs, tt.links, &fakePlatform{})
			if got := auth.IsPlatformAdmin(tt.userID); got != tt.want {
				t.Errorf("IsPlatformAdmin(%d) = %v, want %v", tt.userID, got, tt.want)
			}
		})
	}
}

func TestIsListedAdmin(t *testing.T) {
	auth := NewAuthorizer([]int64{7}, &fakeLinks{role: AdminRole}, &fakePlatform{})

	if !auth.IsListedAdmin(7) {
		t.Error("IsListedAdmin(7) = false, want true")
	}
	// Link-table admins are deliberately ignored here.
	if auth.IsListedAdmin(8) {
		t.Error("IsListedAdmin(8) = true, want false")
	}
}

func TestIsGroupAdmin(t *testing.T) {
	tests := []struct {
		name   string
		status string
		err    error
		want   bool
	}{
		{"administrator", "administrator", nil, true},
		{"creator", "creator", nil, true},
		{"plain member", "member", nil, false},
		{"restricted", "restricted", nil, false},
		{"left", "left", nil, false},
		{"lookup fails", "", errors.New("Bad Gateway"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := &fakePlatform{memberErr: tt.err}
			if tt.status != "" {
				platform.member = &messaging.ChatMember{Status: tt.status}
			}
			auth := NewAuthorizer(nil, nil, platform)
			if got := auth.IsGroupAdmin(-100, 7); got != tt.want {
				t.Errorf("IsGroupAdmin() with status %q = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
