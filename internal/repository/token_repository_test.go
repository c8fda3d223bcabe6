package repository

import (
	"database/sql"
	"testing"
	"time"
)

func TestRefreshUsable(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	revoked := sql.NullTime{Time: now.Add(-time.Hour), Valid: true}
	live := sql.NullTime{}

	cases := []struct {
		name      string
		expiresAt time.Time
		revokedAt sql.NullTime
		want      bool
	}{
		{"live token", now.Add(24 * time.Hour), live, true},
		{"expired token", now.Add(-time.Minute), live, false},
		{"revoked token", now.Add(24 * time.Hour), revoked, false},
		{"revoked and expired", now.Add(-time.Minute), revoked, false},
		{"exactly at expiry", now, live, true},
	}
	for _, tc := range cases {
		if got := refreshUsable(tc.expiresAt, tc.revokedAt, now); got != tc.want {
			t.Errorf("%s: refreshUsable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	cases := []struct{ in, want string }{
		{"User@Example.COM", "user@example.com"},
		{"  padded@example.com\n", "padded@example.com"},
		{"already@example.com", "already@example.com"},
	}
	for _, tc := range cases {
		if got := normalizeEmail(tc.in); got != tc.want {
			t.Errorf("normalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
