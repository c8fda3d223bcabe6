package handler

import (
	"testing"
	"time"
)

func TestParseDayFloorsTimeOfDay(t *testing.T) {
	midnight := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   string
		want time.Time
	}{
		{"plain date", "2025-06-01", midnight},
		{"rfc3339 with time of day", "2025-06-01T15:04:05Z", midnight},
		{"rfc3339 with offset", "2025-06-01T22:30:00+08:00", midnight},
		{"offset crossing the date line", "2025-06-02T01:30:00+08:00", midnight},
	}
	for _, tc := range cases {
		got, err := parseDay(tc.in)
		if err != nil {
			t.Fatalf("%s: parseDay(%q): %v", tc.name, tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Errorf("%s: parseDay(%q) = %v, want %v", tc.name, tc.in, got, tc.want)
		}
		if got.Location() != time.UTC {
			t.Errorf("%s: parseDay(%q) location = %v, want UTC", tc.name, tc.in, got.Location())
		}
	}
}

func TestParseDayRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "june 1", "2025-13-40", "01-06-2025", "2025-06-01 15:00"} {
		if _, err := parseDay(in); err == nil {
			t.Errorf("parseDay(%q): expected error", in)
		}
	}
}
