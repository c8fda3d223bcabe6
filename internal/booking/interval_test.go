package booking

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	a := Interval{CheckIn: day(2025, 3, 10), CheckOut: day(2025, 3, 15)}

	cases := []struct {
		name string
		b    Interval
		want bool
	}{
		{"identical", Interval{day(2025, 3, 10), day(2025, 3, 15)}, true},
		{"partial overlap at end", Interval{day(2025, 3, 14), day(2025, 3, 20)}, true},
		{"partial overlap at start", Interval{day(2025, 3, 5), day(2025, 3, 11)}, true},
		{"fully contained", Interval{day(2025, 3, 11), day(2025, 3, 12)}, true},
		{"containing", Interval{day(2025, 3, 1), day(2025, 3, 30)}, true},
		{"back-to-back after", Interval{day(2025, 3, 15), day(2025, 3, 20)}, false},
		{"back-to-back before", Interval{day(2025, 3, 5), day(2025, 3, 10)}, false},
		{"disjoint", Interval{day(2025, 4, 1), day(2025, 4, 5)}, false},
	}
	for _, tc := range cases {
		if got := a.Overlaps(tc.b); got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
		// overlap is symmetric
		if got := tc.b.Overlaps(a); got != tc.want {
			t.Errorf("%s (reversed): Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFindConflict(t *testing.T) {
	existing := []Interval{
		{day(2025, 3, 1), day(2025, 3, 5)},
		{day(2025, 3, 10), day(2025, 3, 15)},
	}

	candidate := Interval{day(2025, 3, 14), day(2025, 3, 18)}
	conflict, found := FindConflict(candidate, existing)
	if !found {
		t.Fatal("expected a conflict")
	}
	if !conflict.CheckIn.Equal(day(2025, 3, 10)) {
		t.Errorf("conflict check_in = %s, want 2025-03-10", conflict.CheckIn.Format(DayKeyFormat))
	}

	free := Interval{day(2025, 3, 5), day(2025, 3, 10)}
	if _, found := FindConflict(free, existing); found {
		t.Error("gap between bookings should be free")
	}
	if _, found := FindConflict(candidate, nil); found {
		t.Error("no existing bookings should mean no conflict")
	}
}

func TestNights(t *testing.T) {
	if got := Nights(day(2025, 3, 10), day(2025, 3, 15)); got != 5 {
		t.Errorf("5 whole days = %d nights, want 5", got)
	}
	if got := Nights(day(2025, 3, 10), day(2025, 3, 11)); got != 1 {
		t.Errorf("1 whole day = %d nights, want 1", got)
	}
	// a partial last day still counts as a full night
	late := time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC)
	if got := Nights(day(2025, 3, 10), late); got != 3 {
		t.Errorf("2.75 days = %d nights, want 3", got)
	}
}

func TestExpandBookedDates(t *testing.T) {
	days, err := ExpandBookedDates([]Interval{
		{day(2025, 3, 10), day(2025, 3, 12)},
		{day(2025, 3, 11), day(2025, 3, 13)}, // overlapping interval unions cleanly
	})
	if err != nil {
		t.Fatalf("ExpandBookedDates: %v", err)
	}
	for _, want := range []string{"2025-03-10", "2025-03-11", "2025-03-12"} {
		if _, ok := days[want]; !ok {
			t.Errorf("day %s should be blocked", want)
		}
	}
	if _, ok := days["2025-03-13"]; ok {
		t.Error("check-out day must stay free")
	}
	if len(days) != 3 {
		t.Errorf("blocked %d days, want 3", len(days))
	}
}

func TestExpandBookedDatesEmpty(t *testing.T) {
	days, err := ExpandBookedDates(nil)
	if err != nil {
		t.Fatalf("ExpandBookedDates(nil): %v", err)
	}
	if len(days) != 0 {
		t.Errorf("expected empty set, got %d days", len(days))
	}
}

func TestExpandBookedDatesInvalidInterval(t *testing.T) {
	_, err := ExpandBookedDates([]Interval{{day(2025, 3, 12), day(2025, 3, 10)}})
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("inverted interval: err = %v, want ErrInvalidInterval", err)
	}
	_, err = ExpandBookedDates([]Interval{{day(2025, 3, 10), day(2025, 3, 10)}})
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("zero-length interval: err = %v, want ErrInvalidInterval", err)
	}
}
