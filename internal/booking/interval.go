package booking

import (
	"math"
	"time"
)

// DayKeyFormat is the date-only key used for blocked calendar days.
const DayKeyFormat = "2006-01-02"

// Interval is the half-open stay range [CheckIn, CheckOut).  The
// check-out instant itself is excluded from occupancy, so a departure
// and an arrival may share a boundary day.
type Interval struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Overlaps reports whether two half-open intervals intersect.  This is
// the sole correctness-critical rule of the engine: [a1,a2) and [b1,b2)
// overlap iff a1 < b2 && a2 > b1.  Back-to-back stays (a2 == b1) do not
// overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.CheckIn.Before(other.CheckOut) && iv.CheckOut.After(other.CheckIn)
}

// FindConflict scans the active bookings of a property for one that
// intersects the candidate range.  Unavailability is an expected
// outcome, so the result is a boolean plus the conflicting interval for
// error messaging, never an error.
func FindConflict(candidate Interval, existing []Interval) (Interval, bool) {
	for _, iv := range existing {
		if candidate.Overlaps(iv) {
			return iv, true
		}
	}
	return Interval{}, false
}

// Nights returns ceil((checkOut − checkIn) / 24h).  Stays are priced by
// night, so a partial last day still counts as a full night.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// ExpandBookedDates turns the active intervals of one property into the
// set of blocked day keys (YYYY-MM-DD), the union over all intervals.
// The check-out day is not blocked.  Inverted or zero-length intervals
// cannot occur for persisted bookings; encountering one means the data
// is corrupt and the expansion fails with ErrInvalidInterval.
func ExpandBookedDates(intervals []Interval) (map[string]struct{}, error) {
	days := make(map[string]struct{})
	for _, iv := range intervals {
		if !iv.CheckIn.Before(iv.CheckOut) {
			return nil, ErrInvalidInterval
		}
		for d := iv.CheckIn; d.Before(iv.CheckOut); d = d.AddDate(0, 0, 1) {
			days[d.Format(DayKeyFormat)] = struct{}{}
		}
	}
	return days, nil
}
