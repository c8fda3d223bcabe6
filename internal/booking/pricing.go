package booking

import "github.com/mlagdao/benguetstays/internal/model"

// Rate type names persisted on bookings.rate_type.
const (
	RateNightly = "nightly"
	RateWeekly  = "weekly"
	RateMonthly = "monthly"
)

// Stay lengths at which the weekly and monthly tiers kick in.
const (
	weeklyThresholdNights  = 7
	monthlyThresholdNights = 28
)

// RateTable carries a property's pricing tiers.  Nightly is required
// for the property to be bookable; Weekly and Monthly are optional.
type RateTable struct {
	Nightly *float64
	Weekly  *float64
	Monthly *float64
}

// RatesOf projects a property's nullable rate columns into a RateTable.
func RatesOf(p *model.Property) RateTable {
	var t RateTable
	if p.RateNightly.Valid {
		v := p.RateNightly.Float64
		t.Nightly = &v
	}
	if p.RateWeekly.Valid {
		v := p.RateWeekly.Float64
		t.Weekly = &v
	}
	if p.RateMonthly.Valid {
		v := p.RateMonthly.Float64
		t.Monthly = &v
	}
	return t
}

// Quote selects the pricing tier for a stay and computes its total
// price.  The tie-break is fixed: monthly when the stay is 28 nights or
// longer and a monthly rate exists, else weekly when 7 nights or longer
// and a weekly rate exists, else nightly.  Division is real-valued, so
// 35 nights on a monthly rate bills 35/30 months.  No currency rounding
// happens here; that is a presentation concern.
//
// Quote is a pure function: the same (nights, rates) input always
// produces the same (rateType, total) output.
func Quote(nights int, rates RateTable) (string, float64, error) {
	if nights < 1 {
		return "", 0, ErrInvalidInterval
	}
	if rates.Nightly == nil {
		return "", 0, ErrMissingBaseRate
	}
	switch {
	case nights >= monthlyThresholdNights && rates.Monthly != nil:
		return RateMonthly, float64(nights) / 30 * *rates.Monthly, nil
	case nights >= weeklyThresholdNights && rates.Weekly != nil:
		return RateWeekly, float64(nights) / 7 * *rates.Weekly, nil
	default:
		return RateNightly, float64(nights) * *rates.Nightly, nil
	}
}
