package booking

import (
	"errors"
	"math"
	"testing"
)

func fp(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestQuoteTierSelection(t *testing.T) {
	full := RateTable{Nightly: fp(1200), Weekly: fp(6000), Monthly: fp(20000)}

	cases := []struct {
		name     string
		nights   int
		rates    RateTable
		wantType string
		wantSum  float64
	}{
		{"single night", 1, full, RateNightly, 1200},
		{"just under weekly", 6, full, RateNightly, 7200},
		{"weekly boundary", 7, full, RateWeekly, 6000},
		{"ten nights weekly", 10, full, RateWeekly, 10.0 / 7 * 6000},
		{"just under monthly", 27, full, RateWeekly, 27.0 / 7 * 6000},
		{"monthly boundary", 28, full, RateMonthly, 28.0 / 30 * 20000},
		{"long stay", 35, full, RateMonthly, 35.0 / 30 * 20000},
		{"no monthly rate falls to weekly", 28,
			RateTable{Nightly: fp(1200), Weekly: fp(6000)}, RateWeekly, 28.0 / 7 * 6000},
		{"no weekly rate falls to nightly", 10,
			RateTable{Nightly: fp(1200)}, RateNightly, 12000},
		{"no monthly or weekly", 30,
			RateTable{Nightly: fp(1200)}, RateNightly, 36000},
	}
	for _, tc := range cases {
		gotType, gotSum, err := Quote(tc.nights, tc.rates)
		if err != nil {
			t.Errorf("%s: Quote returned %v", tc.name, err)
			continue
		}
		if gotType != tc.wantType {
			t.Errorf("%s: rate type = %s, want %s", tc.name, gotType, tc.wantType)
		}
		if !almostEqual(gotSum, tc.wantSum) {
			t.Errorf("%s: total = %v, want %v", tc.name, gotSum, tc.wantSum)
		}
	}
}

func TestQuoteMissingBaseRate(t *testing.T) {
	// nightly is required even when the stay would bill on another tier
	_, _, err := Quote(30, RateTable{Weekly: fp(6000), Monthly: fp(20000)})
	if !errors.Is(err, ErrMissingBaseRate) {
		t.Fatalf("err = %v, want ErrMissingBaseRate", err)
	}
}

func TestQuoteInvalidNights(t *testing.T) {
	for _, nights := range []int{0, -3} {
		_, _, err := Quote(nights, RateTable{Nightly: fp(1200)})
		if !errors.Is(err, ErrInvalidInterval) {
			t.Errorf("nights=%d: err = %v, want ErrInvalidInterval", nights, err)
		}
	}
}

func TestQuoteDeterministic(t *testing.T) {
	rates := RateTable{Nightly: fp(1500), Weekly: fp(8400)}
	t1, s1, _ := Quote(9, rates)
	t2, s2, _ := Quote(9, rates)
	if t1 != t2 || s1 != s2 {
		t.Fatalf("Quote not deterministic: (%s,%v) vs (%s,%v)", t1, s1, t2, s2)
	}
}
