package booking

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mlagdao/benguetstays/internal/model"
)

// fakePropertyStore serves fixtures from memory.
type fakePropertyStore struct {
	props map[uint64]*model.Property
}

func (s *fakePropertyStore) GetByID(_ context.Context, id uint64) (*model.Property, error) {
	p, ok := s.props[id]
	if !ok {
		return nil, ErrPropertyNotFound
	}
	cp := *p
	return &cp, nil
}

// fakeBookingStore mirrors the real store's contract: Create re-checks
// the range under its lock and UpdateState only applies when the row
// still carries the expected columns.
type fakeBookingStore struct {
	mu       sync.Mutex
	seq      uint64
	bookings map[uint64]*model.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[uint64]*model.Booking)}
}

func (s *fakeBookingStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *fakeBookingStore) ListActiveIntervals(_ context.Context, propertyID uint64) ([]Interval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Interval
	for _, b := range s.bookings {
		if b.PropertyID == propertyID && b.Status != model.StatusCancelled {
			out = append(out, Interval{CheckIn: b.CheckIn, CheckOut: b.CheckOut})
		}
	}
	return out, nil
}

func (s *fakeBookingStore) Create(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidate := Interval{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
	for _, existing := range s.bookings {
		if existing.PropertyID != b.PropertyID || existing.Status == model.StatusCancelled {
			continue
		}
		if candidate.Overlaps(Interval{CheckIn: existing.CheckIn, CheckOut: existing.CheckOut}) {
			return ErrDatesUnavailable
		}
	}
	s.seq++
	b.ID = s.seq
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *fakeBookingStore) UpdateState(_ context.Context, b *model.Booking, fromStatus, fromPaymentStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.bookings[b.ID]
	if !ok {
		return ErrBookingNotFound
	}
	if stored.Status != fromStatus || stored.PaymentStatus != fromPaymentStatus {
		return ErrStateConflict
	}
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

const (
	svcOwnerID  = uint64(3)
	svcTenantID = uint64(7)
	svcPropID   = uint64(10)
)

func testClock() time.Time {
	return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
}

func nf(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

func newTestService(opts ...Option) (*Service, *fakeBookingStore) {
	props := &fakePropertyStore{props: map[uint64]*model.Property{
		svcPropID: {
			ID:          svcPropID,
			OwnerID:     svcOwnerID,
			Title:       "Transient room near Session Road",
			MaxGuests:   4,
			RateNightly: nf(1200),
			RateWeekly:  nf(6000),
			RateMonthly: nf(20000),
			IsActive:    true,
		},
		11: {ID: 11, OwnerID: svcOwnerID, Title: "Delisted unit", MaxGuests: 2, RateNightly: nf(900), IsActive: false},
		12: {ID: 12, OwnerID: svcOwnerID, Title: "Unit without rates", MaxGuests: 2, IsActive: true},
	}}
	store := newFakeBookingStore()
	opts = append([]Option{WithClock(testClock)}, opts...)
	return NewService(props, store, opts...), store
}

func createInput() CreateInput {
	return CreateInput{
		PropertyID: svcPropID,
		CheckIn:    day(2025, 6, 1),
		CheckOut:   day(2025, 6, 11),
		Guests:     2,
		ActorID:    svcTenantID,
	}
}

func TestCreateBooking(t *testing.T) {
	svc, _ := newTestService()
	b, err := svc.CreateBooking(context.Background(), createInput())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.ID == 0 {
		t.Error("booking was not assigned an id")
	}
	if b.TotalNights != 10 {
		t.Errorf("total_nights = %d, want 10", b.TotalNights)
	}
	if b.RateType != RateWeekly {
		t.Errorf("rate_type = %s, want weekly", b.RateType)
	}
	if want := 10.0 / 7 * 6000; !almostEqual(b.TotalPrice, want) {
		t.Errorf("total_price = %v, want %v", b.TotalPrice, want)
	}
	if b.Status != model.StatusPending || b.PaymentStatus != model.PaymentUnpaid {
		t.Errorf("new booking state = %s/%s, want pending/unpaid", b.Status, b.PaymentStatus)
	}
}

func TestCreateBookingDateValidation(t *testing.T) {
	svc, _ := newTestService()

	in := createInput()
	in.CheckIn, in.CheckOut = in.CheckOut, in.CheckIn
	if _, err := svc.CreateBooking(context.Background(), in); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("inverted range: err = %v, want ErrInvalidDateRange", err)
	}

	in = createInput()
	in.CheckIn, in.CheckOut = day(2025, 4, 1), day(2025, 4, 5) // before the clock
	if _, err := svc.CreateBooking(context.Background(), in); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("past check-in: err = %v, want ErrInvalidDateRange", err)
	}

	in = createInput()
	in.CheckOut = in.CheckIn
	if _, err := svc.CreateBooking(context.Background(), in); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("zero-length stay: err = %v, want ErrInvalidDateRange", err)
	}
}

func TestCreateBookingOverlap(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.CreateBooking(context.Background(), createInput()); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	in := createInput()
	in.ActorID = 8
	in.CheckIn, in.CheckOut = day(2025, 6, 5), day(2025, 6, 15)
	_, err := svc.CreateBooking(context.Background(), in)
	if !errors.Is(err, ErrDatesUnavailable) {
		t.Fatalf("overlapping booking: err = %v, want ErrDatesUnavailable", err)
	}

	// the same-day turnover is allowed
	in.CheckIn, in.CheckOut = day(2025, 6, 11), day(2025, 6, 15)
	if _, err := svc.CreateBooking(context.Background(), in); err != nil {
		t.Fatalf("back-to-back booking: %v", err)
	}
}

func TestCreateBookingAfterCancelFreesDates(t *testing.T) {
	svc, _ := newTestService()
	first, err := svc.CreateBooking(context.Background(), createInput())
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := svc.CancelBooking(context.Background(), first.ID, svcTenantID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	in := createInput()
	in.ActorID = 8
	if _, err := svc.CreateBooking(context.Background(), in); err != nil {
		t.Fatalf("rebooking cancelled dates: %v", err)
	}
}

func TestCreateBookingGuards(t *testing.T) {
	svc, _ := newTestService()

	in := createInput()
	in.ActorID = svcOwnerID
	if _, err := svc.CreateBooking(context.Background(), in); !errors.Is(err, ErrSelfBooking) {
		t.Errorf("owner booking own listing: err = %v, want ErrSelfBooking", err)
	}

	in = createInput()
	in.Guests = 5
	if _, err := svc.CreateBooking(context.Background(), in); !errors.Is(err, ErrTooManyGuests) {
		t.Errorf("over capacity: err = %v, want ErrTooManyGuests", err)
	}

	in = createInput()
	in.Guests = 0
	b, err := svc.CreateBooking(context.Background(), in)
	if err != nil {
		t.Fatalf("zero guests: %v", err)
	}
	if b.Guests != 1 {
		t.Errorf("guests = %d, want clamp to 1", b.Guests)
	}

	in = createInput()
	in.PropertyID = 11
	in.CheckIn, in.CheckOut = day(2025, 7, 1), day(2025, 7, 3)
	if _, err := svc.CreateBooking(context.Background(), in); !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("inactive listing: err = %v, want ErrPropertyNotFound", err)
	}

	in = createInput()
	in.PropertyID = 12
	if _, err := svc.CreateBooking(context.Background(), in); !errors.Is(err, ErrMissingBaseRate) {
		t.Errorf("listing without nightly rate: err = %v, want ErrMissingBaseRate", err)
	}
}

func TestConcurrentCreateOneWins(t *testing.T) {
	svc, _ := newTestService()

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := createInput()
			in.ActorID = uint64(100 + i)
			_, errs[i] = svc.CreateBooking(context.Background(), in)
		}(i)
	}
	wg.Wait()

	wins := 0
	for i, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrDatesUnavailable):
		default:
			t.Errorf("racer %d: unexpected error %v", i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("%d racers won, want exactly 1", wins)
	}
}

func TestPaymentFlow(t *testing.T) {
	svc, _ := newTestService()
	b, err := svc.CreateBooking(context.Background(), createInput())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if _, err := svc.VerifyPayment(context.Background(), b.ID, svcTenantID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("tenant verifying: err = %v, want ErrUnauthorized", err)
	}

	b2, err := svc.SubmitPaymentReference(context.Background(), b.ID, "GC-2025-0001", model.MethodGcash, svcTenantID)
	if err != nil {
		t.Fatalf("SubmitPaymentReference: %v", err)
	}
	if b2.PaymentStatus != model.PaymentReferenceSubmitted {
		t.Errorf("payment_status = %s, want reference_submitted", b2.PaymentStatus)
	}

	b3, err := svc.VerifyPayment(context.Background(), b.ID, svcOwnerID)
	if err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if b3.Status != model.StatusConfirmed || b3.PaymentStatus != model.PaymentVerified {
		t.Fatalf("after verify: %s/%s, want confirmed/verified", b3.Status, b3.PaymentStatus)
	}

	if _, err := svc.VerifyPayment(context.Background(), b.ID, svcOwnerID); !errors.Is(err, ErrStateConflict) {
		t.Errorf("double verify: err = %v, want ErrStateConflict", err)
	}
}

func TestCancelBooking(t *testing.T) {
	svc, _ := newTestService()
	b, err := svc.CreateBooking(context.Background(), createInput())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if _, err := svc.CancelBooking(context.Background(), b.ID, 555); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("stranger cancelling: err = %v, want ErrUnauthorized", err)
	}

	if _, err := svc.CancelBooking(context.Background(), b.ID, svcTenantID); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if _, err := svc.CancelBooking(context.Background(), b.ID, svcTenantID); !errors.Is(err, ErrAlreadyCancelled) {
		t.Errorf("cancelling twice: err = %v, want ErrAlreadyCancelled", err)
	}
	if _, err := svc.CancelBooking(context.Background(), b.ID, svcOwnerID); !errors.Is(err, ErrAlreadyCancelled) {
		t.Errorf("owner cancelling a cancelled booking: err = %v, want ErrAlreadyCancelled", err)
	}
}

func TestConfirmWithoutPaymentGate(t *testing.T) {
	svc, _ := newTestService()
	b, err := svc.CreateBooking(context.Background(), createInput())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if _, err := svc.ConfirmBooking(context.Background(), b.ID, svcOwnerID); !errors.Is(err, ErrUnpaidConfirmDisabled) {
		t.Fatalf("gate off: err = %v, want ErrUnpaidConfirmDisabled", err)
	}

	svc2, _ := newTestService(WithUnpaidConfirm(true))
	b2, err := svc2.CreateBooking(context.Background(), createInput())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	got, err := svc2.ConfirmBooking(context.Background(), b2.ID, svcOwnerID)
	if err != nil {
		t.Fatalf("ConfirmBooking with gate on: %v", err)
	}
	if got.Status != model.StatusConfirmed || got.PaymentStatus != model.PaymentUnpaid {
		t.Errorf("legacy confirm: %s/%s, want confirmed/unpaid", got.Status, got.PaymentStatus)
	}
}

func TestTransitionLostRaceMapsToAlreadyCancelled(t *testing.T) {
	svc, store := newTestService()
	b, err := svc.CreateBooking(context.Background(), createInput())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	// another writer cancels behind our back
	store.mu.Lock()
	store.bookings[b.ID].Status = model.StatusCancelled
	store.mu.Unlock()

	_, err = svc.SubmitPaymentReference(context.Background(), b.ID, "GC-1", model.MethodGcash, svcTenantID)
	if !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("lost race against cancel: err = %v, want ErrAlreadyCancelled", err)
	}
}

func TestBookedDates(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.CreateBooking(context.Background(), createInput()); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	in := createInput()
	in.ActorID = 8
	in.CheckIn, in.CheckOut = day(2025, 6, 11), day(2025, 6, 13)
	if _, err := svc.CreateBooking(context.Background(), in); err != nil {
		t.Fatalf("second booking: %v", err)
	}

	days, err := svc.BookedDates(context.Background(), svcPropID)
	if err != nil {
		t.Fatalf("BookedDates: %v", err)
	}
	if len(days) != 12 {
		t.Fatalf("blocked %d days, want 12", len(days))
	}
	if days[0] != "2025-06-01" || days[len(days)-1] != "2025-06-12" {
		t.Errorf("range = %s..%s, want 2025-06-01..2025-06-12", days[0], days[len(days)-1])
	}
	for i := 1; i < len(days); i++ {
		if days[i] <= days[i-1] {
			t.Fatalf("days not sorted: %s before %s", days[i-1], days[i])
		}
	}
	if days[len(days)-1] == "2025-06-13" {
		t.Error("final check-out day must stay free")
	}
}
