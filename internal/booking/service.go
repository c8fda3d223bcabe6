package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mlagdao/benguetstays/internal/model"
)

// PropertyStore is the read interface the engine needs from the
// listing catalogue.  Implementations return ErrPropertyNotFound when
// the id does not resolve.
type PropertyStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Property, error)
}

// BookingStore persists bookings.  Create must re-check the requested
// range against active bookings of the same property inside its own
// transaction and fail with ErrDatesUnavailable on overlap, so that two
// creators racing past the service-level check cannot both commit.
// UpdateState must only apply when the row still carries the expected
// status and payment_status, failing with ErrStateConflict otherwise.
type BookingStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	ListActiveIntervals(ctx context.Context, propertyID uint64) ([]Interval, error)
	Create(ctx context.Context, b *model.Booking) error
	UpdateState(ctx context.Context, b *model.Booking, fromStatus, fromPaymentStatus string) error
}

// Service orchestrates booking creation and lifecycle transitions.  It
// holds a per-property mutex across the conflict-check-then-create
// sequence; together with the store's transactional re-check this is
// the one place the engine must not be best effort.
type Service struct {
	properties PropertyStore
	bookings   BookingStore

	allowUnpaidConfirm bool
	clock              func() time.Time

	mu        sync.Mutex
	propLocks map[uint64]*sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock, letting tests pin "now".
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithUnpaidConfirm enables the legacy owner confirm-without-payment
// entry point.
func WithUnpaidConfirm(enabled bool) Option {
	return func(s *Service) { s.allowUnpaidConfirm = enabled }
}

// NewService wires the engine to its stores.  Both stores are required.
func NewService(properties PropertyStore, bookings BookingStore, opts ...Option) *Service {
	if properties == nil || bookings == nil {
		panic("nil store passed to NewService")
	}
	s := &Service{
		properties: properties,
		bookings:   bookings,
		clock:      time.Now,
		propLocks:  make(map[uint64]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// propertyLock returns the mutex serializing writers for one property.
func (s *Service) propertyLock(propertyID uint64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.propLocks[propertyID]
	if !ok {
		l = &sync.Mutex{}
		s.propLocks[propertyID] = l
	}
	return l
}

// CreateInput carries everything CreateBooking needs; the actor
// identity arrives already resolved by the caller.
type CreateInput struct {
	PropertyID      uint64
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	SpecialRequests string
	ActorID         uint64
}

// CreateBooking validates the request, checks availability, prices the
// stay and persists a pending/unpaid booking.  The booking either fully
// persists with all derived fields consistent or not at all.
func (s *Service) CreateBooking(ctx context.Context, in CreateInput) (*model.Booking, error) {
	now := s.clock()
	if !in.CheckIn.Before(in.CheckOut) || in.CheckIn.Before(now) {
		return nil, ErrInvalidDateRange
	}

	lock := s.propertyLock(in.PropertyID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.bookings.ListActiveIntervals(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}
	candidate := Interval{CheckIn: in.CheckIn, CheckOut: in.CheckOut}
	if conflict, found := FindConflict(candidate, existing); found {
		return nil, fmt.Errorf("%w: booked %s to %s", ErrDatesUnavailable,
			conflict.CheckIn.Format(DayKeyFormat), conflict.CheckOut.Format(DayKeyFormat))
	}

	prop, err := s.properties.GetByID(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if !prop.IsActive {
		return nil, ErrPropertyNotFound
	}
	if prop.OwnerID == in.ActorID {
		return nil, ErrSelfBooking
	}
	guests := in.Guests
	if guests < 1 {
		guests = 1
	}
	if prop.MaxGuests > 0 && guests > prop.MaxGuests {
		return nil, ErrTooManyGuests
	}

	nights := Nights(in.CheckIn, in.CheckOut)
	rateType, total, err := Quote(nights, RatesOf(prop))
	if err != nil {
		return nil, err
	}

	b := &model.Booking{
		PropertyID:      in.PropertyID,
		TenantID:        in.ActorID,
		CheckIn:         in.CheckIn,
		CheckOut:        in.CheckOut,
		TotalNights:     nights,
		RateType:        rateType,
		TotalPrice:      total,
		Guests:          guests,
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentUnpaid,
		SpecialRequests: in.SpecialRequests,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// SubmitPaymentReference records the tenant's wallet reference and
// advances payment to reference_submitted.
func (s *Service) SubmitPaymentReference(ctx context.Context, bookingID uint64, reference, method string, actorID uint64) (*model.Booking, error) {
	return s.transition(ctx, bookingID, func(b *model.Booking, ownerID uint64) error {
		return SubmitReference(b, ownerID, actorID, reference, method)
	})
}

// VerifyPayment marks the payment verified and the booking confirmed,
// atomically, on behalf of the property owner.
func (s *Service) VerifyPayment(ctx context.Context, bookingID, actorID uint64) (*model.Booking, error) {
	return s.transition(ctx, bookingID, func(b *model.Booking, ownerID uint64) error {
		return Verify(b, ownerID, actorID)
	})
}

// ConfirmBooking is the legacy owner shortcut confirming a pending
// booking without payment.  Disabled unless configured on.
func (s *Service) ConfirmBooking(ctx context.Context, bookingID, actorID uint64) (*model.Booking, error) {
	if !s.allowUnpaidConfirm {
		return nil, ErrUnpaidConfirmDisabled
	}
	return s.transition(ctx, bookingID, func(b *model.Booking, ownerID uint64) error {
		return ConfirmWithoutPayment(b, ownerID, actorID)
	})
}

// CancelBooking cancels on behalf of the tenant or the owner.
func (s *Service) CancelBooking(ctx context.Context, bookingID, actorID uint64) (*model.Booking, error) {
	return s.transition(ctx, bookingID, func(b *model.Booking, ownerID uint64) error {
		return Cancel(b, ownerID, actorID)
	})
}

// transition loads the booking and its property, applies the in-memory
// state change and persists it guarded on the state it was loaded in.
// When the guarded write loses a race the current row is re-read so the
// caller gets the precise conflict (AlreadyCancelled vs StateConflict)
// instead of a silent overwrite.
func (s *Service) transition(ctx context.Context, bookingID uint64, apply func(b *model.Booking, ownerID uint64) error) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	prop, err := s.properties.GetByID(ctx, b.PropertyID)
	if err != nil {
		return nil, err
	}
	fromStatus, fromPayment := b.Status, b.PaymentStatus
	if err := apply(b, prop.OwnerID); err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateState(ctx, b, fromStatus, fromPayment); err != nil {
		if errors.Is(err, ErrStateConflict) {
			if fresh, ferr := s.bookings.GetByID(ctx, bookingID); ferr == nil && fresh.Status == model.StatusCancelled {
				return nil, ErrAlreadyCancelled
			}
		}
		return nil, err
	}
	return b, nil
}

// BookedDates expands the active bookings of a property into a sorted
// list of blocked day keys for calendar rendering.
func (s *Service) BookedDates(ctx context.Context, propertyID uint64) ([]string, error) {
	intervals, err := s.bookings.ListActiveIntervals(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	days, err := ExpandBookedDates(intervals)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(days))
	for d := range days {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}
