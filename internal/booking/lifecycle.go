package booking

import (
	"strings"
	"time"

	"github.com/mlagdao/benguetstays/internal/model"
)

// State is the single tagged lifecycle state of a booking.  The two
// persisted columns (status, payment_status) are a projection of it;
// deriving the tag before every transition keeps illegal column
// combinations (e.g. pending + verified) from ever being written.
type State int

const (
	// StatePendingUnpaid: just booked, no payment activity yet.
	StatePendingUnpaid State = iota
	// StatePendingVerification: the tenant submitted a wallet
	// reference and is waiting for the owner to verify it.
	StatePendingVerification
	// StateConfirmed: the owner verified the payment; status and
	// payment_status moved together.
	StateConfirmed
	// StateConfirmedUnpaid: legacy owner-side confirmation that
	// bypassed payment.  Kept representable because the alternate
	// entry point still produces it.
	StateConfirmedUnpaid
	// StateCancelled is terminal for either actor.
	StateCancelled
	// StateCompleted is terminal; it is only ever stored by
	// operational tooling, the engine itself never writes it.
	StateCompleted
)

// StateOf derives the tagged state from the persisted columns.
// Combinations outside the projection table are reported as
// ErrStateConflict so a corrupt row fails loudly instead of being
// transitioned blindly.
func StateOf(status, paymentStatus string) (State, error) {
	switch status {
	case model.StatusCancelled:
		return StateCancelled, nil
	case model.StatusCompleted:
		return StateCompleted, nil
	case model.StatusPending:
		switch paymentStatus {
		case model.PaymentUnpaid, model.PaymentRefunded:
			return StatePendingUnpaid, nil
		case model.PaymentReferenceSubmitted:
			return StatePendingVerification, nil
		}
	case model.StatusConfirmed:
		if paymentStatus == model.PaymentVerified {
			return StateConfirmed, nil
		}
		return StateConfirmedUnpaid, nil
	}
	return 0, ErrStateConflict
}

// actorRole resolves which side of the booking the actor is on.
func actorRole(b *model.Booking, propertyOwnerID, actorID uint64) (isTenant, isOwner bool) {
	return actorID == b.TenantID, actorID == propertyOwnerID
}

// SubmitReference records the tenant's mobile-wallet reference number
// and moves payment to reference_submitted.  Only the tenant may
// submit; the reference must be non-empty and the method one of the
// accepted wallets.  Resubmitting while still waiting for verification
// overwrites the previous reference, matching the payment page.
func SubmitReference(b *model.Booking, propertyOwnerID, actorID uint64, reference, method string) error {
	isTenant, _ := actorRole(b, propertyOwnerID, actorID)
	if !isTenant {
		return ErrUnauthorized
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return ErrMissingReference
	}
	if method != model.MethodGcash && method != model.MethodMaya {
		return ErrInvalidPaymentMethod
	}
	state, err := StateOf(b.Status, b.PaymentStatus)
	if err != nil {
		return err
	}
	switch state {
	case StatePendingUnpaid, StatePendingVerification, StateConfirmedUnpaid:
		b.PaymentReference = reference
		b.PaymentMethod = method
		b.PaymentStatus = model.PaymentReferenceSubmitted
		return nil
	case StateCancelled:
		return ErrAlreadyCancelled
	default:
		return ErrStateConflict
	}
}

// Verify marks the payment as verified on behalf of the property
// owner.  Verification always confirms the booking in the same step;
// the two columns never move separately.
//
// A booking with no submitted reference may be verified directly: the
// expected flow is submit-then-verify, but owners who were paid
// outside the app (cash, an over-the-counter transfer) reconcile the
// booking without a reference, so that leniency is deliberate.
func Verify(b *model.Booking, propertyOwnerID, actorID uint64) error {
	_, isOwner := actorRole(b, propertyOwnerID, actorID)
	if !isOwner {
		return ErrUnauthorized
	}
	state, err := StateOf(b.Status, b.PaymentStatus)
	if err != nil {
		return err
	}
	switch state {
	case StatePendingUnpaid, StatePendingVerification, StateConfirmedUnpaid:
		b.PaymentStatus = model.PaymentVerified
		b.Status = model.StatusConfirmed
		return nil
	case StateCancelled:
		return ErrAlreadyCancelled
	default:
		return ErrStateConflict
	}
}

// ConfirmWithoutPayment is the legacy owner shortcut that confirms a
// pending booking while leaving payment untouched.  The service gates
// it behind configuration; the transition itself only checks role and
// state.
func ConfirmWithoutPayment(b *model.Booking, propertyOwnerID, actorID uint64) error {
	_, isOwner := actorRole(b, propertyOwnerID, actorID)
	if !isOwner {
		return ErrUnauthorized
	}
	state, err := StateOf(b.Status, b.PaymentStatus)
	if err != nil {
		return err
	}
	switch state {
	case StatePendingUnpaid, StatePendingVerification:
		b.Status = model.StatusConfirmed
		return nil
	case StateCancelled:
		return ErrAlreadyCancelled
	default:
		return ErrStateConflict
	}
}

// Cancel moves a booking to cancelled.  Either the tenant or the
// property owner may cancel; cancelling twice fails with
// ErrAlreadyCancelled regardless of actor.
func Cancel(b *model.Booking, propertyOwnerID, actorID uint64) error {
	isTenant, isOwner := actorRole(b, propertyOwnerID, actorID)
	if !isTenant && !isOwner {
		return ErrUnauthorized
	}
	state, err := StateOf(b.Status, b.PaymentStatus)
	if err != nil {
		return err
	}
	switch state {
	case StateCancelled:
		return ErrAlreadyCancelled
	case StateCompleted:
		return ErrStateConflict
	default:
		b.Status = model.StatusCancelled
		return nil
	}
}

// IsUpcoming classifies a booking for display: a stay is upcoming
// until its check-out day has passed, unless it was cancelled.  The
// engine never stores "completed"; it is this derived view.
func IsUpcoming(b *model.Booking, now time.Time) bool {
	return b.Status != model.StatusCancelled && !b.CheckOut.Before(now)
}
