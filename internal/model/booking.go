package model

import "time"

// Booking lifecycle status values stored in bookings.status.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Payment status values stored in bookings.payment_status.
const (
	PaymentUnpaid             = "unpaid"
	PaymentReferenceSubmitted = "reference_submitted"
	PaymentVerified           = "verified"
	PaymentRefunded           = "refunded"
)

// Mobile wallet apps accepted for manual payment.
const (
	MethodGcash = "gcash"
	MethodMaya  = "maya"
)

// Booking records a tenant's stay at a property.  check_in and
// check_out are day-granular instants forming the half-open interval
// [check_in, check_out); the check-out day itself is free for the next
// guest.  total_nights, rate_type and total_price are derived once at
// creation and never recomputed.
//
// Fields:
//  ID               – primary key identifier.
//  PropertyID       – property being booked, immutable.
//  TenantID         – user who booked, immutable.
//  CheckIn          – first occupied day.
//  CheckOut         – departure day, exclusive.
//  TotalNights      – ceil((check_out − check_in) / 24h).
//  RateType         – pricing tier used (nightly, weekly, monthly).
//  TotalPrice       – price fixed at creation, unrounded.
//  Guests           – guest count, 1..property.max_guests.
//  Status           – pending, confirmed, cancelled or completed.
//  PaymentStatus    – unpaid, reference_submitted, verified or refunded.
//  PaymentReference – wallet reference number submitted by the tenant.
//  PaymentMethod    – gcash, maya or empty before submission.
//  SpecialRequests  – free text from the booking form.
type Booking struct {
	ID               uint64    // bookings.id
	PropertyID       uint64    // bookings.property_id
	TenantID         uint64    // bookings.tenant_id
	CheckIn          time.Time // bookings.check_in
	CheckOut         time.Time // bookings.check_out
	TotalNights      int       // bookings.total_nights
	RateType         string    // bookings.rate_type
	TotalPrice       float64   // bookings.total_price
	Guests           int       // bookings.guests
	Status           string    // bookings.status
	PaymentStatus    string    // bookings.payment_status
	PaymentReference string    // bookings.payment_reference
	PaymentMethod    string    // bookings.payment_method
	SpecialRequests  string    // bookings.special_requests
	CreatedAt        time.Time // bookings.created_at
	UpdatedAt        time.Time // bookings.updated_at
}
