// Package queue defines message payloads exchanged over the message broker.
package queue

// PaymentVerifiedEvent is published when an owner verifies a tenant's
// wallet payment and the booking flips to confirmed.  It carries enough
// context for downstream consumers to log or notify without querying
// the primary database.
type PaymentVerifiedEvent struct {
	BookingID        uint64  `json:"booking_id"`
	PropertyID       uint64  `json:"property_id"`
	PropertyTitle    string  `json:"property_title"`
	TenantID         uint64  `json:"tenant_id"`
	OwnerID          uint64  `json:"owner_id"`
	CheckIn          string  `json:"check_in"`
	CheckOut         string  `json:"check_out"`
	TotalNights      int     `json:"total_nights"`
	RateType         string  `json:"rate_type"`
	TotalPrice       float64 `json:"total_price"`
	PaymentMethod    string  `json:"payment_method"`
	PaymentReference string  `json:"payment_reference"`
	VerifiedAt       string  `json:"verified_at"`
}
