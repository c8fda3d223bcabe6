package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mlagdao/benguetstays/internal/booking"
	"github.com/mlagdao/benguetstays/internal/model"
)

// BookingRepo provides persistence for bookings.  It implements
// booking.BookingStore: Create re-checks availability inside its own
// transaction and guarded updates enforce the state the caller loaded.
// All timestamp fields are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for starting transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, property_id, tenant_id, check_in, check_out, total_nights,
	rate_type, total_price, guests, status, payment_status,
	payment_reference, payment_method, special_requests, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }, b *model.Booking) error {
	return row.Scan(&b.ID, &b.PropertyID, &b.TenantID, &b.CheckIn, &b.CheckOut, &b.TotalNights,
		&b.RateType, &b.TotalPrice, &b.Guests, &b.Status, &b.PaymentStatus,
		&b.PaymentReference, &b.PaymentMethod, &b.SpecialRequests, &b.CreatedAt, &b.UpdatedAt)
}

// GetByID fetches a single booking.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	var b model.Booking
	if err := scanBooking(r.db.QueryRowContext(ctx, q, id), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListActiveIntervals returns the stay ranges of all non-cancelled
// bookings for a property.  Cancelled rows are excluded here so the
// availability check and the calendar expansion always agree on what
// blocks a day.
func (r *BookingRepo) ListActiveIntervals(ctx context.Context, propertyID uint64) ([]booking.Interval, error) {
	const q = `SELECT check_in, check_out FROM bookings
		WHERE property_id = ? AND status <> 'cancelled'
		ORDER BY check_in`
	rows, err := r.db.QueryContext(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []booking.Interval
	for rows.Next() {
		var iv booking.Interval
		if err := rows.Scan(&iv.CheckIn, &iv.CheckOut); err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create persists a new booking.  The requested range is re-checked
// against active bookings of the same property with a locking read
// inside the transaction, so two creators racing past the service-level
// check cannot both commit; the loser gets booking.ErrDatesUnavailable.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const overlapQ = `SELECT COUNT(*) FROM bookings
		WHERE property_id = ? AND status <> 'cancelled'
		  AND check_in < ? AND check_out > ?
		FOR UPDATE`
	var conflicts int
	if err := tx.QueryRowContext(ctx, overlapQ, b.PropertyID, b.CheckOut, b.CheckIn).Scan(&conflicts); err != nil {
		return err
	}
	if conflicts > 0 {
		return booking.ErrDatesUnavailable
	}

	const insertQ = `INSERT INTO bookings
		(property_id, tenant_id, check_in, check_out, total_nights, rate_type, total_price,
		 guests, status, payment_status, payment_reference, payment_method, special_requests)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, insertQ,
		b.PropertyID, b.TenantID, b.CheckIn, b.CheckOut, b.TotalNights, b.RateType, b.TotalPrice,
		b.Guests, b.Status, b.PaymentStatus, b.PaymentReference, b.PaymentMethod, b.SpecialRequests)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	// Query back the full row to populate timestamps and defaults.
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID), b); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UpdateState writes the booking's lifecycle columns guarded on the
// state the caller loaded it in.  When the guard fails the row was
// changed by a concurrent writer and booking.ErrStateConflict is
// returned instead of silently overwriting.
func (r *BookingRepo) UpdateState(ctx context.Context, b *model.Booking, fromStatus, fromPaymentStatus string) error {
	const q = `UPDATE bookings
		SET status = ?, payment_status = ?, payment_reference = ?, payment_method = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ? AND payment_status = ?`
	res, err := r.db.ExecContext(ctx, q,
		b.Status, b.PaymentStatus, b.PaymentReference, b.PaymentMethod,
		b.ID, fromStatus, fromPaymentStatus)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return booking.ErrStateConflict
	}
	return nil
}

// TenantBookingRow is a booking with listing context as shown on the
// tenant's bookings page.
type TenantBookingRow struct {
	ID            uint64  `json:"id"`
	PropertyID    uint64  `json:"property_id"`
	PropertyTitle string  `json:"property_title"`
	Area          string  `json:"area"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	TotalNights   int     `json:"total_nights"`
	RateType      string  `json:"rate_type"`
	TotalPrice    float64 `json:"total_price"`
	Guests        int     `json:"guests"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
}

// OwnerBookingRow extends the tenant view with the booker and payment
// details owners need to verify wallet transfers.
type OwnerBookingRow struct {
	ID               uint64  `json:"id"`
	TenantID         uint64  `json:"tenant_id"`
	TenantEmail      string  `json:"tenant_email"`
	CheckIn          string  `json:"check_in"`
	CheckOut         string  `json:"check_out"`
	TotalNights      int     `json:"total_nights"`
	RateType         string  `json:"rate_type"`
	TotalPrice       float64 `json:"total_price"`
	Guests           int     `json:"guests"`
	Status           string  `json:"status"`
	PaymentStatus    string  `json:"payment_status"`
	PaymentReference string  `json:"payment_reference,omitempty"`
	PaymentMethod    string  `json:"payment_method,omitempty"`
	SpecialRequests  string  `json:"special_requests,omitempty"`
}

// ListByTenant returns all bookings made by one tenant with listing
// context, newest first.
func (r *BookingRepo) ListByTenant(ctx context.Context, tenantID uint64) ([]TenantBookingRow, error) {
	const q = `SELECT b.id, b.property_id, p.title, p.area,
			DATE_FORMAT(b.check_in, '%Y-%m-%d'), DATE_FORMAT(b.check_out, '%Y-%m-%d'),
			b.total_nights, b.rate_type, b.total_price, b.guests, b.status, b.payment_status
		FROM bookings b
		JOIN properties p ON p.id = b.property_id
		WHERE b.tenant_id = ?
		ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TenantBookingRow, 0)
	for rows.Next() {
		var d TenantBookingRow
		if err := rows.Scan(&d.ID, &d.PropertyID, &d.PropertyTitle, &d.Area,
			&d.CheckIn, &d.CheckOut, &d.TotalNights, &d.RateType, &d.TotalPrice,
			&d.Guests, &d.Status, &d.PaymentStatus); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByPropertyForOwner returns all bookings for a listing when
// accessed by its owner.  It verifies ownership first: sql.ErrNoRows
// when the listing does not exist, ErrForbidden when it belongs to a
// different owner.
func (r *BookingRepo) ListByPropertyForOwner(ctx context.Context, propertyID, ownerID uint64) ([]OwnerBookingRow, error) {
	const checkQ = `SELECT owner_id FROM properties WHERE id = ?`
	var actualOwnerID uint64
	if err := r.db.QueryRowContext(ctx, checkQ, propertyID).Scan(&actualOwnerID); err != nil {
		return nil, err
	}
	if actualOwnerID != ownerID {
		return nil, ErrForbidden
	}

	const q = `SELECT b.id, b.tenant_id, u.email,
			DATE_FORMAT(b.check_in, '%Y-%m-%d'), DATE_FORMAT(b.check_out, '%Y-%m-%d'),
			b.total_nights, b.rate_type, b.total_price, b.guests, b.status, b.payment_status,
			b.payment_reference, b.payment_method, b.special_requests
		FROM bookings b
		JOIN users u ON u.id = b.tenant_id
		WHERE b.property_id = ?
		ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OwnerBookingRow, 0)
	for rows.Next() {
		var d OwnerBookingRow
		if err := rows.Scan(&d.ID, &d.TenantID, &d.TenantEmail,
			&d.CheckIn, &d.CheckOut, &d.TotalNights, &d.RateType, &d.TotalPrice,
			&d.Guests, &d.Status, &d.PaymentStatus,
			&d.PaymentReference, &d.PaymentMethod, &d.SpecialRequests); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
