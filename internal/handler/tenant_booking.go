package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/labstack/echo/v4"

	"github.com/mlagdao/benguetstays/internal/booking"
	"github.com/mlagdao/benguetstays/internal/model"
	"github.com/mlagdao/benguetstays/internal/repository"
)

// TenantHandler serves the tenant side of the booking flow: creating a
// reservation, listing own stays, submitting the wallet payment
// reference and cancelling.
type TenantHandler struct {
	Engine   *booking.Service
	Bookings *repository.BookingRepo
}

func NewTenantHandler(engine *booking.Service, bookings *repository.BookingRepo) *TenantHandler {
	if engine == nil || bookings == nil {
		panic("nil dependency passed to NewTenantHandler")
	}
	return &TenantHandler{Engine: engine, Bookings: bookings}
}

// bookingView is the JSON shape of a single booking shared by tenant
// and owner endpoints.
type bookingView struct {
	ID               uint64  `json:"id"`
	PropertyID       uint64  `json:"property_id"`
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

func toBookingView(b *model.Booking) bookingView {
	return bookingView{
		ID:               b.ID,
		PropertyID:       b.PropertyID,
		CheckIn:          b.CheckIn.Format(booking.DayKeyFormat),
		CheckOut:         b.CheckOut.Format(booking.DayKeyFormat),
		TotalNights:      b.TotalNights,
		RateType:         b.RateType,
		TotalPrice:       b.TotalPrice,
		Guests:           b.Guests,
		Status:           b.Status,
		PaymentStatus:    b.PaymentStatus,
		PaymentReference: b.PaymentReference,
		PaymentMethod:    b.PaymentMethod,
		SpecialRequests:  b.SpecialRequests,
	}
}

// engineError maps the engine's sentinel errors onto HTTP responses.
// Unknown errors fall through to a 500.
func engineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidDateRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be today or later and before check_out"})
	case errors.Is(err, booking.ErrDatesUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrSelfBooking):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "owners cannot book their own listing"})
	case errors.Is(err, booking.ErrTooManyGuests):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest count exceeds listing capacity"})
	case errors.Is(err, booking.ErrMissingBaseRate):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "listing has no nightly rate configured"})
	case errors.Is(err, booking.ErrMissingReference):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment reference required"})
	case errors.Is(err, booking.ErrInvalidPaymentMethod):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment method must be gcash or maya"})
	case errors.Is(err, booking.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed for this booking"})
	case errors.Is(err, booking.ErrAlreadyCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is already cancelled"})
	case errors.Is(err, booking.ErrStateConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking state does not allow this action"})
	case errors.Is(err, booking.ErrUnpaidConfirmDisabled):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "confirming without payment is disabled"})
	case errors.Is(err, booking.ErrPropertyNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
	case errors.Is(err, booking.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

type createBookingReq struct {
	PropertyID      uint64 `json:"property_id" validate:"required"`
	CheckIn         string `json:"check_in" validate:"required"`
	CheckOut        string `json:"check_out" validate:"required"`
	Guests          int    `json:"guests"`
	SpecialRequests string `json:"special_requests" validate:"max=1000"`
}

// CreateBooking reserves a stay.  The booking is created pending and
// unpaid; payment follows as a separate step.
//
// POST /v1/bookings
func (h *TenantHandler) CreateBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "property_id, check_in and check_out required"})
	}
	checkIn, err := parseDay(req.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
	}
	checkOut, err := parseDay(req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Engine.CreateBooking(ctx, booking.CreateInput{
		PropertyID:      req.PropertyID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
		ActorID:         uid,
	})
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingView(b))
}

// MyBookings lists the tenant's bookings split into upcoming and past.
// A booking counts as upcoming until its check-out day has passed,
// unless it was cancelled.
//
// GET /v1/bookings/my
func (h *TenantHandler) MyBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Bookings.ListByTenant(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}

	// Stored dates are midnight UTC, so the boundary is compared at
	// day granularity rather than the wall-clock instant.
	today := now.New(time.Now().UTC()).BeginningOfDay()
	upcoming := make([]repository.TenantBookingRow, 0)
	past := make([]repository.TenantBookingRow, 0)
	for _, row := range rows {
		checkOut, perr := time.ParseInLocation(booking.DayKeyFormat, row.CheckOut, time.UTC)
		stub := model.Booking{Status: row.Status, CheckOut: checkOut}
		if perr == nil && booking.IsUpcoming(&stub, today) {
			upcoming = append(upcoming, row)
		} else {
			past = append(past, row)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"upcoming": upcoming,
		"past":     past,
	})
}

// GetBooking returns one booking, visible only to the tenant who made
// it.  Owners inspect bookings through their per-listing view instead.
//
// GET /v1/bookings/:id
func (h *TenantHandler) GetBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return engineError(c, err)
	}
	if b.TenantID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	}
	return c.JSON(http.StatusOK, toBookingView(b))
}

type submitPaymentReq struct {
	Reference string `json:"reference" validate:"required"`
	Method    string `json:"method" validate:"required,oneof=gcash maya"`
}

// SubmitPayment records the tenant's wallet transfer reference and
// moves the booking into payment review.
//
// POST /v1/bookings/:id/payment
func (h *TenantHandler) SubmitPayment(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	var req submitPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reference and method (gcash|maya) required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Engine.SubmitPaymentReference(ctx, id, strings.TrimSpace(req.Reference), req.Method, uid)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingView(b))
}

// CancelBooking cancels the tenant's own booking.  Cancelling twice
// reports a conflict, never a silent success.
//
// POST /v1/bookings/:id/cancel
func (h *TenantHandler) CancelBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Engine.CancelBooking(ctx, id, uid)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingView(b))
}
