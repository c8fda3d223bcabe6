package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mlagdao/benguetstays/internal/booking"
	"github.com/mlagdao/benguetstays/internal/queue"
	"github.com/mlagdao/benguetstays/internal/repository"
	queue_publisher "github.com/mlagdao/benguetstays/internal/service"
)

// PropertyBookings lists every booking on one of the owner's listings,
// including the payment reference and method the owner needs to check
// against their wallet before verifying.
//
// GET /v1/owner/properties/:id/bookings
func (h *OwnerHandler) PropertyBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Bookings.ListByPropertyForOwner(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your property"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}

// VerifyPayment marks a submitted wallet payment as verified, which
// also confirms the booking.  On success a PaymentVerifiedEvent is
// published for downstream consumers; a broker failure never rolls the
// verification back.
//
// POST /v1/owner/bookings/:id/verify-payment
func (h *OwnerHandler) VerifyPayment(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Engine.VerifyPayment(ctx, id, uid)
	if err != nil {
		return engineError(c, err)
	}

	if prop, perr := h.Properties.GetByID(ctx, b.PropertyID); perr == nil {
		ev := queue.PaymentVerifiedEvent{
			BookingID:        b.ID,
			PropertyID:       b.PropertyID,
			PropertyTitle:    prop.Title,
			TenantID:         b.TenantID,
			OwnerID:          prop.OwnerID,
			CheckIn:          b.CheckIn.Format(booking.DayKeyFormat),
			CheckOut:         b.CheckOut.Format(booking.DayKeyFormat),
			TotalNights:      b.TotalNights,
			RateType:         b.RateType,
			TotalPrice:       b.TotalPrice,
			PaymentMethod:    b.PaymentMethod,
			PaymentReference: b.PaymentReference,
			VerifiedAt:       time.Now().UTC().Format(time.RFC3339),
		}
		_ = queue_publisher.PublishPaymentVerified(ctx, ev)
	}

	return c.JSON(http.StatusOK, toBookingView(b))
}

// ConfirmBooking confirms a pending booking without verified payment.
// Kept for owners collecting cash on arrival; disabled unless the
// deployment opts in.
//
// POST /v1/owner/bookings/:id/confirm
func (h *OwnerHandler) ConfirmBooking(c echo.Context) error {
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

	b, err := h.Engine.ConfirmBooking(ctx, id, uid)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingView(b))
}

// CancelBooking cancels a booking on one of the owner's listings.
//
// POST /v1/owner/bookings/:id/cancel
func (h *OwnerHandler) CancelBooking(c echo.Context) error {
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
