package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mlagdao/benguetstays/internal/booking"
	"github.com/mlagdao/benguetstays/internal/model"
	"github.com/mlagdao/benguetstays/internal/repository"
)

// OwnerHandler serves the owner console: listing management plus the
// per-listing booking and payment views (owner_booking.go).
type OwnerHandler struct {
	Properties *repository.PropertyRepo
	Bookings   *repository.BookingRepo
	Engine     *booking.Service
}

func NewOwnerHandler(props *repository.PropertyRepo, bookings *repository.BookingRepo, engine *booking.Service) *OwnerHandler {
	if props == nil || bookings == nil || engine == nil {
		panic("nil dependency passed to NewOwnerHandler")
	}
	return &OwnerHandler{Properties: props, Bookings: bookings, Engine: engine}
}

type propertyReq struct {
	Title        string   `json:"title" validate:"required,max=150"`
	Description  *string  `json:"description"`
	PropertyType string   `json:"property_type" validate:"required,oneof=entire_place private_room bedspace"`
	Area         string   `json:"area" validate:"required,max=100"`
	Street       string   `json:"street" validate:"max=200"`
	Landmark     *string  `json:"landmark"`
	MaxGuests    int      `json:"max_guests" validate:"required,min=1,max=50"`
	Bedrooms     int      `json:"bedrooms" validate:"min=0"`
	Beds         int      `json:"beds" validate:"min=0"`
	Bathrooms    int      `json:"bathrooms" validate:"min=0"`
	RateNightly  *float64 `json:"rate_nightly" validate:"omitempty,gt=0"`
	RateWeekly   *float64 `json:"rate_weekly" validate:"omitempty,gt=0"`
	RateMonthly  *float64 `json:"rate_monthly" validate:"omitempty,gt=0"`
	HouseRules   string   `json:"house_rules" validate:"max=2000"`
	CheckInTime  string   `json:"check_in_time"`
	CheckOutTime string   `json:"check_out_time"`
	IsActive     *bool    `json:"is_active"`
}

func nullStr(s *string) sql.NullString {
	if s == nil || strings.TrimSpace(*s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.TrimSpace(*s), Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func (req *propertyReq) apply(p *model.Property) {
	p.Title = strings.TrimSpace(req.Title)
	p.Description = nullStr(req.Description)
	p.PropertyType = req.PropertyType
	p.Area = strings.TrimSpace(req.Area)
	p.Street = strings.TrimSpace(req.Street)
	p.Landmark = nullStr(req.Landmark)
	p.MaxGuests = req.MaxGuests
	p.Bedrooms = req.Bedrooms
	p.Beds = req.Beds
	p.Bathrooms = req.Bathrooms
	p.RateNightly = nullFloat(req.RateNightly)
	p.RateWeekly = nullFloat(req.RateWeekly)
	p.RateMonthly = nullFloat(req.RateMonthly)
	p.HouseRules = strings.TrimSpace(req.HouseRules)
	p.CheckInTime = req.CheckInTime
	if p.CheckInTime == "" {
		p.CheckInTime = "14:00"
	}
	p.CheckOutTime = req.CheckOutTime
	if p.CheckOutTime == "" {
		p.CheckOutTime = "12:00"
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
}

// CreateProperty registers a new listing for the authenticated owner.
// A listing without a nightly rate can be saved but cannot be booked
// until one is set.
//
// POST /v1/owner/properties
func (h *OwnerHandler) CreateProperty(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, property_type, area and max_guests required"})
	}

	p := model.Property{OwnerID: uid, IsActive: true}
	req.apply(&p)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Properties.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create property failed"})
	}
	return c.JSON(http.StatusCreated, toPropertyDetail(&p))
}

// MyProperties lists the owner's listings, including inactive ones.
//
// GET /v1/owner/properties
func (h *OwnerHandler) MyProperties(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	props, err := h.Properties.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load properties failed"})
	}

	type ownedProperty struct {
		propertyDetail
		IsActive bool `json:"is_active"`
	}
	out := make([]ownedProperty, 0, len(props))
	for _, p := range props {
		out = append(out, ownedProperty{propertyDetail: toPropertyDetail(p), IsActive: p.IsActive})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// UpdateProperty replaces the editable fields of a listing the owner
// manages.  Deactivating a listing hides it from search but leaves
// existing bookings untouched.
//
// PUT /v1/owner/properties/:id
func (h *OwnerHandler) UpdateProperty(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}

	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, property_type, area and max_guests required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Properties.GetByIDAndOwner(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrPropertyNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your property"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
	}

	req.apply(p)
	if err := h.Properties.UpdateByIDAndOwner(ctx, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update property failed"})
	}
	return c.JSON(http.StatusOK, toPropertyDetail(p))
}
