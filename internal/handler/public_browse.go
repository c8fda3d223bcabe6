package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mlagdao/benguetstays/internal/booking"
	"github.com/mlagdao/benguetstays/internal/model"
	"github.com/mlagdao/benguetstays/internal/repository"
)

// PublicHandler serves the unauthenticated catalogue: listing search,
// listing detail and the availability calendar.  Search and detail sit
// behind the Redis response cache; the calendar is always served
// fresh.
type PublicHandler struct {
	Properties *repository.PropertyRepo
	Engine     *booking.Service
}

func NewPublicHandler(props *repository.PropertyRepo, engine *booking.Service) *PublicHandler {
	if props == nil || engine == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Properties: props, Engine: engine}
}

// SearchProperties lists active listings filtered by area, property
// type, guest count and nightly price ceiling, paginated.
//
// GET /v1/properties?area=&type=&guests=&max_nightly=&page=&page_size=
func (h *PublicHandler) SearchProperties(c echo.Context) error {
	q := repository.PropertySearchQuery{
		Area: strings.TrimSpace(c.QueryParam("area")),
	}

	if t := strings.TrimSpace(c.QueryParam("type")); t != "" {
		switch t {
		case model.PropertyEntirePlace, model.PropertyPrivateRoom, model.PropertyBedspace:
			q.PropertyType = t
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown property type"})
		}
	}
	if g := c.QueryParam("guests"); g != "" {
		n, err := strconv.Atoi(g)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests must be a positive number"})
		}
		q.Guests = n
	}
	if m := c.QueryParam("max_nightly"); m != "" {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil || v <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_nightly must be a positive number"})
		}
		q.MaxNightly = v
	}

	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	if q.Page < 1 {
		q.Page = 1
	}
	q.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Properties.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"meta": echo.Map{
			"page":      q.Page,
			"page_size": q.PageSize,
			"total":     total,
		},
	})
}

// propertyDetail is the public listing detail shape.  Inactive listings
// and owner identity are not exposed here.
type propertyDetail struct {
	ID           uint64   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	PropertyType string   `json:"property_type"`
	Area         string   `json:"area"`
	Street       string   `json:"street"`
	Landmark     string   `json:"landmark,omitempty"`
	MaxGuests    int      `json:"max_guests"`
	Bedrooms     int      `json:"bedrooms"`
	Beds         int      `json:"beds"`
	Bathrooms    int      `json:"bathrooms"`
	RateNightly  *float64 `json:"rate_nightly"`
	RateWeekly   *float64 `json:"rate_weekly,omitempty"`
	RateMonthly  *float64 `json:"rate_monthly,omitempty"`
	HouseRules   string   `json:"house_rules,omitempty"`
	CheckInTime  string   `json:"check_in_time"`
	CheckOutTime string   `json:"check_out_time"`
}

func toPropertyDetail(p *model.Property) propertyDetail {
	d := propertyDetail{
		ID:           p.ID,
		Title:        p.Title,
		PropertyType: p.PropertyType,
		Area:         p.Area,
		Street:       p.Street,
		MaxGuests:    p.MaxGuests,
		Bedrooms:     p.Bedrooms,
		Beds:         p.Beds,
		Bathrooms:    p.Bathrooms,
		HouseRules:   p.HouseRules,
		CheckInTime:  p.CheckInTime,
		CheckOutTime: p.CheckOutTime,
	}
	if p.Description.Valid {
		d.Description = p.Description.String
	}
	if p.Landmark.Valid {
		d.Landmark = p.Landmark.String
	}
	if p.RateNightly.Valid {
		v := p.RateNightly.Float64
		d.RateNightly = &v
	}
	if p.RateWeekly.Valid {
		v := p.RateWeekly.Float64
		d.RateWeekly = &v
	}
	if p.RateMonthly.Valid {
		v := p.RateMonthly.Float64
		d.RateMonthly = &v
	}
	return d
}

// GetProperty returns one active listing.
//
// GET /v1/properties/:id
func (h *PublicHandler) GetProperty(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, booking.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
	}
	if !p.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
	}
	return c.JSON(http.StatusOK, toPropertyDetail(p))
}

// BookedDates returns the blocked calendar days for a listing as
// YYYY-MM-DD strings.  Checkout days stay free, so back-to-back stays
// never collide on the calendar.
//
// GET /v1/properties/:id/booked-dates
func (h *PublicHandler) BookedDates(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Properties.GetByID(ctx, id); err != nil {
		if errors.Is(err, booking.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load property failed"})
	}

	days, err := h.Engine.BookedDates(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load calendar failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"property_id":  id,
		"booked_dates": days,
	})
}
