package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mlagdao/benguetstays/internal/booking"
	"github.com/mlagdao/benguetstays/internal/model"
)

// PropertyRepo provides persistence for rental listings.  Lookup
// methods return the engine's booking.ErrPropertyNotFound sentinel so
// that *PropertyRepo satisfies booking.PropertyStore without an
// adapter in between.
type PropertyRepo struct {
	db *sql.DB
}

// NewPropertyRepo constructs a PropertyRepo with the given DB handle.
func NewPropertyRepo(db *sql.DB) *PropertyRepo {
	return &PropertyRepo{db: db}
}

// DB exposes the underlying handle for starting transactions.
func (r *PropertyRepo) DB() *sql.DB { return r.db }

const propertyColumns = `id, owner_id, title, description, property_type, area, street, landmark,
	max_guests, bedrooms, beds, bathrooms, rate_nightly, rate_weekly, rate_monthly,
	house_rules, check_in_time, check_out_time, is_active, created_at, updated_at`

func scanProperty(row interface{ Scan(...any) error }, p *model.Property) error {
	return row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.PropertyType, &p.Area,
		&p.Street, &p.Landmark, &p.MaxGuests, &p.Bedrooms, &p.Beds, &p.Bathrooms,
		&p.RateNightly, &p.RateWeekly, &p.RateMonthly, &p.HouseRules,
		&p.CheckInTime, &p.CheckOutTime, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
}

// Create inserts a new listing.  OwnerID, Title, PropertyType, Area and
// MaxGuests must be set.  After the insert the record is read back so
// defaults and timestamps are populated.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	const qInsert = `INSERT INTO properties
		(owner_id, title, description, property_type, area, street, landmark,
		 max_guests, bedrooms, beds, bathrooms, rate_nightly, rate_weekly, rate_monthly,
		 house_rules, check_in_time, check_out_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		p.OwnerID, p.Title, p.Description, p.PropertyType, p.Area, p.Street, p.Landmark,
		p.MaxGuests, p.Bedrooms, p.Beds, p.Bathrooms, p.RateNightly, p.RateWeekly, p.RateMonthly,
		p.HouseRules, p.CheckInTime, p.CheckOutTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	const qSelect = `SELECT ` + propertyColumns + ` FROM properties WHERE id = ?`
	return scanProperty(r.db.QueryRowContext(ctx, qSelect, p.ID), p)
}

// GetByID retrieves a listing by its ID regardless of owner.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*model.Property, error) {
	const q = `SELECT ` + propertyColumns + ` FROM properties WHERE id = ?`
	var p model.Property
	if err := scanProperty(r.db.QueryRowContext(ctx, q, id), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrPropertyNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByIDAndOwner retrieves a listing only when it belongs to the given
// owner.  It returns booking.ErrPropertyNotFound when no row exists and
// ErrForbidden when the listing is owned by someone else.
func (r *PropertyRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Property, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return p, nil
}

// ListByOwner returns all listings managed by one owner, newest first.
func (r *PropertyRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Property, error) {
	const q = `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Property
	for rows.Next() {
		p := new(model.Property)
		if err := scanProperty(rows, p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateByIDAndOwner updates the editable listing fields when the
// listing belongs to the given owner.  Returns sql.ErrNoRows when no
// matching row was updated.
func (r *PropertyRepo) UpdateByIDAndOwner(ctx context.Context, p *model.Property) error {
	const q = `UPDATE properties
		SET title = ?, description = ?, property_type = ?, area = ?, street = ?, landmark = ?,
		    max_guests = ?, bedrooms = ?, beds = ?, bathrooms = ?,
		    rate_nightly = ?, rate_weekly = ?, rate_monthly = ?,
		    house_rules = ?, check_in_time = ?, check_out_time = ?, is_active = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		p.Title, p.Description, p.PropertyType, p.Area, p.Street, p.Landmark,
		p.MaxGuests, p.Bedrooms, p.Beds, p.Bathrooms,
		p.RateNightly, p.RateWeekly, p.RateMonthly,
		p.HouseRules, p.CheckInTime, p.CheckOutTime, p.IsActive,
		p.ID, p.OwnerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// PropertySearchQuery defines filters & pagination for browsing listings.
type PropertySearchQuery struct {
	Area         string
	PropertyType string
	Guests       int
	MaxNightly   float64
	Page         int
	PageSize     int
}

// PublicPropertyRow is the sanitized listing shape returned to guests.
type PublicPropertyRow struct {
	ID           uint64   `json:"id"`
	Title        string   `json:"title"`
	PropertyType string   `json:"property_type"`
	Area         string   `json:"area"`
	MaxGuests    int      `json:"max_guests"`
	Beds         int      `json:"beds"`
	Bathrooms    int      `json:"bathrooms"`
	RateNightly  *float64 `json:"rate_nightly"`
	RateWeekly   *float64 `json:"rate_weekly,omitempty"`
	RateMonthly  *float64 `json:"rate_monthly,omitempty"`
}

// Search returns active listings matching the filters plus the total
// match count for pagination.
func (r *PropertyRepo) Search(ctx context.Context, q PropertySearchQuery) ([]PublicPropertyRow, int64, error) {
	where := []string{"p.is_active = 1"}
	args := []any{}

	if q.Area != "" {
		where = append(where, "LOWER(p.area) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Area)+"%")
	}
	if q.PropertyType != "" {
		where = append(where, "p.property_type = ?")
		args = append(args, q.PropertyType)
	}
	if q.Guests > 0 {
		where = append(where, "p.max_guests >= ?")
		args = append(args, q.Guests)
	}
	if q.MaxNightly > 0 {
		where = append(where, "p.rate_nightly <= ?")
		args = append(args, q.MaxNightly)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	countSQL := `SELECT COUNT(*) FROM properties p WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT p.id, p.title, p.property_type, p.area, p.max_guests, p.beds, p.bathrooms,
			p.rate_nightly, p.rate_weekly, p.rate_monthly
		FROM properties p
		WHERE ` + cond + `
		ORDER BY p.created_at DESC
		LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicPropertyRow, 0, limit)
	for rows.Next() {
		var d PublicPropertyRow
		var nightly, weekly, monthly sql.NullFloat64
		if err := rows.Scan(&d.ID, &d.Title, &d.PropertyType, &d.Area, &d.MaxGuests,
			&d.Beds, &d.Bathrooms, &nightly, &weekly, &monthly); err != nil {
			return nil, 0, err
		}
		if nightly.Valid {
			v := nightly.Float64
			d.RateNightly = &v
		}
		if weekly.Valid {
			v := weekly.Float64
			d.RateWeekly = &v
		}
		if monthly.Valid {
			v := monthly.Float64
			d.RateMonthly = &v
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
