package model

import (
	"database/sql"
	"time"
)

// Property types accepted by the listing form.
const (
	PropertyEntirePlace = "entire_place"
	PropertyPrivateRoom = "private_room"
	PropertyBedspace    = "bedspace"
)

// Property is a rental listing managed by an owner.  Rates hold the
// three pricing tiers: the nightly rate is required for a property to
// be bookable, the weekly and monthly rates are optional and stored as
// nullable columns.
//
// Fields:
//  ID           – primary key identifier.
//  OwnerID      – user who manages the listing.
//  Title        – short listing title.
//  Description  – optional long-form description.
//  PropertyType – entire_place, private_room or bedspace.
//  Area         – municipality or city of the listing.
//  Street       – street address, may be empty.
//  Landmark     – optional nearby landmark.
//  MaxGuests    – guest capacity, at least 1.
//  Bedrooms     – number of bedrooms.
//  Beds         – number of beds.
//  Bathrooms    – number of bathrooms.
//  RateNightly  – price per night; null means not bookable.
//  RateWeekly   – optional price per week.
//  RateMonthly  – optional price per month.
//  HouseRules   – free-text rules, may be empty.
//  CheckInTime  – daily check-in time as HH:MM.
//  CheckOutTime – daily check-out time as HH:MM.
//  IsActive     – whether the listing is visible and bookable.
type Property struct {
	ID           uint64          // properties.id
	OwnerID      uint64          // properties.owner_id
	Title        string          // properties.title
	Description  sql.NullString  // properties.description
	PropertyType string          // properties.property_type
	Area         string          // properties.area
	Street       string          // properties.street
	Landmark     sql.NullString  // properties.landmark
	MaxGuests    int             // properties.max_guests
	Bedrooms     int             // properties.bedrooms
	Beds         int             // properties.beds
	Bathrooms    int             // properties.bathrooms
	RateNightly  sql.NullFloat64 // properties.rate_nightly
	RateWeekly   sql.NullFloat64 // properties.rate_weekly
	RateMonthly  sql.NullFloat64 // properties.rate_monthly
	HouseRules   string          // properties.house_rules
	CheckInTime  string          // properties.check_in_time
	CheckOutTime string          // properties.check_out_time
	IsActive     bool            // properties.is_active
	CreatedAt    time.Time       // properties.created_at
	UpdatedAt    time.Time       // properties.updated_at
}
