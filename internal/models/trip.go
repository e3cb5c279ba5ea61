package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/travelhub/seatmap-service/internal/seatmap"
)

// TripStatus represents the status of a trip
type TripStatus string

const (
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// Trip is a scheduled bus journey with a fixed capacity and fare class
type Trip struct {
	ID                string                 `json:"id" db:"id"`
	DepartureCity     string                 `json:"departure_city" db:"departure_city"`
	ArrivalCity       string                 `json:"arrival_city" db:"arrival_city"`
	DepartureDate     time.Time              `json:"departure_date" db:"departure_date"`
	DepartureTime     string                 `json:"departure_time" db:"departure_time"`
	Fare              float64                `json:"fare" db:"fare"`
	Classification    seatmap.Classification `json:"classification" db:"classification"`
	Capacity          int                    `json:"capacity" db:"capacity"`
	RowWidth          *int                   `json:"row_width,omitempty" db:"row_width"`
	Status            TripStatus             `json:"status" db:"status"`
	SeatsReconciledAt *time.Time             `json:"seats_reconciled_at,omitempty" db:"seats_reconciled_at"`
	CreatedAt         time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at" db:"updated_at"`
}

// EffectiveRowWidth returns the trip's own row width or the fallback
func (t *Trip) EffectiveRowWidth(fallback int) int {
	if t.RowWidth != nil && *t.RowWidth > 0 {
		return *t.RowWidth
	}
	return fallback
}

// SeatsStale reports whether the trip changed after its seats were last reconciled
func (t *Trip) SeatsStale() bool {
	if t.SeatsReconciledAt == nil {
		return true
	}
	return t.UpdatedAt.After(*t.SeatsReconciledAt)
}

// CreateTripRequest represents the request to create a trip and provision its seats
type CreateTripRequest struct {
	DepartureCity  string  `json:"departure_city" binding:"required"`
	ArrivalCity    string  `json:"arrival_city" binding:"required"`
	DepartureDate  string  `json:"departure_date" binding:"required"` // Format: YYYY-MM-DD
	DepartureTime  string  `json:"departure_time" binding:"required"` // Format: HH:MM
	Fare           float64 `json:"fare" binding:"gte=0"`
	Classification string  `json:"classification" binding:"required"`
	Capacity       int     `json:"capacity" binding:"gte=0,lte=1000"`
	RowWidth       *int    `json:"row_width,omitempty"`
}

// Validate validates the create trip request
func (r *CreateTripRequest) Validate() error {
	if _, err := time.Parse("2006-01-02", r.DepartureDate); err != nil {
		return errors.New("departure_date must be in YYYY-MM-DD format")
	}
	if err := validateClock(r.DepartureTime); err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(r.DepartureCity), strings.TrimSpace(r.ArrivalCity)) {
		return errors.New("departure_city and arrival_city must differ")
	}
	if _, err := seatmap.ParseClassification(r.Classification); err != nil {
		return err
	}
	if r.Capacity < 0 || r.Capacity > seatmap.MaxCapacity {
		return fmt.Errorf("capacity must be between 0 and %d", seatmap.MaxCapacity)
	}
	if r.RowWidth != nil && *r.RowWidth <= 0 {
		return errors.New("row_width must be greater than zero")
	}
	return nil
}

// ToTrip builds the trip record described by the request
func (r *CreateTripRequest) ToTrip() (*Trip, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	date, _ := time.Parse("2006-01-02", r.DepartureDate)
	return &Trip{
		DepartureCity:  strings.TrimSpace(r.DepartureCity),
		ArrivalCity:    strings.TrimSpace(r.ArrivalCity),
		DepartureDate:  date,
		DepartureTime:  r.DepartureTime,
		Fare:           r.Fare,
		Classification: seatmap.Classification(r.Classification),
		Capacity:       r.Capacity,
		RowWidth:       r.RowWidth,
		Status:         TripStatusScheduled,
	}, nil
}

// UpdateTripRequest carries fare, classification, capacity or row width corrections.
// Any change triggers seat reconciliation; a new row width moves seats to their new
// positions, booked ones included.
type UpdateTripRequest struct {
	Fare           *float64 `json:"fare,omitempty" binding:"omitempty,gte=0"`
	Classification *string  `json:"classification,omitempty"`
	Capacity       *int     `json:"capacity,omitempty" binding:"omitempty,gte=0,lte=1000"`
	RowWidth       *int     `json:"row_width,omitempty"`
}

// Validate validates the update trip request
func (r *UpdateTripRequest) Validate() error {
	if r.Fare == nil && r.Classification == nil && r.Capacity == nil && r.RowWidth == nil {
		return errors.New("at least one of fare, classification, capacity or row_width is required")
	}
	if r.Fare != nil && *r.Fare < 0 {
		return errors.New("fare must not be negative")
	}
	if r.Classification != nil {
		if _, err := seatmap.ParseClassification(*r.Classification); err != nil {
			return err
		}
	}
	if r.Capacity != nil && (*r.Capacity < 0 || *r.Capacity > seatmap.MaxCapacity) {
		return fmt.Errorf("capacity must be between 0 and %d", seatmap.MaxCapacity)
	}
	if r.RowWidth != nil && *r.RowWidth <= 0 {
		return errors.New("row_width must be greater than zero")
	}
	return nil
}

// ApplyTo copies the requested corrections onto trip
func (r *UpdateTripRequest) ApplyTo(trip *Trip) {
	if r.Fare != nil {
		trip.Fare = *r.Fare
	}
	if r.Classification != nil {
		trip.Classification = seatmap.Classification(*r.Classification)
	}
	if r.Capacity != nil {
		trip.Capacity = *r.Capacity
	}
	if r.RowWidth != nil {
		width := *r.RowWidth
		trip.RowWidth = &width
	}
}

func validateClock(value string) error {
	if _, err := time.Parse("15:04", value); err == nil {
		return nil
	}
	if _, err := time.Parse("15:04:05", value); err == nil {
		return nil
	}
	return errors.New("departure_time must be in HH:MM format")
}
