package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/travelhub/seatmap-service/internal/models"
)

const tripColumns = `id, departure_city, arrival_city, departure_date, departure_time, fare,
	classification, capacity, row_width, status, seats_reconciled_at, created_at, updated_at`

// TripRepository handles trips database operations
type TripRepository struct {
	db sqlx.ExtContext
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db sqlx.ExtContext) *TripRepository {
	return &TripRepository{db: db}
}

// Create inserts a trip. The trip's ID is generated when empty.
func (r *TripRepository) Create(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.Status == "" {
		trip.Status = models.TripStatusScheduled
	}

	query := `
		INSERT INTO trips (
			id, departure_city, arrival_city, departure_date, departure_time, fare,
			classification, capacity, row_width, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		trip.ID,
		trip.DepartureCity,
		trip.ArrivalCity,
		trip.DepartureDate,
		trip.DepartureTime,
		trip.Fare,
		trip.Classification,
		trip.Capacity,
		trip.RowWidth,
		trip.Status,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)

	return mapError(err, "failed to create trip")
}

// GetByID returns a single trip
func (r *TripRepository) GetByID(ctx context.Context, id string) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	var trip models.Trip
	if err := sqlx.GetContext(ctx, r.db, &trip, query, id); err != nil {
		return nil, mapError(err, "failed to get trip")
	}
	return &trip, nil
}

// GetByIDForUpdate returns a trip and locks its row until the transaction ends
func (r *TripRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 FOR UPDATE`

	var trip models.Trip
	if err := sqlx.GetContext(ctx, r.db, &trip, query, id); err != nil {
		return nil, mapError(err, "failed to get trip")
	}
	return &trip, nil
}

// ListByDateRange returns trips departing between from and to, inclusive
func (r *TripRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE departure_date BETWEEN $1 AND $2
		ORDER BY departure_date, departure_time
	`

	trips := []models.Trip{}
	if err := sqlx.SelectContext(ctx, r.db, &trips, query, from, to); err != nil {
		return nil, mapError(err, "failed to list trips")
	}
	return trips, nil
}

// ListStale returns scheduled trips whose seats have not been reconciled since their last change
func (r *TripRepository) ListStale(ctx context.Context, limit int) ([]models.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE status = 'scheduled'
		  AND (seats_reconciled_at IS NULL OR updated_at > seats_reconciled_at)
		ORDER BY departure_date, departure_time
		LIMIT $1
	`

	trips := []models.Trip{}
	if err := sqlx.SelectContext(ctx, r.db, &trips, query, limit); err != nil {
		return nil, mapError(err, "failed to list stale trips")
	}
	return trips, nil
}

// Update writes the fare, classification, capacity and row width corrections of a trip
func (r *TripRepository) Update(ctx context.Context, trip *models.Trip) error {
	query := `
		UPDATE trips
		SET fare = $1,
			classification = $2,
			capacity = $3,
			row_width = $4,
			updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		trip.Fare,
		trip.Classification,
		trip.Capacity,
		trip.RowWidth,
		trip.ID,
	).Scan(&trip.UpdatedAt)

	return mapError(err, "failed to update trip")
}

// MarkSeatsReconciled records that the trip's seats match its current attributes
func (r *TripRepository) MarkSeatsReconciled(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE trips SET seats_reconciled_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "failed to mark trip reconciled")
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
