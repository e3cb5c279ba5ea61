package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/travelhub/seatmap-service/internal/seatmap"
)

// SeatRepository handles trip_seats database operations
type SeatRepository struct {
	db sqlx.ExtContext
}

// NewSeatRepository creates a new SeatRepository
func NewSeatRepository(db sqlx.ExtContext) *SeatRepository {
	return &SeatRepository{db: db}
}

// GetByTripID returns every seat of a trip, active or not, ordered by seat number
func (r *SeatRepository) GetByTripID(ctx context.Context, tripID string) ([]seatmap.Seat, error) {
	query := `
		SELECT id, trip_id, seat_number, row_number, column_number, seat_class, status,
			   price_modifier, final_price, features, is_active, created_at, updated_at
		FROM trip_seats
		WHERE trip_id = $1
		ORDER BY seat_number
	`

	seats := []seatmap.Seat{}
	if err := sqlx.SelectContext(ctx, r.db, &seats, query, tripID); err != nil {
		return nil, mapError(err, "failed to get trip seats")
	}
	return seats, nil
}

// insertBatchSize keeps one INSERT (10 parameters per seat) under PostgreSQL's
// 65535 bind parameter limit
const insertBatchSize = 500

// InsertSeats creates seats in batches of insertBatchSize
func (r *SeatRepository) InsertSeats(ctx context.Context, seats []seatmap.Seat) (int, error) {
	query := `
		INSERT INTO trip_seats (
			trip_id, seat_number, row_number, column_number, seat_class, status,
			price_modifier, final_price, features, is_active
		) VALUES (
			:trip_id, :seat_number, :row_number, :column_number, :seat_class, :status,
			:price_modifier, :final_price, :features, :is_active
		)
	`

	inserted := 0
	for start := 0; start < len(seats); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(seats) {
			end = len(seats)
		}

		result, err := sqlx.NamedExecContext(ctx, r.db, query, seats[start:end])
		if err != nil {
			return inserted, mapError(err, "failed to insert trip seats")
		}
		rows, _ := result.RowsAffected()
		inserted += int(rows)
	}
	return inserted, nil
}

// UpdateSeat applies one corrective write. Position always follows the layout. Class,
// price and amenities are only rewritten while the seat is still available, so a booking
// that lands between the read and this write keeps what it was sold with.
func (r *SeatRepository) UpdateSeat(ctx context.Context, tripID string, u seatmap.SeatUpdate) error {
	query := `
		UPDATE trip_seats
		SET seat_class = CASE WHEN status = 'available' THEN COALESCE($1, seat_class) ELSE seat_class END,
			final_price = CASE WHEN status = 'available' THEN COALESCE($2, final_price) ELSE final_price END,
			price_modifier = CASE WHEN status = 'available' THEN COALESCE($3, price_modifier) ELSE price_modifier END,
			features = CASE WHEN status = 'available' THEN COALESCE($4, features) ELSE features END,
			is_active = is_active OR $5,
			row_number = COALESCE($8, row_number),
			column_number = COALESCE($9, column_number),
			updated_at = NOW()
		WHERE trip_id = $6 AND seat_number = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableClass(u.SeatClass),
		nullableFloat(u.FinalPrice),
		nullableFloat(u.PriceModifier),
		nullableFeatures(u.Features),
		u.Reactivate,
		tripID,
		u.SeatNumber,
		nullableInt(u.Row),
		nullableInt(u.Column),
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to update seat %d", u.SeatNumber))
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("seat %d of trip %s disappeared: %w", u.SeatNumber, tripID, ErrConflict)
	}
	return nil
}

// DeactivateSeats soft-deletes seats by number
func (r *SeatRepository) DeactivateSeats(ctx context.Context, tripID string, seatNumbers []int) (int, error) {
	if len(seatNumbers) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`
		UPDATE trip_seats
		SET is_active = FALSE,
			updated_at = NOW()
		WHERE trip_id = ? AND seat_number IN (?) AND is_active = TRUE
	`, tripID, seatNumbers)
	if err != nil {
		return 0, err
	}

	query = r.db.Rebind(query)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapError(err, "failed to deactivate seats")
	}

	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// ApplyPlan executes the three write sets of a reconciliation plan
func (r *SeatRepository) ApplyPlan(ctx context.Context, plan seatmap.Plan) error {
	if _, err := r.InsertSeats(ctx, plan.ToInsert); err != nil {
		return err
	}

	for _, u := range plan.ToUpdate {
		if err := r.UpdateSeat(ctx, plan.TripID, u); err != nil {
			return err
		}
	}

	numbers := make([]int, 0, len(plan.ToDeactivate))
	for _, seat := range plan.ToDeactivate {
		numbers = append(numbers, seat.SeatNumber)
	}
	if _, err := r.DeactivateSeats(ctx, plan.TripID, numbers); err != nil {
		return err
	}

	return nil
}

func nullableClass(c *seatmap.Classification) interface{} {
	if c == nil {
		return nil
	}
	return string(*c)
}

func nullableFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func nullableInt(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

func nullableFeatures(f seatmap.FeatureSet) interface{} {
	if f == nil {
		return nil
	}
	return f
}
