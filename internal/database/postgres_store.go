package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/travelhub/seatmap-service/internal/models"
	"github.com/travelhub/seatmap-service/internal/seatmap"
)

// PostgresStore is the Store backed by PostgreSQL
type PostgresStore struct {
	db     *sqlx.DB
	trips  *TripRepository
	seats  *SeatRepository
	logger *logrus.Logger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a store over an open connection
func NewPostgresStore(db *sqlx.DB, logger *logrus.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		trips:  NewTripRepository(db),
		seats:  NewSeatRepository(db),
		logger: logger,
	}
}

func (s *PostgresStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	return s.trips.Create(ctx, trip)
}

func (s *PostgresStore) GetTrip(ctx context.Context, id string) (*models.Trip, error) {
	return s.trips.GetByID(ctx, id)
}

func (s *PostgresStore) ListTrips(ctx context.Context, from, to time.Time) ([]models.Trip, error) {
	return s.trips.ListByDateRange(ctx, from, to)
}

func (s *PostgresStore) ListStaleTrips(ctx context.Context, limit int) ([]models.Trip, error) {
	return s.trips.ListStale(ctx, limit)
}

func (s *PostgresStore) ListSeats(ctx context.Context, tripID string) ([]seatmap.Seat, error) {
	return s.seats.GetByTripID(ctx, tripID)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTripLock opens a transaction, takes a transaction-scoped advisory lock keyed on
// the trip id and runs fn. The lock is released when the transaction ends.
func (s *PostgresStore) WithTripLock(ctx context.Context, tripID string, fn func(tx TripTx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, tripID); err != nil {
		_ = tx.Rollback()
		return mapError(err, "failed to lock trip")
	}

	if err := fn(&postgresTripTx{trips: NewTripRepository(tx), seats: NewSeatRepository(tx)}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.WithError(rbErr).WithField("trip_id", tripID).Warn("Rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError(err, "failed to commit transaction")
	}
	return nil
}

type postgresTripTx struct {
	trips *TripRepository
	seats *SeatRepository
}

func (t *postgresTripTx) GetTrip(ctx context.Context, id string) (*models.Trip, error) {
	return t.trips.GetByIDForUpdate(ctx, id)
}

func (t *postgresTripTx) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	return t.trips.Update(ctx, trip)
}

func (t *postgresTripTx) ListSeats(ctx context.Context, tripID string) ([]seatmap.Seat, error) {
	return t.seats.GetByTripID(ctx, tripID)
}

func (t *postgresTripTx) ApplyPlan(ctx context.Context, plan seatmap.Plan) error {
	return t.seats.ApplyPlan(ctx, plan)
}

func (t *postgresTripTx) MarkSeatsReconciled(ctx context.Context, tripID string) error {
	return t.trips.MarkSeatsReconciled(ctx, tripID)
}
