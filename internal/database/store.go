package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/travelhub/seatmap-service/internal/config"
	"github.com/travelhub/seatmap-service/internal/models"
	"github.com/travelhub/seatmap-service/internal/seatmap"
)

// Store is the persistence collaborator of the seat map service. Implementations must
// serialize WithTripLock calls for the same trip id.
type Store interface {
	CreateTrip(ctx context.Context, trip *models.Trip) error
	GetTrip(ctx context.Context, id string) (*models.Trip, error)
	ListTrips(ctx context.Context, from, to time.Time) ([]models.Trip, error)
	ListStaleTrips(ctx context.Context, limit int) ([]models.Trip, error)
	ListSeats(ctx context.Context, tripID string) ([]seatmap.Seat, error)

	// WithTripLock runs fn in a single transaction holding the trip's write lock.
	// Nothing fn wrote is kept when it returns an error.
	WithTripLock(ctx context.Context, tripID string, fn func(tx TripTx) error) error

	Ping(ctx context.Context) error
}

// TripTx is the view of the store inside a locked trip transaction
type TripTx interface {
	GetTrip(ctx context.Context, id string) (*models.Trip, error)
	UpdateTrip(ctx context.Context, trip *models.Trip) error
	ListSeats(ctx context.Context, tripID string) ([]seatmap.Seat, error)
	ApplyPlan(ctx context.Context, plan seatmap.Plan) error
	MarkSeatsReconciled(ctx context.Context, tripID string) error
}

// Open returns the Store selected by cfg.Driver and a function that releases it.
// Pending migrations are applied to PostgreSQL when cfg.RunMigrations is set.
func Open(cfg config.DatabaseConfig, logger *logrus.Logger) (Store, func(), error) {
	if cfg.Driver == config.StorageDriverMemory {
		logger.Warn("Using in-memory storage, data will not survive a restart")
		return NewMemoryStore(), func() {}, nil
	}

	db, err := NewConnection(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Database connection established")

	if cfg.RunMigrations {
		if err := RunMigrations(db.DB.DB, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
	}

	return NewPostgresStore(db.DB, logger), func() { db.Close() }, nil
}
