package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"
	"github.com/travelhub/seatmap-service/internal/config"
	"github.com/travelhub/seatmap-service/internal/database"
	"github.com/travelhub/seatmap-service/internal/models"
	"github.com/travelhub/seatmap-service/internal/seatmap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrTripNotFound is returned when the trip does not exist
var ErrTripNotFound = errors.New("trip not found")

// TripError ties a failure to the trip it happened on
type TripError struct {
	TripID string
	Err    error
}

func (e *TripError) Error() string {
	return fmt.Sprintf("trip %s: %v", e.TripID, e.Err)
}

func (e *TripError) Unwrap() error {
	return e.Err
}

// SeatMapService keeps each trip's stored seats in line with the trip's capacity,
// classification and fare
type SeatMapService struct {
	store  database.Store
	cfg    config.SeatMapConfig
	logger *logrus.Logger
}

// NewSeatMapService creates a new SeatMapService
func NewSeatMapService(store database.Store, cfg config.SeatMapConfig, logger *logrus.Logger) *SeatMapService {
	return &SeatMapService{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// GetSeatMap returns a trip with all its seats, an availability summary and the row layout
func (s *SeatMapService) GetSeatMap(ctx context.Context, tripID string) (*models.SeatMapResponse, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	seats, err := s.store.ListSeats(ctx, tripID)
	if err != nil {
		return nil, &TripError{TripID: tripID, Err: err}
	}

	return &models.SeatMapResponse{
		Trip:    trip,
		Seats:   seats,
		Summary: seatmap.Summarize(tripID, seats),
		Layout:  seatmap.BuildPreview(seats),
	}, nil
}

// GetSummary returns seat counts by availability
func (s *SeatMapService) GetSummary(ctx context.Context, tripID string) (*seatmap.Summary, error) {
	if _, err := s.getTrip(ctx, tripID); err != nil {
		return nil, err
	}

	seats, err := s.store.ListSeats(ctx, tripID)
	if err != nil {
		return nil, &TripError{TripID: tripID, Err: err}
	}

	summary := seatmap.Summarize(tripID, seats)
	return &summary, nil
}

// Preview computes the plan a reconciliation would apply without writing anything
func (s *SeatMapService) Preview(ctx context.Context, tripID string) (*models.ReconcileResult, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	seats, err := s.store.ListSeats(ctx, tripID)
	if err != nil {
		return nil, &TripError{TripID: tripID, Err: err}
	}

	plan, err := s.plan(trip, seats)
	if err != nil {
		return nil, &TripError{TripID: tripID, Err: err}
	}

	return &models.ReconcileResult{
		TripID:   tripID,
		DryRun:   true,
		Attempts: 1,
		Counts:   plan.Counts(),
		Plan:     plan,
	}, nil
}

// Reconcile brings the trip's stored seats in line with the trip and records the trip
// as reconciled. Running it on a trip with no seats provisions the full seat map.
func (s *SeatMapService) Reconcile(ctx context.Context, tripID string) (*models.ReconcileResult, error) {
	result := &models.ReconcileResult{TripID: tripID}

	attempts, err := s.withRetry(ctx, tripID, func() error {
		return s.store.WithTripLock(ctx, tripID, func(tx database.TripTx) error {
			trip, err := tx.GetTrip(ctx, tripID)
			if err != nil {
				return err
			}
			plan, err := s.reconcileLocked(ctx, tx, trip)
			if err != nil {
				return err
			}
			result.Plan = plan
			return nil
		})
	})
	result.Attempts = attempts
	if err != nil {
		return nil, err
	}

	result.Counts = result.Plan.Counts()
	s.logPlan(result)
	return result, nil
}

// ApplyTripChange updates a trip and reconciles its seats in the same locked transaction,
// so no reader ever sees the new trip attributes paired with seats built from the old ones
func (s *SeatMapService) ApplyTripChange(ctx context.Context, tripID string, mutate func(trip *models.Trip) error) (*models.Trip, *models.ReconcileResult, error) {
	var updated *models.Trip
	result := &models.ReconcileResult{TripID: tripID}

	attempts, err := s.withRetry(ctx, tripID, func() error {
		return s.store.WithTripLock(ctx, tripID, func(tx database.TripTx) error {
			trip, err := tx.GetTrip(ctx, tripID)
			if err != nil {
				return err
			}
			if err := mutate(trip); err != nil {
				return err
			}
			if err := tx.UpdateTrip(ctx, trip); err != nil {
				return err
			}
			plan, err := s.reconcileLocked(ctx, tx, trip)
			if err != nil {
				return err
			}
			updated = trip
			result.Plan = plan
			return nil
		})
	})
	result.Attempts = attempts
	if err != nil {
		return nil, nil, err
	}

	result.Counts = result.Plan.Counts()
	s.logPlan(result)
	return updated, result, nil
}

// ReconcileStale reconciles (or, with dryRun, previews) up to limit trips whose seats are
// older than their last change. A failing trip does not stop the sweep.
func (s *SeatMapService) ReconcileStale(ctx context.Context, limit int, dryRun bool) (*models.BatchReconcileResult, error) {
	trips, err := s.store.ListStaleTrips(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale trips: %w", err)
	}

	ids := make([]string, 0, len(trips))
	for _, trip := range trips {
		ids = append(ids, trip.ID)
	}
	return s.ReconcileTrips(ctx, ids, dryRun)
}

// ReconcileTrips reconciles each trip independently with bounded concurrency and a
// steady start rate
func (s *SeatMapService) ReconcileTrips(ctx context.Context, tripIDs []string, dryRun bool) (*models.BatchReconcileResult, error) {
	batch := &models.BatchReconcileResult{
		Checked:  len(tripIDs),
		Failures: make(map[string]string),
	}

	limiter := rate.NewLimiter(rate.Limit(s.cfg.RatePerSecond), 1)
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.cfg.BatchConcurrency)

	for _, id := range tripIDs {
		tripID := id
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}

			var (
				result *models.ReconcileResult
				err    error
			)
			if dryRun {
				result, err = s.Preview(ctx, tripID)
			} else {
				result, err = s.Reconcile(ctx, tripID)
			}

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				batch.Failed++
				batch.Failures[tripID] = err.Error()
				s.logger.WithError(err).WithFields(logrus.Fields{
					"trip_id":    tripID,
					"error_kind": seatmap.KindName(err),
				}).Error("Seat map reconciliation failed")
				return nil
			}

			if result.Plan.IsEmpty() {
				batch.Unchanged++
			} else {
				batch.Reconciled++
			}
			batch.TotalCounts.Inserted += result.Counts.Inserted
			batch.TotalCounts.Updated += result.Counts.Updated
			batch.TotalCounts.Deactivated += result.Counts.Deactivated
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return batch, err
	}

	s.logger.WithFields(logrus.Fields{
		"checked":    batch.Checked,
		"reconciled": batch.Reconciled,
		"unchanged":  batch.Unchanged,
		"failed":     batch.Failed,
		"dry_run":    dryRun,
	}).Info("Seat map sweep finished")

	return batch, nil
}

// reconcileLocked diffs and writes the trip's seats. The caller holds the trip lock.
func (s *SeatMapService) reconcileLocked(ctx context.Context, tx database.TripTx, trip *models.Trip) (seatmap.Plan, error) {
	actual, err := tx.ListSeats(ctx, trip.ID)
	if err != nil {
		return seatmap.Plan{}, err
	}

	plan, err := s.plan(trip, actual)
	if err != nil {
		return seatmap.Plan{}, err
	}

	if !plan.IsEmpty() {
		if err := tx.ApplyPlan(ctx, plan); err != nil {
			return seatmap.Plan{}, err
		}
	}

	if err := tx.MarkSeatsReconciled(ctx, trip.ID); err != nil {
		return seatmap.Plan{}, err
	}
	return plan, nil
}

func (s *SeatMapService) plan(trip *models.Trip, actual []seatmap.Seat) (seatmap.Plan, error) {
	expected, err := seatmap.ExpectedSeats(
		trip.ID,
		trip.Capacity,
		trip.EffectiveRowWidth(s.cfg.DefaultRowWidth),
		trip.Classification,
		trip.Fare,
	)
	if err != nil {
		return seatmap.Plan{}, err
	}
	return seatmap.Reconcile(trip.ID, expected, actual)
}

// withRetry runs op until it succeeds, fails permanently, or runs out of attempts.
// Each attempt starts from a fresh read.
func (s *SeatMapService) withRetry(ctx context.Context, tripID string, op func() error) (int, error) {
	attempts := 0
	maxAttempts := s.cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		err := op()
		if err == nil {
			return struct{}{}, nil
		}
		if !retryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(&linearBackOff{step: s.cfg.RetryBackoff}),
		backoff.WithMaxTries(uint(maxAttempts)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"trip_id": tripID,
				"attempt": attempts,
				"wait":    wait.String(),
			}).Warn("Seat map write failed, retrying from a fresh read")
		}),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		if errors.Is(err, database.ErrNotFound) {
			err = ErrTripNotFound
		}
		return attempts, &TripError{TripID: tripID, Err: err}
	}
	return attempts, nil
}

func (s *SeatMapService) getTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &TripError{TripID: tripID, Err: ErrTripNotFound}
		}
		return nil, &TripError{TripID: tripID, Err: err}
	}
	return trip, nil
}

func (s *SeatMapService) logPlan(result *models.ReconcileResult) {
	entry := s.logger.WithFields(logrus.Fields{
		"trip_id":     result.TripID,
		"inserted":    result.Counts.Inserted,
		"updated":     result.Counts.Updated,
		"deactivated": result.Counts.Deactivated,
		"attempts":    result.Attempts,
	})
	if result.Plan.IsEmpty() {
		entry.Debug("Seat map already consistent")
		return
	}
	entry.Info("Seat map reconciled")
}

// retryable reports whether a fresh read might let op succeed
func retryable(err error) bool {
	if seatmap.KindName(err) != "" {
		return false
	}
	if errors.Is(err, database.ErrNotFound) || errors.Is(err, ErrTripValidation) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// linearBackOff waits step, 2*step, 3*step, ... between attempts
type linearBackOff struct {
	step time.Duration
	n    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.step
}

func (b *linearBackOff) Reset() {
	b.n = 0
}
