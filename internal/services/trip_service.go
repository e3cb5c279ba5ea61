package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/travelhub/seatmap-service/internal/database"
	"github.com/travelhub/seatmap-service/internal/models"
	"github.com/travelhub/seatmap-service/internal/seatmap"
)

// ErrTripValidation is returned when a trip request is malformed
var ErrTripValidation = errors.New("invalid trip request")

const defaultListWindow = 30 * 24 * time.Hour

// TripService handles trip records. Every change that affects seats goes through
// SeatMapService so the seat map is rebuilt in the same transaction.
type TripService struct {
	store    database.Store
	seatMaps *SeatMapService
	logger   *logrus.Logger
}

// NewTripService creates a new TripService
func NewTripService(store database.Store, seatMaps *SeatMapService, logger *logrus.Logger) *TripService {
	return &TripService{
		store:    store,
		seatMaps: seatMaps,
		logger:   logger,
	}
}

// CreateTrip stores a trip and provisions its seats. A provisioning failure leaves the
// trip stale for the next sweep instead of failing the create.
func (s *TripService) CreateTrip(ctx context.Context, req *models.CreateTripRequest) (*models.Trip, *models.ReconcileResult, error) {
	trip, err := req.ToTrip()
	if err != nil {
		return nil, nil, validationError(err)
	}

	if err := s.store.CreateTrip(ctx, trip); err != nil {
		return nil, nil, fmt.Errorf("failed to create trip: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":        trip.ID,
		"capacity":       trip.Capacity,
		"classification": trip.Classification,
	}).Info("Trip created")

	result, err := s.seatMaps.Reconcile(ctx, trip.ID)
	if err != nil {
		s.logger.WithError(err).WithField("trip_id", trip.ID).Warn("Seat provisioning failed, trip left for the next sweep")
		return trip, nil, nil
	}

	if stored, err := s.store.GetTrip(ctx, trip.ID); err == nil {
		trip = stored
	}
	return trip, result, nil
}

// GetTrip returns a single trip
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	return s.seatMaps.getTrip(ctx, tripID)
}

// ListTrips returns trips departing between from and to (YYYY-MM-DD, inclusive).
// Empty bounds default to today and thirty days after from.
func (s *TripService) ListTrips(ctx context.Context, from, to string) ([]models.Trip, error) {
	start := time.Now().UTC().Truncate(24 * time.Hour)
	if from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, fmt.Errorf("%w: from must be in YYYY-MM-DD format", ErrTripValidation)
		}
		start = parsed
	}

	end := start.Add(defaultListWindow)
	if to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, fmt.Errorf("%w: to must be in YYYY-MM-DD format", ErrTripValidation)
		}
		end = parsed
	}

	if end.Before(start) {
		return nil, fmt.Errorf("%w: to must not be before from", ErrTripValidation)
	}

	return s.store.ListTrips(ctx, start, end)
}

// UpdateTrip corrects a trip's fare, classification, capacity or row width and
// reconciles its seats atomically with the change
func (s *TripService) UpdateTrip(ctx context.Context, tripID string, req *models.UpdateTripRequest) (*models.Trip, *models.ReconcileResult, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, validationError(err)
	}

	trip, result, err := s.seatMaps.ApplyTripChange(ctx, tripID, func(trip *models.Trip) error {
		if trip.Status != models.TripStatusScheduled {
			return fmt.Errorf("%w: trip is %s", ErrTripValidation, trip.Status)
		}
		req.ApplyTo(trip)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":        tripID,
		"fare":           trip.Fare,
		"classification": trip.Classification,
		"capacity":       trip.Capacity,
	}).Info("Trip updated")

	return trip, result, nil
}

// validationError keeps kernel error kinds intact so callers can report them
func validationError(err error) error {
	if seatmap.KindName(err) != "" {
		return err
	}
	return fmt.Errorf("%w: %v", ErrTripValidation, err)
}
