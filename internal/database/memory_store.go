package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/travelhub/seatmap-service/internal/models"
	"github.com/travelhub/seatmap-service/internal/seatmap"
)

// MemoryStore is an in-process Store used for local development and tests.
// Each WithTripLock call works on a private copy of the trip and its seats that is
// swapped in only when fn succeeds.
type MemoryStore struct {
	mu    sync.RWMutex
	trips map[string]models.Trip
	seats map[string][]seatmap.Seat

	locksMu sync.Mutex
	locks   map[string]chan struct{}

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trips: make(map[string]models.Trip),
		seats: make(map[string][]seatmap.Seat),
		locks: make(map[string]chan struct{}),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.Status == "" {
		trip.Status = models.TripStatusScheduled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.trips[trip.ID]; exists {
		return fmt.Errorf("trip %s already exists: %w", trip.ID, ErrConflict)
	}
	now := s.now()
	trip.CreatedAt = now
	trip.UpdatedAt = now
	s.trips[trip.ID] = copyTrip(*trip)
	return nil
}

func (s *MemoryStore) GetTrip(ctx context.Context, id string) (*models.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trip, ok := s.trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyTrip(trip)
	return &out, nil
}

func (s *MemoryStore) ListTrips(ctx context.Context, from, to time.Time) ([]models.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trips := []models.Trip{}
	for _, trip := range s.trips {
		if trip.DepartureDate.Before(from) || trip.DepartureDate.After(to) {
			continue
		}
		trips = append(trips, copyTrip(trip))
	}
	sortTrips(trips)
	return trips, nil
}

func (s *MemoryStore) ListStaleTrips(ctx context.Context, limit int) ([]models.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trips := []models.Trip{}
	for _, trip := range s.trips {
		if trip.Status == models.TripStatusScheduled && trip.SeatsStale() {
			trips = append(trips, copyTrip(trip))
		}
	}
	sortTrips(trips)
	if limit > 0 && len(trips) > limit {
		trips = trips[:limit]
	}
	return trips, nil
}

func (s *MemoryStore) ListSeats(ctx context.Context, tripID string) ([]seatmap.Seat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySeats(s.seats[tripID]), nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// SetSeatStatus moves a seat to status the way the booking subsystem would
func (s *MemoryStore) SetSeatStatus(tripID string, seatNumber int, status seatmap.SeatStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seats := s.seats[tripID]
	for i := range seats {
		if seats[i].SeatNumber == seatNumber {
			seats[i].Status = status
			seats[i].UpdatedAt = s.now()
			return nil
		}
	}
	return ErrNotFound
}

// WithTripLock serializes fn with every other locked call for the same trip
func (s *MemoryStore) WithTripLock(ctx context.Context, tripID string, fn func(tx TripTx) error) error {
	lock := s.tripLock(tripID)
	select {
	case lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-lock }()

	s.mu.RLock()
	trip, exists := s.trips[tripID]
	tx := &memoryTripTx{
		tripID: tripID,
		exists: exists,
		trip:   copyTrip(trip),
		seats:  copySeats(s.seats[tripID]),
		now:    s.now(),
	}
	s.mu.RUnlock()

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.exists {
		s.trips[tripID] = tx.trip
	}
	s.seats[tripID] = tx.seats
	return nil
}

func (s *MemoryStore) tripLock(tripID string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[tripID]
	if !ok {
		lock = make(chan struct{}, 1)
		s.locks[tripID] = lock
	}
	return lock
}

type memoryTripTx struct {
	tripID string
	exists bool
	trip   models.Trip
	seats  []seatmap.Seat
	now    time.Time
}

func (t *memoryTripTx) GetTrip(ctx context.Context, id string) (*models.Trip, error) {
	if id != t.tripID || !t.exists {
		return nil, ErrNotFound
	}
	out := copyTrip(t.trip)
	return &out, nil
}

func (t *memoryTripTx) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID != t.tripID || !t.exists {
		return ErrNotFound
	}
	t.trip.Fare = trip.Fare
	t.trip.Classification = trip.Classification
	t.trip.Capacity = trip.Capacity
	t.trip.RowWidth = copyIntPtr(trip.RowWidth)
	t.trip.UpdatedAt = t.now
	trip.UpdatedAt = t.now
	return nil
}

func (t *memoryTripTx) ListSeats(ctx context.Context, tripID string) ([]seatmap.Seat, error) {
	if tripID != t.tripID {
		return []seatmap.Seat{}, nil
	}
	return copySeats(t.seats), nil
}

func (t *memoryTripTx) ApplyPlan(ctx context.Context, plan seatmap.Plan) error {
	if plan.TripID != t.tripID {
		return fmt.Errorf("plan for trip %s applied under lock of %s: %w", plan.TripID, t.tripID, ErrConflict)
	}

	index := make(map[int]int, len(t.seats))
	for i, seat := range t.seats {
		index[seat.SeatNumber] = i
	}

	for _, seat := range plan.ToInsert {
		if _, exists := index[seat.SeatNumber]; exists {
			return fmt.Errorf("seat %d of trip %s already exists: %w", seat.SeatNumber, t.tripID, ErrConflict)
		}
		seat.ID = uuid.New().String()
		seat.Features = seatmap.NewFeatureSet(seat.Features...)
		seat.CreatedAt = t.now
		seat.UpdatedAt = t.now
		index[seat.SeatNumber] = len(t.seats)
		t.seats = append(t.seats, seat)
	}

	for _, u := range plan.ToUpdate {
		i, ok := index[u.SeatNumber]
		if !ok {
			return fmt.Errorf("seat %d of trip %s disappeared: %w", u.SeatNumber, t.tripID, ErrConflict)
		}
		seat := &t.seats[i]
		if u.Row != nil {
			seat.Row = *u.Row
		}
		if u.Column != nil {
			seat.Column = *u.Column
		}
		if seat.Status == seatmap.SeatStatusAvailable {
			if u.SeatClass != nil {
				seat.SeatClass = *u.SeatClass
			}
			if u.FinalPrice != nil {
				seat.FinalPrice = *u.FinalPrice
			}
			if u.PriceModifier != nil {
				seat.PriceModifier = *u.PriceModifier
			}
			if u.Features != nil {
				seat.Features = seatmap.NewFeatureSet(u.Features...)
			}
		}
		if u.Reactivate {
			seat.IsActive = true
		}
		seat.UpdatedAt = t.now
	}

	for _, d := range plan.ToDeactivate {
		i, ok := index[d.SeatNumber]
		if !ok || !t.seats[i].IsActive {
			continue
		}
		t.seats[i].IsActive = false
		t.seats[i].UpdatedAt = t.now
	}

	sort.Slice(t.seats, func(i, j int) bool { return t.seats[i].SeatNumber < t.seats[j].SeatNumber })
	return nil
}

func (t *memoryTripTx) MarkSeatsReconciled(ctx context.Context, tripID string) error {
	if tripID != t.tripID || !t.exists {
		return ErrNotFound
	}
	now := t.now
	t.trip.SeatsReconciledAt = &now
	return nil
}

func copyTrip(trip models.Trip) models.Trip {
	trip.RowWidth = copyIntPtr(trip.RowWidth)
	if trip.SeatsReconciledAt != nil {
		at := *trip.SeatsReconciledAt
		trip.SeatsReconciledAt = &at
	}
	return trip
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func copySeats(seats []seatmap.Seat) []seatmap.Seat {
	out := make([]seatmap.Seat, len(seats))
	for i, seat := range seats {
		seat.Features = append(seatmap.FeatureSet{}, seat.Features...)
		out[i] = seat
	}
	return out
}

func sortTrips(trips []models.Trip) {
	sort.Slice(trips, func(i, j int) bool {
		if !trips[i].DepartureDate.Equal(trips[j].DepartureDate) {
			return trips[i].DepartureDate.Before(trips[j].DepartureDate)
		}
		if trips[i].DepartureTime != trips[j].DepartureTime {
			return trips[i].DepartureTime < trips[j].DepartureTime
		}
		return trips[i].ID < trips[j].ID
	})
}
