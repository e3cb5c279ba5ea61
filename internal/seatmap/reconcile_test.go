package seatmap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storedSeats simulates what the seat store returns after an earlier provisioning run
func storedSeats(t *testing.T, tripID string, capacity int, class Classification, fare float64) []Seat {
	t.Helper()
	seats, err := ExpectedSeats(tripID, capacity, 4, class, fare)
	require.NoError(t, err)
	for i := range seats {
		seats[i].ID = fmt.Sprintf("seat-%d", seats[i].SeatNumber)
	}
	return seats
}

func TestReconcile_FreshTripInsertsEverything(t *testing.T) {
	expected := storedSeats(t, "trip-1", 10, ClassificationStandard, 1000)

	plan, err := Reconcile("trip-1", expected, nil)
	require.NoError(t, err)
	assert.Equal(t, "trip-1", plan.TripID)
	assert.Len(t, plan.ToInsert, 10)
	assert.Empty(t, plan.ToUpdate)
	assert.Empty(t, plan.ToDeactivate)
	for i, seat := range plan.ToInsert {
		assert.Equal(t, i+1, seat.SeatNumber)
		assert.Equal(t, "trip-1", seat.TripID)
	}
}

func TestReconcile_NoDriftIsNoOp(t *testing.T) {
	actual := storedSeats(t, "trip-1", 12, ClassificationVIP, 2000)
	expected, err := ExpectedSeats("trip-1", 12, 4, ClassificationVIP, 2000)
	require.NoError(t, err)

	plan, err := Reconcile("trip-1", expected, actual)
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())
	assert.Equal(t, PlanCounts{}, plan.Counts())
}

func TestReconcile_Reclassification(t *testing.T) {
	actual := storedSeats(t, "trip-1", 8, ClassificationStandard, 2000)
	expected, err := ExpectedSeats("trip-1", 8, 4, ClassificationVIP, 2000)
	require.NoError(t, err)

	// only seat 5 drifted
	for i := range actual {
		if actual[i].SeatNumber != 5 {
			actual[i].SeatClass = ClassificationVIP
			actual[i].Features, _ = FeaturesFor(ClassificationVIP)
		}
	}

	plan, err := Reconcile("trip-1", expected, actual)
	require.NoError(t, err)
	assert.Empty(t, plan.ToInsert)
	assert.Empty(t, plan.ToDeactivate)
	require.Len(t, plan.ToUpdate, 1)

	update := plan.ToUpdate[0]
	assert.Equal(t, 5, update.SeatNumber)
	assert.Equal(t, "seat-5", update.ID)
	require.NotNil(t, update.SeatClass)
	assert.Equal(t, ClassificationVIP, *update.SeatClass)
	assert.Nil(t, update.FinalPrice, "fare unchanged so price must not be rewritten")
	assert.Nil(t, update.PriceModifier)
	assert.True(t, update.Features.Has(FeatureWifi))
	assert.False(t, update.Reactivate)

	after := plan.Apply(actual)
	assert.Equal(t, ClassificationVIP, after[4].SeatClass)
	assert.Equal(t, 2000.0, after[4].FinalPrice)
}

func TestReconcile_CapacityShrink(t *testing.T) {
	actual := storedSeats(t, "trip-1", 40, ClassificationStandard, 1500)
	expected, err := ExpectedSeats("trip-1", 35, 4, ClassificationStandard, 1500)
	require.NoError(t, err)

	plan, err := Reconcile("trip-1", expected, actual)
	require.NoError(t, err)
	assert.Empty(t, plan.ToInsert)
	assert.Empty(t, plan.ToUpdate)
	require.Len(t, plan.ToDeactivate, 5)
	for i, seat := range plan.ToDeactivate {
		assert.Equal(t, 36+i, seat.SeatNumber)
	}
}

func TestReconcile_CapacityGrowsBack(t *testing.T) {
	actual := storedSeats(t, "trip-1", 40, ClassificationStandard, 1500)
	shrunk, err := ExpectedSeats("trip-1", 35, 4, ClassificationStandard, 1500)
	require.NoError(t, err)

	plan, err := Reconcile("trip-1", shrunk, actual)
	require.NoError(t, err)
	actual = plan.Apply(actual)

	grown, err := ExpectedSeats("trip-1", 42, 4, ClassificationStandard, 1500)
	require.NoError(t, err)
	plan, err = Reconcile("trip-1", grown, actual)
	require.NoError(t, err)

	assert.Empty(t, plan.ToDeactivate)
	require.Len(t, plan.ToInsert, 2)
	assert.Equal(t, 41, plan.ToInsert[0].SeatNumber)
	assert.Equal(t, 42, plan.ToInsert[1].SeatNumber)
	require.Len(t, plan.ToUpdate, 5)
	for i, u := range plan.ToUpdate {
		assert.Equal(t, 36+i, u.SeatNumber)
		assert.True(t, u.Reactivate)
		assert.Nil(t, u.SeatClass)
	}

	again, err := Reconcile("trip-1", grown, plan.Apply(actual))
	require.NoError(t, err)
	assert.True(t, again.IsEmpty())
}

func TestReconcile_FareChange(t *testing.T) {
	actual := storedSeats(t, "trip-1", 4, ClassificationStandard, 1000)
	expected, err := ExpectedSeats("trip-1", 4, 4, ClassificationStandard, 1250)
	require.NoError(t, err)

	plan, err := Reconcile("trip-1", expected, actual)
	require.NoError(t, err)
	require.Len(t, plan.ToUpdate, 4)
	for _, u := range plan.ToUpdate {
		require.NotNil(t, u.FinalPrice)
		assert.Equal(t, 1250.0, *u.FinalPrice)
		require.NotNil(t, u.PriceModifier)
		assert.Equal(t, 0.0, *u.PriceModifier)
		assert.Nil(t, u.SeatClass)
		assert.Nil(t, u.Features)
	}
}

func TestReconcile_SubCentPriceNoiseIgnored(t *testing.T) {
	actual := storedSeats(t, "trip-1", 2, ClassificationStandard, 1000.001)
	expected, err := ExpectedSeats("trip-1", 2, 4, ClassificationStandard, 1000)
	require.NoError(t, err)

	plan, err := Reconcile("trip-1", expected, actual)
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())
}

func TestReconcile_FrozenSeats(t *testing.T) {
	actual := storedSeats(t, "trip-1", 6, ClassificationStandard, 1000)
	actual[1].Status = SeatStatusBooked
	actual[2].Status = SeatStatusHeld

	expected, err := ExpectedSeats("trip-1", 6, 4, ClassificationVIP, 3000)
	require.NoError(t, err)

	plan, err := Reconcile("trip-1", expected, actual)
	require.NoError(t, err)
	require.Len(t, plan.ToUpdate, 4)
	for _, u := range plan.ToUpdate {
		assert.NotEqual(t, 2, u.SeatNumber)
		assert.NotEqual(t, 3, u.SeatNumber)
	}

	after := plan.Apply(actual)
	assert.Equal(t, ClassificationStandard, after[1].SeatClass)
	assert.Equal(t, 1000.0, after[1].FinalPrice)
	assert.Equal(t, ClassificationVIP, after[0].SeatClass)

	again, err := Reconcile("trip-1", expected, after)
	require.NoError(t, err)
	assert.True(t, again.IsEmpty())
}

func TestReconcile_BookedSeatOutsideRangeIsDeactivated(t *testing.T) {
	actual := storedSeats(t, "trip-1", 5, ClassificationStandard, 1000)
	actual[4].Status = SeatStatusBooked
	expected, err := ExpectedSeats("trip-1", 4, 4, ClassificationStandard, 1000)
	require.NoError(t, err)

	plan, err := Reconcile("trip-1", expected, actual)
	require.NoError(t, err)
	require.Len(t, plan.ToDeactivate, 1)
	assert.Equal(t, SeatStatusBooked, plan.ToDeactivate[0].Status)

	after := plan.Apply(actual)
	require.Len(t, after, 5)
	assert.False(t, after[4].IsActive)
	assert.Equal(t, SeatStatusBooked, after[4].Status, "booking history must be kept")
}

func TestReconcile_InconsistentRecords(t *testing.T) {
	expected, err := ExpectedSeats("trip-1", 3, 4, ClassificationStandard, 1000)
	require.NoError(t, err)

	cases := map[string]func(s []Seat){
		"Missing Seat Number": func(s []Seat) { s[0].SeatNumber = 0 },
		"Missing Class":       func(s []Seat) { s[1].SeatClass = "" },
		"Unknown Status":      func(s []Seat) { s[2].Status = "sold" },
		"Duplicate Number":    func(s []Seat) { s[2].SeatNumber = 1 },
		"Foreign Trip":        func(s []Seat) { s[0].TripID = "trip-2" },
	}

	for name, corrupt := range cases {
		t.Run(name, func(t *testing.T) {
			actual := storedSeats(t, "trip-1", 3, ClassificationStandard, 1000)
			corrupt(actual)

			plan, err := Reconcile("trip-1", expected, actual)
			assert.ErrorIs(t, err, ErrInconsistentSeatRecord)
			assert.Equal(t, "inconsistent_seat_record", KindName(err))
			assert.True(t, plan.IsEmpty())
		})
	}
}

func TestReconcile_InvalidExpected(t *testing.T) {
	expected, err := ExpectedSeats("trip-1", 3, 4, ClassificationStandard, 1000)
	require.NoError(t, err)
	expected[2].SeatNumber = 2

	_, err = Reconcile("trip-1", expected, nil)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	expected[2].SeatNumber = 3
	expected[0].SeatClass = "economy"
	_, err = Reconcile("trip-1", expected, nil)
	assert.ErrorIs(t, err, ErrUnknownClassification)
}

func TestPlanApplyDoesNotMutateInput(t *testing.T) {
	actual := storedSeats(t, "trip-1", 4, ClassificationStandard, 1000)
	expected, err := ExpectedSeats("trip-1", 2, 4, ClassificationVIP, 1000)
	require.NoError(t, err)

	plan, err := Reconcile("trip-1", expected, actual)
	require.NoError(t, err)
	_ = plan.Apply(actual)

	for _, seat := range actual {
		assert.Equal(t, ClassificationStandard, seat.SeatClass)
		assert.True(t, seat.IsActive)
	}
}

func TestReconcile_RowWidthChangeMovesSeats(t *testing.T) {
	actual := storedSeats(t, "trip-1", 8, ClassificationStandard, 1000)
	actual[2].Status = SeatStatusBooked
	expected, err := ExpectedSeats("trip-1", 8, 2, ClassificationStandard, 1000)
	require.NoError(t, err)

	plan, err := Reconcile("trip-1", expected, actual)
	require.NoError(t, err)
	assert.Empty(t, plan.ToInsert)
	assert.Empty(t, plan.ToDeactivate)

	// seats 1 and 2 sit at row 1 in both layouts
	require.Len(t, plan.ToUpdate, 6)
	for _, u := range plan.ToUpdate {
		require.NotNil(t, u.Row)
		require.NotNil(t, u.Column)
		assert.Equal(t, (u.SeatNumber+1)/2, *u.Row)
		assert.Equal(t, (u.SeatNumber-1)%2+1, *u.Column)
		assert.Nil(t, u.SeatClass)
		assert.Nil(t, u.FinalPrice)
	}

	applied := plan.Apply(actual)
	booked := applied[2]
	assert.Equal(t, SeatStatusBooked, booked.Status)
	assert.Equal(t, 2, booked.Row)
	assert.Equal(t, 1, booked.Column)

	second, err := Reconcile("trip-1", expected, applied)
	require.NoError(t, err)
	assert.True(t, second.IsEmpty())
}
