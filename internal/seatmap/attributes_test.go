package seatmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAttributes(t *testing.T) {
	layout, err := GenerateLayout(4, 3)
	require.NoError(t, err)

	t.Run("Standard Trip", func(t *testing.T) {
		seats, err := ResolveAttributes(layout, ClassificationStandard, 1000)
		require.NoError(t, err)
		require.Len(t, seats, 4)

		wantPos := [][2]int{{1, 1}, {1, 2}, {1, 3}, {2, 1}}
		for i, seat := range seats {
			assert.Equal(t, i+1, seat.SeatNumber)
			assert.Equal(t, wantPos[i][0], seat.Row)
			assert.Equal(t, wantPos[i][1], seat.Column)
			assert.Equal(t, ClassificationStandard, seat.SeatClass)
			assert.Equal(t, 1000.0, seat.FinalPrice)
			assert.Equal(t, 0.0, seat.PriceModifier)
			assert.Equal(t, SeatStatusAvailable, seat.Status)
			assert.True(t, seat.IsActive)
			assert.True(t, seat.Features.Has(FeatureAirConditioning))
			assert.False(t, seat.Features.Has(FeatureWifi))
		}
	})

	t.Run("VIP Trip", func(t *testing.T) {
		seats, err := ResolveAttributes(layout, ClassificationVIP, 2500.5)
		require.NoError(t, err)
		for _, seat := range seats {
			assert.Equal(t, ClassificationVIP, seat.SeatClass)
			assert.Equal(t, 2500.5, seat.FinalPrice)
			assert.True(t, seat.Features.Has(FeatureWifi))
			assert.True(t, seat.Features.Has(FeatureExtraLegroom))
		}
	})

	t.Run("Seats Do Not Share Feature Slices", func(t *testing.T) {
		seats, err := ResolveAttributes(layout, ClassificationVIP, 10)
		require.NoError(t, err)
		seats[0].Features[0] = "mutated"
		assert.NotEqual(t, "mutated", seats[1].Features[0])

		fresh, err := FeaturesFor(ClassificationVIP)
		require.NoError(t, err)
		assert.NotContains(t, fresh, "mutated")
	})

	t.Run("Unknown Classification", func(t *testing.T) {
		seats, err := ResolveAttributes(layout, Classification("business"), 1000)
		assert.Nil(t, seats)
		assert.ErrorIs(t, err, ErrUnknownClassification)
		assert.Equal(t, "unknown_classification", KindName(err))
	})

	t.Run("Negative Fare", func(t *testing.T) {
		_, err := ResolveAttributes(layout, ClassificationStandard, -1)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)

		_, err = ResolveAttributes(layout, ClassificationStandard, math.NaN())
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("Empty Layout", func(t *testing.T) {
		seats, err := ResolveAttributes(nil, ClassificationStandard, 100)
		require.NoError(t, err)
		assert.Empty(t, seats)
	})
}

func TestFeaturesForIsTotal(t *testing.T) {
	for _, class := range []Classification{ClassificationStandard, ClassificationVIP} {
		features, err := FeaturesFor(class)
		require.NoError(t, err, class)
		assert.NotEmpty(t, features)
		assert.Equal(t, NewFeatureSet(features...), features, "feature set for %s must be canonical", class)
	}
}

func TestParseClassification(t *testing.T) {
	c, err := ParseClassification("vip")
	require.NoError(t, err)
	assert.Equal(t, ClassificationVIP, c)

	_, err = ParseClassification("VIP")
	assert.ErrorIs(t, err, ErrUnknownClassification)

	_, err = ParseClassification("")
	assert.ErrorIs(t, err, ErrUnknownClassification)
}

func TestExpectedSeats(t *testing.T) {
	seats, err := ExpectedSeats("trip-1", 5, 2, ClassificationStandard, 800)
	require.NoError(t, err)
	require.Len(t, seats, 5)
	for _, seat := range seats {
		assert.Equal(t, "trip-1", seat.TripID)
	}
	assert.Equal(t, 3, seats[4].Row)

	_, err = ExpectedSeats("trip-1", 5, 0, ClassificationStandard, 800)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestFeatureSet(t *testing.T) {
	set := NewFeatureSet("wifi", "air_conditioning", "wifi", "")
	assert.Equal(t, FeatureSet{"air_conditioning", "wifi"}, set)
	assert.True(t, set.Equal(FeatureSet{"wifi", "air_conditioning"}))
	assert.False(t, set.Equal(FeatureSet{"wifi"}))
	assert.True(t, FeatureSet(nil).Equal(FeatureSet{}))

	value, err := set.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"air_conditioning","wifi"}`, value)

	var scanned FeatureSet
	require.NoError(t, scanned.Scan([]byte(`{wifi,air_conditioning}`)))
	assert.Equal(t, FeatureSet{"wifi", "air_conditioning"}, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)
}
