package seatmap

import "math"

// Amenity tags attached to seats
const (
	FeatureAirConditioning = "air_conditioning"
	FeatureLuggageRack     = "luggage_rack"
	FeatureReclining       = "reclining_seat"
	FeatureWifi            = "wifi"
	FeatureChargingPort    = "charging_port"
	FeatureEntertainment   = "entertainment"
	FeatureRefreshments    = "refreshments"
	FeatureExtraLegroom    = "extra_legroom"
)

// DefaultPriceModifier is applied to every seat. Fare tiers per seat are not priced yet.
const DefaultPriceModifier = 0.0

// priceEpsilon is half a cent; fares are stored as NUMERIC(10,2)
const priceEpsilon = 0.005

var classFeatures = map[Classification]FeatureSet{
	ClassificationStandard: NewFeatureSet(
		FeatureAirConditioning,
		FeatureLuggageRack,
	),
	ClassificationVIP: NewFeatureSet(
		FeatureAirConditioning,
		FeatureLuggageRack,
		FeatureReclining,
		FeatureWifi,
		FeatureChargingPort,
		FeatureEntertainment,
		FeatureRefreshments,
		FeatureExtraLegroom,
	),
}

// FeaturesFor returns a copy of the amenity set of a classification
func FeaturesFor(class Classification) (FeatureSet, error) {
	features, ok := classFeatures[class]
	if !ok {
		return nil, &Error{Kind: ErrUnknownClassification, Field: "classification", Message: "no feature set for " + string(class)}
	}
	out := make(FeatureSet, len(features))
	copy(out, features)
	return out, nil
}

// ResolveAttributes annotates each layout position with the class, price and amenities
// implied by the trip. Every resolved seat is available and active.
func ResolveAttributes(layout []Position, class Classification, baseFare float64) ([]Seat, error) {
	if math.IsNaN(baseFare) || math.IsInf(baseFare, 0) || baseFare < 0 {
		return nil, invalidConfig("base_fare", "must be a non-negative number, got %v", baseFare)
	}
	features, err := FeaturesFor(class)
	if err != nil {
		return nil, err
	}

	seats := make([]Seat, 0, len(layout))
	for _, pos := range layout {
		seats = append(seats, Seat{
			SeatNumber:    pos.SeatNumber,
			Row:           pos.Row,
			Column:        pos.Column,
			SeatClass:     class,
			Status:        SeatStatusAvailable,
			PriceModifier: DefaultPriceModifier,
			FinalPrice:    baseFare + DefaultPriceModifier,
			Features:      NewFeatureSet(features...),
			IsActive:      true,
		})
	}
	return seats, nil
}

// ExpectedSeats runs layout generation and attribute resolution for a trip
func ExpectedSeats(tripID string, capacity, rowWidth int, class Classification, baseFare float64) ([]Seat, error) {
	layout, err := GenerateLayout(capacity, rowWidth)
	if err != nil {
		return nil, err
	}
	seats, err := ResolveAttributes(layout, class, baseFare)
	if err != nil {
		return nil, err
	}
	for i := range seats {
		seats[i].TripID = tripID
	}
	return seats, nil
}

func pricesEqual(a, b float64) bool {
	return math.Abs(a-b) < priceEpsilon
}
