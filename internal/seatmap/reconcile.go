package seatmap

import "sort"

// Reconcile diffs the seats a trip should have against the seats currently stored for
// it and returns the writes that align them. It performs no I/O.
//
// Held and booked seats keep the class, price and amenities they were sold with; they
// are only ever moved to their derived position, reactivated or deactivated. Seats that fall outside the expected range are
// deactivated rather than deleted so booking history survives a capacity cut.
func Reconcile(tripID string, expected, actual []Seat) (Plan, error) {
	if err := validateExpected(expected); err != nil {
		return Plan{}, err
	}
	byNumber, err := indexActual(tripID, actual)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{
		TripID:       tripID,
		ToInsert:     make([]Seat, 0),
		ToUpdate:     make([]SeatUpdate, 0),
		ToDeactivate: make([]Seat, 0),
	}

	wanted := make(map[int]struct{}, len(expected))
	for _, exp := range expected {
		wanted[exp.SeatNumber] = struct{}{}

		current, ok := byNumber[exp.SeatNumber]
		if !ok {
			seat := exp
			seat.TripID = tripID
			seat.Features = NewFeatureSet(exp.Features...)
			plan.ToInsert = append(plan.ToInsert, seat)
			continue
		}

		if update, changed := diffSeat(exp, current); changed {
			plan.ToUpdate = append(plan.ToUpdate, update)
		}
	}

	for _, seat := range sortedByNumber(actual) {
		if _, ok := wanted[seat.SeatNumber]; ok || !seat.IsActive {
			continue
		}
		plan.ToDeactivate = append(plan.ToDeactivate, seat)
	}

	return plan, nil
}

func diffSeat(exp, current Seat) (SeatUpdate, bool) {
	update := SeatUpdate{ID: current.ID, SeatNumber: current.SeatNumber}
	changed := false

	if !current.IsActive {
		update.Reactivate = true
		changed = true
	}
	if current.Row != exp.Row || current.Column != exp.Column {
		row, column := exp.Row, exp.Column
		update.Row = &row
		update.Column = &column
		changed = true
	}
	if current.Status.Frozen() {
		return update, changed
	}

	if current.SeatClass != exp.SeatClass {
		class := exp.SeatClass
		update.SeatClass = &class
		changed = true
	}
	if !pricesEqual(current.FinalPrice, exp.FinalPrice) {
		price, modifier := exp.FinalPrice, exp.PriceModifier
		update.FinalPrice = &price
		update.PriceModifier = &modifier
		changed = true
	}
	if !current.Features.Equal(exp.Features) {
		update.Features = NewFeatureSet(exp.Features...)
		changed = true
	}
	return update, changed
}

func validateExpected(expected []Seat) error {
	seen := make(map[int]struct{}, len(expected))
	for _, seat := range expected {
		if seat.SeatNumber <= 0 {
			return invalidConfig("seat_number", "expected seat number must be positive, got %d", seat.SeatNumber)
		}
		if _, dup := seen[seat.SeatNumber]; dup {
			return invalidConfig("seat_number", "expected seat %d appears more than once", seat.SeatNumber)
		}
		seen[seat.SeatNumber] = struct{}{}
		if !seat.SeatClass.Valid() {
			return &Error{Kind: ErrUnknownClassification, Field: "seat_class", Message: "expected seat has class " + string(seat.SeatClass)}
		}
	}
	return nil
}

func indexActual(tripID string, actual []Seat) (map[int]Seat, error) {
	byNumber := make(map[int]Seat, len(actual))
	for _, seat := range actual {
		if seat.SeatNumber <= 0 {
			return nil, inconsistent("seat_number", "stored seat %q has no valid seat number", seat.ID)
		}
		if tripID != "" && seat.TripID != "" && seat.TripID != tripID {
			return nil, inconsistent("trip_id", "seat %d belongs to trip %s", seat.SeatNumber, seat.TripID)
		}
		if !seat.SeatClass.Valid() {
			return nil, inconsistent("seat_class", "seat %d has class %q", seat.SeatNumber, seat.SeatClass)
		}
		if !seat.Status.Valid() {
			return nil, inconsistent("status", "seat %d has status %q", seat.SeatNumber, seat.Status)
		}
		if _, dup := byNumber[seat.SeatNumber]; dup {
			return nil, inconsistent("seat_number", "seat %d is stored more than once", seat.SeatNumber)
		}
		byNumber[seat.SeatNumber] = seat
	}
	return byNumber, nil
}

// Apply returns the seat set that results from writing plan over actual.
// actual is not modified.
func (p Plan) Apply(actual []Seat) []Seat {
	byNumber := make(map[int]Seat, len(actual)+len(p.ToInsert))
	for _, seat := range actual {
		byNumber[seat.SeatNumber] = seat
	}

	for _, u := range p.ToUpdate {
		seat, ok := byNumber[u.SeatNumber]
		if !ok {
			continue
		}
		if u.Row != nil {
			seat.Row = *u.Row
		}
		if u.Column != nil {
			seat.Column = *u.Column
		}
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
			seat.Features = NewFeatureSet(u.Features...)
		}
		if u.Reactivate {
			seat.IsActive = true
		}
		byNumber[u.SeatNumber] = seat
	}

	for _, d := range p.ToDeactivate {
		if seat, ok := byNumber[d.SeatNumber]; ok {
			seat.IsActive = false
			byNumber[d.SeatNumber] = seat
		}
	}

	for _, ins := range p.ToInsert {
		if _, exists := byNumber[ins.SeatNumber]; !exists {
			byNumber[ins.SeatNumber] = ins
		}
	}

	out := make([]Seat, 0, len(byNumber))
	for _, seat := range byNumber {
		out = append(out, seat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatNumber < out[j].SeatNumber })
	return out
}

func sortedByNumber(seats []Seat) []Seat {
	out := make([]Seat, len(seats))
	copy(out, seats)
	sort.Slice(out, func(i, j int) bool { return out[i].SeatNumber < out[j].SeatNumber })
	return out
}
