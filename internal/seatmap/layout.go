package seatmap

// MaxCapacity is the largest seat count a trip may declare
const MaxCapacity = 1000

// GenerateLayout assigns row/column coordinates to seats 1..capacity, filling rows of
// rowWidth seats left to right. The result is fully determined by its inputs.
func GenerateLayout(capacity, rowWidth int) ([]Position, error) {
	if rowWidth <= 0 {
		return nil, invalidConfig("row_width", "must be greater than zero, got %d", rowWidth)
	}
	if capacity < 0 {
		return nil, invalidConfig("capacity", "must not be negative, got %d", capacity)
	}
	if capacity > MaxCapacity {
		return nil, invalidConfig("capacity", "must not exceed %d, got %d", MaxCapacity, capacity)
	}

	layout := make([]Position, 0, capacity)
	for n := 1; n <= capacity; n++ {
		row := (n + rowWidth - 1) / rowWidth
		layout = append(layout, Position{
			SeatNumber: n,
			Row:        row,
			Column:     (n-1)%rowWidth + 1,
			RowLabel:   RowLabel(row),
		})
	}
	return layout, nil
}

// RowLabel converts a row number to its alphabetic label (1->A, 26->Z, 27->AA)
func RowLabel(row int) string {
	if row <= 0 {
		return "A"
	}
	var label []byte
	for row > 0 {
		row--
		label = append([]byte{byte('A' + row%26)}, label...)
		row /= 26
	}
	return string(label)
}

// RowCount returns how many rows a layout of capacity seats occupies
func RowCount(capacity, rowWidth int) int {
	if capacity <= 0 || rowWidth <= 0 {
		return 0
	}
	return (capacity + rowWidth - 1) / rowWidth
}
