package seatmap

import (
	"sort"
	"strconv"
)

// PreviewRow is one row of the seat map as drawn by the admin panel
type PreviewRow struct {
	RowNumber int           `json:"row_number"`
	RowLabel  string        `json:"row_label"`
	Seats     []PreviewSeat `json:"seats"`
}

// PreviewSeat is the display form of a seat
type PreviewSeat struct {
	SeatNumber int            `json:"seat_number"`
	Label      string         `json:"label"`
	Column     int            `json:"column"`
	SeatClass  Classification `json:"seat_class"`
	Status     SeatStatus     `json:"status"`
	FinalPrice float64        `json:"final_price"`
}

// Summary counts seats of a trip by availability
type Summary struct {
	TripID         string `json:"trip_id"`
	TotalSeats     int    `json:"total_seats"`
	AvailableSeats int    `json:"available_seats"`
	HeldSeats      int    `json:"held_seats"`
	BookedSeats    int    `json:"booked_seats"`
	InactiveSeats  int    `json:"inactive_seats"`
}

// BuildPreview groups active seats by row, ordered by row then column
func BuildPreview(seats []Seat) []PreviewRow {
	rowMap := make(map[int][]Seat)
	for _, seat := range seats {
		if !seat.IsActive {
			continue
		}
		rowMap[seat.Row] = append(rowMap[seat.Row], seat)
	}

	rowNumbers := make([]int, 0, len(rowMap))
	for n := range rowMap {
		rowNumbers = append(rowNumbers, n)
	}
	sort.Ints(rowNumbers)

	rows := make([]PreviewRow, 0, len(rowNumbers))
	for _, n := range rowNumbers {
		rowSeats := rowMap[n]
		sort.Slice(rowSeats, func(i, j int) bool { return rowSeats[i].Column < rowSeats[j].Column })

		label := RowLabel(n)
		row := PreviewRow{RowNumber: n, RowLabel: label, Seats: make([]PreviewSeat, 0, len(rowSeats))}
		for _, seat := range rowSeats {
			row.Seats = append(row.Seats, PreviewSeat{
				SeatNumber: seat.SeatNumber,
				Label:      SeatLabel(seat.Row, seat.Column),
				Column:     seat.Column,
				SeatClass:  seat.SeatClass,
				Status:     seat.Status,
				FinalPrice: seat.FinalPrice,
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// SeatLabel renders a seat coordinate like A1, B3
func SeatLabel(row, column int) string {
	return RowLabel(row) + strconv.Itoa(column)
}

// Summarize counts seats by status. Inactive seats are counted only as inactive.
func Summarize(tripID string, seats []Seat) Summary {
	s := Summary{TripID: tripID}
	for _, seat := range seats {
		if !seat.IsActive {
			s.InactiveSeats++
			continue
		}
		s.TotalSeats++
		switch seat.Status {
		case SeatStatusAvailable:
			s.AvailableSeats++
		case SeatStatusHeld:
			s.HeldSeats++
		case SeatStatusBooked:
			s.BookedSeats++
		}
	}
	return s
}
