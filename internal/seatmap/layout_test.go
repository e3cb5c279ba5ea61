package seatmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLayout(t *testing.T) {
	t.Run("Four Seats Three Per Row", func(t *testing.T) {
		layout, err := GenerateLayout(4, 3)
		require.NoError(t, err)

		assert.Equal(t, []Position{
			{SeatNumber: 1, Row: 1, Column: 1, RowLabel: "A"},
			{SeatNumber: 2, Row: 1, Column: 2, RowLabel: "A"},
			{SeatNumber: 3, Row: 1, Column: 3, RowLabel: "A"},
			{SeatNumber: 4, Row: 2, Column: 1, RowLabel: "B"},
		}, layout)
	})

	t.Run("Zero Capacity", func(t *testing.T) {
		layout, err := GenerateLayout(0, 4)
		require.NoError(t, err)
		assert.Empty(t, layout)
	})

	t.Run("Exact Rows", func(t *testing.T) {
		layout, err := GenerateLayout(40, 4)
		require.NoError(t, err)
		require.Len(t, layout, 40)
		last := layout[39]
		assert.Equal(t, 40, last.SeatNumber)
		assert.Equal(t, 10, last.Row)
		assert.Equal(t, 4, last.Column)
		assert.Equal(t, "J", last.RowLabel)
	})

	t.Run("Invalid Row Width", func(t *testing.T) {
		for _, width := range []int{0, -1} {
			layout, err := GenerateLayout(10, width)
			assert.Nil(t, layout)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration))
			assert.Contains(t, err.Error(), "row_width")
		}
	})

	t.Run("Negative Capacity", func(t *testing.T) {
		_, err := GenerateLayout(-3, 4)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("Capacity Above Maximum", func(t *testing.T) {
		layout, err := GenerateLayout(2_000_000_000, 4)
		assert.Nil(t, layout)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)

		layout, err = GenerateLayout(MaxCapacity, 4)
		require.NoError(t, err)
		assert.Len(t, layout, MaxCapacity)
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, err := GenerateLayout(53, 5)
		require.NoError(t, err)
		b, err := GenerateLayout(53, 5)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestRowLabel(t *testing.T) {
	cases := map[int]string{
		0:   "A",
		1:   "A",
		2:   "B",
		26:  "Z",
		27:  "AA",
		28:  "AB",
		52:  "AZ",
		53:  "BA",
		702: "ZZ",
		703: "AAA",
	}
	for row, want := range cases {
		assert.Equal(t, want, RowLabel(row), "row %d", row)
	}
}

func TestRowCount(t *testing.T) {
	assert.Equal(t, 0, RowCount(0, 4))
	assert.Equal(t, 1, RowCount(3, 4))
	assert.Equal(t, 2, RowCount(5, 4))
	assert.Equal(t, 10, RowCount(40, 4))
	assert.Equal(t, 0, RowCount(10, 0))
}
