// Package seatmap holds the pure helpers for an event's rows×cols seating
// grid: generation, seat-id parsing and bounds-checked lookup. Seat ids follow
// the fixed R{row}C{col} grammar, 1-indexed; the grid itself is stored
// 0-indexed, and this package owns that translation.
package seatmap

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"ms-booking/internal/models"
)

// ErrInvalidSeatID is returned when a seat id does not match R{row}C{col}.
var ErrInvalidSeatID = errors.New("invalid seat id")

var seatIDPattern = regexp.MustCompile(`^R(\d+)C(\d+)$`)

// Generate builds a rows×cols grid with ids R1C1..R{rows}C{cols}, all seats
// unbooked. Deterministic; called once when an event is created.
func Generate(rows, cols int) [][]models.Seat {
	seats := make([][]models.Seat, rows)
	for r := 1; r <= rows; r++ {
		rowSeats := make([]models.Seat, cols)
		for c := 1; c <= cols; c++ {
			rowSeats[c-1] = models.Seat{
				ID:       fmt.Sprintf("R%dC%d", r, c),
				Row:      r,
				Col:      c,
				IsBooked: false,
				UserID:   nil,
			}
		}
		seats[r-1] = rowSeats
	}
	return seats
}

// ParseSeatID extracts the 1-indexed row and column from a seat id like
// "R2C7". Row and column must be positive.
func ParseSeatID(id string) (row, col int, err error) {
	m := seatIDPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSeatID, id)
	}
	row, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSeatID, id)
	}
	col, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSeatID, id)
	}
	if row <= 0 || col <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSeatID, id)
	}
	return row, col, nil
}

// Lookup returns a pointer into the grid for the 1-indexed row/col, or nil
// when the coordinates fall outside it.
func Lookup(grid [][]models.Seat, row, col int) *models.Seat {
	if row < 1 || row > len(grid) {
		return nil
	}
	if col < 1 || col > len(grid[row-1]) {
		return nil
	}
	return &grid[row-1][col-1]
}
