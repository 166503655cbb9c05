package models

// Seat is one cell of an event's seating grid. Row and Col are 1-indexed.
type Seat struct {
	ID       string  `json:"id"`
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	IsBooked bool    `json:"isBooked"`
	UserID   *string `json:"userId"`
}
