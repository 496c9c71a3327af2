package model

import "time"

// Booking is a reserved game-time slot.  Date and Time are kept as the
// canonical text written at admission ("2006-01-02", "15:04") so that the
// slot key (GameType, Date, Time) compares exactly in SQL.  Duration is in
// whole hours and Message is the optional note left by the booker.
type Booking struct {
	ID        uint64    `json:"id"`         // bookings.id
	GameType  string    `json:"game_type"`  // bookings.game_type
	Date      string    `json:"date"`       // bookings.date
	Time      string    `json:"time"`       // bookings.time
	Duration  int       `json:"duration"`   // bookings.duration
	Message   string    `json:"message"`    // bookings.message (nullable)
	CreatedAt time.Time `json:"created_at"` // bookings.created_at
}

// SlotAvailability reports how full one start time of a day is for a game.
type SlotAvailability struct {
	Time      string `json:"time"`
	Booked    int    `json:"booked"`
	Remaining int    `json:"remaining"`
}
