// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns them into the booking audit log.
package queue

// BookingCreatedEvent is published after a booking has been admitted.  It
// carries the stored row so consumers never need to query the database.
type BookingCreatedEvent struct {
	EventID   string `json:"event_id"`
	BookingID uint64 `json:"booking_id"`
	GameType  string `json:"game_type"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Duration  int    `json:"duration"`
	Message   string `json:"message,omitempty"`
	CreatedAt string `json:"created_at"`
}
