// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationBookedEvent is published when a booking transaction commits.
// It carries enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type ReservationBookedEvent struct {
	ReservationID int64   `json:"reservation_id"`
	Username      string  `json:"username"`
	Day           int     `json:"day"`
	FlightIDs     []int64 `json:"flight_ids"`
	TotalPrice    int64   `json:"total_price"`
	BookedAt      string  `json:"booked_at"`
}
