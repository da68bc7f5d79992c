package model

// Reservation mirrors a row of the `reservations` table. A reservation
// covers one direct flight or two connecting flights booked together.
// RIDs are allocated from the single-row `reservation_ids` counter and
// are never reused, even after the reservation row is deleted by a
// cancellation.
//
// Fields:
//  RID      – globally unique, monotonically increasing identifier.
//  Username – owner of the reservation.
//  FID1     – first (or only) flight.
//  FID2     – second flight; nil for direct itineraries.
//  Day      – day of month both flights depart on.
//  Price    – sum of the leg prices.
//  Paid     – whether the balance deduction has been applied.
type Reservation struct {
	RID      int64  // reservations.rid
	Username string // reservations.username
	FID1     int64  // reservations.fid1
	FID2     *int64 // reservations.fid2 (nullable)
	Day      int    // reservations.day
	Price    int64  // reservations.price
	Paid     bool   // reservations.paid
}
