package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/flight-reservation/internal/model"
)

// FlightRepo provides read-only access to the `flights` table. Flights
// are never created or mutated by this service.
type FlightRepo struct{ DB *sql.DB }

func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{DB: db} }

const directQuery = `SELECT fid, day_of_month, carrier_id, flight_num, origin_city, dest_city, duration_minutes, capacity, price FROM flights WHERE origin_city = ? AND dest_city = ? AND day_of_month = ? AND canceled = 0 ORDER BY duration_minutes ASC, fid ASC LIMIT ?`

// DirectTx returns up to limit non-canceled direct flights for the route
// and day, ordered by ascending duration then fid.
func (r *FlightRepo) DirectTx(ctx context.Context, tx *sql.Tx, origin, dest string, day, limit int) ([]model.Itinerary, error) {
	rows, err := tx.QueryContext(ctx, directQuery, origin, dest, day, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var its []model.Itinerary
	for rows.Next() {
		var f model.Flight
		if err := rows.Scan(&f.FID, &f.DayOfMonth, &f.CarrierID, &f.FlightNum,
			&f.OriginCity, &f.DestCity, &f.DurationMinutes, &f.Capacity, &f.Price); err != nil {
			return nil, err
		}
		its = append(its, model.Itinerary{First: f})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return its, nil
}

const oneHopQuery = `SELECT f1.fid, f1.day_of_month, f1.carrier_id, f1.flight_num, f1.origin_city, f1.dest_city, f1.duration_minutes, f1.capacity, f1.price, f2.fid, f2.day_of_month, f2.carrier_id, f2.flight_num, f2.origin_city, f2.dest_city, f2.duration_minutes, f2.capacity, f2.price FROM flights f1 JOIN flights f2 ON f1.dest_city = f2.origin_city AND f1.day_of_month = f2.day_of_month WHERE f1.origin_city = ? AND f2.dest_city = ? AND f1.day_of_month = ? AND f1.canceled = 0 AND f2.canceled = 0 ORDER BY f1.duration_minutes + f2.duration_minutes ASC, f1.fid ASC, f2.fid ASC LIMIT ?`

// OneHopTx returns up to limit one-connection itineraries: pairs of
// non-canceled flights sharing a connecting city on the same day, ordered
// by ascending combined duration then first-leg fid then second-leg fid.
func (r *FlightRepo) OneHopTx(ctx context.Context, tx *sql.Tx, origin, dest string, day, limit int) ([]model.Itinerary, error) {
	rows, err := tx.QueryContext(ctx, oneHopQuery, origin, dest, day, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var its []model.Itinerary
	for rows.Next() {
		var f1, f2 model.Flight
		if err := rows.Scan(
			&f1.FID, &f1.DayOfMonth, &f1.CarrierID, &f1.FlightNum,
			&f1.OriginCity, &f1.DestCity, &f1.DurationMinutes, &f1.Capacity, &f1.Price,
			&f2.FID, &f2.DayOfMonth, &f2.CarrierID, &f2.FlightNum,
			&f2.OriginCity, &f2.DestCity, &f2.DurationMinutes, &f2.Capacity, &f2.Price); err != nil {
			return nil, err
		}
		second := f2
		its = append(its, model.Itinerary{First: f1, Second: &second})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return its, nil
}

// ByIDTx fetches a single flight by fid. Returns sql.ErrNoRows when the
// flight does not exist.
func (r *FlightRepo) ByIDTx(ctx context.Context, tx *sql.Tx, fid int64) (model.Flight, error) {
	var f model.Flight
	err := tx.QueryRowContext(ctx,
		"SELECT fid, day_of_month, carrier_id, flight_num, origin_city, dest_city, duration_minutes, capacity, price, canceled FROM flights WHERE fid = ?",
		fid).Scan(&f.FID, &f.DayOfMonth, &f.CarrierID, &f.FlightNum,
		&f.OriginCity, &f.DestCity, &f.DurationMinutes, &f.Capacity, &f.Price, &f.Canceled)
	return f, err
}
