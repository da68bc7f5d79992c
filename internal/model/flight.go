package model

import "fmt"

// Flight mirrors a row of the read-only `flights` table. Flights are
// loaded by an external ingestion process; this service only reads them.
//
// Fields:
//  FID             – primary key identifier of the flight.
//  DayOfMonth      – calendar day the flight departs on.
//  CarrierID       – airline carrier code.
//  FlightNum       – carrier-local flight number.
//  OriginCity      – departure city.
//  DestCity        – arrival city.
//  DurationMinutes – scheduled flight time in minutes.
//  Capacity        – total seats on the flight.
//  Price           – ticket price in whole currency units.
//  Canceled        – whether the flight has been withdrawn from sale.
type Flight struct {
	FID             int64  // flights.fid
	DayOfMonth      int    // flights.day_of_month
	CarrierID       string // flights.carrier_id
	FlightNum       string // flights.flight_num
	OriginCity      string // flights.origin_city
	DestCity        string // flights.dest_city
	DurationMinutes int    // flights.duration_minutes
	Capacity        int    // flights.capacity
	Price           int64  // flights.price
	Canceled        bool   // flights.canceled
}

// String renders the flight in the single-line format used by reservation
// listings and search results.
func (f Flight) String() string {
	return fmt.Sprintf("ID: %d Day: %d Carrier: %s Number: %s Origin: %s Dest: %s Duration: %d Capacity: %d Price: %d",
		f.FID, f.DayOfMonth, f.CarrierID, f.FlightNum, f.OriginCity, f.DestCity, f.DurationMinutes, f.Capacity, f.Price)
}
