package model

import (
	"fmt"
	"sort"
	"strings"
)

// Itinerary is a transient, session-scoped view over one direct flight or
// two same-day connecting flights. It is never persisted; a caller refers
// to it only by its 0-based position in the session's most recent search
// result, and that position is invalidated by the next search.
type Itinerary struct {
	First  Flight  // first (or only) leg
	Second *Flight // connecting leg, nil for direct itineraries
}

// LegCount returns 1 for a direct itinerary and 2 for a one-connection one.
func (i Itinerary) LegCount() int {
	if i.Second == nil {
		return 1
	}
	return 2
}

// TotalTime returns the combined duration of all legs in minutes.
func (i Itinerary) TotalTime() int {
	t := i.First.DurationMinutes
	if i.Second != nil {
		t += i.Second.DurationMinutes
	}
	return t
}

// Price returns the sum of the leg prices.
func (i Itinerary) Price() int64 {
	p := i.First.Price
	if i.Second != nil {
		p += i.Second.Price
	}
	return p
}

// Day returns the day of month the itinerary departs on. Both legs of a
// one-connection itinerary share the same day.
func (i Itinerary) Day() int { return i.First.DayOfMonth }

// Describe renders the summary line shown above the itinerary's flights,
// e.g. "1 flight(s), 300 minutes".
func (i Itinerary) Describe() string {
	return fmt.Sprintf("%d flight(s), %d minutes", i.LegCount(), i.TotalTime())
}

// String renders one line per flight in the itinerary.
func (i Itinerary) String() string {
	var b strings.Builder
	b.WriteString(i.First.String())
	if i.Second != nil {
		b.WriteByte('\n')
		b.WriteString(i.Second.String())
	}
	return b.String()
}

// secondFID returns the fid of the connecting leg, or 0 when the itinerary
// is direct. An absent second leg therefore sorts before any real fid.
func (i Itinerary) secondFID() int64 {
	if i.Second == nil {
		return 0
	}
	return i.Second.FID
}

// less defines the canonical total order over itineraries: ascending total
// time, then first-leg fid, then second-leg fid (absent first).
func (i Itinerary) less(o Itinerary) bool {
	if i.TotalTime() != o.TotalTime() {
		return i.TotalTime() < o.TotalTime()
	}
	if i.First.FID != o.First.FID {
		return i.First.FID < o.First.FID
	}
	return i.secondFID() < o.secondFID()
}

// SortItineraries orders a merged result set into the canonical order.
// The direct and one-connection queries are each bounded before the other
// stream is known, so a global re-sort is required after concatenation;
// appending the streams would interleave them incorrectly.
func SortItineraries(its []Itinerary) {
	sort.Slice(its, func(a, b int) bool { return its[a].less(its[b]) })
}
