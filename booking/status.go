package booking

import (
	"time"
)

// =============================================================================
// AVAILABILITY - Pure read-time projection over a reservation set
// =============================================================================
// Because expiry is time-relative, availability must be recomputed on
// every query; it is never cached across booking mutations.

type State string

const (
	// StateBooked: an unexpired active reservation covers now.
	StateBooked State = "booked"

	// StateAvailablePartial: free now, but at least one unexpired
	// future hold exists.
	StateAvailablePartial State = "available-partial"

	// StateAvailable: no active cover and no future holds.
	StateAvailable State = "available"
)

type AvailabilityStatus struct {
	State State

	// UpcomingCount is the number of unexpired reserved reservations
	// starting after now.
	UpcomingCount int
}

// Availability derives the live status of an asset from its reservation
// set at the given instant.
func Availability(reservations []Reservation, now time.Time) AvailabilityStatus {
	booked := false
	upcoming := 0

	for _, r := range reservations {
		if r.Expired(now) {
			continue
		}
		switch r.Status {
		case StatusActive:
			if r.Interval().Contains(now) {
				booked = true
			}
		case StatusReserved:
			if r.Start.After(now) {
				upcoming++
			}
		}
	}

	status := AvailabilityStatus{UpcomingCount: upcoming}
	switch {
	case booked:
		status.State = StateBooked
	case upcoming > 0:
		status.State = StateAvailablePartial
	default:
		status.State = StateAvailable
	}
	return status
}

// CurrentOrUpcoming selects the reservation currently in effect
// (start <= now < end) or, failing that, the nearest future one, among
// non-canceled unexpired reservations. Nil when the asset has neither.
// Input order does not matter; ties go to the earlier start.
func CurrentOrUpcoming(reservations []Reservation, now time.Time) *Reservation {
	var current *Reservation
	var next *Reservation

	for i := range reservations {
		r := &reservations[i]
		if r.Status == StatusCanceled || r.Expired(now) {
			continue
		}
		if r.Interval().Contains(now) {
			if current == nil || r.Start.Before(current.Start) {
				current = r
			}
			continue
		}
		if r.Start.After(now) {
			if next == nil || r.Start.Before(next.Start) {
				next = r
			}
		}
	}

	if current != nil {
		out := *current
		return &out
	}
	if next != nil {
		out := *next
		return &out
	}
	return nil
}
