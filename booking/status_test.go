package booking_test

import (
	"testing"
	"time"

	"github.com/equiptrack/asset-engine/booking"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func at(day, hour int) time.Time {
	return time.Date(2025, time.April, day, hour, 0, 0, 0, time.UTC)
}

func reservation(id string, status booking.Status, start, end time.Time) booking.Reservation {
	return booking.Reservation{
		ID:         booking.ReservationID(id),
		AssetID:    "pool-1",
		EmployeeID: "emp-1",
		Start:      start,
		End:        end,
		Status:     status,
	}
}

// =============================================================================
// AVAILABILITY DERIVATION
// =============================================================================

func TestAvailability_Booked(t *testing.T) {
	// GIVEN: An active reservation covering now
	// THEN: State is booked regardless of future holds.

	now := at(1, 12)
	reservations := []booking.Reservation{
		reservation("r1", booking.StatusActive, at(1, 9), at(1, 17)),
		reservation("r2", booking.StatusReserved, at(2, 9), at(2, 17)),
	}

	status := booking.Availability(reservations, now)
	if status.State != booking.StateBooked {
		t.Errorf("state = %s, want booked", status.State)
	}
	if status.UpcomingCount != 1 {
		t.Errorf("upcoming = %d, want 1", status.UpcomingCount)
	}
}

func TestAvailability_PartialWithFutureHolds(t *testing.T) {
	// GIVEN: Only future reserved holds, nothing active now
	// THEN: State is available-partial with the hold count.

	now := at(1, 12)
	reservations := []booking.Reservation{
		reservation("r1", booking.StatusReserved, at(2, 9), at(2, 17)),
		reservation("r2", booking.StatusReserved, at(3, 9), at(3, 17)),
	}

	status := booking.Availability(reservations, now)
	if status.State != booking.StateAvailablePartial {
		t.Errorf("state = %s, want available-partial", status.State)
	}
	if status.UpcomingCount != 2 {
		t.Errorf("upcoming = %d, want 2", status.UpcomingCount)
	}
}

func TestAvailability_Available(t *testing.T) {
	now := at(10, 12)

	// Empty set.
	if status := booking.Availability(nil, now); status.State != booking.StateAvailable {
		t.Errorf("empty: state = %s, want available", status.State)
	}

	// Only history: completed, canceled, expired.
	reservations := []booking.Reservation{
		reservation("r1", booking.StatusCompleted, at(1, 9), at(1, 17)),
		reservation("r2", booking.StatusCanceled, at(12, 9), at(12, 17)),
		reservation("r3", booking.StatusReserved, at(2, 9), at(2, 17)), // expired
	}
	status := booking.Availability(reservations, now)
	if status.State != booking.StateAvailable {
		t.Errorf("state = %s, want available", status.State)
	}
	if status.UpcomingCount != 0 {
		t.Errorf("upcoming = %d, want 0", status.UpcomingCount)
	}
}

func TestAvailability_ExpiredActiveDoesNotBlock(t *testing.T) {
	// GIVEN: An active reservation whose end has passed, status never
	//        transitioned (expiry is read-time, statuses don't move)
	// THEN: The asset reads as available.

	now := at(5, 12)
	reservations := []booking.Reservation{
		reservation("r1", booking.StatusActive, at(1, 9), at(1, 17)),
	}

	if status := booking.Availability(reservations, now); status.State != booking.StateAvailable {
		t.Errorf("state = %s, want available", status.State)
	}
}

func TestAvailability_ReservedCoveringNowIsNotBooked(t *testing.T) {
	// A reserved (not yet picked up) hold covering now: the device is
	// still physically free, so not booked; and with start <= now the
	// hold is not upcoming either.

	now := at(1, 12)
	reservations := []booking.Reservation{
		reservation("r1", booking.StatusReserved, at(1, 9), at(1, 17)),
	}

	status := booking.Availability(reservations, now)
	if status.State != booking.StateAvailable {
		t.Errorf("state = %s, want available", status.State)
	}
	if status.UpcomingCount != 0 {
		t.Errorf("upcoming = %d, want 0", status.UpcomingCount)
	}
}

// =============================================================================
// CURRENT-OR-UPCOMING SELECTION
// =============================================================================

func TestCurrentOrUpcoming(t *testing.T) {
	now := at(1, 12)

	t.Run("current wins over future", func(t *testing.T) {
		reservations := []booking.Reservation{
			reservation("future", booking.StatusReserved, at(2, 9), at(2, 17)),
			reservation("current", booking.StatusActive, at(1, 9), at(1, 17)),
		}
		got := booking.CurrentOrUpcoming(reservations, now)
		if got == nil || got.ID != "current" {
			t.Fatalf("got %v, want current", got)
		}
	})

	t.Run("nearest future when none current", func(t *testing.T) {
		reservations := []booking.Reservation{
			reservation("later", booking.StatusReserved, at(5, 9), at(5, 17)),
			reservation("sooner", booking.StatusReserved, at(2, 9), at(2, 17)),
		}
		got := booking.CurrentOrUpcoming(reservations, now)
		if got == nil || got.ID != "sooner" {
			t.Fatalf("got %v, want sooner", got)
		}
	})

	t.Run("canceled and expired are skipped", func(t *testing.T) {
		reservations := []booking.Reservation{
			reservation("canceled", booking.StatusCanceled, at(2, 9), at(2, 17)),
			reservation("expired", booking.StatusReserved, at(1, 8), at(1, 9)),
		}
		if got := booking.CurrentOrUpcoming(reservations, now); got != nil {
			t.Fatalf("got %v, want nil", got)
		}
	})

	t.Run("empty set", func(t *testing.T) {
		if got := booking.CurrentOrUpcoming(nil, now); got != nil {
			t.Fatalf("got %v, want nil", got)
		}
	})
}
