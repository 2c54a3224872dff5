/*
Package booking implements the operational view over pool assets:
time-bounded reservations, conflict resolution, and live availability.

PURPOSE:
  Pool devices are shared; borrowing one means holding a half-open
  [start, end) reservation on it. This package owns the reservation
  lifecycle (propose -> reserved -> active -> completed/canceled),
  rejects overlapping holds, and derives a display status from the
  reservation set.

KEY INVARIANTS:
  - start < end strictly, enforced at creation
  - For one asset, no two unexpired reserved/active reservations overlap
  - Expiry (now > end) is a derived read-time property; statuses are
    never auto-transitioned by the engine
  - Reservations are never deleted, only canceled or marked returned

SEE ALSO:
  - service.go: Proposal validation and per-asset serialization
  - status.go: Availability derivation (pure)
  - store.go: Persistence interface
*/
package booking

import (
	"time"

	"github.com/equiptrack/asset-engine/asset"
)

// =============================================================================
// RESERVATION - A time-bounded hold on a pool asset
// =============================================================================

type ReservationID string

type Status string

const (
	StatusReserved  Status = "reserved"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// ReturnInfo records the physical return of a borrowed device.
type ReturnInfo struct {
	Returned   bool
	ReturnedAt time.Time
}

type Reservation struct {
	ID         ReservationID
	AssetID    asset.AssetID
	EmployeeID asset.EmployeeID

	// Half-open interval [Start, End).
	Start time.Time
	End   time.Time

	Purpose string
	Status  Status
	Return  *ReturnInfo

	CreatedAt time.Time
}

// Interval returns the half-open booking interval.
func (r Reservation) Interval() asset.Interval {
	return asset.Interval{Start: r.Start, End: r.End}
}

// Expired reports whether the reservation's end lies in the past.
// Independent of the stored status.
func (r Reservation) Expired(now time.Time) bool {
	return asset.IsExpired(r.End, now)
}

// Blocking reports whether the reservation participates in overlap
// checks: reserved or active, and not expired.
func (r Reservation) Blocking(now time.Time) bool {
	return (r.Status == StatusReserved || r.Status == StatusActive) && !r.Expired(now)
}
