/*
service.go - Booking proposal lifecycle and conflict resolution

PURPOSE:
  Validates reservation proposals and serializes them per asset so the
  check-then-create sequence cannot race: two concurrent proposals for
  the same asset can never both pass the overlap check against a stale
  snapshot. Proposals for different assets proceed independently.

PROPOSAL FLOW:
  validate interval -> load asset (pool check) -> lock(assetID)
    -> scan existing reservations for overlap -> create -> unlock

LOCKING:
  A per-asset mutex map provides the single-writer-per-asset guarantee.
  The map only grows with distinct asset IDs, which is bounded by fleet
  size. Depreciation and classification need no locking at all; they
  are pure functions.

STATUS TRANSITIONS:
  reserved -> active (borrower takes the device)
  reserved/active -> canceled
  active -> completed (with return info)
  All transitions are explicit user-driven events; the engine never
  auto-promotes on expiry.
*/
package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/equiptrack/asset-engine/asset"
)

// =============================================================================
// SERVICE - Conflict resolver and lifecycle transitions
// =============================================================================

type Service struct {
	assets AssetCatalog
	store  Store

	mu    sync.Mutex
	locks map[asset.AssetID]*sync.Mutex
}

func NewService(assets AssetCatalog, store Store) *Service {
	return &Service{
		assets: assets,
		store:  store,
		locks:  make(map[asset.AssetID]*sync.Mutex),
	}
}

func (s *Service) lockAsset(id asset.AssetID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Proposal is a request to reserve a pool asset for [Start, End).
type Proposal struct {
	AssetID    asset.AssetID
	EmployeeID asset.EmployeeID
	Start      time.Time
	End        time.Time
	Purpose    string
}

// Propose validates a proposal against the asset's existing
// reservations and, on success, creates and returns the reservation
// with status "reserved".
//
// Rejections are asset.ValidationError values:
//   - invalid_interval: start >= end
//   - not_pool_device: only pool devices are bookable
//   - booking_conflict: overlap with an unexpired reserved/active
//     reservation (half-open interval test)
//
// The check-then-create sequence is serialized per asset ID.
func (s *Service) Propose(ctx context.Context, p Proposal, now time.Time) (Reservation, error) {
	interval := asset.Interval{Start: p.Start, End: p.End}
	if !interval.IsValid() {
		return Reservation{}, &asset.ValidationError{
			Code:    asset.CodeInvalidInterval,
			Message: "start must be strictly before end",
		}
	}

	a, err := s.assets.GetAsset(ctx, p.AssetID)
	if err != nil {
		return Reservation{}, fmt.Errorf("load asset %s: %w", p.AssetID, err)
	}
	if !a.IsPoolDevice {
		return Reservation{}, &asset.ValidationError{
			Code:    asset.CodeNotPoolDevice,
			Message: "only pool devices can be booked",
		}
	}

	lock := s.lockAsset(p.AssetID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.ListByAsset(ctx, p.AssetID)
	if err != nil {
		return Reservation{}, fmt.Errorf("list reservations for %s: %w", p.AssetID, err)
	}
	for _, r := range existing {
		if r.Blocking(now) && interval.Overlaps(r.Interval()) {
			return Reservation{}, &asset.ValidationError{
				Code:          asset.CodeBookingConflict,
				Message:       fmt.Sprintf("interval %s overlaps an existing reservation", interval),
				ConflictingID: string(r.ID),
			}
		}
	}

	// A canceled context must surface as a rejection, never a
	// half-created reservation.
	if err := ctx.Err(); err != nil {
		return Reservation{}, &asset.ValidationError{
			Code:    asset.CodeProposalAborted,
			Message: err.Error(),
		}
	}

	reservation := Reservation{
		ID:         ReservationID(uuid.NewString()),
		AssetID:    p.AssetID,
		EmployeeID: p.EmployeeID,
		Start:      p.Start,
		End:        p.End,
		Purpose:    p.Purpose,
		Status:     StatusReserved,
		CreatedAt:  now,
	}
	if err := s.store.Create(ctx, reservation); err != nil {
		return Reservation{}, fmt.Errorf("create reservation: %w", err)
	}
	return reservation, nil
}

// Activate marks a reserved booking as active (device handed out).
func (s *Service) Activate(ctx context.Context, id ReservationID) (Reservation, error) {
	return s.transition(ctx, id, StatusActive, nil, StatusReserved)
}

// Cancel cancels a reserved or active booking. The record stays in
// history; it is never deleted.
func (s *Service) Cancel(ctx context.Context, id ReservationID) (Reservation, error) {
	return s.transition(ctx, id, StatusCanceled, nil, StatusReserved, StatusActive)
}

// Complete marks an active booking completed and records the return.
// The return info is written under the same per-asset lock as the
// status flip, and before it: if recording the return fails, the
// reservation stays active.
func (s *Service) Complete(ctx context.Context, id ReservationID, returnedAt time.Time) (Reservation, error) {
	return s.transition(ctx, id, StatusCompleted, func(ctx context.Context, r *Reservation) error {
		info := ReturnInfo{Returned: true, ReturnedAt: returnedAt}
		if err := s.store.SetReturned(ctx, r.ID, info); err != nil {
			return fmt.Errorf("record return: %w", err)
		}
		r.Return = &info
		return nil
	}, StatusActive)
}

// transition moves a reservation to `to` if its current status is one
// of `from`. The optional apply hook runs under the per-asset lock
// before the status write; if it fails, the transition does not happen.
func (s *Service) transition(ctx context.Context, id ReservationID, to Status, apply func(context.Context, *Reservation) error, from ...Status) (Reservation, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return Reservation{}, err
	}

	lock := s.lockAsset(r.AssetID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock; the first read was only to find the asset.
	r, err = s.store.Get(ctx, id)
	if err != nil {
		return Reservation{}, err
	}

	allowed := false
	for _, f := range from {
		if r.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return Reservation{}, &asset.ValidationError{
			Code:    asset.CodeInvalidStatus,
			Message: fmt.Sprintf("cannot move reservation from %s to %s", r.Status, to),
		}
	}

	if apply != nil {
		if err := apply(ctx, &r); err != nil {
			return Reservation{}, err
		}
	}

	if err := s.store.UpdateStatus(ctx, id, to); err != nil {
		return Reservation{}, fmt.Errorf("update reservation status: %w", err)
	}
	r.Status = to
	return r, nil
}

// =============================================================================
// READ-SIDE QUERIES
// =============================================================================

// CurrentOrUpcoming returns the reservation in effect now, or the
// nearest future one. Nil when the asset has neither.
func (s *Service) CurrentOrUpcoming(ctx context.Context, assetID asset.AssetID, now time.Time) (*Reservation, error) {
	reservations, err := s.store.ListByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return CurrentOrUpcoming(reservations, now), nil
}

// Availability derives the asset's live booking status.
func (s *Service) Availability(ctx context.Context, assetID asset.AssetID, now time.Time) (AvailabilityStatus, error) {
	if _, err := s.assets.GetAsset(ctx, assetID); err != nil {
		return AvailabilityStatus{}, err
	}
	reservations, err := s.store.ListByAsset(ctx, assetID)
	if err != nil {
		return AvailabilityStatus{}, err
	}
	return Availability(reservations, now), nil
}

// Reservations returns the asset's full booking history, ascending by
// start time.
func (s *Service) Reservations(ctx context.Context, assetID asset.AssetID) ([]Reservation, error) {
	return s.store.ListByAsset(ctx, assetID)
}
