package booking

import (
	"context"

	"github.com/equiptrack/asset-engine/asset"
)

// =============================================================================
// STORE - Persistence interface for reservations
// =============================================================================
// Reservations are never deleted: cancellation and returns are status
// updates, and expired reservations stay in history for audit.

type Store interface {
	// Create persists a new reservation. Returns asset.ErrDuplicateID
	// if the ID already exists.
	Create(ctx context.Context, r Reservation) error

	// Get returns a reservation by ID, or asset.ErrReservationNotFound.
	Get(ctx context.Context, id ReservationID) (Reservation, error)

	// ListByAsset returns all reservations for an asset, ordered
	// ascending by start time.
	ListByAsset(ctx context.Context, assetID asset.AssetID) ([]Reservation, error)

	// UpdateStatus sets the status of an existing reservation.
	UpdateStatus(ctx context.Context, id ReservationID, status Status) error

	// SetReturned records the return of the device on a reservation.
	SetReturned(ctx context.Context, id ReservationID, info ReturnInfo) error
}

// AssetCatalog is the read side the booking service needs from the
// asset store: just enough to check that a proposal targets a real
// pool device.
type AssetCatalog interface {
	GetAsset(ctx context.Context, id asset.AssetID) (asset.Asset, error)
}
