// Package store provides booking.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/equiptrack/asset-engine/asset"
	"github.com/equiptrack/asset-engine/booking"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	byID    map[booking.ReservationID]booking.Reservation
	byAsset map[asset.AssetID][]booking.ReservationID
}

func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[booking.ReservationID]booking.Reservation),
		byAsset: make(map[asset.AssetID][]booking.ReservationID),
	}
}

// Create inserts a reservation, keeping the per-asset list ordered by
// start time.
func (m *Memory) Create(_ context.Context, r booking.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[r.ID]; exists {
		return asset.ErrDuplicateID
	}
	m.byID[r.ID] = r

	ids := m.byAsset[r.AssetID]

	// Binary search for insertion point to keep start-time order.
	i := sort.Search(len(ids), func(i int) bool {
		return m.byID[ids[i]].Start.After(r.Start)
	})
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = r.ID
	m.byAsset[r.AssetID] = ids

	return nil
}

func (m *Memory) Get(_ context.Context, id booking.ReservationID) (booking.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.byID[id]
	if !ok {
		return booking.Reservation{}, asset.ErrReservationNotFound
	}
	return r, nil
}

func (m *Memory) ListByAsset(_ context.Context, assetID asset.AssetID) ([]booking.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byAsset[assetID]
	result := make([]booking.Reservation, 0, len(ids))
	for _, id := range ids {
		result = append(result, m.byID[id])
	}
	return result, nil
}

func (m *Memory) UpdateStatus(_ context.Context, id booking.ReservationID, status booking.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.byID[id]
	if !ok {
		return asset.ErrReservationNotFound
	}
	r.Status = status
	m.byID[id] = r
	return nil
}

func (m *Memory) SetReturned(_ context.Context, id booking.ReservationID, info booking.ReturnInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.byID[id]
	if !ok {
		return asset.ErrReservationNotFound
	}
	r.Return = &info
	m.byID[id] = r
	return nil
}

// =============================================================================
// MEMORY CATALOG - In-memory asset/employee lookup (for testing/dev)
// =============================================================================

type Catalog struct {
	mu     sync.RWMutex
	assets map[asset.AssetID]asset.Asset
}

func NewCatalog() *Catalog {
	return &Catalog{assets: make(map[asset.AssetID]asset.Asset)}
}

func (c *Catalog) PutAsset(a asset.Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assets[a.ID] = a
}

func (c *Catalog) GetAsset(_ context.Context, id asset.AssetID) (asset.Asset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	a, ok := c.assets[id]
	if !ok {
		return asset.Asset{}, asset.ErrAssetNotFound
	}
	return a, nil
}
