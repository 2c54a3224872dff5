package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/equiptrack/asset-engine/asset"
	"github.com/equiptrack/asset-engine/booking"
	"github.com/equiptrack/asset-engine/booking/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestService(t *testing.T, assets ...asset.Asset) (*booking.Service, *store.Memory) {
	t.Helper()

	catalog := store.NewCatalog()
	for _, a := range assets {
		catalog.PutAsset(a)
	}
	mem := store.NewMemory()
	return booking.NewService(catalog, mem), mem
}

func poolAsset(id string) asset.Asset {
	return asset.Asset{
		ID:           asset.AssetID(id),
		Name:         "Pool Laptop",
		Category:     asset.CategoryLaptop,
		IsPoolDevice: true,
	}
}

func proposal(assetID string, start, end time.Time) booking.Proposal {
	return booking.Proposal{
		AssetID:    asset.AssetID(assetID),
		EmployeeID: "emp-1",
		Start:      start,
		End:        end,
		Purpose:    "field visit",
	}
}

func validationCode(t *testing.T, err error) string {
	t.Helper()
	var v *asset.ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return v.Code
}

// =============================================================================
// PROPOSAL VALIDATION
// =============================================================================

func TestPropose_RejectsNonPositiveInterval(t *testing.T) {
	svc, _ := newTestService(t, poolAsset("pool-1"))
	now := at(1, 8)

	_, err := svc.Propose(context.Background(), proposal("pool-1", at(1, 17), at(1, 9)), now)
	if code := validationCode(t, err); code != asset.CodeInvalidInterval {
		t.Errorf("code = %s, want invalid_interval", code)
	}

	_, err = svc.Propose(context.Background(), proposal("pool-1", at(1, 9), at(1, 9)), now)
	if code := validationCode(t, err); code != asset.CodeInvalidInterval {
		t.Errorf("zero duration: code = %s, want invalid_interval", code)
	}
}

func TestPropose_RejectsNonPoolDevice(t *testing.T) {
	personal := poolAsset("personal-1")
	personal.IsPoolDevice = false
	personal.AssignedTo = "emp-9"

	svc, _ := newTestService(t, personal)

	_, err := svc.Propose(context.Background(), proposal("personal-1", at(1, 9), at(1, 17)), at(1, 8))
	if code := validationCode(t, err); code != asset.CodeNotPoolDevice {
		t.Errorf("code = %s, want not_pool_device", code)
	}
}

func TestPropose_UnknownAsset(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Propose(context.Background(), proposal("ghost", at(1, 9), at(1, 17)), at(1, 8))
	if !errors.Is(err, asset.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

// =============================================================================
// OVERLAP RESOLUTION
// =============================================================================

func TestPropose_OverlapAndAdjacency(t *testing.T) {
	// GIVEN: An existing reserved booking [09:00, 17:00)
	// WHEN: Proposing [16:00, 18:00) and [17:00, 18:00)
	// THEN: The overlapping one is rejected; the adjacent one succeeds
	//       (half-open intervals).

	svc, _ := newTestService(t, poolAsset("pool-1"))
	ctx := context.Background()
	now := at(1, 8)

	first, err := svc.Propose(ctx, proposal("pool-1", at(1, 9), at(1, 17)), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Propose(ctx, proposal("pool-1", at(1, 16), at(1, 18)), now)
	var v *asset.ValidationError
	if !errors.As(err, &v) || v.Code != asset.CodeBookingConflict {
		t.Fatalf("expected booking_conflict, got %v", err)
	}
	if v.ConflictingID != string(first.ID) {
		t.Errorf("conflicting id = %s, want %s", v.ConflictingID, first.ID)
	}

	if _, err := svc.Propose(ctx, proposal("pool-1", at(1, 17), at(1, 18)), now); err != nil {
		t.Fatalf("adjacent booking must succeed: %v", err)
	}
}

func TestPropose_ExpiredReservationDoesNotBlock(t *testing.T) {
	// GIVEN: A stored reservation with end < now, status still reserved
	// THEN: It is treated as expired and excluded from the overlap check.

	svc, _ := newTestService(t, poolAsset("pool-1"))
	ctx := context.Background()

	if _, err := svc.Propose(ctx, proposal("pool-1", at(1, 9), at(1, 17)), at(1, 8)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same slot next day, evaluated after the first has expired.
	later := at(2, 8)
	if _, err := svc.Propose(ctx, proposal("pool-1", at(1, 9), at(1, 17)), later); err == nil {
		// The first booking's interval is identical but it is now
		// expired, so re-booking the past slot is not blocked by it.
		t.Log("past slot re-booked; expired reservation did not block")
	} else {
		t.Fatalf("expired reservation must not block: %v", err)
	}
}

func TestPropose_CanceledReservationDoesNotBlock(t *testing.T) {
	svc, _ := newTestService(t, poolAsset("pool-1"))
	ctx := context.Background()
	now := at(1, 8)

	first, err := svc.Propose(ctx, proposal("pool-1", at(1, 9), at(1, 17)), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Cancel(ctx, first.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := svc.Propose(ctx, proposal("pool-1", at(1, 9), at(1, 17)), now); err != nil {
		t.Fatalf("canceled reservation must not block: %v", err)
	}
}

func TestPropose_RoundTrip(t *testing.T) {
	// Creating a reservation then listing the asset must include it
	// exactly once with identical field values.

	svc, _ := newTestService(t, poolAsset("pool-1"))
	ctx := context.Background()

	created, err := svc.Propose(ctx, proposal("pool-1", at(1, 9), at(1, 17)), at(1, 8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	listed, err := svc.Reservations(ctx, "pool-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("listed %d reservations, want 1", len(listed))
	}

	got := listed[0]
	if got.ID != created.ID ||
		got.AssetID != created.AssetID ||
		got.EmployeeID != created.EmployeeID ||
		!got.Start.Equal(created.Start) ||
		!got.End.Equal(created.End) ||
		got.Purpose != created.Purpose ||
		got.Status != booking.StatusReserved {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, created)
	}
}

// =============================================================================
// CONCURRENT PROPOSALS - single-writer-per-asset guarantee
// =============================================================================

func TestPropose_ConcurrentOverlappingProposals(t *testing.T) {
	// GIVEN: 32 goroutines racing to book the same slot on one asset
	// THEN: Exactly one succeeds; after the dust settles no two
	//       unexpired reserved/active reservations overlap.

	svc, mem := newTestService(t, poolAsset("pool-1"))
	ctx := context.Background()
	now := at(1, 8)

	const attempts = 32
	var wg sync.WaitGroup
	successes := make(chan booking.Reservation, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := svc.Propose(ctx, proposal("pool-1", at(1, 9), at(1, 17)), now)
			if err == nil {
				successes <- r
			}
		}()
	}
	wg.Wait()
	close(successes)

	if n := len(successes); n != 1 {
		t.Fatalf("%d concurrent proposals succeeded, want exactly 1", n)
	}

	all, err := mem.ListByAsset(ctx, "pool-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			a, b := all[i], all[j]
			if a.Blocking(now) && b.Blocking(now) && a.Interval().Overlaps(b.Interval()) {
				t.Fatalf("persisted overlap between %s and %s", a.ID, b.ID)
			}
		}
	}
}

func TestPropose_DifferentAssetsDoNotConflict(t *testing.T) {
	svc, _ := newTestService(t, poolAsset("pool-1"), poolAsset("pool-2"))
	ctx := context.Background()
	now := at(1, 8)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, id := range []string{"pool-1", "pool-2"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := svc.Propose(ctx, proposal(id, at(1, 9), at(1, 17)), now)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("independent assets must not conflict: %v", err)
		}
	}
}

// =============================================================================
// LIFECYCLE TRANSITIONS
// =============================================================================

func TestLifecycle_ReserveActivateComplete(t *testing.T) {
	svc, _ := newTestService(t, poolAsset("pool-1"))
	ctx := context.Background()

	r, err := svc.Propose(ctx, proposal("pool-1", at(1, 9), at(1, 17)), at(1, 8))
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	r, err = svc.Activate(ctx, r.ID)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if r.Status != booking.StatusActive {
		t.Errorf("status = %s, want active", r.Status)
	}

	returnedAt := at(1, 16)
	r, err = svc.Complete(ctx, r.ID, returnedAt)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if r.Status != booking.StatusCompleted {
		t.Errorf("status = %s, want completed", r.Status)
	}
	if r.Return == nil || !r.Return.Returned || !r.Return.ReturnedAt.Equal(returnedAt) {
		t.Errorf("return info = %+v, want returned at %v", r.Return, returnedAt)
	}
}

func TestLifecycle_InvalidTransitionsRejected(t *testing.T) {
	svc, _ := newTestService(t, poolAsset("pool-1"))
	ctx := context.Background()

	r, err := svc.Propose(ctx, proposal("pool-1", at(1, 9), at(1, 17)), at(1, 8))
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	// Completing a reservation that was never activated.
	if _, err := svc.Complete(ctx, r.ID, at(1, 16)); err == nil {
		t.Error("completing a reserved booking must fail")
	}

	if _, err := svc.Cancel(ctx, r.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Canceling twice.
	if _, err := svc.Cancel(ctx, r.ID); err == nil {
		t.Error("canceling a canceled booking must fail")
	}

	// Activating a canceled booking.
	if _, err := svc.Activate(ctx, r.ID); err == nil {
		t.Error("activating a canceled booking must fail")
	}
}

// returnFailingStore rejects every SetReturned call.
type returnFailingStore struct {
	*store.Memory
}

func (s *returnFailingStore) SetReturned(ctx context.Context, id booking.ReservationID, info booking.ReturnInfo) error {
	return errors.New("disk full")
}

func TestComplete_ReturnWriteFailureKeepsReservationActive(t *testing.T) {
	// GIVEN: An active booking whose store cannot record returns
	// WHEN: Complete is called and the return write fails
	// THEN: The error surfaces and the reservation is still active,
	//       never completed without its return info.
	catalog := store.NewCatalog()
	catalog.PutAsset(poolAsset("pool-1"))
	mem := store.NewMemory()
	svc := booking.NewService(catalog, &returnFailingStore{Memory: mem})
	ctx := context.Background()

	r, err := svc.Propose(ctx, proposal("pool-1", at(1, 9), at(1, 17)), at(1, 8))
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if _, err := svc.Activate(ctx, r.ID); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if _, err := svc.Complete(ctx, r.ID, at(1, 16)); err == nil {
		t.Fatal("complete must fail when the return cannot be recorded")
	}

	got, err := mem.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != booking.StatusActive {
		t.Errorf("status = %s, want active", got.Status)
	}
	if got.Return != nil {
		t.Errorf("return info = %+v, want none", got.Return)
	}
}

func TestPropose_CanceledContextAborts(t *testing.T) {
	svc, mem := newTestService(t, poolAsset("pool-1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Propose(ctx, proposal("pool-1", at(1, 9), at(1, 17)), at(1, 8))
	if !errors.Is(err, asset.ErrValidation) {
		t.Fatalf("expected a validation rejection, got %v", err)
	}

	// Nothing half-created.
	all, _ := mem.ListByAsset(context.Background(), "pool-1")
	if len(all) != 0 {
		t.Fatalf("canceled proposal persisted %d reservations", len(all))
	}
}
