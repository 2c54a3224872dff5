/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Persists the asset catalog, employees, and the reservation history.
  In production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

INTERFACES IMPLEMENTED:
  booking.Store:        Reservation persistence
  booking.AssetCatalog: Asset lookup for the booking service

RESERVATION HISTORY:
  Reservations are never deleted. Cancellation and returns are UPDATEs
  of status/return columns only; the rows stay for audit. Deleting an
  asset does not cascade to its reservation history.

KEY TABLES:
  assets:       Device records (financial + pool flags)
  employees:    Borrower / assignee records
  reservations: Booking history per asset

INDEXES:
  idx_reservations_asset_start: Overlap scan and ordered listing (hot path)
  idx_reservations_status:      Status filtering

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/assets.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - booking/store.go: Interface definitions
  - booking/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/equiptrack/asset-engine/asset"
	"github.com/equiptrack/asset-engine/booking"
)

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Assets (device catalog)
	CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		net_purchase_value TEXT NOT NULL DEFAULT '0',
		gross_purchase_value TEXT NOT NULL DEFAULT '0',
		purchase_date TEXT NOT NULL,
		commissioning_date TEXT,
		explicit_useful_life_years INTEGER NOT NULL DEFAULT 0,
		force_fixed_asset INTEGER,
		force_low_value INTEGER,
		is_pool_device BOOLEAN NOT NULL DEFAULT FALSE,
		assigned_to TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assets_category
		ON assets(category);
	CREATE INDEX IF NOT EXISTS idx_assets_pool
		ON assets(is_pool_device);

	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		created_at TEXT NOT NULL
	);

	-- Reservations (never deleted; status/return updates only)
	CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		asset_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		purpose TEXT,
		status TEXT NOT NULL DEFAULT 'reserved',
		returned BOOLEAN NOT NULL DEFAULT FALSE,
		returned_at TEXT,
		created_at TEXT NOT NULL
	);

	-- Hot path: overlap scan and ordered listing per asset
	CREATE INDEX IF NOT EXISTS idx_reservations_asset_start
		ON reservations(asset_id, start_at);
	CREATE INDEX IF NOT EXISTS idx_reservations_status
		ON reservations(status);
	CREATE INDEX IF NOT EXISTS idx_reservations_employee
		ON reservations(employee_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ASSET CATALOG (booking.AssetCatalog interface)
// =============================================================================

// SaveAsset inserts or replaces an asset record.
func (s *Store) SaveAsset(ctx context.Context, a asset.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT OR REPLACE INTO assets
		(id, name, category, net_purchase_value, gross_purchase_value,
		 purchase_date, commissioning_date, explicit_useful_life_years,
		 force_fixed_asset, force_low_value, is_pool_device, assigned_to, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		a.Name,
		a.Category,
		a.NetPurchaseValue.String(),
		a.GrossPurchaseValue.String(),
		a.PurchaseDate.UTC().Format(time.RFC3339),
		nullTime(a.CommissioningDate),
		a.ExplicitUsefulLifeYears,
		nullBool(a.ForceFixedAsset),
		nullBool(a.ForceLowValue),
		a.IsPoolDevice,
		nullString(string(a.AssignedTo)),
		createdAt.Format(time.RFC3339),
	)
	return err
}

// GetAsset returns an asset by ID.
func (s *Store) GetAsset(ctx context.Context, id asset.AssetID) (asset.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, net_purchase_value, gross_purchase_value,
		       purchase_date, commissioning_date, explicit_useful_life_years,
		       force_fixed_asset, force_low_value, is_pool_device, assigned_to, created_at
		FROM assets WHERE id = ?
	`, id)

	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return asset.Asset{}, asset.ErrAssetNotFound
	}
	return a, err
}

// ListAssets returns all assets ordered by name, case-insensitively.
func (s *Store) ListAssets(ctx context.Context) ([]asset.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, net_purchase_value, gross_purchase_value,
		       purchase_date, commissioning_date, explicit_useful_life_years,
		       force_fixed_asset, force_low_value, is_pool_device, assigned_to, created_at
		FROM assets ORDER BY name COLLATE NOCASE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []asset.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (asset.Asset, error) {
	var a asset.Asset
	var netValue, grossValue, purchaseDate, createdAt string
	var commissioningDate, assignedTo sql.NullString
	var forceFixed, forceLow sql.NullBool

	err := row.Scan(
		&a.ID, &a.Name, &a.Category, &netValue, &grossValue,
		&purchaseDate, &commissioningDate, &a.ExplicitUsefulLifeYears,
		&forceFixed, &forceLow, &a.IsPoolDevice, &assignedTo, &createdAt,
	)
	if err != nil {
		return asset.Asset{}, err
	}

	a.NetPurchaseValue, err = decimal.NewFromString(netValue)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("parse net value: %w", err)
	}
	a.GrossPurchaseValue, err = decimal.NewFromString(grossValue)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("parse gross value: %w", err)
	}

	a.PurchaseDate, err = time.Parse(time.RFC3339, purchaseDate)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("parse purchase date: %w", err)
	}
	if commissioningDate.Valid {
		t, err := time.Parse(time.RFC3339, commissioningDate.String)
		if err != nil {
			return asset.Asset{}, fmt.Errorf("parse commissioning date: %w", err)
		}
		a.CommissioningDate = &t
	}
	if forceFixed.Valid {
		v := forceFixed.Bool
		a.ForceFixedAsset = &v
	}
	if forceLow.Valid {
		v := forceLow.Bool
		a.ForceLowValue = &v
	}
	if assignedTo.Valid {
		a.AssignedTo = asset.EmployeeID(assignedTo.String)
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return a, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, e asset.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO employees (id, name, email, created_at)
		VALUES (?, ?, ?, ?)
	`, e.ID, e.Name, e.Email, createdAt.Format(time.RFC3339))
	return err
}

func (s *Store) GetEmployee(ctx context.Context, id asset.EmployeeID) (asset.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var e asset.Employee
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, created_at FROM employees WHERE id = ?
	`, id).Scan(&e.ID, &e.Name, &e.Email, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return asset.Employee{}, asset.ErrEmployeeNotFound
	}
	if err != nil {
		return asset.Employee{}, err
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]asset.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, created_at FROM employees ORDER BY name COLLATE NOCASE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []asset.Employee
	for rows.Next() {
		var e asset.Employee
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// =============================================================================
// RESERVATION STORE (booking.Store interface)
// =============================================================================

func (s *Store) Create(ctx context.Context, r booking.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO reservations
		(id, asset_id, employee_id, start_at, end_at, purpose, status,
		 returned, returned_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	returned := false
	var returnedAt any
	if r.Return != nil {
		returned = r.Return.Returned
		returnedAt = r.Return.ReturnedAt.UTC().Format(time.RFC3339)
	}

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, query,
		r.ID,
		r.AssetID,
		r.EmployeeID,
		r.Start.UTC().Format(time.RFC3339),
		r.End.UTC().Format(time.RFC3339),
		r.Purpose,
		r.Status,
		returned,
		returnedAt,
		createdAt.Format(time.RFC3339),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return asset.ErrDuplicateID
	}
	return err
}

func (s *Store) Get(ctx context.Context, id booking.ReservationID) (booking.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, asset_id, employee_id, start_at, end_at, purpose, status,
		       returned, returned_at, created_at
		FROM reservations WHERE id = ?
	`, id)

	r, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return booking.Reservation{}, asset.ErrReservationNotFound
	}
	return r, err
}

func (s *Store) ListByAsset(ctx context.Context, assetID asset.AssetID) ([]booking.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, asset_id, employee_id, start_at, end_at, purpose, status,
		       returned, returned_at, created_at
		FROM reservations WHERE asset_id = ? ORDER BY start_at
	`, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []booking.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

func (s *Store) UpdateStatus(ctx context.Context, id booking.ReservationID, status booking.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE reservations SET status = ? WHERE id = ?
	`, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) SetReturned(ctx context.Context, id booking.ReservationID, info booking.ReturnInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE reservations SET returned = ?, returned_at = ? WHERE id = ?
	`, info.Returned, info.ReturnedAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanReservation(row rowScanner) (booking.Reservation, error) {
	var r booking.Reservation
	var startAt, endAt, createdAt string
	var purpose, returnedAt sql.NullString
	var returned bool

	err := row.Scan(
		&r.ID, &r.AssetID, &r.EmployeeID, &startAt, &endAt,
		&purpose, &r.Status, &returned, &returnedAt, &createdAt,
	)
	if err != nil {
		return booking.Reservation{}, err
	}

	r.Start, err = time.Parse(time.RFC3339, startAt)
	if err != nil {
		return booking.Reservation{}, fmt.Errorf("parse start: %w", err)
	}
	r.End, err = time.Parse(time.RFC3339, endAt)
	if err != nil {
		return booking.Reservation{}, fmt.Errorf("parse end: %w", err)
	}
	if purpose.Valid {
		r.Purpose = purpose.String
	}
	if returned || returnedAt.Valid {
		info := booking.ReturnInfo{Returned: returned}
		if returnedAt.Valid {
			info.ReturnedAt, _ = time.Parse(time.RFC3339, returnedAt.String)
		}
		r.Return = &info
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return r, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return asset.ErrReservationNotFound
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
