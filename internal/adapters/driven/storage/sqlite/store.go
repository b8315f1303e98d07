package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/smartcart-labs/cartrank-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/smartcart-labs/cartrank-cli/internal/core/domain"
	"github.com/smartcart-labs/cartrank-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based cache that provides access to the
// listing, price and distance store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.cartrank/data/cache.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".cartrank", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "cache.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ListingStore returns a ListingStore interface backed by this store.
func (s *Store) ListingStore() driven.ListingStore {
	return &listingStore{store: s}
}

// PriceStore returns a PriceStore interface backed by this store.
func (s *Store) PriceStore() driven.PriceStore {
	return &priceStore{store: s}
}

// DistanceStore returns a DistanceStore interface backed by this store.
func (s *Store) DistanceStore() driven.DistanceStore {
	return &distanceStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Listing Store ====================

// listingStore implements driven.ListingStore.
type listingStore struct {
	store *Store
}

var _ driven.ListingStore = (*listingStore)(nil)

// storedBranch is the JSON shape of a branch inside the branches column.
type storedBranch struct {
	Store   string `json:"store"`
	Address string `json:"address"`
}

// GetListing retrieves the listing for a product near an origin.
func (s *listingStore) GetListing(ctx context.Context, product, origin string) (*domain.StoreListing, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT product, origin, branches, last_updated
		FROM store_listings WHERE product = ? AND origin = ?
	`, product, origin)

	var listing domain.StoreListing
	var branchesJSON string
	if err := row.Scan(&listing.Product, &listing.Origin, &branchesJSON, &listing.LastUpdated); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning listing: %w", err)
	}

	var stored []storedBranch
	if err := json.Unmarshal([]byte(branchesJSON), &stored); err != nil {
		return nil, fmt.Errorf("unmarshaling branches: %w", err)
	}
	for _, b := range stored {
		listing.Branches = append(listing.Branches, domain.Branch{Store: b.Store, Address: b.Address})
	}

	return &listing, nil
}

// UpsertListing stores or replaces a listing by (product, origin).
func (s *listingStore) UpsertListing(ctx context.Context, listing domain.StoreListing) error {
	stored := make([]storedBranch, 0, len(listing.Branches))
	for _, b := range listing.Branches {
		stored = append(stored, storedBranch{Store: b.Store, Address: b.Address})
	}
	branchesJSON, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshalling branches: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO store_listings (product, origin, branches, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(product, origin) DO UPDATE SET
			branches = excluded.branches,
			last_updated = excluded.last_updated
	`, listing.Product, listing.Origin, string(branchesJSON), listing.LastUpdated.UTC())

	if err != nil {
		return fmt.Errorf("saving listing: %w", err)
	}
	return nil
}

// ==================== Price Store ====================

// priceStore implements driven.PriceStore.
type priceStore struct {
	store *Store
}

var _ driven.PriceStore = (*priceStore)(nil)

// GetByProducts retrieves every cached price record for the given products.
func (s *priceStore) GetByProducts(ctx context.Context, products []string) ([]domain.PriceRecord, error) {
	if len(products) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(products)-1) + "?"
	args := make([]any, len(products))
	for i, p := range products {
		args[i] = p
	}

	rows, err := s.store.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT product, store_name, store_address, regular_price, sale_price, required_quantity, last_updated
		FROM price_records WHERE product IN (%s)
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("querying price records: %w", err)
	}
	defer rows.Close()

	var records []domain.PriceRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.PriceRecord
		var salePrice sql.NullInt64
		var requiredQty sql.NullInt64
		if err := rows.Scan(&rec.Product, &rec.Branch.Store, &rec.Branch.Address,
			&rec.RegularPrice, &salePrice, &requiredQty, &rec.LastUpdated); err != nil {
			return nil, fmt.Errorf("scanning price record: %w", err)
		}

		if salePrice.Valid {
			sale := domain.Money(salePrice.Int64)
			rec.SalePrice = &sale
		}
		if requiredQty.Valid {
			qty := int(requiredQty.Int64)
			rec.RequiredQuantity = &qty
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating price records: %w", err)
	}

	return records, nil
}

// Upsert stores or replaces price records by (product, store, address).
func (s *priceStore) Upsert(ctx context.Context, records []domain.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price_records
			(product, store_name, store_address, regular_price, sale_price, required_quantity, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(product, store_name, store_address) DO UPDATE SET
			regular_price = excluded.regular_price,
			sale_price = excluded.sale_price,
			required_quantity = excluded.required_quantity,
			last_updated = excluded.last_updated
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var salePrice, requiredQty any
		if rec.SalePrice != nil {
			salePrice = int64(*rec.SalePrice)
		}
		if rec.RequiredQuantity != nil {
			requiredQty = int64(*rec.RequiredQuantity)
		}

		if _, err := stmt.ExecContext(ctx, rec.Product, rec.Branch.Store, rec.Branch.Address,
			int64(rec.RegularPrice), salePrice, requiredQty, rec.LastUpdated.UTC()); err != nil {
			return fmt.Errorf("saving price record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Distance Store ====================

// distanceStore implements driven.DistanceStore.
type distanceStore struct {
	store *Store
}

var _ driven.DistanceStore = (*distanceStore)(nil)

// GetDistances retrieves cached records for the given destinations.
// Pairs never resolved are simply absent; pairs that resolved to nothing
// come back with a nil Km so callers do not re-request them.
func (s *distanceStore) GetDistances(
	ctx context.Context, origin string, destinations []string,
) ([]domain.DistanceRecord, error) {
	if len(destinations) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(destinations)-1) + "?"
	args := make([]any, 0, len(destinations)+1)
	args = append(args, origin)
	for _, d := range destinations {
		args = append(args, d)
	}

	rows, err := s.store.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT origin, destination, distance_km
		FROM distances WHERE origin = ? AND destination IN (%s)
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("querying distances: %w", err)
	}
	defer rows.Close()

	var records []domain.DistanceRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.DistanceRecord
		var km sql.NullFloat64
		if err := rows.Scan(&rec.Origin, &rec.Destination, &km); err != nil {
			return nil, fmt.Errorf("scanning distance: %w", err)
		}
		if km.Valid {
			v := km.Float64
			rec.Km = &v
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating distances: %w", err)
	}

	return records, nil
}

// PutDistances stores or replaces distance records by (origin, destination).
func (s *distanceStore) PutDistances(ctx context.Context, records []domain.DistanceRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO distances (origin, destination, distance_km)
		VALUES (?, ?, ?)
		ON CONFLICT(origin, destination) DO UPDATE SET
			distance_km = excluded.distance_km
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var km any
		if rec.Km != nil {
			km = *rec.Km
		}
		if _, err := stmt.ExecContext(ctx, rec.Origin, rec.Destination, km); err != nil {
			return fmt.Errorf("saving distance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
