package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/library-seat-manager/internal/model"
)

// ErrLibraryNotFound is returned when a library lookup yields no rows.
var ErrLibraryNotFound = errors.New("library not found")

// LibraryRepo provides methods to create and retrieve libraries. Every
// owner-scoped query filters on owner_id so one tenant can never see or
// touch another tenant's data.
type LibraryRepo struct {
	db *sql.DB
}

// NewLibraryRepo constructs a LibraryRepo with the given DB handle.
func NewLibraryRepo(db *sql.DB) *LibraryRepo {
	return &LibraryRepo{db: db}
}

const libraryCols = `id, owner_id, name, address, total_seats, is_active, created_at, updated_at`

func scanLibrary(row interface{ Scan(...any) error }) (*model.Library, error) {
	var l model.Library
	var addr sql.NullString
	if err := row.Scan(&l.ID, &l.OwnerID, &l.Name, &addr, &l.TotalSeats, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	if addr.Valid {
		l.Address = &addr.String
	}
	return &l, nil
}

// Create inserts a new library and reads the row back so timestamps and
// defaults are populated on the provided record.
func (r *LibraryRepo) Create(ctx context.Context, l *model.Library) error {
	const q = `INSERT INTO libraries (owner_id, name, address, total_seats) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, l.OwnerID, l.Name, l.Address, l.TotalSeats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	fresh, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*l = *fresh
	return nil
}

// GetByID retrieves a library regardless of owner. Used by the public
// directory and internal lookups.
func (r *LibraryRepo) GetByID(ctx context.Context, id uint64) (*model.Library, error) {
	const q = `SELECT ` + libraryCols + ` FROM libraries WHERE id = ?`
	l, err := scanLibrary(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLibraryNotFound
	}
	return l, err
}

// GetByIDAndOwner retrieves a library only when it belongs to the given
// owner. This is the entry point for every owner-scoped handler.
func (r *LibraryRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Library, error) {
	const q = `SELECT ` + libraryCols + ` FROM libraries WHERE id = ? AND owner_id = ?`
	l, err := scanLibrary(r.db.QueryRowContext(ctx, q, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLibraryNotFound
	}
	return l, err
}

// ListByOwner returns all libraries belonging to an owner ordered by id.
func (r *LibraryRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Library, error) {
	const q = `SELECT ` + libraryCols + ` FROM libraries WHERE owner_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Library
	for rows.Next() {
		l, err := scanLibrary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListActive returns every active library. This feeds the public
// directory, so inactive tenants are filtered out here.
func (r *LibraryRepo) ListActive(ctx context.Context) ([]*model.Library, error) {
	const q = `SELECT ` + libraryCols + ` FROM libraries WHERE is_active = 1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Library
	for rows.Next() {
		l, err := scanLibrary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpdateByIDAndOwner updates name, address, total_seats and is_active.
// Returns sql.ErrNoRows when the library does not exist or is not owned
// by the caller. The caller is responsible for refusing a total_seats
// shrink below the highest occupied seat (StudentRepo.MaxOccupiedSeat).
func (r *LibraryRepo) UpdateByIDAndOwner(ctx context.Context, l *model.Library) error {
	const q = `UPDATE libraries
	           SET name = ?, address = ?, total_seats = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, l.Name, l.Address, l.TotalSeats, l.IsActive, l.ID, l.OwnerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndOwner removes a library. Foreign keys restrict the delete
// while shifts or students still exist, which surfaces as ErrConflict.
func (r *LibraryRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	const q = `DELETE FROM libraries WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		if isFKRestrict(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
