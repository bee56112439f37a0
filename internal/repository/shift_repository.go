package repository // repository defines data access for shifts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/library-seat-manager/internal/model"
)

// ErrShiftNotFound is returned when a shift lookup yields no rows.
var ErrShiftNotFound = errors.New("shift not found")

// ShiftRepo provides methods to work with shifts in the database. Start
// and end times live in TIME columns and are always read back through
// TIME_FORMAT so the rest of the system sees plain "HH:MM" strings.
type ShiftRepo struct {
	db *sql.DB
}

// NewShiftRepo constructs a ShiftRepo with the given DB handle.
func NewShiftRepo(db *sql.DB) *ShiftRepo {
	return &ShiftRepo{db: db}
}

const shiftCols = `id, library_id, name,
	TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i'),
	fee_cents, created_at, updated_at`

func scanShift(row interface{ Scan(...any) error }) (*model.Shift, error) {
	var s model.Shift
	if err := row.Scan(&s.ID, &s.LibraryID, &s.Name, &s.StartTime, &s.EndTime, &s.FeeCents, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a shift record and reads it back so timestamps are
// populated. Returns ErrConflict when a shift with the same name already
// exists in the library.
func (r *ShiftRepo) Create(ctx context.Context, s *model.Shift) error {
	const q = `INSERT INTO shifts (library_id, name, start_time, end_time, fee_cents) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.LibraryID, s.Name, s.StartTime, s.EndTime, s.FeeCents)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	fresh, err := r.GetByIDAndLibrary(ctx, uint64(id), s.LibraryID)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}

// GetByIDAndLibrary retrieves a shift scoped to one library.
func (r *ShiftRepo) GetByIDAndLibrary(ctx context.Context, id, libraryID uint64) (*model.Shift, error) {
	const q = `SELECT ` + shiftCols + ` FROM shifts WHERE id = ? AND library_id = ?`
	s, err := scanShift(r.db.QueryRowContext(ctx, q, id, libraryID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShiftNotFound
	}
	return s, err
}

// ListByLibrary returns all shifts of a library ordered by start time.
func (r *ShiftRepo) ListByLibrary(ctx context.Context, libraryID uint64) ([]*model.Shift, error) {
	const q = `SELECT ` + shiftCols + ` FROM shifts WHERE library_id = ? ORDER BY start_time, id`
	rows, err := r.db.QueryContext(ctx, q, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateByIDAndLibrary updates name, window and fee of a shift. Returns
// sql.ErrNoRows when the shift does not exist in the library and
// ErrConflict when the new name collides with another shift.
func (r *ShiftRepo) UpdateByIDAndLibrary(ctx context.Context, s *model.Shift) error {
	const q = `UPDATE shifts
	           SET name = ?, start_time = ?, end_time = ?, fee_cents = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND library_id = ?`
	res, err := r.db.ExecContext(ctx, q, s.Name, s.StartTime, s.EndTime, s.FeeCents, s.ID, s.LibraryID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndLibrary removes a shift. The delete is refused with
// ErrConflict while any student still references the shift; this guard
// lives at the caller boundary, not in the conflict resolver.
func (r *ShiftRepo) DeleteByIDAndLibrary(ctx context.Context, id, libraryID uint64) error {
	var n int
	const qCount = `SELECT COUNT(*) FROM students WHERE shift_id = ? AND library_id = ?`
	if err := r.db.QueryRowContext(ctx, qCount, id, libraryID).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	const q = `DELETE FROM shifts WHERE id = ? AND library_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, libraryID)
	if err != nil {
		if isFKRestrict(err) {
			return ErrConflict
		}
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
