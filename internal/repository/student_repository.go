package repository // repository defines data access for students and their seat assignments

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/library-seat-manager/internal/model"
	"github.com/iliyamo/library-seat-manager/internal/schedule"
)

// ErrStudentNotFound is returned when a student lookup yields no rows.
var ErrStudentNotFound = errors.New("student not found")

// ErrShiftRequired is returned when a seat is being assigned without a
// shift. A seat is only meaningful under a shift window, so this is a
// programmer/caller error rather than a conflict.
var ErrShiftRequired = errors.New("shift required when assigning a seat")

// StudentRepo provides CRUD for students plus the transactional seat
// assignment path. The conflict check handlers run against a fetched
// snapshot is advisory only; the write methods here repeat it inside a
// transaction after serializing on the library row, so two concurrent
// attempts for the same seat cannot both succeed.
type StudentRepo struct {
	db *sql.DB
}

// NewStudentRepo constructs a StudentRepo with the given DB handle.
func NewStudentRepo(db *sql.DB) *StudentRepo {
	return &StudentRepo{db: db}
}

const studentCols = `id, library_id, name, phone, status, seat_number, shift_id,
	joined_on, membership_till, created_at, updated_at`

func scanStudent(row interface{ Scan(...any) error }) (*model.Student, error) {
	var st model.Student
	var seat sql.NullInt64
	var shift sql.NullInt64
	var till sql.NullTime
	err := row.Scan(&st.ID, &st.LibraryID, &st.Name, &st.Phone, &st.Status,
		&seat, &shift, &st.JoinedOn, &till, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if seat.Valid {
		n := uint32(seat.Int64)
		st.SeatNumber = &n
	}
	if shift.Valid {
		id := uint64(shift.Int64)
		st.ShiftID = &id
	}
	if till.Valid {
		t := till.Time
		st.MembershipTill = &t
	}
	return &st, nil
}

// querier is satisfied by *sql.DB and *sql.Tx so assignment loading can
// run both standalone and inside the locking transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const assignmentQuery = `SELECT s.id, s.seat_number,
	       sh.id, sh.name,
	       TIME_FORMAT(sh.start_time, '%H:%i'), TIME_FORMAT(sh.end_time, '%H:%i')
	FROM students s
	LEFT JOIN shifts sh ON sh.id = s.shift_id
	WHERE s.library_id = ? AND s.status = 'ACTIVE'`

func loadAssignments(ctx context.Context, q querier, libraryID uint64) ([]schedule.Assignment, error) {
	rows, err := q.QueryContext(ctx, assignmentQuery, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schedule.Assignment
	for rows.Next() {
		var (
			a       schedule.Assignment
			seat    sql.NullInt64
			shiftID sql.NullInt64
			name    sql.NullString
			start   sql.NullString
			end     sql.NullString
		)
		if err := rows.Scan(&a.StudentID, &seat, &shiftID, &name, &start, &end); err != nil {
			return nil, err
		}
		if seat.Valid {
			n := uint32(seat.Int64)
			a.SeatNumber = &n
		}
		// A dangling shift_id (LEFT JOIN found nothing) leaves Shift nil,
		// which the resolver treats as an automatic conflict.
		if shiftID.Valid {
			a.Shift = &schedule.Shift{
				ID:        uint64(shiftID.Int64),
				Name:      name.String,
				StartTime: start.String,
				EndTime:   end.String,
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListAssignments returns the current assignment working set of a
// library: (student, seat, shift) for every active student. Students
// without a seat are included with a nil SeatNumber so callers can reuse
// the slice for listings; the resolver skips them.
func (r *StudentRepo) ListAssignments(ctx context.Context, libraryID uint64) ([]schedule.Assignment, error) {
	return loadAssignments(ctx, r.db, libraryID)
}

// checkSeatTx re-runs the seat conflict check inside tx. It first locks
// the library row with FOR UPDATE so all assignment writes of one
// library serialize; only then is the assignment snapshot read, which
// makes the check-then-write race-free against concurrent attempts.
func checkSeatTx(ctx context.Context, tx *sql.Tx, libraryID uint64, seat *uint32, shiftID *uint64, excludeStudentID uint64) (schedule.Decision, error) {
	if seat == nil {
		return schedule.Decision{Assignable: true}, nil
	}
	if shiftID == nil {
		return schedule.Decision{}, ErrShiftRequired
	}

	var lockedID uint64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM libraries WHERE id = ? FOR UPDATE`, libraryID).Scan(&lockedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schedule.Decision{}, ErrLibraryNotFound
		}
		return schedule.Decision{}, err
	}

	var cand schedule.Shift
	const qShift = `SELECT id, name, TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i')
	                FROM shifts WHERE id = ? AND library_id = ?`
	err := tx.QueryRowContext(ctx, qShift, *shiftID, libraryID).Scan(&cand.ID, &cand.Name, &cand.StartTime, &cand.EndTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schedule.Decision{}, ErrShiftNotFound
		}
		return schedule.Decision{}, err
	}

	existing, err := loadAssignments(ctx, tx, libraryID)
	if err != nil {
		return schedule.Decision{}, err
	}
	return schedule.ResolveSeatAssignment(*seat, cand, existing, excludeStudentID), nil
}

// Create inserts a student. When a seat is requested the conflict check
// runs inside the insert transaction; a non-assignable decision is
// returned with a nil error and nothing is written.
func (r *StudentRepo) Create(ctx context.Context, st *model.Student) (schedule.Decision, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return schedule.Decision{}, err
	}
	defer func() { _ = tx.Rollback() }()

	dec, err := checkSeatTx(ctx, tx, st.LibraryID, st.SeatNumber, st.ShiftID, 0)
	if err != nil || !dec.Assignable {
		return dec, err
	}

	const q = `INSERT INTO students (library_id, name, phone, status, seat_number, shift_id, joined_on)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, st.LibraryID, st.Name, st.Phone, st.Status, st.SeatNumber, st.ShiftID, st.JoinedOn)
	if err != nil {
		return schedule.Decision{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return schedule.Decision{}, err
	}
	if err := tx.Commit(); err != nil {
		return schedule.Decision{}, err
	}

	fresh, err := r.GetByIDAndLibrary(ctx, uint64(id), st.LibraryID)
	if err != nil {
		return schedule.Decision{}, err
	}
	*st = *fresh
	return dec, nil
}

// Update rewrites a student's editable fields. The seat conflict check
// runs inside the update transaction with the student excluded from the
// scan, so editing a student never conflicts with their own assignment.
func (r *StudentRepo) Update(ctx context.Context, st *model.Student) (schedule.Decision, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return schedule.Decision{}, err
	}
	defer func() { _ = tx.Rollback() }()

	dec, err := checkSeatTx(ctx, tx, st.LibraryID, st.SeatNumber, st.ShiftID, st.ID)
	if err != nil || !dec.Assignable {
		return dec, err
	}

	const q = `UPDATE students
	           SET name = ?, phone = ?, status = ?, seat_number = ?, shift_id = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND library_id = ?`
	res, err := tx.ExecContext(ctx, q, st.Name, st.Phone, st.Status, st.SeatNumber, st.ShiftID, st.ID, st.LibraryID)
	if err != nil {
		return schedule.Decision{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected can also be zero for a value-identical update, so
		// confirm existence before reporting not-found.
		var exists uint64
		if scanErr := tx.QueryRowContext(ctx, `SELECT id FROM students WHERE id = ? AND library_id = ?`, st.ID, st.LibraryID).Scan(&exists); scanErr != nil {
			return schedule.Decision{}, ErrStudentNotFound
		}
	}
	if err := tx.Commit(); err != nil {
		return schedule.Decision{}, err
	}
	return dec, nil
}

// GetByIDAndLibrary retrieves a student scoped to one library.
func (r *StudentRepo) GetByIDAndLibrary(ctx context.Context, id, libraryID uint64) (*model.Student, error) {
	const q = `SELECT ` + studentCols + ` FROM students WHERE id = ? AND library_id = ?`
	st, err := scanStudent(r.db.QueryRowContext(ctx, q, id, libraryID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	return st, err
}

// ListByLibrary returns all students of a library ordered by name.
func (r *StudentRepo) ListByLibrary(ctx context.Context, libraryID uint64) ([]*model.Student, error) {
	const q = `SELECT ` + studentCols + ` FROM students WHERE library_id = ? ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// DeleteByIDAndLibrary removes a student; payments cascade via FK.
func (r *StudentRepo) DeleteByIDAndLibrary(ctx context.Context, id, libraryID uint64) error {
	const q = `DELETE FROM students WHERE id = ? AND library_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, libraryID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ClearSeat releases a student's seat without touching anything else.
// Used when a settled payment arrives for a student whose seat was given
// away while their membership had lapsed.
func (r *StudentRepo) ClearSeat(ctx context.Context, id uint64) error {
	const q = `UPDATE students SET seat_number = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// ExtendMembership pushes membership_till forward by the given number of
// months, counting from today when the membership already lapsed.
func (r *StudentRepo) ExtendMembership(ctx context.Context, id uint64, months uint32) error {
	const q = `UPDATE students
	           SET membership_till = DATE_ADD(GREATEST(COALESCE(membership_till, CURDATE()), CURDATE()), INTERVAL ? MONTH),
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, months, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// MaxOccupiedSeat returns the highest seat number any student of the
// library currently holds, or zero when no seat is taken. Used to refuse
// shrinking total_seats below occupied capacity.
func (r *StudentRepo) MaxOccupiedSeat(ctx context.Context, libraryID uint64) (uint32, error) {
	var max uint32
	const q = `SELECT COALESCE(MAX(seat_number), 0) FROM students WHERE library_id = ?`
	err := r.db.QueryRowContext(ctx, q, libraryID).Scan(&max)
	return max, err
}

// Counts returns total and active student counts for the dashboard.
func (r *StudentRepo) Counts(ctx context.Context, libraryID uint64) (total, active int, err error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(status = 'ACTIVE'), 0) FROM students WHERE library_id = ?`
	err = r.db.QueryRowContext(ctx, q, libraryID).Scan(&total, &active)
	return total, active, err
}

// ShiftOccupancy reports how many seats are taken under one shift.
type ShiftOccupancy struct {
	ShiftID  uint64 `json:"shift_id"`
	Name     string `json:"name"`
	Occupied int    `json:"occupied"`
}

// OccupancyByShift returns per-shift seat usage for the dashboard,
// ordered by shift start time.
func (r *StudentRepo) OccupancyByShift(ctx context.Context, libraryID uint64) ([]ShiftOccupancy, error) {
	const q = `SELECT sh.id, sh.name, COUNT(s.id)
	           FROM shifts sh
	           LEFT JOIN students s
	             ON s.shift_id = sh.id AND s.seat_number IS NOT NULL AND s.status = 'ACTIVE'
	           WHERE sh.library_id = ?
	           GROUP BY sh.id, sh.name
	           ORDER BY MIN(sh.start_time), sh.id`
	rows, err := r.db.QueryContext(ctx, q, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ShiftOccupancy
	for rows.Next() {
		var o ShiftOccupancy
		if err := rows.Scan(&o.ShiftID, &o.Name, &o.Occupied); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
