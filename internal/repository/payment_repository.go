package repository // repository defines data access for subscription payments

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/library-seat-manager/internal/model"
)

// ErrPaymentNotFound is returned when a payment lookup yields no rows.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepo persists subscription payments. Rows are created PENDING
// when a gateway checkout is opened and settled (or failed) when the
// gateway notification arrives; settlement and the membership extension
// it triggers happen in one transaction.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo constructs a PaymentRepo with the given DB handle.
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

const paymentCols = `id, order_id, library_id, student_id, shift_id,
	amount_cents, months, status, settled_at, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	var settled sql.NullTime
	err := row.Scan(&p.ID, &p.OrderID, &p.LibraryID, &p.StudentID, &p.ShiftID,
		&p.AmountCents, &p.Months, &p.Status, &settled, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if settled.Valid {
		t := settled.Time
		p.SettledAt = &t
	}
	return &p, nil
}

// Create inserts a PENDING payment row for a freshly opened checkout.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (order_id, library_id, student_id, shift_id, amount_cents, months, status)
	           VALUES (?, ?, ?, ?, ?, ?, 'PENDING')`
	res, err := r.db.ExecContext(ctx, q, p.OrderID, p.LibraryID, p.StudentID, p.ShiftID, p.AmountCents, p.Months)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	p.Status = "PENDING"
	return nil
}

// GetByOrderID retrieves a payment by its gateway order identifier.
func (r *PaymentRepo) GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE order_id = ?`
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

// ListByLibrary returns all payments of a library, newest first.
func (r *PaymentRepo) ListByLibrary(ctx context.Context, libraryID uint64) ([]*model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE library_id = ? ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Settle marks a PENDING payment SETTLED and extends the student's
// membership in the same transaction, so a crash between the two writes
// cannot leave a paid-but-unextended student. The status guard makes the
// operation idempotent against duplicate gateway notifications: a second
// call affects zero rows and returns ErrPaymentNotFound.
func (r *PaymentRepo) Settle(ctx context.Context, orderID string, settledAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const qUpd = `UPDATE payments SET status = 'SETTLED', settled_at = ?, updated_at = CURRENT_TIMESTAMP
	              WHERE order_id = ? AND status = 'PENDING'`
	res, err := tx.ExecContext(ctx, qUpd, settledAt.UTC(), orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPaymentNotFound
	}

	const qExtend = `UPDATE students s
	                 JOIN payments p ON p.student_id = s.id
	                 SET s.membership_till = DATE_ADD(GREATEST(COALESCE(s.membership_till, CURDATE()), CURDATE()), INTERVAL p.months MONTH),
	                     s.updated_at = CURRENT_TIMESTAMP
	                 WHERE p.order_id = ?`
	if _, err := tx.ExecContext(ctx, qExtend, orderID); err != nil {
		return err
	}
	return tx.Commit()
}

// MarkFailed records a gateway denial or expiry for a pending payment.
func (r *PaymentRepo) MarkFailed(ctx context.Context, orderID string) error {
	const q = `UPDATE payments SET status = 'FAILED', updated_at = CURRENT_TIMESTAMP
	           WHERE order_id = ? AND status = 'PENDING'`
	res, err := r.db.ExecContext(ctx, q, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// SumSettledSince totals settled amounts for the dashboard (fees
// collected since the given instant, usually the first of the month).
func (r *PaymentRepo) SumSettledSince(ctx context.Context, libraryID uint64, since time.Time) (uint64, error) {
	var sum uint64
	const q = `SELECT COALESCE(SUM(amount_cents), 0) FROM payments
	           WHERE library_id = ? AND status = 'SETTLED' AND settled_at >= ?`
	err := r.db.QueryRowContext(ctx, q, libraryID, since.UTC()).Scan(&sum)
	return sum, err
}
