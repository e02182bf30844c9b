package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/usecase"
)

const orderColumns = `id, customer_id, assigned_staff_id, status, payment_method, amount_kobo, items_json, created_at, updated_at`

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

func (r *MySQLOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO orders (id, customer_id, assigned_staff_id, status, payment_method, amount_kobo, items_json, created_at, updated_at)
VALUES (?,?,NULLIF(?,''),?,?,?,?,NOW(),NOW())
`, o.ID, o.CustomerID, o.AssignedStaffID, o.Status, o.PaymentMethod, o.AmountKobo, o.ItemsJSON)
	if err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "order insert failed")
	}
	return nil
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+orderColumns+`
FROM orders WHERE id=?`, id)
	return scanOrder(row)
}

func (r *MySQLOrderRepo) ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+orderColumns+`
FROM orders WHERE customer_id=? ORDER BY created_at DESC LIMIT ?`, customerID, clampLimit(limit))
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "order list failed")
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *MySQLOrderRepo) ListByStatus(ctx context.Context, status domain.Status, limit int) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+orderColumns+`
FROM orders WHERE status=? ORDER BY created_at DESC LIMIT ?`, status, clampLimit(limit))
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "order list failed")
	}
	defer rows.Close()
	return collectOrders(rows)
}

// UpdateStatusIf is the guarded transition: zero rows means the order was not
// in the expected stage (or does not exist), which callers treat as a lost
// race rather than an error.
func (r *MySQLOrderRepo) UpdateStatusIf(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE orders
SET status = ?, updated_at = NOW()
WHERE id = ? AND status = ?`,
		to, id, from,
	)
	if err != nil {
		return false, domain.WrapError(err, domain.EINTERNAL, "order update failed")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, domain.WrapError(err, domain.EINTERNAL, "order update failed")
	}
	return rows > 0, nil
}

// AssignStaff records the first staff member to touch the order; later
// touches keep the original assignee.
func (r *MySQLOrderRepo) AssignStaff(ctx context.Context, orderID, staffID string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE orders
SET assigned_staff_id = ?, updated_at = NOW()
WHERE id = ? AND assigned_staff_id IS NULL`,
		staffID, orderID,
	)
	if err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "staff assignment failed")
	}
	return nil
}

func (r *MySQLOrderRepo) CustomerStats(ctx context.Context, customerID string) (*usecase.OrderStats, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT COUNT(*), COALESCE(SUM(amount_kobo),0), MIN(created_at), MAX(created_at)
FROM orders WHERE customer_id=? AND status <> ?`, customerID, domain.StatusCancelled)

	var stats usecase.OrderStats
	var first, last sql.NullTime
	if err := row.Scan(&stats.OrderCount, &stats.SpendKobo, &first, &last); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "customer stats query failed")
	}
	if first.Valid {
		stats.FirstOrderAt = &first.Time
	}
	if last.Valid {
		stats.LastOrderAt = &last.Time
	}
	return &stats, nil
}

func (r *MySQLOrderRepo) StaffStats(ctx context.Context, staffID string) (*usecase.StaffActivity, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),0),
       MAX(updated_at)
FROM orders WHERE assigned_staff_id=?`, domain.StatusCompleted, staffID)

	var stats usecase.StaffActivity
	var last sql.NullTime
	if err := row.Scan(&stats.HandledCount, &stats.CompletedCount, &last); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "staff stats query failed")
	}
	if last.Valid {
		stats.LastActivityAt = &last.Time
	}
	return &stats, nil
}

func (r *MySQLOrderRepo) StatusCounts(ctx context.Context) (map[domain.Status]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "status counts query failed")
	}
	defer rows.Close()

	counts := make(map[domain.Status]int64)
	for rows.Next() {
		var s domain.Status
		var n int64
		if err := rows.Scan(&s, &n); err != nil {
			return nil, domain.WrapError(err, domain.EINTERNAL, "status counts scan failed")
		}
		counts[s] = n
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "status counts query failed")
	}
	return counts, nil
}

func (r *MySQLOrderRepo) RevenueKobo(ctx context.Context) (int64, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(amount_kobo),0) FROM orders WHERE status = ?`, domain.StatusCompleted)
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, domain.WrapError(err, domain.EINTERNAL, "revenue query failed")
	}
	return total, nil
}

func scanOrder(row *sql.Row) (*domain.Order, error) {
	var o domain.Order
	var staff sql.NullString
	err := row.Scan(&o.ID, &o.CustomerID, &staff, &o.Status, &o.PaymentMethod, &o.AmountKobo, &o.ItemsJSON, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Errorf(domain.ENOTFOUND, "order not found")
	}
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "order lookup failed")
	}
	o.AssignedStaffID = staff.String
	return &o, nil
}

func collectOrders(rows *sql.Rows) ([]domain.Order, error) {
	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		var staff sql.NullString
		if err := rows.Scan(&o.ID, &o.CustomerID, &staff, &o.Status, &o.PaymentMethod, &o.AmountKobo, &o.ItemsJSON, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, domain.WrapError(err, domain.EINTERNAL, "order scan failed")
		}
		o.AssignedStaffID = staff.String
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "order list failed")
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
