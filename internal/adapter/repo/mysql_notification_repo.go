package repo

import (
	"context"
	"database/sql"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/usecase"
)

// MySQLNotificationRepo persists the activity-feed entries produced by the
// event consumers. The dashboard reads them newest-first.
type MySQLNotificationRepo struct{ db *sql.DB }

func NewMySQLNotificationRepo(db *sql.DB) *MySQLNotificationRepo {
	return &MySQLNotificationRepo{db: db}
}

func (r *MySQLNotificationRepo) Insert(ctx context.Context, n *domain.Notification) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO notifications (id, order_id, kind, message, created_at)
VALUES (?,?,?,?,NOW())
`, n.ID, n.OrderID, n.Kind, n.Message)
	if err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "notification insert failed")
	}
	return nil
}

func (r *MySQLNotificationRepo) ListRecent(ctx context.Context, limit int) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, order_id, kind, message, created_at
FROM notifications ORDER BY created_at DESC LIMIT ?`, clampLimit(limit))
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "notification list failed")
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.OrderID, &n.Kind, &n.Message, &n.CreatedAt); err != nil {
			return nil, domain.WrapError(err, domain.EINTERNAL, "notification list failed")
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "notification list failed")
	}
	return out, nil
}

var _ usecase.NotificationRepo = (*MySQLNotificationRepo)(nil)
