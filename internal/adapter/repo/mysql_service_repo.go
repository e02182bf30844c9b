package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/usecase"
)

const serviceColumns = `id, name, unit, price_kobo, active, created_at`

// MySQLServiceRepo stores the laundry service catalog (wash, dry-clean, iron...).
type MySQLServiceRepo struct{ db *sql.DB }

func NewMySQLServiceRepo(db *sql.DB) *MySQLServiceRepo { return &MySQLServiceRepo{db: db} }

func (r *MySQLServiceRepo) Create(ctx context.Context, s *domain.Service) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO services (id, name, unit, price_kobo, active, created_at)
VALUES (?,?,?,?,?,NOW())
`, s.ID, s.Name, s.Unit, s.PriceKobo, s.Active)
	if err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "service insert failed")
	}
	return nil
}

func (r *MySQLServiceRepo) Update(ctx context.Context, s *domain.Service) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE services SET name=?, unit=?, price_kobo=?, active=? WHERE id=?
`, s.Name, s.Unit, s.PriceKobo, s.Active, s.ID)
	if err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "service update failed")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "service update failed")
	}
	if n == 0 {
		return domain.Errorf(domain.ENOTFOUND, "service not found")
	}
	return nil
}

// Delete retires a service. Rows are kept for order history; the catalog
// only stops offering them.
func (r *MySQLServiceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE services SET active=0 WHERE id=?`, id)
	if err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "service delete failed")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, domain.EINTERNAL, "service delete failed")
	}
	if n == 0 {
		return domain.Errorf(domain.ENOTFOUND, "service not found")
	}
	return nil
}

func (r *MySQLServiceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+serviceColumns+`
FROM services WHERE id=?`, id)

	var s domain.Service
	err := row.Scan(&s.ID, &s.Name, &s.Unit, &s.PriceKobo, &s.Active, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Errorf(domain.ENOTFOUND, "service not found")
	}
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "service lookup failed")
	}
	return &s, nil
}

func (r *MySQLServiceRepo) List(ctx context.Context, activeOnly bool) ([]domain.Service, error) {
	q := `SELECT ` + serviceColumns + ` FROM services`
	if activeOnly {
		q += ` WHERE active=1`
	}
	q += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "service list failed")
	}
	defer rows.Close()

	var out []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Unit, &s.PriceKobo, &s.Active, &s.CreatedAt); err != nil {
			return nil, domain.WrapError(err, domain.EINTERNAL, "service list failed")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "service list failed")
	}
	return out, nil
}

var _ usecase.ServiceRepo = (*MySQLServiceRepo)(nil)
