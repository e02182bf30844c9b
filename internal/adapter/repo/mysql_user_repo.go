package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/usecase"
)

const userColumns = `id, email, first_name, last_name, phone, role, password_hash, created_at`

// MySQLUserRepo is the identity directory: customers, staff and the owner.
type MySQLUserRepo struct{ db *sql.DB }

func NewMySQLUserRepo(db *sql.DB) *MySQLUserRepo { return &MySQLUserRepo{db: db} }

func (r *MySQLUserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, email, first_name, last_name, phone, role, password_hash, created_at)
VALUES (?,?,?,?,?,?,?,NOW())
`, u.ID, strings.ToLower(u.Email), u.FirstName, u.LastName, u.Phone.Normalize(), u.Role, u.PasswordHash)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 { // duplicate key
			return domain.Errorf(domain.ECONFLICT, "email already registered")
		}
		return domain.WrapError(err, domain.EINTERNAL, "user insert failed")
	}
	return nil
}

func (r *MySQLUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users WHERE id=?`, id)
	return scanUser(row)
}

func (r *MySQLUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users WHERE email=?`, strings.ToLower(email))
	return scanUser(row)
}

func (r *MySQLUserRepo) ListByRole(ctx context.Context, role domain.Role, limit int) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+userColumns+`
FROM users WHERE role=? ORDER BY created_at DESC LIMIT ?`, role, clampLimit(limit))
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "user list failed")
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "user list failed")
	}
	return out, nil
}

func (r *MySQLUserRepo) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role=?`, role)
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, domain.WrapError(err, domain.EINTERNAL, "user count failed")
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row *sql.Row) (*domain.User, error) {
	u, err := scanUserRow(row)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func scanUserRow(s rowScanner) (*domain.User, error) {
	var u domain.User
	var phone sql.NullString
	err := s.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &phone, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Errorf(domain.ENOTFOUND, "user not found")
	}
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "user lookup failed")
	}
	u.Phone = domain.PlainPhone(phone.String)
	return &u, nil
}

var _ usecase.UserDirectory = (*MySQLUserRepo)(nil)
