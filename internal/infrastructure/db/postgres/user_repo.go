package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

// UserRepo stores accounts in the users table. Emails are stored and matched
// exactly as supplied.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, email, password_hash, role, created_at`

func scanUser(row *sql.Row) (userRow, error) {
	var ur userRow
	err := row.Scan(&ur.ID, &ur.Email, &ur.PasswordHash, &ur.Role, &ur.CreatedAt)
	return ur, err
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1;`

	ur, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, fmt.Errorf("users.find_by_email: %w", err)
	}
	u, err := ur.toDomain()
	if err != nil {
		return domain.User{}, false, err
	}
	return u, true, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (domain.User, bool, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1;`

	ur, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, fmt.Errorf("users.find_by_id: %w", err)
	}
	u, err := ur.toDomain()
	if err != nil {
		return domain.User{}, false, err
	}
	return u, true, nil
}

func (r *UserRepo) Create(ctx context.Context, email, passwordHash string, role domain.Role) (domain.User, error) {
	if role == "" {
		role = domain.RoleVisitor
	}

	const q = `
INSERT INTO users (id, email, password_hash, role)
VALUES ($1, $2, $3, $4)
RETURNING ` + userColumns + `;
`
	ur, err := scanUser(r.db.QueryRowContext(ctx, q, uuid.NewString(), email, passwordHash, string(role)))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("users.email: %w", domain.ErrDuplicateKey)
		}
		return domain.User{}, fmt.Errorf("users.create: %w", err)
	}
	return ur.toDomain()
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, email, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $2 WHERE email = $1;`

	res, err := r.db.ExecContext(ctx, q, email, passwordHash)
	if err != nil {
		return fmt.Errorf("users.update_password_hash: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("users.update_password_hash: no user with email %q", email)
	}
	return nil
}
