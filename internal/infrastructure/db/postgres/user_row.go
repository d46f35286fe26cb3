package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

type userRow struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// toDomain refuses rows whose role is outside the enum; a hand-edited role
// must not reach the access gates.
func (ur userRow) toDomain() (domain.User, error) {
	if !domain.IsValidRole(ur.Role) {
		return domain.User{}, fmt.Errorf("users.role: invalid role %q for user %s", ur.Role, ur.ID)
	}
	return domain.User{
		ID:           ur.ID,
		Email:        ur.Email,
		PasswordHash: ur.PasswordHash,
		Role:         domain.Role(ur.Role),
		CreatedAt:    ur.CreatedAt,
	}, nil
}

type authorizedEmailRow struct {
	Email     string
	Role      string
	CreatedAt time.Time
}

func (r authorizedEmailRow) toDomain() (domain.AuthorizedEmail, error) {
	if !domain.IsGrantableRole(r.Role) {
		return domain.AuthorizedEmail{}, fmt.Errorf("authorized_emails.role: invalid role %q", r.Role)
	}
	return domain.AuthorizedEmail{
		Email:     r.Email,
		Role:      domain.Role(r.Role),
		CreatedAt: r.CreatedAt,
	}, nil
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
