package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

// AuthorizedEmailRepo stores the registration whitelist.
type AuthorizedEmailRepo struct {
	db *sql.DB
}

func NewAuthorizedEmailRepo(db *sql.DB) *AuthorizedEmailRepo {
	return &AuthorizedEmailRepo{db: db}
}

func (r *AuthorizedEmailRepo) Find(ctx context.Context, email string) (domain.AuthorizedEmail, bool, error) {
	const q = `SELECT email, role, created_at FROM authorized_emails WHERE email = $1 LIMIT 1;`

	var row authorizedEmailRow
	err := r.db.QueryRowContext(ctx, q, email).Scan(&row.Email, &row.Role, &row.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return domain.AuthorizedEmail{}, false, nil
		}
		return domain.AuthorizedEmail{}, false, fmt.Errorf("authorized_emails.find: %w", err)
	}
	ae, err := row.toDomain()
	if err != nil {
		return domain.AuthorizedEmail{}, false, err
	}
	return ae, true, nil
}

func (r *AuthorizedEmailRepo) List(ctx context.Context) ([]domain.AuthorizedEmail, error) {
	const q = `SELECT email, role, created_at FROM authorized_emails ORDER BY created_at, email;`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("authorized_emails.list: %w", err)
	}
	defer rows.Close()

	out := []domain.AuthorizedEmail{}
	for rows.Next() {
		var row authorizedEmailRow
		if err := rows.Scan(&row.Email, &row.Role, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("authorized_emails.list scan: %w", err)
		}
		ae, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, ae)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("authorized_emails.list rows: %w", err)
	}
	return out, nil
}

func (r *AuthorizedEmailRepo) Create(ctx context.Context, email string, role domain.Role) (domain.AuthorizedEmail, error) {
	const q = `
INSERT INTO authorized_emails (email, role)
VALUES ($1, $2)
RETURNING email, role, created_at;
`
	var row authorizedEmailRow
	err := r.db.QueryRowContext(ctx, q, email, string(role)).Scan(&row.Email, &row.Role, &row.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.AuthorizedEmail{}, fmt.Errorf("authorized_emails.email: %w", domain.ErrDuplicateKey)
		}
		return domain.AuthorizedEmail{}, fmt.Errorf("authorized_emails.create: %w", err)
	}
	return row.toDomain()
}

func (r *AuthorizedEmailRepo) UpdateRole(ctx context.Context, email string, role domain.Role) (bool, error) {
	const q = `UPDATE authorized_emails SET role = $2 WHERE email = $1;`

	res, err := r.db.ExecContext(ctx, q, email, string(role))
	if err != nil {
		return false, fmt.Errorf("authorized_emails.update_role: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("authorized_emails.update_role rows: %w", err)
	}
	return n > 0, nil
}

func (r *AuthorizedEmailRepo) Delete(ctx context.Context, email string) error {
	const q = `DELETE FROM authorized_emails WHERE email = $1;`

	if _, err := r.db.ExecContext(ctx, q, email); err != nil {
		return fmt.Errorf("authorized_emails.delete: %w", err)
	}
	return nil
}
