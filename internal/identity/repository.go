package identity

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nursle/platform/internal/shared/errors"
	"github.com/nursle/platform/internal/shared/types"
)

// Repository provides database operations for nurse accounts
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new identity repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateNurse stores a new nurse account
func (r *Repository) CreateNurse(ctx context.Context, nurse *Nurse) error {
	if r.pool == nil {
		return errors.Unavailable("database not available")
	}

	query := `
		INSERT INTO nurses (id, full_name, email, nurse_id, password_hash)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		nurse.ID, nurse.FullName, nurse.Email, nurse.NurseID, nurse.PasswordHash,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("a nurse with this email or staff ID already exists")
		}
		return errors.Wrap(err, "failed to create nurse")
	}

	return nil
}

// GetNurse retrieves a nurse by ID
func (r *Repository) GetNurse(ctx context.Context, id types.ID) (*Nurse, error) {
	if r.pool == nil {
		return nil, errors.Unavailable("database not available")
	}

	query := `
		SELECT id, full_name, email, nurse_id, password_hash, created_at, updated_at
		FROM nurses
		WHERE id = $1`

	var nurse Nurse
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&nurse.ID, &nurse.FullName, &nurse.Email, &nurse.NurseID,
		&nurse.PasswordHash, &nurse.CreatedAt, &nurse.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("nurse", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get nurse")
	}

	return &nurse, nil
}

// GetNurseByEmail retrieves a nurse by email for login
func (r *Repository) GetNurseByEmail(ctx context.Context, email string) (*Nurse, error) {
	if r.pool == nil {
		return nil, errors.Unavailable("database not available")
	}

	query := `
		SELECT id, full_name, email, nurse_id, password_hash, created_at, updated_at
		FROM nurses
		WHERE LOWER(email) = LOWER($1)`

	var nurse Nurse
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&nurse.ID, &nurse.FullName, &nurse.Email, &nurse.NurseID,
		&nurse.PasswordHash, &nurse.CreatedAt, &nurse.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("nurse", email)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get nurse by email")
	}

	return &nurse, nil
}
