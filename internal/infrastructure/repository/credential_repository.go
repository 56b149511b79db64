package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/auth"
)

// credentialRepository implements auth.CredentialStore using PostgreSQL
type credentialRepository struct {
	db *pgxpool.Pool
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *pgxpool.Pool) auth.CredentialStore {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) SaveCredentials(ctx context.Context, c *auth.Credentials) error {
	query := `
		INSERT INTO credentials (profile_id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, c.ProfileID, c.Email, c.PasswordHash, c.CreatedAt)
	if err != nil {
		return translateError(err, "credentials")
	}

	return nil
}

func (r *credentialRepository) GetCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	query := `
		SELECT profile_id, email, password_hash, created_at
		FROM credentials
		WHERE email = $1
	`

	var c auth.Credentials
	err := r.db.QueryRow(ctx, query, email).Scan(&c.ProfileID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		return nil, translateError(err, "credentials")
	}

	return &c, nil
}
