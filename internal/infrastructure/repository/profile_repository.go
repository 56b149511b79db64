package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/profile"
	"github.com/procurebid/procurement-exchange-backend/internal/service/lifecycle"
)

// profileRepository implements lifecycle.ProfileRepository using PostgreSQL
type profileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) lifecycle.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, p *profile.Profile) error {
	query := `
		INSERT INTO profiles (
			id, user_type, company_name, representative_name, email,
			phone, business_number, address, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID, p.Type.String(), p.CompanyName, p.RepresentativeName, p.Email,
		p.Phone, p.BusinessNumber, p.Address, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "profile")
	}

	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	query := `
		SELECT id, user_type, company_name, representative_name, email,
			phone, business_number, address, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	return r.scanProfile(r.db.QueryRow(ctx, query, id))
}

func (r *profileRepository) Update(ctx context.Context, p *profile.Profile) error {
	query := `
		UPDATE profiles
		SET company_name = $2,
			representative_name = $3,
			phone = $4,
			business_number = $5,
			address = $6,
			updated_at = $7
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		p.ID, p.CompanyName, p.RepresentativeName,
		p.Phone, p.BusinessNumber, p.Address, p.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "profile")
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows, "profile")
	}

	return nil
}

func (r *profileRepository) ListSuppliers(ctx context.Context) ([]*profile.Profile, error) {
	query := `
		SELECT id, user_type, company_name, representative_name, email,
			phone, business_number, address, created_at, updated_at
		FROM profiles
		WHERE user_type = 'supplier'
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translateError(err, "profile")
	}
	defer rows.Close()

	var profiles []*profile.Profile
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "profile")
	}

	return profiles, nil
}

func (r *profileRepository) scanProfile(row pgx.Row) (*profile.Profile, error) {
	var p profile.Profile
	var typeStr string

	err := row.Scan(
		&p.ID, &typeStr, &p.CompanyName, &p.RepresentativeName, &p.Email,
		&p.Phone, &p.BusinessNumber, &p.Address, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err, "profile")
	}

	userType, err := profile.ParseUserType(typeStr)
	if err != nil {
		return nil, translateError(err, "profile")
	}
	p.Type = userType

	return &p, nil
}
