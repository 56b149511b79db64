package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/bid"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/values"
	"github.com/procurebid/procurement-exchange-backend/internal/service/lifecycle"
)

// bidRepository implements lifecycle.BidRepository using PostgreSQL
type bidRepository struct {
	db *pgxpool.Pool
}

// NewBidRepository creates a new bid repository
func NewBidRepository(db *pgxpool.Pool) lifecycle.BidRepository {
	return &bidRepository{db: db}
}

const bidColumns = `
	id, project_id, bidder_id, amount::text, currency, delivery_days,
	proposal, status, submitted_at, accepted_at, updated_at`

func (r *bidRepository) Create(ctx context.Context, b *bid.Bid) error {
	query := `
		INSERT INTO bids (
			id, project_id, bidder_id, amount, currency, delivery_days,
			proposal, status, submitted_at, accepted_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		b.ID, b.ProjectID, b.BidderID, b.Amount.Amount().String(), b.Amount.Currency(),
		b.DeliveryDays, b.Proposal, b.Status.String(), b.SubmittedAt, b.AcceptedAt, b.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "bid")
	}

	return nil
}

func (r *bidRepository) GetByID(ctx context.Context, id uuid.UUID) (*bid.Bid, error) {
	query := `SELECT` + bidColumns + ` FROM bids WHERE id = $1`
	return scanBid(r.db.QueryRow(ctx, query, id))
}

func (r *bidRepository) GetByProject(ctx context.Context, projectID uuid.UUID) ([]*bid.Bid, error) {
	query := `
		SELECT` + bidColumns + `
		FROM bids
		WHERE project_id = $1
		ORDER BY submitted_at ASC
	`
	return r.queryBids(ctx, query, projectID)
}

func (r *bidRepository) GetByProjectAndBidder(ctx context.Context, projectID, bidderID uuid.UUID) (*bid.Bid, error) {
	query := `SELECT` + bidColumns + ` FROM bids WHERE project_id = $1 AND bidder_id = $2`
	return scanBid(r.db.QueryRow(ctx, query, projectID, bidderID))
}

func (r *bidRepository) GetByBidder(ctx context.Context, bidderID uuid.UUID) ([]*bid.Bid, error) {
	query := `
		SELECT` + bidColumns + `
		FROM bids
		WHERE bidder_id = $1
		ORDER BY submitted_at ASC
	`
	return r.queryBids(ctx, query, bidderID)
}

func (r *bidRepository) Update(ctx context.Context, b *bid.Bid) error {
	query := `
		UPDATE bids
		SET status = $2,
			accepted_at = $3,
			updated_at = $4
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, b.ID, b.Status.String(), b.AcceptedAt, b.UpdatedAt)
	if err != nil {
		return translateError(err, "bid")
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows, "bid")
	}

	return nil
}

func (r *bidRepository) queryBids(ctx context.Context, query string, args ...interface{}) ([]*bid.Bid, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "bid")
	}
	defer rows.Close()

	var bids []*bid.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "bid")
	}

	return bids, nil
}

func scanBid(row pgx.Row) (*bid.Bid, error) {
	var b bid.Bid
	var statusStr, amountStr, currency string

	err := row.Scan(
		&b.ID, &b.ProjectID, &b.BidderID, &amountStr, &currency, &b.DeliveryDays,
		&b.Proposal, &statusStr, &b.SubmittedAt, &b.AcceptedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err, "bid")
	}

	amount, err := values.NewMoneyFromString(amountStr, currency)
	if err != nil {
		return nil, translateError(err, "bid")
	}
	b.Amount = amount

	status, err := bid.ParseStatus(statusStr)
	if err != nil {
		return nil, translateError(err, "bid")
	}
	b.Status = status

	return &b, nil
}
