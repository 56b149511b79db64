package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/errors"
	"github.com/procurebid/procurement-exchange-backend/internal/service/lifecycle"
)

// awardStore implements lifecycle.AwardStore using a single PostgreSQL
// transaction. The conditional project update is the serialization point:
// two concurrent awards for the same project race on the status='open'
// predicate and exactly one transaction wins.
type awardStore struct {
	db *pgxpool.Pool
}

// NewAwardStore creates a transactional award store
func NewAwardStore(db *pgxpool.Pool) lifecycle.AwardStore {
	return &awardStore{db: db}
}

func (s *awardStore) Award(ctx context.Context, projectID, winningBidID uuid.UUID, now time.Time) (*lifecycle.AwardResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, translateError(err, "award")
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE projects
		SET status = 'awarded', updated_at = $2
		WHERE id = $1 AND status = 'open'
	`, projectID, now)
	if err != nil {
		return nil, translateError(err, "project")
	}
	if tag.RowsAffected() == 0 {
		return nil, errors.NewInvalidStateError("PROJECT_NOT_OPEN", "project is not open")
	}

	tag, err = tx.Exec(ctx, `
		UPDATE bids
		SET status = 'accepted', accepted_at = $2, updated_at = $2
		WHERE id = $1 AND project_id = $3 AND status IN ('submitted', 'reviewed')
	`, winningBidID, now, projectID)
	if err != nil {
		return nil, translateError(err, "bid")
	}
	if tag.RowsAffected() == 0 {
		return nil, errors.NewInvalidStateError("BID_NOT_ACCEPTABLE", "bid cannot be accepted")
	}

	_, err = tx.Exec(ctx, `
		UPDATE bids
		SET status = 'rejected', updated_at = $3
		WHERE project_id = $1 AND id <> $2 AND status IN ('submitted', 'reviewed')
	`, projectID, winningBidID, now)
	if err != nil {
		return nil, translateError(err, "bid")
	}

	query := `SELECT` + projectColumns + ` FROM projects WHERE id = $1`
	project, err := scanProject(tx.QueryRow(ctx, query, projectID))
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT`+bidColumns+`
		FROM bids
		WHERE project_id = $1
		ORDER BY submitted_at ASC
	`, projectID)
	if err != nil {
		return nil, translateError(err, "bid")
	}
	defer rows.Close()

	result := &lifecycle.AwardResult{Project: project}
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		if b.ID == winningBidID {
			result.Winner = b
		} else {
			result.Rejected = append(result.Rejected, b)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "bid")
	}
	rows.Close()

	if err := tx.Commit(ctx); err != nil {
		return nil, translateError(err, "award")
	}

	return result, nil
}
