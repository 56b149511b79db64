package repository

import (
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/errors"
)

// Postgres error codes we translate into domain errors.
const (
	pgUniqueViolation = "23505"
	pgForeignKey      = "23503"
)

const bidUniqueConstraint = "bids_project_id_bidder_id_key"

// translateError maps driver-level failures onto the domain error taxonomy.
// The unique index on (project_id, bidder_id) is the storage-level backstop
// for the one-bid-per-bidder invariant.
func translateError(err error, resource string) error {
	if err == nil {
		return nil
	}

	if stderrors.Is(err, pgx.ErrNoRows) {
		return errors.NewNotFoundError(resource)
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if pgErr.ConstraintName == bidUniqueConstraint {
				return errors.NewDuplicateBidError()
			}
			return errors.NewConflictError("UNIQUE_VIOLATION", pgErr.Detail).WithCause(err)
		case pgForeignKey:
			return errors.NewNotFoundError(resource).WithCause(err)
		}
	}

	return errors.NewInternalError("database operation failed").WithCause(err)
}
