// Package export renders a project's ranked bid list as a tabular file.
// It is a pure formatting transform over the engine's output; visibility
// and ranking are decided before the bids reach this package.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/bid"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/profile"
)

// ProfileDirectory resolves bidder company names for the export rows.
type ProfileDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
}

// Exporter writes bid lists as CSV.
type Exporter struct {
	profiles ProfileDirectory
}

func NewExporter(profiles ProfileDirectory) *Exporter {
	return &Exporter{profiles: profiles}
}

var header = []string{"company", "amount", "delivery_days", "proposal", "status", "submitted_at"}

// WriteCSV streams the already-ranked bid sequence to w, one row per bid.
func (e *Exporter) WriteCSV(ctx context.Context, w io.Writer, bids []*bid.Bid) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, b := range bids {
		company := "Unknown"
		if e.profiles != nil {
			if prof, err := e.profiles.GetByID(ctx, b.BidderID); err == nil {
				company = prof.CompanyName
			}
		}

		row := []string{
			company,
			b.Amount.Amount().String(),
			fmt.Sprintf("%d", b.DeliveryDays),
			b.Proposal,
			b.Status.String(),
			b.SubmittedAt.Format("2006-01-02"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
