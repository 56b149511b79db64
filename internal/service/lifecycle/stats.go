package lifecycle

import (
	"github.com/shopspring/decimal"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/bid"
)

// DashboardStats reproduces the dashboard summary tiles.
type DashboardStats struct {
	Count         int             `json:"count"`
	AcceptedCount int             `json:"accepted_count"`
	PendingCount  int             `json:"pending_count"`
	AverageAmount decimal.Decimal `json:"average_amount"`
}

// BuyerDashboard extends the bid aggregation with project counts.
type BuyerDashboard struct {
	TotalProjects int            `json:"total_projects"`
	OpenProjects  int            `json:"open_projects"`
	Bids          DashboardStats `json:"bids"`
}

// ComputeDashboardStats is a pure aggregation over a bid sequence. The
// average is zero for an empty sequence, not a division error.
func ComputeDashboardStats(bids []*bid.Bid) DashboardStats {
	stats := DashboardStats{
		Count:         len(bids),
		AverageAmount: decimal.Zero,
	}
	if len(bids) == 0 {
		return stats
	}

	sum := decimal.Zero
	for _, b := range bids {
		sum = sum.Add(b.Amount.Amount())
		switch b.Status {
		case bid.StatusAccepted:
			stats.AcceptedCount++
		case bid.StatusSubmitted:
			stats.PendingCount++
		}
	}

	stats.AverageAmount = sum.Div(decimal.NewFromInt(int64(len(bids))))
	return stats
}
