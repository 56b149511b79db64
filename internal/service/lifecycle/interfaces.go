package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/bid"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/profile"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/project"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/values"
)

// ProjectRepository provides access to project records.
type ProjectRepository interface {
	Create(ctx context.Context, p *project.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
	ListOpen(ctx context.Context, now time.Time) ([]*project.Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*project.Project, error)
}

// BidRepository provides access to bid records. Create must fail with a
// duplicate-bid conflict when a (project, bidder) pair already holds a bid.
type BidRepository interface {
	Create(ctx context.Context, b *bid.Bid) error
	GetByID(ctx context.Context, id uuid.UUID) (*bid.Bid, error)
	GetByProject(ctx context.Context, projectID uuid.UUID) ([]*bid.Bid, error)
	GetByProjectAndBidder(ctx context.Context, projectID, bidderID uuid.UUID) (*bid.Bid, error)
	GetByBidder(ctx context.Context, bidderID uuid.UUID) ([]*bid.Bid, error)
	Update(ctx context.Context, b *bid.Bid) error
}

// ProfileRepository provides access to organization profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *profile.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
	Update(ctx context.Context, p *profile.Profile) error
	ListSuppliers(ctx context.Context) ([]*profile.Profile, error)
}

// AwardStore applies the three-part award mutation - accept one bid, reject
// the rest, mark the project awarded - as a single unit. No reader may
// observe it partially applied. Implementations must condition the update on
// the project still being open so a concurrent award loses cleanly.
type AwardStore interface {
	Award(ctx context.Context, projectID, winningBidID uuid.UUID, now time.Time) (*AwardResult, error)
}

// AwardResult is the state produced by a committed award.
type AwardResult struct {
	Project  *project.Project
	Winner   *bid.Bid
	Rejected []*bid.Bid
}

// Notifier delivers best-effort messages after a state mutation commits.
// Failures are logged by the implementation and never surface to the engine.
type Notifier interface {
	NotifyProjectCreated(ctx context.Context, p *project.Project)
	NotifyBidSubmitted(ctx context.Context, p *project.Project, b *bid.Bid)
	NotifyAwardResolved(ctx context.Context, p *project.Project, winner *bid.Bid, rejected []*bid.Bid)
}

// MetricsCollector records engine-level counters.
type MetricsCollector interface {
	RecordProjectCreated()
	RecordBidSubmitted(amount float64)
	RecordAwardResolved(totalBids int)
}

// CreateProjectRequest carries the fields a buyer submits when posting a
// procurement request.
type CreateProjectRequest struct {
	OwnerID      uuid.UUID
	Title        string
	Category     string
	Region       string
	Requirements string
	BudgetMin    *values.Money
	BudgetMax    *values.Money
	ScheduleFrom *time.Time
	ScheduleTo   *time.Time
	Deadline     time.Time
}

// SubmitBidRequest carries a supplier's offer against a project.
type SubmitBidRequest struct {
	ProjectID    uuid.UUID
	BidderID     uuid.UUID
	Amount       values.Money
	DeliveryDays int
	Proposal     string
}
