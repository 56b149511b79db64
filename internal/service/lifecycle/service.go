package lifecycle

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/bid"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/errors"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/profile"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/project"
)

// Service enforces the legal state transitions for projects and bids and
// orchestrates the multi-record update required to resolve an award.
type Service struct {
	projects ProjectRepository
	bids     BidRepository
	profiles ProfileRepository
	awards   AwardStore

	notifier Notifier
	metrics  MetricsCollector
	clock    project.Clock
	logger   *slog.Logger

	locks *projectLocks
}

// NewService creates the lifecycle engine. Notifier and metrics may be nil;
// clock defaults to the system clock.
func NewService(
	projects ProjectRepository,
	bids BidRepository,
	profiles ProfileRepository,
	awards AwardStore,
	notifier Notifier,
	metrics MetricsCollector,
	clock project.Clock,
	logger *slog.Logger,
) *Service {
	if clock == nil {
		clock = project.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		projects: projects,
		bids:     bids,
		profiles: profiles,
		awards:   awards,
		notifier: notifier,
		metrics:  metrics,
		clock:    clock,
		logger:   logger,
		locks:    newProjectLocks(),
	}
}

// CreateProject posts a new open procurement request on behalf of a buyer.
func (s *Service) CreateProject(ctx context.Context, req CreateProjectRequest) (*project.Project, error) {
	owner, err := s.profiles.GetByID(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if !owner.IsBuyer() {
		return nil, errors.NewForbiddenError("only buyers can post projects")
	}

	now := s.clock.Now()
	p, err := project.New(req.OwnerID, req.Title, req.Category, req.Requirements, req.Deadline, now)
	if err != nil {
		return nil, errors.NewValidationError("INVALID_PROJECT", err.Error())
	}
	p.Region = req.Region

	if req.BudgetMin != nil && req.BudgetMax != nil {
		if err := p.SetBudgetRange(*req.BudgetMin, *req.BudgetMax); err != nil {
			return nil, errors.NewValidationError("INVALID_BUDGET_RANGE", err.Error())
		}
	}
	if req.ScheduleFrom != nil && req.ScheduleTo != nil {
		if err := p.SetSchedule(*req.ScheduleFrom, *req.ScheduleTo); err != nil {
			return nil, errors.NewValidationError("INVALID_SCHEDULE", err.Error())
		}
	}

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyProjectCreated(ctx, p)
	}
	if s.metrics != nil {
		s.metrics.RecordProjectCreated()
	}

	s.logger.InfoContext(ctx, "project created",
		"project_id", p.ID, "owner_id", p.OwnerID, "deadline", p.Deadline)

	return p, nil
}

// SubmitBid records a supplier's offer against an open project.
func (s *Service) SubmitBid(ctx context.Context, req SubmitBidRequest) (*bid.Bid, error) {
	bidder, err := s.profiles.GetByID(ctx, req.BidderID)
	if err != nil {
		return nil, err
	}
	if !bidder.IsSupplier() {
		return nil, errors.NewForbiddenError("only suppliers can submit bids")
	}

	p, err := s.projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !p.IsOpen(now) {
		return nil, errors.NewClosedError("project is not accepting bids")
	}

	if existing, err := s.bids.GetByProjectAndBidder(ctx, req.ProjectID, req.BidderID); err == nil && existing != nil {
		return nil, errors.NewDuplicateBidError()
	} else if err != nil && !errors.IsType(err, errors.ErrorTypeNotFound) {
		return nil, err
	}

	b, err := bid.New(req.ProjectID, req.BidderID, req.Amount, req.DeliveryDays, req.Proposal, now)
	if err != nil {
		return nil, errors.NewValidationError("INVALID_BID", err.Error())
	}

	// The store backs this with a uniqueness guarantee on (project, bidder),
	// so a race past the pre-check above still surfaces as DuplicateBid.
	if err := s.bids.Create(ctx, b); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyBidSubmitted(ctx, p, b)
	}
	if s.metrics != nil {
		s.metrics.RecordBidSubmitted(b.Amount.ToFloat64())
	}

	s.logger.InfoContext(ctx, "bid submitted",
		"bid_id", b.ID, "project_id", p.ID, "bidder_id", b.BidderID)

	return b, nil
}

// AcceptBid resolves the award for a project: the target bid wins, every
// other bid loses, the project ends awarded. Re-accepting the bid that
// already won is a no-op; accepting a different bid afterwards is an error.
func (s *Service) AcceptBid(ctx context.Context, projectID, bidID, actingBuyerID uuid.UUID) (*project.Project, error) {
	lock := s.locks.forProject(projectID)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actingBuyerID {
		return nil, errors.NewForbiddenError("only the project owner can accept bids")
	}

	b, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if b.ProjectID != projectID {
		return nil, errors.ErrBidNotFound
	}

	if p.Status == project.StatusAwarded {
		if b.Status == bid.StatusAccepted {
			// Idempotent retry of an already-resolved award.
			return p, nil
		}
		return nil, errors.NewInvalidStateError("PROJECT_ALREADY_AWARDED",
			"a different bid has already been accepted")
	}
	if p.Status != project.StatusOpen {
		return nil, errors.NewInvalidStateError("PROJECT_NOT_OPEN",
			"project is not in an awardable state")
	}
	if !b.IsAcceptable() {
		return nil, errors.NewInvalidStateError("BID_NOT_ACCEPTABLE",
			"bid is not in an acceptable state")
	}

	result, err := s.awards.Award(ctx, projectID, bidID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyAwardResolved(ctx, result.Project, result.Winner, result.Rejected)
	}
	if s.metrics != nil {
		s.metrics.RecordAwardResolved(1 + len(result.Rejected))
	}

	s.logger.InfoContext(ctx, "award resolved",
		"project_id", projectID, "winning_bid_id", bidID, "rejected", len(result.Rejected))

	return result.Project, nil
}

// MarkBidReviewed records that the buyer has reviewed a bid. Reviewing an
// already-reviewed bid is a no-op.
func (s *Service) MarkBidReviewed(ctx context.Context, projectID, bidID, actingBuyerID uuid.UUID) (*bid.Bid, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actingBuyerID {
		return nil, errors.NewForbiddenError("only the project owner can review bids")
	}

	b, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if b.ProjectID != projectID {
		return nil, errors.ErrBidNotFound
	}

	if b.Status == bid.StatusReviewed {
		return b, nil
	}
	if b.Status != bid.StatusSubmitted {
		return nil, errors.NewInvalidStateError("BID_ALREADY_DECIDED",
			"bid has already reached a terminal state")
	}

	b.MarkReviewed(s.clock.Now())
	if err := s.bids.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// ListBidsForProject returns the project's bids ranked by ascending amount,
// ties broken by earliest submission. The owning buyer sees every bid; a
// bidding supplier sees only their own.
func (s *Service) ListBidsForProject(ctx context.Context, projectID, requesterID uuid.UUID) ([]*bid.Bid, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	bids, err := s.bids.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if requesterID != p.OwnerID {
		var own []*bid.Bid
		for _, b := range bids {
			if b.BidderID == requesterID {
				own = append(own, b)
			}
		}
		if len(own) == 0 {
			return nil, errors.NewForbiddenError("requester has no visibility into this project's bids")
		}
		bids = own
	}

	RankBids(bids)
	return bids, nil
}

// GetProject returns a project with its deadline folded into the status.
func (s *Service) GetProject(ctx context.Context, projectID uuid.UUID) (*project.Project, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	p.Status = p.EffectiveStatus(s.clock.Now())
	return p, nil
}

// ListOpenProjects returns projects still accepting bids, newest first.
func (s *Service) ListOpenProjects(ctx context.Context) ([]*project.Project, error) {
	return s.projects.ListOpen(ctx, s.clock.Now())
}

// ListProjectsByOwner returns a buyer's projects with derived statuses.
func (s *Service) ListProjectsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*project.Project, error) {
	projects, err := s.projects.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	for _, p := range projects {
		p.Status = p.EffectiveStatus(now)
	}
	return projects, nil
}

// ListBidsByBidder returns every bid a supplier has submitted.
func (s *Service) ListBidsByBidder(ctx context.Context, bidderID uuid.UUID) ([]*bid.Bid, error) {
	return s.bids.GetByBidder(ctx, bidderID)
}

// Register creates a profile at signup time.
func (s *Service) Register(ctx context.Context, userType profile.UserType, companyName, representativeName, email string) (*profile.Profile, error) {
	prof, err := profile.NewProfile(userType, companyName, representativeName, email)
	if err != nil {
		return nil, errors.NewValidationError("INVALID_PROFILE", err.Error())
	}
	if err := s.profiles.Create(ctx, prof); err != nil {
		return nil, err
	}
	return prof, nil
}

// UpdateProfile applies owner-only changes to a profile.
func (s *Service) UpdateProfile(ctx context.Context, actorID, profileID uuid.UUID, companyName, representativeName, phone, businessNumber, address string) (*profile.Profile, error) {
	if actorID != profileID {
		return nil, errors.NewForbiddenError("profiles are mutable only by their owner")
	}

	prof, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if err := prof.Update(companyName, representativeName, phone, businessNumber, address); err != nil {
		return nil, errors.NewValidationError("INVALID_PROFILE", err.Error())
	}
	if err := s.profiles.Update(ctx, prof); err != nil {
		return nil, err
	}
	return prof, nil
}

// GetProfile returns a profile by id.
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

// SupplierDashboard aggregates a supplier's bids into summary tiles.
func (s *Service) SupplierDashboard(ctx context.Context, supplierID uuid.UUID) (DashboardStats, error) {
	bids, err := s.bids.GetByBidder(ctx, supplierID)
	if err != nil {
		return DashboardStats{}, err
	}
	return ComputeDashboardStats(bids), nil
}

// BuyerDashboard aggregates a buyer's projects and the bids received on them.
func (s *Service) BuyerDashboard(ctx context.Context, buyerID uuid.UUID) (BuyerDashboard, error) {
	projects, err := s.projects.ListByOwner(ctx, buyerID)
	if err != nil {
		return BuyerDashboard{}, err
	}

	now := s.clock.Now()
	dash := BuyerDashboard{TotalProjects: len(projects)}

	var received []*bid.Bid
	for _, p := range projects {
		if p.IsOpen(now) {
			dash.OpenProjects++
		}
		bids, err := s.bids.GetByProject(ctx, p.ID)
		if err != nil {
			return BuyerDashboard{}, err
		}
		received = append(received, bids...)
	}

	dash.Bids = ComputeDashboardStats(received)
	return dash, nil
}

// RankBids sorts bids in place by ascending amount, ties broken by earliest
// submission. Amounts compare numerically regardless of currency tag.
func RankBids(bids []*bid.Bid) {
	sort.SliceStable(bids, func(i, j int) bool {
		cmp := bids[i].Amount.Amount().Cmp(bids[j].Amount.Amount())
		if cmp != 0 {
			return cmp < 0
		}
		return bids[i].SubmittedAt.Before(bids[j].SubmittedAt)
	})
}
