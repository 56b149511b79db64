// Package notification composes templated messages for lifecycle events and
// delivers them best-effort: failures are logged and counted, never
// surfaced to the state mutation that triggered them.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/bid"
	domainnotif "github.com/procurebid/procurement-exchange-backend/internal/domain/notification"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/profile"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/project"
)

// Mailer delivers a single message. Implementations live in
// infrastructure/email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// ProfileDirectory resolves recipients.
type ProfileDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
	ListSuppliers(ctx context.Context) ([]*profile.Profile, error)
}

// Repository persists the in-app notification row per recipient.
type Repository interface {
	SaveNotification(ctx context.Context, n *domainnotif.Notification) error
}

// MetricsCollector counts delivery failures.
type MetricsCollector interface {
	RecordNotificationFailure()
}

// Service implements lifecycle.Notifier.
type Service struct {
	mailer   Mailer
	profiles ProfileDirectory
	repo     Repository
	metrics  MetricsCollector
	logger   *slog.Logger

	baseURL     string
	sendTimeout time.Duration
}

// NewService creates the notification dispatcher. Repository and metrics may
// be nil.
func NewService(mailer Mailer, profiles ProfileDirectory, repo Repository, metrics MetricsCollector, logger *slog.Logger, baseURL string) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		mailer:      mailer,
		profiles:    profiles,
		repo:        repo,
		metrics:     metrics,
		logger:      logger,
		baseURL:     baseURL,
		sendTimeout: 10 * time.Second,
	}
}

// NotifyProjectCreated fans a new-project announcement out to every
// registered supplier.
func (s *Service) NotifyProjectCreated(ctx context.Context, p *project.Project) {
	go func() {
		ctx, cancel := s.dispatchContext(ctx)
		defer cancel()

		suppliers, err := s.profiles.ListSuppliers(ctx)
		if err != nil {
			s.recordFailure(ctx, "new_project", err)
			return
		}

		tmpl := renderNewProject(p.Title, s.supplierProjectURL(p.ID))
		for _, supplier := range suppliers {
			s.deliver(ctx, supplier.ID, supplier.Email, domainnotif.KindNewProject, tmpl, &p.ID, nil)
		}
	}()
}

// NotifyBidSubmitted tells the project owner a bid arrived.
func (s *Service) NotifyBidSubmitted(ctx context.Context, p *project.Project, b *bid.Bid) {
	go func() {
		ctx, cancel := s.dispatchContext(ctx)
		defer cancel()

		owner, err := s.profiles.GetByID(ctx, p.OwnerID)
		if err != nil {
			s.recordFailure(ctx, "new_bid", err)
			return
		}

		bidderCompany := "Unknown"
		if bidder, err := s.profiles.GetByID(ctx, b.BidderID); err == nil {
			bidderCompany = bidder.CompanyName
		}

		tmpl := renderNewBid(p.Title, bidderCompany, s.buyerProjectURL(p.ID))
		s.deliver(ctx, owner.ID, owner.Email, domainnotif.KindNewBid, tmpl, &p.ID, &b.ID)
	}()
}

// NotifyAwardResolved congratulates the winner and informs every losing
// bidder.
func (s *Service) NotifyAwardResolved(ctx context.Context, p *project.Project, winner *bid.Bid, rejected []*bid.Bid) {
	go func() {
		ctx, cancel := s.dispatchContext(ctx)
		defer cancel()

		if prof, err := s.profiles.GetByID(ctx, winner.BidderID); err == nil {
			tmpl := renderBidAccepted(p.Title, s.supplierProjectURL(p.ID))
			s.deliver(ctx, prof.ID, prof.Email, domainnotif.KindBidAccepted, tmpl, &p.ID, &winner.ID)
		} else {
			s.recordFailure(ctx, "bid_accepted", err)
		}

		tmpl := renderBidRejected(p.Title)
		for _, loser := range rejected {
			prof, err := s.profiles.GetByID(ctx, loser.BidderID)
			if err != nil {
				s.recordFailure(ctx, "bid_rejected", err)
				continue
			}
			s.deliver(ctx, prof.ID, prof.Email, domainnotif.KindBidRejected, tmpl, &p.ID, &loser.ID)
		}
	}()
}

func (s *Service) deliver(ctx context.Context, userID uuid.UUID, email string, kind domainnotif.Kind, tmpl Template, projectID, bidID *uuid.UUID) {
	if s.repo != nil {
		n := domainnotif.New(userID, kind, tmpl.Subject, tmpl.Body)
		if projectID != nil {
			n.WithProject(*projectID)
		}
		if bidID != nil {
			n.WithBid(*bidID)
		}
		if err := s.repo.SaveNotification(ctx, n); err != nil {
			s.recordFailure(ctx, string(kind), err)
		}
	}

	if s.mailer == nil {
		return
	}
	if err := s.mailer.Send(ctx, email, tmpl.Subject, tmpl.Body); err != nil {
		s.recordFailure(ctx, string(kind), err)
	}
}

// dispatchContext detaches delivery from the request's cancellation while
// still bounding it.
func (s *Service) dispatchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.sendTimeout)
}

func (s *Service) recordFailure(ctx context.Context, kind string, err error) {
	s.logger.WarnContext(ctx, "notification delivery failed", "kind", kind, "error", err)
	if s.metrics != nil {
		s.metrics.RecordNotificationFailure()
	}
}

func (s *Service) supplierProjectURL(projectID uuid.UUID) string {
	return fmt.Sprintf("%s/dashboard/supplier/projects/%s", s.baseURL, projectID)
}

func (s *Service) buyerProjectURL(projectID uuid.UUID) string {
	return fmt.Sprintf("%s/dashboard/buyer/projects/%s", s.baseURL, projectID)
}
