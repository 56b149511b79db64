// Package memory provides an in-memory reference implementation of the
// persistence gateway. It backs the engine's unit tests and local
// development; the postgres adapter is the production path.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/bid"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/errors"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/notification"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/profile"
	"github.com/procurebid/procurement-exchange-backend/internal/domain/project"
	"github.com/procurebid/procurement-exchange-backend/internal/infrastructure/auth"
	"github.com/procurebid/procurement-exchange-backend/internal/service/lifecycle"
)

// Store keeps all records behind one RWMutex. Reads hand out copies, so a
// reader never observes a mutation - in particular the three-part award -
// partially applied.
type Store struct {
	mu            sync.RWMutex
	profiles      map[uuid.UUID]*profile.Profile
	projects      map[uuid.UUID]*project.Project
	bids          map[uuid.UUID]*bid.Bid
	notifications map[uuid.UUID]*notification.Notification
	credentials   map[string]*auth.Credentials
}

func NewStore() *Store {
	return &Store{
		profiles:      make(map[uuid.UUID]*profile.Profile),
		projects:      make(map[uuid.UUID]*project.Project),
		bids:          make(map[uuid.UUID]*bid.Bid),
		notifications: make(map[uuid.UUID]*notification.Notification),
		credentials:   make(map[string]*auth.Credentials),
	}
}

// --- ProfileRepository ---

func (s *Store) Create(ctx context.Context, p *profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[p.ID]; ok {
		return errors.NewConflictError("PROFILE_EXISTS", "profile already exists")
	}
	s.profiles[p.ID] = cloneProfile(p)
	return nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, errors.ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

func (s *Store) Update(ctx context.Context, p *profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[p.ID]; !ok {
		return errors.ErrProfileNotFound
	}
	s.profiles[p.ID] = cloneProfile(p)
	return nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*profile.Profile
	for _, p := range s.profiles {
		if p.IsSupplier() {
			out = append(out, cloneProfile(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- ProjectRepository ---

// Projects returns a view implementing lifecycle.ProjectRepository.
func (s *Store) Projects() lifecycle.ProjectRepository { return (*projectView)(s) }

// Bids returns a view implementing lifecycle.BidRepository.
func (s *Store) Bids() lifecycle.BidRepository { return (*bidView)(s) }

type projectView Store

func (v *projectView) Create(ctx context.Context, p *project.Project) error {
	s := (*Store)(v)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[p.ID]; ok {
		return errors.NewConflictError("PROJECT_EXISTS", "project already exists")
	}
	s.projects[p.ID] = cloneProject(p)
	return nil
}

func (v *projectView) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	s := (*Store)(v)
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, errors.ErrProjectNotFound
	}
	return cloneProject(p), nil
}

func (v *projectView) ListOpen(ctx context.Context, now time.Time) ([]*project.Project, error) {
	s := (*Store)(v)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*project.Project
	for _, p := range s.projects {
		if p.IsOpen(now) {
			out = append(out, cloneProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (v *projectView) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*project.Project, error) {
	s := (*Store)(v)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*project.Project
	for _, p := range s.projects {
		if p.OwnerID == ownerID {
			out = append(out, cloneProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- BidRepository ---

type bidView Store

func (v *bidView) Create(ctx context.Context, b *bid.Bid) error {
	s := (*Store)(v)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bids {
		if existing.ProjectID == b.ProjectID && existing.BidderID == b.BidderID {
			return errors.NewDuplicateBidError()
		}
	}
	s.bids[b.ID] = cloneBid(b)
	return nil
}

func (v *bidView) GetByID(ctx context.Context, id uuid.UUID) (*bid.Bid, error) {
	s := (*Store)(v)
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bids[id]
	if !ok {
		return nil, errors.ErrBidNotFound
	}
	return cloneBid(b), nil
}

func (v *bidView) GetByProject(ctx context.Context, projectID uuid.UUID) ([]*bid.Bid, error) {
	s := (*Store)(v)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*bid.Bid
	for _, b := range s.bids {
		if b.ProjectID == projectID {
			out = append(out, cloneBid(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (v *bidView) GetByProjectAndBidder(ctx context.Context, projectID, bidderID uuid.UUID) (*bid.Bid, error) {
	s := (*Store)(v)
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bids {
		if b.ProjectID == projectID && b.BidderID == bidderID {
			return cloneBid(b), nil
		}
	}
	return nil, errors.ErrBidNotFound
}

func (v *bidView) GetByBidder(ctx context.Context, bidderID uuid.UUID) ([]*bid.Bid, error) {
	s := (*Store)(v)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*bid.Bid
	for _, b := range s.bids {
		if b.BidderID == bidderID {
			out = append(out, cloneBid(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (v *bidView) Update(ctx context.Context, b *bid.Bid) error {
	s := (*Store)(v)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bids[b.ID]; !ok {
		return errors.ErrBidNotFound
	}
	s.bids[b.ID] = cloneBid(b)
	return nil
}

// --- AwardStore ---

// Award applies the compound award mutation under the write lock:
// conditioned on the project still being open, the target bid wins, every
// competing bid loses, the project ends awarded. Either everything below
// commits or nothing does.
func (s *Store) Award(ctx context.Context, projectID, winningBidID uuid.UUID, now time.Time) (*lifecycle.AwardResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return nil, errors.ErrProjectNotFound
	}
	if p.Status != project.StatusOpen {
		return nil, errors.NewInvalidStateError("PROJECT_NOT_OPEN", "project is not in an awardable state")
	}

	winner, ok := s.bids[winningBidID]
	if !ok || winner.ProjectID != projectID {
		return nil, errors.ErrBidNotFound
	}
	if !winner.IsAcceptable() {
		return nil, errors.NewInvalidStateError("BID_NOT_ACCEPTABLE", "bid is not in an acceptable state")
	}

	winner.Accept(now)
	p.Award(now)

	result := &lifecycle.AwardResult{
		Project: cloneProject(p),
		Winner:  cloneBid(winner),
	}
	for _, b := range s.bids {
		if b.ProjectID == projectID && b.ID != winningBidID {
			b.Reject(now)
			result.Rejected = append(result.Rejected, cloneBid(b))
		}
	}
	sort.Slice(result.Rejected, func(i, j int) bool {
		return result.Rejected[i].SubmittedAt.Before(result.Rejected[j].SubmittedAt)
	})

	return result, nil
}

// --- NotificationRepository ---

func (s *Store) SaveNotification(ctx context.Context, n *notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *n
	s.notifications[n.ID] = &cp
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, userID uuid.UUID) ([]*notification.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*notification.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- CredentialStore ---

func (s *Store) SaveCredentials(ctx context.Context, c *auth.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.credentials[c.Email]; ok {
		return errors.NewConflictError("EMAIL_TAKEN", "email is already registered")
	}
	cp := *c
	s.credentials[c.Email] = &cp
	return nil
}

func (s *Store) GetCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.credentials[email]
	if !ok {
		return nil, errors.NewNotFoundError("credentials")
	}
	cp := *c
	return &cp, nil
}

// --- clone helpers ---

func cloneProfile(p *profile.Profile) *profile.Profile {
	cp := *p
	return &cp
}

func cloneProject(p *project.Project) *project.Project {
	cp := *p
	if p.BudgetMin != nil {
		v := *p.BudgetMin
		cp.BudgetMin = &v
	}
	if p.BudgetMax != nil {
		v := *p.BudgetMax
		cp.BudgetMax = &v
	}
	if p.ScheduleStart != nil {
		v := *p.ScheduleStart
		cp.ScheduleStart = &v
	}
	if p.ScheduleEnd != nil {
		v := *p.ScheduleEnd
		cp.ScheduleEnd = &v
	}
	return &cp
}

func cloneBid(b *bid.Bid) *bid.Bid {
	cp := *b
	if b.AcceptedAt != nil {
		v := *b.AcceptedAt
		cp.AcceptedAt = &v
	}
	return &cp
}
