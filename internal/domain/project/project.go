package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/values"
)

// Project is a procurement request posted by a buyer. Suppliers bid against
// it until the deadline passes or the buyer awards one bid.
type Project struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Region       string    `json:"region,omitempty"`
	Requirements string    `json:"requirements"`

	BudgetMin *values.Money `json:"budget_min,omitempty"`
	BudgetMax *values.Money `json:"budget_max,omitempty"`

	ScheduleStart *time.Time `json:"schedule_start,omitempty"`
	ScheduleEnd   *time.Time `json:"schedule_end,omitempty"`

	Deadline time.Time `json:"deadline"`
	Status   Status    `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Status int

const (
	StatusOpen Status = iota
	StatusClosed
	StatusAwarded
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	case StatusAwarded:
		return "awarded"
	default:
		return "unknown"
	}
}

// ParseStatus converts a stored string to a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "open":
		return StatusOpen, nil
	case "closed":
		return StatusClosed, nil
	case "awarded":
		return StatusAwarded, nil
	default:
		return 0, fmt.Errorf("invalid project status: %q", s)
	}
}

// New creates an open project. The caller supplies the current time so the
// deadline check does not depend on ambient wall-clock state.
func New(ownerID uuid.UUID, title, category, requirements string, deadline time.Time, now time.Time) (*Project, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("owner id is required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("category is required")
	}
	if strings.TrimSpace(requirements) == "" {
		return nil, fmt.Errorf("requirements are required")
	}
	if !deadline.After(now) {
		return nil, fmt.Errorf("deadline must be in the future")
	}

	return &Project{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        strings.TrimSpace(title),
		Category:     strings.TrimSpace(category),
		Requirements: requirements,
		Deadline:     deadline,
		Status:       StatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SetBudgetRange attaches an optional budget window.
func (p *Project) SetBudgetRange(min, max values.Money) error {
	if min.IsNegative() || max.IsNegative() {
		return fmt.Errorf("budget must not be negative")
	}
	if min.Currency() != max.Currency() {
		return fmt.Errorf("budget range currencies must match")
	}
	if min.Compare(max) > 0 {
		return fmt.Errorf("budget min must not exceed budget max")
	}
	p.BudgetMin = &min
	p.BudgetMax = &max
	return nil
}

// SetSchedule attaches an optional delivery window.
func (p *Project) SetSchedule(start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("schedule end must not precede start")
	}
	p.ScheduleStart = &start
	p.ScheduleEnd = &end
	return nil
}

// IsOpen reports whether the project still accepts bids at the given time.
// Closed-by-deadline is a derived predicate, not a stored transition.
func (p *Project) IsOpen(now time.Time) bool {
	return p.Status == StatusOpen && now.Before(p.Deadline)
}

// EffectiveStatus resolves the read-time status, folding an elapsed deadline
// into StatusClosed.
func (p *Project) EffectiveStatus(now time.Time) Status {
	if p.Status == StatusOpen && !now.Before(p.Deadline) {
		return StatusClosed
	}
	return p.Status
}

// Award marks the project as awarded. Awarded is terminal.
func (p *Project) Award(now time.Time) {
	p.Status = StatusAwarded
	p.UpdatedAt = now
}
