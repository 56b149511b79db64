package bid

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/values"
)

// Bid is a supplier's offer against an open project. A bidder holds at most
// one bid per project.
type Bid struct {
	ID           uuid.UUID    `json:"id"`
	ProjectID    uuid.UUID    `json:"project_id"`
	BidderID     uuid.UUID    `json:"bidder_id"`
	Amount       values.Money `json:"amount"`
	DeliveryDays int          `json:"delivery_days"`
	Proposal     string       `json:"proposal"`
	Status       Status       `json:"status"`

	SubmittedAt time.Time  `json:"submitted_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Status int

const (
	StatusSubmitted Status = iota
	StatusReviewed
	StatusAccepted
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusSubmitted:
		return "submitted"
	case StatusReviewed:
		return "reviewed"
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// ParseStatus converts a stored string to a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "submitted":
		return StatusSubmitted, nil
	case "reviewed":
		return StatusReviewed, nil
	case "accepted":
		return StatusAccepted, nil
	case "rejected":
		return StatusRejected, nil
	default:
		return 0, fmt.Errorf("invalid bid status: %q", s)
	}
}

// New creates a submitted bid timestamped at the given time.
func New(projectID, bidderID uuid.UUID, amount values.Money, deliveryDays int, proposal string, now time.Time) (*Bid, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("project id is required")
	}
	if bidderID == uuid.Nil {
		return nil, fmt.Errorf("bidder id is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if deliveryDays <= 0 {
		return nil, fmt.Errorf("delivery days must be positive")
	}
	if strings.TrimSpace(proposal) == "" {
		return nil, fmt.Errorf("proposal is required")
	}

	return &Bid{
		ID:           uuid.New(),
		ProjectID:    projectID,
		BidderID:     bidderID,
		Amount:       amount,
		DeliveryDays: deliveryDays,
		Proposal:     proposal,
		Status:       StatusSubmitted,
		SubmittedAt:  now,
		UpdatedAt:    now,
	}, nil
}

// Accept marks the bid as the project's winner. Accepted is terminal.
func (b *Bid) Accept(now time.Time) {
	b.Status = StatusAccepted
	b.AcceptedAt = &now
	b.UpdatedAt = now
}

// Reject marks a losing bid. Rejected is terminal.
func (b *Bid) Reject(now time.Time) {
	b.Status = StatusRejected
	b.UpdatedAt = now
}

// MarkReviewed records that the buyer has looked at the bid. Pass-through
// state: no behavior depends on it beyond display.
func (b *Bid) MarkReviewed(now time.Time) {
	b.Status = StatusReviewed
	b.UpdatedAt = now
}

// IsDecided reports whether the bid reached a terminal state.
func (b *Bid) IsDecided() bool {
	return b.Status == StatusAccepted || b.Status == StatusRejected
}

// IsAcceptable reports whether the bid may still win the project.
func (b *Bid) IsAcceptable() bool {
	return b.Status == StatusSubmitted || b.Status == StatusReviewed
}
