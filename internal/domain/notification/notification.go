package notification

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies the message template a notification was rendered from.
type Kind string

const (
	KindNewProject  Kind = "new_project"
	KindNewBid      Kind = "new_bid"
	KindBidAccepted Kind = "bid_accepted"
	KindBidRejected Kind = "bid_rejected"
)

// Notification is the in-app record stored per recipient alongside the
// best-effort email dispatch.
type Notification struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	Kind             Kind       `json:"type"`
	Title            string     `json:"title"`
	Message          string     `json:"message"`
	Read             bool       `json:"read"`
	RelatedProjectID *uuid.UUID `json:"related_project_id,omitempty"`
	RelatedBidID     *uuid.UUID `json:"related_bid_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// New creates an unread notification for a recipient.
func New(userID uuid.UUID, kind Kind, title, message string) *Notification {
	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

func (n *Notification) WithProject(projectID uuid.UUID) *Notification {
	n.RelatedProjectID = &projectID
	return n
}

func (n *Notification) WithBid(bidID uuid.UUID) *Notification {
	n.RelatedBidID = &bidID
	return n
}
