package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/procurebid/procurement-exchange-backend/internal/domain/notification"
)

// notificationRepository persists in-app notifications in PostgreSQL
type notificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pgxpool.Pool) *notificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) SaveNotification(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (
			id, user_id, kind, title, message, read,
			related_project_id, related_bid_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		n.ID, n.UserID, string(n.Kind), n.Title, n.Message, n.Read,
		n.RelatedProjectID, n.RelatedBidID, n.CreatedAt,
	)
	if err != nil {
		return translateError(err, "notification")
	}

	return nil
}

func (r *notificationRepository) ListNotifications(ctx context.Context, userID uuid.UUID) ([]*notification.Notification, error) {
	query := `
		SELECT id, user_id, kind, title, message, read,
			related_project_id, related_bid_id, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, translateError(err, "notification")
	}
	defer rows.Close()

	var out []*notification.Notification
	for rows.Next() {
		var n notification.Notification
		var kind string
		err := rows.Scan(
			&n.ID, &n.UserID, &kind, &n.Title, &n.Message, &n.Read,
			&n.RelatedProjectID, &n.RelatedBidID, &n.CreatedAt,
		)
		if err != nil {
			return nil, translateError(err, "notification")
		}
		n.Kind = notification.Kind(kind)
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "notification")
	}

	return out, nil
}
