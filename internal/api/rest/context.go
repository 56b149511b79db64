package rest

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/procurebid/procurement-exchange-backend/internal/domain/errors"
)

type contextKey string

const (
	contextKeyActor     contextKey = "actor"
	contextKeyRequestID contextKey = "request_id"
)

// actor is the authenticated caller attached to the request context by the
// auth middleware.
type actor struct {
	ID       uuid.UUID
	UserType string
}

func withActor(ctx context.Context, a actor) context.Context {
	return context.WithValue(ctx, contextKeyActor, a)
}

func actorFromContext(ctx context.Context) (actor, error) {
	a, ok := ctx.Value(contextKeyActor).(actor)
	if !ok {
		return actor{}, apperrors.NewUnauthorizedError("authentication required")
	}
	return a, nil
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, id)
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}
