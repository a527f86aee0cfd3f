package outbox

import (
	"context"
	"time"
)

// Event is a pending domain notification recorded in the same transaction
// as the state change that produced it.
type Event struct {
	ID        int64
	Topic     string
	Key       string
	Payload   []byte
	CreatedAt time.Time
}

type Repository interface {
	Unpublished(ctx context.Context, limit int) ([]Event, error)
	MarkPublished(ctx context.Context, id int64) error
}
