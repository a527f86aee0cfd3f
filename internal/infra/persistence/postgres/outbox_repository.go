package postgres

import (
	"context"
	"database/sql"

	"example.com/ecom-backend/internal/outbox"
)

type OutboxRepository struct {
	db *sql.DB
}

func NewOutboxRepository(db *sql.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Unpublished(ctx context.Context, limit int) ([]outbox.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, topic, event_key, payload, created_at
        FROM outbox
        WHERE published_at IS NULL
        ORDER BY id
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []outbox.Event
	for rows.Next() {
		var e outbox.Event
		if err := rows.Scan(&e.ID, &e.Topic, &e.Key, &e.Payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE outbox SET published_at = now() WHERE id = $1
    `, id)
	return err
}
