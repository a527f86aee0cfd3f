package outbox

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher drains the outbox on a fixed tick. An event is marked
// published only after the broker accepted it, so delivery is
// at-least-once and consumers are expected to deduplicate by key.
type Publisher struct {
	repo      Repository
	writer    kafkaWriter
	tick      time.Duration
	batchSize int
}

func NewPublisher(repo Repository, brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{
		repo:      repo,
		writer:    w,
		tick:      time.Second,
		batchSize: 100,
	}
}

func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.publishPending(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Publisher) publishPending(ctx context.Context) {
	events, err := p.repo.Unpublished(ctx, p.batchSize)
	if err != nil {
		log.Printf("outbox: failed to fetch events: %v", err)
		return
	}

	for _, event := range events {
		msg := kafka.Message{
			Topic: event.Topic,
			Key:   []byte(event.Key),
			Value: event.Payload,
		}
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("outbox: failed to publish event id=%d: %v", event.ID, err)
			continue
		}
		if err := p.repo.MarkPublished(ctx, event.ID); err != nil {
			log.Printf("outbox: failed to mark event id=%d published: %v", event.ID, err)
		}
	}
}
