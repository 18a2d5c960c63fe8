package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/korzinka-bot/internal/kafka"
)

// Sink is the producer side the publisher writes to.
type Sink interface {
	Publish(key, value []byte, headers ...kafkago.Header) error
}

// Publisher wraps checkout payloads in a versioned envelope.
type Publisher struct {
	Sink    Sink
	Service string
	Now     func() time.Time
}

func (p *Publisher) PublishCheckout(_ context.Context, c CartCheckedOutPayload) error {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventCartCheckedOut,
		EventVersion:  1,
		OccurredAt:    now().UTC(),
		Producer:      p.Service,
		CorrelationID: c.ReceiptID,
		Payload:       kafkax.MustMarshal(c),
	}
	err := p.Sink.Publish(PartitionKey(c.UserID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventCartCheckedOut)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	if err != nil {
		return fmt.Errorf("publish checkout %s: %w", c.ReceiptID, err)
	}
	return nil
}

// Discard drops events; used when no brokers are configured.
type Discard struct{}

func (Discard) PublishCheckout(context.Context, CartCheckedOutPayload) error { return nil }
