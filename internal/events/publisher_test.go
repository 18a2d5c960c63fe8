package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkax "github.com/ariefcatur/korzinka-bot/internal/kafka"
)

type captured struct {
	key, value []byte
	headers    []kafkago.Header
}

type fakeSink struct {
	got []captured
	err error
}

func (f *fakeSink) Publish(key, value []byte, headers ...kafkago.Header) error {
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, captured{key, value, headers})
	return nil
}

func TestPublishCheckoutEnvelope(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sink := &fakeSink{}
	p := &Publisher{Sink: sink, Service: "korzinka-bot", Now: func() time.Time { return at }}

	in := CartCheckedOutPayload{
		ReceiptID: "r-1",
		UserID:    42,
		Customer:  "Ali",
		Lines:     []CheckoutLine{{ProductID: 1, Name: "Bread", Price: "12.50", Quantity: 3}},
		Total:     "37.50",
		OrderedAt: at,
	}
	require.NoError(t, p.PublishCheckout(context.Background(), in))
	require.Len(t, sink.got, 1)

	msg := sink.got[0]
	assert.Equal(t, []byte("42"), msg.key)
	assert.Equal(t, "x-event-type", msg.headers[0].Key)
	assert.Equal(t, EventCartCheckedOut, string(msg.headers[0].Value))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.value, &env))
	assert.Equal(t, EventCartCheckedOut, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "r-1", env.CorrelationID)
	assert.Equal(t, "korzinka-bot", env.Producer)
	assert.Equal(t, at, env.OccurredAt)
	assert.NotEmpty(t, env.EventID)

	out, err := kafkax.UnwrapPayload[CartCheckedOutPayload](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestPublishCheckoutSinkError(t *testing.T) {
	p := &Publisher{Sink: &fakeSink{err: kafkax.ErrBufferFull}}
	err := p.PublishCheckout(context.Background(), CartCheckedOutPayload{ReceiptID: "r-9"})
	assert.True(t, errors.Is(err, kafkax.ErrBufferFull))
	assert.ErrorContains(t, err, "r-9")
}
