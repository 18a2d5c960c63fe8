package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ariefcatur/korzinka-bot/internal/events"
	kafkax "github.com/ariefcatur/korzinka-bot/internal/kafka"
)

type fakeOrders struct {
	mu   sync.Mutex
	byRc map[string]Order
	err  error
}

func (f *fakeOrders) RecordOrder(_ context.Context, o Order) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", false, f.err
	}
	if f.byRc == nil {
		f.byRc = map[string]Order{}
	}
	if _, ok := f.byRc[o.ReceiptID]; ok {
		return "id-" + o.ReceiptID, true, nil
	}
	f.byRc[o.ReceiptID] = o
	return "id-" + o.ReceiptID, false, nil
}

type fakeDedup struct {
	seen   map[string]bool
	down   bool
	forgot []string
}

func (d *fakeDedup) FirstSeen(_ context.Context, scope, id string) (bool, error) {
	if d.down {
		return false, errors.New("redis: connection refused")
	}
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	k := scope + ":" + id
	if d.seen[k] {
		return false, nil
	}
	d.seen[k] = true
	return true, nil
}

func (d *fakeDedup) Forget(_ context.Context, scope, id string) error {
	delete(d.seen, scope+":"+id)
	d.forgot = append(d.forgot, id)
	return nil
}

func message(t *testing.T, eventID string, p events.CartCheckedOutPayload) kafkago.Message {
	t.Helper()
	env := events.Envelope{
		EventID:      eventID,
		EventType:    events.EventCartCheckedOut,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Payload:      kafkax.MustMarshal(p),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func checkout() events.CartCheckedOutPayload {
	return events.CartCheckedOutPayload{
		ReceiptID: "r-1",
		UserID:    7,
		Customer:  "Ali",
		Lines: []events.CheckoutLine{
			{ProductID: 1, Name: "Bread", Price: "12.50", Quantity: 3},
			{ProductID: 2, Name: "Milk", Price: "0.99", Quantity: 2},
		},
		Total:     "39.48",
		OrderedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestHandleCheckoutRecordsOnce(t *testing.T) {
	orders := &fakeOrders{}
	dedup := &fakeDedup{}
	s := &Service{Orders: orders, Dedup: dedup, Log: zap.NewNop()}
	ctx := context.Background()

	require.NoError(t, s.HandleCheckout(ctx, message(t, "e-1", checkout())))
	require.NoError(t, s.HandleCheckout(ctx, message(t, "e-1", checkout())))
	// a republished event with a new id is stopped by the receipt id
	require.NoError(t, s.HandleCheckout(ctx, message(t, "e-2", checkout())))

	require.Len(t, orders.byRc, 1)
	o := orders.byRc["r-1"]
	assert.Equal(t, int64(7), o.UserID)
	assert.Equal(t, "39.48", o.Total.StringFixed(2))
	require.Len(t, o.Lines, 2)
	assert.Equal(t, "12.50", o.Lines[0].Price.StringFixed(2))
}

func TestHandleCheckoutIgnoresOtherEvents(t *testing.T) {
	orders := &fakeOrders{}
	s := &Service{Orders: orders, Log: zap.NewNop()}
	env := events.Envelope{EventID: "e-1", EventType: "SomethingElse"}
	require.NoError(t, s.HandleCheckout(context.Background(), kafkago.Message{Value: kafkax.MustMarshal(env)}))
	assert.Empty(t, orders.byRc)
}

func TestHandleCheckoutRejectsBadPayload(t *testing.T) {
	for name, mutate := range map[string]func(*events.CartCheckedOutPayload){
		"total mismatch": func(p *events.CartCheckedOutPayload) { p.Total = "40.00" },
		"bad price":      func(p *events.CartCheckedOutPayload) { p.Lines[0].Price = "twelve" },
		"no lines":       func(p *events.CartCheckedOutPayload) { p.Lines = nil },
		"no receipt":     func(p *events.CartCheckedOutPayload) { p.ReceiptID = "" },
	} {
		t.Run(name, func(t *testing.T) {
			dedup := &fakeDedup{}
			s := &Service{Orders: &fakeOrders{}, Dedup: dedup, Log: zap.NewNop()}
			p := checkout()
			mutate(&p)
			assert.Error(t, s.HandleCheckout(context.Background(), message(t, "e-1", p)))
			assert.Equal(t, []string{"e-1"}, dedup.forgot)
		})
	}

	s := &Service{Orders: &fakeOrders{}, Log: zap.NewNop()}
	assert.Error(t, s.HandleCheckout(context.Background(), kafkago.Message{Value: []byte("{")}))
}

func TestHandleCheckoutStoreFailureAllowsRetry(t *testing.T) {
	orders := &fakeOrders{err: errors.New("db down")}
	dedup := &fakeDedup{}
	s := &Service{Orders: orders, Dedup: dedup, Log: zap.NewNop()}
	ctx := context.Background()

	assert.Error(t, s.HandleCheckout(ctx, message(t, "e-1", checkout())))
	orders.err = nil
	require.NoError(t, s.HandleCheckout(ctx, message(t, "e-1", checkout())))
	assert.Len(t, orders.byRc, 1)
}

func TestHandleCheckoutWithoutRedis(t *testing.T) {
	orders := &fakeOrders{}
	s := &Service{Orders: orders, Dedup: &fakeDedup{down: true}, Log: zap.NewNop()}
	require.NoError(t, s.HandleCheckout(context.Background(), message(t, "e-1", checkout())))
	assert.Len(t, orders.byRc, 1)
}
