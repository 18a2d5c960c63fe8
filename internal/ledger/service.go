package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ariefcatur/korzinka-bot/internal/events"
	kafkax "github.com/ariefcatur/korzinka-bot/internal/kafka"
)

type OrderRecorder interface {
	RecordOrder(ctx context.Context, o Order) (orderID string, existed bool, err error)
}

// Deduper is satisfied by redisx.Dedup.
type Deduper interface {
	FirstSeen(ctx context.Context, scope, id string) (bool, error)
	Forget(ctx context.Context, scope, id string) error
}

const dedupScope = "ledger"

// Service turns cart.checked_out events into order history rows.
type Service struct {
	Orders OrderRecorder
	Dedup  Deduper // optional; the receipt_id constraint is the real guard
	Log    *zap.Logger
}

// HandleCheckout is installed as the consumer handler.
func (s *Service) HandleCheckout(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if env.EventType != events.EventCartCheckedOut {
		return nil
	}

	if s.Dedup != nil {
		first, err := s.Dedup.FirstSeen(ctx, dedupScope, env.EventID)
		if err != nil {
			// redis down: fall through to the database constraint
			s.Log.Warn("dedup unavailable", zap.String("op", "ledger_dedup"), zap.Error(err))
		} else if !first {
			return nil
		}
	}

	if err := s.record(ctx, env.Payload); err != nil {
		if s.Dedup != nil {
			if ferr := s.Dedup.Forget(ctx, dedupScope, env.EventID); ferr != nil {
				s.Log.Warn("dedup forget", zap.String("event_id", env.EventID), zap.Error(ferr))
			}
		}
		return err
	}
	return nil
}

func (s *Service) record(ctx context.Context, payload json.RawMessage) error {
	o, err := decodeOrder(payload)
	if err != nil {
		return err
	}
	id, existed, err := s.Orders.RecordOrder(ctx, o)
	if err != nil {
		return err
	}
	s.Log.Info("order recorded",
		zap.String("op", "ledger_record"),
		zap.String("order_id", id),
		zap.String("receipt_id", o.ReceiptID),
		zap.Int64("user_id", o.UserID),
		zap.Bool("existed", existed))
	return nil
}

func decodeOrder(raw json.RawMessage) (Order, error) {
	p, err := kafkax.UnwrapPayload[events.CartCheckedOutPayload](raw)
	if err != nil {
		return Order{}, err
	}
	if p.ReceiptID == "" || len(p.Lines) == 0 {
		return Order{}, fmt.Errorf("checkout %q: missing receipt or lines", p.ReceiptID)
	}
	total, err := decimal.NewFromString(p.Total)
	if err != nil {
		return Order{}, fmt.Errorf("checkout %s: total: %w", p.ReceiptID, err)
	}

	o := Order{
		ReceiptID: p.ReceiptID,
		UserID:    p.UserID,
		Customer:  p.Customer,
		Total:     total,
		OrderedAt: p.OrderedAt,
		Lines:     make([]Line, 0, len(p.Lines)),
	}
	sum := decimal.Zero
	for _, l := range p.Lines {
		price, err := decimal.NewFromString(l.Price)
		if err != nil {
			return Order{}, fmt.Errorf("checkout %s: line price: %w", p.ReceiptID, err)
		}
		sum = sum.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		o.Lines = append(o.Lines, Line{ProductID: l.ProductID, Name: l.Name, Price: price, Quantity: l.Quantity})
	}
	if !sum.Equal(total) {
		return Order{}, fmt.Errorf("checkout %s: total %s does not match lines %s", p.ReceiptID, total, sum)
	}
	return o, nil
}
