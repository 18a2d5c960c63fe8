package telegram

import (
	"context"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/korzinka-bot/internal/bot"
)

type Handler interface {
	Handle(ctx context.Context, ev bot.Event) bot.Response
}

// Deduper is satisfied by redisx.Dedup.
type Deduper interface {
	FirstSeen(ctx context.Context, scope, id string) (bool, error)
}

const defaultQueueSize = 256

// Dispatcher fans updates out to a fixed pool of workers. All updates of one
// user land on the same worker, so a user's messages are handled in the
// order Telegram delivered them while other users proceed in parallel.
//
// A full worker queue pauses the read loop; updates are never dropped. The
// pause is logged.
type Dispatcher struct {
	API       API
	Handler   Handler
	Dedup     Deduper // optional, drops redelivered update ids
	Workers   int
	QueueSize int // per worker, defaults to 256
	Log       *zap.Logger
}

// Run consumes updates until ctx is cancelled or the channel closes, then
// lets the workers finish what they already picked up.
func (d *Dispatcher) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	n := d.Workers
	if n <= 0 {
		n = 1
	}
	size := d.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	queues := make([]chan bot.Event, n)
	for i := range queues {
		queues[i] = make(chan bot.Event, size)
	}

	var g errgroup.Group
	for i, q := range queues {
		q := q // per-iteration copy; go.mod targets 1.21 (pre-1.22 loop semantics)
		log := d.Log.With(zap.Int("worker", i))
		g.Go(func() error {
			for ev := range q {
				// a cancelled ctx must not abort half-done turns
				resp := d.Handler.Handle(context.WithoutCancel(ctx), ev)
				deliver(d.API, log, ev, resp)
			}
			return nil
		})
	}

	defer func() {
		for _, q := range queues {
			close(q)
		}
		_ = g.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			ev, ok := ToEvent(u)
			if !ok || !d.firstSeen(ctx, u.UpdateID) {
				continue
			}
			if !d.enqueue(ctx, queues[partition(ev.UserID, n)], ev) {
				return nil
			}
		}
	}
}

// enqueue hands ev to its worker, waiting when the queue is full. It reports
// false when ctx ended first.
func (d *Dispatcher) enqueue(ctx context.Context, q chan<- bot.Event, ev bot.Event) bool {
	select {
	case q <- ev:
		return true
	default:
	}

	start := time.Now()
	d.Log.Warn("worker queue full, polling paused",
		zap.String("op", "dispatch"),
		zap.Int64("user_id", ev.UserID),
		zap.Int("queue_size", cap(q)))
	select {
	case q <- ev:
		d.Log.Info("polling resumed", zap.String("op", "dispatch"), zap.Duration("stalled", time.Since(start)))
		return true
	case <-ctx.Done():
		return false
	}
}

func (d *Dispatcher) firstSeen(ctx context.Context, updateID int) bool {
	if d.Dedup == nil {
		return true
	}
	ok, err := d.Dedup.FirstSeen(ctx, "update", strconv.Itoa(updateID))
	if err != nil {
		d.Log.Warn("update dedup", zap.String("op", "dedup"), zap.Int("update_id", updateID), zap.Error(err))
		return true
	}
	return ok
}

func partition(userID int64, n int) int {
	return int(uint64(userID) % uint64(n))
}
