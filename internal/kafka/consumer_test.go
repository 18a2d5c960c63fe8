package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type fakeReader struct {
	mu   sync.Mutex
	msgs []kafka.Message
	next int
	log  []string
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if r.next < len(r.msgs) {
		m := r.msgs[r.next]
		r.next++
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.record(fmt.Sprintf("commit %d/%d", m.Partition, m.Offset))
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) record(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, s)
}

func (r *fakeReader) entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.log...)
}

func (r *fakeReader) count(s string) int {
	n := 0
	for _, e := range r.entries() {
		if e == s {
			n++
		}
	}
	return n
}

func runConsumer(t *testing.T, c *Consumer, h Handler) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx, h) }()
	return func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("consumer did not stop")
		}
	}
}

func TestConsumerRetriesBeforeCommittingLaterOffsets(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &fakeReader{msgs: []kafka.Message{
		{Partition: 0, Offset: 5},
		{Partition: 0, Offset: 6},
	}}
	c := newConsumer(r, 2, zap.NewNop())
	c.minBackoff = time.Millisecond

	var mu sync.Mutex
	failures := 2
	stop := runConsumer(t, c, func(_ context.Context, m kafka.Message) error {
		r.record(fmt.Sprintf("handle %d/%d", m.Partition, m.Offset))
		mu.Lock()
		defer mu.Unlock()
		if m.Offset == 5 && failures > 0 {
			failures--
			return errors.New("db down")
		}
		return nil
	})

	require.Eventually(t, func() bool { return r.count("commit 0/6") == 1 }, 2*time.Second, 5*time.Millisecond)
	stop()

	assert.Equal(t, []string{
		"handle 0/5", "handle 0/5", "handle 0/5",
		"commit 0/5",
		"handle 0/6",
		"commit 0/6",
	}, r.entries())
}

func TestConsumerStuckPartitionDoesNotBlockOthers(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &fakeReader{msgs: []kafka.Message{
		{Partition: 0, Offset: 1},
		{Partition: 1, Offset: 1},
	}}
	c := newConsumer(r, 2, zap.NewNop())
	c.minBackoff = time.Hour // shutdown must not wait for it

	stop := runConsumer(t, c, func(_ context.Context, m kafka.Message) error {
		r.record(fmt.Sprintf("handle %d/%d", m.Partition, m.Offset))
		if m.Partition == 0 {
			return errors.New("poison")
		}
		return nil
	})

	require.Eventually(t, func() bool {
		return r.count("commit 1/1") == 1 && r.count("handle 0/1") == 1
	}, 2*time.Second, 5*time.Millisecond)
	stop()

	assert.Zero(t, r.count("commit 0/1"))
}
