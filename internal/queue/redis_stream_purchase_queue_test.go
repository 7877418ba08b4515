package queue_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ticketify/internal/queue"
	"ticketify/internal/testutil"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRdb *redis.Client

func TestMain(m *testing.M) {
	rdb, cleanup, err := testutil.SetupRedisOnly()
	if err != nil {
		log.Printf("redis unavailable, stream tests will be skipped: %v", err)
		os.Exit(m.Run())
	}
	testRdb = rdb
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func requireRedis(t *testing.T) {
	t.Helper()
	if testRdb == nil {
		t.Skip("test redis not available")
	}
}

func cleanupStream(ctx context.Context, t *testing.T) {
	t.Helper()
	_ = testRdb.Del(ctx, queue.StreamKey).Err()
}

func TestNewRedisStreamPurchaseQueue(t *testing.T) {
	requireRedis(t)
	ctx := context.Background()
	cleanupStream(ctx, t)

	t.Run("Success", func(t *testing.T) {
		q, err := queue.NewRedisStreamPurchaseQueue(ctx, testRdb, "test-consumer", nil)
		require.NoError(t, err)
		require.NotNil(t, q)
	})

	t.Run("Success - existing group", func(t *testing.T) {
		q, err := queue.NewRedisStreamPurchaseQueue(ctx, testRdb, "", nil)
		require.NoError(t, err)
		require.NotNil(t, q)
	})
}

func TestRedisStreamPurchaseQueue_Subscribe_deliversPublished(t *testing.T) {
	requireRedis(t)
	ctx := context.Background()
	cleanupStream(ctx, t)

	q, err := queue.NewRedisStreamPurchaseQueue(ctx, testRdb, "deliver-test", nil)
	require.NoError(t, err)

	event := newPurchase()
	require.NoError(t, q.Publish(ctx, event))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ch, err := q.Subscribe(subCtx)
	require.NoError(t, err)

	select {
	case d, ok := <-ch:
		require.True(t, ok)
		require.NotNil(t, d.Data)
		assert.Equal(t, event.TicketID, d.Data.TicketID)
		assert.Equal(t, event.OrganizerID, d.Data.OrganizerID)
		assert.Equal(t, event.Quantity, d.Data.Quantity)
		assert.True(t, event.TotalPrice.Equal(d.Data.TotalPrice))
		d.Ack()
	case <-subCtx.Done():
		t.Fatal("timeout waiting for delivery")
	}
}

func TestRedisStreamPurchaseQueue_NackRequeue_redeliversAfterIdle(t *testing.T) {
	requireRedis(t)
	ctx := context.Background()
	cleanupStream(ctx, t)

	cfg := &queue.RedisStreamQueueConfig{
		ClaimMinIdleTime:   200 * time.Millisecond,
		ReadGroupBlockTime: 500 * time.Millisecond,
	}
	q, err := queue.NewRedisStreamPurchaseQueue(ctx, testRdb, "nack-requeue-test", cfg)
	require.NoError(t, err)

	event := newPurchase()
	require.NoError(t, q.Publish(ctx, event))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ch, err := q.Subscribe(subCtx)
	require.NoError(t, err)

	select {
	case d := <-ch:
		require.NotNil(t, d.Data)
		d.Nack(true)
	case <-subCtx.Done():
		t.Fatal("timeout waiting for first delivery")
	}

	select {
	case d, ok := <-ch:
		require.True(t, ok)
		assert.Equal(t, event.TicketID, d.Data.TicketID)
		d.Ack()
	case <-subCtx.Done():
		t.Fatal("timeout waiting for redelivery")
	}
}

func TestRedisStreamPurchaseQueue_Subscribe_ctxCancel_closesChannel(t *testing.T) {
	requireRedis(t)
	ctx := context.Background()
	cleanupStream(ctx, t)

	cfg := &queue.RedisStreamQueueConfig{
		ClaimMinIdleTime:   200 * time.Millisecond,
		ReadGroupBlockTime: 200 * time.Millisecond,
	}
	q, err := queue.NewRedisStreamPurchaseQueue(ctx, testRdb, "cancel-test", cfg)
	require.NoError(t, err)

	subCtx, cancel := context.WithCancel(ctx)
	ch, err := q.Subscribe(subCtx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
