package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticketify/internal/cache"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPendingTTL = 30 * time.Second
	testDoneTTL    = 24 * time.Hour
)

func TestPurchaseGuard_Acquire(t *testing.T) {
	ctx := context.Background()
	userID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	key := cache.GuardKey(userID, "req-1")

	t.Run("Success - acquired", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		guard := cache.NewRedisPurchaseGuard(db, testPendingTTL, testDoneTTL)

		mock.ExpectEval(cache.AcquireScript, []string{key}, testPendingTTL.Milliseconds()).
			SetVal([]interface{}{int64(1), ""})

		res, err := guard.Acquire(ctx, userID, "req-1")
		require.NoError(t, err)
		assert.Equal(t, cache.GuardAcquired, res.State)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - completed returns previous ticket", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		guard := cache.NewRedisPurchaseGuard(db, testPendingTTL, testDoneTTL)
		ticketID := uuid.New()

		mock.ExpectEval(cache.AcquireScript, []string{key}, testPendingTTL.Milliseconds()).
			SetVal([]interface{}{int64(2), ticketID.String()})

		res, err := guard.Acquire(ctx, userID, "req-1")
		require.NoError(t, err)
		assert.Equal(t, cache.GuardCompleted, res.State)
		assert.Equal(t, ticketID, res.TicketID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - in flight", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		guard := cache.NewRedisPurchaseGuard(db, testPendingTTL, testDoneTTL)

		mock.ExpectEval(cache.AcquireScript, []string{key}, testPendingTTL.Milliseconds()).
			SetVal([]interface{}{int64(-1), ""})

		res, err := guard.Acquire(ctx, userID, "req-1")
		require.NoError(t, err)
		assert.Equal(t, cache.GuardInFlight, res.State)
	})

	t.Run("Failed - corrupt value", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		guard := cache.NewRedisPurchaseGuard(db, testPendingTTL, testDoneTTL)

		mock.ExpectEval(cache.AcquireScript, []string{key}, testPendingTTL.Milliseconds()).
			SetVal([]interface{}{int64(2), "not-a-uuid"})

		_, err := guard.Acquire(ctx, userID, "req-1")
		assert.Error(t, err)
	})

	t.Run("Failed - redis error", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		guard := cache.NewRedisPurchaseGuard(db, testPendingTTL, testDoneTTL)

		mock.ExpectEval(cache.AcquireScript, []string{key}, testPendingTTL.Milliseconds()).
			SetErr(errors.New("connection refused"))

		_, err := guard.Acquire(ctx, userID, "req-1")
		assert.EqualError(t, err, "connection refused")
	})
}

func TestPurchaseGuard_CompleteAndRelease(t *testing.T) {
	ctx := context.Background()
	userID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	key := cache.GuardKey(userID, "req-2")

	t.Run("Complete", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		guard := cache.NewRedisPurchaseGuard(db, testPendingTTL, testDoneTTL)
		ticketID := uuid.New()

		mock.ExpectSet(key, ticketID.String(), testDoneTTL).SetVal("OK")

		require.NoError(t, guard.Complete(ctx, userID, "req-2", ticketID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Release", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		guard := cache.NewRedisPurchaseGuard(db, testPendingTTL, testDoneTTL)

		mock.ExpectEval(cache.ReleaseScript, []string{key}).SetVal(int64(1))

		require.NoError(t, guard.Release(ctx, userID, "req-2"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGuardKey(t *testing.T) {
	userID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	assert.Equal(t, "purchase:idem:11111111-1111-1111-1111-111111111111:abc", cache.GuardKey(userID, "abc"))
}
