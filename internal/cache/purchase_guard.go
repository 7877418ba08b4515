package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type GuardState int

const (
	// GuardAcquired: the caller owns the key and must Complete or Release it.
	GuardAcquired GuardState = iota
	// GuardCompleted: a previous request finished; TicketID holds its result.
	GuardCompleted
	// GuardInFlight: another request with the same key has not finished yet.
	GuardInFlight
)

type GuardResult struct {
	State    GuardState
	TicketID uuid.UUID
}

// PurchaseGuard deduplicates purchase submissions that carry the same idempotency key.
type PurchaseGuard interface {
	Acquire(ctx context.Context, userID uuid.UUID, key string) (GuardResult, error)
	Complete(ctx context.Context, userID uuid.UUID, key string, ticketID uuid.UUID) error
	Release(ctx context.Context, userID uuid.UUID, key string) error
}

type RedisPurchaseGuardImpl struct {
	client     *redis.Client
	pendingTTL time.Duration
	doneTTL    time.Duration
}

func NewRedisPurchaseGuard(client *redis.Client, pendingTTL, doneTTL time.Duration) PurchaseGuard {
	return &RedisPurchaseGuardImpl{
		client:     client,
		pendingTTL: pendingTTL,
		doneTTL:    doneTTL,
	}
}

const guardPending = "pending"

func GuardKey(userID uuid.UUID, key string) string {
	return fmt.Sprintf("purchase:idem:%s:%s", userID, key)
}

// AcquireScript returns {1, ""} when the key was free, {2, ticket_id} when it already
// completed and {-1, ""} while another holder is pending.
const AcquireScript = `
	local current = redis.call('GET', KEYS[1])
	if not current then
		redis.call('SET', KEYS[1], 'pending', 'PX', ARGV[1])
		return {1, ''}
	end
	if current == 'pending' then
		return {-1, ''}
	end
	return {2, current}
`

// ReleaseScript deletes the key only while it is still pending.
const ReleaseScript = `
	if redis.call('GET', KEYS[1]) == 'pending' then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`

func (g *RedisPurchaseGuardImpl) Acquire(ctx context.Context, userID uuid.UUID, key string) (GuardResult, error) {
	result, err := g.client.Eval(ctx, AcquireScript, []string{GuardKey(userID, key)}, g.pendingTTL.Milliseconds()).Result()
	if err != nil {
		return GuardResult{}, err
	}

	resSlice, ok := result.([]interface{})
	if !ok || len(resSlice) != 2 {
		return GuardResult{}, errors.New("unexpected guard result")
	}
	code, _ := resSlice[0].(int64)
	value, _ := resSlice[1].(string)

	switch code {
	case 1:
		return GuardResult{State: GuardAcquired}, nil
	case 2:
		ticketID, err := uuid.Parse(value)
		if err != nil {
			return GuardResult{}, fmt.Errorf("corrupt guard value %q: %w", value, err)
		}
		return GuardResult{State: GuardCompleted, TicketID: ticketID}, nil
	case -1:
		return GuardResult{State: GuardInFlight}, nil
	default:
		return GuardResult{}, errors.New("unexpected guard result")
	}
}

func (g *RedisPurchaseGuardImpl) Complete(ctx context.Context, userID uuid.UUID, key string, ticketID uuid.UUID) error {
	return g.client.Set(ctx, GuardKey(userID, key), ticketID.String(), g.doneTTL).Err()
}

func (g *RedisPurchaseGuardImpl) Release(ctx context.Context, userID uuid.UUID, key string) error {
	return g.client.Eval(ctx, ReleaseScript, []string{GuardKey(userID, key)}).Err()
}
