package confirm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const ledgerKeyPrefix = "activitysignup:confirm:"

// Ledger records spent token IDs. Claim reports true only for the first
// claim of id within ttl.
type Ledger interface {
	Claim(ctx context.Context, id string, ttl time.Duration) (bool, error)
}

type memoryLedger struct {
	now func() time.Time

	mu    sync.Mutex
	spent map[string]time.Time
}

// NewMemoryLedger returns a process-local Ledger.
func NewMemoryLedger() Ledger {
	return &memoryLedger{now: time.Now, spent: make(map[string]time.Time)}
}

func (l *memoryLedger) Claim(_ context.Context, id string, ttl time.Duration) (bool, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, until := range l.spent {
		if !now.Before(until) {
			delete(l.spent, k)
		}
	}
	if _, ok := l.spent[id]; ok {
		return false, nil
	}
	l.spent[id] = now.Add(ttl)
	return true, nil
}

type redisLedger struct {
	client redis.UniversalClient
}

// NewRedisLedger returns a Ledger shared by every instance using the same
// Redis. Each claim is a SET NX with the token's remaining lifetime.
func NewRedisLedger(client redis.UniversalClient) Ledger {
	return &redisLedger{client: client}
}

func (l *redisLedger) Claim(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, ledgerKeyPrefix+id, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim confirmation %s: %w", id, err)
	}
	return ok, nil
}
