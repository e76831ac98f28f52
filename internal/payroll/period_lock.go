package payroll

import (
	"context"
	"fmt"
	"sync"
	"time"

	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/redis/go-redis/v9"
)

// Concurrent Synchronize calls on the same period must be mutually exclusive:
// the deduction ledger protects against double charges, but two interleaved
// runs could still write conflicting payroll totals. With redis the lock is
// shared across instances; without it a process-local mutex map is used.
type syncLocker struct {
	rdb *redis.Client

	mu   sync.Mutex
	held map[string]bool
}

func newSyncLocker(rdb *redis.Client) *syncLocker {
	return &syncLocker{rdb: rdb, held: make(map[string]bool)}
}

func (l *syncLocker) acquire(ctx context.Context, companyID, period string) (func(), error) {
	key := fmt.Sprintf("payroll:sync:%s:%s", companyID, period)

	if l.rdb != nil {
		ok, err := l.rdb.SetNX(ctx, key, "locked", 2*time.Minute).Result()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, payrollerrors.ErrSyncInProgress
		}
		return func() {
			l.rdb.Del(context.Background(), key)
		}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, payrollerrors.ErrSyncInProgress
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}, nil
}
