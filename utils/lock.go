package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/darshanedu/insight_backend/config"
	"github.com/bsm/redislock"
)

// ScopeLock obtains a short-lived lock for one ingestion scope
// (branch|wing|year|type) and returns a release func. Concurrent
// ingestions for the same scope are last-write-wins by timestamp, so the
// lock only narrows the race window; without redis it degrades to a no-op.
func ScopeLock(ctx context.Context, scopeKey string, moduleName string, functionName string) (func(), error) {
	locker := config.GetRedisLock()
	if locker == nil {
		return func() {}, nil
	}
	lockKey := fmt.Sprintf("ingest:%s", scopeKey)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(config.GetLogger(), moduleName, functionName, "Could not obtain ingest lock", scopeKey, err)
		return nil, errors.New("another ingestion for this scope is in progress")
	} else if err != nil {
		config.LogError(config.GetLogger(), moduleName, functionName, "Error obtaining ingest lock", scopeKey, err)
		return nil, err
	}
	return func() { _ = lock.Release(ctx) }, nil
}
