package coordinator

import (
	"context"
	"sync/atomic"
	"time"

	redisc "github.com/mx-space/feedguard/internal/pkg/redis"
)

// Counter tallies units that reached the analyzed stage. Implementations
// must be safe for concurrent use and never decrease.
type Counter interface {
	Incr(ctx context.Context) (int64, error)
	Value(ctx context.Context) (int64, error)
}

// MemoryCounter is a process-local atomic counter.
type MemoryCounter struct {
	n atomic.Int64
}

func (m *MemoryCounter) Incr(context.Context) (int64, error) { return m.n.Add(1), nil }

func (m *MemoryCounter) Value(context.Context) (int64, error) { return m.n.Load(), nil }

// sessionTTL bounds how long an idle session's counter lives in Redis. Every
// increment extends it.
const sessionTTL = 24 * time.Hour

// RedisCounter shares a session's count between processes.
type RedisCounter struct {
	rc  *redisc.Client
	key string
}

func NewRedisCounter(rc *redisc.Client, sessionID string) *RedisCounter {
	return &RedisCounter{rc: rc, key: redisc.Key("session", sessionID, "analyzed")}
}

func (r *RedisCounter) Incr(ctx context.Context) (int64, error) {
	return r.rc.IncrExpire(ctx, r.key, sessionTTL)
}

func (r *RedisCounter) Value(ctx context.Context) (int64, error) {
	return r.rc.Int(ctx, r.key)
}
