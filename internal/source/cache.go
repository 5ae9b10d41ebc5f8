package source

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache keeps raw document bodies by URL.
type Cache interface {
	Get(ctx context.Context, url string) ([]byte, bool)
	Put(ctx context.Context, url string, body []byte)
}

// Memory is a single-slot cache: it remembers only the last document and its URL.
type Memory struct {
	mu   sync.Mutex
	url  string
	body []byte
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Get(_ context.Context, url string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.body == nil || m.url != url {
		return nil, false
	}
	return m.body, true
}

func (m *Memory) Put(_ context.Context, url string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.url = url
	m.body = append([]byte(nil), body...)
}

// Redis shares fetched documents between processes. Redis errors degrade to a miss.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedis(client *redis.Client, prefix string, ttl time.Duration, log *zap.Logger) *Redis {
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl, log: log}
}

// OpenRedis connects to addr; it does not ping.
func OpenRedis(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

func (r *Redis) Get(ctx context.Context, url string) ([]byte, bool) {
	b, err := r.client.Get(ctx, r.prefix+url).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn("cache_get_error", zap.String("url", url), zap.Error(err))
		}
		return nil, false
	}
	return b, true
}

func (r *Redis) Put(ctx context.Context, url string, body []byte) {
	if err := r.client.Set(ctx, r.prefix+url, body, r.ttl).Err(); err != nil {
		r.log.Warn("cache_put_error", zap.String("url", url), zap.Error(err))
	}
}
