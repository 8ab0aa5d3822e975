package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sharath018/event-management-backend/config"
)

// ErrTokenNotFound is returned when a key is missing or expired.
var ErrTokenNotFound = errors.New("token not found")

// TokenStore keeps short-lived values such as reset tokens and revoked JWT ids.
type TokenStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewTokenStore returns a Redis store when REDIS_ADDR is set, otherwise an
// in-process store.
func NewTokenStore(cfg *config.Config) (TokenStore, error) {
	if cfg.RedisAddr == "" {
		log.Println("⚠️ REDIS_ADDR not set, using in-memory token store")
		return NewMemoryTokenStore(), nil
	}
	return NewRedisTokenStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

// ===========================
// 🔴 Redis
// ===========================

type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(addr, password string, db int) (*RedisTokenStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	log.Printf("✅ Redis token store connected to %s", addr)
	return &RedisTokenStore{client: client}, nil
}

func (r *RedisTokenStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisTokenStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	return val, err
}

func (r *RedisTokenStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Client exposes the connection for pub/sub users.
func (r *RedisTokenStore) Client() *redis.Client {
	return r.client
}

func (r *RedisTokenStore) Close() error {
	return r.client.Close()
}

// ===========================
// 🧠 Memory
// ===========================

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type MemoryTokenStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryTokenStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *MemoryTokenStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return "", ErrTokenNotFound
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return "", ErrTokenNotFound
	}
	return e.value, nil
}

func (m *MemoryTokenStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
