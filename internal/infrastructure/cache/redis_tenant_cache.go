package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/storepulse/backend/internal/domain/tenant"
)

// RedisTenantCache implements the tenant cache on Redis. This is
// suitable for distributed deployments where multiple instances need
// to share directory state.
type RedisTenantCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisTenantCache creates a Redis-backed tenant cache
func NewRedisTenantCache(cfg RedisConfig, ttl time.Duration) (*RedisTenantCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTenantCache{
		client:    client,
		keyPrefix: "tenant:",
		ttl:       ttl,
	}, nil
}

// NewRedisTenantCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisTenantCacheWithClient(client *redis.Client, ttl time.Duration) *RedisTenantCache {
	return &RedisTenantCache{
		client:    client,
		keyPrefix: "tenant:",
		ttl:       ttl,
	}
}

// GetByDomain returns the cached tenant for a shop domain
func (c *RedisTenantCache) GetByDomain(ctx context.Context, shopDomain string) (*tenant.Tenant, bool) {
	return c.get(ctx, c.domainKey(shopDomain))
}

// GetByID returns the cached tenant for an ID
func (c *RedisTenantCache) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, bool) {
	return c.get(ctx, c.idKey(id))
}

// Put stores the tenant under both keys
func (c *RedisTenantCache) Put(ctx context.Context, t *tenant.Tenant) {
	if t == nil {
		return
	}
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	pipe := c.client.Pipeline()
	pipe.Set(ctx, c.domainKey(t.ShopDomain), data, c.ttl)
	pipe.Set(ctx, c.idKey(t.ID), data, c.ttl)
	_, _ = pipe.Exec(ctx)
}

// Invalidate drops the tenant from both keys
func (c *RedisTenantCache) Invalidate(ctx context.Context, t *tenant.Tenant) {
	if t == nil {
		return
	}
	_ = c.client.Del(ctx, c.domainKey(t.ShopDomain), c.idKey(t.ID)).Err()
}

// Close closes the Redis client
func (c *RedisTenantCache) Close() error {
	return c.client.Close()
}

func (c *RedisTenantCache) get(ctx context.Context, key string) (*tenant.Tenant, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache errors degrade to a repository read
		return nil, false
	}
	var t tenant.Tenant
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, false
	}
	return &t, true
}

func (c *RedisTenantCache) domainKey(domain string) string {
	return c.keyPrefix + "domain:" + domain
}

func (c *RedisTenantCache) idKey(id uuid.UUID) string {
	return c.keyPrefix + "id:" + id.String()
}

// Ensure RedisTenantCache implements tenant.Cache
var _ tenant.Cache = (*RedisTenantCache)(nil)
