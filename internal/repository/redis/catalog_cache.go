package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wildNest/business/recommendation"
	"wildNest/domain"
	"wildNest/pkg/logger"
	"wildNest/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

const (
	catalogKey         = "catalog:snapshot"
	catalogBreakerName = "catalog-cache"
)

// CatalogCache keeps the recommendation inputs in Redis. Reads and writes
// go through a circuit breaker; while it is open callers load from the
// database.
type CatalogCache struct {
	client  redis.Cmdable
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
}

var _ recommendation.CatalogCache = (*CatalogCache)(nil)

func NewCatalogCache(client redis.Cmdable, ttl time.Duration) *CatalogCache {
	metrics.CircuitBreakerState.WithLabelValues(catalogBreakerName).Set(0)

	return &CatalogCache{
		client: client,
		ttl:    ttl,
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        catalogBreakerName,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// a miss is a normal answer, not a Redis failure
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, domain.ErrCacheMiss)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
				metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			},
		}),
	}
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func (c *CatalogCache) GetSnapshot(ctx context.Context) (domain.CatalogSnapshot, error) {
	raw, err := c.breaker.Execute(func() ([]byte, error) {
		val, err := c.client.Get(ctx, catalogKey).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil, domain.ErrCacheMiss
			}
			return nil, fmt.Errorf("failed to get catalog snapshot: %w", err)
		}
		return val, nil
	})
	if err != nil {
		return domain.CatalogSnapshot{}, err
	}

	var snapshot domain.CatalogSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return domain.CatalogSnapshot{}, fmt.Errorf("failed to unmarshal catalog snapshot: %w", err)
	}

	return snapshot, nil
}

func (c *CatalogCache) SetSnapshot(ctx context.Context, snapshot domain.CatalogSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog snapshot: %w", err)
	}

	_, err = c.breaker.Execute(func() ([]byte, error) {
		if err := c.client.Set(ctx, catalogKey, raw, c.ttl).Err(); err != nil {
			return nil, fmt.Errorf("failed to store catalog snapshot: %w", err)
		}
		return nil, nil
	})
	return err
}

// Invalidate bypasses the breaker.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog snapshot: %w", err)
	}

	return nil
}
