//go:build !integration

package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"wildNest/domain"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis implements the handful of commands the repositories use.
// Calling anything else panics on the nil embedded interface.
type fakeRedis struct {
	redis.Cmdable
	data    map[string]string
	ttls    map[string]time.Duration
	failErr error
	gets    int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		data: map[string]string{},
		ttls: map[string]time.Duration{},
	}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.gets++
	if f.failErr != nil {
		return redis.NewStringResult("", f.failErr)
	}
	val, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.failErr != nil {
		return redis.NewStatusResult("", f.failErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	default:
		f.data[key] = fmt.Sprint(v)
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.failErr != nil {
		return redis.NewIntResult(0, f.failErr)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestTokenRepository_StoreValidateRevoke(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	repo := NewTokenRepository(client)

	err := repo.StoreToken(ctx, "7", "tok-1", domain.TokenData{UserID: "7", Role: domain.RoleAdmin, Token: "tok-1"}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, client.ttls["token:user:7"])

	userID, err := repo.ValidateTokenFromRedis(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "7", userID)

	data, err := repo.GetTokenData(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, data.Role)

	require.NoError(t, repo.RevokeToken(ctx, "7"))
	_, err = repo.ValidateTokenFromRedis(ctx, "tok-1")
	assert.Error(t, err)
	assert.Empty(t, client.data)
}

func TestTokenRepository_NewLoginReplacesOldToken(t *testing.T) {
	ctx := context.Background()
	repo := NewTokenRepository(newFakeRedis())

	require.NoError(t, repo.StoreToken(ctx, "7", "old", domain.TokenData{Token: "old"}, time.Hour))
	require.NoError(t, repo.StoreToken(ctx, "7", "new", domain.TokenData{Token: "new"}, time.Hour))

	_, err := repo.ValidateTokenFromRedis(ctx, "old")
	assert.Error(t, err)

	userID, err := repo.ValidateTokenFromRedis(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "7", userID)
}

func TestTokenRepository_RevokeUnknownIsNoop(t *testing.T) {
	repo := NewTokenRepository(newFakeRedis())
	assert.NoError(t, repo.RevokeToken(context.Background(), "42"))
}

func TestCatalogCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	cache := NewCatalogCache(client, 5*time.Minute)

	_, err := cache.GetSnapshot(ctx)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	snapshot := domain.CatalogSnapshot{
		Options: []domain.Option{{ID: 1, QuestionID: 1, TagKeywords: "sweet"}},
		Drinks:  []domain.Drink{{ID: 5, Name: "Mojito", IsAvailable: true}},
	}
	require.NoError(t, cache.SetSnapshot(ctx, snapshot))
	assert.Equal(t, 5*time.Minute, client.ttls[catalogKey])

	got, err := cache.GetSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got.Drinks, 1)
	assert.Equal(t, "Mojito", got.Drinks[0].Name)
	assert.Equal(t, "sweet", got.Options[0].TagKeywords)

	require.NoError(t, cache.Invalidate(ctx))
	_, err = cache.GetSnapshot(ctx)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestCatalogCache_MissesDoNotTripBreaker(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	cache := NewCatalogCache(client, time.Minute)

	for i := 0; i < 10; i++ {
		_, err := cache.GetSnapshot(ctx)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	}
	assert.Equal(t, 10, client.gets)
}

func TestCatalogCache_BreakerOpensOnFailures(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	client.failErr = errors.New("connection refused")
	cache := NewCatalogCache(client, time.Minute)

	for i := 0; i < 5; i++ {
		_, err := cache.GetSnapshot(ctx)
		require.Error(t, err)
	}

	_, err := cache.GetSnapshot(ctx)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 5, client.gets)
}
