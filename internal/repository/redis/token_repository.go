package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wildNest/business/admin"
	"wildNest/domain"

	"github.com/redis/go-redis/v9"
)

var errTokenNotFound = errors.New("token not found or expired")

type TokenRepository struct {
	client redis.Cmdable
}

var _ admin.TokenStore = (*TokenRepository)(nil)

func NewTokenRepository(client redis.Cmdable) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func userKey(userID string) string {
	return fmt.Sprintf("token:user:%s", userID)
}

func lookupKey(token string) string {
	return fmt.Sprintf("token:lookup:%s", token)
}

// StoreToken keeps one token per admin. A previous token of the same admin
// loses its lookup entry and stops validating.
func (r *TokenRepository) StoreToken(ctx context.Context, userID, token string, data domain.TokenData, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal token data: %w", err)
	}

	if previous, err := r.GetTokenData(ctx, userID); err == nil && previous.Token != token {
		if err := r.client.Del(ctx, lookupKey(previous.Token)).Err(); err != nil {
			return fmt.Errorf("failed to drop previous token: %w", err)
		}
	}

	if err := r.client.Set(ctx, userKey(userID), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token in Redis: %w", err)
	}

	// reverse lookup token -> user_id for quick validation
	if err := r.client.Set(ctx, lookupKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token lookup: %w", err)
	}

	return nil
}

func (r *TokenRepository) GetTokenData(ctx context.Context, userID string) (*domain.TokenData, error) {
	val, err := r.client.Get(ctx, userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token from Redis: %w", err)
	}

	var tokenData domain.TokenData
	if err := json.Unmarshal([]byte(val), &tokenData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token data: %w", err)
	}

	return &tokenData, nil
}

// ValidateTokenFromRedis returns the admin id the token was issued to.
func (r *TokenRepository) ValidateTokenFromRedis(ctx context.Context, token string) (string, error) {
	userID, err := r.client.Get(ctx, lookupKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errTokenNotFound
		}
		return "", fmt.Errorf("failed to validate token: %w", err)
	}

	return userID, nil
}

func (r *TokenRepository) RevokeToken(ctx context.Context, userID string) error {
	tokenData, err := r.GetTokenData(ctx, userID)
	if err != nil {
		if errors.Is(err, errTokenNotFound) {
			return nil
		}
		return err
	}

	if err := r.client.Del(ctx, userKey(userID), lookupKey(tokenData.Token)).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}
