package service

import (
	"context"
	"fmt"
	"time"

	"clinic-scheduling/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Timeout for individual Redis operations
	redisOpTimeout = 3 * time.Second

	scanBatchSize = 100
)

// TokenStore is the allow-list of issued tokens. A token is accepted only while
// its id is present; logout and refresh remove ids.
type TokenStore interface {
	Save(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error)
	// Revoke removes a token id without knowing its owner.
	Revoke(ctx context.Context, tokenType jwt.TokenType, tokenID string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

type redisTokenStore struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisTokenStore(client *redis.Client, log *logrus.Logger) TokenStore {
	return &redisTokenStore{client: client, log: log}
}

func tokenKey(tokenType jwt.TokenType, userID, tokenID string) string {
	return fmt.Sprintf("%s_token:%s:%s", tokenType, userID, tokenID)
}

func (s *redisTokenStore) Save(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	return s.client.Set(ctx, tokenKey(tokenType, userID.String(), tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	n, err := s.client.Exists(ctx, tokenKey(tokenType, userID.String(), tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, tokenType jwt.TokenType, tokenID string) error {
	return s.deleteMatching(ctx, tokenKey(tokenType, "*", tokenID))
}

func (s *redisTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.deleteMatching(ctx, tokenKey(jwt.AccessToken, userID.String(), "*")); err != nil {
		return err
	}
	return s.deleteMatching(ctx, tokenKey(jwt.RefreshToken, userID.String(), "*"))
}

// deleteMatching deletes every key matching pattern, found via SCAN.
func (s *redisTokenStore) deleteMatching(ctx context.Context, pattern string) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.log.Warnf("Failed to scan token keys %s: %+v", pattern, err)
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
