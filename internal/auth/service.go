// Package auth issues and validates bearer tokens backed by redis.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gridchat/internal/redis"
)

const tokenKeyPrefix = "auth:token:"

// Service issues, validates, and revokes user authentication tokens.
type Service struct {
	cache    *redis.Client
	tokenTTL time.Duration
}

// NewService constructs an auth service with the supplied token lifetime.
func NewService(cache *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{cache: cache, tokenTTL: ttl}
}

// IssueToken mints a new random token for the user and stores it with TTL.
func (s *Service) IssueToken(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", errors.New("invalid user id")
	}
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.cache.Set(ctx, tokenKeyPrefix+token, strconv.FormatInt(userID, 10), s.tokenTTL); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// ValidateToken verifies the token exists and returns the user id.
func (s *Service) ValidateToken(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, errors.New("token required")
	}
	value, err := s.cache.Get(ctx, tokenKeyPrefix+token)
	if err != nil {
		if errors.Is(err, redis.ErrCacheMiss) {
			return 0, errors.New("invalid token")
		}
		return 0, fmt.Errorf("lookup token: %w", err)
	}
	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil || userID <= 0 {
		return 0, errors.New("invalid token")
	}
	return userID, nil
}

// RevokeToken deletes a single token.
func (s *Service) RevokeToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.cache.Del(ctx, tokenKeyPrefix+token)
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
