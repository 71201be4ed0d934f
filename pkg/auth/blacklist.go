package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jordanlanch/leadcrm/pkg/cache"
)

// TokenBlacklist manages revoked JWT tokens
type TokenBlacklist struct {
	cache *cache.Client
}

// NewTokenBlacklist creates a new token blacklist
func NewTokenBlacklist(cache *cache.Client) *TokenBlacklist {
	return &TokenBlacklist{
		cache: cache,
	}
}

// Add adds a token to the blacklist until it would have expired anyway
func (b *TokenBlacklist) Add(ctx context.Context, token string, expiration time.Duration) error {
	if expiration <= 0 {
		// already expired, nothing to revoke
		return nil
	}
	return b.cache.Set(ctx, blacklistKey(token), "revoked", expiration)
}

// IsBlacklisted checks if a token is blacklisted
func (b *TokenBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	return b.cache.Exists(ctx, blacklistKey(token))
}

// blacklistKey stores a SHA256 of the token, never the raw token
func blacklistKey(token string) string {
	hash := sha256.Sum256([]byte(token))
	return fmt.Sprintf("jwt:blacklist:%s", hex.EncodeToString(hash[:]))
}
