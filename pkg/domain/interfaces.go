package domain

import (
	"context"
	"time"
)

// CacheRepository is the JSON cache used for dashboard snapshots
type CacheRepository interface {
	SetJSON(ctx context.Context, key string, v interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, v interface{}) error
	DeletePattern(ctx context.Context, pattern string) (int, error)
}

// TokenBlacklist defines JWT token blacklist operations
type TokenBlacklist interface {
	Add(ctx context.Context, token string, expiration time.Duration) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// AuditLogger defines audit logging operations
type AuditLogger interface {
	LogUserLogin(ctx context.Context, userID, ipAddress, userAgent string) error
	LogUserLogout(ctx context.Context, userID, ipAddress, userAgent string) error
	LogUserSignup(ctx context.Context, actorID, userID, ipAddress, userAgent string) error
	LogLeadAction(ctx context.Context, action, actorID, leadID string, metadata map[string]interface{}) error
	LogEmailSent(ctx context.Context, actorID, emailID, ipAddress, userAgent string) error
}
