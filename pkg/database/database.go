package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client holds the Mongo connection and the application database
type Client struct {
	Mongo *mongo.Client
	DB    *mongo.Database
}

// PoolConfig holds connection pool configuration
type PoolConfig struct {
	MaxPoolSize     uint64        // Maximum number of pooled connections per server
	MinPoolSize     uint64        // Connections kept warm
	MaxConnIdleTime time.Duration // Idle connections are closed after this
	ConnectTimeout  time.Duration
	ReadPreference  string // primary, primaryPreferred, secondary, secondaryPreferred, nearest
}

// DefaultPoolConfig returns sensible defaults for connection pooling
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxPoolSize:     50,
		MinPoolSize:     5,
		MaxConnIdleTime: 10 * time.Minute,
		ConnectTimeout:  10 * time.Second,
		ReadPreference:  "primary",
	}
}

// ParseReadPreference maps a mode name to a driver read preference.
// Unknown names fall back to primary.
func ParseReadPreference(mode string) *readpref.ReadPref {
	switch strings.ToLower(mode) {
	case "primarypreferred":
		return readpref.PrimaryPreferred()
	case "secondary":
		return readpref.Secondary()
	case "secondarypreferred":
		return readpref.SecondaryPreferred()
	case "nearest":
		return readpref.Nearest()
	default:
		return readpref.Primary()
	}
}

// NewClient connects with the default pool configuration
func NewClient(ctx context.Context, uri, dbName string) (*Client, error) {
	return NewClientWithPool(ctx, uri, dbName, DefaultPoolConfig())
}

// NewClientWithPool connects to Mongo, pings the primary and selects dbName
func NewClientWithPool(ctx context.Context, uri, dbName string, poolCfg PoolConfig) (*Client, error) {
	if dbName == "" {
		return nil, fmt.Errorf("database name is required")
	}

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(poolCfg.MaxPoolSize).
		SetMinPoolSize(poolCfg.MinPoolSize).
		SetMaxConnIdleTime(poolCfg.MaxConnIdleTime).
		SetConnectTimeout(poolCfg.ConnectTimeout).
		SetReadPreference(ParseReadPreference(poolCfg.ReadPreference))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed opening connection to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, poolCfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed pinging mongo: %w", err)
	}

	return &Client{
		Mongo: client,
		DB:    client.Database(dbName),
	}, nil
}

// Close disconnects from the server
func (c *Client) Close(ctx context.Context) error {
	return c.Mongo.Disconnect(ctx)
}

// Ping checks if the database is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.Mongo.Ping(ctx, readpref.Primary())
}

// IndexEnsurer is implemented by every repository that owns a collection
type IndexEnsurer interface {
	EnsureIndexes(ctx context.Context) error
}

// EnsureIndexes runs EnsureIndexes on every store, stopping at the first failure
func EnsureIndexes(ctx context.Context, stores ...IndexEnsurer) error {
	for _, s := range stores {
		if err := s.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed ensuring indexes: %w", err)
		}
	}
	return nil
}
