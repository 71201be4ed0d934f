package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func TestDefaultPoolConfig(t *testing.T) {
	cfg := DefaultPoolConfig()

	assert.Equal(t, uint64(50), cfg.MaxPoolSize)
	assert.Equal(t, uint64(5), cfg.MinPoolSize)
	assert.Equal(t, 10*time.Minute, cfg.MaxConnIdleTime)
	assert.Equal(t, "primary", cfg.ReadPreference)
	assert.True(t, cfg.MinPoolSize <= cfg.MaxPoolSize)
}

func TestParseReadPreference(t *testing.T) {
	tests := []struct {
		mode string
		want readpref.Mode
	}{
		{"primary", readpref.PrimaryMode},
		{"primaryPreferred", readpref.PrimaryPreferredMode},
		{"secondary", readpref.SecondaryMode},
		{"SecondaryPreferred", readpref.SecondaryPreferredMode},
		{"nearest", readpref.NearestMode},
		{"", readpref.PrimaryMode},
		{"bogus", readpref.PrimaryMode},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseReadPreference(tt.mode).Mode())
		})
	}
}

func TestNewClient_RequiresDatabaseName(t *testing.T) {
	_, err := NewClient(context.Background(), "mongodb://localhost:27017", "")
	assert.Error(t, err)
}

type fakeEnsurer struct {
	called *int
	err    error
}

func (f fakeEnsurer) EnsureIndexes(ctx context.Context) error {
	*f.called++
	return f.err
}

func TestEnsureIndexes_StopsOnFirstError(t *testing.T) {
	var calls int
	boom := errors.New("boom")

	err := EnsureIndexes(context.Background(),
		fakeEnsurer{called: &calls},
		fakeEnsurer{called: &calls, err: boom},
		fakeEnsurer{called: &calls},
	)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
