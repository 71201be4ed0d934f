// Package mongotest starts a throwaway MongoDB for repository integration tests.
package mongotest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jordanlanch/leadcrm/pkg/database"
)

// NewDatabase returns a fresh database on a shared test server. Uses
// LEADCRM_TEST_MONGO_URI when set, otherwise a mongo:7 container. Skips under
// -short or when no container runtime is available.
func NewDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongo integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	uri := os.Getenv("LEADCRM_TEST_MONGO_URI")
	if uri == "" {
		container, err := mongodb.Run(ctx, "mongo:7")
		if err != nil {
			t.Skipf("mongo container unavailable: %v", err)
		}
		t.Cleanup(func() {
			_ = container.Terminate(context.Background())
		})

		uri, err = container.ConnectionString(ctx)
		if err != nil {
			t.Fatalf("container connection string: %v", err)
		}
	}

	client, err := database.NewClient(ctx, uri, "leadcrm_test_"+uuid.NewString()[:8])
	if err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = client.DB.Drop(context.Background())
		_ = client.Close(context.Background())
	})

	return client.DB
}
