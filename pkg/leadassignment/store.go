package leadassignment

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jordanlanch/leadcrm/pkg/models"
)

// HistoryStore persists assignment history. Records are append-only.
type HistoryStore interface {
	Record(ctx context.Context, a *models.Assignment) error
	ListByLead(ctx context.Context, leadID string) ([]*models.Assignment, error)
}

// MongoHistoryStore keeps history in the lead_assignments collection.
type MongoHistoryStore struct {
	c *mongo.Collection
}

// NewMongoHistoryStore creates a history store on db.
func NewMongoHistoryStore(db *mongo.Database) *MongoHistoryStore {
	return &MongoHistoryStore{c: db.Collection("lead_assignments")}
}

// EnsureIndexes creates the per-lead timeline index.
func (s *MongoHistoryStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "leadId", Value: 1}, {Key: "assignedAt", Value: 1}},
	})
	return err
}

// Record inserts a history entry.
func (s *MongoHistoryStore) Record(ctx context.Context, a *models.Assignment) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("failed to record assignment: %w", err)
	}
	return nil
}

// ListByLead returns the lead's history, oldest first.
func (s *MongoHistoryStore) ListByLead(ctx context.Context, leadID string) ([]*models.Assignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "assignedAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"leadId": leadID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer cur.Close(ctx)

	out := []*models.Assignment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode assignments: %w", err)
	}
	return out, nil
}

// MemoryHistoryStore is an in-process HistoryStore.
type MemoryHistoryStore struct {
	mu      sync.Mutex
	records []*models.Assignment
}

// NewMemoryHistoryStore creates an empty store.
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{}
}

// Record implements HistoryStore.
func (s *MemoryHistoryStore) Record(ctx context.Context, a *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	cp := *a
	s.records = append(s.records, &cp)
	return nil
}

// ListByLead implements HistoryStore.
func (s *MemoryHistoryStore) ListByLead(ctx context.Context, leadID string) ([]*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Assignment{}
	for _, r := range s.records {
		if r.LeadID == leadID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AssignedAt.Before(out[j].AssignedAt) })
	return out, nil
}

// Len returns the number of stored records.
func (s *MemoryHistoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
