package email

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

// Store persists correspondence records. Records are never updated.
type Store interface {
	Insert(ctx context.Context, e *models.Email) error
	List(ctx context.Context) ([]*models.Email, error)
	Count(ctx context.Context) (int64, error)
}

// MongoStore keeps records in the emails collection
type MongoStore struct {
	c *mongo.Collection
}

// NewMongoStore creates an email store on db
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{c: db.Collection("emails")}
}

// EnsureIndexes creates the listing index
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	return err
}

func (s *MongoStore) Insert(ctx context.Context, e *models.Email) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("failed to insert email: %w", err)
	}
	return nil
}

// List returns every record, newest first
func (s *MongoStore) List(ctx context.Context) ([]*models.Email, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query emails: %w", err)
	}
	defer cur.Close(ctx)

	out := []*models.Email{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode emails: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count emails: %w", err)
	}
	return n, nil
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu     sync.RWMutex
	emails []*models.Email
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(ctx context.Context, e *models.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	cp := *e
	s.emails = append(s.emails, &cp)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*models.Email, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Email, 0, len(s.emails))
	for i := len(s.emails) - 1; i >= 0; i-- {
		cp := *s.emails[i]
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.emails)), nil
}
