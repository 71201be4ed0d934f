// Package audit records security-relevant actions in the audit_logs collection.
package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jordanlanch/leadcrm/pkg/logger"
)

// Actions
const (
	ActionUserLogin  = "user_login"
	ActionUserLogout = "user_logout"
	ActionUserSignup = "user_signup"
	ActionLeadCreate = "lead_create"
	ActionLeadUpdate = "lead_update"
	ActionLeadDelete = "lead_delete"
	ActionLeadAssign = "lead_assign"
	ActionEmailSend  = "email_send"
)

// Resource types
const (
	ResourceUser  = "user"
	ResourceLead  = "lead"
	ResourceEmail = "email"
)

// Entry is one audit record
type Entry struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty" json:"_id"`
	Action       string                 `bson:"action" json:"action"`
	UserID       string                 `bson:"userId" json:"userId"`
	ResourceType string                 `bson:"resourceType,omitempty" json:"resourceType,omitempty"`
	ResourceID   string                 `bson:"resourceId,omitempty" json:"resourceId,omitempty"`
	IPAddress    string                 `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	UserAgent    string                 `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	Metadata     map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt    time.Time              `bson:"createdAt" json:"createdAt"`
}

// Store persists audit entries
type Store interface {
	Insert(ctx context.Context, e *Entry) error
}

// MongoStore writes entries to audit_logs
type MongoStore struct {
	c *mongo.Collection
}

// NewMongoStore creates an audit store on db
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{c: db.Collection("audit_logs")}
}

// EnsureIndexes creates the per-user and per-resource indexes
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "resourceType", Value: 1}, {Key: "resourceId", Value: 1}}},
	})
	return err
}

func (s *MongoStore) Insert(ctx context.Context, e *Entry) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// MemoryStore keeps entries in memory
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(ctx context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *e)
	return nil
}

// Entries returns a copy of everything stored
func (s *MemoryStore) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Service handles audit logging
type Service struct {
	store  Store
	logger logger.Logger
	now    func() time.Time
}

// NewService creates a new audit service
func NewService(store Store, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: store, logger: log, now: time.Now}
}

// Log writes entry. Failures are logged and returned; callers running it
// in the background may ignore the result.
func (s *Service) Log(ctx context.Context, entry Entry) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	if err := s.store.Insert(ctx, &entry); err != nil {
		s.logger.Error("failed to write audit entry", "action", entry.Action, "user_id", entry.UserID, "error", err)
		return err
	}
	return nil
}

// LogUserLogin logs a user login event
func (s *Service) LogUserLogin(ctx context.Context, userID, ipAddress, userAgent string) error {
	return s.Log(ctx, Entry{
		Action:       ActionUserLogin,
		UserID:       userID,
		ResourceType: ResourceUser,
		ResourceID:   userID,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
	})
}

// LogUserLogout logs a user logout event
func (s *Service) LogUserLogout(ctx context.Context, userID, ipAddress, userAgent string) error {
	return s.Log(ctx, Entry{
		Action:       ActionUserLogout,
		UserID:       userID,
		ResourceType: ResourceUser,
		ResourceID:   userID,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
	})
}

// LogUserSignup logs a Team Leader creating an account
func (s *Service) LogUserSignup(ctx context.Context, actorID, userID, ipAddress, userAgent string) error {
	return s.Log(ctx, Entry{
		Action:       ActionUserSignup,
		UserID:       actorID,
		ResourceType: ResourceUser,
		ResourceID:   userID,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
	})
}

// LogLeadAction logs a lead mutation
func (s *Service) LogLeadAction(ctx context.Context, action, actorID, leadID string, metadata map[string]interface{}) error {
	return s.Log(ctx, Entry{
		Action:       action,
		UserID:       actorID,
		ResourceType: ResourceLead,
		ResourceID:   leadID,
		Metadata:     metadata,
	})
}

// LogEmailSent logs outbound correspondence
func (s *Service) LogEmailSent(ctx context.Context, actorID, emailID, ipAddress, userAgent string) error {
	return s.Log(ctx, Entry{
		Action:       ActionEmailSend,
		UserID:       actorID,
		ResourceType: ResourceEmail,
		ResourceID:   emailID,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
	})
}
