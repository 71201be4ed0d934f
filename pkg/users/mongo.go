package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jordanlanch/leadcrm/pkg/models"
)

// MongoRepository stores users in the users collection
type MongoRepository struct {
	c *mongo.Collection
}

// NewMongoRepository creates a user repository on db
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{c: db.Collection("users")}
}

// EnsureIndexes creates the unique email index
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}},
		},
	})
	return err
}

// Insert adds u, assigning an id when missing
func (r *MongoRepository) Insert(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Email = normalizeEmail(u.Email)
	if _, err := r.c.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// FindByID loads a user by hex id. Malformed ids are reported as not found.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByEmail loads a user by email, case-insensitively
func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": normalizeEmail(email)})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &u, nil
}

// List returns users in insertion order
func (r *MongoRepository) List(ctx context.Context, f Filter) ([]*models.User, error) {
	cur, err := r.c.Find(ctx, toBSON(f), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cur.Close(ctx)

	out := []*models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return out, nil
}

// Update replaces the stored user
func (r *MongoRepository) Update(ctx context.Context, u *models.User) error {
	u.Email = normalizeEmail(u.Email)
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count counts users matching f
func (r *MongoRepository) Count(ctx context.Context, f Filter) (int64, error) {
	n, err := r.c.CountDocuments(ctx, toBSON(f))
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func toBSON(f Filter) bson.M {
	q := bson.M{}
	if f.Role != "" {
		q["role"] = f.Role
	}
	if f.ActiveOnly {
		q["status"] = models.UserStatusActive
	}
	return q
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
