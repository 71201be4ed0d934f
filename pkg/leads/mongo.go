package leads

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jordanlanch/leadcrm/pkg/models"
)

// maxUpdateAttempts bounds the retry loop of unversioned updates racing other writers
const maxUpdateAttempts = 5

// MongoRepository stores leads in the leads collection
type MongoRepository struct {
	c *mongo.Collection
}

// NewMongoRepository creates a lead repository on db
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{c: db.Collection("leads")}
}

// EnsureIndexes creates the listing indexes
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		{Keys: bson.D{{Key: "assignedTo", Value: 1}, {Key: "callDisposition", Value: 1}}},
		{Keys: bson.D{{Key: "callDisposition", Value: 1}, {Key: "updatedAt", Value: -1}}},
	})
	return err
}

// Insert adds lead, assigning an id when missing
func (r *MongoRepository) Insert(ctx context.Context, lead *models.Lead) error {
	if lead.ID.IsZero() {
		lead.ID = primitive.NewObjectID()
	}
	if _, err := r.c.InsertOne(ctx, lead); err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}
	return nil
}

// FindByID loads a lead. Malformed ids are reported as not found.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findByOID(ctx, oid)
}

func (r *MongoRepository) findByOID(ctx context.Context, oid primitive.ObjectID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&lead); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch lead: %w", err)
	}
	return &lead, nil
}

// Find returns matching leads in insertion order, or newest first when asked
func (r *MongoRepository) Find(ctx context.Context, f Filter) ([]*models.Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if f.NewestFirst {
		opts.SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}})
	}
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cur, err := r.c.Find(ctx, toBSON(f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer cur.Close(ctx)

	out := []*models.Lead{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode leads: %w", err)
	}
	return out, nil
}

// Update re-reads the lead, applies mutate and writes it back only if __v is
// unchanged. With expectedVersion set a mismatch fails immediately; without
// it the write is retried against the fresh document.
func (r *MongoRepository) Update(ctx context.Context, id string, expectedVersion *int64, mutate Mutator) (*models.Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		lead, err := r.findByOID(ctx, oid)
		if err != nil {
			return nil, err
		}
		if expectedVersion != nil && *expectedVersion != lead.Version {
			return nil, ErrVersionConflict
		}

		current := lead.Version
		if err := mutate(lead); err != nil {
			return nil, err
		}
		lead.ID = oid
		lead.Version = current + 1

		res, err := r.c.ReplaceOne(ctx, bson.M{"_id": oid, "__v": current}, lead)
		if err != nil {
			return nil, fmt.Errorf("failed to update lead: %w", err)
		}
		if res.MatchedCount == 1 {
			return lead, nil
		}
		if expectedVersion != nil {
			return nil, ErrVersionConflict
		}
	}
	return nil, ErrVersionConflict
}

// Delete removes a lead and returns what was stored
func (r *MongoRepository) Delete(ctx context.Context, id string) (*models.Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var lead models.Lead
	if err := r.c.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&lead); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete lead: %w", err)
	}
	return &lead, nil
}

// Count counts leads matching f
func (r *MongoRepository) Count(ctx context.Context, f Filter) (int64, error) {
	n, err := r.c.CountDocuments(ctx, toBSON(f))
	if err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return n, nil
}

type groupCount struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

func (r *MongoRepository) groupBy(ctx context.Context, field string) ([]groupCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{field: bson.M{"$nin": bson.A{nil, ""}}}}},
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to group leads by %s: %w", field, err)
	}
	defer cur.Close(ctx)

	var rows []groupCount
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s counts: %w", field, err)
	}
	return rows, nil
}

// CountByDisposition groups leads by callDisposition, skipping leads without one
func (r *MongoRepository) CountByDisposition(ctx context.Context) (map[models.Disposition]int64, error) {
	rows, err := r.groupBy(ctx, "callDisposition")
	if err != nil {
		return nil, err
	}
	out := make(map[models.Disposition]int64, len(rows))
	for _, row := range rows {
		out[models.Disposition(row.Key)] = row.Count
	}
	return out, nil
}

// CountByType groups leads by type, skipping leads without one
func (r *MongoRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	rows, err := r.groupBy(ctx, "type")
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}

func toBSON(f Filter) bson.M {
	q := bson.M{}
	if f.CreatedBy != "" {
		q["createdBy"] = f.CreatedBy
	}
	switch {
	case f.AssignedTo != "":
		q["assignedTo"] = f.AssignedTo
	case f.Unassigned:
		q["assignedTo"] = bson.M{"$in": bson.A{nil, ""}}
	case f.Assigned:
		q["assignedTo"] = bson.M{"$nin": bson.A{nil, ""}}
	case f.InventoryFor != "":
		q["assignedTo"] = bson.M{"$in": bson.A{nil, "", f.InventoryFor}}
	}
	switch {
	case f.Disposition != "":
		q["callDisposition"] = f.Disposition
	case f.ExcludeSuppressed:
		q["callDisposition"] = bson.M{"$ne": models.DispositionDoNotCall}
	}
	return q
}
