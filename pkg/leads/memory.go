package leads

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jordanlanch/leadcrm/pkg/models"
)

// MemoryRepository is an in-process Repository for tests and local runs.
// It has the same ordering and version semantics as MongoRepository.
type MemoryRepository struct {
	mu    sync.RWMutex
	leads []*models.Lead
}

// NewMemoryRepository creates an empty repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func clone(l *models.Lead) *models.Lead {
	cp := *l
	if l.AssignedTo != nil {
		v := *l.AssignedTo
		cp.AssignedTo = &v
	}
	if l.Distributed != nil {
		v := *l.Distributed
		cp.Distributed = &v
	}
	return &cp
}

func (r *MemoryRepository) index(id string) int {
	for i, l := range r.leads {
		if l.ID.Hex() == id {
			return i
		}
	}
	return -1
}

func (r *MemoryRepository) Insert(ctx context.Context, lead *models.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lead.ID.IsZero() {
		lead.ID = primitive.NewObjectID()
	}
	r.leads = append(r.leads, clone(lead))
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.index(id); i >= 0 {
		return clone(r.leads[i]), nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) Find(ctx context.Context, f Filter) ([]*models.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*models.Lead{}
	for _, l := range r.leads {
		if f.Match(l) {
			out = append(out, clone(l))
		}
	}
	if f.NewestFirst {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		})
	}
	if f.Limit > 0 && int64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, expectedVersion *int64, mutate Mutator) (*models.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	current := r.leads[i]
	if expectedVersion != nil && *expectedVersion != current.Version {
		return nil, ErrVersionConflict
	}

	next := clone(current)
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.Version = current.Version + 1
	r.leads[i] = next
	return clone(next), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) (*models.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	deleted := r.leads[i]
	r.leads = append(r.leads[:i], r.leads[i+1:]...)
	return deleted, nil
}

func (r *MemoryRepository) Count(ctx context.Context, f Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, l := range r.leads {
		if f.Match(l) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) CountByDisposition(ctx context.Context) (map[models.Disposition]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[models.Disposition]int64{}
	for _, l := range r.leads {
		if l.CallDisposition != models.DispositionNone {
			out[l.CallDisposition]++
		}
	}
	return out, nil
}

func (r *MemoryRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[string]int64{}
	for _, l := range r.leads {
		if l.Type != "" {
			out[l.Type]++
		}
	}
	return out, nil
}
