package leads

import (
	"context"
	"errors"

	"github.com/jordanlanch/leadcrm/pkg/models"
)

var (
	// ErrNotFound is returned when no lead has the requested id
	ErrNotFound = errors.New("lead not found")
	// ErrVersionConflict is returned when the stored __v differs from the expected one
	ErrVersionConflict = errors.New("lead version conflict")
)

// Filter narrows Find and Count. Zero values match everything.
type Filter struct {
	CreatedBy         string
	AssignedTo        string
	Assigned          bool
	Unassigned        bool
	InventoryFor      string // unassigned, or assigned to this user
	ExcludeSuppressed bool
	Disposition       models.Disposition

	NewestFirst bool // order by updatedAt descending instead of insertion order
	Limit       int64
}

// Mutator edits a lead in place during Update
type Mutator func(lead *models.Lead) error

// Repository persists leads. Each Update is a read-modify-write guarded by __v.
type Repository interface {
	Insert(ctx context.Context, lead *models.Lead) error
	FindByID(ctx context.Context, id string) (*models.Lead, error)
	Find(ctx context.Context, f Filter) ([]*models.Lead, error)
	Update(ctx context.Context, id string, expectedVersion *int64, mutate Mutator) (*models.Lead, error)
	Delete(ctx context.Context, id string) (*models.Lead, error)
	Count(ctx context.Context, f Filter) (int64, error)
	CountByDisposition(ctx context.Context) (map[models.Disposition]int64, error)
	CountByType(ctx context.Context) (map[string]int64, error)
}

// Match reports whether lead satisfies the filter
func (f Filter) Match(l *models.Lead) bool {
	if f.CreatedBy != "" && l.CreatedBy != f.CreatedBy {
		return false
	}
	if f.AssignedTo != "" && l.AssignedToID() != f.AssignedTo {
		return false
	}
	if f.Assigned && !l.IsAssigned() {
		return false
	}
	if f.Unassigned && l.IsAssigned() {
		return false
	}
	if f.InventoryFor != "" && l.IsAssigned() && l.AssignedToID() != f.InventoryFor {
		return false
	}
	if f.ExcludeSuppressed && l.IsSuppressed() {
		return false
	}
	if f.Disposition != "" && l.CallDisposition != f.Disposition {
		return false
	}
	return true
}
