package users

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jordanlanch/leadcrm/pkg/models"
)

// MemoryRepository is an in-process Repository for tests and local runs
type MemoryRepository struct {
	mu    sync.RWMutex
	users []*models.User
}

// NewMemoryRepository creates an empty repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Insert(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = normalizeEmail(u.Email)
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID.Hex() == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = normalizeEmail(email)
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) List(ctx context.Context, f Filter) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.User{}
	for _, u := range r.users {
		if f.match(u) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = normalizeEmail(u.Email)
	idx := -1
	for i, existing := range r.users {
		if existing.ID == u.ID {
			idx = i
		} else if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	cp := *u
	r.users[idx] = &cp
	return nil
}

func (r *MemoryRepository) Count(ctx context.Context, f Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, u := range r.users {
		if f.match(u) {
			n++
		}
	}
	return n, nil
}
