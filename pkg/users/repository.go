package users

import (
	"context"
	"errors"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

var (
	// ErrNotFound is returned when no user matches
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the email is already registered
	ErrDuplicateEmail = errors.New("email already in use")
)

// Filter narrows List and Count. Zero values match everything.
type Filter struct {
	Role       auth.Role
	ActiveOnly bool
}

// Repository persists users
type Repository interface {
	Insert(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, f Filter) ([]*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Count(ctx context.Context, f Filter) (int64, error)
}

func (f Filter) match(u *models.User) bool {
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.ActiveOnly && !u.IsActive() {
		return false
	}
	return true
}
