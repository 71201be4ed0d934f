package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jordanlanch/leadcrm/pkg/auth"
)

// User account statuses
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User is a staff member of one of the three roles
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         auth.Role          `bson:"role" json:"role"`
	Team         string             `bson:"team,omitempty" json:"team,omitempty"`
	Status       string             `bson:"status" json:"status"`
	Birthday     *time.Time         `bson:"birthday,omitempty" json:"birthday,omitempty"`
	Number       string             `bson:"number,omitempty" json:"number,omitempty"`
	HomeAddress  string             `bson:"homeaddress,omitempty" json:"homeaddress,omitempty"`
	Gender       string             `bson:"gender,omitempty" json:"gender,omitempty"`
	ProfileImage string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsActive reports whether the user may authenticate
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Identity converts the user into the auth gate's caller identity
func (u *User) Identity() auth.Identity {
	return auth.Identity{
		ID:     u.ID.Hex(),
		Name:   u.Name,
		Email:  u.Email,
		Team:   u.Team,
		Status: u.Status,
		Role:   u.Role,
	}
}

// SignupRequest is the body of POST /api/userLG/signup
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
	Team     string `json:"team"`
}

// LoginRequest is the body of POST /api/userLG/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	ID    string    `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  auth.Role `json:"role"`
	Team  string    `json:"team,omitempty"`
	Token string    `json:"token"`
}

// UpdateUserRequest is the body of PATCH /api/userLG/:id.
// Role, Team and Status are reserved for Team Leaders.
type UpdateUserRequest struct {
	Name         *string    `json:"name,omitempty"`
	Email        *string    `json:"email,omitempty" validate:"omitempty,email"`
	Password     *string    `json:"password,omitempty" validate:"omitempty,min=8"`
	Role         *string    `json:"role,omitempty"`
	Team         *string    `json:"team,omitempty"`
	Status       *string    `json:"status,omitempty" validate:"omitempty,oneof=active disabled"`
	Birthday     *time.Time `json:"birthday,omitempty"`
	Number       *string    `json:"number,omitempty"`
	HomeAddress  *string    `json:"homeaddress,omitempty"`
	Gender       *string    `json:"gender,omitempty"`
	ProfileImage *string    `json:"profileImage,omitempty"`
}

// TouchesPrivilegedFields reports whether the update changes role, team or status
func (r *UpdateUserRequest) TouchesPrivilegedFields() bool {
	return r.Role != nil || r.Team != nil || r.Status != nil
}
