package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/logger"
	"github.com/jordanlanch/leadcrm/pkg/metrics"
	"github.com/jordanlanch/leadcrm/pkg/models"
	"github.com/jordanlanch/leadcrm/pkg/validation"
)

// Caller-facing messages
const (
	MsgIncorrectLogin = "Incorrect email or password"
	MsgNoSuchUser     = "No such user"
	MsgEmailInUse     = "Email already in use"
	MsgInvalidRole    = "Role is not valid"
)

// CacheInvalidator drops derived views after the directory changes
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// TokenConfig controls issued JWTs
type TokenConfig struct {
	Secret          string
	ExpirationHours int
}

// Service is the user and role directory
type Service struct {
	repo        Repository
	tokens      TokenConfig
	blacklist   domain.TokenBlacklist
	invalidator CacheInvalidator
	validate    *validation.Validator
	metrics     *metrics.Metrics
	logger      logger.Logger
	now         func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithBlacklist enables logout by token revocation
func WithBlacklist(b domain.TokenBlacklist) Option {
	return func(s *Service) { s.blacklist = b }
}

// WithInvalidator sets the cache invalidated after signups and profile edits
func WithInvalidator(inv CacheInvalidator) Option {
	return func(s *Service) { s.invalidator = inv }
}

// WithMetrics records login and signup counters
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new user service
func NewService(repo Repository, tokens TokenConfig, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		tokens:   tokens,
		validate: validation.New(),
		logger:   logger.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup creates a staff account. Only Team Leaders may add users.
func (s *Service) Signup(ctx context.Context, actor auth.Identity, req models.SignupRequest) (*models.User, error) {
	if !actor.Can(auth.CapUserManage) {
		return nil, domain.NewForbiddenError("Forbidden")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Team = strings.TrimSpace(req.Team)
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	role, ok := auth.ParseRole(req.Role)
	if !ok {
		return nil, domain.NewValidationError(MsgInvalidRole, "role")
	}

	u, err := s.create(ctx, req.Name, req.Email, req.Password, role, req.Team)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.Info("user created", "user_id", u.ID.Hex(), "role", string(u.Role), "actor_id", actor.ID)
	return u, nil
}

func (s *Service) create(ctx context.Context, name, email, password string, role auth.Role, team string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Team:         team,
		Status:       models.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, domain.NewValidationError(MsgEmailInUse, "email")
		}
		return nil, err
	}

	s.metrics.RecordUserRegistered()
	return u, nil
}

// Login checks credentials and issues a token. Unknown, disabled and
// wrong-password accounts all get the same answer.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, *models.User, error) {
	if err := validation.Empty(map[string]string{"email": req.Email, "password": req.Password}, "email", "password"); err != nil {
		return nil, nil, err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, nil, err
	}
	if u == nil || !u.IsActive() || !auth.CheckPassword(u.PasswordHash, req.Password) {
		s.metrics.RecordLoginAttempt(false)
		return nil, nil, domain.NewUnauthorizedError(MsgIncorrectLogin)
	}

	token, err := auth.GenerateJWT(u.ID.Hex(), u.Email, u.Role, s.tokens.Secret, s.tokens.ExpirationHours)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.metrics.RecordLoginAttempt(true)
	return &models.LoginResponse{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		Team:  u.Team,
		Token: token,
	}, u, nil
}

// Logout revokes token until it would have expired
func (s *Service) Logout(ctx context.Context, token string, claims *auth.Claims) error {
	if s.blacklist == nil || claims == nil {
		return nil
	}
	return s.blacklist.Add(ctx, token, claims.RemainingTTL(s.now()))
}

// Resolve maps a token subject to an identity. Unknown and disabled users
// are rejected.
func (s *Service) Resolve(ctx context.Context, userID string) (auth.Identity, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return auth.Identity{}, err
	}
	if !u.IsActive() {
		return auth.Identity{}, ErrNotFound
	}
	return u.Identity(), nil
}

// List returns every user. Team Leaders only.
func (s *Service) List(ctx context.Context, actor auth.Identity) ([]*models.User, error) {
	if !actor.Can(auth.CapUserManage) {
		return nil, domain.NewForbiddenError("Forbidden")
	}
	return s.repo.List(ctx, Filter{})
}

// ListByRole returns active users holding role
func (s *Service) ListByRole(ctx context.Context, role auth.Role) ([]*models.User, error) {
	return s.repo.List(ctx, Filter{Role: role, ActiveOnly: true})
}

// Get returns one user. Callers may read themselves; Team Leaders anyone.
func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (*models.User, error) {
	if actor.ID != id && !actor.Can(auth.CapUserManage) {
		return nil, domain.NewForbiddenError("Forbidden")
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.NewNotFoundError(MsgNoSuchUser)
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile edits a user. Role, team and status are reserved for Team Leaders.
func (s *Service) UpdateProfile(ctx context.Context, actor auth.Identity, id string, req models.UpdateUserRequest) (*models.User, error) {
	isManager := actor.Can(auth.CapUserManage)
	if actor.ID != id && !isManager {
		return nil, domain.NewForbiddenError("Forbidden")
	}
	if req.TouchesPrivilegedFields() && !isManager {
		return nil, domain.NewForbiddenError("Forbidden")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.NewNotFoundError(MsgNoSuchUser)
		}
		return nil, err
	}

	if req.Role != nil {
		role, ok := auth.ParseRole(*req.Role)
		if !ok {
			return nil, domain.NewValidationError(MsgInvalidRole, "role")
		}
		u.Role = role
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	applyProfile(u, req)
	u.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, domain.NewValidationError(MsgEmailInUse, "email")
		}
		return nil, err
	}
	s.invalidate(ctx)
	return u, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", "error", err)
	}
}

func applyProfile(u *models.User, req models.UpdateUserRequest) {
	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		u.Email = strings.TrimSpace(*req.Email)
	}
	if req.Team != nil {
		u.Team = strings.TrimSpace(*req.Team)
	}
	if req.Status != nil {
		u.Status = *req.Status
	}
	if req.Birthday != nil {
		b := *req.Birthday
		u.Birthday = &b
	}
	if req.Number != nil {
		u.Number = *req.Number
	}
	if req.HomeAddress != nil {
		u.HomeAddress = *req.HomeAddress
	}
	if req.Gender != nil {
		u.Gender = *req.Gender
	}
	if req.ProfileImage != nil {
		u.ProfileImage = *req.ProfileImage
	}
}

// Count returns the number of users
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, Filter{})
}

// Bootstrap creates the first Team Leader when the directory is empty.
// It reports whether a user was created.
func (s *Service) Bootstrap(ctx context.Context, name, email, password string) (*models.User, bool, error) {
	if email == "" || password == "" {
		return nil, false, nil
	}

	n, err := s.repo.Count(ctx, Filter{})
	if err != nil {
		return nil, false, err
	}
	if n > 0 {
		return nil, false, nil
	}

	if len(password) < auth.MinPasswordLength {
		return nil, false, fmt.Errorf("admin password must be at least %d characters", auth.MinPasswordLength)
	}
	if name == "" {
		name = "Team Leader"
	}

	u, err := s.create(ctx, name, email, password, auth.RoleTeamLeader, "")
	if err != nil {
		return nil, false, err
	}
	s.logger.Info("bootstrapped team leader", "user_id", u.ID.Hex(), "email", u.Email)
	return u, true, nil
}
