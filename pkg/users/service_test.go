package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

const testSecret = "test-secret-key-minimum-32-characters-long"

type memBlacklist map[string]time.Duration

func (m memBlacklist) Add(ctx context.Context, token string, exp time.Duration) error {
	m[token] = exp
	return nil
}

func (m memBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	_, ok := m[token]
	return ok, nil
}

func setupService(t *testing.T) (*Service, *MemoryRepository, auth.Identity) {
	t.Helper()
	repo := NewMemoryRepository()
	svc := NewService(repo, TokenConfig{Secret: testSecret, ExpirationHours: 1})

	tl, created, err := svc.Bootstrap(context.Background(), "Tess Leader", "tl@example.com", "leader-pass")
	require.NoError(t, err)
	require.True(t, created)
	return svc, repo, tl.Identity()
}

func TestBootstrap_OnlyWhenEmpty(t *testing.T) {
	svc, repo, tl := setupService(t)
	assert.Equal(t, auth.RoleTeamLeader, tl.Role)

	_, created, err := svc.Bootstrap(context.Background(), "Other", "other@example.com", "other-pass")
	require.NoError(t, err)
	assert.False(t, created)

	n, _ := repo.Count(context.Background(), Filter{})
	assert.Equal(t, int64(1), n)
}

func TestBootstrap_SkipsWithoutCredentials(t *testing.T) {
	svc := NewService(NewMemoryRepository(), TokenConfig{Secret: testSecret, ExpirationHours: 1})
	_, created, err := svc.Bootstrap(context.Background(), "", "", "")
	assert.NoError(t, err)
	assert.False(t, created)
}

func TestSignup(t *testing.T) {
	svc, _, tl := setupService(t)
	ctx := context.Background()

	t.Run("creates telemarketer", func(t *testing.T) {
		u, err := svc.Signup(ctx, tl, models.SignupRequest{
			Name: "Tom Caller", Email: "Tom@Example.com", Password: "caller-pass", Role: "Telemarketer", Team: "North",
		})
		require.NoError(t, err)
		assert.Equal(t, "tom@example.com", u.Email)
		assert.Equal(t, auth.RoleTelemarketer, u.Role)
		assert.Equal(t, models.UserStatusActive, u.Status)
		assert.NotEqual(t, "caller-pass", u.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Signup(ctx, tl, models.SignupRequest{
			Name: "Tom Again", Email: "tom@example.com", Password: "caller-pass", Role: "Telemarketer",
		})
		de, ok := domain.As(err)
		require.True(t, ok)
		assert.Equal(t, MsgEmailInUse, de.Message)
	})

	t.Run("empty fields", func(t *testing.T) {
		_, err := svc.Signup(ctx, tl, models.SignupRequest{Email: "x@example.com"})
		de, ok := domain.As(err)
		require.True(t, ok)
		assert.Equal(t, []string{"name", "password", "role"}, de.Fields)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.Signup(ctx, tl, models.SignupRequest{
			Name: "Ann", Email: "ann@example.com", Password: "long-enough", Role: "Admin",
		})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("non team leader forbidden", func(t *testing.T) {
		agent := auth.Identity{ID: "x", Role: auth.RoleTelemarketer}
		_, err := svc.Signup(ctx, agent, models.SignupRequest{
			Name: "Ann", Email: "ann@example.com", Password: "long-enough", Role: "Telemarketer",
		})
		assert.True(t, domain.IsForbidden(err))
	})
}

func TestLogin(t *testing.T) {
	svc, _, tl := setupService(t)
	ctx := context.Background()

	resp, u, err := svc.Login(ctx, models.LoginRequest{Email: "TL@example.com", Password: "leader-pass"})
	require.NoError(t, err)
	assert.Equal(t, tl.ID, resp.ID)
	assert.Equal(t, auth.RoleTeamLeader, resp.Role)
	assert.Equal(t, tl.ID, u.ID.Hex())

	claims, err := auth.ValidateJWT(resp.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, tl.ID, claims.UserID)

	for _, bad := range []models.LoginRequest{
		{Email: "tl@example.com", Password: "wrong-pass"},
		{Email: "nobody@example.com", Password: "leader-pass"},
	} {
		_, _, err := svc.Login(ctx, bad)
		de, ok := domain.As(err)
		require.True(t, ok)
		assert.Equal(t, domain.ErrCodeUnauthorized, de.Code)
		assert.Equal(t, MsgIncorrectLogin, de.Message)
	}

	_, _, err = svc.Login(ctx, models.LoginRequest{})
	assert.True(t, domain.IsValidation(err))
}

func TestLogin_DisabledUser(t *testing.T) {
	svc, _, tl := setupService(t)
	ctx := context.Background()

	agent, err := svc.Signup(ctx, tl, models.SignupRequest{
		Name: "Dee", Email: "dee@example.com", Password: "caller-pass", Role: "Telemarketer",
	})
	require.NoError(t, err)

	disabled := models.UserStatusDisabled
	_, err = svc.UpdateProfile(ctx, tl, agent.ID.Hex(), models.UpdateUserRequest{Status: &disabled})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, models.LoginRequest{Email: "dee@example.com", Password: "caller-pass"})
	assert.True(t, domain.IsUnauthorized(err))

	_, err = svc.Resolve(ctx, agent.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogout(t *testing.T) {
	bl := memBlacklist{}
	repo := NewMemoryRepository()
	svc := NewService(repo, TokenConfig{Secret: testSecret, ExpirationHours: 1}, WithBlacklist(bl))
	_, _, err := svc.Bootstrap(context.Background(), "TL", "tl@example.com", "leader-pass")
	require.NoError(t, err)

	resp, _, err := svc.Login(context.Background(), models.LoginRequest{Email: "tl@example.com", Password: "leader-pass"})
	require.NoError(t, err)
	claims, err := auth.ValidateJWT(resp.Token, testSecret)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.Token, claims))
	assert.Contains(t, bl, resp.Token)
	assert.True(t, bl[resp.Token] > 0 && bl[resp.Token] <= time.Hour)
}

func TestUpdateProfile_Permissions(t *testing.T) {
	svc, _, tl := setupService(t)
	ctx := context.Background()

	agentUser, err := svc.Signup(ctx, tl, models.SignupRequest{
		Name: "Ava", Email: "ava@example.com", Password: "caller-pass", Role: "Telemarketer",
	})
	require.NoError(t, err)
	agent := agentUser.Identity()

	number := "555-0100"
	u, err := svc.UpdateProfile(ctx, agent, agent.ID, models.UpdateUserRequest{Number: &number})
	require.NoError(t, err)
	assert.Equal(t, number, u.Number)

	role := "Team Leader"
	_, err = svc.UpdateProfile(ctx, agent, agent.ID, models.UpdateUserRequest{Role: &role})
	assert.True(t, domain.IsForbidden(err), "self-promotion is forbidden")

	_, err = svc.UpdateProfile(ctx, agent, tl.ID, models.UpdateUserRequest{Number: &number})
	assert.True(t, domain.IsForbidden(err), "editing someone else is forbidden")

	team := "South"
	u, err = svc.UpdateProfile(ctx, tl, agent.ID, models.UpdateUserRequest{Team: &team})
	require.NoError(t, err)
	assert.Equal(t, "South", u.Team)

	bogus := "Boss"
	_, err = svc.UpdateProfile(ctx, tl, agent.ID, models.UpdateUserRequest{Role: &bogus})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.UpdateProfile(ctx, tl, "64b7f0c2a1b2c3d4e5f60718", models.UpdateUserRequest{Team: &team})
	assert.True(t, domain.IsNotFound(err))
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.calls++
	return nil
}

func TestDirectoryChangesInvalidateDashboard(t *testing.T) {
	ctx := context.Background()
	inv := &countingInvalidator{}
	svc := NewService(NewMemoryRepository(), TokenConfig{Secret: testSecret, ExpirationHours: 1}, WithInvalidator(inv))

	tl, _, err := svc.Bootstrap(ctx, "Tess Leader", "tl@example.com", "leader-pass")
	require.NoError(t, err)

	agent, err := svc.Signup(ctx, tl.Identity(), models.SignupRequest{
		Name: "Ava", Email: "ava@example.com", Password: "caller-pass", Role: "Telemarketer",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inv.calls)

	name := "Ava Stone"
	_, err = svc.UpdateProfile(ctx, tl.Identity(), agent.ID.Hex(), models.UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, 2, inv.calls)

	role := "Boss"
	_, err = svc.UpdateProfile(ctx, tl.Identity(), agent.ID.Hex(), models.UpdateUserRequest{Role: &role})
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, 2, inv.calls, "failed edits leave the cache alone")
}

func TestGetAndList(t *testing.T) {
	svc, _, tl := setupService(t)
	ctx := context.Background()

	agentUser, err := svc.Signup(ctx, tl, models.SignupRequest{
		Name: "Ava", Email: "ava@example.com", Password: "caller-pass", Role: "Telemarketer",
	})
	require.NoError(t, err)
	agent := agentUser.Identity()

	self, err := svc.Get(ctx, agent, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ava", self.Name)

	_, err = svc.Get(ctx, agent, tl.ID)
	assert.True(t, domain.IsForbidden(err))

	_, err = svc.Get(ctx, tl, "not-an-id")
	assert.True(t, domain.IsNotFound(err))

	all, err := svc.List(ctx, tl)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.List(ctx, agent)
	assert.True(t, domain.IsForbidden(err))

	tms, err := svc.ListByRole(ctx, auth.RoleTelemarketer)
	require.NoError(t, err)
	require.Len(t, tms, 1)
	assert.Equal(t, agent.ID, tms[0].ID.Hex())
}
