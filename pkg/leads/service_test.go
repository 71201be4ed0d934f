package leads

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/events"
	"github.com/jordanlanch/leadcrm/pkg/leadassignment"
	"github.com/jordanlanch/leadcrm/pkg/models"
	"github.com/jordanlanch/leadcrm/pkg/users"
)

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.calls++
	return nil
}

type fixture struct {
	svc     *Service
	repo    *MemoryRepository
	history *leadassignment.MemoryHistoryStore
	events  *events.Recorder
	cache   *countingInvalidator

	lg, t1, t2, tl auth.Identity
}

func strPtr(s string) *string { return &s }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := users.NewMemoryRepository()

	add := func(name string, role auth.Role) auth.Identity {
		u := &models.User{Name: name, Email: name + "@example.com", Role: role, Status: models.UserStatusActive}
		require.NoError(t, dir.Insert(ctx, u))
		return u.Identity()
	}

	f := &fixture{
		repo:    NewMemoryRepository(),
		history: leadassignment.NewMemoryHistoryStore(),
		events:  &events.Recorder{},
		cache:   &countingInvalidator{},
		lg:      add("lg", auth.RoleLeadGeneration),
		t1:      add("t1", auth.RoleTelemarketer),
		t2:      add("t2", auth.RoleTelemarketer),
		tl:      add("tl", auth.RoleTeamLeader),
	}

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	f.svc = NewService(f.repo, leadassignment.NewService(dir, f.history),
		WithPublisher(f.events),
		WithInvalidator(f.cache),
		WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}),
	)
	return f
}

func (f *fixture) create(t *testing.T, name string) *models.Lead {
	t.Helper()
	lead, err := f.svc.Create(context.Background(), f.lg, models.CreateLeadRequest{
		Name: name, PhoneNumber: "(650) 253-0000", City: "springfield",
	})
	require.NoError(t, err)
	return lead
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lead := f.create(t, "Jane Doe")
	assert.False(t, lead.ID.IsZero())
	assert.Equal(t, f.lg.ID, lead.CreatedBy)
	assert.Nil(t, lead.AssignedTo)
	assert.Nil(t, lead.Distributed)
	assert.Equal(t, models.DispositionNone, lead.CallDisposition)
	assert.Equal(t, "+16502530000", lead.PhoneE164)
	assert.Equal(t, "Springfield", lead.City)
	assert.Equal(t, StateUnassigned, StateOf(lead))
	assert.Equal(t, []string{events.TypeLeadCreated}, f.events.Types())
	assert.Equal(t, 1, f.cache.calls)

	t.Run("missing name persists nothing", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.lg, models.CreateLeadRequest{PhoneNumber: "555-0100"})
		de, ok := domain.As(err)
		require.True(t, ok)
		assert.Equal(t, domain.ErrCodeValidation, de.Code)
		assert.Equal(t, []string{"name"}, de.Fields)

		n, _ := f.repo.Count(ctx, Filter{})
		assert.Equal(t, int64(1), n)
	})

	t.Run("needs a contact", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.lg, models.CreateLeadRequest{Name: "No Contact"})
		de, ok := domain.As(err)
		require.True(t, ok)
		assert.Equal(t, []string{"phonenumber", "emailaddress"}, de.Fields)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.lg, models.CreateLeadRequest{Name: "Bad", EmailAddress: "not-an-email"})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("telemarketer cannot create", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.t1, models.CreateLeadRequest{Name: "X", PhoneNumber: "1"})
		assert.True(t, domain.IsForbidden(err))
	})
}

func TestWorkflow_AssignThenBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.create(t, "Jane Doe")
	id := lead.ID.Hex()

	assigned, err := f.svc.Assign(ctx, f.tl, id, strPtr(f.t1.ID), nil)
	require.NoError(t, err)
	assert.Equal(t, f.t1.ID, assigned.AssignedToID())
	require.NotNil(t, assigned.Distributed)
	assert.False(t, assigned.Distributed.After(assigned.UpdatedAt))
	assert.Equal(t, StateAssigned, StateOf(assigned))

	booked, err := f.svc.SetDisposition(ctx, f.t1, id, models.DispositionBooked, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DispositionBooked, booked.CallDisposition)
	assert.Equal(t, StateDispositioned, StateOf(booked))
	assert.Equal(t, *assigned.Distributed, *booked.Distributed)

	history, err := f.svc.History(ctx, f.tl, id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, f.t1.ID, *history[0].ToUserID)
	assert.Equal(t, models.AssignmentManual, history[0].AssignmentType)

	assert.Equal(t, []string{
		events.TypeLeadCreated,
		events.TypeLeadAssigned,
		events.TypeLeadDispositioned,
	}, f.events.Types())
}

func TestUpdate_AssignUnknownUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.create(t, "Jane Doe")

	_, err := f.svc.Assign(ctx, f.tl, lead.ID.Hex(), strPtr("64b7f0c2a1b2c3d4e5f60718"), nil)
	assert.True(t, domain.IsValidation(err))

	got, err := f.repo.FindByID(ctx, lead.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, lead.Version, got.Version, "no write happened")
	assert.Zero(t, f.history.Len())
}

func TestUpdate_UnknownLead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Assign(ctx, f.tl, "64b7f0c2a1b2c3d4e5f60718", strPtr(f.t1.ID), nil)
	assert.True(t, domain.IsNotFound(err))

	_, err = f.svc.Get(ctx, f.tl, "garbage")
	assert.True(t, domain.IsNotFound(err))

	_, err = f.svc.Delete(ctx, f.tl, "64b7f0c2a1b2c3d4e5f60718")
	assert.True(t, domain.IsNotFound(err))
}

func TestUpdate_ClaimRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.create(t, "Jane Doe")
	id := lead.ID.Hex()

	claimed, err := f.svc.Assign(ctx, f.t1, id, strPtr(f.t1.ID), nil)
	require.NoError(t, err)
	assert.Equal(t, f.t1.ID, claimed.AssignedToID())

	_, err = f.svc.Assign(ctx, f.t2, id, strPtr(f.t2.ID), nil)
	assert.True(t, domain.IsConflict(err))

	_, err = f.svc.SetDisposition(ctx, f.t2, id, models.DispositionBooked, nil)
	assert.True(t, domain.IsForbidden(err), "only the assignee records outcomes")

	history, err := f.svc.History(ctx, f.tl, id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.AssignmentClaim, history[0].AssignmentType)
}

func TestUpdate_ClaimAndDispositionTogether(t *testing.T) {
	f := newFixture(t)
	lead := f.create(t, "Walk In")
	d := models.DispositionWarmLead

	got, err := f.svc.Update(context.Background(), f.t1, lead.ID.Hex(), models.UpdateLeadRequest{
		AssignedTo:      models.OptionalID{Set: true, Value: strPtr(f.t1.ID)},
		CallDisposition: &d,
	})
	require.NoError(t, err)
	assert.Equal(t, f.t1.ID, got.AssignedToID())
	assert.Equal(t, d, got.CallDisposition)
	assert.Equal(t, int64(1), got.Version, "a single write")
}

func TestUpdate_ClaimAndRemarksTogether(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.create(t, "Walk In")

	got, err := f.svc.Update(ctx, f.t1, lead.ID.Hex(), models.UpdateLeadRequest{
		AssignedTo: models.OptionalID{Set: true, Value: strPtr(f.t1.ID)},
		Remarks:    strPtr("call after 5pm"),
	})
	require.NoError(t, err)
	assert.Equal(t, f.t1.ID, got.AssignedToID())
	assert.Equal(t, "call after 5pm", got.Remarks)
	assert.Equal(t, int64(1), got.Version)

	_, err = f.svc.Update(ctx, f.t2, lead.ID.Hex(), models.UpdateLeadRequest{
		AssignedTo: models.OptionalID{Set: true, Value: strPtr(f.t2.ID)},
		Remarks:    strPtr("mine now"),
	})
	assert.True(t, domain.IsConflict(err))

	stored, err := f.repo.FindByID(ctx, lead.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "call after 5pm", stored.Remarks)
}

func TestUpdate_UnchangedAssigneeSkipsAssignmentRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.create(t, "Jane Doe")
	id := lead.ID.Hex()

	got, err := f.svc.Update(ctx, f.lg, id, models.UpdateLeadRequest{
		Name:       strPtr("Jane Smith"),
		Remarks:    strPtr("prefers email"),
		AssignedTo: models.OptionalID{Set: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", got.Name)
	assert.Nil(t, got.AssignedTo)

	_, err = f.svc.Assign(ctx, f.tl, id, strPtr(f.t1.ID), nil)
	require.NoError(t, err)

	got, err = f.svc.Update(ctx, f.t1, id, models.UpdateLeadRequest{
		Remarks:    strPtr("left voicemail"),
		AssignedTo: models.OptionalID{Set: true, Value: strPtr(f.t1.ID)},
	})
	require.NoError(t, err)
	assert.Equal(t, "left voicemail", got.Remarks)

	history, err := f.svc.History(ctx, f.tl, id)
	require.NoError(t, err)
	assert.Len(t, history, 1, "unchanged assignee records no history")
}

func TestUpdate_FieldPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.create(t, "Jane Doe")
	id := lead.ID.Hex()

	updated, err := f.svc.Update(ctx, f.lg, id, models.UpdateLeadRequest{City: strPtr("  north   haven ")})
	require.NoError(t, err)
	assert.Equal(t, "North Haven", updated.City)

	other := auth.Identity{ID: "someone-else", Role: auth.RoleLeadGeneration}
	_, err = f.svc.Update(ctx, other, id, models.UpdateLeadRequest{Name: strPtr("Hijack")})
	assert.True(t, domain.IsForbidden(err))

	_, err = f.svc.Update(ctx, f.t1, id, models.UpdateLeadRequest{Remarks: strPtr("called")})
	assert.True(t, domain.IsForbidden(err), "not assigned to t1 yet")

	_, err = f.svc.Assign(ctx, f.tl, id, strPtr(f.t1.ID), nil)
	require.NoError(t, err)

	noted, err := f.svc.Update(ctx, f.t1, id, models.UpdateLeadRequest{Remarks: strPtr("called")})
	require.NoError(t, err)
	assert.Equal(t, "called", noted.Remarks)

	_, err = f.svc.Update(ctx, f.t1, id, models.UpdateLeadRequest{Name: strPtr("Renamed")})
	assert.True(t, domain.IsForbidden(err))

	_, err = f.svc.Update(ctx, f.tl, id, models.UpdateLeadRequest{EmailAddress: strPtr("bad")})
	assert.True(t, domain.IsValidation(err))
}

func TestUpdate_EmptyBodyIsNoop(t *testing.T) {
	f := newFixture(t)
	lead := f.create(t, "Jane Doe")

	got, err := f.svc.Update(context.Background(), f.tl, lead.ID.Hex(), models.UpdateLeadRequest{})
	require.NoError(t, err)
	assert.Equal(t, lead.Version, got.Version)
	assert.Equal(t, lead.UpdatedAt, got.UpdatedAt)
}

func TestUpdate_VersionConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.create(t, "Jane Doe")
	stale := lead.Version

	_, err := f.svc.Update(ctx, f.tl, lead.ID.Hex(), models.UpdateLeadRequest{Remarks: strPtr("first"), Version: &stale})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.tl, lead.ID.Hex(), models.UpdateLeadRequest{Remarks: strPtr("second"), Version: &stale})
	de, ok := domain.As(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrCodeConflict, de.Code)
	assert.Equal(t, MsgVersionConflict, de.Message)
}

func TestInvalidDisposition(t *testing.T) {
	f := newFixture(t)
	lead := f.create(t, "Jane Doe")

	_, err := f.svc.SetDisposition(context.Background(), f.tl, lead.ID.Hex(), models.Disposition("Maybe"), nil)
	de, ok := domain.As(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrCodeValidation, de.Code)
}

func TestDoNotCallIsSuppressed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keep := f.create(t, "Keep")
	drop := f.create(t, "Drop")

	_, err := f.svc.SetDisposition(ctx, f.tl, drop.ID.Hex(), models.DispositionDoNotCall, nil)
	require.NoError(t, err)

	for name, list := range map[string]func() ([]*models.Lead, error){
		"own":       func() ([]*models.Lead, error) { return f.svc.ListOwn(ctx, f.lg) },
		"all":       func() ([]*models.Lead, error) { return f.svc.ListAll(ctx, f.tl) },
		"inventory": func() ([]*models.Lead, error) { return f.svc.ListInventory(ctx, f.t1) },
	} {
		got, err := list()
		require.NoError(t, err, name)
		require.Len(t, got, 1, name)
		assert.Equal(t, keep.ID, got[0].ID, name)
	}

	still, err := f.svc.Get(ctx, f.tl, drop.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, StateSuppressed, StateOf(still))
}

func TestListInventory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mine := f.create(t, "Mine")
	theirs := f.create(t, "Theirs")
	open := f.create(t, "Open")

	_, err := f.svc.Assign(ctx, f.tl, mine.ID.Hex(), strPtr(f.t1.ID), nil)
	require.NoError(t, err)
	_, err = f.svc.Assign(ctx, f.tl, theirs.ID.Hex(), strPtr(f.t2.ID), nil)
	require.NoError(t, err)

	got, err := f.svc.ListInventory(ctx, f.t1)
	require.NoError(t, err)
	ids := []string{}
	for _, l := range got {
		ids = append(ids, l.ID.Hex())
	}
	assert.ElementsMatch(t, []string{mine.ID.Hex(), open.ID.Hex()}, ids)

	_, err = f.svc.ListAll(ctx, f.t1)
	assert.True(t, domain.IsForbidden(err))
}

func TestUnassignKeepsDistributed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.create(t, "Jane Doe")
	id := lead.ID.Hex()

	assigned, err := f.svc.Assign(ctx, f.tl, id, strPtr(f.t1.ID), nil)
	require.NoError(t, err)

	cleared, err := f.svc.Assign(ctx, f.tl, id, nil, nil)
	require.NoError(t, err)
	assert.False(t, cleared.IsAssigned())
	require.NotNil(t, cleared.Distributed)
	assert.Equal(t, *assigned.Distributed, *cleared.Distributed)
	assert.Equal(t, 2, f.history.Len())
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.create(t, "Jane Doe")

	_, err := f.svc.Delete(ctx, f.t1, lead.ID.Hex())
	assert.True(t, domain.IsForbidden(err))

	deleted, err := f.svc.Delete(ctx, f.tl, lead.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, lead.ID, deleted.ID)

	_, err = f.svc.Get(ctx, f.tl, lead.ID.Hex())
	assert.True(t, domain.IsNotFound(err))
	assert.Contains(t, f.events.Types(), events.TypeLeadDeleted)
}
