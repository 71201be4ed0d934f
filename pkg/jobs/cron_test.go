package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/export"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

type fakeReports struct {
	err   error
	calls int
}

func (f *fakeReports) Daily(ctx context.Context) (*export.File, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &export.File{Name: "dashboard_report_2024-06-01.csv", ContentType: "text/csv", Data: []byte("a,b\n")}, nil
}

type fakeMailer struct {
	to       []string
	filename string
	fail     bool
}

func (f *fakeMailer) SendDailyReport(ctx context.Context, to []string, filename string, report []byte) (int, error) {
	f.to = to
	f.filename = filename
	if f.fail {
		return 0, errors.New("smtp down")
	}
	return len(to), nil
}

type fakeRecipients struct {
	users []*models.User
	role  auth.Role
}

func (f *fakeRecipients) ListByRole(ctx context.Context, role auth.Role) ([]*models.User, error) {
	f.role = role
	return f.users, nil
}

type fakeWarmer struct {
	err   error
	calls int
}

func (f *fakeWarmer) Warm(ctx context.Context) (*models.Inventory, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.Inventory{NumberOfLeads: 3, UpdatedAt: time.Now()}, nil
}

func leader(email string) *models.User {
	return &models.User{ID: primitive.NewObjectID(), Email: email, Role: auth.RoleTeamLeader, Status: models.UserStatusActive}
}

func TestDailyDigest_SendsToTeamLeaders(t *testing.T) {
	reports := &fakeReports{}
	mailer := &fakeMailer{}
	recipients := &fakeRecipients{users: []*models.User{leader("a@example.com"), leader(""), leader("b@example.com")}}

	result, err := NewDailyDigest(reports, mailer, recipients, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, auth.RoleTeamLeader, recipients.role)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, mailer.to)
	assert.Equal(t, "dashboard_report_2024-06-01.csv", mailer.filename)
	assert.Equal(t, 2, result.Recipients)
	assert.Equal(t, 2, result.Delivered)
}

func TestDailyDigest_NoRecipients(t *testing.T) {
	mailer := &fakeMailer{}
	result, err := NewDailyDigest(&fakeReports{}, mailer, &fakeRecipients{}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Recipients)
	assert.Nil(t, mailer.to)
}

func TestDailyDigest_Failures(t *testing.T) {
	_, err := NewDailyDigest(&fakeReports{err: errors.New("boom")}, &fakeMailer{}, &fakeRecipients{users: []*models.User{leader("a@example.com")}}, nil).
		Run(context.Background())
	assert.Error(t, err)

	_, err = NewDailyDigest(&fakeReports{}, &fakeMailer{fail: true}, &fakeRecipients{users: []*models.User{leader("a@example.com")}}, nil).
		Run(context.Background())
	assert.Error(t, err)
}

func TestCronManager_SetupJobs(t *testing.T) {
	cm := NewCronManager(NewDailyDigest(&fakeReports{}, &fakeMailer{}, &fakeRecipients{}, nil), &fakeWarmer{}, nil)
	require.NoError(t, cm.SetupJobs())
	assert.Equal(t, 2, cm.Entries())

	cm.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	cm.Stop(ctx)
}

func TestCronManager_WarmCache(t *testing.T) {
	warmer := &fakeWarmer{}
	cm := NewCronManager(nil, warmer, nil)

	require.NoError(t, cm.WarmCache(context.Background()))
	assert.Equal(t, 1, warmer.calls)

	warmer.err = errors.New("redis down")
	assert.Error(t, cm.WarmCache(context.Background()))
}
