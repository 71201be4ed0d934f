package leadassignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/models"
	"github.com/jordanlanch/leadcrm/pkg/users"
)

// Directory resolves assignment targets.
type Directory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Change describes a transition of a lead's assignee.
type Change struct {
	Type string
	From *string
	To   *string
}

// Noop reports whether the change leaves the assignee untouched.
func (c Change) Noop() bool {
	return ptrValue(c.From) == ptrValue(c.To)
}

// Service handles lead assignment rules and history.
type Service struct {
	users   Directory
	history HistoryStore
}

// NewService creates a new lead assignment service.
func NewService(users Directory, history HistoryStore) *Service {
	return &Service{users: users, history: history}
}

// ResolveTarget checks that the requested assignee may receive leads.
// A nil target means unassign and needs no lookup.
func (s *Service) ResolveTarget(ctx context.Context, actor auth.Identity, target *string) error {
	if target == nil {
		return nil
	}
	if *target == actor.ID && actor.Role == auth.RoleTelemarketer {
		return nil
	}

	u, err := s.users.FindByID(ctx, *target)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return domain.NewValidationError("Assignee must be an active Telemarketer", "assignedTo")
		}
		return fmt.Errorf("failed to fetch assignee: %w", err)
	}
	if u.Role != auth.RoleTelemarketer || !u.IsActive() {
		return domain.NewValidationError("Assignee must be an active Telemarketer", "assignedTo")
	}
	return nil
}

// Decide works out what kind of assignment actor is performing on lead.
// Team Leaders assign, reassign and unassign freely. Telemarketers may only
// claim an unassigned lead for themselves.
func Decide(actor auth.Identity, lead *models.Lead, target *string) (Change, error) {
	change := Change{From: lead.AssignedTo, To: target}

	switch {
	case actor.Can(auth.CapLeadAssign):
		change.Type = models.AssignmentManual
		if target == nil {
			change.Type = models.AssignmentUnassign
		}
		return change, nil

	case actor.Can(auth.CapLeadClaim):
		if target == nil || *target != actor.ID {
			return Change{}, domain.NewForbiddenError("Forbidden")
		}
		if lead.IsAssigned() && lead.AssignedToID() != actor.ID {
			return Change{}, domain.NewConflictError("Lead is already assigned")
		}
		change.Type = models.AssignmentClaim
		return change, nil
	}

	return Change{}, domain.NewForbiddenError("Forbidden")
}

// Apply writes change onto lead. Distributed is stamped only when the lead
// goes from having no assignee to having one.
func Apply(lead *models.Lead, change Change, now time.Time) {
	wasAssigned := lead.IsAssigned()
	if change.To == nil {
		lead.AssignedTo = nil
		return
	}

	to := *change.To
	lead.AssignedTo = &to
	if !wasAssigned || lead.Distributed == nil {
		at := now
		lead.Distributed = &at
	}
}

// Record appends a history entry for a completed change.
func (s *Service) Record(ctx context.Context, leadID, actorID string, change Change, at time.Time) (*models.Assignment, error) {
	a := &models.Assignment{
		LeadID:         leadID,
		FromUserID:     copyPtr(change.From),
		ToUserID:       copyPtr(change.To),
		AssignedBy:     actorID,
		AssignmentType: change.Type,
		AssignedAt:     at,
	}
	if err := s.history.Record(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// History returns the assignment history of a lead, oldest first.
func (s *Service) History(ctx context.Context, leadID string) ([]*models.Assignment, error) {
	return s.history.ListByLead(ctx, leadID)
}

func ptrValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func copyPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
