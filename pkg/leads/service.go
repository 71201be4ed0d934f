package leads

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/events"
	"github.com/jordanlanch/leadcrm/pkg/leadassignment"
	"github.com/jordanlanch/leadcrm/pkg/leadlifecycle"
	"github.com/jordanlanch/leadcrm/pkg/logger"
	"github.com/jordanlanch/leadcrm/pkg/metrics"
	"github.com/jordanlanch/leadcrm/pkg/models"
	"github.com/jordanlanch/leadcrm/pkg/phone"
	"github.com/jordanlanch/leadcrm/pkg/validation"
)

// Caller-facing messages
const (
	MsgNoSuchLead      = "No such lead"
	MsgVersionConflict = "Lead was modified by another request"
)

// CacheInvalidator drops derived views after a lead changes
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service runs the lead workflow: creation, listing, edits, assignment,
// dispositions and deletion. Every operation re-reads the store.
type Service struct {
	repo        Repository
	assignments *leadassignment.Service
	phone       *phone.Normalizer
	validate    *validation.Validator
	invalidator CacheInvalidator
	events      events.Publisher
	metrics     *metrics.Metrics
	logger      logger.Logger
	now         func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithPhoneNormalizer sets the normalizer used for phoneE164
func WithPhoneNormalizer(n *phone.Normalizer) Option {
	return func(s *Service) { s.phone = n }
}

// WithInvalidator sets the cache invalidated after every mutation
func WithInvalidator(inv CacheInvalidator) Option {
	return func(s *Service) { s.invalidator = inv }
}

// WithPublisher sets the domain event publisher
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithMetrics records business counters
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new lead service
func NewService(repo Repository, assignments *leadassignment.Service, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		assignments: assignments,
		phone:       phone.NewNormalizer("US"),
		validate:    validation.New(),
		events:      events.NopPublisher{},
		logger:      logger.Nop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository exposes the underlying store for read-only consumers
func (s *Service) Repository() Repository {
	return s.repo
}

// Create stores a new unassigned lead owned by actor
func (s *Service) Create(ctx context.Context, actor auth.Identity, req models.CreateLeadRequest) (*models.Lead, error) {
	if !actor.Can(auth.CapLeadCreate) {
		return nil, domain.NewForbiddenError("Forbidden")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.EmailAddress = strings.TrimSpace(req.EmailAddress)

	var empty []string
	if req.Name == "" {
		empty = append(empty, "name")
	}
	if req.PhoneNumber == "" && req.EmailAddress == "" {
		empty = append(empty, "phonenumber", "emailaddress")
	}
	if len(empty) > 0 {
		return nil, domain.NewValidationError(validation.MsgEmptyFields, empty...)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	lead := &models.Lead{
		Name:          req.Name,
		Type:          strings.TrimSpace(req.Type),
		PhoneNumber:   req.PhoneNumber,
		PhoneE164:     s.phone.E164(req.PhoneNumber),
		EmailAddress:  strings.ToLower(req.EmailAddress),
		StreetAddress: strings.TrimSpace(req.StreetAddress),
		City:          normalizeCity(req.City),
		Postcode:      strings.ToUpper(strings.TrimSpace(req.Postcode)),
		Remarks:       req.Remarks,
		CreatedBy:     actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, lead); err != nil {
		return nil, err
	}

	s.metrics.RecordLeadCreated()
	s.publish(ctx, events.ForLead(events.TypeLeadCreated, actor.ID, lead))
	s.invalidate(ctx)
	s.logger.Info("lead created", "lead_id", lead.ID.Hex(), "actor_id", actor.ID)
	return lead, nil
}

// Get returns a single lead, including suppressed ones
func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (*models.Lead, error) {
	if !actor.Can(auth.CapLeadRead) {
		return nil, domain.NewForbiddenError("Forbidden")
	}
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return lead, nil
}

// ListOwn returns the active leads actor created
func (s *Service) ListOwn(ctx context.Context, actor auth.Identity) ([]*models.Lead, error) {
	if !actor.Can(auth.CapLeadListOwn) {
		return nil, domain.NewForbiddenError("Forbidden")
	}
	return s.repo.Find(ctx, Filter{CreatedBy: actor.ID, ExcludeSuppressed: true})
}

// ListAll returns every active lead
func (s *Service) ListAll(ctx context.Context, actor auth.Identity) ([]*models.Lead, error) {
	if !actor.Can(auth.CapLeadListAll) {
		return nil, domain.NewForbiddenError("Forbidden")
	}
	return s.repo.Find(ctx, Filter{ExcludeSuppressed: true})
}

// ListInventory returns the active leads a telemarketer can work: unassigned
// ones plus those already assigned to them
func (s *Service) ListInventory(ctx context.Context, actor auth.Identity) ([]*models.Lead, error) {
	if !actor.Can(auth.CapLeadListUnassigned) {
		return nil, domain.NewForbiddenError("Forbidden")
	}
	return s.repo.Find(ctx, Filter{InventoryFor: actor.ID, ExcludeSuppressed: true})
}

// Update applies a partial edit. Contact fields, assignment and disposition
// may be mixed; all of them are checked and written in one versioned update.
func (s *Service) Update(ctx context.Context, actor auth.Identity, id string, req models.UpdateLeadRequest) (*models.Lead, error) {
	editsFields := req.HasContactChanges() || req.Remarks != nil
	if !editsFields && !req.AssignedTo.Set && req.CallDisposition == nil {
		return s.Get(ctx, actor, id)
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if req.CallDisposition != nil && !req.CallDisposition.Valid() {
		return nil, domain.NewValidationError(leadlifecycle.MsgInvalidDisposition, "callDisposition")
	}
	if editsFields && !actor.Can(auth.CapLeadEdit) {
		return nil, domain.NewForbiddenError("Forbidden")
	}
	if req.AssignedTo.Set {
		if err := s.assignments.ResolveTarget(ctx, actor, req.AssignedTo.Value); err != nil {
			return nil, err
		}
	}

	var (
		change        leadassignment.Change
		reassigned    bool
		dispositioned bool
	)
	now := s.now().UTC()

	lead, err := s.repo.Update(ctx, id, req.Version, func(l *models.Lead) error {
		reassigned, dispositioned = false, false

		// Field edits and the disposition are authorized against the
		// assignee after this request's assignment.
		if req.AssignedTo.Set && !(leadassignment.Change{From: l.AssignedTo, To: req.AssignedTo.Value}).Noop() {
			c, err := leadassignment.Decide(actor, l, req.AssignedTo.Value)
			if err != nil {
				return err
			}
			leadassignment.Apply(l, c, now)
			change, reassigned = c, true
		}
		if editsFields {
			if err := authorizeEdit(actor, l, req); err != nil {
				return err
			}
			s.applyFields(l, req)
		}
		if req.CallDisposition != nil {
			if err := leadlifecycle.Authorize(actor, l, *req.CallDisposition); err != nil {
				return err
			}
			leadlifecycle.Apply(l, *req.CallDisposition)
			dispositioned = true
		}

		l.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}

	leadID := lead.ID.Hex()
	if reassigned {
		if _, err := s.assignments.Record(ctx, leadID, actor.ID, change, now); err != nil {
			s.logger.Error("failed to record assignment history", "lead_id", leadID, "error", err)
		}
		s.metrics.RecordLeadAssigned(change.Type)
		s.publish(ctx, events.ForLead(events.TypeLeadAssigned, actor.ID, lead))
	}
	if dispositioned {
		s.metrics.RecordDisposition(string(lead.CallDisposition))
		s.publish(ctx, events.ForLead(events.TypeLeadDispositioned, actor.ID, lead))
	}
	if editsFields && !reassigned && !dispositioned {
		s.publish(ctx, events.ForLead(events.TypeLeadUpdated, actor.ID, lead))
	}
	s.invalidate(ctx)
	s.logger.Debug("lead updated", "lead_id", leadID, "state", string(StateOf(lead)), "actor_id", actor.ID)
	return lead, nil
}

// Assign sets or clears the assignee. A nil target unassigns.
func (s *Service) Assign(ctx context.Context, actor auth.Identity, id string, target *string, version *int64) (*models.Lead, error) {
	return s.Update(ctx, actor, id, models.UpdateLeadRequest{
		AssignedTo: models.OptionalID{Set: true, Value: target},
		Version:    version,
	})
}

// SetDisposition records the outcome of a call
func (s *Service) SetDisposition(ctx context.Context, actor auth.Identity, id string, d models.Disposition, version *int64) (*models.Lead, error) {
	return s.Update(ctx, actor, id, models.UpdateLeadRequest{CallDisposition: &d, Version: version})
}

// Delete permanently removes a lead and returns it
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) (*models.Lead, error) {
	if !actor.Can(auth.CapLeadDelete) {
		return nil, domain.NewForbiddenError("Forbidden")
	}
	lead, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	s.metrics.RecordLeadDeleted()
	s.publish(ctx, events.ForLead(events.TypeLeadDeleted, actor.ID, lead))
	s.invalidate(ctx)
	s.logger.Info("lead deleted", "lead_id", id, "actor_id", actor.ID)
	return lead, nil
}

// History returns the assignment history of a lead
func (s *Service) History(ctx context.Context, actor auth.Identity, id string) ([]*models.Assignment, error) {
	if !actor.Can(auth.CapLeadListAll) {
		return nil, domain.NewForbiddenError("Forbidden")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return s.assignments.History(ctx, id)
}

// authorizeEdit enforces per-role ownership on plain field edits
func authorizeEdit(actor auth.Identity, l *models.Lead, req models.UpdateLeadRequest) error {
	switch actor.Role {
	case auth.RoleTeamLeader:
		return nil
	case auth.RoleLeadGeneration:
		if l.CreatedBy == actor.ID {
			return nil
		}
	case auth.RoleTelemarketer:
		if req.OnlyRemarks() && l.AssignedToID() == actor.ID {
			return nil
		}
	}
	return domain.NewForbiddenError("Forbidden")
}

func (s *Service) applyFields(l *models.Lead, req models.UpdateLeadRequest) {
	if req.Name != nil {
		l.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		l.Type = strings.TrimSpace(*req.Type)
	}
	if req.PhoneNumber != nil {
		l.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
		l.PhoneE164 = s.phone.E164(l.PhoneNumber)
	}
	if req.EmailAddress != nil {
		l.EmailAddress = strings.ToLower(strings.TrimSpace(*req.EmailAddress))
	}
	if req.StreetAddress != nil {
		l.StreetAddress = strings.TrimSpace(*req.StreetAddress)
	}
	if req.City != nil {
		l.City = normalizeCity(*req.City)
	}
	if req.Postcode != nil {
		l.Postcode = strings.ToUpper(strings.TrimSpace(*req.Postcode))
	}
	if req.Remarks != nil {
		l.Remarks = *req.Remarks
	}
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.events.Publish(pctx, e); err != nil {
		s.logger.Warn("failed to publish event", "type", e.Type, "lead_id", e.LeadID, "error", err)
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", "error", err)
	}
}

// normalizeCity collapses whitespace and title-cases each word
func normalizeCity(city string) string {
	city = strings.Join(strings.Fields(city), " ")
	if city == "" {
		return ""
	}
	return cases.Title(language.English, cases.NoLower).String(city)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return domain.NewNotFoundError(MsgNoSuchLead)
	case errors.Is(err, ErrVersionConflict):
		return domain.NewConflictError(MsgVersionConflict)
	}
	return err
}
