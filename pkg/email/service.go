// Package email sends correspondence to leads and the daily dashboard digest.
package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/events"
	"github.com/jordanlanch/leadcrm/pkg/leads"
	"github.com/jordanlanch/leadcrm/pkg/logger"
	"github.com/jordanlanch/leadcrm/pkg/metrics"
	"github.com/jordanlanch/leadcrm/pkg/models"
	"github.com/jordanlanch/leadcrm/pkg/validation"
)

// MsgSendFailed is returned when the provider rejects a message
const MsgSendFailed = "Email could not be sent"

// LeadFinder checks the lead an email refers to
type LeadFinder interface {
	FindByID(ctx context.Context, id string) (*models.Lead, error)
}

// CacheInvalidator drops derived dashboard views
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service handles outbound email
type Service struct {
	sender      Sender
	store       Store
	leads       LeadFinder
	fromEmail   string
	fromName    string
	validate    *validation.Validator
	events      events.Publisher
	invalidator CacheInvalidator
	metrics     *metrics.Metrics
	logger      logger.Logger
	now         func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithLeadFinder enables leadId checks
func WithLeadFinder(f LeadFinder) Option {
	return func(s *Service) { s.leads = f }
}

// WithSystemSender sets the address used for system mail such as the digest
func WithSystemSender(email, name string) Option {
	return func(s *Service) {
		s.fromEmail = email
		s.fromName = name
	}
}

// WithPublisher sets the domain event publisher
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithInvalidator sets the cache invalidated after each send
func WithInvalidator(inv CacheInvalidator) Option {
	return func(s *Service) { s.invalidator = inv }
}

// WithMetrics records sent emails
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

// NewService creates a new email service
func NewService(sender Sender, store Store, opts ...Option) *Service {
	s := &Service{
		sender:   sender,
		store:    store,
		fromName: "Lead CRM",
		validate: validation.New(),
		events:   events.NopPublisher{},
		logger:   logger.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send delivers a message and records it once the provider accepts it
func (s *Service) Send(ctx context.Context, actor auth.Identity, req models.SendEmailRequest) (*models.Email, error) {
	if !actor.Can(auth.CapEmailSend) {
		return nil, domain.NewForbiddenError("Forbidden")
	}

	req.From = strings.TrimSpace(req.From)
	req.To = strings.TrimSpace(req.To)
	req.Subject = strings.TrimSpace(req.Subject)
	req.LeadID = strings.TrimSpace(req.LeadID)

	err := validation.Empty(map[string]string{
		"from": req.From, "to": req.To, "subject": req.Subject, "text": req.Text,
	}, "from", "to", "subject", "text")
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	if req.LeadID != "" && s.leads != nil {
		if _, err := s.leads.FindByID(ctx, req.LeadID); err != nil {
			if errors.Is(err, leads.ErrNotFound) {
				return nil, domain.NewNotFoundError(leads.MsgNoSuchLead)
			}
			return nil, fmt.Errorf("failed to fetch lead: %w", err)
		}
	}

	msg := Message{From: req.From, To: req.To, Subject: req.Subject, Text: req.Text}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("email send failed", "provider", s.sender.Provider(), "to", req.To, "error", err)
		return nil, &domain.DomainError{Code: domain.ErrCodeInternal, Message: MsgSendFailed, Err: err}
	}

	record := &models.Email{
		From:      req.From,
		To:        req.To,
		Subject:   req.Subject,
		Text:      req.Text,
		LeadID:    req.LeadID,
		SentBy:    actor.ID,
		Provider:  s.sender.Provider(),
		CreatedAt: s.now().UTC(),
	}
	// Delivery has happened by now, so insert failures are only logged.
	if err := s.store.Insert(ctx, record); err != nil {
		s.logger.Error("email sent but not recorded", "provider", record.Provider, "to", record.To, "error", err)
	}

	s.metrics.RecordEmailSent(record.Provider)
	s.publish(ctx, events.Event{
		Type:       events.TypeEmailSent,
		LeadID:     record.LeadID,
		ActorID:    actor.ID,
		OccurredAt: record.CreatedAt,
	})
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx); err != nil {
			s.logger.Warn("failed to invalidate dashboard cache", "error", err)
		}
	}
	return record, nil
}

// List returns every record, newest first
func (s *Service) List(ctx context.Context, actor auth.Identity) ([]*models.Email, error) {
	if !actor.Can(auth.CapDashboardView) {
		return nil, domain.NewForbiddenError("Forbidden")
	}
	return s.store.List(ctx)
}

// Count returns the number of stored records
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// SendDailyReport mails the dashboard report to each recipient. Digest
// mail is not recorded as correspondence. It returns the number of
// recipients reached and the last error seen.
func (s *Service) SendDailyReport(ctx context.Context, to []string, filename string, report []byte) (int, error) {
	date := s.now().UTC().Format("2006-01-02")
	var (
		sent    int
		lastErr error
	)
	for _, addr := range to {
		msg := Message{
			FromName: s.fromName,
			From:     s.fromEmail,
			To:       addr,
			Subject:  "Daily dashboard report " + date,
			Text:     "The dashboard report as of " + date + " is attached.",
			Attachments: []Attachment{{
				Filename:    filename,
				ContentType: "text/csv",
				Data:        report,
			}},
		}
		if err := s.sender.Send(ctx, msg); err != nil {
			s.logger.Error("daily report send failed", "to", addr, "error", err)
			lastErr = err
			continue
		}
		s.metrics.RecordEmailSent(s.sender.Provider())
		sent++
	}
	return sent, lastErr
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.events.Publish(pctx, e); err != nil {
		s.logger.Warn("failed to publish event", "type", e.Type, "error", err)
	}
}
