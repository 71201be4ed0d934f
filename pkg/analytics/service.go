// Package analytics computes the team leader dashboard: lead inventory,
// recent bookings and per-telemarketer booked units.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/cache"
	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/leads"
	"github.com/jordanlanch/leadcrm/pkg/logger"
	"github.com/jordanlanch/leadcrm/pkg/metrics"
	"github.com/jordanlanch/leadcrm/pkg/models"
	"github.com/jordanlanch/leadcrm/pkg/users"
)

// Cache keys. Everything under CachePrefix is dropped on invalidation.
const (
	CachePrefix          = "dashboard:"
	inventoryCacheKey    = CachePrefix + "inventory"
	bookedUnitsCacheKey  = CachePrefix + "booked-units"
	DefaultBookingsLimit = 10
)

// LeadSource is the read side of the lead store
type LeadSource interface {
	Find(ctx context.Context, f leads.Filter) ([]*models.Lead, error)
	Count(ctx context.Context, f leads.Filter) (int64, error)
	CountByDisposition(ctx context.Context) (map[models.Disposition]int64, error)
	CountByType(ctx context.Context) (map[string]int64, error)
}

// UserSource is the read side of the user directory
type UserSource interface {
	List(ctx context.Context, f users.Filter) ([]*models.User, error)
	Count(ctx context.Context, f users.Filter) (int64, error)
}

// EmailCounter counts stored correspondence
type EmailCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Service handles dashboard aggregation
type Service struct {
	leads   LeadSource
	users   UserSource
	emails  EmailCounter
	cache   domain.CacheRepository
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  logger.Logger
	now     func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithCache caches snapshots for ttl. A zero ttl disables caching.
func WithCache(c domain.CacheRepository, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.ttl = ttl
	}
}

// WithMetrics records cache hits and misses
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

// NewService creates a new analytics service
func NewService(leadSrc LeadSource, userSrc UserSource, emails EmailCounter, opts ...Option) *Service {
	s := &Service{
		leads:  leadSrc,
		users:  userSrc,
		emails: emails,
		logger: logger.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func authorize(actor auth.Identity) error {
	if !actor.Can(auth.CapDashboardView) {
		return domain.NewForbiddenError("Forbidden")
	}
	return nil
}

// Inventory returns the headline counts
func (s *Service) Inventory(ctx context.Context, actor auth.Identity) (*models.Inventory, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	return s.Snapshot(ctx)
}

// Snapshot returns the inventory without an access check. It serves the
// cache when possible.
func (s *Service) Snapshot(ctx context.Context) (*models.Inventory, error) {
	var inv models.Inventory
	if s.fromCache(ctx, inventoryCacheKey, "inventory", &inv) {
		return &inv, nil
	}

	fresh, err := s.computeInventory(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, inventoryCacheKey, fresh)
	return fresh, nil
}

func (s *Service) computeInventory(ctx context.Context) (*models.Inventory, error) {
	total, err := s.leads.Count(ctx, leads.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}
	assigned, err := s.leads.Count(ctx, leads.Filter{Assigned: true})
	if err != nil {
		return nil, fmt.Errorf("failed to count assigned leads: %w", err)
	}
	userCount, err := s.users.Count(ctx, users.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	emailCount, err := s.emails.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count emails: %w", err)
	}
	byDisposition, err := s.leads.CountByDisposition(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count dispositions: %w", err)
	}
	byType, err := s.leads.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count lead types: %w", err)
	}

	return &models.Inventory{
		NumberOfLeads:           total,
		NumberOfUsers:           userCount,
		NumberOfAssignedLeads:   assigned,
		NumberOfUnassignedLeads: total - assigned,
		NumberOfEmails:          emailCount,
		CallDispositionCounts:   DispositionCounts(byDisposition),
		TypeCounts:              byType,
		UpdatedAt:               s.now().UTC(),
	}, nil
}

// RecentBookings returns up to limit booked leads, newest first
func (s *Service) RecentBookings(ctx context.Context, actor auth.Identity, limit int) ([]models.Booking, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	return s.bookings(ctx, limit)
}

func (s *Service) bookings(ctx context.Context, limit int) ([]models.Booking, error) {
	f := leads.Filter{Disposition: models.DispositionBooked, NewestFirst: true}
	if limit > 0 {
		f.Limit = int64(limit)
	}
	booked, err := s.leads.Find(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	names, err := s.telemarketerNames(ctx)
	if err != nil {
		return nil, err
	}
	return BuildBookings(booked, names), nil
}

func (s *Service) telemarketerNames(ctx context.Context) (map[string]string, error) {
	all, err := s.users.List(ctx, users.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	names := make(map[string]string, len(all))
	for _, u := range all {
		names[u.ID.Hex()] = u.Name
	}
	return names, nil
}

// BookedUnitsPerformance ranks active telemarketers by booked leads
func (s *Service) BookedUnitsPerformance(ctx context.Context, actor auth.Identity) ([]models.BookedUnits, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	var rows []models.BookedUnits
	if s.fromCache(ctx, bookedUnitsCacheKey, "booked_units", &rows) {
		return rows, nil
	}

	all, err := s.bookings(ctx, 0)
	if err != nil {
		return nil, err
	}
	tms, err := s.users.List(ctx, users.Filter{Role: auth.RoleTelemarketer, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list telemarketers: %w", err)
	}

	rows = BuildBookedUnits(tms, all)
	s.toCache(ctx, bookedUnitsCacheKey, rows)
	return rows, nil
}

// Report gathers the data behind the dashboard export
func (s *Service) Report(ctx context.Context, actor auth.Identity, bookingsLimit int) (*models.Inventory, []models.Booking, error) {
	if err := authorize(actor); err != nil {
		return nil, nil, err
	}
	return s.ReportData(ctx, bookingsLimit)
}

// ReportData is Report without the access check, for scheduled jobs
func (s *Service) ReportData(ctx context.Context, bookingsLimit int) (*models.Inventory, []models.Booking, error) {
	inv, err := s.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	bookings, err := s.bookings(ctx, bookingsLimit)
	if err != nil {
		return nil, nil, err
	}
	return inv, bookings, nil
}

// Invalidate drops every cached dashboard view
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if _, err := s.cache.DeletePattern(ctx, CachePrefix+"*"); err != nil {
		return fmt.Errorf("failed to invalidate dashboard cache: %w", err)
	}
	return nil
}

// Warm recomputes and caches the inventory
func (s *Service) Warm(ctx context.Context) (*models.Inventory, error) {
	inv, err := s.computeInventory(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, inventoryCacheKey, inv)
	return inv, nil
}

func (s *Service) fromCache(ctx context.Context, key, cacheType string, v interface{}) bool {
	if s.cache == nil || s.ttl <= 0 {
		return false
	}
	err := s.cache.GetJSON(ctx, key, v)
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("dashboard cache read failed", "key", key, "error", err)
	}
	s.metrics.RecordCache(cacheType, err == nil)
	return err == nil
}

func (s *Service) toCache(ctx context.Context, key string, v interface{}) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, key, v, s.ttl); err != nil {
		s.logger.Warn("dashboard cache write failed", "key", key, "error", err)
	}
}
