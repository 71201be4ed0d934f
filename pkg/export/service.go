// Package export renders the dashboard report as CSV or Excel.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/backup"
	"github.com/jordanlanch/leadcrm/pkg/domain"
	"github.com/jordanlanch/leadcrm/pkg/logger"
	"github.com/jordanlanch/leadcrm/pkg/metrics"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

// Format is a report file format
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

// ParseFormat accepts csv, excel and xlsx; empty means csv
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	}
	return "", domain.NewValidationError("Format must be csv or excel", "format")
}

// ContentType returns the MIME type of f
func (f Format) ContentType() string {
	if f == FormatExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Extension returns the file extension of f
func (f Format) Extension() string {
	if f == FormatExcel {
		return "xlsx"
	}
	return "csv"
}

// File is a rendered report
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReportSource provides the report data
type ReportSource interface {
	Report(ctx context.Context, actor auth.Identity, bookingsLimit int) (*models.Inventory, []models.Booking, error)
	ReportData(ctx context.Context, bookingsLimit int) (*models.Inventory, []models.Booking, error)
}

// Archiver stores rendered reports
type Archiver interface {
	Archive(ctx context.Context, filename, contentType string, data []byte) (*backup.ArchiveResult, error)
}

// Service renders dashboard reports
type Service struct {
	source        ReportSource
	archiver      Archiver
	bookingsLimit int
	metrics       *metrics.Metrics
	logger        logger.Logger
}

// Option configures a Service
type Option func(*Service)

// WithArchiver uploads every scheduled report
func WithArchiver(a Archiver) Option {
	return func(s *Service) { s.archiver = a }
}

// WithMetrics counts generated reports
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new export service. bookingsLimit caps the booking
// rows in each report.
func NewService(source ReportSource, bookingsLimit int, opts ...Option) *Service {
	s := &Service{
		source:        source,
		bookingsLimit: bookingsLimit,
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dashboard renders the report for actor
func (s *Service) Dashboard(ctx context.Context, actor auth.Identity, format Format) (*File, error) {
	inv, bookings, err := s.source.Report(ctx, actor, s.bookingsLimit)
	if err != nil {
		return nil, err
	}
	return s.render(format, inv, bookings)
}

// Daily renders the CSV report for the scheduled digest and archives it
// when an archiver is configured. Archive failures are logged only.
func (s *Service) Daily(ctx context.Context) (*File, error) {
	inv, bookings, err := s.source.ReportData(ctx, s.bookingsLimit)
	if err != nil {
		return nil, err
	}
	file, err := s.render(FormatCSV, inv, bookings)
	if err != nil {
		return nil, err
	}

	if s.archiver != nil {
		if _, err := s.archiver.Archive(ctx, file.Name, file.ContentType, file.Data); err != nil {
			s.logger.Error("failed to archive daily report", "file", file.Name, "error", err)
		}
	}
	return file, nil
}

func (s *Service) render(format Format, inv *models.Inventory, bookings []models.Booking) (*File, error) {
	asOf := time.Now().UTC()
	if inv != nil && !inv.UpdatedAt.IsZero() {
		asOf = inv.UpdatedAt
	}
	report := Report{Inventory: inv, Bookings: bookings, AsOf: asOf}

	var buf bytes.Buffer
	switch format {
	case FormatExcel:
		if err := WriteExcel(&buf, report); err != nil {
			return nil, err
		}
	case FormatCSV:
		if err := WriteCSV(&buf, report); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}

	s.metrics.RecordReport(string(format))
	return &File{
		Name:        fmt.Sprintf("dashboard_report_%s.%s", asOf.Format("2006-01-02"), format.Extension()),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}
