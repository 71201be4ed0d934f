package jobs

import (
	"context"
	"fmt"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/export"
	"github.com/jordanlanch/leadcrm/pkg/logger"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

// ReportRenderer produces the daily report file
type ReportRenderer interface {
	Daily(ctx context.Context) (*export.File, error)
}

// DigestMailer mails the report to recipients
type DigestMailer interface {
	SendDailyReport(ctx context.Context, to []string, filename string, report []byte) (int, error)
}

// RecipientSource lists the users of a role
type RecipientSource interface {
	ListByRole(ctx context.Context, role auth.Role) ([]*models.User, error)
}

// CacheWarmer recomputes the dashboard snapshot
type CacheWarmer interface {
	Warm(ctx context.Context) (*models.Inventory, error)
}

// DigestResult summarizes one digest run
type DigestResult struct {
	File       string `json:"file"`
	Recipients int    `json:"recipients"`
	Delivered  int    `json:"delivered"`
}

// DailyDigest renders the dashboard report and mails it to every active
// Team Leader
type DailyDigest struct {
	reports    ReportRenderer
	mailer     DigestMailer
	recipients RecipientSource
	logger     logger.Logger
}

// NewDailyDigest creates the digest job
func NewDailyDigest(reports ReportRenderer, mailer DigestMailer, recipients RecipientSource, log logger.Logger) *DailyDigest {
	if log == nil {
		log = logger.Nop()
	}
	return &DailyDigest{reports: reports, mailer: mailer, recipients: recipients, logger: log}
}

// Run executes the digest once
func (d *DailyDigest) Run(ctx context.Context) (*DigestResult, error) {
	leaders, err := d.recipients.ListByRole(ctx, auth.RoleTeamLeader)
	if err != nil {
		return nil, fmt.Errorf("failed to list team leaders: %w", err)
	}

	file, err := d.reports.Daily(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to render daily report: %w", err)
	}

	to := make([]string, 0, len(leaders))
	for _, u := range leaders {
		if u.Email != "" {
			to = append(to, u.Email)
		}
	}
	result := &DigestResult{File: file.Name, Recipients: len(to)}
	if len(to) == 0 {
		d.logger.Warn("daily digest has no recipients", "file", file.Name)
		return result, nil
	}

	delivered, err := d.mailer.SendDailyReport(ctx, to, file.Name, file.Data)
	result.Delivered = delivered
	if err != nil && delivered == 0 {
		return result, fmt.Errorf("failed to deliver daily digest: %w", err)
	}
	d.logger.Info("daily digest sent", "file", file.Name, "recipients", len(to), "delivered", delivered)
	return result, nil
}
