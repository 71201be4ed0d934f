// Package jobs schedules the daily dashboard digest and dashboard cache warming.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jordanlanch/leadcrm/pkg/logger"
)

// Schedules
const (
	DailyDigestSchedule = "0 7 * * *"
	CacheWarmSchedule   = "*/15 * * * *"
)

// cronLogger adapts logger.Logger to cron.Logger
type cronLogger struct {
	l logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}

// CronManager manages scheduled jobs
type CronManager struct {
	cron   *cron.Cron
	digest *DailyDigest
	warmer CacheWarmer
	logger logger.Logger
}

// NewCronManager creates a new cron manager. Panicking jobs are recovered
// and overlapping runs of the same job are skipped.
func NewCronManager(digest *DailyDigest, warmer CacheWarmer, log logger.Logger) *CronManager {
	if log == nil {
		log = logger.Nop()
	}
	cl := cronLogger{l: log}
	return &CronManager{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		digest: digest,
		warmer: warmer,
		logger: log,
	}
}

// SetupJobs registers every scheduled job
func (cm *CronManager) SetupJobs() error {
	if _, err := cm.cron.AddFunc(DailyDigestSchedule, cm.runDigest); err != nil {
		return err
	}
	if _, err := cm.cron.AddFunc(CacheWarmSchedule, cm.runWarm); err != nil {
		return err
	}

	cm.logger.Info("cron jobs configured",
		"daily_digest", DailyDigestSchedule,
		"cache_warm", CacheWarmSchedule,
	)
	return nil
}

func (cm *CronManager) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if _, err := cm.RunDigest(ctx); err != nil {
		cm.logger.Error("daily digest failed", "error", err)
	}
}

func (cm *CronManager) runWarm() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := cm.WarmCache(ctx); err != nil {
		cm.logger.Error("cache warm failed", "error", err)
	}
}

// RunDigest runs the daily digest immediately
func (cm *CronManager) RunDigest(ctx context.Context) (*DigestResult, error) {
	return cm.digest.Run(ctx)
}

// WarmCache recomputes the dashboard inventory and logs the snapshot
func (cm *CronManager) WarmCache(ctx context.Context) error {
	inv, err := cm.warmer.Warm(ctx)
	if err != nil {
		return err
	}
	cm.logger.Info("inventory snapshot",
		"leads", inv.NumberOfLeads,
		"assigned", inv.NumberOfAssignedLeads,
		"unassigned", inv.NumberOfUnassignedLeads,
		"users", inv.NumberOfUsers,
		"emails", inv.NumberOfEmails,
	)
	return nil
}

// Entries returns the number of scheduled jobs
func (cm *CronManager) Entries() int {
	return len(cm.cron.Entries())
}

// Start starts the cron scheduler
func (cm *CronManager) Start() {
	cm.logger.Info("starting cron scheduler")
	cm.cron.Start()
}

// Stop stops the scheduler and waits for running jobs
func (cm *CronManager) Stop(ctx context.Context) {
	cm.logger.Info("stopping cron scheduler")
	select {
	case <-cm.cron.Stop().Done():
	case <-ctx.Done():
	}
}
