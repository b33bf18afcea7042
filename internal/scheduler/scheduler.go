package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/config"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/repository/mongodb"
)

// LedgerSource provides a read-only copy of the current tables.
type LedgerSource interface {
	Snapshot() *models.Ledger
}

// Reporter builds report values from a ledger.
type Reporter interface {
	Snapshot(ledger *models.Ledger) models.ReportSnapshot
	Summary(ledger *models.Ledger) string
}

// Notifier pushes a text message to a recipient.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler manages the periodic report job.
type Scheduler struct {
	cron      *cron.Cron
	cfg       config.ReportingConfig
	source    LedgerSource
	reporter  Reporter
	snapshots mongodb.Repository
	notifier  Notifier
	recipient string
	logger    *zap.Logger
}

// Option enables an optional output of the report job.
type Option func(*Scheduler)

// WithSnapshots stores every generated report snapshot.
func WithSnapshots(repo mongodb.Repository) Option {
	return func(s *Scheduler) { s.snapshots = repo }
}

// WithNotifier sends the report summary to recipient.
func WithNotifier(notifier Notifier, recipient string) Option {
	return func(s *Scheduler) {
		s.notifier = notifier
		s.recipient = recipient
	}
}

// NewScheduler creates a new scheduler instance running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, source LedgerSource, reporter Reporter, logger *zap.Logger, opts ...Option) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		cfg:      cfg,
		source:   source,
		reporter: reporter,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start registers the report job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runReport); err != nil {
		return fmt.Errorf("schedule report %q: %w", s.cfg.CronSchedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule), zap.String("timezone", s.cfg.Timezone))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("scheduled report failed", zap.Error(err))
	}
}

// RunOnce generates the report and delivers it to every configured output.
// Both outputs are attempted; the first failure is returned.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.logger.Info("generating scheduled report")
	ledger := s.source.Snapshot()

	var firstErr error

	if s.snapshots != nil {
		if err := s.snapshots.SaveReportSnapshot(ctx, s.reporter.Snapshot(ledger)); err != nil {
			s.logger.Error("failed to store report snapshot", zap.Error(err))
			firstErr = fmt.Errorf("store snapshot: %w", err)
		}
	}

	if s.notifier != nil && s.recipient != "" {
		req := models.OutboundMessageRequest{To: s.recipient, Message: s.reporter.Summary(ledger)}
		if err := s.notifier.SendOutbound(ctx, req); err != nil {
			s.logger.Error("failed to send report", zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("send report: %w", err)
			}
		} else {
			s.logger.Info("report sent successfully")
		}
	}

	return firstErr
}
