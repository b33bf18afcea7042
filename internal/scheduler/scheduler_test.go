package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/mamadbah2/stockbook/internal/config"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/service/reporting"
)

type staticSource struct{ ledger *models.Ledger }

func (s staticSource) Snapshot() *models.Ledger { return s.ledger.Clone() }

type memorySnapshots struct {
	saved []models.ReportSnapshot
	err   error
}

func (m *memorySnapshots) SaveReportSnapshot(_ context.Context, snap models.ReportSnapshot) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, snap)
	return nil
}

type memoryNotifier struct {
	sent []models.OutboundMessageRequest
}

func (m *memoryNotifier) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	m.sent = append(m.sent, req)
	return nil
}

var reportingCfg = config.ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "UTC"}

func TestRunOnceDeliversToEveryOutput(t *testing.T) {
	snapshots := &memorySnapshots{}
	notifier := &memoryNotifier{}

	s, err := NewScheduler(reportingCfg, staticSource{&models.Ledger{}}, reporting.NewService(nil), nil,
		WithSnapshots(snapshots), WithNotifier(notifier, "224611111111"))
	if err != nil {
		t.Fatalf("NewScheduler() unexpected error: %v", err)
	}

	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() unexpected error: %v", err)
	}
	if len(snapshots.saved) != 1 {
		t.Errorf("snapshots saved = %d, want 1", len(snapshots.saved))
	}
	if len(notifier.sent) != 1 || notifier.sent[0].To != "224611111111" {
		t.Errorf("notifications = %+v", notifier.sent)
	}
}

func TestRunOnceSnapshotFailureStillNotifies(t *testing.T) {
	snapshots := &memorySnapshots{err: errors.New("mongo down")}
	notifier := &memoryNotifier{}

	s, err := NewScheduler(reportingCfg, staticSource{&models.Ledger{}}, reporting.NewService(nil), nil,
		WithSnapshots(snapshots), WithNotifier(notifier, "1"))
	if err != nil {
		t.Fatalf("NewScheduler() unexpected error: %v", err)
	}

	if err := s.RunOnce(context.Background()); err == nil {
		t.Fatal("expected snapshot error")
	}
	if len(notifier.sent) != 1 {
		t.Errorf("report should still be sent")
	}
}

func TestSchedulerConfigErrors(t *testing.T) {
	if _, err := NewScheduler(config.ReportingConfig{CronSchedule: "* * * * *", Timezone: "Mars/Olympus"}, staticSource{}, reporting.NewService(nil), nil); err == nil {
		t.Error("expected timezone error")
	}

	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "not a schedule", Timezone: "UTC"}, staticSource{}, reporting.NewService(nil), nil)
	if err != nil {
		t.Fatalf("NewScheduler() unexpected error: %v", err)
	}
	if err := s.Start(); err == nil {
		s.Stop()
		t.Error("expected schedule parse error")
	}
}
