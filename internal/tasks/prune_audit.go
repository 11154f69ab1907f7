package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/sirupsen/logrus"
)

// AuditPruner drops audit events older than a retention window.
type AuditPruner interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// DefaultAuditRetentionDays applies when a task carries no retention.
const DefaultAuditRetentionDays = 30

// PruneAuditTask trims the audit log to RetentionDays.
type PruneAuditTask struct {
	RetentionDays int `json:"retention_days"`
}

// Retention is the window of events the task keeps.
func (t PruneAuditTask) Retention() time.Duration {
	days := t.RetentionDays
	if days <= 0 {
		days = DefaultAuditRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}

func (t PruneAuditTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prune_audit",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 7 * 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PruneAuditProcessor returns the processor for PruneAuditTask.
// Rows already removed by an interrupted run stay removed, so a retry only
// finishes the remainder.
func PruneAuditProcessor(pruner AuditPruner, logger logrus.FieldLogger) backlite.QueueProcessor[PruneAuditTask] {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return func(ctx context.Context, task PruneAuditTask) error {
		if pruner == nil {
			return errors.New("audit pruner not configured")
		}

		retention := task.Retention()
		removed, err := pruner.Prune(ctx, retention)
		log := logger.WithFields(logrus.Fields{
			"removed":   removed,
			"retention": retention.String(),
		})
		if err != nil {
			log.WithError(err).Warn("audit prune interrupted")
			return fmt.Errorf("prune audit log: %w", err)
		}
		if removed > 0 {
			log.Info("audit log pruned")
		}
		return nil
	}
}

func NewPruneAuditQueue(pruner AuditPruner, logger logrus.FieldLogger) backlite.Queue {
	return backlite.NewQueue(PruneAuditProcessor(pruner, logger))
}
