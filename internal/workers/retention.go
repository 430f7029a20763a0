package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/finbridge/paybridge/internal/core/ports"
)

// RecordRetention worker purges transform records past the retention window.
type RecordRetention struct {
	logger  *slog.Logger
	records ports.RecordStore

	// Records older than this many days are removed
	retentionDays int

	// How often to run the purge
	purgeInterval time.Duration
}

// NewRecordRetention creates a new retention worker.
func NewRecordRetention(
	logger *slog.Logger,
	records ports.RecordStore,
	retentionDays int,
	purgeInterval time.Duration,
) *RecordRetention {
	return &RecordRetention{
		logger:        logger,
		records:       records,
		retentionDays: retentionDays,
		purgeInterval: purgeInterval,
	}
}

// Start begins the periodic purge and blocks until the context is done.
func (rr *RecordRetention) Start(ctx context.Context) {
	rr.logger.Info("Starting record retention worker",
		"retention_days", rr.retentionDays,
		"purge_interval", rr.purgeInterval.String())

	// Run an initial purge immediately
	if err := rr.purgeExpiredRecords(ctx); err != nil {
		rr.logger.Error("Initial record purge failed", "error", err)
	}

	ticker := time.NewTicker(rr.purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			rr.logger.Info("Record retention worker stopped")
			return
		case <-ticker.C:
			if err := rr.purgeExpiredRecords(ctx); err != nil {
				rr.logger.Error("Record purge failed", "error", err)
			}
		}
	}
}

func (rr *RecordRetention) purgeExpiredRecords(ctx context.Context) error {
	rr.logger.Debug("Starting purge of expired records", "retention_days", rr.retentionDays)

	count, err := rr.records.DeleteRecordsOlderThan(ctx, rr.retentionDays)
	if err != nil {
		return err
	}

	if count > 0 {
		rr.logger.Info("Removed expired transform records", "count", count, "retention_days", rr.retentionDays)
	} else {
		rr.logger.Debug("No expired records to remove")
	}

	return nil
}
