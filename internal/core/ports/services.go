package ports

import (
	"context"

	"github.com/finbridge/paybridge/internal/entities"
)

// TransformService converts legacy payment messages into transform results.
type TransformService interface {
	Transform(ctx context.Context, format entities.MessageFormat, content string) (*entities.TransformResult, error)
	TransformBatch(ctx context.Context, format entities.MessageFormat, contents []string) *entities.BatchResult
	TransformEntries(ctx context.Context, content string) ([]*entities.TransformResult, []string, error)
}

// AgeProvider looks up a customer's age by display name. The lookup is
// supplied by the caller; a nil result means the age is unknown.
type AgeProvider interface {
	AgeFor(ctx context.Context, customerName string) *int
}

// ScoreAdjuster is the seam for the external fraud score advisor. The
// baseline rule score must remain usable when the adjuster fails or is
// disabled.
type ScoreAdjuster interface {
	IsEnabled() bool
	AdjustScore(ctx context.Context, tx entities.NormalizedTransaction, age *int) (*entities.ScoreAdjustment, error)
}

// RecordStore persists completed transform results for later review.
type RecordStore interface {
	SaveRecord(ctx context.Context, result *entities.TransformResult) error
	RecentRecords(ctx context.Context, limit int) ([]entities.TransformRecord, error)
	DeleteRecordsOlderThan(ctx context.Context, days int) (int64, error)
}

// AlertPublisher fans flagged transactions out to connected observers.
type AlertPublisher interface {
	PublishAlert(result *entities.TransformResult)
}
