// Package repository persists completed transformations in Postgres.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	tx "github.com/Thiht/transactor/pgx"
	"github.com/jackc/pgx/v5"

	"github.com/finbridge/paybridge/internal/entities"
	"github.com/finbridge/paybridge/pkg/database"
)

// RecordsRepository stores and queries transform records.
type RecordsRepository struct {
	logger *slog.Logger

	db         tx.DBGetter
	transactor *tx.Transactor
	builder    squirrel.StatementBuilderType
}

func NewRecordsRepository(logger *slog.Logger, pg *database.Postgres) *RecordsRepository {
	return &RecordsRepository{
		logger:     logger,
		db:         pg.DBGetter,
		transactor: pg.Transactor,
		builder:    pg.Builder,
	}
}

// SaveRecord writes one completed transformation. The rendered document is
// kept alongside the projection so flagged payments can be audited later.
func (r *RecordsRepository) SaveRecord(ctx context.Context, result *entities.TransformResult) error {
	transaction := result.Transaction

	query, args, err := r.builder.
		Insert("transform_records").
		Columns("transaction_id", "source_format", "amount", "currency",
			"sender_name", "recipient_name", "remittance_info",
			"fraud_score", "fraud_flag", "document_xml", "created_at").
		Values(
			transaction.TransactionID,
			string(transaction.SourceFormat),
			transaction.Amount,
			transaction.Currency,
			transaction.Sender.Name,
			transaction.Recipient.Name,
			transaction.RemittanceInfo,
			result.Fraud.Score,
			result.Fraud.Flagged,
			result.XML,
			time.Now(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err = r.db(ctx).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save transform record: %w", err)
	}

	return nil
}

// RecentRecords returns the newest records first, capped at limit.
func (r *RecordsRepository) RecentRecords(ctx context.Context, limit int) ([]entities.TransformRecord, error) {
	query, args, err := r.builder.
		Select("id", "transaction_id", "source_format", "amount", "currency",
			"sender_name", "recipient_name", "remittance_info",
			"fraud_score", "fraud_flag", "document_xml", "created_at").
		From("transform_records").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transform records: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.TransformRecord])
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to collect transform record rows", "error", err)
		return nil, err
	}

	return records, nil
}

// DeleteRecordsOlderThan removes records past the retention window and
// returns how many were deleted. Runs in a transaction so the count the
// retention worker logs matches what actually went away.
func (r *RecordsRepository) DeleteRecordsOlderThan(ctx context.Context, days int) (int64, error) {
	var deleted int64

	err := r.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		cutoff := time.Now().AddDate(0, 0, -days)

		query, args, err := r.builder.
			Delete("transform_records").
			Where(squirrel.Lt{"created_at": cutoff}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete query: %w", err)
		}

		tag, err := r.db(ctx).Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to delete expired records: %w", err)
		}

		deleted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
