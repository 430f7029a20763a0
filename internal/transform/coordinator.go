// Package transform orchestrates one transformation: parse the legacy
// message, normalize its fields, render the ISO 20022 document and score
// the result for fraud risk. Each call allocates its own state; the only
// shared data is the read-only pattern catalog inside the scorer.
package transform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbridge/paybridge/internal/core/ports"
	"github.com/finbridge/paybridge/internal/entities"
	"github.com/finbridge/paybridge/internal/fraud"
	"github.com/finbridge/paybridge/internal/iso20022"
	"github.com/finbridge/paybridge/internal/parser"
)

// Coordinator wires the parsers, normalizer, XML builder and fraud scorer
// together. Safe for concurrent use across independent calls.
type Coordinator struct {
	logger *slog.Logger

	mt103   parser.MT103
	nacha   parser.NACHA
	builder *iso20022.Builder
	scorer  *fraud.Scorer

	ages     ports.AgeProvider
	adjuster ports.ScoreAdjuster

	now func() time.Time
}

// Option configures optional collaborators on a Coordinator.
type Option func(*Coordinator)

// WithAgeProvider installs the caller-supplied customer age lookup.
func WithAgeProvider(p ports.AgeProvider) Option {
	return func(c *Coordinator) { c.ages = p }
}

// WithScoreAdjuster installs the external score advisor. The advisor is
// consulted after the baseline score; its failure never fails the call.
func WithScoreAdjuster(a ports.ScoreAdjuster) Option {
	return func(c *Coordinator) { c.adjuster = a }
}

// WithClock pins the processing clock, which fixes the XML creation
// timestamp and the fallback settlement date.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator creates a coordinator with the built-in fraud catalog.
func NewCoordinator(logger *slog.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		logger: logger,
		scorer: fraud.NewScorer(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.builder = iso20022.NewBuilderWithClock(c.now)
	return c
}

// Transform converts one legacy message into a TransformResult. For a
// NACHA file carrying several entry detail records, the first entry is
// converted; TransformEntries handles whole files.
func (c *Coordinator) Transform(ctx context.Context, format entities.MessageFormat, content string) (*entities.TransformResult, error) {
	var fields parser.Fields

	switch format {
	case entities.FormatMT103:
		fields = c.mt103.Parse(content)
	case entities.FormatNACHA:
		fields = c.nacha.Parse(content)[0]
	default:
		return nil, fmt.Errorf("%w: %q", entities.ErrUnsupportedFormat, format)
	}

	return c.transformFields(ctx, format, fields), nil
}

// TransformBatch fans Transform out over many messages of the same format.
// Items are fully isolated: one malformed message never affects siblings.
func (c *Coordinator) TransformBatch(ctx context.Context, format entities.MessageFormat, contents []string) *entities.BatchResult {
	batch := &entities.BatchResult{Items: make([]entities.BatchItemResult, 0, len(contents))}

	for i, content := range contents {
		result, err := c.Transform(ctx, format, content)
		item := entities.BatchItemResult{Index: i}
		if err != nil {
			item.Error = err.Error()
			batch.Failed++
		} else {
			item.Result = result
			batch.Succeeded++
		}
		batch.Items = append(batch.Items, item)
	}

	c.logger.InfoContext(ctx, "Batch transformation completed",
		"format", format,
		"total", len(contents),
		"succeeded", batch.Succeeded,
		"failed", batch.Failed)

	return batch
}

// TransformEntries converts every entry detail record of a NACHA file,
// one result per entry, and reports file-level warnings such as a batch
// control total that disagrees with the summed entry amounts.
func (c *Coordinator) TransformEntries(ctx context.Context, content string) ([]*entities.TransformResult, []string, error) {
	file := c.nacha.ParseFile(content)

	var warnings []string
	if len(file.Entries) == 0 {
		warnings = append(warnings, "file contains no entry detail records")
		result := c.transformFields(ctx, entities.FormatNACHA, file.Header)
		return []*entities.TransformResult{result}, warnings, nil
	}

	results := make([]*entities.TransformResult, 0, len(file.Entries))
	entryTotal := decimal.Zero
	for _, entry := range file.Entries {
		result := c.transformFields(ctx, entities.FormatNACHA, entry)
		entryTotal = entryTotal.Add(result.Transaction.Amount)
		results = append(results, result)
	}

	if controlTotal, ok := parser.AmountFromCents(file.ControlCreditTotal); ok && !controlTotal.Equal(entryTotal) {
		warnings = append(warnings, fmt.Sprintf(
			"batch control credit total %s does not match summed entry amounts %s",
			controlTotal.StringFixed(2), entryTotal.StringFixed(2)))
	}

	return results, warnings, nil
}

func (c *Coordinator) transformFields(ctx context.Context, format entities.MessageFormat, fields parser.Fields) *entities.TransformResult {
	tx := c.normalize(format, fields)
	xml := c.builder.Render(tx)

	var age *int
	if c.ages != nil && tx.Sender.Name != "" {
		age = c.ages.AgeFor(ctx, tx.Sender.Name)
	}

	result := c.scorer.Score(fraud.Input{
		Amount:         tx.Amount,
		RemittanceText: tx.RemittanceInfo,
		RecipientName:  tx.Recipient.Name,
		CustomerAge:    age,
	})

	if format == entities.FormatNACHA {
		if routing := tx.ReceivingDFI + fields[parser.FieldCheckDigit]; routing != "" && !parser.ValidRoutingNumber(routing) {
			result.Signals = append(result.Signals, "Receiving bank routing number fails the ABA check digit test")
		}
	}

	c.applyAdjustment(ctx, tx, age, &result)

	c.logger.InfoContext(ctx, "Transformation completed",
		"format", format,
		"transaction_id", tx.TransactionID,
		"amount", tx.Amount.StringFixed(2),
		"currency", tx.Currency,
		"fraud_score", result.Score,
		"flagged", result.Flagged)

	return &entities.TransformResult{
		XML:         xml,
		Transaction: tx,
		Fraud:       result,
	}
}

// applyAdjustment merges the external advisor's verdict into the baseline
// result. Any advisor failure is logged and swallowed: the rule-based
// baseline is the contract, the advisor only refines it.
func (c *Coordinator) applyAdjustment(ctx context.Context, tx entities.NormalizedTransaction, age *int, result *entities.FraudResult) {
	if c.adjuster == nil || !c.adjuster.IsEnabled() {
		return
	}

	adj, err := c.adjuster.AdjustScore(ctx, tx, age)
	if err != nil {
		c.logger.ErrorContext(ctx, "Score advisor failed, keeping baseline score",
			"error", err,
			"transaction_id", tx.TransactionID)
		return
	}

	score := result.Score + adj.ScoreDelta
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	result.Score = score
	result.Flagged = score >= fraud.BlockThreshold
	result.Signals = append(result.Signals, adj.AdditionalSignals...)
}

func (c *Coordinator) normalize(format entities.MessageFormat, fields parser.Fields) entities.NormalizedTransaction {
	switch format {
	case entities.FormatNACHA:
		return c.normalizeNACHA(fields)
	default:
		return c.normalizeMT103(fields)
	}
}

func (c *Coordinator) normalizeMT103(fields parser.Fields) entities.NormalizedTransaction {
	tx := entities.NormalizedTransaction{
		SourceFormat:   entities.FormatMT103,
		TransactionID:  referenceOrSynthesized(fields, parser.FieldTransactionReference),
		Currency:       fields[parser.FieldCurrency],
		SettlementDate: parser.DateFromYYMMDD(fields[parser.FieldValueDate], c.now()),
		Sender:         parser.SplitParty(fields[parser.FieldOrderingCustomer]),
		Recipient:      parser.SplitParty(fields[parser.FieldBeneficiary]),
		RemittanceInfo: parser.JoinDisplay(fields[parser.FieldRemittanceInfo]),
		ChargeBearer:   fields[parser.FieldChargeBearer],
	}

	tx.Amount = decimal.Zero
	if raw, ok := fields.Get(parser.FieldAmount); ok {
		if amount, valid := parser.AmountFromText(raw); valid {
			tx.Amount = amount
		}
	}

	return tx
}

func (c *Coordinator) normalizeNACHA(fields parser.Fields) entities.NormalizedTransaction {
	tx := entities.NormalizedTransaction{
		SourceFormat:   entities.FormatNACHA,
		TransactionID:  referenceOrSynthesized(fields, parser.FieldTraceNumber),
		Currency:       "USD", // NACHA carries no currency code
		SettlementDate: parser.DateFromYYMMDD(fields[parser.FieldEffectiveEntryDate], c.now()),
		Sender:         entities.Party{Name: fields[parser.FieldCompanyName]},
		Recipient:      entities.Party{Name: fields[parser.FieldIndividualName]},
		RemittanceInfo: fields[parser.FieldEntryDescription],

		ReceivingDFI:     fields[parser.FieldReceivingDFI],
		DFIAccountNumber: fields[parser.FieldDFIAccountNumber],
	}

	tx.Amount = decimal.Zero
	if raw, ok := fields.Get(parser.FieldAmount); ok {
		if amount, valid := parser.AmountFromCents(raw); valid {
			tx.Amount = amount
		}
	}

	return tx
}

func referenceOrSynthesized(fields parser.Fields, name string) string {
	if ref := fields[name]; ref != "" {
		return ref
	}
	return uuid.NewString()
}
