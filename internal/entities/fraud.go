package entities

import "github.com/shopspring/decimal"

// FraudPattern describes one known scam shape. The catalog of patterns is
// loaded once at startup and read-only afterwards, so concurrent scoring
// needs no locking.
type FraudPattern struct {
	Name                string
	Triggers            []string // case-insensitive substrings
	TypicalAmountMin    decimal.Decimal
	TypicalAmountMax    decimal.Decimal
	ConfidenceThreshold float64 // 0..1, minimum share of triggers to detect
	Description         string
	PreventionTips      []string
	TargetAgeGroup      string
}

// DetectedScam is one pattern that cleared its confidence threshold,
// in catalog evaluation order.
type DetectedScam struct {
	Name            string   `json:"name"`
	Confidence      float64  `json:"confidence"` // 0..95
	Description     string   `json:"description"`
	PreventionTips  []string `json:"prevention_tips"`
	MatchedTriggers []string `json:"matched_triggers"`
}

// FraudResult is the explainable outcome of scoring one transaction.
type FraudResult struct {
	Score         int            `json:"score"` // 0..100
	Flagged       bool           `json:"flagged"`
	DetectedScams []DetectedScam `json:"detected_scams"`
	Signals       []string       `json:"signals"`
}

// ScoreAdjustment is what an external score advisor may contribute on top
// of the baseline rule result. The baseline stands on its own if the
// advisor is unavailable.
type ScoreAdjustment struct {
	ScoreDelta        int      `json:"score_delta"`
	AdditionalSignals []string `json:"additional_signals"`
}
