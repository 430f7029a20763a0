// Package fraud scores normalized transactions against a static catalog of
// known scam patterns. Scoring is a pure function: identical inputs always
// produce identical output, which keeps the baseline usable even when an
// external score advisor later revises it.
package fraud

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finbridge/paybridge/internal/entities"
)

const (
	// BlockThreshold is the score at or above which a transaction is flagged.
	BlockThreshold = 60

	maxScore        = 95
	amountBandFloor = 70
	seniorAge       = 65
	ageMultiplier   = 1.2
	urgencyBonus    = 15
	roundBonus      = 10
)

// urgencyKeywords is the fixed set of pressure phrases that earn a flat
// score bonus regardless of which pattern matched.
var urgencyKeywords = []string{"urgent", "immediately", "right now", "asap", "today", "hurry", "quick"}

var (
	roundStep  = decimal.NewFromInt(500)
	roundFloor = decimal.NewFromInt(1000)
)

// Input carries the transaction attributes the scorer evaluates.
// CustomerAge is nil when the age lookup had nothing for the customer.
type Input struct {
	Amount         decimal.Decimal
	RemittanceText string
	RecipientName  string
	CustomerAge    *int
}

// Scorer evaluates transactions against its pattern catalog.
type Scorer struct {
	patterns []entities.FraudPattern
}

// NewScorer returns a scorer over the built-in catalog.
func NewScorer() *Scorer {
	return NewScorerWithCatalog(DefaultCatalog())
}

// NewScorerWithCatalog returns a scorer over a caller-supplied catalog.
// The catalog must not be mutated after this call.
func NewScorerWithCatalog(patterns []entities.FraudPattern) *Scorer {
	return &Scorer{patterns: patterns}
}

// Score evaluates every catalog pattern against the transaction and folds
// the signals into a single 0-100 score. The running score is the maximum
// pattern confidence rather than a sum, so several weak matches cannot
// snowball into a block on their own.
func (s *Scorer) Score(in Input) entities.FraudResult {
	combined := strings.ToLower(in.RemittanceText + " " + in.RecipientName)

	score := 0.0
	detected := []entities.DetectedScam{}
	signals := []string{}

	for _, p := range s.patterns {
		var matched []string
		for _, trigger := range p.Triggers {
			if strings.Contains(combined, trigger) {
				matched = append(matched, trigger)
			}
		}
		if len(matched) == 0 {
			continue
		}

		confidence := math.Min(float64(len(matched))/float64(len(p.Triggers))*100, maxScore)
		if confidence >= p.ConfidenceThreshold*100 {
			detected = append(detected, entities.DetectedScam{
				Name:            p.Name,
				Confidence:      confidence,
				Description:     p.Description,
				PreventionTips:  p.PreventionTips,
				MatchedTriggers: matched,
			})
			score = math.Max(score, confidence)
		}

		if in.Amount.GreaterThanOrEqual(p.TypicalAmountMin) && in.Amount.LessThanOrEqual(p.TypicalAmountMax) {
			score = math.Max(score, amountBandFloor)
			signals = append(signals, fmt.Sprintf(
				"Amount %s is in the typical range for %s", in.Amount.StringFixed(2), p.Name))
		}
	}

	if in.CustomerAge != nil && *in.CustomerAge >= seniorAge {
		score = math.Min(score*ageMultiplier, maxScore)
		signals = append(signals, fmt.Sprintf(
			"Customer age %d is in a group heavily targeted by payment scams", *in.CustomerAge))
	}

	if urgent := matchedUrgency(combined); urgent != "" {
		score = math.Min(score+urgencyBonus, maxScore)
		signals = append(signals, fmt.Sprintf("Urgency language detected: %q", urgent))
	}

	if in.Amount.GreaterThanOrEqual(roundFloor) && in.Amount.Mod(roundStep).IsZero() {
		score = math.Min(score+roundBonus, maxScore)
		signals = append(signals, "Large round amount is characteristic of coached payments")
	}

	final := int(math.Round(score))
	return entities.FraudResult{
		Score:         final,
		Flagged:       final >= BlockThreshold,
		DetectedScams: detected,
		Signals:       signals,
	}
}

func matchedUrgency(combined string) string {
	for _, kw := range urgencyKeywords {
		if strings.Contains(combined, kw) {
			return kw
		}
	}
	return ""
}
