package fraud

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.openly.dev/pointy"
)

func TestScoreIRSScenario(t *testing.T) {
	s := NewScorer()

	result := s.Score(Input{
		Amount:         decimal.NewFromInt(2500),
		RemittanceText: "URGENT: IRS Tax Penalty Payment",
		CustomerAge:    pointy.Int(72),
	})

	assert.Equal(t, 95, result.Score)
	assert.True(t, result.Flagged)

	require.Len(t, result.DetectedScams, 1)
	scam := result.DetectedScams[0]
	assert.Equal(t, "IRS Tax Scam", scam.Name)
	assert.InDelta(t, 50.0, scam.Confidence, 0.01)
	assert.ElementsMatch(t, []string{"irs", "tax", "penalty"}, scam.MatchedTriggers)

	// Band, age, urgency and round-amount signals all fire.
	assert.Len(t, result.Signals, 4)
}

func TestScoreEmptyInput(t *testing.T) {
	s := NewScorer()

	result := s.Score(Input{Amount: decimal.Zero})

	assert.Equal(t, 0, result.Score)
	assert.False(t, result.Flagged)
	assert.NotNil(t, result.DetectedScams)
	assert.Empty(t, result.DetectedScams)
	assert.NotNil(t, result.Signals)
	assert.Empty(t, result.Signals)
}

func TestScoreBelowConfidenceThreshold(t *testing.T) {
	s := NewScorer()

	// One of five charity triggers is 20%, under the 25% threshold, and
	// the amount sits below the pattern's typical band.
	result := s.Score(Input{
		Amount:         decimal.NewFromInt(50),
		RemittanceText: "donation",
	})

	assert.Equal(t, 0, result.Score)
	assert.False(t, result.Flagged)
	assert.Empty(t, result.DetectedScams)
}

func TestScoreAmountBandRaisesUndetectedMatch(t *testing.T) {
	s := NewScorer()

	// Same weak charity match, but the amount falls inside the pattern's
	// typical band, which lifts the score to the band floor.
	result := s.Score(Input{
		Amount:         decimal.NewFromInt(400),
		RemittanceText: "donation",
	})

	assert.Equal(t, 70, result.Score)
	assert.True(t, result.Flagged)
	assert.Empty(t, result.DetectedScams)
	require.Len(t, result.Signals, 1)
	assert.Contains(t, result.Signals[0], "typical range for Charity Scam")
}

func TestScoreUrgencyBonusAppliedOnce(t *testing.T) {
	s := NewScorer()

	result := s.Score(Input{
		Amount:         decimal.NewFromInt(10),
		RemittanceText: "urgent asap hurry",
	})

	assert.Equal(t, 15, result.Score)
	assert.False(t, result.Flagged)
	require.Len(t, result.Signals, 1)
	assert.Contains(t, result.Signals[0], "urgent")
}

func TestScoreRoundAmountBonus(t *testing.T) {
	s := NewScorer()

	round := s.Score(Input{Amount: decimal.NewFromInt(1500), RemittanceText: "hello"})
	assert.Equal(t, 10, round.Score)

	// Below the floor for the round-amount heuristic.
	small := s.Score(Input{Amount: decimal.NewFromInt(500), RemittanceText: "hello"})
	assert.Equal(t, 0, small.Score)

	odd := s.Score(Input{Amount: decimal.RequireFromString("1500.50"), RemittanceText: "hello"})
	assert.Equal(t, 0, odd.Score)
}

func TestScoreSeniorMultiplierIsCapped(t *testing.T) {
	s := NewScorer()

	in := Input{
		Amount:         decimal.NewFromInt(3000),
		RemittanceText: "congratulations lottery winner claim fee for your prize sweepstakes",
	}

	base := s.Score(in)
	assert.Equal(t, 95, base.Score)

	in.CustomerAge = pointy.Int(80)
	senior := s.Score(in)
	assert.Equal(t, 95, senior.Score)
}

func TestScoreSeniorMultiplierRaisesScore(t *testing.T) {
	s := NewScorer()

	in := Input{
		Amount:         decimal.NewFromInt(400),
		RemittanceText: "donation",
	}

	base := s.Score(in)
	assert.Equal(t, 70, base.Score)

	in.CustomerAge = pointy.Int(68)
	senior := s.Score(in)
	assert.Equal(t, 84, senior.Score)

	// Below the senior age the multiplier does not apply.
	in.CustomerAge = pointy.Int(40)
	younger := s.Score(in)
	assert.Equal(t, base.Score, younger.Score)
}

func TestScoreDeterministic(t *testing.T) {
	s := NewScorer()

	in := Input{
		Amount:         decimal.NewFromInt(2500),
		RemittanceText: "URGENT: IRS Tax Penalty Payment",
		RecipientName:  "ACME CORP",
		CustomerAge:    pointy.Int(72),
	}

	assert.Equal(t, s.Score(in), s.Score(in))
}
