package fraud

import (
	"github.com/shopspring/decimal"

	"github.com/finbridge/paybridge/internal/entities"
)

// DefaultCatalog returns the built-in scam pattern table. It is assembled
// once at startup and treated as read-only afterwards; concurrent scorers
// share it without locking.
func DefaultCatalog() []entities.FraudPattern {
	return []entities.FraudPattern{
		{
			Name:                "IRS Tax Scam",
			Triggers:            []string{"irs", "tax", "penalty", "back taxes", "tax debt", "arrest warrant"},
			TypicalAmountMin:    decimal.NewFromInt(500),
			TypicalAmountMax:    decimal.NewFromInt(10000),
			ConfidenceThreshold: 0.15,
			Description:         "Impersonation of the IRS demanding immediate payment of fabricated tax debt",
			PreventionTips: []string{
				"The IRS never demands payment by wire transfer or gift card",
				"The IRS initiates contact by mail, not by phone or email",
				"Verify any tax debt directly at irs.gov before paying anything",
			},
			TargetAgeGroup: "60+",
		},
		{
			Name:                "Grandparent Scam",
			Triggers:            []string{"grandson", "granddaughter", "bail", "emergency", "hospital", "stranded"},
			TypicalAmountMin:    decimal.NewFromInt(1000),
			TypicalAmountMax:    decimal.NewFromInt(5000),
			ConfidenceThreshold: 0.15,
			Description:         "Caller poses as a grandchild in urgent trouble needing money wired",
			PreventionTips: []string{
				"Hang up and call the family member back on a number you know",
				"Ask a question only the real relative could answer",
				"Real emergencies are never resolved by wiring money to strangers",
			},
			TargetAgeGroup: "65+",
		},
		{
			Name:                "Lottery Scam",
			Triggers:            []string{"lottery", "winner", "prize", "sweepstakes", "claim fee", "congratulations"},
			TypicalAmountMin:    decimal.NewFromInt(500),
			TypicalAmountMax:    decimal.NewFromInt(5000),
			ConfidenceThreshold: 0.15,
			Description:         "Victim is told they won a prize but must pay fees or taxes to collect",
			PreventionTips: []string{
				"Legitimate lotteries never charge a fee to release winnings",
				"You cannot win a lottery you did not enter",
			},
			TargetAgeGroup: "all",
		},
		{
			Name:                "Romance Scam",
			Triggers:            []string{"my love", "darling", "soulmate", "plane ticket", "visa fee", "customs"},
			TypicalAmountMin:    decimal.NewFromInt(500),
			TypicalAmountMax:    decimal.NewFromInt(10000),
			ConfidenceThreshold: 0.15,
			Description:         "Online relationship built over weeks before requests for travel or emergency money",
			PreventionTips: []string{
				"Never send money to someone you have not met in person",
				"Reverse-image-search profile photos of online contacts",
			},
			TargetAgeGroup: "all",
		},
		{
			Name:                "Tech Support Scam",
			Triggers:            []string{"microsoft", "virus", "computer", "remote access", "security alert", "refund"},
			TypicalAmountMin:    decimal.NewFromInt(100),
			TypicalAmountMax:    decimal.NewFromInt(2000),
			ConfidenceThreshold: 0.2,
			Description:         "Fake support agent claims the victim's computer is infected and charges for repairs",
			PreventionTips: []string{
				"Software vendors do not call customers about infections",
				"Never grant remote access to an unsolicited caller",
			},
			TargetAgeGroup: "60+",
		},
		{
			Name:                "Gift Card Payment Scam",
			Triggers:            []string{"gift card", "itunes", "google play", "steam card", "redeem code"},
			TypicalAmountMin:    decimal.NewFromInt(100),
			TypicalAmountMax:    decimal.NewFromInt(2000),
			ConfidenceThreshold: 0.2,
			Description:         "Any demand to settle a debt or fee using retail gift cards",
			PreventionTips: []string{
				"No business or government agency accepts gift cards as payment",
			},
			TargetAgeGroup: "all",
		},
		{
			Name:                "Charity Scam",
			Triggers:            []string{"donation", "charity", "disaster relief", "orphans", "god bless"},
			TypicalAmountMin:    decimal.NewFromInt(100),
			TypicalAmountMax:    decimal.NewFromInt(5000),
			ConfidenceThreshold: 0.25,
			Description:         "Fake charity soliciting urgent donations, often after publicized disasters",
			PreventionTips: []string{
				"Check the charity on an independent registry before giving",
				"Be wary of pressure to donate immediately",
			},
			TargetAgeGroup: "all",
		},
	}
}
