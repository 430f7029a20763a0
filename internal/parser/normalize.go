package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbridge/paybridge/internal/entities"
)

// AmountFromText normalizes an MT103-style decimal amount: thousands
// separators are stripped, the decimal comma becomes a period, and the
// result must parse to a non-negative decimal. Anything else is absent.
func AmountFromText(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if !strings.ContainsAny(s, "0123456789") {
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(s)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, false
	}
	return amount, true
}

// AmountFromCents normalizes a NACHA amount field: an unsigned integer
// number of cents, converted to major units with exactly two fraction
// digits. Signs and non-digits make the field absent.
func AmountFromCents(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}

	cents, err := strconv.ParseUint(s, 10, 63)
	if err != nil {
		return decimal.Zero, false
	}
	return decimal.New(int64(cents), -2), true
}

// DateFromYYMMDD converts a 6-digit YYMMDD date to ISO-8601, assuming
// century 20. Dates outside 2000-2099 are not representable in either
// source format. A missing or invalid date falls back to the processing
// date, mirroring how the legacy feeds treated it.
func DateFromYYMMDD(raw string, now time.Time) string {
	s := strings.TrimSpace(raw)
	if len(s) == 6 {
		if t, err := time.Parse("20060102", "20"+s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return now.Format("2006-01-02")
}

// SplitParty decomposes a multi-line MT103 party field: the first line is
// always the legal name, the remaining lines are address lines.
func SplitParty(raw string) entities.Party {
	var party entities.Party
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if party.Name == "" {
			party.Name = line
			continue
		}
		party.AddressLines = append(party.AddressLines, line)
	}
	return party
}

// JoinDisplay collapses a raw multi-line field value into the single
// comma-separated form used for display and free-text scoring.
func JoinDisplay(raw string) string {
	var parts []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, ", ")
}

// abaWeights is the repeating 3-7-1 weighting of the ABA check digit scheme.
var abaWeights = [9]int{3, 7, 1, 3, 7, 1, 3, 7, 1}

// ValidRoutingNumber runs the ABA check-digit algorithm over a 9-digit
// routing number (receiving DFI plus check digit).
func ValidRoutingNumber(routing string) bool {
	if len(routing) != 9 {
		return false
	}

	total := 0
	for i, r := range routing {
		if r < '0' || r > '9' {
			return false
		}
		total += int(r-'0') * abaWeights[i]
	}
	return total%10 == 0
}
