package parser

import (
	"regexp"
	"strings"
)

// tagLine matches a SWIFT field tag at the start of a line, e.g. ":20:" or ":32A:".
var tagLine = regexp.MustCompile(`^:(\d{2}[A-Z]?):(.*)$`)

// MT103 parses SWIFT MT103 single customer credit transfer messages.
type MT103 struct{}

// Parse extracts the supported MT103 tags into a field set. A tag that is
// absent from the message simply leaves its fields unset. Multi-line fields
// (50K, 59, 70) accumulate until the next line that begins with ":", with
// the raw line breaks preserved for later address decomposition.
func (MT103) Parse(content string) Fields {
	fields := Fields{}

	var tag string
	var body []string

	flush := func() {
		if tag != "" {
			storeMT103Field(fields, tag, strings.Join(body, "\n"))
		}
		tag = ""
		body = nil
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")

		if m := tagLine.FindStringSubmatch(line); m != nil {
			flush()
			tag = m[1]
			body = []string{strings.TrimSpace(m[2])}
			continue
		}

		// Any other ":"-prefixed line terminates the running field without
		// starting a new one.
		if strings.HasPrefix(line, ":") {
			flush()
			continue
		}

		if tag != "" && strings.TrimSpace(line) != "" {
			body = append(body, strings.TrimSpace(line))
		}
	}
	flush()

	return fields
}

func storeMT103Field(fields Fields, tag, value string) {
	switch tag {
	case "20":
		fields.set(FieldTransactionReference, firstLine(value))
	case "32A":
		storeValueDateCurrencyAmount(fields, firstLine(value))
	case "50K":
		fields.set(FieldOrderingCustomer, value)
	case "59":
		fields.set(FieldBeneficiary, value)
	case "70":
		fields.set(FieldRemittanceInfo, value)
	case "71A":
		fields.set(FieldChargeBearer, firstLine(value))
	}
}

// storeValueDateCurrencyAmount decomposes field 32A: a 6-digit YYMMDD date,
// a 3-letter currency code, then the amount with a comma decimal separator.
func storeValueDateCurrencyAmount(fields Fields, value string) {
	if len(value) >= 6 {
		fields.set(FieldValueDate, value[:6])
	}
	if len(value) >= 9 {
		fields.set(FieldCurrency, value[6:9])
	}
	if len(value) > 9 {
		fields.set(FieldAmount, value[9:])
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
