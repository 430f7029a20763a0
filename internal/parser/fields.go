// Package parser extracts structured field sets from legacy fixed-format
// payment messages. Parsing is best-effort: missing tags, short lines and
// unparsable values yield absent fields, never errors, so a malformed
// message still flows through the pipeline as a low-confidence transaction.
package parser

// Semantic field names shared by both parsers. A key that is missing from
// a Fields map means the source message did not carry the field, which is
// distinct from an empty value.
const (
	FieldTransactionReference = "transactionReference"
	FieldValueDate            = "valueDate"
	FieldCurrency             = "currency"
	FieldAmount               = "amount"
	FieldOrderingCustomer     = "orderingCustomer"
	FieldBeneficiary          = "beneficiary"
	FieldRemittanceInfo       = "remittanceInfo"
	FieldChargeBearer         = "chargeBearer"

	FieldCompanyName        = "companyName"
	FieldCompanyID          = "companyId"
	FieldStandardEntryClass = "standardEntryClass"
	FieldEntryDescription   = "entryDescription"
	FieldEffectiveEntryDate = "effectiveEntryDate"
	FieldTransactionCode    = "transactionCode"
	FieldReceivingDFI       = "receivingDFI"
	FieldCheckDigit         = "checkDigit"
	FieldDFIAccountNumber   = "dfiAccountNumber"
	FieldIndividualID       = "individualId"
	FieldIndividualName     = "individualName"
	FieldTraceNumber        = "traceNumber"
)

// Fields maps semantic field names to raw extracted strings. A fresh map is
// produced per message and never mutated after parse.
type Fields map[string]string

// Get returns the raw value for name and whether it was present.
func (f Fields) Get(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

// Has reports whether the field was extracted from the source message.
func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

func (f Fields) set(name, value string) {
	f[name] = value
}
