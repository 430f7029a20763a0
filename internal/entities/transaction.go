package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Party is one side of a credit transfer: a display name plus the raw
// address lines that followed it in the source message. The lines are kept
// unjoined so the XML builder can decompose them into a postal address.
type Party struct {
	Name         string   `json:"name"`
	AddressLines []string `json:"address_lines,omitempty"`
}

// DisplayAddress joins the address lines into the single comma-separated
// form used for display fields and persistence.
func (p Party) DisplayAddress() string {
	out := ""
	for i, line := range p.AddressLines {
		if i > 0 {
			out += ", "
		}
		out += line
	}
	return out
}

// NormalizedTransaction is one credit transfer with amounts, dates and names
// normalized out of their source-format quirks. Owned by a single
// transformation call; never shared across requests.
type NormalizedTransaction struct {
	TransactionID  string          `json:"transaction_id"`
	SourceFormat   MessageFormat   `json:"source_format"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	SettlementDate string          `json:"settlement_date"` // ISO-8601 (YYYY-MM-DD)
	Sender         Party           `json:"sender"`
	Recipient      Party           `json:"recipient"`
	RemittanceInfo string          `json:"remittance_info"`
	ChargeBearer   string          `json:"charge_bearer,omitempty"`

	// NACHA-only routing details, absent for MT103.
	ReceivingDFI     string `json:"receiving_dfi,omitempty"`
	DFIAccountNumber string `json:"dfi_account_number,omitempty"`
}

// TransformResult packages one completed transformation: the rendered
// ISO 20022 document, the normalized transaction and its fraud evaluation.
// Produced fresh per call and immutable afterwards.
type TransformResult struct {
	XML         string                `json:"xml"`
	Transaction NormalizedTransaction `json:"transaction"`
	Fraud       FraudResult           `json:"fraud"`
}

// TransformRecord is the persisted projection of a TransformResult.
type TransformRecord struct {
	ID             int             `db:"id"              json:"id"`
	TransactionID  string          `db:"transaction_id"  json:"transaction_id"`
	SourceFormat   string          `db:"source_format"   json:"source_format"`
	Amount         decimal.Decimal `db:"amount"          json:"amount"`
	Currency       string          `db:"currency"        json:"currency"`
	SenderName     string          `db:"sender_name"     json:"sender_name"`
	RecipientName  string          `db:"recipient_name"  json:"recipient_name"`
	RemittanceInfo string          `db:"remittance_info" json:"remittance_info"`
	FraudScore     int             `db:"fraud_score"     json:"fraud_score"`
	FraudFlag      bool            `db:"fraud_flag"      json:"fraud_flag"`
	XML            string          `db:"document_xml"    json:"-"`
	CreatedAt      time.Time       `db:"created_at"      json:"created_at"`
}

// BatchItemResult is the outcome of one message inside a batch request.
// A failed item never affects its siblings.
type BatchItemResult struct {
	Index  int              `json:"index"`
	Result *TransformResult `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// BatchResult aggregates a fan-out over many messages.
type BatchResult struct {
	Items     []BatchItemResult `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}
