// Package iso20022 renders normalized transactions as ISO 20022 pacs.008
// credit transfer documents. The builder produces a single string and
// performs no I/O.
package iso20022

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/finbridge/paybridge/internal/entities"
)

const (
	namespace        = "urn:iso:std:iso:20022:tech:xsd:pacs.008.001.08"
	settlementMethod = "CLRG"

	// Clearing-member placeholders for the agent blocks; the legacy feeds
	// carry no BIC for either side of an MT103.
	defaultDebtorAgent   = "SENDERBANK"
	defaultCreditorAgent = "RECEIVINGBANK"

	defaultChargeBearer = "SHA"
	defaultCountry      = "US"
)

// xmlEscaper escapes the five XML special characters. Every interpolated
// string goes through it: party names and remittance text originate from
// unauthenticated message content.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// cityStateZip matches the "City ST 12345" form of a US address line.
var cityStateZip = regexp.MustCompile(`^(.+?)\s+([A-Z]{2})\s+(\d{5})$`)

// Builder renders pacs.008.001.08 documents. Safe for concurrent use; the
// only state is the clock.
type Builder struct {
	now func() time.Time
}

// NewBuilder returns a builder stamping documents with the wall clock.
func NewBuilder() *Builder {
	return NewBuilderWithClock(time.Now)
}

// NewBuilderWithClock returns a builder with an injected clock, so callers
// that need byte-identical output can pin the creation timestamp.
func NewBuilderWithClock(now func() time.Time) *Builder {
	return &Builder{now: now}
}

// Render produces a well-formed pacs.008 document for one credit transfer:
// a group header followed by exactly one transaction information block.
func (b *Builder) Render(tx entities.NormalizedTransaction) string {
	amount := tx.Amount.StringFixed(2)
	created := b.now().UTC().Format("2006-01-02T15:04:05Z")

	w := &docWriter{}
	w.line(`<?xml version="1.0" encoding="UTF-8"?>`)
	w.open(`<Document xmlns="%s">`, namespace)
	w.open("<FIToFICstmrCdtTrf>")

	w.open("<GrpHdr>")
	w.leaf("MsgId", tx.TransactionID)
	w.leaf("CreDtTm", created)
	w.leaf("NbOfTxs", "1")
	w.leaf("CtrlSum", amount)
	writeAmount(w, "TtlIntrBkSttlmAmt", tx.Currency, amount)
	w.leaf("IntrBkSttlmDt", tx.SettlementDate)
	w.open("<SttlmInf>")
	w.leaf("SttlmMtd", settlementMethod)
	w.close("</SttlmInf>")
	w.close("</GrpHdr>")

	w.open("<CdtTrfTxInf>")
	w.open("<PmtId>")
	w.leaf("InstrId", tx.TransactionID)
	w.leaf("EndToEndId", tx.TransactionID)
	w.leaf("TxId", tx.TransactionID)
	w.close("</PmtId>")
	writeAmount(w, "IntrBkSttlmAmt", tx.Currency, amount)
	w.leaf("IntrBkSttlmDt", tx.SettlementDate)
	w.leaf("ChrgBr", chargeBearer(tx))

	writeParty(w, "Dbtr", tx.Sender)
	writeAgent(w, "DbtrAgt", defaultDebtorAgent)
	writeAgent(w, "CdtrAgt", creditorAgent(tx))
	writeParty(w, "Cdtr", tx.Recipient)

	if tx.DFIAccountNumber != "" {
		w.open("<CdtrAcct>")
		w.open("<Id>")
		w.open("<Othr>")
		w.leaf("Id", tx.DFIAccountNumber)
		w.close("</Othr>")
		w.close("</Id>")
		w.close("</CdtrAcct>")
	}

	if tx.RemittanceInfo != "" {
		w.open("<RmtInf>")
		w.leaf("Ustrd", tx.RemittanceInfo)
		w.close("</RmtInf>")
	}

	w.close("</CdtTrfTxInf>")
	w.close("</FIToFICstmrCdtTrf>")
	w.close("</Document>")

	return w.String()
}

func chargeBearer(tx entities.NormalizedTransaction) string {
	if tx.ChargeBearer != "" {
		return tx.ChargeBearer
	}
	return defaultChargeBearer
}

func creditorAgent(tx entities.NormalizedTransaction) string {
	if tx.ReceivingDFI != "" {
		return tx.ReceivingDFI
	}
	return defaultCreditorAgent
}

// writeAmount emits an amount element, carrying the Ccy attribute only
// when the source message supplied a currency. An empty Ccy="" would make
// the degraded document fail schema validation outright.
func writeAmount(w *docWriter, element, currency, amount string) {
	if currency == "" {
		w.leaf(element, amount)
		return
	}
	w.leafAttr(element, "Ccy", currency, amount)
}

func writeAgent(w *docWriter, element, memberID string) {
	w.open("<%s>", element)
	w.open("<FinInstnId>")
	w.open("<ClrSysMmbId>")
	w.leaf("MmbId", memberID)
	w.close("</ClrSysMmbId>")
	w.close("</FinInstnId>")
	w.close("</%s>", element)
}

// writeParty emits a party name plus a structured postal address when the
// source message carried address lines. The first line is the street; a
// second line in "City ST 12345" form decomposes into town, subdivision
// and postal code, anything else stays the town name.
func writeParty(w *docWriter, element string, party entities.Party) {
	w.open("<%s>", element)
	w.leaf("Nm", party.Name)

	if len(party.AddressLines) > 0 {
		w.open("<PstlAdr>")
		w.leaf("StrtNm", party.AddressLines[0])
		if len(party.AddressLines) > 1 {
			city := party.AddressLines[1]
			if m := cityStateZip.FindStringSubmatch(city); m != nil {
				w.leaf("TwnNm", m[1])
				w.leaf("CtrySubDvsn", m[2])
				w.leaf("PstCd", m[3])
			} else {
				w.leaf("TwnNm", city)
			}
		}
		w.leaf("Ctry", defaultCountry)
		w.close("</PstlAdr>")
	}

	w.close("</%s>", element)
}

// docWriter accumulates indented XML lines.
type docWriter struct {
	sb    strings.Builder
	depth int
}

func (w *docWriter) line(format string, args ...any) {
	w.sb.WriteString(strings.Repeat("    ", w.depth))
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

func (w *docWriter) open(format string, args ...any) {
	w.line(format, args...)
	w.depth++
}

func (w *docWriter) close(format string, args ...any) {
	w.depth--
	w.line(format, args...)
}

func (w *docWriter) leaf(element, text string) {
	w.line("<%s>%s</%s>", element, xmlEscaper.Replace(text), element)
}

func (w *docWriter) leafAttr(element, attr, attrValue, text string) {
	w.line(`<%s %s="%s">%s</%s>`, element, attr, xmlEscaper.Replace(attrValue), xmlEscaper.Replace(text), element)
}

func (w *docWriter) String() string {
	return w.sb.String()
}
