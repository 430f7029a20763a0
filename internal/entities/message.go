package entities

import "errors"

// MessageFormat identifies the legacy wire format of an inbound payment message.
type MessageFormat string

const (
	FormatMT103 MessageFormat = "MT103"
	FormatNACHA MessageFormat = "NACHA"
)

// ErrUnsupportedFormat is returned before any parsing when the declared
// format is not one of the two supported legacy formats.
var ErrUnsupportedFormat = errors.New("unsupported message format")

// ParseFormat maps a caller-supplied format tag onto a MessageFormat.
func ParseFormat(s string) (MessageFormat, error) {
	switch MessageFormat(s) {
	case FormatMT103:
		return FormatMT103, nil
	case FormatNACHA:
		return FormatNACHA, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// RawMessage is an opaque inbound message plus its declared format.
// It is never mutated after receipt.
type RawMessage struct {
	Format  MessageFormat `json:"format"`
	Content string        `json:"content"`
}
