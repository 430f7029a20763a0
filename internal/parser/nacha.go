package parser

import "strings"

// nachaLineLength is the fixed NACHA record width. Shorter lines are padded
// with spaces before slicing so that out-of-range spans degrade to absent
// fields instead of panicking.
const nachaLineLength = 94

// NACHAFile is the parsed view of one NACHA CCD batch file: the batch
// header fields, one merged field set per entry detail record, and the raw
// credit control total from the batch control record when present.
type NACHAFile struct {
	Header             Fields
	Entries            []Fields
	ControlCreditTotal string
}

// NACHA parses fixed-width NACHA ACH batch files.
type NACHA struct{}

// ParseFile classifies each line by its leading record-type character:
// "5" is a batch header, "6" an entry detail, "8" a batch control; all
// other record types are skipped. Every entry field set also carries the
// batch header fields so a single entry is self-describing.
func (NACHA) ParseFile(content string) NACHAFile {
	file := NACHAFile{Header: Fields{}}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		switch line[0] {
		case '5':
			file.Header = parseBatchHeader(line)
		case '6':
			entry := parseEntryDetail(line)
			for name, value := range file.Header {
				entry[name] = value
			}
			file.Entries = append(file.Entries, entry)
		case '8':
			file.ControlCreditTotal = fixedSpan(line, 33, 44)
		}
	}

	return file
}

// Parse returns one field set per entry detail record. A file without any
// entries yields the batch header fields alone so the transformation can
// still complete with absent transaction fields.
func (p NACHA) Parse(content string) []Fields {
	file := p.ParseFile(content)
	if len(file.Entries) == 0 {
		return []Fields{file.Header}
	}
	return file.Entries
}

func parseBatchHeader(line string) Fields {
	fields := Fields{}
	setSpan(fields, FieldCompanyName, line, 5, 20)
	setSpan(fields, FieldCompanyID, line, 41, 50)
	setSpan(fields, FieldStandardEntryClass, line, 51, 53)
	setSpan(fields, FieldEntryDescription, line, 54, 63)
	setSpan(fields, FieldEffectiveEntryDate, line, 70, 75)
	return fields
}

func parseEntryDetail(line string) Fields {
	fields := Fields{}
	setSpan(fields, FieldTransactionCode, line, 2, 3)
	setSpan(fields, FieldReceivingDFI, line, 4, 11)
	setSpan(fields, FieldCheckDigit, line, 12, 12)
	setSpan(fields, FieldDFIAccountNumber, line, 13, 29)
	setSpan(fields, FieldAmount, line, 30, 39)
	setSpan(fields, FieldIndividualID, line, 40, 54)
	setSpan(fields, FieldIndividualName, line, 55, 76)
	setSpan(fields, FieldTraceNumber, line, 80, 94)
	return fields
}

func setSpan(fields Fields, name, line string, start, end int) {
	if v := fixedSpan(line, start, end); v != "" {
		fields.set(name, v)
	}
}

// fixedSpan extracts the 1-indexed inclusive byte range [start, end] per
// NACHA convention, trimming the surrounding fill spaces.
func fixedSpan(line string, start, end int) string {
	if len(line) < nachaLineLength {
		line += strings.Repeat(" ", nachaLineLength-len(line))
	}
	if start < 1 || end > len(line) || start > end {
		return ""
	}
	return strings.TrimSpace(line[start-1 : end])
}
