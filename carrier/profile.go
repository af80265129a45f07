// Package carrier knows the export layouts of the supported telecom
// providers: how to recognise a file, where its tabular region starts, which
// column holds which canonical field, and how the subject number is buried
// in the banner text above the table.
package carrier

import (
	"regexp"
	"strings"
)

// Canonical field keys used by profile field maps.
const (
	FieldBParty           = "bParty"
	FieldDate             = "date"
	FieldTime             = "time"
	FieldDuration         = "duration"
	FieldCallType         = "callType"
	FieldServiceType      = "serviceType"
	FieldFirstCellID      = "firstCellId"
	FieldFirstCellAddress = "firstCellAddress"
	FieldLastCellID       = "lastCellId"
	FieldLastCellAddress  = "lastCellAddress"
	FieldIMEI             = "imei"
	FieldIMSI             = "imsi"
	FieldRoaming          = "roaming"
)

// RawRow is one tokenized CSV row as handed over by the caller. CSV-level
// quoting is already resolved; cells may still carry stray quotes and
// padding from the export tools.
type RawRow []string

// Get returns the trimmed cell at index i, or "" when the index is out of
// range. Negative indexes mean "column absent in this layout".
func (r RawRow) Get(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.Trim(r[i], "'\" ")
}

// Empty reports whether every cell is blank after trimming.
func (r RawRow) Empty() bool {
	for i := range r {
		if r.Get(i) != "" {
			return false
		}
	}
	return true
}

// Profile describes one carrier export layout. Immutable after init.
type Profile struct {
	Name string

	// Signatures are uppercased substrings that identify the layout in
	// the sampled banner/header rows.
	Signatures []string

	// DataStart is the row offset where tabular data begins. Some
	// carriers ship a "by device identifier" export variant with an
	// extra banner line; IMEIDataStart is its offset (0 = no variant).
	DataStart     int
	IMEIDataStart int

	// Fields maps canonical field keys to column indexes.
	Fields map[string]int

	// AltPartyIndex points at the second party column in layouts that
	// carry calling and called numbers separately; -1 otherwise. The
	// normalizer picks whichever side is not the account itself.
	AltPartyIndex int

	// AccountPatterns are tried in order against the header region to
	// extract the subject number. Device-identifier patterns come first
	// so a 15-digit IMEI is never captured as a truncated MSISDN.
	AccountPatterns []*regexp.Regexp

	// HeaderTokens are normalized header labels. Rows whose non-empty
	// cells are all header tokens are repeated-header padding, not data.
	HeaderTokens []string
}

var spaceRE = regexp.MustCompile(`\s+`)

// Norm lower-cases, trims and collapses whitespace, the comparison form
// used for header labels throughout.
func Norm(s string) string {
	return spaceRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// Field returns the column index for a canonical field key, -1 when the
// layout has no such column.
func (p *Profile) Field(key string) int {
	if i, ok := p.Fields[key]; ok {
		return i
	}
	return -1
}

// IsHeaderToken reports whether a cell value matches one of the profile's
// header labels.
func (p *Profile) IsHeaderToken(cell string) bool {
	n := Norm(cell)
	for _, t := range p.HeaderTokens {
		if n == t {
			return true
		}
	}
	return false
}
