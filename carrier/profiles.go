package carrier

import "regexp"

/* ───────── account-number extraction patterns ───────── */

// imeiAccountRE matches device-identifier exports where the search subject
// is an IMEI rather than an MSISDN. Tried before the MSISDN patterns.
var imeiAccountRE = regexp.MustCompile(`(?i)imei[^0-9]*([0-9]{14,17})`)

var (
	airtelAccountRE = regexp.MustCompile(`Mobile No '(\d+)'`)
	jioAccountRE    = regexp.MustCompile(`(?i)input value[^0-9]*([0-9]{8,15})`)
	viAccountRE     = regexp.MustCompile(`(?i)msisdn[^0-9]*([0-9]{8,15})`)
	bsnlAccountRE   = regexp.MustCompile(`(?i)search\s*value[^0-9]*([0-9]{8,15})`)
)

/* ───────── per-carrier layouts ───────── */

// Airtel: two banner lines, "Target No ..." header, positional table.
var Airtel = &Profile{
	Name:          "airtel",
	Signatures:    []string{"MOBILE NO '", "TARGET NO"},
	DataStart:     3,
	IMEIDataStart: 4,
	Fields: map[string]int{
		FieldBParty:      1,
		FieldDate:        2,
		FieldTime:        3,
		FieldDuration:    4,
		FieldCallType:    5,
		FieldFirstCellID: 6,
		FieldLastCellID:  7,
		FieldIMEI:        8,
		FieldIMSI:        9,
		FieldRoaming:     10,
		FieldServiceType: 11,
	},
	AltPartyIndex:   -1,
	AccountPatterns: []*regexp.Regexp{imeiAccountRE, airtelAccountRE},
	HeaderTokens: []string{
		"target no", "b party no", "date", "time", "dur(s)", "call type",
		"first cgi", "last cgi", "imei", "imsi", "roam nw", "service type",
	},
}

// Jio: "Input Value : <msisdn>" banner, separate calling/called columns.
var Jio = &Profile{
	Name:       "jio",
	Signatures: []string{"INPUT VALUE"},
	DataStart:  2,
	Fields: map[string]int{
		FieldBParty:      1,
		FieldDate:        2,
		FieldTime:        3,
		FieldDuration:    4,
		FieldCallType:    5,
		FieldFirstCellID: 6,
		FieldLastCellID:  7,
		FieldIMEI:        8,
		FieldIMSI:        9,
		FieldRoaming:     10,
		FieldServiceType: 11,
	},
	AltPartyIndex:   0,
	AccountPatterns: []*regexp.Regexp{imeiAccountRE, jioAccountRE},
	HeaderTokens: []string{
		"calling party telephone number", "called party telephone number",
		"call date", "call time", "dur(s)", "call type", "first cgi",
		"last cgi", "imei", "imsi", "roaming circle name", "service type",
	},
}

// Vi: "MSISDN : - <number>" banner block, addresses inline in the table.
var Vi = &Profile{
	Name:          "vi",
	Signatures:    []string{"MSISDN"},
	DataStart:     4,
	IMEIDataStart: 5,
	Fields: map[string]int{
		FieldBParty:           0,
		FieldDate:             1,
		FieldTime:             2,
		FieldDuration:         3,
		FieldCallType:         4,
		FieldFirstCellID:      5,
		FieldFirstCellAddress: 6,
		FieldLastCellID:       7,
		FieldLastCellAddress:  8,
		FieldIMEI:             9,
		FieldIMSI:             10,
		FieldRoaming:          11,
		FieldServiceType:      12,
	},
	AltPartyIndex:   -1,
	AccountPatterns: []*regexp.Regexp{imeiAccountRE, viAccountRE},
	HeaderTokens: []string{
		"b party no", "call date", "call time", "call duration", "call type",
		"first cell id", "first cell id address", "last cell id",
		"last cell id address", "imei", "imsi", "roaming circle name",
		"service type",
	},
}

// BSNL: "Search Value" banner, call type ahead of date/time.
var BSNL = &Profile{
	Name:       "bsnl",
	Signatures: []string{"SEARCH VALUE"},
	DataStart:  2,
	Fields: map[string]int{
		FieldBParty:      0,
		FieldCallType:    1,
		FieldDate:        2,
		FieldTime:        3,
		FieldDuration:    4,
		FieldFirstCellID: 5,
		FieldLastCellID:  6,
		FieldIMEI:        7,
		FieldIMSI:        8,
		FieldRoaming:     9,
	},
	AltPartyIndex:   -1,
	AccountPatterns: []*regexp.Regexp{imeiAccountRE, bsnlAccountRE},
	HeaderTokens: []string{
		"called party telephone number", "call type", "date", "time",
		"call duration", "first cell id", "last cell id", "imei", "imsi",
		"roaming circle name",
	},
}

// Generic is the fallback when nothing matches: header row then data, the
// most common shape of hand-edited exports. Field positions may misalign
// for truly unknown layouts; that risk is accepted.
var Generic = &Profile{
	Name:      "generic",
	DataStart: 1,
	Fields: map[string]int{
		FieldBParty:      0,
		FieldDate:        1,
		FieldTime:        2,
		FieldDuration:    3,
		FieldCallType:    4,
		FieldFirstCellID: 5,
		FieldLastCellID:  6,
		FieldIMEI:        7,
		FieldIMSI:        8,
		FieldRoaming:     9,
	},
	AltPartyIndex:   -1,
	AccountPatterns: []*regexp.Regexp{imeiAccountRE},
	HeaderTokens: []string{
		"b party", "b party no", "date", "time", "duration", "call type",
		"first cell id", "last cell id", "imei", "imsi", "roaming",
	},
}

// registry fixes detection priority. First signature hit wins.
var registry = []*Profile{Airtel, Jio, Vi, BSNL}

// Profiles returns the known carrier profiles in detection priority order,
// excluding the generic fallback.
func Profiles() []*Profile {
	out := make([]*Profile, len(registry))
	copy(out, registry)
	return out
}
