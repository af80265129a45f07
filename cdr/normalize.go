package cdr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jalad-shrimali/cdr-analyzer/analysis"
	"github.com/jalad-shrimali/cdr-analyzer/carrier"
	"github.com/jalad-shrimali/cdr-analyzer/cells"
	"github.com/jalad-shrimali/cdr-analyzer/trace"
)

// SourceFile is one uploaded file after CSV tokenizing: a name and its rows.
type SourceFile struct {
	Name string
	Rows []carrier.RawRow
}

// Result of normalizing one file.
type Result struct {
	SourceFile string
	Provider   string
	Account    string
	Records    []CallRecord
}

// fallbackAccountRE is the last resort when no profile pattern matches the
// header region: any run of ten or more digits.
var fallbackAccountRE = regexp.MustCompile(`[0-9]{10,}`)

// Normalize converts one file's raw rows into canonical records using the
// given profile. It never fails: unusable rows are dropped, unusable fields
// default to zero values, a missing subject number becomes UnknownAccount.
// Normalizing the same input twice yields identical output.
func Normalize(f SourceFile, p *carrier.Profile, cal analysis.Calibration, look *cells.Lookup, hook trace.Hook) Result {
	if hook == nil {
		hook = trace.Nop{}
	}

	dataStart := p.DataStart
	if carrier.DeviceVariant(p, f.Name, f.Rows) {
		dataStart = p.IMEIDataStart
	}
	if dataStart > len(f.Rows) {
		dataStart = len(f.Rows)
	}

	account := extractAccount(f.Rows[:dataStart], p)
	if account == UnknownAccount {
		hook.Warn("no account number in header region", "file", f.Name, "profile", p.Name)
	}
	account10 := Last10(account)

	res := Result{SourceFile: f.Name, Provider: p.Name, Account: account}
	for i, row := range f.Rows[dataStart:] {
		if !acceptRow(row, p) {
			hook.Debug("row rejected", "file", f.Name, "row", dataStart+i)
			continue
		}
		res.Records = append(res.Records, buildRecord(row, p, account, account10, f.Name, cal, look))
	}
	hook.Info("file normalized",
		"file", f.Name, "profile", p.Name, "account", account, "records", len(res.Records))
	return res
}

// extractAccount scans the header region for the subject number. Profile
// patterns run in order (device-identifier patterns ahead of MSISDN ones),
// then the generic long-digit fallback.
func extractAccount(header []carrier.RawRow, p *carrier.Profile) string {
	for _, re := range p.AccountPatterns {
		for _, row := range header {
			if m := re.FindStringSubmatch(strings.Join(row, " ")); len(m) > 1 {
				return m[1]
			}
		}
	}
	for _, row := range header {
		if m := fallbackAccountRE.FindString(strings.Join(row, " ")); m != "" {
			return m
		}
	}
	return UnknownAccount
}

// acceptRow keeps a data row only if at least one cell is non-empty and not
// a repeated header label. Trailing header repeats and blank padding rows
// are routine in these exports, as are "system generated" trailer lines.
func acceptRow(row carrier.RawRow, p *carrier.Profile) bool {
	if len(row) > 0 {
		first := strings.ToLower(strings.TrimSpace(row[0]))
		if strings.HasPrefix(first, "this is system") || strings.Contains(first, "system generated") {
			return false
		}
	}
	for i := range row {
		v := row.Get(i)
		if v != "" && !p.IsHeaderToken(v) {
			return true
		}
	}
	return false
}

func buildRecord(row carrier.RawRow, p *carrier.Profile, account, account10, file string, cal analysis.Calibration, look *cells.Lookup) CallRecord {
	callType := row.Get(p.Field(carrier.FieldCallType))
	timeOfDay := row.Get(p.Field(carrier.FieldTime))

	rec := CallRecord{
		AccountNumber:      account,
		CounterpartyNumber: counterparty(row, p, account10),
		Date:               row.Get(p.Field(carrier.FieldDate)),
		Time:               timeOfDay,
		DurationSeconds:    ParseDuration(row.Get(p.Field(carrier.FieldDuration))),
		Direction:          classifyDirection(callType),
		Service:            classifyService(callType, row.Get(p.Field(carrier.FieldServiceType))),
		FirstCellID:        Digits(row.Get(p.Field(carrier.FieldFirstCellID))),
		FirstCellAddress:   row.Get(p.Field(carrier.FieldFirstCellAddress)),
		LastCellID:         Digits(row.Get(p.Field(carrier.FieldLastCellID))),
		LastCellAddress:    row.Get(p.Field(carrier.FieldLastCellAddress)),
		DeviceIMEI:         row.Get(p.Field(carrier.FieldIMEI)),
		SubscriberIMSI:     row.Get(p.Field(carrier.FieldIMSI)),
		Roaming:            row.Get(p.Field(carrier.FieldRoaming)),
		SourceFile:         file,
	}

	if h, ok := parseHour(timeOfDay); ok {
		rec.Night = cal.IsNightHour(h)
	}

	if rec.FirstCellAddress == "" {
		if info, ok := look.Cell(rec.FirstCellID); ok {
			rec.FirstCellAddress = info.Address
		}
	}
	if rec.LastCellAddress == "" {
		if info, ok := look.Cell(rec.LastCellID); ok {
			rec.LastCellAddress = info.Address
		}
	}
	return rec
}

// counterparty resolves the other party. Layouts with separate calling and
// called columns get whichever side is not the account itself.
func counterparty(row carrier.RawRow, p *carrier.Profile, account10 string) string {
	b := row.Get(p.Field(carrier.FieldBParty))
	if p.AltPartyIndex < 0 {
		return b
	}
	alt := row.Get(p.AltPartyIndex)
	switch {
	case Last10(b) == account10 && alt != "":
		return alt
	case Last10(alt) == account10 && b != "":
		return b
	case b != "":
		return b
	default:
		return alt
	}
}

// ParseDuration coerces a duration cell to whole seconds. Placeholders and
// garbage ("-", "", "abc") become 0, never an error.
func ParseDuration(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return int(f)
	}
	return 0
}

func classifyDirection(callType string) Direction {
	ct := strings.ToUpper(callType)
	switch {
	case strings.Contains(ct, "OUT"):
		return DirectionOutgoing
	case strings.Contains(ct, "IN"):
		return DirectionIncoming
	default:
		return DirectionUnknown
	}
}

func classifyService(callType, serviceType string) ServiceType {
	ct := strings.ToUpper(callType)
	st := strings.ToUpper(serviceType)
	switch {
	case strings.Contains(ct, "SMS") || strings.Contains(st, "SMS"):
		return ServiceSMS
	case strings.Contains(ct, "CALL") || strings.Contains(ct, "IN") || strings.Contains(ct, "OUT") ||
		strings.Contains(st, "VOICE"):
		return ServiceVoice
	default:
		return ServiceOther
	}
}

// parseHour pulls the hour out of "HH:MM" / "HH:MM:SS" / "HH.MM" cells.
func parseHour(t string) (int, bool) {
	t = strings.TrimSpace(t)
	if t == "" {
		return 0, false
	}
	sep := strings.IndexAny(t, ":.")
	if sep <= 0 {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(t[:sep]))
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}
