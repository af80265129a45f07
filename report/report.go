// Package report builds the per-account aggregate tables consumed by the
// spreadsheet renderer. One file, one account, one ProcessedCDRData.
package report

import (
	"sort"

	"github.com/jalad-shrimali/cdr-analyzer/analysis"
	"github.com/jalad-shrimali/cdr-analyzer/cdr"
	"github.com/jalad-shrimali/cdr-analyzer/cells"
)

// Summary is the one-row account overview. Generate always emits at least
// one Summary row, all zeros for empty input, so renderers never see an
// empty table.
type Summary struct {
	Account       string
	TotalRecords  int
	CallsIn       int
	CallsOut      int
	SMSIn         int
	SMSOut        int
	Other         int
	TotalDuration int
	NightRecords  int
	FirstSeen     string
	LastSeen      string
	ActiveDays    int
}

// ContactSummary aggregates all traffic with one counterparty.
type ContactSummary struct {
	Number        string
	TotalCalls    int
	OutCalls      int
	InCalls       int
	OutSMS        int
	InSMS         int
	Other         int
	RoamCalls     int
	RoamSMS       int
	TotalDuration int
	Days          int
	CellIDs       int
	IMEIs         int
	IMSIs         int
	FirstCall     string
	LastCall      string
}

// CellStay is one row of the "max stay" dwell ranking.
type CellStay struct {
	CellID        string
	Address       string
	TotalRecords  int
	TotalDuration int
	Days          int
	First         string
	Last          string
}

// CircleSummary aggregates activity per roaming circle.
type CircleSummary struct {
	Circle        string
	Calls         int
	SMS           int
	TotalDuration int
}

// DeviceSummary groups records per IMEI or IMSI.
type DeviceSummary struct {
	Identifier    string
	TotalRecords  int
	TotalDuration int
	Contacts      int
	FirstSeen     string
	LastSeen      string
}

// WindowSummary is the night/day split overview.
type WindowSummary struct {
	Window        string
	Records       int
	TotalDuration int
}

// LocationGuess is a likely home/work candidate: a top daytime dwell
// location with best-effort coordinates. Heuristic, not validated.
type LocationGuess struct {
	CellID  string
	Address string
	Records int
	Lat     float64
	Lon     float64
}

// ProcessedCDRData bundles every aggregate table for one file. This is the
// input contract of the export/rendering collaborators.
type ProcessedCDRData struct {
	Account    string
	Provider   string
	SourceFile string

	Summary       []Summary
	Contacts      []ContactSummary
	TopByCalls    []ContactSummary
	TopByDuration []ContactSummary
	MaxStay       []CellStay
	Roaming       []CircleSummary
	Windows       []WindowSummary
	NightMaxStay  []CellStay
	DayMaxStay    []CellStay
	Devices       []DeviceSummary
	Sims          []DeviceSummary
	Locations     []LocationGuess
}

// Generate computes all aggregate tables for one account's records.
// Aggregations never fail; absent fields degrade to zero/empty aggregates.
func Generate(res cdr.Result, cal analysis.Calibration, look *cells.Lookup) *ProcessedCDRData {
	d := &ProcessedCDRData{
		Account:    res.Account,
		Provider:   res.Provider,
		SourceFile: res.SourceFile,
	}

	d.Summary = []Summary{overallSummary(res.Account, res.Records)}
	d.Contacts = contactSummaries(res.Records)
	d.TopByCalls = topContacts(d.Contacts, cal.TopN, byCalls)
	d.TopByDuration = topContacts(d.Contacts, cal.TopN, byDuration)
	d.MaxStay = stayRanking(res.Records, cal.TopN, anyWindow)
	d.Roaming = roamingSummaries(res.Records)
	d.Windows = windowSummaries(res.Records)
	d.NightMaxStay = stayRanking(res.Records, cal.TopN, nightOnly)
	d.DayMaxStay = stayRanking(res.Records, cal.TopN, dayOnly)
	d.Devices = deviceSummaries(res.Records, func(r cdr.CallRecord) string { return r.DeviceIMEI })
	d.Sims = deviceSummaries(res.Records, func(r cdr.CallRecord) string { return r.SubscriberIMSI })
	d.Locations = likelyLocations(d.DayMaxStay, cal.LocationGuesses, look)
	return d
}

func overallSummary(account string, recs []cdr.CallRecord) Summary {
	s := Summary{Account: account}
	days := map[string]struct{}{}
	for _, r := range recs {
		s.TotalRecords++
		s.TotalDuration += r.DurationSeconds
		switch {
		case r.Service == cdr.ServiceSMS && r.Direction == cdr.DirectionOutgoing:
			s.SMSOut++
		case r.Service == cdr.ServiceSMS:
			s.SMSIn++
		case r.Service == cdr.ServiceVoice && r.Direction == cdr.DirectionOutgoing:
			s.CallsOut++
		case r.Service == cdr.ServiceVoice:
			s.CallsIn++
		default:
			s.Other++
		}
		if r.Night {
			s.NightRecords++
		}
		if r.Date != "" {
			days[r.Date] = struct{}{}
		}
		ts := r.Timestamp()
		if ts != "" {
			if s.FirstSeen == "" || ts < s.FirstSeen {
				s.FirstSeen = ts
			}
			if s.LastSeen == "" || ts > s.LastSeen {
				s.LastSeen = ts
			}
		}
	}
	s.ActiveDays = len(days)
	return s
}

// contactAgg accumulates per-counterparty state before flattening.
type contactAgg struct {
	sum   ContactSummary
	days  map[string]struct{}
	cells map[string]struct{}
	imeis map[string]struct{}
	imsis map[string]struct{}
}

func contactSummaries(recs []cdr.CallRecord) []ContactSummary {
	byNumber := map[string]*contactAgg{}
	var order []string

	for _, r := range recs {
		key := r.CounterpartyNumber
		if key == "" {
			key = "(blank)"
		}
		a, ok := byNumber[key]
		if !ok {
			a = &contactAgg{
				sum:   ContactSummary{Number: key},
				days:  map[string]struct{}{},
				cells: map[string]struct{}{},
				imeis: map[string]struct{}{},
				imsis: map[string]struct{}{},
			}
			byNumber[key] = a
			order = append(order, key)
		}

		a.sum.TotalCalls++
		a.sum.TotalDuration += r.DurationSeconds
		switch {
		case r.Service == cdr.ServiceSMS && r.Direction == cdr.DirectionOutgoing:
			a.sum.OutSMS++
		case r.Service == cdr.ServiceSMS:
			a.sum.InSMS++
		case r.Direction == cdr.DirectionOutgoing:
			a.sum.OutCalls++
		case r.Direction == cdr.DirectionIncoming:
			a.sum.InCalls++
		default:
			a.sum.Other++
		}
		if r.Roams() {
			if r.Service == cdr.ServiceSMS {
				a.sum.RoamSMS++
			} else {
				a.sum.RoamCalls++
			}
		}
		if r.Date != "" {
			a.days[r.Date] = struct{}{}
		}
		if r.FirstCellID != "" {
			a.cells[r.FirstCellID] = struct{}{}
		}
		if r.LastCellID != "" {
			a.cells[r.LastCellID] = struct{}{}
		}
		if r.DeviceIMEI != "" {
			a.imeis[r.DeviceIMEI] = struct{}{}
		}
		if r.SubscriberIMSI != "" {
			a.imsis[r.SubscriberIMSI] = struct{}{}
		}
		ts := r.Timestamp()
		if ts != "" {
			if a.sum.FirstCall == "" || ts < a.sum.FirstCall {
				a.sum.FirstCall = ts
			}
			if a.sum.LastCall == "" || ts > a.sum.LastCall {
				a.sum.LastCall = ts
			}
		}
	}

	out := make([]ContactSummary, 0, len(order))
	for _, key := range order {
		a := byNumber[key]
		a.sum.Days = len(a.days)
		a.sum.CellIDs = len(a.cells)
		a.sum.IMEIs = len(a.imeis)
		a.sum.IMSIs = len(a.imsis)
		out = append(out, a.sum)
	}
	return out
}

func byCalls(a, b ContactSummary) bool    { return a.TotalCalls > b.TotalCalls }
func byDuration(a, b ContactSummary) bool { return a.TotalDuration > b.TotalDuration }

// topContacts ranks descending with a stable tie-break on first-encountered
// order, truncated to n.
func topContacts(contacts []ContactSummary, n int, less func(a, b ContactSummary) bool) []ContactSummary {
	ranked := make([]ContactSummary, len(contacts))
	copy(ranked, contacts)
	sort.SliceStable(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func anyWindow(cdr.CallRecord) bool   { return true }
func nightOnly(r cdr.CallRecord) bool { return r.Night }
func dayOnly(r cdr.CallRecord) bool   { return !r.Night }

// stayRanking builds the per-tower dwell table over records matching the
// window filter, ranked by record count.
func stayRanking(recs []cdr.CallRecord, n int, window func(cdr.CallRecord) bool) []CellStay {
	type stayAgg struct {
		stay CellStay
		days map[string]struct{}
	}
	byCell := map[string]*stayAgg{}
	var order []string

	for _, r := range recs {
		if !window(r) || r.FirstCellID == "" {
			continue
		}
		a, ok := byCell[r.FirstCellID]
		if !ok {
			a = &stayAgg{
				stay: CellStay{CellID: r.FirstCellID, Address: r.FirstCellAddress},
				days: map[string]struct{}{},
			}
			byCell[r.FirstCellID] = a
			order = append(order, r.FirstCellID)
		}
		a.stay.TotalRecords++
		a.stay.TotalDuration += r.DurationSeconds
		if a.stay.Address == "" {
			a.stay.Address = r.FirstCellAddress
		}
		if r.Date != "" {
			a.days[r.Date] = struct{}{}
		}
		ts := r.Timestamp()
		if ts != "" {
			if a.stay.First == "" || ts < a.stay.First {
				a.stay.First = ts
			}
			if a.stay.Last == "" || ts > a.stay.Last {
				a.stay.Last = ts
			}
		}
	}

	out := make([]CellStay, 0, len(order))
	for _, id := range order {
		a := byCell[id]
		a.stay.Days = len(a.days)
		out = append(out, a.stay)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalRecords > out[j].TotalRecords })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func roamingSummaries(recs []cdr.CallRecord) []CircleSummary {
	byCircle := map[string]*CircleSummary{}
	var order []string
	for _, r := range recs {
		if !r.Roams() {
			continue
		}
		a, ok := byCircle[r.Roaming]
		if !ok {
			a = &CircleSummary{Circle: r.Roaming}
			byCircle[r.Roaming] = a
			order = append(order, r.Roaming)
		}
		if r.Service == cdr.ServiceSMS {
			a.SMS++
		} else {
			a.Calls++
		}
		a.TotalDuration += r.DurationSeconds
	}
	out := make([]CircleSummary, 0, len(order))
	for _, c := range order {
		out = append(out, *byCircle[c])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Calls+out[i].SMS > out[j].Calls+out[j].SMS
	})
	return out
}

func windowSummaries(recs []cdr.CallRecord) []WindowSummary {
	night := WindowSummary{Window: "night"}
	day := WindowSummary{Window: "day"}
	for _, r := range recs {
		if r.Night {
			night.Records++
			night.TotalDuration += r.DurationSeconds
		} else {
			day.Records++
			day.TotalDuration += r.DurationSeconds
		}
	}
	return []WindowSummary{night, day}
}

func deviceSummaries(recs []cdr.CallRecord, key func(cdr.CallRecord) string) []DeviceSummary {
	type devAgg struct {
		sum      DeviceSummary
		contacts map[string]struct{}
	}
	byID := map[string]*devAgg{}
	var order []string

	for _, r := range recs {
		id := key(r)
		if id == "" {
			continue
		}
		a, ok := byID[id]
		if !ok {
			a = &devAgg{sum: DeviceSummary{Identifier: id}, contacts: map[string]struct{}{}}
			byID[id] = a
			order = append(order, id)
		}
		a.sum.TotalRecords++
		a.sum.TotalDuration += r.DurationSeconds
		if r.CounterpartyNumber != "" {
			a.contacts[r.CounterpartyNumber] = struct{}{}
		}
		ts := r.Timestamp()
		if ts != "" {
			if a.sum.FirstSeen == "" || ts < a.sum.FirstSeen {
				a.sum.FirstSeen = ts
			}
			if a.sum.LastSeen == "" || ts > a.sum.LastSeen {
				a.sum.LastSeen = ts
			}
		}
	}

	out := make([]DeviceSummary, 0, len(order))
	for _, id := range order {
		a := byID[id]
		a.sum.Contacts = len(a.contacts)
		out = append(out, a.sum)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalRecords > out[j].TotalRecords })
	return out
}

// likelyLocations derives home/work candidates from the top daytime dwell
// towers. Coordinates come from the lookup's city table or its jittered
// fallback; nothing here is verified geocoding.
func likelyLocations(dayStay []CellStay, n int, look *cells.Lookup) []LocationGuess {
	if n > 0 && len(dayStay) > n {
		dayStay = dayStay[:n]
	}
	out := make([]LocationGuess, 0, len(dayStay))
	for _, s := range dayStay {
		g := LocationGuess{CellID: s.CellID, Address: s.Address, Records: s.TotalRecords}
		if info, ok := look.Cell(s.CellID); ok && (info.Lat != 0 || info.Lon != 0) {
			g.Lat, g.Lon = info.Lat, info.Lon
			if g.Address == "" {
				g.Address = info.Address
			}
		} else {
			g.Lat, g.Lon = look.Coordinates(s.Address)
		}
		out = append(out, g)
	}
	return out
}
