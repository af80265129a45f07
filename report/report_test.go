package report

import (
	"testing"

	"github.com/jalad-shrimali/cdr-analyzer/analysis"
	"github.com/jalad-shrimali/cdr-analyzer/cdr"
)

func rec(mutate func(*cdr.CallRecord)) cdr.CallRecord {
	r := cdr.CallRecord{
		AccountNumber:      "9000000001",
		CounterpartyNumber: "9000000002",
		Date:               "2024-01-01",
		Time:               "10:00:00",
		DurationSeconds:    60,
		Direction:          cdr.DirectionOutgoing,
		Service:            cdr.ServiceVoice,
		SourceFile:         "a.csv",
	}
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func TestGenerateEmptyInput(t *testing.T) {
	t.Parallel()

	d := Generate(cdr.Result{SourceFile: "a.csv", Provider: "generic", Account: "Unknown"}, analysis.Default(), nil)

	if len(d.Summary) != 1 {
		t.Fatalf("summary rows = %d, want exactly 1", len(d.Summary))
	}
	s := d.Summary[0]
	if s.TotalRecords != 0 || s.TotalDuration != 0 || s.ActiveDays != 0 {
		t.Fatalf("empty input must yield a zero summary row, got %+v", s)
	}
	if s.Account != "Unknown" {
		t.Fatalf("summary account = %q", s.Account)
	}
	if len(d.Contacts) != 0 || len(d.MaxStay) != 0 {
		t.Fatalf("empty input must yield empty aggregate tables")
	}
	// The night/day split is always emitted for renderers.
	if len(d.Windows) != 2 {
		t.Fatalf("windows = %d, want 2", len(d.Windows))
	}
}

func TestOverallSummaryCounters(t *testing.T) {
	t.Parallel()

	recs := []cdr.CallRecord{
		rec(nil), // voice out
		rec(func(r *cdr.CallRecord) { r.Direction = cdr.DirectionIncoming; r.Time = "23:00:00"; r.Night = true }),
		rec(func(r *cdr.CallRecord) { r.Service = cdr.ServiceSMS; r.Direction = cdr.DirectionIncoming; r.DurationSeconds = 0 }),
		rec(func(r *cdr.CallRecord) { r.Service = cdr.ServiceOther; r.Direction = cdr.DirectionUnknown; r.Date = "2024-01-02" }),
	}
	d := Generate(cdr.Result{Account: "9000000001", Records: recs}, analysis.Default(), nil)

	s := d.Summary[0]
	if s.TotalRecords != 4 || s.CallsOut != 1 || s.CallsIn != 1 || s.SMSIn != 1 || s.Other != 1 {
		t.Fatalf("summary counters wrong: %+v", s)
	}
	if s.NightRecords != 1 || s.ActiveDays != 2 || s.TotalDuration != 180 {
		t.Fatalf("summary aggregates wrong: %+v", s)
	}
	if s.FirstSeen != "2024-01-01 10:00:00" || s.LastSeen != "2024-01-02 10:00:00" {
		t.Fatalf("date span wrong: %q .. %q", s.FirstSeen, s.LastSeen)
	}
}

func TestTopRankingsStableTieBreak(t *testing.T) {
	t.Parallel()

	// Three contacts: B and C tie on calls; B was encountered first and
	// must stay ahead of C. A leads outright.
	var recs []cdr.CallRecord
	add := func(number string, n int, dur int) {
		for i := 0; i < n; i++ {
			recs = append(recs, rec(func(r *cdr.CallRecord) {
				r.CounterpartyNumber = number
				r.DurationSeconds = dur
			}))
		}
	}
	add("9000000011", 3, 10) // A
	add("9000000012", 2, 50) // B
	add("9000000013", 2, 20) // C

	d := Generate(cdr.Result{Account: "9000000001", Records: recs}, analysis.Default(), nil)

	wantCalls := []string{"9000000011", "9000000012", "9000000013"}
	for i, w := range wantCalls {
		if d.TopByCalls[i].Number != w {
			t.Fatalf("top by calls[%d] = %q, want %q", i, d.TopByCalls[i].Number, w)
		}
	}

	wantDur := []string{"9000000012", "9000000013", "9000000011"}
	for i, w := range wantDur {
		if d.TopByDuration[i].Number != w {
			t.Fatalf("top by duration[%d] = %q, want %q", i, d.TopByDuration[i].Number, w)
		}
	}
}

func TestTopNTruncation(t *testing.T) {
	t.Parallel()

	cal := analysis.Default()
	cal.TopN = 2

	var recs []cdr.CallRecord
	for i := 0; i < 5; i++ {
		n := byte('1' + i)
		recs = append(recs, rec(func(r *cdr.CallRecord) { r.CounterpartyNumber = "900000002" + string(n) }))
	}
	d := Generate(cdr.Result{Account: "9000000001", Records: recs}, cal, nil)

	if len(d.Contacts) != 5 {
		t.Fatalf("contacts = %d, want all 5", len(d.Contacts))
	}
	if len(d.TopByCalls) != 2 || len(d.TopByDuration) != 2 {
		t.Fatalf("top tables not truncated: %d, %d", len(d.TopByCalls), len(d.TopByDuration))
	}
}

func TestStayRankingsSplitByWindow(t *testing.T) {
	t.Parallel()

	recs := []cdr.CallRecord{
		rec(func(r *cdr.CallRecord) { r.FirstCellID = "40401"; r.FirstCellAddress = "Market Rd" }),
		rec(func(r *cdr.CallRecord) { r.FirstCellID = "40401" }),
		rec(func(r *cdr.CallRecord) { r.FirstCellID = "40402"; r.Night = true; r.Time = "23:00:00" }),
	}
	d := Generate(cdr.Result{Account: "9000000001", Records: recs}, analysis.Default(), nil)

	if len(d.MaxStay) != 2 || d.MaxStay[0].CellID != "40401" || d.MaxStay[0].TotalRecords != 2 {
		t.Fatalf("max stay wrong: %+v", d.MaxStay)
	}
	if d.MaxStay[0].Address != "Market Rd" {
		t.Fatalf("address not carried: %+v", d.MaxStay[0])
	}
	if len(d.DayMaxStay) != 1 || d.DayMaxStay[0].CellID != "40401" {
		t.Fatalf("day stay wrong: %+v", d.DayMaxStay)
	}
	if len(d.NightMaxStay) != 1 || d.NightMaxStay[0].CellID != "40402" {
		t.Fatalf("night stay wrong: %+v", d.NightMaxStay)
	}
	if len(d.Locations) != 1 || d.Locations[0].CellID != "40401" {
		t.Fatalf("likely locations should come from daytime dwell: %+v", d.Locations)
	}
}

func TestDeviceAndSimGroups(t *testing.T) {
	t.Parallel()

	recs := []cdr.CallRecord{
		rec(func(r *cdr.CallRecord) { r.DeviceIMEI = "358240051111110"; r.SubscriberIMSI = "404011234567890" }),
		rec(func(r *cdr.CallRecord) {
			r.DeviceIMEI = "358240051111110"
			r.CounterpartyNumber = "9000000003"
			r.Date = "2024-01-03"
		}),
		rec(func(r *cdr.CallRecord) { r.DeviceIMEI = "358240052222220" }),
	}
	d := Generate(cdr.Result{Account: "9000000001", Records: recs}, analysis.Default(), nil)

	if len(d.Devices) != 2 {
		t.Fatalf("devices = %d, want 2", len(d.Devices))
	}
	top := d.Devices[0]
	if top.Identifier != "358240051111110" || top.TotalRecords != 2 || top.Contacts != 2 {
		t.Fatalf("device group wrong: %+v", top)
	}
	if top.FirstSeen != "2024-01-01 10:00:00" || top.LastSeen != "2024-01-03 10:00:00" {
		t.Fatalf("device first/last wrong: %+v", top)
	}
	if len(d.Sims) != 1 || d.Sims[0].Identifier != "404011234567890" {
		t.Fatalf("sim group wrong: %+v", d.Sims)
	}
}

func TestRoamingSummaries(t *testing.T) {
	t.Parallel()

	recs := []cdr.CallRecord{
		rec(func(r *cdr.CallRecord) { r.Roaming = "Mumbai" }),
		rec(func(r *cdr.CallRecord) { r.Roaming = "Mumbai"; r.Service = cdr.ServiceSMS }),
		rec(func(r *cdr.CallRecord) { r.Roaming = "Kolkata" }),
		rec(nil), // home network, excluded
	}
	d := Generate(cdr.Result{Account: "9000000001", Records: recs}, analysis.Default(), nil)

	if len(d.Roaming) != 2 {
		t.Fatalf("roaming circles = %d, want 2", len(d.Roaming))
	}
	if d.Roaming[0].Circle != "Mumbai" || d.Roaming[0].Calls != 1 || d.Roaming[0].SMS != 1 {
		t.Fatalf("roaming aggregate wrong: %+v", d.Roaming[0])
	}
}
