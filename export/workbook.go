// Package export renders pipeline output into multi-sheet xlsx workbooks.
// It is a pure consumer of the report and network contracts.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/jalad-shrimali/cdr-analyzer/network"
	"github.com/jalad-shrimali/cdr-analyzer/report"
)

func itoa(n int) string     { return strconv.Itoa(n) }
func ftoa(f float64) string { return fmt.Sprintf("%.2f", f) }

func btoa(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// addSheet writes a header+rows table into a named sheet.
func addSheet(x *excelize.File, name string, rows [][]string, active bool) {
	idx, _ := x.NewSheet(name)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			x.SetCellStr(name, cell, v)
		}
	}
	if active {
		x.SetActiveSheet(idx)
	}
}

// ReportWorkbook builds the per-file workbook: one sheet per aggregate
// table of ProcessedCDRData.
func ReportWorkbook(d *report.ProcessedCDRData) *excelize.File {
	x := excelize.NewFile()

	summary := [][]string{{
		"CdrNo", "Provider", "Total Records", "Calls In", "Calls Out",
		"Sms In", "Sms Out", "Other", "Total Duration", "Night Records",
		"First Seen", "Last Seen", "Active Days",
	}}
	for _, s := range d.Summary {
		summary = append(summary, []string{
			s.Account, d.Provider, itoa(s.TotalRecords), itoa(s.CallsIn), itoa(s.CallsOut),
			itoa(s.SMSIn), itoa(s.SMSOut), itoa(s.Other), itoa(s.TotalDuration), itoa(s.NightRecords),
			s.FirstSeen, s.LastSeen, itoa(s.ActiveDays),
		})
	}
	addSheet(x, "summary", summary, true)

	contactHeader := []string{
		"CdrNo", "B Party", "Total Calls", "Out Calls", "In Calls",
		"Out Sms", "In Sms", "Other", "Roam Calls", "Roam Sms",
		"Total Duration", "Total Days", "Total CellIds", "Total Imei",
		"Total Imsi", "First Call", "Last Call",
	}
	contactRows := func(list []report.ContactSummary) [][]string {
		rows := [][]string{contactHeader}
		for _, c := range list {
			rows = append(rows, []string{
				d.Account, c.Number, itoa(c.TotalCalls), itoa(c.OutCalls), itoa(c.InCalls),
				itoa(c.OutSMS), itoa(c.InSMS), itoa(c.Other), itoa(c.RoamCalls), itoa(c.RoamSMS),
				itoa(c.TotalDuration), itoa(c.Days), itoa(c.CellIDs), itoa(c.IMEIs),
				itoa(c.IMSIs), c.FirstCall, c.LastCall,
			})
		}
		return rows
	}
	addSheet(x, "contacts", contactRows(d.Contacts), false)
	addSheet(x, "max_calls", contactRows(d.TopByCalls), false)
	addSheet(x, "max_duration", contactRows(d.TopByDuration), false)

	stayHeader := []string{
		"CdrNo", "Cell ID", "Address", "Total Records", "Total Duration",
		"Total Days", "First", "Last",
	}
	stayRows := func(list []report.CellStay) [][]string {
		rows := [][]string{stayHeader}
		for _, s := range list {
			rows = append(rows, []string{
				d.Account, s.CellID, s.Address, itoa(s.TotalRecords), itoa(s.TotalDuration),
				itoa(s.Days), s.First, s.Last,
			})
		}
		return rows
	}
	addSheet(x, "max_stay", stayRows(d.MaxStay), false)
	addSheet(x, "night_stay", stayRows(d.NightMaxStay), false)
	addSheet(x, "day_stay", stayRows(d.DayMaxStay), false)

	roaming := [][]string{{"CdrNo", "Circle", "Calls", "Sms", "Total Duration"}}
	for _, r := range d.Roaming {
		roaming = append(roaming, []string{d.Account, r.Circle, itoa(r.Calls), itoa(r.SMS), itoa(r.TotalDuration)})
	}
	addSheet(x, "roaming", roaming, false)

	windows := [][]string{{"CdrNo", "Window", "Records", "Total Duration"}}
	for _, w := range d.Windows {
		windows = append(windows, []string{d.Account, w.Window, itoa(w.Records), itoa(w.TotalDuration)})
	}
	addSheet(x, "night_day", windows, false)

	devHeader := []string{"CdrNo", "Identifier", "Total Records", "Total Duration", "Contacts", "First Seen", "Last Seen"}
	devRows := func(list []report.DeviceSummary) [][]string {
		rows := [][]string{devHeader}
		for _, v := range list {
			rows = append(rows, []string{
				d.Account, v.Identifier, itoa(v.TotalRecords), itoa(v.TotalDuration),
				itoa(v.Contacts), v.FirstSeen, v.LastSeen,
			})
		}
		return rows
	}
	addSheet(x, "imei", devRows(d.Devices), false)
	addSheet(x, "imsi", devRows(d.Sims), false)

	locations := [][]string{{"CdrNo", "Cell ID", "Address", "Records", "Lat", "Long"}}
	for _, l := range d.Locations {
		locations = append(locations, []string{
			d.Account, l.CellID, l.Address, itoa(l.Records),
			fmt.Sprintf("%.4f", l.Lat), fmt.Sprintf("%.4f", l.Lon),
		})
	}
	addSheet(x, "locations", locations, false)

	x.DeleteSheet("Sheet1")
	return x
}

// NetworkWorkbook builds the cross-file network workbook.
func NetworkWorkbook(nd network.NetworkData) *excelize.File {
	x := excelize.NewFile()

	nodes := [][]string{{
		"Number", "Role", "Internal", "Total Calls", "Total Duration",
		"Unique Contacts", "In Calls", "Out Calls", "Night Calls",
		"Degree", "Betweenness", "Closeness", "Eigenvector", "Influence",
	}}
	for _, n := range nd.Nodes {
		nodes = append(nodes, []string{
			n.ID, string(n.Role), btoa(n.Internal), itoa(n.TotalCalls), itoa(n.TotalDuration),
			itoa(n.UniqueContacts), itoa(n.IncomingCalls), itoa(n.OutgoingCalls), itoa(n.NightCalls),
			itoa(n.Degree), ftoa(n.Betweenness), ftoa(n.Closeness), ftoa(n.Eigenvector), ftoa(n.Influence),
		})
	}
	addSheet(x, "nodes", nodes, true)

	edges := [][]string{{
		"Source", "Target", "Weight", "Calls", "Total Duration",
		"Avg Duration", "Bidirectional", "Time Of Day", "First", "Last",
	}}
	for _, e := range nd.Edges {
		edges = append(edges, []string{
			e.Source, e.Target, itoa(e.Weight), itoa(e.CallCount), itoa(e.TotalDuration),
			ftoa(e.AvgDuration), btoa(e.Bidirectional), e.TimeOfDay, e.FirstSeen, e.LastSeen,
		})
	}
	addSheet(x, "edges", edges, false)

	stats := [][]string{
		{"Nodes", itoa(nd.Stats.Nodes)},
		{"Edges", itoa(nd.Stats.Edges)},
		{"Leaders", itoa(nd.Stats.Leaders)},
		{"Brokers", itoa(nd.Stats.Brokers)},
		{"Operatives", itoa(nd.Stats.Operatives)},
		{"External Contacts", itoa(nd.Stats.Externals)},
		{"Density", ftoa(nd.Stats.Density)},
	}
	addSheet(x, "stats", stats, false)

	x.DeleteSheet("Sheet1")
	return x
}

// Save writes a workbook under dir and returns its path.
func Save(x *excelize.File, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(dir, name)
	if err := x.SaveAs(out); err != nil {
		return "", err
	}
	return out, nil
}
