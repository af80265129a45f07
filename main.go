package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/jalad-shrimali/cdr-analyzer/analysis"
	"github.com/jalad-shrimali/cdr-analyzer/carrier"
	"github.com/jalad-shrimali/cdr-analyzer/cells"
	"github.com/jalad-shrimali/cdr-analyzer/export"
	"github.com/jalad-shrimali/cdr-analyzer/network"
	"github.com/jalad-shrimali/cdr-analyzer/pipeline"
	"github.com/jalad-shrimali/cdr-analyzer/trace"
)

type server struct {
	cal  analysis.Calibration
	look *cells.Lookup
	hook trace.Hook
}

func main() {
	cal := analysis.Load()
	hook := trace.NewConsole(os.Getenv("CDR_DEBUG") != "")

	look, err := cells.Open(os.Getenv("CDR_CELL_DB"))
	if err != nil {
		hook.Warn("cell DB unavailable, falling back to static lookup", "err", err)
		look, _ = cells.Open("")
	}
	defer look.Close()

	srv := &server{cal: cal, look: look, hook: hook}
	http.HandleFunc("/analyze", srv.analyze)
	http.Handle("/download/",
		http.StripPrefix("/download/", http.FileServer(http.Dir("filtered"))))

	addr := os.Getenv("CDR_LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	hook.Info("server started", "addr", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		hook.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

type analyzeResponse struct {
	Files          []fileSummary       `json:"files"`
	CommonContacts []string            `json:"commonContacts"`
	Network        network.NetworkData `json:"network"`
	Internal       network.NetworkData `json:"internalNetwork"`
	Downloads      []string            `json:"downloads"`
}

type fileSummary struct {
	File    string `json:"file"`
	Profile string `json:"profile"`
	Account string `json:"account"`
	Records int    `json:"records"`
}

// analyze accepts one or more CDR exports in the "files" form field, runs
// the full pipeline and writes the report and network workbooks under
// filtered/ for download.
func (s *server) analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var inputs []pipeline.InputFile
	for _, hdr := range r.MultipartForm.File["files"] {
		rows, err := readRows(hdr)
		if err != nil {
			s.hook.Warn("unreadable upload skipped", "file", hdr.Filename, "err", err)
			continue
		}
		inputs = append(inputs, pipeline.InputFile{Name: hdr.Filename, Rows: rows})
	}

	result, err := pipeline.Run(inputs, pipeline.Options{
		Calibration: &s.cal,
		Lookup:      s.look,
		Hook:        s.hook,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrNoFiles) || errors.Is(err, pipeline.ErrEmptyNetwork) {
			status = http.StatusBadRequest
		}
		http.Error(w, "analysis failed: "+err.Error(), status)
		return
	}

	resp := analyzeResponse{
		CommonContacts: result.CommonContacts,
		Network:        result.Network,
		Internal:       result.InternalNetwork,
	}
	for _, f := range result.Files {
		resp.Files = append(resp.Files, fileSummary{
			File: f.File, Profile: f.Profile, Account: f.Account, Records: len(f.Records),
		})
		name := f.Account + "_all_reports.xlsx"
		if _, err := export.Save(export.ReportWorkbook(f.Report), "filtered", name); err != nil {
			s.hook.Error("workbook write failed", "file", f.File, "err", err)
			continue
		}
		resp.Downloads = append(resp.Downloads, "/download/"+name)
	}

	if _, err := export.Save(export.NetworkWorkbook(result.Network), "filtered", "network_reports.xlsx"); err != nil {
		s.hook.Error("network workbook write failed", "err", err)
	} else {
		resp.Downloads = append(resp.Downloads, "/download/network_reports.xlsx")
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// readRows tokenizes one uploaded CSV. Field counts vary row to row in
// these exports, so the reader is fully permissive; unreadable lines are
// skipped rather than fatal.
func readRows(hdr *multipart.FileHeader) ([]carrier.RawRow, error) {
	f, err := hdr.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows []carrier.RawRow
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, carrier.RawRow(rec))
	}
	return rows, nil
}
