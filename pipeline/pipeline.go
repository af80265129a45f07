// Package pipeline wires the stages together: detect, normalize, report,
// graph, classify, correlate. One Run owns all of its state; nothing is
// shared across invocations.
package pipeline

import (
	"errors"
	"sync"

	"github.com/jalad-shrimali/cdr-analyzer/analysis"
	"github.com/jalad-shrimali/cdr-analyzer/carrier"
	"github.com/jalad-shrimali/cdr-analyzer/cdr"
	"github.com/jalad-shrimali/cdr-analyzer/cells"
	"github.com/jalad-shrimali/cdr-analyzer/network"
	"github.com/jalad-shrimali/cdr-analyzer/report"
	"github.com/jalad-shrimali/cdr-analyzer/trace"
)

// Structural failures. Data-quality gaps inside files are absorbed; these
// two mean the whole analysis is impossible.
var (
	ErrNoFiles      = errors.New("no input files supplied")
	ErrEmptyNetwork = errors.New("no usable call records in any input file")
)

// InputFile is one uploaded file after CSV tokenizing. Row parsing is the
// caller's concern; rows arrive free of CSV-level quoting issues.
type InputFile struct {
	Name string
	Rows []carrier.RawRow
}

// Options configures a run. Zero-value fields fall back to defaults.
type Options struct {
	Calibration *analysis.Calibration
	Lookup      *cells.Lookup
	Hook        trace.Hook
}

// FileResult carries everything derived from one input file.
type FileResult struct {
	File    string
	Profile string
	Account string
	Records []cdr.CallRecord
	Report  *report.ProcessedCDRData
}

// Analysis is the complete output of one run.
type Analysis struct {
	Files           []FileResult
	Network         network.NetworkData
	InternalNetwork network.NetworkData
	CommonContacts  []string
}

// Run executes the full pipeline over the supplied files. Files are
// normalized concurrently (each one is independent); the graph is folded
// sequentially in input order so node tagging and edge orientation are
// reproducible.
func Run(files []InputFile, opts Options) (*Analysis, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	cal := analysis.Default()
	if opts.Calibration != nil {
		cal = *opts.Calibration
	}
	hook := opts.Hook
	if hook == nil {
		hook = trace.Nop{}
	}

	results := make([]cdr.Result, len(files))
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f InputFile) {
			defer wg.Done()
			profile := carrier.Detect(f.Rows)
			results[i] = cdr.Normalize(cdr.SourceFile{Name: f.Name, Rows: f.Rows}, profile, cal, opts.Lookup, hook)
		}(i, f)
	}
	wg.Wait()

	a := &Analysis{}
	graph := network.NewGraph(cal)
	for _, res := range results {
		a.Files = append(a.Files, FileResult{
			File:    res.SourceFile,
			Profile: res.Provider,
			Account: res.Account,
			Records: res.Records,
			Report:  report.Generate(res, cal, opts.Lookup),
		})
		if len(res.Records) > 0 {
			graph.Fold(res)
		}
	}

	if graph.NodeCount() == 0 {
		return nil, ErrEmptyNetwork
	}

	graph.ComputeCentrality()
	graph.ClassifyRoles()
	graph.InferLocations(opts.Lookup)

	a.Network = graph.Data(false)
	a.InternalNetwork = graph.Data(true)
	a.CommonContacts = network.CommonContacts(results)

	hook.Info("analysis complete",
		"files", len(files),
		"nodes", a.Network.Stats.Nodes,
		"edges", a.Network.Stats.Edges,
		"commonContacts", len(a.CommonContacts))
	return a, nil
}
