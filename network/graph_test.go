package network

import (
	"testing"

	"github.com/jalad-shrimali/cdr-analyzer/analysis"
	"github.com/jalad-shrimali/cdr-analyzer/cdr"
)

func call(account, counterparty string, mutate func(*cdr.CallRecord)) cdr.CallRecord {
	r := cdr.CallRecord{
		AccountNumber:      account,
		CounterpartyNumber: counterparty,
		Date:               "2024-01-01",
		Time:               "10:00:00",
		DurationSeconds:    60,
		Direction:          cdr.DirectionOutgoing,
		Service:            cdr.ServiceVoice,
	}
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func calls(account, counterparty string, n int) []cdr.CallRecord {
	out := make([]cdr.CallRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, call(account, counterparty, nil))
	}
	return out
}

func TestEdgeSymmetry(t *testing.T) {
	t.Parallel()

	// A calls B three times, then B's own file shows two calls to A. Both
	// orders must land on one edge with the combined count.
	g := NewGraph(analysis.Default())
	g.Fold(cdr.Result{Account: "A", Records: calls("A", "B", 3)})
	g.Fold(cdr.Result{Account: "B", Records: calls("B", "A", 2)})

	edges := g.Edges()
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(edges))
	}
	e := edges[0]
	if e.CallCount != 5 || e.Weight != 5 {
		t.Fatalf("edge count = %d, weight = %d, want 5/5", e.CallCount, e.Weight)
	}
	if e.Source != "A" || e.Target != "B" {
		t.Fatalf("edge keeps first orientation: got %s->%s", e.Source, e.Target)
	}
	if !e.Bidirectional {
		t.Fatalf("reversed fold must mark the edge bidirectional")
	}
	if e.TotalDuration != 300 || e.AvgDuration != 60 {
		t.Fatalf("durations wrong: total=%d avg=%v", e.TotalDuration, e.AvgDuration)
	}
}

func TestFoldOrderIndependentEdgeCount(t *testing.T) {
	t.Parallel()

	forward := NewGraph(analysis.Default())
	forward.Fold(cdr.Result{Account: "A", Records: calls("A", "B", 3)})
	forward.Fold(cdr.Result{Account: "B", Records: calls("B", "A", 2)})

	reverse := NewGraph(analysis.Default())
	reverse.Fold(cdr.Result{Account: "B", Records: calls("B", "A", 2)})
	reverse.Fold(cdr.Result{Account: "A", Records: calls("A", "B", 3)})

	if forward.Edges()[0].CallCount != reverse.Edges()[0].CallCount {
		t.Fatalf("edge call count depends on fold order")
	}
}

func TestInternalTagFixedAtFirstEncounter(t *testing.T) {
	t.Parallel()

	g := NewGraph(analysis.Default())
	// X first appears as a counterparty of A: external.
	g.Fold(cdr.Result{Account: "A", Records: calls("A", "X", 1)})
	// A later file has X as its own account; the tag must not be promoted.
	g.Fold(cdr.Result{Account: "X", Records: calls("X", "Y", 1)})
	// And a fresh account seen first as an account is internal.
	g.Fold(cdr.Result{Account: "Z", Records: calls("Z", "A", 1)})

	if g.Node("A") == nil || !g.Node("A").Internal {
		t.Fatalf("A must be internal")
	}
	if g.Node("X").Internal {
		t.Fatalf("X was created external and must stay external")
	}
	if g.Node("Y").Internal {
		t.Fatalf("Y is only a counterparty")
	}
	if !g.Node("Z").Internal {
		t.Fatalf("Z must be internal")
	}
}

func TestNodeCounters(t *testing.T) {
	t.Parallel()

	g := NewGraph(analysis.Default())
	g.Fold(cdr.Result{Account: "A", Records: []cdr.CallRecord{
		call("A", "B", nil),
		call("A", "B", func(r *cdr.CallRecord) { r.Direction = cdr.DirectionIncoming; r.Night = true }),
		call("A", "C", func(r *cdr.CallRecord) {
			r.Direction = cdr.DirectionUnknown
			r.DeviceIMEI = "358240051111110"
			r.SubscriberIMSI = "404011234567890"
			r.FirstCellID = "40401"
		}),
	}})

	a := g.Node("A")
	if a.TotalCalls != 3 || a.TotalDuration != 180 {
		t.Fatalf("account totals wrong: %+v", a)
	}
	// Unknown direction counts as incoming: "out" anywhere means outgoing,
	// everything else does not.
	if a.OutgoingCalls != 1 || a.IncomingCalls != 2 {
		t.Fatalf("direction split wrong: out=%d in=%d", a.OutgoingCalls, a.IncomingCalls)
	}
	if a.NightCalls != 1 || a.UniqueContacts() != 2 {
		t.Fatalf("night/contacts wrong: %+v", a)
	}
	if got := a.IMEIs(); len(got) != 1 || got[0] != "358240051111110" {
		t.Fatalf("imei set wrong: %v", got)
	}

	b := g.Node("B")
	if b.TotalCalls != 2 || b.TotalDuration != 120 || b.UniqueContacts() != 1 {
		t.Fatalf("counterparty totals wrong: %+v", b)
	}
	if b.IncomingCalls != 0 && b.OutgoingCalls != 0 {
		t.Fatalf("counterparty side is not direction-aware")
	}
}

func TestEdgeTimeOfDayReclassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		night int
		day   int
		want  string
	}{
		{name: "all_night", night: 4, day: 0, want: "night"},
		{name: "mostly_night", night: 8, day: 2, want: "night"},
		{name: "all_day", night: 0, day: 4, want: "day"},
		{name: "even_split", night: 5, day: 5, want: "mixed"},
		{name: "exactly_seventy_percent_is_mixed", night: 7, day: 3, want: "mixed"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var recs []cdr.CallRecord
			for i := 0; i < tc.night; i++ {
				recs = append(recs, call("A", "B", func(r *cdr.CallRecord) { r.Night = true }))
			}
			for i := 0; i < tc.day; i++ {
				recs = append(recs, call("A", "B", nil))
			}
			g := NewGraph(analysis.Default())
			g.Fold(cdr.Result{Account: "A", Records: recs})
			if got := g.Edges()[0].TimeOfDay; got != tc.want {
				t.Fatalf("time of day = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBlankCounterpartySkipsEdge(t *testing.T) {
	t.Parallel()

	g := NewGraph(analysis.Default())
	g.Fold(cdr.Result{Account: "A", Records: []cdr.CallRecord{
		call("A", "", nil),
		call("A", "B", nil),
	}})

	if len(g.Edges()) != 1 {
		t.Fatalf("blank counterparty must not create an edge")
	}
	if g.Node("A").TotalCalls != 2 {
		t.Fatalf("blank counterparty still counts on the account node")
	}
}

func TestCentralityProxies(t *testing.T) {
	t.Parallel()

	// Star: A talks to B, C, D. Four nodes, three edges.
	g := NewGraph(analysis.Default())
	g.Fold(cdr.Result{Account: "A", Records: []cdr.CallRecord{
		call("A", "B", nil), call("A", "B", nil),
		call("A", "C", nil),
		call("A", "D", nil),
	}})
	g.ComputeCentrality()

	a := g.Node("A")
	if a.Degree != 3 {
		t.Fatalf("degree = %d, want 3", a.Degree)
	}
	if a.Betweenness != 1.5 {
		t.Fatalf("betweenness proxy = %v, want degree*0.5 = 1.5", a.Betweenness)
	}
	if a.Closeness != 1.0 {
		t.Fatalf("closeness = %v, want degree/(n-1) = 1.0", a.Closeness)
	}
	// Eigenvector proxy: sum of weight*neighborDegree over incident edges:
	// B contributes 2*1, C and D contribute 1*1 each.
	if a.Eigenvector != 4 {
		t.Fatalf("eigenvector proxy = %v, want 4", a.Eigenvector)
	}

	b := g.Node("B")
	if b.Degree != 1 || b.Eigenvector != 6 {
		t.Fatalf("leaf scores wrong: degree=%d eigen=%v (want 1, 2*3)", b.Degree, b.Eigenvector)
	}

	cal := analysis.Default()
	wantInfluence := cal.DegreeWeight*3 + cal.BetweennessWeight*1.5 + cal.ClosenessWeight*1.0 + cal.EigenvectorWeight*4
	if a.Influence != wantInfluence {
		t.Fatalf("influence = %v, want %v", a.Influence, wantInfluence)
	}
}

func TestNetworkDataVariantsAndDensity(t *testing.T) {
	t.Parallel()

	g := NewGraph(analysis.Default())
	g.Fold(cdr.Result{Account: "A", Records: calls("A", "B", 2)})
	g.Fold(cdr.Result{Account: "C", Records: append(calls("C", "B", 1), call("C", "A", nil))})
	g.ComputeCentrality()
	g.ClassifyRoles()

	full := g.Data(false)
	if full.Stats.Nodes != 3 || full.Stats.Edges != 3 {
		t.Fatalf("full variant: %+v", full.Stats)
	}
	if full.Stats.Density != 1.0 {
		t.Fatalf("density = %v, want 1.0 for a complete triangle", full.Stats.Density)
	}
	if full.Stats.Externals != 1 {
		t.Fatalf("externals = %d, want 1 (B)", full.Stats.Externals)
	}

	internal := g.Data(true)
	if internal.Stats.Nodes != 2 || internal.Stats.Edges != 1 {
		t.Fatalf("internal variant: %+v", internal.Stats)
	}
	for _, n := range internal.Nodes {
		if !n.Internal {
			t.Fatalf("internal variant leaked external node %q", n.ID)
		}
	}
}
