// Package network builds the cross-file contact graph and classifies the
// numbers in it into investigative roles.
package network

import (
	"sort"

	"github.com/jalad-shrimali/cdr-analyzer/analysis"
	"github.com/jalad-shrimali/cdr-analyzer/cdr"
	"github.com/jalad-shrimali/cdr-analyzer/cells"
)

// Role of a node after classification.
type Role string

const (
	RoleUnclassified Role = "unclassified"
	RoleLeader       Role = "leader"
	RoleBroker       Role = "broker"
	RoleOperative    Role = "operative"
	RoleExternal     Role = "external-contact"
)

// Location is a best-effort position for map display.
type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Node is one phone number's aggregate profile. Internal means the number is
// the subject of an uploaded file; external numbers were only ever observed
// as counterparties. The tag is fixed at first encounter and never promoted
// afterwards.
type Node struct {
	ID       string
	Internal bool
	Role     Role

	TotalCalls    int
	TotalDuration int
	IncomingCalls int
	OutgoingCalls int
	NightCalls    int

	Degree      int
	Betweenness float64
	Closeness   float64
	Eigenvector float64
	Influence   float64

	Location *Location

	contacts  map[string]struct{}
	imeis     map[string]struct{}
	imsis     map[string]struct{}
	cellHits  map[string]int
	cellAddrs map[string]string
}

// UniqueContacts is the number of distinct counterparties observed.
func (n *Node) UniqueContacts() int { return len(n.contacts) }

// IncomingRatio of account-side records; 0 for nodes without traffic.
func (n *Node) IncomingRatio() float64 {
	if n.TotalCalls == 0 {
		return 0
	}
	return float64(n.IncomingCalls) / float64(n.TotalCalls)
}

// NightRatio of account-side records.
func (n *Node) NightRatio() float64 {
	if n.TotalCalls == 0 {
		return 0
	}
	return float64(n.NightCalls) / float64(n.TotalCalls)
}

// IMEIs returns the device identifiers seen on this account, sorted.
func (n *Node) IMEIs() []string { return sortedKeys(n.imeis) }

// IMSIs returns the SIM identifiers seen on this account, sorted.
func (n *Node) IMSIs() []string { return sortedKeys(n.imsis) }

// Edge is the aggregated relationship between two numbers. Identity is the
// unordered pair; Source/Target keep the orientation of the first record.
type Edge struct {
	Source string
	Target string

	CallCount     int
	Weight        int
	TotalDuration int
	AvgDuration   float64
	Bidirectional bool
	FirstSeen     string
	LastSeen      string
	NightCalls    int
	TimeOfDay     string

	sawIncoming bool
	sawOutgoing bool
}

// Graph is the per-run arena: nodes and edges owned by one analysis, never
// shared across invocations.
type Graph struct {
	cal       analysis.Calibration
	nodes     map[string]*Node
	edges     map[string]*Edge
	nodeOrder []string
	edgeOrder []string
}

// NewGraph creates an empty arena.
func NewGraph(cal analysis.Calibration) *Graph {
	return &Graph{
		cal:   cal,
		nodes: map[string]*Node{},
		edges: map[string]*Edge{},
	}
}

// NodeCount reports how many numbers the graph holds.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Node returns a node by number, nil when absent.
func (g *Graph) Node(id string) *Node { return g.nodes[id] }

// Nodes returns all nodes in first-encounter order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in creation order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edgeOrder))
	for _, k := range g.edgeOrder {
		out = append(out, g.edges[k])
	}
	return out
}

// Fold merges one file's normalized records into the graph. Callers must
// fold files in a fixed order; node tagging and edge orientation depend on
// first encounter.
func (g *Graph) Fold(res cdr.Result) {
	account := g.ensureNode(res.Account, true)

	for _, r := range res.Records {
		account.TotalCalls++
		account.TotalDuration += r.DurationSeconds
		if r.Direction == cdr.DirectionOutgoing {
			account.OutgoingCalls++
		} else {
			account.IncomingCalls++
		}
		if r.Night {
			account.NightCalls++
		}
		if r.DeviceIMEI != "" {
			account.imeis[r.DeviceIMEI] = struct{}{}
		}
		if r.SubscriberIMSI != "" {
			account.imsis[r.SubscriberIMSI] = struct{}{}
		}
		if r.FirstCellID != "" {
			account.cellHits[r.FirstCellID]++
			if r.FirstCellAddress != "" {
				account.cellAddrs[r.FirstCellID] = r.FirstCellAddress
			}
		}

		if r.CounterpartyNumber == "" {
			continue
		}
		account.contacts[r.CounterpartyNumber] = struct{}{}

		other := g.ensureNode(r.CounterpartyNumber, false)
		other.TotalCalls++
		other.TotalDuration += r.DurationSeconds
		other.contacts[res.Account] = struct{}{}

		g.foldEdge(res.Account, r.CounterpartyNumber, r)
	}
}

// ensureNode returns the node for id, creating it when first seen. An
// existing node keeps its original internal/external tag.
func (g *Graph) ensureNode(id string, internal bool) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &Node{
		ID:        id,
		Internal:  internal,
		Role:      RoleUnclassified,
		contacts:  map[string]struct{}{},
		imeis:     map[string]struct{}{},
		imsis:     map[string]struct{}{},
		cellHits:  map[string]int{},
		cellAddrs: map[string]string{},
	}
	g.nodes[id] = n
	g.nodeOrder = append(g.nodeOrder, id)
	return n
}

// foldEdge creates or updates the edge for the unordered pair {a, b}. Both
// orderings are checked before a new edge is created, so a reversed
// duplicate resolves to the same edge.
func (g *Graph) foldEdge(a, b string, r cdr.CallRecord) {
	e, ok := g.edges[a+"|"+b]
	if !ok {
		if rev, revOK := g.edges[b+"|"+a]; revOK {
			e, ok = rev, true
			e.Bidirectional = true
		}
	}
	if !ok {
		e = &Edge{Source: a, Target: b}
		g.edges[a+"|"+b] = e
		g.edgeOrder = append(g.edgeOrder, a+"|"+b)
	}

	e.CallCount++
	e.Weight = e.CallCount
	e.TotalDuration += r.DurationSeconds
	e.AvgDuration = float64(e.TotalDuration) / float64(e.CallCount)
	if r.Night {
		e.NightCalls++
	}
	switch r.Direction {
	case cdr.DirectionOutgoing:
		e.sawOutgoing = true
	case cdr.DirectionIncoming:
		e.sawIncoming = true
	}
	if e.sawIncoming && e.sawOutgoing {
		e.Bidirectional = true
	}

	if ts := r.Timestamp(); ts != "" {
		if e.FirstSeen == "" || ts < e.FirstSeen {
			e.FirstSeen = ts
		}
		if e.LastSeen == "" || ts > e.LastSeen {
			e.LastSeen = ts
		}
	}

	// Reclassified on every fold, not just once.
	ratio := float64(e.NightCalls) / float64(e.CallCount)
	switch {
	case ratio > g.cal.EdgeNightRatioHigh:
		e.TimeOfDay = "night"
	case ratio < g.cal.EdgeNightRatioLow:
		e.TimeOfDay = "day"
	default:
		e.TimeOfDay = "mixed"
	}
}

// InferLocations attaches a best-effort location to every node with tower
// activity, using its busiest tower. Heuristic display data only.
func (g *Graph) InferLocations(look *cells.Lookup) {
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		top, hits := "", 0
		for cell, c := range n.cellHits {
			if c > hits || (c == hits && cell < top) {
				top, hits = cell, c
			}
		}
		if top == "" {
			continue
		}
		loc := &Location{Address: n.cellAddrs[top]}
		if info, ok := look.Cell(top); ok && (info.Lat != 0 || info.Lon != 0) {
			loc.Lat, loc.Lon = info.Lat, info.Lon
			if loc.Address == "" {
				loc.Address = info.Address
			}
		} else {
			loc.Lat, loc.Lon = look.Coordinates(loc.Address)
		}
		n.Location = loc
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
