package network

// NodeView is the serializable node shape handed to visualization
// collaborators.
type NodeView struct {
	ID             string    `json:"id"`
	Role           Role      `json:"role"`
	Internal       bool      `json:"internal"`
	TotalCalls     int       `json:"totalCalls"`
	TotalDuration  int       `json:"totalDuration"`
	UniqueContacts int       `json:"uniqueContacts"`
	IncomingCalls  int       `json:"incomingCalls"`
	OutgoingCalls  int       `json:"outgoingCalls"`
	NightCalls     int       `json:"nightCalls"`
	Degree         int       `json:"degree"`
	Betweenness    float64   `json:"betweenness"`
	Closeness      float64   `json:"closeness"`
	Eigenvector    float64   `json:"eigenvector"`
	Influence      float64   `json:"influence"`
	IMEIs          []string  `json:"imeis,omitempty"`
	IMSIs          []string  `json:"imsis,omitempty"`
	Location       *Location `json:"location,omitempty"`
}

// EdgeView is the serializable edge shape.
type EdgeView struct {
	Source        string  `json:"source"`
	Target        string  `json:"target"`
	Weight        int     `json:"weight"`
	CallCount     int     `json:"callCount"`
	TotalDuration int     `json:"totalDuration"`
	AvgDuration   float64 `json:"avgDuration"`
	Bidirectional bool    `json:"bidirectional"`
	TimeOfDay     string  `json:"timeOfDay"`
	FirstSeen     string  `json:"firstSeen,omitempty"`
	LastSeen      string  `json:"lastSeen,omitempty"`
}

// Stats summarises the exported graph.
type Stats struct {
	Nodes      int     `json:"nodes"`
	Edges      int     `json:"edges"`
	Leaders    int     `json:"leaders"`
	Brokers    int     `json:"brokers"`
	Operatives int     `json:"operatives"`
	Externals  int     `json:"externals"`
	Density    float64 `json:"density"`
}

// NetworkData is the visualization contract: node list, edge list and
// summary statistics.
type NetworkData struct {
	Nodes []NodeView `json:"nodes"`
	Edges []EdgeView `json:"edges"`
	Stats Stats      `json:"stats"`
}

// Data exports the graph. With internalOnly set, only account-holder nodes
// and the edges between them are included; density is computed over the
// exported subset.
func (g *Graph) Data(internalOnly bool) NetworkData {
	d := NetworkData{Nodes: []NodeView{}, Edges: []EdgeView{}}

	include := func(id string) bool {
		if !internalOnly {
			return true
		}
		n := g.nodes[id]
		return n != nil && n.Internal
	}

	for _, id := range g.nodeOrder {
		if !include(id) {
			continue
		}
		n := g.nodes[id]
		d.Nodes = append(d.Nodes, NodeView{
			ID:             n.ID,
			Role:           n.Role,
			Internal:       n.Internal,
			TotalCalls:     n.TotalCalls,
			TotalDuration:  n.TotalDuration,
			UniqueContacts: n.UniqueContacts(),
			IncomingCalls:  n.IncomingCalls,
			OutgoingCalls:  n.OutgoingCalls,
			NightCalls:     n.NightCalls,
			Degree:         n.Degree,
			Betweenness:    n.Betweenness,
			Closeness:      n.Closeness,
			Eigenvector:    n.Eigenvector,
			Influence:      n.Influence,
			IMEIs:          n.IMEIs(),
			IMSIs:          n.IMSIs(),
			Location:       n.Location,
		})
		switch n.Role {
		case RoleLeader:
			d.Stats.Leaders++
		case RoleBroker:
			d.Stats.Brokers++
		case RoleOperative:
			d.Stats.Operatives++
		case RoleExternal:
			d.Stats.Externals++
		}
	}

	for _, k := range g.edgeOrder {
		e := g.edges[k]
		if !include(e.Source) || !include(e.Target) {
			continue
		}
		d.Edges = append(d.Edges, EdgeView{
			Source:        e.Source,
			Target:        e.Target,
			Weight:        e.Weight,
			CallCount:     e.CallCount,
			TotalDuration: e.TotalDuration,
			AvgDuration:   e.AvgDuration,
			Bidirectional: e.Bidirectional,
			TimeOfDay:     e.TimeOfDay,
			FirstSeen:     e.FirstSeen,
			LastSeen:      e.LastSeen,
		})
	}

	d.Stats.Nodes = len(d.Nodes)
	d.Stats.Edges = len(d.Edges)
	if n := d.Stats.Nodes; n > 1 {
		d.Stats.Density = float64(d.Stats.Edges) / (float64(n) * float64(n-1) / 2)
	}
	return d
}
