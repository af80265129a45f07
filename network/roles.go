package network

import (
	"math"
	"sort"
)

// ClassifyRoles assigns every node exactly one role. External nodes always
// get RoleExternal. Internal nodes run through a strict priority cascade:
// the leader gate first, then the broker gate, operative as the fallback.
// With zero internal nodes this is a no-op.
func (g *Graph) ClassifyRoles() {
	var internals []*Node
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		if n.Internal {
			internals = append(internals, n)
		} else {
			n.Role = RoleExternal
		}
	}
	if len(internals) == 0 {
		return
	}

	// Rank by influence, stable on first-encounter order.
	ranked := make([]*Node, len(internals))
	copy(ranked, internals)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Influence > ranked[j].Influence })

	cutoff := int(math.Ceil(g.cal.LeaderTopFraction * float64(len(ranked))))
	if cutoff < 1 {
		cutoff = 1
	}

	for rank, n := range ranked {
		switch {
		case rank < cutoff &&
			n.IncomingRatio() > g.cal.LeaderMinIncomingRatio &&
			n.NightRatio() > g.cal.LeaderMinNightRatio &&
			n.UniqueContacts() >= g.cal.LeaderMinUniqueContacts:
			n.Role = RoleLeader

		case n.Betweenness > g.cal.BrokerMinBetweenness &&
			n.IncomingRatio() >= g.cal.BrokerMinIncomingRatio &&
			n.IncomingRatio() <= g.cal.BrokerMaxIncomingRatio &&
			n.UniqueContacts() >= g.cal.BrokerMinUniqueContacts:
			n.Role = RoleBroker

		default:
			n.Role = RoleOperative
		}
	}
}
