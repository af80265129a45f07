package network

// ComputeCentrality fills in the structural scores for every node. The
// formulas are deliberate proxies, calibrated together with the role
// thresholds, and are kept cheap on purpose:
//
//	degree      = incident edge count
//	betweenness = degree * 0.5
//	closeness   = degree / (totalNodes - 1)
//	eigenvector = sum of weight * neighborDegree over incident edges
func (g *Graph) ComputeCentrality() {
	total := len(g.nodes)

	// Degree pass.
	for _, n := range g.nodes {
		n.Degree = 0
	}
	for _, k := range g.edgeOrder {
		e := g.edges[k]
		g.nodes[e.Source].Degree++
		g.nodes[e.Target].Degree++
	}

	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		n.Betweenness = float64(n.Degree) * 0.5
		if total > 1 {
			n.Closeness = float64(n.Degree) / float64(total-1)
		} else {
			n.Closeness = 0
		}
	}

	// Eigenvector proxy needs final degrees, so a second pass.
	for _, k := range g.edgeOrder {
		e := g.edges[k]
		src, dst := g.nodes[e.Source], g.nodes[e.Target]
		src.Eigenvector += float64(e.Weight) * float64(dst.Degree)
		dst.Eigenvector += float64(e.Weight) * float64(src.Degree)
	}

	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		n.Influence = g.cal.DegreeWeight*float64(n.Degree) +
			g.cal.BetweennessWeight*n.Betweenness +
			g.cal.ClosenessWeight*n.Closeness +
			g.cal.EigenvectorWeight*n.Eigenvector
	}
}
