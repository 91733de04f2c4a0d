// Package artifacts removes skeletonization artifacts from the raw
// centerline graph: branch-point clusters ("cliques") left where one true
// anatomical branch point was fragmented into several adjacent vertices, and
// short spurious end-branches. Filtering iterates to a fixed point because
// deleting clique edges can expose new cliques.
package artifacts

import (
	"sort"

	"github.com/microvasc/vesselgraph/pkg/graph"
	"github.com/microvasc/vesselgraph/pkg/metrics"
)

// cliqueCtx carries one clique through classification. All degree and
// connectivity queries go against the pass snapshot; deletions accumulate
// and apply atomically at pass end, so later cliques in the same pass see
// the same topology.
type cliqueCtx struct {
	g       *graph.Graph
	sub     *graph.Subgraph
	members []int32
	del     *deletionSet
}

func (cx *cliqueCtx) degree(v int32) int {
	return cx.sub.Degree(v)
}

// deleteBetween schedules the edge between a and b if it exists in the
// clique subgraph snapshot
func (cx *cliqueCtx) deleteBetween(a, b int32) {
	if cx.sub.AreConnected(a, b) {
		cx.del.add(a, b)
	}
}

// membersWithDegree returns clique members whose subgraph degree satisfies
// the predicate, preserving component order
func (cx *cliqueCtx) membersWithDegree(pred func(d int) bool) []int32 {
	out := make([]int32, 0, len(cx.members))
	for _, v := range cx.members {
		if pred(cx.degree(v)) {
			out = append(out, v)
		}
	}
	return out
}

// deletionSet accumulates unordered edge pairs without duplicates
type deletionSet struct {
	pairs []graph.EdgePair
	seen  map[graph.EdgePair]struct{}
}

func newDeletionSet() *deletionSet {
	return &deletionSet{seen: make(map[graph.EdgePair]struct{})}
}

func (d *deletionSet) add(a, b int32) {
	if b < a {
		a, b = b, a
	}
	key := graph.EdgePair{A: a, B: b}
	if _, dup := d.seen[key]; dup {
		return
	}
	d.seen[key] = struct{}{}
	d.pairs = append(d.pairs, key)
}

// weighted pairs a candidate vertex with its radius weights
type weighted struct {
	v      int32
	w1, w2 float64
}

// hopWeight is a candidate's own radius plus the radii of its 1-hop
// neighbors in the full graph, not the induced subgraph
func hopWeight(g *graph.Graph, v int32) float64 {
	w := g.Radius(v)
	for _, n := range g.Neighbors(v) {
		w += g.Radius(n)
	}
	return w
}

// secondHopWeight extends hopWeight with the radii of 2-hop neighbors,
// used only to break first-order ties
func secondHopWeight(g *graph.Graph, v int32) float64 {
	w := hopWeight(g, v)
	for _, n := range g.Neighbors(v) {
		for _, m := range g.Neighbors(n) {
			w += g.Radius(m)
		}
	}
	return w
}

// sortByWeight orders candidates ascending by 1-hop weight; equal weights
// re-weight with the 2-hop neighborhood and remaining ties resolve by
// ascending vertex handle, giving one deterministic total order.
func sortByWeight(g *graph.Graph, cands []int32) []int32 {
	ws := make([]weighted, len(cands))
	for i, v := range cands {
		ws[i] = weighted{v: v, w1: hopWeight(g, v)}
	}

	tied := false
	for i := range ws {
		for j := i + 1; j < len(ws); j++ {
			if ws[i].w1 == ws[j].w1 {
				tied = true
			}
		}
	}
	if tied {
		for i := range ws {
			ws[i].w2 = secondHopWeight(g, ws[i].v)
		}
	}

	sort.Slice(ws, func(i, j int) bool {
		if ws[i].w1 != ws[j].w1 {
			return ws[i].w1 < ws[j].w1
		}
		if ws[i].w2 != ws[j].w2 {
			return ws[i].w2 < ws[j].w2
		}
		return ws[i].v < ws[j].v
	})

	out := make([]int32, len(ws))
	for i, w := range ws {
		out[i] = w.v
	}
	return out
}

// FilterCliques runs one clique-removal pass over the graph. It induces the
// branch-point subgraph (degree > 2), prunes members with induced degree
// <= 1, takes connected components as cliques, classifies each against the
// rule table, and applies the accumulated edge deletions atomically.
// Returns the clique count seen and the number of edges deleted.
func FilterCliques(g *graph.Graph, reg *metrics.Registry) (int, int) {
	if reg == nil {
		reg = metrics.Default()
	}

	branch := g.VerticesWhere(func(v int32) bool { return g.Degree(v) > 2 })
	bsub := g.Induce(branch)

	// Dropping induced-degree<=1 vertices collapses several clique shapes
	// that only existed through a dangling branch member
	core := make([]int32, 0, len(branch))
	for _, v := range branch {
		if bsub.Degree(v) > 1 {
			core = append(core, v)
		}
	}
	sub := g.Induce(core)

	del := newDeletionSet()
	count := 0
	for _, members := range sub.Components() {
		if len(members) <= 2 {
			continue
		}
		count++
		reg.CliquesDetected.Inc()

		minDeg, maxDeg := degreeRange(sub, members)
		rule := matchRule(len(members), minDeg, maxDeg)
		if rule == nil {
			// Unmatched shapes are left for the next pass; counted for
			// quality auditing, never fatal
			reg.CliquesUnclassified.Inc()
			continue
		}
		rule.apply(&cliqueCtx{g: g, sub: sub, members: members, del: del})
	}

	deleted := g.DeleteEdges(del.pairs)
	reg.CliqueEdgesDeleted.Add(float64(deleted))
	return count, deleted
}

func degreeRange(sub *graph.Subgraph, members []int32) (int, int) {
	minDeg, maxDeg := sub.Degree(members[0]), sub.Degree(members[0])
	for _, v := range members[1:] {
		d := sub.Degree(v)
		if d < minDeg {
			minDeg = d
		}
		if d > maxDeg {
			maxDeg = d
		}
	}
	return minDeg, maxDeg
}
