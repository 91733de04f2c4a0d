package features

import (
	"github.com/microvasc/vesselgraph/pkg/graph"
)

// Segment is one maximal vessel run. Core holds the segment's own vertices;
// Path is the ordered traversal used for measurement, extended one vertex
// into each adjoining branch point so the connecting half-edges count toward
// length. Loops carry the walk order in both; an Approximated loop could not
// be walked closed and falls back to count-based measurement.
type Segment struct {
	Core         []int32
	Path         []int32
	Single       bool
	Loop         bool
	Approximated bool
}

// LowDegreeSegments partitions the graph's degree<3 vertices into segments,
// one per connected component of the induced subgraph
func LowDegreeSegments(g *graph.Graph) []Segment {
	ids := g.VerticesWhere(func(v int32) bool { return g.Degree(v) < 3 })
	sub := g.Induce(ids)

	comps := sub.Components()
	segs := make([]Segment, 0, len(comps))
	for _, members := range comps {
		segs = append(segs, SegmentFor(g, sub, members))
	}
	return segs
}

// SegmentFor builds the segment for one degree<3 component. Components are
// simple paths or cycles by construction; anything else degrades to an
// approximated segment rather than failing.
func SegmentFor(g *graph.Graph, sub *graph.Subgraph, members []int32) Segment {
	if len(members) == 1 {
		return singleSegment(g, members[0])
	}

	ends := make([]int32, 0, 2)
	for _, v := range members {
		if sub.Degree(v) < 2 {
			ends = append(ends, v)
		}
	}

	if len(ends) >= 2 {
		path := sub.ShortestPath(ends[0], ends[1])
		if path != nil {
			return Segment{Core: members, Path: extendEnds(g, path)}
		}
	}
	if len(ends) == 0 {
		cycle, closed := walkCycle(sub, members)
		return Segment{Core: cycle, Path: cycle, Loop: true, Approximated: !closed}
	}
	return Segment{Core: members, Path: members, Approximated: true}
}

// singleSegment wraps a lone vertex between branch points: its path spans
// from one structural neighbor through the vertex to the other
func singleSegment(g *graph.Graph, v int32) Segment {
	ns := g.Neighbors(v)
	path := make([]int32, 0, 3)
	if len(ns) > 0 {
		path = append(path, ns[0])
	}
	path = append(path, v)
	if len(ns) > 1 {
		path = append(path, ns[1])
	}
	return Segment{Core: []int32{v}, Path: path, Single: true}
}

// extendEnds grows the path one vertex outward at each end when the end
// attaches to a vertex outside the path, normally the adjoining branch point
func extendEnds(g *graph.Graph, path []int32) []int32 {
	if len(path) == 0 {
		return path
	}

	inPath := make(map[int32]bool, len(path))
	for _, v := range path {
		inPath[v] = true
	}

	out := path
	if n, ok := outsideNeighbor(g, path[0], inPath); ok {
		out = append([]int32{n}, out...)
	}
	if n, ok := outsideNeighbor(g, path[len(path)-1], inPath); ok {
		out = append(out, n)
	}
	return out
}

func outsideNeighbor(g *graph.Graph, v int32, inPath map[int32]bool) (int32, bool) {
	for _, n := range g.Neighbors(v) {
		if !inPath[n] {
			return n, true
		}
	}
	return 0, false
}

// walkCycle orders a closed component by walking neighbor to neighbor.
// The walk is bounded by the member count; failing to visit everything or
// to reconnect with the start reports the cycle as unclosed.
func walkCycle(sub *graph.Subgraph, members []int32) ([]int32, bool) {
	start := members[0]
	cycle := make([]int32, 0, len(members))
	cycle = append(cycle, start)

	prev, cur := int32(-1), start
	for len(cycle) < len(members) {
		advanced := false
		for _, n := range sub.Neighbors(cur) {
			if n != prev && n != start {
				cycle = append(cycle, n)
				prev, cur = cur, n
				advanced = true
				break
			}
		}
		if !advanced {
			return cycle, false
		}
	}
	return cycle, sub.AreConnected(cur, start)
}
