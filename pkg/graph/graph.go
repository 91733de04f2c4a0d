// Package graph implements the centerline graph as an arena of vertices and
// edges addressed by stable integer handles. Degrees are maintained
// incrementally through an adjacency list; batch deletions rebuild the arena
// so a filtering pass always computes against one consistent snapshot and
// applies its deletions atomically at pass end.
package graph

import (
	"github.com/microvasc/vesselgraph/pkg/volume"
)

// Vertex is one skeleton point lifted into the graph
type Vertex struct {
	Coord  volume.Point
	Radius float64
}

// Edge is an unordered vertex pair with its voxel-adjacency length
// (1, sqrt2 or sqrt3 voxel units)
type Edge struct {
	Source, Target int32
	Length         float64
}

// arc is one directed half of an undirected edge
type arc struct {
	to   int32
	edge int32
}

// Graph is the vertex/edge arena
type Graph struct {
	verts []Vertex
	edges []Edge
	adj   [][]arc
}

// New creates an empty graph with capacity for n vertices
func New(n int) *Graph {
	return &Graph{
		verts: make([]Vertex, 0, n),
		edges: make([]Edge, 0, n),
		adj:   make([][]arc, 0, n),
	}
}

// AddVertex appends a vertex and returns its handle
func (g *Graph) AddVertex(coord volume.Point, radius float64) int32 {
	g.verts = append(g.verts, Vertex{Coord: coord, Radius: radius})
	g.adj = append(g.adj, nil)
	return int32(len(g.verts) - 1)
}

// AddEdge inserts an undirected edge. Self-loops and duplicate pairs are
// ignored so the no-duplicate/no-self-loop invariant holds by construction.
func (g *Graph) AddEdge(a, b int32, length float64) {
	if a == b {
		return
	}
	for _, ar := range g.adj[a] {
		if ar.to == b {
			return
		}
	}
	idx := int32(len(g.edges))
	g.edges = append(g.edges, Edge{Source: a, Target: b, Length: length})
	g.adj[a] = append(g.adj[a], arc{to: b, edge: idx})
	g.adj[b] = append(g.adj[b], arc{to: a, edge: idx})
}

// VertexCount returns the number of vertices
func (g *Graph) VertexCount() int { return len(g.verts) }

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Vertex returns the vertex for a handle
func (g *Graph) Vertex(v int32) Vertex { return g.verts[v] }

// SetRadius updates a vertex radius
func (g *Graph) SetRadius(v int32, r float64) { g.verts[v].Radius = r }

// Radius returns a vertex radius
func (g *Graph) Radius(v int32) float64 { return g.verts[v].Radius }

// Coord returns a vertex coordinate
func (g *Graph) Coord(v int32) volume.Point { return g.verts[v].Coord }

// Degree returns the number of incident edges
func (g *Graph) Degree(v int32) int { return len(g.adj[v]) }

// Role is the topological role a vertex derives from its degree
type Role int

const (
	RoleIsolated Role = iota
	RoleEndpoint
	RoleInterior
	RoleBranch
)

func (r Role) String() string {
	switch r {
	case RoleIsolated:
		return "isolated"
	case RoleEndpoint:
		return "endpoint"
	case RoleInterior:
		return "interior"
	case RoleBranch:
		return "branch"
	default:
		return "unknown"
	}
}

// Role returns the vertex's topological role
func (g *Graph) Role(v int32) Role {
	switch d := g.Degree(v); {
	case d == 0:
		return RoleIsolated
	case d == 1:
		return RoleEndpoint
	case d == 2:
		return RoleInterior
	default:
		return RoleBranch
	}
}

// Neighbors returns the adjacent vertex handles of v
func (g *Graph) Neighbors(v int32) []int32 {
	out := make([]int32, len(g.adj[v]))
	for i, ar := range g.adj[v] {
		out[i] = ar.to
	}
	return out
}

// AreConnected reports whether an edge joins a and b
func (g *Graph) AreConnected(a, b int32) bool {
	if int(a) >= len(g.adj) || int(b) >= len(g.adj) {
		return false
	}
	// Scan the smaller adjacency list
	if len(g.adj[b]) < len(g.adj[a]) {
		a, b = b, a
	}
	for _, ar := range g.adj[a] {
		if ar.to == b {
			return true
		}
	}
	return false
}

// EdgeBetween returns the edge index joining a and b
func (g *Graph) EdgeBetween(a, b int32) (int32, bool) {
	for _, ar := range g.adj[a] {
		if ar.to == b {
			return ar.edge, true
		}
	}
	return 0, false
}

// EdgeAt returns the edge for an index
func (g *Graph) EdgeAt(i int32) Edge { return g.edges[i] }

// Edges returns the edge arena. Callers must treat it as read-only.
func (g *Graph) Edges() []Edge { return g.edges }

// EdgePair is an unordered vertex pair scheduled for deletion
type EdgePair struct {
	A, B int32
}

// DeleteEdges removes the given unordered pairs in one atomic rebuild.
// Pairs with no corresponding edge are ignored; duplicates collapse.
func (g *Graph) DeleteEdges(pairs []EdgePair) int {
	if len(pairs) == 0 {
		return 0
	}

	drop := make(map[int32]struct{}, len(pairs))
	for _, p := range pairs {
		if e, ok := g.EdgeBetween(p.A, p.B); ok {
			drop[e] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return 0
	}

	kept := make([]Edge, 0, len(g.edges)-len(drop))
	for i, e := range g.edges {
		if _, gone := drop[int32(i)]; !gone {
			kept = append(kept, e)
		}
	}
	g.edges = kept
	g.rebuildAdjacency()
	return len(drop)
}

// DeleteVertices removes vertices and their incident edges, compacting the
// handle space. Handles of surviving vertices change; callers must not hold
// handles across a deletion pass.
func (g *Graph) DeleteVertices(ids []int32) {
	if len(ids) == 0 {
		return
	}

	gone := make(map[int32]struct{}, len(ids))
	for _, v := range ids {
		gone[v] = struct{}{}
	}

	remap := make([]int32, len(g.verts))
	kept := make([]Vertex, 0, len(g.verts)-len(gone))
	for i := range g.verts {
		if _, dead := gone[int32(i)]; dead {
			remap[i] = -1
			continue
		}
		remap[i] = int32(len(kept))
		kept = append(kept, g.verts[i])
	}
	g.verts = kept

	keptEdges := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		s, t := remap[e.Source], remap[e.Target]
		if s < 0 || t < 0 {
			continue
		}
		keptEdges = append(keptEdges, Edge{Source: s, Target: t, Length: e.Length})
	}
	g.edges = keptEdges
	g.rebuildAdjacency()
}

// VerticesWhere returns the handles whose vertex satisfies the predicate
func (g *Graph) VerticesWhere(pred func(v int32) bool) []int32 {
	out := make([]int32, 0)
	for i := range g.verts {
		if pred(int32(i)) {
			out = append(out, int32(i))
		}
	}
	return out
}

// Coords returns all vertex coordinates in handle order
func (g *Graph) Coords() []volume.Point {
	out := make([]volume.Point, len(g.verts))
	for i := range g.verts {
		out[i] = g.verts[i].Coord
	}
	return out
}

func (g *Graph) rebuildAdjacency() {
	adj := make([][]arc, len(g.verts))
	for i, e := range g.edges {
		adj[e.Source] = append(adj[e.Source], arc{to: e.Target, edge: int32(i)})
		adj[e.Target] = append(adj[e.Target], arc{to: e.Source, edge: int32(i)})
	}
	g.adj = adj
}
