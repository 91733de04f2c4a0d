package graph

import (
	"container/list"
)

// Subgraph is a vertex-induced view over a parent graph. It owns no storage;
// degrees, neighbors, components and paths are all computed against the
// parent adjacency restricted to the member set, so handles stay valid in
// the parent.
type Subgraph struct {
	g      *Graph
	member []bool
	verts  []int32
}

// Induce builds the subgraph induced by the given vertex handles
func (g *Graph) Induce(verts []int32) *Subgraph {
	member := make([]bool, len(g.verts))
	for _, v := range verts {
		member[v] = true
	}
	return &Subgraph{g: g, member: member, verts: verts}
}

// Contains reports subgraph membership
func (s *Subgraph) Contains(v int32) bool {
	return int(v) < len(s.member) && s.member[v]
}

// Vertices returns the member handles in the order given to Induce
func (s *Subgraph) Vertices() []int32 { return s.verts }

// Degree returns the vertex degree within the subgraph
func (s *Subgraph) Degree(v int32) int {
	d := 0
	for _, ar := range s.g.adj[v] {
		if s.member[ar.to] {
			d++
		}
	}
	return d
}

// Neighbors returns the adjacent member handles of v
func (s *Subgraph) Neighbors(v int32) []int32 {
	out := make([]int32, 0, len(s.g.adj[v]))
	for _, ar := range s.g.adj[v] {
		if s.member[ar.to] {
			out = append(out, ar.to)
		}
	}
	return out
}

// AreConnected reports whether both endpoints are members and joined by an edge
func (s *Subgraph) AreConnected(a, b int32) bool {
	return s.member[a] && s.member[b] && s.g.AreConnected(a, b)
}

// Components returns the connected components of the subgraph, each as a
// slice of parent handles. BFS keeps the walk iterative on arbitrarily deep
// components.
func (s *Subgraph) Components() [][]int32 {
	visited := make(map[int32]bool, len(s.verts))
	components := make([][]int32, 0)

	for _, start := range s.verts {
		if visited[start] {
			continue
		}

		component := make([]int32, 0, 4)
		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			v, ok := queue.Remove(queue.Front()).(int32)
			if !ok {
				continue
			}
			component = append(component, v)

			for _, ar := range s.g.adj[v] {
				if s.member[ar.to] && !visited[ar.to] {
					visited[ar.to] = true
					queue.PushBack(ar.to)
				}
			}
		}
		components = append(components, component)
	}
	return components
}

// ShortestPath returns the vertex path from start to end within the
// subgraph, inclusive of both ends, or nil if unreachable
func (s *Subgraph) ShortestPath(start, end int32) []int32 {
	if start == end {
		return []int32{start}
	}

	parent := make(map[int32]int32)
	parent[start] = start

	queue := list.New()
	queue.PushBack(start)

	for queue.Len() > 0 {
		v, ok := queue.Remove(queue.Front()).(int32)
		if !ok {
			continue
		}
		for _, ar := range s.g.adj[v] {
			if !s.member[ar.to] {
				continue
			}
			if _, seen := parent[ar.to]; seen {
				continue
			}
			parent[ar.to] = v
			if ar.to == end {
				return reconstructPath(parent, start, end)
			}
			queue.PushBack(ar.to)
		}
	}
	return nil
}

// reconstructPath walks parent pointers back from end to start
func reconstructPath(parent map[int32]int32, start, end int32) []int32 {
	path := []int32{end}
	for v := end; v != start; {
		v = parent[v]
		path = append(path, v)
	}
	// Reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
