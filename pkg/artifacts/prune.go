package artifacts

import (
	"github.com/microvasc/vesselgraph/pkg/features"
	"github.com/microvasc/vesselgraph/pkg/graph"
	"github.com/microvasc/vesselgraph/pkg/logging"
	"github.com/microvasc/vesselgraph/pkg/metrics"
)

// PruneEndpointSegments deletes short dead-end branches: degree<3 components
// hanging off the network through exactly one endpoint whose measured length
// falls below pruneLength (physical units). Candidates are pre-screened by
// vertex count so only plausibly short segments pay for measurement. Returns
// the number of segments removed.
//
// Vertex handles are invalidated by a nonzero return.
func PruneEndpointSegments(g *graph.Graph, resolution, pruneLength float64,
	reg *metrics.Registry, log logging.Logger) int {

	if pruneLength <= 0 {
		return 0
	}
	if reg == nil {
		reg = metrics.Default()
	}
	if log == nil {
		log = logging.NopLogger{}
	}

	// Voxel steps are at least one unit long, so components above this
	// vertex count cannot measure below the threshold
	countBound := pruneLength / resolution

	ids := g.VerticesWhere(func(v int32) bool { return g.Degree(v) < 3 })
	sub := g.Induce(ids)

	var togo []int32
	pruned := 0
	for _, members := range sub.Components() {
		if float64(len(members)) > countBound {
			continue
		}
		if !isEndpointSegment(g, sub, members) {
			continue
		}

		seg := features.SegmentFor(g, sub, members)
		m := features.MeasureSegment(g, seg, resolution)
		if m.Length < pruneLength {
			togo = append(togo, members...)
			pruned++
		}
	}

	if pruned > 0 {
		g.DeleteVertices(togo)
		reg.SegmentsPruned.Add(float64(pruned))
		log.Debug("pruned endpoint segments",
			logging.Count(pruned),
			logging.Float64("threshold", pruneLength))
	}
	return pruned
}

// isEndpointSegment reports whether the component is a dead-end branch:
// attached to the network with exactly one member that is a true endpoint
// (full-graph degree 1)
func isEndpointSegment(g *graph.Graph, sub *graph.Subgraph, members []int32) bool {
	ends := 0
	for _, v := range members {
		if sub.Degree(v) < 2 && g.Degree(v) == 1 {
			ends++
		}
	}
	return ends == 1
}

// FilterIsolatedSegments deletes connected components disconnected from any
// larger structure whose vertex count falls below filterLength voxels.
// The threshold converts to vertex count as filterLength+1 (k vertices span
// k-1 unit steps) with a floor of 2, so stray single-voxel vertices are
// always removed. Returns the number of components deleted.
//
// Vertex handles are invalidated by a nonzero return.
func FilterIsolatedSegments(g *graph.Graph, filterLength int,
	reg *metrics.Registry, log logging.Logger) int {

	if reg == nil {
		reg = metrics.Default()
	}
	if log == nil {
		log = logging.NopLogger{}
	}

	minVerts := filterLength + 1
	if minVerts < 2 {
		minVerts = 2
	}

	all := g.VerticesWhere(func(int32) bool { return true })
	sub := g.Induce(all)

	var togo []int32
	filtered := 0
	for _, members := range sub.Components() {
		if len(members) < minVerts {
			togo = append(togo, members...)
			filtered++
		}
	}

	if filtered > 0 {
		g.DeleteVertices(togo)
		reg.SegmentsFiltered.Add(float64(filtered))
		log.Debug("filtered isolated segments",
			logging.Count(filtered),
			logging.Int("filter_length", filterLength))
	}
	return filtered
}
