package artifacts

import (
	"github.com/microvasc/vesselgraph/pkg/graph"
	"github.com/microvasc/vesselgraph/pkg/logging"
	"github.com/microvasc/vesselgraph/pkg/metrics"
)

// maxFilterPasses bounds the clique-removal loop. Real datasets converge in
// one or two passes; the cap guards against shapes the rule table cannot
// reduce.
const maxFilterPasses = 5

// RemoveCliques iterates clique filtering until the graph stops changing:
// zero cliques remain, two consecutive passes report the same nonzero clique
// count, or the pass cap is reached. Returns the number of passes run.
func RemoveCliques(g *graph.Graph, reg *metrics.Registry, log logging.Logger) int {
	if reg == nil {
		reg = metrics.Default()
	}
	if log == nil {
		log = logging.NopLogger{}
	}

	passes := 0
	prev := -1
	for pass := 1; pass <= maxFilterPasses; pass++ {
		count, deleted := FilterCliques(g, reg)
		passes = pass
		log.Debug("clique filter pass",
			logging.Pass(pass),
			logging.Int("cliques", count),
			logging.Int("edges_deleted", deleted))
		if count == 0 || count == prev {
			break
		}
		prev = count
	}
	reg.FilterPasses.Observe(float64(passes))
	return passes
}
