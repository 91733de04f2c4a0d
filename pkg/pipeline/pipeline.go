// Package pipeline wires the analysis stages into one pass over a dataset:
// skeleton point collection, radius estimation, graph construction, artifact
// filtering, volume cleanup and feature extraction. Stages run sequentially
// per dataset; parallelism lives inside the stages and across datasets.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/microvasc/vesselgraph/pkg/artifacts"
	"github.com/microvasc/vesselgraph/pkg/config"
	"github.com/microvasc/vesselgraph/pkg/corrections"
	"github.com/microvasc/vesselgraph/pkg/features"
	"github.com/microvasc/vesselgraph/pkg/graph"
	"github.com/microvasc/vesselgraph/pkg/logging"
	"github.com/microvasc/vesselgraph/pkg/metrics"
	"github.com/microvasc/vesselgraph/pkg/skeleton"
	"github.com/microvasc/vesselgraph/pkg/volume"
)

var (
	// ErrShapeMismatch marks a volume/skeleton pair with different dimensions
	ErrShapeMismatch = errors.New("volume and skeleton dimensions differ")
)

// Result is the full output of one dataset analysis
type Result struct {
	Name  string
	RunID string

	Network  features.NetworkResult
	Segments []features.SegmentResult

	Graph         *graph.Graph
	CleanedVolume *volume.Volume
}

// Pipeline runs dataset analyses under one configuration, sharing the
// correction table across datasets
type Pipeline struct {
	cfg    config.AnalysisConfig
	log    logging.Logger
	reg    *metrics.Registry
	tables *corrections.Manager
}

// New creates a pipeline. log and reg may be nil.
func New(cfg config.AnalysisConfig, log logging.Logger, reg *metrics.Registry) *Pipeline {
	if log == nil {
		log = logging.NopLogger{}
	}
	if reg == nil {
		reg = metrics.Default()
	}
	return &Pipeline{
		cfg:    cfg,
		log:    log.With(logging.Component("pipeline")),
		reg:    reg,
		tables: corrections.NewManager(cfg.CacheDir, log, reg),
	}
}

// Analyze runs the full stage sequence over one volume/skeleton pair.
// The input volume is not modified; the cleaned volume is a copy with
// filtered fragments zeroed. An empty skeleton yields a zeroed result,
// not an error.
func (p *Pipeline) Analyze(name string, vol, skel *volume.Volume) (*Result, error) {
	if !vol.SameShape(skel) {
		return nil, fmt.Errorf("%w: volume %dx%dx%d, skeleton %dx%dx%d",
			ErrShapeMismatch, vol.DZ, vol.DY, vol.DX, skel.DZ, skel.DY, skel.DX)
	}

	res := &Result{Name: name, RunID: uuid.NewString()}
	log := p.log.With(logging.File(name), logging.String("run_id", res.RunID))
	log.Info("analysis started")

	points := timed(p, "collect_points", func() []volume.Point {
		return volume.SkeletonPoints(skel)
	})
	if len(points) == 0 {
		log.Warn("empty skeleton, producing zeroed result")
		res.Graph = graph.New(0)
		res.CleanedVolume = volume.New(vol.DZ, vol.DY, vol.DX)
		res.Network = features.Aggregate(name, nil, res.Graph, 0)
		return res, nil
	}

	table := p.tables.Table(p.cfg.Resolution, p.cfg.MaxRadius)

	radii := timed(p, "estimate_radii", func() []float64 {
		return corrections.EstimateRadii(vol, points, table,
			p.cfg.Resolution, p.cfg.MaxRadius, p.cfg.WorkerCount(), p.reg)
	})

	g := timed(p, "build_graph", func() *graph.Graph {
		return skeleton.Build(skel, points, radii)
	})
	p.reg.GraphVertices.Set(float64(g.VertexCount()))
	p.reg.GraphEdges.Set(float64(g.EdgeCount()))
	log.Info("graph built",
		logging.Vertices(g.VertexCount()),
		logging.Edges(g.EdgeCount()))

	timed(p, "filter_cliques", func() int {
		return artifacts.RemoveCliques(g, p.reg, log)
	})

	timed(p, "prune_endpoints", func() int {
		n := 0
		if p.cfg.PruneLength > 0 {
			n = artifacts.PruneEndpointSegments(g,
				p.cfg.Resolution, p.cfg.PruneLength, p.reg, log)
		}
		// Always strip sub-voxel stubs regardless of caller threshold
		n += artifacts.PruneEndpointSegments(g,
			p.cfg.Resolution, p.cfg.Resolution, p.reg, log)
		return n
	})

	timed(p, "filter_isolated", func() int {
		return artifacts.FilterIsolatedSegments(g, p.cfg.FilterLength, p.reg, log)
	})

	res.Graph = g
	res.CleanedVolume = timed(p, "clean_volume", func() *volume.Volume {
		return volume.Clean(vol, g.Coords())
	})

	segs := timed(p, "extract_features", func() []features.SegmentResult {
		return features.ExtractSegments(g, p.cfg.Resolution, p.reg)
	})
	if p.cfg.SegmentTable {
		res.Segments = segs
	}

	r := p.cfg.Resolution
	volumeSum := float64(res.CleanedVolume.ForegroundCount()) * r * r * r
	res.Network = features.Aggregate(name, segs, g, volumeSum)

	log.Info("analysis finished",
		logging.Segments(res.Network.SegmentCount),
		logging.Float64("total_length", res.Network.TotalLength),
		logging.Int("branchpoints", res.Network.Branchpoints),
		logging.Int("endpoints", res.Network.Endpoints))
	return res, nil
}

// timed runs a stage and records its wall time under the stage label
func timed[T any](p *Pipeline, stage string, fn func() T) T {
	start := time.Now()
	out := fn()
	p.reg.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	return out
}
