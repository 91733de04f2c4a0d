// Command vesselgraph runs headless vasculature analysis over one or more
// volume/skeleton dataset pairs and writes the network results as JSON.
//
// Usage:
//
//	vesselgraph [flags] volume.vgv skeleton.vgv [volume2.vgv skeleton2.vgv ...]
//
// Flags override values from the optional YAML config file. Interrupting a
// batch stops scheduling new datasets; results for completed datasets are
// still written.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/microvasc/vesselgraph/pkg/config"
	"github.com/microvasc/vesselgraph/pkg/features"
	"github.com/microvasc/vesselgraph/pkg/logging"
	"github.com/microvasc/vesselgraph/pkg/metrics"
	"github.com/microvasc/vesselgraph/pkg/pipeline"
	"github.com/microvasc/vesselgraph/pkg/volume"
)

// fileReport is the per-dataset entry of the JSON output
type fileReport struct {
	Name     string                   `json:"name"`
	RunID    string                   `json:"run_id,omitempty"`
	Error    string                   `json:"error,omitempty"`
	Skipped  bool                     `json:"skipped,omitempty"`
	Network  *features.NetworkResult  `json:"network,omitempty"`
	Segments []features.SegmentResult `json:"segments,omitempty"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "vesselgraph:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath   = flag.String("config", "", "YAML config file")
		resolution   = flag.Float64("resolution", 0, "isotropic voxel size in physical units")
		maxRadius    = flag.Float64("max-radius", 0, "radius search cap in physical units")
		filterLength = flag.Int("filter-length", -1, "isolated segment filter threshold in voxels")
		pruneLength  = flag.Float64("prune-length", -1, "endpoint prune threshold in physical units")
		cacheDir     = flag.String("cache-dir", "", "correction table cache directory")
		workers      = flag.Int("workers", 0, "worker count, 0 means one per CPU")
		logLevel     = flag.String("log-level", "", "debug, info, warn or error")
		segTable     = flag.Bool("segments", false, "include per-segment results in the output")
		outPath      = flag.String("out", "", "result JSON path, default stdout")
		cleanedDir   = flag.String("cleaned-dir", "", "write cleaned volumes into this directory")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	applyFlags(&cfg, *resolution, *maxRadius, *filterLength, *pruneLength,
		*cacheDir, *workers, *logLevel, *segTable)
	if err := cfg.Validate(); err != nil {
		return err
	}

	files, err := pairArgs(flag.Args())
	if err != nil {
		return err
	}

	log := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	reg := metrics.NewRegistry()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(cfg, log, reg)
	results := p.ProcessFiles(ctx, files)

	reports := make([]fileReport, len(results))
	failed := 0
	for i, r := range results {
		reports[i] = fileReport{Name: r.Name, Skipped: r.Skipped}
		switch {
		case r.Err != nil:
			reports[i].Error = r.Err.Error()
			failed++
		case r.Result != nil:
			reports[i].RunID = r.Result.RunID
			reports[i].Network = &r.Result.Network
			reports[i].Segments = r.Result.Segments
			if *cleanedDir != "" {
				if err := writeCleaned(*cleanedDir, r.Result); err != nil {
					log.Warn("cleaned volume write failed",
						logging.File(r.Name), logging.Error(err))
				}
			}
		}
	}

	if err := writeReports(*outPath, reports); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d datasets failed", failed, len(results))
	}
	return nil
}

func applyFlags(cfg *config.AnalysisConfig, resolution, maxRadius float64,
	filterLength int, pruneLength float64, cacheDir string, workers int,
	logLevel string, segTable bool) {

	if resolution > 0 {
		cfg.Resolution = resolution
	}
	if maxRadius > 0 {
		cfg.MaxRadius = maxRadius
	}
	if filterLength >= 0 {
		cfg.FilterLength = filterLength
	}
	if pruneLength >= 0 {
		cfg.PruneLength = pruneLength
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if segTable {
		cfg.SegmentTable = true
	}
}

// pairArgs groups positional arguments into volume/skeleton pairs
func pairArgs(args []string) ([]pipeline.FilePair, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no datasets given, expected volume/skeleton path pairs")
	}
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("odd argument count %d, datasets are volume/skeleton path pairs", len(args))
	}

	pairs := make([]pipeline.FilePair, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		name := strings.TrimSuffix(filepath.Base(args[i]), filepath.Ext(args[i]))
		pairs = append(pairs, pipeline.FilePair{
			Name:         name,
			VolumePath:   args[i],
			SkeletonPath: args[i+1],
		})
	}
	return pairs, nil
}

func writeCleaned(dir string, res *pipeline.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return volume.WriteFile(filepath.Join(dir, res.Name+"_cleaned.vgv"), res.CleanedVolume)
}

func writeReports(path string, reports []fileReport) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}
