package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/microvasc/vesselgraph/pkg/logging"
	"github.com/microvasc/vesselgraph/pkg/volume"
)

// FilePair names one dataset on disk: the segmented volume and its skeleton
type FilePair struct {
	Name         string
	VolumePath   string
	SkeletonPath string
}

// FileResult is the batch outcome for one dataset. Exactly one of Result
// and Err is set unless the file was skipped by cancellation.
type FileResult struct {
	Name    string
	Result  *Result
	Err     error
	Skipped bool
}

// ProcessFiles analyzes datasets concurrently at file granularity. One
// failing file never aborts the batch; its error is recorded and the rest
// proceed. Cancellation is honored between files: datasets not yet started
// are marked skipped, in-flight ones run to completion and their results
// are retained.
func (p *Pipeline) ProcessFiles(ctx context.Context, files []FilePair) []FileResult {
	results := make([]FileResult, len(files))

	grp, _ := errgroup.WithContext(ctx)
	grp.SetLimit(p.cfg.WorkerCount())

	for i, fp := range files {
		i, fp := i, fp
		grp.Go(func() error {
			results[i].Name = fp.Name

			if ctx.Err() != nil {
				results[i].Skipped = true
				p.log.Warn("dataset skipped, batch cancelled", logging.File(fp.Name))
				return nil
			}

			res, err := p.processFile(fp)
			if err != nil {
				results[i].Err = err
				p.reg.FilesTotal.WithLabelValues("error").Inc()
				p.log.Error("dataset failed",
					logging.File(fp.Name), logging.Error(err))
				return nil
			}

			results[i].Result = res
			p.reg.FilesTotal.WithLabelValues("ok").Inc()
			return nil
		})
	}

	// Workers never return errors; Wait only fences completion
	_ = grp.Wait()
	return results
}

func (p *Pipeline) processFile(fp FilePair) (*Result, error) {
	vol, err := volume.ReadFile(fp.VolumePath)
	if err != nil {
		return nil, datasetErr(fp.Name, "load_volume", err)
	}
	skel, err := volume.ReadFile(fp.SkeletonPath)
	if err != nil {
		return nil, datasetErr(fp.Name, "load_skeleton", err)
	}
	res, err := p.Analyze(fp.Name, vol, skel)
	return res, datasetErr(fp.Name, "analyze", err)
}
