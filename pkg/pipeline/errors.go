package pipeline

import (
	"fmt"
)

// DatasetError attributes a failure to the dataset and stage it occurred in.
// It wraps the underlying cause so sentinel checks keep working through
// errors.Is and errors.As.
type DatasetError struct {
	Dataset string
	Stage   string
	Err     error
}

func (e *DatasetError) Error() string {
	return fmt.Sprintf("dataset %s: %s: %v", e.Dataset, e.Stage, e.Err)
}

func (e *DatasetError) Unwrap() error { return e.Err }

func datasetErr(dataset, stage string, err error) error {
	if err == nil {
		return nil
	}
	return &DatasetError{Dataset: dataset, Stage: stage, Err: err}
}
