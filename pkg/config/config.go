package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// AnalysisConfig holds the caller-supplied parameters of a run.
//
// Resolution is the isotropic physical size of one voxel. MaxRadius caps the
// radius search and sizes the correction table. FilterLength is the isolated
// segment filter threshold in voxels; PruneLength is the endpoint prune
// threshold in physical units.
type AnalysisConfig struct {
	Resolution   float64 `yaml:"resolution" validate:"required,gt=0"`
	MaxRadius    float64 `yaml:"max_radius" validate:"required,gt=0"`
	FilterLength int     `yaml:"filter_length" validate:"gte=0"`
	PruneLength  float64 `yaml:"prune_length" validate:"gte=0"`

	// CacheDir is where the correction table cache lives. Empty disables
	// the disk cache; tables are still built in memory.
	CacheDir string `yaml:"cache_dir"`

	// Workers bounds file-level and point-level parallelism. Zero means
	// one worker per CPU.
	Workers int `yaml:"workers" validate:"gte=0"`

	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`

	// SegmentTable requests the optional per-segment result table.
	SegmentTable bool `yaml:"segment_table"`
}

// Default returns a config with the documented defaults applied
func Default() AnalysisConfig {
	return AnalysisConfig{
		Resolution:   1.0,
		MaxRadius:    150.0,
		FilterLength: 0,
		PruneLength:  0,
		Workers:      0,
		LogLevel:     "info",
	}
}

// Load reads a YAML config file, applying defaults for absent keys
func Load(path string) (AnalysisConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the config against its constraints
func (c *AnalysisConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("config field %s failed constraint %q", f.Field(), f.Tag())
		}
		return err
	}
	if c.MaxRadius < c.Resolution {
		return fmt.Errorf("max_radius %g smaller than resolution %g", c.MaxRadius, c.Resolution)
	}
	return nil
}

// WorkerCount resolves the effective worker count
func (c *AnalysisConfig) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
