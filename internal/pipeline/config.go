// Package pipeline wires the numeric components into the single entry
// point consumed by the CLI and the HTTP layer: configuration in, result
// bundle out, no state kept between invocations.
package pipeline

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quantfolio/rmtclean/internal/panel"
	"github.com/quantfolio/rmtclean/internal/portfolio"
	"github.com/quantfolio/rmtclean/internal/spectral"
)

// ErrInvalidParameter reports a configuration rejected before any
// computation starts.
var ErrInvalidParameter = errors.New("pipeline: invalid parameter")

// Config is the full parameter set of one analysis run. The zero value
// is not usable; start from DefaultConfig.
type Config struct {
	AssetCount          int     `yaml:"asset_count" json:"asset_count"`
	Seed                int64   `yaml:"seed" json:"seed"`
	AspectRatio         float64 `yaml:"aspect_ratio" json:"aspect_ratio"`
	PowerIterationSteps int     `yaml:"power_iteration_steps" json:"power_iteration_steps"`
	OptimizerSteps      int     `yaml:"optimizer_steps" json:"optimizer_steps"`
	NumFactors          int     `yaml:"num_factors" json:"num_factors"`
	LoadingScale        float64 `yaml:"loading_scale" json:"loading_scale"`
	HistogramBins       int     `yaml:"histogram_bins" json:"histogram_bins"`
}

// DefaultConfig returns the canonical demo parameters.
func DefaultConfig() Config {
	return Config{
		AssetCount:          50,
		Seed:                42,
		AspectRatio:         0.35,
		PowerIterationSteps: spectral.DefaultIterations,
		OptimizerSteps:      portfolio.DefaultSteps,
		NumFactors:          panel.DefaultNumFactors,
		LoadingScale:        panel.DefaultLoadingScale,
		HistogramBins:       40,
	}
}

// LoadConfig reads a YAML file over the defaults and validates the
// merged result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Periods derives the panel length T = round(N/q).
func (c Config) Periods() int {
	return int(math.Round(float64(c.AssetCount) / c.AspectRatio))
}

// Validate rejects parameter sets the theory or the estimators cannot
// handle. Every violation wraps ErrInvalidParameter and names the field.
func (c Config) Validate() error {
	if c.AssetCount < 1 {
		return fmt.Errorf("%w: asset_count %d, need >= 1", ErrInvalidParameter, c.AssetCount)
	}
	if c.AspectRatio <= 0 || c.AspectRatio >= 1 || math.IsNaN(c.AspectRatio) {
		return fmt.Errorf("%w: aspect_ratio %v, need 0 < q < 1", ErrInvalidParameter, c.AspectRatio)
	}
	if t := c.Periods(); t < 2 {
		return fmt.Errorf("%w: derived periods %d from asset_count %d and aspect_ratio %v, need >= 2",
			ErrInvalidParameter, t, c.AssetCount, c.AspectRatio)
	}
	if c.PowerIterationSteps < 1 {
		return fmt.Errorf("%w: power_iteration_steps %d, need >= 1", ErrInvalidParameter, c.PowerIterationSteps)
	}
	if c.OptimizerSteps < 1 {
		return fmt.Errorf("%w: optimizer_steps %d, need >= 1", ErrInvalidParameter, c.OptimizerSteps)
	}
	if c.NumFactors < 0 {
		return fmt.Errorf("%w: num_factors %d, need >= 0", ErrInvalidParameter, c.NumFactors)
	}
	if c.LoadingScale < 0 || math.IsNaN(c.LoadingScale) || math.IsInf(c.LoadingScale, 0) {
		return fmt.Errorf("%w: loading_scale %v, need finite >= 0", ErrInvalidParameter, c.LoadingScale)
	}
	if c.HistogramBins < 1 {
		return fmt.Errorf("%w: histogram_bins %d, need >= 1", ErrInvalidParameter, c.HistogramBins)
	}

	return nil
}
