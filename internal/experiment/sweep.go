package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/noisefield/internal/config"
)

var ErrUnknownPreset = errors.New("experiment: unknown preset")

// Sweep runs one benchmark per named preset. tune, when non-nil, is applied to
// each preset config before it runs.
func Sweep(ctx context.Context, presets []string, job Config, tune func(*config.Config)) ([]*Result, error) {
	results := make([]*Result, 0, len(presets))
	for _, name := range presets {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
		}
		if tune != nil {
			tune(cfg)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		src, err := cfg.NoiseSource()
		if err != nil {
			return nil, err
		}

		run := job
		run.Name = name
		res, err := Run(ctx, cfg, src, run)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
