package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Sweep runs the pipeline once per aspect ratio, concurrently. Runs are
// independent pure functions, so no coordination is needed beyond the
// group; results come back in ratio order. The first failure cancels the
// remaining runs.
func Sweep(ctx context.Context, base Config, ratios []float64) ([]*Result, error) {
	results := make([]*Result, len(ratios))
	g, ctx := errgroup.WithContext(ctx)

	for i, q := range ratios {
		i := i
		cfg := base
		cfg.AspectRatio = q

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := Run(cfg)
			if err != nil {
				return err
			}
			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Ratios builds an inclusive, evenly spaced sweep grid from lo to hi.
func Ratios(lo, hi float64, steps int) []float64 {
	if steps < 1 {
		return nil
	}
	if steps == 1 {
		return []float64{lo}
	}

	out := make([]float64, steps)
	span := (hi - lo) / float64(steps-1)
	for i := range out {
		out[i] = lo + float64(i)*span
	}

	return out
}
