package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantfolio/rmtclean/internal/pipeline"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the analysis across a range of aspect ratios",
		Long:  "Recompute the full pipeline over an evenly spaced aspect-ratio grid, in parallel, and print one summary line per ratio.",
		RunE:  runSweep,
	}

	addConfigFlags(cmd)
	cmd.Flags().Float64("from", 0.05, "First aspect ratio")
	cmd.Flags().Float64("to", 0.85, "Last aspect ratio")
	cmd.Flags().Int("steps", 17, "Number of grid points")

	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := configFromFlags(cmd)
	if err != nil {
		return err
	}

	from, _ := cmd.Flags().GetFloat64("from")
	to, _ := cmd.Flags().GetFloat64("to")
	steps, _ := cmd.Flags().GetInt("steps")
	if steps < 1 {
		return fmt.Errorf("steps must be >= 1, got %d", steps)
	}

	results, err := pipeline.Sweep(cmd.Context(), base, pipeline.Ratios(from, to, steps))
	if err != nil {
		return err
	}

	fmt.Printf("%8s %6s %8s %8s %10s %10s %10s %10s\n",
		"q", "T", "signal", "noise", "vol_raw", "vol_clean", "hhi_raw", "hhi_clean")
	for _, res := range results {
		fmt.Printf("%8.3f %6d %8d %8d %10.4f %10.4f %10.4f %10.4f\n",
			res.Config.AspectRatio, res.Periods, res.SignalCount, res.NoiseCount,
			res.VolRaw, res.VolCleaned, res.HHIRaw, res.HHICleaned)
	}

	return nil
}
