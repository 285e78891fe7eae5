// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/camposlab/ptmpath/pipeline"
	"github.com/camposlab/ptmpath/utils"
)

var runOptions = struct {
	seed      int64
	threshold float64
	minScore  float64
	maxScore  float64
}{}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the correlation pipeline and store the results",
	Long: `Builds a fresh reaction dataset over the registered (ptm, drug) cross
product, computes a similarity score for every PTM pair, groups PTMs into
clusters at the threshold, and replaces the stored results.

Without --seed every run draws new reaction scores; pass a fixed seed to make
a run reproducible.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, repo, err := openRepository()
		if err != nil {
			return err
		}
		defer db.Close()

		snap, err := repo.Snapshot()
		if err != nil {
			return fmt.Errorf("reading registry: %w", err)
		}

		opts := pipeline.Options{
			Seed:      runOptions.seed,
			Threshold: runOptions.threshold,
			MinScore:  runOptions.minScore,
			MaxScore:  runOptions.maxScore,
		}

		var bar *progressbar.ProgressBar
		if isatty.IsTerminal(os.Stderr.Fd()) {
			n := len(snap.PTMs)
			bar = progressbar.NewOptions(n*(n-1)/2,
				progressbar.OptionSetDescription("Correlating"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			opts.Progress = func(_, _ int) {
				_ = bar.Add(1)
			}
		}

		res, err := pipeline.Run(snap, opts)
		if err != nil {
			if pipeline.IsIncompleteInputError(err) {
				return fmt.Errorf("%w - register PTMs and drugs first ('ptmpath registry ptm add', 'ptmpath registry drug add')", err)
			}

			return err
		}

		if bar != nil {
			_ = bar.Finish()
		}

		if err := repo.SaveResult(res); err != nil {
			return fmt.Errorf("storing results: %w", err)
		}

		fmt.Printf("✅ Run %s (seed %d, threshold %g): %s measurements, %s pair scores, %s clusters\n",
			res.Version,
			res.Seed,
			res.Threshold,
			utils.FormatInt(int64(len(res.Measurements))),
			utils.FormatInt(int64(len(res.Scores))),
			utils.FormatInt(int64(len(res.Clusters))))

		for _, c := range res.Clusters {
			if len(c.PTMs) < 2 {
				continue
			}

			fmt.Printf("   cluster %d: %v\n", c.ID, c.PTMs)
		}

		return nil
	},
}

func init() {
	runCmd.Flags().Int64Var(&runOptions.seed, "seed", 0, "random seed for the reaction dataset (0 = time-based)")
	runCmd.Flags().Float64Var(&runOptions.threshold, "threshold", pipeline.DefaultThreshold, "similarity threshold for cluster membership")
	runCmd.Flags().Float64Var(&runOptions.minScore, "min", pipeline.DefaultMinScore, "lower bound of synthesized reaction scores")
	runCmd.Flags().Float64Var(&runOptions.maxScore, "max", pipeline.DefaultMaxScore, "upper bound of synthesized reaction scores")
	rootCmd.AddCommand(runCmd)
}
