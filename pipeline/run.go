// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline implements the PTM correlation pipeline: a synthesized
// reaction dataset over the (ptm, drug) cross product, a bounded pairwise
// similarity score for every PTM pair, and threshold clustering of the result.
// Each run is a pure, synchronous function of a registry snapshot and its
// options; nothing is shared between runs.
package pipeline

// Run executes the three pipeline stages against a registry snapshot:
// dataset synthesis, pairwise correlation, and cluster assembly. Errors abort
// the run immediately; no partial result is returned.
func Run(snap Snapshot, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	if err := ValidateSnapshot(snap); err != nil {
		return nil, err
	}

	ds, err := BuildDataset(snap, opts)
	if err != nil {
		return nil, err
	}

	scores, err := correlate(ds, opts.Progress)
	if err != nil {
		return nil, err
	}

	return &Result{
		Version:      snap.Version,
		Seed:         opts.Seed,
		Threshold:    opts.Threshold,
		Measurements: ds.Measurements(),
		Scores:       scores,
		Clusters:     AssembleClusters(ds.PTMs, scores, opts.Threshold),
	}, nil
}
