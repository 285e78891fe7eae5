// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"math/rand"
)

type cell struct {
	ptm  string
	drug string
}

// Dataset holds exactly one measurement for every (ptm, drug) pair of a
// snapshot. Completeness is an invariant the correlation engine relies on.
type Dataset struct {
	PTMs   []string
	Drugs  []string
	values map[cell]float64
}

// BuildDataset synthesizes a complete reaction dataset for the snapshot.
// Every value is drawn independently from [opts.MinScore, opts.MaxScore)
// using the run seed.
func BuildDataset(snap Snapshot, opts Options) (*Dataset, error) {
	opts = opts.withDefaults()

	if len(snap.PTMs) == 0 {
		return nil, newError(ErrorTypeIncompleteInput, "no PTMs registered")
	}

	if len(snap.Drugs) == 0 {
		return nil, newError(ErrorTypeIncompleteInput, "no drugs registered")
	}

	if opts.MinScore < 0 || opts.MaxScore <= opts.MinScore {
		return nil, newError(ErrorTypeIncompleteInput,
			"invalid reaction score range [%g, %g)", opts.MinScore, opts.MaxScore)
	}

	rng := rand.New(rand.NewSource(opts.Seed)) // #nosec G404 - synthetic data, not crypto

	ds := &Dataset{
		PTMs:   snap.PTMs,
		Drugs:  snap.Drugs,
		values: make(map[cell]float64, len(snap.PTMs)*len(snap.Drugs)),
	}

	for _, ptm := range snap.PTMs {
		for _, drug := range snap.Drugs {
			ds.values[cell{ptm, drug}] = opts.MinScore + rng.Float64()*(opts.MaxScore-opts.MinScore)
		}
	}

	return ds, nil
}

// NewDataset assembles a dataset from existing measurements, deriving the PTM
// and drug sets in first-seen order. Used when re-correlating stored data.
func NewDataset(measurements []Measurement) *Dataset {
	ds := &Dataset{values: make(map[cell]float64, len(measurements))}

	seenPTM := make(map[string]bool)
	seenDrug := make(map[string]bool)

	for _, m := range measurements {
		if !seenPTM[m.PTM] {
			seenPTM[m.PTM] = true

			ds.PTMs = append(ds.PTMs, m.PTM)
		}

		if !seenDrug[m.Drug] {
			seenDrug[m.Drug] = true

			ds.Drugs = append(ds.Drugs, m.Drug)
		}

		ds.values[cell{m.PTM, m.Drug}] = m.Score
	}

	return ds
}

// Value returns the measurement for a (ptm, drug) pair.
func (ds *Dataset) Value(ptm, drug string) (float64, bool) {
	v, ok := ds.values[cell{ptm, drug}]

	return v, ok
}

// Measurements flattens the dataset in (ptm, drug) registry order.
func (ds *Dataset) Measurements() []Measurement {
	out := make([]Measurement, 0, len(ds.values))

	for _, ptm := range ds.PTMs {
		for _, drug := range ds.Drugs {
			out = append(out, Measurement{PTM: ptm, Drug: drug, Score: ds.values[cell{ptm, drug}]})
		}
	}

	return out
}
