// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import "time"

// Snapshot is the registry state a pipeline run is computed from. It is an
// explicit, versioned input: a run is a pure function of (Snapshot, Options)
// and never reads ambient state.
type Snapshot struct {
	Version string   `json:"version"`
	PTMs    []string `json:"ptms"`
	Drugs   []string `json:"drugs"`
}

// Measurement is the synthesized reaction magnitude of one PTM under one drug.
type Measurement struct {
	PTM   string  `json:"ptm"`
	Drug  string  `json:"drug"`
	Score float64 `json:"reaction_score"`
}

// PairScore is the bounded symmetric similarity between two PTMs' reaction
// vectors. Scores live in [0, 1]; only one direction of each pair is stored.
type PairScore struct {
	PTM1  string  `json:"ptm1"`
	PTM2  string  `json:"ptm2"`
	Score float64 `json:"score"`
}

// Cluster groups PTMs whose pairwise similarity cleared the run threshold.
// Clusters have no identity beyond their member set; IDs are assigned per run.
type Cluster struct {
	ID   int      `json:"cluster_id"`
	PTMs []string `json:"ptms_in_cluster"`
}

// Result is the full output of one pipeline run.
type Result struct {
	Version      string        `json:"version"`
	Seed         int64         `json:"seed"`
	Threshold    float64       `json:"threshold"`
	Measurements []Measurement `json:"measurements"`
	Scores       []PairScore   `json:"scores"`
	Clusters     []Cluster     `json:"clusters"`
}

// Default bounds for synthesized reaction scores and cluster membership.
const (
	DefaultMinScore  = 0.0
	DefaultMaxScore  = 10.0
	DefaultThreshold = 0.5
)

// Options controls one pipeline run. The zero value is usable: a Seed of 0
// picks a time-based seed (run-to-run variation is intentional in production;
// tests pass a fixed seed for reproducibility).
type Options struct {
	Seed      int64
	Threshold float64
	MinScore  float64
	MaxScore  float64

	// Progress, when set, is invoked after each PTM pair is scored.
	Progress func(done, total int)
}

func (o Options) withDefaults() Options {
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}

	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}

	if o.MaxScore == 0 {
		o.MaxScore = DefaultMaxScore
	}

	return o
}
