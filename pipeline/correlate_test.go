// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"math"
	"testing"
)

func scoreFor(t *testing.T, scores []PairScore, a, b string) float64 {
	t.Helper()

	for _, s := range scores {
		if (s.PTM1 == a && s.PTM2 == b) || (s.PTM1 == b && s.PTM2 == a) {
			return s.Score
		}
	}

	t.Fatalf("no score for pair (%s, %s)", a, b)

	return 0
}

func TestContribution(t *testing.T) {
	tests := []struct {
		name string
		a    float64
		b    float64
		want float64
	}{
		{name: "identical values", a: 4, b: 4, want: 1},
		{name: "divergent values", a: 2, b: 8, want: 0.25},
		{name: "divergent values swapped", a: 8, b: 2, want: 0.25},
		{name: "both zero", a: 0, b: 0, want: 1},
		{name: "one zero", a: 0, b: 5, want: 0},
		{name: "other zero", a: 5, b: 0, want: 0},
		{name: "small ratio", a: 1, b: 10, want: 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := contribution(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("contribution(%g, %g) = %g, want %g", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCorrelateIdenticalVectors(t *testing.T) {
	ds := NewDataset([]Measurement{
		{PTM: "P1", Drug: "D1", Score: 4},
		{PTM: "P2", Drug: "D1", Score: 4},
	})

	scores, err := Correlate(ds)
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}

	if got := scoreFor(t, scores, "P1", "P2"); got != 1 {
		t.Errorf("identical vectors scored %g, want 1", got)
	}
}

func TestCorrelateDivergentVectors(t *testing.T) {
	ds := NewDataset([]Measurement{
		{PTM: "P1", Drug: "D1", Score: 2},
		{PTM: "P2", Drug: "D1", Score: 8},
	})

	scores, err := Correlate(ds)
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}

	if got := scoreFor(t, scores, "P1", "P2"); got != 0.25 {
		t.Errorf("divergent vectors scored %g, want 0.25", got)
	}
}

func TestCorrelateZeroMeasurements(t *testing.T) {
	// Two zero reactions count as a full match, not a division by zero.
	ds := NewDataset([]Measurement{
		{PTM: "P1", Drug: "D1", Score: 0},
		{PTM: "P2", Drug: "D1", Score: 0},
	})

	scores, err := Correlate(ds)
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}

	if got := scoreFor(t, scores, "P1", "P2"); got != 1 {
		t.Errorf("zero/zero pair scored %g, want 1", got)
	}
}

func TestCorrelateMultiDrugNormalization(t *testing.T) {
	ds := NewDataset([]Measurement{
		{PTM: "P1", Drug: "D1", Score: 3}, {PTM: "P1", Drug: "D2", Score: 7}, {PTM: "P1", Drug: "D3", Score: 0},
		{PTM: "P2", Drug: "D1", Score: 3}, {PTM: "P2", Drug: "D2", Score: 7}, {PTM: "P2", Drug: "D3", Score: 0},
		{PTM: "P3", Drug: "D1", Score: 6}, {PTM: "P3", Drug: "D2", Score: 7}, {PTM: "P3", Drug: "D3", Score: 0},
	})

	scores, err := Correlate(ds)
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}

	if got := scoreFor(t, scores, "P1", "P2"); got != 1 {
		t.Errorf("identical three-drug vectors scored %g, want 1", got)
	}

	// (3·6)/36 + 1 + 1 over three drugs
	want := (0.5 + 1 + 1) / 3
	if got := scoreFor(t, scores, "P1", "P3"); math.Abs(got-want) > 1e-12 {
		t.Errorf("diverging three-drug vectors scored %g, want %g", got, want)
	}
}

func TestCorrelateReflexiveAndCounts(t *testing.T) {
	snap := Snapshot{
		PTMs:  []string{"P1", "P2", "P3", "P4", "P5"},
		Drugs: []string{"D1", "D2", "D3"},
	}

	ds, err := BuildDataset(snap, Options{Seed: 42})
	if err != nil {
		t.Fatalf("BuildDataset() error = %v", err)
	}

	scores, err := Correlate(ds)
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}

	n := len(snap.PTMs)

	reflexive, pairs := 0, 0

	for _, s := range scores {
		if s.Score < 0 || s.Score > 1 {
			t.Errorf("score for (%s, %s) out of bounds: %g", s.PTM1, s.PTM2, s.Score)
		}

		if s.PTM1 == s.PTM2 {
			reflexive++

			if s.Score != 1 {
				t.Errorf("reflexive score for %s = %g, want 1", s.PTM1, s.Score)
			}
		} else {
			pairs++
		}
	}

	if reflexive != n {
		t.Errorf("got %d reflexive scores, want %d", reflexive, n)
	}

	if want := n * (n - 1) / 2; pairs != want {
		t.Errorf("got %d non-reflexive scores, want %d", pairs, want)
	}
}

func TestCorrelateSymmetry(t *testing.T) {
	measurements := []Measurement{
		{PTM: "P1", Drug: "D1", Score: 2}, {PTM: "P1", Drug: "D2", Score: 9},
		{PTM: "P2", Drug: "D1", Score: 5}, {PTM: "P2", Drug: "D2", Score: 1},
	}

	forward, err := Correlate(NewDataset(measurements))
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}

	// Same data with the PTM roles swapped must yield the same pair score.
	reversed, err := Correlate(NewDataset([]Measurement{
		measurements[2], measurements[3], measurements[0], measurements[1],
	}))
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}

	if a, b := scoreFor(t, forward, "P1", "P2"), scoreFor(t, reversed, "P2", "P1"); a != b {
		t.Errorf("score not symmetric: %g vs %g", a, b)
	}
}

func TestCorrelateMissingMeasurement(t *testing.T) {
	// P2/D2 never measured: the dataset violates the completeness invariant.
	ds := NewDataset([]Measurement{
		{PTM: "P1", Drug: "D1", Score: 1},
		{PTM: "P1", Drug: "D2", Score: 2},
		{PTM: "P2", Drug: "D1", Score: 3},
	})

	_, err := Correlate(ds)
	if err == nil {
		t.Fatal("Correlate() expected error for incomplete dataset")
	}

	if !IsMissingMeasurementError(err) {
		t.Errorf("expected missing measurement error, got %v", err)
	}
}

func TestCorrelateEmptyDataset(t *testing.T) {
	_, err := Correlate(NewDataset(nil))
	if err == nil {
		t.Fatal("Correlate() expected error for empty dataset")
	}

	if !IsIncompleteInputError(err) {
		t.Errorf("expected incomplete input error, got %v", err)
	}
}
