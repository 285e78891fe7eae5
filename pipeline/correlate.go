// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

// contribution is the per-drug term of the similarity sum: p1·p2 / max(p1,p2)².
// It is 1 when both reactions are equal (including both zero) and falls toward
// 0 as they diverge.
func contribution(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 1
	}

	m := a
	if b > m {
		m = b
	}

	if m == 0 {
		return 0
	}

	return (a * b) / (m * m)
}

// Correlate computes one PairScore per unordered PTM pair, plus the reflexive
// identity score of 1 for every PTM. The per-drug contributions are summed and
// normalized by the drug count so identical reaction vectors score exactly 1
// and all scores land in [0, 1].
func Correlate(ds *Dataset) ([]PairScore, error) {
	return correlate(ds, nil)
}

func correlate(ds *Dataset, progress func(done, total int)) ([]PairScore, error) {
	if len(ds.PTMs) == 0 || len(ds.Drugs) == 0 {
		return nil, newError(ErrorTypeIncompleteInput,
			"correlation needs at least one PTM and one drug")
	}

	n := len(ds.PTMs)
	total := n * (n - 1) / 2
	scores := make([]PairScore, 0, total+n)
	done := 0

	for i, a := range ds.PTMs {
		scores = append(scores, PairScore{PTM1: a, PTM2: a, Score: 1})

		for _, b := range ds.PTMs[i+1:] {
			sum := 0.0

			for _, drug := range ds.Drugs {
				va, ok := ds.Value(a, drug)
				if !ok {
					return nil, newError(ErrorTypeMissingMeasurement,
						"no measurement for %s under %s", a, drug)
				}

				vb, ok := ds.Value(b, drug)
				if !ok {
					return nil, newError(ErrorTypeMissingMeasurement,
						"no measurement for %s under %s", b, drug)
				}

				sum += contribution(va, vb)
			}

			scores = append(scores, PairScore{
				PTM1:  a,
				PTM2:  b,
				Score: sum / float64(len(ds.Drugs)),
			})

			done++
			if progress != nil {
				progress(done, total)
			}
		}
	}

	return scores, nil
}
