// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"strings"
	"testing"
)

func TestValidateSnapshot(t *testing.T) {
	tests := []struct {
		name      string
		snap      Snapshot
		wantErr   bool
		errorType func(error) bool
	}{
		{
			name: "valid snapshot",
			snap: Snapshot{
				PTMs:  []string{"AARS ubi k474", "ACIN1 phos S243"},
				Drugs: []string{"erlotinib", "dasatinib"},
			},
		},
		{
			name:      "empty ptms",
			snap:      Snapshot{Drugs: []string{"erlotinib"}},
			wantErr:   true,
			errorType: IsIncompleteInputError,
		},
		{
			name:      "empty drugs",
			snap:      Snapshot{PTMs: []string{"AARS ubi k474"}},
			wantErr:   true,
			errorType: IsIncompleteInputError,
		},
		{
			name: "blank ptm name",
			snap: Snapshot{
				PTMs:  []string{"AARS ubi k474", "   "},
				Drugs: []string{"erlotinib"},
			},
			wantErr:   true,
			errorType: IsInvalidNameError,
		},
		{
			name: "duplicate after case folding",
			snap: Snapshot{
				PTMs:  []string{"AKT1 phos T308", "akt1 phos t308"},
				Drugs: []string{"erlotinib"},
			},
			wantErr:   true,
			errorType: IsInvalidNameError,
		},
		{
			name: "duplicate after accent folding",
			snap: Snapshot{
				PTMs:  []string{"AKT1 phos T308"},
				Drugs: []string{"géfitinib", "gefitinib"},
			},
			wantErr:   true,
			errorType: IsInvalidNameError,
		},
		{
			name: "name too long",
			snap: Snapshot{
				PTMs:  []string{strings.Repeat("x", 201)},
				Drugs: []string{"erlotinib"},
			},
			wantErr:   true,
			errorType: IsInvalidNameError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSnapshot(tt.snap)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateSnapshot() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil && tt.errorType != nil && !tt.errorType(err) {
				t.Errorf("wrong error type: %v", err)
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "trims whitespace", in: "  AKT1 phos T308  ", want: "AKT1 phos T308"},
		{name: "preserves case", in: "H3122SEPTM_pTyr.PR2", want: "H3122SEPTM_pTyr.PR2"},
		{name: "truncates long names", in: strings.Repeat("a", 300), want: strings.Repeat("a", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.in); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
