// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsIncompleteInputError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "incomplete input error type",
			err: &PipelineError{
				Type:    ErrorTypeIncompleteInput,
				Message: "no PTMs registered",
			},
			want: true,
		},
		{
			name: "wrapped incomplete input error",
			err:  fmt.Errorf("running pipeline: %w", newError(ErrorTypeIncompleteInput, "no drugs registered")),
			want: true,
		},
		{
			name: "other error type",
			err: &PipelineError{
				Type:    ErrorTypeMissingMeasurement,
				Message: "no measurement",
			},
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("some other error"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsIncompleteInputError(tt.err); got != tt.want {
				t.Errorf("IsIncompleteInputError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsMissingMeasurementError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "missing measurement error type",
			err:  newError(ErrorTypeMissingMeasurement, "no measurement for P1 under D1"),
			want: true,
		},
		{
			name: "incomplete input error type",
			err:  newError(ErrorTypeIncompleteInput, "no PTMs registered"),
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("boom"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMissingMeasurementError(tt.err); got != tt.want {
				t.Errorf("IsMissingMeasurementError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPipelineErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &PipelineError{Type: ErrorTypeUnknown, Message: "wrapper", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the wrapped cause")
	}

	if got, want := err.Error(), "wrapper: root cause"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
