// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"
	"fmt"
)

// PipelineError represents errors raised by the correlation pipeline.
type PipelineError struct {
	Type    ErrorType
	Message string
	Err     error
}

// ErrorType classifies pipeline failures.
type ErrorType int

const (
	// ErrorTypeUnknown unclassified failure.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeIncompleteInput empty PTM or drug set.
	ErrorTypeIncompleteInput
	// ErrorTypeMissingMeasurement dataset lacks a (ptm, drug) cell.
	ErrorTypeMissingMeasurement
	// ErrorTypeInvalidName malformed or duplicated registry name.
	ErrorTypeInvalidName
)

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func newError(t ErrorType, format string, args ...any) *PipelineError {
	return &PipelineError{Type: t, Message: fmt.Sprintf(format, args...)}
}

func isErrorType(err error, t ErrorType) bool {
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr.Type == t
	}

	return false
}

// IsIncompleteInputError reports whether the run aborted because a registry
// set was empty.
func IsIncompleteInputError(err error) bool {
	return isErrorType(err, ErrorTypeIncompleteInput)
}

// IsMissingMeasurementError reports whether the dataset was incomplete
// relative to the registry. This indicates an upstream contract violation.
func IsMissingMeasurementError(err error) bool {
	return isErrorType(err, ErrorTypeMissingMeasurement)
}

// IsInvalidNameError reports whether a registry name failed validation.
func IsInvalidNameError(err error) bool {
	return isErrorType(err, ErrorTypeInvalidName)
}
