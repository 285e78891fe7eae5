// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"strings"

	"github.com/camposlab/ptmpath/utils"
)

const maxNameLength = 200

// validateNames checks one registry name set: names must be non-blank,
// length-bounded, and unique after accent/case folding.
func validateNames(kind string, names []string) error {
	seen := make(map[string]string, len(names))

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return newError(ErrorTypeInvalidName, "%s name can't be blank", kind)
		}

		if len(name) > maxNameLength {
			return newError(ErrorTypeInvalidName,
				"%s name too long (max %d characters): %.40s…", kind, maxNameLength, name)
		}

		folded := utils.LowerASCIIFolding(name)
		if prev, ok := seen[folded]; ok {
			return newError(ErrorTypeInvalidName,
				"duplicate %s name: %q collides with %q", kind, name, prev)
		}

		seen[folded] = name
	}

	return nil
}

// ValidateSnapshot verifies a snapshot satisfies the pipeline's input
// contract: both name sets present, every name well-formed and unique.
func ValidateSnapshot(snap Snapshot) error {
	if len(snap.PTMs) == 0 {
		return newError(ErrorTypeIncompleteInput, "no PTMs registered")
	}

	if len(snap.Drugs) == 0 {
		return newError(ErrorTypeIncompleteInput, "no drugs registered")
	}

	if err := validateNames("ptm", snap.PTMs); err != nil {
		return err
	}

	return validateNames("drug", snap.Drugs)
}

// SanitizeName trims and length-bounds a registry name before storage.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}

	return name
}
