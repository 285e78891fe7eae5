// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// SeedData represents the JSON seed file format.
type SeedData struct {
	Version     string    `json:"version"`
	LastUpdated time.Time `json:"last_updated"`
	PTMs        []Entry   `json:"ptms"`
	Drugs       []Entry   `json:"drugs"`
}

// ExportToJSON exports the registry to a JSON file. Entries come out sorted
// by name to minimize diffs when the file is checked into version control.
func ExportToJSON(repo Repository, filepath string) error {
	ptms, err := repo.ListPTMs()
	if err != nil {
		return fmt.Errorf("listing ptms: %w", err)
	}

	drugs, err := repo.ListDrugs()
	if err != nil {
		return fmt.Errorf("listing drugs: %w", err)
	}

	seed := &SeedData{
		Version:     "1.0",
		LastUpdated: time.Now(),
		PTMs:        ptms,
		Drugs:       drugs,
	}

	data, err := json.MarshalIndent(seed, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}

	err = os.WriteFile(filepath, data, 0o600)
	if err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}

// ImportFromJSON imports registry entries from a JSON file.
func ImportFromJSON(repo Repository, filepath string) (int, error) {
	data, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by admin
	if err != nil {
		return 0, fmt.Errorf("reading file: %w", err)
	}

	var seed SeedData
	if err := json.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("parsing JSON: %w", err)
	}

	imported := 0

	for _, ptm := range seed.PTMs {
		if err := repo.SavePTM(ptm.Name, ptm.Notes); err != nil {
			return imported, fmt.Errorf("saving ptm %s: %w", ptm.Name, err)
		}

		imported++
	}

	for _, drug := range seed.Drugs {
		if err := repo.SaveDrug(drug.Name, drug.Notes); err != nil {
			return imported, fmt.Errorf("saving drug %s: %w", drug.Name, err)
		}

		imported++
	}

	return imported, nil
}

// SeedIfEmpty seeds the registry from a JSON file if no entries exist.
func SeedIfEmpty(repo Repository, filepath string) (bool, int, error) {
	summary, err := repo.Summary()
	if err != nil {
		return false, 0, fmt.Errorf("counting entries: %w", err)
	}

	if summary.PTMs > 0 || summary.Drugs > 0 {
		return false, summary.PTMs + summary.Drugs, nil
	}
	// Registry is empty, try to seed
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		// No seed file exists, that's okay
		return false, 0, nil
	}

	imported, err := ImportFromJSON(repo, filepath)
	if err != nil {
		return false, 0, err
	}

	return true, imported, nil
}
