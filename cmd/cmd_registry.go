// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camposlab/ptmpath/registry"
	"github.com/camposlab/ptmpath/utils"
)

const seedFile = "registry.json"

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Manage the tracked PTM and drug sets",
}

var entryNotes string

func addCommand(use, short string, save func(repo registry.Repository, name, notes string) error) *cobra.Command {
	c := &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			db, repo, err := openRepository()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := save(repo, args[0], entryNotes); err != nil {
				return err
			}

			fmt.Printf("✅ Saved %s\n", args[0])
			fmt.Println("ℹ️  Stored pipeline results were invalidated; run 'ptmpath run' to recompute")

			return nil
		},
	}
	c.Flags().StringVar(&entryNotes, "notes", "", "free-form notes for the entry")

	return c
}

func listCommand(use, short string, list func(repo registry.Repository) ([]registry.Entry, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			db, repo, err := openRepository()
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := list(repo)
			if err != nil {
				return err
			}

			for _, e := range entries {
				if e.Notes != "" {
					fmt.Printf("%s\t%s\n", e.Name, e.Notes)
				} else {
					fmt.Println(e.Name)
				}
			}

			fmt.Printf("%s entries\n", utils.FormatInt(int64(len(entries))))

			return nil
		},
	}
}

func removeCommand(use, short string, remove func(repo registry.Repository, name string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			db, repo, err := openRepository()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := remove(repo, args[0]); err != nil {
				return err
			}

			fmt.Printf("🗑️  Removed %s\n", args[0])

			return nil
		},
	}
}

var registryStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Export the registry to a JSON file",
	Long:  `Exports all tracked PTMs and drugs to a local JSON file. The file is sorted to minimize diffs when checking into version control.`,
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, repo, err := openRepository()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := registry.ExportToJSON(repo, seedFile); err != nil {
			return fmt.Errorf("exporting registry: %w", err)
		}

		summary, err := repo.Summary()
		if err != nil {
			return err
		}

		fmt.Printf("✅ Exported %s PTMs and %s drugs to %s\n",
			utils.FormatInt(int64(summary.PTMs)),
			utils.FormatInt(int64(summary.Drugs)),
			seedFile)

		return nil
	},
}

var registryLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Import the registry from a JSON file",
	Long:  `Imports PTMs and drugs from the local JSON file. Existing entries with the same name are updated in place.`,
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, repo, err := openRepository()
		if err != nil {
			return err
		}
		defer db.Close()

		imported, err := registry.ImportFromJSON(repo, seedFile)
		if err != nil {
			return fmt.Errorf("importing registry: %w", err)
		}

		fmt.Printf("✅ Imported %s entries from %s\n", utils.FormatInt(int64(imported)), seedFile)

		return nil
	},
}

func init() {
	ptmCmd := &cobra.Command{Use: "ptm", Short: "Manage tracked PTMs"}
	ptmCmd.AddCommand(
		addCommand("add", "Track a PTM", registry.Repository.SavePTM),
		listCommand("list", "List tracked PTMs", registry.Repository.ListPTMs),
		removeCommand("remove", "Stop tracking a PTM", registry.Repository.RemovePTM),
	)

	drugCmd := &cobra.Command{Use: "drug", Short: "Manage tracked drugs"}
	drugCmd.AddCommand(
		addCommand("add", "Track a drug", registry.Repository.SaveDrug),
		listCommand("list", "List tracked drugs", registry.Repository.ListDrugs),
		removeCommand("remove", "Stop tracking a drug", registry.Repository.RemoveDrug),
	)

	registryCmd.AddCommand(ptmCmd)
	registryCmd.AddCommand(drugCmd)
	registryCmd.AddCommand(registryStoreCmd)
	registryCmd.AddCommand(registryLoadCmd)
	rootCmd.AddCommand(registryCmd)
}
