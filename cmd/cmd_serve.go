// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camposlab/ptmpath/registry"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the registry and results web server (local only)",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, repo, err := openRepository()
		if err != nil {
			return err
		}
		defer db.Close()

		seeded, count, err := registry.SeedIfEmpty(repo, seedFile)
		if err != nil {
			return fmt.Errorf("seeding registry: %w", err)
		}

		if seeded {
			fmt.Printf("🌱 Seeded %d registry entries from %s\n", count, seedFile)
		}

		server := registry.NewServer(repo)

		fmt.Println("🧬 ptmpath server starting...")
		fmt.Printf("📊 Open http://localhost%s/api/summary in your browser\n", serveAddr)
		fmt.Println("🔒 Local only - not exposed to internet")

		return server.Run(serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}
