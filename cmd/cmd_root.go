// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"

	"github.com/camposlab/ptmpath/registry"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "ptmpath",
	Short: "PTM reaction correlation and clustering",
	Long: `
ptmpath tracks post-translational modifications and drug conditions, builds a
reaction dataset over their cross product, scores every PTM pair by reaction
similarity, and groups PTMs into clusters at a similarity threshold.
`,
}

var dbPath string

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "data", "directory holding the ptmpath database")
}

// openRepository opens (creating if needed) the database and ensures the
// schema exists. The caller must close the returned DB.
func openRepository() (*sql.DB, registry.Repository, error) {
	if err := os.MkdirAll(dbPath, 0o750); err != nil {
		return nil, nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("duckdb", filepath.Join(dbPath, "ptmpath.duckdb"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	repo := registry.NewRepository(db)
	if err := repo.CreateSchema(); err != nil {
		db.Close()

		return nil, nil, fmt.Errorf("creating schema: %w", err)
	}

	return db, repo, nil
}
