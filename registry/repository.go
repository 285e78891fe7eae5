// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry persists the tracked PTM and drug sets plus the three
// pipeline outputs (ptmdataset, ptm_correlation_matrix, common_clusters) in an
// embedded DuckDB database, and serves them over a local HTTP API.
package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/camposlab/ptmpath/pipeline"
)

// ErrNotFound is returned when a named registry entry does not exist.
var ErrNotFound = errors.New("entry not found")

// Entry is one tracked PTM or drug.
type Entry struct {
	Name      string    `json:"name"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RunInfo records one completed pipeline run.
type RunInfo struct {
	RanAt        time.Time `json:"ran_at"`
	Version      string    `json:"version"`
	Seed         int64     `json:"seed"`
	Threshold    float64   `json:"threshold"`
	PTMCount     int       `json:"ptm_count"`
	DrugCount    int       `json:"drug_count"`
	ClusterCount int       `json:"cluster_count"`
}

// Summary reports row counts across the registry and result tables.
type Summary struct {
	PTMs         int      `json:"ptms"`
	Drugs        int      `json:"drugs"`
	Measurements int      `json:"measurements"`
	PairScores   int      `json:"pair_scores"`
	Clusters     int      `json:"clusters"`
	LastRun      *RunInfo `json:"last_run,omitempty"`
}

// Repository handles persistence of the entity registry and pipeline results.
type Repository interface {
	// CreateSchema creates the registry and result tables.
	CreateSchema() error

	// SavePTM inserts or updates a tracked PTM. Any registry mutation
	// invalidates stored pipeline results.
	SavePTM(name, notes string) error

	// SaveDrug inserts or updates a tracked drug.
	SaveDrug(name, notes string) error

	// ListPTMs returns all tracked PTMs sorted by name.
	ListPTMs() ([]Entry, error)

	// ListDrugs returns all tracked drugs sorted by name.
	ListDrugs() ([]Entry, error)

	// RemovePTM deletes a tracked PTM; ErrNotFound when absent.
	RemovePTM(name string) error

	// RemoveDrug deletes a tracked drug; ErrNotFound when absent.
	RemoveDrug(name string) error

	// Snapshot materializes the versioned pipeline input from the registry.
	Snapshot() (pipeline.Snapshot, error)

	// SaveResult transactionally replaces the three result tables.
	SaveResult(res *pipeline.Result) error

	// ListMeasurements pages through the stored reaction dataset.
	ListMeasurements(limit, offset int) ([]pipeline.Measurement, error)

	// ListPairScores pages through the stored correlation matrix.
	ListPairScores(limit, offset int) ([]pipeline.PairScore, error)

	// ListClusters returns all stored clusters with their members.
	ListClusters() ([]pipeline.Cluster, error)

	// Summary returns row counts plus the last run, if any.
	Summary() (*Summary, error)

	// DB returns the underlying database connection.
	DB() *sql.DB
}

type sqlRepository struct {
	db *sql.DB
}

// NewRepository creates a DuckDB-backed registry repository.
func NewRepository(db *sql.DB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS ptms (
			name VARCHAR PRIMARY KEY,
			notes TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS drugs (
			name VARCHAR PRIMARY KEY,
			notes TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS ptmdataset (
			ptm VARCHAR NOT NULL,
			drug VARCHAR NOT NULL,
			reaction_score DOUBLE NOT NULL,
			UNIQUE(ptm, drug)
		);

		CREATE TABLE IF NOT EXISTS ptm_correlation_matrix (
			ptm1 VARCHAR NOT NULL,
			ptm2 VARCHAR NOT NULL,
			score DOUBLE NOT NULL,
			UNIQUE(ptm1, ptm2)
		);

		CREATE TABLE IF NOT EXISTS common_clusters (
			cluster_id INTEGER NOT NULL,
			ptm VARCHAR NOT NULL,
			UNIQUE(cluster_id, ptm)
		);

		CREATE TABLE IF NOT EXISTS pipeline_runs (
			ran_at TIMESTAMP NOT NULL,
			version VARCHAR NOT NULL,
			seed BIGINT NOT NULL,
			threshold DOUBLE NOT NULL,
			ptm_count INTEGER NOT NULL,
			drug_count INTEGER NOT NULL,
			cluster_count INTEGER NOT NULL
		);
	`)

	return err
}

// clearResults empties the result tables. Every registry mutation routes
// through here: stored scores are only meaningful for the registry state that
// produced them.
func clearResults(tx *sql.Tx) error {
	for _, table := range []string{"ptmdataset", "ptm_correlation_matrix", "common_clusters"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	return nil
}

func (r *sqlRepository) saveEntry(table, name, notes string) error {
	name = pipeline.SanitizeName(name)
	if name == "" {
		return errors.New("name can't be blank")
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE name = ?", name).Scan(&count); err != nil {
		return rollback(tx, err)
	}

	now := time.Now()

	if count > 0 {
		_, err = tx.Exec("UPDATE "+table+" SET notes = ?, updated_at = ? WHERE name = ?",
			notes, now, name)
	} else {
		_, err = tx.Exec("INSERT INTO "+table+" (name, notes, created_at, updated_at) VALUES (?, ?, ?, ?)",
			name, notes, now, now)
	}

	if err != nil {
		return rollback(tx, err)
	}

	if err := clearResults(tx); err != nil {
		return rollback(tx, err)
	}

	return tx.Commit()
}

func (r *sqlRepository) removeEntry(table, name string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	result, err := tx.Exec("DELETE FROM "+table+" WHERE name = ?", pipeline.SanitizeName(name))
	if err != nil {
		return rollback(tx, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return rollback(tx, err)
	}

	if affected == 0 {
		return rollback(tx, fmt.Errorf("%s %q: %w", table, name, ErrNotFound))
	}

	if err := clearResults(tx); err != nil {
		return rollback(tx, err)
	}

	return tx.Commit()
}

func rollback(tx *sql.Tx, err error) error {
	if rErr := tx.Rollback(); rErr != nil {
		return fmt.Errorf("rollback failed: %v (original error: %w)", rErr, err)
	}

	return err
}

func (r *sqlRepository) listEntries(table string) ([]Entry, error) {
	rows, err := r.db.Query("SELECT name, notes, created_at, updated_at FROM " + table + " ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *sqlRepository) SavePTM(name, notes string) error  { return r.saveEntry("ptms", name, notes) }
func (r *sqlRepository) SaveDrug(name, notes string) error { return r.saveEntry("drugs", name, notes) }
func (r *sqlRepository) ListPTMs() ([]Entry, error)        { return r.listEntries("ptms") }
func (r *sqlRepository) ListDrugs() ([]Entry, error)       { return r.listEntries("drugs") }
func (r *sqlRepository) RemovePTM(name string) error       { return r.removeEntry("ptms", name) }
func (r *sqlRepository) RemoveDrug(name string) error      { return r.removeEntry("drugs", name) }

func (r *sqlRepository) listNames(table string) ([]string, error) {
	rows, err := r.db.Query("SELECT name FROM " + table + " ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		names = append(names, name)
	}

	return names, rows.Err()
}

func (r *sqlRepository) Snapshot() (pipeline.Snapshot, error) {
	ptms, err := r.listNames("ptms")
	if err != nil {
		return pipeline.Snapshot{}, fmt.Errorf("listing ptms: %w", err)
	}

	drugs, err := r.listNames("drugs")
	if err != nil {
		return pipeline.Snapshot{}, fmt.Errorf("listing drugs: %w", err)
	}

	// The version ties a result back to the registry state that produced it:
	// counts plus the most recent mutation time across both tables.
	var lastUpdated sql.NullTime
	if err := r.db.QueryRow(`
		SELECT max(updated_at) FROM (
			SELECT updated_at FROM ptms
			UNION ALL
			SELECT updated_at FROM drugs
		) AS mutations
	`).Scan(&lastUpdated); err != nil {
		return pipeline.Snapshot{}, fmt.Errorf("reading registry version: %w", err)
	}

	version := fmt.Sprintf("%d-%d", len(ptms), len(drugs))
	if lastUpdated.Valid {
		version = fmt.Sprintf("%s-%d", version, lastUpdated.Time.UnixMilli())
	}

	return pipeline.Snapshot{Version: version, PTMs: ptms, Drugs: drugs}, nil
}

func (r *sqlRepository) SaveResult(res *pipeline.Result) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	if err := clearResults(tx); err != nil {
		return rollback(tx, err)
	}

	if err := insertMeasurements(tx, res.Measurements); err != nil {
		return rollback(tx, fmt.Errorf("inserting measurements: %w", err))
	}

	if err := insertScores(tx, res.Scores); err != nil {
		return rollback(tx, fmt.Errorf("inserting pair scores: %w", err))
	}

	if err := insertClusters(tx, res.Clusters); err != nil {
		return rollback(tx, fmt.Errorf("inserting clusters: %w", err))
	}

	snapPTMs := 0
	for _, s := range res.Scores {
		if s.PTM1 == s.PTM2 {
			snapPTMs++
		}
	}

	drugCount := 0
	if snapPTMs > 0 {
		drugCount = len(res.Measurements) / snapPTMs
	}

	if _, err := tx.Exec(`
		INSERT INTO pipeline_runs (ran_at, version, seed, threshold, ptm_count, drug_count, cluster_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, time.Now(), res.Version, res.Seed, res.Threshold, snapPTMs, drugCount, len(res.Clusters)); err != nil {
		return rollback(tx, fmt.Errorf("recording run: %w", err))
	}

	return tx.Commit()
}

func insertMeasurements(tx *sql.Tx, measurements []pipeline.Measurement) error {
	stmt, err := tx.Prepare("INSERT INTO ptmdataset (ptm, drug, reaction_score) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range measurements {
		if _, err := stmt.Exec(m.PTM, m.Drug, m.Score); err != nil {
			return err
		}
	}

	return nil
}

func insertScores(tx *sql.Tx, scores []pipeline.PairScore) error {
	stmt, err := tx.Prepare("INSERT INTO ptm_correlation_matrix (ptm1, ptm2, score) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range scores {
		if _, err := stmt.Exec(s.PTM1, s.PTM2, s.Score); err != nil {
			return err
		}
	}

	return nil
}

func insertClusters(tx *sql.Tx, clusters []pipeline.Cluster) error {
	stmt, err := tx.Prepare("INSERT INTO common_clusters (cluster_id, ptm) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range clusters {
		for _, ptm := range c.PTMs {
			if _, err := stmt.Exec(c.ID, ptm); err != nil {
				return err
			}
		}
	}

	return nil
}

func pageClause(limit, offset int) (string, []any) {
	if limit <= 0 {
		return "", nil
	}

	return " LIMIT ? OFFSET ?", []any{limit, offset}
}

func (r *sqlRepository) ListMeasurements(limit, offset int) ([]pipeline.Measurement, error) {
	clause, args := pageClause(limit, offset)

	rows, err := r.db.Query("SELECT ptm, drug, reaction_score FROM ptmdataset ORDER BY ptm, drug"+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var measurements []pipeline.Measurement

	for rows.Next() {
		var m pipeline.Measurement
		if err := rows.Scan(&m.PTM, &m.Drug, &m.Score); err != nil {
			return nil, err
		}

		measurements = append(measurements, m)
	}

	return measurements, rows.Err()
}

func (r *sqlRepository) ListPairScores(limit, offset int) ([]pipeline.PairScore, error) {
	clause, args := pageClause(limit, offset)

	rows, err := r.db.Query("SELECT ptm1, ptm2, score FROM ptm_correlation_matrix ORDER BY score DESC, ptm1, ptm2"+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []pipeline.PairScore

	for rows.Next() {
		var s pipeline.PairScore
		if err := rows.Scan(&s.PTM1, &s.PTM2, &s.Score); err != nil {
			return nil, err
		}

		scores = append(scores, s)
	}

	return scores, rows.Err()
}

func (r *sqlRepository) ListClusters() ([]pipeline.Cluster, error) {
	rows, err := r.db.Query("SELECT cluster_id, ptm FROM common_clusters ORDER BY cluster_id, ptm")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clusters []pipeline.Cluster

	for rows.Next() {
		var (
			id  int
			ptm string
		)

		if err := rows.Scan(&id, &ptm); err != nil {
			return nil, err
		}

		if len(clusters) == 0 || clusters[len(clusters)-1].ID != id {
			clusters = append(clusters, pipeline.Cluster{ID: id})
		}

		last := &clusters[len(clusters)-1]
		last.PTMs = append(last.PTMs, ptm)
	}

	return clusters, rows.Err()
}

func (r *sqlRepository) Summary() (*Summary, error) {
	s := &Summary{}

	err := r.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM ptms),
			(SELECT COUNT(*) FROM drugs),
			(SELECT COUNT(*) FROM ptmdataset),
			(SELECT COUNT(*) FROM ptm_correlation_matrix),
			(SELECT COUNT(DISTINCT cluster_id) FROM common_clusters)
	`).Scan(&s.PTMs, &s.Drugs, &s.Measurements, &s.PairScores, &s.Clusters)
	if err != nil {
		return nil, err
	}

	var run RunInfo

	err = r.db.QueryRow(`
		SELECT ran_at, version, seed, threshold, ptm_count, drug_count, cluster_count
		FROM pipeline_runs
		ORDER BY ran_at DESC
		LIMIT 1
	`).Scan(&run.RanAt, &run.Version, &run.Seed, &run.Threshold,
		&run.PTMCount, &run.DrugCount, &run.ClusterCount)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No runs yet.
	case err != nil:
		return nil, err
	default:
		s.LastRun = &run
	}

	return s, nil
}
