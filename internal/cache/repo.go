package cache

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/typegen/internal/apperr"
	"github.com/starford/typegen/internal/models"
)

// SaveRun records a completed pass within one transaction: the run row,
// the artifact set it consumed, the output set it produced and the
// contract catalog. Previous artifact, output and contract rows are replaced.
func (db *DB) SaveRun(run models.Run, artifacts []models.ArtifactRecord, outputs map[string]string, contracts []models.Contract) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("cache: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO runs (id, fingerprint, started_at, finished_at, forced, artifacts, files, written, deleted, contracts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Fingerprint, run.StartedAt, run.FinishedAt, run.Forced,
		run.Artifacts, run.Files, run.Written, run.Deleted, run.Contracts)
	if err != nil {
		return fmt.Errorf("cache: insert run: %w", err)
	}

	for _, q := range []string{`DELETE FROM artifacts`, `DELETE FROM outputs`, `DELETE FROM contracts`} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("cache: clear previous run: %w", err)
		}
	}

	if len(artifacts) > 0 {
		stmt, err := tx.Prepare(`INSERT OR REPLACE INTO artifacts (path, kind, contract, checksum, updated_at) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("cache: prepare artifact insert: %w", err)
		}
		defer stmt.Close()
		for _, a := range artifacts {
			if _, err := stmt.Exec(a.Path, a.Kind, a.Contract, a.Checksum, a.UpdatedAt); err != nil {
				return fmt.Errorf("cache: insert artifact: %w", err)
			}
		}
	}

	if len(outputs) > 0 {
		stmt, err := tx.Prepare(`INSERT OR REPLACE INTO outputs (path, checksum, run_id) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("cache: prepare output insert: %w", err)
		}
		defer stmt.Close()
		for p, cs := range outputs {
			if _, err := stmt.Exec(p, cs, run.ID); err != nil {
				return fmt.Errorf("cache: insert output: %w", err)
			}
		}
	}

	if len(contracts) > 0 {
		stmt, err := tx.Prepare(`INSERT OR REPLACE INTO contracts (name, state, typings, factory, position, run_id, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("cache: prepare contract insert: %w", err)
		}
		defer stmt.Close()
		for i, c := range contracts {
			if _, err := stmt.Exec(c.Name, string(c.State), c.Typings, c.Factory, i, run.ID, run.FinishedAt); err != nil {
				return fmt.Errorf("cache: insert contract: %w", err)
			}
		}
	}

	return tx.Commit()
}

// LatestRun returns the most recently finished run.
func (db *DB) LatestRun() (*models.Run, error) {
	var r models.Run
	err := db.conn.QueryRow(`
		SELECT id, fingerprint, started_at, finished_at, forced, artifacts, files, written, deleted, contracts
		FROM runs ORDER BY finished_at DESC, rowid DESC LIMIT 1
	`).Scan(&r.ID, &r.Fingerprint, &r.StartedAt, &r.FinishedAt, &r.Forced,
		&r.Artifacts, &r.Files, &r.Written, &r.Deleted, &r.Contracts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache: latest run: %w", err)
	}
	return &r, nil
}

// OutputChecksums returns path→checksum for every file the last run produced.
func (db *DB) OutputChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM outputs`)
	if err != nil {
		return nil, fmt.Errorf("cache: output checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// ListArtifacts returns the artifacts consumed by the last run, by path.
func (db *DB) ListArtifacts() ([]models.ArtifactRecord, error) {
	rows, err := db.conn.Query(`SELECT path, kind, contract, checksum, updated_at FROM artifacts ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("cache: list artifacts: %w", err)
	}
	defer rows.Close()

	var out []models.ArtifactRecord
	for rows.Next() {
		var a models.ArtifactRecord
		if err := rows.Scan(&a.Path, &a.Kind, &a.Contract, &a.Checksum, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListContracts returns the contract catalog of the last run in index order.
func (db *DB) ListContracts() ([]models.Contract, error) {
	rows, err := db.conn.Query(`SELECT name, state, typings, factory, run_id, updated_at FROM contracts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("cache: list contracts: %w", err)
	}
	defer rows.Close()

	var out []models.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetContract returns one contract by name.
func (db *DB) GetContract(name string) (*models.Contract, error) {
	row := db.conn.QueryRow(`SELECT name, state, typings, factory, run_id, updated_at FROM contracts WHERE name = ?`, name)
	c, err := scanContract(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache: get contract: %w", err)
	}
	return c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContract(s scanner) (*models.Contract, error) {
	var c models.Contract
	var state string
	if err := s.Scan(&c.Name, &state, &c.Typings, &c.Factory, &c.RunID, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.State = models.ContractState(state)
	return &c, nil
}
