// Package duckdb persists benchmark runs in DuckDB so that runs can be
// listed and compared without re-reading the raw results.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding rank records and summaries.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file, or "" for an in-memory database.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rank_records (
			run VARCHAR,
			kind VARCHAR,
			sample_id VARCHAR,
			entity VARCHAR,
			rank BIGINT,
			PRIMARY KEY (run, kind, sample_id, entity)
		)`,
		`CREATE TABLE IF NOT EXISTS summaries (
			run VARCHAR,
			kind VARCHAR,
			total BIGINT,
			top1 BIGINT,
			top1_pct DOUBLE,
			top3 BIGINT,
			top3_pct DOUBLE,
			top5 BIGINT,
			top5_pct DOUBLE,
			top10 BIGINT,
			top10_pct DOUBLE,
			found BIGINT,
			found_pct DOUBLE,
			mrr DOUBLE,
			PRIMARY KEY (run, kind)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
