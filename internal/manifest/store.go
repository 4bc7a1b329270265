// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest persists a record of completed exports in a SQLite
// database next to the output files, so repeated runs can be inspected and
// re-exports of the same document replace their earlier rows.
package manifest

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/docexport/pkg/types"
)

const dbFile = ".docexport.db"

// Store manages the export manifest database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the manifest database inside outputDir, creating
// the schema if it does not exist.
func Open(outputDir string) (*Store, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	dbPath := filepath.Join(outputDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening manifest database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT,
			revision INTEGER,
			output_path TEXT,
			exported_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS assets (
			token TEXT NOT NULL,
			kind TEXT NOT NULL,
			local_path TEXT NOT NULL,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			PRIMARY KEY (token, document_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assets_document_id ON assets(document_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record upserts a document and replaces its asset rows. A re-export of the
// same document overwrites the earlier record.
func (s *Store) Record(doc types.Document, assets []types.Asset) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT OR REPLACE INTO documents (id, title, revision, output_path, exported_at)
		 VALUES (?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, doc.Revision, doc.OutputPath, doc.ExportedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting document %s: %w", doc.ID, err)
	}

	if _, err := tx.Exec(`DELETE FROM assets WHERE document_id = ?`, doc.ID); err != nil {
		return fmt.Errorf("clearing assets of %s: %w", doc.ID, err)
	}
	for _, a := range assets {
		_, err := tx.Exec(
			`INSERT INTO assets (token, kind, local_path, document_id) VALUES (?, ?, ?, ?)`,
			a.Token, a.Kind, a.LocalPath, doc.ID,
		)
		if err != nil {
			return fmt.Errorf("inserting asset %s: %w", a.Token, err)
		}
	}

	return tx.Commit()
}

// List returns all recorded documents, most recent export first.
func (s *Store) List() ([]types.Document, error) {
	rows, err := s.db.Query(
		`SELECT id, title, revision, output_path, exported_at
		 FROM documents ORDER BY exported_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Get returns one document and its assets by ID.
func (s *Store) Get(id string) (types.Document, []types.Asset, error) {
	row := s.db.QueryRow(
		`SELECT id, title, revision, output_path, exported_at FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return types.Document{}, nil, fmt.Errorf("document %s not in manifest", id)
	}
	if err != nil {
		return types.Document{}, nil, err
	}

	rows, err := s.db.Query(
		`SELECT token, kind, local_path, document_id FROM assets WHERE document_id = ? ORDER BY token`, id)
	if err != nil {
		return types.Document{}, nil, fmt.Errorf("querying assets of %s: %w", id, err)
	}
	defer rows.Close()

	var assets []types.Asset
	for rows.Next() {
		var a types.Asset
		if err := rows.Scan(&a.Token, &a.Kind, &a.LocalPath, &a.DocumentID); err != nil {
			return types.Document{}, nil, fmt.Errorf("scanning asset: %w", err)
		}
		assets = append(assets, a)
	}
	return doc, assets, rows.Err()
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (types.Document, error) {
	var doc types.Document
	var exportedAt string
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Revision, &doc.OutputPath, &exportedAt); err != nil {
		if err == sql.ErrNoRows {
			return doc, err
		}
		return doc, fmt.Errorf("scanning document: %w", err)
	}
	ts, err := time.Parse(time.RFC3339, exportedAt)
	if err != nil {
		return doc, fmt.Errorf("parsing exported_at %q: %w", exportedAt, err)
	}
	doc.ExportedAt = ts
	return doc, nil
}
