// Package sqlitesink loads parsed records into a SQLite database.
//
// Sequences (FASTA and FASTQ) go to the "sequences" table and GTF entries to
// "annotations", each row tagged with the input it came from so several
// files can share one database.
//
// Build modes:
//   - Default: pure Go modernc.org/sqlite
//   - -tags cgo_sqlite (CGO_ENABLED=1): mattn/go-sqlite3
package sqlitesink

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"genoparse/core/record"
)

const schema = `
CREATE TABLE IF NOT EXISTS sequences (
	input    TEXT NOT NULL,
	format   TEXT NOT NULL,
	id       TEXT NOT NULL,
	name     TEXT NOT NULL,
	sequence TEXT NOT NULL,
	length   INTEGER NOT NULL,
	gc       REAL NOT NULL,
	quality  TEXT
);
CREATE TABLE IF NOT EXISTS annotations (
	input         TEXT NOT NULL,
	contig        TEXT NOT NULL,
	source        TEXT NOT NULL,
	feature       TEXT NOT NULL,
	start         INTEGER NOT NULL,
	end_pos       INTEGER NOT NULL,
	score         TEXT NOT NULL,
	strand        TEXT NOT NULL,
	frame         TEXT NOT NULL,
	gene_id       TEXT NOT NULL,
	transcript_id TEXT NOT NULL,
	attributes    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sequences_name ON sequences(name);
CREATE INDEX IF NOT EXISTS idx_annotations_gene ON annotations(gene_id);
`

// DriverType returns "purego" or "cgo" depending on the build.
func DriverType() string { return driverType }

// Sink batches inserts into one transaction per Commit.
type Sink struct {
	db      *sql.DB
	tx      *sql.Tx
	seqStmt *sql.Stmt
	annStmt *sql.Stmt
	rows    int
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Sink, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Sink{db: db}, nil
}

// DB exposes the handle for queries.
func (s *Sink) DB() *sql.DB { return s.db }

// Rows returns the number of rows inserted so far.
func (s *Sink) Rows() int { return s.rows }

func (s *Sink) begin() error {
	if s.tx != nil {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	seq, err := tx.Prepare(`INSERT INTO sequences (input, format, id, name, sequence, length, gc, quality) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare sequences: %w", err)
	}
	ann, err := tx.Prepare(`INSERT INTO annotations (input, contig, source, feature, start, end_pos, score, strand, frame, gene_id, transcript_id, attributes) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare annotations: %w", err)
	}
	s.tx, s.seqStmt, s.annStmt = tx, seq, ann
	return nil
}

type attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Add inserts one record parsed from input.
func (s *Sink) Add(input string, rec any) error {
	if err := s.begin(); err != nil {
		return err
	}
	var err error
	switch r := rec.(type) {
	case record.Sequence:
		_, err = s.seqStmt.Exec(input, "fasta", r.ID, r.Name(), r.Seq, r.Length, r.GC, nil)
	case record.Fastq:
		_, err = s.seqStmt.Exec(input, "fastq", r.ID, r.Name(), r.Seq, r.Length, r.GC, r.Quality)
	case record.Annotation:
		pairs := r.Attributes.Pairs()
		attrs := make([]attr, len(pairs))
		for i, kv := range pairs {
			attrs[i] = attr(kv)
		}
		js, jerr := json.Marshal(attrs)
		if jerr != nil {
			return fmt.Errorf("encode attributes: %w", jerr)
		}
		_, err = s.annStmt.Exec(input, r.Contig, r.Source, r.Feature, r.Start, r.End,
			r.Score, r.Strand.String(), r.Frame, r.GeneID, r.TranscriptID, string(js))
	default:
		return fmt.Errorf("sqlitesink: unsupported record type %T", rec)
	}
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	s.rows++
	return nil
}

// Commit makes the pending inserts durable.
func (s *Sink) Commit() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx, s.seqStmt, s.annStmt = nil, nil, nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close rolls back anything uncommitted and closes the database.
func (s *Sink) Close() error {
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	return s.db.Close()
}
