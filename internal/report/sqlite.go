package report

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	wserrors "github.com/Aman-CERP/wordseq/internal/errors"
	"github.com/Aman-CERP/wordseq/internal/sequence"
)

const schema = `
CREATE TABLE IF NOT EXISTS unique_sequences (
	position INTEGER PRIMARY KEY,
	sequence TEXT NOT NULL UNIQUE,
	word     TEXT NOT NULL
)`

// ExportSQLite replaces the contents of the unique_sequences table in the
// database at path with pairs. position is the 0-based report line, so the
// table preserves the alignment of the text outputs.
func ExportSQLite(ctx context.Context, path string, pairs []sequence.Pair) error {
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return exportErr(path, "failed to create schema", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return exportErr(path, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM unique_sequences"); err != nil {
		return exportErr(path, "failed to clear previous report", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO unique_sequences (position, sequence, word) VALUES (?, ?, ?)")
	if err != nil {
		return exportErr(path, "failed to prepare insert", err)
	}
	defer stmt.Close()

	for i, p := range pairs {
		if _, err := stmt.ExecContext(ctx, i, p.Sequence, p.Word); err != nil {
			return exportErr(path, fmt.Sprintf("failed to insert %q", p.Sequence), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return exportErr(path, "failed to commit", err)
	}

	slog.Debug("report_exported",
		slog.String("database", path),
		slog.Int("entries", len(pairs)))
	return nil
}

// LoadSQLite reads a report previously written by ExportSQLite, in order.
func LoadSQLite(ctx context.Context, path string) ([]sequence.Pair, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, exportErr(path, "database not found", err)
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT sequence, word FROM unique_sequences ORDER BY position")
	if err != nil {
		return nil, exportErr(path, "failed to query report", err)
	}
	defer rows.Close()

	var pairs []sequence.Pair
	for rows.Next() {
		var p sequence.Pair
		if err := rows.Scan(&p.Sequence, &p.Word); err != nil {
			return nil, exportErr(path, "failed to scan row", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, exportErr(path, "failed to read rows", err)
	}
	return pairs, nil
}

func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, exportErr(path, "failed to create directory", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, exportErr(path, "failed to open database", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func exportErr(path, msg string, cause error) error {
	return wserrors.New(wserrors.ErrCodeExportFailed, fmt.Sprintf("%s: %s", path, msg), cause).
		WithDetail("database", path)
}
