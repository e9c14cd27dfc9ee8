// Package pipeline runs a word list through the sequence indexer and
// writes the unique sequence report.
package pipeline

import (
	"context"
	"io"
	"log/slog"
	"time"

	wserrors "github.com/Aman-CERP/wordseq/internal/errors"
	"github.com/Aman-CERP/wordseq/internal/report"
	"github.com/Aman-CERP/wordseq/internal/sequence"
	"github.com/Aman-CERP/wordseq/internal/wordsource"
)

// Options configures a pipeline run.
type Options struct {
	// Input is the word list path; wordsource.StdinPath reads stdin.
	Input string

	// Sequences and Words are the aligned report files.
	Sequences string
	Words     string

	// Database, if set, also receives the report as SQLite.
	Database string

	// JSON, if set, receives the report as JSON instead of the text files.
	JSON io.Writer

	Workers   int
	BatchSize int
}

// Result summarizes a completed run.
type Result struct {
	Input     string        `json:"input"`
	Words     int           `json:"words"`
	Sequences int           `json:"sequences"`
	Unique    int           `json:"unique"`
	Elapsed   time.Duration `json:"elapsed_ns"`

	// Output locations; empty when not written.
	SequencesPath string `json:"sequences_path,omitempty"`
	WordsPath     string `json:"words_path,omitempty"`
	Database      string `json:"database,omitempty"`
}

// Index reads the word list at input and returns the populated indexer.
func Index(ctx context.Context, input string, workers, batchSize int) (*sequence.Indexer, error) {
	src, err := wordsource.Open(input)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ix, err := sequence.IndexParallel(ctx, src.All(), sequence.ParallelOptions{
		Workers:   workers,
		BatchSize: batchSize,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, wserrors.InternalError("indexing failed", err)
	}
	if err := src.Err(); err != nil {
		return nil, err
	}
	return ix, nil
}

// Run executes source -> indexer -> sorted report -> sinks.
func Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	slog.Info("pipeline_start",
		slog.String("input", opts.Input),
		slog.Int("workers", opts.Workers))

	ix, err := Index(ctx, opts.Input, opts.Workers, opts.BatchSize)
	if err != nil {
		return nil, err
	}

	pairs := ix.SortedReport()
	res := &Result{
		Input:     opts.Input,
		Words:     ix.Words(),
		Sequences: ix.Len(),
		Unique:    len(pairs),
	}

	if opts.JSON != nil {
		if err := report.WriteJSON(opts.JSON, pairs); err != nil {
			return nil, err
		}
	} else {
		if err := report.WriteFiles(ctx, opts.Sequences, opts.Words, pairs); err != nil {
			return nil, err
		}
		res.SequencesPath = opts.Sequences
		res.WordsPath = opts.Words
	}

	if opts.Database != "" {
		if err := report.ExportSQLite(ctx, opts.Database, pairs); err != nil {
			return nil, err
		}
		res.Database = opts.Database
	}

	res.Elapsed = time.Since(start)

	slog.Info("pipeline_complete",
		slog.String("input", opts.Input),
		slog.Int("words", res.Words),
		slog.Int("sequences", res.Sequences),
		slog.Int("unique", res.Unique),
		slog.Duration("elapsed", res.Elapsed))

	return res, nil
}
