package sequence

import (
	"context"
	"iter"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the number of words indexed per goroutine task.
const DefaultBatchSize = 4096

// ParallelOptions configures IndexParallel.
type ParallelOptions struct {
	// Workers is the maximum number of batches indexed at once.
	// Values <= 1 index sequentially.
	Workers int

	// BatchSize is the number of words per batch (default: DefaultBatchSize).
	BatchSize int
}

// IndexParallel indexes words in batches on up to opts.Workers goroutines.
// Each batch keeps its position in the stream, so the merged result matches
// a sequential ProcessAll over the same input, first-word records included.
// The stream is read on the calling goroutine; at most Workers batches are
// held in memory at a time.
func IndexParallel(ctx context.Context, words iter.Seq[string], opts ParallelOptions) (*Indexer, error) {
	size := opts.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	if opts.Workers <= 1 {
		return indexSequential(ctx, words, size)
	}

	var (
		mu     sync.Mutex
		result = New()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	pos := 0
	batches := 0
	batch := make([]string, 0, size)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		b, base := batch, pos-len(batch)
		batch = make([]string, 0, size)
		batches++

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			partial := newIndexerAt(base)
			for _, w := range b {
				partial.ProcessWord(w)
			}

			mu.Lock()
			result.Merge(partial)
			mu.Unlock()
			return nil
		})
	}

	for w := range words {
		if gctx.Err() != nil {
			break
		}
		batch = append(batch, w)
		pos++
		if len(batch) == size {
			flush()
		}
	}
	flush()

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("parallel_index_complete",
		slog.Int("words", result.Words()),
		slog.Int("batches", batches),
		slog.Int("workers", opts.Workers),
		slog.Int("sequences", result.Len()))

	return result, nil
}

// indexSequential runs ProcessWord over the stream, checking ctx between
// batches of size words.
func indexSequential(ctx context.Context, words iter.Seq[string], size int) (*Indexer, error) {
	ix := New()
	n := 0
	for w := range words {
		if n%size == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		ix.ProcessWord(w)
		n++
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ix, nil
}
