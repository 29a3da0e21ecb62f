package pipeline

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tangomine/tangomine/internal/corpus"
	"github.com/tangomine/tangomine/internal/tokencache"
	"github.com/tangomine/tangomine/internal/tokenizer"
	"golang.org/x/sync/errgroup"
)

// Warmer pre-tokenizes corpus files concurrently so the sequential
// aggregation pass that follows runs almost entirely from cache.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We warm the cache in parallel rather than making the
// tokenize step itself concurrent because aggregation must consume
// token streams strictly in sorted path order to keep FirstIndex
// deterministic. Workers only write content-addressed blobs, which is
// safe: distinct files land under distinct keys, and identical files
// write identical bytes. The mtime shortcut index is mutated only from
// the collection goroutine after all workers finish.
type Warmer struct {
	// tok is shared across workers; kagome tokenizers are safe for
	// concurrent use.
	tok *tokenizer.Tokenizer

	// cache is the content-addressed token cache.
	cache *tokencache.Cache

	// jobs is the maximum number of concurrent tokenizations.
	jobs int

	// logger is used for warmer-level logging.
	logger *slog.Logger
}

// WarmResult summarizes a warm-up pass.
type WarmResult struct {
	// Warmed is the number of files tokenized and written to the cache.
	Warmed int

	// Hits is the number of files already covered by the cache.
	Hits int

	// Failed is the number of files that could not be read or parsed.
	// Failures are logged and skipped; the sequential pass will report
	// them per file.
	Failed int
}

// WarmerOption configures a Warmer.
type WarmerOption func(*Warmer)

// WithWarmerLogger sets a custom logger for the warmer.
func WithWarmerLogger(logger *slog.Logger) WarmerOption {
	return func(w *Warmer) {
		w.logger = logger
	}
}

// WithWarmerJobs sets the maximum number of concurrent tokenizations.
// Default is 4 if not specified.
func WithWarmerJobs(n int) WarmerOption {
	return func(w *Warmer) {
		if n > 0 {
			w.jobs = n
		}
	}
}

// NewWarmer creates a new Warmer over a shared tokenizer and cache.
func NewWarmer(tok *tokenizer.Tokenizer, cache *tokencache.Cache, opts ...WarmerOption) *Warmer {
	w := &Warmer{
		tok:   tok,
		cache: cache,
		jobs:  4,
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = slog.Default()
	}

	return w
}

// warmRecord carries one worker's outcome back to the collection
// goroutine, which alone may touch the mtime index.
type warmRecord struct {
	path    string
	mtimeNs int64
	key     string
}

// Warm tokenizes every file under root into the cache with bounded
// parallelism. Per-file failures are counted, not fatal; the returned
// error reflects cancellation or an unreadable corpus root only.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each file gets its own goroutine, but only 'jobs' goroutines run
// simultaneously.
func (w *Warmer) Warm(ctx context.Context, root string) (WarmResult, error) {
	sources, err := corpus.Collect(root)
	if err != nil {
		return WarmResult{}, err
	}

	w.logger.Debug("starting cache warm-up",
		"files", len(sources),
		"jobs", w.jobs,
	)

	startTime := time.Now()

	var (
		mu      sync.Mutex
		result  WarmResult
		records []warmRecord
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.jobs)

	for _, src := range sources {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rec, hit, err := w.warmOne(src)
			mu.Lock()
			defer mu.Unlock()

			switch {
			case err != nil:
				w.logger.Warn("warm-up failed for file",
					"path", src.Path,
					"error", err,
				)
				result.Failed++
			case hit:
				result.Hits++
			default:
				result.Warmed++
				records = append(records, rec)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}

	// Single-threaded from here: record the shortcuts for everything
	// the workers wrote.
	for _, rec := range records {
		w.cache.RecordMtime(rec.path, rec.mtimeNs, rec.key)
	}
	if err := w.cache.FlushMtimeIndex(); err != nil {
		w.logger.Warn("flushing mtime index failed", "error", err)
	}

	w.logger.Debug("cache warm-up complete",
		"warmed", result.Warmed,
		"hits", result.Hits,
		"failed", result.Failed,
		"elapsed", time.Since(startTime),
	)

	return result, nil
}

// warmOne tokenizes a single file into the cache unless it is already
// covered. Only content-addressed writes happen here; the mtime
// shortcut is returned for the collection goroutine to record.
func (w *Warmer) warmOne(src corpus.Source) (warmRecord, bool, error) {
	info, err := os.Stat(src.Path)
	if err != nil {
		return warmRecord{}, false, err
	}
	mtimeNs := info.ModTime().UnixNano()

	if key, ok := w.cache.HashByMtime(src.Path, mtimeNs); ok {
		if _, ok := w.cache.LoadByHash(key); ok {
			return warmRecord{}, true, nil
		}
	}

	text, err := corpus.Load(src)
	if err != nil {
		return warmRecord{}, false, err
	}

	// The blob may already exist under this key when only the mtime
	// changed; Put is idempotent, and the shortcut still needs
	// recording.
	key, err := w.cache.Put(text, w.tok.Tokenize(text))
	if err != nil {
		return warmRecord{}, false, err
	}

	return warmRecord{path: src.Path, mtimeNs: mtimeNs, key: key}, false, nil
}
