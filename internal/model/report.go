package model

import "time"

// MiningReport is the main mining result structure.
// It is the artifact threaded through every pipeline stage: the tokenize
// stage fills the word table and counters, later stages enrich the table,
// and report writers consume the finished struct.
//
// Design decision: We use a single envelope struct rather than passing the
// word table alone because stages also need run metadata (counters, paths)
// and report writers want all of it in one place for serialization.
type MiningReport struct {
	// === Run Information ===

	// CorpusPath is the input file or directory the run mined.
	CorpusPath string `json:"corpus_path"`

	// ScannedAt is the timestamp when the run started.
	ScannedAt time.Time `json:"scanned_at"`

	// Elapsed is the total run duration, set when the pipeline finishes.
	Elapsed time.Duration `json:"elapsed_ns"`

	// === Corpus Statistics ===

	// Files is the number of source files processed.
	Files int `json:"files"`

	// SkippedFiles is the number of source files skipped due to
	// per-file errors. A skipped file never aborts the run.
	SkippedFiles int `json:"skipped_files"`

	// TokenCount is the total number of tokens consumed, including
	// tokens the admission filter rejected.
	TokenCount int `json:"token_count"`

	// CacheHits counts files whose tokenization was served from cache.
	CacheHits int `json:"cache_hits"`

	// CacheMisses counts files that required fresh tokenization.
	CacheMisses int `json:"cache_misses"`

	// === Results ===

	// Words is the per-lemma statistics table.
	Words *WordTable `json:"words"`

	// FilteredWords is the number of entries the filter stage removed.
	FilteredWords int `json:"filtered_words"`

	// StagesRun lists the names of stages that actually executed.
	StagesRun []string `json:"stages_run,omitempty"`

	// === Sync State ===

	// AnkiAdded, AnkiUpdated, AnkiDeleted count note operations
	// performed by the sync stage. All zero when sync is disabled.
	AnkiAdded   int `json:"anki_added,omitempty"`
	AnkiUpdated int `json:"anki_updated,omitempty"`
	AnkiDeleted int `json:"anki_deleted,omitempty"`
}

// NewMiningReport creates a new report for the given corpus path.
func NewMiningReport(corpusPath string) *MiningReport {
	return &MiningReport{
		CorpusPath: corpusPath,
		ScannedAt:  time.Now(),
		Words:      NewWordTable(),
	}
}

// CacheHitRate returns the fraction of files served from cache,
// or 0 when no files were processed.
func (r *MiningReport) CacheHitRate() float64 {
	total := r.CacheHits + r.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(r.CacheHits) / float64(total)
}
