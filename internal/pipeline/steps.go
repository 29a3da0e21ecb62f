package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tangomine/tangomine/internal/aggregate"
	"github.com/tangomine/tangomine/internal/anki"
	"github.com/tangomine/tangomine/internal/config"
	"github.com/tangomine/tangomine/internal/corpus"
	"github.com/tangomine/tangomine/internal/database"
	"github.com/tangomine/tangomine/internal/jmdict"
	"github.com/tangomine/tangomine/internal/jptext"
	"github.com/tangomine/tangomine/internal/log"
	"github.com/tangomine/tangomine/internal/model"
	"github.com/tangomine/tangomine/internal/report"
	"github.com/tangomine/tangomine/internal/tokencache"
	"github.com/tangomine/tangomine/internal/tokenizer"
)

// TokenizeStep reads the corpus, tokenizes every file, and aggregates
// the token streams into the word table. The token cache is consulted
// per file before the tokenizer runs.
//
// Design decision: Tokenization and aggregation live in one step because
// the FirstIndex contract requires consuming token streams strictly in
// sorted path order. Splitting them would force the full token streams
// of all files to be held in memory between steps.
type TokenizeStep struct {
	progressEmitter

	// tok turns text into token streams on cache misses.
	tok *tokenizer.Tokenizer

	// cache is the content-addressed token cache.
	cache *tokencache.Cache

	// tag overrides the per-file source tag when non-empty.
	tag string

	// minSentenceLen is the global minimum example-sentence length.
	minSentenceLen int

	// overrides holds per-tag source settings from the config file.
	// May be nil.
	overrides *config.File

	// logger for structured logging.
	logger *slog.Logger
}

// TokenizeStepOption configures a TokenizeStep.
type TokenizeStepOption func(*TokenizeStep)

// WithTokenizeTag forces one source tag for every corpus file,
// replacing the tags derived from file names.
func WithTokenizeTag(tag string) TokenizeStepOption {
	return func(s *TokenizeStep) {
		s.tag = tag
	}
}

// WithTokenizeMinSentenceLength sets the global minimum sentence length.
func WithTokenizeMinSentenceLength(n int) TokenizeStepOption {
	return func(s *TokenizeStep) {
		if n >= 1 {
			s.minSentenceLen = n
		}
	}
}

// WithTokenizeOverrides supplies per-tag source overrides from the
// config file (minimum sentence length, extra tags).
func WithTokenizeOverrides(file *config.File) TokenizeStepOption {
	return func(s *TokenizeStep) {
		s.overrides = file
	}
}

// WithTokenizeLogger sets a custom logger for the tokenize step.
func WithTokenizeLogger(logger *slog.Logger) TokenizeStepOption {
	return func(s *TokenizeStep) {
		s.logger = logger
	}
}

// NewTokenizeStep creates a new tokenize step. The tokenizer and cache
// must share the same fingerprint; the cache enforces this by keying
// entries under it.
func NewTokenizeStep(tok *tokenizer.Tokenizer, cache *tokencache.Cache, opts ...TokenizeStepOption) *TokenizeStep {
	s := &TokenizeStep{
		tok:            tok,
		cache:          cache,
		minSentenceLen: config.DefaultMinSentenceLength,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *TokenizeStep) Name() string {
	return model.StageTokenize.String()
}

// Do executes the tokenize step. Files are processed in sorted path
// order; a file that cannot be read or parsed is skipped with a
// warning, never aborting the run.
func (s *TokenizeStep) Do(ctx context.Context, art *Artifact) error {
	rep := art.Report

	sources, err := corpus.Collect(rep.CorpusPath)
	if err != nil {
		return fmt.Errorf("collect corpus: %w", err)
	}

	agg := aggregate.New(rep.Words,
		aggregate.WithLogger(s.logger),
		aggregate.WithMinSentenceLen(s.minSentenceLen),
	)

	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.emit(model.StageTokenize, i+1, len(sources), src.Origin)

		tokens, fromCache, err := s.fileTokens(src)
		if err != nil {
			s.logger.Warn("skipping file",
				"path", src.Path,
				"error", err,
			)
			rep.SkippedFiles++
			continue
		}

		tag := src.Tag
		if s.tag != "" {
			tag = s.tag
		}

		agg.SetMinSentenceLen(s.minSentenceLength(tag))
		agg.Aggregate(tokens, tag, src.Origin)

		rep.Files++
		if fromCache {
			rep.CacheHits++
		} else {
			rep.CacheMisses++
		}
	}

	rep.TokenCount = agg.Ordinal()
	s.applyExtraTags(rep.Words)

	if err := s.cache.FlushMtimeIndex(); err != nil {
		s.logger.Warn("flushing mtime index failed", "error", err)
	}

	return nil
}

// fileTokens returns the token stream for one source, serving from the
// cache when the file's modification time matches a recorded entry.
func (s *TokenizeStep) fileTokens(src corpus.Source) ([]model.Token, bool, error) {
	info, err := os.Stat(src.Path)
	if err != nil {
		return nil, false, fmt.Errorf("stat source: %w", err)
	}
	mtimeNs := info.ModTime().UnixNano()

	if key, ok := s.cache.HashByMtime(src.Path, mtimeNs); ok {
		if entry, ok := s.cache.LoadByHash(key); ok {
			return entry.Tokens, true, nil
		}
	}

	text, err := corpus.Load(src)
	if err != nil {
		return nil, false, err
	}

	tokens := s.tok.Tokenize(text)

	// A failed cache write costs re-tokenization next run, nothing more.
	if _, err := s.cache.PutByMtime(src.Path, mtimeNs, text, tokens); err != nil {
		s.logger.Debug("cache write failed", "path", src.Path, "error", err)
	}

	return tokens, false, nil
}

// minSentenceLength resolves the effective minimum sentence length for
// a source tag.
func (s *TokenizeStep) minSentenceLength(tag string) int {
	if ov := s.sourceOverride(tag); ov.MinSentenceLength > 0 {
		return ov.MinSentenceLength
	}
	return s.minSentenceLen
}

// sourceOverride returns the per-tag override, or the zero value when
// no config file was supplied.
func (s *TokenizeStep) sourceOverride(tag string) config.SourceConfig {
	if s.overrides == nil {
		return config.SourceConfig{}
	}
	return s.overrides.GetSourceConfig(tag)
}

// applyExtraTags appends the configured extra tags to every entry that
// carries a tag with an override. The tag list is copied first because
// AddTag grows the same slice being ranged over.
func (s *TokenizeStep) applyExtraTags(table *model.WordTable) {
	if s.overrides == nil {
		return
	}

	for _, entry := range table.Sorted() {
		tags := make([]string, len(entry.Tags))
		copy(tags, entry.Tags)
		for _, tag := range tags {
			for _, extra := range s.sourceOverride(tag).ExtraTags {
				entry.AddTag(extra)
			}
		}
	}
}

// ReadingsStep fills in readings for entries the aggregation pass left
// without one. The lemma itself is re-tokenized; dictionary forms
// usually resolve to a single token whose reading the tokenizer knows.
//
// Design decision: This runs before the definitions stage so the
// dictionary only has to cover the remaining gaps, keeping readings
// consistent with how the word was actually analyzed in context.
type ReadingsStep struct {
	progressEmitter

	// tok provides readings for lemmas.
	tok *tokenizer.Tokenizer

	// logger for structured logging.
	logger *slog.Logger
}

// ReadingsStepOption configures a ReadingsStep.
type ReadingsStepOption func(*ReadingsStep)

// WithReadingsLogger sets a custom logger for the readings step.
func WithReadingsLogger(logger *slog.Logger) ReadingsStepOption {
	return func(s *ReadingsStep) {
		s.logger = logger
	}
}

// NewReadingsStep creates a new readings step.
func NewReadingsStep(tok *tokenizer.Tokenizer, opts ...ReadingsStepOption) *ReadingsStep {
	s := &ReadingsStep{
		tok:    tok,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ReadingsStep) Name() string {
	return model.StageReadings.String()
}

// Do executes the readings step.
func (s *ReadingsStep) Do(ctx context.Context, art *Artifact) error {
	words := art.Report.Words.Sorted()
	for i, w := range words {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.emit(model.StageReadings, i+1, len(words), w.Lemma)

		if w.Reading != "" {
			continue
		}
		if reading := s.readingFor(w.Lemma); reading != "" {
			w.Reading = reading
		}
	}
	return nil
}

// readingFor derives a hiragana reading by tokenizing the lemma and
// joining the per-token readings. Tokens without a reading contribute
// their surface, converted from katakana where applicable.
func (s *ReadingsStep) readingFor(lemma string) string {
	var b strings.Builder
	for _, t := range s.tok.Tokenize(lemma) {
		if t.Reading != "" {
			b.WriteString(t.Reading)
			continue
		}
		b.WriteString(jptext.KataToHira(t.Surface))
	}
	return b.String()
}

// DefinitionsStep resolves one dictionary definition per lemma and
// drops entries the dictionary cannot confidently define. The optional
// definitions database short-circuits repeat lookups across runs.
//
// Design decision: Entries without a definition are removed rather than
// exported blank because a flashcard without a meaning is not study
// material; the word usually is a name, a fragment, or tokenizer noise
// the admission filter could not catch.
type DefinitionsStep struct {
	progressEmitter

	// dict is the loaded dictionary.
	dict *jmdict.Dict

	// db caches resolved definitions across runs. May be nil.
	db *database.DefinitionDB

	// logger for structured logging.
	logger *slog.Logger
}

// DefinitionsStepOption configures a DefinitionsStep.
type DefinitionsStepOption func(*DefinitionsStep)

// WithDefinitionsDB attaches a persistent definitions cache.
func WithDefinitionsDB(db *database.DefinitionDB) DefinitionsStepOption {
	return func(s *DefinitionsStep) {
		s.db = db
	}
}

// WithDefinitionsLogger sets a custom logger for the definitions step.
func WithDefinitionsLogger(logger *slog.Logger) DefinitionsStepOption {
	return func(s *DefinitionsStep) {
		s.logger = logger
	}
}

// NewDefinitionsStep creates a new definitions step.
func NewDefinitionsStep(dict *jmdict.Dict, opts ...DefinitionsStepOption) *DefinitionsStep {
	s := &DefinitionsStep{
		dict:   dict,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *DefinitionsStep) Name() string {
	return model.StageDefinitions.String()
}

// Do executes the definitions step. Lemmas are visited in FirstIndex
// order so progress output and cache population are deterministic.
func (s *DefinitionsStep) Do(ctx context.Context, art *Artifact) error {
	words := art.Report.Words.Sorted()
	cached, dropped := 0, 0

	for i, w := range words {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.emit(model.StageDefinitions, i+1, len(words), w.Lemma)

		def, fromCache := s.resolve(w.Lemma)
		if fromCache {
			cached++
		}

		if def.Definition == "" {
			art.Report.Words.Delete(w.Lemma)
			dropped++
			continue
		}

		w.Definition = def.Definition
		if w.Reading == "" && def.Reading != "" {
			w.Reading = def.Reading
		}
	}

	s.logger.Debug("definitions resolved",
		"words", len(words),
		"cached", cached,
		"dropped", dropped,
	)

	if s.db != nil {
		if err := s.db.Flush(ctx); err != nil {
			s.logger.Warn("flushing definitions cache failed", "error", err)
		}
	}

	return nil
}

// resolve returns the definition for lemma, consulting the database
// first. Misses are resolved through the dictionary and written back,
// including empty results: a negative cache entry saves the same
// lookup next run.
func (s *DefinitionsStep) resolve(lemma string) (database.Definition, bool) {
	if s.db != nil {
		if def, ok := s.db.Get(lemma); ok {
			return def, true
		}
	}

	definition, reading, _ := s.dict.BestDefinition(lemma)
	def := database.Definition{Definition: definition, Reading: reading}

	if s.db != nil {
		s.db.Put(lemma, def)
	}

	return def, false
}

// ScoreStep computes the normalized study-priority score for every
// entry in the table.
type ScoreStep struct {
	progressEmitter
}

// NewScoreStep creates a new score step.
func NewScoreStep() *ScoreStep {
	return &ScoreStep{}
}

// Name returns the step name.
func (s *ScoreStep) Name() string {
	return model.StageScore.String()
}

// Do executes the score step.
func (s *ScoreStep) Do(_ context.Context, art *Artifact) error {
	total := art.Report.Words.Len()
	aggregate.ScoreTable(art.Report.Words)
	s.emit(model.StageScore, total, total, "")
	return nil
}

// FilterStep removes entries below the frequency threshold and entries
// that no longer pass admission.
type FilterStep struct {
	progressEmitter

	// minFrequency is the occurrence floor an entry must meet.
	minFrequency int
}

// NewFilterStep creates a new filter step.
func NewFilterStep(minFrequency int) *FilterStep {
	return &FilterStep{minFrequency: minFrequency}
}

// Name returns the step name.
func (s *FilterStep) Name() string {
	return model.StageFilter.String()
}

// Do executes the filter step.
func (s *FilterStep) Do(_ context.Context, art *Artifact) error {
	before := art.Report.Words.Len()
	removed := aggregate.FilterTable(art.Report.Words, s.minFrequency)
	art.Report.FilteredWords = removed
	s.emit(model.StageFilter, before, before,
		fmt.Sprintf("%d kept, %d removed", before-removed, removed))
	return nil
}

// ExportStep serializes the word table to the configured formats, one
// file per format in the output directory.
type ExportStep struct {
	progressEmitter

	// formats lists the formats to write (csv, tsv, json, markdown).
	formats []string

	// outputDir receives the written files.
	outputDir string

	// version is stamped into the JSON report envelope.
	version string

	// logger for structured logging.
	logger *slog.Logger
}

// ExportStepOption configures an ExportStep.
type ExportStepOption func(*ExportStep)

// WithExportFormats sets the output formats.
func WithExportFormats(formats []string) ExportStepOption {
	return func(s *ExportStep) {
		if len(formats) > 0 {
			s.formats = formats
		}
	}
}

// WithExportDir sets the output directory.
func WithExportDir(dir string) ExportStepOption {
	return func(s *ExportStep) {
		if dir != "" {
			s.outputDir = dir
		}
	}
}

// WithExportVersion sets the version string for JSON output.
func WithExportVersion(version string) ExportStepOption {
	return func(s *ExportStep) {
		s.version = version
	}
}

// WithExportLogger sets a custom logger for the export step.
func WithExportLogger(logger *slog.Logger) ExportStepOption {
	return func(s *ExportStep) {
		s.logger = logger
	}
}

// NewExportStep creates a new export step.
func NewExportStep(opts ...ExportStepOption) *ExportStep {
	s := &ExportStep{
		formats:   []string{config.DefaultFormat},
		outputDir: config.DefaultOutputDir,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ExportStep) Name() string {
	return model.StageExport.String()
}

// exportFileNames maps formats to the file written in the output
// directory.
var exportFileNames = map[string]string{
	"csv":      "words.csv",
	"tsv":      "words.tsv",
	"json":     "words.json",
	"markdown": "words.md",
}

// Do executes the export step. A failure on one format aborts the step;
// already written files are left in place.
func (s *ExportStep) Do(ctx context.Context, art *Artifact) error {
	if err := os.MkdirAll(s.outputDir, 0750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for i, format := range s.formats {
		if err := ctx.Err(); err != nil {
			return err
		}

		name, ok := exportFileNames[format]
		if !ok {
			return fmt.Errorf("%w: %q", config.ErrInvalidFormat, format)
		}
		path := filepath.Join(s.outputDir, name)

		s.emit(model.StageExport, i+1, len(s.formats), name)

		if err := s.writeFormat(format, path, art.Report); err != nil {
			return fmt.Errorf("write %s report: %w", format, err)
		}

		s.logger.Info("report written", "format", format, "path", path)
	}

	return nil
}

// writeFormat writes the report in one format to path.
func (s *ExportStep) writeFormat(format, path string, rep *model.MiningReport) error {
	f, err := os.Create(path) //nolint:gosec // Path is user-configured output
	if err != nil {
		return err
	}

	var w report.Writer
	switch format {
	case "csv":
		w = report.NewCSVWriter(f)
	case "tsv":
		w = report.NewCSVWriter(f, report.WithDelimiter('\t'))
	case "json":
		w = report.NewFullJSONWriter(f, s.version, report.WithPrettyPrint())
	case "markdown":
		w = report.NewMarkdownWriter(f)
	}

	if _, err := w.Write(rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// AnkiSyncStep pushes the final word table to AnkiConnect.
type AnkiSyncStep struct {
	progressEmitter

	// syncer performs the reconciliation against the running Anki.
	syncer *anki.Syncer

	// deck is the target deck name.
	deck string

	// noteModel is the note type for mined notes.
	noteModel string
}

// NewAnkiSyncStep creates a new Anki sync step.
func NewAnkiSyncStep(syncer *anki.Syncer, deck, noteModel string) *AnkiSyncStep {
	return &AnkiSyncStep{
		syncer:    syncer,
		deck:      deck,
		noteModel: noteModel,
	}
}

// Name returns the step name.
func (s *AnkiSyncStep) Name() string {
	return model.StageAnkiSync.String()
}

// Do executes the Anki sync step.
func (s *AnkiSyncStep) Do(ctx context.Context, art *Artifact) error {
	total := art.Report.Words.Len()
	s.emit(model.StageAnkiSync, 0, total, "syncing with Anki")

	res, err := s.syncer.Sync(ctx, art.Report.Words, s.deck, s.noteModel)
	if err != nil {
		return fmt.Errorf("anki sync: %w", err)
	}

	art.Report.AnkiAdded = res.Added
	art.Report.AnkiUpdated = res.Updated
	art.Report.AnkiDeleted = res.Deleted

	s.emit(model.StageAnkiSync, total, total,
		fmt.Sprintf("%d added, %d updated, %d deleted", res.Added, res.Updated, res.Deleted))
	return nil
}

// Deps bundles the long-lived components the default pipeline steps
// share. The caller constructs them once per process; construction is
// expensive (dictionary load, tokenizer dictionary load).
type Deps struct {
	// Tokenizer turns text into token streams.
	Tokenizer *tokenizer.Tokenizer

	// Cache is the content-addressed token cache.
	Cache *tokencache.Cache

	// Dict resolves readings and definitions. Nil skips the readings
	// and definitions stages entirely.
	Dict *jmdict.Dict

	// DB is the persistent definitions cache. May be nil.
	DB *database.DefinitionDB

	// Anki pushes the mined table to AnkiConnect. Nil skips the sync
	// stage.
	Anki *anki.Syncer
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// MinFrequency is the occurrence floor for the filter stage.
	MinFrequency int

	// MinSentenceLength is the global minimum example-sentence length.
	MinSentenceLength int

	// Tag forces one source tag for all files when non-empty.
	Tag string

	// Formats lists the export formats.
	Formats []string

	// OutputDir receives the exported files.
	OutputDir string

	// Version is stamped into JSON exports.
	Version string

	// AnkiDeck is the target deck for the sync stage.
	AnkiDeck string

	// AnkiModel is the note type for the sync stage.
	AnkiModel string

	// Overrides holds per-tag source settings. May be nil.
	Overrides *config.File

	// Logger is threaded into every step, wrapped with a per-step
	// component attribute. Nil leaves the steps on slog.Default().
	Logger *slog.Logger
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineMinFrequency sets the filter stage's frequency floor.
func WithPipelineMinFrequency(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MinFrequency = n
	}
}

// WithPipelineMinSentenceLength sets the minimum sentence length.
func WithPipelineMinSentenceLength(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MinSentenceLength = n
	}
}

// WithPipelineTag forces one source tag for every file.
func WithPipelineTag(tag string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Tag = tag
	}
}

// WithPipelineFormats sets the export formats.
func WithPipelineFormats(formats []string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Formats = formats
	}
}

// WithPipelineOutputDir sets the export directory.
func WithPipelineOutputDir(dir string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.OutputDir = dir
	}
}

// WithPipelineVersion sets the version string stamped into JSON output.
func WithPipelineVersion(version string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Version = version
	}
}

// WithPipelineAnkiTarget sets the deck and note model for the sync
// stage.
func WithPipelineAnkiTarget(deck, noteModel string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.AnkiDeck = deck
		c.AnkiModel = noteModel
	}
}

// WithPipelineOverrides supplies per-tag source overrides.
func WithPipelineOverrides(file *config.File) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Overrides = file
	}
}

// WithPipelineStepLogger threads a logger into every step.
func WithPipelineStepLogger(logger *slog.Logger) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Logger = logger
	}
}

// DefaultPipeline creates a pipeline with the standard mining stages.
// Tokenize always runs; readings and definitions require Dict; the sync
// stage requires Anki.
//
// Design decision: We provide a default pipeline because:
// 1. Most runs want the full chain
// 2. Reduces boilerplate in the CLI
// 3. Ensures consistent stage ordering
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineMinFrequency, etc).
func DefaultPipeline(deps Deps, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		MinFrequency:      config.DefaultMinFrequency,
		MinSentenceLength: config.DefaultMinSentenceLength,
		Formats:           []string{config.DefaultFormat},
		OutputDir:         config.DefaultOutputDir,
		AnkiDeck:          config.DefaultAnkiDeck,
		AnkiModel:         config.DefaultAnkiModel,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	stepLogger := func(component string) *slog.Logger {
		if cfg.Logger == nil {
			return slog.Default()
		}
		return log.WithComponent(cfg.Logger, component)
	}

	tokenizeOpts := []TokenizeStepOption{
		WithTokenizeMinSentenceLength(cfg.MinSentenceLength),
		WithTokenizeLogger(stepLogger(model.StageTokenize.String())),
	}
	if cfg.Tag != "" {
		tokenizeOpts = append(tokenizeOpts, WithTokenizeTag(cfg.Tag))
	}
	if cfg.Overrides != nil {
		tokenizeOpts = append(tokenizeOpts, WithTokenizeOverrides(cfg.Overrides))
	}
	p.AddStep(NewTokenizeStep(deps.Tokenizer, deps.Cache, tokenizeOpts...))

	if deps.Dict != nil {
		p.AddStep(NewReadingsStep(deps.Tokenizer,
			WithReadingsLogger(stepLogger(model.StageReadings.String())),
		))

		definitionsOpts := []DefinitionsStepOption{
			WithDefinitionsLogger(stepLogger(model.StageDefinitions.String())),
		}
		if deps.DB != nil {
			definitionsOpts = append(definitionsOpts, WithDefinitionsDB(deps.DB))
		}
		p.AddStep(NewDefinitionsStep(deps.Dict, definitionsOpts...))
	}

	p.AddSteps(
		NewScoreStep(),
		NewFilterStep(cfg.MinFrequency),
		NewExportStep(
			WithExportFormats(cfg.Formats),
			WithExportDir(cfg.OutputDir),
			WithExportVersion(cfg.Version),
			WithExportLogger(stepLogger(model.StageExport.String())),
		),
	)

	if deps.Anki != nil {
		p.AddStep(NewAnkiSyncStep(deps.Anki, cfg.AnkiDeck, cfg.AnkiModel))
	}

	return p
}
