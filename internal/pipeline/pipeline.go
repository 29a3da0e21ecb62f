package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/tangomine/tangomine/internal/model"
)

// Artifact is the unit of work passed through the pipeline.
// It wraps the report every stage enriches, plus the token cache
// directory for the run, which steps thread through unchanged.
type Artifact struct {
	// Report accumulates mining results across stages.
	Report *model.MiningReport

	// CacheDir is the token cache directory for this run. Steps treat
	// it as read-only context.
	CacheDir string
}

// NewArtifact wraps a report for pipeline execution.
func NewArtifact(report *model.MiningReport, cacheDir string) *Artifact {
	return &Artifact{Report: report, CacheDir: cacheDir}
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the shared
// artifact enriched by previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., priority, dependencies)
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the artifact to modify.
	// Returns an error if the step fails critically; non-critical errors
	// should be recorded in the report and return nil.
	Do(ctx context.Context, art *Artifact) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// ProgressFunc receives user-facing progress updates from steps.
// Stage is the step name, current and total frame the step's own unit
// of work (files, words), and message adds a short human detail.
type ProgressFunc func(stage string, current, total int, message string)

// progressAware is implemented by steps that emit progress updates.
// AddStep wires the pipeline's progress callback into such steps.
type progressAware interface {
	setProgress(fn ProgressFunc)
}

// progressEmitter provides progress reporting to steps that embed it.
// The zero value is usable and emits nothing.
type progressEmitter struct {
	fn ProgressFunc
}

// setProgress installs the callback. Called by Pipeline.AddStep.
func (p *progressEmitter) setProgress(fn ProgressFunc) {
	p.fn = fn
}

// emit forwards one progress update if a callback is installed.
func (p *progressEmitter) emit(stage model.Stage, current, total int, message string) {
	if p.fn != nil {
		p.fn(stage.String(), current, total, message)
	}
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool

	// progress is forwarded into every progress-aware step.
	progress ProgressFunc
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, a default logger is created.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. Failed steps are logged, but subsequent
// steps still execute.
//
// Design decision: This option exists because some failures (e.g., an
// unreachable AnkiConnect) shouldn't discard the mined table that
// earlier stages already produced. However, the default is to stop on
// error because early failures often indicate fundamental problems
// (e.g., the corpus path does not exist).
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// WithProgress installs a callback for user-facing progress updates.
// Steps report their own units of work through it; the callback runs
// on the pipeline goroutine.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
	}

	// Apply options
	for _, opt := range opts {
		opt(p)
	}

	// Set default logger if not provided
	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline. Steps are executed in the
// order they are added. Progress-aware steps receive the pipeline's
// progress callback here.
func (p *Pipeline) AddStep(step Step) {
	if pa, ok := step.(progressAware); ok {
		pa.setProgress(p.progress)
	}
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	for _, step := range steps {
		p.AddStep(step)
	}
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps handle their own per-file and per-word loop
// cancellation. This allows graceful cleanup between steps while still
// respecting cancellation.
//
// Returns the first error encountered if continueOnError is false,
// or nil if all steps complete. The report's Elapsed field is set in
// every case, including cancellation.
func (p *Pipeline) Execute(ctx context.Context, art *Artifact) error {
	report := art.Report
	defer func() {
		report.Elapsed = time.Since(report.ScannedAt)
	}()

	for _, step := range p.steps {
		// Check for cancellation before starting each step
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
			// Continue with execution
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"corpus", report.CorpusPath,
		)

		// Execute the step
		if err := step.Do(ctx, art); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"corpus", report.CorpusPath,
				"error", err,
			)

			// Stop or continue based on configuration
			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"corpus", report.CorpusPath,
			)
		}

		// Track which steps were performed
		report.StagesRun = append(report.StagesRun, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
