// Package pipeline provides a framework for executing mining stages in
// sequence.
//
// The pipeline pattern is used to process a corpus through multiple
// stages: tokenization, reading and definition resolution, scoring,
// filtering, and export. Each stage is implemented as a Step that
// receives the shared artifact and enriches the report inside it.
//
// Design decision: We use a pipeline pattern instead of direct function
// calls because:
// 1. It allows easy addition/removal of stages without modifying core logic
// 2. It provides consistent error handling and logging across stages
// 3. It supports cancellation via context for long-running corpora
// 4. It gives progress reporting one uniform path to the terminal
//
// The package also provides a concurrent cache warmer that pre-tokenizes
// corpus files with bounded parallelism before the sequential pass runs.
package pipeline
