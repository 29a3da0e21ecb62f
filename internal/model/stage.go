package model

// Stage identifies a pipeline stage.
// This allows progress reporting and logging to name the phase a run is in.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons. The String() method provides human-readable
// output when needed.
type Stage int

const (
	// StageTokenize reads corpus files and turns them into token streams,
	// consulting the token cache before invoking the tokenizer.
	StageTokenize Stage = iota

	// StageReadings fills missing readings from tokenizer data.
	StageReadings

	// StageDefinitions resolves one dictionary definition per lemma.
	StageDefinitions

	// StageScore computes the normalized study-priority score.
	StageScore

	// StageFilter drops entries below the frequency threshold and
	// entries that fail re-admission.
	StageFilter

	// StageExport serializes the word table to the configured formats.
	StageExport

	// StageAnkiSync pushes the word table to AnkiConnect.
	StageAnkiSync
)

// String returns a human-readable representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageTokenize:
		return "tokenize"
	case StageReadings:
		return "readings"
	case StageDefinitions:
		return "definitions"
	case StageScore:
		return "score"
	case StageFilter:
		return "filter"
	case StageExport:
		return "export"
	case StageAnkiSync:
		return "anki-sync"
	default:
		return "unknown"
	}
}
