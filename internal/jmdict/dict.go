package jmdict

import (
	"log/slog"

	"github.com/tangomine/tangomine/internal/jptext"
)

// Dict is an in-memory dictionary indexed by every kanji and reading
// literal.
type Dict struct {
	// index maps each form literal to the entries carrying it. The
	// same entry appears under all of its forms.
	index map[string][]*Entry

	// count is the number of loaded entries, kept for reporting.
	count int

	// logger records load statistics and scoring fallbacks.
	logger *slog.Logger
}

// Option configures a Dict.
type Option func(*Dict)

// WithLogger sets the logger for dictionary operations.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dict) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// newDict builds the lookup index over entries.
func newDict(entries []*Entry, opts ...Option) *Dict {
	d := &Dict{
		index:  make(map[string][]*Entry),
		count:  len(entries),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, e := range entries {
		for _, f := range e.KanjiForms {
			d.index[f.Text] = append(d.index[f.Text], e)
		}
		for _, f := range e.ReadingForms {
			d.index[f.Text] = append(d.index[f.Text], e)
		}
	}
	return d
}

// Len returns the number of loaded entries.
func (d *Dict) Len() int {
	return d.count
}

// Lookup returns every entry carrying word as a kanji or reading
// literal, in dictionary order, or nil when the word is absent. The
// returned slice is shared and must not be modified.
func (d *Dict) Lookup(word string) []*Entry {
	return d.index[word]
}

// BestDefinition resolves word to a rendered definition and a hiragana
// reading in one step: Lookup, SelectBest with TieBreakDefs, render.
// ok is false when the word is absent, no entry carries a positive
// priority signal, or the winning entry has no rendered glosses.
func (d *Dict) BestDefinition(word string) (definition, reading string, ok bool) {
	entries := d.Lookup(word)
	if len(entries) == 0 {
		return "", "", false
	}

	best, err := d.SelectBest(entries, word, TieBreakDefs)
	if err != nil || len(best) == 0 {
		return "", "", false
	}

	definition = best[0].RenderDefinition()
	if definition == "" {
		return "", "", false
	}
	return definition, jptext.KataToHira(best[0].FirstReading()), true
}
