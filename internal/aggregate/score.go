package aggregate

import (
	"math"

	"github.com/tangomine/tangomine/internal/jptext"
	"github.com/tangomine/tangomine/internal/model"
)

const (
	// scoreFrequencyWeight is the share of the score driven by how
	// often a word occurs.
	scoreFrequencyWeight = 0.7

	// scoreIndexWeight is the share driven by how early a word first
	// occurs. Early words are what a reader meets first, so they get a
	// modest boost over equally frequent late arrivals.
	scoreIndexWeight = 0.3

	// scoreScale spreads scores over a 0-1000 range for readability.
	scoreScale = 1000
)

// ScoreTable computes the normalized study-priority score for every
// entry: a weighted blend of relative frequency and relative first
// occurrence, scaled and rounded to two decimals. An empty table is a
// no-op.
func ScoreTable(table *model.WordTable) {
	maxFreq := table.MaxFrequency()
	maxIndex := table.MaxFirstIndex()
	if maxFreq == 0 || maxIndex == 0 {
		return
	}

	for _, entry := range table.Sorted() {
		freqPart := float64(entry.Frequency) / float64(maxFreq)
		indexPart := 1 - float64(entry.FirstIndex)/float64(maxIndex)
		score := (scoreFrequencyWeight*freqPart + scoreIndexWeight*indexPart) * scoreScale
		entry.Score = math.Round(score*100) / 100
	}
}

// FilterTable removes entries below minFrequency and entries whose
// lemma no longer passes admission, returning the number removed.
// Entries are marked Invalid before removal so shared references
// observe the decision.
func FilterTable(table *model.WordTable, minFrequency int) int {
	removed := 0
	for _, entry := range table.Sorted() {
		if entry.Frequency >= minFrequency && jptext.IsMineable(entry.Lemma, entry.PartsOfSpeech) {
			continue
		}
		entry.Invalid = true
		table.Delete(entry.Lemma)
		removed++
	}
	return removed
}
