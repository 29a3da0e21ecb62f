package jmdict

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tangomine/tangomine/internal/jptext"
)

// TieBreak selects how SelectBest resolves multiple entries sharing
// the maximum priority score.
type TieBreak int

const (
	// TieBreakAll returns every maximum-score entry in input order.
	TieBreakAll TieBreak = iota

	// TieBreakDefs returns the single maximum-score entry with the most
	// senses; the first encountered wins further ties.
	TieBreakDefs
)

// String returns the tie-break mode name.
func (t TieBreak) String() string {
	switch t {
	case TieBreakAll:
		return "all"
	case TieBreakDefs:
		return "defs"
	default:
		return "unknown"
	}
}

// priorityBonus maps the fixed JMdict priority tags to their score
// contribution: two tiers each of headword (ichi), newspaper corpus
// (news), special vocabulary (spec) and loanword (gai) markers. These
// are secondary to the nfNN corpus ranks, which score through formScore.
var priorityBonus = map[string]int{
	"ichi1": 1000,
	"news1": 800,
	"spec1": 600,
	"ichi2": 500,
	"news2": 400,
	"spec2": 300,
	"gai1":  100,
	"gai2":  50,
}

// SelectBest scores the candidate entries for word by the priority tags
// on their matching forms and returns the top scorers according to
// mode. The result is empty, with a nil error, when no entry carries a
// positive priority signal: an unranked word has no confident best
// entry, and guessing among equals would pick an arbitrary sense.
func (d *Dict) SelectBest(entries []*Entry, word string, mode TieBreak) ([]*Entry, error) {
	if mode != TieBreakAll && mode != TieBreakDefs {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTieBreak, int(mode))
	}
	if len(entries) == 0 {
		return nil, nil
	}

	kanaOnly := jptext.IsKanaOnly(word)

	scores := make([]int, len(entries))
	maxScore := 0
	for i, entry := range entries {
		scores[i] = d.entryScore(entry, word, kanaOnly)
		if scores[i] > maxScore {
			maxScore = scores[i]
		}
	}
	if maxScore <= 0 {
		return nil, nil
	}

	top := make([]*Entry, 0, len(entries))
	for i, entry := range entries {
		if scores[i] == maxScore {
			top = append(top, entry)
		}
	}
	if mode == TieBreakAll {
		return top, nil
	}

	best := top[0]
	for _, entry := range top[1:] {
		if len(entry.Senses) > len(best.Senses) {
			best = entry
		}
	}
	return []*Entry{best}, nil
}

// EntryScore returns the priority score SelectBest assigns to entry for
// word. Exposed so diagnostic output can show why a candidate won;
// ranking itself always goes through SelectBest.
func (d *Dict) EntryScore(entry *Entry, word string) int {
	return d.entryScore(entry, word, jptext.IsKanaOnly(word))
}

// entryScore sums the scores of every form whose literal text equals
// word. Kanji forms are skipped for kana-only lookups: a kana lookup
// hitting a kana-spelled kanji element is a cross-script collision,
// not a signal for this word. When no form matches at all, the first
// reading form is scored as a stand-in so the entry still competes.
func (d *Dict) entryScore(e *Entry, word string, kanaOnly bool) int {
	score := 0
	matched := false

	if !kanaOnly {
		for _, f := range e.KanjiForms {
			if f.Text == word {
				score += formScore(f.Priority)
				matched = true
			}
		}
	}
	for _, f := range e.ReadingForms {
		if f.Text == word {
			score += formScore(f.Priority)
			matched = true
		}
	}

	if !matched {
		d.logger.Debug("no dictionary form matches lookup word, scoring first reading",
			slog.String("word", word))
		if len(e.ReadingForms) > 0 {
			score = formScore(e.ReadingForms[0].Priority)
		}
	}
	return score
}

// formScore sums a single form's priority-tag contributions: an nfNN
// corpus-rank tag contributes (50-NN)*100 so lower ranks score higher,
// fixed-table tags contribute their bonus, anything else contributes
// nothing.
func formScore(tags []string) int {
	score := 0
	for _, tag := range tags {
		if n, ok := nfRank(tag); ok {
			score += (50 - n) * 100
			continue
		}
		score += priorityBonus[tag]
	}
	return score
}

// nfRank parses an nfNN corpus-frequency tag into its numeric rank.
func nfRank(tag string) (int, bool) {
	if !strings.HasPrefix(tag, "nf") {
		return 0, false
	}
	n, err := strconv.Atoi(tag[len("nf"):])
	if err != nil {
		return 0, false
	}
	return n, true
}
