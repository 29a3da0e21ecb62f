package jmdict

import (
	"fmt"
	"strings"
)

// Form is one kanji or reading representation of an entry together
// with its priority tags.
type Form struct {
	// Text is the literal form as written in the dictionary.
	Text string

	// Priority holds the form's frequency-priority tags (ichi1, news2,
	// nf07, ...). Tags outside the priority vocabulary are kept but
	// never contribute to a score.
	Priority []string
}

// Sense is one meaning of an entry.
type Sense struct {
	// Glosses are the English renderings of this sense.
	Glosses []string

	// PartsOfSpeech carries the dictionary's grammatical markers for
	// this sense. Informational only; disambiguation ignores them.
	PartsOfSpeech []string
}

// Entry is a dictionary entry, the unit of disambiguation. Entries are
// shared across index keys and must be treated as read-only.
type Entry struct {
	// KanjiForms lists the kanji spellings, empty for kana-only words.
	KanjiForms []Form

	// ReadingForms lists the kana readings; JMdict guarantees at least
	// one per entry.
	ReadingForms []Form

	// Senses lists the entry's meanings in dictionary order.
	Senses []Sense
}

// FirstReading returns the entry's first reading form, or the empty
// string when the entry has none.
func (e *Entry) FirstReading() string {
	if len(e.ReadingForms) == 0 {
		return ""
	}
	return e.ReadingForms[0].Text
}

// RenderDefinition flattens the senses into a single study-card
// string: glosses joined by "; ", each sense prefixed with its 1-based
// ordinal when the entry has more than one sense, and senses joined by
// "<br>". A sense without glosses keeps its ordinal but renders
// nothing.
func (e *Entry) RenderDefinition() string {
	numbered := len(e.Senses) > 1
	rendered := make([]string, 0, len(e.Senses))
	for i, sense := range e.Senses {
		if len(sense.Glosses) == 0 {
			continue
		}
		text := strings.Join(sense.Glosses, "; ")
		if numbered {
			text = fmt.Sprintf("%d. %s", i+1, text)
		}
		rendered = append(rendered, text)
	}
	return strings.Join(rendered, "<br>")
}
