package tokenizer

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	kagome "github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/tangomine/tangomine/internal/jptext"
	"github.com/tangomine/tangomine/internal/model"
)

// fingerprint identifies the tokenizer configuration: kagome v2 with the
// IPA dictionary plus this package's postprocessing. Cache entries
// produced under a different fingerprint are never served.
const fingerprint = "kagome-v2/ipa+postproc-v1"

// IPA feature indices used by the adapter. Features 0-3 form the
// part-of-speech path; 6 is the dictionary form; 7 is the katakana
// reading.
const (
	featurePOSEnd   = 4
	featureBaseForm = 6
	featureReading  = 7
)

// Tokenizer wraps a kagome analyzer instance.
//
// Construction loads the full IPA dictionary and is expensive, so one
// instance should be shared per process. The underlying analyzer is
// safe for concurrent use.
type Tokenizer struct {
	t *kagome.Tokenizer
}

// New creates a tokenizer backed by the bundled IPA dictionary.
func New() (*Tokenizer, error) {
	t, err := kagome.New(ipa.Dict(), kagome.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("initialize kagome tokenizer: %w", err)
	}
	return &Tokenizer{t: t}, nil
}

// Fingerprint returns the identifier binding cached tokenization
// results to this tokenizer configuration.
func (t *Tokenizer) Fingerprint() string {
	return fingerprint
}

// Tokenize analyzes text into an ordered token sequence.
// Dummy and whitespace-only tokens are dropped; punctuation tokens are
// kept so downstream sentence segmentation sees sentence-ending marks.
func (t *Tokenizer) Tokenize(text string) []model.Token {
	raw := t.t.Tokenize(text)
	tokens := make([]model.Token, 0, len(raw))

	for _, token := range raw {
		if token.Class == kagome.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		features := token.Features()

		lemma := token.Surface
		if len(features) > featureBaseForm && features[featureBaseForm] != "*" {
			lemma = features[featureBaseForm]
		}

		reading := ""
		if len(features) > featureReading && features[featureReading] != "*" {
			reading = jptext.KataToHira(features[featureReading])
		}

		pos := make([]string, 0, featurePOSEnd)
		for i := 0; i < featurePOSEnd && i < len(features); i++ {
			if features[i] == "*" {
				continue
			}
			pos = append(pos, features[i])
		}

		tokens = append(tokens, model.Token{
			Surface:       token.Surface,
			Lemma:         lemma,
			Reading:       reading,
			PartsOfSpeech: pos,
		})
	}

	return tokens
}
