package jmdict

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Load reads a dictionary file and builds the lookup index. The format
// is detected from the first content byte: '<' means JMdict XML, '{'
// or '[' means jmdict-simplified JSON. Files ending in .gz are
// gunzipped transparently. A loading failure is fatal to the caller:
// without a dictionary the definitions stage cannot run.
func Load(path string, opts ...Option) (*Dict, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided dictionary path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress dictionary: %w", err)
		}
		defer gz.Close() //nolint:errcheck // Read-only stream
		r = gz
	}

	br := bufio.NewReaderSize(r, 1<<20)
	head, err := firstContentByte(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary header: %w", err)
	}

	var entries []*Entry
	switch head {
	case '<':
		entries, err = parseXML(br)
	case '{', '[':
		entries, err = parseJSON(br, head)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, err
	}

	d := newDict(entries, opts...)
	d.logger.Debug("dictionary loaded",
		slog.String("path", path),
		slog.Int("entries", d.Len()))
	return d, nil
}

// firstContentByte peeks past leading whitespace to the first
// meaningful byte without consuming it.
func firstContentByte(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			if err := br.UnreadByte(); err != nil {
				return 0, err
			}
			return b, nil
		}
	}
}

// xmlKanji mirrors a JMdict <k_ele> element.
type xmlKanji struct {
	Text     string   `xml:"keb"`
	Priority []string `xml:"ke_pri"`
}

// xmlReading mirrors a JMdict <r_ele> element.
type xmlReading struct {
	Text     string   `xml:"reb"`
	Priority []string `xml:"re_pri"`
}

// xmlSense mirrors a JMdict <sense> element.
type xmlSense struct {
	PartsOfSpeech []string `xml:"pos"`
	Glosses       []string `xml:"gloss"`
}

// xmlEntry mirrors a JMdict <entry> element.
type xmlEntry struct {
	Kanji    []xmlKanji   `xml:"k_ele"`
	Readings []xmlReading `xml:"r_ele"`
	Senses   []xmlSense   `xml:"sense"`
}

// parseXML streams <entry> elements one at a time so the full
// distribution never materializes as a document tree.
func parseXML(r io.Reader) ([]*Entry, error) {
	dec := xml.NewDecoder(r)
	// JMdict marks parts of speech with DTD entities (&v5s; and
	// friends). Non-strict mode passes unknown entities through as
	// literal text instead of failing the parse.
	dec.Strict = false

	var entries []*Entry
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse dictionary xml: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "entry" {
			continue
		}

		var raw xmlEntry
		if err := dec.DecodeElement(&raw, &start); err != nil {
			return nil, fmt.Errorf("failed to parse dictionary entry: %w", err)
		}
		entries = append(entries, raw.toEntry())
	}
	return entries, nil
}

// toEntry converts a decoded XML entry into the shared model.
func (x *xmlEntry) toEntry() *Entry {
	e := &Entry{
		KanjiForms:   make([]Form, 0, len(x.Kanji)),
		ReadingForms: make([]Form, 0, len(x.Readings)),
		Senses:       make([]Sense, 0, len(x.Senses)),
	}
	for _, k := range x.Kanji {
		e.KanjiForms = append(e.KanjiForms, Form{Text: k.Text, Priority: k.Priority})
	}
	for _, r := range x.Readings {
		e.ReadingForms = append(e.ReadingForms, Form{Text: r.Text, Priority: r.Priority})
	}
	for _, s := range x.Senses {
		e.Senses = append(e.Senses, Sense{Glosses: s.Glosses, PartsOfSpeech: s.PartsOfSpeech})
	}
	return e
}

// jsonForm mirrors a jmdict-simplified kanji or kana record.
type jsonForm struct {
	Text string   `json:"text"`
	Tags []string `json:"tags"`
}

// jsonGloss mirrors a jmdict-simplified gloss record.
type jsonGloss struct {
	Text string `json:"text"`
}

// jsonSense mirrors a jmdict-simplified sense record.
type jsonSense struct {
	PartOfSpeech []string    `json:"partOfSpeech"`
	Gloss        []jsonGloss `json:"gloss"`
}

// jsonWord mirrors a jmdict-simplified word record.
type jsonWord struct {
	Kanji []jsonForm  `json:"kanji"`
	Kana  []jsonForm  `json:"kana"`
	Sense []jsonSense `json:"sense"`
}

// parseJSON handles both jmdict-simplified layouts: the release object
// with a "words" array and a bare array of word records.
func parseJSON(r io.Reader, head byte) ([]*Entry, error) {
	dec := json.NewDecoder(r)

	var words []jsonWord
	if head == '{' {
		var wrapper struct {
			Words []jsonWord `json:"words"`
		}
		if err := dec.Decode(&wrapper); err != nil {
			return nil, fmt.Errorf("failed to parse dictionary json: %w", err)
		}
		words = wrapper.Words
	} else {
		if err := dec.Decode(&words); err != nil {
			return nil, fmt.Errorf("failed to parse dictionary json: %w", err)
		}
	}

	entries := make([]*Entry, 0, len(words))
	for i := range words {
		entries = append(entries, words[i].toEntry())
	}
	return entries, nil
}

// toEntry converts a decoded word record into the shared model.
func (w *jsonWord) toEntry() *Entry {
	e := &Entry{
		KanjiForms:   make([]Form, 0, len(w.Kanji)),
		ReadingForms: make([]Form, 0, len(w.Kana)),
		Senses:       make([]Sense, 0, len(w.Sense)),
	}
	for _, k := range w.Kanji {
		e.KanjiForms = append(e.KanjiForms, Form{Text: k.Text, Priority: k.Tags})
	}
	for _, k := range w.Kana {
		e.ReadingForms = append(e.ReadingForms, Form{Text: k.Text, Priority: k.Tags})
	}
	for _, s := range w.Sense {
		glosses := make([]string, 0, len(s.Gloss))
		for _, g := range s.Gloss {
			glosses = append(glosses, g.Text)
		}
		e.Senses = append(e.Senses, Sense{Glosses: glosses, PartsOfSpeech: s.PartOfSpeech})
	}
	return e
}
