package anki

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/tangomine/tangomine/internal/model"
)

// Field names of the target note model. The mined statistics map onto
// the jp.takoboto note layout.
const (
	fieldJapanese            = "Japanese"
	fieldReading             = "Reading"
	fieldMeaning             = "Meaning"
	fieldPosition            = "Position"
	fieldFrequency           = "Frequency"
	fieldFrequencyNormalized = "FrequencyNormalized"
	fieldSentence            = "Sentence"
)

// comparedFields drive the dirty check for existing notes. The Japanese
// field is the lookup key and never compared.
var comparedFields = []string{
	fieldReading,
	fieldMeaning,
	fieldPosition,
	fieldFrequency,
	fieldFrequencyNormalized,
	fieldSentence,
}

// Syncer reconciles a mined word table with an Anki deck.
//
// Design decision: We diff against the existing notes rather than
// recreating the deck because:
//  1. Review history lives on the note; delete-and-readd would reset
//     every card's scheduling
//  2. Most runs change a handful of words in a large deck
//  3. Round trips are the bottleneck, and a diff ships as a few
//     batched calls
type Syncer struct {
	// client performs the AnkiConnect calls.
	client *Client

	// logger records sync-level diagnostics.
	logger *slog.Logger
}

// NewSyncer creates a Syncer on top of an AnkiConnect client.
// The syncer logs through the client's logger.
func NewSyncer(client *Client) *Syncer {
	return &Syncer{client: client, logger: client.logger}
}

// SyncResult summarizes the note operations one sync performed.
type SyncResult struct {
	// Added is the number of notes created.
	Added int

	// Updated is the number of notes whose fields or tags changed.
	Updated int

	// Deleted is the number of obsolete notes removed.
	Deleted int
}

// Sync makes the notes of the given model in the given deck match the
// word table: notes for lemmas no longer in the table are deleted,
// notes whose rendered fields differ are updated (with missing tags
// added), and lemmas without a note are created.
func (s *Syncer) Sync(ctx context.Context, table *model.WordTable, deck, noteModel string) (SyncResult, error) {
	var result SyncResult

	query := fmt.Sprintf("deck:%q note:%q", deck, noteModel)
	ids, err := s.client.FindNotes(ctx, query)
	if err != nil {
		return result, err
	}

	infos, err := s.client.NotesInfo(ctx, ids)
	if err != nil {
		return result, err
	}

	existing := make(map[string]NoteInfo, len(infos))
	for _, info := range infos {
		existing[info.Fields[fieldJapanese].Value] = info
	}

	words := table.Sorted()
	desired := make(map[string]struct{}, len(words))
	for _, w := range words {
		desired[w.Lemma] = struct{}{}
	}

	var obsolete []int64
	for lemma, info := range existing {
		if _, ok := desired[lemma]; !ok {
			obsolete = append(obsolete, info.NoteID)
		}
	}
	// Map iteration order is random; sorted ids keep delete batches stable.
	sort.Slice(obsolete, func(i, j int) bool { return obsolete[i] < obsolete[j] })

	if err := s.client.DeleteNotes(ctx, obsolete); err != nil {
		return result, err
	}
	result.Deleted = len(obsolete)

	var (
		updates []Action
		adds    []Note
	)
	for _, w := range words {
		fields := noteFields(w)

		info, ok := existing[w.Lemma]
		if !ok {
			adds = append(adds, Note{
				DeckName:  deck,
				ModelName: noteModel,
				Fields:    fields,
				Tags:      w.SortedTags(),
				Options:   &NoteOptions{AllowDuplicate: false},
			})
			continue
		}

		dirty := fieldsDiffer(info, fields)
		if dirty {
			updates = append(updates, Action{
				Action: "updateNoteFields",
				Params: updateNoteParams{Note: noteUpdate{ID: info.NoteID, Fields: fields}},
			})
		}

		missing := missingTags(info.Tags, w.SortedTags())
		if len(missing) > 0 {
			updates = append(updates, Action{
				Action: "addTags",
				Params: addTagsParams{Notes: []int64{info.NoteID}, Tags: strings.Join(missing, " ")},
			})
		}

		if dirty || len(missing) > 0 {
			result.Updated++
		}
	}

	if err := s.client.Multi(ctx, updates); err != nil {
		return result, err
	}

	added, err := s.client.AddNotes(ctx, adds)
	if err != nil {
		return result, err
	}
	result.Added = added

	s.logger.Info("anki sync complete",
		"added", result.Added,
		"updated", result.Updated,
		"deleted", result.Deleted)

	return result, nil
}

// noteUpdate is the note payload of an updateNoteFields action.
type noteUpdate struct {
	ID     int64             `json:"id"`
	Fields map[string]string `json:"fields"`
}

// updateNoteParams are the parameters of an updateNoteFields action.
type updateNoteParams struct {
	Note noteUpdate `json:"note"`
}

// addTagsParams are the parameters of an addTags action. Tags is a
// space-separated list, following Anki's tag syntax.
type addTagsParams struct {
	Notes []int64 `json:"notes"`
	Tags  string  `json:"tags"`
}

// noteFields renders a word table entry into the note's field map.
func noteFields(w *model.WordStats) map[string]string {
	return map[string]string{
		fieldJapanese:            w.Lemma,
		fieldReading:             w.Reading,
		fieldMeaning:             w.Definition,
		fieldPosition:            strconv.Itoa(w.FirstIndex),
		fieldFrequency:           strconv.Itoa(w.Frequency),
		fieldFrequencyNormalized: strconv.FormatFloat(w.Score, 'f', -1, 64),
		fieldSentence:            renderSentences(w),
	}
}

// renderSentences joins the example sentences for the Sentence field,
// wrapping each recorded surface form in <b> so the card shows the word
// as it actually appeared.
func renderSentences(w *model.WordStats) string {
	if len(w.Sentences) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(w.Sentences))
	for _, s := range w.Sentences {
		text := s.Text
		if s.Surface != "" {
			text = strings.ReplaceAll(text, s.Surface, "<b>"+s.Surface+"</b>")
		}
		rendered = append(rendered, text)
	}

	return strings.Join(rendered, "<br><br>")
}

// fieldsDiffer reports whether any compared note field deviates from
// the freshly rendered value.
func fieldsDiffer(info NoteInfo, fields map[string]string) bool {
	for _, name := range comparedFields {
		if info.Fields[name].Value != fields[name] {
			return true
		}
	}
	return false
}

// missingTags returns the desired tags absent from the note, in desired
// order.
func missingTags(existing, desired []string) []string {
	have := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		have[t] = struct{}{}
	}

	var missing []string
	for _, t := range desired {
		if _, ok := have[t]; !ok {
			missing = append(missing, t)
		}
	}
	return missing
}
