package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultURL is the endpoint the AnkiConnect add-on listens on in a
// stock installation.
const DefaultURL = "http://127.0.0.1:8765"

// connectVersion is the AnkiConnect API version this client speaks.
const connectVersion = 6

const (
	// noteInfoBatchSize bounds the ids per notesInfo request. Whole-deck
	// fetches can cover tens of thousands of notes; one request would
	// stall Anki's UI thread for seconds.
	noteInfoBatchSize = 1000

	// writeBatchSize bounds the payload of mutating requests (addNotes,
	// deleteNotes, multi).
	writeBatchSize = 50

	// defaultTimeout is the per-request timeout. Every call is a
	// localhost round trip; anything slower means Anki is wedged.
	defaultTimeout = 10 * time.Second
)

// Client is an AnkiConnect HTTP client.
//
// Design decision: We wrap a shared http.Client in a struct rather than
// passing one on each call because:
//  1. Endpoint and timeout configuration should be consistent
//  2. Connection reuse works better with a shared client
//  3. Easier to test against an httptest server
type Client struct {
	// client is the underlying HTTP client.
	client *http.Client

	// url is the AnkiConnect endpoint.
	url string

	// logger records request-level diagnostics.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a non-default AnkiConnect endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.url = url
	}
}

// WithHTTPClient replaces the underlying HTTP client, e.g. to change
// the timeout or route through a test transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithLogger sets the logger for request diagnostics.
// A nil logger keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates an AnkiConnect client for the default local
// endpoint. Use WithBaseURL for a non-standard port.
func NewClient(opts ...Option) *Client {
	c := &Client{
		client: &http.Client{Timeout: defaultTimeout},
		url:    DefaultURL,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// request is the AnkiConnect call envelope.
type request struct {
	// Action is the AnkiConnect action name, e.g. "findNotes".
	Action string `json:"action"`

	// Version is the API version, always connectVersion.
	Version int `json:"version"`

	// Params carries the action-specific parameters.
	Params any `json:"params"`
}

// response is the AnkiConnect reply envelope.
type response struct {
	// Result holds the action-specific result, decoded by the caller.
	Result json.RawMessage `json:"result"`

	// Error is the remote error message, null on success.
	Error *string `json:"error"`
}

// Note is a note to create through addNotes.
type Note struct {
	// DeckName is the target deck.
	DeckName string `json:"deckName"` //nolint:tagliatelle // AnkiConnect wire field

	// ModelName is the note type whose fields are being filled.
	ModelName string `json:"modelName"` //nolint:tagliatelle // AnkiConnect wire field

	// Fields maps field names of the model to their values.
	Fields map[string]string `json:"fields"`

	// Tags are the note's tags.
	Tags []string `json:"tags"`

	// Options carries per-note creation options.
	Options *NoteOptions `json:"options,omitempty"`
}

// NoteOptions are per-note creation options.
type NoteOptions struct {
	// AllowDuplicate permits creating a note whose first field
	// duplicates an existing note. The syncer always sets false; the
	// diff already decided the note is new.
	AllowDuplicate bool `json:"allowDuplicate"` //nolint:tagliatelle // AnkiConnect wire field
}

// NoteInfo is an existing note as returned by notesInfo.
type NoteInfo struct {
	// NoteID is Anki's note identifier.
	NoteID int64 `json:"noteId"` //nolint:tagliatelle // AnkiConnect wire field

	// Tags are the note's current tags.
	Tags []string `json:"tags"`

	// Fields maps field names to their current values.
	Fields map[string]NoteField `json:"fields"`
}

// NoteField is one field value of an existing note.
type NoteField struct {
	// Value is the field's content.
	Value string `json:"value"`

	// Order is the field's position in the note model.
	Order int `json:"order"`
}

// Action is one entry in a multi batch.
type Action struct {
	// Action is the wrapped action name.
	Action string `json:"action"`

	// Params carries the wrapped action's parameters.
	Params any `json:"params"`
}

// invoke performs one AnkiConnect call. When result is non-nil the
// envelope's result field is decoded into it.
func (c *Client) invoke(ctx context.Context, action string, params, result any) error {
	if params == nil {
		params = struct{}{}
	}

	body, err := json.Marshal(request{Action: action, Version: connectVersion, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call ankiconnect %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s (%s)", ErrUnexpectedStatus, resp.Status, action)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", action, err)
	}

	var envelope response
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", action, err)
	}
	if envelope.Error != nil && *envelope.Error != "" {
		return fmt.Errorf("%w: %s: %s", ErrAnkiConnect, action, *envelope.Error)
	}

	if result != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", action, err)
		}
	}

	return nil
}

// Version returns the AnkiConnect API version the endpoint speaks.
// Useful as a reachability probe before starting a sync.
func (c *Client) Version(ctx context.Context) (int, error) {
	var version int
	if err := c.invoke(ctx, "version", nil, &version); err != nil {
		return 0, err
	}
	return version, nil
}

// FindNotes returns the ids of all notes matching an Anki search query.
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	params := struct {
		Query string `json:"query"`
	}{Query: query}

	var ids []int64
	if err := c.invoke(ctx, "findNotes", params, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// NotesInfo fetches note details for the given ids, batched internally.
func (c *Client) NotesInfo(ctx context.Context, ids []int64) ([]NoteInfo, error) {
	infos := make([]NoteInfo, 0, len(ids))

	for start := 0; start < len(ids); start += noteInfoBatchSize {
		end := start + noteInfoBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		params := struct {
			Notes []int64 `json:"notes"`
		}{Notes: ids[start:end]}

		var batch []NoteInfo
		if err := c.invoke(ctx, "notesInfo", params, &batch); err != nil {
			return nil, err
		}
		infos = append(infos, batch...)
	}

	return infos, nil
}

// AddNotes creates the given notes, batched internally, and returns how
// many were actually created. Notes Anki refuses (e.g. duplicates) come
// back as null ids and are not counted.
func (c *Client) AddNotes(ctx context.Context, notes []Note) (int, error) {
	added := 0

	for start := 0; start < len(notes); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(notes) {
			end = len(notes)
		}

		params := struct {
			Notes []Note `json:"notes"`
		}{Notes: notes[start:end]}

		var ids []*int64
		if err := c.invoke(ctx, "addNotes", params, &ids); err != nil {
			return added, err
		}
		for _, id := range ids {
			if id != nil {
				added++
			}
		}
	}

	return added, nil
}

// DeleteNotes removes the given notes, batched internally.
func (c *Client) DeleteNotes(ctx context.Context, ids []int64) error {
	for start := 0; start < len(ids); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		params := struct {
			Notes []int64 `json:"notes"`
		}{Notes: ids[start:end]}

		if err := c.invoke(ctx, "deleteNotes", params, nil); err != nil {
			return err
		}
	}

	return nil
}

// Multi executes the given actions through AnkiConnect's multi action,
// batched internally. Used to ship many small field and tag updates in
// few round trips.
func (c *Client) Multi(ctx context.Context, actions []Action) error {
	for start := 0; start < len(actions); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(actions) {
			end = len(actions)
		}

		params := struct {
			Actions []Action `json:"actions"`
		}{Actions: actions[start:end]}

		if err := c.invoke(ctx, "multi", params, nil); err != nil {
			return err
		}
	}

	return nil
}
