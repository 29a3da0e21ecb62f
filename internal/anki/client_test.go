package anki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// decodedRequest mirrors the call envelope for server-side assertions.
type decodedRequest struct {
	Action  string          `json:"action"`
	Version int             `json:"version"`
	Params  json.RawMessage `json:"params"`
}

func decodeRequest(t *testing.T, r *http.Request) decodedRequest {
	t.Helper()

	var req decodedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Errorf("failed to decode request body: %v", err)
	}
	return req
}

func TestClientVersion(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json content type, got %q", ct)
		}

		req := decodeRequest(t, r)
		if req.Action != "version" {
			t.Errorf("expected action %q, got %q", "version", req.Action)
		}
		if req.Version != 6 {
			t.Errorf("expected version 6, got %d", req.Version)
		}

		fmt.Fprint(w, `{"result": 6, "error": null}`)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 6 {
		t.Errorf("expected version 6, got %d", version)
	}
}

func TestClientRemoteError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"result": null, "error": "deck was not found: Mined"}`)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.FindNotes(context.Background(), `deck:"Mined"`)
	if !errors.Is(err, ErrAnkiConnect) {
		t.Fatalf("expected ErrAnkiConnect, got %v", err)
	}
	if !strings.Contains(err.Error(), "deck was not found") {
		t.Errorf("expected remote message in error, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "findNotes") {
		t.Errorf("expected action name in error, got %q", err.Error())
	}
}

func TestClientUnexpectedStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	_, err := client.Version(context.Background())
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("expected ErrUnexpectedStatus, got %v", err)
	}
}

func TestClientUnreachableEndpoint(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	client := NewClient(WithBaseURL(server.URL))

	if _, err := client.Version(context.Background()); err == nil {
		t.Error("expected an error for an unreachable endpoint")
	}
}

func TestFindNotesPassesQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		if req.Action != "findNotes" {
			t.Errorf("expected action %q, got %q", "findNotes", req.Action)
		}

		var params struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			t.Errorf("failed to decode params: %v", err)
		}
		if params.Query != `deck:"Mined" note:"jp.takoboto"` {
			t.Errorf("unexpected query %q", params.Query)
		}

		fmt.Fprint(w, `{"result": [1, 2, 3], "error": null}`)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	ids, err := client.FindNotes(context.Background(), `deck:"Mined" note:"jp.takoboto"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Errorf("expected ids [1 2 3], got %v", ids)
	}
}

func TestNotesInfoBatches(t *testing.T) {
	t.Parallel()

	var batchSizes []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)

		var params struct {
			Notes []int64 `json:"notes"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			t.Errorf("failed to decode params: %v", err)
		}
		batchSizes = append(batchSizes, len(params.Notes))

		infos := make([]NoteInfo, 0, len(params.Notes))
		for _, id := range params.Notes {
			infos = append(infos, NoteInfo{NoteID: id})
		}
		result, err := json.Marshal(infos)
		if err != nil {
			t.Errorf("failed to encode result: %v", err)
		}
		fmt.Fprintf(w, `{"result": %s, "error": null}`, result)
	}))
	defer server.Close()

	ids := make([]int64, 2500)
	for i := range ids {
		ids[i] = int64(i + 1)
	}

	client := NewClient(WithBaseURL(server.URL))

	infos, err := client.NotesInfo(context.Background(), ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(infos) != 2500 {
		t.Errorf("expected 2500 notes, got %d", len(infos))
	}
	wantBatches := []int{1000, 1000, 500}
	if len(batchSizes) != len(wantBatches) {
		t.Fatalf("expected %d requests, got %d", len(wantBatches), len(batchSizes))
	}
	for i, want := range wantBatches {
		if batchSizes[i] != want {
			t.Errorf("batch %d: expected size %d, got %d", i, want, batchSizes[i])
		}
	}
	if infos[0].NoteID != 1 || infos[2499].NoteID != 2500 {
		t.Errorf("expected notes in request order, got first %d last %d",
			infos[0].NoteID, infos[2499].NoteID)
	}
}

func TestAddNotesCountsCreated(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		if req.Action != "addNotes" {
			t.Errorf("expected action %q, got %q", "addNotes", req.Action)
		}
		// Middle note refused as a duplicate.
		fmt.Fprint(w, `{"result": [1496198395707, null, 1496198395708], "error": null}`)
	}))
	defer server.Close()

	notes := []Note{
		{DeckName: "Mined", ModelName: "jp.takoboto", Fields: map[string]string{fieldJapanese: "学校"}},
		{DeckName: "Mined", ModelName: "jp.takoboto", Fields: map[string]string{fieldJapanese: "先生"}},
		{DeckName: "Mined", ModelName: "jp.takoboto", Fields: map[string]string{fieldJapanese: "行く"}},
	}

	client := NewClient(WithBaseURL(server.URL))

	added, err := client.AddNotes(context.Background(), notes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added != 2 {
		t.Errorf("expected 2 notes added, got %d", added)
	}
}

func TestWriteBatching(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		total int
		call  func(ctx context.Context, c *Client, n int) error
		want  []int
	}{
		{
			name:  "addNotes splits at fifty",
			total: 120,
			call: func(ctx context.Context, c *Client, n int) error {
				notes := make([]Note, n)
				_, err := c.AddNotes(ctx, notes)
				return err
			},
			want: []int{50, 50, 20},
		},
		{
			name:  "deleteNotes splits at fifty",
			total: 101,
			call: func(ctx context.Context, c *Client, n int) error {
				ids := make([]int64, n)
				return c.DeleteNotes(ctx, ids)
			},
			want: []int{50, 50, 1},
		},
		{
			name:  "multi splits at fifty",
			total: 51,
			call: func(ctx context.Context, c *Client, n int) error {
				actions := make([]Action, n)
				return c.Multi(ctx, actions)
			},
			want: []int{50, 1},
		},
		{
			name:  "empty input issues no requests",
			total: 0,
			call: func(ctx context.Context, c *Client, _ int) error {
				return c.DeleteNotes(ctx, nil)
			},
			want: []int{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var batchSizes []int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				req := decodeRequest(t, r)

				var params struct {
					Notes   []json.RawMessage `json:"notes"`
					Actions []json.RawMessage `json:"actions"`
				}
				if err := json.Unmarshal(req.Params, &params); err != nil {
					t.Errorf("failed to decode params: %v", err)
				}
				size := len(params.Notes)
				if req.Action == "multi" {
					size = len(params.Actions)
				}
				batchSizes = append(batchSizes, size)

				fmt.Fprint(w, `{"result": null, "error": null}`)
			}))
			defer server.Close()

			client := NewClient(WithBaseURL(server.URL))

			if err := tc.call(context.Background(), client, tc.total); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(batchSizes) != len(tc.want) {
				t.Fatalf("expected %d requests, got %d", len(tc.want), len(batchSizes))
			}
			for i, want := range tc.want {
				if batchSizes[i] != want {
					t.Errorf("batch %d: expected size %d, got %d", i, want, batchSizes[i])
				}
			}
		})
	}
}
