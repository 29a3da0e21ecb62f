package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenCreatesDatabase(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache", "definitions.db")
	db, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer db.Close() //nolint:errcheck // test cleanup

	if db.Len() != 0 {
		t.Errorf("expected empty database, got %d definitions", db.Len())
	}
}

func TestOpenRequiresExistingDatabase(t *testing.T) {
	t.Parallel()

	opts := Options{CreateIfNotExists: false}
	if _, err := Open(filepath.Join(t.TempDir(), "absent.db"), opts); err == nil {
		t.Error("expected error for missing database without create option")
	}
}

func TestPutGetFlushRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "definitions.db")

	db, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	db.Put("行く", Definition{Definition: "1. to go<br>2. to proceed", Reading: "いく"})
	if err := db.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fresh handle must see the flushed row.
	reopened, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer reopened.Close() //nolint:errcheck // test cleanup

	def, ok := reopened.Get("行く")
	if !ok {
		t.Fatal("expected cached definition after reopen")
	}
	if def.Definition != "1. to go<br>2. to proceed" {
		t.Errorf("got %q, unexpected definition", def.Definition)
	}
	if def.Reading != "いく" {
		t.Errorf("got reading %q, expected %q", def.Reading, "いく")
	}
	if def.UpdatedAt.IsZero() {
		t.Error("expected a stored timestamp")
	}
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join(t.TempDir(), "definitions.db"), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer db.Close() //nolint:errcheck // test cleanup

	if _, ok := db.Get("未知"); ok {
		t.Error("expected miss for an unknown lemma")
	}
}

// TestNegativeCache tests that an empty definition is a first-class
// cached value, distinguishable from an absent lemma.
func TestNegativeCache(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "definitions.db")

	db, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	db.Put("しかし", Definition{})
	if err := db.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reopened, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer reopened.Close() //nolint:errcheck // test cleanup

	def, ok := reopened.Get("しかし")
	if !ok {
		t.Fatal("expected negative cache entry to persist")
	}
	if def.Definition != "" {
		t.Errorf("expected empty definition, got %q", def.Definition)
	}
}

func TestPutMarksDirtyOnlyOnChange(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join(t.TempDir(), "definitions.db"), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer db.Close() //nolint:errcheck // test cleanup

	db.Put("学校", Definition{Definition: "school", Reading: "がっこう"})
	if err := db.Flush(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(db.dirty) != 0 {
		t.Fatalf("expected clean dirty set after flush, got %d", len(db.dirty))
	}

	// Re-putting the identical value must not dirty the row.
	db.Put("学校", Definition{Definition: "school", Reading: "がっこう"})
	if len(db.dirty) != 0 {
		t.Errorf("expected unchanged put to stay clean, got %d dirty", len(db.dirty))
	}

	// A changed value must.
	db.Put("学校", Definition{Definition: "school; academy", Reading: "がっこう"})
	if len(db.dirty) != 1 {
		t.Errorf("expected 1 dirty row after change, got %d", len(db.dirty))
	}
}

func TestFlushOverwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "definitions.db")

	db, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	db.Put("先生", Definition{Definition: "teacher", Reading: "せんせい"})
	if err := db.Flush(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	db.Put("先生", Definition{Definition: "teacher; master", Reading: "せんせい"})
	if err := db.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reopened, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer reopened.Close() //nolint:errcheck // test cleanup

	def, ok := reopened.Get("先生")
	if !ok {
		t.Fatal("expected cached definition")
	}
	if def.Definition != "teacher; master" {
		t.Errorf("got %q, expected the overwritten definition", def.Definition)
	}
}

func TestLemmaKeysAreTrimmed(t *testing.T) {
	t.Parallel()

	db, err := Open(filepath.Join(t.TempDir(), "definitions.db"), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer db.Close() //nolint:errcheck // test cleanup

	db.Put(" 行く ", Definition{Definition: "to go", Reading: "いく"})
	if _, ok := db.Get("行く"); !ok {
		t.Error("expected trimmed key to hit")
	}
	if db.Len() != 1 {
		t.Errorf("expected 1 definition, got %d", db.Len())
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "RFC3339",
			input: "2026-08-25T10:30:00Z",
			want:  time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "SQLite default",
			input: "2026-08-25 10:30:00",
			want:  time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "unparseable",
			input: "not a timestamp",
			want:  time.Time{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := parseTimestamp(tc.input); !got.Equal(tc.want) {
				t.Errorf("got %v, expected %v", got, tc.want)
			}
		})
	}
}
