package jmdict

import "testing"

func TestRenderDefinition(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		entry Entry
		want  string
	}{
		{
			name: "single sense has no ordinal prefix",
			entry: Entry{
				Senses: []Sense{{Glosses: []string{"to go", "to move"}}},
			},
			want: "to go; to move",
		},
		{
			name: "multiple senses are numbered",
			entry: Entry{
				Senses: []Sense{
					{Glosses: []string{"to go", "to move"}},
					{Glosses: []string{"to proceed"}},
				},
			},
			want: "1. to go; to move<br>2. to proceed",
		},
		{
			name: "gloss-less sense keeps its ordinal but renders nothing",
			entry: Entry{
				Senses: []Sense{
					{PartsOfSpeech: []string{"n"}},
					{Glosses: []string{"school"}},
				},
			},
			want: "2. school",
		},
		{
			name:  "no senses",
			entry: Entry{},
			want:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tc.entry.RenderDefinition(); got != tc.want {
				t.Errorf("got %q, expected %q", got, tc.want)
			}
		})
	}
}

func TestFirstReading(t *testing.T) {
	t.Parallel()

	entry := Entry{
		ReadingForms: []Form{{Text: "いく"}, {Text: "ゆく"}},
	}
	if got := entry.FirstReading(); got != "いく" {
		t.Errorf("got %q, expected %q", got, "いく")
	}

	empty := Entry{}
	if got := empty.FirstReading(); got != "" {
		t.Errorf("got %q, expected empty reading", got)
	}
}
