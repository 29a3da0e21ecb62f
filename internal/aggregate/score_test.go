package aggregate

import (
	"testing"

	"github.com/tangomine/tangomine/internal/model"
)

func TestScoreTable(t *testing.T) {
	t.Parallel()

	table := model.NewWordTable()
	table.Add(&model.WordStats{Lemma: "行く", Frequency: 5, FirstIndex: 2})
	table.Add(&model.WordStats{Lemma: "見る", Frequency: 3, FirstIndex: 10})

	ScoreTable(table)

	testCases := []struct {
		lemma string
		want  float64
	}{
		// 0.7*(5/5) + 0.3*(1-2/10), scaled by 1000.
		{lemma: "行く", want: 940},
		// 0.7*(3/5) + 0.3*(1-10/10), scaled by 1000.
		{lemma: "見る", want: 420},
	}

	for _, tc := range testCases {
		t.Run(tc.lemma, func(t *testing.T) {
			entry, ok := table.Get(tc.lemma)
			if !ok {
				t.Fatalf("expected entry for %s", tc.lemma)
			}
			if entry.Score != tc.want {
				t.Errorf("expected score %v, got %v", tc.want, entry.Score)
			}
		})
	}
}

func TestScoreTableRoundsToTwoDecimals(t *testing.T) {
	t.Parallel()

	table := model.NewWordTable()
	table.Add(&model.WordStats{Lemma: "走る", Frequency: 3, FirstIndex: 1})
	table.Add(&model.WordStats{Lemma: "歩く", Frequency: 1, FirstIndex: 3})

	ScoreTable(table)

	// 0.7*(1/3) scaled by 1000 is 233.333..., rounded to 233.33.
	entry, ok := table.Get("歩く")
	if !ok {
		t.Fatal("expected entry for 歩く")
	}
	if entry.Score != 233.33 {
		t.Errorf("expected score 233.33, got %v", entry.Score)
	}
}

func TestScoreTableEmptyIsNoOp(t *testing.T) {
	t.Parallel()

	table := model.NewWordTable()
	ScoreTable(table)

	if table.Len() != 0 {
		t.Errorf("expected empty table, got %d entries", table.Len())
	}
}

func TestFilterTable(t *testing.T) {
	t.Parallel()

	table := model.NewWordTable()
	table.Add(&model.WordStats{Lemma: "学校", Frequency: 5, PartsOfSpeech: []string{"名詞", "一般"}})
	table.Add(&model.WordStats{Lemma: "先生", Frequency: 2, PartsOfSpeech: []string{"名詞", "一般"}})
	table.Add(&model.WordStats{Lemma: "です", Frequency: 9, PartsOfSpeech: []string{"助動詞"}})

	rare, _ := table.Get("先生")
	auxiliary, _ := table.Get("です")

	removed := FilterTable(table, 3)

	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if table.Len() != 1 {
		t.Errorf("expected 1 surviving entry, got %d", table.Len())
	}

	kept, ok := table.Get("学校")
	if !ok {
		t.Fatal("expected 学校 to survive")
	}
	if kept.Invalid {
		t.Error("expected surviving entry to stay valid")
	}
	if !rare.Invalid {
		t.Error("expected below-threshold entry to be marked invalid")
	}
	if !auxiliary.Invalid {
		t.Error("expected non-mineable entry to be marked invalid")
	}
}

func TestFilterTableKeepsEverythingAtThresholdOne(t *testing.T) {
	t.Parallel()

	table := model.NewWordTable()
	table.Add(&model.WordStats{Lemma: "学校", Frequency: 1, PartsOfSpeech: []string{"名詞", "一般"}})

	if removed := FilterTable(table, 1); removed != 0 {
		t.Errorf("expected 0 removed, got %d", removed)
	}
	if table.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", table.Len())
	}
}
