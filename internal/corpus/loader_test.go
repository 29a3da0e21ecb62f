package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tangomine/tangomine/internal/aggregate"
)

func writeSource(t *testing.T, name, content string) Source {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	return newSource(path)
}

func TestLoadPlainText(t *testing.T) {
	t.Parallel()

	source := writeSource(t, "diary.txt", "今日は晴れ。\r\n明日も晴れ。")

	text, err := Load(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	boundary := string(aggregate.SentenceBoundary)
	want := "今日は晴れ。" + boundary + "明日も晴れ。" + boundary
	if text != want {
		t.Errorf("expected %q, got %q", want, text)
	}
}

func TestLoadAlwaysEndsWithBoundary(t *testing.T) {
	t.Parallel()

	source := writeSource(t, "ending.txt", "終わり\n")

	text, err := Load(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	boundary := string(aggregate.SentenceBoundary)
	if !strings.HasSuffix(text, boundary) {
		t.Errorf("expected text to end with sentence boundary, got %q", text)
	}
	if strings.Contains(text, "\n") {
		t.Errorf("expected no line feeds in loaded text, got %q", text)
	}
}

func TestLoadHTMLStripsRuby(t *testing.T) {
	t.Parallel()

	page := `<html><body><p>彼は<ruby>漢字<rp>(</rp><rt>かんじ</rt><rp>)</rp></ruby>を書いた。</p></body></html>`
	source := writeSource(t, "page.html", page)

	text, err := Load(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(text, "漢字") {
		t.Errorf("expected base text to survive, got %q", text)
	}
	if strings.Contains(text, "かんじ") {
		t.Errorf("expected furigana to be stripped, got %q", text)
	}
	if strings.Contains(text, "(") || strings.Contains(text, ")") {
		t.Errorf("expected ruby parentheses to be stripped, got %q", text)
	}
}

func TestLoadHTMLSkipsScriptsAndStyles(t *testing.T) {
	t.Parallel()

	page := `<html><head><style>body { color: red; }</style></head>` +
		`<body><script>var hidden = 1;</script><p>本文はここ。</p></body></html>`
	source := writeSource(t, "page.htm", page)

	text, err := Load(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(text, "本文はここ。") {
		t.Errorf("expected body text to survive, got %q", text)
	}
	if strings.Contains(text, "hidden") {
		t.Errorf("expected script content to be excluded, got %q", text)
	}
	if strings.Contains(text, "color") {
		t.Errorf("expected style content to be excluded, got %q", text)
	}
}

func TestLoadHTMLSeparatesBlocks(t *testing.T) {
	t.Parallel()

	page := `<html><body><p>一行目</p><p>二行目</p></body></html>`
	source := writeSource(t, "page.html", page)

	text, err := Load(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(text, "一行目二行目") {
		t.Errorf("expected a boundary between paragraphs, got %q", text)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(Source{Path: filepath.Join(t.TempDir(), "absent.txt")})
	if err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestCollectText(t *testing.T) {
	t.Parallel()

	source := writeSource(t, "fragment.html", `<div>犬<br>猫</div>`)

	text, err := Load(source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(text, "犬") || !strings.Contains(text, "猫") {
		t.Errorf("expected both text nodes to survive, got %q", text)
	}
	if strings.Contains(text, "犬猫") {
		t.Errorf("expected a boundary at <br>, got %q", text)
	}
}
