package corpus

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/tangomine/tangomine/internal/aggregate"
)

// htmlExtensions lists the extensions treated as HTML markup rather
// than plain text.
var htmlExtensions = map[string]struct{}{
	".html":  {},
	".htm":   {},
	".xhtml": {},
}

// Load reads the source file and returns its text ready for
// tokenization. HTML sources are reduced to readable text first. Every
// line feed becomes the sentence boundary sentinel, and one more
// sentinel is appended so the final sentence closes even when the file
// lacks a trailing newline.
func Load(source Source) (string, error) {
	data, err := os.ReadFile(source.Path) //nolint:gosec // Corpus paths come from the user's own command line.
	if err != nil {
		return "", fmt.Errorf("failed to read source file: %w", err)
	}

	text := string(data)
	if _, ok := htmlExtensions[strings.ToLower(filepath.Ext(source.Path))]; ok {
		text, err = extractHTML(data, source.Path)
		if err != nil {
			return "", err
		}
	}

	return normalize(text), nil
}

// normalize canonicalizes line endings and substitutes the sentence
// boundary sentinel for line feeds.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\n", string(aggregate.SentenceBoundary))

	return text + string(aggregate.SentenceBoundary)
}

// extractHTML reduces an HTML document to its readable text.
//
// Ruby annotations (<rt> furigana and <rp> fallback parentheses) are
// removed from the parsed tree before anything else: text extraction
// would otherwise emit every annotated kanji run twice, once as written
// and once as its reading. Readability then isolates the article body;
// documents with no recognizable article fall back to the text of the
// whole stripped tree.
func extractHTML(data []byte, path string) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	stripRuby(doc)

	var rendered bytes.Buffer
	if err := html.Render(&rendered, doc); err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}

	pageURL := &url.URL{Scheme: "file", Path: path}
	article, err := readability.FromReader(&rendered, pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return article.TextContent, nil
	}

	return collectText(doc), nil
}

// rubyStripTags are the ruby child elements whose subtrees are dropped.
var rubyStripTags = map[string]struct{}{
	"rt": {},
	"rp": {},
}

// stripRuby removes <rt> and <rp> subtrees in place, leaving the base
// text of each <ruby> element intact.
func stripRuby(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.ElementNode {
			if _, ok := rubyStripTags[c.Data]; ok {
				n.RemoveChild(c)
				continue
			}
		}
		stripRuby(c)
	}
}

// skipTextTags are elements whose text content is never prose.
var skipTextTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"head":     {},
	"title":    {},
}

// blockTags are elements that end a run of prose. A line feed after
// each keeps text from adjacent blocks out of the same sentence.
var blockTags = map[string]struct{}{
	"p":       {},
	"div":     {},
	"br":      {},
	"li":      {},
	"tr":      {},
	"section": {},
	"article": {},
	"h1":      {},
	"h2":      {},
	"h3":      {},
	"h4":      {},
	"h5":      {},
	"h6":      {},
}

// collectText walks the whole document and concatenates its text nodes.
// It serves documents where readability cannot find an article body,
// such as bare fragments saved from an e-book reader.
func collectText(doc *html.Node) string {
	var b strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, ok := skipTextTags[n.Data]; ok {
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode {
			if _, ok := blockTags[n.Data]; ok {
				b.WriteString("\n")
			}
		}
	}
	walk(doc)

	return b.String()
}
