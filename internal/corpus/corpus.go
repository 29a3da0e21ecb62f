package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Source identifies one input file of a mining run.
type Source struct {
	// Path is the location of the file as discovered under the corpus
	// root.
	Path string

	// Tag is the label parsed from the first [bracketed] substring of
	// the file name, empty when the name carries none. Tags group
	// vocabulary by source kind (fiction, news, subtitles) without any
	// per-file configuration.
	Tag string

	// Origin is the base name of the file, recorded on every example
	// sentence the file contributes.
	Origin string
}

// sourceExtensions lists the file extensions accepted when walking a
// corpus directory. A file named directly on the command line is
// accepted regardless of its extension.
var sourceExtensions = map[string]struct{}{
	".txt":   {},
	".md":    {},
	".html":  {},
	".htm":   {},
	".xhtml": {},
}

// tagPattern captures the first square-bracketed substring of a file
// name. Non-greedy so "a[x][y].txt" yields "x", not "x][y".
var tagPattern = regexp.MustCompile(`\[(.+?)\]`)

// TagFromName extracts the source tag from a file name, so
// "novel[fiction].txt" yields "fiction". Names without a bracket pair
// yield the empty string.
func TagFromName(name string) string {
	m := tagPattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}

func newSource(path string) Source {
	base := filepath.Base(path)
	return Source{Path: path, Tag: TagFromName(base), Origin: base}
}

// Collect discovers the source files under root. Root may name a single
// file, accepted as-is, or a directory, walked recursively for files
// with a recognized extension. The result is sorted by path so repeat
// runs over the same tree mine files in the same order.
func Collect(root string) ([]Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat corpus root: %w", err)
	}

	if !info.IsDir() {
		return []Source{newSource(root)}, nil
	}

	var sources []Source
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := sourceExtensions[ext]; !ok {
			return nil
		}
		sources = append(sources, newSource(path))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk corpus directory: %w", walkErr)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSources, root)
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Path < sources[j].Path })

	return sources, nil
}
