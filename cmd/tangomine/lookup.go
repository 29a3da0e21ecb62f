package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tangomine/tangomine/internal/config"
	"github.com/tangomine/tangomine/internal/jmdict"
	"github.com/tangomine/tangomine/internal/log"
	"github.com/spf13/cobra"
)

// NewLookupCmd creates the lookup command.
func NewLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <word>",
		Short: "Look up a word in the JMdict dictionary",
		Long: `Lookup resolves a single word against the JMdict dictionary using the
same disambiguation the mine command applies: candidate entries are
scored by the priority tags on their matching forms, and the top scorer
with the most senses wins.

With --verbose every candidate entry is listed with its score, so you
can see why the winner won.

Examples:
  tangomine lookup 行く
  tangomine --verbose lookup 生`,
		Args: cobra.ExactArgs(1),
		RunE: runLookupCmd,
	}

	cmd.Flags().String("dictionary", config.DefaultDictionaryPath(),
		"JMdict dictionary file (XML or jmdict-simplified JSON, optionally gzipped)")

	return cmd
}

// runLookupCmd executes the lookup command.
func runLookupCmd(cmd *cobra.Command, args []string) error {
	dictPath, err := cmd.Flags().GetString("dictionary")
	if err != nil {
		return err
	}

	verbose := getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	if _, err := os.Stat(dictPath); err != nil {
		return fmt.Errorf("dictionary not found at %s (run 'tangomine dict fetch' to download it)", dictPath)
	}

	dict, err := jmdict.Load(dictPath,
		jmdict.WithLogger(log.WithComponent(logger, "jmdict")))
	if err != nil {
		return fmt.Errorf("failed to load dictionary: %w", err)
	}

	return runLookup(cmd.OutOrStdout(), dict, args[0], verbose)
}

// runLookup resolves word against dict and prints the result.
func runLookup(out io.Writer, dict *jmdict.Dict, word string, verbose bool) error {
	entries := dict.Lookup(word)
	if len(entries) == 0 {
		return fmt.Errorf("no dictionary entry for %q", word)
	}

	best, err := dict.SelectBest(entries, word, jmdict.TieBreakDefs)
	if err != nil {
		return err
	}

	// Without a priority signal there is no confident winner; show
	// every candidate instead of guessing.
	chosen := best
	if len(chosen) == 0 {
		chosen = entries
		fmt.Fprintf(out, "no priority data for %q; showing all %d entries\n\n", word, len(entries))
	}

	for i, entry := range chosen {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printEntry(out, word, entry)
	}

	if verbose {
		fmt.Fprintf(out, "\n%d candidate(s):\n", len(entries))
		for i, entry := range entries {
			fmt.Fprintf(out, "  [%d] score=%-5d %s\n", i+1, dict.EntryScore(entry, word), entryForms(entry))
		}
	}

	return nil
}

// printEntry writes one dictionary entry in a terminal-friendly layout:
// a headword line with the reading, then one line per sense.
func printEntry(out io.Writer, word string, entry *jmdict.Entry) {
	reading := entry.FirstReading()
	if reading != "" && reading != word {
		fmt.Fprintf(out, "%s 【%s】\n", word, reading)
	} else {
		fmt.Fprintf(out, "%s\n", word)
	}

	numbered := len(entry.Senses) > 1
	for i, sense := range entry.Senses {
		if len(sense.Glosses) == 0 {
			continue
		}
		text := strings.Join(sense.Glosses, "; ")
		if numbered {
			fmt.Fprintf(out, "  %d. %s\n", i+1, text)
		} else {
			fmt.Fprintf(out, "  %s\n", text)
		}
	}
}

// entryForms renders an entry's forms for the candidate listing,
// kanji spellings first.
func entryForms(entry *jmdict.Entry) string {
	forms := make([]string, 0, len(entry.KanjiForms)+len(entry.ReadingForms))
	for _, f := range entry.KanjiForms {
		forms = append(forms, f.Text)
	}
	for _, f := range entry.ReadingForms {
		forms = append(forms, f.Text)
	}
	return strings.Join(forms, " / ")
}
