// Package corpus discovers and loads the input text of a mining run.
//
// A corpus root is either a single file or a directory tree. Plain text
// and Markdown files are read as-is; HTML files are reduced to readable
// article text with ruby annotations removed, so furigana never reaches
// the tokenizer. Loaded text carries a sentence boundary sentinel in
// place of every line feed, keeping text on different lines out of the
// same example sentence.
package corpus
