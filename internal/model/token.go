package model

// Token is a single morpheme produced by the tokenizer.
// Tokens are immutable once produced; every downstream consumer treats
// them as read-only values.
type Token struct {
	// Surface is the literal text as it appeared in the source.
	Surface string `json:"surface"`

	// Lemma is the dictionary (base) form of the word.
	// Falls back to the surface form when the tokenizer has no
	// base-form data for the token.
	Lemma string `json:"lemma"`

	// Reading is the hiragana reading of the surface form.
	// Empty when the tokenizer has no reading data.
	Reading string `json:"reading,omitempty"`

	// PartsOfSpeech is the ordered part-of-speech path, most general
	// category first (e.g. 名詞, 一般). Wildcard segments are dropped.
	PartsOfSpeech []string `json:"parts_of_speech,omitempty"`
}
