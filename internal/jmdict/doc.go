// Package jmdict loads the JMdict Japanese-English dictionary and
// picks the best entry for a lemma using corpus-priority tags.
//
// Two source formats are auto-detected: the original JMdict XML
// distribution and the jmdict-simplified JSON conversion. Both
// collapse into the same in-memory Entry model, indexed by every
// kanji and reading literal so lookups are exact-form map hits.
// Disambiguation is pure: entry scores derive only from the priority
// tags (nfNN corpus ranks and the fixed ichi/news/spec/gai bonuses)
// attached to forms that literally match the lookup word.
package jmdict
