// Package wordfreq builds a word → count table from the segmented
// corpus (component G), the input to BPE vocabulary induction.
package wordfreq

import (
	"strings"

	"github.com/hsn0918/corpusforge/internal/record"
)

// Dict maps a space-delimited word to its occurrence count across the
// whole corpus.
type Dict map[string]int

// AddSentence tallies every word in sentence into d, splitting on the
// literal space character — matching the original's `text.split(sep="
// ")`, not Unicode whitespace classes, so runs of spaces produce empty
// "words" the same way Python's would.
func (d Dict) AddSentence(sentence string) {
	for _, word := range strings.Split(sentence, " ") {
		d[word]++
	}
}

// AddRecord tallies every sentence in every section of rec into d.
func (d Dict) AddRecord(rec record.Sentences) {
	for _, section := range rec.TextList {
		for _, sentence := range section {
			d.AddSentence(sentence)
		}
	}
}

// Merge folds other into d, for combining per-worker partial counts.
func (d Dict) Merge(other Dict) {
	for word, count := range other {
		d[word] += count
	}
}

// New returns an empty Dict.
func New() Dict {
	return make(Dict)
}
