// Package segment adapts an external sentence segmenter to the
// pipeline's narrow contract (component F): "string → ordered list of
// sentence strings". The original pipeline delegated this to spaCy; no
// Go spaCy binding exists, so this wraps a UAX #29 sentence-boundary
// implementation behind the same contract.
package segment

import (
	"github.com/clipperhouse/uax29/v2/sentences"

	"github.com/hsn0918/corpusforge/internal/record"
)

// Segmenter splits text into an ordered list of sentence strings. It is
// the contract the rest of the pipeline depends on, so a different
// backend can be substituted without touching callers.
type Segmenter interface {
	Segment(text string) []string
}

// uax29Segmenter is the default Segmenter, backed by
// github.com/clipperhouse/uax29/v2's UAX #29 sentence splitter.
type uax29Segmenter struct{}

// New returns the default Segmenter.
func New() Segmenter {
	return uax29Segmenter{}
}

func (uax29Segmenter) Segment(text string) []string {
	var out []string
	seg := sentences.FromString(text)
	for seg.Next() {
		out = append(out, seg.Value())
	}
	return out
}

// SegmentSections splits every section string in sections into a list
// of sentence strings, honoring omitDuplicates: when true, any section
// equal to the deduplicator's sentinel is dropped outright rather than
// segmented, matching the original's `if omit_duplicates and text ==
// "<DUPLICATE_REMOVED>": continue`.
func SegmentSections(s Segmenter, in record.Sections, omitDuplicates bool) record.Sentences {
	out := record.Sentences{URL: in.URL}
	for _, text := range in.TextList {
		if omitDuplicates && text == record.DuplicateRemoved {
			continue
		}
		out.TextList = append(out.TextList, s.Segment(text))
	}
	return out
}
