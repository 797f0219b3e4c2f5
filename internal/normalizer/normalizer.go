// Package normalizer canonicalizes extracted section text before it
// reaches the deduplicator (component D): Unicode NFC, whitespace
// canonicalization, quote/dash folding, and a minimum-length filter.
package normalizer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// handlers runs in order, mirroring the original Normalizer.HANDLERS
// pipeline, with a quote/dash folding pass added between Unicode
// normalization and whitespace canonicalization.
var handlers = []func(string) string{
	unicodeHandler,
	quoteDashHandler,
	whitespaceHandler,
}

// Normalize applies every handler in turn. It is idempotent:
// Normalize(Normalize(t)) == Normalize(t) for all t, since every handler
// maps its fixed points to themselves.
func Normalize(text string) string {
	for _, h := range handlers {
		text = h(text)
	}
	return text
}

func unicodeHandler(text string) string {
	return norm.NFC.String(text)
}

var quoteDashReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
	"“", "\"", "”", "\"", "„", "\"", "‟", "\"",
	"–", "-", "—", "-", "−", "-",
)

func quoteDashHandler(text string) string {
	return quoteDashReplacer.Replace(text)
}

var (
	controlChars   = regexp.MustCompile("[\x00-\x08\x0B-\x1F\x7F]")
	specialSpaces  = regexp.MustCompile("[     　\t\f]")
	zeroWidthSpace = regexp.MustCompile("​")
	interiorSpaces = regexp.MustCompile(`([^ \n]) {2,}`)
	excessNewlines = regexp.MustCompile(`\n{3,}`)
)

// whitespaceHandler normalizes line endings, strips control characters,
// folds Unicode space variants down to ASCII space (or removes
// zero-width ones), collapses interior multi-space runs, and caps
// consecutive blank lines at one.
func whitespaceHandler(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = controlChars.ReplaceAllString(text, "")

	text = specialSpaces.ReplaceAllString(text, " ")
	text = zeroWidthSpace.ReplaceAllString(text, "")

	// Collapse runs of 2+ spaces that follow a non-space, non-newline
	// character. A maximal run at the start of a line is preceded by a
	// newline (or nothing) and so never matches: the extractor's list,
	// dl, and blockquote indentation survives whatever its depth.
	text = interiorSpaces.ReplaceAllString(text, "$1 ")

	text = excessNewlines.ReplaceAllString(text, "\n\n")

	return text
}

// IsValidUTF8 reports whether s is entirely valid UTF-8, the invariant
// every text_list element must satisfy per the data model (§3.i).
func IsValidUTF8(s string) bool {
	return utf8.ValidString(s)
}

// FilterShort drops sections shorter than cutoff runes, the length
// filter named in component D's responsibility.
func FilterShort(sections []string, cutoff int) []string {
	kept := make([]string, 0, len(sections))
	for _, s := range sections {
		if utf8.RuneCountInString(s) >= cutoff {
			kept = append(kept, s)
		}
	}
	return kept
}
