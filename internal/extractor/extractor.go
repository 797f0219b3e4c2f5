// Package extractor turns a raw Wikipedia article page into an ordered
// sequence of section strings (component C). It is a pure function of
// its HTML input: the same page always yields the same sections, and a
// missing container or unparseable document yields an empty sequence
// rather than an error.
package extractor

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var endSectionIDs = map[string]struct{}{
	"See_also":               {},
	"Notes":                  {},
	"References":             {},
	"Further_reading":        {},
	"External_links":         {},
	"References_and_notes":   {},
	"Footnotes":              {},
}

var unwantedTags = map[string]struct{}{
	"meta":   {},
	"style":  {},
	"mstyle": {},
	"figure": {},
	"table":  {},
}

// unwantedClasses is the normative "Unwanted class set" from the
// GLOSSARY: any element whose class list intersects this set is
// dropped, including the infobox/navbox/table-of-contents chrome
// Wikipedia's skin wraps around article prose.
var unwantedClasses = map[string]struct{}{
	"Inline-Template":           {},
	"Template-Fact":             {},
	"ambox":                     {},
	"box-Fringe_theories":       {},
	"cartbox":                   {},
	"gallery":                   {},
	"hatnote":                   {},
	"infobox":                   {},
	"locmap":                    {},
	"magnify":                   {},
	"mbox":                      {},
	"media":                     {},
	"metadata":                  {},
	"mw-editsection":            {},
	"mw-empty-elt":              {},
	"navbar":                    {},
	"navbox":                    {},
	"navbox-styles":             {},
	"navigation-not-searchable": {},
	"noprint":                   {},
	"portal":                    {},
	"reflist":                   {},
	"reference":                 {},
	"references":                {},
	"sidebar":                   {},
	"stub":                      {},
	"thumb":                     {},
	"thumbinner":                {},
	"toc":                       {},
	"vertical-navbox":           {},
	"wikitable":                 {},
}

// Extract parses rawHTML and returns the ordered list of section strings
// described in the extractor's top-level walk.
func Extract(rawHTML string) []string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	title := findFirstHeading(doc)
	mainTag := findMainContainer(doc)
	if mainTag == nil {
		return nil
	}

	p := &parser{}
	var sections []string
	text := "# " + title + "\n\n"
	skip := true

	for child := mainTag.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}

		if skip {
			if child.DataAtom == atom.P {
				skip = false
				p.indent = ""
				p.lastChar = 0
			} else {
				continue
			}
		}

		if isEndSection(child) {
			break
		} else if isNewSection(child) {
			if text != "" {
				sections = append(sections, text)
			}
			text = "## " + headingTitle(child, atom.H2) + "\n\n"
			p.indent = ""
			p.lastChar = 0
		} else {
			text += p.getText(child)
		}
	}

	if text != "" {
		sections = append(sections, text)
	}

	return sections
}

// parser holds the indentation/last-character state threaded through the
// recursive get_text walk, mirroring the original's instance attributes.
type parser struct {
	indent   string
	lastChar byte
}

func (p *parser) getText(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return p.formatStringNode(n.Data)
	case html.ElementNode:
		if isUnwantedTag(n) || hasUnwantedClass(n) {
			return ""
		}
		if text, matched := p.formatTagNode(n); matched {
			return text
		}
		text := p.parseChildren(n)
		if text != "" {
			p.lastChar = text[len(text)-1]
		}
		return text
	default:
		return p.parseChildren(n)
	}
}

func (p *parser) formatStringNode(s string) string {
	lines := splitLinesKeepEnds(s)
	text := strings.Join(lines, p.indent)
	if p.lastChar == '\n' {
		text = p.indent + text
	}
	if text != "" {
		p.lastChar = text[len(text)-1]
	}
	return text
}

// splitLinesKeepEnds mirrors Python's str.splitlines(keepends=True) for
// the "\n"-only case the extractor cares about.
func splitLinesKeepEnds(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.SplitAfter(s, "\n")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

func (p *parser) parseChildren(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(p.getText(c))
	}
	return sb.String()
}

// formatTagNode tries each format handler in order and returns the first
// match's output. matched is false when no handler applies, signalling
// the caller to fall back to the default child-concatenation behavior.
func (p *parser) formatTagNode(n *html.Node) (text string, matched bool) {
	handlers := []struct {
		match  func(*html.Node) bool
		format func(*html.Node) string
	}{
		{matchList, p.formatList},
		{matchMath, p.formatMath},
		{matchSup, p.formatSup},
		{matchDL, p.formatDL},
		{matchBlockquote, p.formatBlockquote},
		{matchHeading, p.formatHeading},
	}

	for _, h := range handlers {
		if h.match(n) {
			text := h.format(n)
			if text != "" {
				p.lastChar = text[len(text)-1]
			}
			return text, true
		}
	}
	return "", false
}

func isEndSection(n *html.Node) bool {
	if n.DataAtom != atom.Div {
		return false
	}
	first := n.FirstChild
	if first == nil || first.Type != html.ElementNode || first.DataAtom != atom.H2 {
		return false
	}
	id := attr(first, "id")
	_, end := endSectionIDs[id]
	return end
}

func isNewSection(n *html.Node) bool {
	return hasClass(n, "mw-heading2")
}

func headingTitle(n *html.Node, level atom.Atom) string {
	target := findDescendant(n, level)
	if target == nil {
		return ""
	}
	return strings.TrimSpace(textContent(target))
}

func isUnwantedTag(n *html.Node) bool {
	_, ok := unwantedTags[n.Data]
	return ok
}

func hasUnwantedClass(n *html.Node) bool {
	for _, c := range classList(n) {
		if _, ok := unwantedClasses[c]; ok {
			return true
		}
	}
	return false
}

func findFirstHeading(doc *html.Node) string {
	n := findByIDAndAtom(doc, atom.H1, "firstHeading")
	if n == nil {
		return ""
	}
	return strings.TrimSpace(textContent(n))
}

func findMainContainer(doc *html.Node) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Div {
			classes := classSet(n)
			_, hasLTR := classes["mw-content-ltr"]
			_, hasOutput := classes["mw-parser-output"]
			if hasLTR && hasOutput && attr(n, "lang") == "en" {
				found = n
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
			if found != nil {
				return
			}
		}
	}
	walk(doc)
	return found
}

func findByIDAndAtom(n *html.Node, a atom.Atom, id string) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByIDAndAtom(c, a, id); found != nil {
			return found
		}
	}
	return nil
}

func findDescendant(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
		if found := findDescendant(c, a); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func classList(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

func classSet(n *html.Node) map[string]struct{} {
	set := make(map[string]struct{})
	for _, c := range classList(n) {
		set[c] = struct{}{}
	}
	return set
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classList(n) {
		if c == class {
			return true
		}
	}
	return false
}
