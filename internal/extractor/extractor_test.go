package extractor

import (
	"reflect"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func wrap(mainContent string) string {
	return `<html><body>
<h1 id="firstHeading">Foo</h1>
<div class="mw-content-ltr mw-parser-output" lang="en">
` + mainContent + `
</div>
</body></html>`
}

func TestExtractHeadingFlow(t *testing.T) {
	html := wrap(`
<p>Hello.</p>
<div class="mw-heading mw-heading2"><h2 id="Bar">Bar</h2></div>
<p>World.</p>
<div class="mw-heading mw-heading2"><h2 id="References">References</h2></div>
<p>junk</p>
`)

	got := Extract(html)
	want := []string{"# Foo\n\nHello.", "## Bar\n\nWorld."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestExtractList(t *testing.T) {
	html := wrap(`
<p>Intro.</p>
<div class="mw-heading mw-heading2"><h2 id="List_section">Items</h2></div>
<ul><li>a</li><li>b</li></ul>
`)

	got := Extract(html)
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d: %#v", len(got), got)
	}
	if want := "\n• a\n• b\n"; !strings.Contains(got[1], want) {
		t.Fatalf("section %q does not contain list text %q", got[1], want)
	}
}

func TestExtractNestedListIndent(t *testing.T) {
	html := wrap(`
<p>Intro.</p>
<div class="mw-heading mw-heading2"><h2 id="List_section">Items</h2></div>
<ul><li>a<ul><li>x</li></ul></li><li>b</li></ul>
`)

	got := Extract(html)
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d: %#v", len(got), got)
	}
	if want := "\n• a\n  • x\n"; !strings.Contains(got[1], want) {
		t.Fatalf("section %q does not contain nested list text %q", got[1], want)
	}
	if want := "\n• b\n"; !strings.Contains(got[1], want) {
		t.Fatalf("section %q does not contain outer list item %q", got[1], want)
	}
}

func TestExtractOrderedListSkipsEmptyItems(t *testing.T) {
	html := wrap(`
<p>Intro.</p>
<div class="mw-heading mw-heading2"><h2 id="List_section">Items</h2></div>
<ol><li>first</li><li class="mw-empty-elt"></li><li>second</li></ol>
`)

	got := Extract(html)
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d: %#v", len(got), got)
	}
	if want := "\n1. first\n2. second\n"; !strings.Contains(got[1], want) {
		t.Fatalf("section %q does not contain %q (empty items must not advance the counter)", got[1], want)
	}
}

func TestExtractDL(t *testing.T) {
	html := wrap(`
<p>Intro.</p>
<div class="mw-heading mw-heading2"><h2 id="Defs">Defs</h2></div>
<dl><dd>line one
line two</dd></dl>
<p>After.</p>
`)

	got := Extract(html)
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d: %#v", len(got), got)
	}
	// Continuation lines inside the dl are indented one level (2 spaces),
	// and the handler appends a trailing newline.
	if want := "line one\n  line two\n"; !strings.Contains(got[1], want) {
		t.Fatalf("section %q does not contain indented dl text %q", got[1], want)
	}
	// The indent is restored after the dl: following text starts at the
	// first column again.
	if want := "line two\nAfter."; !strings.Contains(got[1], want) {
		t.Fatalf("section %q does not restore indentation after the dl (want %q)", got[1], want)
	}
}

func TestExtractBlockquote(t *testing.T) {
	html := wrap(`
<p>Intro.</p>
<div class="mw-heading mw-heading2"><h2 id="Quote">Quote</h2></div>
<blockquote>quoted one
quoted two</blockquote>
<p>After.</p>
`)

	got := Extract(html)
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d: %#v", len(got), got)
	}
	// Blockquote content is indented four spaces after every newline,
	// with a trailing newline appended by the handler.
	if want := "quoted one\n    quoted two\n"; !strings.Contains(got[1], want) {
		t.Fatalf("section %q does not contain indented blockquote text %q", got[1], want)
	}
	if want := "quoted two\nAfter."; !strings.Contains(got[1], want) {
		t.Fatalf("section %q does not restore indentation after the blockquote (want %q)", got[1], want)
	}
}

func TestExtractMath(t *testing.T) {
	html := wrap(`
<p>Intro.</p>
<span class="mwe-math-element"><span class="mwe-math-mathml-inline"><math><annotation>x^2</annotation></math></span></span>
`)

	got := Extract(html)
	if len(got) != 1 {
		t.Fatalf("expected 1 section, got %d: %#v", len(got), got)
	}
	if want := "$x^2$ "; !strings.Contains(got[0], want) {
		t.Fatalf("section %q does not contain %q", got[0], want)
	}
}

func TestExtractDropsGlossaryUnwantedClasses(t *testing.T) {
	html := wrap(`
<p>Intro.</p>
<div class="mw-heading mw-heading2"><h2 id="Sec">Sec</h2></div>
<p>Before.</p>
<div class="infobox">Dropped infobox text</div>
<p>See<span class="thumb"> dropped caption </span>after.</p>
`)

	got := Extract(html)
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d: %#v", len(got), got)
	}

	section := got[1]
	if strings.Contains(section, "Dropped infobox text") {
		t.Fatalf("expected infobox-classed element to be dropped, got %q", section)
	}
	if strings.Contains(section, "dropped caption") {
		t.Fatalf("expected thumb-classed element to be dropped, got %q", section)
	}
	if !strings.Contains(section, "Before.") || !strings.Contains(section, "See") || !strings.Contains(section, "after.") {
		t.Fatalf("expected surrounding text to survive, got %q", section)
	}
}

func TestExtractEmptyWhenContainerMissing(t *testing.T) {
	got := Extract(`<html><body><h1 id="firstHeading">Foo</h1><p>no container</p></body></html>`)
	if len(got) != 0 {
		t.Fatalf("expected no sections, got %#v", got)
	}
}

// markdownHeadingLevels parses a section string as markdown and returns
// the level of every heading node, in document order. Round-tripping
// the extractor's output through a real markdown parser catches
// malformed heading syntax that a substring check would miss.
func markdownHeadingLevels(t *testing.T, section string) []int {
	t.Helper()
	source := []byte(section)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var levels []int
	if err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindHeading {
			levels = append(levels, n.(*ast.Heading).Level)
		}
		return ast.WalkContinue, nil
	}); err != nil {
		t.Fatalf("walk markdown ast: %v", err)
	}
	return levels
}

func TestExtractSectionsParseAsMarkdownHeadings(t *testing.T) {
	html := wrap(`
<p>Hello.</p>
<div class="mw-heading mw-heading2"><h2 id="Bar">Bar</h2></div>
<p>World.</p>
`)

	sections := Extract(html)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %#v", len(sections), sections)
	}
	if got := markdownHeadingLevels(t, sections[0]); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("first section: expected a single H1 heading, goldmark saw levels %v", got)
	}
	if got := markdownHeadingLevels(t, sections[1]); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("second section: expected a single H2 heading, goldmark saw levels %v", got)
	}
}

func TestExtractListSectionParsesAsValidMarkdown(t *testing.T) {
	// The "• " bullet marker (not CommonMark's "-"/"*"/"+") is a
	// deliberate visual-only rendering choice carried over from the
	// original pipeline; goldmark parses it as plain paragraph text
	// rather than a list node. This asserts the section still parses
	// cleanly (no malformed markdown) and keeps its heading.
	html := wrap(`
<p>Intro.</p>
<div class="mw-heading mw-heading2"><h2 id="List_section">Items</h2></div>
<ul><li>a</li><li>b</li></ul>
`)

	sections := Extract(html)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %#v", len(sections), sections)
	}
	if got := markdownHeadingLevels(t, sections[1]); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("expected a single H2 heading, goldmark saw levels %v", got)
	}
}

func TestExtractDeterministic(t *testing.T) {
	html := wrap(`<p>Hello.</p>`)
	a := Extract(html)
	b := Extract(html)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("extract is not deterministic: %#v vs %#v", a, b)
	}
}
