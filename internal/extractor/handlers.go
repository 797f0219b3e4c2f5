package extractor

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func matchList(n *html.Node) bool { return n.DataAtom == atom.Ul || n.DataAtom == atom.Ol }

func (p *parser) formatList(n *html.Node) string {
	ordered := n.DataAtom == atom.Ol

	var sb strings.Builder
	if p.lastChar != '\n' {
		sb.WriteByte('\n')
	}

	// Bullet lines carry the list's own indent; content inside each item
	// (continuation lines, nested lists) is indented one level deeper.
	prefix := p.indent
	savedIndent := p.indent
	p.indent = savedIndent + "  "

	idx := 1
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		if hasClass(li, "mw-empty-elt") {
			continue
		}
		sb.WriteString(prefix)
		if ordered {
			sb.WriteString(strconv.Itoa(idx))
			sb.WriteString(". ")
			idx++
		} else {
			sb.WriteString("• ")
		}
		p.lastChar = ' '
		sb.WriteString(p.getText(li))
		sb.WriteByte('\n')
	}

	p.indent = savedIndent
	return sb.String()
}

func matchMath(n *html.Node) bool { return hasClass(n, "mwe-math-element") }

const mathDisplaystylePrefix = `{\displaystyle`

func (p *parser) formatMath(n *html.Node) string {
	annotation := findDescendant(n, atom.Annotation)
	if annotation == nil {
		return "< --- MISSING MATH --- >"
	}

	inline := false
	if span := findDescendant(n, atom.Span); span != nil {
		inline = hasClass(span, "mwe-math-mathml-inline")
	}

	latex := strings.TrimSpace(textContent(annotation))
	if strings.HasPrefix(latex, mathDisplaystylePrefix) {
		latex = strings.TrimSuffix(latex[len(mathDisplaystylePrefix):], "}")
		latex = strings.TrimSpace(latex)
	}

	if inline {
		return fmt.Sprintf("$%s$ ", latex)
	}
	return fmt.Sprintf("$$%s$$\n", latex)
}

func matchSup(n *html.Node) bool { return n.DataAtom == atom.Sup }

func (p *parser) formatSup(n *html.Node) string {
	if hasClass(n, "reference") {
		return ""
	}
	return "^" + p.parseChildren(n)
}

func matchDL(n *html.Node) bool { return n.DataAtom == atom.Dl }

func (p *parser) formatDL(n *html.Node) string {
	p.indent += "  "
	text := p.parseChildren(n) + "\n"
	p.indent = p.indent[:len(p.indent)-2]
	return text
}

func matchBlockquote(n *html.Node) bool { return n.DataAtom == atom.Blockquote }

func (p *parser) formatBlockquote(n *html.Node) string {
	p.indent += "    "
	text := p.parseChildren(n) + "\n"
	p.indent = p.indent[:len(p.indent)-4]
	return text
}

func matchHeading(n *html.Node) bool {
	switch n.DataAtom {
	case atom.H3, atom.H4, atom.H5:
		return true
	default:
		return false
	}
}

func (p *parser) formatHeading(n *html.Node) string {
	level := int(n.Data[len(n.Data)-1] - '0')
	return strings.Repeat("#", level) + " " + p.parseChildren(n) + "\n"
}
