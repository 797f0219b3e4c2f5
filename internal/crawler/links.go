package crawler

import (
	"strings"

	"golang.org/x/net/html"
)

const wikiOrigin = "https://en.wikipedia.org"

// ExtractLinks walks parsed HTML and returns the absolute URLs of every
// outbound Wikipedia article link worth following, applying the same
// filters as the original WikiURLExtractor: only "/wiki/..." paths,
// excluding list pages, the main page, namespaced pages (a colon in the
// path), and redirects (tagged with the "mw-redirect" class).
func ExtractLinks(body string) []string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := wikiLink(n); ok {
				links = append(links, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

func wikiLink(n *html.Node) (string, bool) {
	var href string
	var hasHref bool
	var class string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "href":
			href = attr.Val
			hasHref = true
		case "class":
			class = attr.Val
		}
	}
	if !hasHref {
		return "", false
	}

	if !strings.HasPrefix(href, "/wiki/") {
		return "", false
	}
	if strings.HasPrefix(href, "/wiki/List_of") {
		return "", false
	}
	if strings.HasPrefix(href, "/wiki/Main_Page") {
		return "", false
	}
	if strings.Contains(href, ":") {
		return "", false
	}
	for _, c := range strings.Fields(class) {
		if c == "mw-redirect" {
			return "", false
		}
	}

	return wikiOrigin + href, true
}
