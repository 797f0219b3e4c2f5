package crawler

import (
	"reflect"
	"testing"
)

func TestExtractLinksFiltersNonArticlePaths(t *testing.T) {
	body := `<html><body>
		<a href="/wiki/Go_(programming_language)">Go</a>
		<a href="/wiki/List_of_programming_languages">list</a>
		<a href="/wiki/Main_Page">main</a>
		<a href="/wiki/Category:Programming_languages">category</a>
		<a class="mw-redirect" href="/wiki/Golang">redirect</a>
		<a href="https://external.example.org/wiki/Go">external</a>
		<a href="/not-wiki/Go">other</a>
	</body></html>`

	got := ExtractLinks(body)
	want := []string{"https://en.wikipedia.org/wiki/Go_(programming_language)"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestExtractLinksDedupesNothingItself(t *testing.T) {
	body := `<a href="/wiki/A">a</a><a href="/wiki/A">a again</a>`
	got := ExtractLinks(body)
	if len(got) != 2 {
		t.Fatalf("expected extractor to return both occurrences, dedup is the caller's job: got %v", got)
	}
}
