package dedup

import (
	"context"
	"testing"

	"github.com/hsn0918/corpusforge/internal/record"
)

func testConfig() Config {
	return Config{GramLen: 5, SignatureLen: 32, BandSize: 4, SimilarityThreshold: 0.8}
}

func TestFindDuplicatesPositive(t *testing.T) {
	d, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	text := "This is a moderately long duplicated paragraph of text."
	paragraphs := []Paragraph{
		{URL: "A", Index: 0, Text: text},
		{URL: "B", Index: 1, Text: "Completely different unrelated content here."},
		{URL: "B", Index: 3, Text: text},
	}

	removed, err := d.FindDuplicates(t.Context(), paragraphs)
	if err != nil {
		t.Fatalf("FindDuplicates: %v", err)
	}

	if removed[ID{URL: "A", Index: 0}] {
		t.Fatalf("expected first-encountered paragraph to be kept")
	}
	if !removed[ID{URL: "B", Index: 3}] {
		t.Fatalf("expected later duplicate to be marked for removal")
	}
	if removed[ID{URL: "B", Index: 1}] {
		t.Fatalf("expected unrelated paragraph to be kept")
	}
}

func TestFindDuplicatesMonotonic(t *testing.T) {
	d, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	text := "This is a moderately long duplicated paragraph of text."
	paragraphs := []Paragraph{
		{URL: "A", Index: 0, Text: text},
		{URL: "A", Index: 1, Text: "Some other paragraph with plenty of characters."},
		{URL: "B", Index: 0, Text: text},
		{URL: "B", Index: 1, Text: text},
	}

	removed, err := d.FindDuplicates(t.Context(), paragraphs)
	if err != nil {
		t.Fatalf("FindDuplicates: %v", err)
	}
	if len(removed) == 0 {
		t.Fatalf("expected duplicates to be found")
	}

	var remaining []Paragraph
	for _, p := range paragraphs {
		if !removed[ID{URL: p.URL, Index: p.Index}] {
			remaining = append(remaining, p)
		}
	}

	// Re-running over the surviving paragraphs must leave them all in
	// place: the removal set is stable under removal of its members.
	again, err := d.FindDuplicates(t.Context(), remaining)
	if err != nil {
		t.Fatalf("FindDuplicates (second pass): %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected no further removals on re-run, got %v", again)
	}
}

func TestFindDuplicatesDeterministic(t *testing.T) {
	d, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	text := "This is a moderately long duplicated paragraph of text."
	paragraphs := []Paragraph{
		{URL: "A", Index: 0, Text: text},
		{URL: "B", Index: 0, Text: text},
		{URL: "C", Index: 0, Text: text},
	}

	first, err := d.FindDuplicates(t.Context(), paragraphs)
	if err != nil {
		t.Fatalf("FindDuplicates: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := d.FindDuplicates(t.Context(), paragraphs)
		if err != nil {
			t.Fatalf("FindDuplicates: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("removal set size changed between runs: %v vs %v", first, again)
		}
		for id := range first {
			if !again[id] {
				t.Fatalf("removal set changed between runs: %v vs %v", first, again)
			}
		}
	}
}

type countingCache struct {
	store map[string][]uint32
	hits  int
	sets  int
}

func (c *countingCache) Signature(_ context.Context, key string) ([]uint32, bool, error) {
	sig, ok := c.store[key]
	if ok {
		c.hits++
	}
	return sig, ok, nil
}

func (c *countingCache) SetSignature(_ context.Context, key string, sig []uint32) error {
	c.store[key] = sig
	c.sets++
	return nil
}

func TestFindDuplicatesMemoizesSignatures(t *testing.T) {
	d, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c := &countingCache{store: make(map[string][]uint32)}
	d.WithSignatureCache(c, nil)

	paragraphs := []Paragraph{
		{URL: "A", Index: 0, Text: "This is a moderately long paragraph of text."},
		{URL: "A", Index: 1, Text: "Another moderately long paragraph of text."},
	}

	if _, err := d.FindDuplicates(t.Context(), paragraphs); err != nil {
		t.Fatalf("FindDuplicates: %v", err)
	}
	if c.sets != len(paragraphs) {
		t.Fatalf("expected one cache write per paragraph, got %d", c.sets)
	}
	if c.hits != 0 {
		t.Fatalf("expected no cache hits on a cold cache, got %d", c.hits)
	}

	if _, err := d.FindDuplicates(t.Context(), paragraphs); err != nil {
		t.Fatalf("FindDuplicates (second pass): %v", err)
	}
	if c.hits != len(paragraphs) {
		t.Fatalf("expected every signature to come from the cache on re-run, got %d hits", c.hits)
	}
}

func TestRewriteSections(t *testing.T) {
	sections := []record.Sections{
		{URL: "A", TextList: []string{"one", "two"}},
		{URL: "B", TextList: []string{"three", "four"}},
	}
	removed := map[ID]bool{
		{URL: "B", Index: 1}: true,
	}

	got := RewriteSections(sections, removed)

	if got[0].TextList[0] != "one" || got[0].TextList[1] != "two" {
		t.Fatalf("expected url A untouched, got %v", got[0].TextList)
	}
	if got[1].TextList[0] != "three" {
		t.Fatalf("expected B[0] untouched, got %v", got[1].TextList)
	}
	if got[1].TextList[1] != record.DuplicateRemoved {
		t.Fatalf("expected B[1] to be rewritten to sentinel, got %q", got[1].TextList[1])
	}
}

func TestSignatureLength(t *testing.T) {
	sig, err := Signature("a paragraph of sufficient length", 5, 32)
	if err != nil {
		t.Fatalf("Signature: %v", err)
	}
	if len(sig) != 32 {
		t.Fatalf("expected signature length 32, got %d", len(sig))
	}
}

func TestSignatureRejectsShortText(t *testing.T) {
	if _, err := Signature("hi", 5, 32); err == nil {
		t.Fatalf("expected error for text shorter than gram_len")
	}
}

func TestSignatureDeterministic(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	a, err := Signature(text, 5, 16)
	if err != nil {
		t.Fatalf("Signature: %v", err)
	}
	b, err := Signature(text, 5, 16)
	if err != nil {
		t.Fatalf("Signature: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("signature not deterministic at %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestNewRejectsBadBandSize(t *testing.T) {
	cfg := Config{GramLen: 5, SignatureLen: 10, BandSize: 3, SimilarityThreshold: 0.8}
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected error when band_size does not divide signature_len")
	}
}
