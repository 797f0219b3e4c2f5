package bpe

import (
	"testing"

	"github.com/hsn0918/corpusforge/internal/wordfreq"
)

func TestInduceScenario(t *testing.T) {
	freqs := wordfreq.Dict{"ab": 5, "ac": 3}
	v := NewVocab(freqs)

	// Initial vocab: {a, b, c, " "}
	if v.Size() != 4 {
		t.Fatalf("expected initial vocab size 4, got %d: %v", v.Size(), v.Tokens())
	}

	if err := v.Induce(t.Context(), 5, 1); err != nil {
		t.Fatalf("Induce: %v", err)
	}

	if v.Size() != 5 {
		t.Fatalf("expected vocab size 5 after one merge, got %d: %v", v.Size(), v.Tokens())
	}

	found := false
	for _, tok := range v.Tokens() {
		if tok == "ab" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected \"ab\" (count 5 beats \"ac\" count 3) to be added, got %v", v.Tokens())
	}

	tokens, ok := v.WordTokens("ab")
	if !ok {
		t.Fatalf("expected word \"ab\" to be tracked")
	}
	if len(tokens) != 1 || tokens[0] != "ab" {
		t.Fatalf("expected \"ab\" to merge into a single token, got %v", tokens)
	}
}

func TestInduceStopsWhenNoMorePairs(t *testing.T) {
	freqs := wordfreq.Dict{"a": 1}
	v := NewVocab(freqs)
	start := v.Size()

	if err := v.Induce(t.Context(), start+10, 2); err != nil {
		t.Fatalf("Induce: %v", err)
	}
	if v.Size() != start {
		t.Fatalf("expected single-character word to never grow vocab, got %d from %d", v.Size(), start)
	}
}

func TestInduceRejectsTargetBelowCurrentSize(t *testing.T) {
	v := NewVocab(wordfreq.Dict{"ab": 1})
	if err := v.Induce(t.Context(), 1, 1); err == nil {
		t.Fatalf("expected error when target is below current vocab size")
	}
}

func TestTokenizeGreedy(t *testing.T) {
	tok := NewTokenizer([]string{"a", "b", "ab", "c"})
	got := tok.Tokenize("abc")
	want := []string{"ab", "c"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestTokenizeRoundTrip(t *testing.T) {
	tok := NewTokenizer([]string{"a", "b", "c", "ab", "abc"})
	text := "abcabc"
	got := tok.Tokenize(text)

	var rebuilt string
	for _, t := range got {
		rebuilt += t
	}
	if rebuilt != text {
		t.Fatalf("concat(tokenize(t)) != t: got %q want %q", rebuilt, text)
	}
}

func TestSaveLoadVocabRoundTrip(t *testing.T) {
	v := NewVocab(wordfreq.Dict{"ab": 2})
	path := t.TempDir() + "/vocab.json"

	if err := SaveVocab(v, path); err != nil {
		t.Fatalf("SaveVocab: %v", err)
	}

	tokens, err := LoadVocabTokens(path)
	if err != nil {
		t.Fatalf("LoadVocabTokens: %v", err)
	}
	if len(tokens) != v.Size() {
		t.Fatalf("expected %d tokens, got %d", v.Size(), len(tokens))
	}
}
