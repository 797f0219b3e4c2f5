// Package bpe implements byte-pair-encoding vocabulary induction
// (component H, CORE) and the companion greedy tokenizer (component I,
// CORE): the two algorithmically substantive subsystems alongside the
// HTML extractor and deduplicator.
package bpe

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hsn0918/corpusforge/internal/wordfreq"
)

// wordEntry mirrors the original's freq_tokens[word] = (freq, tokens):
// a word's corpus frequency and its current token segmentation.
type wordEntry struct {
	freq   int
	tokens []string
}

// Vocab is the induced BPE vocabulary: an unordered set of token
// strings plus the per-word token segmentation used to induce it. Size
// only grows; every added token is the concatenation of a prior pair.
type Vocab struct {
	words map[string]*wordEntry
	set   map[string]struct{}
}

// NewVocab builds the initial vocabulary from a word-frequency
// dictionary: every character observed becomes a single-character
// token, and every word starts fully split into its characters.
func NewVocab(freqs wordfreq.Dict) *Vocab {
	v := &Vocab{
		words: make(map[string]*wordEntry, len(freqs)),
		set:   make(map[string]struct{}),
	}
	for word, freq := range freqs {
		tokens := splitChars(word)
		for _, t := range tokens {
			v.set[t] = struct{}{}
		}
		v.words[word] = &wordEntry{freq: freq, tokens: tokens}
	}
	// The literal space is always present, per the data model (§3).
	// Words never contain it, since wordfreq splits on space, so it is
	// added here explicitly.
	v.set[" "] = struct{}{}
	return v
}

func splitChars(word string) []string {
	runes := []rune(word)
	tokens := make([]string, len(runes))
	for i, r := range runes {
		tokens[i] = string(r)
	}
	return tokens
}

// Size returns the current vocabulary size.
func (v *Vocab) Size() int { return len(v.set) }

// Tokens returns every token string in the vocabulary, in no particular
// order.
func (v *Vocab) Tokens() []string {
	out := make([]string, 0, len(v.set))
	for t := range v.set {
		out = append(out, t)
	}
	return out
}

// Induce grows the vocabulary to target size by repeatedly merging the
// most frequent adjacent token pair, stopping early if no pair remains
// to merge (the vocabulary has reached its maximum reachable size).
func (v *Vocab) Induce(ctx context.Context, target int, processes int) error {
	if target < v.Size() {
		return fmt.Errorf("bpe: target vocab size (%d) cannot be less than initial vocab size (%d)", target, v.Size())
	}

	for v.Size() < target {
		pair, found, err := v.mostFrequentPair(ctx, processes)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}
		merged := pair[0] + pair[1]
		v.set[merged] = struct{}{}
		if err := v.merge(ctx, pair, processes); err != nil {
			return err
		}
	}
	return nil
}

// pairKey is an adjacent pair of tokens, used as a map key while
// aggregating pair frequencies.
type pairKey [2]string

// mostFrequentPair aggregates adjacent-token-pair frequencies across
// every word's current tokenization, in parallel across worker shards,
// and returns the winner. Ties are broken by the lexicographically
// smallest concatenation of the pair's two tokens, and pairs with the
// same concatenation by the smaller first token, since the original's
// `max(dict, key=dict.get)` leaves ties to accidental Python dict
// iteration order (see DESIGN.md).
func (v *Vocab) mostFrequentPair(ctx context.Context, processes int) (pairKey, bool, error) {
	if processes < 1 {
		processes = 1
	}

	words := make([]*wordEntry, 0, len(v.words))
	for _, w := range v.words {
		words = append(words, w)
	}

	shardCount := processes
	if shardCount > len(words) {
		shardCount = len(words)
	}
	if shardCount < 1 {
		shardCount = 1
	}

	partials := make([]map[pairKey]int, shardCount)
	g, _ := errgroup.WithContext(ctx)
	for s := 0; s < shardCount; s++ {
		s := s
		g.Go(func() error {
			partial := make(map[pairKey]int)
			for i := s; i < len(words); i += shardCount {
				w := words[i]
				if len(w.tokens) < 2 {
					continue
				}
				for j := 0; j < len(w.tokens)-1; j++ {
					key := pairKey{w.tokens[j], w.tokens[j+1]}
					partial[key] += w.freq
				}
			}
			partials[s] = partial
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return pairKey{}, false, err
	}

	total := make(map[pairKey]int)
	for _, partial := range partials {
		for k, c := range partial {
			total[k] += c
		}
	}

	if len(total) == 0 {
		return pairKey{}, false, nil
	}

	var best pairKey
	bestCount := -1
	first := true
	for k, c := range total {
		cat, bestCat := k[0]+k[1], best[0]+best[1]
		if first || c > bestCount || (c == bestCount && (cat < bestCat || (cat == bestCat && k[0] < best[0]))) {
			best = k
			bestCount = c
			first = false
		}
	}
	return best, true, nil
}

// merge rewrites every word's token list, collapsing every adjacent
// occurrence of pair into their concatenation. Like mostFrequentPair,
// the rewrite is sharded across processes goroutines: each word's
// tokens are independent of every other word's, so shards write back
// disjoint wordEntry.tokens slices with no shared mutable state (§5:
// "step 1 and step 3 partition cleanly across the words").
func (v *Vocab) merge(ctx context.Context, pair pairKey, processes int) error {
	if processes < 1 {
		processes = 1
	}

	merged := pair[0] + pair[1]

	words := make([]*wordEntry, 0, len(v.words))
	for _, w := range v.words {
		words = append(words, w)
	}

	shardCount := processes
	if shardCount > len(words) {
		shardCount = len(words)
	}
	if shardCount < 1 {
		shardCount = 1
	}

	g, _ := errgroup.WithContext(ctx)
	for s := 0; s < shardCount; s++ {
		s := s
		g.Go(func() error {
			for i := s; i < len(words); i += shardCount {
				w := words[i]
				if len(w.tokens) < 2 {
					continue
				}
				newTokens := make([]string, 0, len(w.tokens))
				j := 0
				for j < len(w.tokens) {
					if j+1 < len(w.tokens) && w.tokens[j] == pair[0] && w.tokens[j+1] == pair[1] {
						newTokens = append(newTokens, merged)
						j += 2
					} else {
						newTokens = append(newTokens, w.tokens[j])
						j++
					}
				}
				w.tokens = newTokens
			}
			return nil
		})
	}
	return g.Wait()
}

// WordTokens returns the current token segmentation for word, useful in
// tests and for validating the induction's intermediate state.
func (v *Vocab) WordTokens(word string) ([]string, bool) {
	w, ok := v.words[word]
	if !ok {
		return nil, false
	}
	return w.tokens, true
}
