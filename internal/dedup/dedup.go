// Package dedup implements MinHash/LSH near-duplicate paragraph
// detection (component E, CORE): signatures over character n-grams,
// a banded locality-sensitive-hash index, candidate verification under
// a "keep the first, remove later" rule, and sentinel rewriting.
package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/hsn0918/corpusforge/internal/record"
)

// Config holds the MinHash/LSH tuning parameters (§4.E).
type Config struct {
	GramLen             int
	SignatureLen        int
	BandSize            int
	SimilarityThreshold float64
}

// Validate checks the band/signature precondition: S mod R == 0.
func (c Config) Validate() error {
	if c.SignatureLen%c.BandSize != 0 {
		return fmt.Errorf("dedup: signature_len (%d) must be a multiple of band_size (%d)", c.SignatureLen, c.BandSize)
	}
	return nil
}

// Paragraph identifies one (url, index) text_list element in the global
// stream order the Deduplicator encountered it, which determines which
// member of a duplicate cluster is kept.
type Paragraph struct {
	URL   string
	Index int
	Text  string
}

// ID is the (url, paragraph-index) key used throughout the LSH index
// and the final removal set.
type ID struct {
	URL   string
	Index int
}

// SignatureCache memoizes per-paragraph MinHash signatures across runs
// over the same corpus, so a re-run after a crash or a parameter-free
// restart skips the n-gram hashing for paragraphs it has already seen.
// internal/cache.Cache satisfies it.
type SignatureCache interface {
	Signature(ctx context.Context, key string) (sig []uint32, found bool, err error)
	SetSignature(ctx context.Context, key string, sig []uint32) error
}

// Deduplicator finds near-duplicate paragraphs across an ordered stream
// of paragraphs and reports which ones to rewrite to the sentinel.
type Deduplicator struct {
	cfg    Config
	nBands int
	cache  SignatureCache
	logger *zap.Logger
}

// New builds a Deduplicator, validating the band/signature precondition.
func New(cfg Config) (*Deduplicator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Deduplicator{
		cfg:    cfg,
		nBands: cfg.SignatureLen / cfg.BandSize,
		logger: zap.NewNop(),
	}, nil
}

// WithSignatureCache attaches an optional signature memoization cache.
// A cache failure is never fatal: the signature is recomputed and the
// failure logged.
func (d *Deduplicator) WithSignatureCache(c SignatureCache, logger *zap.Logger) *Deduplicator {
	d.cache = c
	if logger != nil {
		d.logger = logger
	}
	return d
}

// cacheKey identifies a paragraph's signature in the cache: the (url,
// index) pair plus a content hash, so an edited paragraph never reuses
// a stale signature, and the signature parameters, so a cache populated
// under one configuration is invisible to another.
func (d *Deduplicator) cacheKey(p Paragraph) string {
	sum := sha256.Sum256([]byte(p.Text))
	return fmt.Sprintf("%s:%d:%s:g%d:s%d", p.URL, p.Index, hex.EncodeToString(sum[:]), d.cfg.GramLen, d.cfg.SignatureLen)
}

func (d *Deduplicator) signature(ctx context.Context, p Paragraph) ([]uint32, error) {
	if d.cache == nil {
		return Signature(p.Text, d.cfg.GramLen, d.cfg.SignatureLen)
	}

	key := d.cacheKey(p)
	if sig, found, err := d.cache.Signature(ctx, key); err != nil {
		d.logger.Warn("signature cache read failed, recomputing", zap.String("url", p.URL), zap.Int("index", p.Index), zap.Error(err))
	} else if found && len(sig) == d.cfg.SignatureLen {
		return sig, nil
	}

	sig, err := Signature(p.Text, d.cfg.GramLen, d.cfg.SignatureLen)
	if err != nil {
		return nil, err
	}
	if err := d.cache.SetSignature(ctx, key, sig); err != nil {
		d.logger.Warn("signature cache write failed", zap.String("url", p.URL), zap.Int("index", p.Index), zap.Error(err))
	}
	return sig, nil
}

// FindDuplicates runs the full MinHash → LSH → verification pipeline
// over paragraphs (which must be in global encounter order — the order
// records were read from the input file) and returns the set of IDs to
// mark as duplicates.
func (d *Deduplicator) FindDuplicates(ctx context.Context, paragraphs []Paragraph) (map[ID]bool, error) {
	signatures := make(map[ID][]uint32, len(paragraphs))
	order := make(map[ID]int, len(paragraphs))
	for i, p := range paragraphs {
		id := ID{URL: p.URL, Index: p.Index}
		sig, err := d.signature(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("dedup: signature for %s[%d]: %w", p.URL, p.Index, err)
		}
		signatures[id] = sig
		order[id] = i
	}

	candidateGroups := d.lshCandidateGroups(signatures)

	removed := make(map[ID]bool)
	for _, group := range candidateGroups {
		sort.Slice(group, func(i, j int) bool { return order[group[i]] < order[group[j]] })

		for i := 0; i < len(group); i++ {
			p1 := group[i]
			if removed[p1] {
				continue
			}
			for j := i + 1; j < len(group); j++ {
				p2 := group[j]
				if removed[p2] {
					continue
				}
				sim := jaccardFromSignatures(signatures[p1], signatures[p2])
				if sim > d.cfg.SimilarityThreshold {
					// Keep the first, remove later: p1 was encountered
					// first in global order, so p2 is the duplicate.
					removed[p2] = true
				}
			}
		}
	}

	return removed, nil
}

// lshCandidateGroups buckets every paragraph's signature by band and
// returns every bucket with 2 or more members as a candidate group. A
// paragraph may appear in more than one group across different bands.
func (d *Deduplicator) lshCandidateGroups(signatures map[ID][]uint32) [][]ID {
	buckets := make([]map[uint32][]ID, d.nBands)
	keyOrder := make([][]uint32, d.nBands)
	for b := range buckets {
		buckets[b] = make(map[uint32][]ID)
	}

	// Deterministic iteration order over the signature map keeps bucket
	// member ordering (and therefore the candidate-group construction)
	// reproducible across runs, independent of Go's randomized map
	// iteration.
	ids := make([]ID, 0, len(signatures))
	for id := range signatures {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].URL != ids[j].URL {
			return ids[i].URL < ids[j].URL
		}
		return ids[i].Index < ids[j].Index
	})

	for _, id := range ids {
		sig := signatures[id]
		for b := 0; b < d.nBands; b++ {
			start := b * d.cfg.BandSize
			end := start + d.cfg.BandSize
			key := bandHash(sig[start:end], d.cfg.SignatureLen)
			if _, seen := buckets[b][key]; !seen {
				keyOrder[b] = append(keyOrder[b], key)
			}
			buckets[b][key] = append(buckets[b][key], id)
		}
	}

	// Walk buckets in first-insertion order, not map order: the
	// verification pass skips already-marked paragraphs, so the order
	// groups are processed in affects which member of a cluster ends up
	// marked.
	var groups [][]ID
	for b := range buckets {
		for _, key := range keyOrder[b] {
			if members := buckets[b][key]; len(members) > 1 {
				groups = append(groups, members)
			}
		}
	}
	return groups
}

// RewriteSections replaces every text_list element identified in
// removed with the duplicate sentinel, leaving every other field and
// every non-marked element untouched (§4.E's rewrite step).
func RewriteSections(sections []record.Sections, removed map[ID]bool) []record.Sections {
	out := make([]record.Sections, len(sections))
	for i, s := range sections {
		newList := make([]string, len(s.TextList))
		for j, text := range s.TextList {
			if removed[ID{URL: s.URL, Index: j}] {
				newList[j] = record.DuplicateRemoved
			} else {
				newList[j] = text
			}
		}
		out[i] = record.Sections{URL: s.URL, TextList: newList}
	}
	return out
}
