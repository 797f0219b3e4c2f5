package dedup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/twmb/murmur3"
)

// Signature computes the MinHash signature of text: for each seed in
// [0, signatureLen), the minimum 32-bit MurmurHash3 value over every
// character n-gram of length gramLen in text. text must have at least
// gramLen characters — callers must length-filter upstream (the
// Normalizer's job, per §4.E's failure semantics).
func Signature(text string, gramLen, signatureLen int) ([]uint32, error) {
	runes := []rune(text)
	if len(runes) < gramLen {
		return nil, fmt.Errorf("dedup: text length %d is smaller than gram_len %d", len(runes), gramLen)
	}

	grams := make(map[string]struct{})
	for start := 0; start+gramLen <= len(runes); start++ {
		grams[string(runes[start:start+gramLen])] = struct{}{}
	}

	sig := make([]uint32, signatureLen)
	for seed := 0; seed < signatureLen; seed++ {
		var min uint32
		first := true
		for gram := range grams {
			h := murmur3.SeedSum32(uint32(seed), []byte(gram))
			if first || h < min {
				min = h
				first = false
			}
		}
		sig[seed] = min
	}
	return sig, nil
}

// bandHash hashes one band (a contiguous slice of a signature) into an
// LSH bucket key, using the same hash family seeded with signatureLen —
// mirroring the original's self.lsh_hash_fn = lambda x, s=signature_len.
func bandHash(band []uint32, signatureLen int) uint32 {
	return murmur3.SeedSum32(uint32(signatureLen), encodeBand(band))
}

// encodeBand renders a band the way Python's str() renders a list of
// ints — "[1, 2, 3]" — since the original hashes that textual encoding,
// not the raw bytes of the integers.
func encodeBand(band []uint32) []byte {
	parts := make([]string, len(band))
	for i, v := range band {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return []byte("[" + strings.Join(parts, ", ") + "]")
}

// jaccardFromSignatures estimates Jaccard similarity as the fraction of
// signature positions at which the two signatures agree.
func jaccardFromSignatures(a, b []uint32) float64 {
	agree := 0
	for i := range a {
		if a[i] == b[i] {
			agree++
		}
	}
	return float64(agree) / float64(len(a))
}
