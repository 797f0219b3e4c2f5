package bpe

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// SaveVocab writes every token in v to path as a JSON array, the format
// the Tokenizer (and the original's Tokenizer.load_vocab) expects.
func SaveVocab(v *Vocab, path string) error {
	data, err := sonic.Marshal(v.Tokens())
	if err != nil {
		return fmt.Errorf("bpe: marshal vocab: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("bpe: write vocab: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("bpe: publish vocab: %w", err)
	}
	return nil
}

// LoadVocabTokens reads a JSON array of token strings previously written
// by SaveVocab.
func LoadVocabTokens(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bpe: read vocab: %w", err)
	}
	var tokens []string
	if err := sonic.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("bpe: unmarshal vocab: %w", err)
	}
	return tokens, nil
}
