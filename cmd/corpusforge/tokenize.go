package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hsn0918/corpusforge/internal/bpe"
	"github.com/hsn0918/corpusforge/internal/logger"
	"github.com/hsn0918/corpusforge/internal/pipeline"
	"github.com/hsn0918/corpusforge/internal/record"
)

var (
	tokenizeIn    string
	tokenizeVocab string
	tokenizeOut   string
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize",
	Short: "Tokenize segmented sentences against an induced BPE vocabulary",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Named("tokenize").With(zap.String("run_id", runID))

		tokens, err := bpe.LoadVocabTokens(tokenizeVocab)
		if err != nil {
			return fmt.Errorf("tokenize: %w", err)
		}

		r := record.Open[record.Sentences](tokenizeIn, log)
		var items []pipeline.Item[record.Sentences]
		_, skipped, err := r.Each(func(lineNum int, rec record.Sentences) error {
			items = append(items, pipeline.Item[record.Sentences]{Line: lineNum, Rec: rec})
			return nil
		})
		if err != nil {
			return fmt.Errorf("tokenize: read %s: %w", tokenizeIn, err)
		}

		results, err := pipeline.Map(cmd.Context(), cfg.Pipeline.Processes, items,
			func(_ context.Context, _ int, rec record.Sentences) (record.Tokens, error) {
				// Each worker builds its own Tokenizer rather than sharing
				// one across goroutines.
				tok := bpe.NewTokenizer(tokens)
				out := record.Tokens{URL: rec.URL}
				for _, section := range rec.TextList {
					sectionTokens := make([][]string, len(section))
					for i, sentence := range section {
						sectionTokens[i] = tok.Tokenize(sentence)
					}
					out.TextList = append(out.TextList, sectionTokens)
				}
				return out, nil
			})
		if err != nil {
			return fmt.Errorf("tokenize: %w", err)
		}

		w, err := record.Create[record.Tokens](tokenizeOut)
		if err != nil {
			return fmt.Errorf("tokenize: create output: %w", err)
		}
		for _, rec := range results {
			if err := w.Write(rec); err != nil {
				w.Abort()
				return fmt.Errorf("tokenize: write: %w", err)
			}
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("tokenize: %w", err)
		}

		log.Info("tokenize complete", zap.Int("read", len(items)), zap.Int("skipped", skipped))
		return nil
	},
}

func init() {
	tokenizeCmd.Flags().StringVar(&tokenizeIn, "in", "sentences.jsonl", "path to sentence records")
	tokenizeCmd.Flags().StringVar(&tokenizeVocab, "vocab", "vocab.json", "path to the induced BPE vocabulary")
	tokenizeCmd.Flags().StringVar(&tokenizeOut, "out", "tokens.jsonl", "path to write tokenized records")
	rootCmd.AddCommand(tokenizeCmd)
}
