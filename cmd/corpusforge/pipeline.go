package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hsn0918/corpusforge/internal/logger"
)

var pipelineWorkdir string

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run every stage in order: crawl, extract, normalize, dedup, segment, wordfreq, vocab, tokenize",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Get().Named("pipeline")

		path := func(name string) string { return filepath.Join(pipelineWorkdir, name) }

		crawlOut = path("raw.jsonl")
		crawlQueue = path("queue.txt")
		crawlArchiveDir = path("archive")
		crawlVisited = path("visited.txt")

		extractIn, extractOut = crawlOut, path("sections.jsonl")
		normalizeIn, normalizeOut = extractOut, path("normalized.jsonl")
		dedupIn, dedupOut = normalizeOut, path("deduped.jsonl")
		segmentIn, segmentOut = dedupOut, path("sentences.jsonl")
		wordfreqIn, wordfreqOut = segmentOut, path("wordfreq.json")
		vocabIn, vocabOut = wordfreqOut, path("vocab.json")
		tokenizeIn, tokenizeVocab, tokenizeOut = segmentOut, vocabOut, path("tokens.jsonl")

		stages := []struct {
			name string
			run  func(*cobra.Command, []string) error
		}{
			{"crawl", crawlCmd.RunE},
			{"extract", extractCmd.RunE},
			{"normalize", normalizeCmd.RunE},
			{"dedup", dedupCmd.RunE},
			{"segment", segmentCmd.RunE},
			{"wordfreq", wordfreqCmd.RunE},
			{"vocab", vocabCmd.RunE},
			{"tokenize", tokenizeCmd.RunE},
		}

		for _, stage := range stages {
			log.Info("pipeline: starting stage", zap.String("stage", stage.name))
			if err := stage.run(cmd, nil); err != nil {
				return fmt.Errorf("pipeline: stage %s: %w", stage.name, err)
			}
		}
		return nil
	},
}

func init() {
	pipelineCmd.Flags().StringVar(&pipelineWorkdir, "workdir", ".", "directory for every stage's intermediate and output files")
	rootCmd.AddCommand(pipelineCmd)
}
