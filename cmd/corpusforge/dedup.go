package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hsn0918/corpusforge/internal/cache"
	"github.com/hsn0918/corpusforge/internal/dedup"
	"github.com/hsn0918/corpusforge/internal/logger"
	"github.com/hsn0918/corpusforge/internal/record"
)

var (
	dedupIn  string
	dedupOut string
)

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Find and rewrite near-duplicate paragraphs across the corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Named("dedup").With(zap.String("run_id", runID))

		r := record.Open[record.Sections](dedupIn, log)
		var sections []record.Sections
		var paragraphs []dedup.Paragraph
		_, skipped, err := r.Each(func(lineNum int, rec record.Sections) error {
			sections = append(sections, rec)
			for i, text := range rec.TextList {
				paragraphs = append(paragraphs, dedup.Paragraph{URL: rec.URL, Index: i, Text: text})
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("dedup: read %s: %w", dedupIn, err)
		}

		d, err := dedup.New(dedup.Config{
			GramLen:             cfg.Dedup.GramLen,
			SignatureLen:        cfg.Dedup.SignatureLen,
			BandSize:            cfg.Dedup.BandSize,
			SimilarityThreshold: cfg.Dedup.SimilarityThreshold,
		})
		if err != nil {
			return fmt.Errorf("dedup: %w", err)
		}

		if cfg.Cache.Backend != "" && cfg.Cache.Backend != "none" {
			ch, err := cache.New(cfg.Cache.Backend, cfg.Cache.RedisAddr)
			if err != nil {
				return fmt.Errorf("dedup: build signature cache: %w", err)
			}
			defer ch.Close()
			d.WithSignatureCache(ch, log)
		}

		removed, err := d.FindDuplicates(cmd.Context(), paragraphs)
		if err != nil {
			return fmt.Errorf("dedup: %w", err)
		}

		rewritten := dedup.RewriteSections(sections, removed)

		w, err := record.Create[record.Sections](dedupOut)
		if err != nil {
			return fmt.Errorf("dedup: create output: %w", err)
		}
		for _, rec := range rewritten {
			if err := w.Write(rec); err != nil {
				w.Abort()
				return fmt.Errorf("dedup: write: %w", err)
			}
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("dedup: %w", err)
		}

		log.Info("dedup complete", zap.Int("read", len(sections)), zap.Int("skipped", skipped),
			zap.Int("paragraphs", len(paragraphs)), zap.Int("duplicates_marked", len(removed)))
		return nil
	},
}

func init() {
	dedupCmd.Flags().StringVar(&dedupIn, "in", "normalized.jsonl", "path to normalized section records")
	dedupCmd.Flags().StringVar(&dedupOut, "out", "deduped.jsonl", "path to write deduplicated section records")
	rootCmd.AddCommand(dedupCmd)
}
