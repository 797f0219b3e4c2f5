package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hsn0918/corpusforge/internal/logger"
	"github.com/hsn0918/corpusforge/internal/normalizer"
	"github.com/hsn0918/corpusforge/internal/pipeline"
	"github.com/hsn0918/corpusforge/internal/record"
)

var (
	normalizeIn  string
	normalizeOut string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize section text and drop sections shorter than the length cutoff",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Named("normalize").With(zap.String("run_id", runID))

		r := record.Open[record.Sections](normalizeIn, log)
		var items []pipeline.Item[record.Sections]
		_, skipped, err := r.Each(func(lineNum int, rec record.Sections) error {
			items = append(items, pipeline.Item[record.Sections]{Line: lineNum, Rec: rec})
			return nil
		})
		if err != nil {
			return fmt.Errorf("normalize: read %s: %w", normalizeIn, err)
		}

		results, err := pipeline.Map(cmd.Context(), cfg.Pipeline.Processes, items,
			func(_ context.Context, _ int, rec record.Sections) (record.Sections, error) {
				normalized := make([]string, len(rec.TextList))
				for i, text := range rec.TextList {
					if !normalizer.IsValidUTF8(text) {
						normalized[i] = ""
						continue
					}
					normalized[i] = normalizer.Normalize(text)
				}
				return record.Sections{
					URL:      rec.URL,
					TextList: normalizer.FilterShort(normalized, cfg.Normalize.LenCutoff),
				}, nil
			})
		if err != nil {
			return fmt.Errorf("normalize: %w", err)
		}

		w, err := record.Create[record.Sections](normalizeOut)
		if err != nil {
			return fmt.Errorf("normalize: create output: %w", err)
		}
		for _, rec := range results {
			if err := w.Write(rec); err != nil {
				w.Abort()
				return fmt.Errorf("normalize: write: %w", err)
			}
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("normalize: %w", err)
		}

		log.Info("normalize complete", zap.Int("read", len(items)), zap.Int("skipped", skipped))
		return nil
	},
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeIn, "in", "sections.jsonl", "path to extracted section records")
	normalizeCmd.Flags().StringVar(&normalizeOut, "out", "normalized.jsonl", "path to write normalized section records")
	rootCmd.AddCommand(normalizeCmd)
}
