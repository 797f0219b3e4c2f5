package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hsn0918/corpusforge/internal/logger"
	"github.com/hsn0918/corpusforge/internal/pipeline"
	"github.com/hsn0918/corpusforge/internal/record"
	"github.com/hsn0918/corpusforge/internal/segment"
)

var (
	segmentIn             string
	segmentOut            string
	segmentOmitDuplicates bool
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Split section text into sentences",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Named("segment").With(zap.String("run_id", runID))

		r := record.Open[record.Sections](segmentIn, log)
		var items []pipeline.Item[record.Sections]
		_, skipped, err := r.Each(func(lineNum int, rec record.Sections) error {
			items = append(items, pipeline.Item[record.Sections]{Line: lineNum, Rec: rec})
			return nil
		})
		if err != nil {
			return fmt.Errorf("segment: read %s: %w", segmentIn, err)
		}

		results, err := pipeline.Map(cmd.Context(), cfg.Pipeline.Processes, items,
			func(_ context.Context, _ int, rec record.Sections) (record.Sentences, error) {
				// Each worker builds its own Segmenter rather than sharing
				// one across goroutines.
				s := segment.New()
				return segment.SegmentSections(s, rec, segmentOmitDuplicates), nil
			})
		if err != nil {
			return fmt.Errorf("segment: %w", err)
		}

		w, err := record.Create[record.Sentences](segmentOut)
		if err != nil {
			return fmt.Errorf("segment: create output: %w", err)
		}
		for _, rec := range results {
			if err := w.Write(rec); err != nil {
				w.Abort()
				return fmt.Errorf("segment: write: %w", err)
			}
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("segment: %w", err)
		}

		log.Info("segment complete", zap.Int("read", len(items)), zap.Int("skipped", skipped))
		return nil
	},
}

func init() {
	segmentCmd.Flags().StringVar(&segmentIn, "in", "deduped.jsonl", "path to deduplicated section records")
	segmentCmd.Flags().StringVar(&segmentOut, "out", "sentences.jsonl", "path to write sentence records")
	segmentCmd.Flags().BoolVar(&segmentOmitDuplicates, "omit-duplicates", true, "drop sections marked as duplicates instead of segmenting the sentinel")
	rootCmd.AddCommand(segmentCmd)
}
