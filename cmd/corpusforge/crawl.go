package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hsn0918/corpusforge/internal/archive"
	"github.com/hsn0918/corpusforge/internal/cache"
	"github.com/hsn0918/corpusforge/internal/crawler"
	"github.com/hsn0918/corpusforge/internal/logger"
	"github.com/hsn0918/corpusforge/internal/record"
)

var (
	crawlOut        string
	crawlQueue      string
	crawlArchiveDir string
	crawlVisited    string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl seed pages and their wiki links, writing raw HTML records",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Named("crawl").With(zap.String("run_id", runID))

		ar, err := archive.New(cfg.Crawl.ArchiveBackend, archive.Options{
			LocalDir: crawlArchiveDir,
			MinIO: archive.MinIOOptions{
				Endpoint:        cfg.Crawl.MinIO.Endpoint,
				AccessKeyID:     cfg.Crawl.MinIO.AccessKeyID,
				SecretAccessKey: cfg.Crawl.MinIO.SecretAccessKey,
				BucketName:      cfg.Crawl.MinIO.BucketName,
				UseSSL:          cfg.Crawl.MinIO.UseSSL,
			},
		})
		if err != nil {
			return fmt.Errorf("crawl: build archive backend: %w", err)
		}

		visited, err := newVisitedSet(cfg.Cache.Backend, cfg.Cache.RedisAddr, crawlVisited)
		if err != nil {
			return fmt.Errorf("crawl: build visited set: %w", err)
		}
		defer visited.Close()

		cr, err := crawler.New(crawler.Config{
			Seeds:       cfg.Crawl.Seeds,
			QueuePath:   crawlQueue,
			MaxPages:    cfg.Crawl.MaxPages,
			UserAgent:   cfg.Crawl.UserAgent,
			RefillRate:  cfg.Crawl.RefillRate,
			BucketLimit: cfg.Crawl.BucketLimit,
		}, ar, visited, log)
		if err != nil {
			return fmt.Errorf("crawl: build crawler: %w", err)
		}

		w, err := record.Create[record.Raw](crawlOut)
		if err != nil {
			return fmt.Errorf("crawl: create output: %w", err)
		}

		pages, runErr := cr.Run(cmd.Context(), w)
		if closeErr := w.Close(); closeErr != nil && runErr == nil {
			runErr = closeErr
		}
		if runErr != nil {
			return fmt.Errorf("crawl: %w", runErr)
		}

		log.Info("crawl complete", zap.Int("pages_crawled", pages))
		return nil
	},
}

// newVisitedSet builds the crawler's VisitedSet (component N's crawler
// side): a plain-text file (§6's "Visited file") by default, or a
// RedisVisitedSet when the cache backend is configured for "redis", so
// a fleet of crawlers can share one visited set across processes.
func newVisitedSet(cacheBackend, redisAddr, visitedPath string) (crawler.VisitedSet, error) {
	switch cacheBackend {
	case "", "none":
		return crawler.NewFileVisitedSet(visitedPath)
	case "redis":
		ch, err := cache.New(cacheBackend, redisAddr)
		if err != nil {
			return nil, fmt.Errorf("build redis cache: %w", err)
		}
		return crawler.NewRedisVisitedSet(ch), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cacheBackend)
	}
}

func init() {
	crawlCmd.Flags().StringVar(&crawlOut, "out", "raw.jsonl", "path to write raw HTML records to")
	crawlCmd.Flags().StringVar(&crawlQueue, "queue", "queue.txt", "path to the restartable crawl frontier")
	crawlCmd.Flags().StringVar(&crawlArchiveDir, "archive-dir", "archive", "directory for the local archive backend")
	crawlCmd.Flags().StringVar(&crawlVisited, "visited", "visited.txt", "path to the append-only visited-URL file")
	rootCmd.AddCommand(crawlCmd)
}
