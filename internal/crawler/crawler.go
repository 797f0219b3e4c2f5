// Package crawler implements the polite, restartable Wikipedia crawler
// (component B): a rate-limited BFS over wiki links that persists its
// frontier so a run can resume after a 429 or a crash.
package crawler

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hsn0918/corpusforge/internal/archive"
	"github.com/hsn0918/corpusforge/internal/record"
)

// Config collects everything the crawl loop needs, independent of where
// each piece came from (file, flag, or the pipeline config).
type Config struct {
	Seeds       []string
	QueuePath   string
	MaxPages    int
	UserAgent   string
	RefillRate  float64
	BucketLimit float64
}

// Crawler performs the BFS crawl and writes each successfully fetched
// page as a record.Raw.
type Crawler struct {
	cfg     Config
	client  *Client
	limiter *Limiter
	archive archive.Backend
	visited VisitedSet
	logger  *zap.Logger

	queue     []string
	extracted map[string]struct{}
}

// New builds a Crawler. archiveBackend may be nil when the optional
// component M is disabled; visited must not be nil (it is the only
// thing preventing the BFS from re-fetching a page across restarts).
func New(cfg Config, ar archive.Backend, visited VisitedSet, logger *zap.Logger) (*Crawler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Crawler{
		cfg:       cfg,
		client:    NewClient(cfg.UserAgent),
		limiter:   NewLimiter(cfg.RefillRate, cfg.BucketLimit),
		archive:   ar,
		visited:   visited,
		logger:    logger,
		extracted: make(map[string]struct{}),
	}

	queue, err := loadQueue(cfg.QueuePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("crawler: load queue: %w", err)
		}
		queue = append([]string(nil), cfg.Seeds...)
	}
	if len(queue) == 0 {
		queue = append([]string(nil), cfg.Seeds...)
	}

	c.queue = queue
	for _, u := range queue {
		c.extracted[u] = struct{}{}
	}

	return c, nil
}

// Run crawls up to MaxPages pages, writing each as a record.Raw via w.
// It stops early on a 429 response, persisting the remaining queue so
// the next Run picks up where this one left off (§4.B).
func (c *Crawler) Run(ctx context.Context, w *record.Writer[record.Raw]) (pagesCrawled int, err error) {
	c.logger.Info("started crawling")
	defer func() {
		if saveErr := c.saveQueue(); saveErr != nil {
			c.logger.Error("failed to persist queue", zap.Error(saveErr))
		}
	}()

	for len(c.queue) > 0 && pagesCrawled < c.cfg.MaxPages {
		select {
		case <-ctx.Done():
			return pagesCrawled, ctx.Err()
		default:
		}

		url := c.queue[0]
		c.queue = c.queue[1:]

		if c.visited != nil {
			alreadyVisited, visitErr := c.visited.Mark(ctx, url)
			if visitErr != nil {
				c.logger.Warn("visited-set check failed, crawling anyway", zap.String("url", url), zap.Error(visitErr))
			} else if alreadyVisited {
				continue
			}
		}

		if waitErr := c.limiter.Wait(ctx); waitErr != nil {
			return pagesCrawled, waitErr
		}

		result, fetchErr := c.client.Fetch(url)
		if fetchErr != nil {
			c.logger.Warn("fetch failed", zap.String("url", url), zap.Error(fetchErr))
			continue
		}
		c.logger.Info("crawled", zap.String("url", url), zap.Int("status", result.StatusCode))

		switch result.StatusCode {
		case 200:
			if err := c.scrape(ctx, w, result); err != nil {
				return pagesCrawled, err
			}
			pagesCrawled++
		case 429:
			c.logger.Info("stopping crawl: rate limited by server", zap.String("url", url))
			c.queue = append([]string{url}, c.queue...)
			return pagesCrawled, nil
		default:
			// Any other status is treated as skip-and-continue, matching
			// the original crawler's silent fallthrough.
		}
	}

	c.logger.Info("finished crawling", zap.Int("pages", pagesCrawled))
	return pagesCrawled, nil
}

func (c *Crawler) scrape(ctx context.Context, w *record.Writer[record.Raw], result FetchResult) error {
	if err := w.Write(record.Raw{URL: result.URL, HTML: result.Body}); err != nil {
		return fmt.Errorf("crawler: write record: %w", err)
	}

	if c.archive != nil {
		if err := c.archive.Put(ctx, result.URL, []byte(result.Body)); err != nil {
			c.logger.Warn("archive write failed", zap.String("url", result.URL), zap.Error(err))
		}
	}

	for _, link := range ExtractLinks(result.Body) {
		if _, seen := c.extracted[link]; seen {
			continue
		}
		c.extracted[link] = struct{}{}
		c.queue = append(c.queue, link)
	}

	return nil
}

func loadQueue(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			urls = append(urls, line)
		}
	}
	return urls, scanner.Err()
}

func (c *Crawler) saveQueue() error {
	tmp := c.cfg.QueuePath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, u := range c.queue {
		if _, err := w.WriteString(u + "\n"); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, c.cfg.QueuePath)
}
