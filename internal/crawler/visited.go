package crawler

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/hsn0918/corpusforge/internal/cache"
)

// VisitedSet tracks which URLs this crawl has already fetched, across
// this run and every prior one, so a restarted run never re-fetches a
// page it already recorded (spec.md §6's "Visited file").
type VisitedSet interface {
	// Mark records url as visited and reports whether it was already
	// present before this call.
	Mark(ctx context.Context, url string) (alreadyVisited bool, err error)

	// Close releases any open file handle or connection.
	Close() error
}

// FileVisitedSet is the default VisitedSet: a plain-text file, one URL
// per line, no header, matching the queue file's format (§6). The whole
// file is loaded into memory once at startup; newly visited URLs are
// appended to it, never rewritten, so the file is append-only during a
// run exactly as §6 specifies.
type FileVisitedSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
	f    *os.File
}

// NewFileVisitedSet opens (creating if absent) the visited file at path
// and loads every URL already recorded in it.
func NewFileVisitedSet(path string) (*FileVisitedSet, error) {
	seen := make(map[string]struct{})

	if existing, err := os.Open(path); err == nil {
		scanner := bufio.NewScanner(existing)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				seen[line] = struct{}{}
			}
		}
		scanErr := scanner.Err()
		existing.Close()
		if scanErr != nil {
			return nil, fmt.Errorf("crawler: read visited file %s: %w", path, scanErr)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("crawler: open visited file %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("crawler: open visited file %s for append: %w", path, err)
	}

	return &FileVisitedSet{seen: seen, f: f}, nil
}

// Mark implements VisitedSet.
func (v *FileVisitedSet) Mark(_ context.Context, url string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.seen[url]; ok {
		return true, nil
	}
	v.seen[url] = struct{}{}

	if _, err := v.f.WriteString(url + "\n"); err != nil {
		return false, fmt.Errorf("crawler: append visited file: %w", err)
	}
	return false, nil
}

// Close implements VisitedSet.
func (v *FileVisitedSet) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.f.Close()
}

// RedisVisitedSet adapts the distributed cache (component N) to the
// VisitedSet contract, for a crawl sharing its visited set with other
// concurrent pipeline processes instead of a local file.
type RedisVisitedSet struct {
	cache cache.Cache
}

// NewRedisVisitedSet wraps an already-constructed cache.Cache.
func NewRedisVisitedSet(c cache.Cache) *RedisVisitedSet {
	return &RedisVisitedSet{cache: c}
}

// Mark implements VisitedSet.
func (v *RedisVisitedSet) Mark(ctx context.Context, url string) (bool, error) {
	return v.cache.MarkVisited(ctx, url)
}

// Close implements VisitedSet.
func (v *RedisVisitedSet) Close() error {
	return v.cache.Close()
}
