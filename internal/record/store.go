package record

import (
	"bufio"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// Reader streams records of type T from a line-delimited JSON file.
// Malformed lines are a data error per the taxonomy in §7: they are
// logged and skipped rather than aborting the whole stage.
type Reader[T any] struct {
	path   string
	logger *zap.Logger
}

// Open returns a Reader over the line-delimited JSON file at path.
func Open[T any](path string, logger *zap.Logger) *Reader[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader[T]{path: path, logger: logger}
}

// Each calls fn once per successfully decoded record, in file order. fn's
// first argument is the 1-based line number, useful for log correlation.
// Returning an error from fn aborts the read and is propagated to the
// caller; a malformed JSON line does not abort, it is skipped.
func (r *Reader[T]) Each(fn func(lineNum int, rec T) error) (read int, skipped int, err error) {
	f, err := os.Open(r.path)
	if err != nil {
		return 0, 0, fmt.Errorf("record: open %s: %w", r.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec T
		if decodeErr := sonic.Unmarshal(line, &rec); decodeErr != nil {
			skipped++
			r.logger.Warn("skipping malformed record line",
				zap.String("path", r.path), zap.Int("line", lineNum), zap.Error(decodeErr))
			continue
		}

		if err := fn(lineNum, rec); err != nil {
			return read, skipped, err
		}
		read++
	}
	if err := scanner.Err(); err != nil {
		return read, skipped, fmt.Errorf("record: scan %s: %w", r.path, err)
	}

	return read, skipped, nil
}

// Count returns the number of lines in the file, blank lines included.
func (r *Reader[T]) Count() (int, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return 0, fmt.Errorf("record: open %s: %w", r.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	n := 0
	for scanner.Scan() {
		n++
	}
	return n, scanner.Err()
}

// Writer appends records of type T to a line-delimited JSON file. It
// writes to a temporary path and renames into place on Close, so a stage
// that crashes mid-write never leaves a truncated, half-published file
// behind (§7: "do not partially write").
type Writer[T any] struct {
	finalPath string
	tmpPath   string
	f         *os.File
	w         *bufio.Writer
}

// Create opens a new Writer that publishes atomically to path on Close.
func Create[T any](path string) (*Writer[T], error) {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("record: create %s: %w", tmpPath, err)
	}
	return &Writer[T]{
		finalPath: path,
		tmpPath:   tmpPath,
		f:         f,
		w:         bufio.NewWriter(f),
	}, nil
}

// Write appends one record.
func (w *Writer[T]) Write(rec T) error {
	data, err := sonic.Marshal(rec)
	if err != nil {
		return fmt.Errorf("record: marshal: %w", err)
	}
	if _, err := w.w.Write(data); err != nil {
		return fmt.Errorf("record: write: %w", err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("record: write: %w", err)
	}
	return nil
}

// Close flushes, closes, and atomically renames the temporary file into
// place. It must be called exactly once; an error from Close means the
// final file was not published.
func (w *Writer[T]) Close() error {
	if err := w.w.Flush(); err != nil {
		w.f.Close()
		return fmt.Errorf("record: flush: %w", err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("record: close: %w", err)
	}
	if err := os.Rename(w.tmpPath, w.finalPath); err != nil {
		return fmt.Errorf("record: publish %s: %w", w.finalPath, err)
	}
	return nil
}

// Abort discards the temporary file without publishing it, for use in
// error-recovery paths where Close should not run.
func (w *Writer[T]) Abort() {
	w.f.Close()
	os.Remove(w.tmpPath)
}
