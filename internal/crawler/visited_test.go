package crawler

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileVisitedSetMarksNewURLsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visited.txt")
	ctx := t.Context()

	v, err := NewFileVisitedSet(path)
	if err != nil {
		t.Fatalf("NewFileVisitedSet: %v", err)
	}

	alreadyVisited, err := v.Mark(ctx, "https://en.wikipedia.org/wiki/Go")
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if alreadyVisited {
		t.Fatalf("expected first Mark to report not-yet-visited")
	}

	alreadyVisited, err = v.Mark(ctx, "https://en.wikipedia.org/wiki/Go")
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if !alreadyVisited {
		t.Fatalf("expected second Mark of the same URL to report already-visited")
	}

	if err := v.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got, want := string(data), "https://en.wikipedia.org/wiki/Go\n"; got != want {
		t.Fatalf("visited file contents = %q, want %q", got, want)
	}
}

func TestFileVisitedSetLoadsExistingEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visited.txt")
	ctx := t.Context()

	if err := os.WriteFile(path, []byte("https://en.wikipedia.org/wiki/Rust\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	v, err := NewFileVisitedSet(path)
	if err != nil {
		t.Fatalf("NewFileVisitedSet: %v", err)
	}
	defer v.Close()

	alreadyVisited, err := v.Mark(ctx, "https://en.wikipedia.org/wiki/Rust")
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if !alreadyVisited {
		t.Fatalf("expected a URL loaded from the existing file to be reported as already-visited")
	}

	alreadyVisited, err = v.Mark(ctx, "https://en.wikipedia.org/wiki/Zig")
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if alreadyVisited {
		t.Fatalf("expected a brand-new URL to report not-yet-visited")
	}
}
