package cache

import "testing"

func TestLocalCacheMarkVisited(t *testing.T) {
	c := newLocalCache()
	ctx := t.Context()

	seen, err := c.MarkVisited(ctx, "https://example.org/a")
	if err != nil {
		t.Fatalf("MarkVisited: %v", err)
	}
	if seen {
		t.Fatalf("expected first visit to report unseen")
	}

	seen, err = c.MarkVisited(ctx, "https://example.org/a")
	if err != nil {
		t.Fatalf("MarkVisited: %v", err)
	}
	if !seen {
		t.Fatalf("expected second visit to report already seen")
	}
}

func TestLocalCacheSignature(t *testing.T) {
	c := newLocalCache()
	ctx := t.Context()

	_, found, err := c.Signature(ctx, "missing")
	if err != nil {
		t.Fatalf("Signature: %v", err)
	}
	if found {
		t.Fatalf("expected missing key to report not found")
	}

	want := []uint32{1, 2, 3, 4}
	if err := c.SetSignature(ctx, "key", want); err != nil {
		t.Fatalf("SetSignature: %v", err)
	}
	got, found, err := c.Signature(ctx, "key")
	if err != nil {
		t.Fatalf("Signature: %v", err)
	}
	if !found {
		t.Fatalf("expected key to be found")
	}
	if len(got) != len(want) {
		t.Fatalf("signature mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("signature mismatch at %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestSignatureEncodeRoundTrip(t *testing.T) {
	sig := []uint32{0, 1, 4294967295, 42}
	buf := encodeSignature(sig)
	got := decodeSignature(buf)
	if len(got) != len(sig) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(sig))
	}
	for i := range sig {
		if got[i] != sig[i] {
			t.Fatalf("mismatch at %d: got %d want %d", i, got[i], sig[i])
		}
	}
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New("bogus", ""); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
