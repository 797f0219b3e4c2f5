// Package archive implements the optional raw-HTML archive (component M):
// the crawler can persist every fetched page's body under its URL so a
// later pipeline run can re-extract without re-fetching.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// Backend stores and retrieves raw HTML bodies keyed by the page URL.
type Backend interface {
	Put(ctx context.Context, url string, body []byte) error
	Get(ctx context.Context, url string) ([]byte, error)
	Exists(ctx context.Context, url string) (bool, error)
}

// New builds a Backend from the configured kind: "local" (default, a
// directory of files keyed by a content hash of the URL) or "minio"
// (object storage, for crawls shared across machines).
func New(kind string, opts Options) (Backend, error) {
	switch kind {
	case "", "local":
		return newLocalBackend(opts.LocalDir)
	case "minio":
		return newMinIOBackend(opts.MinIO)
	default:
		return nil, fmt.Errorf("archive: unknown backend %q", kind)
	}
}

// Options configures whichever backend kind is selected.
type Options struct {
	LocalDir string
	MinIO    MinIOOptions
}

// MinIOOptions configures the object-storage backend.
type MinIOOptions struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

func readAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
