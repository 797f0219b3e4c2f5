package archive

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioBackend archives raw HTML as objects in a bucket, one object per
// URL, keyed the same way as localBackend so a crawl's archive is
// portable between the two.
type minioBackend struct {
	client     *minio.Client
	bucketName string
}

func newMinIOBackend(opts MinIOOptions) (*minioBackend, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("archive: create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, opts.BucketName)
	if err != nil {
		return nil, fmt.Errorf("archive: check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("archive: create bucket: %w", err)
		}
	}

	return &minioBackend{client: client, bucketName: opts.BucketName}, nil
}

func (b *minioBackend) key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:]) + ".html"
}

func (b *minioBackend) Put(ctx context.Context, url string, body []byte) error {
	_, err := b.client.PutObject(ctx, b.bucketName, b.key(url), bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "text/html; charset=utf-8",
	})
	if err != nil {
		return fmt.Errorf("archive: put %s: %w", url, err)
	}
	return nil
}

func (b *minioBackend) Get(ctx context.Context, url string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.bucketName, b.key(url), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("archive: get %s: %w", url, err)
	}
	defer obj.Close()

	data, err := readAll(obj)
	if err != nil {
		return nil, fmt.Errorf("archive: read %s: %w", url, err)
	}
	return data, nil
}

func (b *minioBackend) Exists(ctx context.Context, url string) (bool, error) {
	_, err := b.client.StatObject(ctx, b.bucketName, b.key(url), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("archive: stat %s: %w", url, err)
	}
	return true, nil
}
