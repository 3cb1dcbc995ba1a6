// Package blob abstracts the object store the pipeline reads snapshots
// from and writes artifacts to. The pipeline core only sees the Store
// interface; retries and transport policy live behind it.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Typed transport failures. Callers treat all of them as non-fatal for a
// single object, but a failure while loading reference data aborts the
// tour it belongs to.
var (
	ErrNotFound           = errors.New("blob: object not found")
	ErrNoCredentials      = errors.New("blob: credentials not available")
	ErrPartialCredentials = errors.New("blob: incomplete credentials provided")
)

// Store is the collaborator contract for a bucket-scoped object store.
type Store interface {
	// FetchGzipped downloads a gzip-compressed object and returns the
	// decompressed bytes.
	FetchGzipped(ctx context.Context, bucket, key string) ([]byte, error)

	// Exists probes whether an object is present without fetching it.
	Exists(ctx context.Context, bucket, key string) (bool, error)

	// Put uploads an object. Fire-and-forget from the pipeline's view.
	Put(ctx context.Context, bucket, key string, body []byte) error

	// List returns all keys under a prefix, in lexical order.
	List(ctx context.Context, bucket, prefix string) ([]string, error)
}

// gunzip decompresses a gzip payload fully into memory.
func gunzip(compressed []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip read: %w", err)
	}
	return out, nil
}

// Gzip compresses a payload; the inverse of FetchGzipped's decompression.
// Used by tests and by tooling that seeds a store.
func Gzip(plain []byte) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write(plain)
	_ = zw.Close()
	return buf.Bytes()
}
