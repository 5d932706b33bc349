// Package zstd caches fetched reference pages on disk, compressed with zstd.
//
// Pages are stored at <dir>/<first 2 hex>/<rest>.html.zst, keyed by the
// SHA-256 of the URL.
package zstd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/Marlup/gcloud-instruction-generator"
	"github.com/klauspost/compress/zstd"
)

// Ensure CachingFetcher implements igen.Fetcher at compile time.
var _ igen.Fetcher = (*CachingFetcher)(nil)

// CachingFetcher wraps a Fetcher with a compressed on-disk page cache.
// Only successful fetches are cached. It is safe for concurrent use.
type CachingFetcher struct {
	next igen.Fetcher
	dir  string
	ttl  time.Duration

	enc *zstd.Encoder
	dec *zstd.Decoder

	hits   atomic.Int64
	misses atomic.Int64

	// OnError, if set, is called when a cache entry cannot be read or
	// written. The fetch itself still succeeds.
	OnError func(url string, err error)
}

// NewCachingFetcher creates a CachingFetcher storing pages below dir.
// Entries older than ttl are fetched again; a ttl of zero never expires.
func NewCachingFetcher(next igen.Fetcher, dir string, ttl time.Duration) (*CachingFetcher, error) {
	if dir == "" {
		return nil, igen.Errorf(igen.EINVALID, "cache directory required")
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &CachingFetcher{next: next, dir: dir, ttl: ttl, enc: enc, dec: dec}, nil
}

// Path returns the cache file of url.
func (f *CachingFetcher) Path(url string) string {
	sum := sha256.Sum256([]byte(url))
	hash := hex.EncodeToString(sum[:])
	return filepath.Join(f.dir, hash[:2], hash[2:]+".html.zst")
}

// Hits returns the number of fetches served from the cache.
func (f *CachingFetcher) Hits() int {
	return int(f.hits.Load())
}

// Misses returns the number of fetches delegated to the wrapped fetcher.
func (f *CachingFetcher) Misses() int {
	return int(f.misses.Load())
}

// Fetch returns the cached page of url, or fetches and caches it.
func (f *CachingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	path := f.Path(url)
	if html, ok := f.read(url, path); ok {
		f.hits.Add(1)
		return html, nil
	}

	f.misses.Add(1)
	html, err := f.next.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	if err := f.write(path, html); err != nil {
		f.report(url, err)
	}
	return html, nil
}

// Close releases the codecs and closes the wrapped fetcher.
func (f *CachingFetcher) Close() error {
	f.dec.Close()
	if err := f.enc.Close(); err != nil {
		return err
	}
	return f.next.Close()
}

func (f *CachingFetcher) read(url, path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, iofs.ErrNotExist) {
			f.report(url, err)
		}
		return "", false
	}
	if f.ttl > 0 && time.Since(info.ModTime()) > f.ttl {
		return "", false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		f.report(url, err)
		return "", false
	}
	html, err := f.dec.DecodeAll(data, nil)
	if err != nil {
		f.report(url, err)
		return "", false
	}
	return string(html), true
}

// write stores html at path through a temporary file so that concurrent
// readers never see a partial entry.
func (f *CachingFetcher) write(path, html string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".page.*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(f.enc.EncodeAll([]byte(html), nil)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (f *CachingFetcher) report(url string, err error) {
	if f.OnError != nil {
		f.OnError(url, err)
	}
}
