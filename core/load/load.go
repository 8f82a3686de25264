// Package load is the boundary between genviz and its data sources.
// It fetches survey exports and boundary files, caches the raw documents,
// and parses them into the types the pure pipeline in core/algo consumes.
package load

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/schema"
)

// currentCacheVersion defines the version of the cached document format.
const currentCacheVersion = 1

// Loader fetches, caches and parses sources. It is safe for concurrent use
// as long as its Fetcher and CacheStore are.
type Loader struct {
	fetcher contract.Fetcher
	store   contract.CacheStore // nil disables caching
	ttl     time.Duration
}

var _ contract.DatasetLoader = &Loader{} // Compile-time check

// NewLoader builds a Loader. A nil manager or a zero ttl disables caching.
func NewLoader(fetcher contract.Fetcher, mgr contract.CacheManager, ttl time.Duration) *Loader {
	l := &Loader{fetcher: fetcher, ttl: ttl}
	if mgr != nil && ttl > 0 {
		l.store = mgr.GetSourceStore()
	}
	return l
}

// LoadDataset implements the contract.DatasetLoader interface.
func (l *Loader) LoadDataset(ctx context.Context, source string) (schema.RawDataset, error) {
	doc, err := l.fetch(ctx, source)
	if err != nil {
		return schema.RawDataset{}, err
	}
	ds, err := ParseDocument(doc)
	if err != nil {
		return schema.RawDataset{}, fmt.Errorf("parse %s: %w", describeSource(source), err)
	}
	return ds, nil
}

// LoadRegionNames implements the contract.DatasetLoader interface.
func (l *Loader) LoadRegionNames(ctx context.Context, source string) ([]string, error) {
	doc, err := l.fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	names, err := ParseRegionNames(doc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", describeSource(source), err)
	}
	return names, nil
}

// fetch returns the raw document behind source, consulting the cache first.
// Only remote sources are cached; local files are always read fresh.
func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	if l.store == nil || !contract.IsRemoteSource(source) {
		return l.fetcher.Fetch(ctx, source)
	}

	key := generateCacheKey(source)

	// Check for cache hit
	if data := checkCacheHit(l.store, key, l.ttl); data != nil {
		slog.DebugContext(ctx, "source cache hit", "source", source)
		return data, nil
	}

	// Cache miss: fetch and store
	return computeAndStore(ctx, l.fetcher, l.store, source, key)
}

// checkCacheHit attempts to retrieve and validate a cached document.
func checkCacheHit(store contract.CacheStore, key string, ttl time.Duration) []byte {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || len(data) == 0 {
		return nil
	}
	if time.Since(time.Unix(ts, 0)) > ttl {
		return nil
	}
	return data
}

// computeAndStore fetches the document and stores it in the cache.
func computeAndStore(ctx context.Context, fetcher contract.Fetcher, store contract.CacheStore, source, key string) ([]byte, error) {
	data, err := fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		slog.WarnContext(ctx, "source cache write failed", "source", source, "error", err)
	}
	return data, nil
}

// generateCacheKey creates a unique key for a source reference.
func generateCacheKey(source string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte("source:"+source)))
}
