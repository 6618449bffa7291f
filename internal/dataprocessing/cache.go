package dataprocessing

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "creditlens/internal/errors"
	"creditlens/pkg/contracts/domain"
)

// TableLoader loads a contract table from a workbook sheet.
type TableLoader interface {
	Load(ctx context.Context, path, sheet string) (*domain.Table, error)
}

// CacheObserver is notified of every cache lookup.
type CacheObserver interface {
	RecordCacheLookup(ctx context.Context, hit bool)
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	table   *domain.Table
}

// Cache memoizes loaded tables for one analysis session. An entry stays valid
// while the file's modification time and size are unchanged. Concurrent misses
// for the same source share one load.
type Cache struct {
	loader   TableLoader
	logger   *slog.Logger
	observer CacheObserver

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// NewCache wraps loader.
func NewCache(loader TableLoader, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		loader:  loader,
		logger:  logger.With(slog.String("component", "cache")),
		entries: make(map[string]cacheEntry),
	}
}

// SetObserver registers an observer for hits and misses.
func (c *Cache) SetObserver(o CacheObserver) {
	c.mu.Lock()
	c.observer = o
	c.mu.Unlock()
}

// Get returns a private copy of the table at path, loading it when the cached
// entry is missing or stale.
func (c *Cache) Get(ctx context.Context, path, sheet string) (*domain.Table, error) {
	key, info, err := c.fingerprint(path, sheet)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	observer := c.observer
	c.mu.RUnlock()

	hit := ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size()
	if observer != nil {
		observer.RecordCacheLookup(ctx, hit)
	}
	if hit {
		c.logger.DebugContext(ctx, "Cache hit", slog.String("key", key))
		return entry.table.Clone(), nil
	}

	c.logger.DebugContext(ctx, "Cache miss", slog.String("key", key))
	return c.load(ctx, key, path, sheet, info)
}

// Reload drops any cached entry for path and loads it again.
func (c *Cache) Reload(ctx context.Context, path, sheet string) (*domain.Table, error) {
	c.Invalidate(path)
	key, info, err := c.fingerprint(path, sheet)
	if err != nil {
		return nil, err
	}
	return c.load(ctx, key, path, sheet, info)
}

// Invalidate removes every entry for path, whatever the sheet.
func (c *Cache) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if keyPath(key) == abs {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// load runs one shared load per key. The load itself is detached from the
// caller's cancellation so a departing caller cannot fail the others; each
// caller still stops waiting when its own ctx is done.
func (c *Cache) load(ctx context.Context, key, path, sheet string, info os.FileInfo) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		table, err := c.loader.Load(loadCtx, path, sheet)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = cacheEntry{modTime: info.ModTime(), size: info.Size(), table: table}
		c.mu.Unlock()
		return table, nil
	})

	select {
	case <-ctx.Done():
		c.logger.DebugContext(ctx, "Stopped waiting for load", slog.String("key", key))
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.DebugContext(ctx, "Shared in-flight load", slog.String("key", key))
		}
		return res.Val.(*domain.Table).Clone(), nil
	}
}

func (c *Cache) fingerprint(path, sheet string) (string, os.FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, apperrors.NewDataLoadError(path, "invalid source path", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", nil, apperrors.NewDataLoadError(path, "source not accessible", err)
	}
	if info.IsDir() {
		return "", nil, apperrors.NewDataLoadError(path, "source is a directory", nil)
	}
	if sheet == "" {
		sheet = DefaultSheet
	}
	return abs + "\x00" + sheet, info, nil
}

func keyPath(key string) string {
	if i := strings.LastIndexByte(key, 0); i >= 0 {
		return key[:i]
	}
	return key
}
