package library

import (
	"context"
	"log/slog"

	"github.com/mmcdole/kinopick/internal/domain"
)

const allKey = "all"

// CachedLibrary serves a Library through an AssetStore. A cached list is used
// while its stamp is not older than the library fingerprint.
type CachedLibrary struct {
	lib    *Library
	store  domain.AssetStore
	logger *slog.Logger
}

var _ domain.GroupedSource = (*CachedLibrary)(nil)

// WithCache wraps lib with store
func WithCache(lib *Library, store domain.AssetStore, logger *slog.Logger) *CachedLibrary {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedLibrary{lib: lib, store: store, logger: logger}
}

func (c *CachedLibrary) FetchAssets(ctx context.Context, dir domain.SortDirection) ([]domain.Asset, error) {
	return c.fetch(ctx, c.key(allKey), c.lib, dir)
}

// Albums is not cached; it always rescans
func (c *CachedLibrary) Albums(ctx context.Context) ([]domain.Album, error) {
	return c.lib.Albums(ctx)
}

func (c *CachedLibrary) Album(name string) domain.AssetSource {
	return &cachedAlbum{parent: c, name: name}
}

// Invalidate drops every cached list
func (c *CachedLibrary) Invalidate() {
	c.store.InvalidateAll()
	c.logger.Info("invalidated asset cache", "root", c.lib.Root())
}

// key scopes a list key to the library's scan options, so a filtered run
// never shares entries with an unfiltered one
func (c *CachedLibrary) key(list string) string {
	return c.lib.OptionsKey() + "/" + list
}

func (c *CachedLibrary) fetch(ctx context.Context, key string, src domain.FingerprintedSource, dir domain.SortDirection) ([]domain.Asset, error) {
	// 1. Freshness check
	stamp, err := src.Fingerprint(ctx)
	if err != nil {
		return nil, err
	}
	if c.store.IsValid(key, stamp) {
		if assets, ok := c.store.GetAssets(key); ok {
			c.logger.Debug("cache fresh", "key", key, "count", len(assets))
			SortAssets(assets, dir)
			return assets, nil
		}
	}

	// 2. Scan and store ascending; the requested order is applied on the way out
	c.logger.Debug("cache stale, scanning", "key", key)
	assets, err := src.FetchAssets(ctx, domain.SortAscending)
	if err != nil {
		return nil, err
	}
	if err := c.store.SaveAssets(key, assets, stamp); err != nil {
		c.logger.Error("failed to save assets", "error", err, "key", key)
	}
	SortAssets(assets, dir)
	return assets, nil
}

type cachedAlbum struct {
	parent *CachedLibrary
	name   string
}

func (a *cachedAlbum) FetchAssets(ctx context.Context, dir domain.SortDirection) ([]domain.Asset, error) {
	return a.parent.fetch(ctx, a.parent.key("album/"+a.name), a.parent.lib.album(a.name), dir)
}
