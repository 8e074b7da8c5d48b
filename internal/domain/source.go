package domain

import "context"

// AssetSource supplies an ordered collection of assets.
// Implementations order by CreatedAt in the requested direction.
type AssetSource interface {
	FetchAssets(ctx context.Context, dir SortDirection) ([]Asset, error)
}

// GroupedSource is an AssetSource whose assets are grouped into albums
type GroupedSource interface {
	AssetSource

	// Albums returns every album, the root album first
	Albums(ctx context.Context) ([]Album, error)

	// Album returns a source scoped to one album
	Album(name string) AssetSource
}

// FingerprintedSource can report a freshness stamp for its content.
// A stamp never decreases while content is unchanged.
type FingerprintedSource interface {
	AssetSource
	Fingerprint(ctx context.Context) (int64, error)
}

// AssetStore caches asset lists keyed by album.
// Keys are opaque to the store; stamps come from FingerprintedSource.
type AssetStore interface {
	GetAssets(key string) ([]Asset, bool)
	SaveAssets(key string, assets []Asset, stamp int64) error

	// IsValid checks if the stored stamp >= stamp
	IsValid(key string, stamp int64) bool

	Invalidate(key string)
	InvalidateAll()

	Close() error
}
