package library

import (
	"context"
	"fmt"
	"slices"

	"github.com/mmcdole/kinopick/internal/domain"
)

// StaticSource serves a fixed asset list. Input order breaks creation-time ties.
type StaticSource struct {
	assets []domain.Asset
}

var _ domain.GroupedSource = (*StaticSource)(nil)

// NewStaticSource copies assets into a source
func NewStaticSource(assets []domain.Asset) *StaticSource {
	return &StaticSource{assets: slices.Clone(assets)}
}

func (s *StaticSource) FetchAssets(ctx context.Context, dir domain.SortDirection) ([]domain.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sortStatic(slices.Clone(s.assets), dir), nil
}

func (s *StaticSource) Albums(ctx context.Context) ([]domain.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return groupAlbums(s.assets), nil
}

func (s *StaticSource) Album(name string) domain.AssetSource {
	return staticAlbum{parent: s, name: name}
}

type staticAlbum struct {
	parent *StaticSource
	name   string
}

func (a staticAlbum) FetchAssets(ctx context.Context, dir domain.SortDirection) ([]domain.Asset, error) {
	all, err := a.parent.FetchAssets(ctx, dir)
	if err != nil {
		return nil, err
	}
	var out []domain.Asset
	for _, asset := range all {
		if asset.Album == a.name {
			out = append(out, asset)
		}
	}
	if out == nil && a.name != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrAlbumNotFound, a.name)
	}
	return out, nil
}

func sortStatic(assets []domain.Asset, dir domain.SortDirection) []domain.Asset {
	slices.SortStableFunc(assets, func(a, b domain.Asset) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if dir == domain.SortDescending {
			return -c
		}
		return c
	})
	return assets
}
