package components

import (
	"testing"

	"github.com/mmcdole/kinopick/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAlbumBarCycles(t *testing.T) {
	b := NewAlbumBar()
	b.SetAlbums([]domain.Album{{Name: "", Count: 2}, {Name: "trip", Count: 3}})

	_, scoped := b.Active()
	assert.False(t, scoped)
	assert.Equal(t, "All", b.Label())

	b.Next()
	name, scoped := b.Active()
	assert.True(t, scoped)
	assert.Equal(t, "", name)
	assert.Equal(t, "(root)", b.Label())

	b.Next()
	assert.Equal(t, "trip", b.Label())

	b.Next()
	assert.Equal(t, "All", b.Label())

	b.Prev()
	assert.Equal(t, "trip", b.Label())
}

func TestAlbumBarKeepsSelectionByName(t *testing.T) {
	b := NewAlbumBar()
	b.Select("pets")
	assert.False(t, b.Known())

	b.SetAlbums([]domain.Album{{Name: "pets", Count: 1}, {Name: "trip", Count: 1}})
	assert.True(t, b.Known())
	b.Next()
	assert.Equal(t, "trip", b.Label())

	b.SetAlbums([]domain.Album{{Name: "pets", Count: 1}})
	assert.False(t, b.Known())
	b.Next()
	assert.Equal(t, "pets", b.Label(), "an unknown album moves to the first tab")
}

func TestAlbumBarView(t *testing.T) {
	b := NewAlbumBar()
	b.SetAlbums([]domain.Album{{Name: "", Count: 2}, {Name: "trip", Count: 3}})

	view := b.View()
	assert.Contains(t, view, "All 5")
	assert.Contains(t, view, "(root) 2")
	assert.Contains(t, view, "trip 3")

	b.SetWidth(10)
	assert.Contains(t, b.View(), "2 albums")
}
