package components

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/kinopick/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeAssets(names ...string) []domain.Asset {
	assets := make([]domain.Asset, len(names))
	for i, n := range names {
		assets[i] = domain.Asset{ID: fmt.Sprint(i), Name: n}
	}
	return assets
}

func keys(g Grid, ks ...string) Grid {
	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		g, _ = g.Update(msg)
	}
	return g
}

func newTestGrid(columns int, names ...string) Grid {
	g := NewGrid(columns)
	g.SetFocused(true)
	g.SetSize(80, 30)
	g.SetAssets(makeAssets(names...))
	return g
}

func TestGridColumnsFitWidth(t *testing.T) {
	g := NewGrid(8)
	g.SetSize(2+3*MinCellWidth, 20)
	assert.Equal(t, 3, g.Columns())

	g.SetSize(5, 20)
	assert.Equal(t, 1, g.Columns())

	g = NewGrid(0)
	g.SetSize(200, 20)
	assert.Equal(t, 1, g.Columns())
}

func TestGridNavigation(t *testing.T) {
	// 3 columns, 7 items: rows [0 1 2] [3 4 5] [6]
	g := newTestGrid(3, "a", "b", "c", "d", "e", "f", "g")

	g = keys(g, "l", "l")
	assert.Equal(t, 2, g.Cursor())

	g = keys(g, "j")
	assert.Equal(t, 5, g.Cursor())

	g = keys(g, "j")
	assert.Equal(t, 6, g.Cursor(), "short last row lands on its final cell")

	g = keys(g, "j", "l")
	assert.Equal(t, 6, g.Cursor())

	g = keys(g, "k", "k")
	assert.Equal(t, 0, g.Cursor())

	g = keys(g, "l", "j")
	assert.Equal(t, 4, g.Cursor())

	g = keys(g, "G")
	assert.Equal(t, 6, g.Cursor())
	g = keys(g, "g")
	assert.Equal(t, 0, g.Cursor())

	g = keys(g, "h")
	assert.Equal(t, 0, g.Cursor())
}

func TestGridEmpty(t *testing.T) {
	g := newTestGrid(3)
	g = keys(g, "j", "l")
	_, ok := g.SelectedIndex()
	assert.False(t, ok)
	assert.True(t, g.IsEmpty())
	assert.Contains(t, g.View(), "No photos or videos")
}

func TestGridFilter(t *testing.T) {
	g := newTestGrid(3, "beach.jpg", "cat.png", "dog.jpg", "catalog.mov")

	g.ToggleFilter()
	g = keys(g, "c", "a", "t")
	assert.True(t, g.IsFilterTyping())

	idx, ok := g.SelectedIndex()
	require.True(t, ok)
	assert.Equal(t, 1, idx, "matches keep display order")

	g = keys(g, "enter", "l")
	idx, _ = g.SelectedIndex()
	assert.Equal(t, 3, idx)
	assert.Contains(t, g.View(), "[2/4]")

	// Clearing keeps the cursor on the same asset
	g = keys(g, "esc")
	assert.False(t, g.IsFiltering())
	idx, _ = g.SelectedIndex()
	assert.Equal(t, 3, idx)
}

func TestGridFilterBackspaceOnEmptyCloses(t *testing.T) {
	g := newTestGrid(3, "a.jpg")
	g.ToggleFilter()
	g = keys(g, "backspace")
	assert.False(t, g.IsFiltering())
}

func TestGridSetAssetsKeepsCursorAsset(t *testing.T) {
	g := newTestGrid(3, "a", "b", "c")
	g = keys(g, "l", "l")

	assets := makeAssets("a", "b", "c")
	reversed := []domain.Asset{assets[2], assets[1], assets[0]}
	g.SetAssets(reversed)
	a, ok := g.SelectedAsset()
	require.True(t, ok)
	assert.Equal(t, "c", a.Name)
	assert.Equal(t, 0, g.Cursor())

	g.SetAssets(makeAssets("x"))
	assert.Equal(t, 0, g.Cursor())
}

func TestGridRendersPickOrder(t *testing.T) {
	g := newTestGrid(3, "a.jpg", "b.jpg", "c.jpg")
	assets := makeAssets("a.jpg", "b.jpg", "c.jpg")
	g.SetPicks([]domain.Asset{assets[2], assets[0]})

	view := g.View()
	assert.Contains(t, view, "● 1")
	assert.Contains(t, view, "● 2")

	g.SetShowMarks(false)
	assert.NotContains(t, g.View(), "●")
}
