package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/kinopick/internal/domain"
	"github.com/mmcdole/kinopick/internal/tui/styles"
)

// AllAlbums is the album bar position that shows every asset
const AllAlbums = -1

// AlbumBar is a single-line tab strip of albums, led by an "All" tab.
// The active album is tracked by name so it survives album list refreshes.
type AlbumBar struct {
	albums []domain.Album
	name   string
	scoped bool
	width  int
}

// NewAlbumBar creates an empty bar on the "All" tab
func NewAlbumBar() AlbumBar {
	return AlbumBar{}
}

// SetAlbums replaces the tabs
func (b *AlbumBar) SetAlbums(albums []domain.Album) {
	b.albums = albums
}

// Albums returns the current tabs (without "All")
func (b AlbumBar) Albums() []domain.Album {
	return b.albums
}

// Select activates the named album, even before it is listed
func (b *AlbumBar) Select(name string) {
	b.name = name
	b.scoped = true
}

// SelectAll activates the "All" tab
func (b *AlbumBar) SelectAll() {
	b.name = ""
	b.scoped = false
}

// Known reports whether the active album is in the list ("All" always is)
func (b AlbumBar) Known() bool {
	return !b.scoped || b.position() != AllAlbums
}

// position returns the index of the active album, or AllAlbums
func (b AlbumBar) position() int {
	if !b.scoped {
		return AllAlbums
	}
	for i, a := range b.albums {
		if a.Name == b.name {
			return i
		}
	}
	return AllAlbums
}

// Next advances to the following tab, wrapping back to "All"
func (b *AlbumBar) Next() {
	b.moveTo(b.position() + 1)
}

// Prev moves to the preceding tab, wrapping to the last album
func (b *AlbumBar) Prev() {
	i := b.position() - 1
	if i < AllAlbums {
		i = len(b.albums) - 1
	}
	b.moveTo(i)
}

func (b *AlbumBar) moveTo(i int) {
	if i < 0 || i >= len(b.albums) {
		b.SelectAll()
		return
	}
	b.Select(b.albums[i].Name)
}

// Active returns the active album name; scoped is false on the "All" tab
func (b AlbumBar) Active() (name string, scoped bool) {
	return b.name, b.scoped
}

// Label returns the display name of the active tab
func (b AlbumBar) Label() string {
	if !b.scoped {
		return "All"
	}
	return domain.Album{Name: b.name}.DisplayName()
}

// SetWidth sets the render width
func (b *AlbumBar) SetWidth(width int) {
	b.width = width
}

// View renders the tabs, truncated to width
func (b AlbumBar) View() string {
	total := 0
	for _, a := range b.albums {
		total += a.Count
	}

	active := b.position()
	tabs := []string{b.renderTab(fmt.Sprintf("All %d", total), !b.scoped)}
	for i, a := range b.albums {
		tabs = append(tabs, b.renderTab(fmt.Sprintf("%s %d", a.DisplayName(), a.Count), i == active))
	}

	line := strings.Join(tabs, styles.DimStyle.Render("│"))
	if b.width > 0 && lipgloss.Width(line) > b.width {
		// Fall back to the active tab alone
		line = b.renderTab(b.Label(), true) + styles.DimStyle.Render(fmt.Sprintf(" (%d albums, tab to cycle)", len(b.albums)))
	}
	return line
}

func (b AlbumBar) renderTab(label string, active bool) string {
	if active {
		return styles.AlbumTabActiveStyle.Render(label)
	}
	return styles.AlbumTabStyle.Render(label)
}
