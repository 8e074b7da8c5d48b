package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/kinopick/internal/domain"
	"github.com/mmcdole/kinopick/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Layout constants for grid
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Each cell: border plus a mark line and a name line
	CellLines  = 2
	CellHeight = CellLines + BorderHeight

	// Narrowest cell before the grid drops a column
	MinCellWidth = 14

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// Breadcrumb line at top of content area
	BreadcrumbLines = 1
)

// Grid shows the displayed assets in columns with a movable cursor
type Grid struct {
	// Content
	assets    []domain.Asset
	picks     map[string]int // asset ID -> 1-based pick order
	showMarks bool

	// Selection
	cursor  int // position in the filtered view
	offset  int // first visible row
	columns int

	// Dimensions
	width   int
	height  int
	focused bool

	// Border title (breadcrumb)
	breadcrumb string

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into assets
}

// NewGrid creates a grid with the preferred column count
func NewGrid(columns int) Grid {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	if columns < 1 {
		columns = 1
	}
	return Grid{
		columns:     columns,
		showMarks:   true,
		filterInput: ti,
	}
}

// SetAssets replaces the content. The cursor stays on the same asset when it
// is still present, and an active filter is re-applied.
func (g *Grid) SetAssets(assets []domain.Asset) {
	var current string
	if a, ok := g.SelectedAsset(); ok {
		current = a.ID
	}

	g.assets = assets
	if g.filterQuery != "" {
		g.applyFilter()
	} else {
		g.filteredIdx = nil
	}

	g.cursor = 0
	if current != "" {
		for i := 0; i < g.itemCount(); i++ {
			if g.assets[g.mapIndex(i)].ID == current {
				g.cursor = i
				break
			}
		}
	}
	g.offset = 0
	g.ensureVisible()
}

// SetPicks records the pick order of selected assets for rendering
func (g *Grid) SetPicks(selected []domain.Asset) {
	g.picks = make(map[string]int, len(selected))
	for i, a := range selected {
		g.picks[a.ID] = i + 1
	}
}

// SetShowMarks toggles checkboxes and pick-order badges
func (g *Grid) SetShowMarks(show bool) {
	g.showMarks = show
}

// SetSize updates the component dimensions
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.ensureVisible()
}

// SetBreadcrumb sets the breadcrumb text displayed above the cells
func (g *Grid) SetBreadcrumb(crumb string) {
	g.breadcrumb = crumb
}

// SetFocused sets the focus state
func (g *Grid) SetFocused(focused bool) {
	g.focused = focused
}

// Cursor returns the cursor position in the (possibly filtered) view
func (g Grid) Cursor() int {
	return g.cursor
}

// SetCursor moves the cursor, clamped to the view
func (g *Grid) SetCursor(pos int) {
	g.cursor = clamp(pos, 0, g.itemCount()-1)
	g.ensureVisible()
}

// SelectedIndex returns the displayed-list index under the cursor
func (g Grid) SelectedIndex() (int, bool) {
	count := g.itemCount()
	if count == 0 || g.cursor >= count {
		return 0, false
	}
	return g.mapIndex(g.cursor), true
}

// SelectedAsset returns the asset under the cursor
func (g Grid) SelectedAsset() (domain.Asset, bool) {
	idx, ok := g.SelectedIndex()
	if !ok {
		return domain.Asset{}, false
	}
	return g.assets[idx], true
}

// IsEmpty returns true if there are no items in view
func (g Grid) IsEmpty() bool {
	return g.itemCount() == 0
}

// Columns returns the column count that fits the current width
func (g Grid) Columns() int {
	inner := g.width - BorderWidth
	cols := g.columns
	if fit := inner / MinCellWidth; cols > fit {
		cols = fit
	}
	if cols < 1 {
		cols = 1
	}
	return cols
}

// visibleRows is the number of cell rows that fit the current height
func (g Grid) visibleRows() int {
	interior := g.height - BorderHeight - ScrollIndicatorLines - BreadcrumbLines
	if g.filterActive {
		interior--
	}
	rows := interior / CellHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

// ensureVisible scrolls so the cursor row is on screen
func (g *Grid) ensureVisible() {
	cols := g.Columns()
	rows := g.visibleRows()
	row := g.cursor / cols
	if row < g.offset {
		g.offset = row
	}
	if row >= g.offset+rows {
		g.offset = row - rows + 1
	}
	if g.offset < 0 {
		g.offset = 0
	}
}

// ToggleFilter activates the filter input
func (g *Grid) ToggleFilter() {
	g.filterActive = true
	g.filterInput.Focus()
	g.ensureVisible()
}

// IsFiltering returns true if filter mode is active (showing filtered results)
func (g Grid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused (typing mode)
func (g Grid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (g *Grid) ClearFilter() {
	g.clearFilter()
}

func (g *Grid) clearFilter() {
	var current string
	if a, ok := g.SelectedAsset(); ok {
		current = a.ID
	}
	g.filterActive = false
	g.filterQuery = ""
	g.filteredIdx = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()

	g.cursor = 0
	for i, a := range g.assets {
		if a.ID == current {
			g.cursor = i
			break
		}
	}
	g.ensureVisible()
}

// applyFilter narrows the view to names matching the current query
func (g *Grid) applyFilter() {
	query := g.filterInput.Value()
	g.filterQuery = query

	if query == "" {
		g.filteredIdx = nil
		return
	}

	names := make([]string, len(g.assets))
	for i, a := range g.assets {
		names[i] = strings.ToLower(a.Name)
	}

	matches := fuzzy.Find(strings.ToLower(query), names)

	g.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		g.filteredIdx[i] = match.Index
	}
	// Keep chronological order rather than match rank
	slices.Sort(g.filteredIdx)

	g.cursor = 0
	g.offset = 0
}

// itemCount returns the number of items (accounting for filter)
func (g Grid) itemCount() int {
	if g.filteredIdx != nil {
		return len(g.filteredIdx)
	}
	return len(g.assets)
}

// mapIndex maps a cursor position to the actual index in the data
func (g Grid) mapIndex(i int) int {
	if g.filteredIdx != nil && i < len(g.filteredIdx) {
		return g.filteredIdx[i]
	}
	return i
}

// Init initializes the component
func (g Grid) Init() tea.Cmd {
	return nil
}

// Update handles navigation and filter input
func (g Grid) Update(msg tea.Msg) (Grid, tea.Cmd) {
	if !g.focused {
		return g, nil
	}

	// Handle filter input when active AND focused (typing mode)
	if g.filterActive && g.filterInput.Focused() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "esc":
				g.clearFilter()
				return g, nil
			case "enter":
				// Accept filter, blur input to allow navigation
				g.filterInput.Blur()
				return g, nil
			case "backspace":
				if g.filterInput.Value() == "" {
					g.clearFilter()
					return g, nil
				}
			}
		}

		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		g.applyFilter()
		return g, cmd
	}

	// Filter active but blurred: navigation over the filtered results
	if g.filterActive {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "esc":
				g.clearFilter()
				return g, nil
			case "/":
				g.filterInput.Focus()
				return g, nil
			}
		}
	}

	count := g.itemCount()
	if count == 0 {
		return g, nil
	}
	cols := g.Columns()

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "l", "right":
			if g.cursor < count-1 {
				g.cursor++
			}
		case "h", "left":
			if g.cursor > 0 {
				g.cursor--
			}
		case "j", "down":
			if g.cursor+cols < count {
				g.cursor += cols
			} else if g.cursor/cols < (count-1)/cols {
				// Short last row: land on its final cell
				g.cursor = count - 1
			}
		case "k", "up":
			if g.cursor-cols >= 0 {
				g.cursor -= cols
			}
		case "g", "home":
			g.cursor = 0
			g.offset = 0
		case "G", "end":
			g.cursor = count - 1
		case "ctrl+d", "pgdown":
			g.cursor = clamp(g.cursor+cols*max(g.visibleRows()/2, 1), 0, count-1)
		case "ctrl+u", "pgup":
			g.cursor = clamp(g.cursor-cols*max(g.visibleRows()/2, 1), 0, count-1)
		}
		g.ensureVisible()
	}

	return g, nil
}

// View renders the component
func (g Grid) View() string {
	style := styles.InactiveBorder
	if g.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()

	return style.
		Width(g.width - frameW).
		Height(g.height - frameH).
		Render(g.renderCells())
}

func (g Grid) renderCells() string {
	inner := g.width - BorderWidth

	breadcrumbLine := " "
	if g.breadcrumb != "" {
		breadcrumbLine = styles.AccentStyle.Render(styles.Truncate(g.breadcrumb, inner))
	}

	count := g.itemCount()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render("No photos or videos")
		if g.filterActive && g.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("No matches")
		}
		content := breadcrumbLine + "\n" + " " + "\n" + emptyMsg + "\n" + " "
		if g.filterActive {
			content += "\n" + g.renderFilterBar()
		}
		return content
	}

	cols := g.Columns()
	cellWidth := inner / cols
	rows := g.visibleRows()
	totalRows := (count + cols - 1) / cols

	var lines []string
	for row := g.offset; row < g.offset+rows && row < totalRows; row++ {
		var cells []string
		for col := 0; col < cols; col++ {
			i := row*cols + col
			if i >= count {
				break
			}
			cells = append(cells, g.renderCell(g.assets[g.mapIndex(i)], i == g.cursor, cellWidth))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	// ALWAYS reserve space for scroll indicators to prevent layout shifts
	header := " "
	if g.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if g.offset+rows < totalRows {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := breadcrumbLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if g.filterActive {
		content += "\n" + g.renderFilterBar()
	}
	return content
}

// renderCell draws one asset: mark, kind and date on top, name below
func (g Grid) renderCell(asset domain.Asset, cursor bool, width int) string {
	order := g.picks[asset.ID]

	style := styles.GridCellStyle
	switch {
	case cursor:
		style = styles.GridCellCursorStyle
	case order > 0 && g.showMarks:
		style = styles.GridCellPickedStyle
	}
	contentWidth := width - BorderWidth - style.GetHorizontalPadding()
	if contentWidth < 1 {
		contentWidth = 1
	}

	var top string
	if g.showMarks {
		if order > 0 {
			top = styles.CheckedStyle.Render(fmt.Sprintf("%s %d", styles.CheckedChar, order)) + " "
		} else {
			top = styles.UncheckedStyle.Render(styles.UncheckedChar) + " "
		}
	}
	kind := styles.PhotoChar
	if asset.Kind == domain.KindVideo {
		kind = styles.VideoChar
	}
	top += styles.KindStyle.Render(kind)
	if !asset.CreatedAt.IsZero() {
		date := " " + asset.CreatedAt.Format("2006-01-02")
		if lipgloss.Width(top)+lipgloss.Width(date) <= contentWidth {
			top += styles.DimStyle.Render(date)
		}
	}

	nameStyle := styles.SubtitleStyle
	if cursor {
		nameStyle = styles.TitleStyle
	}
	name := nameStyle.Render(styles.Truncate(asset.Name, contentWidth))

	return style.
		Width(width - BorderWidth).
		Render(top + "\n" + name)
}

// renderFilterBar renders the filter input bar
func (g Grid) renderFilterBar() string {
	input := g.filterInput.View()

	countStr := ""
	if g.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", g.itemCount(), len(g.assets)))
	}

	return input + countStr
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
