package styles

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors a theme assigns
type Palette struct {
	Accent     lipgloss.Color
	SlateDark  lipgloss.Color
	SlateLight lipgloss.Color
	DimGray    lipgloss.Color
	LightGray  lipgloss.Color
	White      lipgloss.Color
	Green      lipgloss.Color
	Red        lipgloss.Color
	Blue       lipgloss.Color
}

// DefaultTheme is the theme used when none is configured
const DefaultTheme = "default"

var themes = map[string]Palette{
	DefaultTheme: {
		Accent:     "#E5A00D",
		SlateDark:  "#1F2937",
		SlateLight: "#374151",
		DimGray:    "#6B7280",
		LightGray:  "#9CA3AF",
		White:      "#F9FAFB",
		Green:      "#10B981",
		Red:        "#EF4444",
		Blue:       "#3B82F6",
	},
	"ocean": {
		Accent:     "#38BDF8",
		SlateDark:  "#0F172A",
		SlateLight: "#1E3A5F",
		DimGray:    "#64748B",
		LightGray:  "#94A3B8",
		White:      "#F1F5F9",
		Green:      "#2DD4BF",
		Red:        "#F87171",
		Blue:       "#60A5FA",
	},
	"mono": {
		Accent:     "#FFFFFF",
		SlateDark:  "#111111",
		SlateLight: "#333333",
		DimGray:    "#777777",
		LightGray:  "#AAAAAA",
		White:      "#FFFFFF",
		Green:      "#DDDDDD",
		Red:        "#FFFFFF",
		Blue:       "#CCCCCC",
	},
}

// Themes returns the known theme names, sorted
func Themes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidTheme reports whether name is a known theme. Empty means the default.
func ValidTheme(name string) bool {
	_, ok := themes[themeName(name)]
	return ok
}

func themeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultTheme
	}
	return name
}

// Current palette
var (
	Accent     lipgloss.Color
	SlateDark  lipgloss.Color
	SlateLight lipgloss.Color
	DimGray    lipgloss.Color
	LightGray  lipgloss.Color
	White      lipgloss.Color
	Green      lipgloss.Color
	Red        lipgloss.Color
	Blue       lipgloss.Color
)

// Raw selection marks (unstyled)
const (
	UncheckedChar = "○"
	CheckedChar   = "●"
	PhotoChar     = "▣"
	VideoChar     = "▶"
)

// Styles, rebuilt by Use
var (
	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style

	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	DimStyle      lipgloss.Style
	AccentStyle   lipgloss.Style
	ErrorStyle    lipgloss.Style
	SuccessStyle  lipgloss.Style

	UncheckedStyle lipgloss.Style
	CheckedStyle   lipgloss.Style
	KindStyle      lipgloss.Style

	ModalStyle       lipgloss.Style
	ModalTitleStyle  lipgloss.Style
	ModalButtonStyle lipgloss.Style

	HelpKeyStyle  lipgloss.Style
	HelpDescStyle lipgloss.Style

	BadgeStyle    lipgloss.Style
	DimBadgeStyle lipgloss.Style

	// Width is set per render from the available space
	GridCellStyle       lipgloss.Style
	GridCellCursorStyle lipgloss.Style
	GridCellPickedStyle lipgloss.Style

	SpinnerStyle lipgloss.Style

	FilterStyle       lipgloss.Style
	FilterPromptStyle lipgloss.Style

	AlbumTabStyle       lipgloss.Style
	AlbumTabActiveStyle lipgloss.Style
)

func init() {
	apply(themes[DefaultTheme])
}

// Use switches every style to the named theme
func Use(name string) error {
	p, ok := themes[themeName(name)]
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(Themes(), ", "))
	}
	apply(p)
	return nil
}

func apply(p Palette) {
	Accent, SlateDark, SlateLight = p.Accent, p.SlateDark, p.SlateLight
	DimGray, LightGray, White = p.DimGray, p.LightGray, p.White
	Green, Red, Blue = p.Green, p.Red, p.Blue

	// Borders
	ActiveBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent)
	InactiveBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(DimGray)

	// Text
	TitleStyle = lipgloss.NewStyle().Foreground(White).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(LightGray)
	DimStyle = lipgloss.NewStyle().Foreground(DimGray)
	AccentStyle = lipgloss.NewStyle().Foreground(Accent)
	ErrorStyle = lipgloss.NewStyle().Foreground(Red)
	SuccessStyle = lipgloss.NewStyle().Foreground(Green)

	// Selection marks
	UncheckedStyle = lipgloss.NewStyle().Foreground(DimGray)
	CheckedStyle = lipgloss.NewStyle().Foreground(Green).Bold(true)
	KindStyle = lipgloss.NewStyle().Foreground(LightGray)

	// Modals
	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(1, 2).
		Background(SlateDark)
	ModalTitleStyle = lipgloss.NewStyle().
		Foreground(White).
		Bold(true).
		MarginBottom(1)
	ModalButtonStyle = lipgloss.NewStyle().
		Foreground(SlateDark).
		Background(Accent).
		Padding(0, 2)

	// Help
	HelpKeyStyle = lipgloss.NewStyle().Foreground(Accent)
	HelpDescStyle = lipgloss.NewStyle().Foreground(DimGray)

	// Badges
	BadgeStyle = lipgloss.NewStyle().
		Foreground(SlateDark).
		Background(Accent).
		Padding(0, 1)
	DimBadgeStyle = lipgloss.NewStyle().
		Foreground(LightGray).
		Background(SlateLight).
		Padding(0, 1)

	// Grid cells
	GridCellStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(DimGray).
		Padding(0, 1)
	GridCellCursorStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(0, 1)
	GridCellPickedStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(Green).
		Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().Foreground(Accent)

	// Filter
	FilterStyle = lipgloss.NewStyle().Foreground(Accent)
	FilterPromptStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)

	// Album bar
	AlbumTabStyle = lipgloss.NewStyle().
		Foreground(LightGray).
		Padding(0, 1)
	AlbumTabActiveStyle = lipgloss.NewStyle().
		Foreground(White).
		Background(SlateLight).
		Bold(true).
		Padding(0, 1)
}

// Helper functions

// Truncate shortens s to width display cells with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 {
		return string(runes[:1])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// Pad right-pads s with spaces to width display cells
func Pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
