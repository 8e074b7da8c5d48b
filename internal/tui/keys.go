package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the picker
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Selection
	Toggle key.Binding
	Finish key.Binding
	Reset  key.Binding

	// Inspection
	Details key.Binding

	// Actions
	Cancel    key.Binding
	Quit      key.Binding
	Help      key.Binding
	Filter    key.Binding
	Sort      key.Binding
	Refresh   key.Binding
	NextAlbum key.Binding
	PrevAlbum key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("C-u", "half page up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("C-d", "half page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),

		// Selection
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Finish: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "done"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear picks"),
		),

		Details: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "details"),
		),

		// Actions
		Cancel: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc/q", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "flip sort"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		NextAlbum: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next album"),
		),
		PrevAlbum: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev album"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Finish, k.NextAlbum, k.Filter, k.Cancel, k.Help}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.HalfUp, k.HalfDown, k.Home, k.End},
		{k.Toggle, k.Finish, k.Reset, k.Details, k.Filter},
		{k.NextAlbum, k.PrevAlbum, k.Sort, k.Refresh, k.Cancel, k.Help},
	}
}

// singleKeyMap hides the multi-selection bindings
type singleKeyMap struct {
	KeyMap
}

func (k singleKeyMap) ShortHelp() []key.Binding {
	pick := k.Finish
	pick.SetHelp("enter", "pick")
	return []key.Binding{pick, k.NextAlbum, k.Filter, k.Cancel, k.Help}
}

func (k singleKeyMap) FullHelp() [][]key.Binding {
	pick := k.Finish
	pick.SetHelp("enter/space", "pick")
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.HalfUp, k.HalfDown, k.Home, k.End},
		{pick, k.Details, k.Filter},
		{k.NextAlbum, k.PrevAlbum, k.Sort, k.Refresh, k.Cancel, k.Help},
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
