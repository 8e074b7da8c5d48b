package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/kinopick/internal/domain"
	"github.com/mmcdole/kinopick/internal/library"
	"github.com/mmcdole/kinopick/internal/picker"
	"github.com/mmcdole/kinopick/internal/tui/components"
	"github.com/mmcdole/kinopick/internal/tui/styles"
)

// Vertical layout: album bar on top, single footer line below the grid
const (
	AlbumBarHeight = 1
	ChromeHeight   = 1
)

// eventBuffer sizes the delegate channel. One key press produces at most a
// handful of notifications, drained between presses.
const eventBuffer = 64

// Options configures the picker surface
type Options struct {
	Picker    picker.Options
	Direction domain.SortDirection

	// Initial album; ignored unless AlbumScoped
	Album       string
	AlbumScoped bool

	GridColumns  int
	MaxAssetSize int64  // bytes; 0 = no cap
	Theme        string // styles theme name; empty = default

	// Optional watcher feed; each change triggers a reload
	Changes <-chan library.Change

	Logger *slog.Logger
}

// Model is the main Bubble Tea model for the picker
type Model struct {
	ctrl     *picker.Controller
	delegate *ChannelDelegate
	events   chan tea.Msg
	source   domain.GroupedSource
	changes  <-chan library.Change
	opts     Options
	logger   *slog.Logger

	// UI Components
	Grid    components.Grid
	Albums  components.AlbumBar
	Alert   components.AlertModal
	Spinner spinner.Model
	Help    help.Model
	keys    help.KeyMap

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// UI state
	Loading     bool
	direction   domain.SortDirection
	StatusMsg   string
	StatusIsErr bool

	// Outcome
	result    []domain.Asset
	finished  bool
	cancelled bool
}

// NewModel creates a picker over source
func NewModel(source domain.GroupedSource, opts Options) (Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := styles.Use(opts.Theme); err != nil {
		return Model{}, err
	}

	events := make(chan tea.Msg, eventBuffer)

	var ctrl *picker.Controller
	var allow func(int) bool
	if opts.MaxAssetSize > 0 {
		allow = func(index int) bool {
			asset, ok := ctrl.At(index)
			return ok && asset.Size <= opts.MaxAssetSize
		}
	}
	delegate := NewChannelDelegate(events, allow)
	delegate.SetSortDirection(opts.Direction)

	ctrl, err := picker.New(opts.Picker, picker.NewLoggingDelegate(delegate, logger), logger)
	if err != nil {
		return Model{}, err
	}

	grid := components.NewGrid(opts.GridColumns)
	grid.SetFocused(true)
	grid.SetShowMarks(opts.Picker.Mode == domain.ModeMultiple)

	albums := components.NewAlbumBar()
	if opts.AlbumScoped {
		albums.Select(opts.Album)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpDescStyle
	h.Styles.FullKey = styles.HelpKeyStyle
	h.Styles.FullDesc = styles.HelpDescStyle

	var keys help.KeyMap = Keys
	if opts.Picker.Mode == domain.ModeSingle {
		keys = singleKeyMap{Keys}
	}

	m := Model{
		ctrl:      ctrl,
		delegate:  delegate,
		events:    events,
		source:    source,
		changes:   opts.Changes,
		opts:      opts,
		logger:    logger,
		Grid:      grid,
		Albums:    albums,
		Alert:     components.NewAlertModal(),
		Spinner:   s,
		Help:      h,
		keys:      keys,
		direction: opts.Direction,
	}
	m.updateBreadcrumb()
	return m, nil
}

// Controller exposes the selection state behind the surface
func (m Model) Controller() *picker.Controller {
	return m.ctrl
}

// Result returns the picked assets after a finish, and whether the user
// cancelled instead
func (m Model) Result() (assets []domain.Asset, cancelled bool) {
	return m.result, m.cancelled
}

// Done reports whether picking ended either way
func (m Model) Done() bool {
	return m.finished || m.cancelled
}

// Init starts the first load
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.reload(),
		LoadAlbumsCmd(m.source),
		WaitForEventCmd(m.events),
		WatchCmd(m.changes),
		m.Spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case AssetsFetchedMsg:
		err := m.ctrl.CompleteReload(msg.Ticket, msg.Assets, msg.Err)
		m.Loading = m.ctrl.Loading()
		switch {
		case errors.Is(err, domain.ErrReloadSuperseded):
			// A newer reload owns the list
		case errors.Is(err, domain.ErrAlbumNotFound):
			m.setError(fmt.Sprintf("Album %q not found", m.Albums.Label()))
		case err != nil:
			m.logger.Error("reload failed", "error", err)
			m.setError(err.Error())
		default:
			m.clearStatus()
		}
		m.Grid.SetAssets(m.ctrl.Displayed())
		m.Grid.SetPicks(m.ctrl.Selected())
		m.updateBreadcrumb()
		return m, nil

	case AlbumsLoadedMsg:
		m.Albums.SetAlbums(msg.Albums)
		if !m.Albums.Known() && !m.StatusIsErr {
			m.setError(fmt.Sprintf("Album %q not found", m.Albums.Label()))
		}
		return m, nil

	case LibraryChangedMsg:
		m.logger.Info("library changed, reloading", "path", msg.Change.Path)
		cmd := m.reload()
		return m, tea.Batch(cmd, LoadAlbumsCmd(m.source), WatchCmd(m.changes))

	case ErrMsg:
		m.logger.Error("command failed", "context", msg.Context, "error", msg.Err)
		m.setError(msg.Error())
		return m, nil
	}

	// Delegate notifications: handle, then wait for the next one
	if cmd, ok := m.handleEvent(msg); ok {
		return m, tea.Batch(cmd, WaitForEventCmd(m.events))
	}
	return m, nil
}

// handleEvent applies one delegate notification. ok is false for messages
// that are not notifications.
func (m *Model) handleEvent(msg tea.Msg) (cmd tea.Cmd, ok bool) {
	switch msg := msg.(type) {
	case LoadingStartedMsg:
		m.Loading = m.ctrl.Loading()
	case LoadingFinishedMsg:
		m.Loading = m.ctrl.Loading()
	case CheckMsg, UncheckMsg:
		m.Grid.SetPicks(m.ctrl.Selected())
	case ActivatedMsg:
		if asset, ok := m.ctrl.At(msg.Index); ok {
			m.Alert.Show(asset.Name, assetDetails(asset), "Close")
		}
	case ExceededMaximumMsg:
		body := fmt.Sprintf("You can pick up to %d.", m.opts.Picker.Bounds.Max)
		m.Alert.Show(msg.Title, body, msg.ButtonTitle)
	case FinishedMsg:
		m.result = msg.Assets
		m.finished = true
		return tea.Quit, true
	case CancelledMsg:
		m.cancelled = true
		return tea.Quit, true
	default:
		return nil, false
	}
	return nil, true
}

// handleKeyMsg routes key presses
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.Quit) {
		cmd := m.cancel()
		return m, cmd
	}

	// Modal alert swallows the key that dismisses it
	if m.Alert.IsVisible() {
		m.Alert, _ = m.Alert.Update(msg)
		return m, nil
	}

	if m.Help.ShowAll {
		if key.Matches(msg, Keys.Help, Keys.Cancel) {
			m.Help.ShowAll = false
		}
		return m, nil
	}

	// Filter typing and filter dismissal belong to the grid
	if m.Grid.IsFilterTyping() || (m.Grid.IsFiltering() && msg.String() == "esc") {
		var cmd tea.Cmd
		m.Grid, cmd = m.Grid.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Help):
		m.Help.ShowAll = true
		return m, nil

	case key.Matches(msg, Keys.Cancel):
		cmd := m.cancel()
		return m, cmd

	case key.Matches(msg, Keys.Filter):
		m.Grid.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Sort):
		m.direction = m.direction.Flip()
		m.delegate.SetSortDirection(m.direction)
		m.updateBreadcrumb()
		cmd := m.reload()
		return m, cmd

	case key.Matches(msg, Keys.Refresh):
		if c, ok := m.source.(invalidator); ok {
			c.Invalidate()
		}
		cmd := m.reload()
		return m, tea.Batch(cmd, LoadAlbumsCmd(m.source))

	case key.Matches(msg, Keys.NextAlbum):
		m.Albums.Next()
		m.updateBreadcrumb()
		cmd := m.reload()
		return m, cmd

	case key.Matches(msg, Keys.PrevAlbum):
		m.Albums.Prev()
		m.updateBreadcrumb()
		cmd := m.reload()
		return m, cmd

	case key.Matches(msg, Keys.Details):
		if idx, ok := m.Grid.SelectedIndex(); ok {
			if err := m.ctrl.Activate(idx); err != nil {
				m.setError(err.Error())
			}
		}
		return m, nil

	case key.Matches(msg, Keys.Toggle, Keys.Finish, Keys.Reset):
		// Selection waits for the list to settle
		if m.ctrl.Loading() {
			return m, nil
		}
		return m.handleSelectionKey(msg)
	}

	var cmd tea.Cmd
	m.Grid, cmd = m.Grid.Update(msg)
	return m, cmd
}

// handleSelectionKey applies toggle, finish and reset according to the mode
func (m Model) handleSelectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	single := m.opts.Picker.Mode == domain.ModeSingle

	switch {
	case key.Matches(msg, Keys.Reset):
		if single {
			return m, nil
		}
		if err := m.ctrl.Reset(); err != nil {
			m.setError(err.Error())
			return m, nil
		}
		m.Grid.SetPicks(m.ctrl.Selected())
		m.setStatus("Selection cleared")
		return m, nil

	case single:
		// Space and enter both pick the cursor item and finish
		idx, ok := m.Grid.SelectedIndex()
		if !ok {
			return m, nil
		}
		asset, _ := m.ctrl.At(idx)
		if err := m.ctrl.Select(asset, idx); err != nil {
			m.handleSelectError(err, asset)
			return m, nil
		}
		cmd := m.finish()
		return m, cmd

	case key.Matches(msg, Keys.Toggle):
		idx, ok := m.Grid.SelectedIndex()
		if !ok {
			return m, nil
		}
		asset, _ := m.ctrl.At(idx)
		if err := m.ctrl.Toggle(idx); err != nil {
			m.handleSelectError(err, asset)
			return m, nil
		}
		m.Grid.SetPicks(m.ctrl.Selected())
		m.clearStatus()
		return m, nil

	default:
		cmd := m.finish()
		return m, cmd
	}
}

// finish completes the pick or explains why it cannot. The outcome is taken
// from the return value; the delegate's FinishedMsg may be dropped.
func (m *Model) finish() tea.Cmd {
	picked, err := m.ctrl.FinishPicking()
	switch {
	case errors.Is(err, domain.ErrValidationFailed):
		m.setError(fmt.Sprintf("Pick at least %d (%d picked)",
			m.opts.Picker.Bounds.Min, m.ctrl.SelectedCount()))
		return nil
	case err != nil:
		m.logger.Error("finish failed", "error", err)
		m.setError(err.Error())
		return nil
	}
	m.result = picked
	m.finished = true
	return tea.Quit
}

// cancel ends picking without a result
func (m *Model) cancel() tea.Cmd {
	m.ctrl.Cancel()
	m.cancelled = true
	return tea.Quit
}

// invalidator is a source with a cache that can be dropped
type invalidator interface {
	Invalidate()
}

// assetDetails renders the fields shown in the details panel
func assetDetails(a domain.Asset) string {
	album := a.Album
	if album == "" {
		album = "(root)"
	}
	return strings.Join([]string{
		"Path:  " + a.Path,
		"Album: " + album,
		"Kind:  " + a.Kind.String(),
		"Size:  " + a.FormattedSize(),
		"Date:  " + a.CreatedAt.Format("2006-01-02 15:04"),
	}, "\n")
}

func (m *Model) handleSelectError(err error, asset domain.Asset) {
	switch {
	case errors.Is(err, domain.ErrExceededMaximum):
		// The alert arrives as a delegate notification
	case errors.Is(err, domain.ErrSelectionVetoed):
		limit := domain.Asset{Size: m.opts.MaxAssetSize}.FormattedSize()
		m.setError(fmt.Sprintf("%s is larger than %s", asset.Name, limit))
	default:
		m.logger.Error("selection failed", "asset", asset.ID, "error", err)
		m.setError(err.Error())
	}
}

// reload begins a controller reload and returns the fetch command
func (m *Model) reload() tea.Cmd {
	ticket, err := m.ctrl.BeginReload(m.ctrl.RequestedSortDirection())
	if err != nil {
		m.logger.Error("reload refused", "error", err)
		return nil
	}
	m.Loading = true
	return FetchAssetsCmd(m.currentSource(), ticket)
}

// currentSource is the library scoped to the active album tab
func (m Model) currentSource() domain.AssetSource {
	if name, scoped := m.Albums.Active(); scoped {
		return m.source.Album(name)
	}
	return m.source
}

func (m *Model) setStatus(s string) {
	m.StatusMsg = s
	m.StatusIsErr = false
}

func (m *Model) setError(s string) {
	m.StatusMsg = s
	m.StatusIsErr = true
}

func (m *Model) clearStatus() {
	m.StatusMsg = ""
	m.StatusIsErr = false
}

func (m *Model) updateBreadcrumb() {
	order := "oldest first"
	if m.direction == domain.SortDescending {
		order = "newest first"
	}
	m.Grid.SetBreadcrumb(m.Albums.Label() + " · " + order)
}

func (m *Model) updateLayout() {
	m.Albums.SetWidth(m.Width)
	m.Help.Width = m.Width
	m.Grid.SetSize(m.Width, m.Height-AlbumBarHeight-ChromeHeight)
}

// View renders the picker
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.Albums.View(),
		m.Grid.View(),
		m.renderFooter(),
	)

	if m.Help.ShowAll {
		panel := styles.ModalStyle.Render(
			styles.ModalTitleStyle.Render("Keys") + "\n" + m.Help.View(m.keys))
		view = lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, panel)
	}

	if m.Alert.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Alert.View())
	}

	return view
}

// renderFooter renders a single-line footer: status, pick count, key hints
func (m Model) renderFooter() string {
	var left string
	if m.Loading && m.opts.Picker.ShowLoadingIndicator {
		left = m.Spinner.View() + " " + styles.DimStyle.Render("Loading...")
	} else if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}

	var center string
	if m.opts.Picker.Mode == domain.ModeMultiple {
		center = m.renderCount()
	}

	right := m.Help.ShortHelpView(m.keys.ShortHelp())

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space: drop the hints
		gap := m.Width - leftWidth - centerWidth
		if gap < 1 {
			gap = 1
		}
		return left + strings.Repeat(" ", gap) + center
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

func (m Model) renderCount() string {
	n := m.ctrl.SelectedCount()
	bounds := m.opts.Picker.Bounds

	label := fmt.Sprintf("%d picked", n)
	if !bounds.Unbounded() {
		label = fmt.Sprintf("%d/%d picked", n, bounds.Max)
	}
	if bounds.Satisfied(n) {
		return styles.BadgeStyle.Render(label)
	}
	return styles.DimBadgeStyle.Render(label)
}

// Run drives the picker until it finishes or is cancelled
func Run(m Model, opts ...tea.ProgramOption) (Model, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(m, opts...)

	m.logger.Info("starting TUI")
	final, err := p.Run()
	if err != nil {
		return m, fmt.Errorf("TUI error: %w", err)
	}
	return final.(Model), nil
}
