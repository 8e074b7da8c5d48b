package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/kinopick/internal/domain"
	"github.com/mmcdole/kinopick/internal/library"
	"github.com/mmcdole/kinopick/internal/log"
	"github.com/mmcdole/kinopick/internal/picker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

var testAssets = []domain.Asset{
	{ID: "1", Name: "alpha.jpg", Path: "/lib/alpha.jpg", Size: 10, CreatedAt: base},
	{ID: "2", Name: "beach.mov", Path: "/lib/x/beach.mov", Album: "x", Kind: domain.KindVideo, Size: 20, CreatedAt: base.Add(time.Hour)},
	{ID: "3", Name: "cat.png", Path: "/lib/x/cat.png", Album: "x", Size: 500, CreatedAt: base.Add(2 * time.Hour)},
}

func testOptions() Options {
	return Options{
		Picker:      picker.DefaultOptions(),
		GridColumns: 4,
		Logger:      log.NullLogger(),
	}
}

// newTestModel builds a sized model with its first load and album list applied
func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	m, err := NewModel(library.NewStaticSource(testAssets), opts)
	require.NoError(t, err)

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	cmd := m.reload()
	m = pump(t, m)
	m = run(t, m, tea.Batch(cmd, LoadAlbumsCmd(m.source)))
	require.False(t, m.Loading)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// pump feeds pending delegate notifications through Update
func pump(t *testing.T, m Model) Model {
	t.Helper()
	for {
		select {
		case msg := <-m.events:
			m = update(t, m, msg)
		default:
			return m
		}
	}
}

// run executes cmd (expanding batches) and applies the resulting messages
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = run(t, m, c)
		}
		return m
	}
	m = update(t, m, msg)
	return pump(t, m)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends keys and settles the commands they start
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = pump(t, next.(Model))
		m = run(t, m, cmd)
	}
	return m
}

func ids(assets []domain.Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.ID
	}
	return out
}

func TestLoadFillsGrid(t *testing.T) {
	m := newTestModel(t, testOptions())

	assert.Equal(t, []string{"1", "2", "3"}, ids(m.Controller().Displayed()))
	assert.False(t, m.Grid.IsEmpty())
	assert.Len(t, m.Albums.Albums(), 2)
	assert.Contains(t, m.View(), "alpha.jpg")
	assert.Contains(t, m.View(), "0 picked")
}

func TestMultiplePickAndFinish(t *testing.T) {
	m := newTestModel(t, testOptions())

	m = press(t, m, "l", "l", " ", "h", "h", " ")
	assert.Equal(t, []string{"3", "1"}, ids(m.Controller().Selected()))
	assert.Contains(t, m.View(), "2 picked")

	m = press(t, m, "enter")
	require.True(t, m.Done())
	result, cancelled := m.Result()
	assert.False(t, cancelled)
	assert.Equal(t, []string{"3", "1"}, ids(result), "pick order is kept")
}

func TestToggleUnpicks(t *testing.T) {
	m := newTestModel(t, testOptions())

	m = press(t, m, " ", " ")
	assert.Zero(t, m.Controller().SelectedCount())
}

func TestFinishBelowMinimumShowsStatus(t *testing.T) {
	opts := testOptions()
	opts.Picker.Bounds = domain.Bounds{Min: 2, Max: domain.Unlimited}
	m := newTestModel(t, opts)

	m = press(t, m, " ", "enter")
	assert.False(t, m.Done())
	assert.True(t, m.StatusIsErr)
	assert.Equal(t, "Pick at least 2 (1 picked)", m.StatusMsg)

	m = press(t, m, "l", " ", "enter")
	assert.True(t, m.Done())
}

func TestExceededMaximumShowsAlert(t *testing.T) {
	opts := testOptions()
	opts.Picker.Bounds = domain.Bounds{Max: 1}
	opts.Picker.AlertTitle = "Too many"
	opts.Picker.AlertButtonTitle = "Got it"
	m := newTestModel(t, opts)

	m = press(t, m, " ", "l", " ")
	require.True(t, m.Alert.IsVisible())
	assert.Equal(t, "Too many", m.Alert.Title())
	assert.Contains(t, m.View(), "Got it")
	assert.Equal(t, 1, m.Controller().SelectedCount())

	// The dismissing key does nothing else
	m = press(t, m, "h")
	assert.False(t, m.Alert.IsVisible())
	assert.Equal(t, 1, m.Grid.Cursor())
}

func TestSingleModePicksImmediately(t *testing.T) {
	opts := testOptions()
	opts.Picker.Mode = domain.ModeSingle
	m := newTestModel(t, opts)
	assert.NotContains(t, m.View(), "picked", "no counter in single mode")

	m = press(t, m, "l", "enter")
	require.True(t, m.Done())
	result, _ := m.Result()
	assert.Equal(t, []string{"2"}, ids(result))

	m = newTestModel(t, opts)
	m = press(t, m, " ")
	require.True(t, m.Done())
	result, _ = m.Result()
	assert.Equal(t, []string{"1"}, ids(result))
}

func TestCancelKeys(t *testing.T) {
	for _, k := range []string{"esc", "q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := newTestModel(t, testOptions())
			m = press(t, m, " ", k)
			require.True(t, m.Done())
			result, cancelled := m.Result()
			assert.True(t, cancelled)
			assert.Nil(t, result)
		})
	}
}

func TestSelectionIgnoredWhileLoading(t *testing.T) {
	m := newTestModel(t, testOptions())

	// Start a reload but hold back its fetch result
	next, cmd := m.Update(keyMsg("s"))
	m = pump(t, next.(Model))
	require.True(t, m.Loading)

	m = press(t, m, " ", "enter")
	assert.Zero(t, m.Controller().SelectedCount())
	assert.False(t, m.Done())

	m = run(t, m, cmd)
	assert.False(t, m.Loading)
	assert.Equal(t, []string{"3", "2", "1"}, ids(m.Controller().Displayed()))
}

func TestSortFlipKeepsPicks(t *testing.T) {
	m := newTestModel(t, testOptions())

	m = press(t, m, " ", "s")
	assert.Equal(t, []string{"3", "2", "1"}, ids(m.Controller().Displayed()))
	assert.Equal(t, []string{"1"}, ids(m.Controller().Selected()))
	assert.Contains(t, m.View(), "newest first")

	asset, ok := m.Grid.SelectedAsset()
	require.True(t, ok)
	assert.Equal(t, "1", asset.ID, "cursor follows its asset across reloads")
}

func TestAlbumCycling(t *testing.T) {
	m := newTestModel(t, testOptions())

	m = press(t, m, "tab")
	assert.Equal(t, []string{"1"}, ids(m.Controller().Displayed()), "root album")

	m = press(t, m, "tab")
	assert.Equal(t, []string{"2", "3"}, ids(m.Controller().Displayed()))
	assert.Contains(t, m.View(), "x · oldest first")

	m = press(t, m, "tab")
	assert.Len(t, m.Controller().Displayed(), 3, "wraps to All")

	m = press(t, m, "shift+tab")
	name, scoped := m.Albums.Active()
	assert.True(t, scoped)
	assert.Equal(t, "x", name)
}

func TestAlbumSwitchDropsHiddenPicks(t *testing.T) {
	m := newTestModel(t, testOptions())

	m = press(t, m, " ", "tab", "tab")
	assert.Zero(t, m.Controller().SelectedCount())
}

func TestInitialUnknownAlbum(t *testing.T) {
	opts := testOptions()
	opts.Album = "missing"
	opts.AlbumScoped = true
	m := newTestModel(t, opts)

	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.StatusMsg, "missing")
	assert.Empty(t, m.Controller().Displayed())
}

func TestSizeCapVetoes(t *testing.T) {
	opts := testOptions()
	opts.MaxAssetSize = 100
	m := newTestModel(t, opts)

	m = press(t, m, "l", "l", " ")
	assert.Zero(t, m.Controller().SelectedCount())
	assert.True(t, m.StatusIsErr)
	assert.Contains(t, m.StatusMsg, "cat.png is larger than")

	m = press(t, m, "h", " ")
	assert.Equal(t, 1, m.Controller().SelectedCount())
}

func TestResetClearsPicks(t *testing.T) {
	m := newTestModel(t, testOptions())

	m = press(t, m, " ", "l", " ", "x")
	assert.Zero(t, m.Controller().SelectedCount())
	assert.Equal(t, "Selection cleared", m.StatusMsg)
}

func TestFilterCapturesKeys(t *testing.T) {
	m := newTestModel(t, testOptions())

	m = press(t, m, "/", "c", "a", "q")
	assert.False(t, m.Done(), "q is typed into the filter")
	assert.True(t, m.Grid.IsFilterTyping())

	m = press(t, m, "esc")
	assert.False(t, m.Grid.IsFiltering())
	assert.False(t, m.Done(), "esc clears the filter before it cancels")

	m = press(t, m, "/", "c", "a", "t", "enter", " ")
	assert.Equal(t, []string{"3"}, ids(m.Controller().Selected()))
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, testOptions())

	m = press(t, m, "?")
	assert.True(t, m.Help.ShowAll)
	assert.Contains(t, m.View(), "clear picks")

	m = press(t, m, " ", "?")
	assert.False(t, m.Help.ShowAll)
	assert.Zero(t, m.Controller().SelectedCount(), "keys are swallowed while help is open")
}

func TestLibraryChangeReloads(t *testing.T) {
	changes := make(chan library.Change, 1)
	opts := testOptions()
	opts.Changes = changes
	m := newTestModel(t, opts)

	next, cmd := m.Update(LibraryChangedMsg{Change: library.Change{Path: "/lib/new.jpg"}})
	m = pump(t, next.(Model))
	assert.True(t, m.Loading)
	require.NotNil(t, cmd)
}

func TestInvalidOptionsRejected(t *testing.T) {
	opts := testOptions()
	opts.Picker.Mode = domain.ModeSingle
	opts.Picker.Bounds = domain.Bounds{Min: 2, Max: domain.Unlimited}
	_, err := NewModel(library.NewStaticSource(nil), opts)
	assert.Error(t, err)
}

// fillEvents saturates the delegate channel so further notifications drop
func fillEvents(m Model) {
	for len(m.events) < cap(m.events) {
		m.events <- CheckMsg{}
	}
}

func TestCancelWithFullEventBuffer(t *testing.T) {
	for _, k := range []string{"esc", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := newTestModel(t, testOptions())
			fillEvents(m)

			next, cmd := m.Update(keyMsg(k))
			m = next.(Model)
			require.True(t, m.Done())
			_, cancelled := m.Result()
			assert.True(t, cancelled)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestFinishWithFullEventBuffer(t *testing.T) {
	m := newTestModel(t, testOptions())
	m = press(t, m, "l", " ")
	fillEvents(m)

	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)
	require.True(t, m.Done())
	result, cancelled := m.Result()
	assert.False(t, cancelled)
	assert.Equal(t, []string{"2"}, ids(result))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestLoadingSettlesWithFullEventBuffer(t *testing.T) {
	m := newTestModel(t, testOptions())
	fillEvents(m)

	next, cmd := m.Update(keyMsg("s"))
	m = next.(Model)
	require.True(t, m.Loading)

	m = update(t, m, cmd())
	assert.False(t, m.Loading, "the dropped LoadingFinished does not leave the spinner running")
	assert.Equal(t, []string{"3", "2", "1"}, ids(m.Controller().Displayed()))
}

func TestDetailsKeyShowsAsset(t *testing.T) {
	m := newTestModel(t, testOptions())

	next, _ := m.Update(keyMsg("l"))
	next, _ = next.(Model).Update(keyMsg("i"))
	m = next.(Model)
	require.Len(t, m.events, 1)
	msg := <-m.events
	assert.Equal(t, ActivatedMsg{Index: 1}, msg, "activation emits no check events")

	m = update(t, m, msg)
	require.True(t, m.Alert.IsVisible())
	assert.Equal(t, "beach.mov", m.Alert.Title())
	view := m.View()
	assert.Contains(t, view, "/lib/x/beach.mov")
	assert.Contains(t, view, "1 KB")
	assert.Contains(t, view, "2024-03-01 10:00")

	m = press(t, m, " ")
	assert.False(t, m.Alert.IsVisible())
	assert.Zero(t, m.Controller().SelectedCount(), "the dismissing key is swallowed")
}

// cachedStatic is a static source with a droppable cache
type cachedStatic struct {
	*library.StaticSource
	invalidated int
}

func (c *cachedStatic) Invalidate() { c.invalidated++ }

func TestRefreshInvalidatesCache(t *testing.T) {
	src := &cachedStatic{StaticSource: library.NewStaticSource(testAssets)}
	m, err := NewModel(src, testOptions())
	require.NoError(t, err)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m = press(t, m, "r")
	assert.Equal(t, 1, src.invalidated)
	assert.False(t, m.Loading)
	assert.Len(t, m.Controller().Displayed(), 3)
}

func TestLoadingIndicatorFlag(t *testing.T) {
	shown := newTestModel(t, testOptions())
	next, _ := shown.Update(keyMsg("s"))
	shown = next.(Model)
	require.True(t, shown.Loading)
	assert.Contains(t, shown.View(), "Loading...")

	opts := testOptions()
	opts.Picker.ShowLoadingIndicator = false
	hidden := newTestModel(t, opts)
	next, _ = hidden.Update(keyMsg("s"))
	hidden = next.(Model)
	require.True(t, hidden.Loading)
	assert.NotContains(t, hidden.View(), "Loading...")
}

func TestThemeOption(t *testing.T) {
	opts := testOptions()
	opts.Theme = "neon"
	_, err := NewModel(library.NewStaticSource(testAssets), opts)
	assert.Error(t, err)
}
