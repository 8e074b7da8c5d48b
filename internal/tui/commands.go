package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/kinopick/internal/domain"
	"github.com/mmcdole/kinopick/internal/library"
	"github.com/mmcdole/kinopick/internal/picker"
)

// Command factories for async operations

// fetchTimeout bounds one scan of the library
const fetchTimeout = 60 * time.Second

// FetchAssetsCmd fetches assets for a reload started with BeginReload. The
// result is committed by the Update loop, never from this goroutine.
func FetchAssetsCmd(source domain.AssetSource, ticket picker.ReloadTicket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		assets, err := source.FetchAssets(ctx, ticket.Direction)
		return AssetsFetchedMsg{Ticket: ticket, Assets: assets, Err: err}
	}
}

// LoadAlbumsCmd loads the album list
func LoadAlbumsCmd(source domain.GroupedSource) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		albums, err := source.Albums(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading albums"}
		}
		return AlbumsLoadedMsg{Albums: albums}
	}
}

// WaitForEventCmd waits for the next delegate notification
func WaitForEventCmd(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WatchCmd waits for the next library change. A closed channel ends watching.
func WatchCmd(changes <-chan library.Change) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-changes
		if !ok {
			return nil
		}
		return LibraryChangedMsg{Change: change}
	}
}
