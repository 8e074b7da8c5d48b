package tui

import (
	"github.com/mmcdole/kinopick/internal/domain"
	"github.com/mmcdole/kinopick/internal/library"
	"github.com/mmcdole/kinopick/internal/picker"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// AssetsFetchedMsg carries a finished fetch back to the Update loop, where
// it is committed to the controller
type AssetsFetchedMsg struct {
	Ticket picker.ReloadTicket
	Assets []domain.Asset
	Err    error
}

// AlbumsLoadedMsg signals that the album list has been loaded
type AlbumsLoadedMsg struct {
	Albums []domain.Album
}

// LibraryChangedMsg signals that the watcher saw the library change
type LibraryChangedMsg struct {
	Change library.Change
}

// Delegate notifications, one message per hook

// CheckMsg reports WillCheck (Done false) or DidCheck (Done true)
type CheckMsg struct {
	Index int
	Done  bool
}

// UncheckMsg reports WillUncheck (Done false) or DidUncheck (Done true)
type UncheckMsg struct {
	Index int
	Done  bool
}

// ActivatedMsg reports an asset opened for inspection
type ActivatedMsg struct {
	Index int
}

// LoadingStartedMsg reports that a reload began
type LoadingStartedMsg struct{}

// LoadingFinishedMsg reports that a reload settled
type LoadingFinishedMsg struct{}

// ExceededMaximumMsg carries the alert copy for the selection ceiling
type ExceededMaximumMsg struct {
	Title       string
	ButtonTitle string
}

// FinishedMsg carries the picked assets in pick order
type FinishedMsg struct {
	Assets []domain.Asset
}

// CancelledMsg reports that picking was cancelled
type CancelledMsg struct{}
