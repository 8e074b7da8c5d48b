package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/kinopick/internal/domain"
)

// ChannelDelegate adapts domain.Delegate to a channel of tea messages.
// Sends never block; a full channel drops the notification, so the model
// applies finish, cancel and load completion from the controller directly.
type ChannelDelegate struct {
	ch        chan<- tea.Msg
	allow     func(index int) bool
	direction domain.SortDirection
}

var _ domain.Delegate = (*ChannelDelegate)(nil)

// NewChannelDelegate creates a delegate reporting on ch. allow, when set,
// decides ShouldCheck.
func NewChannelDelegate(ch chan<- tea.Msg, allow func(index int) bool) *ChannelDelegate {
	return &ChannelDelegate{ch: ch, allow: allow}
}

// SetSortDirection sets the direction returned to the controller on reload
func (d *ChannelDelegate) SetSortDirection(dir domain.SortDirection) {
	d.direction = dir
}

func (d *ChannelDelegate) send(msg tea.Msg) {
	select {
	case d.ch <- msg:
	default: // Non-blocking if channel full
	}
}

func (d *ChannelDelegate) ShouldCheck(index int) bool {
	return d.allow == nil || d.allow(index)
}

func (d *ChannelDelegate) WillCheck(index int)   { d.send(CheckMsg{Index: index}) }
func (d *ChannelDelegate) DidCheck(index int)    { d.send(CheckMsg{Index: index, Done: true}) }
func (d *ChannelDelegate) WillUncheck(index int) { d.send(UncheckMsg{Index: index}) }
func (d *ChannelDelegate) DidUncheck(index int)  { d.send(UncheckMsg{Index: index, Done: true}) }
func (d *ChannelDelegate) DidActivate(index int) { d.send(ActivatedMsg{Index: index}) }
func (d *ChannelDelegate) LoadingStarted()       { d.send(LoadingStartedMsg{}) }
func (d *ChannelDelegate) LoadingFinished()      { d.send(LoadingFinishedMsg{}) }
func (d *ChannelDelegate) DidCancel()            { d.send(CancelledMsg{}) }

func (d *ChannelDelegate) DidFinishPicking(selected []domain.Asset) {
	d.send(FinishedMsg{Assets: selected})
}

func (d *ChannelDelegate) ExceededMaximum(title, buttonTitle string) {
	d.send(ExceededMaximumMsg{Title: title, ButtonTitle: buttonTitle})
}

func (d *ChannelDelegate) SortDirection() domain.SortDirection {
	return d.direction
}
