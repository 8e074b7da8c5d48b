package domain

// Delegate receives picker notifications. Index arguments are positions in the
// displayed list. Every hook is optional: embed NoOpDelegate and override only
// what is needed.
//
// Hooks run synchronously on the goroutine that called the picker and must not
// call mutating picker methods (they get ErrReentrantCall). Read accessors are
// safe and already reflect the change being announced.
type Delegate interface {
	// ShouldCheck is consulted before a selection; false vetoes it
	ShouldCheck(index int) bool
	WillCheck(index int)
	DidCheck(index int)
	WillUncheck(index int)
	DidUncheck(index int)

	// DidActivate reports an asset opened for inspection without changing
	// the selection
	DidActivate(index int)

	// DidFinishPicking receives the picked assets in pick order
	DidFinishPicking(selected []Asset)
	DidCancel()

	LoadingStarted()
	LoadingFinished()

	// ExceededMaximum carries the configured alert copy for the host to show
	ExceededMaximum(title, buttonTitle string)

	// SortDirection is the direction the host wants for the next load
	SortDirection() SortDirection
}

// NoOpDelegate is the permissive default: every selection is allowed, the
// direction is ascending, and notifications are discarded.
type NoOpDelegate struct{}

func (NoOpDelegate) ShouldCheck(int) bool           { return true }
func (NoOpDelegate) WillCheck(int)                  {}
func (NoOpDelegate) DidCheck(int)                   {}
func (NoOpDelegate) WillUncheck(int)                {}
func (NoOpDelegate) DidUncheck(int)                 {}
func (NoOpDelegate) DidActivate(int)                {}
func (NoOpDelegate) DidFinishPicking([]Asset)       {}
func (NoOpDelegate) DidCancel()                     {}
func (NoOpDelegate) LoadingStarted()                {}
func (NoOpDelegate) LoadingFinished()               {}
func (NoOpDelegate) ExceededMaximum(string, string) {}
func (NoOpDelegate) SortDirection() SortDirection   { return SortAscending }
