package picker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/kinopick/internal/domain"
)

var errUnknownTicket = errors.New("unknown or already completed reload ticket")

// Options configures a Controller
type Options struct {
	Mode   domain.Mode
	Bounds domain.Bounds

	// Copy handed to the delegate when the selection ceiling is hit
	AlertTitle       string
	AlertButtonTitle string

	// Advisory to the host surface; the controller does not interpret it
	ShowLoadingIndicator bool
}

// DefaultOptions returns multiple-selection options with no bounds
func DefaultOptions() Options {
	return Options{
		Mode:                 domain.ModeMultiple,
		Bounds:               domain.Bounds{Max: domain.Unlimited},
		AlertTitle:           "Selection limit reached",
		AlertButtonTitle:     "OK",
		ShowLoadingIndicator: true,
	}
}

// Validate checks bounds against the mode
func (o Options) Validate() error {
	if err := o.Bounds.Validate(); err != nil {
		return err
	}
	if o.Mode == domain.ModeSingle && o.Bounds.Min > 1 {
		return fmt.Errorf("single mode cannot require %d selections", o.Bounds.Min)
	}
	return nil
}

// ReloadTicket identifies one reload between BeginReload and CompleteReload
type ReloadTicket struct {
	gen       uint64
	Direction domain.SortDirection
}

// Controller is the selection state machine behind a picker surface.
// It owns the displayed and selected lists, enforces mode and bounds, and
// notifies its delegate of every state change.
//
// Mutating calls must not overlap. A call made while another mutation is in
// progress (typically a delegate hook calling back in) returns
// ErrReentrantCall and changes nothing.
type Controller struct {
	opts   Options
	logger *slog.Logger

	mu        sync.Mutex
	delegate  domain.Delegate
	busy      bool
	displayed []domain.Asset
	selected  []domain.Asset // pick order
	loading   bool
	gen       uint64
	pending   map[uint64]struct{}
}

// New creates a controller with empty lists. A nil delegate is permissive.
func New(opts Options, delegate domain.Delegate, logger *slog.Logger) (*Controller, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid picker options: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if delegate == nil {
		delegate = domain.NoOpDelegate{}
	}
	return &Controller{
		opts:     opts,
		logger:   logger,
		delegate: delegate,
		pending:  make(map[uint64]struct{}),
	}, nil
}

// SetDelegate replaces the delegate. nil restores the permissive default.
func (c *Controller) SetDelegate(d domain.Delegate) {
	if d == nil {
		d = domain.NoOpDelegate{}
	}
	c.mu.Lock()
	c.delegate = d
	c.mu.Unlock()
}

// Options returns the configuration the controller was built with
func (c *Controller) Options() Options {
	return c.opts
}

// === Accessors (safe from inside delegate hooks) ===

// Loading reports whether a reload is in flight
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Displayed returns a copy of the displayed list
func (c *Controller) Displayed() []domain.Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneAssets(c.displayed)
}

// At returns the displayed asset at index
func (c *Controller) At(index int) (domain.Asset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.displayed) {
		return domain.Asset{}, false
	}
	return c.displayed[index], true
}

// Selected returns a copy of the selected list in pick order
func (c *Controller) Selected() []domain.Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneAssets(c.selected)
}

// SelectedCount returns the number of picked assets
func (c *Controller) SelectedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.selected)
}

// IsSelected reports whether asset is picked
func (c *Controller) IsSelected(asset domain.Asset) bool {
	return c.SelectionIndex(asset) > 0
}

// SelectionIndex returns the 1-based pick order of asset, or 0 if not picked
func (c *Controller) SelectionIndex(asset domain.Asset) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.IndexOf(c.selected, asset) + 1
}

// CanFinish reports whether the selection meets the configured minimum
func (c *Controller) CanFinish() bool {
	return c.opts.Bounds.Satisfied(c.SelectedCount())
}

// RequestedSortDirection asks the delegate which direction to load in
func (c *Controller) RequestedSortDirection() domain.SortDirection {
	return c.currentDelegate().SortDirection()
}

// === Loading lifecycle ===

// Reload replaces the displayed list with the source's assets in dir order.
// The delegate sees LoadingStarted, then LoadingFinished once the list has
// settled, whether or not the fetch succeeded.
func (c *Controller) Reload(ctx context.Context, source domain.AssetSource, dir domain.SortDirection) error {
	ticket, err := c.BeginReload(dir)
	if err != nil {
		return err
	}
	assets, fetchErr := source.FetchAssets(ctx, dir)
	return c.CompleteReload(ticket, assets, fetchErr)
}

// BeginReload enters the loading phase. The returned ticket must be passed to
// exactly one CompleteReload.
func (c *Controller) BeginReload(dir domain.SortDirection) (ReloadTicket, error) {
	if err := c.acquire(); err != nil {
		return ReloadTicket{}, err
	}
	defer c.release()

	c.mu.Lock()
	c.gen++
	ticket := ReloadTicket{gen: c.gen, Direction: dir}
	c.pending[ticket.gen] = struct{}{}
	c.loading = true
	d := c.delegate
	c.mu.Unlock()

	c.logger.Debug("reload started", "gen", ticket.gen, "direction", dir.String())
	d.LoadingStarted()
	return ticket, nil
}

// CompleteReload commits the result of a fetch started by BeginReload.
// On a fetch error the displayed list is left untouched. If a newer reload has
// begun since the ticket was issued, the assets are discarded and
// ErrReloadSuperseded is returned. Selections no longer displayed are dropped.
func (c *Controller) CompleteReload(ticket ReloadTicket, assets []domain.Asset, fetchErr error) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.release()

	c.mu.Lock()
	if _, ok := c.pending[ticket.gen]; !ok {
		c.mu.Unlock()
		return errUnknownTicket
	}
	delete(c.pending, ticket.gen)

	var result error
	switch {
	case fetchErr != nil:
		result = fmt.Errorf("loading assets: %w", fetchErr)
	case ticket.gen != c.gen:
		result = domain.ErrReloadSuperseded
	default:
		before := len(c.selected)
		c.displayed = cloneAssets(assets)
		c.selected = pruneSelection(c.selected, c.displayed)
		if dropped := before - len(c.selected); dropped > 0 {
			c.logger.Debug("dropped stale selections", "count", dropped)
		}
	}
	c.loading = len(c.pending) > 0
	count := len(c.displayed)
	d := c.delegate
	c.mu.Unlock()

	if result != nil {
		c.logger.Warn("reload not applied", "gen", ticket.gen, "error", result)
	} else {
		c.logger.Debug("reload finished", "gen", ticket.gen, "count", count)
	}
	d.LoadingFinished()
	return result
}

// === Selection ===

// Toggle selects the asset at index if it is not picked, otherwise deselects it
func (c *Controller) Toggle(index int) error {
	c.mu.Lock()
	if index < 0 || index >= len(c.displayed) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d", domain.ErrInvalidIndex, index)
	}
	asset := c.displayed[index]
	picked := domain.IndexOf(c.selected, asset) >= 0
	c.mu.Unlock()

	if picked {
		return c.Deselect(asset, index)
	}
	return c.Select(asset, index)
}

// Select picks asset, which must be displayed at index.
//
// Constraints are checked before anything changes: the ceiling (the delegate
// gets ExceededMaximum and ErrExceededMaximum is returned) and then the
// delegate's ShouldCheck (ErrSelectionVetoed). In single mode a previous pick
// is replaced and announced with WillUncheck/DidUncheck before the new
// WillCheck/DidCheck. Selecting an already picked asset does nothing.
func (c *Controller) Select(asset domain.Asset, index int) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.release()

	c.mu.Lock()
	if err := c.checkIndexLocked(asset, index); err != nil {
		c.mu.Unlock()
		return err
	}
	if domain.IndexOf(c.selected, asset) >= 0 {
		c.mu.Unlock()
		return nil
	}
	asset = c.displayed[index]
	count := len(c.selected)
	replaceIdx := -1
	var replaced domain.Asset
	if c.opts.Mode == domain.ModeSingle && count > 0 {
		replaced = c.selected[0]
		replaceIdx = domain.IndexOf(c.displayed, replaced)
		count = 0
	}
	d := c.delegate
	c.mu.Unlock()

	if !c.opts.Bounds.Allows(count) {
		c.logger.Debug("selection rejected at maximum", "index", index, "max", c.opts.Bounds.Max)
		d.ExceededMaximum(c.opts.AlertTitle, c.opts.AlertButtonTitle)
		return domain.ErrExceededMaximum
	}
	if !d.ShouldCheck(index) {
		c.logger.Debug("selection vetoed", "index", index)
		return domain.ErrSelectionVetoed
	}

	if replaceIdx >= 0 {
		d.WillUncheck(replaceIdx)
		c.mu.Lock()
		c.selected = removeAsset(c.selected, replaced)
		c.mu.Unlock()
		d.DidUncheck(replaceIdx)
	}

	d.WillCheck(index)
	c.mu.Lock()
	c.selected = append(c.selected, asset)
	c.mu.Unlock()
	d.DidCheck(index)
	return nil
}

// Deselect unpicks asset, which must be displayed at index. The minimum is not
// enforced here; it only gates FinishPicking.
func (c *Controller) Deselect(asset domain.Asset, index int) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.release()

	c.mu.Lock()
	if err := c.checkIndexLocked(asset, index); err != nil {
		c.mu.Unlock()
		return err
	}
	if domain.IndexOf(c.selected, asset) < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrNotSelected, asset.ID)
	}
	d := c.delegate
	c.mu.Unlock()

	d.WillUncheck(index)
	c.mu.Lock()
	c.selected = removeAsset(c.selected, asset)
	c.mu.Unlock()
	d.DidUncheck(index)
	return nil
}

// Reset clears the selection without notifying the delegate
func (c *Controller) Reset() error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.release()

	c.mu.Lock()
	n := len(c.selected)
	c.selected = nil
	c.mu.Unlock()

	c.logger.Debug("selection reset", "cleared", n)
	return nil
}

// Activate reports that the asset at index was opened for a closer look,
// for example a preview or details panel. The selection does not change.
func (c *Controller) Activate(index int) error {
	if err := c.acquire(); err != nil {
		return err
	}
	defer c.release()

	c.mu.Lock()
	if index < 0 || index >= len(c.displayed) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d", domain.ErrInvalidIndex, index)
	}
	d := c.delegate
	c.mu.Unlock()

	d.DidActivate(index)
	return nil
}

// === Completion ===

// FinishPicking hands the selection to the delegate if it meets the minimum.
// Below the minimum nothing is emitted and ErrValidationFailed is returned.
func (c *Controller) FinishPicking() ([]domain.Asset, error) {
	if err := c.acquire(); err != nil {
		return nil, err
	}
	defer c.release()

	c.mu.Lock()
	snapshot := cloneAssets(c.selected)
	d := c.delegate
	c.mu.Unlock()

	if !c.opts.Bounds.Satisfied(len(snapshot)) {
		return nil, fmt.Errorf("%w: picked %d, need at least %d",
			domain.ErrValidationFailed, len(snapshot), c.opts.Bounds.Min)
	}

	c.logger.Info("finished picking", "count", len(snapshot))
	d.DidFinishPicking(cloneAssets(snapshot))
	return snapshot, nil
}

// Cancel notifies the delegate. The selection is kept so a host can reopen
// the picker with it.
func (c *Controller) Cancel() {
	c.logger.Info("picking cancelled", "selected", c.SelectedCount())
	c.currentDelegate().DidCancel()
}

// --- Private helpers ---

func (c *Controller) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return domain.ErrReentrantCall
	}
	c.busy = true
	return nil
}

func (c *Controller) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *Controller) currentDelegate() domain.Delegate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delegate
}

// checkIndexLocked requires asset to be the one displayed at index
func (c *Controller) checkIndexLocked(asset domain.Asset, index int) error {
	if index < 0 || index >= len(c.displayed) {
		return fmt.Errorf("%w: %d", domain.ErrInvalidIndex, index)
	}
	if !c.displayed[index].Same(asset) {
		return fmt.Errorf("%w: asset %s is not displayed at %d", domain.ErrInvalidIndex, asset.ID, index)
	}
	return nil
}

// pruneSelection keeps picks still present in displayed, in pick order,
// rebound to the freshly displayed values
func pruneSelection(selected, displayed []domain.Asset) []domain.Asset {
	if len(selected) == 0 {
		return nil
	}
	byID := make(map[string]int, len(displayed))
	for i, a := range displayed {
		byID[a.ID] = i
	}
	var kept []domain.Asset
	for _, a := range selected {
		if i, ok := byID[a.ID]; ok {
			kept = append(kept, displayed[i])
		}
	}
	return kept
}

func removeAsset(assets []domain.Asset, asset domain.Asset) []domain.Asset {
	i := domain.IndexOf(assets, asset)
	if i < 0 {
		return assets
	}
	out := make([]domain.Asset, 0, len(assets)-1)
	out = append(out, assets[:i]...)
	return append(out, assets[i+1:]...)
}

func cloneAssets(assets []domain.Asset) []domain.Asset {
	if assets == nil {
		return nil
	}
	out := make([]domain.Asset, len(assets))
	copy(out, assets)
	return out
}
