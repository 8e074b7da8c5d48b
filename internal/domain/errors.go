package domain

import "errors"

// Sentinel errors for picker and library operations
var (
	// ErrInvalidIndex indicates an index outside the displayed list, or an asset
	// that is not the one displayed at that index
	ErrInvalidIndex = errors.New("index out of range of displayed assets")

	// ErrNotSelected indicates a deselect of an asset that is not picked
	ErrNotSelected = errors.New("asset is not selected")

	// ErrExceededMaximum indicates a select rejected by the selection ceiling
	ErrExceededMaximum = errors.New("selection maximum reached")

	// ErrValidationFailed indicates a finish attempted below the selection floor
	ErrValidationFailed = errors.New("selection below minimum")

	// ErrSelectionVetoed indicates the delegate refused a selection
	ErrSelectionVetoed = errors.New("selection vetoed by delegate")

	// ErrReentrantCall indicates a delegate hook called back into the controller
	ErrReentrantCall = errors.New("reentrant call into picker from delegate")

	// ErrReloadSuperseded indicates a reload whose result was discarded because
	// a newer reload was started
	ErrReloadSuperseded = errors.New("reload superseded by a newer reload")

	// ErrAlbumNotFound indicates the requested album does not exist
	ErrAlbumNotFound = errors.New("album not found")

	// ErrNotADirectory indicates a library root that is not a directory
	ErrNotADirectory = errors.New("library root is not a directory")
)
