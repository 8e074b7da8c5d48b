package picker

import (
	"log/slog"

	"github.com/mmcdole/kinopick/internal/domain"
)

// LoggingDelegate logs every notification at debug level and forwards it
type LoggingDelegate struct {
	next   domain.Delegate
	logger *slog.Logger
}

// NewLoggingDelegate wraps next. A nil next behaves like domain.NoOpDelegate.
func NewLoggingDelegate(next domain.Delegate, logger *slog.Logger) *LoggingDelegate {
	if next == nil {
		next = domain.NoOpDelegate{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingDelegate{next: next, logger: logger}
}

func (l *LoggingDelegate) ShouldCheck(index int) bool {
	ok := l.next.ShouldCheck(index)
	l.logger.Debug("picker should check", "index", index, "allowed", ok)
	return ok
}

func (l *LoggingDelegate) WillCheck(index int) {
	l.logger.Debug("picker will check", "index", index)
	l.next.WillCheck(index)
}

func (l *LoggingDelegate) DidCheck(index int) {
	l.logger.Debug("picker did check", "index", index)
	l.next.DidCheck(index)
}

func (l *LoggingDelegate) WillUncheck(index int) {
	l.logger.Debug("picker will uncheck", "index", index)
	l.next.WillUncheck(index)
}

func (l *LoggingDelegate) DidUncheck(index int) {
	l.logger.Debug("picker did uncheck", "index", index)
	l.next.DidUncheck(index)
}

func (l *LoggingDelegate) DidActivate(index int) {
	l.logger.Debug("picker did activate", "index", index)
	l.next.DidActivate(index)
}

func (l *LoggingDelegate) DidFinishPicking(selected []domain.Asset) {
	l.logger.Debug("picker did finish", "count", len(selected))
	l.next.DidFinishPicking(selected)
}

func (l *LoggingDelegate) DidCancel() {
	l.logger.Debug("picker did cancel")
	l.next.DidCancel()
}

func (l *LoggingDelegate) LoadingStarted() {
	l.logger.Debug("picker loading started")
	l.next.LoadingStarted()
}

func (l *LoggingDelegate) LoadingFinished() {
	l.logger.Debug("picker loading finished")
	l.next.LoadingFinished()
}

func (l *LoggingDelegate) ExceededMaximum(title, buttonTitle string) {
	l.logger.Debug("picker exceeded maximum", "title", title)
	l.next.ExceededMaximum(title, buttonTitle)
}

func (l *LoggingDelegate) SortDirection() domain.SortDirection {
	return l.next.SortDirection()
}
