package loom

import "go.uber.org/zap"

// DefaultPathLimit is the number of resolution-path entries kept when an
// error path is rendered. Longer paths are truncated from the front.
const DefaultPathLimit = 16

// Option configures a container during New.
type Option func(*containerImpl)

// WithLogger sets the logger for container events (bind, unbind, cache hits,
// cycle detection). The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *containerImpl) {
		c.log = log
	}
}

// WithMonitorFactory sets the factory that opens the monitor for each
// top-level resolution. The default is NewMonitor. This is container-level
// configuration so resolution behavior stays deterministic and testable.
func WithMonitorFactory(f MonitorFactory) Option {
	return func(c *containerImpl) {
		c.monitors = f
	}
}

// WithPathLimit sets how many entries of a resolution path stay visible in
// error messages. Entries closest to the failure are kept. A limit of zero
// or less disables truncation.
func WithPathLimit(keep int) Option {
	return func(c *containerImpl) {
		c.pathKeep = keep
	}
}
