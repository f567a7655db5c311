package engine

import "time"

// Options represents configuration options for the App engine.
type Options struct {
	SnapshotInterval    time.Duration
	SnapshotOffsetDelta int64
}

// DefaultOptions returns the default engine options.
func DefaultOptions() *Options {
	return &Options{
		SnapshotInterval:    30 * time.Second,
		SnapshotOffsetDelta: 1000,
	}
}
