package compute

import "errors"

// Error taxonomy (§7). Only the kinds that can be surfaced synchronously to
// a caller are modelled as Go errors; StructurallyUnschedulable,
// TransientlyUnschedulable, HostSpawnFailure, and StaleHostEvent are
// resolved entirely inside the dispatch loop and listener by mutating
// server state and counters — "no exceptions propagate out of the dispatch
// task" (§7) is taken literally.
var (
	// ErrUsage marks client-side misuse: nil or unknown flavor, unknown
	// image id, non-positive CPU count, negative memory size.
	ErrUsage = errors.New("usage error")

	// ErrServiceClosed marks any operation attempted on a closed service
	// or on a closed client.
	ErrServiceClosed = errors.New("service closed")

	// ErrNotFound marks a lookup against an id that the registry has no
	// record of: never created, or explicitly deleted. Terminal servers
	// that were not deleted remain resolvable (§9 "registry retention
	// after delete").
	ErrNotFound = errors.New("not found")
)
