package compute

// Scheduler is the cooperative single-executor + timer collaborator the
// service is built on (§5, §9 "a single-threaded task executor bound to
// simulated time, plus a timer primitive"). compute/clock.SimClock
// implements it; Clock is the narrower monotonic-time-only view of the
// same collaborator (§6).
type Scheduler interface {
	Clock

	// StartSingleTimer arms, at most once at a time per key, a callback
	// fn to run after delay (§4.E: "at most one dispatch pass is pending
	// at any time"). A call while key is already armed is a no-op.
	StartSingleTimer(key string, delay int64, fn func())

	// IsTimerActive reports whether key is currently armed.
	IsTimerActive(key string) bool
}

// Clock is the monotonic-millisecond external collaborator (§6).
type Clock interface {
	Now() int64
}

// AllocationPolicy selects a HostView for a pending server from a
// candidate set (§4.C). Defined here, rather than imported from
// compute/policy, so that compute/policy (which needs HostView and
// Server) can depend on compute without a cycle; any policy.AllocationPolicy
// implementation satisfies this interface structurally.
type AllocationPolicy interface {
	Select(candidates []*HostView, server *Server) *HostView
}
