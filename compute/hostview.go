package compute

// HostView is the scheduler-side shadow of a registered host, carrying live
// capacity counters the dispatch loop mutates speculatively ahead of the
// asynchronous Host.Spawn completing (§4.B). Exactly one HostView exists
// per registered host.
//
// Grounded on sim/routing.go's RoutingSnapshot/EffectiveLoad: a
// scheduler/policy-facing mirror of live instance load, updated
// synchronously by the owning loop rather than queried from the host on
// every decision.
type HostView struct {
	Host Host

	NumberOfActiveServers int
	ProvisionedCores      int
	AvailableMemory       int64

	activeServers map[ID]*Server
}

// NewHostView constructs a HostView for host with a fresh capacity shadow
// (AvailableMemory initialized to host.Model().MemorySize, per §3).
func NewHostView(host Host) *HostView {
	return &HostView{
		Host:            host,
		AvailableMemory: host.Model().MemorySize,
		activeServers:   make(map[ID]*Server),
	}
}

// Place records server as placed on this view's host, incrementing the
// active-server count and provisioned cores, and decrementing available
// memory. Called speculatively, before Host.Spawn is invoked (§4.B).
func (v *HostView) Place(server *Server) {
	v.activeServers[server.ID] = server
	v.NumberOfActiveServers++
	v.ProvisionedCores += server.Flavor.CPUCount
	v.AvailableMemory -= server.Flavor.MemorySize
}

// Release reverses a prior Place, on spawn failure or VM termination.
// No-op if server was not recorded as active on this view (defensive:
// guards against double-release from a duplicate event).
func (v *HostView) Release(server *Server) {
	if _, ok := v.activeServers[server.ID]; !ok {
		return
	}
	delete(v.activeServers, server.ID)
	v.NumberOfActiveServers--
	v.ProvisionedCores -= server.Flavor.CPUCount
	v.AvailableMemory += server.Flavor.MemorySize
}

// CanFit reports whether server fits this view's remaining capacity,
// independent of the underlying Host.CanFit check the dispatch loop also
// performs (§4.F step 3 consults both).
func (v *HostView) CanFit(server *Server) bool {
	return v.ProvisionedCores+server.Flavor.CPUCount <= v.Host.Model().CPUCount &&
		v.AvailableMemory-server.Flavor.MemorySize >= 0
}
