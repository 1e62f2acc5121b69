// Package policy provides pluggable AllocationPolicy implementations
// (§4.C). Grounded on sim/routing.go's RoutingPolicy interface/factory and
// sim/policy/admission.go's New*(name) factory convention: a single-method
// interface, a name-keyed factory, and a panic on unrecognized names
// (a programmer error, not a recoverable domain outcome).
package policy

import (
	"fmt"
	"sort"

	"github.com/inference-sim/compute-scheduler/compute"
)

// AllocationPolicy selects one host view from a candidate set for a given
// pending server. Implementations must be pure with respect to their
// inputs and side-effect free — called once per dequeued request (§4.C).
type AllocationPolicy interface {
	// Select returns the preferred HostView for server among candidates,
	// or nil if none is suitable. candidates may be assumed already
	// filtered to hosts that are UP; Select itself is not responsible for
	// checking host.CanFit — the dispatch loop verifies that separately.
	Select(candidates []*compute.HostView, server *compute.Server) *compute.HostView
}

// Names of the built-in policies, for use with New.
const (
	ActiveServersName = "active-servers"
	MostAvailableName = "most-available"
)

// New creates an AllocationPolicy by name. Panics on unrecognized names —
// an unknown policy name is a configuration/programmer error, not a
// recoverable runtime outcome, matching sim/scheduler.go's NewScheduler.
func New(name string) AllocationPolicy {
	switch name {
	case ActiveServersName:
		return &ActiveServers{}
	case MostAvailableName:
		return &MostAvailable{}
	default:
		panic(fmt.Sprintf("unknown allocation policy %q; valid policies: [%s, %s]", name, ActiveServersName, MostAvailableName))
	}
}

// ActiveServers is the reference allocation policy (§4.C): prefer the host
// with the most active VMs among those with spare capacity, breaking ties
// by host id. Packing load onto already-busy hosts (rather than spreading)
// keeps idle hosts idle, which matters for consolidation-sensitive fleets.
type ActiveServers struct{}

// Select implements AllocationPolicy.
func (ActiveServers) Select(candidates []*compute.HostView, server *compute.Server) *compute.HostView {
	fits := filterFits(candidates, server)
	if len(fits) == 0 {
		return nil
	}
	sort.SliceStable(fits, func(i, j int) bool {
		if fits[i].NumberOfActiveServers != fits[j].NumberOfActiveServers {
			return fits[i].NumberOfActiveServers > fits[j].NumberOfActiveServers
		}
		return fits[i].Host.ID().String() < fits[j].Host.ID().String()
	})
	return fits[0]
}

// MostAvailable routes to the host with the most available memory among
// those with spare capacity, breaking ties by host id. The inverse
// heuristic of ActiveServers: spreads load to reduce per-host pressure.
type MostAvailable struct{}

// Select implements AllocationPolicy.
func (MostAvailable) Select(candidates []*compute.HostView, server *compute.Server) *compute.HostView {
	fits := filterFits(candidates, server)
	if len(fits) == 0 {
		return nil
	}
	sort.SliceStable(fits, func(i, j int) bool {
		if fits[i].AvailableMemory != fits[j].AvailableMemory {
			return fits[i].AvailableMemory > fits[j].AvailableMemory
		}
		return fits[i].Host.ID().String() < fits[j].Host.ID().String()
	})
	return fits[0]
}

func filterFits(candidates []*compute.HostView, server *compute.Server) []*compute.HostView {
	fits := make([]*compute.HostView, 0, len(candidates))
	for _, v := range candidates {
		if v.CanFit(server) {
			fits = append(fits, v)
		}
	}
	return fits
}
