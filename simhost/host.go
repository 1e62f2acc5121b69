// Package simhost provides a reference, in-memory compute.Host
// implementation driven by a compute/clock.SimClock, for tests and the
// cmd/ harness. It models only what the scheduling core actually
// consumes: capacity, UP/DOWN state, and scheduled spawn completion —
// hypervisor internals, CPU-slice accounting, and power modelling are
// explicitly out of scope for the core (see compute.Host).
//
// Grounded on sim/cluster/instance.go's wrapper-around-a-clock pattern
// and sim/event.go's self-rescheduling event style (ProcessBatchEvent
// scheduling its own continuation), adapted here to schedule a single
// spawn-completion callback per VM instead of a recurring batch step.
package simhost

import (
	"fmt"

	"github.com/inference-sim/compute-scheduler/compute"
)

// Scheduler is the subset of compute/clock.SimClock a Host needs to
// schedule its own spawn-completion callbacks.
type Scheduler interface {
	Now() int64
	Schedule(delay int64, fn func())
}

// Host is an in-memory compute.Host. Capacity accounting is a simple
// running total of active servers' cpu/memory against Model; there is
// no notion of fragmentation or placement geometry beyond that sum.
type Host struct {
	id    compute.ID
	sched Scheduler
	model compute.HostModel
	meta  map[string]any

	state compute.HostState

	spawnDelay  int64 // ms from Spawn() to the server reaching RUNNING
	runDuration int64 // ms from RUNNING to TERMINATED, or 0 to run forever

	usedCores  int
	usedMemory int64
	active     map[compute.ID]*compute.Server

	listeners []compute.Listener
}

// Config fixes a Host's static parameters at construction (§3: HostModel
// is fixed for the host's lifetime).
type Config struct {
	CPUCount    int
	MemorySize  int64
	Meta        map[string]any
	SpawnDelay  int64 // ms; 0 means the host accepts placements instantly
	RunDuration int64 // ms; 0 means spawned servers never self-terminate
}

// New constructs a Host starting UP, bound to sched for scheduling its
// own spawn/run completion callbacks.
func New(id compute.ID, sched Scheduler, cfg Config) *Host {
	return &Host{
		id:          id,
		sched:       sched,
		model:       compute.HostModel{CPUCount: cfg.CPUCount, MemorySize: cfg.MemorySize},
		meta:        cfg.Meta,
		state:       compute.HostUp,
		spawnDelay:  cfg.SpawnDelay,
		runDuration: cfg.RunDuration,
		active:      make(map[compute.ID]*compute.Server),
	}
}

func (h *Host) ID() compute.ID          { return h.id }
func (h *Host) State() compute.HostState { return h.state }
func (h *Host) Model() compute.HostModel { return h.model }
func (h *Host) Meta() map[string]any    { return h.meta }

// CanFit judges purely against this host's own live usage, independent
// of the scheduler's speculative HostView bookkeeping (§4.A).
func (h *Host) CanFit(server *compute.Server) bool {
	if h.state != compute.HostUp {
		return false
	}
	return h.usedCores+server.Flavor.CPUCount <= h.model.CPUCount &&
		h.usedMemory+server.Flavor.MemorySize <= h.model.MemorySize
}

// Spawn accepts server if it fits and the host is UP, scheduling its
// RUNNING transition after spawnDelay and, if runDuration > 0, a
// subsequent TERMINATED transition. Returns an error (HostSpawnFailure)
// if the host cannot currently fit server.
func (h *Host) Spawn(server *compute.Server) error {
	if !h.CanFit(server) {
		return fmt.Errorf("simhost: host %s cannot fit server %s", h.id, server.ID)
	}
	h.usedCores += server.Flavor.CPUCount
	h.usedMemory += server.Flavor.MemorySize
	h.active[server.ID] = server

	h.sched.Schedule(h.spawnDelay, func() {
		h.notifyServer(server, compute.StateRunning)
		if h.runDuration > 0 {
			h.sched.Schedule(h.runDuration, func() {
				h.finish(server, compute.StateTerminated)
			})
		}
	})
	return nil
}

func (h *Host) AddListener(l compute.Listener) {
	h.listeners = append(h.listeners, l)
}

func (h *Host) RemoveListener(l compute.Listener) {
	for i, existing := range h.listeners {
		if existing == l {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			return
		}
	}
}

// finish releases server's usage accounting and notifies listeners of
// its terminal state. No-op if server was already released (defensive
// against a duplicate call).
func (h *Host) finish(server *compute.Server, newState compute.ServerState) {
	if _, ok := h.active[server.ID]; !ok {
		return
	}
	delete(h.active, server.ID)
	h.usedCores -= server.Flavor.CPUCount
	h.usedMemory -= server.Flavor.MemorySize
	h.notifyServer(server, newState)
}

func (h *Host) notifyServer(server *compute.Server, newState compute.ServerState) {
	for _, l := range h.listeners {
		l.OnServerStateChanged(h, server, newState)
	}
}

func (h *Host) notifyHost(newState compute.HostState) {
	for _, l := range h.listeners {
		l.OnHostStateChanged(h, newState)
	}
}

// SetDown transitions the host to DOWN, simulating an outage (scenario
// S4). Active servers are left exactly as they are: a real host failure is
// observed through the absence of further events, not a synthetic bulk
// ERROR burst. SetUp does not finish them either; removing the host from
// the service is what moves them to ERROR.
func (h *Host) SetDown() {
	if h.state == compute.HostDown {
		return
	}
	h.state = compute.HostDown
	h.notifyHost(compute.HostDown)
}

// SetUp transitions a DOWN host back to UP.
func (h *Host) SetUp() {
	if h.state == compute.HostUp {
		return
	}
	h.state = compute.HostUp
	h.notifyHost(compute.HostUp)
}
