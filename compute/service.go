package compute

import "github.com/sirupsen/logrus"

// dispatchTimerKey names the single-slot quantum timer (§4.E).
const dispatchTimerKey = "dispatch"

// Service owns every piece of scheduler state: registries, the queue, host
// views, counters, and the event bus (§3 "Ownership"). It is the sole
// mutator of its own data; hosts are shared by reference only (§5).
//
// Grounded on sim/cluster/cluster.go's ClusterSimulator: a single struct
// owning all per-run state, driven by one cooperative event loop.
type Service struct {
	sched   Scheduler
	policy  AllocationPolicy
	quantum int64
	gen     *generator

	hostToView     map[ID]*HostView
	availableHosts map[ID]*HostView

	flavors *registry[*Flavor]
	images  *registry[*Image]
	servers *registry[*Server]

	activeServers  map[ID]*Server
	serverRequests map[ID]*SchedulingRequest

	q        queue
	counters counters
	bus      eventBus

	maxCores  int
	maxMemory int64

	closed bool
}

// NewService constructs a Service bound to sched, dispatching under policy
// at schedulingQuantumMs-millisecond quanta, with its id generator seeded
// by seed (§6 "newService(clock, allocationPolicy, schedulingQuantumMs)",
// extended with an explicit seed per §3's "deterministic generator seeded
// at construction").
func NewService(sched Scheduler, policy AllocationPolicy, schedulingQuantumMs int64, seed int64) *Service {
	if schedulingQuantumMs <= 0 {
		panic("compute: schedulingQuantumMs must be > 0")
	}
	return &Service{
		sched:          sched,
		policy:         policy,
		quantum:        schedulingQuantumMs,
		gen:            newGenerator(seed),
		hostToView:     make(map[ID]*HostView),
		availableHosts: make(map[ID]*HostView),
		flavors:        newRegistry[*Flavor](),
		images:         newRegistry[*Image](),
		servers:        newRegistry[*Server](),
		activeServers:  make(map[ID]*Server),
		serverRequests: make(map[ID]*SchedulingRequest),
	}
}

// AddHost registers host with the service. Idempotent: adding an
// already-registered host is a no-op (§8 invariant 5).
func (s *Service) AddHost(host Host) {
	if _, ok := s.hostToView[host.ID()]; ok {
		return
	}
	model := host.Model()
	if model.CPUCount > s.maxCores {
		s.maxCores = model.CPUCount
	}
	if model.MemorySize > s.maxMemory {
		s.maxMemory = model.MemorySize
	}

	view := NewHostView(host)
	s.hostToView[host.ID()] = view
	host.AddListener(s)

	if host.State() == HostUp {
		s.availableHosts[host.ID()] = view
	}
	s.emitMetrics()
	s.requestCycle()
}

// RemoveHost unregisters host. Any servers still actively placed on it are
// transitioned to ERROR rather than left stuck forever (§SUPPLEMENTED
// FEATURES "host removal reconciliation" — unlike a transient DOWN, a
// removed host is gone for good, so its VMs cannot simply wait for it to
// come back).
func (s *Service) RemoveHost(host Host) {
	view, ok := s.hostToView[host.ID()]
	if !ok {
		return
	}
	delete(s.hostToView, host.ID())
	delete(s.availableHosts, host.ID())
	host.RemoveListener(s)

	for _, server := range view.activeServers {
		s.completeTerminal(view, server, StateError)
	}
}

// Hosts returns every registered host.
func (s *Service) Hosts() []Host {
	out := make([]Host, 0, len(s.hostToView))
	for _, v := range s.hostToView {
		out = append(out, v.Host)
	}
	return out
}

// HostCount returns the number of registered hosts.
func (s *Service) HostCount() int {
	return len(s.hostToView)
}

// Events returns a hot, buffered subscription to MetricsAvailable (§6).
func (s *Service) Events() <-chan MetricsAvailable {
	return s.bus.subscribe(64)
}

// Snapshot returns the current aggregate counters without waiting for a
// fresh transition (supplemented feature, grounded on
// sim/cluster/cluster.go's AggregatedMetrics() accessor).
func (s *Service) Snapshot() MetricsAvailable {
	return s.metricsSnapshot()
}

// NewClient returns a fresh Client facade bound to this service.
func (s *Service) NewClient() *Client {
	return &Client{svc: s}
}

// Close cancels the service: the event bus is closed and no further
// dispatch passes are armed. In-flight host spawn completions that arrive
// afterward are ignored (listener callbacks early-return once closed).
func (s *Service) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.bus.close()
}

func (s *Service) metricsSnapshot() MetricsAvailable {
	return MetricsAvailable{
		HostCount:      len(s.hostToView),
		AvailableCount: len(s.availableHosts),
		Submitted:      s.counters.submitted,
		Running:        s.counters.running,
		Finished:       s.counters.finished,
		Queued:         s.counters.queued,
		Unscheduled:    s.counters.unscheduled,
	}
}

func (s *Service) emitMetrics() {
	s.bus.publish(s.metricsSnapshot())
}

// schedule enqueues a fresh SchedulingRequest for server and requests a
// dispatch cycle (§4.D).
func (s *Service) schedule(server *Server) *SchedulingRequest {
	req := &SchedulingRequest{Server: server}
	s.q.enqueue(req)
	s.serverRequests[server.ID] = req
	s.requestCycle()
	return req
}

// requestCycle arms the quantum timer if one isn't already pending and the
// queue has work (§4.E). The delay aligns the next dispatch pass to the
// next multiple of quantum, so slice boundaries on hosts stay aligned with
// scheduling events (§8 invariant 6).
func (s *Service) requestCycle() {
	if s.closed || s.q.len() == 0 {
		return
	}
	if s.sched.IsTimerActive(dispatchTimerKey) {
		return
	}
	now := s.sched.Now()
	delay := s.quantum - (now % s.quantum)
	s.sched.StartSingleTimer(dispatchTimerKey, delay, s.dispatch)
}

// dispatch is the core scheduling algorithm (§4.F): drain the queue,
// consult the allocation policy, speculatively reserve, spawn.
func (s *Service) dispatch() {
	if s.closed {
		return
	}
	for {
		req := s.q.peek()
		if req == nil {
			return
		}
		if req.Cancelled() {
			s.q.poll()
			delete(s.serverRequests, req.Server.ID)
			continue
		}

		server := req.Server
		view := s.policy.Select(s.candidateViews(), server)
		fits := view != nil && view.Host.CanFit(server) && view.CanFit(server)

		if !fits {
			if server.Flavor.MemorySize > s.maxMemory || server.Flavor.CPUCount > s.maxCores {
				// Structurally unschedulable: no known host could ever fit
				// this VM (§7 StructurallyUnschedulable).
				s.q.poll()
				delete(s.serverRequests, server.ID)
				s.counters.queued--
				s.counters.unscheduled++
				server.State = StateError
				s.emitMetrics()
				continue
			}
			// Transiently unschedulable: fleet is merely saturated right
			// now. Stop the pass, leave the request at the head (§7).
			return
		}

		// Host selected: dequeue, speculatively reserve, spawn. server.Host
		// is assigned before Spawn is called (§4.F: "assign server.host,
		// calls host.spawn(server)") so that a subsequent host-emitted
		// ERROR event — the documented recovery path on spawn failure (§7
		// HostSpawnFailure) — finds server.Host already pointing at this
		// host instead of being discarded as a StaleHostEvent.
		s.q.poll()
		delete(s.serverRequests, server.ID)
		view.Place(server)
		server.Host = view.Host
		if err := view.Host.Spawn(server); err != nil {
			// HostSpawnFailure (§7): reverse the speculative reservation,
			// put queuedVms back in sync with the now-dropped request, and
			// log; the server reaches ERROR via a subsequent host event,
			// not here.
			view.Release(server)
			s.counters.queued--
			s.emitMetrics()
			logrus.Warnf("compute: spawn failed for server %s on host %s: %v", server.ID, view.Host.ID(), err)
			continue
		}

		server.State = StateRunning
		s.activeServers[server.ID] = server
		s.counters.queued--
		s.counters.running++
		s.emitMetrics()
	}
}

func (s *Service) candidateViews() []*HostView {
	out := make([]*HostView, 0, len(s.availableHosts))
	for _, v := range s.availableHosts {
		out = append(out, v)
	}
	return out
}

// completeTerminal moves server to a terminal state and reconciles
// counters/capacity on view, shared by the listener's host-event handling
// and RemoveHost's reconciliation. No-op if server is already terminal
// (§8 invariant 7).
func (s *Service) completeTerminal(view *HostView, server *Server, newState ServerState) {
	if server.State.IsTerminal() {
		return
	}
	wasRunning := server.State == StateRunning
	server.State = newState
	view.Release(server)
	delete(s.activeServers, server.ID)
	if wasRunning {
		s.counters.running--
	}
	s.counters.finished++
	s.emitMetrics()
}

// OnHostStateChanged implements Listener (§4.J).
func (s *Service) OnHostStateChanged(host Host, newState HostState) {
	if s.closed {
		return
	}
	view, ok := s.hostToView[host.ID()]
	if !ok {
		// §9: no-op if the host is not already registered.
		return
	}
	switch newState {
	case HostUp:
		s.availableHosts[host.ID()] = view
	case HostDown:
		delete(s.availableHosts, host.ID())
	}
	s.emitMetrics()
	s.requestCycle()
}

// OnServerStateChanged implements Listener (§4.J).
func (s *Service) OnServerStateChanged(host Host, server *Server, newState ServerState) {
	if s.closed {
		return
	}
	if server.Host == nil || server.Host.ID() != host.ID() {
		// StaleHostEvent (§7): event from a host that no longer owns this
		// VM (e.g. a previous placement). Silently ignored.
		return
	}
	switch newState {
	case StateTerminated, StateError, StateDeleted:
		if view, ok := s.hostToView[host.ID()]; ok {
			s.completeTerminal(view, server, newState)
		}
		s.requestCycle()
	default:
		// RUNNING is set synchronously in dispatch() at spawn-accept time;
		// any other value reaching here is not a recognized transition.
	}
}
