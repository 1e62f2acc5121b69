// Package compute implements the compute-scheduling core of the simulator.
//
// # Reading Guide
//
// Start with these files to understand the scheduler:
//   - model.go: Flavor/Image/Server identity and the server state machine
//   - host.go: the Host contract the scheduler depends on (external, black-box)
//   - hostview.go: the scheduler-side capacity shadow of each registered host
//   - queue.go: the FIFO of pending SchedulingRequests
//   - service.go: the quantum-aligned dispatch loop (the heart of the
//     package) plus the Listener implementation that reconciles host
//     UP/DOWN and VM-state events
//   - client.go: the per-caller facade used to mint flavors/images/servers
//
// # Architecture
//
// compute defines the scheduler and the interfaces it depends on;
// implementations of those interfaces live in sibling packages:
//   - compute/policy: AllocationPolicy implementations
//   - compute/clock: the Clock and cooperative single-executor implementation
//   - simhost: a reference Host implementation used by tests and the cmd harness
//
// The scheduler never reaches past the Host interface into a concrete
// host's internals — hypervisor simulation, CPU-slice accounting, and power
// modelling are entirely the concern of whatever Host implementation is
// plugged in.
package compute
