package policy_test

import (
	"testing"

	"github.com/inference-sim/compute-scheduler/compute"
	"github.com/inference-sim/compute-scheduler/compute/policy"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	id    compute.ID
	model compute.HostModel
}

func (f *fakeHost) ID() compute.ID                  { return f.id }
func (f *fakeHost) State() compute.HostState         { return compute.HostUp }
func (f *fakeHost) Model() compute.HostModel         { return f.model }
func (f *fakeHost) Meta() map[string]any             { return nil }
func (f *fakeHost) CanFit(*compute.Server) bool      { return true }
func (f *fakeHost) Spawn(*compute.Server) error      { return nil }
func (f *fakeHost) AddListener(compute.Listener)     {}
func (f *fakeHost) RemoveListener(compute.Listener)  {}

func idOf(b byte) compute.ID {
	var id compute.ID
	id[15] = b
	return id
}

func newView(t *testing.T, idByte byte, cpu int, mem int64) *compute.HostView {
	t.Helper()
	h := &fakeHost{id: idOf(idByte), model: compute.HostModel{CPUCount: cpu, MemorySize: mem}}
	return compute.NewHostView(h)
}

func TestActiveServers_PrefersBusiestFittingHost(t *testing.T) {
	p := policy.New(policy.ActiveServersName)

	busy := newView(t, 1, 8, 16<<30)
	idle := newView(t, 2, 8, 16<<30)
	// simulate busy already hosting active servers
	busy.NumberOfActiveServers = 3

	server := &compute.Server{Flavor: &compute.Flavor{CPUCount: 1, MemorySize: 1}}
	selected := p.Select([]*compute.HostView{idle, busy}, server)
	require.Same(t, busy, selected)
}

func TestActiveServers_TieBreaksByHostID(t *testing.T) {
	p := policy.New(policy.ActiveServersName)
	a := newView(t, 2, 8, 16<<30)
	b := newView(t, 1, 8, 16<<30)

	server := &compute.Server{Flavor: &compute.Flavor{CPUCount: 1, MemorySize: 1}}
	selected := p.Select([]*compute.HostView{a, b}, server)
	require.Same(t, b, selected, "lower host id should win the tie")
}

func TestActiveServers_ExcludesHostsThatDoNotFit(t *testing.T) {
	p := policy.New(policy.ActiveServersName)
	tooSmall := newView(t, 1, 1, 1)
	fits := newView(t, 2, 8, 16<<30)

	server := &compute.Server{Flavor: &compute.Flavor{CPUCount: 4, MemorySize: 1 << 20}}
	selected := p.Select([]*compute.HostView{tooSmall, fits}, server)
	require.Same(t, fits, selected)
}

func TestActiveServers_NoneFit_ReturnsNil(t *testing.T) {
	p := policy.New(policy.ActiveServersName)
	tooSmall := newView(t, 1, 1, 1)

	server := &compute.Server{Flavor: &compute.Flavor{CPUCount: 4, MemorySize: 1 << 20}}
	require.Nil(t, p.Select([]*compute.HostView{tooSmall}, server))
}

func TestMostAvailable_PrefersMostFreeMemory(t *testing.T) {
	p := policy.New(policy.MostAvailableName)
	small := newView(t, 1, 8, 4<<30)
	big := newView(t, 2, 8, 16<<30)

	server := &compute.Server{Flavor: &compute.Flavor{CPUCount: 1, MemorySize: 1}}
	selected := p.Select([]*compute.HostView{small, big}, server)
	require.Same(t, big, selected)
}

func TestNew_UnknownPolicy_Panics(t *testing.T) {
	require.Panics(t, func() { policy.New("nonexistent") })
}
