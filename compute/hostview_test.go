package compute

import "testing"

type stubHost struct {
	id    ID
	state HostState
	model HostModel
}

func (h *stubHost) ID() ID                 { return h.id }
func (h *stubHost) State() HostState       { return h.state }
func (h *stubHost) Model() HostModel       { return h.model }
func (h *stubHost) Meta() map[string]any   { return nil }
func (h *stubHost) CanFit(*Server) bool    { return true }
func (h *stubHost) Spawn(*Server) error    { return nil }
func (h *stubHost) AddListener(Listener)   {}
func (h *stubHost) RemoveListener(Listener) {}

func TestNewHostView_InitializesFromHostModel(t *testing.T) {
	h := &stubHost{model: HostModel{CPUCount: 4, MemorySize: 16 << 30}}
	v := NewHostView(h)

	if v.AvailableMemory != 16<<30 {
		t.Errorf("AvailableMemory = %d, want %d", v.AvailableMemory, int64(16<<30))
	}
	if v.NumberOfActiveServers != 0 || v.ProvisionedCores != 0 {
		t.Errorf("fresh view should have zero usage, got %+v", v)
	}
}

func TestHostView_Place_UpdatesCounters(t *testing.T) {
	h := &stubHost{model: HostModel{CPUCount: 4, MemorySize: 16 << 30}}
	v := NewHostView(h)
	server := &Server{ID: ID{1}, Flavor: &Flavor{CPUCount: 2, MemorySize: 4 << 30}}

	v.Place(server)

	if v.NumberOfActiveServers != 1 {
		t.Errorf("NumberOfActiveServers = %d, want 1", v.NumberOfActiveServers)
	}
	if v.ProvisionedCores != 2 {
		t.Errorf("ProvisionedCores = %d, want 2", v.ProvisionedCores)
	}
	if v.AvailableMemory != 12<<30 {
		t.Errorf("AvailableMemory = %d, want %d", v.AvailableMemory, int64(12<<30))
	}
}

func TestHostView_Release_ReversesPlace(t *testing.T) {
	h := &stubHost{model: HostModel{CPUCount: 4, MemorySize: 16 << 30}}
	v := NewHostView(h)
	server := &Server{ID: ID{1}, Flavor: &Flavor{CPUCount: 2, MemorySize: 4 << 30}}

	v.Place(server)
	v.Release(server)

	if v.NumberOfActiveServers != 0 || v.ProvisionedCores != 0 || v.AvailableMemory != 16<<30 {
		t.Errorf("Release did not fully reverse Place: %+v", v)
	}
}

func TestHostView_Release_UnknownServer_NoOp(t *testing.T) {
	h := &stubHost{model: HostModel{CPUCount: 4, MemorySize: 16 << 30}}
	v := NewHostView(h)
	server := &Server{ID: ID{1}, Flavor: &Flavor{CPUCount: 2, MemorySize: 4 << 30}}

	v.Release(server) // never placed

	if v.NumberOfActiveServers != 0 || v.AvailableMemory != 16<<30 {
		t.Errorf("Release on an unplaced server mutated the view: %+v", v)
	}
}

func TestHostView_CanFit(t *testing.T) {
	h := &stubHost{model: HostModel{CPUCount: 4, MemorySize: 16 << 30}}
	v := NewHostView(h)
	v.Place(&Server{ID: ID{1}, Flavor: &Flavor{CPUCount: 3, MemorySize: 15 << 30}})

	fits := &Server{Flavor: &Flavor{CPUCount: 1, MemorySize: 1 << 30}}
	tooBigCPU := &Server{Flavor: &Flavor{CPUCount: 2, MemorySize: 1}}
	tooBigMem := &Server{Flavor: &Flavor{CPUCount: 1, MemorySize: 2 << 30}}

	if !v.CanFit(fits) {
		t.Error("expected fits to fit")
	}
	if v.CanFit(tooBigCPU) {
		t.Error("expected tooBigCPU not to fit (exceeds host cpu)")
	}
	if v.CanFit(tooBigMem) {
		t.Error("expected tooBigMem not to fit (exceeds remaining memory)")
	}
}
