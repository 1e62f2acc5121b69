package compute

import "testing"

func TestNewFlavor_RejectsZeroCPUCount(t *testing.T) {
	var id ID
	_, err := newFlavor(id, "tiny", 0, 1024, nil, nil)
	if err == nil {
		t.Fatal("expected an error for cpuCount 0, got nil")
	}
}

func TestNewFlavor_RejectsNegativeMemory(t *testing.T) {
	var id ID
	_, err := newFlavor(id, "tiny", 1, -1, nil, nil)
	if err == nil {
		t.Fatal("expected an error for negative memorySize, got nil")
	}
}

func TestNewFlavor_CopiesLabelsDefensively(t *testing.T) {
	var id ID
	labels := map[string]string{"tier": "gold"}
	f, err := newFlavor(id, "small", 2, 1<<20, labels, nil)
	if err != nil {
		t.Fatalf("newFlavor: %v", err)
	}
	labels["tier"] = "silver"
	if f.Labels["tier"] != "gold" {
		t.Errorf("flavor labels mutated by caller's map: got %q, want %q", f.Labels["tier"], "gold")
	}
}

func TestServerState_IsTerminal(t *testing.T) {
	cases := map[ServerState]bool{
		StateProvisioning: false,
		StateRunning:      false,
		StateTerminated:   true,
		StateError:        true,
		StateDeleted:      true,
	}
	for state, want := range cases {
		if got := state.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", state, got, want)
		}
	}
}

func TestNewServer_StartsProvisioning(t *testing.T) {
	var id ID
	flavor := &Flavor{CPUCount: 1, MemorySize: 1}
	s := newServer(id, "vm-1", flavor, nil, nil, nil)
	if s.State != StateProvisioning {
		t.Errorf("new server state = %s, want %s", s.State, StateProvisioning)
	}
	if s.Host != nil {
		t.Errorf("new server should have a nil Host, got %v", s.Host)
	}
}
