package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

const validFleetYAML = `
scheduling_quantum_ms: 1000
policy: active-servers
seed: 1
horizon_ms: 20000
flavors:
  - name: small
    cpu_count: 2
    memory_size: 1073741824
hosts:
  - count: 2
    cpu_count: 8
    memory_size: 17179869184
    spawn_delay_ms: 100
    run_duration_ms: 5000
workloads:
  - count: 3
    flavor: small
    submit_at_ms: 0
`

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleet.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadConfig_ParsesValidFleet(t *testing.T) {
	cfg, err := loadConfig(writeTempConfig(t, validFleetYAML))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.SchedulingQuantumMs != 1000 {
		t.Errorf("SchedulingQuantumMs = %d, want 1000", cfg.SchedulingQuantumMs)
	}
	if len(cfg.Flavors) != 1 || cfg.Flavors[0].Name != "small" {
		t.Fatalf("unexpected flavors: %+v", cfg.Flavors)
	}
	if len(cfg.Hosts) != 1 || cfg.Hosts[0].Count != 2 {
		t.Fatalf("unexpected hosts: %+v", cfg.Hosts)
	}
	if len(cfg.Workloads) != 1 || cfg.Workloads[0].Count != 3 {
		t.Fatalf("unexpected workloads: %+v", cfg.Workloads)
	}
}

func TestLoadConfig_RejectsUnknownField(t *testing.T) {
	bad := validFleetYAML + "\nnonexistent_field: true\n"
	if _, err := loadConfig(writeTempConfig(t, bad)); err == nil {
		t.Fatal("expected an error for an unknown field, got nil")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file, got nil")
	}
}
