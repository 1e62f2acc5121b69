package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FlavorSpec describes one flavor entry in a fleet config file.
type FlavorSpec struct {
	Name       string `yaml:"name"`
	CPUCount   int    `yaml:"cpu_count"`
	MemorySize int64  `yaml:"memory_size"`
}

// HostSpec describes one host entry. SpawnDelayMs and RunDurationMs are
// simhost-specific knobs; a real Host implementation would ignore them.
type HostSpec struct {
	Count         int   `yaml:"count"`
	CPUCount      int   `yaml:"cpu_count"`
	MemorySize    int64 `yaml:"memory_size"`
	SpawnDelayMs  int64 `yaml:"spawn_delay_ms"`
	RunDurationMs int64 `yaml:"run_duration_ms"`
}

// WorkloadSpec describes a batch of servers submitted at a fixed time.
type WorkloadSpec struct {
	Count      int    `yaml:"count"`
	Flavor     string `yaml:"flavor"`
	SubmitAtMs int64  `yaml:"submit_at_ms"`
}

// Config is the full fleet.yaml structure. Every top-level section is
// listed to satisfy KnownFields(true) strict decoding.
type Config struct {
	SchedulingQuantumMs int64          `yaml:"scheduling_quantum_ms"`
	Policy              string         `yaml:"policy"`
	Seed                int64          `yaml:"seed"`
	HorizonMs           int64          `yaml:"horizon_ms"`
	Flavors             []FlavorSpec   `yaml:"flavors"`
	Hosts               []HostSpec     `yaml:"hosts"`
	Workloads           []WorkloadSpec `yaml:"workloads"`
}

// loadConfig parses a fleet config file with strict field checking, so a
// typo'd key fails loudly instead of silently zero-valuing a setting.
func loadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
