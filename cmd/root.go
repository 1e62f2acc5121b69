// cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/compute-scheduler/compute"
	"github.com/inference-sim/compute-scheduler/compute/clock"
	"github.com/inference-sim/compute-scheduler/compute/policy"
	"github.com/inference-sim/compute-scheduler/simhost"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "compute-scheduler",
	Short: "Discrete-event simulator for compute-scheduling VM placement",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a fleet simulation from a config file",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := loadConfig(configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		sc := clock.NewSimClock()
		svc := compute.NewService(sc, policy.New(cfg.Policy), cfg.SchedulingQuantumMs, cfg.Seed)
		client := svc.NewClient()

		logrus.Infof("starting run: quantum=%dms policy=%s horizon=%dms", cfg.SchedulingQuantumMs, cfg.Policy, cfg.HorizonMs)

		flavors := make(map[string]*compute.Flavor, len(cfg.Flavors))
		for _, f := range cfg.Flavors {
			flavor, err := client.NewFlavor(f.Name, f.CPUCount, f.MemorySize, nil, nil)
			if err != nil {
				logrus.Fatalf("flavor %q: %v", f.Name, err)
			}
			flavors[f.Name] = flavor
		}

		for hi, h := range cfg.Hosts {
			for i := 0; i < h.Count; i++ {
				host := simhost.New(newHostID(hi, i), sc, simhost.Config{
					CPUCount:    h.CPUCount,
					MemorySize:  h.MemorySize,
					SpawnDelay:  h.SpawnDelayMs,
					RunDuration: h.RunDurationMs,
				})
				svc.AddHost(host)
			}
		}

		for _, w := range cfg.Workloads {
			flavor, ok := flavors[w.Flavor]
			if !ok {
				logrus.Fatalf("workload references unknown flavor %q", w.Flavor)
			}
			w := w
			sc.Schedule(w.SubmitAtMs, func() {
				for i := 0; i < w.Count; i++ {
					if _, err := client.NewServer(fmt.Sprintf("%s-%d", w.Flavor, i), nil, flavor, nil, nil, true); err != nil {
						logrus.Warnf("newServer: %v", err)
					}
				}
			})
		}

		sc.RunUntil(cfg.HorizonMs)

		m := svc.Snapshot()
		logrus.Infof("run complete: hosts=%d available=%d submitted=%d running=%d finished=%d queued=%d unscheduled=%d",
			m.HostCount, m.AvailableCount, m.Submitted, m.Running, m.Finished, m.Queued, m.Unscheduled)
	},
}

// newHostID mints a deterministic, config-derived host identity. Unlike
// VM ids (minted by Service's internal generator, §3), host identity is
// the caller's responsibility (§4.A) — the harness just needs something
// stable across a run.
func newHostID(group, index int) compute.ID {
	var id compute.ID
	id[0] = byte(group >> 8)
	id[1] = byte(group)
	id[2] = byte(index >> 8)
	id[3] = byte(index)
	return id
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "fleet.yaml", "Path to the fleet config file")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(runCmd)
}
