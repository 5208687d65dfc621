package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prodsim/prodsim/sim"
	"github.com/prodsim/prodsim/sim/montecarlo"
	"github.com/prodsim/prodsim/sim/whatif"
)

var (
	stRuns    int   // Monte Carlo runs per strategy
	stWorkers int   // Worker pool size
	stSeeded  bool  // Deterministic run keys
	stSeed    int64 // Base seed when --seeded is set
)

// strategiesCmd Monte-Carlos every priority strategy and ranks them
var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "Compare all priority strategies against one configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := buildConfig(cmd)
		harness := montecarlo.Harness{
			Workers: stWorkers,
			Seeded:  stSeeded,
			BaseKey: sim.NewSimulationKey(stSeed),
		}
		results, recommendation, err := whatif.CompareStrategies(cfg, stRuns, harness)
		if err != nil {
			logrus.Fatalf("Strategy comparison failed: %v", err)
		}

		fmt.Printf("%-15s %10s %10s %8s %8s %8s\n", "strategy", "avg WB", "avg BB", "WB%", "BB%", "score")
		for _, r := range results {
			marker := " "
			if r.Strategy == recommendation {
				marker = "*"
			}
			fmt.Printf("%s%-14s %10.0f %10.0f %7.1f%% %7.1f%% %8.1f\n",
				marker, r.Strategy, r.AvgWB, r.AvgBB, r.WBPct, r.BBPct, r.Score)
		}
		fmt.Printf("\nRecommended: %s\n", recommendation)
	},
}

func init() {
	addConfigFlags(strategiesCmd)
	strategiesCmd.Flags().IntVar(&stRuns, "runs", 20, "Monte Carlo runs per strategy")
	strategiesCmd.Flags().IntVar(&stWorkers, "workers", 0, "Worker pool size (0 = number of CPUs)")
	strategiesCmd.Flags().BoolVar(&stSeeded, "seeded", false, "Derive run keys deterministically from --seed")
	strategiesCmd.Flags().Int64Var(&stSeed, "seed", 42, "Base seed used when --seeded is set")

	rootCmd.AddCommand(strategiesCmd)
}
