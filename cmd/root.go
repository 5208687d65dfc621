package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prodsim/prodsim/sim"
	"github.com/prodsim/prodsim/sim/trace"
)

var (
	// CLI flags for the line configuration
	logLevel     string  // Log verbosity level
	scenarioFile string  // Optional YAML scenario file
	scenarioName string  // Scenario to apply from the file
	seed         int64   // Master seed for the simulation's RNG streams
	numOvens     int     // Ovens per set (scales cycle times and yields)
	numOvenSets  int     // Independently scheduled oven sets (1 or 2)
	formTime     float64 // Forming hours per batch at the base oven count
	cutTime      float64 // Cutting hours per batch at the base oven count
	wbPerBatch   int     // WB units per batch at the base oven count
	bbPerBatch   int     // BB units per batch at the base oven count
	cureMin      float64 // WB cure window lower bound (hours)
	cureMax      float64 // WB cure window upper bound (hours)
	cleaning     bool    // Daily cleaning enabled
	wbSheets     int     // WB work-in-progress capacity
	bbSheets     int     // BB work-in-progress capacity
	wbTarget     int     // Annual WB target (units)
	bbTarget     int     // Annual BB target (units)
	numWeeks     int     // Simulation horizon in weeks
	crews        string  // Crew topology (1team, 2team_6-6, 2team_24/7)
	shift2Start  float64 // Crew-2 shift start hour
	shift2End    float64 // Crew-2 shift end hour
	stopAtTarget bool    // Stop forming a product once its target is met
	strategy     string  // Priority-policy name
	detail       bool    // Collect the full per-batch trace
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "prodsim",
	Short: "Discrete-event simulator for a two-product manufacturing line",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// buildConfig assembles the run configuration from defaults, an optional
// YAML scenario, and explicit flag overrides, in that order.
func buildConfig(cmd *cobra.Command) sim.Config {
	cfg := sim.DefaultConfig()
	if scenarioFile != "" {
		applied, err := ApplyScenario(&cfg, scenarioFile, scenarioName)
		if err != nil {
			logrus.Fatalf("Failed to apply scenario: %v", err)
		}
		logrus.Infof("Applied scenario %q from %s", applied, scenarioFile)
	}

	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("ovens", func() { cfg.NumOvens = numOvens })
	set("oven-sets", func() { cfg.NumOvenSets = numOvenSets })
	set("form-time", func() { cfg.FormTime = formTime })
	set("cut-time", func() { cfg.CutTime = cutTime })
	set("wb-per-batch", func() { cfg.WBPerBatch = wbPerBatch })
	set("bb-per-batch", func() { cfg.BBPerBatch = bbPerBatch })
	set("cure-min", func() { cfg.CureWBMin = cureMin })
	set("cure-max", func() { cfg.CureWBMax = cureMax })
	set("cleaning", func() { cfg.CleaningEnabled = cleaning })
	set("wb-sheets", func() { cfg.WBSheets = wbSheets })
	set("bb-sheets", func() { cfg.BBSheets = bbSheets })
	set("wb-target", func() { cfg.WBTarget = wbTarget })
	set("bb-target", func() { cfg.BBTarget = bbTarget })
	set("weeks", func() { cfg.NumWeeks = numWeeks })
	set("crews", func() { cfg.Crews = sim.CrewTopology(crews) })
	set("shift2-start", func() { cfg.Shift2Start = shift2Start })
	set("shift2-end", func() { cfg.Shift2End = shift2End })
	set("stop-at-target", func() { cfg.StopAtTarget = stopAtTarget })
	set("strategy", func() { cfg.Strategy = strategy })
	return cfg
}

// runCmd executes one simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single simulation",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := buildConfig(cmd)
		s, err := sim.NewSimulator(cfg, sim.NewSimulationKey(seed))
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		s.CollectTrace = detail

		result := s.Run()
		printResult(result, cfg)

		if detail {
			printSummary(trace.Summarize(result.Trace))
		}
	},
}

func printResult(r sim.Result, cfg sim.Config) {
	fmt.Printf("Strategy:    %s\n", cfg.Strategy)
	fmt.Printf("Crews:       %s, oven sets: %d, ovens/set: %d\n", cfg.Crews, cfg.NumOvenSets, cfg.NumOvens)
	fmt.Printf("WB:          %d units (%.1f%% of target), %d batches\n", r.TotalWB, r.WBPct, r.WBBatches)
	fmt.Printf("BB:          %d units (%.1f%% of target), %d batches\n", r.TotalBB, r.BBPct, r.BBBatches)
	fmt.Printf("Total:       %d units\n", r.Total)
	if r.StallEvents > 0 {
		fmt.Printf("WARNING:     %d anti-stall events (event enumeration bug?)\n", r.StallEvents)
	}
}

func printSummary(s *trace.Summary) {
	fmt.Printf("WB wait:     mean %.1fh, max %.1fh over %d cut batches\n", s.WaitWB.Mean, s.WaitWB.Max, s.WaitWB.Count)
	fmt.Printf("BB wait:     mean %.1fh, max %.1fh over %d cut batches\n", s.WaitBB.Mean, s.WaitBB.Max, s.WaitBB.Count)
	fmt.Printf("Pauses:      %d cut interruptions, %d cleaning events\n", s.PauseCount, s.CleaningCount)
}

// addConfigFlags registers the shared line-configuration flags on a command.
func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&scenarioFile, "scenario-file", "", "YAML scenario file (see scenarios.yaml)")
	f.StringVar(&scenarioName, "scenario", "", "Scenario name to apply from the scenario file")
	f.IntVar(&numOvens, "ovens", 5, "Ovens per set")
	f.IntVar(&numOvenSets, "oven-sets", 1, "Number of oven sets (1 or 2)")
	f.Float64Var(&formTime, "form-time", 6, "Forming hours per batch at the base oven count")
	f.Float64Var(&cutTime, "cut-time", 8, "Cutting hours per batch at the base oven count")
	f.IntVar(&wbPerBatch, "wb-per-batch", 3000, "WB units per batch at the base oven count")
	f.IntVar(&bbPerBatch, "bb-per-batch", 6000, "BB units per batch at the base oven count")
	f.Float64Var(&cureMin, "cure-min", 24, "WB cure window lower bound (hours)")
	f.Float64Var(&cureMax, "cure-max", 36, "WB cure window upper bound (hours)")
	f.BoolVar(&cleaning, "cleaning", true, "Enable daily cleaning")
	f.IntVar(&wbSheets, "wb-sheets", 3, "WB sheet capacity (max batches in flight)")
	f.IntVar(&bbSheets, "bb-sheets", 2, "BB sheet capacity (max batches in flight)")
	f.IntVar(&wbTarget, "wb-target", 1_500_000, "Annual WB target (units)")
	f.IntVar(&bbTarget, "bb-target", 2_500_000, "Annual BB target (units)")
	f.IntVar(&numWeeks, "weeks", 52, "Simulation horizon in weeks")
	f.StringVar(&crews, "crews", "1team", "Crew topology (1team, 2team_6-6, 2team_24/7)")
	f.Float64Var(&shift2Start, "shift2-start", 6, "Crew-2 shift start hour")
	f.Float64Var(&shift2End, "shift2-end", 18, "Crew-2 shift end hour")
	f.BoolVar(&stopAtTarget, "stop-at-target", false, "Stop forming a product once its target is met")
	f.StringVar(&strategy, "strategy", "ratio_batches", "Priority strategy (see 'prodsim strategies')")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	addConfigFlags(runCmd)
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for the simulation's RNG streams")
	runCmd.Flags().BoolVar(&detail, "detail", false, "Collect and summarize the full per-batch trace")

	rootCmd.AddCommand(runCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
