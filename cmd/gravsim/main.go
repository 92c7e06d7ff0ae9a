package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/integrator"
	"github.com/spf13/cobra"
)

const defaultPreset = "earth-moon"

var (
	dataDir    string
	configFile string
	debug      bool
	mode       string
	steps      int64
	dt         float64
	minForce   float64
	speed      float64
	exact      bool
	workers    int
	validate   bool
	intervalMs float64
	// run
	record int64
	// live
	stepsPerTick int
	theme        string
	// plot / export / analyze
	column  string
	outFile string
	svgOut  bool
	target  string
	around  string
	// sweep
	sweepParam  string
	sweepValues string

	logFile *os.File
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "real-time n-body gravity simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logFile = setupLogging(debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write a debug log to logs/gravsim.log")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene headless for a number of steps",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().Int64Var(&record, "record", 10, "record every n-th step and save the run (0 disables)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scene in the terminal hud",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerTick, "steps-per-frame", 1, "physics steps per rendered frame")
	liveCmd.Flags().StringVar(&theme, "theme", "space", "hud theme")

	compareCmd := &cobra.Command{
		Use:   "compare [preset]",
		Short: "run the legacy and exact position terms side by side",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareTerms,
	}
	addSceneFlags(compareCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", "plot a single column, e.g. Moon.x")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a recorded run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().BoolVar(&svgOut, "svg", false, "write trajectories as svg instead of json")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate orbital period and apsides of a recorded body",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&target, "body", "", "orbiting body (default: last recorded body)")
	analyzeCmd.Flags().StringVar(&around, "around", "", "central body (default: first recorded body)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run a scene once per value of a tunable",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepParamValues,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "target_step", "tunable to vary")
	sweepCmd.Flags().StringVar(&sweepValues, "values", "60,150,300", "comma separated values")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scene presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				names := make([]string, len(p.Bodies))
				for i, b := range p.Bodies {
					names[i] = b.Name
				}
				fmt.Printf("  %-12s %s\n", name, strings.Join(names, ", "))
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, sweepCmd, listCmd, plotCmd, analyzeCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	cmd.Flags().StringVar(&mode, "mode", config.DefaultMode, "timestep mode: fixed or realtime")
	cmd.Flags().Int64Var(&steps, "steps", config.DefaultSteps, "number of steps (0 runs until interrupted)")
	cmd.Flags().Float64Var(&dt, "dt", integrator.DefaultTargetStep, "target step in simulated seconds (fixed mode)")
	cmd.Flags().Float64Var(&minForce, "min-force", 0.1, "ignore pair forces below this many newtons (0 disables)")
	cmd.Flags().Float64Var(&speed, "speed", integrator.DefaultMultiplier, "simulated seconds per compute second (realtime mode)")
	cmd.Flags().BoolVar(&exact, "exact", false, "use ½·a·dt² in the position update")
	cmd.Flags().IntVar(&workers, "workers", 0, "goroutines per step (0 uses all cpus)")
	cmd.Flags().BoolVar(&validate, "validate", false, "stop on non-finite body state")
	cmd.Flags().Float64Var(&intervalMs, "interval", 0, "minimum milliseconds between steps")
}

// loadConfig resolves the scene from --config, a preset name, or the
// default preset, then applies the flags that were set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		name string
	)

	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg, name = c, strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	default:
		name = defaultPreset
		if len(args) > 0 {
			name = args[0]
		}
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(config.ListPresets(), ", "))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("dt") {
		cfg.TargetStep = dt
	}
	if flags.Changed("min-force") {
		cfg.MinForce = minForce
	}
	if flags.Changed("speed") {
		cfg.SpeedMultiplier = speed
	}
	if flags.Changed("exact") {
		cfg.PositionTerm = integrator.LegacyTerm.String()
		if exact {
			cfg.PositionTerm = integrator.ExactTerm.String()
		}
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("validate") {
		cfg.ValidateState = validate
	}
	if flags.Changed("interval") {
		cfg.IntervalMs = intervalMs
	}

	log.Printf("scene %s: mode=%s term=%s bodies=%d", name, cfg.Mode, cfg.PositionTerm, len(cfg.Bodies))
	return cfg, name, nil
}
