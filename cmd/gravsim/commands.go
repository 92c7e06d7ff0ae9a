package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/hud"
	"github.com/san-kum/gravsim/internal/integrator"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/telemetry"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

func attachMetrics(s *sim.Simulation) {
	s.AddMetric(metrics.NewEnergyDrift())
	s.AddMetric(metrics.NewMomentumDrift())
	s.AddMetric(metrics.NewStability())
	s.AddMetric(metrics.NewStepTime())
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := cfg.Build()
	if err != nil {
		return err
	}
	attachMetrics(s)

	var rec *storage.Recorder
	if record > 0 {
		rec = storage.NewRecorder(record)
		s.AddObserver(rec)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s for %d steps...\n", name, cfg.Steps)
	log.Printf("run %s started", name)
	start := time.Now()
	result, err := s.Run(ctx, cfg.RunOptions())
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Printf("run %s finished: %d steps in %v", name, result.Steps, time.Since(start))

	fmt.Printf("completed in %v\n\n", time.Since(start).Round(time.Millisecond))
	printSnapshot(result.Final)

	fmt.Println("\nmetrics:")
	for _, m := range []string{"energy_drift", "momentum_drift", "stability", "step_ms"} {
		fmt.Printf("  %-15s %.6g\n", m, result.Metrics[m])
	}
	for _, e := range result.Errors {
		log.Printf("run %s: %v", name, e)
		fmt.Println(errorStyle.Render(e.Error()))
	}

	if rec != nil {
		runID, err := storage.New(dataDir).Save(runMetadata(name, cfg, result, rec.Bodies(), rec.Colors()), rec.Frames())
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}
	return nil
}

func runMetadata(name string, cfg *config.Config, result *sim.Result, bodies, colors []string) storage.RunMetadata {
	meta := storage.RunMetadata{
		Preset:   name,
		Mode:     cfg.Mode,
		Term:     cfg.PositionTerm,
		MinForce: cfg.MinForce,
		Steps:    result.Steps,
		Elapsed:  result.Elapsed,
		Bodies:   bodies,
		Colors:   colors,
		Metrics:  result.Metrics,
	}
	for _, e := range result.Errors {
		meta.Errors = append(meta.Errors, e.Error())
	}
	return meta
}

func printSnapshot(snap telemetry.Snapshot) {
	for _, line := range snap.Lines() {
		fmt.Println(line)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tCLASS\tPRIMARY\tSPEED (m/s)\tX\tY\tZ")
	for _, b := range snap.Bodies {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.4g\t%.4g\t%.4g\n",
			b.Name, b.Class, b.Primary, b.Velocity.Len(),
			b.Position[0], b.Position[1], b.Position[2])
	}
	w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := cfg.Build()
	if err != nil {
		return err
	}

	m := hud.NewModel(s, name, hud.Options{
		StepsPerTick: stepsPerTick,
		Tick:         time.Second / 30,
		Theme:        theme,
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// compareTerms runs the same scene with both position update terms.
func compareTerms(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	terms := []integrator.Term{integrator.LegacyTerm, integrator.ExactTerm}
	members := make([]*sim.Simulation, len(terms))
	for i, term := range terms {
		c := cfg.Clone()
		c.PositionTerm = term.String()
		s, err := c.Build()
		if err != nil {
			return err
		}
		attachMetrics(s)
		members[i] = s
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := sim.NewEnsemble(members...).Run(ctx, cfg.RunOptions())
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s: legacy vs exact after %d steps", name, results[0].Steps)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TERM\tENERGY DRIFT\tMOMENTUM DRIFT\tSTEP MS")
	for i, r := range results {
		fmt.Fprintf(w, "%s\t%.6g\t%.6g\t%.3f\n", terms[i], r.Metrics["energy_drift"], r.Metrics["momentum_drift"], r.Metrics["step_ms"])
	}
	w.Flush()

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tSEPARATION (m)")
	for _, a := range results[0].Final.Bodies {
		b, ok := results[1].Final.Body(a.Name)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%.6g\n", a.Name, b.Position.Sub(a.Position).Len())
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tMODE\tTERM\tSTEPS\tSIMULATED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Mode,
			run.Term,
			run.Steps,
			telemetry.Breakdown(run.Elapsed),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", series.Len())

	columns := []string{"dt", "step_ms"}
	if column != "" {
		columns = []string{column}
	} else {
		for _, b := range meta.Bodies {
			columns = append(columns, b+".x", b+".y")
		}
	}

	const maxPlots = 8
	for i, name := range columns {
		if i == maxPlots {
			fmt.Printf("%d more columns, use --column\n", len(columns)-i)
			break
		}
		data, ok := series.Column(name)
		if !ok {
			return fmt.Errorf("run %s has no column %q", runID, name)
		}
		if !plottable(data) {
			fmt.Printf("%s: not finite, skipped\n\n", name)
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func plottable(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return len(data) > 0
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	out := io.Writer(os.Stdout)
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if svgOut {
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		series, err := st.LoadSeries(args[0])
		if err != nil {
			return err
		}
		tracks, err := export.TracksFromSeries(series, meta.Bodies, meta.Colors)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(out, export.TrajectoriesToSVG(tracks, 800, 800)); err != nil {
			return err
		}
	} else if err := st.ExportJSON(out, args[0]); err != nil {
		return err
	}

	if outFile != "" {
		fmt.Printf("exported %s to %s\n", args[0], outFile)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	if len(meta.Bodies) < 2 {
		return fmt.Errorf("run %s needs at least two bodies", runID)
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	orbiter, center := target, around
	if orbiter == "" {
		orbiter = meta.Bodies[len(meta.Bodies)-1]
	}
	if center == "" {
		center = meta.Bodies[0]
	}

	cols := func(name string) ([]float64, []float64, []float64, error) {
		x, okX := series.Column(name + ".x")
		y, okY := series.Column(name + ".y")
		z, okZ := series.Column(name + ".z")
		if !okX || !okY || !okZ {
			return nil, nil, nil, fmt.Errorf("run %s has no body %q", runID, name)
		}
		return x, y, z, nil
	}
	ax, ay, az, err := cols(orbiter)
	if err != nil {
		return err
	}
	bx, by, bz, err := cols(center)
	if err != nil {
		return err
	}

	times, _ := series.Column("time")
	dist := analysis.Distances(ax, ay, az, bx, by, bz)
	peri, apo := analysis.Apsides(dist)

	fmt.Printf("orbit analysis: %s around %s (%s)\n\n", orbiter, center, meta.ID)
	fmt.Printf("  samples     %d\n", len(dist))
	fmt.Printf("  periapsis   %.6g m\n", peri)
	fmt.Printf("  apoapsis    %.6g m\n", apo)

	period, err := analysis.DominantPeriod(times, dist)
	if err != nil {
		fmt.Printf("  period      n/a (%v)\n", err)
	} else {
		fmt.Printf("  period      %.6g s (%s)\n", period, telemetry.Breakdown(period))
	}

	if plottable(dist) {
		fmt.Println()
		fmt.Println(asciigraph.Plot(dist,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("separation (m)"),
		))
	}
	return nil
}

func sweepParamValues(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	values, err := experiment.ParseValues(sweepValues)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sw := &experiment.Sweep{
		Base:   cfg,
		Param:  sweepParam,
		Values: values,
		Metrics: func() []sim.Metric {
			return []sim.Metric{metrics.NewEnergyDrift(), metrics.NewMomentumDrift(), metrics.NewStability()}
		},
	}
	outcomes, err := sw.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s: sweeping %s", name, sweepParam)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tSTEPS\tSIMULATED\tENERGY DRIFT\tMOMENTUM DRIFT\tSTABILITY")
	for _, o := range outcomes {
		r := o.Result
		if r == nil {
			fmt.Fprintf(w, "%.6g\t-\t-\t-\t-\t-\n", o.Value)
			continue
		}
		fmt.Fprintf(w, "%.6g\t%d\t%s\t%.6g\t%.6g\t%.3f\n",
			o.Value, r.Steps, telemetry.Breakdown(r.Elapsed),
			r.Metrics["energy_drift"], r.Metrics["momentum_drift"], r.Metrics["stability"])
	}
	return w.Flush()
}
