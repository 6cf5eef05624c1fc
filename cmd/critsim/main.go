package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"critsim/internal/analysis"
	"critsim/internal/config"
	"critsim/internal/model"
	"critsim/internal/props"
	"critsim/internal/region"
	"critsim/internal/solver"
	"critsim/internal/storage"
	"critsim/internal/transient"
)

var (
	dataDir    string
	configFile string
	preset     string
	caseName   string
	solverExe  string
	timeoutSec float64
	source     float64
	ceiling    float64
	floor      float64
	series     string
	quiet      bool
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	abortStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "critsim",
		Short: "transient criticality feedback model for fissile solutions",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".critsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the transient to termination",
		RunE:  runTransient,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&caseName, "case", "", "case name (deck basename)")
	runCmd.Flags().StringVar(&solverExe, "solver", "", "external solver executable")
	runCmd.Flags().Float64Var(&timeoutSec, "timeout", 0, "per-query solver timeout in seconds (0 waits indefinitely)")
	runCmd.Flags().Float64Var(&source, "source", 0, "initiating-accident source magnitude (neutrons)")
	runCmd.Flags().Float64Var(&ceiling, "ceiling", 0, "k-eff ceiling for leaving accumulation")
	runCmd.Flags().Float64Var(&floor, "floor", 0, "k-eff floor for leaving expansion")
	runCmd.Flags().BoolVar(&quiet, "quiet", false, "suppress per-tick progress")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&series, "series", "keff", "series to plot: keff, keff2s, temp, fissions, lifetime")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summarize a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	deckCmd := &cobra.Command{
		Use:   "deck",
		Short: "print the baseline input deck for the configured case",
		RunE:  printDeck,
	}
	deckCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	deckCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, deckCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q (available: %v)",
				model.ErrConfiguration, preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("case") {
		cfg.Case = caseName
	}
	if cmd.Flags().Changed("solver") {
		cfg.Solver.Executable = solverExe
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Solver.TimeoutSec = timeoutSec
	}
	if cmd.Flags().Changed("source") {
		cfg.Physics.InitialNeutrons = source
	}
	if cmd.Flags().Changed("ceiling") {
		cfg.Physics.KEffCeiling = ceiling
	}
	if cmd.Flags().Changed("floor") {
		cfg.Physics.KEffFloor = floor
	}
	return cfg, cfg.Validate()
}

func runTransient(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, runDir, err := st.CreateRun(cfg.Case)
	if err != nil {
		return err
	}

	resFile, err := os.Create(filepath.Join(runDir, storage.ResultsFile))
	if err != nil {
		return err
	}
	defer resFile.Close()

	workDir := cfg.Solver.WorkDir
	if workDir == "" {
		workDir = runDir
	}
	adapter := solver.NewAdapter(
		cfg.Solver.Executable,
		workDir,
		time.Duration(cfg.Solver.TimeoutSec*float64(time.Second)),
		cfg.Geometry.NumAxial*cfg.Geometry.NumRadial,
		cfg.Physics.SolutionDensity,
	)
	rec := transient.NewRecorder(resFile, cfg.TimePrecision())

	ctrl, err := transient.New(cfg, adapter, props.NewWater(), rec)
	if err != nil {
		return err
	}

	ticks := 0
	peakTemp := 0.0
	ctrl.OnTick(func(ts model.TransientState) {
		ticks++
		if ts.MaxTemperature > peakTemp {
			peakTemp = ts.MaxTemperature
		}
		if quiet {
			return
		}
		fmt.Printf("t=%.*f s  phase=%s  k-eff=%v  k-eff+2s=%v  fissions=%E  maxT=%.2f K\n",
			cfg.TimePrecision(), ts.Time, ts.Phase, ts.KEff, ts.KEffPlus2Sigma,
			ts.TotalFissions, ts.MaxTemperature)
	})

	fmt.Printf("running case %s (run id %s)...\n", cfg.Case, runID)
	start := time.Now()
	final, runErr := ctrl.Run(cmd.Context())
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		ID:              runID,
		Case:            cfg.Case,
		Timestamp:       time.Now(),
		Dt:              cfg.Dt(),
		InitialNeutrons: cfg.Physics.InitialNeutrons,
		KEffCeiling:     cfg.Physics.KEffCeiling,
		KEffFloor:       cfg.Physics.KEffFloor,
		FinalPhase:      ctrl.Phase().String(),
		Ticks:           ticks,
		FinalKEff:       final.KEff,
		PeakTemperature: peakTemp,
		TotalFissions:   final.TotalFissions,
	}
	if err := st.SaveMetadata(meta); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("transient complete"))
	phaseStr := valueStyle.Render(meta.FinalPhase)
	if ctrl.Phase() == model.Aborted {
		phaseStr = abortStyle.Render(meta.FinalPhase)
	}
	fmt.Printf("%s %s\n", labelStyle.Render("final phase:"), phaseStr)
	fmt.Printf("%s %s\n", labelStyle.Render("ticks:"), valueStyle.Render(fmt.Sprintf("%d", ticks)))
	fmt.Printf("%s %s\n", labelStyle.Render("final k-eff:"), valueStyle.Render(fmt.Sprintf("%v", final.KEff)))
	fmt.Printf("%s %s\n", labelStyle.Render("total fissions:"), valueStyle.Render(fmt.Sprintf("%E", final.TotalFissions)))
	fmt.Printf("%s %s\n", labelStyle.Render("peak temperature:"), valueStyle.Render(fmt.Sprintf("%.2f K", peakTemp)))
	fmt.Printf("%s %s\n", labelStyle.Render("wall time:"), valueStyle.Render(elapsed.String()))

	return runErr
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCASE\tTIME\tTICKS\tFINAL PHASE\tFINAL K-EFF\tPEAK TEMP (K)")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%.5f\t%.2f\n",
			run.ID,
			run.Case,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.FinalPhase,
			run.FinalKEff,
			run.PeakTemperature,
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
	s, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(s.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	var data []float64
	var caption string
	switch series {
	case "keff":
		data, caption = s.KEff, "k-eff"
	case "keff2s":
		data, caption = s.KEffPlus2Sigma, "k-eff + 2 sigma"
	case "temp":
		data, caption = s.MaxTemps, "max region temperature (K)"
	case "fissions":
		data, caption = s.TotalFissions, "total fissions"
	case "lifetime":
		data, caption = s.Lifetimes, "neutron generation lifetime (s)"
	default:
		return fmt.Errorf("unknown series %q", series)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("case: %s\n", meta.Case)
	fmt.Printf("samples: %d\n\n", len(data))

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s vs tick", caption)),
	)
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	s, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	sum, err := analysis.Summarize(s)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("run %s (case %s)", meta.ID, meta.Case)))
	fmt.Printf("%s %s\n", labelStyle.Render("final phase:"), valueStyle.Render(meta.FinalPhase))
	fmt.Printf("%s %s\n", labelStyle.Render("recorded ticks:"), valueStyle.Render(fmt.Sprintf("%d", sum.Ticks)))
	fmt.Printf("%s %s\n", labelStyle.Render("duration:"), valueStyle.Render(fmt.Sprintf("%g s", sum.Duration)))
	fmt.Printf("%s %s\n", labelStyle.Render("total fissions:"), valueStyle.Render(fmt.Sprintf("%E", sum.TotalFissions)))
	fmt.Printf("%s %s\n", labelStyle.Render("peak fission tick:"), valueStyle.Render(fmt.Sprintf("%E at t=%g s", sum.PeakFissions, sum.PeakFissionsTime)))
	fmt.Printf("%s %s\n", labelStyle.Render("peak temperature:"), valueStyle.Render(fmt.Sprintf("%.2f K at t=%g s", sum.PeakTemperature, sum.PeakTempTime)))
	fmt.Printf("%s %s\n", labelStyle.Render("peak k-eff:"), valueStyle.Render(fmt.Sprintf("%.5f", sum.PeakKEff)))
	fmt.Printf("%s %s\n", labelStyle.Render("supercritical time:"), valueStyle.Render(fmt.Sprintf("%g s", sum.SupercriticalSec)))
	if sum.DoublingTime > 0 {
		fmt.Printf("%s %s\n", labelStyle.Render("shortest doubling time:"), valueStyle.Render(fmt.Sprintf("%g s", sum.DoublingTime)))
	}
	fmt.Printf("%s %s\n", labelStyle.Render("mean lifetime:"), valueStyle.Render(fmt.Sprintf("%g s", sum.MeanLifetime)))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func printDeck(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	grid, err := buildBaselineGrid(cfg)
	if err != nil {
		return err
	}
	snap := solver.TakeSnapshot(grid, cfg.Geometry.TotalHeight, cfg.Case)
	return solver.WriteDeck(os.Stdout, snap, true)
}

func buildBaselineGrid(cfg *config.Config) (*region.Grid, error) {
	return region.Build(cfg.GridSpec(), cfg.Geometry.TotalHeight, nil)
}
