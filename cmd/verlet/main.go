package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/verlet/internal/audio"
	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/experiment"
	"github.com/san-kum/verlet/internal/geom"
	"github.com/san-kum/verlet/internal/gui"
	"github.com/san-kum/verlet/internal/logging"
	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/optim"
	"github.com/san-kum/verlet/internal/sim"
	"github.com/san-kum/verlet/internal/storage"
	"github.com/san-kum/verlet/internal/stream"
	"github.com/san-kum/verlet/internal/topology"
	"github.com/san-kum/verlet/internal/tui"
	"github.com/san-kum/verlet/internal/viz"
)

var (
	envFile   string
	dataDir   string
	storeKind string
	logLevel  string

	dt         float64
	steps      int
	iterations int
	gravity    float64
	track      int
	cutSpecs   []string
	configFile string
	preset     string

	save      bool
	asJSON    bool
	watch     bool
	frameRate int

	theme string
	sound bool

	addr string

	outFile    string
	trajectory bool

	mode       string
	trials     int
	cutStep    int
	seed       int64
	sweepIters string
	tuneMetric string
	tuneGrid   []string

	log *slog.Logger
	env config.Env
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "verlet",
		Short:         "rope and cloth constraint simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the window with an empty stage, like the original canvas app
			cfg := config.DefaultConfig()
			cfg.Scene = "empty"
			return gui.Run(cfg, "", topology.NewRegistry(), log)
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with defaults")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default $"+config.EnvDataDir+" or ./data)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "run store backend: file or sqlite")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a headless simulation and record metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	sceneFlags(runCmd)
	runCmd.Flags().StringArrayVar(&cutSpecs, "cut", nil, "scheduled cut step:x1,y1,x2,y2 (repeatable)")
	runCmd.Flags().BoolVar(&save, "save", true, "save the run to the store")
	runCmd.Flags().BoolVar(&asJSON, "json", false, "print the run as JSON")
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw the world in the terminal while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --watch")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "interactive terminal view with mouse cutting and editing",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().BoolVar(&sound, "sound", false, "play a snap when links are cut")

	guiCmd := &cobra.Command{
		Use:   "gui [scene]",
		Short: "open the simulation window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, name, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			return gui.Run(cfg, name, topology.NewRegistry(), log)
		},
	}
	sceneFlags(guiCmd)

	serveCmd := &cobra.Command{
		Use:   "serve [scene]",
		Short: "stream the simulation to browsers over websocket",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	sceneFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&frameRate, "fps", 60, "frames per second")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [scene]",
		Short: "simulate a scene and write its final state as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	sceneFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "verlet.svg", "output file")
	exportSVGCmd.Flags().BoolVar(&trajectory, "trajectory", false, "draw the tracked point's path instead of the world")

	reportCmd := &cobra.Command{
		Use:   "report [run_id]",
		Short: "write an HTML chart report for a run",
		Args:  cobra.ExactArgs(1),
		RunE:  reportRun,
	}
	reportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.html)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [scene]",
		Short: "sway spectrum, swing period, divergence or solver sweep",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeScene,
	}
	sceneFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&mode, "mode", "spectrum", "spectrum, period, divergence or sweep")
	analyzeCmd.Flags().StringVar(&sweepIters, "sweep", "1,2,5,10,20,40", "iteration counts for --mode sweep")

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	trialsCmd := &cobra.Command{
		Use:   "trials [scene]",
		Short: "Monte Carlo random cuts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTrials,
	}
	sceneFlags(trialsCmd)
	trialsCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	trialsCmd.Flags().IntVar(&cutStep, "cut-step", 60, "step at which each trial is cut")
	trialsCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 draws one)")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark step throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	sceneFlags(benchCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune [scene]",
		Short: "grid search solver settings for the lowest metric value",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneScene,
	}
	sceneFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "stretch", "metric to minimise")
	tuneCmd.Flags().StringArrayVar(&tuneGrid, "grid", []string{"iterations=5,10,20,40"}, "param=v1,v2,... (repeatable; params: "+strings.Join(optim.Params, ", ")+")")

	initConfigCmd := &cobra.Command{
		Use:   "init-config [file]",
		Short: "write a config file from a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd, nil)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	sceneFlags(initConfigCmd)

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, serveCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd,
		reportCmd, analyzeCmd, presetsCmd, scenarioCmd, trialsCmd, benchCmd, tuneCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "constraint relaxation passes per step")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "downward displacement per step")
	cmd.Flags().IntVar(&track, "track", -1, "point index to record every step")
}

// setup loads dotenv defaults and builds the logger. Explicit flags win
// over the environment.
func setup(cmd *cobra.Command) error {
	var err error
	env, err = config.LoadEnv(envFile)
	if err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	if dataDir == "" {
		dataDir = env.DataDir
	}
	if storeKind == "" {
		storeKind = env.Store
	}
	if logLevel == "" {
		logLevel = env.LogLevel
	}
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("log level %q: %w", logLevel, err)
	}
	log = logging.New(os.Stderr, level)
	return nil
}

// resolveConfig applies, in order: the preset (or scene defaults), the
// config file, then any flags set on the command line.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	scene := ""
	if len(args) > 0 {
		scene = args[0]
	}

	cfg := config.DefaultConfig()
	name := preset
	if scene == "" {
		scene = cfg.Scene
	}
	if name == "" && configFile == "" {
		if _, ok := config.Presets[scene]; ok {
			name = "default"
		}
	}
	if name != "" {
		p := config.GetPreset(scene, name)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets(scene))
		}
		cfg = p
	}
	cfg.Scene = scene

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Scene = args[0]
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("track") {
		cfg.Track = track
	}
	if flags.Changed("cut") {
		for _, spec := range cutSpecs {
			c, err := parseCut(spec)
			if err != nil {
				return nil, "", err
			}
			cfg.Cuts = append(cfg.Cuts, c)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

// parseCut reads "step:x1,y1,x2,y2".
func parseCut(spec string) (sim.ScheduledCut, error) {
	stepPart, coords, ok := strings.Cut(spec, ":")
	if !ok {
		return sim.ScheduledCut{}, fmt.Errorf("cut %q: want step:x1,y1,x2,y2", spec)
	}
	step, err := strconv.Atoi(strings.TrimSpace(stepPart))
	if err != nil {
		return sim.ScheduledCut{}, fmt.Errorf("cut %q: %w", spec, err)
	}
	fields := strings.Split(coords, ",")
	if len(fields) != 4 {
		return sim.ScheduledCut{}, fmt.Errorf("cut %q: want 4 coordinates, got %d", spec, len(fields))
	}
	var v [4]float64
	for i, f := range fields {
		v[i], err = strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return sim.ScheduledCut{}, fmt.Errorf("cut %q: %w", spec, err)
		}
	}
	return sim.ScheduledCut{Step: step, From: geom.V(v[0], v[1]), To: geom.V(v[2], v[3])}, nil
}

func openStore() (storage.Store, error) {
	return storage.Open(storeKind, dataDir)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, name)
	if err := exp.Setup(topology.NewRegistry(), metrics.Default()); err != nil {
		return err
	}

	if watch {
		r := tui.NewLiveRenderer(os.Stdout, cfg.Scene, frameRate)
		exp.GetSimulator().AddObserver(r)
		r.Start()
		defer r.Stop()
	}

	ctx, cancel := signalContext()
	defer cancel()

	log.Info("running simulation", "scene", cfg.Scene, "preset", name, "steps", cfg.Steps, "dt", cfg.Dt)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		log.Warn("run interrupted", "err", err, "steps", result.StepsTaken)
	}
	elapsed := time.Since(start)
	for _, e := range result.Errors {
		log.Warn("simulation error", "err", e)
	}

	meta, err := exp.Metadata(result)
	if err != nil {
		return err
	}

	if save {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.Save(meta, result.Series)
		if err != nil {
			return err
		}
		meta.ID = id
		log.Debug("run saved", "id", id, "store", storeKind, "dir", dataDir)
	}

	if asJSON {
		return storage.ExportJSON(os.Stdout, meta, result.Series)
	}

	fmt.Printf("completed in %v\n", elapsed)
	if meta.ID != "" {
		fmt.Printf("run id: %s\n", meta.ID)
	}
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("points: %d  links: %d  severed: %d\n", meta.Points, meta.Links, result.Severed)
	fmt.Println("\nmetrics:")
	for _, n := range metrics.Names() {
		if v, ok := result.Metrics[n]; ok {
			fmt.Printf("  %s: %.6f\n", n, v)
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	viz.SetTheme(theme)

	m, err := viz.NewModel(cfg, name, topology.NewRegistry())
	if err != nil {
		return err
	}

	if sound {
		snap := audio.NewSnapper()
		if err := snap.Start(); err != nil {
			log.Warn("audio unavailable", "err", err)
		} else {
			defer snap.Stop()
			m = m.OnSever(snap.Snap)
		}
	}
	return viz.Run(m)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	srv, err := stream.NewServer(cfg, name, topology.NewRegistry(), frameRate, log)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("open http://localhost%s\n", addr)
	if err := srv.ListenAndServe(ctx, addr); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tPRESET\tTIME\tSTEPS\tDT\tITER\tSEVERED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Iterations,
			run.Severed,
		)
	}
	return w.Flush()
}

func loadRun(id string) (*storage.RunMetadata, map[string][]float64, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	series, err := st.LoadSeries(id)
	if err != nil {
		return nil, nil, err
	}
	return meta, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s %s\n", meta.Scene, meta.Preset)
	fmt.Printf("steps: %d\n\n", meta.Steps)

	for _, name := range metrics.Names() {
		data := finite(series[name])
		if len(data) == 0 {
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

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, series)
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenes := config.ListScenes()
	if len(args) > 0 {
		scenes = args
	}
	for _, scene := range scenes {
		presets := config.ListPresets(scene)
		if len(presets) == 0 {
			fmt.Printf("no presets for scene: %s\n", scene)
			continue
		}
		fmt.Printf("presets for %s:\n", scene)
		for _, p := range presets {
			c := config.GetPreset(scene, p)
			fmt.Printf("  %-10s steps=%d\n", p, c.Steps)
		}
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := experiment.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := signalContext()
	defer cancel()

	runner := &experiment.Runner{Registry: topology.NewRegistry(), Store: st, Log: log}
	results, err := runner.RunScenario(ctx, scenario)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENE\tPRESET\tSTEPS\tSEVERED\tSTRETCH\tRUN")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%.4f\t%s\n",
			i+1, r.Meta.Scene, r.Meta.Preset, r.Result.StepsTaken, r.Result.Severed,
			r.Result.Metrics["stretch"], r.RunID)
	}
	return w.Flush()
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
