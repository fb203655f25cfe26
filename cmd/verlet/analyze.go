package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/verlet/internal/analysis"
	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/experiment"
	"github.com/san-kum/verlet/internal/export"
	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/optim"
	"github.com/san-kum/verlet/internal/sim"
	"github.com/san-kum/verlet/internal/topology"
	"github.com/san-kum/verlet/internal/verlet"
)

// trackedRun runs cfg with a point tracked. Without --track the last point
// is used, which is the free tip of a rope.
func trackedRun(cfg *config.Config) (*verlet.World, *sim.Result, error) {
	w, err := cfg.Build(topology.NewRegistry())
	if err != nil {
		return nil, nil, err
	}
	if len(w.Points) == 0 {
		return nil, nil, fmt.Errorf("scene %s has no points", cfg.Scene)
	}
	sc := cfg.SimConfig()
	if sc.Track < 0 {
		sc.Track = len(w.Points) - 1
	}
	res, err := sim.New(w).Run(context.Background(), sc)
	if err != nil {
		return nil, nil, err
	}
	return w, res, nil
}

func analyzeScene(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	fmt.Printf("analysis: %s %s (%s)\n\n", cfg.Scene, name, mode)

	switch mode {
	case "spectrum":
		_, res, err := trackedRun(cfg)
		if err != nil {
			return err
		}
		xs := analysis.Xs(res.Track)
		ps := analysis.Spectrum(xs)
		if len(ps) < 2 {
			return fmt.Errorf("too few samples")
		}
		plotData := ps[:len(ps)/4+1]
		fmt.Println(asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("sway spectrum (x)"),
		))
		fmt.Println()

		freq := analysis.DominantFrequency(xs, 1/cfg.Dt)
		fmt.Printf("dominant frequency: %.3f hz\n", freq)
		if freq > 0 {
			fmt.Printf("period: %.3f s\n", 1.0/freq)
		}

	case "period":
		_, res, err := trackedRun(cfg)
		if err != nil {
			return err
		}
		fmt.Println(analysis.TrajectoryToASCII(res.Track, 70, 20))
		fmt.Println()
		fmt.Printf("swing period (x): %.3f s\n", analysis.SwingPeriod(analysis.Xs(res.Track), cfg.Dt))
		fmt.Printf("bounce period (y): %.3f s\n", analysis.SwingPeriod(analysis.Ys(res.Track), cfg.Dt))

	case "divergence":
		w, err := cfg.Build(topology.NewRegistry())
		if err != nil {
			return err
		}
		idx := cfg.Track
		if idx < 0 {
			idx = len(w.Points) - 1
		}
		lambda := analysis.Divergence(w, idx, 1e-3, cfg.Dt, cfg.Steps)
		fmt.Printf("divergence rate (point %d): %.4f /s\n", idx, lambda)
		if lambda > 0 {
			fmt.Println("nearby starts separate: motion is sensitive to initial conditions")
		}

	case "sweep":
		var its []int
		for _, f := range strings.Split(sweepIters, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return fmt.Errorf("sweep %q: %w", sweepIters, err)
			}
			its = append(its, n)
		}
		reg := topology.NewRegistry()
		points, err := analysis.IterationSweep(func() (*verlet.World, error) { return cfg.Build(reg) }, its, cfg.Dt, cfg.Steps)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ITERATIONS\tPEAK STRETCH")
		for _, p := range points {
			fmt.Fprintf(w, "%d\t%.4f%%\n", p.Iterations, p.Stretch*100)
		}
		return w.Flush()

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	var svg string
	if trajectory {
		_, res, err := trackedRun(cfg)
		if err != nil {
			return err
		}
		svg = export.TrajectoryToSVG(res.Track, 800, 600, "#b4b4b4")
		if svg == "" {
			return fmt.Errorf("trajectory too short")
		}
	} else {
		w, err := cfg.Build(topology.NewRegistry())
		if err != nil {
			return err
		}
		if _, err := sim.New(w).Run(context.Background(), cfg.SimConfig()); err != nil {
			return err
		}
		svg = export.WorldToSVG(w, export.DefaultSVGOptions())
	}

	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func reportRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	path := outFile
	if path == "" {
		path = meta.ID + ".html"
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.RenderReport(f, *meta, series); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runTrials(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	log.Info("running trials", "scene", cfg.Scene, "preset", name, "trials", trials)
	start := time.Now()
	results, err := experiment.RunMonteCarlo(ctx, experiment.MonteCarloConfig{
		Base:      cfg,
		NumTrials: trials,
		CutStep:   cutStep,
		Seed:      seed,
	}, topology.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tCUT\tSEVERED\tPEAK STRETCH\tSTABLE")
	severed, stable := 0, 0
	for _, r := range results {
		fmt.Fprintf(w, "%d\t(%.0f,%.0f)-(%.0f,%.0f)\t%d\t%.4f\t%v\n",
			r.TrialID, r.Cut.From.X, r.Cut.From.Y, r.Cut.To.X, r.Cut.To.Y, r.Severed, r.Stretch, r.Stable)
		severed += r.Severed
		if r.Stable {
			stable++
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d trials in %v: mean severed %.1f, stable %d/%d\n",
		len(results), time.Since(start).Round(time.Millisecond),
		float64(severed)/float64(len(results)), stable, len(results))
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s %s\n\n", cfg.Scene, name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITERATIONS\tPOINTS\tLINKS\tSTEPS\tELAPSED\tSTEPS/SEC\tPEAK STRETCH")

	reg := topology.NewRegistry()
	for _, it := range []int{5, 10, 20, 40} {
		c := *cfg
		c.Iterations = it
		c.Track = -1

		exp := experiment.New(&c, name)
		stretch := metrics.NewStretch()
		if err := exp.Setup(reg, []sim.Metric{stretch}); err != nil {
			return err
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		world := exp.World()
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%v\t%.0f\t%.4f\n",
			it, len(world.Points), len(world.Links), result.StepsTaken,
			elapsed.Round(time.Microsecond), float64(result.StepsTaken)/elapsed.Seconds(), stretch.Peak())
	}
	return w.Flush()
}

// parseGrid reads "param=v1,v2,...".
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, values, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, nil, fmt.Errorf("grid %q: want param=v1,v2", spec)
		}
		var r []float64
		for _, f := range strings.Split(values, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %q: %w", spec, err)
			}
			r = append(r, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, r)
	}
	return names, ranges, nil
}

func tuneScene(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(tuneGrid)
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	log.Info("tuning", "scene", cfg.Scene, "preset", name, "metric", tuneMetric, "grid", tuneGrid)
	params, best, err := g.Search(ctx, cfg, tuneMetric)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6f\n", tuneMetric, best)
	for _, n := range names {
		fmt.Printf("  %s = %g\n", n, params[n])
	}
	return nil
}
