package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/hexcpg/internal/analysis"
	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/experiment"
	"github.com/san-kum/hexcpg/internal/export"
	"github.com/san-kum/hexcpg/internal/storage"
)

func runGait(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s %v...\n", cfg.Encoding, cfg.Params)
	start := time.Now()

	trace, err := experiment.Run(context.Background(), cfg, newLogger())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	metrics := analysis.Summarize(trace)
	runID, err := st.Save(trace, cfg.Preset, metrics)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(trace.Times))
	if trace.Err != nil {
		fmt.Printf("stopped early: %v\n", trace.Err)
	}
	printMetrics(metrics)
	return nil
}

func printMetrics(metrics map[string]float64) {
	if len(metrics) == 0 {
		return
	}
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore(cmd).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tENCODING\tPRESET\tTIME\tDURATION\tDT\tINTEG\tSTATUS")
	for _, run := range runs {
		status := "ok"
		if run.Failure != "" {
			status = "failed"
		}
		tag := run.Preset
		if tag == "" {
			tag = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Encoding,
			tag,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			status,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	trace, meta, err := openStore(cmd).LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(trace.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	selected, err := selectLegs()
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("encoding: %s %v\n", meta.Encoding, meta.Params)
	fmt.Printf("samples: %d\n\n", len(trace.Times))

	series := make([][]float64, 0, len(selected))
	colors := make([]asciigraph.AnsiColor, 0, len(selected))
	palette := []asciigraph.AnsiColor{
		asciigraph.Red, asciigraph.Yellow, asciigraph.Green,
		asciigraph.Cyan, asciigraph.Blue, asciigraph.Magenta,
	}
	for _, leg := range selected {
		s := trace.Leg(leg)
		for i, a := range s {
			s[i] = dynamo.Wrap(a)
		}
		series = append(series, s)
		colors = append(colors, palette[leg])
	}

	graph := asciigraph.PlotMany(series,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(fmt.Sprintf("legs %v, wrapped to (-pi, pi]", selected)),
	)
	fmt.Println(graph)

	if svgFile != "" {
		if err := os.WriteFile(svgFile, []byte(export.TraceSVG(trace, selected, 800, 300)), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", svgFile)
	}
	return nil
}

func selectLegs() ([]int, error) {
	if legs == "" {
		return []int{0, 1, 2, 3, 4, 5}, nil
	}
	selected, err := parseInts(legs)
	if err != nil {
		return nil, fmt.Errorf("--legs: %w", err)
	}
	for _, leg := range selected {
		if leg < 0 || leg >= dynamo.NumLegs {
			return nil, fmt.Errorf("--legs: leg %d out of range [0, %d)", leg, dynamo.NumLegs)
		}
	}
	return selected, nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	trace, meta, err := openStore(cmd).LoadTrace(args[0])
	if err != nil {
		return err
	}

	switch exportFormat {
	case "json":
		return storage.ExportJSON(os.Stdout, trace, meta.Metrics)
	case "csv":
		selected, err := selectLegs()
		if err != nil {
			return err
		}
		return storage.ExportCSV(os.Stdout, trace, selected)
	default:
		return fmt.Errorf("unknown format: %s (available: json, csv)", exportFormat)
	}
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	trace, meta, err := openStore(cmd).LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(trace.Times) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("gait analysis: %s\n", meta.ID)
	fmt.Printf("encoding: %s %v\n", meta.Encoding, meta.Params)
	if meta.Failure != "" {
		fmt.Printf("run stopped early: %s\n", meta.Failure)
	}
	fmt.Println()

	ref := trace.Leg(0)
	ps := analysis.PowerSpectrum(velocityOf(ref, trace.Dt))
	if len(ps) > 8 {
		// skip the DC bin, the mean rate dwarfs everything else
		plotData := ps[1 : len(ps)/4]
		fmt.Println(asciigraph.Plot(plotData,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum of leg 0 rate"),
		))
		fmt.Println()
	}

	printMetrics(analysis.Summarize(trace))

	fmt.Println("\nper leg:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEG\tRATE\tLAG\tBACKWARD")
	for leg := 0; leg < dynamo.NumLegs; leg++ {
		s := trace.Leg(leg)
		lag := "-"
		if l, err := analysis.PhaseLag(ref, s, trace.Times); err == nil {
			lag = fmt.Sprintf("%.3f", l)
		}
		fmt.Fprintf(w, "%d\t%.3f\t%s\t%.4f\n",
			leg,
			analysis.MeanRate(s, trace.Times),
			lag,
			analysis.MaxBackwardStep(s),
		)
	}
	return w.Flush()
}

func velocityOf(series []float64, dt float64) []float64 {
	if len(series) < 2 || dt <= 0 {
		return nil
	}
	v := make([]float64, len(series)-1)
	for i := range v {
		v[i] = (series[i+1] - series[i]) / dt
	}
	return v
}
