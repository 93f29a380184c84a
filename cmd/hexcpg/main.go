package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/hexcpg/internal/config"
	"github.com/san-kum/hexcpg/internal/storage"
)

var (
	dataDir string
	verbose bool

	configFile string
	preset     string
	encoding   string
	params     string
	integrator string
	dt         float64
	duration   float64
	mask       string

	exportFormat string
	tableFormat  string
	legs         string
	svgFile      string

	sweepIndex  int
	sweepFrom   float64
	sweepTo     float64
	sweepPoints int
	sweepMetric string
	workers     int

	xAxis int
	yAxis int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "hexcpg",
		Short:         "hexapod gait generator and analysis lab",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "generate a gait trace and store it",
		Args:  cobra.NoArgs,
		RunE:  runGait,
	}
	addGaitFlags(runCmd)
	runCmd.Flags().StringVar(&mask, "mask", "", "legs zeroed in the stored trace, e.g. 1,4")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the wrapped leg commands of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&legs, "legs", "", "legs to plot, e.g. 0,3 (default all)")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the plot to an svg file")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "write a run to stdout as json or csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format: json or csv")
	exportCmd.Flags().StringVar(&legs, "legs", "", "legs to include in csv output")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "stepping frequency and leg coordination of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one parameter and compare the resulting gaits",
		Args:  cobra.NoArgs,
		RunE:  sweepParam,
	}
	addGaitFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepIndex, "index", 0, "parameter index to vary")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 1, "last value")
	sweepCmd.Flags().IntVarP(&sweepPoints, "n", "n", 11, "number of values")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "tripod_error", "metric to minimise")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default GOMAXPROCS)")

	presetsCmd := &cobra.Command{
		Use:   "presets [encoding]",
		Short: "list named parameter sets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	encodingsCmd := &cobra.Command{
		Use:   "encodings",
		Short: "list parameter encodings",
		Args:  cobra.NoArgs,
		RunE:  listEncodings,
	}
	encodingsCmd.Flags().StringVarP(&tableFormat, "format", "f", "ascii", "table format: ascii or markdown")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	addGaitFlags(initCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a gait in the terminal and tune it",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addGaitFlags(liveCmd)

	portraitCmd := &cobra.Command{
		Use:   "portrait",
		Short: "phase portrait of two oscillator state components",
		Args:  cobra.NoArgs,
		RunE:  runPortrait,
	}
	addGaitFlags(portraitCmd)
	portraitCmd.Flags().IntVar(&xAxis, "x", 0, "state index for the x axis")
	portraitCmd.Flags().IntVar(&yAxis, "y", 1, "state index for the y axis")
	portraitCmd.Flags().StringVar(&svgFile, "svg", "", "also write the portrait to an svg file")

	lockCmd := &cobra.Command{
		Use:   "lock",
		Short: "estimate how strongly the network holds its leg pattern",
		Args:  cobra.NoArgs,
		RunE:  runLocking,
	}
	addGaitFlags(lockCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, analyzeCmd, sweepCmd,
		presetsCmd, encodingsCmd, initCmd, liveCmd, portraitCmd, lockCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addGaitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "configuration file (yaml)")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "named parameter set for the encoding")
	cmd.Flags().StringVarP(&encoding, "encoding", "e", config.DefaultEncoding, "parameter encoding")
	cmd.Flags().StringVar(&params, "params", "", "comma separated parameters in [0,1]")
	cmd.Flags().StringVarP(&integrator, "integrator", "i", config.DefaultIntegrator, "integrator (euler, rk4)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step in seconds")
	cmd.Flags().Float64VarP(&duration, "time", "t", config.DefaultDuration, "duration in seconds")
}

func newLogger() *slog.Logger {
	if verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// resolveConfig layers defaults, the config file, a preset, the environment
// and finally any flags the user actually set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("encoding") {
		if cfg.Encoding != encoding {
			cfg.Params = nil
		}
		cfg.Encoding = encoding
	}

	if preset != "" {
		p := config.GetPreset(cfg.Encoding, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Encoding))
		}
		cfg.Params = p.Params
		cfg.Integrator = p.Integrator
		cfg.Preset = p.Preset
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("params") {
		p, err := parseFloats(params)
		if err != nil {
			return nil, fmt.Errorf("--params: %w", err)
		}
		cfg.Params = p
		cfg.Preset = ""
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if f := cmd.Flags().Lookup("mask"); f != nil && f.Changed {
		m, err := parseInts(mask)
		if err != nil {
			return nil, fmt.Errorf("--mask: %w", err)
		}
		cfg.Mask = m
	}
	if cmd.Flags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	if len(cfg.Params) == 0 {
		return nil, fmt.Errorf("no parameters for %s: pass --params or --preset (available: %v)",
			cfg.Encoding, config.ListPresets(cfg.Encoding))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore resolves the data directory the same way run does, so list and
// friends find what run wrote.
func openStore(cmd *cobra.Command) *storage.Store {
	dir := dataDir
	if !cmd.Flags().Changed("data") {
		if env := os.Getenv("HEXCPG_DATA_DIR"); env != "" {
			dir = env
		}
	}
	return storage.New(dir)
}

func parseFloats(s string) ([]float64, error) {
	fields := splitList(s)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseInts(s string) ([]int, error) {
	fields := splitList(s)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
