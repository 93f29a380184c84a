package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/san-kum/hexcpg/internal/analysis"
	"github.com/san-kum/hexcpg/internal/config"
	"github.com/san-kum/hexcpg/internal/dynamo"
	"github.com/san-kum/hexcpg/internal/experiment"
	"github.com/san-kum/hexcpg/internal/export"
	"github.com/san-kum/hexcpg/internal/gait"
	"github.com/san-kum/hexcpg/internal/integrators"
	"github.com/san-kum/hexcpg/internal/viz"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	return t
}

func sweepParam(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	spec := experiment.SweepSpec{
		Base:    base,
		Index:   sweepIndex,
		Values:  experiment.Linspace(sweepFrom, sweepTo, sweepPoints),
		Workers: workers,
		Score: func(tr *experiment.Trace) float64 {
			v, ok := analysis.Summarize(tr)[sweepMetric]
			if !ok {
				return math.NaN()
			}
			return v
		},
	}

	fmt.Printf("sweeping %s p[%d] over [%g, %g] (%d values)...\n",
		base.Encoding, sweepIndex, sweepFrom, sweepTo, len(spec.Values))

	points, err := experiment.Sweep(context.Background(), spec, newLogger())
	if err != nil {
		return err
	}

	t := newTable()
	t.AppendHeader(table.Row{"VALUE", strings.ToUpper(sweepMetric), "SAMPLES", "STATUS"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	for _, p := range points {
		switch {
		case p.Err != nil:
			t.AppendRow(table.Row{fmt.Sprintf("%.4f", p.Value), "-", 0, p.Err.Error()})
		case p.Trace.Err != nil:
			t.AppendRow(table.Row{fmt.Sprintf("%.4f", p.Value), formatScore(p.Score), len(p.Trace.Times), "stopped early"})
		default:
			t.AppendRow(table.Row{fmt.Sprintf("%.4f", p.Value), formatScore(p.Score), len(p.Trace.Times), "ok"})
		}
	}

	if best, ok := experiment.Best(points); ok {
		t.AppendFooter(table.Row{fmt.Sprintf("%.4f", best.Value), formatScore(best.Score), "", "best"})
	}
	t.Render()
	return nil
}

func formatScore(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return fmt.Sprintf("%.6f", v)
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := gait.EncodingNames()
	if len(args) > 0 {
		if _, err := gait.LookupEncoding(args[0]); err != nil {
			return err
		}
		names = args[:1]
	}

	for _, enc := range names {
		presets := config.ListPresets(enc)
		if len(presets) == 0 {
			continue
		}
		fmt.Printf("presets for %s:\n", enc)
		for _, name := range presets {
			p := config.GetPreset(enc, name)
			fmt.Printf("  %-8s %v\n", name, p.Params)
		}
	}
	return nil
}

func listEncodings(cmd *cobra.Command, args []string) error {
	t := newTable()
	t.AppendHeader(table.Row{"ENCODING", "VARIANT", "SIZE", "PRESETS", "LAYOUT"})
	for _, enc := range gait.Encodings() {
		t.AppendRow(table.Row{
			enc.Name,
			enc.Variant,
			enc.Size,
			strings.Join(config.ListPresets(enc.Name), ", "),
			enc.Description,
		})
	}
	t.AppendFooter(table.Row{"integrators", strings.Join(experiment.ListIntegrators(), ", "), "", "", ""})

	switch tableFormat {
	case "ascii":
		t.Render()
	case "markdown":
		t.RenderMarkdown()
	default:
		return fmt.Errorf("unknown format: %s (available: ascii, markdown)", tableFormat)
	}
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s %v)\n", args[0], cfg.Encoding, cfg.Params)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := experiment.NewEngine(cfg, newLogger())
	if err != nil {
		return err
	}

	title := cfg.Encoding
	if cfg.Preset != "" {
		title += " " + cfg.Preset
	}
	m := viz.NewModel(eng, cfg.Dt, title)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// decodeConfig resolves the configuration and decodes it together with a
// fresh integrator, for commands that drive a network directly.
func decodeConfig(cmd *cobra.Command) (*config.Config, *gait.Decoded, dynamo.Integrator, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	enc, err := gait.LookupEncoding(cfg.Encoding)
	if err != nil {
		return nil, nil, nil, err
	}
	d, err := enc.Decode(cfg.Params)
	if err != nil {
		return nil, nil, nil, err
	}
	integ, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, d, integ, nil
}

func runPortrait(cmd *cobra.Command, args []string) error {
	cfg, d, integ, err := decodeConfig(cmd)
	if err != nil {
		return err
	}

	portrait := analysis.GeneratePhasePortrait(d.Network(), integ, xAxis, yAxis, cfg.Dt, cfg.Duration)
	if portrait == nil || len(portrait.Points) == 0 {
		return fmt.Errorf("state indices %d,%d out of range for %s", xAxis, yAxis, cfg.Encoding)
	}

	fmt.Printf("phase portrait: %s %v\n", cfg.Encoding, cfg.Params)
	fmt.Printf("x = state[%d], y = state[%d], %d points\n\n", xAxis, yAxis, len(portrait.Points))
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 24))
	minX, maxX, minY, maxY := portrait.Bounds()
	fmt.Printf("x: [%.3f, %.3f]  y: [%.3f, %.3f]\n", minX, maxX, minY, maxY)

	if svgFile != "" {
		if err := os.WriteFile(svgFile, []byte(export.PortraitSVG(portrait, 400, 400, "#50fa7b")), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgFile)
	}
	return nil
}

func runLocking(cmd *cobra.Command, args []string) error {
	cfg, d, integ, err := decodeConfig(cmd)
	if err != nil {
		return err
	}
	if d.Encoding.Variant != gait.VariantKuramoto {
		return fmt.Errorf("lock needs a phase-coupled encoding, got %s", cfg.Encoding)
	}

	net := d.Network()
	lambda := analysis.LockingExponent(net, integ, net.State(), cfg.Dt, cfg.Duration, 0.1)

	fmt.Printf("locking exponent: %.4f 1/s\n", lambda)
	switch {
	case math.IsNaN(lambda):
		fmt.Println("network diverged")
	case lambda < -1e-3:
		fmt.Printf("pattern recovers, e-folding time %.3f s\n", -1/lambda)
	default:
		fmt.Println("pattern is not restored")
	}
	return nil
}
