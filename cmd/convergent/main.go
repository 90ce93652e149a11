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
	"github.com/san-kum/convergent/internal/batch"
	"github.com/san-kum/convergent/internal/config"
	"github.com/san-kum/convergent/internal/metrics"
	"github.com/san-kum/convergent/internal/session"
	"github.com/san-kum/convergent/internal/storage"
	"github.com/san-kum/convergent/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	mask       []bool
	steps      int
	digits     int
	showPivot  bool
	configFile string
	preset     string
	state      string
	save       bool
	theme      string
	chartFile  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "convergent",
		Short: "simultaneous integer approximation of real ratios",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := buildSession(cmd, nil)
			if err != nil {
				return err
			}
			computeUpTo(s, steps)
			fmt.Print(viz.RenderTable(s, viz.TableOptions{Selected: -1}))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".convergent", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [values...]",
		Short: "compute convergents and print them",
		RunE:  runSession,
	}
	addSessionFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", 0, "maximum number of convergents (default from config)")
	runCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")

	tuiCmd := &cobra.Command{
		Use:   "tui [values...]",
		Short: "interactive terminal view",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := viz.SetTheme(theme); err != nil {
				return err
			}
			s, err := buildSession(cmd, args)
			if err != nil {
				return err
			}
			return viz.Run(s)
		},
	}
	addSessionFlags(tuiCmd)
	tuiCmd.Flags().StringVar(&theme, "theme", viz.ThemeNeon.Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))

	plotCmd := &cobra.Command{
		Use:   "plot [values...]",
		Short: "plot approximation error per convergent",
		RunE:  plotSession,
	}
	addSessionFlags(plotCmd)
	plotCmd.Flags().IntVar(&steps, "steps", 0, "maximum number of convergents (default from config)")
	plotCmd.Flags().StringVar(&chartFile, "out", "", "also write the chart to an image file (png, svg, pdf)")

	encodeCmd := &cobra.Command{
		Use:   "encode [values...]",
		Short: "print the shareable state string",
		RunE:  encodeSession,
	}
	addSessionFlags(encodeCmd)

	decodeCmd := &cobra.Command{
		Use:   "decode <state>",
		Short: "decode a state string and print its table",
		Args:  cobra.ExactArgs(1),
		RunE:  decodeSession,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset...]",
		Short: "run presets in parallel and compare their metrics",
		RunE:  comparePresets,
	}
	compareCmd.Flags().IntVar(&steps, "steps", 0, "maximum number of convergents per preset")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVALUES\tMASK")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, strings.Join(p.Values, " "), formatMask(p.InputMask()))
			}
			return w.Flush()
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show <run_id>",
		Short: "print a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json <run_id>",
		Short: "export a saved run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	rootCmd.AddCommand(runCmd, tuiCmd, plotCmd, encodeCmd, decodeCmd, compareCmd, presetsCmd, listCmd, showCmd, exportJSONCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().BoolSliceVar(&mask, "mask", nil, "pivot mask, one entry per value (e.g. true,true,false)")
	cmd.Flags().IntVar(&digits, "digits", config.DefaultOutputPrecision, "significant digits of scaled values")
	cmd.Flags().BoolVar(&showPivot, "pivot", false, "highlight the pivot column")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&state, "state", "", "start from an encoded state string")
}

// buildSession layers preset, config file, positional values and flags, in
// that order, and applies an encoded state last.
func buildSession(cmd *cobra.Command, args []string) (*session.Session, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Values = args
		cfg.Mask = nil
	}
	if cmd.Flags().Changed("mask") {
		cfg.Mask = mask
	}
	if cmd.Flags().Changed("digits") {
		cfg.Settings.OutputPrecision = digits
	}
	if cmd.Flags().Changed("pivot") {
		cfg.Settings.ShowPivot = showPivot
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s, err := session.New(cfg)
	if err != nil {
		return nil, err
	}
	if state != "" {
		if err := s.Decode(state); err != nil {
			return nil, fmt.Errorf("failed to decode state: %w", err)
		}
	}
	return s, nil
}

// computeUpTo advances s in batches until it finishes or holds limit rows.
// A limit below 1 means the configured maximum.
func computeUpTo(s *session.Session, limit int) {
	if limit < 1 {
		limit = s.Compute().MaxSteps
	}
	for !s.Finished() && s.NumOutputs() < limit {
		s.ComputeLines(min(s.Compute().BatchSize, limit-s.NumOutputs()))
	}
}

func runSession(cmd *cobra.Command, args []string) error {
	s, err := buildSession(cmd, args)
	if err != nil {
		return err
	}

	start := time.Now()
	computeUpTo(s, steps)
	elapsed := time.Since(start)

	fmt.Print(viz.RenderTable(s, viz.TableOptions{Selected: -1}))
	fmt.Printf("\ncomputed %d convergents in %v\n", s.NumOutputs(), elapsed)
	if s.Settings().ShowPivot {
		fmt.Printf("pivots: %v\n", s.PivotSequence())
	}

	run, err := storage.FromSession(s, metrics.Default())
	if err != nil {
		return err
	}
	fmt.Println("\nmetrics:")
	for _, m := range metrics.Default() {
		fmt.Printf("  %s: %g\n", m.Name(), run.Meta.Metrics[m.Name()])
	}

	if !save {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(run)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func plotSession(cmd *cobra.Command, args []string) error {
	s, err := buildSession(cmd, args)
	if err != nil {
		return err
	}
	computeUpTo(s, steps)

	errs, sizes := viz.ErrorSeries(s)
	if len(errs) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("values: %s\n", strings.Join(s.Input().Values, " "))
	fmt.Printf("convergents: %d\n\n", len(errs))

	fmt.Println(asciigraph.Plot(errs,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("log10 relative error"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(sizes,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("log10 scale factor"),
	))

	if chartFile != "" {
		if err := viz.SaveErrorChart(s, chartFile); err != nil {
			return err
		}
		fmt.Printf("\nchart written to %s\n", chartFile)
	}
	return nil
}

func encodeSession(cmd *cobra.Command, args []string) error {
	s, err := buildSession(cmd, args)
	if err != nil {
		return err
	}
	encoded, err := s.Encode()
	if err != nil {
		return err
	}
	if encoded == "" {
		fmt.Fprintln(os.Stderr, "default state encodes to an empty string")
	}
	fmt.Println(encoded)
	return nil
}

func decodeSession(cmd *cobra.Command, args []string) error {
	mi, st, err := session.DecodeState(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("values: %s\n", strings.Join(mi.Values, " "))
	fmt.Printf("mask: %s\n", formatMask(mi.Mask))
	fmt.Printf("digits: %d  pivot: %t\n\n", st.OutputPrecision, st.ShowPivot)

	s, err := session.New(nil)
	if err != nil {
		return err
	}
	if err := s.Decode(args[0]); err != nil {
		return err
	}
	computeUpTo(s, 0)
	fmt.Print(viz.RenderTable(s, viz.TableOptions{Selected: -1}))
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}
	jobs, err := batch.PresetJobs(names, steps)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := batch.NewRunner(nil).Run(context.Background(), jobs)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSTEPS\tFINISHED\tLAST\tBEST ERROR\tCOMPLEXITY")
	for _, r := range results {
		last := "-"
		if n := len(r.Run.Rows); n > 0 {
			last = r.Run.Rows[n-1].Convergent.String()
		}
		fmt.Fprintf(w, "%s\t%d\t%t\t%s\t%.3e\t%g\n",
			r.Name,
			r.Run.Meta.Steps,
			r.Run.Meta.Finished,
			last,
			r.Run.Meta.Metrics["best_rel_error"],
			r.Run.Meta.Metrics["complexity"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d presets in %v\n", len(results), elapsed)
	return nil
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
	fmt.Fprintln(w, "ID\tTIME\tVALUES\tSTEPS\tFINISHED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			strings.Join(run.Values, " "),
			run.Steps,
			run.Finished,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadRows(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("values: %s\n", strings.Join(meta.Values, " "))
	fmt.Printf("mask: %s\n", formatMask(meta.Mask))
	if meta.State != "" {
		fmt.Printf("state: %s\n", meta.State)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "STEP\tPIVOT\tFACTOR\tCONVERGENT\t")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t\n", r.Step, r.Pivot, strconv.FormatFloat(r.Factor, 'g', 8, 64), r.Convergent)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(meta.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		for _, m := range metrics.Default() {
			if v, ok := meta.Metrics[m.Name()]; ok {
				fmt.Printf("  %s: %g\n", m.Name(), v)
			}
		}
	}
	return nil
}

func formatMask(mask []bool) string {
	out := make([]string, len(mask))
	for i, m := range mask {
		if m {
			out[i] = "1"
		} else {
			out[i] = "0"
		}
	}
	return strings.Join(out, "")
}
