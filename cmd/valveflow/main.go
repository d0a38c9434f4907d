package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/valveflow/internal/analysis"
	"github.com/san-kum/valveflow/internal/config"
	"github.com/san-kum/valveflow/internal/export"
	"github.com/san-kum/valveflow/internal/frames"
	"github.com/san-kum/valveflow/internal/geometry"
	"github.com/san-kum/valveflow/internal/metrics"
	"github.com/san-kum/valveflow/internal/report"
	"github.com/san-kum/valveflow/internal/severity"
	"github.com/san-kum/valveflow/internal/storage"
	"github.com/san-kum/valveflow/internal/viz"
)

var (
	dataDir      string
	configFile   string
	resolution   int
	severities   []string
	cycleFrames  int
	cycles       int
	workers      int
	seedCount    int
	severityFile string
	// generate
	filePrefix string
	// export-svg
	svgSeverity string
	svgFrame    int
	svgOut      string
	svgWidth    int
	svgHeight   int
	// analyze
	analyzeSeverity string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "valveflow",
		Short: "heart valve geometry and blood flow simulation",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "run data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&severityFile, "severity-file", "", "severity catalog file (yaml)")

	generateCmd := &cobra.Command{
		Use:   "generate [severity]",
		Short: "generate valve geometry and write mesh files",
		Args:  cobra.ExactArgs(1),
		RunE:  generateGeometry,
	}
	generateCmd.Flags().IntVar(&resolution, "resolution", 0, "vertices per leaflet (multiple of 8)")
	generateCmd.Flags().StringVar(&filePrefix, "prefix", "valve", "output file prefix")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate cardiac cycles and store the results",
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&resolution, "resolution", 0, "vertices per leaflet")
	runCmd.Flags().StringSliceVar(&severities, "severities", nil, "severities to simulate")
	runCmd.Flags().IntVar(&cycleFrames, "frames", 0, "frames per cycle")
	runCmd.Flags().IntVar(&cycles, "cycles", 0, "cycles to simulate")
	runCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = one per cpu)")
	runCmd.Flags().IntVar(&seedCount, "seeds", -1, "streamline seeds per frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	reportCmd := &cobra.Command{
		Use:   "report [run_id]",
		Short: "clinical report for a run (latest when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  reportRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectral analysis of a run's velocity trace",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeSeverity, "severity", "healthy", "severity trace to analyze")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "show the severity catalog",
		RunE:  showPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "live terminal animation",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&resolution, "resolution", 0, "vertices per leaflet")
	liveCmd.Flags().StringSliceVar(&severities, "severities", nil, "severities to animate")
	liveCmd.Flags().IntVar(&cycleFrames, "frames", 0, "frames per cycle")
	liveCmd.Flags().IntVar(&seedCount, "seeds", -1, "streamline seeds per frame")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg",
		Short: "render one frame to an SVG file",
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgSeverity, "severity", "healthy", "severity to render")
	exportSVGCmd.Flags().IntVar(&svgFrame, "frame", 0, "frame index")
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "valve.svg", "output path")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")
	exportSVGCmd.Flags().IntVar(&resolution, "resolution", 0, "vertices per leaflet")
	exportSVGCmd.Flags().IntVar(&cycleFrames, "frames", 0, "frames per cycle")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "print run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}

	rootCmd.AddCommand(generateCmd, runCmd, listCmd, reportCmd, analyzeCmd, presetsCmd, liveCmd, exportSVGCmd, exportJSONCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig layers the config file under any flags the user set.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if severityFile != "" {
		cfg.SeverityFile = severityFile
	}
	if resolution > 0 {
		cfg.Resolution = resolution
	}
	if len(severities) > 0 {
		cfg.Severities = severities
	}
	if cycleFrames > 0 {
		cfg.Frames = cycleFrames
	}
	if cycles > 0 {
		cfg.Cycles = cycles
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if seedCount >= 0 {
		cfg.Seeds = seedCount
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildSequencer(cfg *config.Config) (*frames.Sequencer, error) {
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	return frames.New(catalog, frames.Options{
		Resolution:     cfg.Resolution,
		Severities:     cfg.Severities,
		Cycle:          cfg.Cycle(),
		FramesPerCycle: cfg.Frames,
		Cycles:         cfg.Cycles,
		GridSize:       cfg.GridSize,
		SeedCount:      cfg.Seeds,
		StepBudget:     cfg.StepBudget,
	})
}

func generateGeometry(cmd *cobra.Command, args []string) error {
	catalog := severity.Default()
	if severityFile != "" {
		loaded, err := severity.Load(severityFile)
		if err != nil {
			return err
		}
		catalog = loaded
	}
	p, err := catalog.Get(args[0])
	if err != nil {
		return err
	}
	if resolution <= 0 {
		resolution = config.DefaultResolution
	}
	g, err := geometry.Generate(resolution, p)
	if err != nil {
		return err
	}
	if err := geometry.ExportFiles(filePrefix, g); err != nil {
		return err
	}
	fmt.Printf("generated %s valve: %d vertices, %d springs, %d beams\n",
		p.Name, len(g.Vertices), len(g.Springs), len(g.Beams))
	fmt.Printf("orifice footprint: %.2f cm²\n", g.HullArea())
	fmt.Printf("wrote %s.{vertex,spring,beam}\n", geometry.FilePrefix(filePrefix, g))
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	seq, err := buildSequencer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	records, err := seq.RunParallel(ctx, cfg.Workers)
	if err != nil {
		return err
	}
	aggs := seq.Aggregates(records, cfg.Thresholds)

	samples := make([]metrics.Sample, 0, len(records)*len(cfg.Severities))
	for _, rec := range records {
		for _, sf := range rec.Severities {
			samples = append(samples, sf.Sample)
		}
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(cfg, aggs, samples)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d frames x %d severities\n\n", runID, len(records), len(cfg.Severities))
	fmt.Print(report.SummaryTable(aggs))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs stored")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tWHEN\tRESOLUTION\tSEVERITIES\tFRAMES")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.Timestamp.Format("2006-01-02 15:04"), r.Resolution, len(r.Severities), r.Frames*r.Cycles)
	}
	return w.Flush()
}

func latestRun(store *storage.Store) (string, error) {
	runs, err := store.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs stored in %s", dataDir)
	}
	latest := runs[0]
	for _, r := range runs[1:] {
		if r.Timestamp.After(latest.Timestamp) {
			latest = r
		}
	}
	return latest.ID, nil
}

func reportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	var runID string
	var err error
	if len(args) == 1 {
		runID = args[0]
	} else if runID, err = latestRun(store); err != nil {
		return err
	}

	meta, err := store.Load(runID)
	if err != nil {
		return err
	}
	samples, err := store.LoadSamples(runID)
	if err != nil {
		return err
	}
	bySeverity := make(map[string][]metrics.Sample)
	for _, s := range samples {
		bySeverity[s.Severity] = append(bySeverity[s.Severity], s)
	}
	fmt.Print(report.Clinical(meta.Aggregates, bySeverity))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := store.LoadSamples(args[0])
	if err != nil {
		return err
	}

	velTrace := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.Severity == analyzeSeverity {
			velTrace = append(velTrace, s.PeakVelocity)
		}
	}
	if len(velTrace) < 2 {
		return fmt.Errorf("no %s samples in run %s", analyzeSeverity, args[0])
	}

	sampleRate := float64(meta.Frames) / meta.CycleDuration
	freq, err := analysis.DominantFrequency(velTrace, sampleRate)
	if err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(velTrace)
	if len(ps) > 1 {
		graph := asciigraph.Plot(ps[1:],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("velocity spectrum (%s)", analyzeSeverity)),
		)
		fmt.Println(graph)
	}
	fmt.Printf("\ndominant frequency: %.2f Hz (%.0f bpm)\n", freq, analysis.BeatsPerMinute(freq))
	fmt.Printf("configured cycle:   %.2f Hz (%.0f bpm)\n", 1/meta.CycleDuration, 60/meta.CycleDuration)
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	catalog := severity.Default()
	if severityFile != "" {
		loaded, err := severity.Load(severityFile)
		if err != nil {
			return err
		}
		catalog = loaded
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTIFFNESS\tRIGIDITY\tLENGTH\tMOBILITY\tMAX OPEN\tPEAK VEL\tGRADIENT\tRESISTANCE")
	for _, name := range catalog.Names() {
		p, err := catalog.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.1fx\t%.1fx\t%.2f\t%.2f\t%.2f\t%.0f\t%.0f\t%.1f\n",
			p.Name, p.StiffnessMult, p.RigidityMult, p.LeafletLengthFrac, p.MobilityFrac,
			p.MaxOpening, p.PeakVelocityCmS, p.PressureGradientMmHg, p.ResistanceCoeff)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Seeds == 0 {
		cfg.Seeds = config.DefaultSeedCount
	}
	seq, err := buildSequencer(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(viz.NewModel(seq), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Severities = []string{svgSeverity}
	if cfg.Seeds == 0 {
		cfg.Seeds = config.DefaultSeedCount
	}
	seq, err := buildSequencer(cfg)
	if err != nil {
		return err
	}
	if svgFrame < 0 || svgFrame >= seq.Total() {
		return fmt.Errorf("frame %d out of range [0, %d)", svgFrame, seq.Total())
	}
	rec, err := seq.Frame(svgFrame)
	if err != nil {
		return err
	}
	sf := rec.Severities[0]
	if err := export.WriteFrameSVG(svgOut, seq.Base(0), sf.Vertices, sf.Streamlines, svgWidth, svgHeight); err != nil {
		return err
	}
	fmt.Printf("wrote %s (t=%.3f s, %s, opening %.2f)\n", svgOut, rec.T, sf.Profile.Name, sf.State.Opening)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "valveflow.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
