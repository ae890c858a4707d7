// Command particlebox animates bouncing disks in a unit box: windowed,
// in the terminal, or headless into recorded runs.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/georgpou/particlebox/internal/analysis"
	"github.com/georgpou/particlebox/internal/audio"
	"github.com/georgpou/particlebox/internal/config"
	"github.com/georgpou/particlebox/internal/export"
	"github.com/georgpou/particlebox/internal/gui"
	"github.com/georgpou/particlebox/internal/physics"
	"github.com/georgpou/particlebox/internal/scene"
	"github.com/georgpou/particlebox/internal/sim"
	"github.com/georgpou/particlebox/internal/storage"
	"github.com/georgpou/particlebox/internal/term"
	"github.com/georgpou/particlebox/internal/tui"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

const (
	defaultRunFrames = 600
	meterWindow      = 120
)

var (
	dataDir    string
	configFile string
	presetName string

	engineName  string
	count       int
	radiusMin   float64
	radiusMax   float64
	velocityMax float64
	seed        int64
	fps         int
	frames      int
	trail       bool
	trailLen    int
	showAxes    bool
	resolution  int
	colorName   string
	sound       bool

	stride    int
	particle  int
	benchRuns int
	svgSize   int
	plain     bool
)

func main() {
	def := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "particlebox",
		Short: "bouncing disk simulations in a unit box",
		RunE:  runGUI,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", def.DataDir, "run storage directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&presetName, "preset", "", "apply a named preset")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "windowed run",
		RunE:  runGUI,
	}
	addPopulationFlags(guiCmd, def)
	guiCmd.Flags().BoolVar(&sound, "sound", false, "ambient sonification")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal run",
		RunE:  runLive,
	}
	addPopulationFlags(liveCmd, def)
	liveCmd.Flags().BoolVar(&plain, "plain", false, "bare repaint loop without the interactive panel")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "headless run, recorded to storage",
		RunE:  runHeadless,
	}
	addPopulationFlags(runCmd, def)
	runCmd.Flags().IntVar(&stride, "stride", 1, "record every nth frame")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "timed parallel headless runs",
		RunE:  runBench,
	}
	addPopulationFlags(benchCmd, def)
	benchCmd.Flags().IntVar(&benchRuns, "runs", 4, "ensemble size")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "chart a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&particle, "particle", 0, "particle index")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "power spectrum of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&particle, "particle", 0, "particle index")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a stored run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSVRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSONRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "trace a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVGRun,
	}
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image side in pixels")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDataDir(cmd)
			if err != nil {
				return err
			}
			if err := storage.New(dir).Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(guiCmd, liveCmd, runCmd, benchCmd, listCmd, plotCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, deleteCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPopulationFlags(cmd *cobra.Command, def *config.Config) {
	f := cmd.Flags()
	f.StringVar(&engineName, "engine", def.Engine, "physics backend")
	f.IntVar(&count, "count", def.Count, "number of particles")
	f.Float64Var(&radiusMin, "radius-min", def.RadiusMin, "smallest radius")
	f.Float64Var(&radiusMax, "radius-max", def.RadiusMax, "largest radius")
	f.Float64Var(&velocityMax, "velocity-max", def.VelocityMax, "per-axis speed bound")
	f.Int64Var(&seed, "seed", 0, "random seed, 0 picks one")
	f.IntVar(&fps, "fps", def.FPS, "target frame rate")
	f.IntVar(&frames, "frames", def.Frames, "frame budget, 0 runs until closed")
	f.BoolVar(&trail, "trail", def.Trail, "draw trails")
	f.IntVar(&trailLen, "trail-length", def.TrailLen, "trail samples kept")
	f.BoolVar(&showAxes, "axes", def.ShowAxes, "draw the domain bounds")
	f.IntVar(&resolution, "resolution", def.Resolution, "sphere tessellation")
	f.StringVar(&colorName, "color", def.Color, "particle color")
}

// resolveConfig layers settings: defaults, then preset, then config
// file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if presetName != "" {
		p := config.GetPreset(presetName)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (have: %v)", presetName, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("engine") {
		cfg.Engine = engineName
	}
	if f.Changed("count") {
		cfg.Count = count
	}
	if f.Changed("radius-min") {
		cfg.RadiusMin = radiusMin
	}
	if f.Changed("radius-max") {
		cfg.RadiusMax = radiusMax
	}
	if f.Changed("velocity-max") {
		cfg.VelocityMax = velocityMax
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("fps") {
		cfg.FPS = fps
	}
	if f.Changed("frames") {
		cfg.Frames = frames
	}
	if f.Changed("trail") {
		cfg.Trail = trail
	}
	if f.Changed("trail-length") {
		cfg.TrailLen = trailLen
	}
	if f.Changed("axes") {
		cfg.ShowAxes = showAxes
	}
	if f.Changed("resolution") {
		cfg.Resolution = resolution
	}
	if f.Changed("color") {
		cfg.Color = colorName
	}
	if f.Changed("sound") {
		cfg.Sound = sound
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// effectiveSeed resolves seed 0 to a time-based one so every unseeded
// run scatters differently.
func effectiveSeed(cfg *config.Config) int64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}

func storageDir(cmd *cobra.Command, cfg *config.Config) string {
	if !cmd.Flags().Changed("data") && cfg.DataDir != "" {
		return cfg.DataDir
	}
	return dataDir
}

// resolveDataDir is storageDir for commands that never touch the
// population settings: an explicit --data wins, then a config file's
// data_dir, then the default.
func resolveDataDir(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("data") || configFile == "" {
		return dataDir, nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return "", err
	}
	if cfg.DataDir != "" {
		return cfg.DataDir, nil
	}
	return dataDir, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sc, err := gui.New("particlebox", cfg.FPS)
	if err != nil {
		return err
	}
	defer sc.Close()

	engine, err := physics.New(cfg.Engine, effectiveSeed(cfg))
	if err != nil {
		return err
	}
	s, err := sim.New(sc, engine, cfg.Params(), cfg.Visual())
	if err != nil {
		return err
	}
	defer s.Close()
	s.ShowAxes = cfg.ShowAxes

	meter := sim.NewSpeedMeter(meterWindow)
	s.AddObserver(meter)

	if cfg.Sound {
		synth := audio.NewSynth()
		if err := synth.Start(); err != nil {
			return err
		}
		defer synth.Stop()
		s.AddObserver(sim.ObserverFunc(func(int, []float64) {
			synth.SetActivity(meter.Last())
		}))
	}

	if cfg.Frames > 0 {
		for first := true; s.Frames() < cfg.Frames; first = false {
			if err := s.Step(); err != nil {
				return err
			}
			if err := sc.Present(first, s.ShowAxes); err != nil {
				return err
			}
			if sc.ShouldClose() {
				return nil
			}
		}
		return sc.Hold(cfg.ShowAxes)
	}
	return s.Run(cmd.Context())
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := physics.New(cfg.Engine, effectiveSeed(cfg))
	if err != nil {
		return err
	}
	if plain {
		return runPlain(cmd, cfg, engine)
	}
	return tui.Run(tui.Options{
		Engine:   engine,
		Params:   cfg.Params(),
		Visual:   cfg.Visual(),
		FPS:      cfg.FPS,
		ShowAxes: cfg.ShowAxes,
	})
}

// runPlain repaints the braille canvas directly on stdout, paced by a
// ticker. Interrupt ends the run cleanly so the cursor comes back.
func runPlain(cmd *cobra.Command, cfg *config.Config, engine sim.Engine) error {
	sc := term.New(os.Stdout, 0, 0)
	sc.Start()
	defer sc.Close()

	s, err := sim.New(sc, engine, cfg.Params(), cfg.Visual())
	if err != nil {
		return err
	}
	defer s.Close()
	s.ShowAxes = cfg.ShowAxes

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()
	for first := true; ; first = false {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if err := s.Step(); err != nil {
			return err
		}
		if err := sc.Present(first, s.ShowAxes); err != nil {
			return err
		}
		if cfg.Frames > 0 && s.Frames() >= cfg.Frames {
			return nil
		}
	}
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	budget := cfg.Frames
	if budget <= 0 {
		budget = defaultRunFrames
	}
	runSeed := effectiveSeed(cfg)

	engine, err := physics.New(cfg.Engine, runSeed)
	if err != nil {
		return err
	}
	s, err := sim.New(scene.NewHeadless(budget), engine, cfg.Params(), cfg.Visual())
	if err != nil {
		return err
	}
	defer s.Close()

	rec := storage.NewRecorder(stride)
	s.AddObserver(rec)

	fmt.Printf("running %s: %d particles, %d frames, seed %d\n",
		cfg.Engine, cfg.Count, budget, runSeed)
	start := time.Now()
	if err := s.Run(cmd.Context()); err != nil {
		return err
	}
	elapsed := time.Since(start)

	sum := analysis.Summarize(rec.Run())
	fmt.Printf("completed in %v (%.0f frames/sec)\n\n",
		elapsed.Round(time.Millisecond), float64(s.Frames())/elapsed.Seconds())
	fmt.Printf("mean speed:   %.6f\n", sum.MeanSpeed)
	fmt.Printf("peak speed:   %.6f\n", sum.MaxSpeed)
	fmt.Printf("final spread: %.6f\n", sum.Spread)

	st := storage.New(storageDir(cmd, cfg))
	if err := st.Init(); err != nil {
		return err
	}
	metrics := map[string]float64{
		"mean_speed":   sum.MeanSpeed,
		"peak_speed":   sum.MaxSpeed,
		"final_spread": sum.Spread,
	}
	id, err := st.Save(cfg.Engine, cfg.Params(), runSeed, rec.Run(), metrics)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", id)
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	budget := cfg.Frames
	if budget <= 0 {
		budget = defaultRunFrames
	}

	ens := &sim.Ensemble{
		NewEngine: func(seed int64) (sim.Engine, error) { return physics.New(cfg.Engine, seed) },
		Params:    cfg.Params(),
		Frames:    budget,
	}

	fmt.Printf("benchmarking %s: %d runs of %d frames, %d particles each\n\n",
		cfg.Engine, benchRuns, budget, cfg.Count)
	start := time.Now()
	results, err := ens.Run(cmd.Context(), benchRuns, effectiveSeed(cfg))
	if err != nil {
		return err
	}
	total := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tMEAN SPEED\tTIME\tFRAMES/SEC")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.6f\t%v\t%.0f\n",
			r.Seed, r.Frames, r.MeanSpeed, r.Elapsed.Round(time.Millisecond),
			float64(r.Frames)/r.Elapsed.Seconds())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ntotal: %v\n", total.Round(time.Millisecond))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	dir, err := resolveDataDir(cmd)
	if err != nil {
		return err
	}
	runs, err := storage.New(dir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tENGINE\tTIME\tPARTICLES\tFRAMES\tSEED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID, run.Engine, run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Count, run.Frames, run.Seed)
	}
	return w.Flush()
}

func loadRun(cmd *cobra.Command, runID string) (*storage.RunMetadata, *storage.Run, error) {
	dir, err := resolveDataDir(cmd)
	if err != nil {
		return nil, nil, err
	}
	st := storage.New(dir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	run, err := st.LoadRun(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, run, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, run, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if run.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}
	if n := len(run.Positions[0]) / 2; particle < 0 || particle >= n {
		return fmt.Errorf("particle %d out of range, run has %d", particle, n)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("engine: %s\n", meta.Engine)
	fmt.Printf("samples: %d\n\n", run.Len())

	fmt.Println(asciigraph.Plot(analysis.XSeries(run, particle),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("particle %d, x position", particle)),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(analysis.YSeries(run, particle),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("particle %d, y position", particle)),
	))

	if speeds := analysis.MeanSpeeds(run); len(speeds) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(speeds,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("mean speed per sample"),
		))
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, run, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if run.Len() > 0 {
		if n := len(run.Positions[0]) / 2; particle < 0 || particle >= n {
			return fmt.Errorf("particle %d out of range, run has %d", particle, n)
		}
	}
	series := analysis.XSeries(run, particle)
	power := analysis.Spectrum(series)
	if power == nil {
		return fmt.Errorf("run too short to analyze: %d samples", len(series))
	}

	fmt.Printf("run: %s, particle %d\n", meta.ID, particle)
	fmt.Printf("engine: %s, %d samples\n\n", meta.Engine, run.Len())

	// disk motion lives in the low bins
	plot := power
	if len(plot) >= 8 {
		plot = plot[:len(plot)/4]
	}
	fmt.Println(asciigraph.Plot(plot,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum, particle %d x", particle)),
	))
	fmt.Println()

	if peak := analysis.PeakBin(power); peak >= 0 {
		cycles := peak + 1
		fmt.Printf("dominant component: %d cycles over %d samples (period %.1f samples)\n",
			cycles, len(series), float64(len(series))/float64(cycles))
	}
	return nil
}

func exportCSVRun(cmd *cobra.Command, args []string) error {
	meta, run, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return export.CSV(os.Stdout, meta, run)
}

func exportJSONRun(cmd *cobra.Command, args []string) error {
	meta, run, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return export.JSON(os.Stdout, meta, run)
}

func exportSVGRun(cmd *cobra.Command, args []string) error {
	_, run, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return export.SVG(os.Stdout, run, svgSize)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tENGINE\tPARTICLES\tRADII\tMAX SPEED")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3f-%.3f\t%.3f\n",
			name, p.Engine, p.Count, p.RadiusMin, p.RadiusMax, p.VelocityMax)
	}
	return w.Flush()
}
