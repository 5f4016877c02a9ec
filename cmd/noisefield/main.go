package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/noisefield/internal/config"
	"github.com/san-kum/noisefield/internal/experiment"
	"github.com/san-kum/noisefield/internal/export"
	"github.com/san-kum/noisefield/internal/logs"
	"github.com/san-kum/noisefield/internal/noise"
	"github.com/san-kum/noisefield/internal/render"
	"github.com/san-kum/noisefield/internal/sim"
	"github.com/san-kum/noisefield/internal/storage"
	"github.com/san-kum/noisefield/internal/tui"
	"github.com/san-kum/noisefield/internal/viz"
)

var (
	dataDir   string
	debugFile string
	// Config file
	configFile string
	// Preset name
	preset string

	fps       int
	width     int
	height    int
	source    string
	seed      int64
	precision int
	cacheSize int
	evict     float64
	workers   int

	// Bench
	frames       int
	benchPresets []string
	noSave       bool

	// Snapshot
	snapFrames int
	cellW      int
	cellH      int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "noisefield",
		Short:         "animated 3-D noise in the terminal, steered by the mouse",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRaw,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".noisefield", "data directory for bench runs")
	rootCmd.PersistentFlags().StringVar(&debugFile, "debug", "", "write a debug log to this file")
	addFieldFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "render on the raw terminal",
		Args:  cobra.NoArgs,
		RunE:  runRaw,
	}
	addFieldFlags(runCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "render inside a Bubble Tea program",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	addFieldFlags(tuiCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "headless benchmark across cache presets",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	addFieldFlags(benchCmd)
	benchCmd.Flags().IntVar(&frames, "frames", experiment.DefaultFrames, "frames per preset")
	benchCmd.Flags().StringSliceVar(&benchPresets, "presets", nil, "presets to sweep (default all)")
	benchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list bench runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot frame times and hit ratio of a bench run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tFPS\tPRECISION\tMAX\tEVICT\tWORKERS\tSOURCE")
			for _, name := range config.ListPresets() {
				c := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.2f\t%d\t%s\n",
					name, c.FPS, c.Cache.Precision, c.Cache.MaxSize, c.Cache.EvictFraction, c.Render.Workers, c.Noise.Source)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default config as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "noisefield.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [out.svg]",
		Short: "render headless and save the last frame as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	addFieldFlags(snapshotCmd)
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 60, "frames to render before the snapshot")
	snapshotCmd.Flags().IntVar(&cellW, "cell-width", 8, "svg pixels per cell horizontally")
	snapshotCmd.Flags().IntVar(&cellH, "cell-height", 16, "svg pixels per cell vertically")

	rootCmd.AddCommand(runCmd, tuiCmd, benchCmd, listCmd, plotCmd, presetsCmd, initCmd, snapshotCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addFieldFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVar(&fps, "fps", config.DefaultFPS, "target frames per second")
	f.IntVar(&width, "width", 0, "field width in cells (0 = terminal)")
	f.IntVar(&height, "height", 0, "field height in cells (0 = terminal)")
	f.StringVar(&source, "source", config.DefaultSource, "noise source ("+strings.Join(noise.Names(), ", ")+")")
	f.Int64Var(&seed, "seed", 0, "noise seed")
	f.IntVar(&precision, "precision", 1, "cache key decimal places")
	f.IntVar(&cacheSize, "cache-size", 2000, "cache capacity")
	f.Float64Var(&evict, "evict", 0.5, "fraction of the cache evicted when full")
	f.IntVar(&workers, "workers", 1, "render goroutines")
}

// loadConfig resolves defaults, then the preset, then the config file, then
// any flag given on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
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
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("fps") {
		cfg.FPS = fps
	}
	if f.Changed("width") {
		cfg.Width = width
	}
	if f.Changed("height") {
		cfg.Height = height
	}
	if f.Changed("source") {
		cfg.Noise.Source = source
	}
	if f.Changed("seed") {
		cfg.Noise.Seed = seed
	}
	if f.Changed("precision") {
		cfg.Cache.Precision = precision
	}
	if f.Changed("cache-size") {
		cfg.Cache.MaxSize = cacheSize
	}
	if f.Changed("evict") {
		cfg.Cache.EvictFraction = evict
	}
	if f.Changed("workers") {
		cfg.Render.Workers = workers
	}
}

func openDebug() (func(), error) {
	if debugFile == "" {
		return func() {}, nil
	}
	c, err := logs.OpenFile(debugFile)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	return func() { c.Close() }, nil
}

type host func(ctx context.Context, cfg *config.Config, src noise.Source) error

func runHost(cmd *cobra.Command, run host) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := openDebug()
	if err != nil {
		return err
	}
	defer closeLog()

	src, err := cfg.NoiseSource()
	if err != nil {
		return err
	}
	logs.LogV("[start] source %s seed %d precision %d max %d evict %.2f workers %d",
		cfg.Noise.Source, cfg.Noise.Seed, cfg.Cache.Precision, cfg.Cache.MaxSize, cfg.Cache.EvictFraction, cfg.Render.Workers)
	return run(cmd.Context(), cfg, src)
}

func runRaw(cmd *cobra.Command, args []string) error {
	return runHost(cmd, tui.Run)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return runHost(cmd, viz.Run)
}

func runBench(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := openDebug()
	if err != nil {
		return err
	}
	defer closeLog()

	names := benchPresets
	if len(names) == 0 {
		names = config.ListPresets()
	}
	job := experiment.Config{Frames: frames, Width: base.Width, Height: base.Height}

	// Presets pick the cache tuning; the noise source and explicit flags
	// still come from the command line.
	tune := func(c *config.Config) {
		c.Noise = base.Noise
		applyFlags(cmd, c)
	}

	results, err := experiment.Sweep(cmd.Context(), names, job, tune)
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSIZE\tPREC\tMAX\tEVICT\tFRAMES\tTIME\tFPS\tHIT%\tCACHE\tEVICTIONS\tRUN")
	for _, res := range results {
		runID := "-"
		if st != nil {
			if runID, err = st.Save(res); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%d\t%.2f\t%d\t%v\t%.1f\t%.1f\t%d\t%d\t%s\n",
			res.Name, res.Width, res.Height, res.Precision, res.MaxSize, res.EvictFraction,
			res.Frames, res.Elapsed.Round(time.Microsecond), res.FPS(), 100*res.Stats.HitRatio(),
			res.CacheLen, res.Stats.Evictions, runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, res := range results {
		data := make([]float64, len(res.Samples))
		for i, s := range res.Samples {
			data[i] = float64(s.Duration.Microseconds()) / 1000
		}
		if len(data) == 0 {
			continue
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(res.Name+" frame time (ms)"),
		))
	}
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSIZE\tFRAMES\tFPS\tHIT%\tSOURCE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%.1f\t%.1f\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Frames,
			run.FPS,
			100*run.HitRatio,
			run.Source,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	var meta *storage.RunMetadata
	var err error
	if len(args) > 0 {
		meta, err = st.Load(args[0])
	} else {
		meta, err = st.Latest()
	}
	if errors.Is(err, storage.ErrRunNotFound) && len(args) == 0 {
		return fmt.Errorf("no runs in %s, run bench first", dataDir)
	}
	if err != nil {
		return err
	}

	samples, err := st.LoadFrames(meta.ID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s (precision %d, max %d, evict %.2f)\n", meta.Preset, meta.Precision, meta.MaxSize, meta.EvictFraction)
	fmt.Printf("frames: %d  fps: %.1f  hit: %.1f%%\n\n", meta.Frames, meta.FPS, 100*meta.HitRatio)

	times := make([]float64, len(samples))
	ratios := make([]float64, len(samples))
	for i, s := range samples {
		times[i] = float64(s.Duration.Microseconds()) / 1000
		ratios[i] = 100 * s.HitRatio
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{times, "frame time (ms)"},
		{ratios, "cache hit ratio (%)"},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	src, err := cfg.NoiseSource()
	if err != nil {
		return err
	}

	path := "noisefield.svg"
	if len(args) > 0 {
		path = args[0]
	}
	w, h := cfg.Width, cfg.Height
	if w == 0 {
		w = experiment.DefaultWidth
	}
	if h == 0 {
		h = experiment.DefaultHeight
	}

	s := sim.NewSession(cfg, src, w, h)
	var frame render.Frame
	var input []byte
	for i := 0; i < max(snapFrames, 1); i++ {
		input = experiment.PointerInput(input[:0], cfg, i, w, h)
		s.Feed(input)
		frame = s.Step()
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.FrameToSVG(f, frame, cellW, cellH); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%dx%d, frame %d)\n", path, w, h, s.State().FrameCount)
	return f.Close()
}
