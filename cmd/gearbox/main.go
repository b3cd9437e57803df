package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gearbox-lab/gearbox/internal/config"
	"github.com/gearbox-lab/gearbox/internal/export"
	"github.com/gearbox-lab/gearbox/internal/logging"
	"github.com/gearbox-lab/gearbox/internal/mech"
	"github.com/gearbox-lab/gearbox/internal/report"
	"github.com/gearbox-lab/gearbox/internal/scene"
	"github.com/gearbox-lab/gearbox/internal/storage"
	"github.com/gearbox-lab/gearbox/internal/sweep"
	"github.com/gearbox-lab/gearbox/internal/tui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	noColor    bool

	preset   string
	asJSON   bool
	name     string
	outFile  string
	posX     float64
	posY     float64
	teeth    int
	speed    float64
	dir      int
	target   string
	probe    string
	param    string
	from     float64
	to       float64
	step     float64
	workers  int
	interval time.Duration
	svgFile  string

	cfg *config.Config
	log zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gearbox",
		Short:         "gear mechanism sandbox",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data") {
				cfg.DataDir = dataDir
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if noColor {
				cfg.Report.Color = false
			}
			log = logging.New(cfg.LogLevel, os.Stderr, cfg.Report.Color)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "scene library directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	solveCmd := &cobra.Command{
		Use:   "solve [scene]",
		Short: "solve a scene and print every component's speed",
		Args:  cobra.MaximumNArgs(1),
		RunE:  solveScene,
	}
	solveCmd.Flags().StringVar(&preset, "preset", "", "solve a built-in preset instead of a file")
	solveCmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	graphCmd := &cobra.Command{
		Use:   "graph [scene]",
		Short: "list stack and mesh links",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showGraph,
	}
	graphCmd.Flags().StringVar(&preset, "preset", "", "use a built-in preset")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "vary one parameter and plot a component's response",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use a built-in preset")
	sweepCmd.Flags().StringVar(&target, "target", "", "component to vary")
	sweepCmd.Flags().StringVar(&probe, "probe", "", "component to observe (defaults to target)")
	sweepCmd.Flags().StringVar(&param, "param", string(sweep.RPM), "parameter to vary (teeth|rpm)")
	sweepCmd.Flags().Float64Var(&from, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&to, "to", 300, "last value")
	sweepCmd.Flags().Float64Var(&step, "step", 10, "value step")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel solvers (defaults to config)")
	sweepCmd.Flags().StringVar(&svgFile, "svg", "", "also write the curve to an SVG file")
	_ = sweepCmd.MarkFlagRequired("target")

	watchCmd := &cobra.Command{
		Use:   "watch [scene]",
		Short: "re-solve a scene file whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE:  watchScene,
	}
	watchCmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (defaults to config)")

	newCmd := &cobra.Command{
		Use:   "new [scene]",
		Short: "create an empty scene file, or a copy of a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  newScene,
	}
	newCmd.Flags().StringVar(&preset, "preset", "", "start from a built-in preset")
	newCmd.Flags().StringVar(&name, "name", "", "scene name")

	addCmd := &cobra.Command{
		Use:   "add [scene] [gear|motor]",
		Short: "place a new part with default settings",
		Args:  cobra.ExactArgs(2),
		RunE:  addPart,
	}
	addCmd.Flags().Float64Var(&posX, "x", 0, "x position")
	addCmd.Flags().Float64Var(&posY, "y", 0, "y position")

	setCmd := &cobra.Command{
		Use:   "set [scene] [id]",
		Short: "change a part's position, teeth or motor settings",
		Args:  cobra.ExactArgs(2),
		RunE:  setPart,
	}
	setCmd.Flags().Float64Var(&posX, "x", 0, "x position")
	setCmd.Flags().Float64Var(&posY, "y", 0, "y position")
	setCmd.Flags().IntVar(&teeth, "teeth", scene.DefaultGearTeeth, "tooth count")
	setCmd.Flags().Float64Var(&speed, "speed", scene.DefaultMotorSpeed, "motor speed (rpm)")
	setCmd.Flags().IntVar(&dir, "dir", 1, "motor direction (1 or -1)")

	rmCmd := &cobra.Command{
		Use:   "rm [scene] [id]",
		Short: "remove a part",
		Args:  cobra.ExactArgs(2),
		RunE:  removePart,
	}

	saveCmd := &cobra.Command{
		Use:   "save [scene]",
		Short: "store a scene in the library",
		Args:  cobra.MaximumNArgs(1),
		RunE:  saveScene,
	}
	saveCmd.Flags().StringVar(&preset, "preset", "", "store a built-in preset")
	saveCmd.Flags().StringVar(&name, "name", "", "name to save under")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved scenes",
		RunE:  listScenes,
	}

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "solve a saved scene",
		Args:  cobra.ExactArgs(1),
		RunE:  showScene,
	}
	showCmd.Flags().StringVarP(&outFile, "output", "o", "", "also write the scene to this file")

	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "remove a saved scene",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteScene,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [scene]",
		Short: "export a solve result to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&preset, "preset", "", "export a built-in preset")
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [scene]",
		Short: "draw a scene and its solve result as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&preset, "preset", "", "draw a built-in preset")
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in preset scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(solveCmd, graphCmd, sweepCmd, watchCmd, newCmd, addCmd, setCmd, rmCmd,
		saveCmd, listCmd, showCmd, deleteCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func styles() report.Styles {
	return report.NewStyles(cfg.Report.Color)
}

// loadInput resolves the scene for commands that accept either a file or a
// --preset flag.
func loadInput(args []string) (*scene.Scene, error) {
	if preset != "" {
		sc := config.GetPreset(preset)
		if sc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		return sc, nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("a scene file or --preset is required")
	}
	sc, err := scene.Load(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func solve(sc *scene.Scene) *mech.Result {
	res := sc.Solve()
	log.Debug().
		Str("scene", sc.Name).
		Int("components", len(sc.Components)).
		Int("links", res.Graph.EdgeCount()).
		Int("jammed", len(res.Jammed)).
		Msg("solved")
	return res
}

func printResult(sc *scene.Scene, res *mech.Result) {
	st := styles()
	fmt.Print(report.Table(sc, res, st))
	fmt.Println()
	fmt.Println(report.Summary(sc, res, st))
}

func solveScene(cmd *cobra.Command, args []string) error {
	sc, err := loadInput(args)
	if err != nil {
		return err
	}
	res := solve(sc)
	if asJSON {
		return storage.ExportJSON(os.Stdout, sc, res)
	}
	printResult(sc, res)
	return nil
}

func showGraph(cmd *cobra.Command, args []string) error {
	sc, err := loadInput(args)
	if err != nil {
		return err
	}
	fmt.Print(report.Links(sc, mech.BuildGraph(sc.Snapshot()), styles()))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	sc, err := loadInput(args)
	if err != nil {
		return err
	}
	if probe == "" {
		probe = target
	}
	if workers <= 0 {
		workers = cfg.Sweep.Workers
	}

	values, err := sweepValues(from, to, step)
	if err != nil {
		return err
	}

	sw := &sweep.Sweep{
		Target:  target,
		Probe:   probe,
		Param:   sweep.Param(param),
		Values:  values,
		Workers: workers,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Debug().Str("target", target).Str("param", param).Int("points", len(values)).Msg("sweep started")
	points, err := sw.Run(ctx, sc.Snapshot())
	if err != nil {
		return err
	}

	fmt.Println(report.SweepPlot(points, fmt.Sprintf("%s rpm vs %s %s", probe, target, param)))
	fmt.Println()
	fmt.Print(report.SweepTable(points, sw.Param, styles()))

	if svgFile != "" {
		if err := export.WriteFile(svgFile, export.SweepToSVG(points, 800, 400)); err != nil {
			return err
		}
		fmt.Printf("\nplot written to %s\n", svgFile)
	}
	return nil
}

func watchScene(cmd *cobra.Command, args []string) error {
	every, err := watchInterval(cmd.Flags().Changed("interval"), interval, cfg.Watch.Interval)
	if err != nil {
		return err
	}
	log.Info().Str("scene", args[0]).Dur("interval", every).Msg("watching")
	return tui.Run(args[0], every, styles())
}

func newScene(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	sc := &scene.Scene{Components: []scene.Part{}}
	if preset != "" {
		sc = config.GetPreset(preset)
		if sc == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if name != "" {
		sc.Name = name
	}
	if err := scene.Save(path, sc); err != nil {
		return err
	}
	fmt.Printf("created %s\n", path)
	return nil
}

func editScene(path string, edit func(sc *scene.Scene) error) error {
	sc, err := scene.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}
	if err := edit(sc); err != nil {
		return err
	}
	if err := scene.Save(path, sc); err != nil {
		return err
	}
	printResult(sc, solve(sc))
	return nil
}

func addPart(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[1])
	if err != nil {
		return err
	}
	return editScene(args[0], func(sc *scene.Scene) error {
		p, err := sc.Add(kind, posX, posY)
		if err != nil {
			return err
		}
		log.Info().Str("id", p.ID).Str("kind", string(kind)).Msg("added part")
		return nil
	})
}

func setPart(cmd *cobra.Command, args []string) error {
	var patch scene.Patch
	flags := cmd.Flags()
	if flags.Changed("x") {
		patch.X = &posX
	}
	if flags.Changed("y") {
		patch.Y = &posY
	}
	if flags.Changed("teeth") {
		patch.Teeth = &teeth
	}
	if flags.Changed("speed") {
		patch.Speed = &speed
	}
	if flags.Changed("dir") {
		patch.Direction = &dir
	}
	return editScene(args[0], func(sc *scene.Scene) error {
		return sc.Update(args[1], patch)
	})
}

func removePart(cmd *cobra.Command, args []string) error {
	return editScene(args[0], func(sc *scene.Scene) error {
		return sc.Remove(args[1])
	})
}

func openStore() (*storage.Store, error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func saveScene(cmd *cobra.Command, args []string) error {
	sc, err := loadInput(args)
	if err != nil {
		return err
	}
	if name != "" {
		sc.Name = name
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	id, err := st.Save(sc)
	if err != nil {
		return err
	}
	log.Info().Str("id", id).Str("name", sc.Name).Msg("scene saved")
	fmt.Printf("scene id: %s\n", id)
	return nil
}

func listScenes(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	scenes, err := st.List()
	if err != nil {
		return err
	}

	if len(scenes) == 0 {
		fmt.Println("no saved scenes")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSAVED\tPARTS\tMOTORS\tJAMMED")
	for _, s := range scenes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			s.ID,
			s.Name,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.Components,
			s.Motors,
			s.Jammed,
		)
	}
	return w.Flush()
}

func showScene(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	meta, sc, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scene: %s (saved %s)\n\n", meta.Name, meta.Timestamp.Format("2006-01-02 15:04:05"))
	printResult(sc, solve(sc))

	if outFile != "" {
		if err := scene.Save(outFile, sc); err != nil {
			return err
		}
		fmt.Printf("\nwritten to %s\n", outFile)
	}
	return nil
}

func deleteScene(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	if err := st.Delete(args[0]); err != nil {
		return err
	}
	log.Info().Str("id", args[0]).Msg("scene deleted")
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	sc, err := loadInput(args)
	if err != nil {
		return err
	}
	res := solve(sc)
	if outFile == "" {
		return storage.ExportJSON(os.Stdout, sc, res)
	}
	if err := storage.ExportJSONFile(outFile, sc, res); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	sc, err := loadInput(args)
	if err != nil {
		return err
	}
	svg := export.SceneToSVG(sc, solve(sc))
	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	if err := export.WriteFile(outFile, svg); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func parseKind(s string) (mech.Kind, error) {
	switch strings.ToLower(s) {
	case "gear":
		return mech.Gear, nil
	case "motor":
		return mech.Motor, nil
	}
	return "", fmt.Errorf("unknown part type %q (want gear or motor)", s)
}

func sweepValues(from, to, step float64) ([]float64, error) {
	n, err := sweep.Count(from, to, step)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("empty range: from=%v to=%v step=%v", from, to, step)
	}
	return sweep.Range(from, to, step), nil
}

// watchInterval returns the --interval value when it was set, otherwise the
// configured default.
func watchInterval(set bool, flag, fallback time.Duration) (time.Duration, error) {
	if !set {
		return fallback, nil
	}
	if flag <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %s", flag)
	}
	return flag, nil
}
