package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/tomz197/termsaver/internal/config"
	"github.com/tomz197/termsaver/internal/engine"
	"github.com/tomz197/termsaver/internal/loop"
	"golang.org/x/term"
)

var (
	configFile string
	preset     string
	logFile    string
	debug      bool

	scene     string
	mode      string
	color     string
	fps       int
	asset     string
	backend   string
	glow      bool
	autoStart bool
	idleStart float64

	force bool
)

var (
	nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "termsaver",
		Short:        "terminal screensaver",
		SilenceUsage: true,
		RunE:         runSaver,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the screensaver",
		RunE:  runSaver,
	}
	for _, cmd := range []*cobra.Command{rootCmd, runCmd} {
		cmd.Flags().StringVar(&scene, "scene", config.DefaultScene, "scene: engine, drift or video")
		cmd.Flags().StringVar(&mode, "mode", config.DefaultMode, "engine mode")
		cmd.Flags().StringVar(&color, "color", config.DefaultColor, "primary color (#rrggbb or name)")
		cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
		cmd.Flags().StringVar(&asset, "asset", "", "clip file for the video scene")
		cmd.Flags().StringVar(&backend, "backend", config.DefaultBackend, "presenter: ansi or tcell")
		cmd.Flags().BoolVar(&glow, "glow", true, "paint halos around particles")
		cmd.Flags().BoolVar(&autoStart, "auto-start", false, "start the animation immediately")
		cmd.Flags().Float64Var(&idleStart, "idle", 0, "start after this many idle seconds (0 disables)")
	}

	modesCmd := &cobra.Command{
		Use:   "modes",
		Short: "list animation modes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, m := range engine.Modes() {
				fmt.Printf("%s %s\n", dimStyle.Render(fmt.Sprintf("%d", int(m)+1)), nameStyle.Render(m.String()))
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSCENE\tMODE\tCOLOR\tFPS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", name, p.Scene, p.Mode, p.Color, p.FPS)
			}
			w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	checkCmd := &cobra.Command{
		Use:   "check [path]",
		Short: "validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Println(nameStyle.Render("ok"), args[0])
			return nil
		},
	}
	configCmd.AddCommand(initCmd, checkCmd)

	rootCmd.AddCommand(runCmd, modesCmd, presetsCmd, configCmd)
	return rootCmd
}

// resolveConfig layers defaults, preset, config file, environment and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
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
			return nil, err
		}
		cfg = loaded
	}
	config.ApplyEnv(cfg)

	flags := cmd.Flags()
	if flags.Changed("scene") {
		cfg.Scene = scene
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("color") {
		cfg.Color = color
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("asset") {
		cfg.Asset = asset
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("glow") {
		cfg.Glow = glow
	}
	if flags.Changed("auto-start") {
		cfg.AutoStart = autoStart
	}
	if flags.Changed("idle") {
		cfg.IdleStart = idleStart
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes to logFile when set. The terminal belongs to the
// animation, so logs are discarded otherwise.
func newLogger() (*log.Logger, func(), error) {
	if logFile == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "termsaver",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, func() { _ = f.Close() }, nil
}

func runSaver(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := loop.NewScene(cfg, logger)
	if err != nil {
		return err
	}
	opts := loop.OptionsFrom(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "scene", cfg.Scene, "mode", cfg.Mode, "backend", cfg.Backend)
	if cfg.Backend == config.BackendTcell {
		err = runTcell(ctx, s, opts)
	} else {
		err = runANSI(ctx, s, opts)
	}
	if err != nil {
		logger.Error("run failed", "err", err)
	}
	return err
}

func runANSI(ctx context.Context, s loop.Scene, opts loop.Options) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	return loop.Run(ctx, reader, os.Stdout, s, opts)
}

func runTcell(ctx context.Context, s loop.Scene, opts loop.Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	return loop.RunScreen(ctx, screen, s, opts)
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "termsaver.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Println(nameStyle.Render("wrote"), path)
	return nil
}
