package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"termlife/src/config"
	"termlife/src/seed"
	"termlife/src/sim"
	"termlife/src/universe"
	"termlife/src/view"
)

const version = "0.2.0"

//EnvOptions are the command line values, zero values mean "not set"
//delay and maxSteps are kept as text so that an explicit 0 can be told apart from a missing flag
type EnvOptions struct {
	configPath string
	input      string
	template   string
	delay      string
	width      int
	height     int
	maxSteps   string
	plain      bool
	paused     bool
	list       bool
	logFile    string
	verbose    bool
}

func main() {
	eo := initOptions()
	if eo.list {
		listTemplates(os.Stdout)
		return
	}
	if err := run(eo); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initOptions() *EnvOptions {
	eo := &EnvOptions{}
	flaggy.SetName("termlife")
	flaggy.SetDescription("Conway's Game of Life on a wraparound grid in the terminal")
	flaggy.SetVersion(version)
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&eo.input, "i", "input", "Seed file: rows, columns, then the grid of 0 and 1")
	flaggy.String(&eo.delay, "d", "delay", "Delay between generations in milliseconds (default 500)")
	flaggy.Int(&eo.width, "x", "width", "Width of the universe when seeded from a template")
	flaggy.Int(&eo.height, "y", "height", "Height of the universe when seeded from a template")
	flaggy.String(&eo.maxSteps, "s", "maxSteps", "Stop after this many generations, 0 for no limit")
	flaggy.String(&eo.template, "t", "template", "Seeding template, see --list")
	flaggy.String(&eo.configPath, "c", "config", "Config file (.yaml, .yml or .toml)")
	flaggy.Bool(&eo.list, "l", "list", "List the seeding templates and exit")
	flaggy.Bool(&eo.plain, "p", "plain", "Print generations as plain text instead of the full screen view")
	flaggy.Bool(&eo.paused, "", "paused", "Start paused, press N to step")
	flaggy.String(&eo.logFile, "", "log", "Write the log to this file")
	flaggy.Bool(&eo.verbose, "v", "verbose", "Log every generation")

	flaggy.Parse()
	return eo
}

//loadConfig merges the defaults, the config file and the command line, in this order
func loadConfig(eo *EnvOptions) (config.Config, error) {
	cfg := config.Default()
	if eo.configPath != "" {
		var err error
		if cfg, err = config.Load(eo.configPath); err != nil {
			return cfg, err
		}
	}

	//a template from the command line replaces the seed file of the config file
	if eo.template != "" {
		cfg.Template = eo.template
		cfg.Input = ""
	}
	if eo.input != "" {
		cfg.Input = eo.input
	}
	if eo.delay != "" {
		ms, err := parseCount(eo.delay, "delay")
		if err != nil {
			return cfg, err
		}
		cfg.DelayMs = ms
	}
	if eo.maxSteps != "" {
		n, err := parseCount(eo.maxSteps, "maxSteps")
		if err != nil {
			return cfg, err
		}
		cfg.MaxSteps = n
	}
	if eo.width < 0 || eo.height < 0 {
		return cfg, errors.New("width and height must not be negative")
	}
	if eo.width > 0 {
		cfg.Width = uint(eo.width)
	}
	if eo.height > 0 {
		cfg.Height = uint(eo.height)
	}
	if eo.plain {
		cfg.Plain = true
	}
	if eo.paused {
		cfg.Paused = true
	}
	if eo.logFile != "" {
		cfg.LogFile = eo.logFile
	}

	return cfg, cfg.Validate()
}

//parseCount reads a non negative number given on the command line
func parseCount(text string, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, errors.Errorf("%s must be a number, got %q", name, text)
	}
	if n < 0 {
		return 0, errors.Errorf("%s must not be negative, got %d", name, n)
	}
	return n, nil
}

//newUniverse builds the universe from the seed file or from the template
func newUniverse(cfg config.Config) (*universe.Universe, string, error) {
	if cfg.Input != "" {
		u, err := seed.Load(cfg.Input)
		return u, cfg.Input, err
	}

	tmpl, ok := universe.LookupTemplate(cfg.Template)
	if !ok {
		return nil, "", errors.Errorf("unknown template %q", cfg.Template)
	}
	if w, h := tmpl.Bounds(); w > cfg.Width || h > cfg.Height {
		return nil, "", errors.Errorf("template %q needs at least %dx%d, the universe is %dx%d", tmpl.Name, w, h, cfg.Width, cfg.Height)
	}
	u, err := universe.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, "", err
	}
	return u, "template " + tmpl.Name, tmpl.Apply(u)
}

//newLogger writes to the log file if there is one, to stderr in plain mode and nowhere otherwise
//stderr would mess up the full screen view
func newLogger(cfg config.Config, verbose bool) (*log.Logger, func(), error) {
	var w io.Writer = io.Discard
	closer := func() {}
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, closer, errors.Wrapf(err, "failed to open log file: %s", cfg.LogFile)
		}
		w = f
		closer = func() { _ = f.Close() }
	case cfg.Plain:
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "termlife",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, closer, nil
}

func run(eo *EnvOptions) error {
	cfg, err := loadConfig(eo)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg, eo.verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	u, source, err := newUniverse(cfg)
	if err != nil {
		return err
	}
	logger.Info("universe created", "width", u.Width(), "height", u.Height(), "seed", source, "live", u.LiveCells())

	s := sim.New(u, sim.Options{
		Interval: cfg.Interval(),
		MaxSteps: cfg.MaxSteps,
		Paused:   cfg.Paused,
	})
	settings := view.Settings{
		LiveSymbol: cfg.LiveSymbol,
		DeadSymbol: cfg.DeadSymbol,
		LiveColor:  cfg.LiveColor(),
		Source:     source,
		Interval:   cfg.Interval(),
		MaxSteps:   cfg.MaxSteps,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Plain {
		return runPlain(ctx, s, view.NewConsoleOut(os.Stdout, settings), logger)
	}
	return runInteractive(ctx, s, settings, logger)
}

func runPlain(ctx context.Context, s *sim.Simulation, out *view.ConsoleOut, logger *log.Logger) error {
	logger.Info("simulation started", "interval", s.Options().Interval, "maxSteps", s.Options().MaxSteps)
	err := s.Run(ctx, logged(out, logger))
	logger.Info("simulation stopped")
	return err
}

func runInteractive(ctx context.Context, s *sim.Simulation, settings view.Settings, logger *log.Logger) error {
	ui, err := view.NewConsoleUI(s, settings)
	if err != nil {
		return err
	}
	defer ui.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return s.Run(ctx, logged(ui, logger))
	})
	eg.Go(func() error {
		//leaving the UI stops the simulation, a finished simulation keeps the UI open
		defer cancel()
		return ui.MainLoop(ctx)
	})

	logger.Info("interactive session started")
	err = eg.Wait()
	logger.Info("interactive session ended")
	return err
}

//logged reports every frame to the debug log before passing it to v
func logged(v sim.Viewer, logger *log.Logger) sim.Viewer {
	return sim.ViewerFunc(func(f sim.Frame) {
		logger.Debug("generation", "n", f.Status.Generation, "live", f.Status.LiveCells, "tick", f.Status.TickTime, "mode", f.Status.Mode)
		if f.Status.Mode == sim.ModeFinished {
			logger.Info("simulation finished", "generations", f.Status.Generation, "live", f.Status.LiveCells)
		}
		v.Refresh(f)
	})
}

func listTemplates(w io.Writer) {
	for _, t := range universe.Templates() {
		width, height := t.Bounds()
		fmt.Fprintf(w, "%-10s %dx%d  %s\n", t.Name, width, height, t.Descr)
	}
}
