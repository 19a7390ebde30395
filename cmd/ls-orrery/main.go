// Command ls-orrery is a terminal orrery: a solar system scene placed on a
// simulated AR surface, with animated orbit and size scale toggles.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/assets"
	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/display"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/placement"
	"github.com/litescript/ls-orrery/internal/session"
	"github.com/litescript/ls-orrery/internal/solar"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode bool
	jsonMode    bool
	toggles     string
)

// Fill light position relative to the system root.
var fillLight = mgl32.Vec3{0, 2, 2}

// app holds the assembled scene and its controllers.
type app struct {
	cfg    config.Config
	sys    *solar.System
	engine *display.Engine
	placer *placement.Adapter
	state  *state.Manager
}

func main() {
	// Parse flags
	configPath := flag.String("config", "", "YAML config file")
	catalogPath := flag.String("catalog", "", "YAML planet catalog (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to file (TUI mode logs nowhere otherwise)")
	fps := flag.Int("fps", 0, "Animation frames per second")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.BoolVar(&jsonMode, "json", false, "Print JSON summary instead of TUI")
	flag.StringVar(&toggles, "toggle", "", "Toggles to apply first, comma separated (orbit,size,trails)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *catalogPath != "" {
		cfg.Catalog = *catalogPath
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if *fps != 0 {
		cfg.Render.FPS = config.ClampFPS(*fps)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	headless := summaryMode || jsonMode || !isTTY

	// Set up logging. The TUI owns the terminal, so it only logs to a file.
	logger, closer, err := newLogger(cfg, headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	a, err := build(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if headless {
		if err := runHeadless(a, os.Stdout, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	events := make(chan session.Event, 8)
	model := ui.New(ui.Config{
		System:        a.sys,
		Engine:        a.engine,
		Placement:     a.placer,
		State:         a.state,
		Events:        events,
		FrameInterval: cfg.FrameInterval(),
		Logger:        logger.With("ui"),
	})

	// Create Bubble Tea program
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Start the simulated session in background
	sim := session.NewSimulator(session.DefaultScript(cfg.Session.SurfaceDelay), logger.With("session"))
	go func() {
		if err := sim.Run(ctx, events); err != nil && ctx.Err() == nil {
			logger.Error("session: %v", err)
		}
	}()

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config, headless bool) (*logging.Logger, io.Closer, error) {
	if cfg.Log.File != "" {
		return logging.OpenFile(cfg.Log.File, cfg.LogLevel())
	}
	if headless {
		return logging.New(cfg.LogLevel()), nopCloser{}, nil
	}
	return logging.Discard(), nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// build loads the catalog and assets and assembles an unplaced system.
func build(cfg config.Config, logger *logging.Logger) (*app, error) {
	cat := catalog.Default()
	if cfg.Catalog != "" {
		var err error
		if cat, err = catalog.Load(cfg.Catalog); err != nil {
			return nil, err
		}
	}

	lib, err := assets.Default()
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}

	opts, err := cfg.OrbitOptions()
	if err != nil {
		return nil, err
	}
	sys, err := solar.NewAssembler(lib, opts, fillLight, logger.With("solar")).Assemble(cat)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	logger.Debug("assembled %d planets, %d nodes", sys.Index.Len(), sys.Graph.Len())

	engine, err := display.NewEngine(sys, cfg.DisplayOptions(), logger.With("display"))
	if err != nil {
		return nil, err
	}

	stateCfg := state.DefaultConfig()
	if cfg.Session.MaxEvents > 0 {
		stateCfg.MaxEvents = cfg.Session.MaxEvents
	}

	return &app{
		cfg:    cfg,
		sys:    sys,
		engine: engine,
		placer: placement.NewAdapter(sys, logger.With("placement")),
		state:  state.NewManager(stateCfg),
	}, nil
}

// runHeadless places the system on a default plane, applies the requested
// toggles, lets every animation finish and prints the result.
func runHeadless(a *app, w io.Writer, logger *logging.Logger) error {
	plane := placement.NewPlane("headless", mgl32.Vec3{0, -0.5, -1}, mgl32.Vec2{1, 1})
	if _, err := a.placer.OnSurfaceDetected(plane); err != nil {
		return fmt.Errorf("place system: %w", err)
	}

	for _, name := range parseToggles(toggles) {
		var rep display.Report
		switch name {
		case "orbit":
			rep = a.engine.ToggleOrbitScale()
		case "size":
			rep = a.engine.ToggleBodyScale()
		case "trails":
			rep = a.engine.ToggleTrails()
		default:
			return fmt.Errorf("unknown toggle %q (want orbit, size or trails)", name)
		}
		if err := rep.Err(); err != nil {
			logger.Warn("toggle %s: %v", name, err)
		}
	}

	// Run past the animation, one frame at a time.
	step := a.cfg.FrameInterval()
	for elapsed := time.Duration(0); elapsed <= a.cfg.Toggle.Duration; elapsed += step {
		a.sys.Graph.Advance(step)
	}

	if jsonMode {
		return a.engine.WriteJSON(w)
	}
	a.engine.WriteSummary(w)
	return nil
}

func parseToggles(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
