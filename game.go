package main

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"particlefield/internal/observability"
	"particlefield/internal/page"
	"particlefield/internal/particles"
	"particlefield/internal/settings"
)

// Game is the ebiten host: it owns the page model, the particle simulator
// and the window chrome drawn over them.
type Game struct {
	cfg    *settings.Config
	logger *zap.Logger
	sim    *particles.Simulator
	doc    *page.Document
	menu   page.NavMenu
	toast  *page.Toast
	reveal page.Throttle
	load   *observability.LoadTimer
	solver string

	surface screenSurface

	width  int
	height int
	debug  bool
	quit   bool

	cursorX    int
	cursorY    int
	cursorSeen bool

	scrollTarget float64
	scrolling    bool

	pilot    *autopilot
	profile  *profileRun
	lastStep time.Duration

	now func() time.Time
}

// newGame wires a game around an existing page and simulator.
func newGame(cfg *settings.Config, doc *page.Document, sim *particles.Simulator, start time.Time) (*Game, error) {
	logger := observability.GetLogger().Named("window")
	g := &Game{
		cfg:    cfg,
		logger: logger,
		sim:    sim,
		doc:    doc,
		toast:  page.NewToast(cfg.Page.ToastTTL),
		reveal: page.NewThrottle(revealThrottle),
		load:   observability.NewLoadTimer(start, logger),
		solver: "cpu",
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
		debug:  cfg.Window.Debug,
		pilot:  newAutopilot(rand.New(rand.NewSource(time.Now().UnixNano()+3)), float64(cfg.Window.Width), float64(cfg.Window.Height)),
		now:    time.Now,
	}
	now := g.now()
	if cfg.Window.Autopilot {
		g.pilot.enable(now, 0)
	}
	if cfg.Profiling.RecordPGO {
		run, err := startProfileRun(cfg.Profiling.Output, cfg.Profiling.Duration, now)
		if err != nil {
			return nil, fmt.Errorf("starting CPU profile: %w", err)
		}
		g.profile = run
		g.pilot.enable(now, cfg.Profiling.Duration)
		logger.Info("recording CPU profile",
			zap.String("path", cfg.Profiling.Output),
			zap.Duration("duration", cfg.Profiling.Duration))
	}
	return g, nil
}

// Close stops any profile still being recorded.
func (g *Game) Close() {
	if g.profile != nil {
		g.profile.Stop()
	}
}

// Update advances the page chrome and the particle field by one tick.
func (g *Game) Update() error {
	defer observability.Recover(g.logger, "update", g.reportPanic)
	if g.quit {
		return ebiten.Termination
	}
	now := g.now()

	g.handleInput(now)
	g.updateScroll(now)
	if g.sim.Poll(now) {
		st := g.sim.Stats()
		g.logger.Debug("particle field regenerated",
			zap.Int("particles", st.Particles),
			zap.Float64("width", st.Width),
			zap.Float64("height", st.Height))
	}
	if g.reveal.Due(now) {
		g.doc.RefreshReveal()
	}

	stepStart := time.Now()
	g.sim.Step()
	g.lastStep = time.Since(stepStart)

	if g.profile != nil && g.profile.expired(now) {
		g.profile.Stop()
		g.logger.Info("CPU profile written", zap.String("path", g.profile.path))
		g.profile = nil
		g.quit = true
	}
	return nil
}

// Layout tracks the window size. A change resizes the page viewport and
// schedules a particle regeneration.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		now := g.now()
		g.width, g.height = outsideWidth, outsideHeight
		g.doc.SetViewport(float64(outsideWidth), float64(outsideHeight))
		g.menu.Resize(float64(outsideWidth))
		g.sim.Resize(now)
		g.reveal.Request(now)
	}
	return outsideWidth, outsideHeight
}

// reportPanic surfaces a recovered panic to the user.
func (g *Game) reportPanic(err error) {
	g.toast.Show(page.ToastError, "Something went wrong: "+err.Error(), g.now())
}

// runGame opens the window and blocks until it closes.
func runGame(g *Game) error {
	tps := g.cfg.Window.TPS
	if tps <= 0 {
		tps = defaultTPS
	}
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(g.cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(tps)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("running window: %w", err)
	}
	return nil
}
