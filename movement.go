package main

import (
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"particlefield/internal/page"
)

// handleInput routes pointer, wheel and keyboard input to the page and the
// simulator.
func (g *Game) handleInput(now time.Time) {
	g.handleDebugControls()

	if g.pilot.active(now) {
		x, y := g.pilot.step(float64(g.width), float64(g.height))
		g.sim.PointerMoved(x, y)
	} else {
		g.followCursor()
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.scrollBy(-wy*g.cfg.Page.ScrollStep, now)
	}
	pageStep := float64(g.height) * keyScrollPages
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.smoothScrollTo(g.doc.ScrollY() + pageStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.smoothScrollTo(g.doc.ScrollY() - pageStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		g.smoothScrollTo(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		g.smoothScrollTo(g.doc.MaxScroll())
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.scrollBy(g.cfg.Page.ScrollStep/4, now)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.scrollBy(-g.cfg.Page.ScrollStep/4, now)
	}
	for i, key := range sectionKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.jumpToSection(i)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.growPage(now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Resize(now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.quit = true
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		cx, cy := ebiten.CursorPosition()
		g.click(float64(cx), float64(cy))
	}
}

// click handles a left click in viewport space. The nav gets first look.
func (g *Game) click(x, y float64) {
	if section, handled := g.menu.Click(g.doc, x, y); handled {
		g.jumpToSection(section)
		return
	}
	if g.doc.ScrollTopVisible() && g.scrollTopHit(x, y) {
		g.smoothScrollTo(0)
	}
}

var sectionKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// followCursor forwards cursor motion to the simulator. A still cursor is not
// re-sent, so scrolling leaves the pointer anchored to the page.
func (g *Game) followCursor() {
	x, y := ebiten.CursorPosition()
	if g.cursorSeen && x == g.cursorX && y == g.cursorY {
		return
	}
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	g.cursorX, g.cursorY, g.cursorSeen = x, y, true
	g.sim.PointerMoved(float64(x), float64(y))
}

// scrollBy scrolls immediately and cancels any smooth scroll in flight.
func (g *Game) scrollBy(dy float64, now time.Time) {
	g.scrolling = false
	g.doc.ScrollBy(dy)
	g.afterScroll(now)
}

func (g *Game) smoothScrollTo(y float64) {
	g.scrollTarget = math.Max(0, math.Min(y, g.doc.MaxScroll()))
	g.scrolling = true
}

// updateScroll eases toward the smooth scroll target.
func (g *Game) updateScroll(now time.Time) {
	if !g.scrolling {
		return
	}
	cur := g.doc.ScrollY()
	delta := g.scrollTarget - cur
	if math.Abs(delta) <= scrollSnap {
		g.doc.ScrollTo(g.scrollTarget)
		g.scrolling = false
	} else {
		g.doc.ScrollTo(cur + delta*scrollEase)
	}
	g.afterScroll(now)
}

func (g *Game) afterScroll(now time.Time) {
	g.sim.Scroll()
	g.reveal.Request(now)
}

func (g *Game) jumpToSection(i int) {
	sections := g.doc.Sections()
	if i < 0 || i >= len(sections) {
		return
	}
	g.smoothScrollTo(g.doc.AnchorOffset(sections[i].Top))
}

// growPage appends content below the fold, as lazily loaded sections would.
func (g *Game) growPage(now time.Time) {
	g.doc.Grow(growStep)
	g.sim.Scroll()
	g.reveal.Request(now)
	g.toast.Show(page.ToastInfo, "More content loaded", now)
	g.logger.Debug("page grown", zap.Float64("scroll_height", g.doc.ScrollHeight()))
}

// handleDebugControls processes debug overlay hotkeys.
func (g *Game) handleDebugControls() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}
	if !g.debug {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		now := g.now()
		if g.pilot.active(now) {
			g.pilot.disable()
		} else {
			g.pilot.enable(now, 0)
		}
	}
}

// autopilot wanders a viewport-space pointer in straight runs, picking a new
// heading every few dozen frames or when the next step would leave the view.
type autopilot struct {
	rng      *rand.Rand
	enabled  bool
	deadline time.Time
	x, y     float64
	dirX     float64
	dirY     float64
	frames   int
}

func newAutopilot(rng *rand.Rand, w, h float64) *autopilot {
	return &autopilot{rng: rng, x: w / 2, y: h / 2}
}

// enable starts wandering. A zero duration never expires.
func (a *autopilot) enable(now time.Time, duration time.Duration) {
	a.enabled = true
	a.deadline = time.Time{}
	if duration > 0 {
		a.deadline = now.Add(duration)
	}
	a.frames = 0
}

func (a *autopilot) disable() { a.enabled = false }

func (a *autopilot) active(now time.Time) bool {
	if a.enabled && !a.deadline.IsZero() && now.After(a.deadline) {
		a.enabled = false
	}
	return a.enabled
}

// step moves the pointer one frame inside a w x h viewport.
func (a *autopilot) step(w, h float64) (float64, float64) {
	for attempts := 0; attempts < 5; attempts++ {
		if a.frames <= 0 {
			a.randomizeDirection()
		}
		nx := a.x + a.dirX*autopilotSpeed
		ny := a.y + a.dirY*autopilotSpeed
		if nx >= 0 && nx <= w && ny >= 0 && ny <= h {
			a.x, a.y = nx, ny
			a.frames--
			return a.x, a.y
		}
		a.frames = 0
	}
	a.x = math.Max(0, math.Min(a.x, w))
	a.y = math.Max(0, math.Min(a.y, h))
	return a.x, a.y
}

func (a *autopilot) randomizeDirection() {
	angle := a.rng.Float64() * 2 * math.Pi
	a.dirX = math.Cos(angle)
	a.dirY = math.Sin(angle)
	a.frames = autopilotMinSteer + a.rng.Intn(autopilotMaxSteer-autopilotMinSteer+1)
}
