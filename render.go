package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"particlefield/internal/observability"
	"particlefield/internal/page"
)

// screenSurface draws page-space primitives onto the window, shifted by the
// scroll offset. Primitives entirely outside the viewport are skipped.
type screenSurface struct {
	dst     *ebiten.Image
	offsetY float64
	viewH   float64
}

func (s *screenSurface) Clear() { s.dst.Fill(backgroundColor) }

// visible reports whether the vertical span [y0, y1] in page space overlaps
// the viewport.
func (s *screenSurface) visible(y0, y1 float64) bool {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return y1-s.offsetY >= 0 && y0-s.offsetY <= s.viewH
}

func (s *screenSurface) FillCircle(cx, cy, r float64, clr color.NRGBA) {
	if !s.visible(cy-r, cy+r) {
		return
	}
	vector.DrawFilledCircle(s.dst, float32(cx), float32(cy-s.offsetY), float32(r), clr, true)
}

func (s *screenSurface) StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA) {
	if !s.visible(y0, y1) {
		return
	}
	vector.StrokeLine(s.dst, float32(x0), float32(y0-s.offsetY), float32(x1), float32(y1-s.offsetY), float32(width), clr, true)
}

func (s *screenSurface) StrokeCircle(cx, cy, r, width float64, clr color.NRGBA) {
	if !s.visible(cy-r, cy+r) {
		return
	}
	vector.StrokeCircle(s.dst, float32(cx), float32(cy-s.offsetY), float32(r), float32(width), clr, true)
}

// Draw renders the particle field and the page chrome over it.
func (g *Game) Draw(screen *ebiten.Image) {
	defer observability.Recover(g.logger, "draw", g.reportPanic)
	now := g.now()

	g.surface.dst = screen
	g.surface.offsetY = g.doc.ScrollY()
	g.surface.viewH = float64(g.height)
	g.sim.Render(&g.surface)

	g.drawSections(screen)
	g.drawNav(screen)
	if g.doc.ScrollTopVisible() {
		g.drawScrollTop(screen)
	}
	g.drawToast(screen, now)
	if g.debug {
		g.drawDebug(screen)
	}
	g.load.Mark(now)
}

// drawSections shades each on-screen section; revealed ones get a border
// and their title.
func (g *Game) drawSections(screen *ebiten.Image) {
	scroll := g.doc.ScrollY()
	w := float32(g.width)
	for _, s := range g.doc.Sections() {
		top := s.Top - scroll
		if top > float64(g.height) || s.Bottom()-scroll < 0 {
			continue
		}
		y := float32(top) + 8
		h := float32(s.Height) - 16
		if !s.Revealed {
			vector.DrawFilledRect(screen, 24, y, w-48, h, sectionHiddenColor, false)
			continue
		}
		vector.DrawFilledRect(screen, 24, y, w-48, h, sectionColor, false)
		vector.StrokeRect(screen, 24, y, w-48, h, 1, sectionEdgeColor, false)
		drawLabel(screen, s.Title, 40, int(top)+36, labelColor)
	}
}

func (g *Game) drawNav(screen *ebiten.Image) {
	clr := navColor
	if g.doc.NavScrolled() {
		clr = navScrolledColor
	}
	vector.DrawFilledRect(screen, 0, 0, float32(g.width), page.NavHeight, clr, false)
	drawLabel(screen, g.cfg.Window.Title, 24, page.NavHeight/2+4, labelColor)
	drawLabel(screen, navHint, 24, g.height-12, hintColor)

	layout := g.menu.Layout(g.doc)
	if layout.Collapsed {
		hb := layout.Hamburger
		x, w := float32(hb.X), float32(hb.W)
		for i := 0; i < 3; i++ {
			y := float32(hb.Y) + float32(i)*float32(hb.H)/2
			vector.StrokeLine(screen, x, y, x+w, y, 3, labelColor, true)
		}
		if g.menu.IsOpen() {
			m := layout.Menu
			vector.DrawFilledRect(screen, float32(m.X), float32(m.Y), float32(m.W), float32(m.H), navScrolledColor, false)
		}
	}
	for _, l := range layout.Links {
		r := l.Rect
		clr := hintColor
		if g.cursorSeen && r.Contains(float64(g.cursorX), float64(g.cursorY)) {
			clr = labelColor
		}
		drawLabel(screen, l.Title, int(r.X)+12, int(r.Y+r.H/2)+4, clr)
	}
}

// scrollTopCenter is the button center in viewport space.
func (g *Game) scrollTopCenter() (float64, float64) {
	return float64(g.width) - scrollTopMargin - scrollTopRadius, float64(g.height) - scrollTopMargin - scrollTopRadius
}

func (g *Game) scrollTopHit(x, y float64) bool {
	cx, cy := g.scrollTopCenter()
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= scrollTopRadius*scrollTopRadius
}

func (g *Game) drawScrollTop(screen *ebiten.Image) {
	cx, cy := g.scrollTopCenter()
	x, y := float32(cx), float32(cy)
	vector.DrawFilledCircle(screen, x, y, scrollTopRadius, scrollTopColor, true)
	vector.StrokeLine(screen, x-7, y+4, x, y-5, 2, scrollTopArrowClr, true)
	vector.StrokeLine(screen, x, y-5, x+7, y+4, 2, scrollTopArrowClr, true)
}

func (g *Game) drawToast(screen *ebiten.Image, now time.Time) {
	if !g.toast.Visible(now) {
		return
	}
	clr := toastInfoColor
	switch g.toast.Kind() {
	case page.ToastSuccess:
		clr = toastSuccessColor
	case page.ToastError:
		clr = toastErrorColor
	}
	x := (float32(g.width) - toastWidth) / 2
	y := float32(g.height) - toastHeight - toastMargin
	vector.DrawFilledRect(screen, x, y, toastWidth, toastHeight, clr, true)
	drawLabel(screen, g.toast.Text(), int(x)+16, int(y)+27, labelColor)
}

// drawLabel draws s with its baseline at y.
func drawLabel(screen *ebiten.Image, s string, x, y int, clr color.Color) {
	text.Draw(screen, s, basicfont.Face7x13, x, y, clr)
}

func (g *Game) drawDebug(screen *ebiten.Image) {
	st := g.sim.Stats()
	pointer := "none"
	if p, ok := g.sim.Pointer(); ok {
		pointer = fmt.Sprintf("%.0f,%.0f", p.X, p.Y)
	}
	autopilot := "off"
	if g.pilot.enabled {
		autopilot = "on (P)"
	}
	msg := fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nParticles: %d  Links: %d (%s)\nSurface: %.0fx%.0f  Regens: %d\nScroll: %.0f / %.0f\nPointer: %s  Autopilot: %s\nStep: %.3f ms\n%s hides this overlay",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		st.Particles, st.Links, g.solver,
		st.Width, st.Height, st.Regens,
		g.doc.ScrollY(), g.doc.MaxScroll(),
		pointer, autopilot,
		g.lastStep.Seconds()*1000,
		debugToggleKeyTip)
	ebitenutil.DebugPrintAt(screen, msg, 8, page.NavHeight+8)
}
