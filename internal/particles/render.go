package particles

import (
	"image/color"

	"go.uber.org/zap"
)

// Surface is a 2D drawing target in page space. Colors are not
// premultiplied; their alpha is the draw opacity.
type Surface interface {
	Clear()
	FillCircle(cx, cy, r float64, clr color.NRGBA)
	StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA)
	StrokeCircle(cx, cy, r, width float64, clr color.NRGBA)
}

// Render clears s and draws the particles, their links and, once the pointer
// has been seen, the interaction ring.
func (sim *Simulator) Render(s Surface) {
	s.Clear()
	ps := sim.field.particles
	for i := range ps {
		p := &ps[i]
		s.FillCircle(p.Pos.X, p.Pos.Y, p.Radius, withAlpha(PrimaryColor, p.Opacity))
	}

	sim.links = sim.findLinks(ps)
	pointer, seen := sim.pointer.Position()
	for _, l := range sim.links {
		a, b := ps[l.A].Pos, ps[l.B].Pos
		clr, width := sim.linkStyle(a, b, l.Dist, pointer, seen)
		s.StrokeLine(a.X, a.Y, b.X, b.Y, width, clr)
	}

	if seen {
		s.StrokeCircle(pointer.X, pointer.Y, sim.cfg.InteractionRadius, ringWidth, withAlpha(PrimaryColor, ringOpacity))
	}
}

// linkStyle picks the color and stroke width of a link. Links whose midpoint
// sits inside the interaction radius are brightened and thickened.
func (sim *Simulator) linkStyle(a, b Vec2, d float64, pointer Vec2, seen bool) (color.NRGBA, float64) {
	opacity := LinkOpacity(d, sim.cfg.LinkDistance)
	if seen {
		mid := Vec2{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
		if Dist(mid, pointer) < sim.cfg.InteractionRadius {
			return withAlpha(HighlightColor, opacity+LinkHighlightBoost), linkHighlightWidth
		}
	}
	return withAlpha(PrimaryColor, opacity), linkWidth
}

func (sim *Simulator) findLinks(ps []Particle) []Link {
	links, err := sim.finder.FindLinks(ps, sim.cfg.LinkDistance, sim.links[:0])
	if err == nil {
		return links
	}
	sim.logger.Warn("link finder failed; falling back to CPU scan", zap.Error(err))
	sim.finder = PairwiseLinks{}
	links, _ = sim.finder.FindLinks(ps, sim.cfg.LinkDistance, sim.links[:0])
	return links
}
