package particles

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubHost is a fixed-geometry page.
type stubHost struct {
	w, h    float64
	scrollH float64
	scrollY float64
}

func (h *stubHost) ViewportSize() (float64, float64) { return h.w, h.h }
func (h *stubHost) ScrollHeight() float64            { return h.scrollH }
func (h *stubHost) ScrollY() float64                 { return h.scrollY }

type drawnLine struct {
	x0, y0, x1, y1 float64
	width          float64
	clr            color.NRGBA
}

type drawnCircle struct {
	cx, cy, r float64
	width     float64
	clr       color.NRGBA
}

// recordingSurface captures draw calls for assertions.
type recordingSurface struct {
	clears int
	discs  []drawnCircle
	lines  []drawnLine
	rings  []drawnCircle
}

func (s *recordingSurface) Clear() {
	s.clears++
	s.discs, s.lines, s.rings = nil, nil, nil
}

func (s *recordingSurface) FillCircle(cx, cy, r float64, clr color.NRGBA) {
	s.discs = append(s.discs, drawnCircle{cx: cx, cy: cy, r: r, clr: clr})
}

func (s *recordingSurface) StrokeLine(x0, y0, x1, y1, width float64, clr color.NRGBA) {
	s.lines = append(s.lines, drawnLine{x0: x0, y0: y0, x1: x1, y1: y1, width: width, clr: clr})
}

func (s *recordingSurface) StrokeCircle(cx, cy, r, width float64, clr color.NRGBA) {
	s.rings = append(s.rings, drawnCircle{cx: cx, cy: cy, r: r, width: width, clr: clr})
}

func newTestSimulator(t *testing.T, host *stubHost) *Simulator {
	t.Helper()
	sim, err := NewSimulator(DefaultConfig(), host, WithRand(rand.New(rand.NewSource(7))))
	require.NoError(t, err)
	return sim
}

// place replaces the particle set with the given particles.
func place(sim *Simulator, ps ...Particle) {
	sim.field.particles = ps
}
