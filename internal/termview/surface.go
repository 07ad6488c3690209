// Package termview renders the particle field into a terminal with tcell.
package termview

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
)

// Glyphs used for each primitive.
const (
	discRune      = '•'
	largeDiscRune = '●'
	lineRune      = '·'
	ringRune      = '∙'
)

// minTermAlpha keeps faint strokes, such as the pointer ring, readable on
// terminals without fine color gradation.
const minTermAlpha = 0.35

var defaultBackground = color.NRGBA{R: 10, G: 14, B: 39, A: 255}

// Surface draws page-space primitives onto a tcell screen. Each cell covers
// cellW x cellH page pixels; the visible window starts at the scroll offset.
type Surface struct {
	screen   tcell.Screen
	cellW    float64
	cellH    float64
	offsetY  float64
	bg       color.NRGBA
	cols     int
	rows     int
	occupied []bool
}

// NewSurface wraps screen. Non-positive cell sizes default to 8x16.
func NewSurface(screen tcell.Screen, cellW, cellH float64) *Surface {
	if cellW <= 0 {
		cellW = 8
	}
	if cellH <= 0 {
		cellH = 16
	}
	s := &Surface{screen: screen, cellW: cellW, cellH: cellH, bg: defaultBackground}
	s.cols, s.rows = screen.Size()
	return s
}

// SetScroll sets the page offset of the top row.
func (s *Surface) SetScroll(y float64) { s.offsetY = y }

// ViewportSize returns the terminal area in page pixels.
func (s *Surface) ViewportSize() (w, h float64) {
	return float64(s.cols) * s.cellW, float64(s.rows) * s.cellH
}

// Clear implements particles.Surface.
func (s *Surface) Clear() {
	s.cols, s.rows = s.screen.Size()
	s.screen.SetStyle(tcell.StyleDefault.Background(toTcell(s.bg)))
	s.screen.Clear()
	if n := s.cols * s.rows; cap(s.occupied) < n {
		s.occupied = make([]bool, n)
	} else {
		s.occupied = s.occupied[:n]
		for i := range s.occupied {
			s.occupied[i] = false
		}
	}
}

// FillCircle implements particles.Surface. Discs claim their cell so later
// strokes do not overwrite them.
func (s *Surface) FillCircle(cx, cy, r float64, clr color.NRGBA) {
	col, row := s.toCell(cx, cy)
	if !s.inside(col, row) {
		return
	}
	glyph := discRune
	if r >= 2.5 {
		glyph = largeDiscRune
	}
	s.put(col, row, glyph, clr, 0)
	s.occupied[row*s.cols+col] = true
}

// StrokeLine implements particles.Surface.
func (s *Surface) StrokeLine(x0, y0, x1, y1, _ float64, clr color.NRGBA) {
	c0, r0 := s.toCell(x0, y0)
	c1, r1 := s.toCell(x1, y1)
	if (r0 < 0 && r1 < 0) || (r0 >= s.rows && r1 >= s.rows) {
		return
	}
	drawLine(c0, r0, c1, r1, func(col, row int) {
		s.putFree(col, row, lineRune, clr)
	})
}

// StrokeCircle implements particles.Surface.
func (s *Surface) StrokeCircle(cx, cy, r, _ float64, clr color.NRGBA) {
	for _, off := range ringFootprint(r, s.cellW, s.cellH) {
		col, row := s.toCell(cx+off.dx, cy+off.dy)
		s.putFree(col, row, ringRune, clr)
	}
}

func (s *Surface) toCell(x, y float64) (int, int) {
	return int(math.Floor(x / s.cellW)), int(math.Floor((y - s.offsetY) / s.cellH))
}

func (s *Surface) inside(col, row int) bool {
	return col >= 0 && col < s.cols && row >= 0 && row < s.rows && len(s.occupied) == s.cols*s.rows
}

func (s *Surface) putFree(col, row int, glyph rune, clr color.NRGBA) {
	if !s.inside(col, row) || s.occupied[row*s.cols+col] {
		return
	}
	s.put(col, row, glyph, clr, minTermAlpha)
}

func (s *Surface) put(col, row int, glyph rune, clr color.NRGBA, minAlpha float64) {
	a := math.Max(float64(clr.A)/255, minAlpha)
	style := tcell.StyleDefault.Background(toTcell(s.bg)).Foreground(toTcell(blend(s.bg, clr, a)))
	s.screen.SetContent(col, row, glyph, nil, style)
}

// blend composites fg at alpha a over bg.
func blend(bg, fg color.NRGBA, a float64) color.NRGBA {
	mix := func(b, f uint8) uint8 {
		return uint8(math.Round(float64(b)*(1-a) + float64(f)*a))
	}
	return color.NRGBA{R: mix(bg.R, fg.R), G: mix(bg.G, fg.G), B: mix(bg.B, fg.B), A: 255}
}

func toTcell(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// drawLine walks the cells between two points with Bresenham's integer
// algorithm.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
