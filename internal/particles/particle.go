// Package particles simulates the interactive particle field drawn behind the
// page: drifting points that bounce off the surface edges, shy away from the
// pointer and link up with nearby neighbors.
package particles

import (
	"image/color"
	"math"
	"time"
)

// Vec2 is a point or displacement in page space.
type Vec2 struct {
	X, Y float64
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec2) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

// Particle is a single simulated point.
type Particle struct {
	Pos         Vec2
	Vel         Vec2
	Radius      float64
	BaseOpacity float64
	// Opacity is recomputed every step from pointer proximity and always lies
	// within [BaseOpacity, BaseOpacity+OpacityBoost].
	Opacity float64
}

// Visual constants shared by every surface.
const (
	// OpacityBoost is the extra opacity a particle gains right under the pointer.
	OpacityBoost = 0.5
	// LinkBaseOpacity is the opacity of a link between two coincident particles.
	LinkBaseOpacity = 0.3
	// LinkHighlightBoost is added to links whose midpoint is near the pointer.
	LinkHighlightBoost = 0.3
	linkWidth          = 0.5
	linkHighlightWidth = 1
	ringWidth          = 2
	ringOpacity        = 0.1
)

var (
	// PrimaryColor fills particles, plain links and the pointer ring.
	PrimaryColor = color.NRGBA{R: 108, G: 99, B: 255, A: 255}
	// HighlightColor strokes links near the pointer.
	HighlightColor = color.NRGBA{R: 78, G: 205, B: 196, A: 255}
)

// Config tunes the simulation. Zero fields fall back to DefaultConfig values.
type Config struct {
	MobileBreakpoint  float64
	MobileCount       int
	DesktopCount      int
	InteractionRadius float64
	LinkDistance      float64
	RepelStrength     float64
	MaxSpeed          float64
	MinRadius         float64
	MaxRadius         float64
	MinOpacity        float64
	MaxOpacity        float64
	ResizeDebounce    time.Duration
}

// DefaultConfig returns the tuning used by the landing page.
func DefaultConfig() Config {
	return Config{
		MobileBreakpoint:  768,
		MobileCount:       30,
		DesktopCount:      60,
		InteractionRadius: 200,
		LinkDistance:      150,
		RepelStrength:     2,
		MaxSpeed:          0.25,
		MinRadius:         1,
		MaxRadius:         3,
		MinOpacity:        0.2,
		MaxOpacity:        0.7,
		ResizeDebounce:    250 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MobileBreakpoint <= 0 {
		c.MobileBreakpoint = d.MobileBreakpoint
	}
	if c.MobileCount <= 0 {
		c.MobileCount = d.MobileCount
	}
	if c.DesktopCount <= 0 {
		c.DesktopCount = d.DesktopCount
	}
	if c.InteractionRadius <= 0 {
		c.InteractionRadius = d.InteractionRadius
	}
	if c.LinkDistance <= 0 {
		c.LinkDistance = d.LinkDistance
	}
	if c.RepelStrength <= 0 {
		c.RepelStrength = d.RepelStrength
	}
	if c.MaxSpeed <= 0 {
		c.MaxSpeed = d.MaxSpeed
	}
	if c.MinRadius <= 0 || c.MaxRadius < c.MinRadius {
		c.MinRadius, c.MaxRadius = d.MinRadius, d.MaxRadius
	}
	if c.MinOpacity <= 0 || c.MaxOpacity < c.MinOpacity {
		c.MinOpacity, c.MaxOpacity = d.MinOpacity, d.MaxOpacity
	}
	if c.ResizeDebounce <= 0 {
		c.ResizeDebounce = d.ResizeDebounce
	}
	return c
}

// CountFor returns the particle count tier for a viewport width: the reduced
// mobile count below the breakpoint, the desktop count at or above it.
func (c Config) CountFor(viewportWidth float64) int {
	c = c.withDefaults()
	if viewportWidth < c.MobileBreakpoint {
		return c.MobileCount
	}
	return c.DesktopCount
}

// withAlpha returns c with its alpha replaced by a, clamped to [0, 1].
func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	c.A = uint8(math.Round(a * 255))
	return c
}
