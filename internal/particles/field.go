package particles

import (
	"math"
	"math/rand"
)

// field owns the particle set and the bounds it lives in.
type field struct {
	cfg       Config
	width     float64
	height    float64
	particles []Particle
	rng       *rand.Rand
}

func newField(cfg Config, rng *rand.Rand) *field {
	return &field{cfg: cfg, rng: rng}
}

// regenerate discards the current set and samples count fresh particles over
// a width x height surface.
func (f *field) regenerate(width, height float64, count int) {
	f.width, f.height = math.Max(width, 0), math.Max(height, 0)
	ps := make([]Particle, count)
	for i := range ps {
		ps[i] = f.sample()
	}
	f.particles = ps
}

// sample draws one particle: uniform position, slow symmetric drift, small
// radius and base opacity.
func (f *field) sample() Particle {
	c := f.cfg
	base := c.MinOpacity + f.rng.Float64()*(c.MaxOpacity-c.MinOpacity)
	return Particle{
		Pos: Vec2{X: f.rng.Float64() * f.width, Y: f.rng.Float64() * f.height},
		Vel: Vec2{
			X: (f.rng.Float64()*2 - 1) * c.MaxSpeed,
			Y: (f.rng.Float64()*2 - 1) * c.MaxSpeed,
		},
		Radius:      c.MinRadius + f.rng.Float64()*(c.MaxRadius-c.MinRadius),
		BaseOpacity: base,
		Opacity:     base,
	}
}

// grow raises the surface height; it never shrinks.
func (f *field) grow(height float64) bool {
	if height <= f.height {
		return false
	}
	f.height = height
	return true
}

// step advances every particle by one tick against the pointer state.
func (f *field) step(pointer Vec2, seen bool) {
	for i := range f.particles {
		f.stepParticle(&f.particles[i], pointer, seen)
	}
}

func (f *field) stepParticle(p *Particle, pointer Vec2, seen bool) {
	p.Vel.X = ReflectAxis(p.Pos.X, p.Vel.X, f.width)
	p.Vel.Y = ReflectAxis(p.Pos.Y, p.Vel.Y, f.height)
	p.Pos.X += p.Vel.X
	p.Pos.Y += p.Vel.Y

	p.Opacity = p.BaseOpacity
	if seen {
		dx := pointer.X - p.Pos.X
		dy := pointer.Y - p.Pos.Y
		force := ProximityFactor(math.Hypot(dx, dy), f.cfg.InteractionRadius)
		if force > 0 {
			angle := math.Atan2(dy, dx)
			p.Pos.X -= math.Cos(angle) * force * f.cfg.RepelStrength
			p.Pos.Y -= math.Sin(angle) * force * f.cfg.RepelStrength
			p.Opacity = p.BaseOpacity + force*OpacityBoost
		}
	}

	p.Pos.X = clamp(p.Pos.X, 0, f.width)
	p.Pos.Y = clamp(p.Pos.Y, 0, f.height)
}

// ReflectAxis returns the velocity component to use for the next move along
// one axis. The component is negated when moving by it would leave [0, max],
// so a particle bounces without losing speed.
func ReflectAxis(pos, vel, max float64) float64 {
	next := pos + vel
	if next < 0 || next > max {
		return -vel
	}
	return vel
}

// ProximityFactor maps a distance to the pointer onto [0, 1]: 1 at the
// pointer, falling linearly to 0 at radius and beyond.
func ProximityFactor(d, radius float64) float64 {
	if radius <= 0 || d >= radius {
		return 0
	}
	if d < 0 {
		d = 0
	}
	return (radius - d) / radius
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
