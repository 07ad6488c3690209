package particles

import (
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// ErrNoSurface is returned when a simulator is built without a host to size
// its drawing surface from.
var ErrNoSurface = errors.New("particles: no drawing surface host")

// Host answers the geometry queries the simulator needs from the page.
type Host interface {
	// ViewportSize is the visible area in logical pixels.
	ViewportSize() (w, h float64)
	// ScrollHeight is the full scrollable height of the page.
	ScrollHeight() float64
	// ScrollY is the current vertical scroll offset.
	ScrollY() float64
}

// Option customizes a Simulator.
type Option func(*Simulator)

// WithRand seeds particle sampling from r.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) { s.rng = r }
}

// WithLinkFinder replaces the CPU pair scan.
func WithLinkFinder(f LinkFinder) Option {
	return func(s *Simulator) {
		if f != nil {
			s.finder = f
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// Stats is a snapshot for overlays and logs.
type Stats struct {
	Particles int
	Links     int
	Width     float64
	Height    float64
	Ticks     uint64
	Regens    int
}

// Simulator drives the particle field. Every method must be called from the
// goroutine running the frame loop, since most of them read the Host. The
// one exception is PointerMovedAt, which touches only the guarded pointer.
type Simulator struct {
	cfg     Config
	host    Host
	field   *field
	pointer Pointer
	resize  Debouncer
	finder  LinkFinder
	links   []Link
	rng     *rand.Rand
	logger  *zap.Logger
	ticks   uint64
	regens  int
}

// NewSimulator sizes the surface from host and samples the initial set.
func NewSimulator(cfg Config, host Host, opts ...Option) (*Simulator, error) {
	if host == nil {
		return nil, ErrNoSurface
	}
	cfg = cfg.withDefaults()
	s := &Simulator{
		cfg:    cfg,
		host:   host,
		resize: NewDebouncer(cfg.ResizeDebounce),
		finder: PairwiseLinks{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.field = newField(cfg, s.rng)
	s.regenerate()
	return s, nil
}

// Config returns the effective configuration.
func (s *Simulator) Config() Config { return s.cfg }

// regenerate re-reads the host geometry and replaces the whole set.
func (s *Simulator) regenerate() {
	vw, _ := s.host.ViewportSize()
	count := s.cfg.CountFor(vw)
	s.field.regenerate(vw, s.host.ScrollHeight(), count)
	s.links = s.links[:0]
	s.regens++
	s.logger.Debug("particle field generated",
		zap.Int("count", count),
		zap.Float64("width", s.field.width),
		zap.Float64("height", s.field.height))
}

// Step advances the simulation by one tick without drawing.
func (s *Simulator) Step() {
	pointer, seen := s.pointer.Position()
	s.field.step(pointer, seen)
	s.ticks++
}

// Tick runs one full update-and-render cycle onto surf.
func (s *Simulator) Tick(surf Surface) {
	s.Step()
	s.Render(surf)
}

// Resize notes a viewport resize. Work happens in Poll once the burst settles.
func (s *Simulator) Resize(now time.Time) {
	s.resize.Trigger(now)
}

// Poll regenerates the particle set when a resize burst has settled and
// reports whether it did.
func (s *Simulator) Poll(now time.Time) bool {
	if !s.resize.Ready(now) {
		return false
	}
	s.regenerate()
	return true
}

// Scroll grows the surface to the page's scroll height when the page has
// grown. Particles keep their state.
func (s *Simulator) Scroll() {
	if s.field.grow(s.host.ScrollHeight()) {
		s.logger.Debug("particle surface grown", zap.Float64("height", s.field.height))
	}
}

// PointerMoved records a pointer position given in viewport space. It is
// stored in page space so it stays anchored to content while scrolling. It
// reads the Host scroll offset, so it belongs on the loop goroutine.
func (s *Simulator) PointerMoved(clientX, clientY float64) {
	s.PointerMovedAt(clientX, clientY, s.host.ScrollY())
}

// PointerMovedAt is PointerMoved with the scroll offset supplied by the
// caller. It is safe to call from any goroutine.
func (s *Simulator) PointerMovedAt(clientX, clientY, scrollY float64) {
	s.pointer.Set(Vec2{X: clientX, Y: clientY + scrollY})
}

// Pointer returns the page-space pointer and whether it has been seen.
func (s *Simulator) Pointer() (Vec2, bool) { return s.pointer.Position() }

// Particles returns the live particle set. Callers must not retain it across
// a Poll that regenerates.
func (s *Simulator) Particles() []Particle { return s.field.particles }

// Size returns the surface dimensions.
func (s *Simulator) Size() (w, h float64) { return s.field.width, s.field.height }

// Links returns the links found by the last Render.
func (s *Simulator) Links() []Link { return s.links }

// Stats returns a snapshot of counters.
func (s *Simulator) Stats() Stats {
	return Stats{
		Particles: len(s.field.particles),
		Links:     len(s.links),
		Width:     s.field.width,
		Height:    s.field.height,
		Ticks:     s.ticks,
		Regens:    s.regens,
	}
}
