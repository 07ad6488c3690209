package termview

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"particlefield/internal/observability"
	"particlefield/internal/page"
	"particlefield/internal/particles"
)

// Options tune the terminal loop.
type Options struct {
	FPS        int
	CellW      float64
	CellH      float64
	ScrollStep float64
	GrowStep   float64
	Logger     *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.ScrollStep <= 0 {
		o.ScrollStep = 60
	}
	if o.GrowStep <= 0 {
		o.GrowStep = 700
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Run drives sim on screen until ctx is done or the user quits. The screen
// must already be initialized; Run does not finalize it.
func Run(ctx context.Context, screen tcell.Screen, sim *particles.Simulator, doc *page.Document, opts Options) error {
	opts = opts.withDefaults()
	logger := opts.Logger.Named("termview")
	surf := NewSurface(screen, opts.CellW, opts.CellH)
	screen.EnableMouse()
	doc.SetViewport(surf.ViewportSize())

	events := make(chan tcell.Event, 64)
	stop := make(chan struct{})
	done := make(chan struct{})
	go pollEvents(screen, events, stop, done)
	defer func() {
		close(stop)
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
		<-done
	}()

	ticker := time.NewTicker(time.Second / time.Duration(opts.FPS))
	defer ticker.Stop()

	loop := &terminalLoop{surf: surf, sim: sim, doc: doc, opts: opts, logger: logger}
	logger.Info("terminal loop started", zap.Int("fps", opts.FPS))
	for {
		select {
		case <-ctx.Done():
			logger.Info("terminal loop cancelled")
			return nil
		case ev := <-events:
			if !loop.handle(ev, time.Now()) {
				logger.Info("terminal loop quit")
				return nil
			}
		case now := <-ticker.C:
			loop.frame(screen, now)
		}
	}
}

func pollEvents(screen tcell.Screen, events chan<- tcell.Event, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-stop:
			return
		}
	}
}

type terminalLoop struct {
	surf   *Surface
	sim    *particles.Simulator
	doc    *page.Document
	opts   Options
	logger *zap.Logger
}

// handle applies one event and reports whether the loop should continue.
func (l *terminalLoop) handle(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyPgDn:
			l.scroll(l.opts.ScrollStep * 5)
		case tcell.KeyPgUp:
			l.scroll(-l.opts.ScrollStep * 5)
		case tcell.KeyHome:
			l.scroll(-l.doc.ScrollY())
		case tcell.KeyRune:
			if ev.Modifiers()&tcell.ModCtrl != 0 && (ev.Rune() == 'c' || ev.Rune() == 'C') {
				return false
			}
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case 'g', 'G':
				l.doc.Grow(l.opts.GrowStep)
				l.sim.Scroll()
			case 'r', 'R':
				l.sim.Resize(now)
			case 'j':
				l.scroll(l.opts.ScrollStep)
			case 'k':
				l.scroll(-l.opts.ScrollStep)
			}
		}
	case *tcell.EventMouse:
		col, row := ev.Position()
		switch btn := ev.Buttons(); {
		case btn&tcell.WheelDown != 0:
			l.scroll(l.opts.ScrollStep)
		case btn&tcell.WheelUp != 0:
			l.scroll(-l.opts.ScrollStep)
		}
		l.sim.PointerMoved((float64(col)+0.5)*l.surf.cellW, (float64(row)+0.5)*l.surf.cellH)
	case *tcell.EventResize:
		l.surf.cols, l.surf.rows = ev.Size()
		l.doc.SetViewport(l.surf.ViewportSize())
		l.sim.Resize(now)
	}
	return true
}

func (l *terminalLoop) scroll(dy float64) {
	l.doc.ScrollBy(dy)
	l.sim.Scroll()
}

func (l *terminalLoop) frame(screen tcell.Screen, now time.Time) {
	defer observability.Recover(l.logger, "terminal frame", nil)
	if l.sim.Poll(now) {
		st := l.sim.Stats()
		l.logger.Debug("particle field regenerated", zap.Int("particles", st.Particles))
	}
	l.surf.SetScroll(l.doc.ScrollY())
	l.sim.Tick(l.surf)
	screen.Show()
}
