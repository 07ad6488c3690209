package termview

import (
	"context"
	"image/color"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"particlefield/internal/page"
	"particlefield/internal/particles"
)

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(cols, rows)
	return screen
}

func newLoop(t *testing.T, screen tcell.Screen) *terminalLoop {
	t.Helper()
	surf := NewSurface(screen, 8, 16)
	w, h := surf.ViewportSize()
	doc := page.NewDocument(w, h, 2000, 500)
	sim, err := particles.NewSimulator(particles.DefaultConfig(), doc,
		particles.WithRand(rand.New(rand.NewSource(3))))
	require.NoError(t, err)
	return &terminalLoop{surf: surf, sim: sim, doc: doc, opts: Options{}.withDefaults(), logger: Options{}.withDefaults().Logger}
}

func TestSurfaceMapsPageToCells(t *testing.T) {
	screen := newScreen(t, 20, 10)
	defer screen.Fini()
	s := NewSurface(screen, 8, 16)

	w, h := s.ViewportSize()
	assert.Equal(t, 160.0, w)
	assert.Equal(t, 160.0, h)

	s.Clear()
	s.FillCircle(3*8+2, 2*16+5, 1.5, color.NRGBA{R: 108, G: 99, B: 255, A: 200})
	mainc, _, _, _ := screen.GetContent(3, 2)
	assert.Equal(t, discRune, mainc)

	s.Clear()
	s.SetScroll(32)
	s.FillCircle(3*8+2, 2*16+5, 3, color.NRGBA{A: 255})
	mainc, _, _, _ = screen.GetContent(3, 0)
	assert.Equal(t, largeDiscRune, mainc)
}

func TestSurfaceIgnoresOffscreen(t *testing.T) {
	screen := newScreen(t, 10, 5)
	defer screen.Fini()
	s := NewSurface(screen, 8, 16)
	s.Clear()

	assert.NotPanics(t, func() {
		s.FillCircle(-50, -50, 2, color.NRGBA{A: 255})
		s.FillCircle(5000, 5000, 2, color.NRGBA{A: 255})
		s.StrokeLine(-100, -100, 5000, 5000, 1, color.NRGBA{A: 255})
		s.StrokeCircle(0, 0, 200, 2, color.NRGBA{A: 25})
	})
}

func TestStrokeLineKeepsDiscs(t *testing.T) {
	screen := newScreen(t, 20, 4)
	defer screen.Fini()
	s := NewSurface(screen, 8, 16)
	s.Clear()

	s.FillCircle(4, 8, 2, color.NRGBA{A: 255})
	s.FillCircle(19*8+4, 8, 2, color.NRGBA{A: 255})
	s.StrokeLine(4, 8, 19*8+4, 8, 0.5, color.NRGBA{A: 80})

	first, _, _, _ := screen.GetContent(0, 0)
	last, _, _, _ := screen.GetContent(19, 0)
	mid, _, _, _ := screen.GetContent(10, 0)
	assert.Equal(t, discRune, first)
	assert.Equal(t, discRune, last)
	assert.Equal(t, lineRune, mid)
}

func TestBlend(t *testing.T) {
	bg := color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	fg := color.NRGBA{R: 200, G: 100, B: 50, A: 255}

	assert.Equal(t, bg, blend(bg, fg, 0))
	assert.Equal(t, fg, blend(bg, fg, 1))
	assert.Equal(t, color.NRGBA{R: 100, G: 50, B: 25, A: 255}, blend(bg, fg, 0.5))
}

func TestDrawLineIsContinuous(t *testing.T) {
	var cells [][2]int
	drawLine(0, 0, 7, 3, func(x, y int) { cells = append(cells, [2]int{x, y}) })

	require.NotEmpty(t, cells)
	assert.Equal(t, [2]int{0, 0}, cells[0])
	assert.Equal(t, [2]int{7, 3}, cells[len(cells)-1])
	for i := 1; i < len(cells); i++ {
		dx := abs(cells[i][0] - cells[i-1][0])
		dy := abs(cells[i][1] - cells[i-1][1])
		assert.LessOrEqual(t, dx, 1)
		assert.LessOrEqual(t, dy, 1)
	}
}

func TestRingFootprint(t *testing.T) {
	fp := ringFootprint(200, 8, 16)
	require.GreaterOrEqual(t, len(fp), 8)
	for _, off := range fp {
		assert.InDelta(t, 200, math.Hypot(off.dx, off.dy), 1e-9)
	}
	again := ringFootprint(200, 8, 16)
	assert.Equal(t, len(fp), len(again))
	assert.Len(t, ringFootprint(1, 8, 16), 8)
}

func TestRingFootprintConcurrentSurfaces(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(r float64) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				fp := ringFootprint(r+float64(j%5), 8, 16)
				assert.GreaterOrEqual(t, len(fp), 8)
			}
		}(float64(100 + i))
	}
	wg.Wait()
}

func TestHandleMouseSetsPagePointer(t *testing.T) {
	screen := newScreen(t, 40, 20)
	defer screen.Fini()
	l := newLoop(t, screen)
	l.doc.ScrollTo(100)

	_, seen := l.sim.Pointer()
	require.False(t, seen)

	assert.True(t, l.handle(tcell.NewEventMouse(5, 3, tcell.ButtonNone, tcell.ModNone), time.Now()))
	p, seen := l.sim.Pointer()
	require.True(t, seen)
	assert.Equal(t, particles.Vec2{X: 5.5 * 8, Y: 3.5*16 + 100}, p)
}

func TestHandleWheelScrolls(t *testing.T) {
	screen := newScreen(t, 40, 20)
	defer screen.Fini()
	l := newLoop(t, screen)

	l.handle(tcell.NewEventMouse(1, 1, tcell.WheelDown, tcell.ModNone), time.Now())
	assert.Equal(t, 60.0, l.doc.ScrollY())
	l.handle(tcell.NewEventMouse(1, 1, tcell.WheelUp, tcell.ModNone), time.Now())
	assert.Equal(t, 0.0, l.doc.ScrollY())
}

func TestHandleGrowExtendsSurface(t *testing.T) {
	screen := newScreen(t, 40, 20)
	defer screen.Fini()
	l := newLoop(t, screen)
	_, before := l.sim.Size()

	l.handle(tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone), time.Now())
	_, after := l.sim.Size()
	assert.Greater(t, after, before)
}

func TestHandleResizeDebounces(t *testing.T) {
	screen := newScreen(t, 40, 20)
	defer screen.Fini()
	l := newLoop(t, screen)
	regens := l.sim.Stats().Regens
	now := time.Now()

	screen.SetSize(100, 30)
	l.handle(tcell.NewEventResize(100, 30), now)
	w, _ := l.doc.ViewportSize()
	assert.Equal(t, 800.0, w)

	assert.False(t, l.sim.Poll(now.Add(100*time.Millisecond)))
	assert.True(t, l.sim.Poll(now.Add(300*time.Millisecond)))
	assert.Equal(t, regens+1, l.sim.Stats().Regens)
	assert.Equal(t, particles.DefaultConfig().DesktopCount, l.sim.Stats().Particles)
}

func TestHandleQuitKeys(t *testing.T) {
	screen := newScreen(t, 10, 10)
	defer screen.Fini()
	l := newLoop(t, screen)

	assert.False(t, l.handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), time.Now()))
	assert.False(t, l.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), time.Now()))
	assert.False(t, l.handle(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone), time.Now()))
	assert.True(t, l.handle(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), time.Now()))
}

func runLoop(t *testing.T, ctx context.Context, screen tcell.Screen) <-chan error {
	t.Helper()
	w, h := 40.0*8, 20.0*16
	doc := page.NewDocument(w, h, 2000, 500)
	sim, err := particles.NewSimulator(particles.DefaultConfig(), doc,
		particles.WithRand(rand.New(rand.NewSource(5))))
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() {
		errc <- Run(ctx, screen, sim, doc, Options{FPS: 120, CellW: 8, CellH: 16})
	}()
	return errc
}

func TestRunStopsOnQuitKey(t *testing.T) {
	screen := newScreen(t, 40, 20)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	errc := runLoop(t, context.Background(), screen)
	time.Sleep(50 * time.Millisecond)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("terminal loop did not stop on quit key")
	}
	screen.Fini()
}

func TestRunStopsOnCancel(t *testing.T) {
	screen := newScreen(t, 40, 20)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	ctx, cancel := context.WithCancel(context.Background())

	errc := runLoop(t, ctx, screen)
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("terminal loop did not stop on cancel")
	}
	screen.Fini()
}
