package page

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentSections(t *testing.T) {
	d := NewDocument(1280, 720, 2500, 1000)

	want := []Section{
		{Title: "Section 1", Top: 0, Height: 1000, Revealed: true},
		{Title: "Section 2", Top: 1000, Height: 1000},
		{Title: "Section 3", Top: 2000, Height: 500},
	}
	if diff := cmp.Diff(want, d.Sections()); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2500.0, d.ScrollHeight())
	assert.Equal(t, 1780.0, d.MaxScroll())
}

func TestScrollClamps(t *testing.T) {
	d := NewDocument(800, 600, 2000, 500)

	d.ScrollBy(-100)
	assert.Equal(t, 0.0, d.ScrollY())
	d.ScrollBy(5000)
	assert.Equal(t, 1400.0, d.ScrollY())

	d.SetViewport(800, 1000)
	assert.Equal(t, 1000.0, d.ScrollY(), "a taller viewport pulls the offset back")

	d.SetViewport(800, 3000)
	assert.Equal(t, 0.0, d.ScrollY())
	assert.Equal(t, 3000.0, d.ScrollHeight(), "scroll height never drops below the viewport")
}

func TestGrowExtendsScrollHeight(t *testing.T) {
	d := NewDocument(800, 600, 1200, 600)
	d.Grow(600)
	d.Grow(0)

	assert.Equal(t, 1800.0, d.ScrollHeight())
	require.Len(t, d.Sections(), 3)
	assert.Equal(t, 1200.0, d.Sections()[2].Top)
}

func TestChromeThresholds(t *testing.T) {
	d := NewDocument(800, 600, 5000, 500)

	assert.False(t, d.NavScrolled())
	assert.False(t, d.ScrollTopVisible())

	d.ScrollTo(50)
	assert.False(t, d.NavScrolled())
	d.ScrollTo(51)
	assert.True(t, d.NavScrolled())

	d.ScrollTo(500)
	assert.False(t, d.ScrollTopVisible())
	d.ScrollTo(501)
	assert.True(t, d.ScrollTopVisible())
}

func TestRevealBand(t *testing.T) {
	d := NewDocument(800, 1000, 5000, 500)

	assert.True(t, d.Revealed(850, 900), "top edge exactly at 85%")
	assert.False(t, d.Revealed(851, 900))
	assert.True(t, d.Revealed(0, 150), "bottom edge exactly at 15%")
	assert.False(t, d.Revealed(0, 149))

	d.ScrollTo(1000)
	assert.True(t, d.Revealed(1500, 1800))
	assert.False(t, d.Revealed(0, 500))

	d.RefreshReveal()
	var revealed []string
	for _, s := range d.Sections() {
		if s.Revealed {
			revealed = append(revealed, s.Title)
		}
	}
	assert.Equal(t, []string{"Section 3", "Section 4"}, revealed)
}

func TestAnchorOffset(t *testing.T) {
	d := NewDocument(800, 600, 3000, 1000)
	assert.Equal(t, 930.0, d.AnchorOffset(1000))
	assert.Equal(t, 0.0, d.AnchorOffset(20))
	assert.Equal(t, 2400.0, d.AnchorOffset(2900))
}

func TestToastAutoDismiss(t *testing.T) {
	toast := NewToast(0)
	t0 := time.Unix(100, 0)
	assert.False(t, toast.Visible(t0))

	toast.Show(ToastError, "Please correct the errors in the form", t0)
	assert.True(t, toast.Visible(t0.Add(4999*time.Millisecond)))
	assert.Equal(t, ToastError, toast.Kind())
	assert.Equal(t, "error", toast.Kind().String())
	assert.False(t, toast.Visible(t0.Add(5000*time.Millisecond)))

	toast.Show(ToastSuccess, "sent", t0.Add(6*time.Second))
	toast.Show(ToastInfo, "again", t0.Add(10*time.Second))
	assert.True(t, toast.Visible(t0.Add(14*time.Second)), "a newer message restarts the timer")
	assert.Equal(t, "again", toast.Text())
	toast.Dismiss()
	assert.False(t, toast.Visible(t0.Add(14*time.Second)))
}

func TestThrottle(t *testing.T) {
	th := NewThrottle(50 * time.Millisecond)
	t0 := time.Unix(0, 0)

	th.Request(t0)
	th.Request(t0.Add(40 * time.Millisecond))
	assert.False(t, th.Due(t0.Add(49*time.Millisecond)))
	assert.True(t, th.Due(t0.Add(50*time.Millisecond)), "later requests do not push the deadline")
	assert.False(t, th.Due(t0.Add(60*time.Millisecond)))
}

func TestCollapsedBreakpoint(t *testing.T) {
	assert.True(t, Collapsed(767))
	assert.False(t, Collapsed(768))
}

func TestNavMenuInlineLinks(t *testing.T) {
	d := NewDocument(1000, 600, 4200, 700)
	var m NavMenu

	layout := m.Layout(d)
	assert.False(t, layout.Collapsed)
	require.Len(t, layout.Links, 6)
	assert.Equal(t, Rect{X: 200, Y: 0, W: 104, H: NavHeight}, layout.Links[0].Rect)
	assert.Equal(t, "Section 6", layout.Links[5].Title)

	d.SetViewport(800, 600)
	assert.Len(t, m.Layout(d).Links, 5, "links that would overflow the bar are dropped")

	section, handled := m.Click(d, 310, 30)
	assert.True(t, handled)
	assert.Equal(t, 1, section)
	assert.Equal(t, 630.0, d.AnchorOffset(d.Sections()[section].Top))
}

func TestNavMenuToggle(t *testing.T) {
	d := NewDocument(500, 800, 4200, 700)
	var m NavMenu

	layout := m.Layout(d)
	require.True(t, layout.Collapsed)
	assert.Empty(t, layout.Links, "closed menu hides its links")
	hb := layout.Hamburger
	assert.Equal(t, Rect{X: 444, Y: 23, W: 32, H: 24}, hb)

	section, handled := m.Click(d, hb.X+4, hb.Y+4)
	assert.True(t, handled)
	assert.Equal(t, -1, section)
	assert.True(t, m.IsOpen())

	layout = m.Layout(d)
	require.Len(t, layout.Links, 6)
	assert.Equal(t, Rect{X: 0, Y: NavHeight, W: 500, H: 6 * 44}, layout.Menu)

	m.Click(d, hb.X+4, hb.Y+4)
	assert.False(t, m.IsOpen(), "the hamburger closes the menu again")
}

func TestNavMenuLinkClickCloses(t *testing.T) {
	d := NewDocument(500, 800, 4200, 700)
	var m NavMenu
	m.Toggle()

	section, handled := m.Click(d, 100, NavHeight+2*44+10)
	assert.True(t, handled)
	assert.Equal(t, 2, section)
	assert.False(t, m.IsOpen())
}

func TestNavMenuClosesOnOutsideClick(t *testing.T) {
	d := NewDocument(500, 800, 4200, 700)
	var m NavMenu
	m.Toggle()

	section, handled := m.Click(d, 250, 700)
	assert.False(t, handled, "the click still reaches the page")
	assert.Equal(t, -1, section)
	assert.False(t, m.IsOpen())

	m.Toggle()
	m.Click(d, 250, 20)
	assert.False(t, m.IsOpen(), "a click on the bar outside the hamburger closes it too")
}

func TestNavMenuResizeClosesWhenWide(t *testing.T) {
	var m NavMenu
	m.Toggle()
	m.Resize(600)
	assert.True(t, m.IsOpen())
	m.Resize(1024)
	assert.False(t, m.IsOpen())
}
