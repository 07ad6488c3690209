package page

// Nav bar geometry, in viewport units.
const (
	// MenuBreakpoint is the viewport width below which the nav links
	// collapse behind a hamburger button.
	MenuBreakpoint = 768

	navLinksLeft   = 200
	navLinkWidth   = 104
	navMargin      = 24
	hamburgerW     = 32
	hamburgerH     = 24
	menuItemHeight = 44
)

// Rect is an axis-aligned box in viewport space.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) falls inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// NavLink is a clickable nav entry pointing at a section.
type NavLink struct {
	Section int
	Title   string
	Rect    Rect
}

// NavLayout is where the nav chrome sits for the current viewport.
type NavLayout struct {
	Collapsed bool
	// Hamburger is only meaningful when Collapsed.
	Hamburger Rect
	// Menu bounds the open dropdown; empty otherwise.
	Menu  Rect
	Links []NavLink
}

// Collapsed reports whether a viewport of width w shows the hamburger
// instead of inline links.
func Collapsed(w float64) bool { return w < MenuBreakpoint }

// NavMenu is the open/closed state of the mobile nav dropdown. The zero
// value is closed.
type NavMenu struct {
	open bool
}

// IsOpen reports whether the dropdown is showing.
func (m *NavMenu) IsOpen() bool { return m.open }

// Toggle flips the dropdown.
func (m *NavMenu) Toggle() { m.open = !m.open }

// Close hides the dropdown.
func (m *NavMenu) Close() { m.open = false }

// Layout places the nav links for d's viewport. Wide viewports get the links
// inline in the bar, as many as fit. Narrow ones get the hamburger, plus a
// full-width dropdown below the bar while the menu is open.
func (m *NavMenu) Layout(d *Document) NavLayout {
	w, h := d.ViewportSize()
	sections := d.Sections()

	if !Collapsed(w) {
		var links []NavLink
		x := float64(navLinksLeft)
		for i, s := range sections {
			if x+navLinkWidth > w-navMargin {
				break
			}
			links = append(links, NavLink{Section: i, Title: s.Title, Rect: Rect{X: x, Y: 0, W: navLinkWidth, H: NavHeight}})
			x += navLinkWidth
		}
		return NavLayout{Links: links}
	}

	layout := NavLayout{
		Collapsed: true,
		Hamburger: Rect{X: w - navMargin - hamburgerW, Y: (NavHeight - hamburgerH) / 2, W: hamburgerW, H: hamburgerH},
	}
	if !m.open {
		return layout
	}
	y := float64(NavHeight)
	for i, s := range sections {
		if y+menuItemHeight > h {
			break
		}
		layout.Links = append(layout.Links, NavLink{Section: i, Title: s.Title, Rect: Rect{X: 0, Y: y, W: w, H: menuItemHeight}})
		y += menuItemHeight
	}
	layout.Menu = Rect{X: 0, Y: NavHeight, W: w, H: y - NavHeight}
	return layout
}

// Click routes a viewport-space click through the nav. It returns the index
// of the section whose link was hit, or -1, and whether the nav consumed the
// click. Link clicks close the menu, as does any click outside the open
// dropdown and hamburger; that outside click is not consumed.
func (m *NavMenu) Click(d *Document, x, y float64) (section int, handled bool) {
	layout := m.Layout(d)
	if layout.Collapsed && layout.Hamburger.Contains(x, y) {
		m.Toggle()
		return -1, true
	}
	for _, l := range layout.Links {
		if l.Rect.Contains(x, y) {
			m.Close()
			return l.Section, true
		}
	}
	if m.open && !layout.Menu.Contains(x, y) {
		m.Close()
	}
	return -1, false
}

// Resize closes the dropdown once the viewport is wide enough to show the
// links inline again.
func (m *NavMenu) Resize(w float64) {
	if !Collapsed(w) {
		m.Close()
	}
}
