// Package page models the scrollable landing page the particle field sits
// behind: viewport geometry, scroll position and the chrome that reacts to it.
package page

import (
	"fmt"
	"math"
)

// Scroll thresholds and offsets used by the page chrome.
const (
	// NavScrollThreshold is how far the page must scroll before the nav bar
	// switches to its compact style.
	NavScrollThreshold = 50
	// ScrollTopThreshold is how far the page must scroll before the
	// scroll-to-top button appears.
	ScrollTopThreshold = 500
	// NavHeight is the fixed nav bar height subtracted from anchor targets.
	NavHeight = 70
	// revealTop and revealBottom bound the band of the viewport, as fractions
	// of its height, an element must overlap to be revealed.
	revealTop    = 0.85
	revealBottom = 0.15
)

// Section is a block of page content.
type Section struct {
	Title    string
	Top      float64
	Height   float64
	Revealed bool
}

// Bottom returns the page-space bottom edge.
func (s Section) Bottom() float64 { return s.Top + s.Height }

// Document tracks viewport size, content height and scroll offset. The zero
// value is an empty page with no viewport.
type Document struct {
	viewportW float64
	viewportH float64
	height    float64
	scrollY   float64
	sections  []Section
}

// NewDocument builds a page of the given content height split into sections
// of sectionHeight.
func NewDocument(viewportW, viewportH, height, sectionHeight float64) *Document {
	d := &Document{viewportW: viewportW, viewportH: viewportH}
	if sectionHeight <= 0 {
		sectionHeight = height
	}
	for d.height < height {
		h := math.Min(sectionHeight, height-d.height)
		d.appendSection(h)
	}
	d.RefreshReveal()
	return d
}

func (d *Document) appendSection(h float64) {
	d.sections = append(d.sections, Section{
		Title:  fmt.Sprintf("Section %d", len(d.sections)+1),
		Top:    d.height,
		Height: h,
	})
	d.height += h
}

// ViewportSize returns the visible area.
func (d *Document) ViewportSize() (w, h float64) { return d.viewportW, d.viewportH }

// ScrollHeight returns the full scrollable height; never less than the
// viewport.
func (d *Document) ScrollHeight() float64 { return math.Max(d.height, d.viewportH) }

// ScrollY returns the current scroll offset.
func (d *Document) ScrollY() float64 { return d.scrollY }

// MaxScroll returns the largest valid scroll offset.
func (d *Document) MaxScroll() float64 { return math.Max(0, d.height-d.viewportH) }

// SetViewport updates the viewport and re-clamps the scroll offset.
func (d *Document) SetViewport(w, h float64) {
	d.viewportW, d.viewportH = w, h
	d.ScrollTo(d.scrollY)
}

// ScrollTo moves to y, clamped to the valid range.
func (d *Document) ScrollTo(y float64) {
	d.scrollY = math.Max(0, math.Min(y, d.MaxScroll()))
}

// ScrollBy moves by dy, clamped to the valid range.
func (d *Document) ScrollBy(dy float64) { d.ScrollTo(d.scrollY + dy) }

// Grow appends a section of height h, as when content loads late.
func (d *Document) Grow(h float64) {
	if h <= 0 {
		return
	}
	d.appendSection(h)
}

// Sections returns the page sections.
func (d *Document) Sections() []Section { return d.sections }

// NavScrolled reports whether the nav bar should use its scrolled style.
func (d *Document) NavScrolled() bool { return d.scrollY > NavScrollThreshold }

// ScrollTopVisible reports whether the scroll-to-top button is shown.
func (d *Document) ScrollTopVisible() bool { return d.scrollY > ScrollTopThreshold }

// Revealed reports whether an element spanning [top, bottom] in page space
// overlaps the reveal band of the current viewport.
func (d *Document) Revealed(top, bottom float64) bool {
	rectTop := top - d.scrollY
	rectBottom := bottom - d.scrollY
	return rectTop <= d.viewportH*revealTop && rectBottom >= d.viewportH*revealBottom
}

// RefreshReveal recomputes the reveal state of every section. Sections leave
// the revealed state again when they scroll out of the band.
func (d *Document) RefreshReveal() {
	for i := range d.sections {
		s := &d.sections[i]
		s.Revealed = d.Revealed(s.Top, s.Bottom())
	}
}

// AnchorOffset returns the scroll target that brings a section top just below
// the fixed nav bar.
func (d *Document) AnchorOffset(sectionTop float64) float64 {
	return math.Max(0, math.Min(sectionTop-NavHeight, d.MaxScroll()))
}
