package main

import (
	"image/color"
	"time"

	"particlefield/internal/particles"
	"particlefield/internal/settings"
)

// Window host tuning: page chrome geometry, input steps and overlay styling.
const (
	defaultTPS        = 60
	growStep          = 700.0
	keyScrollPages    = 0.9
	scrollEase        = 0.2
	scrollSnap        = 0.5
	revealThrottle    = 50 * time.Millisecond
	scrollTopRadius   = 22.0
	scrollTopMargin   = 30.0
	toastWidth        = 420.0
	toastHeight       = 44.0
	toastMargin       = 24.0
	autopilotSpeed    = 6.0
	autopilotMinSteer = 20
	autopilotMaxSteer = 70
	debugToggleKeyTip = "F3"
	navHint           = "1-9 sections  G more  Esc quit"
)

var (
	backgroundColor    = color.NRGBA{R: 10, G: 14, B: 39, A: 255}
	navColor           = color.NRGBA{R: 10, G: 14, B: 39, A: 120}
	navScrolledColor   = color.NRGBA{R: 10, G: 14, B: 39, A: 235}
	sectionColor       = color.NRGBA{R: 108, G: 99, B: 255, A: 18}
	sectionEdgeColor   = color.NRGBA{R: 108, G: 99, B: 255, A: 60}
	scrollTopColor     = color.NRGBA{R: 108, G: 99, B: 255, A: 220}
	toastInfoColor     = color.NRGBA{R: 108, G: 99, B: 255, A: 230}
	toastSuccessColor  = color.NRGBA{R: 78, G: 205, B: 196, A: 230}
	toastErrorColor    = color.NRGBA{R: 255, G: 107, B: 107, A: 230}
	scrollTopArrowClr  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	sectionHiddenColor = color.NRGBA{R: 108, G: 99, B: 255, A: 6}
	labelColor         = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	hintColor          = color.NRGBA{R: 180, G: 180, B: 210, A: 255}
)

// fieldConfig maps the configured field keys onto the simulator config.
// Unset values fall back to the simulator defaults.
func fieldConfig(fc settings.FieldConfig) particles.Config {
	cfg := particles.DefaultConfig()
	if fc.MobileBreakpoint > 0 {
		cfg.MobileBreakpoint = fc.MobileBreakpoint
	}
	if fc.MobileCount > 0 {
		cfg.MobileCount = fc.MobileCount
	}
	if fc.DesktopCount > 0 {
		cfg.DesktopCount = fc.DesktopCount
	}
	if fc.InteractionRadius > 0 {
		cfg.InteractionRadius = fc.InteractionRadius
	}
	if fc.LinkDistance > 0 {
		cfg.LinkDistance = fc.LinkDistance
	}
	if fc.RepelStrength > 0 {
		cfg.RepelStrength = fc.RepelStrength
	}
	if fc.MaxSpeed > 0 {
		cfg.MaxSpeed = fc.MaxSpeed
	}
	if fc.ResizeDebounce > 0 {
		cfg.ResizeDebounce = fc.ResizeDebounce
	}
	return cfg
}
