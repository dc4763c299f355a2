// Package colormap renders normalized heat scores on the same blue-to-red ramp
// the raster preprocessing uses for the map overlays, so building markers and
// raster tiles read as one scale.
package colormap

import "fmt"

// RGBA maps a value normalized to [0,1] onto the heat ramp
// blue -> cyan -> green/yellow -> orange -> red. Values outside [0,1] clamp.
func RGBA(v float64) (r, g, b, a uint8) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	switch {
	case v < 0.25:
		t := v / 0.25
		return 0, uint8(255 * t), 255, 200
	case v < 0.5:
		t := (v - 0.25) / 0.25
		return uint8(255 * t), 255, uint8(255 * (1 - t)), 200
	case v < 0.75:
		t := (v - 0.5) / 0.25
		return 255, uint8(255 * (1 - t*0.35)), 0, 200
	default:
		t := (v - 0.75) / 0.25
		return 255, uint8(165 * (1 - t)), 0, 200
	}
}

// Hex returns the ramp color as "#rrggbb" for web clients.
func Hex(v float64) string {
	r, g, b, _ := RGBA(v)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
