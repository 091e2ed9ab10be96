package ui

import "github.com/veandco/go-sdl2/sdl"

// backdropTop and backdropBottom shade subtitle and status boxes.
var (
	backdropTop    = [4]uint8{0, 0, 0, 96}
	backdropBottom = [4]uint8{0, 0, 0, 176}
)

// GradientColor interpolates between start and end at t in [0, 1].
func GradientColor(start, end [4]uint8, t float64) [4]uint8 {
	t = min(max(t, 0), 1)
	var out [4]uint8
	for i := range out {
		out[i] = uint8(float64(start[i])*(1-t) + float64(end[i])*t)
	}
	return out
}

// DrawGradientRect draws a vertical gradient rectangle with alpha blending.
func DrawGradientRect(renderer *sdl.Renderer, x, y, width, height int32, startColor, endColor [4]uint8) {
	if height <= 0 || width <= 0 {
		return
	}
	renderer.SetDrawBlendMode(sdl.BLENDMODE_BLEND)
	for i := int32(0); i < height; i++ {
		t := 0.0
		if height > 1 {
			t = float64(i) / float64(height-1)
		}
		c := GradientColor(startColor, endColor, t)
		renderer.SetDrawColor(c[0], c[1], c[2], c[3])
		renderer.DrawLine(x, y+i, x+width-1, y+i)
	}
}

// DrawBackdrop shades the box behind overlay text.
func DrawBackdrop(renderer *sdl.Renderer, x, y, width, height int32) {
	DrawGradientRect(renderer, x, y, width, height, backdropTop, backdropBottom)
}
