package ui

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"
)

// RenderText renders text at the specified position with the given font and color
func RenderText(renderer *sdl.Renderer, text string, x, y int32, color sdl.Color, font *ttf.Font) error {
	if font == nil {
		return fmt.Errorf("font not available")
	}

	surface, err := font.RenderUTF8Blended(text, color)
	if err != nil {
		return err
	}
	defer surface.Free()

	texture, err := renderer.CreateTextureFromSurface(surface)
	if err != nil {
		return err
	}
	defer texture.Destroy()

	_, _, w, h, err := texture.Query()
	if err != nil {
		return err
	}

	dstRect := sdl.Rect{X: x, Y: y, W: w, H: h}
	return renderer.Copy(texture, nil, &dstRect)
}

// SplitLines breaks subtitle text into its non-blank lines.
func SplitLines(text string) []string {
	lines := lo.Map(strings.Split(text, "\n"), func(l string, _ int) string {
		return strings.TrimSpace(l)
	})
	return lo.Compact(lines)
}

// RenderSubtitle draws text centred on centerX with its last line ending at
// bottom, over a translucent backdrop.
func RenderSubtitle(renderer *sdl.Renderer, text string, centerX, bottom int32, font *ttf.Font) error {
	if font == nil {
		return fmt.Errorf("font not available")
	}

	lines := SplitLines(text)
	if len(lines) == 0 {
		return nil
	}

	lineHeight := int32(font.Height())
	top := bottom - lineHeight*int32(len(lines))

	var widest int32
	for _, line := range lines {
		w, _, err := font.SizeUTF8(line)
		if err != nil {
			return err
		}
		widest = max(widest, int32(w))
	}

	const pad = 12
	DrawBackdrop(renderer, centerX-widest/2-pad, top-pad/2, widest+2*pad, bottom-top+pad)

	white := sdl.Color{R: 255, G: 255, B: 255, A: 255}
	for i, line := range lines {
		w, _, _ := font.SizeUTF8(line)
		y := top + int32(i)*lineHeight
		if err := RenderText(renderer, line, centerX-int32(w)/2, y, white, font); err != nil {
			return err
		}
	}
	return nil
}
