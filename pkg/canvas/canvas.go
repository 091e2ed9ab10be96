// Package canvas paints the player into an in-memory image with gg, for
// snapshots and headless hosts.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"frame-bridge/pkg/layout"
)

// Subtitle styling.
const (
	subtitleMargin  = 24.0
	subtitlePadding = 12.0
	lineSpacing     = 1.3
)

var (
	backdrop  = color.RGBA{0, 0, 0, 160}
	textColor = color.White
)

// Canvas is a fixed-size drawing surface.
type Canvas struct {
	dc *gg.Context
	bg color.Color
}

// New creates a canvas cleared to bg.
func New(width, height int, bg color.Color) *Canvas {
	c := &Canvas{dc: gg.NewContext(width, height), bg: bg}
	c.Clear()
	return c
}

// LoadFont sets the face used for text. Without one gg's built-in face is used.
func (c *Canvas) LoadFont(path string, points float64) error {
	if err := c.dc.LoadFontFace(path, points); err != nil {
		return fmt.Errorf("load font %s: %w", path, err)
	}
	return nil
}

// Bounds is the whole canvas as a layout rectangle.
func (c *Canvas) Bounds() layout.Rect {
	return layout.Rect{Width: float64(c.dc.Width()), Height: float64(c.dc.Height())}
}

// Clear fills the canvas with the background colour.
func (c *Canvas) Clear() {
	c.dc.SetColor(c.bg)
	c.dc.Clear()
}

// DrawImage scales img into bounds. Parts outside the canvas are clipped.
func (c *Canvas) DrawImage(img *image.RGBA, bounds layout.Rect) {
	dst, ok := c.dc.Image().(draw.Image)
	if !ok {
		return
	}
	dr := image.Rect(
		int(math.Round(bounds.X)),
		int(math.Round(bounds.Y)),
		int(math.Round(bounds.X+bounds.Width)),
		int(math.Round(bounds.Y+bounds.Height)),
	)
	if dr.Empty() {
		return
	}
	draw.CatmullRom.Scale(dst, dr, img, img.Bounds(), draw.Over, nil)
}

// DrawSubtitle centres text near the bottom edge over a rounded backdrop.
func (c *Canvas) DrawSubtitle(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	w, h := c.dc.MeasureMultilineString(text, lineSpacing)
	cx := float64(c.dc.Width()) / 2
	bottom := float64(c.dc.Height()) - subtitleMargin

	c.dc.SetColor(backdrop)
	c.dc.DrawRoundedRectangle(cx-w/2-subtitlePadding, bottom-h-subtitlePadding, w+2*subtitlePadding, h+2*subtitlePadding, 8)
	c.dc.Fill()

	c.dc.SetColor(textColor)
	c.dc.DrawStringWrapped(text, cx, bottom-h, 0.5, 0, w+1, lineSpacing, gg.AlignCenter)
}

// DrawStatus writes a short status line in the top-left corner.
func (c *Canvas) DrawStatus(text string) {
	if text == "" {
		return
	}
	c.dc.SetColor(textColor)
	c.dc.DrawStringAnchored(text, subtitlePadding, subtitlePadding, 0, 1)
}

// Image returns the painted image.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the canvas as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.dc.Image())
}

// SavePNG writes the canvas to path.
func (c *Canvas) SavePNG(path string) error {
	return c.dc.SavePNG(path)
}
