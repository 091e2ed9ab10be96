package sdlhost

import (
	"fmt"
	"image"
	"math"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"frame-bridge/pkg/layout"
	"frame-bridge/pkg/log"
	"frame-bridge/pkg/playback"
)

// ToRect rounds a layout rectangle onto the pixel grid.
func ToRect(r layout.Rect) sdl.Rect {
	x0, y0 := math.Round(r.X), math.Round(r.Y)
	x1, y1 := math.Round(r.X+r.Width), math.Round(r.Y+r.Height)
	return sdl.Rect{X: int32(x0), Y: int32(y0), W: int32(x1 - x0), H: int32(y1 - y0)}
}

func pixelFormat(f playback.PixelFormat) uint32 {
	switch f {
	case playback.FormatNV12:
		return uint32(sdl.PIXELFORMAT_NV12)
	case playback.FormatRGBA:
		return uint32(sdl.PIXELFORMAT_RGBA32)
	default:
		return uint32(sdl.PIXELFORMAT_IYUV)
	}
}

// copyRows copies rows of rowBytes from a strided source into a pitched
// destination, stopping at whichever buffer runs out first.
func copyRows(dst []byte, dstPitch int, src []byte, srcStride, rowBytes, rows int) {
	for y := 0; y < rows; y++ {
		s, d := y*srcStride, y*dstPitch
		if s+rowBytes > len(src) || d+rowBytes > len(dst) {
			return
		}
		copy(dst[d:d+rowBytes], src[s:s+rowBytes])
	}
}

// lockedCopy writes a packed or semi-planar frame into a locked texture.
func lockedCopy(dst []byte, pitch int, f playback.Frame) {
	l := f.Layout
	switch l.Format {
	case playback.FormatNV12:
		copyRows(dst, pitch, f.Plane(0), l.Strides[0], l.Width, l.Height)
		if uv := pitch * l.Height; uv < len(dst) {
			copyRows(dst[uv:], pitch, f.Plane(1), l.Strides[1], (l.Width+1)/2*2, (l.Height+1)/2)
		}
	default:
		copyRows(dst, pitch, f.Data, l.Strides[0], l.Width*4, l.Height)
	}
}

// FrameTexture uploads decoded planes into a streaming texture of the
// matching format and presents it.
type FrameTexture struct {
	renderer *sdl.Renderer
	texture  *sdl.Texture
	layout   playback.PixelLayout
	log      *logrus.Entry
}

// NewFrameTexture creates a renderer for the reference path.
func NewFrameTexture(renderer *sdl.Renderer) *FrameTexture {
	return &FrameTexture{renderer: renderer, log: log.For("sdlhost")}
}

// DrawFrame uploads a claimed frame, then presents the texture in bounds.
func (t *FrameTexture) DrawFrame(bounds layout.Rect, frame mo.Option[playback.FrameView]) {
	if view, ok := frame.Get(); ok {
		if err := t.upload(view.Frame); err != nil {
			t.log.Warnf("FrameTexture: dropping frame %d: %v", view.Seq, err)
		}
	}
	if t.texture == nil {
		return
	}

	dst := ToRect(bounds)
	if err := t.renderer.Copy(t.texture, nil, &dst); err != nil {
		t.log.Debugf("FrameTexture: copy failed: %v", err)
	}
}

func (t *FrameTexture) upload(f playback.Frame) error {
	if !f.Complete() {
		return fmt.Errorf("frame has %d bytes, layout needs %d", len(f.Data), f.Layout.Size)
	}

	l := f.Layout
	if t.texture == nil || t.layout.Format != l.Format || t.layout.Width != l.Width || t.layout.Height != l.Height {
		if t.texture != nil {
			t.texture.Destroy()
			t.texture = nil
		}
		tex, err := t.renderer.CreateTexture(pixelFormat(l.Format), sdl.TEXTUREACCESS_STREAMING, int32(l.Width), int32(l.Height))
		if err != nil {
			return fmt.Errorf("failed to create texture: %v", err)
		}
		t.texture = tex
		t.layout = l
	}

	if l.Format == playback.FormatI420 {
		return t.texture.UpdateYUV(nil,
			f.Plane(0), l.Strides[0],
			f.Plane(1), l.Strides[1],
			f.Plane(2), l.Strides[2],
		)
	}

	pixels, pitch, err := t.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("failed to lock texture: %v", err)
	}
	lockedCopy(pixels, pitch, f)
	t.texture.Unlock()
	return nil
}

// Destroy releases the texture.
func (t *FrameTexture) Destroy() {
	if t.texture != nil {
		t.texture.Destroy()
		t.texture = nil
	}
}

// ImageTexture presents converted RGBA images, uploading each image once.
type ImageTexture struct {
	renderer *sdl.Renderer
	texture  *sdl.Texture
	uploaded *image.RGBA
	size     image.Point
	log      *logrus.Entry
}

// NewImageTexture creates a renderer for the converted path.
func NewImageTexture(renderer *sdl.Renderer) *ImageTexture {
	return &ImageTexture{renderer: renderer, log: log.For("sdlhost")}
}

// DrawImage uploads img if it changed, then presents it in bounds.
func (t *ImageTexture) DrawImage(img *image.RGBA, bounds layout.Rect) {
	if img != t.uploaded {
		if err := t.upload(img); err != nil {
			t.log.Warnf("ImageTexture: upload failed: %v", err)
			return
		}
	}

	dst := ToRect(bounds)
	if err := t.renderer.Copy(t.texture, nil, &dst); err != nil {
		t.log.Debugf("ImageTexture: copy failed: %v", err)
	}
}

func (t *ImageTexture) upload(img *image.RGBA) error {
	size := img.Bounds().Size()
	if t.texture == nil || size != t.size {
		if t.texture != nil {
			t.texture.Destroy()
			t.texture = nil
		}
		tex, err := t.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGBA32), sdl.TEXTUREACCESS_STREAMING, int32(size.X), int32(size.Y))
		if err != nil {
			return fmt.Errorf("failed to create texture: %v", err)
		}
		t.texture = tex
		t.size = size
	}

	pixels, pitch, err := t.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("failed to lock texture: %v", err)
	}
	copyRows(pixels, pitch, img.Pix, img.Stride, size.X*4, size.Y)
	t.texture.Unlock()

	t.uploaded = img
	return nil
}

// Destroy releases the texture.
func (t *ImageTexture) Destroy() {
	if t.texture != nil {
		t.texture.Destroy()
		t.texture = nil
	}
}
