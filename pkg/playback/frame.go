package playback

import (
	"fmt"
	"time"
)

// PixelFormat is the memory layout of a decoded frame.
type PixelFormat int

const (
	FormatI420 PixelFormat = iota
	FormatNV12
	FormatRGBA
)

func (f PixelFormat) String() string {
	switch f {
	case FormatI420:
		return "I420"
	case FormatNV12:
		return "NV12"
	case FormatRGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// ParsePixelFormat maps a caps format string onto a PixelFormat.
func ParsePixelFormat(s string) (PixelFormat, error) {
	switch s {
	case "I420":
		return FormatI420, nil
	case "NV12":
		return FormatNV12, nil
	case "RGBA":
		return FormatRGBA, nil
	default:
		return 0, fmt.Errorf("unsupported pixel format %q", s)
	}
}

// PixelLayout describes where each plane lives inside a frame buffer.
type PixelLayout struct {
	Format  PixelFormat
	Width   int
	Height  int
	Strides [3]int
	Offsets [3]int
	Size    int
}

func roundUp(v, n int) int {
	return (v + n - 1) / n * n
}

// I420Layout returns the default GStreamer layout for planar 4:2:0 frames:
// rows padded to 4 bytes, chroma planes at half resolution.
func I420Layout(width, height int) PixelLayout {
	h := roundUp(height, 2)
	y := roundUp(width, 4)
	c := roundUp(roundUp(width, 2)/2, 4)

	l := PixelLayout{Format: FormatI420, Width: width, Height: height}
	l.Strides = [3]int{y, c, c}
	l.Offsets[1] = y * h
	l.Offsets[2] = l.Offsets[1] + c*h/2
	l.Size = l.Offsets[2] + c*h/2
	return l
}

// NV12Layout returns the default GStreamer layout for semi-planar 4:2:0 frames.
func NV12Layout(width, height int) PixelLayout {
	h := roundUp(height, 2)
	y := roundUp(width, 4)

	l := PixelLayout{Format: FormatNV12, Width: width, Height: height}
	l.Strides = [3]int{y, y, 0}
	l.Offsets[1] = y * h
	l.Size = l.Offsets[1] + y*h/2
	return l
}

// RGBALayout returns a packed 8-bit RGBA layout.
func RGBALayout(width, height int) PixelLayout {
	return PixelLayout{
		Format:  FormatRGBA,
		Width:   width,
		Height:  height,
		Strides: [3]int{width * 4},
		Size:    width * 4 * height,
	}
}

// LayoutFor returns the default layout for format.
func LayoutFor(format PixelFormat, width, height int) PixelLayout {
	switch format {
	case FormatNV12:
		return NV12Layout(width, height)
	case FormatRGBA:
		return RGBALayout(width, height)
	default:
		return I420Layout(width, height)
	}
}

// Planes returns the number of planes the format uses.
func (l PixelLayout) Planes() int {
	switch l.Format {
	case FormatI420:
		return 3
	case FormatNV12:
		return 2
	default:
		return 1
	}
}

// Frame is one decoded picture.
type Frame struct {
	Layout PixelLayout
	Data   []byte
	PTS    time.Duration
}

// Plane returns the bytes of plane i, clipped to the buffer.
func (f Frame) Plane(i int) []byte {
	if i < 0 || i >= f.Layout.Planes() {
		return nil
	}
	start := f.Layout.Offsets[i]
	end := f.Layout.Size
	if i+1 < f.Layout.Planes() {
		end = f.Layout.Offsets[i+1]
	}
	end = min(end, len(f.Data))
	if start >= end {
		return nil
	}
	return f.Data[start:end]
}

// rowBytes is the number of meaningful bytes in one row of plane i.
func (l PixelLayout) rowBytes(i int) int {
	switch {
	case l.Format == FormatRGBA:
		return l.Width * 4
	case i == 0:
		return l.Width
	case l.Format == FormatNV12:
		return (l.Width + 1) / 2 * 2
	default:
		return (l.Width + 1) / 2
	}
}

// planeRows is the number of rows in plane i.
func (l PixelLayout) planeRows(i int) int {
	if i == 0 || l.Format == FormatRGBA {
		return l.Height
	}
	return (l.Height + 1) / 2
}

// Validate checks that every row of every plane lies inside the buffer.
func (f Frame) Validate() error {
	l := f.Layout
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("empty %s frame %dx%d", l.Format, l.Width, l.Height)
	}
	if len(f.Data) < l.Size {
		return fmt.Errorf("%s %dx%d needs %d bytes, got %d", l.Format, l.Width, l.Height, l.Size, len(f.Data))
	}

	for i := 0; i < l.Planes(); i++ {
		row, rows := l.rowBytes(i), l.planeRows(i)
		if l.Offsets[i] < 0 || l.Strides[i] < row {
			return fmt.Errorf("%s plane %d: offset %d, stride %d for rows of %d bytes",
				l.Format, i, l.Offsets[i], l.Strides[i], row)
		}
		have := len(f.Plane(i))
		if have < row || (rows > 1 && l.Strides[i] > (have-row)/(rows-1)) {
			return fmt.Errorf("%s plane %d: %d rows of stride %d do not fit in %d bytes",
				l.Format, i, rows, l.Strides[i], have)
		}
	}
	return nil
}

// Complete reports whether the buffer holds every plane of its layout.
func (f Frame) Complete() bool {
	return f.Validate() == nil
}

// FrameView is a frame claimed by the UI side.
// Data is only valid until the next claim on the same State.
type FrameView struct {
	Frame
	Seq       uint64
	ClaimedAt time.Time
}
