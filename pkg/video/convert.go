// Package video holds the pure pixel conversions used by the converted render
// path and the remediation hints shown when the pipeline lacks a decoder.
package video

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"frame-bridge/pkg/playback"
)

// ErrLayout is returned when a frame buffer does not match its declared layout.
var ErrLayout = errors.New("frame buffer does not match its layout")

// ToRGBA converts a decoded frame into a new RGBA image of the same size.
func ToRGBA(f playback.Frame) (*image.RGBA, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLayout, err)
	}

	rect := image.Rect(0, 0, f.Layout.Width, f.Layout.Height)
	dst := image.NewRGBA(rect)

	switch f.Layout.Format {
	case playback.FormatI420:
		draw.Draw(dst, rect, i420Image(f), image.Point{}, draw.Src)
	case playback.FormatNV12:
		draw.Draw(dst, rect, nv12Image(f), image.Point{}, draw.Src)
	case playback.FormatRGBA:
		src, stride := f.Plane(0), f.Layout.Strides[0]
		for y := 0; y < f.Layout.Height; y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+f.Layout.Width*4], src[y*stride:])
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %s", ErrLayout, f.Layout.Format)
	}
	return dst, nil
}

func i420Image(f playback.Frame) *image.YCbCr {
	return &image.YCbCr{
		Y:              f.Plane(0),
		Cb:             f.Plane(1),
		Cr:             f.Plane(2),
		YStride:        f.Layout.Strides[0],
		CStride:        f.Layout.Strides[1],
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, f.Layout.Width, f.Layout.Height),
	}
}

// nv12Image splits the interleaved chroma plane so the frame can go through
// the planar YCbCr fast path.
func nv12Image(f playback.Frame) *image.YCbCr {
	img := image.NewYCbCr(image.Rect(0, 0, f.Layout.Width, f.Layout.Height), image.YCbCrSubsampleRatio420)

	luma, chroma := f.Plane(0), f.Plane(1)
	ys, cs := f.Layout.Strides[0], f.Layout.Strides[1]
	for y := 0; y < f.Layout.Height; y++ {
		copy(img.Y[y*img.YStride:y*img.YStride+f.Layout.Width], luma[y*ys:])
	}

	cw, ch := (f.Layout.Width+1)/2, (f.Layout.Height+1)/2
	for y := 0; y < ch; y++ {
		row := chroma[y*cs:]
		for x := 0; x < cw; x++ {
			img.Cb[y*img.CStride+x] = row[2*x]
			img.Cr[y*img.CStride+x] = row[2*x+1]
		}
	}
	return img
}
