package layout

import "math"

// Placement is where and how large the video is painted for one frame.
type Placement struct {
	Scale Vector
	Size  Size
	Rect  Rect
}

// ResolveSize computes the size the widget reports to the host layout.
//
// The raw size comes from the limits and the length policies. A Shrink axis
// is further bounded by the fitted content so the widget never claims more
// room than the video needs on that axis; any other axis keeps the raw size.
func ResolveSize(natural Size, width, height Length, limits Limits, fit ContentFit) Size {
	raw := limits.Resolve(width, height, natural)
	full := fit.Fit(natural, raw)

	final := raw
	if width.Kind == LengthShrink {
		final.Width = math.Min(raw.Width, full.Width)
	}
	if height.Kind == LengthShrink {
		final.Height = math.Min(raw.Height, full.Height)
	}
	return final
}

// FitRect places the natural-size video inside the paint bounds.
//
// FitNone anchors at the bounds origin shifted by half the difference between
// the natural and fitted sizes. Every other policy centres the scaled image
// on the bounds centre.
func FitRect(natural Size, bounds Rect, fit ContentFit) Placement {
	if natural.Empty() {
		return Placement{Rect: NewRect(bounds.Origin(), Size{})}
	}

	fitted := fit.Fit(natural, bounds.Size())
	s := Vector{X: fitted.Width / natural.Width, Y: fitted.Height / natural.Height}
	size := Size{Width: natural.Width * s.X, Height: natural.Height * s.Y}

	var at Point
	if fit == FitNone {
		at = Point{
			X: bounds.X + (natural.Width-fitted.Width)/2,
			Y: bounds.Y + (natural.Height-fitted.Height)/2,
		}
	} else {
		c := bounds.Center()
		at = Point{X: c.X - size.Width/2, Y: c.Y - size.Height/2}
	}

	return Placement{Scale: s, Size: size, Rect: NewRect(at, size)}
}
