package videoplayer

import "frame-bridge/pkg/layout"

// Layout returns the size the widget takes inside limits.
func (v *VideoPlayer) Layout(limits layout.Limits) layout.Size {
	return layout.ResolveSize(v.natural(), v.width, v.height, limits, v.fit)
}

// Placement returns where the video is painted inside bounds.
func (v *VideoPlayer) Placement(bounds layout.Rect) layout.Placement {
	return layout.FitRect(v.natural(), bounds, v.fit)
}

func (v *VideoPlayer) natural() layout.Size {
	w, h := v.session.State().NaturalSize()
	return layout.Size{Width: float64(w), Height: float64(h)}
}
