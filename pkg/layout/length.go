package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// LengthKind selects how one axis of the widget is sized.
type LengthKind int

const (
	// LengthShrink takes the intrinsic size of the content.
	LengthShrink LengthKind = iota
	// LengthFill takes all the space the parent offers.
	LengthFill
	// LengthFixed takes an exact number of pixels.
	LengthFixed
)

// Length is a sizing policy for one axis.
type Length struct {
	Kind  LengthKind
	Value float64
}

// Shrink sizes the axis to the content.
func Shrink() Length { return Length{Kind: LengthShrink} }

// Fill sizes the axis to the available space.
func Fill() Length { return Length{Kind: LengthFill} }

// Fixed sizes the axis to v pixels.
func Fixed(v float64) Length { return Length{Kind: LengthFixed, Value: v} }

// ParseLength accepts "fill", "shrink" or a pixel count.
func ParseLength(s string) (Length, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fill":
		return Fill(), nil
	case "shrink", "":
		return Shrink(), nil
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return Length{}, fmt.Errorf("invalid length %q: want fill, shrink or a pixel count", s)
	}
	return Fixed(v), nil
}

func (l Length) String() string {
	switch l.Kind {
	case LengthFill:
		return "fill"
	case LengthFixed:
		return strconv.FormatFloat(l.Value, 'f', -1, 64)
	default:
		return "shrink"
	}
}

// Limits bounds the size a widget may take.
type Limits struct {
	Min, Max Size
}

// NewLimits returns limits between min and max.
func NewLimits(min, max Size) Limits {
	return Limits{Min: min, Max: max}
}

// Resolve picks a size per axis: Fill takes Max, Fixed and Shrink are
// clamped into [Min, Max], Shrink starting from the intrinsic size.
func (l Limits) Resolve(width, height Length, intrinsic Size) Size {
	return Size{
		Width:  resolveAxis(width, intrinsic.Width, l.Min.Width, l.Max.Width),
		Height: resolveAxis(height, intrinsic.Height, l.Min.Height, l.Max.Height),
	}
}

func resolveAxis(length Length, intrinsic, min, max float64) float64 {
	switch length.Kind {
	case LengthFill:
		return max
	case LengthFixed:
		return lo.Clamp(length.Value, min, max)
	default:
		return lo.Clamp(intrinsic, min, max)
	}
}
