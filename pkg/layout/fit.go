package layout

import (
	"fmt"
	"math"
	"strings"
)

// ContentFit decides how content is scaled into a bounding size.
type ContentFit int

const (
	// FitContain scales uniformly until the content fits inside the bounds.
	FitContain ContentFit = iota
	// FitCover scales uniformly until the content covers the bounds.
	FitCover
	// FitFill stretches the content to the bounds.
	FitFill
	// FitNone keeps the content at its natural size.
	FitNone
	// FitScaleDown behaves like FitContain when the content is larger than the bounds, else FitNone.
	FitScaleDown
)

var fitNames = map[ContentFit]string{
	FitContain:   "contain",
	FitCover:     "cover",
	FitFill:      "fill",
	FitNone:      "none",
	FitScaleDown: "scale-down",
}

// ContentFits lists every policy in cycling order.
var ContentFits = []ContentFit{FitContain, FitCover, FitFill, FitNone, FitScaleDown}

func (f ContentFit) String() string {
	if name, ok := fitNames[f]; ok {
		return name
	}
	return fmt.Sprintf("ContentFit(%d)", int(f))
}

// Next returns the policy after f in ContentFits.
func (f ContentFit) Next() ContentFit {
	for i, fit := range ContentFits {
		if fit == f {
			return ContentFits[(i+1)%len(ContentFits)]
		}
	}
	return FitContain
}

// ParseContentFit parses a policy name such as "contain" or "scale-down".
func ParseContentFit(s string) (ContentFit, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for fit, n := range fitNames {
		if n == name {
			return fit, nil
		}
	}
	return FitContain, fmt.Errorf("unknown content fit %q", s)
}

// Fit returns the size content takes once fitted into bounds.
// Empty content only has a meaningful size under FitFill.
func (f ContentFit) Fit(content, bounds Size) Size {
	if f == FitFill {
		return bounds
	}
	if content.Empty() {
		return Size{}
	}

	wRatio := bounds.Width / content.Width
	hRatio := bounds.Height / content.Height

	switch f {
	case FitCover:
		return scale(content, math.Max(wRatio, hRatio))
	case FitNone:
		return content
	case FitScaleDown:
		ratio := math.Min(wRatio, hRatio)
		if ratio < 1 {
			return scale(content, ratio)
		}
		return content
	default:
		return scale(content, math.Min(wRatio, hRatio))
	}
}

func scale(s Size, ratio float64) Size {
	return Size{Width: s.Width * ratio, Height: s.Height * ratio}
}
