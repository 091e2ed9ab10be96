package ui

import (
	"fmt"
	"os"

	"github.com/veandco/go-sdl2/ttf"
)

// FontPaths are the system fonts tried in order, on Linux then macOS.
var FontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	"/System/Library/Fonts/Helvetica.ttc",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
}

// Font sizes in points.
const (
	SubtitleSize = 32
	StatusSize   = 18
)

// FindFont returns the first path in candidates that exists.
func FindFont(candidates []string) (string, error) {
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("no usable font among %d candidates", len(candidates))
}

// Fonts holds the faces the player overlays draw with.
type Fonts struct {
	Subtitle *ttf.Font
	Status   *ttf.Font
}

// LoadFonts initialises TTF and opens the first available system font.
func LoadFonts() (*Fonts, error) {
	if err := ttf.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize TTF: %v", err)
	}

	path, err := FindFont(FontPaths)
	if err != nil {
		return nil, err
	}

	fonts := &Fonts{}
	if fonts.Subtitle, err = ttf.OpenFont(path, SubtitleSize); err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if fonts.Status, err = ttf.OpenFont(path, StatusSize); err != nil {
		fonts.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return fonts, nil
}

// Close cleans up font resources
func (f *Fonts) Close() {
	if f.Subtitle != nil {
		f.Subtitle.Close()
	}
	if f.Status != nil {
		f.Status.Close()
	}
}
