// Package style holds chart styling: built-in defaults matching the
// campaign report charts, optionally overridden by a fuzzplot.toml manifest.
package style

import (
	"fmt"
	"image/color"
	"os"

	"github.com/BurntSushi/toml"
)

// Chart holds figure-level styling knobs.
type Chart struct {
	FontSize float64 `toml:"font_size"`
	Aspect   float64 `toml:"aspect"`
	WidthIn  float64 `toml:"width_in"`
}

// Series names and colors one plotted run.
type Series struct {
	Label string `toml:"label"`
	Color string `toml:"color"`
}

// Manifest is the full chart style configuration.
type Manifest struct {
	Chart    Chart  `toml:"chart"`
	Subject  Series `toml:"subject"`
	Nautilus Series `toml:"nautilus"`
	AFL      Series `toml:"afl"`

	// AFLWindowMins clamps the AFL coverage series to its first N minutes.
	AFLWindowMins float64 `toml:"afl_window_mins"`
}

// Default returns the built-in styling: 16pt labels and ticks, golden-ratio
// aspect, and the report's fixed series colors.
func Default() Manifest {
	return Manifest{
		Chart: Chart{
			FontSize: 16,
			Aspect:   0.618,
			WidthIn:  8,
		},
		Subject:       Series{Label: "MAGGOT", Color: "#ff0000"},
		Nautilus:      Series{Label: "Nautilus", Color: "#008000"},
		AFL:           Series{Label: "AFL", Color: "#ffff00"},
		AFLWindowMins: 693,
	}
}

// Load decodes a manifest over the defaults. Unknown keys are ignored.
func Load(path string) (Manifest, error) {
	m := Default()
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return m, nil
}

// LoadIfExists loads path when it exists, otherwise returns the defaults.
func LoadIfExists(path string) (Manifest, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// ParseColor parses a #rrggbb hex color.
func ParseColor(s string) (color.RGBA, error) {
	var c color.RGBA
	c.A = 0xff
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return c, nil
}
