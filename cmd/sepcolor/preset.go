package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// preset holds effect parameters loaded from a TOML file, so a set of
// tuned values can be reapplied across images. Any field present in the
// file overrides the corresponding command-line flag.
type preset struct {
	Mode   string  `toml:"mode"`   // "line" or "circle"
	Anchor []int   `toml:"anchor"` // [x, y]
	Angle  float64 `toml:"angle"`  // degrees
	Radius float64 `toml:"radius"` // pixels
	Color  string  `toml:"color"`  // "#rrggbb"
}

// loadPreset reads and validates a preset file.
func loadPreset(path string) (*preset, error) {
	var p preset
	meta, err := toml.DecodeFile(path, &p)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("preset %s: unknown key %q", path, undec[0].String())
	}
	if len(p.Anchor) != 0 && len(p.Anchor) != 2 {
		return nil, fmt.Errorf("preset %s: anchor must be [x, y]", path)
	}
	switch p.Mode {
	case "", "line", "circle":
	default:
		return nil, fmt.Errorf("preset %s: unknown mode %q", path, p.Mode)
	}
	return &p, nil
}
