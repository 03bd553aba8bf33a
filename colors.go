package gh2png

import (
	_ "embed"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTagColor is used for labels missing from the colour table.
const DefaultTagColor = "#6B7280"

//go:embed colors.yaml
var colorsYAML []byte

// Technology describes a known badge label.
type Technology struct {
	Name  string `json:"name" yaml:"-"`
	Icon  string `json:"icon" yaml:"icon"`
	Color string `json:"color" yaml:"color"`
}

type colorTable struct {
	Technologies map[string]Technology `yaml:"technologies"`
	Languages    map[string]string     `yaml:"languages"`
}

// Parsed once; never written after init.
var techTable = mustLoadColorTable(colorsYAML)

func mustLoadColorTable(b []byte) colorTable {
	var t colorTable
	if err := yaml.Unmarshal(b, &t); err != nil {
		panic(fmt.Sprintf("gh2png: colour table: %v", err))
	}
	for name, tech := range t.Technologies {
		if _, err := ParseHexColor(tech.Color); err != nil {
			panic(fmt.Sprintf("gh2png: colour table entry %q: %v", name, err))
		}
		tech.Name = name
		t.Technologies[name] = tech
	}
	return t
}

// TagColor looks up a label's hex colour by exact match.
func TagColor(label string) string {
	if t, ok := techTable.Technologies[label]; ok {
		return t.Color
	}
	return DefaultTagColor
}

// LookupTechnology returns the table entry for label, if any.
func LookupTechnology(label string) (Technology, bool) {
	t, ok := techTable.Technologies[label]
	return t, ok
}

// TechnologyForLanguage maps an upstream language name (e.g. "Shell") to its
// badge entry (e.g. "Bash"). Unmapped languages report false.
func TechnologyForLanguage(lang string) (Technology, bool) {
	label, ok := techTable.Languages[lang]
	if !ok {
		return Technology{}, false
	}
	return LookupTechnology(label)
}

// ParseHexColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA".
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func mustHex(s string) color.RGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// withAlpha returns c at the given opacity composited over bg.
func withAlpha(c color.RGBA, alpha uint8, bg color.RGBA) color.RGBA {
	mix := func(fg, b uint8) uint8 {
		return uint8((uint32(fg)*uint32(alpha) + uint32(b)*(255-uint32(alpha)) + 127) / 255)
	}
	return color.RGBA{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B), A: 0xFF}
}
