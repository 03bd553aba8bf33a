package gh2png

import (
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// ---- Font loading ----

// Fonts are created at 72 DPI so a point size equals a pixel size.
const fontDPI = 72

type FontAndFace struct {
	Font     *truetype.Font
	Face     font.Face
	baseSize float64
}

type Fonts struct {
	Regular *FontAndFace
	Bold    *FontAndFace
}

type FontConfig struct {
	RegularPath string
	BoldPath    string
	SizeBase    float64 // measurement face size in px
}

func loadFontAndFace(ttfBytes []byte, size float64) (*FontAndFace, error) {
	ft, err := truetype.Parse(ttfBytes)
	if err != nil {
		return nil, err
	}
	return &FontAndFace{
		Font:     ft,
		Face:     newFace(ft, size),
		baseSize: size,
	}, nil
}

func newFace(ft *truetype.Font, size float64) font.Face {
	return truetype.NewFace(ft, &truetype.Options{Size: size, DPI: fontDPI, Hinting: font.HintingFull})
}

// withOwnFace returns a copy of f with a fresh measurement face. A parsed
// truetype.Font is read-only, but the faces built from it cache glyphs and
// must not be shared between goroutines.
func (f *FontAndFace) withOwnFace() *FontAndFace {
	if f == nil || f.Font == nil {
		return f
	}
	return &FontAndFace{Font: f.Font, Face: newFace(f.Font, f.baseSize), baseSize: f.baseSize}
}

func loadFace(path string, bundled []byte, size float64) (*FontAndFace, error) {
	if path == "" {
		return loadFontAndFace(bundled, size)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return loadFontAndFace(b, size)
}

// LoadFonts returns a Fonts set using the provided FontConfig. When no
// custom paths are supplied it falls back to Go's bundled fonts.
func LoadFonts(cfg FontConfig) (Fonts, error) {
	if cfg.SizeBase <= 0 {
		cfg.SizeBase = 14
	}
	var f Fonts
	var err error
	if f.Regular, err = loadFace(cfg.RegularPath, goregular.TTF, cfg.SizeBase); err != nil {
		return f, err
	}
	if f.Bold, err = loadFace(cfg.BoldPath, gobold.TTF, cfg.SizeBase); err != nil {
		return f, err
	}
	return f, nil
}

// forRender returns a Fonts set whose faces belong to a single render.
func (f Fonts) forRender() Fonts {
	return Fonts{Regular: f.Regular.withOwnFace(), Bold: f.Bold.withOwnFace()}
}

func (f Fonts) complete() bool { return f.Regular != nil && f.Bold != nil }

func (f Fonts) pick(bold bool) *FontAndFace {
	if bold {
		return f.Bold
	}
	return f.Regular
}

func measureWidth(fnt *FontAndFace, size float64, s string) float64 {
	if fnt == nil || s == "" {
		return 0
	}
	// font.Drawer measures at the face's own size; scale to the requested one.
	d := font.Drawer{Face: fnt.Face, Src: image.NewUniform(color.Black)}
	width := float64(d.MeasureString(s).Round())
	base := fnt.baseSize
	if base <= 0 {
		base = size
	}
	if size > 0 && base > 0 && size != base {
		width *= size / base
	}
	return width
}

// fitText shortens s with a trailing "..." until it measures at most maxWidth.
func fitText(fnt *FontAndFace, size float64, s string, maxWidth float64) string {
	if maxWidth <= 0 || measureWidth(fnt, size, s) <= maxWidth {
		return s
	}
	r := []rune(strings.TrimSpace(s))
	for len(r) > 0 {
		r = r[:len(r)-1]
		candidate := strings.TrimRight(string(r), " ") + "..."
		if measureWidth(fnt, size, candidate) <= maxWidth {
			return candidate
		}
	}
	return "..."
}
