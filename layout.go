package gh2png

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Variant selects which widget is drawn.
type Variant int

const (
	VariantProfile Variant = iota
	VariantTech
)

func (v Variant) String() string {
	switch v {
	case VariantProfile:
		return "profile"
	case VariantTech:
		return "tech"
	}
	return "unknown"
}

// ParseVariant accepts "profile" or "tech".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "profile", "":
		return VariantProfile, nil
	case "tech":
		return VariantTech, nil
	}
	return 0, fmt.Errorf("unknown variant: %s", s)
}

// Dimensions is the pixel size of a rendered widget.
type Dimensions struct {
	Width  int
	Height int
}

// Layout metrics. Heights are in pixels.
const (
	CardWidth   = 384
	CardPadding = 24
	CardRadius  = 8

	AvatarSize   = 64
	headerMargin = 16
	headerHeight = AvatarSize + headerMargin

	BioCharsPerLine = 50
	bioLineHeight   = 20
	blockMargin     = 16

	infoRowHeight = 22
	statsHeight   = 52

	techTitleHeight = 35
	BadgesPerRow    = 3
	badgeRowHeight  = 28
	badgeHeight     = 24
	badgeGap        = 8
)

// BioLines is the number of lines the bio is allotted: one per
// BioCharsPerLine runes, rounded up. It estimates wrapping from length
// alone and does not measure glyphs.
func BioLines(bio string) int {
	n := utf8.RuneCountInString(strings.TrimSpace(bio))
	return ceilDiv(n, BioCharsPerLine)
}

// BadgeRows is the number of badge rows needed for n tags.
func BadgeRows(n int) int {
	if n < 0 {
		n = 0
	}
	return ceilDiv(n, BadgesPerRow)
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

// ComputeSize derives the widget size from its content. Width is fixed;
// height accumulates header, bio, info rows, stats and padding for the
// profile card, or title and badge rows for the tech card.
func ComputeSize(p Profile, tags []Tag, v Variant) Dimensions {
	h := 0
	switch v {
	case VariantTech:
		h += techTitleHeight
		h += BadgeRows(len(tags)) * badgeRowHeight
	default:
		h += headerHeight
		if lines := BioLines(p.Bio); lines > 0 {
			h += lines*bioLineHeight + blockMargin
		}
		if rows := len(p.infoRows()); rows > 0 {
			h += rows*infoRowHeight + blockMargin
		}
		h += statsHeight
	}
	h += 2 * CardPadding
	return Dimensions{Width: CardWidth, Height: h}
}

// wrapBio splits the bio into exactly BioLines(bio) lines. Word wrapping is
// tried first; when that needs more lines than allotted, the text is cut
// every BioCharsPerLine runes instead.
func wrapBio(bio string) []string {
	bio = strings.Join(strings.Fields(bio), " ")
	want := BioLines(bio)
	if want == 0 {
		return nil
	}
	if lines := wordWrap(bio, BioCharsPerLine); len(lines) <= want {
		return lines
	}
	r := []rune(bio)
	lines := make([]string, 0, want)
	for len(r) > 0 {
		n := BioCharsPerLine
		if n > len(r) {
			n = len(r)
		}
		lines = append(lines, strings.TrimSpace(string(r[:n])))
		r = r[n:]
	}
	return lines
}

func wordWrap(text string, perLine int) []string {
	var lines []string
	var line []rune
	for _, w := range strings.Fields(text) {
		wr := []rune(w)
		for len(wr) > perLine {
			if len(line) > 0 {
				lines = append(lines, string(line))
				line = nil
			}
			lines = append(lines, string(wr[:perLine]))
			wr = wr[perLine:]
		}
		switch {
		case len(line) == 0:
			line = append(line, wr...)
		case len(line)+1+len(wr) <= perLine:
			line = append(line, ' ')
			line = append(line, wr...)
		default:
			lines = append(lines, string(line))
			line = append([]rune(nil), wr...)
		}
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}
