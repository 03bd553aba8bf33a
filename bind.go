package gh2png

import (
	"image"
	"image/color"
	"strconv"
)

// NodeKind identifies what a Node draws.
type NodeKind int

const (
	NodeRect NodeKind = iota
	NodeCircle
	NodeText
	NodeImage
)

// Align positions a text node relative to X.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Node is one drawing instruction. Colours are already resolved through the
// active theme; a zero Stroke alpha means no outline and a zero Fill alpha
// means an outline-only shape.
type Node struct {
	Kind   NodeKind
	Rect   image.Rectangle
	Radius float32
	Fill   color.RGBA
	Stroke color.RGBA

	// Text nodes.
	Text     string
	Bold     bool
	Size     float64
	X        int
	Baseline int
	Align    Align

	// Image nodes. Fill is drawn instead when Src cannot be resolved.
	Src string
}

// Tree is a bound widget ready for the emitter. Nodes draw in order.
type Tree struct {
	Size    Dimensions
	Theme   string
	Variant Variant
	Nodes   []Node
}

// Texts returns the text of every text node in draw order.
func (t *Tree) Texts() []string {
	var out []string
	for _, n := range t.Nodes {
		if n.Kind == NodeText {
			out = append(out, n.Text)
		}
	}
	return out
}

// Binder maps records onto the fixed widget templates.
type Binder struct {
	fonts Fonts
}

// NewBinder returns a Binder with its own measurement faces. A Binder is not
// safe for concurrent use; the Fonts it is built from may be shared.
func NewBinder(fonts Fonts) *Binder {
	return &Binder{fonts: fonts.forRender()}
}

const (
	nameSize   = 20
	handleSize = 14
	bioSize    = 12
	infoSize   = 13
	statSize   = 16
	statLabel  = 11
	titleSize  = 14
	badgeSize  = 11
	statsGap   = 8
	tileRadius = 6
)

// Bind lays out the widget for v inside dims.
func (b *Binder) Bind(p Profile, tags []Tag, th Theme, v Variant, dims Dimensions) *Tree {
	t := &Tree{Size: dims, Theme: th.Name, Variant: v}
	t.Nodes = append(t.Nodes, Node{
		Kind:   NodeRect,
		Rect:   image.Rect(0, 0, dims.Width, dims.Height),
		Radius: CardRadius,
		Fill:   th.Color(RoleCardBG),
		Stroke: th.Color(RoleCardBorder),
	})
	if v == VariantTech {
		b.bindTech(t, tags, th)
	} else {
		b.bindProfile(t, p, th)
	}
	return t
}

func (b *Binder) text(t *Tree, s string, bold bool, size float64, col color.RGBA, x, baseline int, align Align, maxWidth int) {
	s = fitText(b.fonts.pick(bold), size, s, float64(maxWidth))
	t.Nodes = append(t.Nodes, Node{
		Kind:     NodeText,
		Text:     s,
		Bold:     bold,
		Size:     size,
		Fill:     col,
		X:        x,
		Baseline: baseline,
		Align:    align,
	})
}

func (b *Binder) bindProfile(t *Tree, p Profile, th Theme) {
	left := CardPadding
	right := t.Size.Width - CardPadding
	y := CardPadding

	t.Nodes = append(t.Nodes, Node{
		Kind:   NodeImage,
		Rect:   image.Rect(left, y, left+AvatarSize, y+AvatarSize),
		Radius: AvatarSize / 2,
		Fill:   th.Color(RoleMutedBG),
		Src:    p.AvatarURL,
	})
	textLeft := left + AvatarSize + headerMargin
	b.text(t, p.DisplayName(), true, nameSize, th.Color(RolePrimaryText), textLeft, y+28, AlignLeft, right-textLeft)
	b.text(t, p.Handle(), false, handleSize, th.Color(RoleSecondaryText), textLeft, y+50, AlignLeft, right-textLeft)
	y += headerHeight

	if lines := BioLines(p.Bio); lines > 0 {
		for i, ln := range wrapBio(p.Bio) {
			t.Nodes = append(t.Nodes, Node{
				Kind:     NodeText,
				Text:     ln,
				Size:     bioSize,
				Fill:     th.Color(RoleBioText),
				X:        left,
				Baseline: y + 14 + i*bioLineHeight,
			})
		}
		y += lines*bioLineHeight + blockMargin
	}

	if rows := p.infoRows(); len(rows) > 0 {
		for _, row := range rows {
			b.infoIcon(t, row.kind, th, left, y)
			col := th.Color(RolePrimaryText)
			if row.kind == infoLink {
				col = th.Color(RoleLink)
			}
			b.text(t, row.text, false, infoSize, col, left+20, y+15, AlignLeft, right-left-20)
			y += infoRowHeight
		}
		y += blockMargin
	}

	tileW := (right - left - 2*statsGap) / 3
	stats := []struct {
		value int
		label string
	}{
		{p.PublicRepos, "Repos"},
		{p.Followers, "Followers"},
		{p.Following, "Following"},
	}
	for i, s := range stats {
		x := left + i*(tileW+statsGap)
		t.Nodes = append(t.Nodes, Node{
			Kind:   NodeRect,
			Rect:   image.Rect(x, y, x+tileW, y+statsHeight),
			Radius: tileRadius,
			Fill:   th.Color(RoleMutedBG),
		})
		cx := x + tileW/2
		b.text(t, strconv.Itoa(s.value), true, statSize, th.Color(RolePrimaryText), cx, y+24, AlignCenter, tileW-8)
		b.text(t, s.label, false, statLabel, th.Color(RoleSecondaryText), cx, y+42, AlignCenter, tileW-8)
	}
}

// infoIcon draws the small marker in front of an info row: a dot for the
// location, a square for the company and a ring for the link.
func (b *Binder) infoIcon(t *Tree, kind infoKind, th Theme, x, y int) {
	r := image.Rect(x+2, y+6, x+12, y+16)
	col := th.Color(RoleSecondaryText)
	switch kind {
	case infoLocation:
		t.Nodes = append(t.Nodes, Node{Kind: NodeCircle, Rect: r, Fill: col})
	case infoCompany:
		t.Nodes = append(t.Nodes, Node{Kind: NodeRect, Rect: r, Radius: 2, Fill: col})
	case infoLink:
		t.Nodes = append(t.Nodes, Node{Kind: NodeCircle, Rect: r, Stroke: th.Color(RoleLink)})
	}
}

func (b *Binder) bindTech(t *Tree, tags []Tag, th Theme) {
	left := CardPadding
	right := t.Size.Width - CardPadding
	y := CardPadding

	b.text(t, "Technologies", false, titleSize, th.Color(RolePrimaryText), left, y+16, AlignLeft, right-left)
	y += techTitleHeight

	cellW := (right - left - (BadgesPerRow-1)*badgeGap) / BadgesPerRow
	cardBG := th.Color(RoleCardBG)
	for i, tag := range tags {
		row, col := i/BadgesPerRow, i%BadgesPerRow
		x := left + col*(cellW+badgeGap)
		top := y + row*badgeRowHeight
		base, err := ParseHexColor(tag.Color)
		if err != nil {
			base = mustHex(DefaultTagColor)
		}
		fill := th.Color(RoleTagBG)
		if !th.Dark() {
			fill = withAlpha(base, 0x33, cardBG)
		}
		t.Nodes = append(t.Nodes, Node{
			Kind:   NodeRect,
			Rect:   image.Rect(x, top, x+cellW, top+badgeHeight),
			Radius: badgeHeight / 2,
			Fill:   fill,
			Stroke: withAlpha(base, 0x66, cardBG),
		})
		b.text(t, BadgeLabel(tag.Label), false, badgeSize, th.Color(RoleTagText), x+cellW/2, top+16, AlignCenter, cellW-16)
	}
}
