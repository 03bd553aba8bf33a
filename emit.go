package gh2png

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/golang/freetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// ---- Layout primitives ----

type canvas struct {
	img   *image.RGBA
	dc    *freetype.Context
	w, h  int
	fonts Fonts
}

func newCanvas(size Dimensions, fonts Fonts) *canvas {
	// Transparent outside the card's rounded corners.
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	dc := freetype.NewContext()
	dc.SetDPI(fontDPI)
	dc.SetClip(img.Bounds())
	dc.SetDst(img)
	return &canvas{img: img, dc: dc, w: size.Width, h: size.Height, fonts: fonts}
}

func (c *canvas) setFace(fnt *FontAndFace, col color.Color, size float64) {
	c.dc.SetFontSize(size)
	c.dc.SetSrc(image.NewUniform(col))
	c.dc.SetFont(fnt.Font)
}

// roundedRect adds a rounded rectangle subpath. Corners use the cubic
// approximation of a quarter circle.
func roundedRect(r *vector.Rasterizer, rect image.Rectangle, radius float32) {
	x0, y0 := float32(rect.Min.X), float32(rect.Min.Y)
	x1, y1 := float32(rect.Max.X), float32(rect.Max.Y)
	if limit := min(x1-x0, y1-y0) / 2; radius > limit {
		radius = limit
	}
	if radius < 0 {
		radius = 0
	}
	const k = float32(0.5522847498)
	kr := k * radius
	r.MoveTo(x0+radius, y0)
	r.LineTo(x1-radius, y0)
	r.CubeTo(x1-radius+kr, y0, x1, y0+radius-kr, x1, y0+radius)
	r.LineTo(x1, y1-radius)
	r.CubeTo(x1, y1-radius+kr, x1-radius+kr, y1, x1-radius, y1)
	r.LineTo(x0+radius, y1)
	r.CubeTo(x0+radius-kr, y1, x0, y1-radius+kr, x0, y1-radius)
	r.LineTo(x0, y0+radius)
	r.CubeTo(x0, y0+radius-kr, x0+radius-kr, y0, x0+radius, y0)
	r.ClosePath()
}

// ellipse adds an axis-aligned ellipse inscribed in rect. Clockwise paths
// cancel counter-clockwise ones, which is how rings are cut.
func ellipse(r *vector.Rasterizer, rect image.Rectangle, clockwise bool) {
	cx := float32(rect.Min.X+rect.Max.X) / 2
	cy := float32(rect.Min.Y+rect.Max.Y) / 2
	rx := float32(rect.Dx()) / 2
	ry := float32(rect.Dy()) / 2
	const k = float32(0.5522847498)
	kx, ky := k*rx, k*ry
	r.MoveTo(cx, cy-ry)
	if clockwise {
		r.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
		r.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
		r.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
		r.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	} else {
		r.CubeTo(cx-kx, cy-ry, cx-rx, cy-ky, cx-rx, cy)
		r.CubeTo(cx-rx, cy+ky, cx-kx, cy+ry, cx, cy+ry)
		r.CubeTo(cx+kx, cy+ry, cx+rx, cy+ky, cx+rx, cy)
		r.CubeTo(cx+rx, cy-ky, cx+kx, cy-ry, cx, cy-ry)
	}
	r.ClosePath()
}

func (c *canvas) fillShape(col color.RGBA, add func(r *vector.Rasterizer)) {
	if col.A == 0 {
		return
	}
	r := vector.NewRasterizer(c.w, c.h)
	r.DrawOp = draw.Over
	add(r)
	r.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

func (c *canvas) drawRect(n Node) {
	if n.Stroke.A != 0 {
		c.fillShape(n.Stroke, func(r *vector.Rasterizer) { roundedRect(r, n.Rect, n.Radius) })
		c.fillShape(n.Fill, func(r *vector.Rasterizer) { roundedRect(r, n.Rect.Inset(1), n.Radius-1) })
		return
	}
	c.fillShape(n.Fill, func(r *vector.Rasterizer) { roundedRect(r, n.Rect, n.Radius) })
}

func (c *canvas) drawCircle(n Node) {
	if n.Fill.A != 0 {
		c.fillShape(n.Fill, func(r *vector.Rasterizer) { ellipse(r, n.Rect, false) })
	}
	if n.Stroke.A != 0 {
		c.fillShape(n.Stroke, func(r *vector.Rasterizer) {
			ellipse(r, n.Rect, false)
			ellipse(r, n.Rect.Inset(2), true)
		})
	}
}

func (c *canvas) drawText(n Node) error {
	fnt := c.fonts.pick(n.Bold)
	c.setFace(fnt, n.Fill, n.Size)
	x := n.X
	if n.Align == AlignCenter {
		x -= int(measureWidth(fnt, n.Size, n.Text)) / 2
	}
	_, err := c.dc.DrawString(n.Text, freetype.Pt(x, n.Baseline))
	return err
}

func (c *canvas) drawImage(n Node, src image.Image) {
	if n.Rect.Empty() {
		return
	}
	if src == nil {
		c.drawCircle(Node{Rect: n.Rect, Fill: n.Fill})
		return
	}
	img := scaleImageTo(src, n.Rect.Dx(), n.Rect.Dy())
	mask := image.NewAlpha(image.Rect(0, 0, n.Rect.Dx(), n.Rect.Dy()))
	r := vector.NewRasterizer(mask.Bounds().Dx(), mask.Bounds().Dy())
	if n.Radius*2 >= float32(min(n.Rect.Dx(), n.Rect.Dy())) {
		ellipse(r, mask.Bounds(), false)
	} else {
		roundedRect(r, mask.Bounds(), n.Radius)
	}
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(c.img, n.Rect, img, img.Bounds().Min, mask, image.Point{}, draw.Over)
}

// scaleImageTo resizes img to exactly w x h unless it already has that size.
func scaleImageTo(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// ---- Library entry points ----

// EmitOptions configure how a bound Tree is rasterised.
type EmitOptions struct {
	Fonts Fonts
	// Images resolves image node sources, typically the avatar. Missing
	// entries draw the node's fallback fill.
	Images map[string]image.Image
}

// Emit rasterises t into an image exactly t.Size pixels large. Identical
// inputs produce identical pixels.
func Emit(t *Tree, opts EmitOptions) (*image.RGBA, error) {
	if t == nil {
		return nil, errors.New("gh2png: nil tree")
	}
	if t.Size.Width <= 0 || t.Size.Height <= 0 {
		return nil, fmt.Errorf("gh2png: invalid dimensions %dx%d", t.Size.Width, t.Size.Height)
	}
	if !opts.Fonts.complete() {
		fallback, err := LoadFonts(FontConfig{})
		if err != nil {
			return nil, err
		}
		if opts.Fonts.Regular == nil {
			opts.Fonts.Regular = fallback.Regular
		}
		if opts.Fonts.Bold == nil {
			opts.Fonts.Bold = fallback.Bold
		}
	}
	c := newCanvas(t.Size, opts.Fonts.forRender())
	for _, n := range t.Nodes {
		switch n.Kind {
		case NodeRect:
			c.drawRect(n)
		case NodeCircle:
			c.drawCircle(n)
		case NodeText:
			if err := c.drawText(n); err != nil {
				return nil, fmt.Errorf("gh2png: draw %q: %w", n.Text, err)
			}
		case NodeImage:
			c.drawImage(n, opts.Images[n.Src])
		}
	}
	return c.img, nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
