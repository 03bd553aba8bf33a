package gh2png

import "image"

// RenderOptions configure how a widget is rendered.
type RenderOptions struct {
	Variant Variant
	Theme   Theme
	Fonts   Fonts
	Images  map[string]image.Image
}

// Render sizes, binds and rasterises one widget. Zero values enable the
// profile variant, the light theme and the bundled fonts.
func Render(p Profile, tags []Tag, opts RenderOptions) (*image.RGBA, error) {
	if (opts.Theme == Theme{}) {
		opts.Theme = lightTheme
	}
	if !opts.Fonts.complete() {
		fonts, err := LoadFonts(FontConfig{})
		if err != nil {
			return nil, err
		}
		opts.Fonts = fonts
	}
	if p.Login == "" {
		p.Login = DefaultLogin
	}
	dims := ComputeSize(p, tags, opts.Variant)
	tree := NewBinder(opts.Fonts).Bind(p, tags, opts.Theme, opts.Variant, dims)
	return Emit(tree, EmitOptions{Fonts: opts.Fonts, Images: opts.Images})
}
