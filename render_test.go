package gh2png

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"
)

func TestThemesAreTotal(t *testing.T) {
	for _, name := range []string{"light", "dark"} {
		th, err := ThemeByName(name)
		if err != nil {
			t.Fatalf("ThemeByName(%q): %v", name, err)
		}
		for _, r := range Roles() {
			if th.Color(r).A == 0 {
				t.Errorf("%s theme leaves role %s undefined", name, r)
			}
		}
	}
	if _, err := ThemeByName("sepia"); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}

func testFonts(t *testing.T) Fonts {
	t.Helper()
	fonts, err := LoadFonts(FontConfig{})
	if err != nil {
		t.Fatalf("load fonts: %v", err)
	}
	return fonts
}

func TestBindTechDarkUsesFlatBackground(t *testing.T) {
	fonts := testFonts(t)
	tags := TagsFor(ParseTechList("Go,Rust"))
	dims := ComputeSize(Profile{}, tags, VariantTech)
	tree := NewBinder(fonts).Bind(Profile{Login: "octocat"}, tags, DarkTheme, VariantTech, dims)

	var badges []Node
	var labels []string
	for _, n := range tree.Nodes[1:] {
		switch n.Kind {
		case NodeRect:
			badges = append(badges, n)
		case NodeText:
			labels = append(labels, n.Text)
		}
	}
	if len(badges) != 2 {
		t.Fatalf("expected 2 badges, got %d", len(badges))
	}
	for _, b := range badges {
		if b.Fill != DarkTheme.Color(RoleTagBG) {
			t.Errorf("dark badge fill %v, want %v", b.Fill, DarkTheme.Color(RoleTagBG))
		}
	}
	if strings.Join(labels, ",") != "Technologies,Go,Rust" {
		t.Fatalf("labels %v", labels)
	}
}

func TestBindTechLightTintsByTag(t *testing.T) {
	fonts := testFonts(t)
	tags := TagsFor([]string{"Go", "Unknown"})
	dims := ComputeSize(Profile{}, tags, VariantTech)
	tree := NewBinder(fonts).Bind(Profile{}, tags, LightTheme, VariantTech, dims)
	var fills []color.RGBA
	for _, n := range tree.Nodes[1:] {
		if n.Kind == NodeRect {
			fills = append(fills, n.Fill)
		}
	}
	if len(fills) != 2 || fills[0] == fills[1] {
		t.Fatalf("light badges should be tinted per tag, got %v", fills)
	}
	gray := withAlpha(mustHex(DefaultTagColor), 0x33, LightTheme.Color(RoleCardBG))
	if fills[1] != gray {
		t.Fatalf("unknown tag fill %v, want default tint %v", fills[1], gray)
	}
}

func TestBindProfileOmitsMissingFields(t *testing.T) {
	fonts := testFonts(t)
	p := Profile{Login: "octocat", PublicRepos: 0}
	dims := ComputeSize(p, nil, VariantProfile)
	tree := NewBinder(fonts).Bind(p, nil, LightTheme, VariantProfile, dims)
	got := strings.Join(tree.Texts(), "|")
	want := "octocat|@octocat|0|Repos|0|Followers|0|Following"
	if got != want {
		t.Fatalf("texts %q, want %q", got, want)
	}
}

func TestBindProfileFullRecord(t *testing.T) {
	fonts := testFonts(t)
	p := Placeholder("ghost")
	p.Blog = "https://johndoe.dev"
	dims := ComputeSize(p, nil, VariantProfile)
	tree := NewBinder(fonts).Bind(p, nil, DarkTheme, VariantProfile, dims)
	texts := tree.Texts()
	joined := strings.Join(texts, "|")
	for _, want := range []string{"John Doe", "@ghost", "Paris, France", "Tech Innovation Co.", "johndoe.dev", "1250"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in %q", want, joined)
		}
	}
	if strings.Contains(joined, "https://") {
		t.Errorf("link scheme should be stripped: %q", joined)
	}
	for _, n := range tree.Nodes {
		if n.Kind == NodeText && n.Baseline >= dims.Height {
			t.Errorf("text %q at baseline %d falls outside height %d", n.Text, n.Baseline, dims.Height)
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	fonts := testFonts(t)
	avatar := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := range avatar.Pix {
		avatar.Pix[i] = 0x80
	}
	p := Placeholder("ghost")
	opts := RenderOptions{Theme: DarkTheme, Fonts: fonts, Images: map[string]image.Image{p.AvatarURL: avatar}}

	encode := func() []byte {
		img, err := Render(p, nil, opts)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		dims := ComputeSize(p, nil, VariantProfile)
		if img.Bounds().Dx() != dims.Width || img.Bounds().Dy() != dims.Height {
			t.Fatalf("image %v, want %dx%d", img.Bounds(), dims.Width, dims.Height)
		}
		var buf bytes.Buffer
		if err := EncodePNG(&buf, img); err != nil {
			t.Fatalf("encode: %v", err)
		}
		return buf.Bytes()
	}
	if !bytes.Equal(encode(), encode()) {
		t.Fatalf("identical input produced different PNG bytes")
	}
}

func TestRenderSharedFontsConcurrently(t *testing.T) {
	fonts := testFonts(t)
	tags := TagsFor(ParseTechList("Go,Rust,TypeScript,JavaScript,Kubernetes"))
	p := Profile{Login: "octocat", Name: "The Octocat", Bio: "Building things with a very long biography line"}
	render := func(v Variant) []byte {
		img, err := Render(p, tags, RenderOptions{Variant: v, Theme: DarkTheme, Fonts: fonts})
		if err != nil {
			t.Errorf("render %s: %v", v, err)
			return nil
		}
		return img.Pix
	}
	want := map[Variant][]byte{VariantProfile: render(VariantProfile), VariantTech: render(VariantTech)}

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		v := VariantProfile
		if i%2 == 0 {
			v = VariantTech
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := render(v); !bytes.Equal(got, want[v]) {
				t.Errorf("%s render differs when run concurrently", v)
			}
		}()
	}
	wg.Wait()
}

func TestFontsForRenderOwnFaces(t *testing.T) {
	fonts := testFonts(t)
	own := fonts.forRender()
	if own.Regular.Face == fonts.Regular.Face || own.Bold.Face == fonts.Bold.Face {
		t.Fatalf("forRender reused the shared faces")
	}
	if own.Regular.Font != fonts.Regular.Font {
		t.Fatalf("forRender should keep the parsed font")
	}
	if a, b := measureWidth(own.Regular, 14, "octocat"), measureWidth(fonts.Regular, 14, "octocat"); a != b {
		t.Fatalf("widths differ: %v vs %v", a, b)
	}
}

func TestRenderCornersTransparent(t *testing.T) {
	img, err := Render(Profile{Login: "octocat"}, nil, RenderOptions{Fonts: testFonts(t)})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if a := img.RGBAAt(0, 0).A; a != 0 {
		t.Fatalf("corner alpha %d, want 0", a)
	}
	mid := img.RGBAAt(img.Bounds().Dx()/2, img.Bounds().Dy()-3)
	want := LightTheme.Color(RoleCardBG)
	near := func(a, b uint8) bool { return int(a)+2 >= int(b) && int(b)+2 >= int(a) }
	if !near(mid.R, want.R) || !near(mid.G, want.G) || !near(mid.B, want.B) || mid.A < 0xFD {
		t.Fatalf("card body %v, want card background %v", mid, want)
	}
}

func TestEmitRejectsEmptyTree(t *testing.T) {
	if _, err := Emit(nil, EmitOptions{}); err == nil {
		t.Fatalf("expected error for nil tree")
	}
	if _, err := Emit(&Tree{}, EmitOptions{}); err == nil {
		t.Fatalf("expected error for zero dimensions")
	}
}

func TestFitText(t *testing.T) {
	fonts := testFonts(t)
	long := strings.Repeat("wide ", 30)
	got := fitText(fonts.Regular, 14, long, 100)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if w := measureWidth(fonts.Regular, 14, got); w > 100 {
		t.Fatalf("fitted text measures %v > 100", w)
	}
	if got := fitText(fonts.Regular, 14, "Go", 100); got != "Go" {
		t.Fatalf("short text changed: %q", got)
	}
}
