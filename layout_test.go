package gh2png

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestComputeSizeBioMonotonic(t *testing.T) {
	prev := 0
	for n := 0; n <= 400; n += 7 {
		p := Profile{Login: "octocat", Bio: strings.Repeat("x", n)}
		d := ComputeSize(p, nil, VariantProfile)
		if d.Height < prev {
			t.Fatalf("height shrank at bio length %d: %d < %d", n, d.Height, prev)
		}
		if d.Width != CardWidth {
			t.Fatalf("width %d, want %d", d.Width, CardWidth)
		}
		prev = d.Height
	}
}

func TestComputeSizeMinimalProfile(t *testing.T) {
	d := ComputeSize(Profile{Login: "octocat"}, nil, VariantProfile)
	want := headerHeight + statsHeight + 2*CardPadding
	if d.Height != want {
		t.Fatalf("height %d, want header+stats+padding %d", d.Height, want)
	}
}

func TestComputeSizeInfoRows(t *testing.T) {
	base := ComputeSize(Profile{Login: "a"}, nil, VariantProfile).Height
	cases := []struct {
		name string
		p    Profile
		rows int
	}{
		{"location", Profile{Login: "a", Location: "Paris"}, 1},
		{"company and blog", Profile{Login: "a", Company: "Acme", Blog: "https://a.dev"}, 2},
		{"all", Profile{Login: "a", Location: "x", Company: "y", Blog: "z"}, 3},
		{"whitespace only", Profile{Login: "a", Location: "  "}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeSize(tc.p, nil, VariantProfile).Height - base
			want := 0
			if tc.rows > 0 {
				want = tc.rows*infoRowHeight + blockMargin
			}
			if got != want {
				t.Fatalf("info contribution %d, want %d", got, want)
			}
		})
	}
}

func TestComputeSizePlaceholder(t *testing.T) {
	p := Placeholder("ghost")
	d := ComputeSize(p, nil, VariantProfile)
	bio := BioLines(p.Bio)*bioLineHeight + blockMargin
	info := 3*infoRowHeight + blockMargin
	want := headerHeight + bio + info + statsHeight + 2*CardPadding
	if d.Height != want {
		t.Fatalf("placeholder height %d, want %d", d.Height, want)
	}
}

func TestBadgeRows(t *testing.T) {
	for n := 0; n <= 20; n++ {
		want := (n + BadgesPerRow - 1) / BadgesPerRow
		if got := BadgeRows(n); got != want {
			t.Fatalf("BadgeRows(%d) = %d, want %d", n, got, want)
		}
		tags := make([]Tag, n)
		d := ComputeSize(Profile{}, tags, VariantTech)
		if d.Height != techTitleHeight+want*badgeRowHeight+2*CardPadding {
			t.Fatalf("tech height for %d tags: %d", n, d.Height)
		}
	}
	if d := ComputeSize(Profile{}, nil, VariantTech); d.Height != techTitleHeight+2*CardPadding {
		t.Fatalf("empty tech card height %d", d.Height)
	}
}

func TestWrapBioMatchesAllottedLines(t *testing.T) {
	bios := []string{
		"Full-stack developer passionate about creating amazing user experiences.",
		strings.Repeat("word ", 40),
		strings.Repeat("a", 120),
		"short",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb c",
	}
	for _, bio := range bios {
		lines := wrapBio(bio)
		if len(lines) > BioLines(bio) {
			t.Fatalf("bio %q wrapped into %d lines, allotted %d", bio, len(lines), BioLines(bio))
		}
		for _, ln := range lines {
			if utf8.RuneCountInString(ln) > BioCharsPerLine {
				t.Fatalf("line %q longer than %d runes", ln, BioCharsPerLine)
			}
		}
		if strings.Join(strings.Fields(strings.Join(lines, " ")), "") != strings.Join(strings.Fields(bio), "") {
			t.Fatalf("wrapping lost text from %q: %v", bio, lines)
		}
	}
	if lines := wrapBio("   "); lines != nil {
		t.Fatalf("expected no lines for blank bio, got %v", lines)
	}
}

func TestParseVariant(t *testing.T) {
	if v, err := ParseVariant("tech"); err != nil || v != VariantTech {
		t.Fatalf("ParseVariant(tech) = %v, %v", v, err)
	}
	if v, err := ParseVariant(""); err != nil || v != VariantProfile {
		t.Fatalf("ParseVariant(\"\") = %v, %v", v, err)
	}
	if _, err := ParseVariant("banner"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}
