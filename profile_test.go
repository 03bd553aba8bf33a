package gh2png

import (
	"reflect"
	"testing"
)

func TestTagsForDedupesInOrder(t *testing.T) {
	tags := TagsFor([]string{"JavaScript", "TypeScript", "JavaScript"})
	var labels []string
	for _, tag := range tags {
		labels = append(labels, tag.Label)
	}
	if want := []string{"JavaScript", "TypeScript"}; !reflect.DeepEqual(labels, want) {
		t.Fatalf("labels %v, want %v", labels, want)
	}
}

func TestTagsForCaseSensitive(t *testing.T) {
	tags := TagsFor([]string{"Python", "python"})
	if len(tags) != 2 {
		t.Fatalf("expected Python and python to stay distinct, got %v", tags)
	}
	if tags[0].Color != "#3776AB" {
		t.Errorf("Python colour %s", tags[0].Color)
	}
	if tags[1].Color != DefaultTagColor {
		t.Errorf("python should fall back to the default colour, got %s", tags[1].Color)
	}
}

func TestTagsForCapsAtMax(t *testing.T) {
	langs := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}
	tags := TagsFor(langs)
	if len(tags) != MaxTags {
		t.Fatalf("got %d tags, want %d", len(tags), MaxTags)
	}
	for i, tag := range tags {
		if tag.Label != langs[i] {
			t.Fatalf("tag %d is %q, want %q", i, tag.Label, langs[i])
		}
	}
}

func TestParseTechList(t *testing.T) {
	got := ParseTechList(" Go, Rust,,  ")
	if want := []string{"Go", "Rust"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseTechList = %v, want %v", got, want)
	}
	if got := ParseTechList(""); got != nil {
		t.Fatalf("expected nil for empty list, got %v", got)
	}
}

func TestBadgeLabel(t *testing.T) {
	cases := map[string]string{
		"Go":                "Go",
		"TypeScript":        "TypeScript",
		"abcdefghijkl":      "abcdefghijkl",
		"Tailwind CSS!":     "Tailwind C...",
		"Visual Basic .NET": "Visual Bas...",
	}
	for in, want := range cases {
		if got := BadgeLabel(in); got != want {
			t.Errorf("BadgeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProfileDisplay(t *testing.T) {
	p := Profile{Login: "octocat", Blog: "https://github.blog"}
	if p.DisplayName() != "octocat" {
		t.Errorf("display name fallback: %q", p.DisplayName())
	}
	if p.Handle() != "@octocat" {
		t.Errorf("handle: %q", p.Handle())
	}
	if p.BlogLabel() != "github.blog" {
		t.Errorf("blog label: %q", p.BlogLabel())
	}
	if (Profile{Blog: "johndoe.dev"}).BlogLabel() != "johndoe.dev" {
		t.Errorf("bare domain should be unchanged")
	}
}

func TestPlaceholderDefaultsLogin(t *testing.T) {
	if got := Placeholder("").Login; got != DefaultLogin {
		t.Fatalf("placeholder login %q, want %q", got, DefaultLogin)
	}
	p := Placeholder("ghost")
	if p.Login != "ghost" || p.Bio == "" || p.Location == "" || p.Company == "" || p.Blog == "" {
		t.Fatalf("placeholder should populate every optional field: %+v", p)
	}
}

func TestTechnologyForLanguage(t *testing.T) {
	tech, ok := TechnologyForLanguage("Shell")
	if !ok || tech.Name != "Bash" || tech.Color != "#4EAA25" {
		t.Fatalf("Shell mapped to %+v, %v", tech, ok)
	}
	if _, ok := TechnologyForLanguage("Brainfuck"); ok {
		t.Fatalf("unmapped language should report false")
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#00ADD8")
	if err != nil || c.R != 0x00 || c.G != 0xAD || c.B != 0xD8 || c.A != 0xFF {
		t.Fatalf("ParseHexColor = %v, %v", c, err)
	}
	if c, err := ParseHexColor("#fff"); err != nil || c.R != 0xFF {
		t.Fatalf("short form = %v, %v", c, err)
	}
	if _, err := ParseHexColor("#12"); err == nil {
		t.Fatalf("expected error for bad colour")
	}
}
