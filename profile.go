package gh2png

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// DefaultLogin is used when a request names no subject.
const DefaultLogin = "octocat"

// MaxTags bounds the number of badges shown on a tech card.
const MaxTags = 8

// Profile is the subset of an upstream user record the widgets display.
type Profile struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	Location    string `json:"location"`
	Company     string `json:"company"`
	Blog        string `json:"blog"`
	CreatedAt   string `json:"created_at"`

	// Raw is the upstream user object as received, when there was one.
	Raw json.RawMessage `json:"-"`
}

// DisplayName returns the name, or the login when no name is set.
func (p Profile) DisplayName() string {
	if strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return p.Login
}

// Handle is the "@login" line under the display name.
func (p Profile) Handle() string { return "@" + p.Login }

// BlogLabel strips any leading URL scheme for display.
func (p Profile) BlogLabel() string {
	blog := strings.TrimSpace(p.Blog)
	if i := strings.Index(blog, "://"); i != -1 {
		return blog[i+3:]
	}
	return blog
}

// infoRows lists the populated optional rows in display order.
func (p Profile) infoRows() []infoRow {
	var rows []infoRow
	if strings.TrimSpace(p.Location) != "" {
		rows = append(rows, infoRow{kind: infoLocation, text: p.Location})
	}
	if strings.TrimSpace(p.Company) != "" {
		rows = append(rows, infoRow{kind: infoCompany, text: p.Company})
	}
	if strings.TrimSpace(p.Blog) != "" {
		rows = append(rows, infoRow{kind: infoLink, text: p.BlogLabel()})
	}
	return rows
}

type infoKind int

const (
	infoLocation infoKind = iota
	infoCompany
	infoLink
)

type infoRow struct {
	kind infoKind
	text string
}

// Placeholder returns the record substituted when the upstream profile
// cannot be fetched. The login is kept so the card still names the subject.
func Placeholder(login string) Profile {
	if strings.TrimSpace(login) == "" {
		login = DefaultLogin
	}
	return Profile{
		Login:       login,
		Name:        "John Doe",
		AvatarURL:   "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=400&h=400&fit=crop&crop=face",
		Bio:         "Full-stack developer passionate about creating amazing user experiences.",
		PublicRepos: 42,
		Followers:   1250,
		Following:   180,
		Location:    "Paris, France",
		Company:     "Tech Innovation Co.",
		Blog:        "johndoe.dev",
		CreatedAt:   "2020-03-15T10:30:00Z",
	}
}

// PlaceholderTags is the tag list shown when tag derivation cannot reach upstream.
func PlaceholderTags() []Tag {
	return TagsFor([]string{"JavaScript", "TypeScript", "Python", "Go"})
}

// Tag is one technology badge.
type Tag struct {
	Label string `json:"name"`
	Color string `json:"color"`
}

// TagsFor dedupes labels (exact match, first occurrence wins), caps the list
// at MaxTags and attaches each label's colour.
func TagsFor(labels []string) []Tag {
	seen := make(map[string]bool, len(labels))
	tags := make([]Tag, 0, len(labels))
	for _, l := range labels {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		tags = append(tags, Tag{Label: l, Color: TagColor(l)})
		if len(tags) == MaxTags {
			break
		}
	}
	return tags
}

// ParseTechList splits a comma separated override such as "Go, Rust".
// Whitespace around entries is trimmed and empty entries dropped.
func ParseTechList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// BadgeLabel shortens long labels: more than 12 runes become the first 10
// followed by "...".
func BadgeLabel(label string) string {
	if utf8.RuneCountInString(label) <= 12 {
		return label
	}
	r := []rune(label)
	return string(r[:10]) + "..."
}
