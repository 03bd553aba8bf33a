package gh2png

import (
	"errors"
	"image/color"
	"strings"
)

// ---- Styles & theme ----

// Role names a semantic colour slot. Every theme defines every role.
type Role int

const (
	RoleCardBG Role = iota
	RoleCardText
	RoleCardBorder
	RolePrimaryText
	RoleSecondaryText
	RoleBioText
	RoleMutedBG
	RoleTagBG
	RoleTagText
	RoleLink
	roleCount
)

var roleNames = [roleCount]string{
	"card-bg", "card-text", "card-border", "primary-text", "secondary-text",
	"bio-text", "muted-bg", "tag-bg", "tag-text", "link",
}

func (r Role) String() string {
	if r < 0 || r >= roleCount {
		return "unknown"
	}
	return roleNames[r]
}

// Roles lists all roles in declaration order.
func Roles() []Role {
	out := make([]Role, 0, roleCount)
	for r := Role(0); r < roleCount; r++ {
		out = append(out, r)
	}
	return out
}

// Theme is a complete role -> colour mapping.
type Theme struct {
	Name   string
	colors [roleCount]color.RGBA
}

// Color resolves a role. Unknown roles resolve to the card text colour so a
// lookup never yields an undefined value.
func (t Theme) Color(r Role) color.RGBA {
	if r < 0 || r >= roleCount {
		return t.colors[RoleCardText]
	}
	return t.colors[r]
}

// Dark reports whether badges use the flat muted background.
func (t Theme) Dark() bool { return t.Name == "dark" }

func newTheme(name string, hex map[Role]string) Theme {
	t := Theme{Name: name}
	for r := Role(0); r < roleCount; r++ {
		h, ok := hex[r]
		if !ok {
			panic("gh2png: theme " + name + " missing role " + r.String())
		}
		t.colors[r] = mustHex(h)
	}
	return t
}

var (
	lightTheme = newTheme("light", map[Role]string{
		RoleCardBG:        "#ffffff",
		RoleCardText:      "#111827",
		RoleCardBorder:    "#e5e7eb",
		RolePrimaryText:   "#111827",
		RoleSecondaryText: "#4b5563",
		RoleBioText:       "#374151",
		RoleMutedBG:       "#f9fafb",
		RoleTagBG:         "#f3f4f6",
		RoleTagText:       "#1f2937",
		RoleLink:          "#3b82f6",
	})
	darkTheme = newTheme("dark", map[Role]string{
		RoleCardBG:        "#111827",
		RoleCardText:      "#ffffff",
		RoleCardBorder:    "#374151",
		RolePrimaryText:   "#ffffff",
		RoleSecondaryText: "#9ca3af",
		RoleBioText:       "#d1d5db",
		RoleMutedBG:       "#1f2937",
		RoleTagBG:         "#1f2937",
		RoleTagText:       "#e5e7eb",
		RoleLink:          "#3b82f6",
	})
)

// LightTheme and DarkTheme expose the built-in themes for convenience.
var (
	LightTheme = lightTheme
	DarkTheme  = darkTheme
)

// ThemeByName returns a built-in theme by name ("light" or "dark").
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(name) {
	case "light", "":
		return lightTheme, nil
	case "dark":
		return darkTheme, nil
	default:
		return Theme{}, errors.New("unknown theme: " + name)
	}
}
