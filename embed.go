package gh2png

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// EmbedOptions describe the widgets a README snippet links to.
type EmbedOptions struct {
	BaseURL string
	Login   string
	Theme   string
	Tech    []string
}

// WidgetURL returns the image URL for one variant.
func (o EmbedOptions) WidgetURL(v Variant) string {
	q := url.Values{}
	login := o.Login
	if login == "" {
		login = DefaultLogin
	}
	q.Set("username", login)
	theme := o.Theme
	if theme == "" {
		theme = "light"
	}
	q.Set("theme", theme)
	if v == VariantTech && len(o.Tech) > 0 {
		q.Set("tech", strings.Join(o.Tech, ","))
	}
	return strings.TrimRight(o.BaseURL, "/") + "/api/" + v.String() + "?" + q.Encode()
}

// EmbedMarkdown is the snippet pasted into a README to show both widgets.
func EmbedMarkdown(o EmbedOptions) string {
	return "![GitHub Profile Widget](" + o.WidgetURL(VariantProfile) + ")\n" +
		"![GitHub Tech Widget](" + o.WidgetURL(VariantTech) + ")\n"
}

var embedMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// MarkdownToHTML renders a snippet the way a README host would.
func MarkdownToHTML(md []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := embedMarkdown.Convert(md, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
