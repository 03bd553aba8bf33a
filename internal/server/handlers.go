package server

import (
	"bytes"
	"image"
	"net/http"
	"strings"
	"time"

	"github.com/arran4/gh2png"
	"github.com/arran4/gh2png/internal/github"
	"github.com/arran4/gh2png/internal/resolver"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const imageCacheControl = "public, max-age=300"

// widgetQuery holds the query parameters shared by the image endpoints.
type widgetQuery struct {
	login string
	theme gh2png.Theme
	tech  []string
}

func parseWidgetQuery(c *gin.Context) widgetQuery {
	q := widgetQuery{login: strings.TrimSpace(c.Query("username"))}
	if q.login == "" {
		q.login = gh2png.DefaultLogin
	}
	th, err := gh2png.ThemeByName(c.Query("theme"))
	if err != nil {
		th = gh2png.LightTheme
	}
	q.theme = th
	q.tech = gh2png.ParseTechList(c.Query("tech"))
	return q
}

func (s *Server) renderProfile(c *gin.Context) { s.renderWidget(c, gh2png.VariantProfile) }

func (s *Server) renderTech(c *gin.Context) { s.renderWidget(c, gh2png.VariantTech) }

func (s *Server) renderWidget(c *gin.Context, v gh2png.Variant) {
	q := parseWidgetQuery(c)
	ctx := c.Request.Context()

	req := resolver.TagRequest{}
	if v == gh2png.VariantTech {
		req = resolver.TagRequest{Want: true, Override: q.tech}
	}
	res := s.opts.Resolver.Resolve(ctx, q.login, req)

	source := "live"
	if res.Degraded {
		source = "placeholder"
		upstreamErrorsTotal.WithLabelValues(github.AsAPIError(res.Reason, q.login).Kind.String()).Inc()
	}

	var images map[string]image.Image
	if v == gh2png.VariantProfile && s.opts.Avatars != nil && res.Profile.AvatarURL != "" {
		avatar, err := s.opts.Avatars.Load(ctx, res.Profile.AvatarURL)
		if err != nil {
			s.logger.Debug("avatar unavailable",
				zap.String("username", q.login),
				zap.String("avatar_url", res.Profile.AvatarURL),
				zap.Error(err),
			)
		} else {
			images = map[string]image.Image{res.Profile.AvatarURL: avatar}
		}
	}

	start := time.Now()
	img, err := gh2png.Render(res.Profile, res.Tags, gh2png.RenderOptions{
		Variant: v,
		Theme:   q.theme,
		Fonts:   s.opts.Fonts,
		Images:  images,
	})
	var buf bytes.Buffer
	if err == nil {
		err = gh2png.EncodePNG(&buf, img)
	}
	if err != nil {
		s.logger.Error("render failed",
			zap.String("variant", v.String()),
			zap.String("username", q.login),
			zap.Error(err),
		)
		c.String(http.StatusInternalServerError, "Failed to generate image")
		return
	}
	renderDuration.WithLabelValues(v.String()).Observe(time.Since(start).Seconds())
	rendersTotal.WithLabelValues(v.String(), source).Inc()

	c.Header("Cache-Control", imageCacheControl)
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// writeUpstreamError answers a JSON endpoint with a classified upstream failure.
func (s *Server) writeUpstreamError(c *gin.Context, err error, login string) {
	apiErr := github.AsAPIError(err, login)
	upstreamErrorsTotal.WithLabelValues(apiErr.Kind.String()).Inc()
	s.logger.Warn("upstream error",
		zap.String("path", c.FullPath()),
		zap.String("username", login),
		zap.String("kind", apiErr.Kind.String()),
		zap.Error(err),
	)
	c.JSON(apiErr.HTTPStatus(), gin.H{"error": apiErr.Message()})
}

func loginParam(c *gin.Context) string {
	if login := strings.TrimSpace(c.Query("username")); login != "" {
		return login
	}
	return gh2png.DefaultLogin
}

func (s *Server) getUser(c *gin.Context) {
	login := loginParam(c)
	res := s.opts.Resolver.Resolve(c.Request.Context(), login, resolver.TagRequest{})
	if res.Degraded {
		s.writeUpstreamError(c, res.Reason, login)
		return
	}
	if len(res.Profile.Raw) > 0 {
		c.Data(http.StatusOK, "application/json; charset=utf-8", res.Profile.Raw)
		return
	}
	c.JSON(http.StatusOK, res.Profile)
}

func (s *Server) getUserTech(c *gin.Context) {
	login := loginParam(c)
	report, err := s.opts.Resolver.Report(c.Request.Context(), login)
	if err != nil {
		s.writeUpstreamError(c, err, login)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) getEmbed(c *gin.Context) {
	q := parseWidgetQuery(c)
	md := gh2png.EmbedMarkdown(gh2png.EmbedOptions{
		BaseURL: s.publicURL(c),
		Login:   q.login,
		Theme:   q.theme.Name,
		Tech:    q.tech,
	})

	switch c.DefaultQuery("format", "markdown") {
	case "markdown", "md":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
	case "html":
		html, err := gh2png.MarkdownToHTML([]byte(md))
		if err != nil {
			s.logger.Error("embed conversion failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render snippet"})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", html)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be markdown or html"})
	}
}

func (s *Server) publicURL(c *gin.Context) string {
	if s.opts.PublicURL != "" {
		return s.opts.PublicURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if p := c.GetHeader("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + c.Request.Host
}
