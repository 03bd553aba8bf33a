package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/arran4/gh2png"
	"github.com/arran4/gh2png/internal/resolver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renderVariant  string
	renderUsername string
	renderTheme    string
	renderTech     string
	renderOut      string
	renderAvatar   string
	renderOffline  bool
	renderFont     string
	renderFontBold string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one card to a PNG or JPEG file",
	Long: `Render resolves a user the same way the HTTP service does (falling back
to placeholder data when GitHub cannot be reached) and writes the card:

  gh2png render --variant tech --username octocat --theme dark --tech Go,Rust --out tech.png`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderVariant, "variant", "profile", "Card variant: profile or tech")
	renderCmd.Flags().StringVar(&renderUsername, "username", gh2png.DefaultLogin, "GitHub username")
	renderCmd.Flags().StringVar(&renderTheme, "theme", "light", "Theme: light|dark")
	renderCmd.Flags().StringVar(&renderTech, "tech", "", "Comma separated badge override for the tech card")
	renderCmd.Flags().StringVar(&renderOut, "out", "card.png", "Output image file (.png or .jpg)")
	renderCmd.Flags().StringVar(&renderAvatar, "avatar", "", "Avatar path or URL (default: the profile's avatar)")
	renderCmd.Flags().BoolVar(&renderOffline, "offline", false, "Skip GitHub and render the placeholder record")
	renderCmd.Flags().StringVar(&renderFont, "font", "", "Path to TTF for regular text (optional; default Go Regular)")
	renderCmd.Flags().StringVar(&renderFontBold, "fontbold", "", "Path to TTF for bold text (optional; default Go Bold)")
}

func runRender(cmd *cobra.Command, args []string) error {
	variant, err := gh2png.ParseVariant(renderVariant)
	if err != nil {
		return err
	}
	th, err := gh2png.ThemeByName(renderTheme)
	if err != nil {
		return err
	}
	fonts, err := gh2png.LoadFonts(gh2png.FontConfig{RegularPath: renderFont, BoldPath: renderFontBold})
	if err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	req := resolver.TagRequest{}
	if variant == gh2png.VariantTech {
		req = resolver.TagRequest{Want: true, Override: gh2png.ParseTechList(renderTech)}
	}
	var res resolver.Resolution
	if renderOffline {
		res = resolver.Resolution{Profile: gh2png.Placeholder(renderUsername), Degraded: true}
		switch {
		case len(req.Override) > 0:
			res.Tags = gh2png.TagsFor(req.Override)
		case req.Want:
			res.Tags = gh2png.PlaceholderTags()
		}
	} else {
		res = newResolver(ctx).Resolve(ctx, renderUsername, req)
		if res.Degraded {
			fmt.Fprintf(cmd.ErrOrStderr(), "gh2png: using placeholder data: %v\n", res.Reason)
		}
	}

	var images map[string]image.Image
	if variant == gh2png.VariantProfile {
		src := res.Profile.AvatarURL
		if renderAvatar != "" {
			src = renderAvatar
			res.Profile.AvatarURL = renderAvatar
		}
		loader := &gh2png.AvatarLoader{Timeout: cfg.Avatar.Timeout}
		if avatar, err := loader.Load(ctx, src); err != nil {
			logger.Warn("avatar unavailable", zap.String("avatar", src), zap.Error(err))
		} else {
			images = map[string]image.Image{src: avatar}
		}
	}

	img, err := gh2png.Render(res.Profile, res.Tags, gh2png.RenderOptions{
		Variant: variant,
		Theme:   th,
		Fonts:   fonts,
		Images:  images,
	})
	if err != nil {
		return err
	}

	file, err := os.Create(renderOut)
	if err != nil {
		return err
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(renderOut))
	switch ext {
	case ".png":
		err = gh2png.EncodePNG(file, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 92})
	default:
		err = errors.New("unsupported output extension: " + ext)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", renderOut, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}
