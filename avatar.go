package gh2png

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// DefaultAvatarMaxBytes bounds a remote avatar download.
const DefaultAvatarMaxBytes = 5 << 20

// AvatarLoader fetches avatar images from http(s) URLs or local paths and
// crops them to AvatarSize squares.
type AvatarLoader struct {
	Client  *http.Client
	Timeout time.Duration
	// MaxBytes caps remote downloads; zero means DefaultAvatarMaxBytes.
	MaxBytes int64
	// BaseDir resolves relative local paths.
	BaseDir string
}

type avatarSource func(ctx context.Context, dest string) (image.Image, error)

func (l *AvatarLoader) sources() map[string]avatarSource {
	return map[string]avatarSource{
		"":      l.loadLocal,
		"file":  l.loadLocal,
		"http":  l.loadRemote,
		"https": l.loadRemote,
	}
}

// Load returns the avatar at dest, filled to AvatarSize x AvatarSize.
func (l *AvatarLoader) Load(ctx context.Context, dest string) (image.Image, error) {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return nil, errors.New("gh2png: empty avatar reference")
	}
	scheme := ""
	if idx := strings.Index(dest, "://"); idx != -1 {
		scheme = strings.ToLower(dest[:idx])
	}
	load, ok := l.sources()[scheme]
	if !ok {
		return nil, fmt.Errorf("gh2png: unsupported avatar scheme: %s", scheme)
	}
	img, err := load(ctx, dest)
	if err != nil {
		return nil, err
	}
	return imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos), nil
}

func (l *AvatarLoader) loadLocal(_ context.Context, dest string) (image.Image, error) {
	path := strings.TrimPrefix(dest, "file://")
	if !filepath.IsAbs(path) && l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, path)
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return imaging.Decode(f, imaging.AutoOrientation(true))
}

func (l *AvatarLoader) loadRemote(ctx context.Context, dest string) (image.Image, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dest, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gh2png: fetching avatar %s: %s", dest, resp.Status)
	}
	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultAvatarMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("gh2png: avatar %s exceeds %d bytes", dest, limit)
	}
	return imaging.Decode(bytes.NewReader(data))
}
