package gh2png

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestPNG(t *testing.T, w io.Writer, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 0xCC, A: 0xFF})
		}
	}
	if err := png.Encode(w, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestAvatarLoaderRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/avatar.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		writeTestPNG(t, w, 120, 80)
	}))
	defer srv.Close()

	l := &AvatarLoader{Client: srv.Client()}
	img, err := l.Load(context.Background(), srv.URL+"/avatar.png")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != AvatarSize || b.Dy() != AvatarSize {
		t.Fatalf("avatar bounds %v, want %dx%d", b, AvatarSize, AvatarSize)
	}

	if _, err := l.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Fatalf("expected error for 404 avatar")
	}
}

func TestAvatarLoaderRemoteSizeCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeTestPNG(t, w, 120, 80)
	}))
	defer srv.Close()

	l := &AvatarLoader{Client: srv.Client(), MaxBytes: 64}
	_, err := l.Load(context.Background(), srv.URL+"/avatar.png")
	if err == nil || !strings.Contains(err.Error(), "exceeds 64 bytes") {
		t.Fatalf("expected size cap error, got %v", err)
	}
}

func TestAvatarLoaderLocal(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "me.png"))
	if err != nil {
		t.Fatal(err)
	}
	writeTestPNG(t, f, 10, 10)
	f.Close()

	l := &AvatarLoader{BaseDir: dir}
	img, err := l.Load(context.Background(), "me.png")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if img.Bounds().Dx() != AvatarSize {
		t.Fatalf("local avatar not resized: %v", img.Bounds())
	}
	if _, err := l.Load(context.Background(), "file://"+filepath.Join(dir, "me.png")); err != nil {
		t.Fatalf("file:// load: %v", err)
	}
}

func TestAvatarLoaderRejects(t *testing.T) {
	l := &AvatarLoader{}
	for _, dest := range []string{"", "  ", "ftp://example.com/a.png"} {
		if _, err := l.Load(context.Background(), dest); err == nil {
			t.Errorf("Load(%q): expected error", dest)
		}
	}
}
